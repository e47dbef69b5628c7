package forms

import (
	"net/http"

	"github.com/findora/findora/internal/imaging"
)

// FoundItem is the create/edit form for a found item. A nil field is not
// sent: on create it stays unset, on edit the stored value is kept. Photo
// is attached only when the admin picked a file.
type FoundItem struct {
	Name          *string `json:"name" validate:"omitempty,nonblank,max=200"`
	Brand         *string `json:"brand" validate:"omitempty,max=100"`
	Color         *string `json:"color" validate:"omitempty,max=50"`
	Category      *string `json:"category" validate:"omitempty,category"`
	LocationFound *string `json:"locationFound" validate:"omitempty,nonblank,max=200"`
	FoundDate     *string `json:"foundDate" validate:"omitempty,date"`
	Description   *string `json:"description" validate:"omitempty,max=2000"`
	Status        *string `json:"status" validate:"omitempty,itemstatus"`
	Photo         *Photo  `json:"-"`
}

// Photo is an image file picked for upload.
type Photo struct {
	Filename    string
	ContentType string
	Data        []byte
}

// DetectedType returns ContentType, sniffing the data when it is empty.
func (p *Photo) DetectedType() string {
	if p.ContentType != "" {
		return p.ContentType
	}
	return http.DetectContentType(p.Data)
}

// Empty reports whether no field and no photo is set.
func (f FoundItem) Empty() bool {
	return f.Name == nil && f.Brand == nil && f.Color == nil && f.Category == nil &&
		f.LocationFound == nil && f.FoundDate == nil && f.Description == nil &&
		f.Status == nil && f.Photo == nil
}

// ValidateCreate checks a new item: name, category, location and date are
// required.
func (f FoundItem) ValidateCreate() error {
	var missing []FieldError
	required := []struct {
		field string
		value *string
	}{
		{"name", f.Name},
		{"category", f.Category},
		{"locationFound", f.LocationFound},
		{"foundDate", f.FoundDate},
	}
	for _, r := range required {
		if r.value == nil {
			missing = append(missing, FieldError{Field: r.field, Message: "is required"})
		}
	}
	return check(f, append(missing, f.photoErrors()...)...)
}

// ValidateUpdate checks an edit. Every field is optional but those present
// must be valid.
func (f FoundItem) ValidateUpdate() error {
	return check(f, f.photoErrors()...)
}

func (f FoundItem) photoErrors() []FieldError {
	if f.Photo == nil {
		return nil
	}
	if len(f.Photo.Data) == 0 {
		return []FieldError{{Field: "photo", Message: "is empty"}}
	}
	if len(f.Photo.Data) > imaging.MaxUploadBytes {
		return []FieldError{{Field: "photo", Message: "must be at most 5 MB"}}
	}
	if !imaging.AllowedMIME[f.Photo.DetectedType()] {
		return []FieldError{{Field: "photo", Message: "must be a JPEG or PNG image"}}
	}
	return nil
}
