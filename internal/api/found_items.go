package api

import (
	"bytes"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/findora/findora/internal/forms"
	"github.com/findora/findora/internal/imaging"
	"github.com/findora/findora/internal/model"
	"github.com/findora/findora/internal/photos"
	"github.com/findora/findora/internal/store"
)

// FoundItemsHandler handles found item endpoints.
type FoundItemsHandler struct {
	DB     *sql.DB
	Photos photos.Store
}

// maxFormBytes bounds the whole multipart body: the photo plus text fields.
const maxFormBytes = imaging.MaxUploadBytes + 1<<20

// List handles GET /api/found-items.
func (h *FoundItemsHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := store.ListFoundItems(r.Context(), h.DB)
	if err != nil {
		slog.Error("listing found items", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to list found items")
		return
	}
	if items == nil {
		items = []model.FoundItem{}
	}
	jsonResponse(w, http.StatusOK, items)
}

// Get handles GET /api/found-items/{id}.
func (h *FoundItemsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	item, err := store.GetFoundItem(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get found item")
		return
	}
	if item == nil {
		jsonError(w, http.StatusNotFound, "found item not found")
		return
	}

	jsonResponse(w, http.StatusOK, item)
}

// Create handles POST /api/found-items.
func (h *FoundItemsHandler) Create(w http.ResponseWriter, r *http.Request) {
	form, err := parseFoundItemForm(w, r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := form.ValidateCreate(); err != nil {
		validationError(w, err)
		return
	}

	item := &model.FoundItem{
		Name:          strings.TrimSpace(*form.Name),
		Category:      *form.Category,
		LocationFound: strings.TrimSpace(*form.LocationFound),
		Brand:         deref(form.Brand),
		Color:         deref(form.Color),
		Description:   deref(form.Description),
		Status:        deref(form.Status),
	}
	// Validated above.
	item.FoundDate, _ = model.ParseDate(*form.FoundDate)
	if claims := GetClaims(r.Context()); claims != nil {
		item.AdminID = &claims.AdminID
	}

	if form.Photo != nil {
		url, status, err := h.storePhoto(r, form.Photo)
		if err != nil {
			jsonError(w, status, err.Error())
			return
		}
		item.PhotoURL = url
	}

	created, err := store.CreateFoundItem(r.Context(), h.DB, item)
	if err != nil {
		slog.Error("creating found item", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to create found item")
		return
	}

	slog.Info("found item created", "id", created.ID, "photo", created.PhotoURL != "")
	jsonResponse(w, http.StatusCreated, created)
}

// Update handles PUT /api/found-items/{id}. Fields missing from the form,
// and the photo when none is uploaded, keep their stored values.
func (h *FoundItemsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	form, err := parseFoundItemForm(w, r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := form.ValidateUpdate(); err != nil {
		validationError(w, err)
		return
	}

	existing, err := store.GetFoundItem(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get found item")
		return
	}
	if existing == nil {
		jsonError(w, http.StatusNotFound, "found item not found")
		return
	}

	changes := store.FoundItemChanges{
		Name:          trimmed(form.Name),
		Brand:         form.Brand,
		Color:         form.Color,
		Category:      form.Category,
		LocationFound: trimmed(form.LocationFound),
		Description:   form.Description,
		Status:        form.Status,
	}
	if form.FoundDate != nil {
		d, _ := model.ParseDate(*form.FoundDate)
		changes.FoundDate = &d
	}
	if form.Photo != nil {
		url, status, err := h.storePhoto(r, form.Photo)
		if err != nil {
			jsonError(w, status, err.Error())
			return
		}
		changes.PhotoURL = &url
	}

	found, err := store.UpdateFoundItem(r.Context(), h.DB, id, changes)
	if err != nil {
		slog.Error("updating found item", "id", id, "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to update found item")
		return
	}
	if !found {
		jsonError(w, http.StatusNotFound, "found item not found")
		return
	}

	item, err := store.GetFoundItem(r.Context(), h.DB, id)
	if err != nil || item == nil {
		jsonError(w, http.StatusInternalServerError, "failed to get found item")
		return
	}

	slog.Info("found item updated", "id", id)
	jsonResponse(w, http.StatusOK, item)
}

// Delete handles DELETE /api/found-items/{id}.
func (h *FoundItemsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	found, err := store.DeleteFoundItem(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to delete found item")
		return
	}
	if !found {
		jsonError(w, http.StatusNotFound, "found item not found")
		return
	}

	slog.Info("found item deleted", "id", id)
	jsonResponse(w, http.StatusOK, map[string]string{"message": "found item deleted"})
}

// Verify handles PUT /api/found-items/{id}/verify.
func (h *FoundItemsHandler) Verify(w http.ResponseWriter, r *http.Request) {
	h.setVerified(w, r, true)
}

// Unverify handles PUT /api/found-items/{id}/unverify.
func (h *FoundItemsHandler) Unverify(w http.ResponseWriter, r *http.Request) {
	h.setVerified(w, r, false)
}

func (h *FoundItemsHandler) setVerified(w http.ResponseWriter, r *http.Request, verified bool) {
	id, err := pathID(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	found, err := store.SetFoundItemVerified(r.Context(), h.DB, id, verified)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to update found item")
		return
	}
	if !found {
		jsonError(w, http.StatusNotFound, "found item not found")
		return
	}

	msg := "found item verified"
	if !verified {
		msg = "found item unverified"
	}
	slog.Info(msg, "id", id)
	jsonResponse(w, http.StatusOK, map[string]string{"message": msg})
}

// storePhoto normalizes and stores an uploaded photo. On failure it returns
// the status to answer with.
func (h *FoundItemsHandler) storePhoto(r *http.Request, p *forms.Photo) (string, int, error) {
	if h.Photos == nil {
		return "", http.StatusServiceUnavailable, errors.New("photo uploads are not configured")
	}

	photo, err := imaging.Process(bytes.NewReader(p.Data))
	if errors.Is(err, imaging.ErrTooLarge) {
		return "", http.StatusRequestEntityTooLarge, err
	}
	if err != nil {
		return "", http.StatusBadRequest, fmt.Errorf("invalid photo: %w", err)
	}

	url, err := h.Photos.Put(r.Context(), photos.NewKey(time.Now(), photo.Ext()), photo.Data, photo.MIME)
	if err != nil {
		slog.Error("storing photo", "error", err)
		return "", http.StatusInternalServerError, errors.New("failed to store photo")
	}
	return url, 0, nil
}

// parseFoundItemForm reads a multipart (or urlencoded) body into a form.
// Fields absent from the body stay nil.
func parseFoundItemForm(w http.ResponseWriter, r *http.Request) (forms.FoundItem, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)

	var values map[string][]string
	err := r.ParseMultipartForm(maxFormBytes)
	switch {
	case err == nil:
		values = r.MultipartForm.Value
	case errors.Is(err, http.ErrNotMultipart):
		if err := r.ParseForm(); err != nil {
			return forms.FoundItem{}, errors.New("invalid form body")
		}
		values = r.PostForm
	default:
		return forms.FoundItem{}, errors.New("request too large or invalid multipart form")
	}

	var f forms.FoundItem
	fields := []struct {
		name   string
		target **string
	}{
		{"name", &f.Name},
		{"brand", &f.Brand},
		{"color", &f.Color},
		{"category", &f.Category},
		{"locationFound", &f.LocationFound},
		{"foundDate", &f.FoundDate},
		{"description", &f.Description},
		{"status", &f.Status},
	}
	for _, field := range fields {
		if v, ok := values[field.name]; ok && len(v) > 0 {
			*field.target = forms.String(v[0])
		}
	}

	if r.MultipartForm != nil {
		if files := r.MultipartForm.File["photo"]; len(files) > 0 {
			fh := files[0]
			file, err := fh.Open()
			if err != nil {
				return forms.FoundItem{}, errors.New("failed to read photo")
			}
			defer file.Close()

			data, err := io.ReadAll(file)
			if err != nil {
				return forms.FoundItem{}, errors.New("failed to read photo")
			}
			f.Photo = &forms.Photo{
				Filename:    fh.Filename,
				ContentType: http.DetectContentType(data),
				Data:        data,
			}
		}
	}

	return f, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	return &t
}
