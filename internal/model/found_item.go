package model

import (
	"slices"
	"time"
)

// FoundItem is a physical object recovered and catalogued by staff.
// Status and Verified are independent: an item can be returned to its
// owner without ever having been verified.
type FoundItem struct {
	ID            int64     `json:"id"`
	AdminID       *int64    `json:"adminId,omitempty"`
	Name          string    `json:"name"`
	Brand         string    `json:"brand,omitempty"`
	Color         string    `json:"color,omitempty"`
	Category      string    `json:"category"`
	LocationFound string    `json:"locationFound"`
	FoundDate     Date      `json:"foundDate"`
	Description   string    `json:"description,omitempty"`
	PhotoURL      string    `json:"photoUrl,omitempty"`
	Status        string    `json:"status"`
	Verified      bool      `json:"verified"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Found item statuses.
const (
	ItemStatusLost     = "Hilang"
	ItemStatusFound    = "Ditemukan"
	ItemStatusReturned = "Dikembalikan"
)

// ItemStatuses lists the valid found item statuses in display order.
var ItemStatuses = []string{ItemStatusLost, ItemStatusFound, ItemStatusReturned}

// Categories shared by found items and lost reports.
const (
	CategoryElectronics = "Elektronik"
	CategoryDocuments   = "Dokumen"
	CategoryClothing    = "Pakaian"
	CategoryAccessories = "Aksesoris"
	CategoryBooks       = "Buku"
	CategoryOther       = "Lainnya"
)

// Categories lists every category in display order.
var Categories = []string{
	CategoryElectronics,
	CategoryDocuments,
	CategoryClothing,
	CategoryAccessories,
	CategoryBooks,
	CategoryOther,
}

// ValidCategory reports whether c is one of Categories.
func ValidCategory(c string) bool {
	return slices.Contains(Categories, c)
}

// ValidItemStatus reports whether s is one of ItemStatuses.
func ValidItemStatus(s string) bool {
	return slices.Contains(ItemStatuses, s)
}

// FindFoundItem returns the index of the item with the given ID, or -1.
func FindFoundItem(items []FoundItem, id int64) int {
	return slices.IndexFunc(items, func(it FoundItem) bool { return it.ID == id })
}
