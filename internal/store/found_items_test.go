package store

import (
	"context"
	"testing"
	"time"

	"github.com/findora/findora/internal/db"
	"github.com/findora/findora/internal/model"
)

func newItem(name, category string) *model.FoundItem {
	return &model.FoundItem{
		Name:          name,
		Category:      category,
		LocationFound: "Perpustakaan",
		FoundDate:     model.NewDate(time.Date(2025, 5, 15, 0, 0, 0, 0, time.UTC)),
	}
}

func TestCreateAndGetFoundItem(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	in := newItem("Laptop Acer", model.CategoryElectronics)
	in.Brand = "Acer"
	item, err := CreateFoundItem(ctx, database, in)
	if err != nil {
		t.Fatalf("CreateFoundItem: %v", err)
	}
	if item.ID == 0 {
		t.Fatal("expected an assigned id")
	}
	if item.Status != model.ItemStatusFound {
		t.Errorf("expected default status %q, got %q", model.ItemStatusFound, item.Status)
	}
	if item.Verified {
		t.Error("expected new items to be unverified")
	}
	if item.Brand != "Acer" || item.Color != "" {
		t.Errorf("unexpected optional fields: brand=%q color=%q", item.Brand, item.Color)
	}
	if item.FoundDate.String() != "2025-05-15" {
		t.Errorf("expected found date 2025-05-15, got %s", item.FoundDate)
	}
	if item.PhotoURL != "" {
		t.Errorf("expected no photo, got %q", item.PhotoURL)
	}

	missing, err := GetFoundItem(ctx, database, item.ID+100)
	if err != nil {
		t.Fatalf("GetFoundItem: %v", err)
	}
	if missing != nil {
		t.Error("expected nil for unknown id")
	}
}

func TestListFoundItemsNewestFirst(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	CreateFoundItem(ctx, database, newItem("Dompet", model.CategoryAccessories))
	CreateFoundItem(ctx, database, newItem("Jaket", model.CategoryClothing))
	CreateFoundItem(ctx, database, newItem("Buku Algoritma", model.CategoryBooks))

	items, err := ListFoundItems(ctx, database)
	if err != nil {
		t.Fatalf("ListFoundItems: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	if items[0].Name != "Buku Algoritma" || items[2].Name != "Dompet" {
		t.Errorf("expected newest first, got %q ... %q", items[0].Name, items[2].Name)
	}
}

func TestUpdateFoundItemPartial(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	in := newItem("iPhone 15", model.CategoryElectronics)
	in.Color = "Putih"
	in.PhotoURL = "/uploads/a.jpg"
	item, _ := CreateFoundItem(ctx, database, in)

	status := model.ItemStatusReturned
	name := "iPhone 15 Pro"
	ok, err := UpdateFoundItem(ctx, database, item.ID, FoundItemChanges{Name: &name, Status: &status})
	if err != nil {
		t.Fatalf("UpdateFoundItem: %v", err)
	}
	if !ok {
		t.Fatal("expected update to find the item")
	}

	got, _ := GetFoundItem(ctx, database, item.ID)
	if got.Name != name || got.Status != status {
		t.Errorf("expected updated name/status, got %q/%q", got.Name, got.Status)
	}
	if got.Color != "Putih" || got.PhotoURL != "/uploads/a.jpg" || got.Category != model.CategoryElectronics {
		t.Errorf("expected untouched fields to survive, got %+v", got)
	}

	ok, err = UpdateFoundItem(ctx, database, item.ID+1, FoundItemChanges{Name: &name})
	if err != nil || ok {
		t.Errorf("expected (false, nil) for unknown id, got (%v, %v)", ok, err)
	}

	ok, err = UpdateFoundItem(ctx, database, item.ID, FoundItemChanges{})
	if err != nil || !ok {
		t.Errorf("expected empty update of existing item to succeed, got (%v, %v)", ok, err)
	}
}

func TestVerifyDoesNotTouchStatus(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	in := newItem("Jaket", model.CategoryClothing)
	in.Status = model.ItemStatusReturned
	item, _ := CreateFoundItem(ctx, database, in)

	ok, err := SetFoundItemVerified(ctx, database, item.ID, true)
	if err != nil || !ok {
		t.Fatalf("SetFoundItemVerified: ok=%v err=%v", ok, err)
	}

	got, _ := GetFoundItem(ctx, database, item.ID)
	if !got.Verified {
		t.Error("expected item to be verified")
	}
	if got.Status != model.ItemStatusReturned {
		t.Errorf("expected status to stay %q, got %q", model.ItemStatusReturned, got.Status)
	}

	SetFoundItemVerified(ctx, database, item.ID, false)
	got, _ = GetFoundItem(ctx, database, item.ID)
	if got.Verified {
		t.Error("expected item to be unverified")
	}

	if ok, _ := SetFoundItemVerified(ctx, database, 999, true); ok {
		t.Error("expected false for unknown id")
	}
}

func TestDeleteFoundItem(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	item, _ := CreateFoundItem(ctx, database, newItem("Payung", model.CategoryOther))

	ok, err := DeleteFoundItem(ctx, database, item.ID)
	if err != nil || !ok {
		t.Fatalf("DeleteFoundItem: ok=%v err=%v", ok, err)
	}

	got, _ := GetFoundItem(ctx, database, item.ID)
	if got != nil {
		t.Error("expected item to be gone")
	}

	ok, _ = DeleteFoundItem(ctx, database, item.ID)
	if ok {
		t.Error("expected second delete to report not found")
	}
}
