package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/findora/findora/internal/model"
)

const foundItemColumns = `id, admin_id, name, brand, color, category, location_found, found_date,
	description, photo_url, status, verified, created_at`

// FoundItemChanges holds a partial update. Nil fields are left unchanged.
type FoundItemChanges struct {
	Name          *string
	Brand         *string
	Color         *string
	Category      *string
	LocationFound *string
	FoundDate     *model.Date
	Description   *string
	Status        *string
	PhotoURL      *string
}

// CreateFoundItem inserts a found item. ID, Verified and CreatedAt are
// assigned by the database; an empty Status defaults to Ditemukan.
func CreateFoundItem(ctx context.Context, db *sql.DB, item *model.FoundItem) (*model.FoundItem, error) {
	status := item.Status
	if status == "" {
		status = model.ItemStatusFound
	}

	result, err := db.ExecContext(ctx,
		`INSERT INTO found_items (admin_id, name, brand, color, category, location_found, found_date, description, photo_url, status)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		item.AdminID, item.Name, nullString(item.Brand), nullString(item.Color), item.Category,
		item.LocationFound, item.FoundDate, nullString(item.Description), nullString(item.PhotoURL), status,
	)
	if err != nil {
		return nil, fmt.Errorf("creating found item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting found item id: %w", err)
	}

	return GetFoundItem(ctx, db, id)
}

// GetFoundItem returns a found item by ID, or nil if it does not exist.
func GetFoundItem(ctx context.Context, db *sql.DB, id int64) (*model.FoundItem, error) {
	row := db.QueryRowContext(ctx, `SELECT `+foundItemColumns+` FROM found_items WHERE id = ?`, id)
	item, err := scanFoundItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting found item: %w", err)
	}
	return item, nil
}

// ListFoundItems returns all found items, newest first.
func ListFoundItems(ctx context.Context, db *sql.DB) ([]model.FoundItem, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+foundItemColumns+` FROM found_items ORDER BY created_at DESC, id DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing found items: %w", err)
	}
	defer rows.Close()

	var items []model.FoundItem
	for rows.Next() {
		item, err := scanFoundItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning found item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

// UpdateFoundItem applies the non-nil changes. It reports false if no item
// has the given ID.
func UpdateFoundItem(ctx context.Context, db *sql.DB, id int64, c FoundItemChanges) (bool, error) {
	var sets []string
	var args []any
	set := func(column string, value any) {
		sets = append(sets, column+" = ?")
		args = append(args, value)
	}

	if c.Name != nil {
		set("name", *c.Name)
	}
	if c.Brand != nil {
		set("brand", nullString(*c.Brand))
	}
	if c.Color != nil {
		set("color", nullString(*c.Color))
	}
	if c.Category != nil {
		set("category", *c.Category)
	}
	if c.LocationFound != nil {
		set("location_found", *c.LocationFound)
	}
	if c.FoundDate != nil {
		set("found_date", *c.FoundDate)
	}
	if c.Description != nil {
		set("description", nullString(*c.Description))
	}
	if c.Status != nil {
		set("status", *c.Status)
	}
	if c.PhotoURL != nil {
		set("photo_url", nullString(*c.PhotoURL))
	}

	if len(sets) == 0 {
		item, err := GetFoundItem(ctx, db, id)
		return item != nil, err
	}

	args = append(args, id)
	result, err := db.ExecContext(ctx,
		`UPDATE found_items SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...,
	)
	if err != nil {
		return false, fmt.Errorf("updating found item: %w", err)
	}
	return affected(result)
}

// SetFoundItemVerified sets only the verified flag.
func SetFoundItemVerified(ctx context.Context, db *sql.DB, id int64, verified bool) (bool, error) {
	result, err := db.ExecContext(ctx,
		`UPDATE found_items SET verified = ? WHERE id = ?`, verified, id,
	)
	if err != nil {
		return false, fmt.Errorf("setting found item verification: %w", err)
	}
	return affected(result)
}

// DeleteFoundItem permanently removes a found item.
func DeleteFoundItem(ctx context.Context, db *sql.DB, id int64) (bool, error) {
	result, err := db.ExecContext(ctx, `DELETE FROM found_items WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("deleting found item: %w", err)
	}
	return affected(result)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFoundItem(row rowScanner) (*model.FoundItem, error) {
	item := &model.FoundItem{}
	var adminID sql.NullInt64
	var brand, color, description, photoURL sql.NullString
	err := row.Scan(&item.ID, &adminID, &item.Name, &brand, &color, &item.Category, &item.LocationFound,
		&item.FoundDate, &description, &photoURL, &item.Status, &item.Verified, &item.CreatedAt)
	if err != nil {
		return nil, err
	}
	if adminID.Valid {
		item.AdminID = &adminID.Int64
	}
	item.Brand = brand.String
	item.Color = color.String
	item.Description = description.String
	item.PhotoURL = photoURL.String
	return item, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func affected(result sql.Result) (bool, error) {
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("checking affected rows: %w", err)
	}
	return n > 0, nil
}
