package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/findora/findora/internal/model"
)

const lostReportColumns = `id, name, nim, email, phone, category, lost_date, description, status, created_at`

// CreateLostReport inserts a lost report. The status is always Hilang on creation.
func CreateLostReport(ctx context.Context, db *sql.DB, r *model.LostReport) (*model.LostReport, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO lost_reports (name, nim, email, phone, category, lost_date, description, status)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.Name, r.NIM, r.Email, r.Phone, r.Category, r.LostDate, r.Description, model.ReportStatusLost,
	)
	if err != nil {
		return nil, fmt.Errorf("creating lost report: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting lost report id: %w", err)
	}

	return GetLostReport(ctx, db, id)
}

// GetLostReport returns a lost report by ID, or nil if it does not exist.
func GetLostReport(ctx context.Context, db *sql.DB, id int64) (*model.LostReport, error) {
	r := &model.LostReport{}
	err := db.QueryRowContext(ctx,
		`SELECT `+lostReportColumns+` FROM lost_reports WHERE id = ?`, id,
	).Scan(&r.ID, &r.Name, &r.NIM, &r.Email, &r.Phone, &r.Category, &r.LostDate, &r.Description, &r.Status, &r.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting lost report: %w", err)
	}
	return r, nil
}

// ListLostReports returns all lost reports, newest first.
func ListLostReports(ctx context.Context, db *sql.DB) ([]model.LostReport, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+lostReportColumns+` FROM lost_reports ORDER BY created_at DESC, id DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing lost reports: %w", err)
	}
	defer rows.Close()

	var reports []model.LostReport
	for rows.Next() {
		var r model.LostReport
		if err := rows.Scan(&r.ID, &r.Name, &r.NIM, &r.Email, &r.Phone, &r.Category, &r.LostDate, &r.Description, &r.Status, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning lost report: %w", err)
		}
		reports = append(reports, r)
	}
	return reports, rows.Err()
}

// UpdateLostReportStatus sets a report's status.
func UpdateLostReportStatus(ctx context.Context, db *sql.DB, id int64, status string) (bool, error) {
	result, err := db.ExecContext(ctx,
		`UPDATE lost_reports SET status = ? WHERE id = ?`, status, id,
	)
	if err != nil {
		return false, fmt.Errorf("updating lost report status: %w", err)
	}
	return affected(result)
}

// DeleteLostReport permanently removes a lost report.
func DeleteLostReport(ctx context.Context, db *sql.DB, id int64) (bool, error) {
	result, err := db.ExecContext(ctx, `DELETE FROM lost_reports WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("deleting lost report: %w", err)
	}
	return affected(result)
}
