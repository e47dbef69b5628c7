package model

import (
	"slices"
	"time"
)

// LostReport is a claim of a missing item submitted through the public form.
// IDs grow with insertion order, which is what lets the dashboard tell which
// report is newest without a dedicated sequence column.
type LostReport struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	NIM         string    `json:"nim"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	Category    string    `json:"category"`
	LostDate    Date      `json:"lostDate"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Lost report statuses. Reports start as Hilang; the admin toggles between
// Diproses and Selesai afterwards.
const (
	ReportStatusLost       = "Hilang"
	ReportStatusProcessing = "Diproses"
	ReportStatusDone       = "Selesai"
)

// Done reports whether the report has been resolved.
func (r LostReport) Done() bool {
	return r.Status == ReportStatusDone
}

// FindLostReport returns the index of the report with the given ID, or -1.
func FindLostReport(reports []LostReport, id int64) int {
	return slices.IndexFunc(reports, func(r LostReport) bool { return r.ID == id })
}
