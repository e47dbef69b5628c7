package gateway

import (
	"context"
	"fmt"
	"net/http"

	"github.com/findora/findora/internal/forms"
	"github.com/findora/findora/internal/model"
)

// ListLostReports fetches every lost report in server order (newest first).
func (c *Client) ListLostReports(ctx context.Context) ([]model.LostReport, error) {
	var reports []model.LostReport
	err := c.do(ctx, request{op: "listing lost reports", method: http.MethodGet, path: "/lost-reports"}, &reports)
	if err != nil {
		return nil, err
	}
	if reports == nil {
		reports = []model.LostReport{}
	}
	return reports, nil
}

// CreateLostReport submits the public form. No credentials are attached.
func (c *Client) CreateLostReport(ctx context.Context, form forms.LostReport) (*model.LostReport, error) {
	const op = "creating lost report"
	req, err := jsonRequest(op, http.MethodPost, "/lost-reports", form)
	if err != nil {
		return nil, err
	}
	var report *model.LostReport
	if err := c.do(ctx, req, &report); err != nil {
		return nil, err
	}
	return requireBody(op, report)
}

// UpdateLostReportStatus sets a report's status and returns the stored
// record.
func (c *Client) UpdateLostReportStatus(ctx context.Context, id int64, status string) (*model.LostReport, error) {
	const op = "updating lost report"
	req, err := jsonRequest(op, http.MethodPut, lostReportPath(id), map[string]string{"status": status})
	if err != nil {
		return nil, err
	}
	var report *model.LostReport
	if err := c.do(ctx, req, &report); err != nil {
		return nil, err
	}
	return requireBody(op, report)
}

// DeleteLostReport removes a report.
func (c *Client) DeleteLostReport(ctx context.Context, id int64) error {
	return c.do(ctx, request{op: "deleting lost report", method: http.MethodDelete, path: lostReportPath(id)}, nil)
}

func lostReportPath(id int64) string {
	return fmt.Sprintf("/lost-reports/%d", id)
}
