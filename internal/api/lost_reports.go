package api

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strings"

	"github.com/findora/findora/internal/forms"
	"github.com/findora/findora/internal/model"
	"github.com/findora/findora/internal/store"
)

// LostReportsHandler handles lost report endpoints.
type LostReportsHandler struct {
	DB *sql.DB
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

// maxStatusLength bounds the free-form report status.
const maxStatusLength = 32

// List handles GET /api/lost-reports.
func (h *LostReportsHandler) List(w http.ResponseWriter, r *http.Request) {
	reports, err := store.ListLostReports(r.Context(), h.DB)
	if err != nil {
		slog.Error("listing lost reports", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to list lost reports")
		return
	}
	if reports == nil {
		reports = []model.LostReport{}
	}
	jsonResponse(w, http.StatusOK, reports)
}

// Create handles POST /api/lost-reports. The status is always Hilang.
func (h *LostReportsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req forms.LostReport
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		validationError(w, err)
		return
	}

	lostDate, _ := model.ParseDate(req.LostDate)
	report, err := store.CreateLostReport(r.Context(), h.DB, &model.LostReport{
		Name:        req.Name,
		NIM:         req.NIM,
		Email:       req.Email,
		Phone:       req.Phone,
		Category:    req.Category,
		LostDate:    lostDate,
		Description: req.Description,
	})
	if err != nil {
		slog.Error("creating lost report", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to create lost report")
		return
	}

	slog.Info("lost report created", "id", report.ID, "category", report.Category)
	jsonResponse(w, http.StatusCreated, report)
}

// UpdateStatus handles PUT /api/lost-reports/{id}.
func (h *LostReportsHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid report id")
		return
	}

	var req updateStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	status := strings.TrimSpace(req.Status)
	if status == "" || len(status) > maxStatusLength {
		jsonError(w, http.StatusBadRequest, "status required")
		return
	}

	found, err := store.UpdateLostReportStatus(r.Context(), h.DB, id, status)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to update lost report")
		return
	}
	if !found {
		jsonError(w, http.StatusNotFound, "lost report not found")
		return
	}

	report, err := store.GetLostReport(r.Context(), h.DB, id)
	if err != nil || report == nil {
		jsonError(w, http.StatusInternalServerError, "failed to get lost report")
		return
	}

	slog.Info("lost report status changed", "id", id, "status", status)
	jsonResponse(w, http.StatusOK, report)
}

// Delete handles DELETE /api/lost-reports/{id}.
func (h *LostReportsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid report id")
		return
	}

	found, err := store.DeleteLostReport(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to delete lost report")
		return
	}
	if !found {
		jsonError(w, http.StatusNotFound, "lost report not found")
		return
	}

	slog.Info("lost report deleted", "id", id)
	jsonResponse(w, http.StatusOK, map[string]string{"message": "lost report deleted"})
}
