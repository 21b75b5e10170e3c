package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/cursive-ai/cursive-leads/internal/entity"
	"github.com/cursive-ai/cursive-leads/internal/infra/http/middleware"
	"github.com/cursive-ai/cursive-leads/internal/usecase"
)

type LeadsHandler struct {
	ListUC     *usecase.ListAssignmentsUseCase
	GetUC      *usecase.GetAssignmentUseCase
	StatusUC   *usecase.UpdateStatusUseCase
	BulkUC     *usecase.BulkActionUseCase
	EnrichUC   *usecase.EnrichLeadUseCase
	Workspaces usecase.WorkspaceRepositoryInterface
}

func NewLeadsHandler(
	listUC *usecase.ListAssignmentsUseCase,
	getUC *usecase.GetAssignmentUseCase,
	statusUC *usecase.UpdateStatusUseCase,
	bulkUC *usecase.BulkActionUseCase,
	enrichUC *usecase.EnrichLeadUseCase,
	workspaces usecase.WorkspaceRepositoryInterface,
) *LeadsHandler {
	return &LeadsHandler{
		ListUC:     listUC,
		GetUC:      getUC,
		StatusUC:   statusUC,
		BulkUC:     bulkUC,
		EnrichUC:   enrichUC,
		Workspaces: workspaces,
	}
}

// scope resolves the caller's workspace; every leads route is tenant-scoped.
func (h *LeadsHandler) scope(ctx context.Context) (middleware.Session, *entity.Workspace, error) {
	session, ok := middleware.SessionFrom(ctx)
	if !ok {
		return middleware.Session{}, nil, errors.New("no session")
	}
	workspace, err := h.Workspaces.FindByOwner(ctx, session.UserID)
	if err != nil || workspace == nil {
		return session, nil, errors.New("no workspace")
	}
	return session, workspace, nil
}

// HandleList serves GET /leads with counted pagination.
func (h *LeadsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	session, workspace, err := h.scope(r.Context())
	if err != nil {
		writeError(w, http.StatusForbidden, "workspace not found")
		return
	}

	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	perPage, _ := strconv.Atoi(q.Get("per_page"))

	input := usecase.ListAssignmentsInput{
		WorkspaceID:      workspace.ID,
		UserID:           session.UserID,
		Page:             page,
		PerPage:          perPage,
		Status:           q.Get("status"),
		EnrichmentStatus: q.Get("enrichment_status"),
	}
	if raw := q.Get("date_from"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "date_from must be ISO8601")
			return
		}
		input.DateFrom = &t
	}

	output, err := h.ListUC.Execute(r.Context(), input)
	if err != nil {
		writeUseCaseError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, output)
}

// HandleGet serves GET /leads/{id}: the joined single row subscribers fetch
// after a realtime INSERT.
func (h *LeadsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	_, workspace, err := h.scope(r.Context())
	if err != nil {
		writeError(w, http.StatusForbidden, "workspace not found")
		return
	}

	assignment, err := h.GetUC.Execute(r.Context(), chi.URLParam(r, "id"), workspace.ID)
	if err != nil {
		writeError(w, http.StatusNotFound, "lead not found")
		return
	}

	writeJSON(w, http.StatusOK, assignment)
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

// HandleUpdateStatus serves PATCH /leads/{id}/status.
func (h *LeadsHandler) HandleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	session, workspace, err := h.scope(r.Context())
	if err != nil {
		writeError(w, http.StatusForbidden, "workspace not found")
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	assignment, err := h.StatusUC.Execute(r.Context(), usecase.UpdateStatusInput{
		AssignmentID: chi.URLParam(r, "id"),
		WorkspaceID:  workspace.ID,
		UserID:       session.UserID,
		Status:       req.Status,
	})
	if err != nil {
		writeUseCaseError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, assignment)
}

// HandleBulk serves POST /leads/bulk. Archive/unarchive/tag answer JSON;
// export_csv answers the CSV body itself.
func (h *LeadsHandler) HandleBulk(w http.ResponseWriter, r *http.Request) {
	session, workspace, err := h.scope(r.Context())
	if err != nil {
		writeError(w, http.StatusForbidden, "workspace not found")
		return
	}

	var input usecase.BulkActionInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	input.WorkspaceID = workspace.ID
	input.UserID = session.UserID

	output, err := h.BulkUC.Execute(r.Context(), input)
	if err != nil {
		middleware.RecordBulkAction(input.Action, "error")
		writeUseCaseError(w, err)
		return
	}
	middleware.RecordBulkAction(input.Action, "ok")

	if input.Action == usecase.ActionExportCSV {
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition",
			fmt.Sprintf("attachment; filename=cursive-leads-%s.csv", time.Now().Format("2006-01-02")))
		w.WriteHeader(http.StatusOK)
		w.Write(output.CSV)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"updated": output.Updated,
	})
}

// HandleEnrich serves POST /leads/{id}/enrich. Credits are checked and
// spent here, server-side; the dashboard's own credit check is advisory.
func (h *LeadsHandler) HandleEnrich(w http.ResponseWriter, r *http.Request) {
	session, workspace, err := h.scope(r.Context())
	if err != nil {
		writeError(w, http.StatusForbidden, "workspace not found")
		return
	}

	output, err := h.EnrichUC.Execute(r.Context(), usecase.EnrichLeadInput{
		AssignmentID: chi.URLParam(r, "id"),
		WorkspaceID:  workspace.ID,
		UserID:       session.UserID,
	})
	if err != nil {
		middleware.RecordEnrichment("error")
		if errors.Is(err, usecase.ErrInsufficientCredits) {
			writeError(w, http.StatusPaymentRequired, "not enough enrichment credits")
			return
		}
		writeUseCaseError(w, err)
		return
	}
	middleware.RecordEnrichment("ok")

	writeJSON(w, http.StatusOK, output)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeUseCaseError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, usecase.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case usecase.IsDomainError(err):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
