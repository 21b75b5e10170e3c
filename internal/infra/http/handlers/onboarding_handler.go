package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/cursive-ai/cursive-leads/internal/infra/http/middleware"
	"github.com/cursive-ai/cursive-leads/internal/usecase"
)

type OnboardingHandler struct {
	SetupUC *usecase.SetupWorkspaceUseCase
	SeedUC  *usecase.SeedWorkspaceUseCase
}

func NewOnboardingHandler(setupUC *usecase.SetupWorkspaceUseCase, seedUC *usecase.SeedWorkspaceUseCase) *OnboardingHandler {
	return &OnboardingHandler{SetupUC: setupUC, SeedUC: seedUC}
}

// HandleSetup serves POST /api/onboarding/setup. 409 means the workspace is
// already there — the client treats that as success and moves on.
func (h *OnboardingHandler) HandleSetup(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthenticated")
		return
	}

	var input usecase.OnboardingInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if input.Email == "" {
		input.Email = session.Email
	}

	output, err := h.SetupUC.Execute(r.Context(), session.UserID, input)
	if err != nil {
		if errors.Is(err, usecase.ErrWorkspaceExists) {
			writeError(w, http.StatusConflict, "workspace already exists")
			return
		}
		writeUseCaseError(w, err)
		return
	}

	middleware.RecordWorkspaceCreated()
	writeJSON(w, http.StatusOK, output)
}

// HandleSeed serves POST /api/onboarding/seed: enqueue the initial-data job.
// Clients call this best-effort; the background scheduler covers misses.
func (h *OnboardingHandler) HandleSeed(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthenticated")
		return
	}

	if err := h.SeedUC.Execute(r.Context(), session.UserID); err != nil {
		if errors.Is(err, usecase.ErrNotFound) {
			writeError(w, http.StatusNotFound, "workspace not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to enqueue seed job")
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]bool{"queued": true})
}
