package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/cursive-ai/cursive-leads/internal/entity"
	"github.com/cursive-ai/cursive-leads/internal/infra/http/middleware"
	"github.com/cursive-ai/cursive-leads/internal/usecase"
)

const sessionTTL = 7 * 24 * time.Hour

type UserRepositoryInterface interface {
	FindByID(ctx context.Context, id string) (*entity.User, error)
	Upsert(ctx context.Context, u *entity.User) error
}

type AuthHandler struct {
	Auth       *middleware.Auth
	Users      UserRepositoryInterface
	Workspaces usecase.WorkspaceRepositoryInterface
}

func NewAuthHandler(auth *middleware.Auth, users UserRepositoryInterface, workspaces usecase.WorkspaceRepositoryInterface) *AuthHandler {
	return &AuthHandler{Auth: auth, Users: users, Workspaces: workspaces}
}

type currentUserResponse struct {
	User      *entity.User       `json:"user"`
	Workspace *workspaceSnapshot `json:"workspace"`
}

type workspaceSnapshot struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Credits int    `json:"credits"`
}

// HandleCurrentUser serves GET /api/auth/user. The workspace field is null
// until onboarding finishes, which is how the dashboard knows to resume it.
func (h *AuthHandler) HandleCurrentUser(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthenticated")
		return
	}

	user, err := h.Users.FindByID(r.Context(), session.UserID)
	if err != nil {
		if errors.Is(err, usecase.ErrNotFound) {
			// Valid token for a user we have not stored yet: answer with
			// the claims so onboarding can still synthesize its payload.
			user = &entity.User{ID: session.UserID, Email: session.Email, Name: session.Name}
		} else {
			writeError(w, http.StatusInternalServerError, "failed to load user")
			return
		}
	}

	resp := currentUserResponse{User: user}
	if workspace, err := h.Workspaces.FindByOwner(r.Context(), session.UserID); err == nil && workspace != nil {
		resp.Workspace = &workspaceSnapshot{ID: workspace.ID, Name: workspace.Name, Credits: workspace.Credits}
	}

	writeJSON(w, http.StatusOK, resp)
}

type createSessionRequest struct {
	UserID string `json:"user_id,omitempty"`
	Email  string `json:"email"`
	Name   string `json:"name,omitempty"`
}

// HandleCreateSession serves POST /api/auth/session: records the profile
// coming back from the identity provider and sets the session cookie.
func (h *AuthHandler) HandleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.Email == "" {
		writeError(w, http.StatusBadRequest, "email is required")
		return
	}
	if req.UserID == "" {
		req.UserID = uuid.New().String()
	}

	user := &entity.User{ID: req.UserID, Email: req.Email, Name: req.Name}
	if err := h.Users.Upsert(r.Context(), user); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to store user")
		return
	}

	token, err := h.Auth.MintSession(user.ID, user.Email, user.Name, sessionTTL)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to mint session")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(sessionTTL),
	})

	writeJSON(w, http.StatusOK, map[string]any{"user": user})
}
