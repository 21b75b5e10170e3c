package client

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"
)

// Navigator is where terminal flow outcomes land: a full-page redirect in
// the real dashboard, a recorder in tests.
type Navigator interface {
	NavigateTo(url string)
}

// Notifier surfaces toasts.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

const (
	dashboardPath  = "/dashboard"
	onboardingPath = "/onboarding"
)

type setupAPI interface {
	CurrentUser(ctx context.Context) (*CurrentUser, error)
	PostSetup(ctx context.Context, payload OnboardingPayload) (*http.Response, error)
	SeedWorkspace(ctx context.Context) error
}

// SessionRecovery resumes an interrupted signup after an OAuth redirect:
// restore the quiz answers from ephemeral storage (or synthesize them from
// the identity profile), then finish workspace creation exactly once,
// riding out the window where the fresh session cookie is not yet visible
// to API routes.
type SessionRecovery struct {
	API       setupAPI
	Store     PayloadStore
	Nav       Navigator
	Notify    Notifier
	RetryBase time.Duration

	mu      sync.Mutex
	started bool
}

func NewSessionRecovery(api setupAPI, store PayloadStore, nav Navigator, notify Notifier) *SessionRecovery {
	return &SessionRecovery{
		API:       api,
		Store:     store,
		Nav:       nav,
		Notify:    notify,
		RetryBase: time.Second,
	}
}

// Run executes the recovery once. Concurrent mounts calling Run again are
// no-ops until Retry resets the guard.
func (s *SessionRecovery) Run(ctx context.Context) {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return
	}
	s.started = true
	s.mu.Unlock()

	payload, ok, err := s.Store.Load()
	if err != nil || !ok {
		synthesized, redirect := s.synthesizePayload(ctx)
		if redirect {
			return
		}
		payload = synthesized
	}

	// Marketplace only routed the signup; the setup endpoint must not see it.
	payload.Marketplace = false

	resp, err := DoWithRetry(ctx, Retry401(s.RetryBase), func() (*http.Response, error) {
		return s.API.PostSetup(ctx, payload)
	})
	if err != nil {
		s.Notify.Error("Could not reach the server. Please try again.")
		return
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusConflict:
		// Workspace already exists — a previous attempt won the race.
		s.Store.Clear()
		s.Nav.NavigateTo(dashboardPath)

	case resp.StatusCode == http.StatusUnauthorized:
		// Retries exhausted; the session really is gone.
		s.Store.Clear()
		s.Nav.NavigateTo("/login?reason=session_expired")

	case resp.StatusCode >= 300:
		s.Notify.Error("Workspace setup failed: " + readErrorMessage(resp.Body))

	default:
		if err := s.API.SeedWorkspace(ctx); err != nil {
			// Non-fatal: the background scheduler seeds empty workspaces.
			log.Printf("[onboarding] initial data trigger failed: %v", err)
		}
		s.Store.Clear()
		s.Nav.NavigateTo(dashboardPath)
	}
}

// Retry resets the single-shot guard and runs the flow again, keeping
// whatever the store still holds.
func (s *SessionRecovery) Retry(ctx context.Context) {
	s.mu.Lock()
	s.started = false
	s.mu.Unlock()
	s.Run(ctx)
}

// StartOver abandons the stored answers and returns to step one.
func (s *SessionRecovery) StartOver() {
	s.Store.Clear()
	s.mu.Lock()
	s.started = false
	s.mu.Unlock()
	s.Nav.NavigateTo(onboardingPath)
}

// synthesizePayload builds a minimal payload from the identity profile when
// the user navigated here directly and nothing was stored. Returns
// redirect=true when the session is unusable and a redirect already fired.
func (s *SessionRecovery) synthesizePayload(ctx context.Context) (OnboardingPayload, bool) {
	cu, err := s.API.CurrentUser(ctx)
	if err != nil {
		switch err {
		case ErrNoSession:
			s.Nav.NavigateTo("/login?reason=no_session")
		default:
			s.Nav.NavigateTo("/login?reason=invalid_session")
		}
		return OnboardingPayload{}, true
	}

	name := cu.User.Name
	if name == "" {
		name = strings.SplitN(cu.User.Email, "@", 2)[0]
	}

	return OnboardingPayload{
		Role:     "business",
		Name:     name,
		Email:    cu.User.Email,
		Industry: "Other",
	}, false
}

func readErrorMessage(body io.Reader) string {
	var apiErr struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(body).Decode(&apiErr); err == nil && apiErr.Error != "" {
		return apiErr.Error
	}
	return "unexpected server error"
}
