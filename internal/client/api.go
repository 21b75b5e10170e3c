package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"time"

	"github.com/cursive-ai/cursive-leads/internal/entity"
)

// Session failures the onboarding flow distinguishes.
var (
	// ErrNoSession: the gateway answered a structured 401 — no user.
	ErrNoSession = errors.New("no session")
	// ErrInvalidSession: the response was not well-formed (an error page
	// rather than JSON) or could not be reached.
	ErrInvalidSession = errors.New("invalid session")
)

// StatusError carries a non-2xx API response.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("api returned %d: %s", e.Code, e.Message)
}

// API is the dashboard's HTTP client for the leads service. The cookie jar
// carries the session across calls the way a browser would.
type API struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewAPI(baseURL string) *API {
	jar, _ := cookiejar.New(nil)
	return &API{
		BaseURL: baseURL,
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
			Jar:     jar,
		},
	}
}

type CurrentUser struct {
	User      *entity.User `json:"user"`
	Workspace *struct {
		ID      string `json:"id"`
		Name    string `json:"name"`
		Credits int    `json:"credits"`
	} `json:"workspace"`
}

// CurrentUser looks up the authenticated identity. A structured 401 maps to
// ErrNoSession; anything that does not parse as the expected JSON maps to
// ErrInvalidSession, because after a broken OAuth return the "response" can
// be a provider error page.
func (a *API) CurrentUser(ctx context.Context) (*CurrentUser, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", a.BaseURL+"/api/auth/user", nil)
	if err != nil {
		return nil, err
	}

	resp, err := a.HTTPClient.Do(req)
	if err != nil {
		return nil, ErrInvalidSession
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, ErrInvalidSession
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, ErrNoSession
	}

	var cu CurrentUser
	if err := json.Unmarshal(body, &cu); err != nil || cu.User == nil || cu.User.ID == "" {
		return nil, ErrInvalidSession
	}
	return &cu, nil
}

// PostSetup submits the onboarding payload and returns the raw response so
// the caller's retry policy can inspect the status. The caller owns the body.
func (a *API) PostSetup(ctx context.Context, payload OnboardingPayload) (*http.Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", a.BaseURL+"/api/onboarding/setup", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	return a.HTTPClient.Do(req)
}

// SeedWorkspace triggers the initial-data populate. Best-effort by contract.
func (a *API) SeedWorkspace(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, "POST", a.BaseURL+"/api/onboarding/seed", nil)
	if err != nil {
		return err
	}

	resp, err := a.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return a.statusError(resp)
	}
	return nil
}

type ListQuery struct {
	Page             int
	PerPage          int
	Status           string
	EnrichmentStatus string
}

type ListResult struct {
	Data       []entity.LeadAssignment `json:"data"`
	Count      int                     `json:"count"`
	Pagination struct {
		Page       int `json:"page"`
		PerPage    int `json:"per_page"`
		TotalPages int `json:"total_pages"`
	} `json:"pagination"`
}

func (a *API) ListLeads(ctx context.Context, query ListQuery) (*ListResult, error) {
	url := fmt.Sprintf("%s/leads?page=%d&per_page=%d", a.BaseURL, query.Page, query.PerPage)
	if query.Status != "" {
		url += "&status=" + query.Status
	}
	if query.EnrichmentStatus != "" {
		url += "&enrichment_status=" + query.EnrichmentStatus
	}

	var result ListResult
	if err := a.getJSON(ctx, url, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (a *API) GetLead(ctx context.Context, id string) (*entity.LeadAssignment, error) {
	var row entity.LeadAssignment
	if err := a.getJSON(ctx, a.BaseURL+"/leads/"+id, &row); err != nil {
		return nil, err
	}
	return &row, nil
}

func (a *API) UpdateStatus(ctx context.Context, id, status string) error {
	body, _ := json.Marshal(map[string]string{"status": status})
	req, err := http.NewRequestWithContext(ctx, "PATCH", a.BaseURL+"/leads/"+id+"/status", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return a.statusError(resp)
	}
	return nil
}

type BulkRequest struct {
	LeadIDs []string `json:"lead_ids"`
	Action  string   `json:"action"`
	TagName string   `json:"tag_name,omitempty"`
}

type BulkResult struct {
	Updated int
	CSV     []byte
}

func (a *API) BulkAction(ctx context.Context, request BulkRequest) (*BulkResult, error) {
	body, err := json.Marshal(request)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", a.BaseURL+"/leads/bulk", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, a.statusError(resp)
	}

	// export_csv answers the file body itself, everything else JSON.
	if resp.Header.Get("Content-Type") == "text/csv" {
		csv, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}
		return &BulkResult{CSV: csv}, nil
	}

	var out struct {
		Updated int `json:"updated"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	return &BulkResult{Updated: out.Updated}, nil
}

type EnrichResult struct {
	Lead             entity.Lead `json:"lead"`
	CreditsRemaining int         `json:"credits_remaining"`
}

func (a *API) EnrichLead(ctx context.Context, id string) (*EnrichResult, error) {
	req, err := http.NewRequestWithContext(ctx, "POST", a.BaseURL+"/leads/"+id+"/enrich", nil)
	if err != nil {
		return nil, err
	}

	resp, err := a.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, a.statusError(resp)
	}

	var result EnrichResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (a *API) getJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return err
	}

	resp, err := a.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return a.statusError(resp)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (a *API) statusError(resp *http.Response) error {
	var apiErr struct {
		Error string `json:"error"`
	}
	json.NewDecoder(resp.Body).Decode(&apiErr)
	return &StatusError{Code: resp.StatusCode, Message: apiErr.Error}
}
