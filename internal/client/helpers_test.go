package client

import (
	"context"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/cursive-ai/cursive-leads/internal/entity"
)

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

// fakeNavigator records terminal redirects.
type fakeNavigator struct {
	mu   sync.Mutex
	urls []string
}

func (n *fakeNavigator) NavigateTo(url string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.urls = append(n.urls, url)
}

func (n *fakeNavigator) last() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.urls) == 0 {
		return ""
	}
	return n.urls[len(n.urls)-1]
}

// fakeNotifier records toasts.
type fakeNotifier struct {
	mu        sync.Mutex
	successes []string
	errors    []string
}

func (n *fakeNotifier) Success(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.successes = append(n.successes, msg)
}

func (n *fakeNotifier) Error(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.errors = append(n.errors, msg)
}

func (n *fakeNotifier) errorCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.errors)
}

func (n *fakeNotifier) successCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.successes)
}

// fakeSetupAPI scripts the three calls SessionRecovery makes.
type fakeSetupAPI struct {
	mu sync.Mutex

	currentUser    *CurrentUser
	currentUserErr error

	setupStatuses []int // consumed one per PostSetup call; last repeats
	setupBody     string
	setupCalls    int
	setupPayloads []OnboardingPayload

	seedErr   error
	seedCalls int
}

func (f *fakeSetupAPI) CurrentUser(ctx context.Context) (*CurrentUser, error) {
	if f.currentUserErr != nil {
		return nil, f.currentUserErr
	}
	return f.currentUser, nil
}

func (f *fakeSetupAPI) PostSetup(ctx context.Context, payload OnboardingPayload) (*http.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.setupCalls++
	f.setupPayloads = append(f.setupPayloads, payload)

	status := http.StatusOK
	if len(f.setupStatuses) > 0 {
		status = f.setupStatuses[0]
		if len(f.setupStatuses) > 1 {
			f.setupStatuses = f.setupStatuses[1:]
		}
	}
	return jsonResponse(status, f.setupBody), nil
}

func (f *fakeSetupAPI) SeedWorkspace(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seedCalls++
	return f.seedErr
}

// fakeListAPI serves scripted pages keyed by page number.
type fakeListAPI struct {
	mu sync.Mutex

	pages     map[int]*ListResult
	listCalls []ListQuery
	listErr   error

	leads     map[string]*entity.LeadAssignment
	getErr    error
	updateErr error
	updates   []string // "id:status"
}

func (f *fakeListAPI) ListLeads(ctx context.Context, query ListQuery) (*ListResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.listCalls = append(f.listCalls, query)
	if f.listErr != nil {
		return nil, f.listErr
	}
	if result, ok := f.pages[query.Page]; ok {
		return result, nil
	}
	return &ListResult{}, nil
}

func (f *fakeListAPI) GetLead(ctx context.Context, id string) (*entity.LeadAssignment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.getErr != nil {
		return nil, f.getErr
	}
	row, ok := f.leads[id]
	if !ok {
		return nil, &StatusError{Code: 404, Message: "not found"}
	}
	copied := *row
	return &copied, nil
}

func (f *fakeListAPI) UpdateStatus(ctx context.Context, id, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.updates = append(f.updates, id+":"+status)
	return f.updateErr
}

// fakeBulkAPI scripts bulk and enrich outcomes.
type fakeBulkAPI struct {
	mu sync.Mutex

	bulkResult   *BulkResult
	bulkErr      error
	bulkRequests []BulkRequest

	enrichResults map[string]*EnrichResult
	enrichErrs    map[string]error
	enrichOrder   []string
}

func (f *fakeBulkAPI) BulkAction(ctx context.Context, request BulkRequest) (*BulkResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.bulkRequests = append(f.bulkRequests, request)
	if f.bulkErr != nil {
		return nil, f.bulkErr
	}
	if f.bulkResult != nil {
		return f.bulkResult, nil
	}
	return &BulkResult{Updated: len(request.LeadIDs)}, nil
}

func (f *fakeBulkAPI) EnrichLead(ctx context.Context, id string) (*EnrichResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.enrichOrder = append(f.enrichOrder, id)
	if err, ok := f.enrichErrs[id]; ok {
		return nil, err
	}
	if result, ok := f.enrichResults[id]; ok {
		return result, nil
	}
	return &EnrichResult{CreditsRemaining: 0}, nil
}

// fakeFileSaver keeps exports in memory.
type fakeFileSaver struct {
	mu    sync.Mutex
	names []string
	data  map[string][]byte
	err   error
}

func (f *fakeFileSaver) Save(name string, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return f.err
	}
	if f.data == nil {
		f.data = map[string][]byte{}
	}
	f.names = append(f.names, name)
	f.data[name] = data
	return nil
}

func assignmentRow(id, workspaceID, status string) entity.LeadAssignment {
	return entity.LeadAssignment{
		ID:          id,
		LeadID:      "lead-" + id,
		WorkspaceID: workspaceID,
		UserID:      "user-1",
		Status:      status,
		Lead: entity.Lead{
			ID:               "lead-" + id,
			Name:             "Lead " + id,
			Email:            id + "@example.com",
			Company:          "Acme",
			EnrichmentStatus: entity.EnrichmentPending,
		},
	}
}
