package client

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/cursive-ai/cursive-leads/internal/entity"
	"github.com/cursive-ai/cursive-leads/internal/infra/queue"
)

// Filter tabs the list accepts.
const (
	FilterAll       = "all"
	FilterNew       = entity.StatusNew
	FilterViewed    = entity.StatusViewed
	FilterContacted = entity.StatusContacted
	FilterConverted = entity.StatusConverted
)

func isValidFilter(f string) bool {
	switch f {
	case FilterAll, FilterNew, FilterViewed, FilterContacted, FilterConverted:
		return true
	}
	return false
}

type listAPI interface {
	ListLeads(ctx context.Context, query ListQuery) (*ListResult, error)
	GetLead(ctx context.Context, id string) (*entity.LeadAssignment, error)
	UpdateStatus(ctx context.Context, id, status string) error
}

// StatusObserver is notified after a confirmed status change.
type StatusObserver func(a entity.LeadAssignment)

// LeadList is the live, filterable, paginated assignment list. One logical
// writer (the UI goroutine plus the subscription delivery goroutine) mutates
// it under a single mutex; bulk operations only read the selection and go
// through the server, relying on this list's realtime handling to catch up.
type LeadList struct {
	api         listAPI
	workspaceID string
	perPage     int
	notify      Notifier
	onChange    StatusObserver

	mu            sync.Mutex
	rows          []entity.LeadAssignment
	page          int
	totalCount    int
	totalPages    int
	filter        string
	selection     []string
	newSinceClear int
	openDetailID  string
	credits       int
}

func NewLeadList(api listAPI, workspaceID string, perPage int, notify Notifier, onChange StatusObserver) *LeadList {
	if perPage < 1 {
		perPage = 25
	}
	return &LeadList{
		api:         api,
		workspaceID: workspaceID,
		perPage:     perPage,
		notify:      notify,
		onChange:    onChange,
		page:        1,
		filter:      FilterAll,
	}
}

// Fetch loads the current page. When a shrinking result set leaves the page
// index past the end, the list clamps to page 1 and fetches again — the
// reactive bounds check of the pagination contract.
func (l *LeadList) Fetch(ctx context.Context) error {
	for {
		l.mu.Lock()
		query := ListQuery{Page: l.page, PerPage: l.perPage}
		if l.filter != FilterAll {
			query.Status = l.filter
		}
		l.mu.Unlock()

		result, err := l.api.ListLeads(ctx, query)
		if err != nil {
			// Keep showing the stale page rather than blanking the list.
			log.Printf("[leads] fetch failed: %v", err)
			return err
		}

		l.mu.Lock()
		l.rows = result.Data
		l.totalCount = result.Count
		l.totalPages = result.Pagination.TotalPages

		if l.page > 1 && l.page > l.totalPages {
			l.page = 1
			l.mu.Unlock()
			continue
		}
		l.mu.Unlock()
		return nil
	}
}

// SetFilter switches tabs: back to page 1, selection gone, fresh fetch.
func (l *LeadList) SetFilter(ctx context.Context, filter string) error {
	if !isValidFilter(filter) {
		return &StatusError{Code: 400, Message: "unknown filter: " + filter}
	}

	l.mu.Lock()
	l.filter = filter
	l.page = 1
	l.selection = nil
	l.mu.Unlock()

	return l.Fetch(ctx)
}

// SetPage moves to another page. Selection never survives a page change.
func (l *LeadList) SetPage(ctx context.Context, page int) error {
	if page < 1 {
		page = 1
	}

	l.mu.Lock()
	l.page = page
	l.selection = nil
	l.mu.Unlock()

	return l.Fetch(ctx)
}

// Search filters the already-fetched page client-side, case-insensitive,
// across name, email and company. It never hits the server.
func (l *LeadList) Search(term string) []entity.LeadAssignment {
	l.mu.Lock()
	defer l.mu.Unlock()

	if strings.TrimSpace(term) == "" {
		return append([]entity.LeadAssignment(nil), l.rows...)
	}

	needle := strings.ToLower(term)
	var matched []entity.LeadAssignment
	for _, row := range l.rows {
		if strings.Contains(strings.ToLower(row.Lead.Name), needle) ||
			strings.Contains(strings.ToLower(row.Lead.Email), needle) ||
			strings.Contains(strings.ToLower(row.Lead.Company), needle) {
			matched = append(matched, row)
		}
	}
	return matched
}

// ToggleSelect adds or removes a row from the selection. Only rows on the
// currently loaded page are selectable.
func (l *LeadList) ToggleSelect(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.indexOf(id) < 0 {
		return false
	}

	for i, sel := range l.selection {
		if sel == id {
			l.selection = append(l.selection[:i], l.selection[i+1:]...)
			return true
		}
	}
	l.selection = append(l.selection, id)
	return true
}

// Selection returns the selected ids in selection order.
func (l *LeadList) Selection() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.selection...)
}

func (l *LeadList) ClearSelection() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.selection = nil
}

// SelectedRows resolves the selection to rows, skipping ids a concurrent
// DELETE event already removed.
func (l *LeadList) SelectedRows() []entity.LeadAssignment {
	l.mu.Lock()
	defer l.mu.Unlock()

	var rows []entity.LeadAssignment
	for _, id := range l.selection {
		if i := l.indexOf(id); i >= 0 {
			rows = append(rows, l.rows[i])
		}
	}
	return rows
}

// UpdateStatus applies the new status optimistically, confirms it with the
// server, and reverts on failure. The rollback is authoritative: whatever
// the optimistic value said, an error puts the old row back.
func (l *LeadList) UpdateStatus(ctx context.Context, id, status string) error {
	l.mu.Lock()
	i := l.indexOf(id)
	if i < 0 {
		l.mu.Unlock()
		return &StatusError{Code: 404, Message: "row not loaded: " + id}
	}

	prev := l.rows[i]
	if err := l.rows[i].ApplyStatus(status, time.Now()); err != nil {
		l.mu.Unlock()
		return err
	}
	l.mu.Unlock()

	if err := l.api.UpdateStatus(ctx, id, status); err != nil {
		l.mu.Lock()
		if j := l.indexOf(id); j >= 0 {
			l.rows[j] = prev
		}
		l.mu.Unlock()
		l.notify.Error("Failed to update lead status")
		return err
	}

	l.mu.Lock()
	updated := l.rows[l.indexOf(id)]
	l.mu.Unlock()
	if l.onChange != nil {
		l.onChange(updated)
	}
	return nil
}

// HandleChange applies one realtime event. Events whose workspace does not
// match are cross-tenant leaks: logged and dropped, never applied.
func (l *LeadList) HandleChange(ctx context.Context, event queue.ChangeEvent) {
	switch event.Event {
	case queue.EventInsert:
		l.handleInsert(ctx, event)
	case queue.EventUpdate:
		l.handleUpdate(event)
	case queue.EventDelete:
		l.handleDelete(event)
	}
}

func (l *LeadList) handleInsert(ctx context.Context, event queue.ChangeEvent) {
	id, _ := event.New["id"].(string)
	if id == "" {
		return
	}

	l.mu.Lock()
	exists := l.indexOf(id) >= 0
	l.mu.Unlock()
	if exists {
		// Duplicate delivery, or we already fetched it.
		return
	}

	// The event carries raw columns only; fetch the joined row.
	row, err := l.api.GetLead(ctx, id)
	if err != nil {
		log.Printf("[leads] insert re-fetch failed for %s: %v", id, err)
		return
	}
	if row.WorkspaceID != l.workspaceID {
		log.Printf("[leads] WARNING: dropping insert for foreign workspace %s", row.WorkspaceID)
		return
	}

	l.mu.Lock()
	if l.indexOf(id) < 0 {
		l.rows = append([]entity.LeadAssignment{*row}, l.rows...)
		l.totalCount++
		l.newSinceClear++
	}
	l.mu.Unlock()
}

func (l *LeadList) handleUpdate(event queue.ChangeEvent) {
	if !l.eventMatchesWorkspace(event.New) {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if event.Table == "leads" {
		// Lead-table updates (enrichment) match by lead id.
		leadID, _ := event.New["id"].(string)
		for i := range l.rows {
			if l.rows[i].LeadID == leadID {
				if s, ok := event.New["enrichment_status"].(string); ok {
					l.rows[i].Lead.EnrichmentStatus = s
				}
			}
		}
		return
	}

	id, _ := event.New["id"].(string)
	i := l.indexOf(id)
	if i < 0 {
		return
	}

	// Apply only the changed fields.
	if s, ok := event.New["status"].(string); ok && entity.IsValidStatus(s) {
		l.rows[i].Status = s
	}
	if raw, ok := event.New["viewed_at"].(string); ok {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			l.rows[i].ViewedAt = &t
		}
	}
	if raw, ok := event.New["contacted_at"].(string); ok {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			l.rows[i].ContactedAt = &t
		}
	}
}

func (l *LeadList) handleDelete(event queue.ChangeEvent) {
	if !l.eventMatchesWorkspace(event.Old) {
		return
	}

	id, _ := event.Old["id"].(string)

	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.indexOf(id)
	if i < 0 {
		return
	}
	l.rows = append(l.rows[:i], l.rows[i+1:]...)
	if l.totalCount > 0 {
		l.totalCount--
	}
	if l.openDetailID == id {
		l.openDetailID = ""
	}
}

// eventMatchesWorkspace enforces the tenant boundary on inbound events.
func (l *LeadList) eventMatchesWorkspace(row map[string]any) bool {
	ws, _ := row["workspace_id"].(string)
	if ws != l.workspaceID {
		log.Printf("[leads] WARNING: dropping change event for foreign workspace %q", ws)
		return false
	}
	return true
}

func (l *LeadList) OpenDetail(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.indexOf(id) >= 0 {
		l.openDetailID = id
	}
}

func (l *LeadList) CloseDetail() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.openDetailID = ""
}

func (l *LeadList) OpenDetailID() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.openDetailID
}

// NewSinceClear is the "N new leads" badge counter.
func (l *LeadList) NewSinceClear() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.newSinceClear
}

func (l *LeadList) ClearNewCounter() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.newSinceClear = 0
}

// Rows returns a snapshot of the loaded page.
func (l *LeadList) Rows() []entity.LeadAssignment {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]entity.LeadAssignment(nil), l.rows...)
}

func (l *LeadList) Page() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.page
}

func (l *LeadList) TotalCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.totalCount
}

func (l *LeadList) TotalPages() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.totalPages
}

func (l *LeadList) Filter() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.filter
}

// SetCredits mirrors the server-reported balance for the advisory bulk
// enrich precondition.
func (l *LeadList) SetCredits(credits int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.credits = credits
}

func (l *LeadList) Credits() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.credits
}

// indexOf requires l.mu held.
func (l *LeadList) indexOf(id string) int {
	for i := range l.rows {
		if l.rows[i].ID == id {
			return i
		}
	}
	return -1
}
