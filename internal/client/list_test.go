package client

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/cursive-ai/cursive-leads/internal/entity"
	"github.com/cursive-ai/cursive-leads/internal/infra/queue"
)

const testWorkspace = "ws-1"

func pageResult(count, totalPages int, rows ...entity.LeadAssignment) *ListResult {
	result := &ListResult{Data: rows, Count: count}
	result.Pagination.TotalPages = totalPages
	return result
}

func newList(api *fakeListAPI) (*LeadList, *fakeNotifier) {
	notify := &fakeNotifier{}
	return NewLeadList(api, testWorkspace, 25, notify, nil), notify
}

func TestFetchLoadsFirstPage(t *testing.T) {
	api := &fakeListAPI{pages: map[int]*ListResult{
		1: pageResult(2, 1, assignmentRow("a-1", testWorkspace, entity.StatusNew), assignmentRow("a-2", testWorkspace, entity.StatusNew)),
	}}
	list, _ := newList(api)

	assert.NoError(t, list.Fetch(context.Background()))
	assert.Len(t, list.Rows(), 2)
	assert.Equal(t, 2, list.TotalCount())
	assert.Equal(t, 1, list.Page())
}

func TestFetchClampsPagePastEnd(t *testing.T) {
	api := &fakeListAPI{pages: map[int]*ListResult{
		1: pageResult(3, 1, assignmentRow("a-1", testWorkspace, entity.StatusNew)),
		5: pageResult(3, 1),
	}}
	list, _ := newList(api)

	assert.NoError(t, list.SetPage(context.Background(), 5))

	// Page 5 came back empty with only 1 total page, so the list refetched
	// from page 1 instead of rendering a blank screen.
	assert.Equal(t, 1, list.Page())
	assert.Len(t, list.Rows(), 1)
	assert.Len(t, api.listCalls, 2)
}

func TestFetchFailureKeepsStaleRows(t *testing.T) {
	api := &fakeListAPI{pages: map[int]*ListResult{
		1: pageResult(1, 1, assignmentRow("a-1", testWorkspace, entity.StatusNew)),
	}}
	list, _ := newList(api)
	assert.NoError(t, list.Fetch(context.Background()))

	api.mu.Lock()
	api.listErr = errors.New("gateway timeout")
	api.mu.Unlock()

	assert.Error(t, list.Fetch(context.Background()))
	assert.Len(t, list.Rows(), 1, "stale page stays visible on fetch failure")
}

func TestSetFilterResetsPageAndSelection(t *testing.T) {
	api := &fakeListAPI{pages: map[int]*ListResult{
		1: pageResult(1, 1, assignmentRow("a-1", testWorkspace, entity.StatusNew)),
	}}
	list, _ := newList(api)
	assert.NoError(t, list.Fetch(context.Background()))
	assert.True(t, list.ToggleSelect("a-1"))

	assert.NoError(t, list.SetFilter(context.Background(), FilterViewed))

	assert.Equal(t, FilterViewed, list.Filter())
	assert.Equal(t, 1, list.Page())
	assert.Empty(t, list.Selection(), "filter change clears the selection")

	last := api.listCalls[len(api.listCalls)-1]
	assert.Equal(t, entity.StatusViewed, last.Status)
}

func TestSetFilterRejectsUnknownTab(t *testing.T) {
	list, _ := newList(&fakeListAPI{})
	err := list.SetFilter(context.Background(), "archived-maybe")
	assert.Error(t, err)
	assert.Equal(t, FilterAll, list.Filter())
}

func TestSetPageClearsSelection(t *testing.T) {
	api := &fakeListAPI{pages: map[int]*ListResult{
		1: pageResult(30, 2, assignmentRow("a-1", testWorkspace, entity.StatusNew)),
		2: pageResult(30, 2, assignmentRow("a-26", testWorkspace, entity.StatusNew)),
	}}
	list, _ := newList(api)
	assert.NoError(t, list.Fetch(context.Background()))
	list.ToggleSelect("a-1")

	assert.NoError(t, list.SetPage(context.Background(), 2))
	assert.Empty(t, list.Selection())
	assert.Equal(t, 2, list.Page())
}

func TestSearchIsClientSideAndCaseInsensitive(t *testing.T) {
	row1 := assignmentRow("a-1", testWorkspace, entity.StatusNew)
	row1.Lead.Name = "Grace Hopper"
	row2 := assignmentRow("a-2", testWorkspace, entity.StatusNew)
	row2.Lead.Company = "Graceful Systems"
	row3 := assignmentRow("a-3", testWorkspace, entity.StatusNew)
	row3.Lead.Name = "Unrelated"
	row3.Lead.Email = "nobody@else.com"
	row3.Lead.Company = "Else"

	api := &fakeListAPI{pages: map[int]*ListResult{1: pageResult(3, 1, row1, row2, row3)}}
	list, _ := newList(api)
	assert.NoError(t, list.Fetch(context.Background()))
	calls := len(api.listCalls)

	matched := list.Search("GRACE")
	assert.Len(t, matched, 2)
	assert.Len(t, list.Search("  "), 3, "blank search returns the whole page")
	assert.Len(t, api.listCalls, calls, "search never hits the server")
}

func TestToggleSelectOnlyLoadedRows(t *testing.T) {
	api := &fakeListAPI{pages: map[int]*ListResult{
		1: pageResult(1, 1, assignmentRow("a-1", testWorkspace, entity.StatusNew)),
	}}
	list, _ := newList(api)
	assert.NoError(t, list.Fetch(context.Background()))

	assert.True(t, list.ToggleSelect("a-1"))
	assert.False(t, list.ToggleSelect("a-unloaded"))
	assert.Equal(t, []string{"a-1"}, list.Selection())

	// Second toggle deselects.
	assert.True(t, list.ToggleSelect("a-1"))
	assert.Empty(t, list.Selection())
}

func TestUpdateStatusOptimisticThenConfirmed(t *testing.T) {
	api := &fakeListAPI{pages: map[int]*ListResult{
		1: pageResult(1, 1, assignmentRow("a-1", testWorkspace, entity.StatusNew)),
	}}

	var observed []entity.LeadAssignment
	notify := &fakeNotifier{}
	list := NewLeadList(api, testWorkspace, 25, notify, func(a entity.LeadAssignment) {
		observed = append(observed, a)
	})
	assert.NoError(t, list.Fetch(context.Background()))

	assert.NoError(t, list.UpdateStatus(context.Background(), "a-1", entity.StatusViewed))

	rows := list.Rows()
	assert.Equal(t, entity.StatusViewed, rows[0].Status)
	assert.NotNil(t, rows[0].ViewedAt)
	assert.Equal(t, []string{"a-1:" + entity.StatusViewed}, api.updates)
	assert.Len(t, observed, 1)
	assert.Equal(t, 0, notify.errorCount())
}

func TestUpdateStatusRollsBackOnServerFailure(t *testing.T) {
	api := &fakeListAPI{
		pages: map[int]*ListResult{
			1: pageResult(1, 1, assignmentRow("a-1", testWorkspace, entity.StatusNew)),
		},
		updateErr: errors.New("500"),
	}
	list, notify := newList(api)
	assert.NoError(t, list.Fetch(context.Background()))

	assert.Error(t, list.UpdateStatus(context.Background(), "a-1", entity.StatusContacted))

	rows := list.Rows()
	assert.Equal(t, entity.StatusNew, rows[0].Status, "rollback restores the previous row")
	assert.Nil(t, rows[0].ViewedAt)
	assert.Nil(t, rows[0].ContactedAt)
	assert.Equal(t, 1, notify.errorCount())
}

func TestHandleInsertFetchesJoinedRowAndPrepends(t *testing.T) {
	fresh := assignmentRow("a-2", testWorkspace, entity.StatusNew)
	api := &fakeListAPI{
		pages: map[int]*ListResult{
			1: pageResult(1, 1, assignmentRow("a-1", testWorkspace, entity.StatusNew)),
		},
		leads: map[string]*entity.LeadAssignment{"a-2": &fresh},
	}
	list, _ := newList(api)
	assert.NoError(t, list.Fetch(context.Background()))

	list.HandleChange(context.Background(), queue.ChangeEvent{
		Event: queue.EventInsert,
		Table: "lead_assignments",
		New:   map[string]any{"id": "a-2", "workspace_id": testWorkspace},
	})

	rows := list.Rows()
	assert.Len(t, rows, 2)
	assert.Equal(t, "a-2", rows[0].ID, "new row is prepended")
	assert.Equal(t, 2, list.TotalCount())
	assert.Equal(t, 1, list.NewSinceClear())

	// Duplicate delivery is dropped.
	list.HandleChange(context.Background(), queue.ChangeEvent{
		Event: queue.EventInsert,
		New:   map[string]any{"id": "a-2", "workspace_id": testWorkspace},
	})
	assert.Len(t, list.Rows(), 2)
	assert.Equal(t, 1, list.NewSinceClear())
}

func TestHandleInsertDropsForeignWorkspaceRow(t *testing.T) {
	foreign := assignmentRow("a-9", "ws-other", entity.StatusNew)
	api := &fakeListAPI{
		pages: map[int]*ListResult{1: pageResult(0, 1)},
		leads: map[string]*entity.LeadAssignment{"a-9": &foreign},
	}
	list, _ := newList(api)
	assert.NoError(t, list.Fetch(context.Background()))

	list.HandleChange(context.Background(), queue.ChangeEvent{
		Event: queue.EventInsert,
		New:   map[string]any{"id": "a-9"},
	})
	assert.Empty(t, list.Rows())
	assert.Equal(t, 0, list.NewSinceClear())
}

func TestHandleUpdatePatchesRow(t *testing.T) {
	api := &fakeListAPI{pages: map[int]*ListResult{
		1: pageResult(1, 1, assignmentRow("a-1", testWorkspace, entity.StatusNew)),
	}}
	list, _ := newList(api)
	assert.NoError(t, list.Fetch(context.Background()))

	stamp := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	list.HandleChange(context.Background(), queue.ChangeEvent{
		Event: queue.EventUpdate,
		Table: "lead_assignments",
		New: map[string]any{
			"id":           "a-1",
			"workspace_id": testWorkspace,
			"status":       entity.StatusViewed,
			"viewed_at":    stamp.Format(time.RFC3339),
		},
	})

	rows := list.Rows()
	assert.Equal(t, entity.StatusViewed, rows[0].Status)
	assert.True(t, rows[0].ViewedAt.Equal(stamp))
}

func TestHandleUpdateDropsCrossTenantEvent(t *testing.T) {
	api := &fakeListAPI{pages: map[int]*ListResult{
		1: pageResult(1, 1, assignmentRow("a-1", testWorkspace, entity.StatusNew)),
	}}
	list, _ := newList(api)
	assert.NoError(t, list.Fetch(context.Background()))
	before := list.Rows()

	list.HandleChange(context.Background(), queue.ChangeEvent{
		Event: queue.EventUpdate,
		New: map[string]any{
			"id":           "a-1",
			"workspace_id": "ws-intruder",
			"status":       entity.StatusArchived,
		},
	})

	assert.Equal(t, before, list.Rows(), "snapshot unchanged by foreign-workspace event")
}

func TestHandleUpdateOnLeadsTableSetsEnrichment(t *testing.T) {
	row := assignmentRow("a-1", testWorkspace, entity.StatusNew)
	api := &fakeListAPI{pages: map[int]*ListResult{1: pageResult(1, 1, row)}}
	list, _ := newList(api)
	assert.NoError(t, list.Fetch(context.Background()))

	list.HandleChange(context.Background(), queue.ChangeEvent{
		Event: queue.EventUpdate,
		Table: "leads",
		New: map[string]any{
			"id":                row.LeadID,
			"workspace_id":      testWorkspace,
			"enrichment_status": entity.EnrichmentEnriched,
		},
	})

	assert.Equal(t, entity.EnrichmentEnriched, list.Rows()[0].Lead.EnrichmentStatus)
}

func TestHandleDeleteRemovesRowAndClosesDetail(t *testing.T) {
	api := &fakeListAPI{pages: map[int]*ListResult{
		1: pageResult(2, 1, assignmentRow("a-1", testWorkspace, entity.StatusNew), assignmentRow("a-2", testWorkspace, entity.StatusNew)),
	}}
	list, _ := newList(api)
	assert.NoError(t, list.Fetch(context.Background()))
	list.OpenDetail("a-1")

	list.HandleChange(context.Background(), queue.ChangeEvent{
		Event: queue.EventDelete,
		Old:   map[string]any{"id": "a-1", "workspace_id": testWorkspace},
	})

	rows := list.Rows()
	assert.Len(t, rows, 1)
	assert.Equal(t, "a-2", rows[0].ID)
	assert.Equal(t, 1, list.TotalCount())
	assert.Equal(t, "", list.OpenDetailID(), "detail panel closes when its row is removed")
}

func TestHandleDeleteForeignWorkspaceIgnored(t *testing.T) {
	api := &fakeListAPI{pages: map[int]*ListResult{
		1: pageResult(1, 1, assignmentRow("a-1", testWorkspace, entity.StatusNew)),
	}}
	list, _ := newList(api)
	assert.NoError(t, list.Fetch(context.Background()))

	list.HandleChange(context.Background(), queue.ChangeEvent{
		Event: queue.EventDelete,
		Old:   map[string]any{"id": "a-1", "workspace_id": "ws-other"},
	})
	assert.Len(t, list.Rows(), 1)
}

func TestNewCounterClears(t *testing.T) {
	fresh := assignmentRow("a-2", testWorkspace, entity.StatusNew)
	api := &fakeListAPI{
		pages: map[int]*ListResult{1: pageResult(0, 1)},
		leads: map[string]*entity.LeadAssignment{"a-2": &fresh},
	}
	list, _ := newList(api)
	assert.NoError(t, list.Fetch(context.Background()))

	list.HandleChange(context.Background(), queue.ChangeEvent{
		Event: queue.EventInsert,
		New:   map[string]any{"id": "a-2", "workspace_id": testWorkspace},
	})
	assert.Equal(t, 1, list.NewSinceClear())

	list.ClearNewCounter()
	assert.Equal(t, 0, list.NewSinceClear())
}
