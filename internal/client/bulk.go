package client

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cursive-ai/cursive-leads/internal/entity"
)

type bulkAPI interface {
	BulkAction(ctx context.Context, request BulkRequest) (*BulkResult, error)
	EnrichLead(ctx context.Context, id string) (*EnrichResult, error)
}

// FileSaver lands the exported CSV. The real dashboard hands the bytes to
// the browser; here it is a disk write.
type FileSaver interface {
	Save(name string, data []byte) error
}

type DiskSaver struct {
	Dir string
}

func (s DiskSaver) Save(name string, data []byte) error {
	return os.WriteFile(filepath.Join(s.Dir, name), data, 0o644)
}

// ProgressFunc reports the running bulk-enrich counter (completed, total).
type ProgressFunc func(done, total int)

// BulkCoordinator applies one action to every selected row. It only reads
// the list's selection and talks to the server; the list itself catches up
// through its own realtime handling.
type BulkCoordinator struct {
	api    bulkAPI
	list   *LeadList
	notify Notifier
	files  FileSaver
}

func NewBulkCoordinator(api bulkAPI, list *LeadList, notify Notifier, files FileSaver) *BulkCoordinator {
	return &BulkCoordinator{api: api, list: list, notify: notify, files: files}
}

// Archive sends one batched call for the whole selection. All-or-nothing:
// on failure the selection is kept so the user can retry without
// re-selecting.
func (c *BulkCoordinator) Archive(ctx context.Context) error {
	return c.batched(ctx, BulkRequest{Action: "archive"}, "Leads archived")
}

func (c *BulkCoordinator) Unarchive(ctx context.Context) error {
	return c.batched(ctx, BulkRequest{Action: "unarchive"}, "Leads restored")
}

// Tag applies one tag to the selection. The name is trimmed and required
// before anything leaves the client.
func (c *BulkCoordinator) Tag(ctx context.Context, tagName string) error {
	tagName = strings.TrimSpace(tagName)
	if tagName == "" {
		c.notify.Error("Tag name is required")
		return &StatusError{Code: 400, Message: "tag name is required"}
	}
	return c.batched(ctx, BulkRequest{Action: "tag", TagName: tagName}, "Tag applied")
}

func (c *BulkCoordinator) batched(ctx context.Context, request BulkRequest, successMsg string) error {
	ids := c.list.Selection()
	if len(ids) == 0 {
		return nil
	}
	request.LeadIDs = ids

	if _, err := c.api.BulkAction(ctx, request); err != nil {
		c.notify.Error(fmt.Sprintf("Bulk %s failed", request.Action))
		return err
	}

	c.notify.Success(successMsg)
	c.list.ClearSelection()
	return nil
}

// ExportCSV downloads the selection as a date-stamped CSV file. Read-only:
// the selection survives either outcome.
func (c *BulkCoordinator) ExportCSV(ctx context.Context, exportContext string) error {
	ids := c.list.Selection()
	if len(ids) == 0 {
		return nil
	}

	result, err := c.api.BulkAction(ctx, BulkRequest{LeadIDs: ids, Action: "export_csv"})
	if err != nil {
		c.notify.Error("Export failed")
		return err
	}

	name := fmt.Sprintf("cursive-leads-%s-%s.csv", exportContext, time.Now().Format("2006-01-02"))
	if err := c.files.Save(name, result.CSV); err != nil {
		c.notify.Error("Could not save export file")
		return err
	}

	c.notify.Success("Exported " + name)
	return nil
}

// CanEnrich is the advisory credit precondition: enough balance for every
// selected row that is not already enriched. The server remains the
// authority when the calls actually run.
func (c *BulkCoordinator) CanEnrich() bool {
	return c.list.Credits() >= c.pendingEnrichCount()
}

func (c *BulkCoordinator) pendingEnrichCount() int {
	n := 0
	for _, row := range c.list.SelectedRows() {
		if row.Lead.EnrichmentStatus != entity.EnrichmentEnriched {
			n++
		}
	}
	return n
}

// EnrichAll enriches the selection one row at a time, in selection order.
// Per-item failures are tolerated and the loop keeps going; only the
// completed count is reported. The selection is cleared unconditionally at
// the end, however many rows actually succeeded.
func (c *BulkCoordinator) EnrichAll(ctx context.Context, progress ProgressFunc) (succeeded int) {
	ids := c.list.Selection()
	total := len(ids)
	if total == 0 {
		return 0
	}

	for done, id := range ids {
		result, err := c.api.EnrichLead(ctx, id)
		if err == nil {
			succeeded++
			c.list.SetCredits(result.CreditsRemaining)
		}
		if progress != nil {
			progress(done+1, total)
		}
	}

	c.list.ClearSelection()
	c.notify.Success(fmt.Sprintf("Enriched %d of %d leads", succeeded, total))
	return succeeded
}
