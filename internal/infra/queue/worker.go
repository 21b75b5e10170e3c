package queue

import (
	"context"
	"encoding/json"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/cursive-ai/cursive-leads/internal/entity"
)

// LeadMatcher finds candidate leads for a workspace's targeting profile.
type LeadMatcher interface {
	FindMatching(ctx context.Context, industry string, limit int) ([]entity.Lead, error)
}

// AssignmentWriter persists the seeded assignments.
type AssignmentWriter interface {
	Insert(ctx context.Context, a *entity.LeadAssignment) error
}

// ChangePublisher pushes realtime notifications for the rows the worker
// creates, so an already-open dashboard sees them arrive live.
type ChangePublisher interface {
	PublishChange(ctx context.Context, workspaceID, userID string, event ChangeEvent) error
}

const seedBatchSize = 25

// SeedWorker consumes seed jobs and populates a new workspace with its first
// matched leads. Onboarding treats the enqueue as best-effort because this
// worker runs on a schedule of its own; a lost HTTP response never loses the
// job itself.
type SeedWorker struct {
	Channel     *amqp.Channel
	Leads       LeadMatcher
	Assignments AssignmentWriter
	Changes     ChangePublisher
}

func NewSeedWorker(ch *amqp.Channel, leads LeadMatcher, assignments AssignmentWriter, changes ChangePublisher) *SeedWorker {
	return &SeedWorker{
		Channel:     ch,
		Leads:       leads,
		Assignments: assignments,
		Changes:     changes,
	}
}

func (w *SeedWorker) Start(queueName string) {
	msgs, err := w.Channel.Consume(
		queueName,
		"",    // consumer
		false, // manual ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		log.Fatalf("[seed-worker] consume failed: %s", err)
	}

	forever := make(chan bool)

	go func() {
		for d := range msgs {
			var payload SeedPayload
			if err := json.Unmarshal(d.Body, &payload); err != nil {
				log.Printf("[seed-worker] malformed payload, dropping: %s", err)
				d.Nack(false, false)
				continue
			}

			log.Printf("[seed-worker] seeding workspace %s", payload.WorkspaceID)

			if err := w.processSeed(context.Background(), payload); err != nil {
				log.Printf("[seed-worker] seed failed for workspace %s: %s", payload.WorkspaceID, err)
				d.Nack(false, false)
			} else {
				d.Ack(false)
			}
		}
	}()

	log.Printf("[seed-worker] waiting on queue %q", queueName)
	<-forever
}

func (w *SeedWorker) processSeed(ctx context.Context, payload SeedPayload) error {
	leads, err := w.Leads.FindMatching(ctx, payload.Industry, seedBatchSize)
	if err != nil {
		return err
	}

	for _, lead := range leads {
		criteria := map[string]string{"industry": payload.Industry}
		assignment, err := entity.NewLeadAssignment(lead.ID, payload.WorkspaceID, payload.UserID, criteria)
		if err != nil {
			return err
		}
		if err := w.Assignments.Insert(ctx, assignment); err != nil {
			return err
		}

		event := ChangeEvent{
			Event:  EventInsert,
			Schema: "public",
			Table:  "lead_assignments",
			New: map[string]any{
				"id":           assignment.ID,
				"lead_id":      assignment.LeadID,
				"workspace_id": assignment.WorkspaceID,
				"user_id":      assignment.UserID,
				"status":       assignment.Status,
			},
		}
		if err := w.Changes.PublishChange(ctx, payload.WorkspaceID, payload.UserID, event); err != nil {
			// The row is persisted; the dashboard will pick it up on the
			// next fetch even if the live notification is lost.
			log.Printf("[seed-worker] change publish failed for %s: %s", assignment.ID, err)
		}
	}

	log.Printf("[seed-worker] workspace %s seeded with %d leads", payload.WorkspaceID, len(leads))
	return nil
}
