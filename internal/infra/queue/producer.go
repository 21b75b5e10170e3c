package queue

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Change event kinds, mirroring the row operations of the store.
const (
	EventInsert = "INSERT"
	EventUpdate = "UPDATE"
	EventDelete = "DELETE"
)

// ChangeEvent is the realtime notification pushed to dashboard subscribers.
// New and Old carry the changed table's raw columns only, never the joined
// lead fields; subscribers re-fetch the full row when they need the join.
type ChangeEvent struct {
	Event  string         `json:"event"`
	Schema string         `json:"schema"`
	Table  string         `json:"table"`
	New    map[string]any `json:"new,omitempty"`
	Old    map[string]any `json:"old,omitempty"`
}

// SeedPayload asks the background worker to populate a fresh workspace with
// its first batch of matched leads.
type SeedPayload struct {
	WorkspaceID string `json:"workspace_id"`
	UserID      string `json:"user_id"`
	Industry    string `json:"industry"`
}

type RabbitMQProducer struct {
	Conn *amqp.Connection
	Ch   *amqp.Channel
}

func NewProducer(conn *amqp.Connection, ch *amqp.Channel) *RabbitMQProducer {
	return &RabbitMQProducer{Conn: conn, Ch: ch}
}

// PublishChange routes a change event to the tenant channel identified by
// workspace + user.
func (p *RabbitMQProducer) PublishChange(ctx context.Context, workspaceID, userID string, event ChangeEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal change event: %w", err)
	}

	err = p.Ch.PublishWithContext(ctx,
		ChangesExchange,
		ChangeRoutingKey(workspaceID, userID),
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish change event: %w", err)
	}
	return nil
}

// PublishSeed enqueues the initial-data job. Durable: a workspace with no
// leads is a bad first impression, so the job must survive a broker restart.
func (p *RabbitMQProducer) PublishSeed(ctx context.Context, payload SeedPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal seed payload: %w", err)
	}

	err = p.Ch.PublishWithContext(ctx,
		SeedExchange,
		SeedRoutingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("publish seed job: %w", err)
	}
	return nil
}
