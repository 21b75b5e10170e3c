package client

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/cursive-ai/cursive-leads/internal/infra/queue"
)

// Subscription is the realtime change-event handle. It is owned by whoever
// owns the list and must be closed deterministically when that owner goes
// away. The bound routing key encodes both workspace and user, so the
// broker never delivers another tenant's events here in the first place;
// the list still re-checks workspace on every event it applies.
type Subscription struct {
	ch        *amqp.Channel
	queueName string
	consumer  string

	closeOnce sync.Once
	closed    chan error
}

// Subscribe binds an exclusive, auto-delete queue to the tenant channel and
// starts delivering events to handler on a dedicated goroutine. Events are
// applied in receipt order; the transport does not promise write order.
func Subscribe(ch *amqp.Channel, workspaceID, userID string, handler func(context.Context, queue.ChangeEvent)) (*Subscription, error) {
	q, err := ch.QueueDeclare(
		"",    // broker-named
		false, // durable
		true,  // auto-delete
		true,  // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		return nil, err
	}

	key := queue.ChangeRoutingKey(workspaceID, userID)
	if err := ch.QueueBind(q.Name, key, queue.ChangesExchange, false, nil); err != nil {
		return nil, err
	}

	consumer := "leads-" + q.Name
	msgs, err := ch.Consume(q.Name, consumer, true, true, false, false, nil)
	if err != nil {
		return nil, err
	}

	s := &Subscription{
		ch:        ch,
		queueName: q.Name,
		consumer:  consumer,
		closed:    make(chan error, 1),
	}

	go func() {
		for d := range msgs {
			var event queue.ChangeEvent
			if err := json.Unmarshal(d.Body, &event); err != nil {
				log.Printf("[realtime] malformed change event, dropping: %v", err)
				continue
			}
			handler(context.Background(), event)
		}
		// Delivery channel closed: either Close() ran or the transport
		// dropped. No resync is attempted here; owners watching Closed()
		// decide whether to re-subscribe and re-fetch.
		s.closed <- amqp.ErrClosed
	}()

	return s, nil
}

// Close tears the subscription down. Safe to call more than once.
func (s *Subscription) Close() error {
	var err error
	s.closeOnce.Do(func() {
		err = s.ch.Cancel(s.consumer, false)
	})
	return err
}

// Closed reports the end of the delivery stream.
func (s *Subscription) Closed() <-chan error {
	return s.closed
}
