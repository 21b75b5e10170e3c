package queue

import (
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	// Change events fan out per tenant over a topic exchange. The routing
	// key carries both workspace and user so a subscriber can never bind
	// itself to another tenant's stream by accident.
	ChangesExchange = "ex.leads.changes"

	// Seed jobs populate a fresh workspace with its first matched leads.
	SeedExchange   = "ex.onboarding"
	SeedQueue      = "q.leads.seed"
	SeedDLQ        = "q.leads.seed.dlq"
	SeedDLX        = "ex.dlx"
	SeedRoutingKey = "k.seed"
)

// ChangeRoutingKey builds the per-tenant routing key for change events.
func ChangeRoutingKey(workspaceID, userID string) string {
	return fmt.Sprintf("leads.%s.%s", workspaceID, userID)
}

type RabbitMQ struct {
	Conn *amqp.Connection
	Ch   *amqp.Channel
}

func NewRabbitMQ(user, pass, host, port string) (*RabbitMQ, error) {
	dsn := fmt.Sprintf("amqp://%s:%s@%s:%s/", user, pass, host, port)

	conn, err := amqp.Dial(dsn)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq dial failed: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("rabbitmq channel failed: %w", err)
	}

	if err := setupTopology(ch); err != nil {
		return nil, err
	}

	return &RabbitMQ{Conn: conn, Ch: ch}, nil
}

func setupTopology(ch *amqp.Channel) error {
	err := ch.ExchangeDeclare(ChangesExchange, "topic", true, false, false, false, nil)
	if err != nil {
		return err
	}

	err = ch.ExchangeDeclare(SeedDLX, "direct", true, false, false, false, nil)
	if err != nil {
		return err
	}

	_, err = ch.QueueDeclare(SeedDLQ, true, false, false, false, nil)
	if err != nil {
		return err
	}

	err = ch.QueueBind(SeedDLQ, SeedRoutingKey, SeedDLX, false, nil)
	if err != nil {
		return err
	}

	args := amqp.Table{
		"x-dead-letter-exchange":    SeedDLX,
		"x-dead-letter-routing-key": SeedRoutingKey,
	}

	err = ch.ExchangeDeclare(SeedExchange, "direct", true, false, false, false, nil)
	if err != nil {
		return err
	}

	_, err = ch.QueueDeclare(SeedQueue, true, false, false, false, args)
	if err != nil {
		return err
	}

	return ch.QueueBind(SeedQueue, SeedRoutingKey, SeedExchange, false, nil)
}
