package rabbitmq

import (
	"context"
	"encoding/json"

	"github.com/ShenShiNing/new-tube/config"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

type Publisher interface {
	Publish(ctx context.Context, message any) error
}

type publisher struct {
	conn     *amqp.Connection
	cfg      *config.RabbitMQ
	topology Topology
}

func NewPublisher(conn *amqp.Connection, cfg *config.RabbitMQ, topology Topology) Publisher {
	return &publisher{
		conn:     conn,
		cfg:      cfg,
		topology: topology,
	}
}

func (p *publisher) Publish(ctx context.Context, message any) error {
	ch, err := p.conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	err = ch.ExchangeDeclare(p.topology.Exchange, p.cfg.Kind, true, false, false, false, nil)
	if err != nil {
		zerolog.Ctx(ctx).Error().Str("exchange", p.topology.Exchange).Msg("failed to declare exchange")
		return err
	}

	body, err := json.Marshal(message)
	if err != nil {
		return err
	}

	return ch.PublishWithContext(ctx, p.topology.Exchange, p.topology.RoutingKey, false, false, amqp.Publishing{
		ContentType: "application/json",
		Body:        body,
	})
}
