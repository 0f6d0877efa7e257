// Package natsevents publishes task change events over NATS. The
// publisher is optional infrastructure: when NATS is unconfigured or
// unreachable the container wires the no-op publisher instead, and a
// publish failure never fails the write that produced the event.
package natsevents

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"tasklist-api/domain/ports"
	"tasklist-api/pkg/config"
	"tasklist-api/pkg/logger"
)

// SubjectPrefix is completed by the event action, e.g. tasks.events.created.
const SubjectPrefix = "tasks.events."

type Publisher struct {
	conn *nats.Conn
}

func NewPublisher(cfg *config.NATSConfig) (*Publisher, error) {
	nc, err := nats.Connect(cfg.URL,
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			if err != nil {
				logger.Warn("NATS disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("NATS reconnected", "url", nc.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	logger.Info("NATS publisher initialized", "url", cfg.URL)

	return &Publisher{conn: nc}, nil
}

func (p *Publisher) Publish(ctx context.Context, event ports.TaskEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.conn.Publish(SubjectPrefix+event.Action, data)
}

func (p *Publisher) Close() error {
	if err := p.conn.Drain(); err != nil {
		p.conn.Close()
		return err
	}
	return nil
}
