package messaging

import (
	"fmt"

	"github.com/nats-io/nats.go"

	"helperhive/pkg/logger"
)

// NATSPublisher fans domain events out to other services.
type NATSPublisher struct {
	conn *nats.Conn
}

func NewNATSPublisher(url string) (*NATSPublisher, error) {
	nc, err := nats.Connect(url,
		nats.Name("helperhive-api"),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("NATS disconnected: %v", err)
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			logger.Info("NATS reconnected to %s", c.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	logger.Info("Connected to NATS at %s", url)
	return &NATSPublisher{conn: nc}, nil
}

func (p *NATSPublisher) Publish(subject string, data []byte) error {
	return p.conn.Publish(subject, data)
}

func (p *NATSPublisher) Close() error {
	if err := p.conn.Drain(); err != nil {
		p.conn.Close()
		return err
	}
	return nil
}
