package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"staff-console-go/pkg/logger"
)

const (
	natsMaxReconnects = -1
	natsReconnectWait = 2 * time.Second
)

// NATSSink publishes successful record changes to
// "<prefix>.<entity>.<action>". Failures stay local.
type NATSSink struct {
	conn   *nats.Conn
	prefix string
	log    logger.Logger
}

func NewNATSSink(natsURL, prefix string, log logger.Logger) (*NATSSink, error) {
	opts := []nats.Option{
		nats.Name("staff-console"),
		nats.MaxReconnects(natsMaxReconnects),
		nats.ReconnectWait(natsReconnectWait),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.InternalError("notify.nats: disconnected", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info("notify.nats: reconnected", "url", nc.ConnectedUrl())
		}),
		nats.ErrorHandler(func(nc *nats.Conn, sub *nats.Subscription, err error) {
			log.InternalError("notify.nats: async error", err)
		}),
	}

	conn, err := nats.Connect(natsURL, opts...)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}
	return &NATSSink{conn: conn, prefix: prefix, log: log}, nil
}

func (s *NATSSink) Notify(_ context.Context, event Event) {
	if event.Kind != KindSuccess {
		return
	}

	payload, err := json.Marshal(event)
	if err != nil {
		s.log.InternalError("notify.nats: encode failed", err)
		return
	}

	subject := Subject(s.prefix, event)
	if err := s.conn.Publish(subject, payload); err != nil {
		s.log.InternalError("notify.nats: publish failed", err, "subject", subject)
	}
}

func (s *NATSSink) Close() error {
	return s.conn.Drain()
}

// Subject is the NATS subject an event is published on.
func Subject(prefix string, event Event) string {
	return prefix + "." + event.Entity + "." + event.Action
}
