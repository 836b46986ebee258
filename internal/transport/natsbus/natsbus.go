// Package natsbus carries the meeting context protocol over NATS: queries
// use request/reply on one subject, announcements are published on another.
package natsbus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/nats-io/nats.go"

	"meetctx/internal/models"
	"meetctx/internal/transport"
	"meetctx/pkg/logger"
)

const (
	DefaultQuerySubject = "meetctx.query"
	DefaultEventSubject = "meetctx.events"
)

// Bus implements transport.Listener and transport.Sender on a NATS
// connection. The connection is owned by the caller.
type Bus struct {
	nc           *nats.Conn
	querySubject string
	eventSubject string
	log          *logger.Logger
}

type Option func(*Bus)

func WithSubjects(query, events string) Option {
	return func(b *Bus) {
		if query != "" {
			b.querySubject = query
		}
		if events != "" {
			b.eventSubject = events
		}
	}
}

func WithLogger(l *logger.Logger) Option { return func(b *Bus) { b.log = l } }

func New(nc *nats.Conn, opts ...Option) *Bus {
	b := &Bus{
		nc:           nc,
		querySubject: DefaultQuerySubject,
		eventSubject: DefaultEventSubject,
		log:          logger.NewNop(),
	}
	for _, o := range opts {
		o(b)
	}
	return b
}

// Listen subscribes h to the query subject. Requests h does not claim get no
// reply, so another responder on the subject may answer instead.
func (b *Bus) Listen(h transport.Handler) (func(), error) {
	sub, err := b.nc.Subscribe(b.querySubject, func(m *nats.Msg) {
		var msg models.Message
		if err := json.Unmarshal(m.Data, &msg); err != nil {
			b.log.Warnf("drop malformed request on %s: %v", m.Subject, err)
			return
		}
		reply := transport.Once(func(v any) error {
			data, err := json.Marshal(v)
			if err != nil {
				return fmt.Errorf("marshal reply: %w", err)
			}
			return m.Respond(data)
		})
		if !h.Handle(context.Background(), msg, reply) {
			b.log.Debugf("request type %q not handled", msg.Type)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("subscribe %s: %w", b.querySubject, err)
	}
	return func() { _ = sub.Unsubscribe() }, nil
}

// Send publishes v on the event subject.
func (b *Bus) Send(ctx context.Context, v any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if err := b.nc.Publish(b.eventSubject, data); err != nil {
		return fmt.Errorf("publish %s: %w", b.eventSubject, err)
	}
	return nil
}

// Request sends msg as a query and decodes the reply into out.
func (b *Bus) Request(ctx context.Context, msg models.Message, out any) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	resp, err := b.nc.RequestWithContext(ctx, b.querySubject, data)
	if errors.Is(err, nats.ErrNoResponders) {
		return fmt.Errorf("request %s: %w", b.querySubject, transport.ErrNoListener)
	}
	if err != nil {
		return fmt.Errorf("request %s: %w", b.querySubject, err)
	}
	if err := json.Unmarshal(resp.Data, out); err != nil {
		return fmt.Errorf("unmarshal reply: %w", err)
	}
	return nil
}

// Subscribe delivers announcements published on the event subject to fn.
func (b *Bus) Subscribe(fn func(models.Announcement)) (func(), error) {
	sub, err := b.nc.Subscribe(b.eventSubject, func(m *nats.Msg) {
		var a models.Announcement
		if err := json.Unmarshal(m.Data, &a); err != nil {
			b.log.Warnf("drop malformed event on %s: %v", m.Subject, err)
			return
		}
		fn(a)
	})
	if err != nil {
		return nil, fmt.Errorf("subscribe %s: %w", b.eventSubject, err)
	}
	return func() { _ = sub.Unsubscribe() }, nil
}
