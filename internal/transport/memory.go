package transport

import (
	"context"
	"sync"

	"meetctx/internal/models"
)

// Bus is an in-process transport. Handlers are offered each request in
// registration order until one claims it; notifications fan out to every
// subscriber.
type Bus struct {
	mu       sync.RWMutex
	nextID   uint64
	handlers []registeredHandler
	subs     []subscriber
}

type registeredHandler struct {
	id uint64
	h  Handler
}

type subscriber struct {
	id uint64
	fn func(v any)
}

func NewBus() *Bus { return &Bus{} }

func (b *Bus) Listen(h Handler) (func(), error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	id := b.nextID
	b.handlers = append(b.handlers, registeredHandler{id: id, h: h})
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		for i, r := range b.handlers {
			if r.id == id {
				b.handlers = append(b.handlers[:i], b.handlers[i+1:]...)
				return
			}
		}
	}, nil
}

// Subscribe registers fn for notifications sent with Send.
func (b *Bus) Subscribe(fn func(v any)) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	id := b.nextID
	b.subs = append(b.subs, subscriber{id: id, fn: fn})
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		for i, s := range b.subs {
			if s.id == id {
				b.subs = append(b.subs[:i], b.subs[i+1:]...)
				return
			}
		}
	}
}

// Request offers msg to the registered handlers and waits for the owner's
// reply or for ctx to end.
func (b *Bus) Request(ctx context.Context, msg models.Message) (any, error) {
	b.mu.RLock()
	handlers := append([]registeredHandler(nil), b.handlers...)
	b.mu.RUnlock()

	ch := make(chan any, 1)
	reply := Once(func(v any) error {
		ch <- v
		return nil
	})
	for _, r := range handlers {
		if !r.h.Handle(ctx, msg, reply) {
			continue
		}
		select {
		case v := <-ch:
			return v, nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return nil, ErrUnhandled
}

// Send delivers v to every subscriber, or returns ErrNoListener if there
// are none.
func (b *Bus) Send(ctx context.Context, v any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.mu.RLock()
	subs := append([]subscriber(nil), b.subs...)
	b.mu.RUnlock()
	if len(subs) == 0 {
		return ErrNoListener
	}
	for _, s := range subs {
		s.fn(v)
	}
	return nil
}
