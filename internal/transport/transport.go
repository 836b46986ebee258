// Package transport defines how the responder and announcer talk to the
// external controller: request/response with a single, possibly deferred,
// reply, and one-way notifications.
package transport

import (
	"context"
	"errors"
	"sync"

	"meetctx/internal/models"
)

var (
	// ErrUnhandled means no registered handler claimed a request.
	ErrUnhandled = errors.New("message not handled")
	// ErrNoListener means a notification had nobody to receive it.
	ErrNoListener = errors.New("no listener")
	// ErrAlreadyReplied is returned on a second reply to the same request.
	ErrAlreadyReplied = errors.New("reply already sent")
)

// Reply delivers the response to one request. It may be called inside Handle
// or later from another goroutine.
type Reply func(v any) error

// Handler processes inbound requests. Handle reports whether it took
// ownership of msg; a handler that returns false must not call reply, which
// leaves the request to other handlers on the same channel.
type Handler interface {
	Handle(ctx context.Context, msg models.Message, reply Reply) bool
}

type HandlerFunc func(ctx context.Context, msg models.Message, reply Reply) bool

func (f HandlerFunc) Handle(ctx context.Context, msg models.Message, reply Reply) bool {
	return f(ctx, msg, reply)
}

// Listener registers request handlers. The returned stop func unregisters.
type Listener interface {
	Listen(h Handler) (stop func(), err error)
}

// Sender delivers fire-and-forget notifications.
type Sender interface {
	Send(ctx context.Context, v any) error
}

// Once wraps r so that only the first call is delivered.
func Once(r Reply) Reply {
	var (
		mu   sync.Mutex
		done bool
	)
	return func(v any) error {
		mu.Lock()
		if done {
			mu.Unlock()
			return ErrAlreadyReplied
		}
		done = true
		mu.Unlock()
		return r(v)
	}
}
