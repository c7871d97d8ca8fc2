package inbound

import (
	"context"
	"sort"

	"enrollment-sync/internal/event"
	"enrollment-sync/internal/pkg/errs"
	"enrollment-sync/internal/usecase/shared"
)

// HandlerFunc processes one raw payload from a topic.
type HandlerFunc func(ctx context.Context, payload []byte) error

type Router struct {
	routes map[string]HandlerFunc
}

func NewRouter() *Router {
	return &Router{routes: map[string]HandlerFunc{}}
}

func (r *Router) Handle(topic string, h HandlerFunc) {
	r.routes[topic] = h
}

// Topics lists the subscribed topics in a stable order.
func (r *Router) Topics() []string {
	out := make([]string, 0, len(r.routes))
	for t := range r.routes {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

func (r *Router) Dispatch(ctx context.Context, topic string, payload []byte) error {
	h, ok := r.routes[topic]
	if !ok {
		return errs.Mark(errs.Newf("no handler for topic %q", topic), errs.ErrMalformedMessage)
	}
	return h(ctx, payload)
}

// Route decodes payloads into M and applies them through the guard.
func Route[M any, PM interface {
	*M
	event.Message
}](g *Guard, apply func(ctx context.Context, tx shared.Tx, msg *M) error) HandlerFunc {
	return func(ctx context.Context, payload []byte) error {
		msg := PM(new(M))
		if err := event.Decode(payload, msg); err != nil {
			return err
		}
		_, err := g.Consume(ctx, msg.Meta(), msg.Kind(), func(ctx context.Context, tx shared.Tx) error {
			return apply(ctx, tx, (*M)(msg))
		})
		return err
	}
}
