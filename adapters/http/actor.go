package letterhttp

import (
	"context"

	"github.com/goliatone/go-letters/letter"
)

type actorContextKey struct{}

// WithActor stores the acting user ID in context for HTTP handlers.
func WithActor(ctx context.Context, actor string) context.Context {
	return context.WithValue(ctx, actorContextKey{}, actor)
}

// ContextActorProvider reads the acting user from request contexts.
type ContextActorProvider struct {
	Key any
}

// FromContext returns the actor stored in context.
func (p ContextActorProvider) FromContext(ctx context.Context) (string, error) {
	key := p.Key
	if key == nil {
		key = actorContextKey{}
	}
	actor, ok := ctx.Value(key).(string)
	if !ok {
		return "", letter.NewError(letter.KindAuthz, "actor not found in context", nil)
	}
	return actor, nil
}

// StaticActorProvider always returns the configured actor.
type StaticActorProvider struct {
	Actor string
}

// FromContext returns the configured actor.
func (p StaticActorProvider) FromContext(ctx context.Context) (string, error) {
	_ = ctx
	return p.Actor, nil
}
