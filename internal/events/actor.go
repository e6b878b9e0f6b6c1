package events

import "context"

type actorKey struct{}

// WithActor stores the acting admin on ctx.
func WithActor(ctx context.Context, adminID int64) context.Context {
	return context.WithValue(ctx, actorKey{}, Actor{AdminID: adminID})
}

// ActorFromContext returns the acting admin, zero when none was set.
func ActorFromContext(ctx context.Context) Actor {
	a, _ := ctx.Value(actorKey{}).(Actor)
	return a
}
