package graph

import (
	"context"
	"errors"
)

var ErrNoLoaders = errors.New("no loaders in context")

type loadersContextKey struct{}

func AddToContext(ctx context.Context, loaders *Loaders) context.Context {
	return context.WithValue(ctx, loadersContextKey{}, loaders)
}

// FromContext returns the request's loader bundle. There is deliberately no
// fallback: a resolver running without a bundle would silently lose batching
// and request isolation, so it is an error instead.
func FromContext(ctx context.Context) (*Loaders, error) {
	loaders, ok := ctx.Value(loadersContextKey{}).(*Loaders)
	if !ok || loaders == nil {
		return nil, ErrNoLoaders
	}
	return loaders, nil
}
