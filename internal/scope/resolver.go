// Package scope resolves library ids to their permission scope tokens.
package scope

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/longbox/longbox-server/internal/domain"
)

// LibraryGetter is the slice of the store the resolver needs.
type LibraryGetter interface {
	GetLibrary(ctx context.Context, id string) (*domain.Library, error)
}

// Resolver caches library-id-to-scope lookups. Scope tokens change rarely
// but are consulted on every scoped request, so hits are served from a TTL
// cache; library mutations call Invalidate to keep the cache honest within
// the TTL window.
type Resolver struct {
	store LibraryGetter
	cache *expirable.LRU[string, string]
}

// NewResolver builds a resolver over the given store. A zero ttl disables
// expiry-based eviction, leaving Invalidate as the only refresh path.
func NewResolver(store LibraryGetter, size int, ttl time.Duration) *Resolver {
	return &Resolver{
		store: store,
		cache: expirable.NewLRU[string, string](size, nil, ttl),
	}
}

// Resolve returns the scope token for a library id. Errors from the store
// pass through unchanged, so a missing library stays NotFound.
func (r *Resolver) Resolve(ctx context.Context, libraryID string) (string, error) {
	if scope, ok := r.cache.Get(libraryID); ok {
		return scope, nil
	}
	l, err := r.store.GetLibrary(ctx, libraryID)
	if err != nil {
		return "", err
	}
	r.cache.Add(libraryID, l.Scope)
	return l.Scope, nil
}

// Invalidate drops a library's cached scope. Called after the library is
// updated or deleted.
func (r *Resolver) Invalidate(libraryID string) {
	r.cache.Remove(libraryID)
}
