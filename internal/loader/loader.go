// Package loader implements request-scoped batching and caching of keyed
// lookups. Resolvers ask a Loader for single keys; the Loader coalesces all
// keys requested during one resolution pass into a single call to the
// supplied batch function, deduplicates repeated keys, and memoizes every
// outcome for the lifetime of the Loader.
//
// A Loader is built for the lifetime of one inbound request and discarded
// with it. Nothing in this package is shared between requests.
package loader

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrWrongResultCount indicates a batch function that broke its contract by
// returning a different number of results than it was given keys. The batch
// fails loudly rather than guessing at an alignment.
var ErrWrongResultCount = errors.New("batch function returned wrong number of results")

// Result is the outcome of a single keyed lookup: a value or an error.
type Result[V any] struct {
	Value V
	Err   error
}

// Thunk returns the outcome of a previously requested load, blocking until
// the batch the key joined has been dispatched and resolved.
type Thunk[V any] func() (V, error)

// BatchFunc fetches values for an ordered list of distinct keys. It must
// return exactly one Result per key, positionally aligned with its input:
// position i of the output corresponds to position i of the input. Individual
// keys fail via Result.Err; a non-nil error return is a total failure of the
// whole batch.
type BatchFunc[K comparable, V any] func(ctx context.Context, keys []K) ([]Result[V], error)

type Wait time.Duration
type MaxBatch int

// Loader batches and caches lookups for one key-space within one request.
// It is safe for use from concurrently executing resolvers.
type Loader[K comparable, V any] struct {
	fetch    BatchFunc[K, V]
	wait     time.Duration
	maxBatch int

	mu    sync.Mutex
	cache map[K]Result[V]
	batch *batch[K, V]
}

// New creates a Loader around fetch. An open batch accumulates keys until a
// caller forces one of its thunks; the first forcer waits out the join window
// before dispatching, so loads issued concurrently still coalesce. A batch
// reaching maxBatch keys (0 means unbounded) or an explicit Flush dispatches
// without waiting.
func New[K comparable, V any](fetch BatchFunc[K, V], wait Wait, maxBatch MaxBatch) *Loader[K, V] {
	return &Loader[K, V]{
		fetch:    fetch,
		wait:     time.Duration(wait),
		maxBatch: int(maxBatch),
		cache:    make(map[K]Result[V]),
	}
}

// Load fetches the value for key, blocking until its batch has resolved.
func (l *Loader[K, V]) Load(ctx context.Context, key K) (V, error) {
	return l.LoadThunk(ctx, key)()
}

// LoadThunk registers key for the next batch and returns a thunk for its
// outcome. Cached keys resolve immediately; a key already in the open batch
// shares that batch's pending entry rather than creating a second one.
func (l *Loader[K, V]) LoadThunk(ctx context.Context, key K) Thunk[V] {
	l.mu.Lock()

	if result, ok := l.cache[key]; ok {
		l.mu.Unlock()
		return func() (V, error) {
			return result.Value, result.Err
		}
	}

	if l.batch == nil {
		l.batch = newBatch(l, ctx)
	}
	b := l.batch

	pos, ok := b.index[key]
	full := false
	if !ok {
		pos = len(b.keys)
		b.keys = append(b.keys, key)
		b.index[key] = pos

		if l.maxBatch != 0 && len(b.keys) >= l.maxBatch {
			b.triggerLocked()
			full = true
		}
	}
	l.mu.Unlock()

	if full {
		go b.dispatch()
	}

	return func() (V, error) {
		b.trigger()
		<-b.done

		if b.err != nil {
			var zero V
			return zero, b.err
		}
		result := b.results[pos]
		return result.Value, result.Err
	}
}

// LoadMany fetches the values for keys. The returned slices are positionally
// aligned with the input, independent of completion order.
func (l *Loader[K, V]) LoadMany(ctx context.Context, keys []K) ([]V, []error) {
	return l.LoadManyThunk(ctx, keys)()
}

// LoadManyThunk registers every key and returns a thunk for the combined,
// positionally aligned outcome.
func (l *Loader[K, V]) LoadManyThunk(ctx context.Context, keys []K) func() ([]V, []error) {
	thunks := make([]Thunk[V], len(keys))
	for i, key := range keys {
		thunks[i] = l.LoadThunk(ctx, key)
	}

	return func() ([]V, []error) {
		values := make([]V, len(thunks))
		errs := make([]error, len(thunks))
		for i, thunk := range thunks {
			values[i], errs[i] = thunk()
		}
		return values, errs
	}
}

// Prime seeds the cache with a value already known from elsewhere, typically
// a row returned by a broader query. Priming an already cached key is a
// no-op. Reports whether the value was stored.
func (l *Loader[K, V]) Prime(key K, value V) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.cache[key]; ok {
		return false
	}
	l.cache[key] = Result[V]{Value: value}
	return true
}

// Clear evicts key from the cache. The open batch is unaffected.
func (l *Loader[K, V]) Clear(key K) {
	l.mu.Lock()
	defer l.mu.Unlock()

	delete(l.cache, key)
}

// ClearAll evicts every cached outcome. The open batch is unaffected.
func (l *Loader[K, V]) ClearAll() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.cache = make(map[K]Result[V])
}

// Flush dispatches the open batch immediately, skipping the join window.
// Engines that signal the end of a resolution pass can call this instead of
// relying on the window.
func (l *Loader[K, V]) Flush() {
	l.mu.Lock()
	b := l.batch
	if b != nil {
		b.triggerLocked()
	}
	l.mu.Unlock()

	if b != nil {
		go b.dispatch()
	}
}

type batch[K comparable, V any] struct {
	loader *Loader[K, V]
	ctx    context.Context

	keys  []K
	index map[K]int

	forcing bool
	closing bool
	done    chan struct{}

	// Written once before done is closed
	results []Result[V]
	err     error
}

func newBatch[K comparable, V any](l *Loader[K, V], ctx context.Context) *batch[K, V] {
	return &batch[K, V]{
		loader: l,
		ctx:    ctx,
		index:  make(map[K]int),
		done:   make(chan struct{}),
	}
}

// trigger is called by every forced thunk. The first forcer sits out the join
// window so that loads issued by other resolver goroutines can still join,
// then detaches the batch and dispatches it. Later forcers return immediately
// and wait on done.
func (b *batch[K, V]) trigger() {
	b.loader.mu.Lock()
	if b.forcing || b.closing {
		b.loader.mu.Unlock()
		return
	}
	b.forcing = true
	b.loader.mu.Unlock()

	if b.loader.wait > 0 {
		time.Sleep(b.loader.wait)
	}

	b.loader.mu.Lock()
	if b.closing {
		// Flush or a full batch dispatched while we slept
		b.loader.mu.Unlock()
		return
	}
	b.triggerLocked()
	b.loader.mu.Unlock()

	b.dispatch()
}

func (b *batch[K, V]) triggerLocked() {
	b.closing = true
	if b.loader.batch == b {
		b.loader.batch = nil
	}
}

func (b *batch[K, V]) dispatch() {
	results, err := b.loader.fetch(b.ctx, b.keys)
	if err == nil && len(results) != len(b.keys) {
		err = fmt.Errorf("%w: %d results for %d keys", ErrWrongResultCount, len(results), len(b.keys))
	}

	b.results = results
	b.err = err
	close(b.done)

	if err != nil {
		// A total failure is not memoized: the keys are free to be
		// retried in a later batch within the same request.
		return
	}

	b.loader.mu.Lock()
	for i, key := range b.keys {
		// Per-key errors are memoized exactly like successes. A key
		// primed while the batch was in flight keeps its primed value.
		if _, ok := b.loader.cache[key]; !ok {
			b.loader.cache[key] = b.results[i]
		}
	}
	b.loader.mu.Unlock()
}
