package cart

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"storefront/internal/model"

	"github.com/rs/zerolog"
)

// ErrClosed is returned by intents dispatched after Close.
var ErrClosed = errors.New("cart container closed")

// LineReconciler derives cart lines from a persisted list.
type LineReconciler interface {
	Reconcile(ctx context.Context, ids IDList) ([]model.CartLine, error)
}

// View is the published cart. Generation identifies the store state it was
// derived from. When the latest reconciliation failed, Err is set and Lines
// still hold the last successful result.
type View struct {
	Lines      []model.CartLine
	Generation uint64
	Err        error
}

// Container owns a cart Store and republishes the reconciled view after
// every change to it.
//
// Each change bumps a generation counter and starts a reconciliation of that
// snapshot. A reconciliation publishes only if its generation is still the
// latest when it completes; superseded results are dropped, so the published
// view always follows the newest store state.
type Container struct {
	ctx        context.Context
	store      Store
	reconciler LineReconciler
	logger     zerolog.Logger

	mu          sync.Mutex
	generation  uint64
	view        View
	published   chan struct{}
	subscribers map[uint64]func(View)
	nextSubID   uint64
	closed      bool
	wg          sync.WaitGroup

	notifyMu     sync.Mutex
	lastNotified uint64
}

// NewContainer creates a container. Reconciliations run with ctx.
func NewContainer(ctx context.Context, store Store, reconciler LineReconciler, logger zerolog.Logger) *Container {
	return &Container{
		ctx:         ctx,
		store:       store,
		reconciler:  reconciler,
		logger:      logger.With().Str("component", "cart-container").Logger(),
		view:        View{Lines: []model.CartLine{}},
		published:   make(chan struct{}),
		subscribers: make(map[uint64]func(View)),
	}
}

// Add puts one unit of id in the cart.
func (c *Container) Add(id string) (bool, error) {
	return c.Dispatch(IntentAdd, id)
}

// Remove takes every unit of id out of the cart.
func (c *Container) Remove(id string) (bool, error) {
	return c.Dispatch(IntentRemove, id)
}

// Increase puts one more unit of id in the cart.
func (c *Container) Increase(id string) (bool, error) {
	return c.Dispatch(IntentIncrease, id)
}

// Decrease takes one unit of id out of the cart.
func (c *Container) Decrease(id string) (bool, error) {
	return c.Dispatch(IntentDecrease, id)
}

// Clear empties the cart.
func (c *Container) Clear() (bool, error) {
	return c.Dispatch(IntentClear, "")
}

// Dispatch applies an intent as one read-modify-write of the store and, when
// the list changed, schedules a reconciliation. It reports whether the store
// was written; an intent that changes nothing is a silent no-op.
func (c *Container) Dispatch(intent Intent, id string) (bool, error) {
	c.mu.Lock()

	if c.closed {
		c.mu.Unlock()
		return false, ErrClosed
	}

	next, changed, err := c.apply(intent, id)
	if err != nil {
		c.mu.Unlock()
		return false, fmt.Errorf("failed to persist cart %s: %w", intent, err)
	}
	if !changed {
		c.mu.Unlock()
		c.logger.Debug().
			Str("intent", string(intent)).
			Str("product_id", id).
			Msg("cart intent changed nothing")
		return false, nil
	}

	gen := c.schedule()
	c.mu.Unlock()

	c.logger.Debug().
		Str("intent", string(intent)).
		Str("product_id", id).
		Int("units", len(next)).
		Uint64("generation", gen).
		Msg("cart updated")

	c.reconcile(gen, next)

	return true, nil
}

// apply reads the store, applies the intent and writes the result back.
// A store shared with other containers is locked for the whole cycle.
// Callers hold c.mu.
func (c *Container) apply(intent Intent, id string) (IDList, bool, error) {
	if l, ok := c.store.(Locker); ok {
		defer l.Lock()()
	}

	ids := c.store.Read(c.ctx)
	next, changed := Apply(ids, intent, id)
	if !changed {
		return next, false, nil
	}

	if err := c.store.Write(c.ctx, next); err != nil {
		return nil, false, err
	}

	return next, true, nil
}

// Refresh reconciles the current store content without changing it.
func (c *Container) Refresh() error {
	c.mu.Lock()

	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}

	ids := c.store.Read(c.ctx)
	gen := c.schedule()
	c.mu.Unlock()

	c.reconcile(gen, ids)

	return nil
}

// schedule bumps the generation and registers one in-flight reconciliation.
// Callers hold c.mu.
func (c *Container) schedule() uint64 {
	c.generation++
	c.wg.Add(1)
	return c.generation
}

func (c *Container) reconcile(gen uint64, ids IDList) {
	go func() {
		defer c.wg.Done()

		lines, err := c.reconciler.Reconcile(c.ctx, ids)
		c.complete(gen, lines, err)
	}()
}

func (c *Container) complete(gen uint64, lines []model.CartLine, err error) {
	c.mu.Lock()

	if gen != c.generation {
		latest := c.generation
		c.mu.Unlock()
		c.logger.Debug().
			Uint64("generation", gen).
			Uint64("latest", latest).
			Msg("discarding superseded cart reconciliation")
		return
	}

	v := View{Lines: lines, Generation: gen}
	if err != nil {
		v = View{Lines: c.view.Lines, Generation: gen, Err: err}
	}

	c.view = v
	close(c.published)
	c.published = make(chan struct{})

	subs := make([]func(View), 0, len(c.subscribers))
	for _, fn := range c.subscribers {
		subs = append(subs, fn)
	}
	c.mu.Unlock()

	c.notify(v, subs)
}

func (c *Container) notify(v View, subs []func(View)) {
	c.notifyMu.Lock()
	defer c.notifyMu.Unlock()

	if v.Generation <= c.lastNotified {
		return
	}
	c.lastNotified = v.Generation

	for _, fn := range subs {
		fn(v)
	}
}

// View returns the most recently published view.
func (c *Container) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view
}

// Subscribe registers fn to receive every published view. The returned
// function unregisters it.
func (c *Container) Subscribe(fn func(View)) func() {
	c.mu.Lock()
	id := c.nextSubID
	c.nextSubID++
	c.subscribers[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.subscribers, id)
		c.mu.Unlock()
	}
}

// Await blocks until the view for the latest store state is published and
// returns it, together with its reconciliation error if it failed.
func (c *Container) Await(ctx context.Context) (View, error) {
	for {
		c.mu.Lock()
		if c.view.Generation == c.generation {
			v := c.view
			c.mu.Unlock()
			return v, v.Err
		}
		ch := c.published
		c.mu.Unlock()

		select {
		case <-ch:
		case <-ctx.Done():
			return View{}, ctx.Err()
		}
	}
}

// Close stops accepting intents and waits for in-flight reconciliations.
func (c *Container) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()

	c.wg.Wait()
}
