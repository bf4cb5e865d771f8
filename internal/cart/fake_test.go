package cart

import (
	"context"
	"sync"

	"storefront/internal/model"

	"github.com/shopspring/decimal"
)

// fakeLookup serves products from a map. Lookups for ids with a gate block
// until the gate is closed.
type fakeLookup struct {
	mu          sync.Mutex
	products    map[string]model.Product
	failures    map[string]error
	gates       map[string]chan struct{}
	calls       map[string]int
	inFlight    int
	maxInFlight int
}

func newFakeLookup(products ...model.Product) *fakeLookup {
	f := &fakeLookup{
		products: make(map[string]model.Product),
		failures: make(map[string]error),
		gates:    make(map[string]chan struct{}),
		calls:    make(map[string]int),
	}
	for _, p := range products {
		f.products[p.ID] = p
	}
	return f
}

func (f *fakeLookup) gate(id string) chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch := make(chan struct{})
	f.gates[id] = ch
	return ch
}

func (f *fakeLookup) fail(id string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[id] = err
}

func (f *fakeLookup) callCount(id string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[id]
}

func (f *fakeLookup) totalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	total := 0
	for _, n := range f.calls {
		total += n
	}
	return total
}

func (f *fakeLookup) currentInFlight() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.inFlight
}

func (f *fakeLookup) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	f.mu.Lock()
	f.calls[id]++
	f.inFlight++
	if f.inFlight > f.maxInFlight {
		f.maxInFlight = f.inFlight
	}
	gate := f.gates[id]
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.inFlight--
		f.mu.Unlock()
	}()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.failures[id]; err != nil {
		return nil, err
	}

	p, ok := f.products[id]
	if !ok {
		return nil, model.ErrProductNotFound
	}

	return &p, nil
}

func product(id, name string, price int64) model.Product {
	return model.Product{ID: id, Name: name, Explanation: name + " explanation", Price: decimal.NewFromInt(price)}
}
