package mover

import (
	"errors"
	"fmt"

	"github.com/elliotchance/orderedmap/v2"
	"github.com/oomph-ac/mover/movement"
	"github.com/oomph-ac/mover/worker"
	"github.com/sasha-s/go-deadlock"
)

// Controller returns the input of the actor with the given name for the next frame.
type Controller func(name string) movement.InputSnapshot

// Group holds the movers of many actors and ticks them in parallel. Movers in a group must share
// nothing but a read-only environment.
type Group struct {
	mu     deadlock.RWMutex
	movers *orderedmap.OrderedMap[string, *Mover]
}

// NewGroup returns an empty group.
func NewGroup() *Group {
	return &Group{movers: orderedmap.NewOrderedMap[string, *Mover]()}
}

// Add adds a mover under name. It returns an error if the name is taken.
func (g *Group) Add(name string, m *Mover) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.movers.Get(name); ok {
		return fmt.Errorf("mover %q already exists", name)
	}
	g.movers.Set(name, m)
	return nil
}

// Remove removes the mover with the given name, returning false if there was none.
func (g *Group) Remove(name string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.movers.Delete(name)
}

// Mover returns the mover with the given name.
func (g *Group) Mover(name string) (*Mover, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.movers.Get(name)
}

// Names returns the names of every mover in the order they were added.
func (g *Group) Names() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.movers.Keys()
}

// Len returns the number of movers in the group.
func (g *Group) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.movers.Len()
}

// Tick advances every mover by frameMs with the input returned by c, running movers in parallel on
// the worker pool. A mover whose tick panics does not stop the others: the panics are returned
// joined together once every mover is done.
func (g *Group) Tick(c Controller, frameMs float32) error {
	g.mu.RLock()
	defer g.mu.RUnlock()

	results := make([]<-chan error, 0, g.movers.Len())
	names := make([]string, 0, g.movers.Len())
	for el := g.movers.Front(); el != nil; el = el.Next() {
		name, m := el.Key, el.Value
		input := movement.DefaultInput()
		if c != nil {
			input = c(name)
		}
		results = append(results, worker.Submit(func() {
			m.Tick(input, frameMs)
		}))
		names = append(names, name)
	}

	var errs []error
	for i, res := range results {
		if err := <-res; err != nil {
			errs = append(errs, fmt.Errorf("mover %s: %w", names[i], err))
		}
	}
	return errors.Join(errs...)
}
