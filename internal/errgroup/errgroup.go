// Package errgroup runs a set of listeners concurrently and reports
// the first failure. Unlike x/sync's errgroup, Wait returns as soon
// as any function errors, without waiting for the rest; the caller is
// expected to exit the process right after.
package errgroup

import "sync"

type result struct {
	name string
	err  error
}

// Group is a collection of named functions run in goroutines.
type Group struct {
	mu   sync.Mutex
	n    int
	resc chan result
}

func New() *Group {
	return &Group{
		resc: make(chan result),
	}
}

// Go runs f in a new goroutine. Must not be called after Wait.
func (g *Group) Go(name string, f func() error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.n++
	go func() {
		g.resc <- result{name: name, err: f()}
	}()
}

// Wait returns the first error, naming the function that produced it,
// or nil once every function has finished cleanly.
func (g *Group) Wait() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	for i := 0; i < g.n; i++ {
		if r := <-g.resc; r.err != nil {
			return r.name, r.err
		}
	}
	return "", nil
}
