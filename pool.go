package pdfcompose

import (
	"errors"
	"runtime"
	"sync"
)

// Pool sizing constants.
const (
	// MinPoolSize ensures at least one worker is available.
	MinPoolSize = 1

	// MaxPoolSize caps concurrent composers; each may own a Chrome instance.
	MaxPoolSize = 8

	// cpuDivisor leaves headroom for Chrome child processes.
	cpuDivisor = 2
)

// Pool lends Composer instances to parallel workers. Composers are created
// lazily on first acquire and share the options given to NewPool.
type Pool struct {
	size      int
	opts      []Option
	composers []*Composer
	sem       chan *Composer
	mu        sync.Mutex
	created   int
	closed    bool
}

// NewPool creates a pool with capacity for n composers.
func NewPool(n int, opts ...Option) *Pool {
	if n < 1 {
		n = 1
	}
	return &Pool{
		size:      n,
		opts:      opts,
		composers: make([]*Composer, 0, n),
		sem:       make(chan *Composer, n),
	}
}

// Acquire gets a composer from the pool, creating one if needed.
// Blocks if all composers are in use. Returns ErrPoolClosed once Close has
// been called.
func (p *Pool) Acquire() (*Composer, error) {
	select {
	case c, ok := <-p.sem:
		return p.take(c, ok)
	default:
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, ErrPoolClosed
	}
	if p.created < p.size {
		p.created++
		p.mu.Unlock()

		c, err := NewComposer(p.opts...)
		if err != nil {
			p.mu.Lock()
			p.created--
			p.mu.Unlock()
			return nil, err
		}

		p.mu.Lock()
		if p.closed {
			p.mu.Unlock()
			_ = c.Close()
			return nil, ErrPoolClosed
		}
		p.composers = append(p.composers, c)
		p.mu.Unlock()
		return c, nil
	}
	p.mu.Unlock()

	c, ok := <-p.sem
	return p.take(c, ok)
}

// take vets a composer received from sem. A closed channel still yields the
// idle composers it buffered, and Close has already shut those down.
func (p *Pool) take(c *Composer, ok bool) (*Composer, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !ok || p.closed {
		return nil, ErrPoolClosed
	}
	return c, nil
}

// Release returns a composer to the pool. Composers released after Close
// are dropped; Close has already shut them down.
// The send happens under the lock so it cannot race with close(sem). It
// never blocks: sem has room for every composer the pool creates.
func (p *Pool) Release(c *Composer) {
	if c == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.sem <- c
}

// Close releases all browser resources.
// Returns an aggregated error if multiple composers fail to close.
func (p *Pool) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.sem)
	composers := p.composers
	p.mu.Unlock()

	var errs []error
	for _, c := range composers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Size returns the pool capacity.
func (p *Pool) Size() int {
	return p.size
}

// ResolvePoolSize determines the pool size.
// Priority: explicit workers > GOMAXPROCS-based calculation. Only the
// automatic size is capped at MaxPoolSize.
func ResolvePoolSize(workers int) int {
	if workers > 0 {
		return workers
	}

	// GOMAXPROCS is container-aware once automaxprocs has run.
	n := runtime.GOMAXPROCS(0) / cpuDivisor
	return max(MinPoolSize, min(n, MaxPoolSize))
}
