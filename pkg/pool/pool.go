// Package pool provides a typed object pool used to recycle the large
// buffers of the conversion pipeline between chunks.
//
// Example usage:
//
//	lines := pool.New(
//	    func() *[]string { s := make([]string, 0, 4096); return &s },
//	    func(s *[]string) { clear(*s); *s = (*s)[:0] },
//	)
//	buf := lines.Get()
//	defer lines.Put(buf)
package pool

import (
	"sync"
	"sync/atomic"
)

// Pool is a type-safe wrapper over sync.Pool that resets objects on Put
// and tracks usage. It is safe for concurrent use.
//
// Pointer types are recommended for T; slices should be pooled by pointer
// so Put does not allocate.
type Pool[T any] struct {
	pool  sync.Pool
	reset func(T)
	stats struct {
		allocated int64
		inUse     int64
		gets      int64
	}
}

// New creates a pool. reset, if non-nil, runs before an object goes back
// into the pool.
func New[T any](new func() T, reset func(T)) *Pool[T] {
	p := &Pool[T]{reset: reset}
	p.pool.New = func() interface{} {
		atomic.AddInt64(&p.stats.allocated, 1)
		return new()
	}
	return p
}

// Get returns a pooled object or a new one.
func (p *Pool[T]) Get() T {
	atomic.AddInt64(&p.stats.inUse, 1)
	atomic.AddInt64(&p.stats.gets, 1)
	return p.pool.Get().(T)
}

// Put resets obj and returns it to the pool.
func (p *Pool[T]) Put(obj T) {
	if p.reset != nil {
		p.reset(obj)
	}
	atomic.AddInt64(&p.stats.inUse, -1)
	p.pool.Put(obj)
}

// Stats returns the number of objects created, currently checked out, and
// the total number of Get calls. gets - allocated is the reuse count.
func (p *Pool[T]) Stats() (allocated, inUse, gets int64) {
	return atomic.LoadInt64(&p.stats.allocated),
		atomic.LoadInt64(&p.stats.inUse),
		atomic.LoadInt64(&p.stats.gets)
}
