package pool

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newLinePool() *Pool[*[]string] {
	return New(
		func() *[]string { s := make([]string, 0, 8); return &s },
		func(s *[]string) { clear(*s); *s = (*s)[:0] },
	)
}

func TestPoolResetsOnPut(t *testing.T) {
	p := newLinePool()
	buf := p.Get()
	*buf = append(*buf, "a", "b")
	p.Put(buf)

	// sync.Pool may drop objects, but whatever comes back is empty
	again := p.Get()
	assert.Empty(t, *again)
	p.Put(again)

	allocated, inUse, gets := p.Stats()
	assert.GreaterOrEqual(t, allocated, int64(1))
	assert.LessOrEqual(t, allocated, int64(2))
	assert.Zero(t, inUse)
	assert.EqualValues(t, 2, gets)
}

func TestPoolConcurrent(t *testing.T) {
	p := newLinePool()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				buf := p.Get()
				*buf = append(*buf, "x")
				assert.Len(t, *buf, 1)
				p.Put(buf)
			}
		}()
	}
	wg.Wait()
	_, inUse, gets := p.Stats()
	assert.Zero(t, inUse)
	assert.EqualValues(t, 1600, gets)
}
