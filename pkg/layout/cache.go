package layout

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
)

/*
FrameCache maps program counters to formatted "function(file:line)" stack
frame lines. Entries never expire; the set of call sites in a program is
fixed. The zero value is ready to use and a FrameCache is safe for
concurrent use.
*/
type FrameCache struct {
	mu     sync.RWMutex
	lines  map[uintptr]string
	hits   atomic.Uint64
	misses atomic.Uint64
}

// NewFrameCache returns an empty FrameCache.
func NewFrameCache() *FrameCache {
	return &FrameCache{lines: make(map[uintptr]string)}
}

// Resolve returns one formatted line per program counter in pcs, as
// returned by runtime.Callers.
func (c *FrameCache) Resolve(pcs []uintptr) []string {
	lines := make([]string, 0, len(pcs))
	for _, pc := range pcs {
		lines = append(lines, c.lookup(pc))
	}
	return lines
}

// Len returns the number of cached frames.
func (c *FrameCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.lines)
}

// Stats returns the number of lookups served from the cache and the
// number that had to be resolved.
func (c *FrameCache) Stats() (hits, misses uint64) {
	return c.hits.Load(), c.misses.Load()
}

func (c *FrameCache) lookup(pc uintptr) string {
	c.mu.RLock()
	line, ok := c.lines[pc]
	c.mu.RUnlock()
	if ok {
		c.hits.Add(1)
		return line
	}

	c.misses.Add(1)
	line = formatPC(pc)
	c.mu.Lock()
	if nil == c.lines {
		c.lines = make(map[uintptr]string)
	}
	c.lines[pc] = line
	c.mu.Unlock()
	return line
}

func formatPC(pc uintptr) string {
	f, _ := runtime.CallersFrames([]uintptr{pc}).Next()
	if "" == f.Function {
		return fmt.Sprintf("unknown(0x%x)", pc)
	}
	return fmt.Sprintf("%s(%s:%d)", f.Function, f.File, f.Line)
}
