package serve

import (
	"sync"

	"maskccl/ccl"
	"maskccl/filter"
	"maskccl/video/frame"
)

const defaultCacheSize = 256

// StatsCache is a sink keeping the statistics of the most recently delivered
// frames. Frames without statistics are ignored.
type StatsCache struct {
	// Size bounds the number of frames kept. Zero means defaultCacheSize.
	Size int

	lock   sync.Mutex
	frames map[int]ccl.Stats
	order  []int
	latest int
}

func NewStatsCache(size int) *StatsCache {
	return &StatsCache{Size: size}
}

func (c *StatsCache) size() int {
	if c.Size <= 0 {
		return defaultCacheSize
	}
	return c.Size
}

func (c *StatsCache) Put(n int, f *frame.Frame) error {
	if !filter.HasStats(f.Props) {
		return nil
	}
	stats, err := filter.StatsFromProps(f.Props)
	if err != nil {
		return err
	}

	c.lock.Lock()
	defer c.lock.Unlock()
	if c.frames == nil {
		c.frames = make(map[int]ccl.Stats)
	}
	if _, ok := c.frames[n]; !ok {
		c.order = append(c.order, n)
	}
	c.frames[n] = stats
	c.latest = n
	for len(c.order) > c.size() {
		delete(c.frames, c.order[0])
		c.order = c.order[1:]
	}
	return nil
}

// Get returns the statistics of frame n if still cached.
func (c *StatsCache) Get(n int) (ccl.Stats, bool) {
	c.lock.Lock()
	defer c.lock.Unlock()
	s, ok := c.frames[n]
	return s, ok
}

// Latest returns the most recently delivered frame.
func (c *StatsCache) Latest() (int, ccl.Stats, bool) {
	c.lock.Lock()
	defer c.lock.Unlock()
	s, ok := c.frames[c.latest]
	return c.latest, s, ok
}

// Reset drops everything, e.g. before a new run.
func (c *StatsCache) Reset() {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.frames = nil
	c.order = nil
	c.latest = 0
}

func (c *StatsCache) Close() error {
	return nil
}
