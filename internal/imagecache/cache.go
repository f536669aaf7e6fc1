// Package imagecache keeps decoded page images resident up to a byte budget.
package imagecache

import (
	"image"
	"image/color"
	"sync"

	"github.com/akolanti/scanflow/internal/metrics"
	"github.com/c2h5oh/datasize"
)

type entry struct {
	img  image.Image
	size int64
}

type Cache struct {
	mu      sync.Mutex
	budget  int64
	used    int64
	entries map[string]entry
}

func New(budgetBytes int64) *Cache {
	return &Cache{
		budget:  budgetBytes,
		entries: make(map[string]entry),
	}
}

// Estimate is the resident size of a decoded width x height image.
func Estimate(width, height, bytesPerPixel int) int64 {
	return int64(width) * int64(height) * int64(bytesPerPixel)
}

func BytesPerPixel(model color.Model) int {
	switch model {
	case color.GrayModel:
		return 1
	case color.YCbCrModel:
		return 3
	}
	return 4
}

// CanAdmit reports whether size more bytes fit in the remaining budget.
func (c *Cache) CanAdmit(size int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.used+size <= c.budget
}

// Admit stores img under key. Images larger than the whole budget are still
// admitted; callers clear first when CanAdmit is false.
func (c *Cache) Admit(key string, img image.Image, size int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if old, ok := c.entries[key]; ok {
		c.used -= old.size
	}
	c.entries[key] = entry{img: img, size: size}
	c.used += size
	metrics.SetCacheResidentBytes(c.used)
}

func (c *Cache) Get(key string) (image.Image, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	return e.img, ok
}

func (c *Cache) Used() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.used
}

func (c *Cache) Budget() int64 {
	return c.budget
}

func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.entries)
	c.used = 0
	metrics.SetCacheResidentBytes(0)
	metrics.IncrementCacheClears()
}

// String reports usage in human units, e.g. "3.0 MB / 512 MB".
func (c *Cache) String() string {
	return datasize.ByteSize(c.Used()).HumanReadable() + " / " + datasize.ByteSize(c.budget).HumanReadable()
}
