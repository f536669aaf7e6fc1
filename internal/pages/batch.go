// Package pages is the registry of scanned pages available to assignment and export.
package pages

import (
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/akolanti/scanflow/internal/config"
	"github.com/akolanti/scanflow/internal/domain/commonModels"
	"github.com/google/uuid"
)

var (
	ErrPageNotFound    = errors.New("page not found")
	ErrInvalidRotation = errors.New("rotation must be 90, 180 or 270 degrees")
	ErrInvalidOrder    = errors.New("new order must list every page exactly once")
)

// Capabilities describe the acquisition backend that produced the batch.
type Capabilities struct {
	Backend           string `json:"backend"`
	DefaultResolution int    `json:"default_resolution"`
}

func DefaultCapabilities() Capabilities {
	return Capabilities{
		Backend:           config.DefaultScanBackend,
		DefaultResolution: config.DefaultScanResolution,
	}
}

// Batch holds pages in scan order. It is safe for concurrent use.
type Batch struct {
	mu    sync.RWMutex
	caps  Capabilities
	pages []commonModels.Page
	index map[string]int
	now   func() time.Time
}

func NewBatch(caps Capabilities) *Batch {
	if caps.DefaultResolution <= 0 {
		caps.DefaultResolution = config.DefaultScanResolution
	}
	return &Batch{
		caps:  caps,
		index: make(map[string]int),
		now:   time.Now,
	}
}

func (b *Batch) Capabilities() Capabilities {
	return b.caps
}

// AddPage registers an image file as the next page and returns the stored page.
func (b *Batch) AddPage(imagePath string) commonModels.Page {
	return b.Add(commonModels.Page{ImagePath: imagePath})
}

// Add registers page, filling id, resolution, number and timestamp when unset.
func (b *Batch) Add(page commonModels.Page) commonModels.Page {
	b.mu.Lock()
	defer b.mu.Unlock()
	if page.Id == "" {
		page.Id = uuid.NewString()
	}
	if page.Resolution <= 0 {
		page.Resolution = b.caps.DefaultResolution
	}
	if page.ScannedAt.IsZero() {
		page.ScannedAt = b.now()
	}
	if i, ok := b.index[page.Id]; ok {
		page.Number = b.pages[i].Number
		b.pages[i] = page
		return page
	}
	page.Number = len(b.pages) + 1
	b.pages = append(b.pages, page)
	b.index[page.Id] = len(b.pages) - 1
	return page
}

func (b *Batch) RemovePage(id string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	i, ok := b.index[id]
	if !ok {
		return false
	}
	b.pages = slices.Delete(b.pages, i, i+1)
	b.renumberLocked()
	return true
}

// Reorder sets the page order; ids must be a permutation of the current ids.
func (b *Batch) Reorder(ids []string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(ids) != len(b.pages) {
		return ErrInvalidOrder
	}
	reordered := make([]commonModels.Page, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		i, ok := b.index[id]
		if !ok || seen[id] {
			return ErrInvalidOrder
		}
		seen[id] = true
		reordered = append(reordered, b.pages[i])
	}
	b.pages = reordered
	b.renumberLocked()
	return nil
}

func (b *Batch) GetPage(id string) (commonModels.Page, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	i, ok := b.index[id]
	if !ok {
		return commonModels.Page{}, fmt.Errorf("%s: %w", id, ErrPageNotFound)
	}
	return b.pages[i], nil
}

// Rotate adds a clockwise quarter turn multiple to the page rotation.
func (b *Batch) Rotate(id string, degrees int) error {
	if degrees != 90 && degrees != 180 && degrees != 270 {
		return ErrInvalidRotation
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	i, ok := b.index[id]
	if !ok {
		return fmt.Errorf("%s: %w", id, ErrPageNotFound)
	}
	b.pages[i].Rotation = (b.pages[i].Rotation + degrees) % 360
	return nil
}

func (b *Batch) IDs() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	ids := make([]string, len(b.pages))
	for i, p := range b.pages {
		ids[i] = p.Id
	}
	return ids
}

func (b *Batch) Pages() []commonModels.Page {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return slices.Clone(b.pages)
}

func (b *Batch) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.pages)
}

func (b *Batch) renumberLocked() {
	clear(b.index)
	for i := range b.pages {
		b.pages[i].Number = i + 1
		b.index[b.pages[i].Id] = i
	}
}
