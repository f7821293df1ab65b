// Package cache builds and keeps the default mappings used for page layouts
// that a mapping file does not describe.
package cache

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/contentmigrate/pageheader/internal/fold"
	"github.com/contentmigrate/pageheader/legacy"
	"github.com/contentmigrate/pageheader/logging"
	"github.com/contentmigrate/pageheader/mapping"
)

// Builder creates the default mapping for the page layout called name.
type Builder func(ctx context.Context, name string) (*mapping.PageLayout, error)

// DefaultBuilder returns mapping.DefaultPageLayout.
func DefaultBuilder(_ context.Context, name string) (*mapping.PageLayout, error) {
	return mapping.DefaultPageLayout(name), nil
}

// Manager hands out one default mapping per page layout, building it on first
// use. Layout names are compared case-insensitively. It is safe for concurrent
// use. Returned mappings are shared and must not be modified.
type Manager struct {
	builder Builder
	logger  logging.Logger

	mu      sync.Mutex
	layouts map[string]*mapping.PageLayout

	hits   atomic.Int64
	misses atomic.Int64
}

// NewManager creates an empty Manager. A nil builder selects DefaultBuilder.
func NewManager(builder Builder, logger logging.Logger) *Manager {
	if builder == nil {
		builder = DefaultBuilder
	}
	if logger == nil {
		logger = logging.Discard
	}
	return &Manager{
		builder: builder,
		logger:  logger,
		layouts: map[string]*mapping.PageLayout{},
	}
}

// DefaultMapping returns the default mapping for the layout page uses.
// Builder errors are returned and nothing is cached for that layout.
func (m *Manager) DefaultMapping(ctx context.Context, page legacy.Page) (*mapping.PageLayout, error) {
	name := legacy.LayoutName(page)
	key := fold.String(name)

	m.mu.Lock()
	defer m.mu.Unlock()

	if layout, ok := m.layouts[key]; ok {
		m.hits.Add(1)
		return layout, nil
	}
	m.misses.Add(1)

	layout, err := m.builder(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("building default mapping for page layout %q: %w", name, err)
	}
	if layout == nil {
		return nil, fmt.Errorf("building default mapping for page layout %q: builder returned no mapping", name)
	}

	m.layouts[key] = layout
	m.logger.Info(logging.CategoryCache, fmt.Sprintf("generated default mapping for page layout %q", name))

	return layout, nil
}

// Clear drops every cached mapping and resets the counters.
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()

	clear(m.layouts)
	m.hits.Store(0)
	m.misses.Store(0)
}

// Stats returns basic statistics about the cache
type Stats struct {
	Size   int64
	Hits   int64
	Misses int64
}

func (m *Manager) Stats() Stats {
	m.mu.Lock()
	size := int64(len(m.layouts))
	m.mu.Unlock()

	return Stats{
		Size:   size,
		Hits:   m.hits.Load(),
		Misses: m.misses.Load(),
	}
}
