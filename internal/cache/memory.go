package cache

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/therealutkarshpriyadarshi/catalogadmin/pkg/models"
)

type memoryEntry struct {
	storedAt   time.Time
	types      []models.ContentType
	categories []models.Category
}

// Memory is a per-process Lookup
type Memory struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[Kind]memoryEntry
}

// NewMemory creates an in-memory lookup cache
func NewMemory(ttl time.Duration) *Memory {
	return &Memory{ttl: ttl, entries: make(map[Kind]memoryEntry)}
}

func (m *Memory) entry(kind Kind) (memoryEntry, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[kind]
	if ok && expired(e.storedAt, m.ttl) {
		delete(m.entries, kind)
		ok = false
	}
	recordAccess(kind, ok)
	return e, ok
}

// Types returns the cached content types
func (m *Memory) Types(ctx context.Context) ([]models.ContentType, bool, error) {
	e, ok := m.entry(KindTypes)
	if !ok {
		return nil, false, nil
	}
	return slices.Clone(e.types), true, nil
}

// SetTypes stores the content types
func (m *Memory) SetTypes(ctx context.Context, types []models.ContentType) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[KindTypes] = memoryEntry{storedAt: time.Now(), types: slices.Clone(types)}
	return nil
}

// Categories returns the cached categories
func (m *Memory) Categories(ctx context.Context) ([]models.Category, bool, error) {
	e, ok := m.entry(KindCategories)
	if !ok {
		return nil, false, nil
	}
	return slices.Clone(e.categories), true, nil
}

// SetCategories stores the categories
func (m *Memory) SetCategories(ctx context.Context, categories []models.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[KindCategories] = memoryEntry{storedAt: time.Now(), categories: slices.Clone(categories)}
	return nil
}

// Invalidate drops the given lists
func (m *Memory) Invalidate(ctx context.Context, kinds ...Kind) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range kinds {
		delete(m.entries, k)
	}
	return nil
}

// Close is a no-op
func (m *Memory) Close() error {
	return nil
}
