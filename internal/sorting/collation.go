package sorting

import (
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Collator is a concurrency-safe locale-aware string comparer
type Collator struct {
	mu sync.Mutex
	c  *collate.Collator
}

// NewCollator creates a collator for tag with the given options
func NewCollator(tag language.Tag, opts ...collate.Option) *Collator {
	return &Collator{c: collate.New(tag, opts...)}
}

// Compare returns -1, 0 or 1
func (c *Collator) Compare(a, b string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.c.CompareString(a, b)
}

var (
	// Names compares display names with full sensitivity
	Names = NewCollator(language.Und)
	// BaseNames ignores case and accents; used for file names
	BaseNames = NewCollator(language.Und, collate.IgnoreCase, collate.IgnoreDiacritics)
)
