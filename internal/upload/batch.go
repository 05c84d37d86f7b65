package upload

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/therealutkarshpriyadarshi/catalogadmin/pkg/models"
)

const (
	ItemStatusPending   = "pending"
	ItemStatusUploading = "uploading"
	ItemStatusDone      = "done"
	ItemStatusFailed    = "failed"
	ItemStatusSkipped   = "skipped"

	BatchStatusActive    = "active"
	BatchStatusCompleted = "completed"
	BatchStatusCancelled = "cancelled"
)

// Item tracks one file of a batch
type Item struct {
	Index  int    `json:"index"`
	Name   string `json:"name"`
	Size   int64  `json:"size"`
	Sent   int64  `json:"sent"`
	Status string `json:"status"`
}

// Batch is the bookkeeping of one pipeline run
type Batch struct {
	ID          string           `json:"id"`
	Kind        models.MediaKind `json:"kind"`
	Items       []*Item          `json:"items"`
	Status      string           `json:"status"`
	CreatedAt   time.Time        `json:"created_at"`
	CompletedAt *time.Time       `json:"completed_at,omitempty"`
	mu          sync.RWMutex
}

func newBatch(kind models.MediaKind, candidates []Candidate) *Batch {
	items := make([]*Item, len(candidates))
	for i, c := range candidates {
		items[i] = &Item{Index: i, Name: c.Name, Size: c.Size, Status: ItemStatusPending}
	}
	return &Batch{
		ID:        uuid.New().String(),
		Kind:      kind,
		Items:     items,
		Status:    BatchStatusActive,
		CreatedAt: time.Now(),
	}
}

func (b *Batch) setStatus(i int, status string) Item {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Items[i].Status = status
	return *b.Items[i]
}

func (b *Batch) setSent(i int, sent int64) Item {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Items[i].Sent = sent
	return *b.Items[i]
}

func (b *Batch) complete(cancelled bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	now := time.Now()
	b.CompletedAt = &now
	b.Status = BatchStatusCompleted
	if cancelled {
		b.Status = BatchStatusCancelled
	}
}

// Progress returns bytes sent and total bytes across the batch
func (b *Batch) Progress() (sent, total int64) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, it := range b.Items {
		sent += it.Sent
		total += it.Size
	}
	return sent, total
}

// Snapshot returns a copy of the items
func (b *Batch) Snapshot() []Item {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]Item, len(b.Items))
	for i, it := range b.Items {
		out[i] = *it
	}
	return out
}
