// Package state persists the console's client-side state between runs
package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/therealutkarshpriyadarshi/catalogadmin/internal/sorting"
)

// Data is the on-disk document. Entries never expire
type Data struct {
	AuthToken        string                   `json:"auth_token,omitempty"`
	Theme            string                   `json:"theme,omitempty"`
	CurrentAdminPage string                   `json:"currentAdminPage,omitempty"`
	Sort             map[string]sorting.State `json:"sort,omitempty"`
}

// Store is a JSON-file backed key store. Every mutation is written
// through to disk before returning
type Store struct {
	mu   sync.RWMutex
	path string
	data Data
}

// Open loads the state at path. A missing or empty file yields empty state
func Open(path string) (*Store, error) {
	data, err := load(path)
	if err != nil {
		return nil, err
	}
	return &Store{path: path, data: data}, nil
}

// Path returns the backing file
func (s *Store) Path() string {
	return s.path
}

// Snapshot returns a copy of the current state
func (s *Store) Snapshot() Data {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := s.data
	out.Sort = make(map[string]sorting.State, len(s.data.Sort))
	for k, v := range s.data.Sort {
		out.Sort[k] = v
	}
	return out
}

// Token returns the stored auth token
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.AuthToken
}

// SetToken stores the auth token
func (s *Store) SetToken(token string) error {
	return s.update(func(d *Data) { d.AuthToken = token })
}

// ClearToken removes the auth token and keeps everything else
func (s *Store) ClearToken() error {
	return s.SetToken("")
}

// ClearSession removes the auth token and the saved page
func (s *Store) ClearSession() error {
	return s.update(func(d *Data) {
		d.AuthToken = ""
		d.CurrentAdminPage = ""
	})
}

// Theme returns the stored theme name
func (s *Store) Theme() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.Theme
}

// SetTheme stores the theme name
func (s *Store) SetTheme(theme string) error {
	return s.update(func(d *Data) { d.Theme = theme })
}

// Page returns the saved admin page
func (s *Store) Page() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.CurrentAdminPage
}

// SetPage saves the admin page
func (s *Store) SetPage(page string) error {
	return s.update(func(d *Data) { d.CurrentAdminPage = page })
}

// Sort returns the saved sort of a panel
func (s *Store) Sort(panel string) (sorting.State, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.data.Sort[panel]
	return st, ok
}

// SetSort saves the sort of a panel
func (s *Store) SetSort(panel string, st sorting.State) error {
	return s.update(func(d *Data) {
		if d.Sort == nil {
			d.Sort = make(map[string]sorting.State)
		}
		d.Sort[panel] = st
	})
}

func (s *Store) update(fn func(*Data)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	fn(&s.data)
	return save(s.path, s.data)
}

func load(path string) (Data, error) {
	var d Data
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return d, nil
		}
		return d, fmt.Errorf("open state: %w", err)
	}
	defer f.Close()

	raw, err := io.ReadAll(f)
	if err != nil {
		return d, fmt.Errorf("read state: %w", err)
	}
	if len(raw) == 0 {
		return d, nil
	}
	if err := json.Unmarshal(raw, &d); err != nil {
		return d, fmt.Errorf("decode state: %w", err)
	}
	return d, nil
}

// save writes the document atomically via a temp file and rename
func save(path string, d Data) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}

	tmp := path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("open tmp: %w", err)
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(&d); err != nil {
		f.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("encode state: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("close tmp: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("rename tmp: %w", err)
	}
	return nil
}
