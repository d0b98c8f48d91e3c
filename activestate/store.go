// Package activestate persists the single active-skill record.
//
// The host runs as a fresh process per invocation, so the record lives on
// durable storage. There is no locking: one reasonable caller at a time is
// the operating assumption, and concurrent writers race with last-writer-wins
// semantics.
package activestate

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/agentplane/skillhost/spec"
)

// DefaultFileName is the conventional activation record filename.
const DefaultFileName = ".active_skill.json"

// FileStore keeps the activation record as a single JSON object at a fixed
// path. Reads fail open: a missing file and a corrupt file both mean "no
// active skill".
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Get() (spec.ActiveSkill, bool) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		return spec.ActiveSkill{}, false
	}
	var rec spec.ActiveSkill
	if err := json.Unmarshal(b, &rec); err != nil {
		return spec.ActiveSkill{}, false
	}
	if rec.Name == "" {
		return spec.ActiveSkill{}, false
	}
	return rec, true
}

func (s *FileStore) Set(rec spec.ActiveSkill) error {
	b, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode activation record: %w", err)
	}
	if err := os.WriteFile(s.path, b, 0o644); err != nil {
		return fmt.Errorf("write activation record: %w", err)
	}
	return nil
}

func (s *FileStore) Clear() error {
	err := os.Remove(s.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("clear activation record: %w", err)
	}
	return nil
}

// MemStore is an in-memory ActivationStore for tests and embedded hosts.
type MemStore struct {
	mu      sync.Mutex
	rec     spec.ActiveSkill
	present bool
}

func NewMemStore() *MemStore { return &MemStore{} }

func (s *MemStore) Get() (spec.ActiveSkill, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rec, s.present
}

func (s *MemStore) Set(rec spec.ActiveSkill) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rec = rec
	s.present = true
	return nil
}

func (s *MemStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rec = spec.ActiveSkill{}
	s.present = false
	return nil
}

var (
	_ spec.ActivationStore = (*FileStore)(nil)
	_ spec.ActivationStore = (*MemStore)(nil)
)
