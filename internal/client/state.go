package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/oksasatya/booking-api/internal/domain/entity"
)

// State is the persisted part of a session.
type State struct {
	User            *entity.PublicUser `json:"user"`
	Token           string             `json:"token"`
	RefreshToken    string             `json:"refreshToken"`
	IsAuthenticated bool               `json:"isAuthenticated"`
}

// Persister stores a session between runs.
type Persister interface {
	Load() (State, error)
	Save(State) error
}

// FilePersister keeps the state as a JSON file readable only by its owner.
type FilePersister struct {
	Path string
}

func NewFilePersister(path string) *FilePersister {
	return &FilePersister{Path: path}
}

// Load returns an empty state when the file does not exist yet.
func (p *FilePersister) Load() (State, error) {
	var st State
	b, err := os.ReadFile(p.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return st, nil
	}
	if err != nil {
		return st, fmt.Errorf("read session: %w", err)
	}
	if len(b) == 0 {
		return st, nil
	}
	if err := json.Unmarshal(b, &st); err != nil {
		return State{}, fmt.Errorf("decode session %s: %w", p.Path, err)
	}
	return st, nil
}

func (p *FilePersister) Save(st State) error {
	if err := os.MkdirAll(filepath.Dir(p.Path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	b, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	tmp := p.Path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return os.Rename(tmp, p.Path)
}

// MemoryPersister is a process-local Persister.
type MemoryPersister struct {
	mu sync.Mutex
	st State
}

func (p *MemoryPersister) Load() (State, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.st, nil
}

func (p *MemoryPersister) Save(st State) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.st = st
	return nil
}
