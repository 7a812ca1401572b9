// Package file persists sessions as a single JSON document mapping principal
// id to token record, the same layout the session.json of the original
// deployment used. Writes go through a temp file plus rename so a crash never
// leaves a half-written document behind.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/ksef-tools/ksefauth/internal/session/domain"
	"github.com/ksef-tools/ksefauth/internal/session/store"
)

const timeLayout = time.RFC3339Nano

type record struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ValidUntil   string `json:"validUntil"`
}

type Store struct {
	mu   sync.Mutex
	path string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Sessions() store.Sessions { return s }
func (s *Store) Close() error             { return nil }

func (s *Store) Ping(ctx context.Context) error {
	dir := filepath.Dir(s.path)
	if _, err := os.Stat(dir); err != nil {
		return fmt.Errorf("session file directory unavailable: %w", err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, principalID string) (domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return domain.Session{}, err
	}

	rec, ok := records[principalID]
	if !ok {
		return domain.Session{}, store.ErrNotFound
	}
	return toSession(principalID, rec)
}

func (s *Store) Put(ctx context.Context, principalID string, session domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return err
	}

	records[principalID] = record{
		AccessToken:  session.AccessToken,
		RefreshToken: session.RefreshToken,
		ValidUntil:   session.ValidUntil.UTC().Format(timeLayout),
	}
	return s.save(records)
}

func (s *Store) All(ctx context.Context) (map[string]domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return nil, err
	}

	sessions := make(map[string]domain.Session, len(records))
	for id, rec := range records {
		session, err := toSession(id, rec)
		if err != nil {
			return nil, err
		}
		sessions[id] = session
	}
	return sessions, nil
}

func (s *Store) Delete(ctx context.Context, principalID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := records[principalID]; !ok {
		return nil
	}
	delete(records, principalID)
	return s.save(records)
}

// load reads the whole document; a missing file is the valid empty state.
func (s *Store) load() (map[string]record, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return make(map[string]record), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	records := make(map[string]record)
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse session file %s: %w", s.path, err)
	}
	return records, nil
}

// save atomically replaces the document.
func (s *Store) save(records map[string]record) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode session file: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".sessions-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp session file: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("failed to write temp session file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("failed to close temp session file: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace session file: %w", err)
	}
	return nil
}

func toSession(principalID string, rec record) (domain.Session, error) {
	validUntil, err := time.Parse(timeLayout, rec.ValidUntil)
	if err != nil {
		return domain.Session{}, fmt.Errorf("corrupt validUntil for principal %s: %w", principalID, err)
	}
	return domain.Session{
		AccessToken:  rec.AccessToken,
		RefreshToken: rec.RefreshToken,
		ValidUntil:   validUntil,
	}, nil
}
