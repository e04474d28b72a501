package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"gopkg.in/yaml.v3"
)

// ErrNotStored is returned by Store.Load when no session has been saved.
var ErrNotStored = errors.New("no stored session")

// Store persists the current session between runs.
type Store interface {
	Load() (*Session, error)
	Save(s *Session) error
	Clear() error
}

type storedSession struct {
	AccessToken  string    `yaml:"access_token"`
	TokenType    string    `yaml:"token_type,omitempty"`
	RefreshToken string    `yaml:"refresh_token,omitempty"`
	Expiry       time.Time `yaml:"expiry,omitempty"`
	UserID       string    `yaml:"user_id"`
	Email        string    `yaml:"email"`
}

// FileStore keeps the session in a YAML file readable only by the owner.
type FileStore struct {
	path string
	mu   sync.Mutex
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (f *FileStore) Path() string { return f.path }

func (f *FileStore) Load() (*Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotStored
	}
	if err != nil {
		return nil, fmt.Errorf("reading session file: %w", err)
	}

	var rec storedSession
	if err := yaml.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("parsing session file: %w", err)
	}
	if rec.AccessToken == "" {
		return nil, ErrNotStored
	}
	return &Session{
		Token: &oauth2.Token{
			AccessToken:  rec.AccessToken,
			TokenType:    rec.TokenType,
			RefreshToken: rec.RefreshToken,
			Expiry:       rec.Expiry,
		},
		UserID: rec.UserID,
		Email:  rec.Email,
	}, nil
}

func (f *FileStore) Save(s *Session) error {
	if s == nil || s.Token == nil {
		return errors.New("saving session: no token")
	}
	rec := storedSession{
		AccessToken:  s.Token.AccessToken,
		TokenType:    s.Token.TokenType,
		RefreshToken: s.Token.RefreshToken,
		Expiry:       s.Token.Expiry.UTC(),
		UserID:       s.UserID,
		Email:        s.Email,
	}
	data, err := yaml.Marshal(&rec)
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("creating session dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".session-*")
	if err != nil {
		return fmt.Errorf("creating session file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("securing session file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing session file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing session file: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("replacing session file: %w", err)
	}
	return nil
}

func (f *FileStore) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing session file: %w", err)
	}
	return nil
}

// MemoryStore is a Store for tests and one-shot commands.
type MemoryStore struct {
	mu sync.Mutex
	s  *Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Load() (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.s == nil {
		return nil, ErrNotStored
	}
	cp := *m.s
	tok := *m.s.Token
	cp.Token = &tok
	return &cp, nil
}

func (m *MemoryStore) Save(s *Session) error {
	if s == nil || s.Token == nil {
		return errors.New("saving session: no token")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *s
	tok := *s.Token
	cp.Token = &tok
	m.s = &cp
	return nil
}

func (m *MemoryStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.s = nil
	return nil
}
