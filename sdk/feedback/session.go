package feedback

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// Session is the identity a Client acts as.
type Session struct {
	Token     string    `yaml:"token"`
	UserID    string    `yaml:"user_id"`
	Role      string    `yaml:"role"`
	ExpiresAt time.Time `yaml:"expires_at"`
}

// Expired reports whether the session is no longer usable at now. A zero
// ExpiresAt never expires.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// SessionStore persists the current session. Load returns ErrNoSession when
// nothing live is stored.
type SessionStore interface {
	Load(ctx context.Context) (*Session, error)
	Save(ctx context.Context, session *Session) error
	Clear(ctx context.Context) error
}

// MemorySessionStore keeps the session in process memory.
type MemorySessionStore struct {
	mu      sync.RWMutex
	session *Session
	now     func() time.Time
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{now: time.Now}
}

func (m *MemorySessionStore) Load(_ context.Context) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.session == nil {
		return nil, ErrNoSession
	}
	if m.session.Expired(m.now()) {
		m.session = nil
		return nil, ErrNoSession
	}
	s := *m.session
	return &s, nil
}

func (m *MemorySessionStore) Save(_ context.Context, session *Session) error {
	if session == nil || session.Token == "" {
		return errors.New("feedback: session token is required")
	}
	s := *session
	m.mu.Lock()
	m.session = &s
	m.mu.Unlock()
	return nil
}

func (m *MemorySessionStore) Clear(_ context.Context) error {
	m.mu.Lock()
	m.session = nil
	m.mu.Unlock()
	return nil
}

type storedSession struct {
	Session `yaml:",inline"`
	SavedAt time.Time `yaml:"saved_at"`
}

// FileSessionStore keeps the session in a YAML file. A session is dropped
// once its own expiry or the store TTL passes, whichever comes first.
type FileSessionStore struct {
	path string
	ttl  time.Duration
	now  func() time.Time
	mu   sync.Mutex
}

// FileStoreOption configures a FileSessionStore.
type FileStoreOption func(*FileSessionStore)

// WithClock overrides the time source.
func WithClock(now func() time.Time) FileStoreOption {
	return func(s *FileSessionStore) {
		s.now = now
	}
}

// NewFileSessionStore stores the session at path. A ttl of zero disables
// the store-side limit.
func NewFileSessionStore(path string, ttl time.Duration, opts ...FileStoreOption) *FileSessionStore {
	s := &FileSessionStore{
		path: path,
		ttl:  ttl,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (f *FileSessionStore) Load(_ context.Context) (*Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}

	var stored storedSession
	if err := yaml.Unmarshal(data, &stored); err != nil || stored.Token == "" {
		// unreadable sessions are discarded rather than repaired
		_ = f.removeLocked()
		return nil, ErrNoSession
	}

	now := f.now()
	if stored.Expired(now) || (f.ttl > 0 && !now.Before(stored.SavedAt.Add(f.ttl))) {
		if err := f.removeLocked(); err != nil {
			return nil, err
		}
		return nil, ErrNoSession
	}

	s := stored.Session
	return &s, nil
}

func (f *FileSessionStore) Save(_ context.Context, session *Session) error {
	if session == nil || session.Token == "" {
		return errors.New("feedback: session token is required")
	}

	data, err := yaml.Marshal(storedSession{Session: *session, SavedAt: f.now().UTC()})
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	if err := os.WriteFile(f.path, data, 0o600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

func (f *FileSessionStore) Clear(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.removeLocked()
}

func (f *FileSessionStore) removeLocked() error {
	if err := os.Remove(f.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove session: %w", err)
	}
	return nil
}
