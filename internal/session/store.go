package session

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

type fileContents struct {
	Token string          `json:"token"`
	User  json.RawMessage `json:"user,omitempty"`
}

// FileStore keeps the session in a JSON file readable only by its owner.
type FileStore struct {
	path string
}

// NewFileStore returns a store writing to path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads the session file. A corrupt user entry keeps the token but
// drops the user, so callers treat the session as unusable.
func (s *FileStore) Load() (*Session, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var contents fileContents
	if err := json.Unmarshal(raw, &contents); err != nil || contents.Token == "" {
		return nil, nil
	}
	return &Session{Token: contents.Token, User: parseUser(contents.User)}, nil
}

// Save writes the session atomically.
func (s *FileStore) Save(sess *Session) error {
	contents := fileContents{Token: sess.Token}
	if sess.User != nil {
		raw, err := json.Marshal(sess.User)
		if err != nil {
			return err
		}
		contents.User = raw
	}
	raw, err := json.MarshalIndent(contents, "", "  ")
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

// Clear removes the session file.
func (s *FileStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func parseUser(raw json.RawMessage) *User {
	if len(raw) == 0 {
		return nil
	}
	var user User
	if err := json.Unmarshal(raw, &user); err != nil {
		return nil
	}
	if user.ID == "" || !user.Role.Valid() {
		return nil
	}
	return &user
}

// MemoryStore keeps the session in process. Used by tests.
type MemoryStore struct {
	mu   sync.Mutex
	sess *Session
}

func (s *MemoryStore) Load() (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sess == nil {
		return nil, nil
	}
	return &Session{Token: s.sess.Token, User: cloneUser(s.sess.User)}, nil
}

func (s *MemoryStore) Save(sess *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sess = &Session{Token: sess.Token, User: cloneUser(sess.User)}
	return nil
}

func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sess = nil
	return nil
}
