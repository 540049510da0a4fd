package wallet

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

// Session remembers which wallet was last connected on each network, so a
// later run reconnects without prompting. Only wallet names are stored.
type Session struct {
	path string
	mu   sync.Mutex
}

// NewSession returns a session persisted at path.
func NewSession(path string) *Session {
	return &Session{path: path}
}

// load reads the session file. Returns an empty map (never nil) on any error.
func (s *Session) load() map[string]string {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return make(map[string]string)
	}
	var m map[string]string
	if err := json.Unmarshal(data, &m); err != nil || m == nil {
		return make(map[string]string)
	}
	return m
}

func (s *Session) save(m map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	data, err := json.Marshal(m)
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o600)
}

// Wallet returns the wallet remembered for network.
func (s *Session) Wallet(network string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	name, ok := s.load()[network]
	return name, ok && name != ""
}

// Remember records name as the connected wallet on network.
func (s *Session) Remember(network, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m := s.load()
	if m[network] == name {
		return nil
	}
	m[network] = name
	return s.save(m)
}

// Forget drops every network entry pointing at wallet name.
func (s *Session) Forget(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m := s.load()
	changed := false
	for network, w := range m {
		if w == name {
			delete(m, network)
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return s.save(m)
}

// Clear removes the session file.
func (s *Session) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := os.Remove(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
