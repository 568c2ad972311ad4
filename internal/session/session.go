// Package session holds the client-side record of the authenticated user.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"taskhub/internal/service"
)

// Store keeps the current user in memory and mirrors every mutation to a
// file, so the session survives process restarts. The file also carries the
// backend's session cookies; they are the transport half of the same session
// and live or die with it.
//
// Writes happen inside the mutator, so the in-memory copy and the stored
// copy never diverge across a call.
type Store struct {
	path    string
	user    *service.User
	cookies []*http.Cookie
}

// fileState is the on-disk layout of the session file.
type fileState struct {
	User    *service.User  `json:"user"`
	Cookies []*http.Cookie `json:"cookies,omitempty"`
}

// Load reads the session file at path. A missing file is a logged-out
// session, not an error.
func Load(path string) (*Store, error) {
	s := &Store{path: path}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}
	var st fileState
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("invalid session file %s: %w", path, err)
	}
	s.user = st.User
	s.cookies = st.Cookies
	return s, nil
}

// Path returns the file the session persists to.
func (s *Store) Path() string {
	return s.path
}

// Current returns the stored user, if any.
func (s *Store) Current() (service.User, bool) {
	if s.user == nil {
		return service.User{}, false
	}
	return *s.user, true
}

// Login replaces any prior user and writes the file before returning.
// The user shape is trusted input from the auth operations; no validation
// happens here.
func (s *Store) Login(u service.User) error {
	s.user = &u
	return s.flush()
}

// Logout clears the user and cookies and removes the file. A file that is
// already gone is fine.
func (s *Store) Logout() error {
	s.user = nil
	s.cookies = nil
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove session file: %w", err)
	}
	return nil
}

// Cookies returns the persisted transport cookies.
func (s *Store) Cookies() []*http.Cookie {
	return s.cookies
}

// SetCookies replaces the transport cookies. While logged out the cookies are
// held in memory only; the next Login writes them together with the user.
func (s *Store) SetCookies(cookies []*http.Cookie) error {
	s.cookies = cookies
	if s.user == nil {
		return nil
	}
	return s.flush()
}

func (s *Store) flush() error {
	data, err := json.MarshalIndent(fileState{User: s.user, Cookies: s.cookies}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	return nil
}
