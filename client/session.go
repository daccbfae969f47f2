package client

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"sync"
)

// Session is a dependency-injected state container for the signed-in user.
// It persists to a JSON file between runs, the way a browser keeps its token
// in local storage. Concurrent writers are last-writer-wins; there is no
// cross-process conflict resolution.
type Session struct {
	path string

	mu    sync.Mutex
	token string
	user  *AuthResponse
}

type sessionData struct {
	Token string        `json:"token"`
	User  *AuthResponse `json:"user,omitempty"`
}

// NewSession creates a session persisted at path.
func NewSession(path string) *Session {
	return &Session{path: path}
}

// Resume loads a previously saved session from disk. A missing file leaves
// the session signed out.
func (s *Session) Resume() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	} else if err != nil {
		return err
	}

	var data sessionData
	if err := json.Unmarshal(b, &data); err != nil {
		return err
	}
	s.token = data.Token
	s.user = data.User
	return nil
}

// Login authenticates against the API and persists the resulting token.
func (s *Session) Login(ctx context.Context, api *Client, email, password string) (*AuthResponse, error) {
	resp, err := api.Login(ctx, LoginRequest{Email: email, Password: password})
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.token = resp.Token
	s.user = resp
	err = s.saveLocked()
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// Register creates an account and signs the session in.
func (s *Session) Register(ctx context.Context, api *Client, req RegisterRequest) (*AuthResponse, error) {
	resp, err := api.Register(ctx, req)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.token = resp.Token
	s.user = resp
	err = s.saveLocked()
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// Logout clears the session and its persisted state.
func (s *Session) Logout() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.user = nil
	return s.saveLocked()
}

// Token returns the stored access token, empty when signed out.
func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// User returns the signed-in user, nil when signed out.
func (s *Session) User() *AuthResponse {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

// Authenticated derives a client carrying this session's token.
func (s *Session) Authenticated(api *Client) *Client {
	return api.WithToken(s.Token())
}

func (s *Session) saveLocked() error {
	b, err := json.MarshalIndent(sessionData{Token: s.token, User: s.user}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, b, 0600)
}
