// Package session owns the client's authentication credential and keeps it
// in a durable storage backing across restarts.
//
// The store never returns storage errors. A backing that cannot be read
// looks like "no session" and a failed write is logged, so anonymous
// browsing keeps working when persistence is unavailable.
package session

import (
	"context"
	"log/slog"
	"strconv"
	"sync"

	"judge_client/internal/domain/model"
	"judge_client/internal/platform/storage"
)

const (
	keyToken  = "token"
	keyEmail  = "email"
	keyUserID = "userId"
)

var credentialKeys = []string{keyToken, keyEmail, keyUserID}

type Store struct {
	backend storage.Backend
	logger  *slog.Logger

	mu      sync.RWMutex
	current *model.Credential
}

func New(backend storage.Backend, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{backend: backend, logger: logger}
}

// Restore loads the persisted credential into memory. It reports false, and
// clears memory, unless all three fields are present and userId is an
// integer.
func (s *Store) Restore(ctx context.Context) (model.Credential, bool) {
	cred, ok := s.load(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if !ok {
		s.current = nil
		return model.Credential{}, false
	}
	s.current = &cred
	return cred, true
}

func (s *Store) load(ctx context.Context) (model.Credential, bool) {
	fields, err := s.backend.Get(ctx, credentialKeys...)
	if err != nil {
		s.logger.Warn("session storage unreadable, continuing without a session", "error", err)
		return model.Credential{}, false
	}
	token, email, rawID := fields[keyToken], fields[keyEmail], fields[keyUserID]
	if token == "" || email == "" || rawID == "" {
		if len(fields) > 0 {
			s.logger.Debug("ignoring partial session", "fields", len(fields))
		}
		return model.Credential{}, false
	}
	userID, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		s.logger.Debug("ignoring session with malformed userId", "userId", rawID)
		return model.Credential{}, false
	}
	return model.Credential{Token: token, Email: email, UserID: userID}, true
}

// Establish persists all three fields in one backing call and makes the
// credential current. The in-memory credential is updated even if
// persistence fails.
func (s *Store) Establish(ctx context.Context, cred model.Credential) {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.backend.Set(ctx, map[string]string{
		keyToken:  cred.Token,
		keyEmail:  cred.Email,
		keyUserID: strconv.FormatInt(cred.UserID, 10),
	})
	if err != nil {
		s.logger.Warn("failed to persist session; it will last only for this process", "error", err)
	}
	c := cred
	s.current = &c
}

// Clear removes the credential from memory and storage. Calling it without
// a session is a no-op.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.backend.Delete(ctx, credentialKeys...); err != nil {
		s.logger.Warn("failed to remove persisted session", "error", err)
	}
	s.current = nil
}

func (s *Store) Current() (model.Credential, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return model.Credential{}, false
	}
	return *s.current, true
}

// CurrentAuthHeader returns the Authorization header value for the held
// credential.
func (s *Store) CurrentAuthHeader() (string, bool) {
	cred, ok := s.Current()
	if !ok {
		return "", false
	}
	return "Bearer " + cred.Token, true
}
