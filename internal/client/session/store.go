// Package session holds the process-wide credential of the CLI.
//
// Store is the only owner of the Credential. The request authorizer reads
// the token from it and clears it on a 401; the login flow sets it. All
// methods are synchronous and never touch the network.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/codeauth/internal/common"
	"github.com/dmitrijs2005/codeauth/internal/logging"
)

const mirrorTimeout = 3 * time.Second

type Store struct {
	mu     sync.RWMutex
	cred   *Credential
	mirror Mirror
	logger logging.Logger
}

type Option func(*Store)

// WithMirror copies every change of the credential into m.
func WithMirror(m Mirror) Option {
	return func(s *Store) { s.mirror = m }
}

func WithLogger(l logging.Logger) Option {
	return func(s *Store) { s.logger = l }
}

func NewStore(opts ...Option) *Store {
	s := &Store{logger: logging.Nop()}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Set stores the credential, replacing any previous one. An empty token
// leaves the store unauthenticated.
func (s *Store) Set(token, email string) {
	if token == "" {
		s.Clear()
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c := Credential{Token: token, Email: email}
	s.cred = &c

	if s.mirror != nil {
		ctx, cancel := context.WithTimeout(context.Background(), mirrorTimeout)
		defer cancel()
		if err := s.mirror.Save(ctx, c); err != nil {
			s.logger.Warn(ctx, "session mirror save failed", "error", err)
		}
	}
}

// Clear drops the credential. It is safe to call on an empty store.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	hadCredential := s.cred != nil
	s.cred = nil

	if s.mirror != nil && hadCredential {
		ctx, cancel := context.WithTimeout(context.Background(), mirrorTimeout)
		defer cancel()
		if err := s.mirror.Wipe(ctx); err != nil {
			s.logger.Warn(ctx, "session mirror wipe failed", "error", err)
		}
	}
}

func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cred != nil
}

func (s *Store) CurrentEmail() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.cred == nil {
		return "", false
	}
	return s.cred.Email, true
}

func (s *Store) Token() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.cred == nil {
		return "", false
	}
	return s.cred.Token, true
}

// Credential returns a copy of the stored credential.
func (s *Store) Credential() (Credential, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.cred == nil {
		return Credential{}, false
	}
	return *s.cred, true
}

// Restore loads a credential left in the mirror by an earlier Set of the
// same session database. Without a mirror it does nothing.
func (s *Store) Restore(ctx context.Context) error {
	if s.mirror == nil {
		return nil
	}

	c, ok, err := s.mirror.Load(ctx)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	s.mu.Lock()
	s.cred = &c
	s.mu.Unlock()

	s.logger.Info(ctx, "session restored", "email", common.MaskEmail(c.Email))
	return nil
}

// Close forgets the credential and wipes the mirror so nothing outlives the
// session.
func (s *Store) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cred = nil
	if s.mirror == nil {
		return nil
	}
	return s.mirror.Wipe(ctx)
}
