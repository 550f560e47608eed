package services

import (
	"context"

	"github.com/dmitrijs2005/codeauth/internal/client/client"
	"github.com/dmitrijs2005/codeauth/internal/client/session"
	"github.com/dmitrijs2005/codeauth/internal/logging"
)

// MemberService runs the operations that need a signed-in session.
type MemberService struct {
	client client.Client
	store  *session.Store
	logger logging.Logger
}

func NewMemberService(c client.Client, store *session.Store, logger logging.Logger) *MemberService {
	if logger == nil {
		logger = logging.Nop()
	}
	return &MemberService{client: c, store: store, logger: logger.With("service", "member")}
}

// LastLoginTime returns the server-formatted time of the previous login.
// Without a session it fails with ErrNotAuthenticated and sends nothing.
func (m *MemberService) LastLoginTime(ctx context.Context) (string, error) {
	if !m.store.IsAuthenticated() {
		return "", ErrNotAuthenticated
	}
	return m.client.LastLoginTime(ctx)
}

// Logout tells the server to end the session and then clears the local
// session whatever the server answered.
func (m *MemberService) Logout(ctx context.Context) error {
	if !m.store.IsAuthenticated() {
		return ErrNotAuthenticated
	}

	err := m.client.Logout(ctx)
	m.store.Clear()
	if err != nil {
		m.logger.Warn(ctx, "server logout failed, local session cleared", "error", err)
		return err
	}
	m.logger.Info(ctx, "logged out")
	return nil
}
