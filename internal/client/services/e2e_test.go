package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/codeauth/internal/client/apitest"
	"github.com/dmitrijs2005/codeauth/internal/client/client"
	"github.com/dmitrijs2005/codeauth/internal/client/session"
)

type stack struct {
	backend *apitest.Backend
	store   *session.Store
	client  *client.HTTPClient
}

func newStack(t *testing.T) *stack {
	t.Helper()
	backend := apitest.New(t)
	store := session.NewStore()
	c, err := client.NewHTTPClient(backend.URL(), 2*time.Second, client.NewAuthorizer(nil, store, nil), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return &stack{backend: backend, store: store, client: c}
}

func TestEndToEnd_RegisterLoginLastLoginLogout(t *testing.T) {
	ctx := context.Background()
	s := newStack(t)

	reg := NewRegistration(s.client, frozenTimer(), nil)
	defer reg.Close()

	require.NoError(t, reg.Advance(ctx, "u@x.com"))
	code := s.backend.CodeFor(apitest.PurposeRegister, "u@x.com")
	require.NotEmpty(t, code)
	require.NoError(t, reg.Complete(ctx, "pw", "pw", code))
	require.True(t, s.backend.HasUser("u@x.com"))
	assert.False(t, s.store.IsAuthenticated())

	login := NewLoginFlow(s.client, s.store, frozenTimer(), nil)
	defer login.Close()

	_, err := login.RequestCode(ctx, "u@x.com")
	require.NoError(t, err)
	assert.Equal(t, 60, login.Cooldown())

	s.backend.SetNextToken("tok123")
	cred, err := login.Login(ctx, "u@x.com", "pw", s.backend.CodeFor(apitest.PurposeLogin, "u@x.com"))
	require.NoError(t, err)
	assert.Equal(t, "tok123", cred.Token)

	email, ok := s.store.CurrentEmail()
	require.True(t, ok)
	assert.Equal(t, "u@x.com", email)

	member := NewMemberService(s.client, s.store, nil)

	// tok123 is not a token the backend signed, so the member API answers
	// 401 and the authorizer drops the session.
	_, err = member.LastLoginTime(ctx)
	assert.ErrorIs(t, err, client.ErrUnauthorized)
	assert.False(t, s.store.IsAuthenticated())
}

func TestEndToEnd_LastLoginAndLogout(t *testing.T) {
	ctx := context.Background()
	s := newStack(t)
	s.backend.AddUser("u@x.com", "pw")

	login := NewLoginFlow(s.client, s.store, frozenTimer(), nil)
	defer login.Close()

	_, err := login.RequestCode(ctx, "u@x.com")
	require.NoError(t, err)
	_, err = login.Login(ctx, "u@x.com", "pw", s.backend.CodeFor(apitest.PurposeLogin, "u@x.com"))
	require.NoError(t, err)

	member := NewMemberService(s.client, s.store, nil)
	last, err := member.LastLoginTime(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, last)

	token, _ := s.store.Token()
	require.NoError(t, member.Logout(ctx))
	assert.False(t, s.store.IsAuthenticated())

	// The revoked token is reported as expired in the envelope.
	s.store.Set(token, "u@x.com")
	_, err = member.LastLoginTime(ctx)
	assert.ErrorIs(t, err, client.ErrCredentialExpired)
	assert.True(t, s.store.IsAuthenticated())
}

func TestEndToEnd_LastLoginWithoutSessionSendsNothing(t *testing.T) {
	s := newStack(t)
	member := NewMemberService(s.client, s.store, nil)

	_, err := member.LastLoginTime(context.Background())
	assert.ErrorIs(t, err, ErrNotAuthenticated)
	assert.Empty(t, s.backend.Calls())
}

func TestEndToEnd_CooldownBlocksSecondRequest(t *testing.T) {
	s := newStack(t)
	s.backend.AddUser("u@x.com", "pw")

	login := NewLoginFlow(s.client, s.store, frozenTimer(), nil)
	defer login.Close()

	_, err := login.RequestCode(context.Background(), "u@x.com")
	require.NoError(t, err)
	_, err = login.RequestCode(context.Background(), "u@x.com")
	assert.ErrorIs(t, err, ErrCooldownActive)
	assert.Equal(t, 1, s.backend.CallCount(client.PathSendLoginCode))
}

func TestEndToEnd_ReplyWithoutCodeDoesNotArmCooldown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{}`))
	}))
	t.Cleanup(srv.Close)

	store := session.NewStore()
	c, err := client.NewHTTPClient(srv.URL, 2*time.Second, client.NewAuthorizer(nil, store, nil), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	login := NewLoginFlow(c, store, frozenTimer(), nil)
	defer login.Close()

	_, err = login.RequestCode(context.Background(), "u@x.com")
	assert.ErrorIs(t, err, client.ErrTransport)
	assert.Zero(t, login.Cooldown())

	_, err = login.Login(context.Background(), "u@x.com", "pw", "123456")
	assert.ErrorIs(t, err, client.ErrTransport)
	assert.NotErrorIs(t, err, ErrMissingToken)
	assert.False(t, store.IsAuthenticated())
}
