package client

import (
	"net/http"

	"github.com/dmitrijs2005/codeauth/internal/common"
	"github.com/dmitrijs2005/codeauth/internal/logging"
	"github.com/google/uuid"
)

// TokenStore is the part of session.Store the authorizer needs.
type TokenStore interface {
	Token() (string, bool)
	Clear()
}

// Authorizer decorates outbound requests with the session's bearer token
// and clears the session when a response comes back 401. It never fails on
// its own: errors and responses from the wrapped transport pass through.
type Authorizer struct {
	base   http.RoundTripper
	store  TokenStore
	logger logging.Logger
}

var _ http.RoundTripper = (*Authorizer)(nil)

func NewAuthorizer(base http.RoundTripper, store TokenStore, logger logging.Logger) *Authorizer {
	if base == nil {
		base = http.DefaultTransport
	}
	if logger == nil {
		logger = logging.Nop()
	}
	return &Authorizer{base: base, store: store, logger: logger}
}

func (a *Authorizer) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()

	// RoundTrippers must not modify the caller's request.
	r := req.Clone(ctx)
	if token, ok := a.store.Token(); ok {
		r.Header.Set(common.AuthorizationHeaderName, common.BearerScheme+" "+token)
	}
	if r.Header.Get(common.RequestIDHeaderName) == "" {
		r.Header.Set(common.RequestIDHeaderName, uuid.NewString())
	}

	a.logger.Debug(ctx, "outbound request",
		"method", r.Method,
		"path", r.URL.Path,
		"request_id", r.Header.Get(common.RequestIDHeaderName),
	)

	resp, err := a.base.RoundTrip(r)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized {
		a.store.Clear()
		a.logger.Warn(ctx, "credential rejected, session cleared",
			"path", r.URL.Path,
			"request_id", r.Header.Get(common.RequestIDHeaderName),
		)
	}
	return resp, nil
}

// CloseIdleConnections forwards to the wrapped transport so that
// http.Client.CloseIdleConnections reaches it.
func (a *Authorizer) CloseIdleConnections() {
	type closeIdler interface{ CloseIdleConnections() }
	if ci, ok := a.base.(closeIdler); ok {
		ci.CloseIdleConnections()
	}
}
