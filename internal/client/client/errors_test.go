package client

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBusinessError_Is(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", &BusinessError{Op: "login", Code: 1005, Message: "bad"})
	assert.ErrorIs(t, err, ErrBusiness)
	assert.NotErrorIs(t, err, ErrCredentialExpired)
	assert.NotErrorIs(t, err, ErrTransport)

	expired := &BusinessError{Op: "last login time", Code: CodeCredentialExpired, Message: "token expired"}
	assert.ErrorIs(t, expired, ErrBusiness)
	assert.ErrorIs(t, expired, ErrCredentialExpired)
	assert.NotErrorIs(t, expired, ErrUnauthorized)
}

func TestTransportError_UnwrapsCause(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	err := &TransportError{Op: "login", Err: cause}

	assert.ErrorIs(t, err, ErrTransport)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "login: dial tcp: refused", err.Error())

	withStatus := &TransportError{Op: "login", StatusCode: 502, Message: "bad gateway"}
	assert.Equal(t, "login: http 502: bad gateway", withStatus.Error())
}

func TestUnauthorizedError(t *testing.T) {
	err := &UnauthorizedError{Op: "logout"}
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, "logout: unauthorized", err.Error())
}

func TestMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"business", &BusinessError{Message: "email already registered"}, "email already registered"},
		{"wrapped business", fmt.Errorf("x: %w", &BusinessError{Message: "m"}), "m"},
		{"transport", &TransportError{Message: "malformed response envelope"}, "malformed response envelope"},
		{"unauthorized", &UnauthorizedError{Message: "invalid token"}, "invalid token"},
		{"other", errors.New("plain"), ""},
		{"nil", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Message(tt.err))
		})
	}
}
