// Package common contains shared constants and small helpers used across
// codeauth components.
package common

// Outbound header names used by the request authorizer.
const (
	AuthorizationHeaderName = "Authorization"
	RequestIDHeaderName     = "X-Request-ID"
	BearerScheme            = "Bearer"
)

// ContentTypeJSON is sent with every API request that carries a body.
const ContentTypeJSON = "application/json"
