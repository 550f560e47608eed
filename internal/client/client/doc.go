// Package client talks to the authentication API.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic contract (see the Client interface) for the six
//     endpoints the CLI depends on: requesting login/registration codes,
//     registering, logging in, logging out and reading the last login time.
//  2. An HTTP/JSON implementation (see HTTPClient) that decodes the uniform
//     {code, msg, data} envelope and maps failures to typed errors.
//  3. The request authorizer (see Authorizer), an http.RoundTripper that
//     attaches the session's bearer token to every request and clears the
//     session when the server answers 401.
//
// # Error Handling
//
// Failures are reported as typed errors that also match sentinels via
// errors.Is:
//
//   - *BusinessError     → ErrBusiness (and ErrCredentialExpired for code 401)
//   - *TransportError    → ErrTransport
//   - *UnauthorizedError → ErrUnauthorized
//
// A transport-level 401 and an envelope-level code 401 are deliberately
// different errors: the first has already cleared the session, the second
// has not.
package client
