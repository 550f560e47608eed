// Package apitest runs an in-process fake of the authentication API for
// tests. It implements the six endpoints used by the client with
// deterministic verification codes, HS256 JWT tokens and one-shot failure
// injection.
package apitest

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrijs2005/codeauth/internal/client/client"
	"github.com/dmitrijs2005/codeauth/internal/common"
)

// Result codes returned in the envelope.
const (
	CodeOK                  = 0
	CodeEmailRegistered     = 1001
	CodePasswordMismatch    = 1002
	CodeInvalidVerification = 1003
	CodeAccountNotFound     = 1004
	CodeBadCredentials      = 1005
	CodeBadRequest          = 1400
)

type Purpose string

const (
	PurposeRegister Purpose = "register"
	PurposeLogin    Purpose = "login"
)

// Call is one request seen by the backend.
type Call struct {
	Method        string
	Path          string
	Authorization string
	RequestID     string
}

// Failure replaces the next response of a path. A zero Status answers 200
// with the given envelope code.
type Failure struct {
	Status int
	Code   int
	Msg    string
}

type Backend struct {
	server *httptest.Server
	secret []byte

	mu        sync.Mutex
	users     map[string]string
	codes     map[string]string
	revoked   map[string]bool
	lastLogin map[string]time.Time
	failures  map[string]Failure
	calls     []Call
	seq       int
	nextToken string
	tokenTTL  time.Duration
}

// New starts a backend that is shut down when the test ends.
func New(t testing.TB) *Backend {
	t.Helper()

	b := &Backend{
		secret:    []byte("apitest-secret"),
		users:     make(map[string]string),
		codes:     make(map[string]string),
		revoked:   make(map[string]bool),
		lastLogin: make(map[string]time.Time),
		failures:  make(map[string]Failure),
		tokenTTL:  time.Hour,
	}
	b.server = httptest.NewServer(b.routes())
	t.Cleanup(b.server.Close)
	return b
}

func (b *Backend) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(b.record, b.inject)

	r.Post(client.PathSendRegisterCode, b.sendRegisterCode)
	r.Post(client.PathRegister, b.register)
	r.Post(client.PathSendLoginCode, b.sendLoginCode)
	r.Post(client.PathLogin, b.login)
	r.Post(client.PathLogout, b.logout)
	r.Get(client.PathLastLoginTime, b.lastLoginTime)
	return r
}

func (b *Backend) URL() string { return b.server.URL }

// AddUser registers an account directly.
func (b *Backend) AddUser(email, password string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.users[email] = password
}

// HasUser reports whether email has an account.
func (b *Backend) HasUser(email string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.users[email]
	return ok
}

// CodeFor returns the last code sent to email for purpose, or "".
func (b *Backend) CodeFor(p Purpose, email string) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.codes[codeKey(p, email)]
}

// SetNextToken makes the next successful login return token verbatim.
func (b *Backend) SetNextToken(token string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextToken = token
}

// SetTokenTTL changes the lifetime of issued tokens. A negative TTL issues
// tokens that are already expired.
func (b *Backend) SetTokenTTL(d time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tokenTTL = d
}

// Fail makes the next request to path answer with f.
func (b *Backend) Fail(path string, f Failure) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures[path] = f
}

func (b *Backend) Calls() []Call {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Call(nil), b.calls...)
}

// CallCount returns how many requests hit path.
func (b *Backend) CallCount(path string) int {
	n := 0
	for _, c := range b.Calls() {
		if c.Path == path {
			n++
		}
	}
	return n
}

func (b *Backend) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.calls = append(b.calls, Call{
			Method:        r.Method,
			Path:          r.URL.Path,
			Authorization: r.Header.Get(common.AuthorizationHeaderName),
			RequestID:     r.Header.Get(common.RequestIDHeaderName),
		})
		b.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (b *Backend) inject(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		f, ok := b.failures[r.URL.Path]
		delete(b.failures, r.URL.Path)
		b.mu.Unlock()

		if !ok {
			next.ServeHTTP(w, r)
			return
		}
		status := f.Status
		if status == 0 {
			status = http.StatusOK
		}
		writeEnvelope(w, status, f.Code, f.Msg, nil)
	})
}

type emailBody struct {
	Email string `json:"email"`
}

func (b *Backend) sendRegisterCode(w http.ResponseWriter, r *http.Request) {
	var in emailBody
	if !decode(w, r, &in) {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.users[in.Email]; exists {
		writeEnvelope(w, http.StatusOK, CodeEmailRegistered, "email already registered", nil)
		return
	}
	b.codes[codeKey(PurposeRegister, in.Email)] = b.newCodeLocked()
	writeEnvelope(w, http.StatusOK, CodeOK, "verification code sent", nil)
}

func (b *Backend) register(w http.ResponseWriter, r *http.Request) {
	var in client.RegisterRequest
	if !decode(w, r, &in) {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	key := codeKey(PurposeRegister, in.Email)
	switch {
	case in.Password != in.ConfirmPassword:
		writeEnvelope(w, http.StatusOK, CodePasswordMismatch, "passwords do not match", nil)
	case b.codes[key] == "" || b.codes[key] != in.VerificationCode:
		writeEnvelope(w, http.StatusOK, CodeInvalidVerification, "invalid verification code", nil)
	default:
		delete(b.codes, key)
		b.users[in.Email] = in.Password
		writeEnvelope(w, http.StatusOK, CodeOK, "registered", nil)
	}
}

func (b *Backend) sendLoginCode(w http.ResponseWriter, r *http.Request) {
	var in emailBody
	if !decode(w, r, &in) {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.users[in.Email]; !exists {
		writeEnvelope(w, http.StatusOK, CodeAccountNotFound, "account not found", nil)
		return
	}
	b.codes[codeKey(PurposeLogin, in.Email)] = b.newCodeLocked()
	writeEnvelope(w, http.StatusOK, CodeOK, "verification code sent", nil)
}

func (b *Backend) login(w http.ResponseWriter, r *http.Request) {
	var in client.LoginRequest
	if !decode(w, r, &in) {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	key := codeKey(PurposeLogin, in.Email)
	password, exists := b.users[in.Email]
	if !exists || password != in.Password || b.codes[key] == "" || b.codes[key] != in.VerificationCode {
		writeEnvelope(w, http.StatusOK, CodeBadCredentials, "invalid email, password or verification code", nil)
		return
	}
	delete(b.codes, key)

	token := b.nextToken
	b.nextToken = ""
	if token == "" {
		var err error
		token, err = GenerateToken(in.Email, b.secret, b.tokenTTL)
		if err != nil {
			writeEnvelope(w, http.StatusInternalServerError, 500, err.Error(), nil)
			return
		}
	}
	b.lastLogin[in.Email] = time.Now().UTC()

	writeEnvelope(w, http.StatusOK, CodeOK, "", map[string]string{"token": token})
}

func (b *Backend) logout(w http.ResponseWriter, r *http.Request) {
	c, status := b.authenticate(r)
	if status != http.StatusOK {
		writeEnvelope(w, status, status, "invalid token", nil)
		return
	}

	b.mu.Lock()
	b.revoked[c.ID] = true
	b.mu.Unlock()

	writeEnvelope(w, http.StatusOK, CodeOK, "logged out", nil)
}

func (b *Backend) lastLoginTime(w http.ResponseWriter, r *http.Request) {
	c, status := b.authenticate(r)
	switch status {
	case http.StatusOK:
	case http.StatusUnauthorized:
		writeEnvelope(w, http.StatusUnauthorized, http.StatusUnauthorized, "missing or invalid token", nil)
		return
	default:
		writeEnvelope(w, http.StatusOK, client.CodeCredentialExpired, "token expired", nil)
		return
	}

	b.mu.Lock()
	t := b.lastLogin[c.Subject]
	b.mu.Unlock()

	writeEnvelope(w, http.StatusOK, CodeOK, "", map[string]string{"lastLoginTime": t.Format(time.RFC3339)})
}

// authenticate returns 200 for a valid token, 401 for a missing or forged
// one and 419 for an expired or revoked one.
func (b *Backend) authenticate(r *http.Request) (*Claims, int) {
	raw, ok := strings.CutPrefix(r.Header.Get(common.AuthorizationHeaderName), common.BearerScheme+" ")
	if !ok || raw == "" {
		return nil, http.StatusUnauthorized
	}

	c, err := ParseToken(raw, b.secret)
	switch {
	case errors.Is(err, ErrTokenExpired):
		return nil, 419
	case err != nil:
		return nil, http.StatusUnauthorized
	}

	b.mu.Lock()
	revoked := b.revoked[c.ID]
	b.mu.Unlock()
	if revoked {
		return nil, 419
	}
	return c, http.StatusOK
}

func (b *Backend) newCodeLocked() string {
	b.seq++
	return fmt.Sprintf("%06d", 100000+b.seq)
}

func codeKey(p Purpose, email string) string {
	return string(p) + "|" + email
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeEnvelope(w, http.StatusBadRequest, CodeBadRequest, "malformed request body", nil)
		return false
	}
	return true
}

func writeEnvelope(w http.ResponseWriter, status, code int, msg string, data any) {
	w.Header().Set("Content-Type", common.ContentTypeJSON)
	w.WriteHeader(status)

	env := map[string]any{"code": code}
	if msg != "" {
		env["msg"] = msg
	}
	if data != nil {
		env["data"] = data
	}
	_ = json.NewEncoder(w).Encode(env)
}
