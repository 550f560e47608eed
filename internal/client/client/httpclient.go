package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/codeauth/internal/common"
	"github.com/dmitrijs2005/codeauth/internal/logging"
)

// API paths relative to the base URL.
const (
	PathSendRegisterCode = "/auth/send/register/verification/code"
	PathRegister         = "/auth/register"
	PathSendLoginCode    = "/auth/send/login/verification/code"
	PathLogin            = "/auth/login"
	PathLogout           = "/auth/logout"
	PathLastLoginTime    = "/member/lastLoginTime"
)

// maxResponseBytes bounds how much of a response body is read.
const maxResponseBytes = 1 << 20

type HTTPClient struct {
	baseURL *url.URL
	http    *http.Client
	logger  logging.Logger
}

var _ Client = (*HTTPClient)(nil)

// NewHTTPClient builds a client for the API at baseURL. Requests go through
// rt, normally an *Authorizer; a nil rt uses http.DefaultTransport.
func NewHTTPClient(baseURL string, timeout time.Duration, rt http.RoundTripper, logger logging.Logger) (*HTTPClient, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base url %q", baseURL)
	}
	if rt == nil {
		rt = http.DefaultTransport
	}
	if logger == nil {
		logger = logging.Nop()
	}

	return &HTTPClient{
		baseURL: u,
		http:    &http.Client{Transport: rt, Timeout: timeout},
		logger:  logger,
	}, nil
}

func (c *HTTPClient) RequestRegisterCode(ctx context.Context, email string) error {
	return c.do(ctx, "request register code", http.MethodPost, PathSendRegisterCode, codeRequest{Email: email}, nil)
}

func (c *HTTPClient) Register(ctx context.Context, req RegisterRequest) error {
	return c.do(ctx, "register", http.MethodPost, PathRegister, req, nil)
}

func (c *HTTPClient) RequestLoginCode(ctx context.Context, email string) error {
	return c.do(ctx, "request login code", http.MethodPost, PathSendLoginCode, codeRequest{Email: email}, nil)
}

// Login returns the issued token. An empty token with a success envelope is
// returned as-is; the caller decides what that means.
func (c *HTTPClient) Login(ctx context.Context, req LoginRequest) (string, error) {
	var data loginData
	if err := c.do(ctx, "login", http.MethodPost, PathLogin, req, &data); err != nil {
		return "", err
	}
	return data.Token, nil
}

func (c *HTTPClient) Logout(ctx context.Context) error {
	return c.do(ctx, "logout", http.MethodPost, PathLogout, nil, nil)
}

func (c *HTTPClient) LastLoginTime(ctx context.Context) (string, error) {
	var data lastLoginData
	if err := c.do(ctx, "last login time", http.MethodGet, PathLastLoginTime, nil, &data); err != nil {
		return "", err
	}
	return data.LastLoginTime, nil
}

func (c *HTTPClient) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

func (c *HTTPClient) do(ctx context.Context, op, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", op, err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL.JoinPath(path).String(), body)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Accept", common.ContentTypeJSON)
	if in != nil {
		req.Header.Set("Content-Type", common.ContentTypeJSON)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return &TransportError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("read body: %w", err)}
	}

	env, ok := decodeEnvelope(raw)

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return &UnauthorizedError{Op: op, Message: env.Msg}
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return &TransportError{Op: op, StatusCode: resp.StatusCode, Message: env.Msg}
	case !ok:
		return &TransportError{Op: op, StatusCode: resp.StatusCode, Message: "malformed response envelope"}
	case env.Code != 0:
		c.logger.Debug(ctx, "request rejected", "op", op, "code", env.Code, "msg", env.Msg)
		return &BusinessError{Op: op, Code: env.Code, Message: env.Msg}
	}

	if out != nil && env.hasData() {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return &TransportError{Op: op, StatusCode: resp.StatusCode, Message: "malformed response data", Err: err}
		}
	}
	return nil
}
