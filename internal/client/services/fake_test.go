package services

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/codeauth/internal/client/client"
)

// fakeClient is a programmable client.Client. Hooks left nil succeed.
type fakeClient struct {
	mu    sync.Mutex
	calls map[string]int

	requestRegisterCode func(ctx context.Context, email string) error
	register            func(ctx context.Context, req client.RegisterRequest) error
	requestLoginCode    func(ctx context.Context, email string) error
	login               func(ctx context.Context, req client.LoginRequest) (string, error)
	logout              func(ctx context.Context) error
	lastLoginTime       func(ctx context.Context) (string, error)
}

var _ client.Client = (*fakeClient)(nil)

func newFakeClient() *fakeClient {
	return &fakeClient{calls: make(map[string]int)}
}

func (f *fakeClient) count(op string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[op]++
}

func (f *fakeClient) Calls(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *fakeClient) Total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

func (f *fakeClient) RequestRegisterCode(ctx context.Context, email string) error {
	f.count("RequestRegisterCode")
	if f.requestRegisterCode != nil {
		return f.requestRegisterCode(ctx, email)
	}
	return nil
}

func (f *fakeClient) Register(ctx context.Context, req client.RegisterRequest) error {
	f.count("Register")
	if f.register != nil {
		return f.register(ctx, req)
	}
	return nil
}

func (f *fakeClient) RequestLoginCode(ctx context.Context, email string) error {
	f.count("RequestLoginCode")
	if f.requestLoginCode != nil {
		return f.requestLoginCode(ctx, email)
	}
	return nil
}

func (f *fakeClient) Login(ctx context.Context, req client.LoginRequest) (string, error) {
	f.count("Login")
	if f.login != nil {
		return f.login(ctx, req)
	}
	return "token", nil
}

func (f *fakeClient) Logout(ctx context.Context) error {
	f.count("Logout")
	if f.logout != nil {
		return f.logout(ctx)
	}
	return nil
}

func (f *fakeClient) LastLoginTime(ctx context.Context) (string, error) {
	f.count("LastLoginTime")
	if f.lastLoginTime != nil {
		return f.lastLoginTime(ctx)
	}
	return "2024-01-01T00:00:00Z", nil
}

func (f *fakeClient) Close() error { return nil }
