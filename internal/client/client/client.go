package client

import "context"

// Client is the contract of the authentication API.
type Client interface {
	RequestRegisterCode(ctx context.Context, email string) error
	Register(ctx context.Context, req RegisterRequest) error
	RequestLoginCode(ctx context.Context, email string) error
	Login(ctx context.Context, req LoginRequest) (string, error)
	Logout(ctx context.Context) error
	LastLoginTime(ctx context.Context) (string, error)
	Close() error
}

type codeRequest struct {
	Email string `json:"email"`
}

type RegisterRequest struct {
	Email            string `json:"email"`
	Password         string `json:"password"`
	ConfirmPassword  string `json:"confirmPassword"`
	VerificationCode string `json:"verificationCode"`
}

type LoginRequest struct {
	Email            string `json:"email"`
	Password         string `json:"password"`
	VerificationCode string `json:"verificationCode"`
}

type loginData struct {
	Token string `json:"token"`
}

type lastLoginData struct {
	LastLoginTime string `json:"lastLoginTime"`
}
