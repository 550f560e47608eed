package services

import (
	"net/mail"
	"strings"

	"github.com/dmitrijs2005/codeauth/internal/common"
)

// validateEmail trims raw and checks it is a bare address with a dotted
// domain. It returns the normalized address.
func validateEmail(raw string) (string, error) {
	email := common.NormalizeEmail(raw)
	if email == "" {
		return "", &ValidationError{Field: "email", Reason: "is required"}
	}

	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", &ValidationError{Field: "email", Reason: "is not a valid address"}
	}

	at := strings.LastIndexByte(email, '@')
	domain := email[at+1:]
	if !strings.Contains(domain, ".") || strings.HasPrefix(domain, ".") || strings.HasSuffix(domain, ".") {
		return "", &ValidationError{Field: "email", Reason: "is not a valid address"}
	}
	return email, nil
}

func validateRequired(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return &ValidationError{Field: field, Reason: "is required"}
	}
	return nil
}
