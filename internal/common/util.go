package common

import "strings"

// WipeByteArray overwrites the contents of b with zeros. Passwords read from
// the terminal are wiped with it once they have been sent.
//
// A nil slice is a no-op.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// NormalizeEmail trims surrounding whitespace. Case is preserved: the backend
// decides whether addresses are case sensitive.
func NormalizeEmail(email string) string {
	return strings.TrimSpace(email)
}

// MaskEmail hides most of the local part of an address so it can be logged,
// e.g. "alice@example.org" -> "a***@example.org".
func MaskEmail(email string) string {
	at := strings.LastIndex(email, "@")
	if at <= 0 {
		return "***"
	}
	return email[:1] + "***" + email[at:]
}
