package domain

import (
	"crypto/subtle"
	"strings"
)

// FlagKey and FlagValue mark an authenticated session in the blob store.
const (
	FlagKey   = "isAuthenticated"
	FlagValue = "true"
)

type Credentials struct {
	Username string
	Password string
}

// Match compares in constant time; surrounding whitespace in the username
// is ignored.
func (c Credentials) Match(username, password string) bool {
	if c.Username == "" {
		return false
	}
	userOK := subtle.ConstantTimeCompare([]byte(strings.TrimSpace(username)), []byte(c.Username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(c.Password)) == 1
	return userOK && passOK
}
