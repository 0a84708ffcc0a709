// authenticationhandler/authenticationhandler.go
/* The authenticationhandler package owns credential lifecycle for both API
families. The classic API uses a basic-auth value computed once and never
renewed; the universal API uses a renewable bearer token whose state moves
unauthenticated -> authenticated -> expired -> authenticated as login and
renewal calls succeed. */
package authenticationhandler

import (
	"encoding/base64"
	"fmt"
	"time"
)

// ClientCredentials holds the username and password supplied at client
// construction. They are reused for every token renewal.
type ClientCredentials struct {
	Username string
	Password string
}

// Credential is the universal API bearer token with its expiry. Renewal
// replaces the whole value; it is never partially mutated.
type Credential struct {
	BearerToken string
	ExpiresAt   time.Time
}

// Valid reports whether a token is held and has not passed its expiry.
func (c Credential) Valid(now time.Time) bool {
	return c.BearerToken != "" && now.Before(c.ExpiresAt)
}

// BasicCredential is the classic API credential: a precomputed basic-auth
// header value, static for the session lifetime.
type BasicCredential struct {
	header string
}

// NewBasicCredential derives the credential from username and password.
func NewBasicCredential(creds ClientCredentials) BasicCredential {
	encoded := base64.StdEncoding.EncodeToString([]byte(creds.Username + ":" + creds.Password))
	return BasicCredential{header: "Basic " + encoded}
}

// AuthorizationHeader returns the value for the Authorization header.
func (c BasicCredential) AuthorizationHeader() string {
	return c.header
}

// AuthError reports a credential that is invalid or could not be renewed.
// The dispatcher surfaces it through the response envelope rather than
// raising it to callers.
type AuthError struct {
	Reason string
	Err    error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("authentication failed: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("authentication failed: %s", e.Reason)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}
