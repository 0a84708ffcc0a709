// authenticationhandler/tokenmanager.go
package authenticationhandler

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/thedzy/jamf-classes/logger"
	"github.com/thedzy/jamf-classes/status"
	"github.com/thedzy/jamf-classes/transport"
)

// fallbackTokenLifetime is assumed when a login response carries no parseable
// expiry. The server issues 30 minute tokens.
const fallbackTokenLifetime = 30 * time.Minute

// AuthTokenHandler manages the universal API bearer token. All state
// transitions are serialized under tokenLock so concurrent auth failures
// trigger at most one renewal.
type AuthTokenHandler struct {
	credentials   ClientCredentials
	loginURL      string
	keepAliveURL  string
	invalidateURL string
	sender        transport.Sender
	log           logger.Logger

	tokenLock  sync.Mutex
	credential Credential
}

// NewAuthTokenHandler creates a handler for the given token endpoint URL,
// e.g. https://instance.jamfcloud.com/api/v1/auth/token. The keep-alive and
// invalidation endpoints are siblings of the token endpoint.
func NewAuthTokenHandler(credentials ClientCredentials, loginURL string, sender transport.Sender, log logger.Logger) *AuthTokenHandler {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &AuthTokenHandler{
		credentials:   credentials,
		loginURL:      loginURL,
		keepAliveURL:  strings.Replace(loginURL, "/token", "/keep-alive", 1),
		invalidateURL: strings.Replace(loginURL, "/token", "/invalidate-token", 1),
		sender:        sender,
		log:           log,
	}
}

// EnsureToken returns a bearer token, logging in or keeping the session
// alive as needed. It is the pre-flight step of every universal API call.
func (h *AuthTokenHandler) EnsureToken(ctx context.Context, timeout time.Duration, verifyTLS bool) (string, error) {
	h.tokenLock.Lock()
	defer h.tokenLock.Unlock()

	now := time.Now()
	if h.credential.Valid(now) {
		return h.credential.BearerToken, nil
	}

	if h.credential.BearerToken != "" {
		// Held but past the local expiry: the session may still be alive
		// server-side, so try keep-alive before a fresh login.
		if err := h.keepAlive(ctx, timeout, verifyTLS); err == nil {
			return h.credential.BearerToken, nil
		}
	}

	if err := h.login(ctx, timeout, verifyTLS); err != nil {
		return "", err
	}
	return h.credential.BearerToken, nil
}

// RenewAfterFailure replaces the credential after a dispatched request
// observed an auth-failure status. observedToken is the token that failed;
// if another caller already renewed past it, the current credential is
// returned without a second renewal.
func (h *AuthTokenHandler) RenewAfterFailure(ctx context.Context, timeout time.Duration, verifyTLS bool, observedToken string) (string, error) {
	h.tokenLock.Lock()
	defer h.tokenLock.Unlock()

	if h.credential.BearerToken != observedToken && h.credential.Valid(time.Now()) {
		return h.credential.BearerToken, nil
	}

	h.log.Debug("Bearer token rejected, renewing session", zap.String("url", h.loginURL))

	if err := h.login(ctx, timeout, verifyTLS); err != nil {
		return "", err
	}
	return h.credential.BearerToken, nil
}

// Invalidate revokes the current token server-side and discards it. Called
// when the client closes.
func (h *AuthTokenHandler) Invalidate(ctx context.Context, timeout time.Duration, verifyTLS bool) error {
	h.tokenLock.Lock()
	defer h.tokenLock.Unlock()

	if h.credential.BearerToken == "" {
		return nil
	}

	resp, err := h.sender.Send(ctx, transport.Request{
		Method: "POST",
		URL:    h.invalidateURL,
		Headers: map[string]string{
			"Authorization": "Bearer " + h.credential.BearerToken,
			"Accept":        "*/*",
		},
		Timeout:   timeout,
		VerifyTLS: verifyTLS,
	})
	h.credential = Credential{}

	if err != nil {
		return &AuthError{Reason: "token invalidation failed", Err: err}
	}
	if !status.IsSuccessStatusCode(resp.StatusCode) {
		return &AuthError{Reason: "token invalidation rejected: " + status.TranslateStatusCode(resp.StatusCode)}
	}

	h.log.Debug("Bearer token invalidated", zap.String("url", h.invalidateURL))
	return nil
}

// Authenticated reports whether a currently valid token is held.
func (h *AuthTokenHandler) Authenticated() bool {
	h.tokenLock.Lock()
	defer h.tokenLock.Unlock()
	return h.credential.Valid(time.Now())
}

// login acquires a fresh credential with the stored basic credentials.
// Caller holds tokenLock.
func (h *AuthTokenHandler) login(ctx context.Context, timeout time.Duration, verifyTLS bool) error {
	basic := NewBasicCredential(h.credentials)

	resp, err := h.sender.Send(ctx, transport.Request{
		Method: "POST",
		URL:    h.loginURL,
		Headers: map[string]string{
			"Authorization": basic.AuthorizationHeader(),
			"Accept":        "application/json",
		},
		Timeout:   timeout,
		VerifyTLS: verifyTLS,
	})
	if err != nil {
		return &AuthError{Reason: "login request failed", Err: err}
	}
	if !status.IsSuccessStatusCode(resp.StatusCode) {
		return &AuthError{Reason: "login rejected: " + status.TranslateStatusCode(resp.StatusCode)}
	}

	credential, err := parseTokenResponse(resp.Body)
	if err != nil {
		return err
	}
	h.credential = credential

	h.log.Info("Bearer token obtained",
		zap.String("url", h.loginURL),
		zap.Time("expires", credential.ExpiresAt))
	return nil
}

// keepAlive extends the current session with the held token.
// Caller holds tokenLock.
func (h *AuthTokenHandler) keepAlive(ctx context.Context, timeout time.Duration, verifyTLS bool) error {
	resp, err := h.sender.Send(ctx, transport.Request{
		Method: "POST",
		URL:    h.keepAliveURL,
		Headers: map[string]string{
			"Authorization": "Bearer " + h.credential.BearerToken,
			"Accept":        "application/json",
		},
		Timeout:   timeout,
		VerifyTLS: verifyTLS,
	})
	if err != nil {
		return &AuthError{Reason: "keep-alive request failed", Err: err}
	}
	if !status.IsSuccessStatusCode(resp.StatusCode) {
		return &AuthError{Reason: "keep-alive rejected: " + status.TranslateStatusCode(resp.StatusCode)}
	}

	credential, err := parseTokenResponse(resp.Body)
	if err != nil {
		return err
	}
	h.credential = credential

	h.log.Debug("Bearer token kept alive", zap.Time("expires", credential.ExpiresAt))
	return nil
}

// parseTokenResponse extracts the token and expiry from a login response.
func parseTokenResponse(body string) (Credential, error) {
	token := gjson.Get(body, "token").String()
	if token == "" {
		return Credential{}, &AuthError{Reason: "login response carried no token"}
	}

	expiresAt := time.Now().Add(fallbackTokenLifetime)
	if expires := gjson.Get(body, "expires").String(); expires != "" {
		if parsed, err := time.Parse(time.RFC3339, expires); err == nil {
			expiresAt = parsed
		}
	}

	return Credential{BearerToken: token, ExpiresAt: expiresAt}, nil
}
