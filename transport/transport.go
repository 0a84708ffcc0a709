// transport/transport.go
/* The transport package is the raw HTTP sender the client dispatches through.
It carries no retry or authentication logic of its own: it takes a fully
described request and returns the status, body and headers, or a transport
error. */
package transport

import (
	"bytes"
	"context"
	"crypto/tls"
	"io"
	"net/http"
	"sync"
	"time"
)

// Request fully describes one HTTP exchange: everything the sender needs is
// carried on the value, including the caller's current timeout and TLS-verify
// settings.
type Request struct {
	Method    string
	URL       string
	Headers   map[string]string
	Body      []byte
	Timeout   time.Duration
	VerifyTLS bool
}

// Response is the raw outcome of a sent request.
type Response struct {
	StatusCode int
	Body       string
	Headers    http.Header
}

// Sender sends requests. Implementations never retry and never authenticate.
type Sender interface {
	Send(ctx context.Context, req Request) (*Response, error)
	Close()
}

// HTTPSender is the net/http backed Sender. It keeps one connection pool per
// TLS-verify setting so flipping verification at runtime does not leak pools.
type HTTPSender struct {
	mu      sync.Mutex
	clients map[bool]*http.Client
}

// NewHTTPSender returns a ready Sender.
func NewHTTPSender() *HTTPSender {
	return &HTTPSender{
		clients: make(map[bool]*http.Client),
	}
}

// HTTPClient exposes the underlying pooled client for the given TLS-verify
// setting, for collaborators that speak *http.Client (the schema provider).
func (s *HTTPSender) HTTPClient(verifyTLS bool) *http.Client {
	s.mu.Lock()
	defer s.mu.Unlock()

	if client, ok := s.clients[verifyTLS]; ok {
		return client
	}

	client := &http.Client{
		Transport: &http.Transport{
			TLSClientConfig:     &tls.Config{InsecureSkipVerify: !verifyTLS},
			MaxIdleConnsPerHost: 10,
		},
	}
	s.clients[verifyTLS] = client
	return client
}

// Send performs the exchange. A timeout is applied through the context; an
// expired deadline surfaces as a transport error like any other network
// failure.
func (s *HTTPSender) Send(ctx context.Context, req Request) (*Response, error) {
	if req.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	var bodyReader io.Reader
	if len(req.Body) > 0 {
		bodyReader = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, bodyReader)
	if err != nil {
		return nil, err
	}
	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}

	resp, err := s.HTTPClient(req.VerifyTLS).Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Body:       string(bodyBytes),
		Headers:    resp.Header,
	}, nil
}

// Close releases all pooled connections.
func (s *HTTPSender) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, client := range s.clients {
		client.CloseIdleConnections()
	}
}
