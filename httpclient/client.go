// httpclient/client.go
/* The httpclient package is the consumer-facing surface of the library. A
Client is bound to one API family at construction: it fetches that family's
schema document, synthesizes the operation set and owns the credential,
transport and runtime settings used by every dispatched call. */
package httpclient

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/thedzy/jamf-classes/authenticationhandler"
	"github.com/thedzy/jamf-classes/logger"
	"github.com/thedzy/jamf-classes/operations"
	"github.com/thedzy/jamf-classes/response"
	"github.com/thedzy/jamf-classes/schema"
	"github.com/thedzy/jamf-classes/transport"
)

// Family identifies which of the two server APIs a client speaks.
type Family string

const (
	// FamilyClassic is the legacy API: XML-oriented, basic auth, swagger
	// 2.0 document.
	FamilyClassic Family = "classic"

	// FamilyUniversal is the current API: JSON, bearer token auth,
	// OpenAPI 3 document.
	FamilyUniversal Family = "universal"
)

// Client is a schema-driven API client for one server and one API family.
// All methods are safe for concurrent use.
type Client struct {
	family Family
	log    logger.Logger
	sender *transport.HTTPSender

	apiURL         string
	acceptFormat   string
	hideDeprecated bool
	schemaFile     string

	basic  authenticationhandler.BasicCredential
	tokens *authenticationhandler.AuthTokenHandler

	// settingsLock guards the runtime-adjustable settings below.
	settingsLock sync.Mutex
	timeout      time.Duration
	verifySSL    bool

	state atomic.Pointer[schemaState]
}

// schemaState bundles everything derived from one parsed schema document. A
// refresh swaps the whole value, and each registry's dispatcher captures its
// own base path, so an in-flight call never combines an old endpoint with a
// new base path.
type schemaState struct {
	basePath string
	registry *operations.Registry
}

// newSchemaState synthesizes the operation set for a parsed document, with
// the document's base path bound into the dispatch closure.
func (c *Client) newSchemaState(doc *schema.Document) *schemaState {
	basePath := doc.BasePath
	dispatch := func(endpoint schema.Endpoint, params operations.Params) (*response.Envelope, error) {
		return c.dispatch(basePath, endpoint, params)
	}
	return &schemaState{
		basePath: basePath,
		registry: operations.Synthesize(doc.Endpoints, dispatch, operations.Options{
			HideDeprecated: c.hideDeprecated,
		}),
	}
}

// NewClassicClient builds a client for the classic API. The schema document
// is fetched and parsed before the client is returned; a server that cannot
// serve its schema yields an error, not a half-built client.
func NewClassicClient(config ClientConfig) (*Client, error) {
	return buildClient(FamilyClassic, config)
}

// NewUniversalClient builds a client for the universal API. Login is lazy:
// the bearer token is acquired on the first dispatched call.
func NewUniversalClient(config ClientConfig) (*Client, error) {
	return buildClient(FamilyUniversal, config)
}

// WithClassicClient builds a classic client, hands it to fn and closes it
// when fn returns.
func WithClassicClient(config ClientConfig, fn func(*Client) error) error {
	client, err := NewClassicClient(config)
	if err != nil {
		return err
	}
	defer client.Close()
	return fn(client)
}

// WithUniversalClient builds a universal client, hands it to fn and closes
// it when fn returns. Closing invalidates the session token.
func WithUniversalClient(config ClientConfig, fn func(*Client) error) error {
	client, err := NewUniversalClient(config)
	if err != nil {
		return err
	}
	defer client.Close()
	return fn(client)
}

func buildClient(family Family, config ClientConfig) (*Client, error) {
	SetDefaultValues(&config)
	if err := validateClientConfig(config); err != nil {
		return nil, err
	}

	log := logger.BuildLogger(logger.ParseLogLevelFromString(config.LogLevel), config.LogEncoding)

	if config.SuppressTLSWarnings {
		transport.DisableWarnings()
	}

	c := &Client{
		family:         family,
		log:            log,
		sender:         transport.NewHTTPSender(),
		apiURL:         normalizeBaseURL(config.BaseURL),
		acceptFormat:   config.AcceptFormat,
		hideDeprecated: config.HideDeprecated,
		schemaFile:     config.SchemaFile,
		timeout:        config.Timeout,
		verifySSL:      !config.InsecureSkipVerify,
	}

	doc, err := c.loadSchema(context.Background())
	if err != nil {
		c.sender.Close()
		return nil, err
	}

	creds := authenticationhandler.ClientCredentials{
		Username: config.Username,
		Password: config.Password,
	}
	switch family {
	case FamilyClassic:
		c.basic = authenticationhandler.NewBasicCredential(creds)
	case FamilyUniversal:
		authPath := doc.AuthPath
		if authPath == "" {
			authPath = schema.DefaultUniversalAuthPath
		}
		c.tokens = authenticationhandler.NewAuthTokenHandler(creds, c.apiURL+doc.BasePath+authPath, c.sender, log)
	default:
		c.sender.Close()
		return nil, fmt.Errorf("unknown API family %q", family)
	}

	c.state.Store(c.newSchemaState(doc))

	log.Info("Client initialized",
		zap.String("family", string(family)),
		zap.String("base_url", c.apiURL),
		zap.String("base_path", doc.BasePath),
		zap.Int("operations", c.state.Load().registry.Len()))

	return c, nil
}

// loadSchema retrieves and parses the family's schema document, from the
// configured local file when set, otherwise from the server's discovery
// endpoint.
func (c *Client) loadSchema(ctx context.Context) (*schema.Document, error) {
	timeout, verify := c.currentSettings()

	var raw []byte
	var err error
	if c.schemaFile != "" {
		raw, err = schema.ReadDocumentFile(c.schemaFile)
	} else {
		fetchCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		raw, err = schema.FetchDocument(fetchCtx, c.apiURL, c.documentPath(), c.sender.HTTPClient(verify))
	}
	if err != nil {
		return nil, err
	}

	switch c.family {
	case FamilyClassic:
		return schema.ParseClassic(raw, c.log)
	default:
		return schema.ParseUniversal(raw, c.log)
	}
}

func (c *Client) documentPath() string {
	if c.family == FamilyClassic {
		return schema.ClassicDocumentPath
	}
	return schema.UniversalDocumentPath
}

// RefreshSchema refetches the schema document and swaps in a freshly
// synthesized operation set with its base path, in one atomic store.
// Callers holding the previous set keep working against it, old base path
// included, until their call completes.
func (c *Client) RefreshSchema(ctx context.Context) error {
	doc, err := c.loadSchema(ctx)
	if err != nil {
		return err
	}

	c.state.Store(c.newSchemaState(doc))

	c.log.Info("Schema refreshed", zap.Int("operations", c.state.Load().registry.Len()))
	return nil
}

// Close releases the client. A universal client invalidates its session
// token server-side first; the returned error reports an invalidation
// failure, the transport is released either way.
func (c *Client) Close() error {
	var err error
	if c.tokens != nil {
		timeout, verify := c.currentSettings()
		err = c.tokens.Invalidate(context.Background(), timeout, verify)
	}
	c.sender.Close()
	return err
}

// Authenticated reports whether the client currently holds a usable
// credential. Classic clients always do; universal clients report the token
// state.
func (c *Client) Authenticated() bool {
	if c.tokens == nil {
		return true
	}
	return c.tokens.Authenticated()
}

// Timeout reads, and with an argument sets, the per-request timeout.
// Negative values are ignored.
func (c *Client) Timeout(value ...time.Duration) time.Duration {
	c.settingsLock.Lock()
	defer c.settingsLock.Unlock()

	if len(value) > 0 && value[0] >= 0 {
		c.timeout = value[0]
	}
	return c.timeout
}

// VerifySSL reads, and with an argument sets, TLS certificate verification.
// Only subsequent requests are affected.
func (c *Client) VerifySSL(value ...bool) bool {
	c.settingsLock.Lock()
	defer c.settingsLock.Unlock()

	if len(value) > 0 {
		c.verifySSL = value[0]
	}
	return c.verifySSL
}

func (c *Client) currentSettings() (time.Duration, bool) {
	c.settingsLock.Lock()
	defer c.settingsLock.Unlock()
	return c.timeout, c.verifySSL
}

// DisableWarnings suppresses the warning otherwise logged for every request
// sent with TLS verification disabled. Process-wide, like the certificate
// warning suppression it mirrors.
func DisableWarnings() {
	transport.DisableWarnings()
}
