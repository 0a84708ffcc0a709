// httpclient/config.go
package httpclient

import (
	"fmt"
	"strings"
	"time"
)

const (
	// DefaultTimeout is the per-request timeout applied when the config
	// leaves Timeout zero.
	DefaultTimeout = 180 * time.Second

	// DefaultLogLevel is used when the config leaves LogLevel empty.
	DefaultLogLevel = "warning"

	// DefaultLogEncoding is the zap encoding used when the config leaves
	// LogEncoding empty.
	DefaultLogEncoding = "console"

	// DefaultAcceptFormat is the representation requested from the classic
	// API when the config leaves AcceptFormat empty.
	DefaultAcceptFormat = AcceptFormatJSON
)

// Accepted values for ClientConfig.AcceptFormat. The classic API can answer
// in either representation; the universal API is always JSON.
const (
	AcceptFormatJSON = "json"
	AcceptFormatXML  = "xml"
)

// ClientConfig holds everything needed to construct a client. The zero value
// of every optional field maps to a sensible default through
// SetDefaultValues.
type ClientConfig struct {
	// BaseURL is the server address, e.g. https://instance.jamfcloud.com.
	// A missing scheme is assumed to be https; a trailing slash is dropped.
	BaseURL string

	// Username and Password authenticate against the server. The classic
	// API sends them as basic auth on every request; the universal API
	// exchanges them for a bearer token.
	Username string
	Password string

	// Timeout bounds each request. Changeable later through
	// Client.Timeout.
	Timeout time.Duration

	// InsecureSkipVerify disables TLS certificate verification.
	// Changeable later through Client.VerifySSL.
	InsecureSkipVerify bool

	// SuppressTLSWarnings stops the process-wide warning logged for
	// requests sent with verification disabled.
	SuppressTLSWarnings bool

	// HideDeprecated excludes deprecated endpoints from the synthesized
	// operation set. Naming of the remaining operations is unaffected.
	HideDeprecated bool

	// AcceptFormat selects the classic API response representation,
	// "json" or "xml". Ignored by the universal API.
	AcceptFormat string

	// SchemaFile, when set, reads the schema document from a local file
	// instead of fetching it from the server.
	SchemaFile string

	// LogLevel is one of debug, info, warning, error, none.
	LogLevel string

	// LogEncoding is the zap encoding, "console" or "json".
	LogEncoding string
}

// SetDefaultValues fills zero-valued optional fields with their defaults.
func SetDefaultValues(config *ClientConfig) {
	if config.Timeout == 0 {
		config.Timeout = DefaultTimeout
	}
	if config.AcceptFormat == "" {
		config.AcceptFormat = DefaultAcceptFormat
	}
	if config.LogLevel == "" {
		config.LogLevel = DefaultLogLevel
	}
	if config.LogEncoding == "" {
		config.LogEncoding = DefaultLogEncoding
	}
}

// validateClientConfig checks the populated config for values the client
// cannot work with. Called after SetDefaultValues.
func validateClientConfig(config ClientConfig) error {
	if config.BaseURL == "" {
		return fmt.Errorf("validation failed: BaseURL is required")
	}
	if config.Username == "" || config.Password == "" {
		return fmt.Errorf("validation failed: Username and Password are required")
	}
	if config.Timeout < 0 {
		return fmt.Errorf("validation failed: Timeout must not be negative")
	}
	if config.AcceptFormat != AcceptFormatJSON && config.AcceptFormat != AcceptFormatXML {
		return fmt.Errorf("validation failed: AcceptFormat must be %q or %q, got %q",
			AcceptFormatJSON, AcceptFormatXML, config.AcceptFormat)
	}
	if config.LogEncoding != "console" && config.LogEncoding != "json" {
		return fmt.Errorf("validation failed: LogEncoding must be \"console\" or \"json\", got %q", config.LogEncoding)
	}
	return nil
}

// normalizeBaseURL applies the scheme and trailing-slash rules: a bare host
// gets https://, and trailing slashes are removed so path joining is
// predictable.
func normalizeBaseURL(baseURL string) string {
	trimmed := strings.TrimSpace(baseURL)
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}
	return strings.TrimRight(trimmed, "/")
}
