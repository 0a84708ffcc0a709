// transport/warnings.go
package transport

import "sync/atomic"

// tlsWarningsDisabled is process-wide: every client shares it, matching the
// library-level warning suppression of the underlying HTTP stack. Last write
// wins under concurrency.
var tlsWarningsDisabled atomic.Bool

// DisableWarnings turns off the warning normally logged for requests sent
// with TLS verification disabled. Idempotent and safe to call concurrently.
func DisableWarnings() {
	tlsWarningsDisabled.Store(true)
}

// EnableWarnings restores the warning, mostly for tests.
func EnableWarnings() {
	tlsWarningsDisabled.Store(false)
}

// WarningsDisabled reports the current process-wide setting.
func WarningsDisabled() bool {
	return tlsWarningsDisabled.Load()
}
