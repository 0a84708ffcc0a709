// schema/provider.go
// Retrieval of the raw schema documents. The provider performs no semantic
// interpretation: it returns bytes or a SchemaError.
package schema

import (
	"context"
	"net/http"
	"os"

	"github.com/carlmjohnson/requests"
)

// ClassicDocumentPath is the vendor-documented discovery endpoint for the
// classic API swagger document.
const ClassicDocumentPath = "/classicapi/doc/swagger.yaml"

// UniversalDocumentPath is the vendor-documented discovery endpoint for the
// universal API schema document.
const UniversalDocumentPath = "/api/schema/"

// FetchDocument retrieves a raw schema document from the given discovery
// path under the server base URL. The supplied http.Client carries the
// caller's timeout and TLS settings.
func FetchDocument(ctx context.Context, baseURL, documentPath string, client *http.Client) ([]byte, error) {
	var body string
	err := requests.
		URL(baseURL).
		Path(documentPath).
		Client(client).
		ToString(&body).
		Fetch(ctx)
	if err != nil {
		return nil, &SchemaError{Reason: "schema document unreachable at " + baseURL + documentPath, Err: err}
	}
	return []byte(body), nil
}

// ReadDocumentFile reads a schema document from a local file, for offline
// construction and tests.
func ReadDocumentFile(path string) ([]byte, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, &SchemaError{Reason: "schema document not readable at " + path, Err: err}
	}
	return raw, nil
}
