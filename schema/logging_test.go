// schema/logging_test.go
package schema

import (
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/thedzy/jamf-classes/mocklogger"
)

func TestParseClassic_WarnsOnMalformedPathEntry(t *testing.T) {
	raw := []byte(`swagger: "2.0"
basePath: /JSSResource
paths:
  /broken: just a scalar
  /computers:
    get:
      operationId: findComputers
`)

	log := mocklogger.NewMockLogger()
	log.On("Warn", mock.Anything, mock.Anything).Return()

	doc, err := ParseClassic(raw, log)
	require.NoError(t, err)
	require.Len(t, doc.Endpoints, 1)

	log.AssertCalled(t, "Warn", "Skipping malformed path entry in classic schema", mock.Anything)
}

func TestParseUniversal_WarnsOnMalformedPathEntry(t *testing.T) {
	raw := []byte(`{
  "servers": [{"url": "/api"}],
  "paths": {
    "/broken": "just a string",
    "/v1/scripts": {"get": {"operationId": "getAllScripts"}}
  }
}`)

	log := mocklogger.NewMockLogger()
	log.On("Warn", mock.Anything, mock.Anything).Return()

	doc, err := ParseUniversal(raw, log)
	require.NoError(t, err)
	require.Len(t, doc.Endpoints, 1)

	log.AssertCalled(t, "Warn", "Skipping malformed path entry in universal schema", mock.Anything)
}
