// httpclient/client_test.go
package httpclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thedzy/jamf-classes/operations"
)

const classicSwaggerYAML = `swagger: "2.0"
basePath: /JSSResource
paths:
  /computers:
    get:
      operationId: findComputers
      summary: Finds all computers
      tags:
        - computers
  /computers/id/{id}:
    get:
      operationId: findComputersById
      tags:
        - computers
      parameters:
        - name: id
          in: path
          required: true
    put:
      operationId: updateComputerById
      tags:
        - computers
      parameters:
        - name: id
          in: path
          required: true
    delete:
      operationId: deleteComputerById
      tags:
        - computers
      parameters:
        - name: id
          in: path
          required: true
  /activationcode:
    get:
      operationId: findActivationCode
      tags:
        - activationcode
`

const universalSchemaJSON = `{
  "servers": [{"url": "/api"}],
  "security": [{"apiAuth": ["/v1/auth/token"]}],
  "paths": {
    "/v1/scripts": {
      "get": {"tags": ["scripts"], "operationId": "getAllScripts", "summary": "Lists scripts"},
      "post": {"tags": ["scripts"], "operationId": "createScript"}
    },
    "/v1/scripts/{id}": {
      "get": {
        "tags": ["scripts"],
        "operationId": "getScriptById",
        "parameters": [{"name": "id", "in": "path", "required": true}]
      }
    },
    "/v1/classic-preview": {
      "get": {
        "tags": ["preview"],
        "operationId": "getPreview",
        "deprecated": true,
        "x-deprecation-date": "2024-01-01"
      }
    }
  }
}`

func testConfig(serverURL string) ClientConfig {
	return ClientConfig{
		BaseURL:  serverURL,
		Username: "admin",
		Password: "hunter2",
		LogLevel: "none",
	}
}

// newClassicServer serves the classic swagger document and delegates all
// resource requests to handler.
func newClassicServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/classicapi/doc/swagger.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(classicSwaggerYAML))
	})
	if handler != nil {
		mux.HandleFunc("/JSSResource/", handler)
	}
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

// universalServer tracks auth traffic around a scripts handler.
type universalServer struct {
	*httptest.Server

	mu            sync.Mutex
	logins        int
	invalidations int
}

func (s *universalServer) loginCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.logins
}

func (s *universalServer) invalidationCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.invalidations
}

// newUniversalServer issues tokens tok-1, tok-2, ... per login. loginStatus
// controls the Nth login's status code; scripts handles /api/v1/scripts.
func newUniversalServer(t *testing.T, loginStatus func(n int) int, scripts http.HandlerFunc) *universalServer {
	t.Helper()
	s := &universalServer{}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/schema/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(universalSchemaJSON))
	})
	mux.HandleFunc("/api/v1/auth/token", func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.logins++
		n := s.logins
		s.mu.Unlock()

		code := http.StatusOK
		if loginStatus != nil {
			code = loginStatus(n)
		}
		if code != http.StatusOK {
			w.WriteHeader(code)
			return
		}
		expires := time.Now().Add(30 * time.Minute).Format(time.RFC3339)
		fmt.Fprintf(w, `{"token":"tok-%d","expires":%q}`, n, expires)
	})
	mux.HandleFunc("/api/v1/auth/invalidate-token", func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.invalidations++
		s.mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	})
	if scripts != nil {
		mux.HandleFunc("/api/v1/scripts", scripts)
	}

	s.Server = httptest.NewServer(mux)
	t.Cleanup(s.Close)
	return s
}

func TestNewClassicClient_SynthesizesOperations(t *testing.T) {
	server := newClassicServer(t, nil)

	client, err := NewClassicClient(testConfig(server.URL))
	require.NoError(t, err)
	defer client.Close()

	assert.Equal(t, []string{
		"get_computers_find_computers",
		"get_computers_find_computers_by_id",
		"put_computers_update_computer_by_id",
		"delete_computers_delete_computer_by_id",
		"get_activationcode_find_activation_code",
	}, client.Operations())
}

func TestClassicClient_InvokeSubstitutesPathParams(t *testing.T) {
	var gotPath, gotAuth, gotAccept string
	server := newClassicServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotAccept = r.Header.Get("Accept")
		w.Write([]byte(`{"computer":{"general":{"id":100,"name":"lab-mac"}}}`))
	})

	client, err := NewClassicClient(testConfig(server.URL))
	require.NoError(t, err)
	defer client.Close()

	env, err := client.Invoke("get_computers_find_computers_by_id", operations.Params{
		Path: map[string]string{"id": "100"},
	})
	require.NoError(t, err)

	assert.Equal(t, "/JSSResource/computers/id/100", gotPath)
	assert.Equal(t, "Basic YWRtaW46aHVudGVyMg==", gotAuth)
	assert.Equal(t, "application/json", gotAccept)

	assert.True(t, env.Success())
	assert.Equal(t, 200, env.HTTPCode())
	assert.Equal(t, "lab-mac", env.Get("computer.general.name").String())
}

func TestClassicClient_AcceptFormatXML(t *testing.T) {
	var gotAccept string
	server := newClassicServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotAccept = r.Header.Get("Accept")
		w.Write([]byte(`<computer><general><name>lab-mac</name></general></computer>`))
	})

	config := testConfig(server.URL)
	config.AcceptFormat = AcceptFormatXML
	client, err := NewClassicClient(config)
	require.NoError(t, err)
	defer client.Close()

	env, err := client.Invoke("get_computers_find_computers", operations.Params{})
	require.NoError(t, err)

	assert.Equal(t, "application/xml", gotAccept)
	assert.True(t, env.Success())
	assert.True(t, env.IsStructured())
}

func TestClassicClient_MissingPathParamSkipsNetwork(t *testing.T) {
	calls := 0
	server := newClassicServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
	})

	client, err := NewClassicClient(testConfig(server.URL))
	require.NoError(t, err)
	defer client.Close()

	_, err = client.Invoke("get_computers_find_computers_by_id", operations.Params{})
	var missing *MissingParameterError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "id", missing.Param)
	assert.Zero(t, calls, "a missing parameter must not produce a request")
}

func TestClassicClient_UnknownOperation(t *testing.T) {
	server := newClassicServer(t, nil)

	client, err := NewClassicClient(testConfig(server.URL))
	require.NoError(t, err)
	defer client.Close()

	_, err = client.Invoke("get_no_such_thing", operations.Params{})
	var unknown *UnknownOperationError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "get_no_such_thing", unknown.Name)
}

func TestClassicClient_PostRequiresBody(t *testing.T) {
	server := newClassicServer(t, nil)

	client, err := NewClassicClient(testConfig(server.URL))
	require.NoError(t, err)
	defer client.Close()

	_, err = client.Post("JSSResource/computers/id/0", nil, nil)
	var missing *MissingParameterError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "body", missing.Param)
}

func TestClassicClient_RawVerbMethods(t *testing.T) {
	var gotMethod, gotPath, gotBody string
	server := newClassicServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		raw, _ := io.ReadAll(r.Body)
		gotBody = string(raw)
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`<computer><id>101</id></computer>`))
	})

	client, err := NewClassicClient(testConfig(server.URL))
	require.NoError(t, err)
	defer client.Close()

	env, err := client.Post("JSSResource/computers/id/0", `<computer><name>new</name></computer>`, nil)
	require.NoError(t, err)

	assert.Equal(t, "POST", gotMethod)
	assert.Equal(t, "/JSSResource/computers/id/0", gotPath)
	assert.Equal(t, `<computer><name>new</name></computer>`, gotBody)
	assert.True(t, env.Success())
	assert.Equal(t, 201, env.HTTPCode())
}

func TestClassicClient_FailureEnvelope(t *testing.T) {
	server := newClassicServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message":"computer not found"}`))
	})

	client, err := NewClassicClient(testConfig(server.URL))
	require.NoError(t, err)
	defer client.Close()

	env, err := client.Invoke("get_computers_find_computers_by_id", operations.Params{
		Path: map[string]string{"id": "999"},
	})
	require.NoError(t, err)

	assert.False(t, env.Success())
	assert.Equal(t, 404, env.HTTPCode())
	assert.Contains(t, env.Err(), "computer not found")
}

func TestClassicClient_QueryParamsPassThrough(t *testing.T) {
	var gotQuery string
	server := newClassicServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`{}`))
	})

	client, err := NewClassicClient(testConfig(server.URL))
	require.NoError(t, err)
	defer client.Close()

	_, err = client.Invoke("get_computers_find_computers", operations.Params{
		Query: map[string]string{"match": "lab*"},
	})
	require.NoError(t, err)
	assert.Equal(t, "match=lab%2A", gotQuery)
}

func TestNewUniversalClient_LazyLogin(t *testing.T) {
	server := newUniversalServer(t, nil, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"totalCount":0,"results":[]}`))
	})

	client, err := NewUniversalClient(testConfig(server.URL))
	require.NoError(t, err)
	defer client.Close()

	assert.Zero(t, server.loginCount(), "construction must not log in")
	assert.False(t, client.Authenticated())
	assert.Contains(t, client.Operations(), "get_scripts_get_all_scripts_v1")

	_, err = client.Invoke("get_scripts_get_all_scripts_v1", operations.Params{})
	require.NoError(t, err)
	assert.Equal(t, 1, server.loginCount())
	assert.True(t, client.Authenticated())
}

func TestUniversalClient_LoginFailureSurfacesInEnvelope(t *testing.T) {
	server := newUniversalServer(t, func(int) int { return http.StatusUnauthorized }, nil)

	client, err := NewUniversalClient(testConfig(server.URL))
	require.NoError(t, err)
	defer client.Close()

	env, err := client.Invoke("get_scripts_get_all_scripts_v1", operations.Params{})
	require.NoError(t, err)

	assert.False(t, env.Success())
	assert.Zero(t, env.HTTPCode(), "the call itself never reached the server")
	assert.Contains(t, env.Err(), "authentication failed")
}

func TestUniversalClient_InvokeSendsBearerToken(t *testing.T) {
	var gotAuth, gotContentType string
	server := newUniversalServer(t, nil, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		w.Write([]byte(`{"totalCount":1,"results":[{"id":"1","name":"restart"}]}`))
	})

	client, err := NewUniversalClient(testConfig(server.URL))
	require.NoError(t, err)
	defer client.Close()

	env, err := client.Invoke("get_scripts_get_all_scripts_v1", operations.Params{})
	require.NoError(t, err)

	assert.Equal(t, "Bearer tok-1", gotAuth)
	assert.Equal(t, "application/json", gotContentType)
	assert.True(t, env.Success())
	assert.Equal(t, "restart", env.Get("results.0.name").String())
}

func TestUniversalClient_RenewsOnceOnRejectedToken(t *testing.T) {
	var scriptCalls []string
	server := newUniversalServer(t, nil, func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		scriptCalls = append(scriptCalls, auth)
		if auth == "Bearer tok-1" {
			// Token revoked server-side despite a valid local expiry.
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write([]byte(`{"totalCount":0,"results":[]}`))
	})

	client, err := NewUniversalClient(testConfig(server.URL))
	require.NoError(t, err)
	defer client.Close()

	env, err := client.Invoke("get_scripts_get_all_scripts_v1", operations.Params{})
	require.NoError(t, err)

	assert.True(t, env.Success())
	assert.Equal(t, []string{"Bearer tok-1", "Bearer tok-2"}, scriptCalls)
	assert.Equal(t, 2, server.loginCount())
}

func TestUniversalClient_RenewalFailureSurfacesInEnvelope(t *testing.T) {
	scriptCalls := 0
	server := newUniversalServer(t,
		func(n int) int {
			if n > 1 {
				return http.StatusUnauthorized
			}
			return http.StatusOK
		},
		func(w http.ResponseWriter, r *http.Request) {
			scriptCalls++
			w.WriteHeader(http.StatusUnauthorized)
		})

	client, err := NewUniversalClient(testConfig(server.URL))
	require.NoError(t, err)
	defer client.Close()

	env, err := client.Invoke("get_scripts_get_all_scripts_v1", operations.Params{})
	require.NoError(t, err)

	assert.False(t, env.Success())
	assert.Equal(t, 401, env.HTTPCode())
	assert.Contains(t, env.Err(), "authentication failed")
	assert.Equal(t, 1, scriptCalls, "a failed renewal must not retry the original call")
}

func TestUniversalClient_CloseInvalidatesToken(t *testing.T) {
	server := newUniversalServer(t, nil, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})

	client, err := NewUniversalClient(testConfig(server.URL))
	require.NoError(t, err)

	_, err = client.Invoke("get_scripts_get_all_scripts_v1", operations.Params{})
	require.NoError(t, err)

	require.NoError(t, client.Close())
	assert.Equal(t, 1, server.invalidationCount())
	assert.False(t, client.Authenticated())
}

func TestUniversalClient_CloseWithoutTokenSkipsInvalidation(t *testing.T) {
	server := newUniversalServer(t, nil, nil)

	client, err := NewUniversalClient(testConfig(server.URL))
	require.NoError(t, err)

	require.NoError(t, client.Close())
	assert.Zero(t, server.invalidationCount())
}

func TestWithUniversalClient_ClosesOnReturn(t *testing.T) {
	server := newUniversalServer(t, nil, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})

	err := WithUniversalClient(testConfig(server.URL), func(client *Client) error {
		_, err := client.Invoke("get_scripts_get_all_scripts_v1", operations.Params{})
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, 1, server.invalidationCount())
}

func TestUniversalClient_HideDeprecated(t *testing.T) {
	server := newUniversalServer(t, nil, nil)

	config := testConfig(server.URL)
	config.HideDeprecated = true
	client, err := NewUniversalClient(config)
	require.NoError(t, err)
	defer client.Close()

	names := client.Operations()
	assert.NotContains(t, names, "get_preview_get_preview_v1")
	assert.Contains(t, names, "get_scripts_get_script_by_id_v1")
}

func TestClient_Describe(t *testing.T) {
	server := newUniversalServer(t, nil, nil)

	client, err := NewUniversalClient(testConfig(server.URL))
	require.NoError(t, err)
	defer client.Close()

	desc, ok := client.Describe("get_scripts_get_all_scripts_v1")
	require.True(t, ok)
	assert.Contains(t, desc, "Lists scripts")
	assert.Contains(t, desc, "GET /v1/scripts")

	_, ok = client.Describe("get_nothing")
	assert.False(t, ok)
}

func TestClient_TimeoutAccessor(t *testing.T) {
	server := newClassicServer(t, nil)

	client, err := NewClassicClient(testConfig(server.URL))
	require.NoError(t, err)
	defer client.Close()

	assert.Equal(t, DefaultTimeout, client.Timeout())
	assert.Equal(t, 30*time.Second, client.Timeout(30*time.Second))
	assert.Equal(t, 30*time.Second, client.Timeout(), "setting persists")
	assert.Equal(t, 30*time.Second, client.Timeout(-time.Second), "negative values are ignored")
}

func TestClient_VerifySSLAccessor(t *testing.T) {
	server := newClassicServer(t, nil)

	client, err := NewClassicClient(testConfig(server.URL))
	require.NoError(t, err)
	defer client.Close()

	assert.True(t, client.VerifySSL())
	assert.False(t, client.VerifySSL(false))
	assert.False(t, client.VerifySSL())
	assert.True(t, client.VerifySSL(true))
}

func TestClient_RefreshSchema(t *testing.T) {
	server := newClassicServer(t, nil)

	client, err := NewClassicClient(testConfig(server.URL))
	require.NoError(t, err)
	defer client.Close()

	before := client.Operations()
	require.NoError(t, client.RefreshSchema(context.Background()))
	assert.Equal(t, before, client.Operations())
}

func TestClient_ConcurrentInvokeAndRefresh(t *testing.T) {
	server := newClassicServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})

	client, err := NewClassicClient(testConfig(server.URL))
	require.NoError(t, err)
	defer client.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 25; i++ {
			assert.NoError(t, client.RefreshSchema(context.Background()))
		}
	}()

	for i := 0; i < 25; i++ {
		env, err := client.Invoke("get_computers_find_computers", operations.Params{})
		require.NoError(t, err)
		require.True(t, env.Success())
		// The base path always comes from the same schema snapshot as the
		// endpoint, never a half-refreshed mix.
		require.Equal(t, server.URL+"/JSSResource/computers", env.URL())
	}
	<-done
}

func TestNewClassicClient_SchemaUnreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	server.Close()

	_, err := NewClassicClient(testConfig(server.URL))
	assert.Error(t, err)
}
