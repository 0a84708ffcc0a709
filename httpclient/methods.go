// httpclient/methods.go
// Low-level verb methods for endpoints the schema does not document. They
// run through the same dispatch path as synthesized operations, so auth,
// headers and classification behave identically.
package httpclient

import (
	"strings"

	"github.com/thedzy/jamf-classes/operations"
	"github.com/thedzy/jamf-classes/response"
	"github.com/thedzy/jamf-classes/schema"
)

// Get issues a GET against resourcePath, relative to the family base path.
func (c *Client) Get(resourcePath string, query map[string]string) (*response.Envelope, error) {
	return c.dispatch(c.state.Load().basePath, rawEndpoint("GET", resourcePath), operations.Params{Query: query})
}

// Post issues a POST with the given body. A nil body is an error; use an
// empty string for deliberately bodyless calls.
func (c *Client) Post(resourcePath string, body any, query map[string]string) (*response.Envelope, error) {
	return c.dispatch(c.state.Load().basePath, rawEndpoint("POST", resourcePath), operations.Params{Query: query, Body: body})
}

// Put issues a PUT with the given body. A nil body is an error.
func (c *Client) Put(resourcePath string, body any, query map[string]string) (*response.Envelope, error) {
	return c.dispatch(c.state.Load().basePath, rawEndpoint("PUT", resourcePath), operations.Params{Query: query, Body: body})
}

// Delete issues a DELETE against resourcePath.
func (c *Client) Delete(resourcePath string, query map[string]string) (*response.Envelope, error) {
	return c.dispatch(c.state.Load().basePath, rawEndpoint("DELETE", resourcePath), operations.Params{Query: query})
}

// rawEndpoint wraps an undocumented resource path as an endpoint descriptor
// so dispatch can treat it like any synthesized operation. Placeholders in
// the path are not supported here; callers substitute values themselves.
func rawEndpoint(method, resourcePath string) schema.Endpoint {
	return schema.Endpoint{
		Method:       method,
		PathTemplate: "/" + strings.TrimLeft(resourcePath, "/"),
	}
}
