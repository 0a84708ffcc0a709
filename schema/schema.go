// schema/schema.go
/* The schema package turns the swagger documents published by a Jamf server
into an ordered sequence of endpoint descriptors. The classic API publishes a
swagger 2.0 YAML document at /classicapi/doc/swagger.yaml; the universal API
publishes an OpenAPI 3 JSON document at /api/schema/. Document order of paths
and verbs is preserved because operation-name disambiguation depends on it. */
package schema

import "fmt"

// ParamLocation is where a declared parameter is carried on the request.
type ParamLocation string

const (
	InPath  ParamLocation = "path"
	InQuery ParamLocation = "query"
)

// Param is one declared parameter of an endpoint.
type Param struct {
	Name     string
	In       ParamLocation
	Required bool
}

// Endpoint describes one documented operation. PathTemplate keeps the
// document's placeholder syntax, e.g. /JSSResource/computers/id/{id}.
// PathTemplate plus Method uniquely identify the endpoint within one API
// family.
type Endpoint struct {
	Method       string
	PathTemplate string
	Params       []Param

	// Tag is the short descriptive label used for operation-name
	// derivation, taken from operationId, then summary, then the
	// method/path pair.
	Tag     string
	Summary string

	Deprecated         bool
	DeprecationDate    string
	RequiredPrivileges []string
}

// PathParams returns the names of the declared path parameters in template
// order.
func (e Endpoint) PathParams() []string {
	var names []string
	for _, p := range e.Params {
		if p.In == InPath {
			names = append(names, p.Name)
		}
	}
	return names
}

// Document is a parsed schema: the resource base path the server expects
// requests under, the token endpoint advertised by the document (universal
// API only), and the endpoint descriptors in document order.
type Document struct {
	BasePath  string
	AuthPath  string
	Endpoints []Endpoint
}

// SchemaError reports a structurally malformed or unreachable schema
// document. It is fatal at client construction; individually malformed
// endpoint entries are skipped instead so partial schemas still yield a
// usable client.
type SchemaError struct {
	Reason string
	Err    error
}

func (e *SchemaError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("schema: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("schema: %s", e.Reason)
}

func (e *SchemaError) Unwrap() error {
	return e.Err
}

// supportedVerbs are the operation verbs synthesized into callables. Other
// verbs present in a document are ignored.
var supportedVerbs = map[string]string{
	"get":    "GET",
	"post":   "POST",
	"put":    "PUT",
	"delete": "DELETE",
}
