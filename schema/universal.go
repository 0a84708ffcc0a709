// schema/universal.go
package schema

import (
	"strings"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/thedzy/jamf-classes/logger"
)

// DefaultUniversalAuthPath is used when the schema's security section does
// not advertise a token endpoint.
const DefaultUniversalAuthPath = "/v1/auth/token"

// ParseUniversal parses a universal API OpenAPI 3 JSON document. The
// document must carry paths and a server URL; malformed path or verb entries
// are skipped with a warning. gjson iteration preserves document order,
// which feeds name-collision tie-breaking downstream.
func ParseUniversal(raw []byte, log logger.Logger) (*Document, error) {
	if log == nil {
		log = logger.NewNopLogger()
	}

	if !gjson.ValidBytes(raw) {
		return nil, &SchemaError{Reason: "universal document is not valid JSON"}
	}
	body := gjson.ParseBytes(raw)

	serverURL := body.Get("servers.0.url")
	if !serverURL.Exists() {
		return nil, &SchemaError{Reason: "universal document is missing servers"}
	}

	paths := body.Get("paths")
	if !paths.IsObject() {
		return nil, &SchemaError{Reason: "universal document is missing paths"}
	}

	doc := &Document{
		BasePath: strings.TrimRight(serverURL.String(), "/"),
		AuthPath: universalAuthPath(body.Get("security")),
	}

	paths.ForEach(func(path, pathItem gjson.Result) bool {
		if !pathItem.IsObject() {
			log.Warn("Skipping malformed path entry in universal schema", zap.String("path", path.String()))
			return true
		}

		pathItem.ForEach(func(verb, details gjson.Result) bool {
			method, ok := supportedVerbs[strings.ToLower(verb.String())]
			if !ok {
				return true
			}
			if !details.IsObject() {
				log.Warn("Skipping malformed operation entry in universal schema",
					zap.String("path", path.String()),
					zap.String("verb", verb.String()))
				return true
			}

			doc.Endpoints = append(doc.Endpoints, universalEndpoint(method, path.String(), details))
			return true
		})
		return true
	})

	return doc, nil
}

// universalAuthPath extracts the token endpoint from the document's security
// section: the first non-empty scope list of the first security scheme.
func universalAuthPath(security gjson.Result) string {
	authPath := DefaultUniversalAuthPath
	if !security.IsArray() {
		return authPath
	}

	found := false
	security.ForEach(func(_, scheme gjson.Result) bool {
		scheme.ForEach(func(_, scopes gjson.Result) bool {
			if scopes.IsArray() {
				arr := scopes.Array()
				if len(arr) > 0 && arr[0].String() != "" {
					authPath = arr[0].String()
					found = true
					return false
				}
			}
			return true
		})
		return !found
	})

	return authPath
}

// universalEndpoint converts one OpenAPI operation object into a descriptor.
func universalEndpoint(method, path string, details gjson.Result) Endpoint {
	var tags []string
	for _, t := range details.Get("tags").Array() {
		tags = append(tags, t.String())
	}

	e := Endpoint{
		Method:          method,
		PathTemplate:    path,
		Tag:             operationTag(tags, details.Get("operationId").String(), details.Get("summary").String(), method, path),
		Summary:         details.Get("summary").String(),
		Deprecated:      details.Get("deprecated").Bool(),
		DeprecationDate: details.Get("x-deprecation-date").String(),
	}

	for _, priv := range details.Get("x-required-privileges").Array() {
		e.RequiredPrivileges = append(e.RequiredPrivileges, priv.String())
	}

	details.Get("parameters").ForEach(func(_, p gjson.Result) bool {
		name := p.Get("name").String()
		if name == "" {
			return true
		}
		switch p.Get("in").String() {
		case "path":
			e.Params = append(e.Params, Param{Name: name, In: InPath, Required: true})
		case "query":
			e.Params = append(e.Params, Param{Name: name, In: InQuery, Required: p.Get("required").Bool()})
		}
		return true
	})

	addUndeclaredPathParams(&e)

	return e
}
