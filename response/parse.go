// response/parse.go
package response

import (
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/tidwall/gjson"
)

// Parse derives a generic structured value from a raw body, trying JSON
// first and XML second. It never fails loudly: an unparseable body yields
// (nil, false). JSON objects and arrays decode to map[string]any / []any;
// an XML document decodes to a one-level mapping of the root element's
// children, matching the classic API's flat resource envelopes.
func Parse(rawBody string) (any, bool) {
	trimmed := strings.TrimSpace(rawBody)
	if trimmed == "" {
		return nil, false
	}

	if gjson.Valid(trimmed) {
		return gjson.Parse(trimmed).Value(), true
	}

	return parseXML(trimmed)
}

// ParseWithContentType derives a structured value like Parse, but lets the
// response's Content-Type header pick the attempt order: an XML media type
// tries XML first, anything else behaves like Parse. The declared type is a
// hint, not a contract; a body that contradicts it still gets the other
// parse attempt.
func ParseWithContentType(rawBody, contentTypeHeader string) (any, bool) {
	trimmed := strings.TrimSpace(rawBody)
	if trimmed == "" {
		return nil, false
	}

	mimeType, _ := ParseContentTypeHeader(contentTypeHeader)
	if strings.Contains(mimeType, "xml") {
		if parsed, ok := parseXML(trimmed); ok {
			return parsed, true
		}
		if gjson.Valid(trimmed) {
			return gjson.Parse(trimmed).Value(), true
		}
		return nil, false
	}

	return Parse(trimmed)
}

// parseXML maps an XML document to {root: {child: text}}.
func parseXML(rawBody string) (any, bool) {
	doc, err := xmlquery.Parse(strings.NewReader(rawBody))
	if err != nil {
		return nil, false
	}

	var root *xmlquery.Node
	for n := doc.FirstChild; n != nil; n = n.NextSibling {
		if n.Type == xmlquery.ElementNode {
			root = n
			break
		}
	}
	if root == nil {
		return nil, false
	}

	children := make(map[string]any)
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != xmlquery.ElementNode {
			continue
		}
		children[c.Data] = c.InnerText()
	}

	return map[string]any{root.Data: children}, true
}

// ParseContentTypeHeader parses a Content-Type header and returns the MIME
// type and any parameters (like charset).
func ParseContentTypeHeader(header string) (string, map[string]string) {
	parts := strings.SplitN(header, ";", 2)
	mainValue := strings.TrimSpace(parts[0])

	params := make(map[string]string)
	if len(parts) > 1 {
		for _, part := range strings.Split(parts[1], ";") {
			kv := strings.SplitN(part, "=", 2)
			if len(kv) == 2 {
				params[strings.TrimSpace(kv[0])] = strings.Trim(strings.TrimSpace(kv[1]), "\"")
			}
		}
	}

	return mainValue, params
}
