// response/error.go
// Derives a human-readable error message from a non-2xx response body. The
// Jamf APIs report failures as JSON ({httpStatus, errors} or {message}), as
// XML fault documents on the classic API, or as Tomcat HTML error pages.
package response

import (
	"fmt"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/tidwall/gjson"
	"golang.org/x/net/html"

	"github.com/thedzy/jamf-classes/status"
)

// DeriveErrorMessage extracts the most meaningful message available from an
// error response body, falling back to the status-derived description when
// the body carries nothing usable.
func DeriveErrorMessage(httpCode int, rawBody string) string {
	trimmed := strings.TrimSpace(rawBody)
	if trimmed == "" {
		return status.TranslateStatusCode(httpCode)
	}

	if gjson.Valid(trimmed) {
		if msg := jsonErrorMessage(trimmed); msg != "" {
			return msg
		}
		return status.TranslateStatusCode(httpCode)
	}

	if strings.HasPrefix(strings.ToLower(trimmed), "<!doctype html") || strings.Contains(strings.ToLower(trimmed), "<html") {
		if msg := htmlErrorMessage(trimmed); msg != "" {
			return msg
		}
		return status.TranslateStatusCode(httpCode)
	}

	if strings.HasPrefix(trimmed, "<") {
		if msg := xmlErrorMessage(trimmed); msg != "" {
			return msg
		}
		return status.TranslateStatusCode(httpCode)
	}

	return fmt.Sprintf("%s: %s", status.TranslateStatusCode(httpCode), trimmed)
}

// jsonErrorMessage pulls the message fields the universal API uses.
func jsonErrorMessage(body string) string {
	if msg := gjson.Get(body, "message"); msg.Exists() && msg.String() != "" {
		return msg.String()
	}

	errs := gjson.Get(body, "errors")
	if errs.IsArray() {
		var messages []string
		errs.ForEach(func(_, e gjson.Result) bool {
			desc := e.Get("description").String()
			if field := e.Get("field").String(); field != "" && desc != "" {
				messages = append(messages, fmt.Sprintf("%s: %s", field, desc))
			} else if desc != "" {
				messages = append(messages, desc)
			} else if code := e.Get("code").String(); code != "" {
				messages = append(messages, code)
			}
			return true
		})
		if len(messages) > 0 {
			return strings.Join(messages, "; ")
		}
	}

	return ""
}

// xmlErrorMessage accumulates the text nodes of a classic API fault document.
func xmlErrorMessage(body string) string {
	doc, err := xmlquery.Parse(strings.NewReader(body))
	if err != nil {
		return ""
	}

	var messages []string
	var traverse func(*xmlquery.Node)
	traverse = func(n *xmlquery.Node) {
		if n.Type == xmlquery.TextNode && strings.TrimSpace(n.Data) != "" {
			messages = append(messages, strings.TrimSpace(n.Data))
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			traverse(c)
		}
	}
	traverse(doc)

	return strings.Join(messages, "; ")
}

// htmlErrorMessage concatenates the text within <p> tags of an HTML error
// page, which is where Tomcat puts the fault description.
func htmlErrorMessage(body string) string {
	doc, err := html.Parse(strings.NewReader(body))
	if err != nil {
		return ""
	}

	var messages []string
	var parse func(*html.Node)
	parse = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "p" {
			var pContent strings.Builder
			var collect func(*html.Node)
			collect = func(c *html.Node) {
				if c.Type == html.TextNode {
					pContent.WriteString(strings.TrimSpace(c.Data) + " ")
				}
				for child := c.FirstChild; child != nil; child = child.NextSibling {
					collect(child)
				}
			}
			for child := n.FirstChild; child != nil; child = child.NextSibling {
				collect(child)
			}
			if text := strings.TrimSpace(pContent.String()); text != "" {
				messages = append(messages, text)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			parse(c)
		}
	}
	parse(doc)

	return strings.Join(messages, "; ")
}
