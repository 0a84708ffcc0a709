// httpclient/request.go
// The dispatch path every synthesized operation and low-level verb method
// funnels through: build the URL, marshal the body, attach the credential,
// send, classify. All post-send failures surface through the envelope.
package httpclient

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/thedzy/jamf-classes/operations"
	"github.com/thedzy/jamf-classes/response"
	"github.com/thedzy/jamf-classes/schema"
	"github.com/thedzy/jamf-classes/status"
	"github.com/thedzy/jamf-classes/transport"
	"github.com/thedzy/jamf-classes/version"
)

// dispatch executes one endpoint call. The operation registry binds it at
// synthesis with the base path of the document it was synthesized from.
func (c *Client) dispatch(basePath string, endpoint schema.Endpoint, params operations.Params) (*response.Envelope, error) {
	if endpoint.Deprecated {
		date := endpoint.DeprecationDate
		if date == "" {
			date = "unknown date"
		}
		c.log.Warn("Invoking deprecated endpoint",
			zap.String("method", endpoint.Method),
			zap.String("path", endpoint.PathTemplate),
			zap.String("deprecated_since", date))
	}

	fullURL, err := c.buildURL(basePath, endpoint, params)
	if err != nil {
		return nil, err
	}

	body, err := c.marshalBody(endpoint, params)
	if err != nil {
		if missing, ok := err.(*MissingParameterError); ok {
			return nil, missing
		}
		return response.NewRequestError(err), nil
	}

	timeout, verify := c.currentSettings()
	if !verify && !transport.WarningsDisabled() {
		c.log.Warn("TLS certificate verification is disabled", zap.String("url", fullURL))
	}

	headers := c.requestHeaders()
	ctx := context.Background()

	var observedToken string
	if c.tokens != nil {
		token, err := c.tokens.EnsureToken(ctx, timeout, verify)
		if err != nil {
			return response.NewWithError(fullURL, 0, "", err.Error()), nil
		}
		observedToken = token
		headers["Authorization"] = "Bearer " + token
	} else {
		headers["Authorization"] = c.basic.AuthorizationHeader()
	}

	requestID := uuid.NewString()
	c.log.Debug("Dispatching request",
		zap.String("request_id", requestID),
		zap.String("method", endpoint.Method),
		zap.String("url", fullURL))

	resp, err := c.sender.Send(ctx, transport.Request{
		Method:    endpoint.Method,
		URL:       fullURL,
		Headers:   headers,
		Body:      body,
		Timeout:   timeout,
		VerifyTLS: verify,
	})
	if err != nil {
		c.log.Error("Request failed in transit",
			zap.String("request_id", requestID),
			zap.String("url", fullURL),
			zap.Error(err))
		return response.NewTransportError(fullURL, err), nil
	}

	// One renewal per call: a rejected bearer token triggers a single
	// renew-and-retry. A second rejection is returned as-is.
	if c.tokens != nil && status.IsAuthFailureStatusCode(resp.StatusCode) {
		renewed, renewErr := c.tokens.RenewAfterFailure(ctx, timeout, verify, observedToken)
		if renewErr != nil {
			return response.NewWithError(fullURL, resp.StatusCode, resp.Body, renewErr.Error()), nil
		}
		headers["Authorization"] = "Bearer " + renewed

		resp, err = c.sender.Send(ctx, transport.Request{
			Method:    endpoint.Method,
			URL:       fullURL,
			Headers:   headers,
			Body:      body,
			Timeout:   timeout,
			VerifyTLS: verify,
		})
		if err != nil {
			return response.NewTransportError(fullURL, err), nil
		}
	}

	c.log.Debug("Request completed",
		zap.String("request_id", requestID),
		zap.Int("status", resp.StatusCode))

	return response.NewFromResponse(fullURL, resp.StatusCode, resp.Body, resp.Headers.Get("Content-Type")), nil
}

// buildURL substitutes path parameters into the endpoint template, checks
// required query parameters and appends the query string. Declared optional
// query parameters and undeclared extras pass through untouched.
func (c *Client) buildURL(basePath string, endpoint schema.Endpoint, params operations.Params) (string, error) {
	path := endpoint.PathTemplate
	for _, name := range schema.TemplatePlaceholders(endpoint.PathTemplate) {
		value, ok := params.Path[name]
		if !ok || value == "" {
			return "", &MissingParameterError{Param: name}
		}
		path = strings.Replace(path, "{"+name+"}", url.PathEscape(value), 1)
	}

	for _, p := range endpoint.Params {
		if p.In == schema.InQuery && p.Required {
			if _, ok := params.Query[p.Name]; !ok {
				return "", &MissingParameterError{Param: p.Name}
			}
		}
	}

	full := c.apiURL + basePath + path
	if len(params.Query) > 0 {
		values := url.Values{}
		for key, value := range params.Query {
			values.Set(key, value)
		}
		full += "?" + values.Encode()
	}
	return full, nil
}

// marshalBody renders the request payload. Strings and byte slices pass
// through as-is; other values are marshaled in the family's wire format.
// POST and PUT require a body, even an empty one.
func (c *Client) marshalBody(endpoint schema.Endpoint, params operations.Params) ([]byte, error) {
	switch endpoint.Method {
	case "POST", "PUT":
		if params.Body == nil {
			return nil, &MissingParameterError{Param: "body"}
		}
	default:
		if params.Body == nil {
			return nil, nil
		}
	}

	switch body := params.Body.(type) {
	case []byte:
		return body, nil
	case string:
		return []byte(body), nil
	}

	if c.family == FamilyClassic {
		marshaled, err := xml.Marshal(params.Body)
		if err != nil {
			return nil, fmt.Errorf("marshaling request body as XML: %w", err)
		}
		return marshaled, nil
	}

	marshaled, err := json.Marshal(params.Body)
	if err != nil {
		return nil, fmt.Errorf("marshaling request body as JSON: %w", err)
	}
	return marshaled, nil
}

// requestHeaders returns the base headers for the client's family. The
// Authorization header is attached by dispatch.
func (c *Client) requestHeaders() map[string]string {
	headers := map[string]string{
		"User-Agent": version.GetUserAgentHeader(),
	}
	if c.family == FamilyClassic {
		headers["Accept"] = "application/" + c.acceptFormat
		headers["Content-Type"] = "application/xml"
	} else {
		headers["Accept"] = "application/json"
		headers["Content-Type"] = "application/json"
	}
	return headers
}
