// status/status.go
// This package provides utility functions for classifying HTTP status codes
// returned by the Jamf APIs.
package status

import (
	"fmt"
	"net/http"
)

// IsSuccessStatusCode reports whether the status code is in the 2xx range.
// Envelope success is computed solely from this check.
func IsSuccessStatusCode(statusCode int) bool {
	return statusCode >= 200 && statusCode < 300
}

// IsAuthFailureStatusCode reports whether the status code signals an expired
// or invalid credential. The universal API responds 401 for both; the token
// renewal path keys off this.
func IsAuthFailureStatusCode(statusCode int) bool {
	return statusCode == http.StatusUnauthorized
}

// TranslateStatusCode provides a human-readable message for HTTP status codes.
func TranslateStatusCode(statusCode int) string {
	if statusCode == 0 {
		return "No status code received, possible network or connection error."
	}

	messages := map[int]string{
		http.StatusOK:                   "Request successful.",
		http.StatusCreated:              "Request to create or update resource successful.",
		http.StatusAccepted:             "The request was accepted for processing, but the processing has not completed.",
		http.StatusNoContent:            "Request successful. No content to send for this request.",
		http.StatusBadRequest:           "Bad request. Verify the syntax of the request.",
		http.StatusUnauthorized:         "Authentication failed. Verify the credentials being used for the request.",
		http.StatusForbidden:            "Invalid permissions. Verify the account has the proper permissions for the resource.",
		http.StatusNotFound:             "Resource not found. Verify the URL path is correct.",
		http.StatusMethodNotAllowed:     "Method not allowed. The method specified is not allowed for the resource.",
		http.StatusNotAcceptable:        "Not acceptable. The server cannot produce a response matching the list of acceptable values.",
		http.StatusRequestTimeout:       "Request timeout. The server timed out waiting for the request.",
		http.StatusConflict:             "Conflict. The request could not be processed because of conflict in the request.",
		http.StatusUnsupportedMediaType: "Unsupported media type. The request entity has a media type which the server or resource does not support.",
		http.StatusUnprocessableEntity:  "Unprocessable entity. The server understands the content type and syntax of the request but was unable to process the contained instructions.",
		http.StatusTooManyRequests:      "Too many requests. The user has sent too many requests in a given amount of time.",
		http.StatusInternalServerError:  "Internal server error. The server encountered an unexpected condition that prevented it from fulfilling the request.",
		http.StatusBadGateway:           "Bad gateway. The server received an invalid response from the upstream server while trying to fulfill the request.",
		http.StatusServiceUnavailable:   "Service unavailable. The server is currently unable to handle the request due to temporary overloading or maintenance.",
		http.StatusGatewayTimeout:       "Gateway timeout. The upstream server failed to send a request in the time allowed by the server.",
	}

	if message, ok := messages[statusCode]; ok {
		return message
	}
	return fmt.Sprintf("Unexpected status code: %d %s", statusCode, http.StatusText(statusCode))
}
