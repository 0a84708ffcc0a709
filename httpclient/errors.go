// httpclient/errors.go
package httpclient

import "fmt"

// MissingParameterError reports a call that omitted a required path or query
// parameter, or a POST/PUT call without a body. It is detected before any
// network I/O, so it is returned as an error rather than through the
// response envelope.
type MissingParameterError struct {
	Param string
}

func (e *MissingParameterError) Error() string {
	return fmt.Sprintf("missing required parameter: %s", e.Param)
}

// UnknownOperationError reports an Invoke call for a name the current
// registry does not hold.
type UnknownOperationError struct {
	Name string
}

func (e *UnknownOperationError) Error() string {
	return fmt.Sprintf("unknown operation: %s", e.Name)
}
