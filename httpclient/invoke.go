// httpclient/invoke.go
// The dynamic surface over the synthesized operation set.
package httpclient

import (
	"github.com/thedzy/jamf-classes/operations"
	"github.com/thedzy/jamf-classes/response"
)

// Invoke calls a synthesized operation by name. A name absent from the
// current registry yields UnknownOperationError; a call missing a required
// parameter yields MissingParameterError without touching the network. All
// other failures arrive through the envelope.
func (c *Client) Invoke(name string, params operations.Params) (*response.Envelope, error) {
	op, ok := c.state.Load().registry.Lookup(name)
	if !ok {
		return nil, &UnknownOperationError{Name: name}
	}
	return op.Call(params)
}

// Operations returns the synthesized operation names in schema document
// order.
func (c *Client) Operations() []string {
	return c.state.Load().registry.Names()
}

// Describe renders a short usage description of a synthesized operation:
// summary, method, path template, parameters and required privileges.
func (c *Client) Describe(name string) (string, bool) {
	return c.state.Load().registry.Describe(name)
}
