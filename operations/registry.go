// operations/registry.go
package operations

import (
	"fmt"
	"strings"

	"github.com/thedzy/jamf-classes/response"
	"github.com/thedzy/jamf-classes/schema"
)

// Params carries the caller-supplied arguments of one operation call: values
// for the path placeholders, an open bag of query parameters that passes
// through unvalidated, and the body payload for POST/PUT operations.
type Params struct {
	Path  map[string]string
	Query map[string]string
	Body  any
}

// DispatchFunc executes one endpoint call. The registry never performs I/O
// itself; the client supplies its dispatcher at synthesis time.
type DispatchFunc func(endpoint schema.Endpoint, params Params) (*response.Envelope, error)

// Operation is one synthesized callable, bound to the client that built it.
type Operation struct {
	Name     string
	Endpoint schema.Endpoint
	dispatch DispatchFunc
}

// Call forwards to the owning client's dispatcher.
func (op *Operation) Call(params Params) (*response.Envelope, error) {
	return op.dispatch(op.Endpoint, params)
}

// Registry is an immutable set of synthesized operations. Re-synthesis
// builds a fresh Registry which the client swaps in wholesale, so callers
// never observe a half-updated set.
type Registry struct {
	names []string
	ops   map[string]*Operation
}

// Options control synthesis.
type Options struct {
	// HideDeprecated excludes deprecated endpoints from the registry.
	// Names are resolved over the full descriptor list first, so hiding
	// deprecated endpoints never renames the rest.
	HideDeprecated bool
}

// Synthesize builds the operation registry for a descriptor sequence. It is
// a pure construction step: no I/O, deterministic for a given sequence.
func Synthesize(endpoints []schema.Endpoint, dispatch DispatchFunc, opts Options) *Registry {
	resolved := ResolveNames(endpoints)

	r := &Registry{
		ops: make(map[string]*Operation, len(endpoints)),
	}

	for i, e := range endpoints {
		if opts.HideDeprecated && e.Deprecated {
			continue
		}
		op := &Operation{
			Name:     resolved[i],
			Endpoint: e,
			dispatch: dispatch,
		}
		r.names = append(r.names, op.Name)
		r.ops[op.Name] = op
	}

	return r
}

// Lookup returns the operation registered under name.
func (r *Registry) Lookup(name string) (*Operation, bool) {
	op, ok := r.ops[name]
	return op, ok
}

// Names returns the operation names in synthesis order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.names))
	copy(names, r.names)
	return names
}

// Len returns the number of synthesized operations.
func (r *Registry) Len() int {
	return len(r.names)
}

// Describe renders a short usage description of an operation: summary,
// method and path template, declared parameters and required privileges.
func (r *Registry) Describe(name string) (string, bool) {
	op, ok := r.ops[name]
	if !ok {
		return "", false
	}

	e := op.Endpoint
	var b strings.Builder

	if e.Summary != "" {
		fmt.Fprintf(&b, "%s\n", e.Summary)
	}
	fmt.Fprintf(&b, "%s %s\n", e.Method, e.PathTemplate)

	for _, p := range e.Params {
		required := ""
		if p.Required {
			required = " (required)"
		}
		fmt.Fprintf(&b, "  param %s, in %s%s\n", p.Name, p.In, required)
	}

	if len(e.RequiredPrivileges) > 0 {
		fmt.Fprintf(&b, "requires privileges: %s\n", strings.Join(e.RequiredPrivileges, ", "))
	}
	if e.Deprecated {
		date := e.DeprecationDate
		if date == "" {
			date = "unknown date"
		}
		fmt.Fprintf(&b, "deprecated as of %s\n", date)
	}

	return b.String(), true
}
