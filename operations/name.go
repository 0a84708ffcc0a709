// operations/name.go
/* The operations package derives stable names for schema endpoints and holds
the registry of synthesized callables. Name resolution is pure: the same
descriptor sequence always yields the same names. */
package operations

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/thedzy/jamf-classes/schema"
)

var (
	camelBoundary = regexp.MustCompile(`([a-z0-9])([A-Z])`)
	nonIdentifier = regexp.MustCompile(`[^a-z0-9]+`)
	versionPath   = regexp.MustCompile(`^v[0-9]+$`)
)

// ResolveNames derives one unique, language-safe identifier per endpoint.
// The candidate comes from the endpoint tag, qualified by the HTTP verb and,
// when the path carries an API-version segment, by a _vN suffix. Residual
// collisions get a numeric disambiguator in descriptor order; the first
// occurrence keeps the unsuffixed name.
func ResolveNames(endpoints []schema.Endpoint) []string {
	names := make([]string, len(endpoints))
	used := make(map[string]bool, len(endpoints))
	dupes := make(map[string]int)

	for i, e := range endpoints {
		base := qualifiedName(e)
		name := base
		for used[name] {
			dupes[base]++
			name = fmt.Sprintf("%s_%d", base, dupes[base]+1)
		}
		used[name] = true
		names[i] = name
	}

	return names
}

// qualifiedName builds verb_candidate[_vN] for one endpoint.
func qualifiedName(e schema.Endpoint) string {
	name := strings.ToLower(e.Method) + "_" + Sanitize(e.Tag)
	if v := versionSegment(e.PathTemplate); v != "" {
		name += "_" + v
	}
	return name
}

// Sanitize converts a descriptive label into a snake_case identifier:
// camelCase boundaries become underscores, everything is lower-cased,
// vendor-illegal characters become underscores and repeats collapse.
func Sanitize(label string) string {
	s := camelBoundary.ReplaceAllString(label, `${1}_${2}`)
	s = strings.ToLower(s)
	s = nonIdentifier.ReplaceAllString(s, "_")
	return strings.Trim(s, "_")
}

// versionSegment returns the first vN path segment, e.g. "v1" from
// /v1/scripts/{id}. Classic API paths carry none.
func versionSegment(pathTemplate string) string {
	for _, seg := range strings.Split(pathTemplate, "/") {
		if versionPath.MatchString(seg) {
			return seg
		}
	}
	return ""
}
