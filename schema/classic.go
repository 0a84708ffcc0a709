// schema/classic.go
package schema

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/thedzy/jamf-classes/logger"
)

// classicOperation mirrors one verb entry of a swagger 2.0 path item.
type classicOperation struct {
	OperationID string             `yaml:"operationId"`
	Summary     string             `yaml:"summary"`
	Tags        []string           `yaml:"tags"`
	Deprecated  bool               `yaml:"deprecated"`
	Parameters  []classicParameter `yaml:"parameters"`
}

type classicParameter struct {
	Name     string `yaml:"name"`
	In       string `yaml:"in"`
	Required bool   `yaml:"required"`
}

// ParseClassic parses a classic API swagger 2.0 YAML document. The document
// must carry basePath and paths; a path or verb entry that fails to decode is
// skipped with a warning rather than failing the parse.
func ParseClassic(raw []byte, log logger.Logger) (*Document, error) {
	if log == nil {
		log = logger.NewNopLogger()
	}

	var root yaml.Node
	if err := yaml.Unmarshal(raw, &root); err != nil {
		return nil, &SchemaError{Reason: "classic document is not valid YAML", Err: err}
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 || root.Content[0].Kind != yaml.MappingNode {
		return nil, &SchemaError{Reason: "classic document is not a mapping"}
	}
	top := root.Content[0]

	basePathNode := mappingValue(top, "basePath")
	if basePathNode == nil {
		return nil, &SchemaError{Reason: "classic document is missing basePath"}
	}
	pathsNode := mappingValue(top, "paths")
	if pathsNode == nil || pathsNode.Kind != yaml.MappingNode {
		return nil, &SchemaError{Reason: "classic document is missing paths"}
	}

	doc := &Document{
		BasePath: strings.TrimRight(basePathNode.Value, "/"),
	}

	// Mapping nodes alternate key/value and preserve document order.
	for i := 0; i+1 < len(pathsNode.Content); i += 2 {
		pathKey := pathsNode.Content[i]
		pathItem := pathsNode.Content[i+1]

		if pathItem.Kind != yaml.MappingNode {
			log.Warn("Skipping malformed path entry in classic schema", zap.String("path", pathKey.Value))
			continue
		}

		for j := 0; j+1 < len(pathItem.Content); j += 2 {
			verb := strings.ToLower(pathItem.Content[j].Value)
			method, ok := supportedVerbs[verb]
			if !ok {
				continue
			}

			var op classicOperation
			if err := pathItem.Content[j+1].Decode(&op); err != nil {
				log.Warn("Skipping malformed operation entry in classic schema",
					zap.String("path", pathKey.Value),
					zap.String("verb", verb),
					zap.Error(err))
				continue
			}

			doc.Endpoints = append(doc.Endpoints, classicEndpoint(method, pathKey.Value, op))
		}
	}

	return doc, nil
}

// classicEndpoint converts a decoded swagger operation into a descriptor.
func classicEndpoint(method, path string, op classicOperation) Endpoint {
	e := Endpoint{
		Method:       method,
		PathTemplate: path,
		Tag:          operationTag(op.Tags, op.OperationID, op.Summary, method, path),
		Summary:      op.Summary,
		Deprecated:   op.Deprecated,
	}

	for _, p := range op.Parameters {
		switch p.In {
		case "path":
			e.Params = append(e.Params, Param{Name: p.Name, In: InPath, Required: true})
		case "query":
			e.Params = append(e.Params, Param{Name: p.Name, In: InQuery, Required: p.Required})
		}
	}

	// Placeholders not declared in the parameter list are still required to
	// build the URL.
	addUndeclaredPathParams(&e)

	return e
}

// operationTag picks the label used for name derivation: tag-qualified
// operationId, then summary, then the method/path pair.
func operationTag(tags []string, operationID, summary, method, path string) string {
	prefix := ""
	if len(tags) > 0 && tags[0] != "" {
		prefix = tags[0] + " "
	}

	switch {
	case operationID != "":
		return prefix + operationID
	case summary != "":
		return prefix + summary
	default:
		return fmt.Sprintf("%s%s %s", prefix, method, path)
	}
}

// addUndeclaredPathParams appends path placeholders present in the template
// but absent from the declared parameter list.
func addUndeclaredPathParams(e *Endpoint) {
	declared := make(map[string]bool)
	for _, p := range e.Params {
		if p.In == InPath {
			declared[p.Name] = true
		}
	}

	for _, name := range TemplatePlaceholders(e.PathTemplate) {
		if !declared[name] {
			e.Params = append(e.Params, Param{Name: name, In: InPath, Required: true})
		}
	}
}

// TemplatePlaceholders returns the {name} placeholders of a path template in
// order of appearance.
func TemplatePlaceholders(template string) []string {
	var names []string
	rest := template
	for {
		open := strings.Index(rest, "{")
		if open < 0 {
			return names
		}
		closing := strings.Index(rest[open:], "}")
		if closing < 0 {
			return names
		}
		names = append(names, rest[open+1:open+closing])
		rest = rest[open+closing+1:]
	}
}

// mappingValue returns the value node for a key of a YAML mapping node.
func mappingValue(mapping *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value == key {
			return mapping.Content[i+1]
		}
	}
	return nil
}
