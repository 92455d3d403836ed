// Package contract validates the five HERA universal contract kinds:
// orchestration manifests, entity catalogs, relationships, dynamic
// data, and procedures. Validators walk the parsed YAML node tree and
// accumulate structured issues with line information; they never
// panic or abort on malformed documents.
package contract

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Kind identifies one of the contract document kinds.
type Kind string

const (
	// KindOrchestration is the bundle root manifest.
	KindOrchestration Kind = "orchestration"
	// KindEntities is an entity catalog document.
	KindEntities Kind = "entities"
	// KindRelationships is a relationship rows document.
	KindRelationships Kind = "relationships"
	// KindDynamicData is a dynamic field rows document.
	KindDynamicData Kind = "dynamic_data"
	// KindProcedure is a procedure definition document.
	KindProcedure Kind = "procedure"
)

// EntityTypes is the closed enumeration for entity catalog item types.
var EntityTypes = []string{"ENTITY", "ENTITY_TYPE", "TRANSACTION_TYPE", "LINE_TYPE", "REL_TYPE"}

// ValueTypes is the closed enumeration for dynamic data value types.
var ValueTypes = []string{"text", "number", "boolean", "date", "json"}

// Issue is a single structural problem found in a contract document.
type Issue struct {
	Path     string // field location, e.g. "items[2].slug"
	Line     int    // 1-based line in the source document
	Column   int    // 1-based column in the source document
	Message  string
	Expected string
	Actual   string
	Hint     string
}

// Error implements the error interface.
func (i *Issue) Error() string {
	var sb strings.Builder
	if i.Line > 0 {
		sb.WriteString(fmt.Sprintf("line %d", i.Line))
		if i.Column > 0 {
			sb.WriteString(fmt.Sprintf(":%d", i.Column))
		}
		sb.WriteString(": ")
	}
	if i.Path != "" {
		sb.WriteString(i.Path)
		sb.WriteString(": ")
	}
	sb.WriteString(i.Message)
	return sb.String()
}

// Result is the outcome of validating one document against one kind.
type Result struct {
	Valid  bool
	Issues []*Issue
}

// Add records an issue and marks the result invalid.
func (r *Result) Add(issue *Issue) {
	r.Issues = append(r.Issues, issue)
	r.Valid = false
}

// Messages returns the flattened issue messages, for report embedding.
func (r *Result) Messages() []string {
	msgs := make([]string, 0, len(r.Issues))
	for _, i := range r.Issues {
		msgs = append(msgs, i.Error())
	}
	return msgs
}

// Validate validates raw document bytes against the schema for kind.
func Validate(kind Kind, data []byte) *Result {
	result := &Result{Valid: true}

	root, err := parseDocument(data)
	if err != nil {
		result.Add(&Issue{
			Message: fmt.Sprintf("failed to parse YAML: %v", err),
			Hint:    "Check the document syntax",
		})
		return result
	}

	mapping := rootMapping(root)
	if mapping == nil {
		result.Add(&Issue{
			Message: "expected a mapping at document root",
			Hint:    "Contract documents start with key-value pairs, not a list or scalar",
		})
		return result
	}

	switch kind {
	case KindOrchestration:
		validateOrchestration(mapping, result)
	case KindEntities:
		validateEntities(mapping, result)
	case KindRelationships:
		validateRelationships(mapping, result)
	case KindDynamicData:
		validateDynamicData(mapping, result)
	case KindProcedure:
		validateProcedure(mapping, result)
	default:
		result.Add(&Issue{Message: fmt.Sprintf("unknown contract kind: %s", kind)})
	}

	return result
}

// parseDocument parses YAML bytes and returns the root node. JSON is a
// subset of YAML, so JSON contract files parse through the same path.
func parseDocument(data []byte) (*yaml.Node, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, err
	}
	if node.Kind == 0 {
		return nil, fmt.Errorf("document is empty or contains only comments")
	}
	return &node, nil
}

// rootMapping unwraps the document node to the top-level mapping, or
// nil when the document root is not a mapping.
func rootMapping(root *yaml.Node) *yaml.Node {
	if root == nil {
		return nil
	}
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}
	if root.Kind != yaml.MappingNode {
		return nil
	}
	return root
}

// childNode finds the value node for key in a mapping node.
func childNode(mapping *yaml.Node, key string) *yaml.Node {
	if mapping == nil || mapping.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value == key {
			return mapping.Content[i+1]
		}
	}
	return nil
}

func nodeLine(node *yaml.Node) int {
	if node == nil {
		return 0
	}
	return node.Line
}

func nodeColumn(node *yaml.Node) int {
	if node == nil {
		return 0
	}
	return node.Column
}

// requireField checks that key exists in mapping, recording an issue
// when it does not. Returns the value node or nil.
func requireField(mapping *yaml.Node, key string, result *Result) *yaml.Node {
	node := childNode(mapping, key)
	if node == nil {
		result.Add(&Issue{
			Path:    key,
			Line:    nodeLine(mapping),
			Message: fmt.Sprintf("missing required field: %s", key),
			Hint:    fmt.Sprintf("Add the '%s' field to the document", key),
		})
		return nil
	}
	return node
}

// requireKind checks that node has the expected YAML node kind.
func requireKind(node *yaml.Node, path string, expected yaml.Kind, expectedName string, result *Result) bool {
	if node == nil {
		return false
	}
	if node.Kind != expected {
		result.Add(&Issue{
			Path:     path,
			Line:     nodeLine(node),
			Column:   nodeColumn(node),
			Message:  fmt.Sprintf("wrong type for field '%s'", path),
			Expected: expectedName,
			Actual:   kindName(node.Kind),
			Hint:     fmt.Sprintf("Change '%s' to be a %s", path, expectedName),
		})
		return false
	}
	return true
}

// requireEnum checks that a scalar node's value is one of allowed.
func requireEnum(node *yaml.Node, path string, allowed []string, result *Result) bool {
	if node == nil {
		return false
	}
	for _, v := range allowed {
		if node.Value == v {
			return true
		}
	}
	result.Add(&Issue{
		Path:     path,
		Line:     nodeLine(node),
		Column:   nodeColumn(node),
		Message:  fmt.Sprintf("invalid value for field '%s'", path),
		Expected: fmt.Sprintf("one of: %s", strings.Join(allowed, ", ")),
		Actual:   fmt.Sprintf("'%s'", node.Value),
		Hint:     fmt.Sprintf("Use one of the valid values: %s", strings.Join(allowed, ", ")),
	})
	return false
}

func kindName(kind yaml.Kind) string {
	switch kind {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "array"
	case yaml.MappingNode:
		return "object"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	default:
		return "unknown"
	}
}
