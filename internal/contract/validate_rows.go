package contract

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// validateRelationships validates a relationships document.
func validateRelationships(root *yaml.Node, result *Result) {
	codeNode := requireField(root, "smart_code", result)
	if codeNode != nil {
		requireKind(codeNode, "smart_code", yaml.ScalarNode, "string", result)
	}

	rowsNode := requireField(root, "rows", result)
	if rowsNode == nil || !requireKind(rowsNode, "rows", yaml.SequenceNode, "array", result) {
		return
	}

	for i, rowNode := range rowsNode.Content {
		path := fmt.Sprintf("rows[%d]", i)
		if !requireKind(rowNode, path, yaml.MappingNode, "object", result) {
			continue
		}
		for _, field := range []string{"from_slug", "to_slug", "relationship_type"} {
			if childNode(rowNode, field) == nil {
				result.Add(&Issue{
					Path:    fmt.Sprintf("%s.%s", path, field),
					Line:    nodeLine(rowNode),
					Message: fmt.Sprintf("missing required field: %s", field),
					Hint:    fmt.Sprintf("Add the '%s' field to this row", field),
				})
			}
		}
		if dataNode := childNode(rowNode, "relationship_data"); dataNode != nil {
			requireKind(dataNode, path+".relationship_data", yaml.MappingNode, "object", result)
		}
	}
}

// validateDynamicData validates a dynamic data document. The value
// field may hold any type; only its presence is required.
func validateDynamicData(root *yaml.Node, result *Result) {
	codeNode := requireField(root, "smart_code", result)
	if codeNode != nil {
		requireKind(codeNode, "smart_code", yaml.ScalarNode, "string", result)
	}

	rowsNode := requireField(root, "rows", result)
	if rowsNode == nil || !requireKind(rowsNode, "rows", yaml.SequenceNode, "array", result) {
		return
	}

	for i, rowNode := range rowsNode.Content {
		path := fmt.Sprintf("rows[%d]", i)
		if !requireKind(rowNode, path, yaml.MappingNode, "object", result) {
			continue
		}
		for _, field := range []string{"entity_slug", "key_slug", "value", "value_type"} {
			if childNode(rowNode, field) == nil {
				result.Add(&Issue{
					Path:    fmt.Sprintf("%s.%s", path, field),
					Line:    nodeLine(rowNode),
					Message: fmt.Sprintf("missing required field: %s", field),
					Hint:    fmt.Sprintf("Add the '%s' field to this row", field),
				})
			}
		}
		if typeNode := childNode(rowNode, "value_type"); typeNode != nil {
			requireEnum(typeNode, path+".value_type", ValueTypes, result)
		}
	}
}
