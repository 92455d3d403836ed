package contract

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// validateEntities validates an entity catalog document.
func validateEntities(root *yaml.Node, result *Result) {
	codeNode := requireField(root, "smart_code", result)
	if codeNode != nil {
		requireKind(codeNode, "smart_code", yaml.ScalarNode, "string", result)
	}

	itemsNode := requireField(root, "items", result)
	if itemsNode == nil || !requireKind(itemsNode, "items", yaml.SequenceNode, "array", result) {
		return
	}

	for i, itemNode := range itemsNode.Content {
		validateEntityItem(itemNode, fmt.Sprintf("items[%d]", i), result)
	}
}

func validateEntityItem(node *yaml.Node, path string, result *Result) {
	if !requireKind(node, path, yaml.MappingNode, "object", result) {
		return
	}

	for _, field := range []string{"slug", "entity_type", "name"} {
		if fieldNode := childNode(node, field); fieldNode == nil {
			result.Add(&Issue{
				Path:    fmt.Sprintf("%s.%s", path, field),
				Line:    nodeLine(node),
				Message: fmt.Sprintf("missing required field: %s", field),
				Hint:    fmt.Sprintf("Add the '%s' field to this item", field),
			})
		}
	}

	if typeNode := childNode(node, "entity_type"); typeNode != nil {
		requireEnum(typeNode, path+".entity_type", EntityTypes, result)
	}
	if metaNode := childNode(node, "metadata"); metaNode != nil {
		requireKind(metaNode, path+".metadata", yaml.MappingNode, "object", result)
	}
	if rulesNode := childNode(node, "business_rules"); rulesNode != nil {
		requireKind(rulesNode, path+".business_rules", yaml.MappingNode, "object", result)
	}
}
