package contract

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// validateOrchestration validates the bundle root manifest. The graph
// field is accepted as advisory metadata only: edges are checked for
// shape, never evaluated for cycles or ordering.
func validateOrchestration(root *yaml.Node, result *Result) {
	codeNode := requireField(root, "smart_code", result)
	if codeNode != nil {
		requireKind(codeNode, "smart_code", yaml.ScalarNode, "string", result)
	}

	contractsNode := requireField(root, "contracts", result)
	if contractsNode != nil && requireKind(contractsNode, "contracts", yaml.SequenceNode, "array", result) {
		for i, entry := range contractsNode.Content {
			requireKind(entry, fmt.Sprintf("contracts[%d]", i), yaml.ScalarNode, "string", result)
		}
	}

	if graphNode := childNode(root, "graph"); graphNode != nil {
		validateGraph(graphNode, result)
	}

	if varsNode := childNode(root, "vars"); varsNode != nil {
		requireKind(varsNode, "vars", yaml.MappingNode, "object", result)
	}
}

// validateGraph checks that every edge is a 2-element tuple of names.
func validateGraph(node *yaml.Node, result *Result) {
	if !requireKind(node, "graph", yaml.SequenceNode, "array", result) {
		return
	}
	for i, edge := range node.Content {
		path := fmt.Sprintf("graph[%d]", i)
		if !requireKind(edge, path, yaml.SequenceNode, "array", result) {
			continue
		}
		if len(edge.Content) != 2 {
			result.Add(&Issue{
				Path:     path,
				Line:     nodeLine(edge),
				Message:  "graph edge must have exactly two elements",
				Expected: "[from, to]",
				Actual:   fmt.Sprintf("%d element(s)", len(edge.Content)),
			})
			continue
		}
		requireKind(edge.Content[0], path+"[0]", yaml.ScalarNode, "string", result)
		requireKind(edge.Content[1], path+"[1]", yaml.ScalarNode, "string", result)
	}
}
