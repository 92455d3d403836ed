package contract

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// validateProcedure validates a procedure document. Only smart_code is
// required; the remaining sections default to empty but must have the
// right shape when present.
func validateProcedure(root *yaml.Node, result *Result) {
	codeNode := requireField(root, "smart_code", result)
	if codeNode != nil {
		requireKind(codeNode, "smart_code", yaml.ScalarNode, "string", result)
	}

	if node := childNode(root, "preconditions"); node != nil {
		if requireKind(node, "preconditions", yaml.SequenceNode, "array", result) {
			for i, cond := range node.Content {
				requireKind(cond, fmt.Sprintf("preconditions[%d]", i), yaml.ScalarNode, "string", result)
			}
		}
	}

	if node := childNode(root, "inputs"); node != nil {
		if requireKind(node, "inputs", yaml.MappingNode, "object", result) {
			if req := childNode(node, "required"); req != nil {
				requireKind(req, "inputs.required", yaml.SequenceNode, "array", result)
			}
			if opt := childNode(node, "optional"); opt != nil {
				requireKind(opt, "inputs.optional", yaml.SequenceNode, "array", result)
			}
		}
	}

	if node := childNode(root, "outputs"); node != nil {
		if requireKind(node, "outputs", yaml.MappingNode, "object", result) {
			if created := childNode(node, "entities_created"); created != nil {
				requireKind(created, "outputs.entities_created", yaml.SequenceNode, "array", result)
			}
			if emitted := childNode(node, "transactions_emitted"); emitted != nil {
				requireKind(emitted, "outputs.transactions_emitted", yaml.SequenceNode, "array", result)
			}
		}
	}

	validateStepList(root, "happy_path", "step", result)
	validateStepList(root, "checks", "description", result)

	if node := childNode(root, "errors"); node != nil {
		if !requireKind(node, "errors", yaml.SequenceNode, "array", result) {
			return
		}
		for i, errNode := range node.Content {
			path := fmt.Sprintf("errors[%d]", i)
			if !requireKind(errNode, path, yaml.MappingNode, "object", result) {
				continue
			}
			for _, field := range []string{"code", "when"} {
				if childNode(errNode, field) == nil {
					result.Add(&Issue{
						Path:    fmt.Sprintf("%s.%s", path, field),
						Line:    nodeLine(errNode),
						Message: fmt.Sprintf("missing required field: %s", field),
					})
				}
			}
		}
	}
}

// validateStepList checks a sequence of single-key step objects, such
// as happy_path entries ({step}) and checks entries ({description}).
func validateStepList(root *yaml.Node, listName, fieldName string, result *Result) {
	node := childNode(root, listName)
	if node == nil {
		return
	}
	if !requireKind(node, listName, yaml.SequenceNode, "array", result) {
		return
	}
	for i, stepNode := range node.Content {
		path := fmt.Sprintf("%s[%d]", listName, i)
		if !requireKind(stepNode, path, yaml.MappingNode, "object", result) {
			continue
		}
		if childNode(stepNode, fieldName) == nil {
			result.Add(&Issue{
				Path:    fmt.Sprintf("%s.%s", path, fieldName),
				Line:    nodeLine(stepNode),
				Message: fmt.Sprintf("missing required field: %s", fieldName),
			})
		}
	}
}
