package contract

// Classify inspects the shape of a decoded document and reports which
// contract kind it appears to be. Kinds are attempted in a fixed
// priority order so that a document matching several shapes always
// classifies the same way. A document matching no shape returns
// ok=false; callers treat that as "could not classify", not a failure.
func Classify(doc map[string]any) (Kind, bool) {
	if doc == nil {
		return "", false
	}

	if _, has := doc["contracts"]; has {
		return KindOrchestration, true
	}
	if _, has := doc["items"]; has {
		return KindEntities, true
	}

	if rows, ok := doc["rows"].([]any); ok && len(rows) > 0 {
		if first, ok := rows[0].(map[string]any); ok {
			if _, has := first["relationship_type"]; has {
				return KindRelationships, true
			}
			if _, has := first["key_slug"]; has {
				return KindDynamicData, true
			}
		}
	}

	for _, key := range []string{"happy_path", "inputs", "outputs"} {
		if _, has := doc[key]; has {
			return KindProcedure, true
		}
	}

	return "", false
}

// Kinds returns all contract kinds in classification priority order.
func Kinds() []Kind {
	return []Kind{KindOrchestration, KindEntities, KindRelationships, KindDynamicData, KindProcedure}
}

// ParseKind parses a user-supplied kind name.
func ParseKind(s string) (Kind, bool) {
	switch Kind(s) {
	case KindOrchestration, KindEntities, KindRelationships, KindDynamicData, KindProcedure:
		return Kind(s), true
	default:
		return "", false
	}
}
