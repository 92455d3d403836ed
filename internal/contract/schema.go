package contract

import (
	"fmt"
	"strings"

	"github.com/heraerp/heralint/internal/smartcode"
)

// FieldType represents the expected type of a schema field.
type FieldType string

const (
	FieldTypeString FieldType = "string"
	FieldTypeNumber FieldType = "number"
	FieldTypeAny    FieldType = "any"
	FieldTypeArray  FieldType = "array"
	FieldTypeObject FieldType = "object"
)

// SchemaField describes one field of a contract schema.
type SchemaField struct {
	Name        string
	Type        FieldType
	Required    bool
	Pattern     string        // regex for string fields, informational
	Enum        []string      // closed value set for enum fields
	Description string
	Children    []SchemaField // nested fields for object/array types
}

// Schema is the documented shape of one contract kind.
type Schema struct {
	Kind        Kind
	Description string
	Fields      []SchemaField
}

var smartCodeField = SchemaField{
	Name:        "smart_code",
	Type:        FieldTypeString,
	Required:    true,
	Pattern:     smartcode.Pattern,
	Description: "Versioned Smart Code identifying this document",
}

// OrchestrationSchema documents the bundle root manifest.
var OrchestrationSchema = Schema{
	Kind:        KindOrchestration,
	Description: "Bundle root manifest listing contract files in evaluation order",
	Fields: []SchemaField{
		smartCodeField,
		{Name: "contracts", Type: FieldTypeArray, Required: true, Description: "Relative paths to child contract files, in lint order"},
		{Name: "graph", Type: FieldTypeArray, Required: false, Description: "Advisory directed edges between contract files as [from, to] tuples"},
		{Name: "vars", Type: FieldTypeObject, Required: false, Description: "Free-form key/value map (defaults to empty)"},
	},
}

// EntitiesSchema documents the entity catalog kind.
var EntitiesSchema = Schema{
	Kind:        KindEntities,
	Description: "Entity catalog listing typed catalog items keyed by slug",
	Fields: []SchemaField{
		smartCodeField,
		{
			Name:        "items",
			Type:        FieldTypeArray,
			Required:    true,
			Description: "Entity records; (entity_type, slug) must be unique within the document",
			Children: []SchemaField{
				{Name: "slug", Type: FieldTypeString, Required: true, Description: "Unique identifier within the catalog"},
				{Name: "entity_type", Type: FieldTypeString, Required: true, Enum: EntityTypes, Description: "Catalog item type"},
				{Name: "name", Type: FieldTypeString, Required: true, Description: "Display name"},
				{Name: "metadata", Type: FieldTypeObject, Required: false, Description: "Free-form metadata (defaults to empty)"},
				{Name: "business_rules", Type: FieldTypeObject, Required: false, Description: "Free-form rules map (defaults to empty)"},
			},
		},
	},
}

// RelationshipsSchema documents the relationships kind.
var RelationshipsSchema = Schema{
	Kind:        KindRelationships,
	Description: "Directed relationships between catalog entities",
	Fields: []SchemaField{
		smartCodeField,
		{
			Name:        "rows",
			Type:        FieldTypeArray,
			Required:    true,
			Description: "Relationship records",
			Children: []SchemaField{
				{Name: "from_slug", Type: FieldTypeString, Required: true, Description: "Source entity slug"},
				{Name: "to_slug", Type: FieldTypeString, Required: true, Description: "Target entity slug"},
				{Name: "relationship_type", Type: FieldTypeString, Required: true, Description: "REL_TYPE slug naming the relationship"},
				{Name: "relationship_data", Type: FieldTypeObject, Required: false, Description: "Free-form payload (defaults to empty)"},
			},
		},
	},
}

// DynamicDataSchema documents the dynamic data kind.
var DynamicDataSchema = Schema{
	Kind:        KindDynamicData,
	Description: "Dynamic field values attached to catalog entities",
	Fields: []SchemaField{
		smartCodeField,
		{
			Name:        "rows",
			Type:        FieldTypeArray,
			Required:    true,
			Description: "Field records",
			Children: []SchemaField{
				{Name: "entity_slug", Type: FieldTypeString, Required: true, Description: "Owning entity slug"},
				{Name: "key_slug", Type: FieldTypeString, Required: true, Description: "Field key"},
				{Name: "value", Type: FieldTypeAny, Required: true, Description: "Field value of any type"},
				{Name: "value_type", Type: FieldTypeString, Required: true, Enum: ValueTypes, Description: "Declared value type"},
				{Name: "validation_code", Type: FieldTypeString, Required: false, Description: "Optional validation rule reference"},
			},
		},
	},
}

// ProcedureSchema documents the procedure kind.
var ProcedureSchema = Schema{
	Kind:        KindProcedure,
	Description: "Procedure definition with preconditions, inputs, outputs, and checks",
	Fields: []SchemaField{
		smartCodeField,
		{Name: "preconditions", Type: FieldTypeArray, Required: false, Description: "Free-text condition strings; KIND::term tokens are vocabulary-checked"},
		{
			Name: "inputs", Type: FieldTypeObject, Required: false,
			Description: "Input declaration (defaults to {required: []})",
			Children: []SchemaField{
				{Name: "required", Type: FieldTypeArray, Required: false, Description: "Required input names"},
				{Name: "optional", Type: FieldTypeArray, Required: false, Description: "Optional input names"},
			},
		},
		{
			Name: "outputs", Type: FieldTypeObject, Required: false,
			Description: "Artifacts the procedure produces",
			Children: []SchemaField{
				{Name: "entities_created", Type: FieldTypeArray, Required: false, Description: "Entity slugs created"},
				{Name: "transactions_emitted", Type: FieldTypeArray, Required: false, Description: "Transaction types emitted"},
			},
		},
		{
			Name: "happy_path", Type: FieldTypeArray, Required: false,
			Description: "Ordered steps (defaults to empty)",
			Children: []SchemaField{
				{Name: "step", Type: FieldTypeString, Required: true, Description: "Step description"},
			},
		},
		{
			Name: "errors", Type: FieldTypeArray, Required: false,
			Description: "Declared error conditions (defaults to empty)",
			Children: []SchemaField{
				{Name: "code", Type: FieldTypeString, Required: true, Description: "Error code"},
				{Name: "when", Type: FieldTypeString, Required: true, Description: "Condition under which the error fires"},
			},
		},
		{
			Name: "checks", Type: FieldTypeArray, Required: false,
			Description: "Post-condition checks (defaults to empty)",
			Children: []SchemaField{
				{Name: "description", Type: FieldTypeString, Required: true, Description: "Check description"},
			},
		},
	},
}

// GetSchema returns the documented schema for the given contract kind.
func GetSchema(kind Kind) (*Schema, error) {
	switch kind {
	case KindOrchestration:
		return &OrchestrationSchema, nil
	case KindEntities:
		return &EntitiesSchema, nil
	case KindRelationships:
		return &RelationshipsSchema, nil
	case KindDynamicData:
		return &DynamicDataSchema, nil
	case KindProcedure:
		return &ProcedureSchema, nil
	default:
		return nil, fmt.Errorf("unknown contract kind: %s (valid kinds: %s)", kind, strings.Join(KindNames(), ", "))
	}
}

// KindNames returns the valid kind names for help text.
func KindNames() []string {
	names := make([]string, 0, len(Kinds()))
	for _, k := range Kinds() {
		names = append(names, string(k))
	}
	return names
}
