package contract

import "gopkg.in/yaml.v3"

// Orchestration is the bundle root manifest.
type Orchestration struct {
	SmartCode string         `yaml:"smart_code"`
	Contracts []string       `yaml:"contracts"`
	Graph     [][]string     `yaml:"graph,omitempty"`
	Vars      map[string]any `yaml:"vars,omitempty"`
}

// EntityItem is one record of an entity catalog.
type EntityItem struct {
	Slug          string         `yaml:"slug"`
	EntityType    string         `yaml:"entity_type"`
	Name          string         `yaml:"name"`
	Metadata      map[string]any `yaml:"metadata,omitempty"`
	BusinessRules map[string]any `yaml:"business_rules,omitempty"`
}

// EntityCatalog is an entities document.
type EntityCatalog struct {
	SmartCode string       `yaml:"smart_code"`
	Items     []EntityItem `yaml:"items"`
}

// RelationshipRow is one record of a relationships document.
type RelationshipRow struct {
	FromSlug         string         `yaml:"from_slug"`
	ToSlug           string         `yaml:"to_slug"`
	RelationshipType string         `yaml:"relationship_type"`
	RelationshipData map[string]any `yaml:"relationship_data,omitempty"`
}

// Relationships is a relationships document.
type Relationships struct {
	SmartCode string            `yaml:"smart_code"`
	Rows      []RelationshipRow `yaml:"rows"`
}

// DynamicRow is one field record of a dynamic data document.
type DynamicRow struct {
	EntitySlug     string `yaml:"entity_slug"`
	KeySlug        string `yaml:"key_slug"`
	Value          any    `yaml:"value"`
	ValueType      string `yaml:"value_type"`
	ValidationCode string `yaml:"validation_code,omitempty"`
}

// DynamicData is a dynamic data document.
type DynamicData struct {
	SmartCode string       `yaml:"smart_code"`
	Rows      []DynamicRow `yaml:"rows"`
}

// ProcedureInputs groups required and optional procedure inputs.
type ProcedureInputs struct {
	Required []string `yaml:"required"`
	Optional []string `yaml:"optional,omitempty"`
}

// ProcedureOutputs lists the artifacts a procedure produces.
type ProcedureOutputs struct {
	EntitiesCreated     []string `yaml:"entities_created,omitempty"`
	TransactionsEmitted []string `yaml:"transactions_emitted,omitempty"`
}

// ProcedureStep is one happy-path step.
type ProcedureStep struct {
	Step string `yaml:"step"`
}

// ProcedureError is one declared error condition.
type ProcedureError struct {
	Code string `yaml:"code"`
	When string `yaml:"when"`
}

// ProcedureCheck is one post-condition check.
type ProcedureCheck struct {
	Description string `yaml:"description"`
}

// Procedure is a procedure document.
type Procedure struct {
	SmartCode     string           `yaml:"smart_code"`
	Preconditions []string         `yaml:"preconditions,omitempty"`
	Inputs        ProcedureInputs  `yaml:"inputs,omitempty"`
	Outputs       ProcedureOutputs `yaml:"outputs,omitempty"`
	HappyPath     []ProcedureStep  `yaml:"happy_path,omitempty"`
	Errors        []ProcedureError `yaml:"errors,omitempty"`
	Checks        []ProcedureCheck `yaml:"checks,omitempty"`
}

// DecodeOrchestration decodes manifest bytes, applying documented
// defaults (empty vars map) for absent fields.
func DecodeOrchestration(data []byte) (*Orchestration, error) {
	var doc Orchestration
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Vars == nil {
		doc.Vars = map[string]any{}
	}
	return &doc, nil
}

// DecodeEntityCatalog decodes an entities document, defaulting each
// item's metadata and business_rules to empty maps.
func DecodeEntityCatalog(data []byte) (*EntityCatalog, error) {
	var doc EntityCatalog
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	for i := range doc.Items {
		if doc.Items[i].Metadata == nil {
			doc.Items[i].Metadata = map[string]any{}
		}
		if doc.Items[i].BusinessRules == nil {
			doc.Items[i].BusinessRules = map[string]any{}
		}
	}
	return &doc, nil
}

// DecodeRelationships decodes a relationships document, defaulting
// relationship_data to an empty map per row.
func DecodeRelationships(data []byte) (*Relationships, error) {
	var doc Relationships
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	for i := range doc.Rows {
		if doc.Rows[i].RelationshipData == nil {
			doc.Rows[i].RelationshipData = map[string]any{}
		}
	}
	return &doc, nil
}

// DecodeProcedure decodes a procedure document, applying the
// documented list defaults.
func DecodeProcedure(data []byte) (*Procedure, error) {
	var doc Procedure
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Preconditions == nil {
		doc.Preconditions = []string{}
	}
	if doc.Inputs.Required == nil {
		doc.Inputs.Required = []string{}
	}
	if doc.HappyPath == nil {
		doc.HappyPath = []ProcedureStep{}
	}
	if doc.Errors == nil {
		doc.Errors = []ProcedureError{}
	}
	if doc.Checks == nil {
		doc.Checks = []ProcedureCheck{}
	}
	return &doc, nil
}
