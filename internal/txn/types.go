// Package txn validates a single transaction bundle (header plus
// lines) against the hard business invariants: required fields, closed
// status and line-type vocabularies, currency shape, and the rule that
// the header total must exactly equal the sum of line amounts.
//
// Unlike the bundle linter, which accumulates findings across a whole
// bundle, this guard fails fast: the first violated invariant wins and
// validation stops there.
package txn

// Statuses is the closed set of transaction header statuses.
var Statuses = []string{"draft", "pending", "approved", "posted", "void", "failed"}

// LineTypes is the closed set of transaction line types.
var LineTypes = []string{"item", "service", "discount", "tax", "fee", "shipping", "adjustment"}

// DefaultCurrency is applied when the header carries no currency_code.
const DefaultCurrency = "USD"

// DefaultStatus is applied when the header carries no status.
const DefaultStatus = "pending"

// DefaultLineType is applied when a line carries no line_type.
const DefaultLineType = "item"

// Header is a transaction header. Numeric fields are pointers so that
// an absent field is distinguishable from a legitimate zero value.
// Field order mirrors the documented required-field check order.
type Header struct {
	TransactionType   string         `yaml:"transaction_type" json:"transaction_type" validate:"required"`
	TransactionDate   string         `yaml:"transaction_date" json:"transaction_date" validate:"required"`
	CurrencyCode      string         `yaml:"currency_code" json:"currency_code" validate:"required,currency"`
	TotalAmount       *float64       `yaml:"total_amount" json:"total_amount" validate:"required"`
	Status            string         `yaml:"status" json:"status" validate:"required,oneof=draft pending approved posted void failed"`
	OrganizationID    string         `yaml:"organization_id" json:"organization_id" validate:"required"`
	TransactionNumber string         `yaml:"transaction_number,omitempty" json:"transaction_number,omitempty"`
	SmartCode         string         `yaml:"smart_code,omitempty" json:"smart_code,omitempty" validate:"omitempty,smartcode"`
	Description       string         `yaml:"description,omitempty" json:"description,omitempty"`
	ExchangeRate      *float64       `yaml:"exchange_rate,omitempty" json:"exchange_rate,omitempty"`
	BaseCurrencyCode  string         `yaml:"base_currency_code,omitempty" json:"base_currency_code,omitempty" validate:"omitempty,currency"`
	BaseTotalAmount   *float64       `yaml:"base_total_amount,omitempty" json:"base_total_amount,omitempty"`
	ReferenceNumber   string         `yaml:"reference_number,omitempty" json:"reference_number,omitempty"`
	ReferenceEntityID string         `yaml:"reference_entity_id,omitempty" json:"reference_entity_id,omitempty"`
	Category          string         `yaml:"category,omitempty" json:"category,omitempty"`
	Subcategory       string         `yaml:"subcategory,omitempty" json:"subcategory,omitempty"`
	Metadata          map[string]any `yaml:"metadata,omitempty" json:"metadata,omitempty"`
	CustomFields      map[string]any `yaml:"custom_fields,omitempty" json:"custom_fields,omitempty"`
}

// Line is a single transaction line. Field order mirrors the
// documented per-line required-field check order.
type Line struct {
	LineNumber      *int     `yaml:"line_number" json:"line_number" validate:"required,min=0"`
	LineType        string   `yaml:"line_type" json:"line_type" validate:"required,oneof=item service discount tax fee shipping adjustment"`
	Quantity        *float64 `yaml:"quantity" json:"quantity" validate:"required"`
	UnitOfMeasure   string   `yaml:"unit_of_measure" json:"unit_of_measure" validate:"required"`
	UnitPrice       *float64 `yaml:"unit_price" json:"unit_price" validate:"required"`
	LineAmount      *float64 `yaml:"line_amount" json:"line_amount" validate:"required"`
	OrganizationID  string   `yaml:"organization_id" json:"organization_id" validate:"required"`
	TransactionID   string   `yaml:"transaction_id,omitempty" json:"transaction_id,omitempty"`
	LineEntityID    string   `yaml:"line_entity_id,omitempty" json:"line_entity_id,omitempty"`
	DiscountAmount  *float64 `yaml:"discount_amount,omitempty" json:"discount_amount,omitempty"`
	DiscountPercent *float64 `yaml:"discount_percent,omitempty" json:"discount_percent,omitempty"`
	TaxAmount       *float64 `yaml:"tax_amount,omitempty" json:"tax_amount,omitempty"`
	TaxRate         *float64 `yaml:"tax_rate,omitempty" json:"tax_rate,omitempty"`
	SmartCode       string   `yaml:"smart_code,omitempty" json:"smart_code,omitempty" validate:"omitempty,smartcode"`
	Description     string   `yaml:"description,omitempty" json:"description,omitempty"`
}

// Bundle pairs a raw header with its raw lines, as decoded from a
// caller payload before normalization.
type Bundle struct {
	Header map[string]any `yaml:"header" json:"header"`
	Lines  []any          `yaml:"lines" json:"lines"`
}

// Result is a successfully validated, normalized bundle.
type Result struct {
	OK       bool     `json:"ok"`
	Header   *Header  `json:"header"`
	Lines    []*Line  `json:"lines"`
	Warnings []string `json:"warnings"`
}
