package txn

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/heraerp/heralint/internal/compat"
	"github.com/heraerp/heralint/internal/smartcode"
)

// GuardError is a violated transaction invariant. Code is a short
// machine-parseable identifier such as HEADER_MISSING_STATUS or
// LINE3_LINE_TYPE_INVALID:bogus.
type GuardError struct {
	Code    string
	Message string
}

// Error implements the error interface.
func (e *GuardError) Error() string {
	if e.Message == "" {
		return e.Code
	}
	return e.Code + ": " + e.Message
}

// Options control guard behavior.
type Options struct {
	// Compat applies legacy field aliasing before validation.
	Compat bool
}

var currencyPattern = regexp.MustCompile(`^[A-Z]{3}$`)

// newValidator builds the struct validator with the custom rules the
// transaction types reference. Field names in errors come from the
// yaml tag, so they match the wire field names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		tag := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if tag == "" || tag == "-" {
			return fld.Name
		}
		return tag
	})
	_ = v.RegisterValidation("currency", func(fl validator.FieldLevel) bool {
		return currencyPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("smartcode", func(fl validator.FieldLevel) bool {
		return smartcode.IsValid(fl.Field().String())
	})
	return v
}

// ValidateBundle validates a raw header/lines payload. When opts.Compat
// is set, legacy field names are aliased to canonical ones first; the
// input maps are never mutated either way. The first violated
// invariant is returned as a *GuardError and validation stops there.
func ValidateBundle(header map[string]any, lines []any, opts Options) (*Result, error) {
	var warnings []string

	if opts.Compat {
		var notes []string
		header, notes = compat.NormalizeHeader(header)
		warnings = append(warnings, notes...)
		lines, notes = compat.NormalizeLines(lines, "lines")
		warnings = append(warnings, notes...)
	}

	typedHeader, err := decodeHeader(header)
	if err != nil {
		return nil, err
	}

	v := newValidator()
	if err := checkHeader(v, typedHeader); err != nil {
		return nil, err
	}

	if typedHeader.TransactionNumber == "" && !hasIdempotencyKey(typedHeader.Metadata) {
		warnings = append(warnings, "IDEMPOTENCY_HINT: provide transaction_number or metadata.idempotency_key for safe retries")
	}

	if len(lines) == 0 {
		return nil, &GuardError{Code: "LINES_EMPTY", Message: "transaction requires at least one line"}
	}

	typedLines := make([]*Line, 0, len(lines))
	for i, raw := range lines {
		line, err := decodeLine(raw, i+1)
		if err != nil {
			return nil, err
		}
		if err := checkLine(v, line, i+1); err != nil {
			return nil, err
		}
		typedLines = append(typedLines, line)
	}

	var sum float64
	for _, line := range typedLines {
		sum += *line.LineAmount
	}
	if sum != *typedHeader.TotalAmount {
		return nil, &GuardError{
			Code: "HEADER_TOTAL_MISMATCH",
			Message: fmt.Sprintf("header.total_amount=%s vs sum(lines)=%s",
				formatAmount(*typedHeader.TotalAmount), formatAmount(sum)),
		}
	}

	if warnings == nil {
		warnings = []string{}
	}
	return &Result{OK: true, Header: typedHeader, Lines: typedLines, Warnings: warnings}, nil
}

// Numeric fields that JSON producers sometimes send as strings.
var headerNumericFields = []string{"total_amount", "exchange_rate", "base_total_amount"}
var lineNumericFields = []string{"line_number", "quantity", "unit_price", "line_amount",
	"discount_amount", "discount_percent", "tax_amount", "tax_rate"}

// coerceNumbers converts string values of the named fields to numbers
// when they parse as such, copying the map before the first change so
// the caller's input is never mutated. Unparseable strings are left
// alone and surface as decode errors downstream.
func coerceNumbers(obj map[string]any, fields []string) map[string]any {
	out := obj
	copied := false
	for _, field := range fields {
		s, ok := obj[field].(string)
		if !ok {
			continue
		}
		n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			continue
		}
		if !copied {
			out = make(map[string]any, len(obj))
			for k, v := range obj {
				out[k] = v
			}
			copied = true
		}
		out[field] = n
	}
	return out
}

// decodeHeader converts the raw header map into a typed header and
// applies the documented defaults.
func decodeHeader(header map[string]any) (*Header, error) {
	header = coerceNumbers(header, headerNumericFields)
	var typed Header
	if err := roundTrip(header, &typed); err != nil {
		return nil, &GuardError{Code: "HEADER_INVALID", Message: fmt.Sprintf("malformed header payload: %v", err)}
	}
	if typed.CurrencyCode == "" {
		typed.CurrencyCode = DefaultCurrency
	}
	if typed.Status == "" {
		typed.Status = DefaultStatus
	}
	return &typed, nil
}

// decodeLine converts one raw line into a typed line with defaults.
func decodeLine(raw any, position int) (*Line, error) {
	lineMap, ok := raw.(map[string]any)
	if !ok {
		return nil, &GuardError{
			Code:    fmt.Sprintf("LINE%d_INVALID", position),
			Message: fmt.Sprintf("line %d is not an object", position),
		}
	}
	lineMap = coerceNumbers(lineMap, lineNumericFields)
	var typed Line
	if err := roundTrip(lineMap, &typed); err != nil {
		return nil, &GuardError{
			Code:    fmt.Sprintf("LINE%d_INVALID", position),
			Message: fmt.Sprintf("malformed line %d payload: %v", position, err),
		}
	}
	if typed.LineType == "" {
		typed.LineType = DefaultLineType
	}
	return &typed, nil
}

// roundTrip decodes a generic map into a typed struct through YAML,
// coercing compatible scalar types along the way.
func roundTrip(src any, dst any) error {
	data, err := yaml.Marshal(src)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, dst)
}

// checkHeader maps struct validation failures to guard error codes in
// the documented order: all required-field checks first, then the
// status vocabulary, then the currency shape, then the smart code.
func checkHeader(v *validator.Validate, header *Header) error {
	err := v.Struct(header)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return &GuardError{Code: "HEADER_INVALID", Message: err.Error()}
	}

	for _, fe := range fieldErrs {
		if fe.Tag() == "required" {
			field := strings.ToUpper(fe.Field())
			return &GuardError{
				Code:    "HEADER_MISSING_" + field,
				Message: fmt.Sprintf("header field %s is required", fe.Field()),
			}
		}
	}
	for _, fe := range fieldErrs {
		if fe.Field() == "status" {
			return &GuardError{
				Code:    "STATUS_INVALID",
				Message: fmt.Sprintf("status '%v' is not one of: %s", fe.Value(), strings.Join(Statuses, ", ")),
			}
		}
	}
	for _, fe := range fieldErrs {
		if fe.Tag() == "currency" {
			return &GuardError{
				Code:    "CURRENCY_INVALID",
				Message: fmt.Sprintf("currency code '%v' must match [A-Z]{3}", fe.Value()),
			}
		}
	}
	fe := fieldErrs[0]
	if fe.Tag() == "smartcode" {
		return &GuardError{
			Code:    "HEADER_SMART_CODE_INVALID",
			Message: fmt.Sprintf("smart code '%v' is malformed", fe.Value()),
		}
	}
	return &GuardError{Code: "HEADER_INVALID", Message: fe.Error()}
}

// checkLine maps per-line validation failures to 1-indexed codes in
// the documented order: required fields first, then line_type.
func checkLine(v *validator.Validate, line *Line, position int) error {
	err := v.Struct(line)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return &GuardError{Code: fmt.Sprintf("LINE%d_INVALID", position), Message: err.Error()}
	}

	for _, fe := range fieldErrs {
		if fe.Tag() == "required" {
			field := strings.ToUpper(fe.Field())
			return &GuardError{
				Code:    fmt.Sprintf("LINE%d_MISSING_%s", position, field),
				Message: fmt.Sprintf("line %d field %s is required", position, fe.Field()),
			}
		}
	}
	for _, fe := range fieldErrs {
		if fe.Field() == "line_type" {
			return &GuardError{
				Code:    fmt.Sprintf("LINE%d_LINE_TYPE_INVALID:%v", position, fe.Value()),
				Message: fmt.Sprintf("line %d line_type must be one of: %s", position, strings.Join(LineTypes, ", ")),
			}
		}
	}
	fe := fieldErrs[0]
	switch fe.Tag() {
	case "min":
		return &GuardError{
			Code:    fmt.Sprintf("LINE%d_LINE_NUMBER_INVALID", position),
			Message: fmt.Sprintf("line %d line_number must be a non-negative integer", position),
		}
	case "smartcode":
		return &GuardError{
			Code:    fmt.Sprintf("LINE%d_SMART_CODE_INVALID", position),
			Message: fmt.Sprintf("line %d smart code '%v' is malformed", position, fe.Value()),
		}
	}
	return &GuardError{Code: fmt.Sprintf("LINE%d_INVALID", position), Message: fe.Error()}
}

// hasIdempotencyKey reports whether metadata carries a non-empty
// idempotency_key.
func hasIdempotencyKey(metadata map[string]any) bool {
	if metadata == nil {
		return false
	}
	key, ok := metadata["idempotency_key"]
	if !ok || key == nil {
		return false
	}
	if s, isString := key.(string); isString {
		return s != ""
	}
	return true
}

// formatAmount renders an amount without a forced exponent or
// trailing zeros, matching how callers wrote the value.
func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
