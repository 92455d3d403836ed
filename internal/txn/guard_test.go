package txn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validHeader() map[string]any {
	return map[string]any{
		"organization_id":  "org-1",
		"transaction_type": "sale",
		"transaction_date": "2026-01-02",
		"total_amount":     150.0,
		"currency_code":    "USD",
		"status":           "pending",
		"smart_code":       "HERA.SALES.ORDER.TXN.HDR.v1",
	}
}

func validLine(amount float64) map[string]any {
	return map[string]any{
		"organization_id": "org-1",
		"line_number":     1,
		"line_type":       "item",
		"quantity":        1.0,
		"unit_of_measure": "EA",
		"unit_price":      amount,
		"line_amount":     amount,
	}
}

func guardCode(t *testing.T, err error) string {
	t.Helper()
	require.Error(t, err)
	var ge *GuardError
	require.ErrorAs(t, err, &ge)
	return ge.Code
}

func TestValidateBundle_Success(t *testing.T) {
	t.Parallel()

	result, err := ValidateBundle(validHeader(), []any{validLine(150.0)}, Options{})

	require.NoError(t, err)
	assert.True(t, result.OK)
	assert.Equal(t, "sale", result.Header.TransactionType)
	assert.Equal(t, 150.0, *result.Lines[0].LineAmount)
	assert.Equal(t, "USD", result.Header.CurrencyCode)
}

func TestValidateBundle_RequiredHeaderFields(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		drop     string
		wantCode string
	}{
		"missing transaction_type": {drop: "transaction_type", wantCode: "HEADER_MISSING_TRANSACTION_TYPE"},
		"missing transaction_date": {drop: "transaction_date", wantCode: "HEADER_MISSING_TRANSACTION_DATE"},
		"missing total_amount":     {drop: "total_amount", wantCode: "HEADER_MISSING_TOTAL_AMOUNT"},
		"missing organization_id":  {drop: "organization_id", wantCode: "HEADER_MISSING_ORGANIZATION_ID"},
	}

	for name, tt := range tests {
		name, tt := name, tt
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			header := validHeader()
			delete(header, tt.drop)

			_, err := ValidateBundle(header, []any{validLine(150.0)}, Options{})
			assert.Equal(t, tt.wantCode, guardCode(t, err))
		})
	}
}

func TestValidateBundle_RequiredCheckPrecedesValueChecks(t *testing.T) {
	t.Parallel()

	// The missing required field must win over the simultaneously bad currency.
	header := validHeader()
	header["currency_code"] = "usd"
	delete(header, "transaction_type")

	_, err := ValidateBundle(header, []any{validLine(150.0)}, Options{})
	assert.Equal(t, "HEADER_MISSING_TRANSACTION_TYPE", guardCode(t, err))
}

func TestValidateBundle_StatusAndCurrency(t *testing.T) {
	t.Parallel()

	t.Run("invalid status", func(t *testing.T) {
		t.Parallel()
		header := validHeader()
		header["status"] = "bogus"

		_, err := ValidateBundle(header, []any{validLine(150.0)}, Options{})
		assert.Equal(t, "STATUS_INVALID", guardCode(t, err))
	})

	t.Run("status checked before currency", func(t *testing.T) {
		t.Parallel()
		header := validHeader()
		header["status"] = "bogus"
		header["currency_code"] = "usd"

		_, err := ValidateBundle(header, []any{validLine(150.0)}, Options{})
		assert.Equal(t, "STATUS_INVALID", guardCode(t, err))
	})

	t.Run("lowercase currency", func(t *testing.T) {
		t.Parallel()
		header := validHeader()
		header["currency_code"] = "usd"

		_, err := ValidateBundle(header, []any{validLine(150.0)}, Options{})
		assert.Equal(t, "CURRENCY_INVALID", guardCode(t, err))
	})

	t.Run("defaults applied when absent", func(t *testing.T) {
		t.Parallel()
		header := validHeader()
		delete(header, "currency_code")
		delete(header, "status")

		result, err := ValidateBundle(header, []any{validLine(150.0)}, Options{})
		require.NoError(t, err)
		assert.Equal(t, DefaultCurrency, result.Header.CurrencyCode)
		assert.Equal(t, DefaultStatus, result.Header.Status)
	})
}

func TestValidateBundle_IdempotencyHint(t *testing.T) {
	t.Parallel()

	hasHint := func(warnings []string) bool {
		for _, w := range warnings {
			if len(w) >= len("IDEMPOTENCY_HINT") && w[:len("IDEMPOTENCY_HINT")] == "IDEMPOTENCY_HINT" {
				return true
			}
		}
		return false
	}

	t.Run("neither number nor key warns", func(t *testing.T) {
		t.Parallel()
		result, err := ValidateBundle(validHeader(), []any{validLine(150.0)}, Options{})
		require.NoError(t, err)
		assert.True(t, hasHint(result.Warnings))
	})

	t.Run("transaction_number suppresses hint", func(t *testing.T) {
		t.Parallel()
		header := validHeader()
		header["transaction_number"] = "TXN-0001"
		result, err := ValidateBundle(header, []any{validLine(150.0)}, Options{})
		require.NoError(t, err)
		assert.False(t, hasHint(result.Warnings))
	})

	t.Run("idempotency_key suppresses hint", func(t *testing.T) {
		t.Parallel()
		header := validHeader()
		header["metadata"] = map[string]any{"idempotency_key": "abc"}
		result, err := ValidateBundle(header, []any{validLine(150.0)}, Options{})
		require.NoError(t, err)
		assert.False(t, hasHint(result.Warnings))
	})
}

func TestValidateBundle_Lines(t *testing.T) {
	t.Parallel()

	t.Run("empty lines", func(t *testing.T) {
		t.Parallel()
		_, err := ValidateBundle(validHeader(), nil, Options{})
		assert.Equal(t, "LINES_EMPTY", guardCode(t, err))
	})

	t.Run("missing line field is 1-indexed", func(t *testing.T) {
		t.Parallel()
		bad := validLine(150.0)
		delete(bad, "unit_of_measure")

		_, err := ValidateBundle(validHeader(), []any{bad}, Options{})
		assert.Equal(t, "LINE1_MISSING_UNIT_OF_MEASURE", guardCode(t, err))
	})

	t.Run("second line reported as LINE2", func(t *testing.T) {
		t.Parallel()
		header := validHeader()
		header["total_amount"] = 300.0
		bad := validLine(150.0)
		delete(bad, "quantity")

		_, err := ValidateBundle(header, []any{validLine(150.0), bad}, Options{})
		assert.Equal(t, "LINE2_MISSING_QUANTITY", guardCode(t, err))
	})

	t.Run("invalid line_type embeds the value", func(t *testing.T) {
		t.Parallel()
		bad := validLine(150.0)
		bad["line_type"] = "bogus"

		_, err := ValidateBundle(validHeader(), []any{bad}, Options{})
		assert.Equal(t, "LINE1_LINE_TYPE_INVALID:bogus", guardCode(t, err))
	})

	t.Run("line_type defaults to item", func(t *testing.T) {
		t.Parallel()
		line := validLine(150.0)
		delete(line, "line_type")

		result, err := ValidateBundle(validHeader(), []any{line}, Options{})
		require.NoError(t, err)
		assert.Equal(t, DefaultLineType, result.Lines[0].LineType)
	})

	t.Run("negative line_number rejected", func(t *testing.T) {
		t.Parallel()
		bad := validLine(150.0)
		bad["line_number"] = -1

		_, err := ValidateBundle(validHeader(), []any{bad}, Options{})
		assert.Equal(t, "LINE1_LINE_NUMBER_INVALID", guardCode(t, err))
	})
}

func TestValidateBundle_TotalMismatch(t *testing.T) {
	t.Parallel()

	t.Run("exact match succeeds", func(t *testing.T) {
		t.Parallel()
		_, err := ValidateBundle(validHeader(), []any{validLine(150.0)}, Options{})
		assert.NoError(t, err)
	})

	t.Run("off by one cent fails", func(t *testing.T) {
		t.Parallel()
		_, err := ValidateBundle(validHeader(), []any{validLine(149.99)}, Options{})

		code := guardCode(t, err)
		assert.Equal(t, "HEADER_TOTAL_MISMATCH", code)
		assert.Contains(t, err.Error(), "header.total_amount=150")
		assert.Contains(t, err.Error(), "sum(lines)=149.99")
	})

	t.Run("multiple lines summed", func(t *testing.T) {
		t.Parallel()
		header := validHeader()
		header["total_amount"] = 300.0

		_, err := ValidateBundle(header, []any{validLine(150.0), validLine(150.0)}, Options{})
		assert.NoError(t, err)
	})
}

func TestValidateBundle_Compat(t *testing.T) {
	t.Parallel()

	legacyHeader := map[string]any{
		"organization_id": "org-1",
		"transaction_type": "sale",
		"occurred_at":     "2026-01-02",
		"amount":          150.0,
		"status_code":     "posted",
		"currency_code":   "USD",
	}
	legacyLine := map[string]any{
		"organization_id": "org-1",
		"position":        1,
		"quantity":        1.0,
		"uom":             "EA",
		"unit_price":      150.0,
		"amount":          150.0,
		"line_type_id":    "item",
	}

	t.Run("compat mode accepts legacy fields", func(t *testing.T) {
		t.Parallel()
		result, err := ValidateBundle(legacyHeader, []any{legacyLine}, Options{Compat: true})

		require.NoError(t, err)
		assert.Equal(t, "2026-01-02", result.Header.TransactionDate)
		assert.Equal(t, "posted", result.Header.Status)
		assert.Equal(t, "EA", result.Lines[0].UnitOfMeasure)
		assert.NotEmpty(t, result.Warnings, "each rewrite surfaces as a warning")
	})

	t.Run("without compat legacy fields are missing", func(t *testing.T) {
		t.Parallel()
		_, err := ValidateBundle(legacyHeader, []any{legacyLine}, Options{})
		assert.Equal(t, "HEADER_MISSING_TRANSACTION_DATE", guardCode(t, err))
	})
}

func TestValidateBundle_StringAmounts(t *testing.T) {
	t.Parallel()

	// JSON producers sometimes quote numerics; those coerce before
	// validation instead of failing the decode.
	header := validHeader()
	header["total_amount"] = "150.00"
	line := validLine(150)
	line["line_amount"] = "150.00"
	line["unit_price"] = " 150.00 "
	line["line_number"] = "1"

	result, err := ValidateBundle(header, []any{line}, Options{})
	require.NoError(t, err)
	require.NotNil(t, result.Header.TotalAmount)
	assert.Equal(t, 150.0, *result.Header.TotalAmount)
	require.NotNil(t, result.Lines[0].LineNumber)
	assert.Equal(t, 1, *result.Lines[0].LineNumber)

	// Unparseable strings still fail the decode.
	bad := validHeader()
	bad["total_amount"] = "one fifty"
	_, err = ValidateBundle(bad, []any{validLine(150.0)}, Options{})
	assert.Equal(t, "HEADER_INVALID", guardCode(t, err))

	// The caller's maps are not mutated by coercion.
	assert.Equal(t, "150.00", header["total_amount"])
	assert.Equal(t, "150.00", line["line_amount"])
}

func TestGuardError_Error(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "LINES_EMPTY: transaction requires at least one line",
		(&GuardError{Code: "LINES_EMPTY", Message: "transaction requires at least one line"}).Error())
	assert.Equal(t, "LINES_EMPTY", (&GuardError{Code: "LINES_EMPTY"}).Error())
}
