package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heraerp/heralint/internal/config"
)

func TestExitCode(t *testing.T) {
	t.Parallel()

	assert.Equal(t, ExitSuccess, ExitCode(nil))
	assert.Equal(t, ExitValidationFailed, ExitCode(NewExitError(ExitValidationFailed)))
	assert.Equal(t, ExitInvalidArguments, ExitCode(NewExitError(ExitInvalidArguments)))
	assert.Equal(t, ExitValidationFailed, ExitCode(assert.AnError), "unknown errors map to validation failure")
}

func TestPrintSchema(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	require.NoError(t, printSchema("entities", &out))

	text := out.String()
	assert.Contains(t, text, "Schema for entities contracts")
	assert.Contains(t, text, "smart_code: string (required)")
	assert.Contains(t, text, "entity_type: enum[ENTITY, ENTITY_TYPE, TRANSACTION_TYPE, LINE_TYPE, REL_TYPE] (required)")
}

func TestRunTxnValidate_Success(t *testing.T) {
	t.Parallel()

	bundle := filepath.Join(t.TempDir(), "order.yaml")
	require.NoError(t, os.WriteFile(bundle, []byte(`
header:
  transaction_type: sale
  transaction_date: "2025-03-01"
  total_amount: 10
  organization_id: org-1
  transaction_number: TXN-1
lines:
  - line_number: 1
    quantity: 1
    unit_of_measure: EA
    unit_price: 10
    line_amount: 10
    organization_id: org-1
`), 0644))

	var out, errOut bytes.Buffer
	err := runTxnValidate([]string{bundle}, false, nil, &out, &errOut)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "transaction bundle is valid")
	assert.Contains(t, out.String(), "currency: USD")
	assert.Contains(t, out.String(), "lines:    1")
}

func TestRunTxnValidate_GuardFailure(t *testing.T) {
	t.Parallel()

	bundle := filepath.Join(t.TempDir(), "order.yaml")
	require.NoError(t, os.WriteFile(bundle, []byte(`
header:
  transaction_date: "2025-03-01"
  total_amount: 10
  organization_id: org-1
lines: []
`), 0644))

	var out, errOut bytes.Buffer
	err := runTxnValidate([]string{bundle}, false, nil, &out, &errOut)
	require.Error(t, err)
	assert.Equal(t, ExitValidationFailed, ExitCode(err))
	assert.Contains(t, errOut.String(), "[TX_VALIDATE_ERROR] HEADER_MISSING_TRANSACTION_TYPE")
}

func TestRunTxnValidate_Stdin(t *testing.T) {
	t.Parallel()

	payload := `{"header": {"transaction_type": "sale", "transaction_date": "2025-03-01", "total_amount": 5, "organization_id": "org-1", "transaction_number": "TXN-2"}, "lines": [{"line_number": 1, "quantity": 1, "unit_of_measure": "EA", "unit_price": 5, "line_amount": 5, "organization_id": "org-1"}]}`

	var out, errOut bytes.Buffer
	err := runTxnValidate(nil, false, strings.NewReader(payload), &out, &errOut)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "transaction bundle is valid")
}

func TestRunTxnValidate_MissingFile(t *testing.T) {
	t.Parallel()

	var out, errOut bytes.Buffer
	err := runTxnValidate([]string{"/does/not/exist.yaml"}, false, nil, &out, &errOut)
	require.Error(t, err)
	assert.Equal(t, ExitInvalidArguments, ExitCode(err))
}

func TestRunLint_ExitAndOutput(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(
		filepath.Join(root, "universal_orchestration.yaml"),
		[]byte("smart_code: HERA.SYSTEM.PLAYBOOK.DEMO.v1\ncontracts: [entities.yaml]\n"), 0644))
	require.NoError(t, os.WriteFile(
		filepath.Join(root, "entities.yaml"),
		[]byte("smart_code: HERA.SYSTEM.ENTITY_CATALOG.DEMO.v1\nitems:\n  - slug: x\n    entity_type: ENTITY\n    name: X\n"), 0644))

	cfg := &config.Configuration{
		BundleDir:    root,
		VocabPath:    filepath.Join(root, "no-vocab.yml"),
		BackupExt:    ".bak",
		ShowProgress: false,
	}

	var out, errOut bytes.Buffer
	err := runLint(cfg, &out, &errOut)
	require.NoError(t, err)
	assert.Contains(t, out.String(), `"artifact_count": 1`)
	assert.Contains(t, errOut.String(), "bundle is valid")

	// A broken bundle flips the exit code but still prints the report.
	require.NoError(t, os.Remove(filepath.Join(root, "entities.yaml")))
	out.Reset()
	errOut.Reset()
	err = runLint(cfg, &out, &errOut)
	require.Error(t, err)
	assert.Equal(t, ExitValidationFailed, ExitCode(err))
	assert.Contains(t, out.String(), "FILE_MISSING")
}

func TestApplyLintFlags_WriteImpliesCompat(t *testing.T) {
	cfg := &config.Configuration{}
	cmd := lintCmd
	require.NoError(t, cmd.Flags().Set("compat-write", "true"))
	defer cmd.Flags().Set("compat-write", "false")

	applyLintFlags(cmd, cfg)
	assert.True(t, cfg.Compat)
	assert.True(t, cfg.CompatWrite)
}
