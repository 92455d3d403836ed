// Package lint orchestrates a whole-bundle validation run: it walks an
// orchestration manifest, applies compat rewriting, schema validation,
// vocabulary enforcement, and cross-bundle uniqueness checks, and
// accumulates everything into a single report.
//
// The linter never fails fast on per-file problems. Only a missing or
// structurally invalid orchestration manifest ends a run early; one
// broken contract among many must not block reporting on the rest.
package lint

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// Finding IDs. Severity is fixed per ID: COMPAT_REWRITE and
// COMPAT_REWRITE_SCAN are info, UNKNOWN_CONTRACT and the COMPAT_WRITE
// pair are warnings, everything else is an error.
const (
	FindingFileMissing       = "FILE_MISSING"
	FindingSchemaInvalid     = "SCHEMA_INVALID"
	FindingSmartCodeInvalid  = "SMART_CODE_INVALID"
	FindingSmartCodeConflict = "SMART_CODE_CONFLICT"
	FindingUnknownContract   = "UNKNOWN_CONTRACT"
	FindingSlugConflict      = "SLUG_CONFLICT"
	FindingNonCanonicalTerm  = "NON_CANONICAL_TERM"
	FindingCompatRewrite     = "COMPAT_REWRITE"
	FindingCompatRewriteScan = "COMPAT_REWRITE_SCAN"
	FindingCompatRequired    = "COMPAT_REQUIRED"
	FindingCompatWrite       = "COMPAT_WRITE"
	FindingCompatWriteFailed = "COMPAT_WRITE_FAILED"
)

// Finding is one lint observation.
type Finding struct {
	ID      string `json:"id"`
	Message string `json:"message"`
	File    string `json:"file,omitempty"`
}

// Artifact records a successfully classified contract file.
type Artifact struct {
	File string `json:"file"`
	Type string `json:"type"`
}

// Summary aggregates counts for the report footer.
type Summary struct {
	ArtifactCount int `json:"artifact_count"`
	Errors        int `json:"errors"`
	Warnings      int `json:"warnings"`
}

// Meta identifies one lint run.
type Meta struct {
	RunID       string `json:"run_id"`
	GeneratedAt string `json:"generated_at"`
}

// Report is the aggregate outcome of one bundle lint run.
type Report struct {
	Errors     []Finding  `json:"errors"`
	Warnings   []Finding  `json:"warnings"`
	Info       []Finding  `json:"info"`
	Artifacts  []Artifact `json:"artifacts"`
	Summary    Summary    `json:"summary"`
	CompatMode bool       `json:"compat_mode"`
	Meta       Meta       `json:"_meta"`
}

// newReport builds an empty report with run metadata filled in.
func newReport(compatMode bool) *Report {
	return &Report{
		Errors:     []Finding{},
		Warnings:   []Finding{},
		Info:       []Finding{},
		Artifacts:  []Artifact{},
		CompatMode: compatMode,
		Meta: Meta{
			RunID:       uuid.NewString(),
			GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		},
	}
}

func (r *Report) addError(id, file, message string) {
	r.Errors = append(r.Errors, Finding{ID: id, File: file, Message: message})
}

func (r *Report) addWarning(id, file, message string) {
	r.Warnings = append(r.Warnings, Finding{ID: id, File: file, Message: message})
}

func (r *Report) addInfo(id, file, message string) {
	r.Info = append(r.Info, Finding{ID: id, File: file, Message: message})
}

// HasErrors reports whether the run produced any error finding.
// Warnings alone do not fail a lint.
func (r *Report) HasErrors() bool {
	return len(r.Errors) > 0
}

// finalize computes the summary counts.
func (r *Report) finalize() {
	r.Summary = Summary{
		ArtifactCount: len(r.Artifacts),
		Errors:        len(r.Errors),
		Warnings:      len(r.Warnings),
	}
}

// JSON renders the report with 2-space indentation.
func (r *Report) JSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// reportRelPath is where a lint run persists its report, relative to
// the bundle root.
const reportRelPath = ".hera/report.json"

// persist writes the report under the bundle root, creating the .hera
// directory when absent.
func (r *Report) persist(bundleRoot string) error {
	data, err := r.JSON()
	if err != nil {
		return fmt.Errorf("serializing report: %w", err)
	}
	path := filepath.Join(bundleRoot, filepath.FromSlash(reportRelPath))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating report directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}
