package lint

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/heraerp/heralint/internal/compat"
	"github.com/heraerp/heralint/internal/contract"
	"github.com/heraerp/heralint/internal/smartcode"
	"github.com/heraerp/heralint/internal/vocabulary"
)

// OrchestrationFile is the bundle manifest name, resolved relative to
// the bundle root.
const OrchestrationFile = "universal_orchestration.yaml"

// Options configures one lint run.
type Options struct {
	BundleDir    string // bundle root directory
	VocabPath    string // vocabulary file; empty means vocabulary.DefaultPath
	Compat       bool   // apply legacy field normalization
	CompatWrite  bool   // persist normalized documents back to disk
	StrictCompat bool   // treat needed-but-unwritten rewrites as errors
	BackupExt    string // backup suffix for compat writes; empty means compat.DefaultBackupExt
}

// Linter runs bundle lints. It is cheap to construct and carries only
// the alias map loaded for the run.
type Linter struct {
	opts    Options
	aliases vocabulary.AliasMap
}

// New builds a Linter, loading the vocabulary alias map once.
func New(opts Options) *Linter {
	if opts.VocabPath == "" {
		opts.VocabPath = vocabulary.DefaultPath
	}
	if opts.BackupExt == "" {
		opts.BackupExt = compat.DefaultBackupExt
	}
	return &Linter{
		opts:    opts,
		aliases: vocabulary.LoadAliases(opts.VocabPath),
	}
}

// Run executes one full bundle lint, persists the report to
// <bundle>/.hera/report.json, and returns it. The report is returned
// even when the run aborts early on a broken manifest; the error is
// non-nil only when the report itself cannot be persisted.
func (l *Linter) Run() (*Report, error) {
	report := newReport(l.opts.Compat)

	orchPath := filepath.Join(l.opts.BundleDir, OrchestrationFile)
	data, err := os.ReadFile(orchPath)
	if err != nil {
		report.addError(FindingFileMissing, OrchestrationFile, fmt.Sprintf("cannot read orchestration manifest: %v", err))
		return l.finish(report)
	}

	// Only a true parse failure is FILE_MISSING. A manifest that is
	// valid YAML but not a mapping falls through to schema validation,
	// which reports the non-mapping root as SCHEMA_INVALID.
	var orchDoc any
	if err := yaml.Unmarshal(data, &orchDoc); err != nil {
		report.addError(FindingFileMissing, OrchestrationFile, fmt.Sprintf("cannot parse orchestration manifest: %v", err))
		return l.finish(report)
	}

	if result := contract.Validate(contract.KindOrchestration, data); !result.Valid {
		for _, msg := range result.Messages() {
			report.addError(FindingSchemaInvalid, OrchestrationFile, msg)
		}
		return l.finish(report)
	}

	orch, err := contract.DecodeOrchestration(data)
	if err != nil {
		report.addError(FindingSchemaInvalid, OrchestrationFile, fmt.Sprintf("cannot decode orchestration manifest: %v", err))
		return l.finish(report)
	}

	if !smartcode.IsValid(orch.SmartCode) {
		report.addError(FindingSmartCodeInvalid, OrchestrationFile, fmt.Sprintf("invalid smart code %q", orch.SmartCode))
	}

	// Uniqueness is bundle-wide and includes the manifest itself, so a
	// child reusing the orchestration's code conflicts.
	seen := map[string]string{orch.SmartCode: OrchestrationFile}

	for _, contractPath := range orch.Contracts {
		l.lintContract(report, contractPath, seen)
	}

	return l.finish(report)
}

// lintContract runs the per-file pipeline for a single contract path.
// Every failure here is non-terminal for the bundle.
func (l *Linter) lintContract(report *Report, contractPath string, seen map[string]string) {
	fullPath := filepath.Join(l.opts.BundleDir, filepath.FromSlash(contractPath))

	data, err := os.ReadFile(fullPath)
	if err != nil {
		report.addError(FindingFileMissing, contractPath, fmt.Sprintf("cannot read contract file: %v", err))
		return
	}

	// Same split as the manifest: parse failures are FILE_MISSING,
	// while a non-mapping document is merely unclassifiable.
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		report.addError(FindingFileMissing, contractPath, fmt.Sprintf("cannot parse contract file: %v", err))
		return
	}
	doc, _ := raw.(map[string]any)

	if l.opts.Compat {
		doc, data = l.applyCompat(report, contractPath, fullPath, doc, data)
	}

	// Exemption is decided on the resolved path: a bundle rooted
	// inside the vocabulary directory is exempt as a whole.
	if !vocabulary.Exempt(fullPath) {
		l.enforceVocabulary(report, contractPath, doc)
	}

	kind, ok := contract.Classify(doc)
	if !ok {
		report.addWarning(FindingUnknownContract, contractPath, "document matches no known contract shape")
		return
	}

	if result := contract.Validate(kind, data); !result.Valid {
		for _, msg := range result.Messages() {
			report.addError(FindingSchemaInvalid, contractPath, msg)
		}
		return
	}

	code, _ := doc["smart_code"].(string)
	switch {
	case !smartcode.IsValid(code):
		report.addError(FindingSmartCodeInvalid, contractPath, fmt.Sprintf("invalid smart code %q", code))
	case seen[code] != "":
		report.addError(FindingSmartCodeConflict, contractPath, fmt.Sprintf("smart code %q already used by %s", code, seen[code]))
	default:
		seen[code] = contractPath
	}

	// Artifact listing is independent of the smart code outcome.
	report.Artifacts = append(report.Artifacts, Artifact{File: contractPath, Type: string(kind)})

	if kind == contract.KindEntities {
		l.checkSlugUniqueness(report, contractPath, data)
	}
}

// applyCompat normalizes legacy fields in a parsed contract document,
// recording findings and optionally writing the rewrite back. Returns
// the document and bytes downstream steps should validate.
func (l *Linter) applyCompat(report *Report, contractPath, fullPath string, doc map[string]any, data []byte) (map[string]any, []byte) {
	rewrite := compat.NormalizeDocument(doc)
	if !rewrite.Changed() {
		return doc, data
	}

	if len(rewrite.Notes) > 0 {
		report.addInfo(FindingCompatRewrite, contractPath, strings.Join(rewrite.Notes, "; "))
	}
	if len(rewrite.ScanNotes) > 0 {
		report.addInfo(FindingCompatRewriteScan, contractPath, strings.Join(rewrite.ScanNotes, "; "))
	}

	if l.opts.StrictCompat && !l.opts.CompatWrite {
		report.addError(FindingCompatRequired, contractPath, "legacy fields present; run with compat-write to persist the canonical form")
	}

	if l.opts.CompatWrite {
		wrote, err := compat.WriteBack(fullPath, data, rewrite.Doc, l.opts.BackupExt)
		switch {
		case err != nil:
			report.addWarning(FindingCompatWriteFailed, contractPath, fmt.Sprintf("cannot persist rewrite: %v", err))
		case wrote:
			report.addWarning(FindingCompatWrite, contractPath, "legacy fields rewritten to canonical form; original backed up")
		}
	}

	serialized, err := compat.Serialize(rewrite.Doc)
	if err != nil {
		// Validation falls back to the original bytes; the rewritten
		// map still drives classification and vocabulary checks.
		return rewrite.Doc, data
	}
	return rewrite.Doc, serialized
}

// enforceVocabulary applies synonym checks to the fields the
// vocabulary governs: typed fields on items and rows, plus KIND::term
// tokens embedded in procedure preconditions.
func (l *Linter) enforceVocabulary(report *Report, contractPath string, doc map[string]any) {
	if len(l.aliases) == 0 {
		return
	}

	typedFields := []string{"entity_type", "line_type", "transaction_type"}
	if items, ok := doc["items"].([]any); ok {
		for i, raw := range items {
			item, ok := raw.(map[string]any)
			if !ok {
				continue
			}
			for _, field := range typedFields {
				term, _ := item[field].(string)
				if finding, hit := vocabulary.CheckTerm(l.aliases, term, field, fmt.Sprintf("items[%d]", i)); hit {
					report.addError(FindingNonCanonicalTerm, contractPath, finding.Message())
				}
			}
		}
	}

	if rows, ok := doc["rows"].([]any); ok {
		for i, raw := range rows {
			row, ok := raw.(map[string]any)
			if !ok {
				continue
			}
			term, _ := row["relationship_type"].(string)
			if finding, hit := vocabulary.CheckTerm(l.aliases, term, "relationship_type", fmt.Sprintf("rows[%d]", i)); hit {
				report.addError(FindingNonCanonicalTerm, contractPath, finding.Message())
			}
		}
	}

	if preconditions, ok := doc["preconditions"].([]any); ok {
		for i, raw := range preconditions {
			text, ok := raw.(string)
			if !ok {
				continue
			}
			for _, token := range vocabulary.ExtractTypedTokens(text) {
				if finding, hit := vocabulary.CheckTerm(l.aliases, token.Term, token.Kind, fmt.Sprintf("preconditions[%d]", i)); hit {
					report.addError(FindingNonCanonicalTerm, contractPath, finding.Message())
				}
			}
		}
	}
}

// checkSlugUniqueness flags repeated (entity_type, slug) pairs within
// one entity catalog. The same slug under different entity types is
// allowed.
func (l *Linter) checkSlugUniqueness(report *Report, contractPath string, data []byte) {
	catalog, err := contract.DecodeEntityCatalog(data)
	if err != nil {
		return
	}
	counts := map[string]bool{}
	for _, item := range catalog.Items {
		key := item.EntityType + "\x00" + item.Slug
		if counts[key] {
			report.addError(FindingSlugConflict, contractPath,
				fmt.Sprintf("duplicate slug %q for entity_type %q", item.Slug, item.EntityType))
			continue
		}
		counts[key] = true
	}
}

// finish finalizes counts and persists the report under the bundle
// root.
func (l *Linter) finish(report *Report) (*Report, error) {
	report.finalize()
	if err := report.persist(l.opts.BundleDir); err != nil {
		return report, err
	}
	return report, nil
}
