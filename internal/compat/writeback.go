package compat

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultBackupExt is appended to the original path when backing up a
// file before a compat rewrite.
const DefaultBackupExt = ".bak"

// Serialize renders a normalized document to YAML. Map keys serialize
// in sorted order, so the output is stable across runs; the write-back
// idempotence check relies on that stability.
func Serialize(doc map[string]any) ([]byte, error) {
	return yaml.Marshal(doc)
}

// WriteBack persists a normalized document over the original file.
// The original content is backed up to path+backupExt exactly once: an
// existing backup is never overwritten. The file itself is rewritten
// only when the serialized document differs from the original text, so
// a second run over already-normalized content performs no writes.
// Returns whether the file was written.
func WriteBack(path string, original []byte, doc map[string]any, backupExt string) (bool, error) {
	if backupExt == "" {
		backupExt = DefaultBackupExt
	}

	serialized, err := Serialize(doc)
	if err != nil {
		return false, fmt.Errorf("serializing normalized document: %w", err)
	}

	if string(serialized) == string(original) {
		return false, nil
	}

	backupPath := path + backupExt
	if _, err := os.Stat(backupPath); errors.Is(err, os.ErrNotExist) {
		if err := os.WriteFile(backupPath, original, 0o644); err != nil {
			return false, fmt.Errorf("writing backup %s: %w", backupPath, err)
		}
	}

	if err := os.WriteFile(path, serialized, 0o644); err != nil {
		return false, fmt.Errorf("writing normalized %s: %w", path, err)
	}
	return true, nil
}
