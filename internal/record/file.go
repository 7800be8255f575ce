package record

import (
	"bytes"
	"fmt"
	"iter"
	"os"
	"path/filepath"
)

// WriteFile replaces the record at path with records in the four-field form.
// The new content is written to a sibling temp file and renamed into place,
// so concurrent readers see either the old or the new record.
//
// The returned FileInfo describes the written content as it was before the
// rename. Appends landing on the new record after the rename are not part of
// it, so comparing it against a later stat detects them.
func WriteFile(path string, records iter.Seq[Record]) (os.FileInfo, error) {
	var buf bytes.Buffer
	if err := Serialize(&buf, records); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("write record: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return nil, fmt.Errorf("write record: %w", err)
	}
	info, err := os.Stat(tmp)
	if err != nil {
		os.Remove(tmp)
		return nil, fmt.Errorf("write record: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return nil, fmt.Errorf("write record: %w", err)
	}
	return info, nil
}

// Ensure creates an empty record at path, with parent directories, if none
// exists. An existing record is left untouched.
func Ensure(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create record: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("create record: %w", err)
	}
	return f.Close()
}
