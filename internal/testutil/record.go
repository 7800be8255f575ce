// Package testutil provides fixtures shared by package tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// RecordPath returns a path for a record file inside a fresh temp dir.
// The file is not created.
func RecordPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "autotypo", "corrections")
}

// WriteRecord replaces the record at path with content.
func WriteRecord(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write record: %v", err)
	}
	Touch(t, path)
}

// AppendRecord appends raw lines to the record at path, as another process
// would.
func AppendRecord(t *testing.T, path, lines string) {
	t.Helper()
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatalf("open record: %v", err)
	}
	if _, err := f.WriteString(lines); err != nil {
		f.Close()
		t.Fatalf("append record: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close record: %v", err)
	}
	Touch(t, path)
}

// ReadRecord returns the record content at path.
func ReadRecord(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read record: %v", err)
	}
	return string(data)
}

// Touch moves the modification time of path one second past its current
// value, so change detection does not depend on filesystem timestamp
// granularity.
func Touch(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat record: %v", err)
	}
	next := info.ModTime().Add(time.Second)
	if err := os.Chtimes(path, next, next); err != nil {
		t.Fatalf("touch record: %v", err)
	}
}
