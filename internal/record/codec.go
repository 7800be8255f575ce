package record

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode"
)

// Record is one parsed line of the correction record.
//
// Counts are deltas when merged: two records for the same pair add up.
type Record struct {
	Misspelling string
	Corrected   string
	Manual      uint
	Auto        uint
}

// IsIgnore reports whether the record marks its misspelling as never
// autocorrected.
func (r Record) IsIgnore() bool {
	return r.Corrected == ""
}

// ParseLine parses a single line. It returns false for malformed lines:
// no misspelling, or no correction in the bare form.
func ParseLine(line string) (Record, bool) {
	line = strings.TrimRight(line, "\r\n")

	misspelling, rest := nextToken(line)
	if misspelling == "" {
		return Record{}, false
	}

	// Fully-qualified form: two counts followed by the (possibly empty) text.
	first, afterFirst := nextToken(rest)
	if manual, ok := parseCount(first); ok {
		second, afterSecond := nextToken(afterFirst)
		if auto, ok := parseCount(second); ok {
			return Record{
				Misspelling: misspelling,
				Corrected:   trimLeftSpace(afterSecond),
				Manual:      manual,
				Auto:        auto,
			}, true
		}
	}

	// Bare form: the remainder starting at the first token is the correction.
	corrected := trimLeftSpace(rest)
	if corrected == "" {
		return Record{}, false
	}
	return Record{
		Misspelling: misspelling,
		Corrected:   corrected,
		Manual:      1,
		Auto:        0,
	}, true
}

// Parse returns a lazy sequence over the records in data. The sequence can be
// ranged over any number of times. Lines of any length are read; malformed
// ones are skipped.
func Parse(data []byte) iter.Seq[Record] {
	return func(yield func(Record) bool) {
		rest := data
		for len(rest) > 0 {
			var line []byte
			line, rest, _ = bytes.Cut(rest, []byte{'\n'})
			rec, ok := ParseLine(string(line))
			if !ok {
				continue
			}
			if !yield(rec) {
				return
			}
		}
	}
}

// ReadFile reads the record at path and returns its parsed sequence.
// A missing file yields an empty sequence and no error.
func ReadFile(path string) (iter.Seq[Record], error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Parse(nil), nil
		}
		return nil, fmt.Errorf("read record: %w", err)
	}
	return Parse(data), nil
}

// FormatLine renders rec in the four-field form, newline-terminated.
// Ignore records render without a trailing separator ("word 0 0\n").
func FormatLine(rec Record) string {
	if rec.Corrected == "" {
		return fmt.Sprintf("%s %d %d\n", rec.Misspelling, rec.Manual, rec.Auto)
	}
	return fmt.Sprintf("%s %d %d %s\n", rec.Misspelling, rec.Manual, rec.Auto, rec.Corrected)
}

// FormatDelta renders rec the way a live recorder appends it: the bare
// two-field form for a single manual correction, the four-field form when
// the bare form would be misread (other deltas, ignore entries, or a
// correction that itself starts with a count-like token).
func FormatDelta(rec Record) string {
	if rec.Manual == 1 && rec.Auto == 0 && rec.Corrected != "" {
		first, _ := nextToken(rec.Corrected)
		if _, isCount := parseCount(first); !isCount && !startsWithSpace(rec.Corrected) {
			return rec.Misspelling + " " + rec.Corrected + "\n"
		}
	}
	return FormatLine(rec)
}

// Serialize writes every record in the four-field form, one line each.
func Serialize(w io.Writer, records iter.Seq[Record]) error {
	bw := bufio.NewWriter(w)
	for rec := range records {
		if _, err := bw.WriteString(FormatLine(rec)); err != nil {
			return fmt.Errorf("serialize record: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("serialize record: %w", err)
	}
	return nil
}

// AppendLine appends rec to the record at path as a single write, creating
// the file and its parent directories if needed.
func AppendLine(path string, rec Record) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("append record: %w", err)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("append record: %w", err)
	}
	if _, err := f.WriteString(FormatDelta(rec)); err != nil {
		f.Close()
		return fmt.Errorf("append record: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("append record: %w", err)
	}
	return nil
}

// parseCount accepts "0" and any nonzero unsigned integer. "00" or "-1" are
// not counts.
func parseCount(tok string) (uint, bool) {
	if tok == "" {
		return 0, false
	}
	n, err := strconv.ParseUint(tok, 10, 0)
	if err != nil {
		return 0, false
	}
	if n == 0 && tok != "0" {
		return 0, false
	}
	return uint(n), true
}

// nextToken splits s into its first whitespace-delimited token and the text
// following that token (leading whitespace of the remainder preserved).
func nextToken(s string) (string, string) {
	s = trimLeftSpace(s)
	end := strings.IndexFunc(s, unicode.IsSpace)
	if end < 0 {
		return s, ""
	}
	return s[:end], s[end:]
}

func trimLeftSpace(s string) string {
	return strings.TrimLeftFunc(s, unicode.IsSpace)
}

func startsWithSpace(s string) bool {
	return s != "" && s != trimLeftSpace(s)
}
