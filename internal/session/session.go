// Package session keeps one process's correction table in step with the
// shared record file.
//
// Several processes may append to the same record concurrently. Each live
// correction is appended as one complete line before the in-memory table is
// touched, so an operation either fully applies or fails without changes.
//
// Reload rebuilds the table from the record whenever the file's modification
// time is newer than the last one observed (or its size differs). Because a
// process's own appends are part of the record, rebuilding never counts them
// twice, and because merging sums counts, every process converges to the same
// table regardless of how appends interleave.
//
// Save reloads and then rewrites the whole record in compact four-field form.
// Another process's append landing between that reload and the rewrite is
// lost; reloading immediately before the rewrite only narrows the window.
//
// A Session is not safe for concurrent use.
package session

import (
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"os"
	"slices"
	"time"

	"github.com/roach88/autotypo/internal/casefold"
	"github.com/roach88/autotypo/internal/correction"
	"github.com/roach88/autotypo/internal/record"
)

// Session owns a correction store backed by a record file.
type Session struct {
	path     string
	store    *correction.Store
	oracle   casefold.Oracle
	logger   *slog.Logger
	id       string
	observed stamp
}

// stamp is the observed state of the record file.
type stamp struct {
	exists  bool
	modTime time.Time
	size    int64
}

type options struct {
	oracle    casefold.Oracle
	logger    *slog.Logger
	ids       IDGenerator
	observers []func(correction.Change)
}

// Option customises Open.
type Option func(*options)

// WithOracle sets the spelling oracle used to fold case.
func WithOracle(o casefold.Oracle) Option {
	return func(opts *options) { opts.oracle = o }
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(opts *options) { opts.logger = l }
}

// WithIDGenerator overrides the session id source. Default: UUIDv7Generator.
func WithIDGenerator(g IDGenerator) Option {
	return func(opts *options) { opts.ids = g }
}

// WithObserver registers fn for promotions and demotions.
func WithObserver(fn func(correction.Change)) Option {
	return func(opts *options) { opts.observers = append(opts.observers, fn) }
}

// Open loads the record at path, creating an empty one (and its parent
// directories) if it does not exist.
func Open(path string, t correction.Thresholds, opts ...Option) (*Session, error) {
	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("open session: %w", err)
	}

	o := options{logger: slog.Default(), ids: UUIDv7Generator{}}
	for _, opt := range opts {
		opt(&o)
	}

	id := o.ids.Generate()
	logger := o.logger.With("session", id)

	storeOpts := []correction.Option{correction.WithLogger(logger)}
	for _, fn := range o.observers {
		storeOpts = append(storeOpts, correction.WithObserver(fn))
	}

	s := &Session{
		path:   path,
		store:  correction.NewStore(t, storeOpts...),
		oracle: o.oracle,
		logger: logger,
		id:     id,
	}

	if err := record.Ensure(path); err != nil {
		return nil, err
	}
	if _, err := s.reload(true); err != nil {
		return nil, err
	}

	logger.Debug("session opened", "path", path, "entries", s.store.Len())
	return s, nil
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Path returns the record path.
func (s *Session) Path() string {
	return s.path
}

// Store returns the underlying table for read-only use.
func (s *Session) Store() *correction.Store {
	return s.store
}

// Record reports a manual correction. The pair is case-folded when the
// oracle allows it, appended to the record, and counted.
func (s *Session) Record(misspelling, corrected string) (correction.ActiveCorrection, error) {
	if err := validateMisspelling(misspelling); err != nil {
		return correction.ActiveCorrection{}, err
	}
	if err := validateCorrection(misspelling, corrected); err != nil {
		return correction.ActiveCorrection{}, err
	}

	misspelling, corrected = casefold.Normalize(misspelling, corrected, s.oracle)
	if misspelling == corrected {
		return correction.ActiveCorrection{}, invalidCorrection(misspelling, "correction differs from the misspelling only by case")
	}

	return s.apply(record.Record{Misspelling: misspelling, Corrected: corrected, Manual: 1})
}

// Ignore marks misspelling as never autocorrected.
func (s *Session) Ignore(misspelling string) error {
	if err := validateMisspelling(misspelling); err != nil {
		return err
	}
	_, err := s.apply(record.Record{Misspelling: misspelling})
	return err
}

// Add creates a correction at the all-time threshold so it is active at once.
// The pair is stored with its literal casing.
func (s *Session) Add(misspelling, corrected string) (correction.ActiveCorrection, error) {
	if err := validateMisspelling(misspelling); err != nil {
		return correction.ActiveCorrection{}, err
	}
	if err := validateCorrection(misspelling, corrected); err != nil {
		return correction.ActiveCorrection{}, err
	}

	delta := s.store.SeedDelta(misspelling, corrected)
	if delta == 0 {
		return s.activeOf(misspelling), nil
	}
	return s.apply(record.Record{Misspelling: misspelling, Corrected: corrected, Manual: delta})
}

// Applied counts one automatic application of misspelling's active rule.
// Auto counts never promote a rule.
func (s *Session) Applied(misspelling string) (correction.ActiveCorrection, error) {
	active, ok := s.store.Active(misspelling)
	if !ok {
		return correction.ActiveCorrection{}, &Error{
			Code:        ErrCodeNotActive,
			Message:     "no active correction",
			Misspelling: misspelling,
		}
	}
	return s.apply(record.Record{Misspelling: misspelling, Corrected: active.Corrected, Auto: 1})
}

// Remove deletes the (misspelling, corrected) pair and rewrites the record so
// a later reload cannot bring it back. Removing an absent pair is a no-op.
// The table is only changed once the rewrite has succeeded.
func (s *Session) Remove(misspelling, corrected string) (bool, error) {
	if _, err := s.reload(false); err != nil {
		return false, err
	}
	e, ok := s.store.Lookup(misspelling)
	if !ok || !slices.ContainsFunc(e.Candidates, func(c correction.Candidate) bool {
		return c.Corrected == corrected
	}) {
		return false, nil
	}
	if err := s.rewrite(without(s.store.Records(), misspelling, corrected)); err != nil {
		return false, err
	}
	s.store.Remove(misspelling, corrected)
	s.logger.Info("correction removed", "misspelling", misspelling, "corrected", corrected)
	return true, nil
}

// Reload merges externally appended records if the record changed since it
// was last observed. It returns the resulting promotions and demotions.
func (s *Session) Reload() ([]correction.Change, error) {
	return s.reload(false)
}

// Save reloads, then rewrites the whole record from the merged table.
func (s *Session) Save() error {
	if _, err := s.reload(false); err != nil {
		return err
	}
	return s.rewrite(s.store.Records())
}

// Close saves the record.
func (s *Session) Close() error {
	return s.Save()
}

// Changed reports whether the record differs from the last observed state.
func (s *Session) Changed() (bool, error) {
	current, err := s.stat()
	if err != nil {
		return false, err
	}
	return s.observed.olderThan(current), nil
}

// Listing returns the table with display metadata.
func (s *Session) Listing() []correction.Row {
	return s.store.Listing()
}

// ActiveSet yields the current auto-apply rules.
func (s *Session) ActiveSet() iter.Seq[correction.ActiveCorrection] {
	return s.store.ActiveSet()
}

// apply appends rec and then counts it. Nothing is counted if the append
// fails.
func (s *Session) apply(rec record.Record) (correction.ActiveCorrection, error) {
	if err := record.AppendLine(s.path, rec); err != nil {
		return correction.ActiveCorrection{}, err
	}
	active := s.store.Record(rec.Misspelling, rec.Corrected, rec.Manual, rec.Auto)
	s.logger.Debug("correction recorded",
		"misspelling", rec.Misspelling,
		"corrected", rec.Corrected,
		"manual", rec.Manual,
		"auto", rec.Auto,
		"tier", active.Tier.String())
	return active, nil
}

func (s *Session) activeOf(misspelling string) correction.ActiveCorrection {
	if a, ok := s.store.Active(misspelling); ok {
		return a
	}
	return correction.ActiveCorrection{Misspelling: misspelling, Tier: correction.Inactive}
}

func (s *Session) reload(force bool) ([]correction.Change, error) {
	current, err := s.stat()
	if err != nil {
		return nil, err
	}
	if !force && !s.observed.olderThan(current) {
		return nil, nil
	}

	records, err := record.ReadFile(s.path)
	if err != nil {
		return nil, err
	}
	s.store.Reset()
	changes := s.store.Merge(records)
	s.observed = current

	s.logger.Debug("record reloaded", "path", s.path, "entries", s.store.Len(), "changes", len(changes))
	return changes, nil
}

// rewrite replaces the record with records. The observed stamp is the one
// of the written content, so an append racing the rename still counts as a
// change at the next reload.
func (s *Session) rewrite(records iter.Seq[record.Record]) error {
	info, err := record.WriteFile(s.path, records)
	if err != nil {
		return err
	}
	s.observed = stamp{exists: true, modTime: info.ModTime(), size: info.Size()}
	s.logger.Info("record saved", "path", s.path, "entries", s.store.Len())
	return nil
}

// without yields records except the (misspelling, corrected) pair.
func without(records iter.Seq[record.Record], misspelling, corrected string) iter.Seq[record.Record] {
	return func(yield func(record.Record) bool) {
		for rec := range records {
			if rec.Misspelling == misspelling && rec.Corrected == corrected {
				continue
			}
			if !yield(rec) {
				return
			}
		}
	}
}

func (s *Session) stat() (stamp, error) {
	info, err := os.Stat(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return stamp{}, nil
		}
		return stamp{}, fmt.Errorf("stat record: %w", err)
	}
	return stamp{exists: true, modTime: info.ModTime(), size: info.Size()}, nil
}

// olderThan reports whether current shows a change since st was observed.
func (st stamp) olderThan(current stamp) bool {
	if st.exists != current.exists {
		return true
	}
	return current.modTime.After(st.modTime) || current.size != st.size
}
