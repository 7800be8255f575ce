package correction

import (
	"cmp"
	"iter"
	"log/slog"
	"maps"
	"math"
	"slices"

	"github.com/roach88/autotypo/internal/record"
)

// Store is the correction table plus its derived active set.
//
// A Store is not safe for concurrent use; callers serialize access.
type Store struct {
	thresholds Thresholds
	entries    map[string]*Entry
	active     map[string]ActiveCorrection
	observers  []func(Change)
	logger     *slog.Logger
}

// Option customises a Store.
type Option func(*Store)

// WithLogger sets the logger for promotion events. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithObserver registers fn to be called on every promotion or demotion.
func WithObserver(fn func(Change)) Option {
	return func(s *Store) { s.observers = append(s.observers, fn) }
}

// NewStore creates an empty store with the given thresholds.
func NewStore(t Thresholds, opts ...Option) *Store {
	s := &Store{
		thresholds: t,
		entries:    make(map[string]*Entry),
		active:     make(map[string]ActiveCorrection),
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Thresholds returns the promotion thresholds.
func (s *Store) Thresholds() Thresholds {
	return s.thresholds
}

// Record adds manual and auto to the counts of the (misspelling, corrected)
// candidate, creating it if needed, and returns the misspelling's resulting
// active correction.
func (s *Store) Record(misspelling, corrected string, manual, auto uint) ActiveCorrection {
	s.upsert(misspelling, corrected, manual, auto)
	s.reconcile(misspelling)
	return s.activeOrInactive(misspelling)
}

func (s *Store) upsert(misspelling, corrected string, manual, auto uint) {
	e, ok := s.entries[misspelling]
	if !ok {
		e = &Entry{Misspelling: misspelling}
		s.entries[misspelling] = e
	}
	if i := e.find(corrected); i >= 0 {
		e.Candidates[i].Manual = addCount(e.Candidates[i].Manual, manual)
		e.Candidates[i].Auto = addCount(e.Candidates[i].Auto, auto)
		return
	}
	e.Candidates = append(e.Candidates, Candidate{
		Corrected: corrected,
		Manual:    manual,
		Auto:      auto,
	})
}

// addCount adds counts, saturating at math.MaxUint so counts never decrease.
func addCount(have, delta uint) uint {
	if delta > math.MaxUint-have {
		return math.MaxUint
	}
	return have + delta
}

// SeedDelta returns the manual count still needed for the (misspelling,
// corrected) candidate to reach the all-time threshold.
func (s *Store) SeedDelta(misspelling, corrected string) uint {
	var have uint
	if e, ok := s.entries[misspelling]; ok {
		if i := e.find(corrected); i >= 0 {
			have = e.Candidates[i].Manual
		}
	}
	if have >= s.thresholds.AllTime {
		return 0
	}
	return s.thresholds.AllTime - have
}

// Ignore flags misspelling as never autocorrected and clears its rule.
func (s *Store) Ignore(misspelling string) {
	s.Record(misspelling, "", 0, 0)
}

// Remove deletes the (misspelling, corrected) candidate. Removing the last
// candidate deletes the entry and its active correction at once. It reports
// whether anything was removed; removing an absent pair is a no-op.
func (s *Store) Remove(misspelling, corrected string) bool {
	e, ok := s.entries[misspelling]
	if !ok {
		return false
	}
	i := e.find(corrected)
	if i < 0 {
		return false
	}
	e.Candidates = slices.Delete(e.Candidates, i, i+1)
	if len(e.Candidates) == 0 {
		delete(s.entries, misspelling)
	}
	s.reconcile(misspelling)
	return true
}

// Merge adds every record's counts to the table, then runs a full
// Synchronize and returns its changes. Counts from different sources for the
// same pair are summed, so merge order does not matter.
func (s *Store) Merge(records iter.Seq[record.Record]) []Change {
	for rec := range records {
		s.upsert(rec.Misspelling, rec.Corrected, rec.Manual, rec.Auto)
	}
	return s.Synchronize()
}

// Reset empties the table but keeps the active set, so a following
// Merge and Synchronize report the difference against the previous state.
func (s *Store) Reset() {
	clear(s.entries)
}

// Len returns the number of misspellings.
func (s *Store) Len() int {
	return len(s.entries)
}

// Lookup returns a copy of the entry for misspelling.
func (s *Store) Lookup(misspelling string) (Entry, bool) {
	e, ok := s.entries[misspelling]
	if !ok {
		return Entry{}, false
	}
	return cloneEntry(e), true
}

// Active returns the auto-apply rule for misspelling, if any.
func (s *Store) Active(misspelling string) (ActiveCorrection, bool) {
	a, ok := s.active[misspelling]
	return a, ok
}

// Tier returns the promotion tier of misspelling.
func (s *Store) Tier(misspelling string) Tier {
	return s.activeOrInactive(misspelling).Tier
}

// ActiveSet yields every active correction ordered by misspelling.
func (s *Store) ActiveSet() iter.Seq[ActiveCorrection] {
	return func(yield func(ActiveCorrection) bool) {
		for _, m := range sortedKeys(s.active) {
			if !yield(s.active[m]) {
				return
			}
		}
	}
}

// Entries yields (misspelling, candidates) pairs ordered by misspelling.
// The candidate slices are copies.
func (s *Store) Entries() iter.Seq2[string, []Candidate] {
	return func(yield func(string, []Candidate) bool) {
		for _, m := range sortedKeys(s.entries) {
			e, ok := s.entries[m]
			if !ok {
				continue
			}
			if !yield(m, slices.Clone(e.Candidates)) {
				return
			}
		}
	}
}

// Records yields one record per candidate, ordered by misspelling and then
// candidate insertion order.
func (s *Store) Records() iter.Seq[record.Record] {
	return func(yield func(record.Record) bool) {
		for m, candidates := range s.Entries() {
			for _, c := range candidates {
				rec := record.Record{
					Misspelling: m,
					Corrected:   c.Corrected,
					Manual:      c.Manual,
					Auto:        c.Auto,
				}
				if !yield(rec) {
					return
				}
			}
		}
	}
}

// Listing returns every candidate with its display metadata. Tier is set on
// the row of the active candidate only.
func (s *Store) Listing() []Row {
	var rows []Row
	for m, candidates := range s.Entries() {
		e := Entry{Misspelling: m, Candidates: candidates}
		active := s.activeOrInactive(m)
		for _, c := range candidates {
			row := Row{
				Misspelling: m,
				Candidate:   c,
				Tier:        Inactive,
				Ambiguous:   e.Ambiguous(),
				Ignored:     e.Ignored(),
			}
			if active.Active() && active.Corrected == c.Corrected {
				row.Tier = active.Tier
			}
			rows = append(rows, row)
		}
	}
	return rows
}

func (s *Store) activeOrInactive(misspelling string) ActiveCorrection {
	if a, ok := s.active[misspelling]; ok {
		return a
	}
	return ActiveCorrection{Misspelling: misspelling, Tier: Inactive}
}

func cloneEntry(e *Entry) Entry {
	return Entry{
		Misspelling: e.Misspelling,
		Candidates:  slices.Clone(e.Candidates),
	}
}

func sortedKeys[K cmp.Ordered, V any](m map[K]V) []K {
	return slices.Sorted(maps.Keys(m))
}
