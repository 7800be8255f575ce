package correction

import (
	"math"
	"slices"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/autotypo/internal/record"
)

// snapshot flattens a store into comparable (misspelling, corrected) -> counts.
func snapshot(s *Store) map[[2]string][2]uint {
	out := make(map[[2]string][2]uint)
	for m, candidates := range s.Entries() {
		for _, c := range candidates {
			out[[2]string{m, c.Corrected}] = [2]uint{c.Manual, c.Auto}
		}
	}
	return out
}

func TestStore_RecordCreatesEntry(t *testing.T) {
	s := NewStore(DefaultThresholds())

	s.Record("teh", "the", 1, 0)

	e, ok := s.Lookup("teh")
	require.True(t, ok)
	assert.Equal(t, []Candidate{{Corrected: "the", Manual: 1, Auto: 0}}, e.Candidates)
	assert.Equal(t, 1, s.Len())
}

func TestStore_RecordAccumulates(t *testing.T) {
	s := NewStore(DefaultThresholds())

	s.Record("teh", "the", 1, 0)
	s.Record("teh", "the", 2, 1)
	s.Record("teh", "the", 0, 4)

	e, _ := s.Lookup("teh")
	require.Len(t, e.Candidates, 1)
	assert.Equal(t, uint(3), e.Candidates[0].Manual)
	assert.Equal(t, uint(5), e.Candidates[0].Auto)
}

func TestStore_ScenarioThreeRecordsPromote(t *testing.T) {
	s := NewStore(DefaultThresholds())

	a := s.Record("teh", "the", 1, 0)
	assert.Equal(t, Inactive, a.Tier)

	a = s.Record("teh", "the", 1, 0)
	assert.Equal(t, SessionActive, a.Tier)

	a = s.Record("teh", "the", 1, 0)
	assert.Equal(t, PersistentActive, a.Tier)
	assert.Equal(t, "the", a.Corrected)

	active, ok := s.Active("teh")
	require.True(t, ok)
	assert.Equal(t, "the", active.Corrected)
}

func TestStore_ScenarioAmbiguous(t *testing.T) {
	s := NewStore(DefaultThresholds())

	s.Record("adn", "and", 1, 0)
	s.Record("adn", "and", 1, 0)
	assert.Equal(t, SessionActive, s.Tier("adn"))

	s.Record("adn", "an", 1, 0)

	e, _ := s.Lookup("adn")
	assert.Len(t, e.Candidates, 2)
	assert.True(t, e.Ambiguous())
	assert.Equal(t, Inactive, s.Tier("adn"))

	s.Record("adn", "and", 10, 0)
	assert.Equal(t, Inactive, s.Tier("adn"), "ambiguity blocks promotion regardless of counts")
}

func TestStore_IgnoreDominates(t *testing.T) {
	s := NewStore(DefaultThresholds())
	s.Record("colour", "color", 5, 0)
	assert.Equal(t, PersistentActive, s.Tier("colour"))

	s.Ignore("colour")
	assert.Equal(t, Inactive, s.Tier("colour"))
	_, ok := s.Active("colour")
	assert.False(t, ok)

	s.Record("colour", "color", 50, 0)
	assert.Equal(t, Inactive, s.Tier("colour"))

	e, _ := s.Lookup("colour")
	assert.True(t, e.Ignored())
}

func TestStore_IgnoreOnly(t *testing.T) {
	s := NewStore(DefaultThresholds())
	s.Ignore("gonna")
	s.Ignore("gonna")

	e, ok := s.Lookup("gonna")
	require.True(t, ok)
	require.Len(t, e.Candidates, 1, "at most one ignore candidate per misspelling")
	assert.True(t, e.Candidates[0].IsIgnore())
	assert.Equal(t, Inactive, s.Tier("gonna"))
}

func TestStore_RemoveLastCandidateDeletesEntry(t *testing.T) {
	s := NewStore(DefaultThresholds())
	s.Record("teh", "the", 2, 0)
	require.Equal(t, SessionActive, s.Tier("teh"))

	assert.True(t, s.Remove("teh", "the"))

	_, ok := s.Lookup("teh")
	assert.False(t, ok)
	_, ok = s.Active("teh")
	assert.False(t, ok, "session rule must be purged immediately")
	assert.Equal(t, 0, s.Len())
}

func TestStore_RemoveReevaluatesRemaining(t *testing.T) {
	s := NewStore(DefaultThresholds())
	s.Record("adn", "and", 3, 0)
	s.Record("adn", "an", 1, 0)
	require.Equal(t, Inactive, s.Tier("adn"))

	assert.True(t, s.Remove("adn", "an"))
	assert.Equal(t, PersistentActive, s.Tier("adn"))
}

func TestStore_RemoveIgnoreRestoresRule(t *testing.T) {
	s := NewStore(DefaultThresholds())
	s.Record("teh", "the", 3, 0)
	s.Ignore("teh")
	require.Equal(t, Inactive, s.Tier("teh"))

	s.Remove("teh", "")
	assert.Equal(t, PersistentActive, s.Tier("teh"))
}

func TestStore_RemoveAbsentIsNoop(t *testing.T) {
	s := NewStore(DefaultThresholds())
	s.Record("teh", "the", 1, 0)

	assert.False(t, s.Remove("nope", "the"))
	assert.False(t, s.Remove("teh", "them"))
	assert.Equal(t, 1, s.Len())
}

func TestStore_SeedDelta(t *testing.T) {
	s := NewStore(DefaultThresholds())
	assert.Equal(t, uint(3), s.SeedDelta("teh", "the"))

	s.Record("teh", "the", 2, 0)
	assert.Equal(t, uint(1), s.SeedDelta("teh", "the"))

	s.Record("teh", "the", 5, 0)
	assert.Equal(t, uint(0), s.SeedDelta("teh", "the"))
}

func TestStore_MergeSumsCounts(t *testing.T) {
	s := NewStore(DefaultThresholds())
	s.Record("teh", "the", 1, 0)

	s.Merge(slices.Values([]record.Record{
		{Misspelling: "teh", Corrected: "the", Manual: 2, Auto: 1},
		{Misspelling: "adn", Corrected: "and", Manual: 1},
	}))

	assert.Equal(t, map[[2]string][2]uint{
		{"teh", "the"}: {3, 1},
		{"adn", "and"}: {1, 0},
	}, snapshot(s))
	assert.Equal(t, PersistentActive, s.Tier("teh"))
}

func TestStore_CountsSaturate(t *testing.T) {
	s := NewStore(DefaultThresholds())

	top := strconv.FormatUint(math.MaxUint, 10)
	s.Merge(record.Parse([]byte("teh " + top + " " + top + " the\nteh the\nteh 0 7 the\n")))

	assert.Equal(t, map[[2]string][2]uint{
		{"teh", "the"}: {math.MaxUint, math.MaxUint},
	}, snapshot(s))
	assert.Equal(t, PersistentActive, s.Tier("teh"))

	s.Record("teh", "the", math.MaxUint, 1)
	assert.Equal(t, PersistentActive, s.Tier("teh"))
}

func TestStore_MergeCommutativeAssociative(t *testing.T) {
	a := []record.Record{
		{Misspelling: "teh", Corrected: "the", Manual: 1},
		{Misspelling: "adn", Corrected: "and", Manual: 2, Auto: 1},
		{Misspelling: "word", Corrected: ""},
	}
	b := []record.Record{
		{Misspelling: "teh", Corrected: "the", Manual: 2},
		{Misspelling: "adn", Corrected: "an", Manual: 1},
		{Misspelling: "recieve", Corrected: "receive", Manual: 4, Auto: 2},
	}

	base := func() *Store {
		s := NewStore(DefaultThresholds())
		s.Record("teh", "the", 1, 0)
		return s
	}

	ab := base()
	ab.Merge(slices.Values(a))
	ab.Merge(slices.Values(b))

	ba := base()
	ba.Merge(slices.Values(b))
	ba.Merge(slices.Values(a))

	union := base()
	union.Merge(slices.Values(append(slices.Clone(a), b...)))

	assert.Equal(t, snapshot(ab), snapshot(ba))
	assert.Equal(t, snapshot(ab), snapshot(union))
	assert.Equal(t, slices.Collect(ab.ActiveSet()), slices.Collect(ba.ActiveSet()))
	assert.Equal(t, slices.Collect(ab.ActiveSet()), slices.Collect(union.ActiveSet()))
}

func TestStore_ResetAndMergeReportsNetChanges(t *testing.T) {
	var observed []Change
	s := NewStore(DefaultThresholds(), WithObserver(func(c Change) {
		observed = append(observed, c)
	}))
	s.Record("teh", "the", 3, 0)
	s.Record("adn", "and", 2, 0)
	observed = nil

	s.Reset()
	changes := s.Merge(slices.Values([]record.Record{
		{Misspelling: "teh", Corrected: "the", Manual: 3},
		{Misspelling: "hte", Corrected: "the", Manual: 3},
	}))

	require.Len(t, changes, 2)
	assert.Equal(t, "adn", changes[0].Misspelling)
	assert.False(t, changes[0].Promoted())
	assert.Equal(t, SessionActive, changes[0].From.Tier)
	assert.Equal(t, "hte", changes[1].Misspelling)
	assert.True(t, changes[1].Promoted())
	assert.Equal(t, changes, observed)
}

func TestStore_EntriesOrderedAndCopied(t *testing.T) {
	s := NewStore(DefaultThresholds())
	s.Record("zed", "zebra", 1, 0)
	s.Record("abt", "about", 1, 0)
	s.Record("abt", "abet", 1, 0)

	var keys []string
	for m, candidates := range s.Entries() {
		keys = append(keys, m)
		candidates[0].Manual = 99
	}
	assert.Equal(t, []string{"abt", "zed"}, keys)

	e, _ := s.Lookup("abt")
	assert.Equal(t, "about", e.Candidates[0].Corrected, "insertion order preserved")
	assert.Equal(t, uint(1), e.Candidates[0].Manual, "entries must not expose internal state")
}

func TestStore_Records(t *testing.T) {
	s := NewStore(DefaultThresholds())
	s.Record("teh", "the", 3, 1)
	s.Ignore("gonna")

	assert.Equal(t, []record.Record{
		{Misspelling: "gonna", Corrected: "", Manual: 0, Auto: 0},
		{Misspelling: "teh", Corrected: "the", Manual: 3, Auto: 1},
	}, slices.Collect(s.Records()))
}

func TestStore_RoundTripThroughCodec(t *testing.T) {
	s := NewStore(DefaultThresholds())
	s.Record("teh", "the", 3, 1)
	s.Record("adn", "and", 2, 0)
	s.Record("adn", "an", 1, 0)
	s.Ignore("gonna")

	var lines []byte
	for rec := range s.Records() {
		lines = append(lines, record.FormatLine(rec)...)
	}

	reloaded := NewStore(DefaultThresholds())
	reloaded.Merge(record.Parse(lines))

	assert.Equal(t, snapshot(s), snapshot(reloaded))
}

func TestStore_Listing(t *testing.T) {
	s := NewStore(DefaultThresholds())
	s.Record("teh", "the", 3, 0)
	s.Record("adn", "and", 2, 0)
	s.Record("adn", "an", 1, 0)
	s.Record("colour", "color", 2, 0)
	s.Ignore("colour")

	rows := s.Listing()
	require.Len(t, rows, 5)

	assert.Equal(t, Row{Misspelling: "adn", Candidate: Candidate{"and", 2, 0}, Tier: Inactive, Ambiguous: true}, rows[0])
	assert.Equal(t, Row{Misspelling: "adn", Candidate: Candidate{"an", 1, 0}, Tier: Inactive, Ambiguous: true}, rows[1])
	assert.True(t, rows[2].Ignored)
	assert.True(t, rows[3].Ignored)
	assert.Equal(t, Row{Misspelling: "teh", Candidate: Candidate{"the", 3, 0}, Tier: PersistentActive}, rows[4])
}
