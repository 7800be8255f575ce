package correction

import "fmt"

// Default promotion thresholds.
const (
	DefaultAllTimeThreshold uint = 3
	DefaultSessionThreshold uint = 2
)

// Thresholds configures promotion. Session should be below AllTime; a
// threshold of 1 promotes on the very first correction, before a second
// candidate has a chance to show the misspelling is ambiguous.
type Thresholds struct {
	AllTime uint
	Session uint
}

// DefaultThresholds returns the 3/2 defaults.
func DefaultThresholds() Thresholds {
	return Thresholds{
		AllTime: DefaultAllTimeThreshold,
		Session: DefaultSessionThreshold,
	}
}

// Validate rejects zero thresholds.
func (t Thresholds) Validate() error {
	if t.AllTime == 0 {
		return fmt.Errorf("all-time threshold must be at least 1")
	}
	if t.Session == 0 {
		return fmt.Errorf("session threshold must be at least 1")
	}
	return nil
}

// Warnings lists accepted-but-discouraged settings.
func (t Thresholds) Warnings() []string {
	var warnings []string
	if t.Session >= t.AllTime {
		warnings = append(warnings, fmt.Sprintf(
			"session threshold %d is not below all-time threshold %d; session tier is unreachable",
			t.Session, t.AllTime))
	}
	if t.AllTime == 1 || t.Session == 1 {
		warnings = append(warnings,
			"a threshold of 1 promotes corrections before ambiguity can be observed")
	}
	return warnings
}

// Evaluate derives the active correction for an entry.
func Evaluate(e Entry, t Thresholds) ActiveCorrection {
	inactive := ActiveCorrection{Misspelling: e.Misspelling, Tier: Inactive}
	if len(e.Candidates) != 1 {
		return inactive
	}
	c := e.Candidates[0]
	if c.IsIgnore() {
		return inactive
	}

	var tier Tier
	switch {
	case c.Manual >= t.AllTime:
		tier = PersistentActive
	case c.Manual >= t.Session:
		tier = SessionActive
	default:
		return inactive
	}

	return ActiveCorrection{
		Misspelling: e.Misspelling,
		Corrected:   c.Corrected,
		Tier:        tier,
		Manual:      c.Manual,
		Auto:        c.Auto,
	}
}

// reconcile updates the active set for one misspelling and reports whether
// its rule changed tier or target.
func (s *Store) reconcile(misspelling string) (Change, bool) {
	next := ActiveCorrection{Misspelling: misspelling, Tier: Inactive}
	if e, ok := s.entries[misspelling]; ok {
		next = Evaluate(*e, s.thresholds)
	}

	prev, had := s.active[misspelling]
	if !had {
		prev = ActiveCorrection{Misspelling: misspelling, Tier: Inactive}
	}

	if next.Active() {
		s.active[misspelling] = next
	} else {
		delete(s.active, misspelling)
	}

	if prev.Tier == next.Tier && prev.Corrected == next.Corrected {
		return Change{}, false
	}
	change := Change{Misspelling: misspelling, From: prev, To: next}
	s.notify(change)
	return change, true
}

func (s *Store) notify(change Change) {
	if change.Promoted() {
		s.logger.Debug("correction promoted",
			"misspelling", change.Misspelling,
			"corrected", change.To.Corrected,
			"tier", change.To.Tier.String())
	} else {
		s.logger.Debug("correction demoted",
			"misspelling", change.Misspelling,
			"corrected", change.From.Corrected,
			"tier", change.From.Tier.String())
	}
	for _, fn := range s.observers {
		fn(change)
	}
}

// Synchronize re-evaluates every misspelling known to the table or the
// active set and returns the changes, ordered by misspelling.
func (s *Store) Synchronize() []Change {
	seen := make(map[string]struct{}, len(s.entries)+len(s.active))
	for m := range s.entries {
		seen[m] = struct{}{}
	}
	for m := range s.active {
		seen[m] = struct{}{}
	}

	var changes []Change
	for _, m := range sortedKeys(seen) {
		if change, ok := s.reconcile(m); ok {
			changes = append(changes, change)
		}
	}
	return changes
}
