package correction

import "fmt"

// Candidate is one proposed correction for a misspelling.
// An empty Corrected is the ignore flag: never autocorrect the misspelling.
type Candidate struct {
	Corrected string `json:"corrected"`
	Manual    uint   `json:"manual"`
	Auto      uint   `json:"auto"`
}

// IsIgnore reports whether the candidate is the ignore flag.
func (c Candidate) IsIgnore() bool {
	return c.Corrected == ""
}

// Entry is a misspelling with its candidates in insertion order.
type Entry struct {
	Misspelling string      `json:"misspelling"`
	Candidates  []Candidate `json:"candidates"`
}

// Ignored reports whether the entry carries an ignore flag.
func (e Entry) Ignored() bool {
	for _, c := range e.Candidates {
		if c.IsIgnore() {
			return true
		}
	}
	return false
}

// Ambiguous reports whether more than one candidate competes for the entry.
func (e Entry) Ambiguous() bool {
	return len(e.Candidates) > 1
}

func (e *Entry) find(corrected string) int {
	for i, c := range e.Candidates {
		if c.Corrected == corrected {
			return i
		}
	}
	return -1
}

// Tier is the promotion state of a misspelling.
type Tier int

const (
	// Inactive means no auto-apply rule.
	Inactive Tier = iota

	// SessionActive means an auto-apply rule for the current process only.
	SessionActive

	// PersistentActive means the manual count meets the all-time threshold,
	// so the rule reappears after any reload.
	PersistentActive
)

// String implements fmt.Stringer.
func (t Tier) String() string {
	switch t {
	case Inactive:
		return "inactive"
	case SessionActive:
		return "session"
	case PersistentActive:
		return "persistent"
	default:
		return fmt.Sprintf("Tier(%d)", int(t))
	}
}

// MarshalText renders the tier name in JSON output.
func (t Tier) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// ActiveCorrection is the derived auto-apply rule for a misspelling.
// It is never stored on disk; Evaluate recomputes it from the Entry.
type ActiveCorrection struct {
	Misspelling string `json:"misspelling"`
	Corrected   string `json:"corrected,omitempty"`
	Tier        Tier   `json:"tier"`
	Manual      uint   `json:"manual"`
	Auto        uint   `json:"auto"`
}

// Active reports whether the correction is auto-applied.
func (a ActiveCorrection) Active() bool {
	return a.Tier != Inactive
}

// Change describes a promotion or demotion observed by the Store.
type Change struct {
	Misspelling string
	From        ActiveCorrection
	To          ActiveCorrection
}

// Promoted reports whether the change made the misspelling auto-applied
// (or moved it to a different tier or correction while active).
func (c Change) Promoted() bool {
	return c.To.Active()
}

// Row is one line of a listing: a candidate with display metadata.
type Row struct {
	Misspelling string `json:"misspelling"`
	Candidate
	Tier      Tier `json:"tier"`
	Ambiguous bool `json:"ambiguous"`
	Ignored   bool `json:"ignored"`
}
