// Package autocorrect applies active correction rules to typed words.
//
// A rule fires at a position only when every registered Predicate agrees.
// Rules stored in lowercase also match capitalized or uppercase typing, and
// the replacement takes the typed word's shape.
package autocorrect

import (
	"strings"
	"unicode"

	"github.com/roach88/autotypo/internal/casefold"
	"github.com/roach88/autotypo/internal/correction"
)

// Position is where a word was typed, as reported by the editor.
type Position struct {
	Offset int
	// Scope is the editor's syntactic context, e.g. "comment" or "string".
	Scope string
}

// Predicate decides whether autocorrection may fire at a position.
type Predicate interface {
	Eligible(pos Position) bool
}

// PredicateFunc adapts a function to Predicate.
type PredicateFunc func(pos Position) bool

// Eligible implements Predicate.
func (f PredicateFunc) Eligible(pos Position) bool {
	return f(pos)
}

// InScopes allows autocorrection only in the named scopes.
func InScopes(scopes ...string) Predicate {
	allowed := make(map[string]bool, len(scopes))
	for _, s := range scopes {
		allowed[s] = true
	}
	return PredicateFunc(func(pos Position) bool { return allowed[pos.Scope] })
}

// AppliedHook is notified after a correction is applied. It is not called
// for multi-word replacements, which cannot be mapped back to their trigger.
type AppliedHook func(original, corrected string)

// Rules looks up active corrections. *correction.Store implements it.
type Rules interface {
	Active(misspelling string) (correction.ActiveCorrection, bool)
}

// Recorder counts automatic applications. *session.Session implements it.
type Recorder interface {
	Applied(misspelling string) (correction.ActiveCorrection, error)
}

// Match is a rule found for a typed word.
type Match struct {
	Word        string
	Rule        correction.ActiveCorrection
	Replacement string
}

// Corrector applies rules to typed words.
type Corrector struct {
	rules      Rules
	recorder   Recorder
	predicates []Predicate
	hooks      []AppliedHook
}

// Option customises a Corrector.
type Option func(*Corrector)

// WithPredicate registers an eligibility predicate.
func WithPredicate(p Predicate) Option {
	return func(c *Corrector) { c.predicates = append(c.predicates, p) }
}

// WithHook registers an applied-correction hook.
func WithHook(h AppliedHook) Option {
	return func(c *Corrector) { c.hooks = append(c.hooks, h) }
}

// WithRecorder counts each application through r.
func WithRecorder(r Recorder) Option {
	return func(c *Corrector) { c.recorder = r }
}

// New creates a Corrector over rules.
func New(rules Rules, opts ...Option) *Corrector {
	c := &Corrector{rules: rules}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Lookup finds the active rule for word: first by exact match, then by the
// lowercase form when word is capitalized or uppercase.
func (c *Corrector) Lookup(word string) (Match, bool) {
	if rule, ok := c.rules.Active(word); ok {
		return Match{Word: word, Rule: rule, Replacement: rule.Corrected}, true
	}
	if !casefold.Foldable(word) {
		return Match{}, false
	}
	rule, ok := c.rules.Active(casefold.Lower(word))
	if !ok {
		return Match{}, false
	}
	return Match{Word: word, Rule: rule, Replacement: casefold.Apply(word, rule.Corrected)}, true
}

// Eligible evaluates every predicate and reports whether all agreed. With no
// predicates registered, every position is eligible.
func (c *Corrector) Eligible(pos Position) bool {
	ok := true
	for _, p := range c.predicates {
		if !p.Eligible(pos) {
			ok = false
		}
	}
	return ok
}

// Apply returns the replacement for word at pos, if a rule exists and the
// position is eligible. The application is counted through the Recorder and
// reported to hooks.
func (c *Corrector) Apply(word string, pos Position) (string, bool, error) {
	m, ok := c.Lookup(word)
	if !ok || !c.Eligible(pos) {
		return word, false, nil
	}

	if c.recorder != nil {
		if _, err := c.recorder.Applied(m.Rule.Misspelling); err != nil {
			return word, false, err
		}
	}

	if isSingleToken(m.Replacement) {
		for _, h := range c.hooks {
			h(word, m.Replacement)
		}
	}
	return m.Replacement, true, nil
}

func isSingleToken(s string) bool {
	return s != "" && strings.IndexFunc(s, unicode.IsSpace) < 0
}
