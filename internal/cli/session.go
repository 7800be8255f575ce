package cli

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/roach88/autotypo/internal/correction"
	"github.com/roach88/autotypo/internal/dict"
	"github.com/roach88/autotypo/internal/session"
)

// openSession opens the configured record, with the dictionary as case
// oracle when one is configured. The returned func releases the dictionary.
func openSession(opts *RootOptions) (*session.Session, func(), error) {
	cfg := opts.Config
	var sessOpts []session.Option

	release := func() {}
	if cfg.Dictionary != "" {
		d, err := dict.Open(cfg.Dictionary)
		if err != nil {
			return nil, nil, WrapExitError(ExitFailure, "failed to open dictionary", err)
		}
		sessOpts = append(sessOpts, session.WithOracle(d))
		release = func() {
			if err := d.Close(); err != nil {
				slog.Error("error closing dictionary", "error", err)
			}
		}
	}

	s, err := session.Open(cfg.RecordPath, cfg.Thresholds(), sessOpts...)
	if err != nil {
		release()
		return nil, nil, WrapExitError(ExitFailure, "failed to open record", err)
	}
	return s, release, nil
}

// joinCorrection rebuilds a multi-word correction from trailing arguments.
func joinCorrection(args []string) string {
	return strings.Join(args, " ")
}

// writeActive renders an active correction as "misspelling -> corrected [tier]".
func writeActive(w io.Writer, a correction.ActiveCorrection) {
	if !a.Active() {
		fmt.Fprintf(w, "%s: inactive\n", a.Misspelling)
		return
	}
	fmt.Fprintf(w, "%s -> %s [%s]\n", a.Misspelling, a.Corrected, a.Tier)
}

// writeChanges renders promotions and demotions, one per line.
func writeChanges(w io.Writer, changes []correction.Change) {
	for _, c := range changes {
		if c.Promoted() {
			fmt.Fprintf(w, "+ %s -> %s [%s]\n", c.Misspelling, c.To.Corrected, c.To.Tier)
		} else {
			fmt.Fprintf(w, "- %s -> %s [%s]\n", c.Misspelling, c.From.Corrected, c.From.Tier)
		}
	}
}

// changeView is the JSON shape of a Change.
type changeView struct {
	Misspelling string          `json:"misspelling"`
	From        correction.Tier `json:"from"`
	To          correction.Tier `json:"to"`
	Corrected   string          `json:"corrected"`
}

func viewChanges(changes []correction.Change) []changeView {
	views := make([]changeView, 0, len(changes))
	for _, c := range changes {
		corrected := c.To.Corrected
		if !c.Promoted() {
			corrected = c.From.Corrected
		}
		views = append(views, changeView{
			Misspelling: c.Misspelling,
			From:        c.From.Tier,
			To:          c.To.Tier,
			Corrected:   corrected,
		})
	}
	return views
}
