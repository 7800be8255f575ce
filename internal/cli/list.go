package cli

import (
	"fmt"
	"io"
	"slices"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/autotypo/internal/correction"
)

// ListOptions holds flags for the list command.
type ListOptions struct {
	*RootOptions
	ActiveOnly bool
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ListOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded corrections",
		Long: `List every recorded correction with its counts and promotion tier.

Flags column:
  ambiguous - several corrections compete, none is applied
  ignored   - the misspelling is never autocorrected`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, release, err := openSession(opts.RootOptions)
			if err != nil {
				return err
			}
			defer release()

			f := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
			if opts.ActiveOnly {
				active := slices.Collect(s.ActiveSet())
				if active == nil {
					active = []correction.ActiveCorrection{}
				}
				return f.Success(active, func(w io.Writer) {
					for _, a := range active {
						writeActive(w, a)
					}
				})
			}

			rows := s.Listing()
			if rows == nil {
				rows = []correction.Row{}
			}
			return f.Success(rows, func(w io.Writer) {
				writeRows(w, rows)
			})
		},
	}

	cmd.Flags().BoolVar(&opts.ActiveOnly, "active", false, "only list active corrections")

	return cmd
}

// writeRows renders rows as an aligned table.
func writeRows(w io.Writer, rows []correction.Row) {
	if len(rows) == 0 {
		fmt.Fprintln(w, "No corrections recorded.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "MISSPELLING\tCORRECTION\tMANUAL\tAUTO\tTIER\tFLAGS")
	for _, r := range rows {
		corrected := r.Corrected
		if r.IsIgnore() {
			corrected = "(ignore)"
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\t%s\n",
			r.Misspelling, corrected, r.Manual, r.Auto, r.Tier, rowFlags(r))
	}
	tw.Flush()
}

func rowFlags(r correction.Row) string {
	switch {
	case r.Ignored && r.Ambiguous:
		return "ignored,ambiguous"
	case r.Ignored:
		return "ignored"
	case r.Ambiguous:
		return "ambiguous"
	default:
		return "-"
	}
}
