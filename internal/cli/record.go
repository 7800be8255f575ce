package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/autotypo/internal/correction"
)

// NewRecordCommand creates the record command.
func NewRecordCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "record <misspelling> <correction...>",
		Short: "Record a manual correction",
		Long: `Record that you corrected <misspelling> to <correction>.

The correction is appended to the shared record. Once the same correction has
been made often enough, and no other correction competes for the misspelling,
it becomes active.

Examples:
  autotypo record teh the
  autotypo record alot a lot`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, release, err := openSession(opts)
			if err != nil {
				return err
			}
			defer release()

			active, err := s.Record(args[0], joinCorrection(args[1:]))
			if err != nil {
				return wrapSessionError("record failed", err)
			}
			return outputActive(opts, cmd, active)
		},
	}
}

// NewIgnoreCommand creates the ignore command.
func NewIgnoreCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "ignore <word>",
		Short: "Never autocorrect a word",
		Long: `Mark <word> as never autocorrected, whatever corrections exist for it.

Remove the flag again with: autotypo remove <word>`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, release, err := openSession(opts)
			if err != nil {
				return err
			}
			defer release()

			if err := s.Ignore(args[0]); err != nil {
				return wrapSessionError("ignore failed", err)
			}
			f := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
			return f.Success(map[string]string{"ignored": args[0]}, func(w io.Writer) {
				fmt.Fprintf(w, "%s: ignored\n", args[0])
			})
		},
	}
}

// NewAddCommand creates the add command.
func NewAddCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "add <misspelling> <correction...>",
		Short: "Add a correction that is active immediately",
		Long: `Add a correction pre-seeded at the all-time threshold, so it is applied
from now on without waiting for repetitions.

Example:
  autotypo add recieve receive`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, release, err := openSession(opts)
			if err != nil {
				return err
			}
			defer release()

			active, err := s.Add(args[0], joinCorrection(args[1:]))
			if err != nil {
				return wrapSessionError("add failed", err)
			}
			return outputActive(opts, cmd, active)
		},
	}
}

// NewRemoveCommand creates the remove command.
func NewRemoveCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <misspelling> [correction...]",
		Short: "Remove a correction (or an ignore flag)",
		Long: `Remove the <misspelling> -> <correction> pair and rewrite the record.
Without a correction, removes the ignore flag for <misspelling>.
Removing a pair that does not exist is not an error.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, release, err := openSession(opts)
			if err != nil {
				return err
			}
			defer release()

			corrected := joinCorrection(args[1:])
			removed, err := s.Remove(args[0], corrected)
			if err != nil {
				return wrapSessionError("remove failed", err)
			}

			f := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
			data := map[string]any{"misspelling": args[0], "corrected": corrected, "removed": removed}
			return f.Success(data, func(w io.Writer) {
				if removed {
					fmt.Fprintf(w, "removed %s\n", describePair(args[0], corrected))
				} else {
					fmt.Fprintf(w, "no such correction: %s\n", describePair(args[0], corrected))
				}
			})
		},
	}
}

func describePair(misspelling, corrected string) string {
	if corrected == "" {
		return misspelling + " (ignore)"
	}
	return misspelling + " -> " + corrected
}

func outputActive(opts *RootOptions, cmd *cobra.Command, active correction.ActiveCorrection) error {
	f := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
	return f.Success(active, func(w io.Writer) {
		writeActive(w, active)
	})
}
