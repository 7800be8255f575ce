package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/roach88/autotypo/internal/dict"
)

// NewDictCommand creates the dict command group.
func NewDictCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dict",
		Short: "Manage the case-folding dictionary",
		Long: `Manage the SQLite word list used to decide whether a capitalized
misspelling or correction may be stored in lowercase.

The dictionary path comes from --dict or the "dictionary" config key.`,
	}

	cmd.AddCommand(newDictImportCommand(opts))
	cmd.AddCommand(newDictCheckCommand(opts))

	return cmd
}

func newDictImportCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Import a word list",
		Long: `Import one word per line from <file> ("-" for stdin). Blank lines and
lines starting with '#' are skipped; known words are kept.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := openDict(opts)
			if err != nil {
				return err
			}
			defer d.Close()

			var r io.Reader = cmd.InOrStdin()
			source := "stdin"
			if args[0] != "-" {
				file, err := os.Open(args[0])
				if err != nil {
					return WrapExitError(ExitCommandError, "failed to open word list", err)
				}
				defer file.Close()
				r = file
				source = filepath.Base(args[0])
			}

			added, err := d.Import(cmd.Context(), source, r)
			if err != nil {
				return WrapExitError(ExitFailure, "import failed", err)
			}
			total, err := d.Count(cmd.Context())
			if err != nil {
				return WrapExitError(ExitFailure, "import failed", err)
			}

			f := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
			data := map[string]any{"source": source, "added": added, "total": total}
			return f.Success(data, func(w io.Writer) {
				fmt.Fprintf(w, "imported %d words from %s (%d total)\n", added, source, total)
			})
		},
	}
}

func newDictCheckCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check <word>",
		Short: "Check whether a word is in the dictionary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := openDict(opts)
			if err != nil {
				return err
			}
			defer d.Close()

			ok, err := d.Contains(cmd.Context(), args[0])
			if err != nil {
				return WrapExitError(ExitFailure, "check failed", err)
			}

			f := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
			data := map[string]any{"word": args[0], "valid": ok}
			return f.Success(data, func(w io.Writer) {
				if ok {
					fmt.Fprintf(w, "%s: valid\n", args[0])
				} else {
					fmt.Fprintf(w, "%s: unknown\n", args[0])
				}
			})
		},
	}
}

func openDict(opts *RootOptions) (*dict.Dict, error) {
	if opts.Config.Dictionary == "" {
		return nil, NewExitError(ExitCommandError, "no dictionary configured: use --dict or set \"dictionary\" in the config")
	}
	d, err := dict.Open(opts.Config.Dictionary)
	if err != nil {
		return nil, WrapExitError(ExitFailure, "failed to open dictionary", err)
	}
	return d, nil
}
