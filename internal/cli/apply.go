package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/autotypo/internal/autocorrect"
)

// ApplyOptions holds flags for the apply command.
type ApplyOptions struct {
	*RootOptions
	Scope       string
	AllowScopes []string
	Offset      int
}

// applyResult is the JSON shape of an apply.
type applyResult struct {
	Word        string `json:"word"`
	Replacement string `json:"replacement"`
	Applied     bool   `json:"applied"`
}

// NewApplyCommand creates the apply command.
func NewApplyCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ApplyOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "apply <word>",
		Short: "Autocorrect a typed word",
		Long: `Look up the active correction for <word> and print the replacement.

A match is counted as an automatic application in the record. With
--allow-scope, the correction only fires when --scope is one of the allowed
scopes. Capitalized and uppercase words match lowercase rules and keep
their shape.

Examples:
  autotypo apply teh
  autotypo apply Teh --scope comment --allow-scope comment --allow-scope string`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, release, err := openSession(opts.RootOptions)
			if err != nil {
				return err
			}
			defer release()

			correctorOpts := []autocorrect.Option{autocorrect.WithRecorder(s)}
			if len(opts.AllowScopes) > 0 {
				correctorOpts = append(correctorOpts, autocorrect.WithPredicate(autocorrect.InScopes(opts.AllowScopes...)))
			}
			corrector := autocorrect.New(s.Store(), correctorOpts...)

			word := args[0]
			replacement, applied, err := corrector.Apply(word, autocorrect.Position{Offset: opts.Offset, Scope: opts.Scope})
			if err != nil {
				return WrapExitError(ExitFailure, "apply failed", err)
			}

			f := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
			return f.Success(applyResult{Word: word, Replacement: replacement, Applied: applied}, func(w io.Writer) {
				fmt.Fprintln(w, replacement)
			})
		},
	}

	cmd.Flags().StringVar(&opts.Scope, "scope", "", "editor scope the word was typed in")
	cmd.Flags().StringArrayVar(&opts.AllowScopes, "allow-scope", nil, "scope where autocorrection may fire (repeatable)")
	cmd.Flags().IntVar(&opts.Offset, "offset", 0, "offset of the word in the buffer")

	return cmd
}
