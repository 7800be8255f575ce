package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roach88/autotypo/internal/correction"
)

// NewReloadCommand creates the reload command.
func NewReloadCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "reload",
		Short: "Reload the record and report the active corrections",
		Long: `Load the record, merging what every process has appended, and report the
number of entries and active corrections.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, release, err := openSession(opts)
			if err != nil {
				return err
			}
			defer release()

			changes, err := s.Reload()
			if err != nil {
				return WrapExitError(ExitFailure, "reload failed", err)
			}

			active := 0
			for range s.ActiveSet() {
				active++
			}
			f := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
			data := map[string]any{
				"path":    s.Path(),
				"entries": s.Store().Len(),
				"active":  active,
				"changes": viewChanges(changes),
			}
			return f.Success(data, func(w io.Writer) {
				writeChanges(w, changes)
				fmt.Fprintf(w, "%s: %d entries, %d active\n", s.Path(), s.Store().Len(), active)
			})
		},
	}
}

// NewSaveCommand creates the save command.
func NewSaveCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "save",
		Short: "Compact the record",
		Long: `Rewrite the record with one line per correction, summing the counts of
every line appended so far. The file is replaced atomically.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, release, err := openSession(opts)
			if err != nil {
				return err
			}
			defer release()

			if err := s.Save(); err != nil {
				return WrapExitError(ExitFailure, "save failed", err)
			}
			f := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
			data := map[string]any{"path": s.Path(), "entries": s.Store().Len()}
			return f.Success(data, func(w io.Writer) {
				fmt.Fprintf(w, "saved %s (%d entries)\n", s.Path(), s.Store().Len())
			})
		},
	}
}

// NewWatchCommand creates the watch command.
func NewWatchCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Follow changes other processes make to the record",
		Long: `Watch the record and print every promotion and demotion caused by
corrections other processes append. Stops on SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, release, err := openSession(opts)
			if err != nil {
				return err
			}
			defer release()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			f := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
			err = s.Watch(ctx, func(changes []correction.Change) {
				if len(changes) == 0 {
					return
				}
				_ = f.Success(viewChanges(changes), func(w io.Writer) {
					writeChanges(w, changes)
				})
			})
			if err != nil && !errors.Is(err, context.Canceled) {
				return WrapExitError(ExitFailure, "watch failed", err)
			}
			return nil
		},
	}
}
