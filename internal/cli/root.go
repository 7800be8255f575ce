package cli

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/autotypo/internal/config"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigPath string
	RecordPath string
	DictPath   string

	// Config is resolved in PersistentPreRunE from the config file and the
	// flags above.
	Config config.Config
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the autotypo CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "autotypo",
		Short: "autotypo - learn typo corrections from repetition",
		Long: `Track the spelling corrections you make and promote the ones you repeat
into automatically applied rules.

Corrections live in a plain text record shared by every process that uses it.
A correction made often enough becomes active: first for the current session,
then permanently.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError,
					fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			configureLogging(cmd, opts.Verbose)
			return resolveConfig(cmd, opts)
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "config file (default: user config dir)")
	cmd.PersistentFlags().StringVar(&opts.RecordPath, "file", "", "correction record (overrides config)")
	cmd.PersistentFlags().StringVar(&opts.DictPath, "dict", "", "SQLite dictionary for case folding (overrides config)")

	// Add subcommands
	cmd.AddCommand(NewRecordCommand(opts))
	cmd.AddCommand(NewIgnoreCommand(opts))
	cmd.AddCommand(NewRemoveCommand(opts))
	cmd.AddCommand(NewAddCommand(opts))
	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewReloadCommand(opts))
	cmd.AddCommand(NewSaveCommand(opts))
	cmd.AddCommand(NewApplyCommand(opts))
	cmd.AddCommand(NewWatchCommand(opts))
	cmd.AddCommand(NewDictCommand(opts))

	return cmd
}

// configureLogging installs a text slog handler on stderr.
func configureLogging(cmd *cobra.Command, verbose bool) {
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))
}

// resolveConfig loads the config file and applies flag overrides.
func resolveConfig(cmd *cobra.Command, opts *RootOptions) error {
	path := opts.ConfigPath
	allowMissing := path == ""
	if allowMissing {
		path = config.DefaultPath()
	}

	cfg, err := config.Load(path, allowMissing)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load config", err)
	}

	if opts.RecordPath != "" {
		if cfg.RecordPath, err = config.ExpandHome(opts.RecordPath); err != nil {
			return WrapExitError(ExitCommandError, "invalid --file", err)
		}
	}
	if opts.DictPath != "" {
		if cfg.Dictionary, err = config.ExpandHome(opts.DictPath); err != nil {
			return WrapExitError(ExitCommandError, "invalid --dict", err)
		}
	}

	for _, w := range cfg.Warnings() {
		slog.Warn("config", "warning", w)
	}

	opts.Config = cfg
	slog.Debug("config resolved", "config", path, "record", cfg.RecordPath, "dictionary", cfg.Dictionary)
	return nil
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}
