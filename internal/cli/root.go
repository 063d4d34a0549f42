package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/people/internal/config"
	"github.com/roach88/people/internal/store"
)

// Version is reported by --version.
const Version = "alpha beta 0.0.1"

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "text" | "json" | "yaml"
	Database   string
	Driver     string
	ConfigFile string

	// Config is resolved in PersistentPreRunE from flags, env and file.
	Config *config.Config

	// Logger is built in PersistentPreRunE; commands log through it.
	Logger *slog.Logger
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json", "yaml"}

// NewRootCommand creates the root command for the people CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "people",
		Short: "people - a command-line contact book",
		Long: `Store people's names, birth dates and phone numbers in a local SQLite file.

Run without a subcommand to create the database file and exit.`,
		Version:       Version,
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return prepare(opts, cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(opts, cmd)
		},
	}
	cmd.SetVersionTemplate("{{.Name}} {{.Version}}\n")

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (text|json|yaml)")
	cmd.PersistentFlags().StringVar(&opts.Database, "db", "", "database file (default people_data.db in the working directory)")
	cmd.PersistentFlags().StringVar(&opts.Driver, "driver", store.DefaultDriver, "SQLite driver (sqlite3|sqlite)")
	cmd.PersistentFlags().StringVar(&opts.ConfigFile, "config", "", "config file (default people.yaml)")

	// Add subcommands
	cmd.AddCommand(NewAddCommand(opts))
	cmd.AddCommand(NewDisplayCommand(opts))
	cmd.AddCommand(NewSelectCommand(opts))

	return cmd
}

// Execute runs the root command with args and reports any error on stderr.
// Returns the process exit code.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := NewRootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return ExitSuccess
	}

	format := "text"
	if f := cmd.PersistentFlags().Lookup("format"); f != nil && isValidFormat(f.Value.String()) {
		format = f.Value.String()
	}
	verbose, _ := cmd.PersistentFlags().GetBool("verbose")
	formatter := &OutputFormatter{Format: format, Writer: stderr, Verbose: verbose}
	_ = formatter.Error(errorCode(err), err.Error(), errorDetails(err))

	code := GetExitCode(err)
	if code == ExitUsage {
		fmt.Fprintf(stderr, "Run '%s --help' for usage.\n", cmd.Name())
	}
	return code
}

// errorDetails exposes the failing storage step, if any, as error details.
func errorDetails(err error) interface{} {
	var se *store.Error
	if !errors.As(err, &se) {
		return nil
	}
	return map[string]string{"kind": string(se.Kind), "op": se.Op}
}

// prepare resolves configuration and logging once flags have parsed.
func prepare(opts *RootOptions, cmd *cobra.Command) error {
	cfg, err := config.Load(config.Source{File: opts.ConfigFile, Flags: cmd.Flags()})
	if err != nil {
		return WrapExitError(ExitUsage, "failed to load config", err)
	}

	if !isValidFormat(cfg.Format) {
		return NewExitError(ExitUsage, fmt.Sprintf("invalid format %q: must be one of %v", cfg.Format, ValidFormats))
	}
	if !store.IsValidDriver(cfg.Driver) {
		return NewExitError(ExitUsage, fmt.Sprintf("invalid driver %q: must be one of %v", cfg.Driver, store.Drivers))
	}

	logger, err := newLogger(cmd.ErrOrStderr(), cfg.LogLevel, opts.Verbose)
	if err != nil {
		return WrapExitError(ExitUsage, "invalid log level", err)
	}

	opts.Config = cfg
	opts.Format = cfg.Format
	opts.Logger = logger
	slog.SetDefault(logger)
	return nil
}

// runInit handles the bare invocation: create the schema and exit.
func runInit(opts *RootOptions, cmd *cobra.Command) error {
	opts.Logger.Debug("initializing database", "path", opts.Config.DB, "driver", opts.Config.Driver)
	if err := store.Init(commandContext(cmd), opts.Config.DB, store.WithDriver(opts.Config.Driver)); err != nil {
		return WrapExitError(ExitFailure, "failed to initialize database", err)
	}
	return nil
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
