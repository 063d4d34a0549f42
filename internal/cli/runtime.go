package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/roach88/people/internal/store"
)

// newLogger builds the invocation's logger. Every line carries a UUIDv7
// "run" attribute so the lines of one invocation can be grouped.
func newLogger(w io.Writer, level string, verbose bool) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("log level %q: %w", level, err)
	}
	if verbose {
		lvl = slog.LevelDebug
	}

	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})
	return slog.New(handler).With("run", uuid.Must(uuid.NewV7()).String()), nil
}

// openStore opens the configured database, creating the schema if needed.
// Callers must Close the returned store.
func openStore(opts *RootOptions) (*store.Store, error) {
	opts.Logger.Debug("opening database", "path", opts.Config.DB, "driver", opts.Config.Driver)
	st, err := store.Open(opts.Config.DB, store.WithDriver(opts.Config.Driver))
	if err != nil {
		return nil, WrapExitError(ExitFailure, "failed to open database", err)
	}
	opts.Logger.Debug("database ready", "path", st.Path(), "driver", st.Driver())
	return st, nil
}

// closeStore closes st, logging rather than returning a close error.
func closeStore(opts *RootOptions, st *store.Store) {
	if err := st.Close(); err != nil {
		opts.Logger.Error("error closing database", "error", err)
	}
}

// commandContext returns the command's context, or Background when unset.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
}
