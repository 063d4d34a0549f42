package cli

import (
	"github.com/spf13/cobra"
)

// NewDisplayCommand creates the display command.
func NewDisplayCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "display",
		Short: "List everyone",
		Long: `List every stored phone number together with its owner's name and birth date.

Examples:
  people display
  people --db ./contacts.db display --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDisplay(rootOpts, cmd)
		},
	}
}

func runDisplay(opts *RootOptions, cmd *cobra.Command) error {
	st, err := openStore(opts)
	if err != nil {
		return err
	}
	defer closeStore(opts, st)

	records, err := st.SelectAll(commandContext(cmd))
	if err != nil {
		return WrapExitError(ExitFailure, "failed to list people", err)
	}
	opts.Logger.Debug("records loaded", "count", len(records))

	return newFormatter(opts, cmd).People(records)
}
