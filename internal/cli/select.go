package cli

import (
	"github.com/spf13/cobra"
)

// SelectOptions holds flags for the select command.
type SelectOptions struct {
	*RootOptions
	Birth string
}

// NewSelectCommand creates the select command.
func NewSelectCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SelectOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "select",
		Short: "Find people by birth-date prefix",
		Long: `List the people whose birth date starts with the given prefix.

The match is case-sensitive. % and _ inside the prefix act as SQL LIKE
wildcards.

Examples:
  people select -b 1990
  people select -b 1990-05`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSelect(opts, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Birth, "birth", "b", "", "birth date prefix (required)")
	_ = cmd.MarkFlagRequired("birth")

	return cmd
}

func runSelect(opts *SelectOptions, cmd *cobra.Command) error {
	st, err := openStore(opts.RootOptions)
	if err != nil {
		return err
	}
	defer closeStore(opts.RootOptions, st)

	records, err := st.FindByBirthPrefix(commandContext(cmd), opts.Birth)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to select people", err)
	}
	opts.Logger.Debug("records matched", "prefix", opts.Birth, "count", len(records))

	return newFormatter(opts.RootOptions, cmd).People(records)
}
