package cli

import (
	"github.com/spf13/cobra"
)

// AddOptions holds flags for the add command.
type AddOptions struct {
	*RootOptions
	Name  string
	Phone int64
	Birth string
}

// NewAddCommand creates the add command.
func NewAddCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &AddOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a person and a phone number",
		Long: `Add a phone number for a person, creating the person if the name is new.

A name that already exists keeps its original birth date; only the new
phone number is recorded.

Examples:
  people add -n "Jane Doe" -b 1990-01-01 -p 5551234
  people --db ./contacts.db add -n "Jane Doe" -b 1990-01-01`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var phone *int64
			if cmd.Flags().Changed("pnumber") {
				phone = &opts.Phone
			}
			return runAdd(opts, phone, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Name, "name", "n", "", "person's full name (required)")
	_ = cmd.MarkFlagRequired("name")
	cmd.Flags().Int64VarP(&opts.Phone, "pnumber", "p", 0, "phone number")
	cmd.Flags().StringVarP(&opts.Birth, "birth", "b", "", "birth date (required)")
	_ = cmd.MarkFlagRequired("birth")

	return cmd
}

func runAdd(opts *AddOptions, phone *int64, cmd *cobra.Command) error {
	st, err := openStore(opts.RootOptions)
	if err != nil {
		return err
	}
	defer closeStore(opts.RootOptions, st)

	res, err := st.AddPerson(commandContext(cmd), opts.Name, phone, opts.Birth)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to add person", err)
	}
	opts.Logger.Debug("person added",
		"person_id", res.PersonID,
		"pnumber_id", res.PhoneID,
		"created", res.Created,
	)

	f := newFormatter(opts.RootOptions, cmd)
	// Text mode keeps stdout silent on success.
	if opts.Format == "text" {
		if res.Created {
			f.VerboseLog("added person %d with phone row %d", res.PersonID, res.PhoneID)
		} else {
			f.VerboseLog("person %d already exists, birth date kept; added phone row %d", res.PersonID, res.PhoneID)
		}
		return nil
	}
	return f.Success(res)
}
