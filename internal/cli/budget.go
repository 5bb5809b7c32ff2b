package cli

import (
	"github.com/spf13/cobra"
)

func addBudget(topLevel *cobra.Command, ro *rootOptions) {
	cmd := &cobra.Command{
		Use:   "budget",
		Short: "show the trip budget in TWD and MYR",
		Example: `
voyage budget
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := open(cmd.Context(), ro.ConfigFile)
			if err != nil {
				return err
			}
			defer e.Close()

			printBudget(cmd.OutOrStdout(), e.Trip.State())
			return nil
		},
	}

	topLevel.AddCommand(cmd)
}
