package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/sadopc/voyage/internal/store"
	"github.com/sadopc/voyage/internal/trip"
)

func addHistory(topLevel *cobra.Command, ro *rootOptions) {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "list recent saves of the trip",
		Example: `
voyage history
voyage history --limit 5
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := open(cmd.Context(), ro.ConfigFile)
			if err != nil {
				return err
			}
			defer e.Close()

			revs, err := e.Store.History(trip.StateKey, limit)
			if err != nil {
				return err
			}
			printHistory(cmd.OutOrStdout(), revs, time.Now())
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", store.HistoryLimit, "Number of saves to show.")

	topLevel.AddCommand(cmd)
}

func addRestore(topLevel *cobra.Command, ro *rootOptions) {
	cmd := &cobra.Command{
		Use:   "restore ID",
		Short: "roll the trip back to an earlier save",
		Example: `
voyage history
voyage restore 42
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid save id %q", args[0])
			}

			e, err := open(cmd.Context(), ro.ConfigFile)
			if err != nil {
				return err
			}
			defer e.Close()

			if _, err := e.Store.Restore(trip.StateKey, id); err != nil {
				return err
			}
			e.Log.Info("restored save", "id", id)
			_, _ = green.Fprintf(cmd.OutOrStdout(), "Restored save %d\n", id)
			return nil
		},
	}

	topLevel.AddCommand(cmd)
}
