// Package cli wires configuration, storage and lookups into the voyage
// command tree.
package cli

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/sadopc/voyage/internal/tui"
)

type rootOptions struct {
	ConfigFile string
}

// New returns the voyage root command. Run without a subcommand it opens the
// terminal UI.
func New() *cobra.Command {
	ro := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "voyage",
		Short:         "Plan a trip from the terminal: itinerary, budget, wishlist and packing.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := open(cmd.Context(), ro.ConfigFile)
			if err != nil {
				return err
			}
			defer e.Close()

			app := tui.NewApp(tui.Deps{
				Trip:         e.Trip,
				Store:        e.Store,
				Lookup:       e.Lookup,
				Title:        e.Config.Trip.Location,
				ExportDir:    e.Config.ExportDir,
				WeatherDates: e.Config.WeatherDates(),
			})
			p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
			_, err = p.Run()
			return err
		},
	}
	cmd.PersistentFlags().StringVar(&ro.ConfigFile, "config", "", "Config file (default: config.yaml next to the database).")

	AddCommands(cmd, ro)
	return cmd
}

func AddCommands(topLevel *cobra.Command, ro *rootOptions) {
	addBudget(topLevel, ro)
	addExport(topLevel, ro)
	addHistory(topLevel, ro)
	addRestore(topLevel, ro)
	addSearch(topLevel, ro)
	addWeather(topLevel, ro)
}
