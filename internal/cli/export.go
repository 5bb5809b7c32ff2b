package cli

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"

	"github.com/sadopc/voyage/internal/export"
	"github.com/sadopc/voyage/internal/trip"
)

type exportOptions struct {
	Day int
	Out string
}

var exportKinds = []string{"itinerary", "day", "budget", "csv", "json"}

func addExport(topLevel *cobra.Command, ro *rootOptions) {
	eo := &exportOptions{}

	cmd := &cobra.Command{
		Use:   "export KIND",
		Short: "write the itinerary or budget to a file",
		Example: `
voyage export itinerary
voyage export day --day 3 --out ~/Desktop/day3.html
voyage export budget
voyage export csv
voyage export json
`,
		ValidArgs: exportKinds,
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := open(cmd.Context(), ro.ConfigFile)
			if err != nil {
				return err
			}
			defer e.Close()

			path, err := runExport(e, args[0], *eo, time.Now())
			if err != nil {
				return err
			}
			_, _ = green.Fprintln(cmd.OutOrStdout(), "Exported to "+path)
			return nil
		},
	}
	cmd.Flags().IntVar(&eo.Day, "day", 1, "Day number for the day export.")
	cmd.Flags().StringVarP(&eo.Out, "out", "o", "", "Output file (default: a dated name in export_dir).")

	topLevel.AddCommand(cmd)
}

func runExport(e *env, kind string, eo exportOptions, now time.Time) (string, error) {
	s := e.Trip.State()
	stamp := now.Format(trip.DateLayout)
	title := e.Config.Trip.Location

	var (
		name   string
		render func(path string) error
	)
	switch kind {
	case "itinerary":
		name = "voyage-itinerary-" + stamp + ".html"
		render = func(path string) error { return export.ToItineraryHTML(title, s.Itinerary, path) }
	case "day":
		day, ok := dayByNumber(s.Itinerary, eo.Day)
		if !ok {
			return "", fmt.Errorf("no day %d in the itinerary", eo.Day)
		}
		name = "voyage-day-" + day.Date + ".html"
		render = func(path string) error {
			return export.ToItineraryHTML(fmt.Sprintf("%s · Day %d", title, day.DayNumber), []trip.DayPlan{day}, path)
		}
	case "budget":
		name = "voyage-budget-" + stamp + ".html"
		render = func(path string) error { return export.ToBudgetHTML(s, path) }
	case "csv":
		name = "voyage-activities-" + stamp + ".csv"
		render = func(path string) error { return export.ToCSV(s.Itinerary, path) }
	case "json":
		name = "voyage-budget-" + stamp + ".json"
		render = func(path string) error { return export.ToJSON(s, path) }
	default:
		return "", fmt.Errorf("unknown export kind %q", kind)
	}

	path := filepath.Join(e.Config.ExportDir, name)
	if eo.Out != "" {
		expanded, err := homedir.Expand(eo.Out)
		if err != nil {
			return "", fmt.Errorf("expand output path: %w", err)
		}
		path = expanded
	}
	if err := render(path); err != nil {
		return "", err
	}
	e.Log.Info("exported", "kind", kind, "path", path)
	return path, nil
}

func dayByNumber(it trip.Itinerary, n int) (trip.DayPlan, bool) {
	for _, d := range it {
		if d.DayNumber == n {
			return d, true
		}
	}
	return trip.DayPlan{}, false
}
