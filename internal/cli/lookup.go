package cli

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sadopc/voyage/internal/trip"
)

var errOffline = errors.New("no API key configured (set VOYAGE_API_KEY or GEMINI_API_KEY)")

func addSearch(topLevel *cobra.Command, ro *rootOptions) {
	var save bool

	cmd := &cobra.Command{
		Use:   "search QUERY",
		Short: "look up a place",
		Example: `
voyage search "Raohe Night Market"
voyage search --save "Elephant Mountain"
`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := open(cmd.Context(), ro.ConfigFile)
			if err != nil {
				return err
			}
			defer e.Close()

			if !e.Lookup.Online() {
				return errOffline
			}
			query := strings.Join(args, " ")
			place := e.Lookup.SearchPlace(cmd.Context(), query)
			printPlace(cmd.OutOrStdout(), place)

			if !save {
				return nil
			}
			item, err := e.Trip.AddWishlist(trip.WishlistItem{Name: query})
			if err != nil {
				return err
			}
			if _, err := e.Trip.MergePlace(item.ID, place.Details()); err != nil {
				return err
			}
			_, _ = green.Fprintln(cmd.OutOrStdout(), "\nAdded to wishlist")
			return nil
		},
	}
	cmd.Flags().BoolVar(&save, "save", false, "Add the place to the wishlist.")

	topLevel.AddCommand(cmd)
}

func addWeather(topLevel *cobra.Command, ro *rootOptions) {
	var cached bool

	cmd := &cobra.Command{
		Use:   "weather",
		Short: "fetch the forecast for the first days of the trip",
		Example: `
voyage weather
voyage weather --cached
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := open(cmd.Context(), ro.ConfigFile)
			if err != nil {
				return err
			}
			defer e.Close()

			if cached {
				printWeather(cmd.OutOrStdout(), e.Trip.State().WeatherCache)
				return nil
			}
			if !e.Lookup.Online() {
				return errOffline
			}
			cards := e.Lookup.Weather(cmd.Context(), e.Config.WeatherDates())
			if _, err := e.Trip.SetWeather(cards); err != nil {
				return err
			}
			printWeather(cmd.OutOrStdout(), cards)
			return nil
		},
	}
	cmd.Flags().BoolVar(&cached, "cached", false, "Show the stored forecast without fetching.")

	topLevel.AddCommand(cmd)
}
