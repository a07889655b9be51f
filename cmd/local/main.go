package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/joho/godotenv"
	"github.com/kr/pretty"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/jusunglee/mta-bustime/internal/logging"
	"github.com/jusunglee/mta-bustime/internal/models"
	"github.com/jusunglee/mta-bustime/pkg/mta"
)

func main() {
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "bustime-local",
		Usage: "Print upcoming buses near a point",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "api-key", Usage: "MTA Bus Time API key", EnvVars: []string{"MTA_API_KEY"}},
			&cli.Float64Flag{Name: "lat", Value: 40.84634603880562, Usage: "Latitude"},
			&cli.Float64Flag{Name: "lon", Value: -73.93382115690994, Usage: "Longitude"},
			&cli.Float64Flag{Name: "span", Value: 0.005, Usage: "Search rectangle span in degrees"},
			&cli.BoolFlag{Name: "dump", Usage: "Print the raw result"},
			&cli.BoolFlag{Name: "debug", Usage: "Enable debug logging"},
		},
		Action: lookup,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal().Err(err).Send()
	}
}

func lookup(c *cli.Context) error {
	logging.Setup("console", c.Bool("debug"))

	apiKey := c.String("api-key")
	if apiKey == "" {
		return fmt.Errorf("MTA API key required (use --api-key flag or MTA_API_KEY env var)")
	}

	config := mta.DefaultConfig()
	config.LatSpan = c.Float64("span")
	config.LonSpan = c.Float64("span")

	client, err := mta.New(config)
	if err != nil {
		return err
	}

	lat, lon := c.Float64("lat"), c.Float64("lon")
	result, err := client.GetBusData(c.Context, apiKey, lat, lon)
	if err != nil {
		return fmt.Errorf("failed to get bus data: %w", err)
	}

	if c.Bool("dump") {
		pretty.Println(result)
		return nil
	}

	printResult(lat, lon, result)
	return nil
}

func printResult(lat, lon float64, result models.AggregateResult) {
	fmt.Printf("\nBuses near (%.4f, %.4f):\n", lat, lon)
	if len(result) == 0 {
		fmt.Println("  nothing arriving soon")
		return
	}

	for _, stopName := range sortedKeys(result) {
		fmt.Printf("\n%s\n", stopName)

		lines := result[stopName]
		for _, line := range sortedKeys(lines) {
			for _, arrival := range lines[line] {
				fmt.Printf("  %-6s %-30s %s\n", line, arrival.Destination, arrival.Status)
			}
		}
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
