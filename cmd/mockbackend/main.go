package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"cpi-console/internal/logging"
	"cpi-console/internal/mockserver"

	"github.com/mattn/go-isatty"
)

func main() {
	addr := flag.String("addr", envOr("MOCK_ADDR", "127.0.0.1:8889"), "Listen address")
	scenario := flag.String("scenario", "mild", "Scenario to generate: mild, chaos, drift")
	seed := flag.Int64("seed", 1, "Random seed for the generated index")
	legacyMonths := flag.Int("legacy-months", mockserver.DefaultLegacyMonths, "Months covered by the legacy endpoints")
	dump := flag.String("dump", "", "Write the generated series as JSONL into this directory and exit")
	flag.Parse()

	gen := mockserver.GeneratorConfig{
		Scenario: *scenario,
		Seed:     *seed,
		Now:      time.Now(),
	}

	if *dump != "" {
		fmt.Printf("Generating scenario '%s' (Seed: %d) to %s...\n", gen.Scenario, gen.Seed, *dump)
		path, err := mockserver.Save(*dump, "cpi_"+gen.Scenario, mockserver.Generate(gen))
		if err != nil {
			fmt.Printf("Failed to save mock data: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Done: %s\n", path)
		return
	}

	logger := logging.New(os.Stderr, !isatty.IsTerminal(os.Stderr.Fd()))
	srv := mockserver.New(logger, mockserver.Config{
		Addr:         *addr,
		Generator:    gen,
		LegacyMonths: *legacyMonths,
	})
	if err := srv.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}
