// Command score runs saved OpenWeatherMap forecast payloads through the
// classifier and prints the aggregate view as JSON. Each *.json file in the
// input directory is one city; files are processed in name order and the file
// name (without extension) is the requested city.
//
// Usage:
//
//	go run ./cmd/score \
//	  -model models/rainfall_model.json \
//	  -in testdata/forecasts \
//	  -out view.json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/couchcryptid/rain-risk-service/internal/adapter/owm"
	"github.com/couchcryptid/rain-risk-service/internal/domain"
	"github.com/couchcryptid/rain-risk-service/internal/model"
	"github.com/couchcryptid/rain-risk-service/internal/observability"
	"github.com/couchcryptid/rain-risk-service/internal/pipeline"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		log.Fatal(err)
	}
}

func run(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("score", flag.ContinueOnError)
	modelPath := fs.String("model", "models/rainfall_model.json", "classifier artifact")
	inDir := fs.String("in", "", "directory of OpenWeatherMap /forecast JSON payloads")
	outPath := fs.String("out", "", "write JSON here instead of stdout")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *inDir == "" {
		fs.Usage()
		return fmt.Errorf("missing required flag: -in")
	}

	scorer, err := model.LoadScorer(*modelPath)
	if err != nil {
		return err
	}

	fetches, err := readPayloads(*inDir)
	if err != nil {
		return err
	}
	log.Printf("scoring %d cities", len(fetches))

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	agg := pipeline.NewAggregator(scorer, logger, observability.NewMetricsForTesting())
	result, err := agg.Aggregate(fetches)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	data = append(data, '\n')

	if *outPath == "" {
		_, err = stdout.Write(data)
		return err
	}
	if err := os.WriteFile(*outPath, data, 0o644); err != nil { //nolint:gosec // output artifact
		return fmt.Errorf("write %s: %w", *outPath, err)
	}
	log.Printf("wrote %s: %d series, %d failures", *outPath, len(result.View.Series), len(result.Failures))
	return nil
}

// readPayloads decodes every *.json file in dir. Files that cannot be read or
// decoded become fetch failures for that city.
func readPayloads(dir string) ([]domain.FetchResult, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)

	fetches := make([]domain.FetchResult, 0, len(paths))
	for _, p := range paths {
		city := strings.TrimSuffix(filepath.Base(p), filepath.Ext(p))
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", p, err)
		}
		fc, err := owm.DecodeForecast(data)
		if err != nil {
			fetches = append(fetches, domain.FetchResult{
				City: city,
				Err:  fmt.Errorf("%s: %w: %w", filepath.Base(p), domain.ErrFetchFailed, err),
			})
			continue
		}
		fetches = append(fetches, domain.FetchResult{City: city, Forecast: fc})
	}
	return fetches, nil
}
