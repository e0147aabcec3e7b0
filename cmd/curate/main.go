package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/etymograph/dailyverse/internal/app"
	"github.com/etymograph/dailyverse/internal/config"
	"github.com/etymograph/dailyverse/internal/filter"
	"github.com/etymograph/dailyverse/internal/logging"
	"github.com/etymograph/dailyverse/internal/model"
	"github.com/joho/godotenv"
)

type Issue struct {
	Word    string `json:"word"`
	Type    string `json:"type"`
	Details string `json:"details"`
}

type Report struct {
	ComputedAt   time.Time                  `json:"computedAt"`
	Words        []model.Word               `json:"words"`
	Distribution map[model.PartOfSpeech]int `json:"distribution"`
	Sources      map[string]int             `json:"sources"`
	Issues       []Issue                    `json:"issues,omitempty"`
}

func main() {
	asJSON := flag.Bool("json", false, "Print the report as JSON")
	count := flag.Int("count", 0, "Number of words to curate (default TARGET_WORD_COUNT)")
	timeout := flag.Duration("timeout", 2*time.Minute, "Overall run timeout")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *count > 0 {
		cfg.TargetWordCount = *count
	}

	// Keep stdout for the report.
	logLevel := cfg.LogLevel
	if *asJSON && logLevel == "info" {
		logLevel = "warn"
	}
	logger, err := logging.New(logLevel)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	daily, err := app.NewWordService(cfg, logger).Refresh(ctx)
	if err != nil {
		log.Fatalf("Curation failed: %v", err)
	}

	report := buildReport(daily, cfg.TargetWordCount)
	if *asJSON {
		err = writeJSON(os.Stdout, report)
	} else {
		err = writeText(os.Stdout, report, cfg.TargetWordCount)
	}
	if err != nil {
		log.Fatalf("Failed to write report: %v", err)
	}

	if len(report.Issues) > 0 {
		os.Exit(1)
	}
}

func buildReport(daily model.DailyWords, target int) Report {
	report := Report{
		ComputedAt:   daily.ComputedAt,
		Words:        daily.Words,
		Distribution: make(map[model.PartOfSpeech]int),
		Sources:      make(map[string]int),
	}

	seen := make(map[string]bool, len(daily.Words))
	for _, w := range daily.Words {
		report.Distribution[w.Type]++
		report.Sources[w.Source]++

		if !filter.IsAcceptable(w.Text) {
			report.Issues = append(report.Issues, Issue{
				Word:    w.Text,
				Type:    "REJECTED_BY_FILTER",
				Details: "Word fails the quality filter",
			})
		}
		if seen[w.Text] {
			report.Issues = append(report.Issues, Issue{
				Word:    w.Text,
				Type:    "DUPLICATE",
				Details: "Word appears more than once",
			})
		}
		seen[w.Text] = true
	}

	if len(daily.Words) > target {
		report.Issues = append(report.Issues, Issue{
			Type:    "TOO_MANY_WORDS",
			Details: fmt.Sprintf("%d words, limit is %d", len(daily.Words), target),
		})
	}

	return report
}

func writeJSON(w io.Writer, report Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

func writeText(w io.Writer, report Report, target int) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Curated %d/%d words at %s\n\n", len(report.Words), target, report.ComputedAt.UTC().Format(time.RFC3339))
	fmt.Fprintln(tw, "WORD\tTYPE\tSCORE\tSOURCE")
	for _, word := range report.Words {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", word.Text, word.Type, word.Score, word.Source)
	}

	fmt.Fprintln(tw, "\nTYPE\tCOUNT")
	for _, pos := range sortedKeys(report.Distribution) {
		fmt.Fprintf(tw, "%s\t%d\n", pos, report.Distribution[pos])
	}

	fmt.Fprintln(tw, "\nSOURCE\tCOUNT")
	for _, src := range sortedKeys(report.Sources) {
		fmt.Fprintf(tw, "%s\t%d\n", src, report.Sources[src])
	}

	if len(report.Issues) > 0 {
		fmt.Fprintf(tw, "\nFound %d issues:\n", len(report.Issues))
		for _, issue := range report.Issues {
			fmt.Fprintf(tw, "  [%s] %s: %s\n", issue.Type, issue.Word, issue.Details)
		}
	}
	return tw.Flush()
}

func sortedKeys[K ~string, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
