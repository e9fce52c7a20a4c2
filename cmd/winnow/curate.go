package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/panbanda/winnow/internal/jsonl"
	"github.com/panbanda/winnow/internal/output"
	"github.com/panbanda/winnow/internal/progress"
	"github.com/panbanda/winnow/pkg/curate"
	"github.com/panbanda/winnow/pkg/models"
)

func curateCmd() *cli.Command {
	return &cli.Command{
		Name:      "curate",
		Usage:     "Run the full curation batch: filter, dedup, emit kept records",
		ArgsUsage: "[input.jsonl]",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Annotation worker count (0 = NumCPU)",
			},
			&cli.IntFlag{
				Name:  "shingle-size",
				Usage: "Tokens per shingle for MinHash signatures",
			},
			&cli.IntFlag{
				Name:  "permutations",
				Usage: "MinHash signature width",
			},
			&cli.Float64Flag{
				Name:  "threshold",
				Usage: "Near-duplicate similarity threshold (0.0-1.0)",
			},
			&cli.BoolFlag{
				Name:  "no-filter",
				Usage: "Disable quality filtering (dedup still runs)",
			},
		},
		Action: runCurate,
	}
}

func runCurate(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	if c.IsSet("workers") {
		cfg.Workers = c.Int("workers")
	}
	if c.IsSet("shingle-size") {
		cfg.Dedup.ShingleSize = c.Int("shingle-size")
	}
	if c.IsSet("permutations") {
		cfg.Dedup.MinhashPermutations = c.Int("permutations")
	}
	if c.IsSet("threshold") {
		cfg.Dedup.LSHThreshold = c.Float64("threshold")
	}
	if c.Bool("no-filter") {
		cfg.Quality.Enabled = false
	}
	if t := cfg.Dedup.LSHThreshold; t <= 0 || t > 1 {
		return fmt.Errorf("threshold must be in (0.0, 1.0], got %v", t)
	}

	records, skipped, err := readRecords(c)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		color.Yellow("No records found")
		return nil
	}

	tracker := progress.NewTracker("Curating records...", len(records))
	orch := curate.New(cfg)
	result, err := orch.RunWithProgress(records, tracker.Tick)
	tracker.FinishSuccess()
	if err != nil {
		return fmt.Errorf("curation failed: %w", err)
	}
	result.Summary.Skipped = skipped

	if err := writeKept(c.String("output"), result.Kept); err != nil {
		return err
	}

	return renderSummary(c, result)
}

// writeKept emits kept records as JSONL to path, or stdout when empty.
func writeKept(path string, kept []*models.Record) error {
	out := os.Stdout
	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("creating output %s: %w", path, err)
		}
		defer f.Close()
		out = f
	}

	w := jsonl.NewWriter(out)
	if err := w.WriteAll(kept); err != nil {
		return fmt.Errorf("writing records: %w", err)
	}
	return w.Flush()
}

// renderSummary prints the batch summary to stderr, keeping stdout clean
// for the record stream.
func renderSummary(c *cli.Context, result *curate.Result) error {
	s := result.Summary

	rows := [][]string{
		{"Total records", fmt.Sprintf("%d", s.Total)},
		{"Exact unique", fmt.Sprintf("%d", s.ExactUnique)},
		{"Near unique (kept)", fmt.Sprintf("%d", s.NearUnique)},
	}
	if s.Skipped > 0 {
		rows = append(rows, []string{"Skipped lines", fmt.Sprintf("%d", s.Skipped)})
	}

	reasons := make([]string, 0, len(s.Dropped))
	for reason := range s.Dropped {
		reasons = append(reasons, reason)
	}
	sort.Strings(reasons)
	for _, reason := range reasons {
		rows = append(rows, []string{"Dropped: " + reason, fmt.Sprintf("%d", s.Dropped[reason])})
	}

	if s.Stats != nil {
		rows = append(rows,
			[]string{"Mean cyclomatic", fmt.Sprintf("%.1f", s.Stats.MeanCyclomatic)},
			[]string{"P95 cyclomatic", fmt.Sprintf("%.1f", s.Stats.P95Cyclomatic)},
			[]string{"Mean doc score", fmt.Sprintf("%.2f", s.Stats.MeanDocScore)},
		)
	}

	var keptTokens int
	for _, rec := range result.Kept {
		keptTokens += output.EstimateTokens(rec.CodeNorm)
	}
	rows = append(rows, []string{"Est. corpus tokens", output.FormatTokenCount(keptTokens)})

	table := output.NewTable("Curation Summary", []string{"Metric", "Value"}, rows, nil, s)
	formatter := output.NewFormatterWriter(output.ParseFormat(c.String("format")), os.Stderr, true)
	return formatter.Output(table)
}
