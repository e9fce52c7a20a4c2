package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/panbanda/winnow/internal/output"
	"github.com/panbanda/winnow/internal/progress"
	"github.com/panbanda/winnow/pkg/structure"
)

func complexityCmd() *cli.Command {
	return &cli.Command{
		Name:      "complexity",
		Aliases:   []string{"cx"},
		Usage:     "Annotate records with cyclomatic complexity and nesting depth",
		ArgsUsage: "[input.jsonl]",
		Flags: []cli.Flag{
			&cli.Float64Flag{
				Name:  "cyclomatic-threshold",
				Value: 25,
				Usage: "Cyclomatic complexity warning threshold",
			},
			&cli.IntFlag{
				Name:  "nesting-threshold",
				Value: 6,
				Usage: "Nesting depth warning threshold",
			},
		},
		Action: runComplexityCmd,
	}
}

type complexityRow struct {
	FilePath   string  `json:"file_path"`
	StartLine  int     `json:"start_line"`
	Language   string  `json:"language"`
	Cyclomatic float64 `json:"cyclomatic_complexity"`
	Nesting    int     `json:"nesting_depth"`
	ParseError bool    `json:"parse_error,omitempty"`
}

func runComplexityCmd(c *cli.Context) error {
	cycThreshold := c.Float64("cyclomatic-threshold")
	nestThreshold := c.Int("nesting-threshold")

	records, _, err := readRecords(c)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		color.Yellow("No records found")
		return nil
	}

	analyzer := structure.New()
	defer analyzer.Close()

	tracker := progress.NewTracker("Analyzing complexity...", len(records))
	results := make([]complexityRow, 0, len(records))
	for _, rec := range records {
		row := complexityRow{
			FilePath:  rec.FilePath,
			StartLine: rec.StartLine,
			Language:  rec.Language,
		}
		cyclomatic, cErr := analyzer.Complexity(rec.Code, rec.Language)
		if cErr != nil {
			cyclomatic = 1
			row.ParseError = true
		}
		nesting, nErr := analyzer.NestingDepth(rec.Code, rec.Language)
		if nErr != nil {
			nesting = 0
			row.ParseError = true
		}
		row.Cyclomatic = cyclomatic
		row.Nesting = nesting
		results = append(results, row)
		tracker.Tick()
	}
	tracker.FinishSuccess()

	formatter, err := output.NewFormatter(output.ParseFormat(c.String("format")), c.String("output"), true)
	if err != nil {
		return err
	}
	defer formatter.Close()

	var rows [][]string
	for _, r := range results {
		cycStr := fmt.Sprintf("%.0f", r.Cyclomatic)
		nestStr := fmt.Sprintf("%d", r.Nesting)
		if formatter.Colored() {
			if r.Cyclomatic > cycThreshold {
				cycStr = color.RedString(cycStr)
			}
			if r.Nesting > nestThreshold {
				nestStr = color.RedString(nestStr)
			}
		}
		rows = append(rows, []string{
			fmt.Sprintf("%s:%d", r.FilePath, r.StartLine),
			r.Language,
			cycStr,
			nestStr,
		})
	}

	table := output.NewTable(
		"Structural Complexity",
		[]string{"Location", "Language", "Cyclomatic", "Nesting"},
		rows,
		[]string{fmt.Sprintf("Records: %d", len(results))},
		results,
	)
	return formatter.Output(table)
}
