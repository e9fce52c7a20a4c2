package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/panbanda/winnow/internal/output"
	"github.com/panbanda/winnow/internal/progress"
	"github.com/panbanda/winnow/pkg/docquality"
	"github.com/panbanda/winnow/pkg/structure"
)

func docscoreCmd() *cli.Command {
	return &cli.Command{
		Name:      "docscore",
		Aliases:   []string{"docs"},
		Usage:     "Score record documentation quality",
		ArgsUsage: "[input.jsonl]",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "expected-tokens",
				Value: 60,
				Usage: "Docstring length at which the length component saturates",
			},
		},
		Action: runDocscoreCmd,
	}
}

type docscoreRow struct {
	FilePath  string  `json:"file_path"`
	Function  string  `json:"function,omitempty"`
	Score     float64 `json:"score"`
	Tier      string  `json:"tier"`
	Synthetic bool    `json:"synthetic"`
}

func runDocscoreCmd(c *cli.Context) error {
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
	scorer := docquality.New(docquality.WithExpectedTokens(c.Int("expected-tokens")))

	tracker := progress.NewTracker("Scoring documentation...", len(records))
	results := make([]docscoreRow, 0, len(records))
	for _, rec := range records {
		name, params, parsedDoc, _ := analyzer.FunctionInfo(rec.Code, rec.Language)

		doc := rec.Docstring
		if doc == "" {
			doc = parsedDoc
		}
		synthetic := false
		if doc == "" {
			doc = docquality.SyntheticTemplate(name, params)
			synthetic = true
		}

		scored := scorer.Score(name, params, doc)
		results = append(results, docscoreRow{
			FilePath:  rec.FilePath,
			Function:  name,
			Score:     scored.Score,
			Tier:      string(scored.Tier),
			Synthetic: synthetic,
		})
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
		tierStr := r.Tier
		if formatter.Colored() {
			switch r.Tier {
			case string(docquality.TierHigh):
				tierStr = color.GreenString(r.Tier)
			case string(docquality.TierLow):
				tierStr = color.RedString(r.Tier)
			default:
				tierStr = color.YellowString(r.Tier)
			}
		}
		syntheticStr := ""
		if r.Synthetic {
			syntheticStr = "yes"
		}
		rows = append(rows, []string{
			r.FilePath,
			r.Function,
			fmt.Sprintf("%.2f", r.Score),
			tierStr,
			syntheticStr,
		})
	}

	table := output.NewTable(
		"Documentation Quality",
		[]string{"File", "Function", "Score", "Tier", "Synthetic"},
		rows,
		[]string{fmt.Sprintf("Records: %d", len(results))},
		results,
	)
	return formatter.Output(table)
}
