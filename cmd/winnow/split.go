package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/panbanda/winnow/internal/output"
	"github.com/panbanda/winnow/pkg/parser"
	"github.com/panbanda/winnow/pkg/structure"
)

func splitCmd() *cli.Command {
	return &cli.Command{
		Name:      "split",
		Usage:     "Generate prefix/completion split candidates for one snippet",
		ArgsUsage: "<file>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "language",
				Aliases: []string{"l"},
				Usage:   "Snippet language (default: detect from extension)",
			},
		},
		Action: runSplitCmd,
	}
}

func runSplitCmd(c *cli.Context) error {
	if c.Args().Len() != 1 {
		return fmt.Errorf("split requires exactly one file argument")
	}
	path := c.Args().First()

	code, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	langTag := c.String("language")
	if langTag == "" {
		lang := parser.DetectLanguage(path)
		if lang == parser.LangUnknown {
			return fmt.Errorf("cannot detect language for %s, pass --language", path)
		}
		langTag = string(lang)
	}

	analyzer := structure.New()
	defer analyzer.Close()

	candidates := analyzer.Split(string(code), langTag)
	if len(candidates) == 0 {
		color.Yellow("No split candidates found")
		return nil
	}

	formatter, err := output.NewFormatter(output.ParseFormat(c.String("format")), c.String("output"), true)
	if err != nil {
		return err
	}
	defer formatter.Close()

	var rows [][]string
	for _, cand := range candidates {
		rows = append(rows, []string{
			string(cand.Type),
			fmt.Sprintf("%d", strings.Count(cand.Prefix, "\n")),
			fmt.Sprintf("%d", strings.Count(cand.Completion, "\n")),
			firstLine(cand.Completion),
		})
	}

	table := output.NewTable(
		"Split Candidates",
		[]string{"Type", "Prefix Lines", "Completion Lines", "Completion Start"},
		rows,
		[]string{fmt.Sprintf("Candidates: %d", len(candidates))},
		candidates,
	)
	return formatter.Output(table)
}

func firstLine(s string) string {
	s = strings.TrimLeft(s, "\n")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	s = strings.TrimSpace(s)
	if len(s) > 60 {
		s = s[:57] + "..."
	}
	return s
}
