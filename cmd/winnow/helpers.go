package main

import (
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/panbanda/winnow/internal/jsonl"
	"github.com/panbanda/winnow/pkg/config"
	"github.com/panbanda/winnow/pkg/models"
)

// loadConfig resolves the run config: explicit --config path, discovered
// file, or defaults.
func loadConfig(c *cli.Context) (*config.Config, error) {
	if path := c.String("config"); path != "" {
		cfg, err := config.Load(path)
		if err != nil {
			return nil, fmt.Errorf("loading config %s: %w", path, err)
		}
		return cfg, nil
	}
	return config.LoadOrDefault(), nil
}

// openInput returns the first positional argument as a reader, or stdin
// when no argument (or "-") is given.
func openInput(c *cli.Context) (io.ReadCloser, string, error) {
	if c.Args().Len() == 0 || c.Args().First() == "-" {
		return os.Stdin, "stdin", nil
	}
	path := c.Args().First()
	f, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("opening input %s: %w", path, err)
	}
	return f, path, nil
}

// readRecords materializes all valid records from the command's input,
// returning the skipped-line count alongside.
func readRecords(c *cli.Context) ([]*models.Record, int, error) {
	in, _, err := openInput(c)
	if err != nil {
		return nil, 0, err
	}
	defer in.Close()

	reader, err := jsonl.NewReader(in)
	if err != nil {
		return nil, 0, err
	}
	records, err := reader.ReadAll()
	if err != nil {
		return nil, 0, err
	}
	return records, reader.Skipped(), nil
}
