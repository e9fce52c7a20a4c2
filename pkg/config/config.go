package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config holds all configuration options for winnow.
type Config struct {
	// Quality filter thresholds applied before deduplication
	Quality QualityConfig `koanf:"quality_filters" toml:"quality_filters" yaml:"quality_filters"`

	// Deduplication parameters
	Dedup DedupConfig `koanf:"dedup" toml:"dedup" yaml:"dedup"`

	// Output settings
	Output OutputConfig `koanf:"output" toml:"output" yaml:"output"`

	// Workers bounds the per-record annotation pool (0 = NumCPU)
	Workers int `koanf:"workers" toml:"workers" yaml:"workers"`
}

// QualityConfig defines the keep/drop thresholds enforced by the quality
// gate. Immutable per run.
type QualityConfig struct {
	Enabled           bool    `koanf:"enabled" toml:"enabled" yaml:"enabled"`
	MinLOC            int     `koanf:"min_loc" toml:"min_loc" yaml:"min_loc"`
	MaxLOC            int     `koanf:"max_loc" toml:"max_loc" yaml:"max_loc"`
	MaxCyclomatic     float64 `koanf:"max_cyclomatic" toml:"max_cyclomatic" yaml:"max_cyclomatic"`
	MaxNesting        int     `koanf:"max_nesting" toml:"max_nesting" yaml:"max_nesting"`
	DropTrivial       bool    `koanf:"drop_trivial" toml:"drop_trivial" yaml:"drop_trivial"`
	AllowSyntheticDoc bool    `koanf:"allow_synthetic_docs" toml:"allow_synthetic_docs" yaml:"allow_synthetic_docs"`
}

// DedupConfig defines shingling and MinHash/LSH parameters. Immutable per
// run.
type DedupConfig struct {
	ShingleSize         int     `koanf:"shingle_size" toml:"shingle_size" yaml:"shingle_size"`
	MinhashPermutations int     `koanf:"minhash_permutations" toml:"minhash_permutations" yaml:"minhash_permutations"`
	LSHThreshold        float64 `koanf:"lsh_threshold" toml:"lsh_threshold" yaml:"lsh_threshold"`
}

// OutputConfig controls summary formatting.
type OutputConfig struct {
	Format string `koanf:"format" toml:"format" yaml:"format"` // text, json, markdown, toon
	Color  bool   `koanf:"color" toml:"color" yaml:"color"`
}

// DefaultConfig returns a config with sensible defaults. The dedup
// defaults mirror the pilot pipeline parameters.
func DefaultConfig() *Config {
	return &Config{
		Quality: QualityConfig{
			Enabled:           true,
			MinLOC:            5,
			MaxLOC:            400,
			MaxCyclomatic:     25,
			MaxNesting:        6,
			DropTrivial:       true,
			AllowSyntheticDoc: true,
		},
		Dedup: DedupConfig{
			ShingleSize:         7,
			MinhashPermutations: 128,
			LSHThreshold:        0.85,
		},
		Output: OutputConfig{
			Format: "text",
			Color:  true,
		},
		Workers: 0,
	}
}

// Load loads configuration from a file.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := DefaultConfig()

	// Determine parser based on extension
	var parser koanf.Parser
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		parser = toml.Parser()
	}

	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadOrDefault tries to load config from standard locations or returns
// defaults.
func LoadOrDefault() *Config {
	configNames := []string{
		"winnow.toml",
		"winnow.yaml",
		"winnow.yml",
		"winnow.json",
		".winnow.toml",
		".winnow.yaml",
		".winnow.yml",
		".winnow.json",
	}

	searchDirs := []string{".", ".winnow"}

	for _, dir := range searchDirs {
		for _, name := range configNames {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				cfg, err := Load(path)
				if err == nil {
					return cfg
				}
			}
		}
	}

	return DefaultConfig()
}
