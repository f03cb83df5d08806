package config

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// Config represents the complete game configuration
type Config struct {
	Table     TableSettings     `hcl:"table,block"`
	Estimator EstimatorSettings `hcl:"estimator,block"`
}

// TableSettings configures the table and session
type TableSettings struct {
	Players       int    `hcl:"players,optional"`
	StartingChips int    `hcl:"starting_chips,optional"`
	Ante          int    `hcl:"ante,optional"`
	MaxHands      int    `hcl:"max_hands,optional"`
	LogLevel      string `hcl:"log_level,optional"`
}

// EstimatorSettings configures the probability estimator
type EstimatorSettings struct {
	Workers int   `hcl:"workers,optional"`
	Budget  int64 `hcl:"budget,optional"`
	Samples int   `hcl:"samples,optional"`
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Table: TableSettings{
			Players:       4,
			StartingChips: 200,
			Ante:          1,
			MaxHands:      100,
			LogLevel:      "info",
		},
		Estimator: EstimatorSettings{
			Workers: 0, // 0 lets the estimator pick from the CPU count
			Budget:  10_000_000,
			Samples: 100_000,
		},
	}
}

// Load reads configuration from an HCL file. A missing file yields the
// defaults; a present but invalid file is an error.
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return Default(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var cfg Config
	diags = gohcl.DecodeBody(file.Body, nil, &cfg)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	applyDefaults(&cfg)
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	def := Default()
	if cfg.Table.Players == 0 {
		cfg.Table.Players = def.Table.Players
	}
	if cfg.Table.StartingChips == 0 {
		cfg.Table.StartingChips = def.Table.StartingChips
	}
	if cfg.Table.Ante == 0 {
		cfg.Table.Ante = def.Table.Ante
	}
	if cfg.Table.MaxHands == 0 {
		cfg.Table.MaxHands = def.Table.MaxHands
	}
	if cfg.Table.LogLevel == "" {
		cfg.Table.LogLevel = def.Table.LogLevel
	}
	if cfg.Estimator.Budget == 0 {
		cfg.Estimator.Budget = def.Estimator.Budget
	}
	if cfg.Estimator.Samples == 0 {
		cfg.Estimator.Samples = def.Estimator.Samples
	}
}

func validate(cfg *Config) error {
	if cfg.Table.Players < 2 || cfg.Table.Players > 10 {
		return fmt.Errorf("players must be between 2 and 10, got %d", cfg.Table.Players)
	}
	if cfg.Table.StartingChips <= 0 {
		return fmt.Errorf("starting_chips must be positive, got %d", cfg.Table.StartingChips)
	}
	if cfg.Table.Ante < 0 {
		return fmt.Errorf("ante cannot be negative, got %d", cfg.Table.Ante)
	}
	return nil
}
