package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/kelseyhightower/envconfig"
	"github.com/pavanmanishd/fixedblock"
)

const envVarPrefix = "BLOCKSTRESS"

// Config holds the stress run settings.
type Config struct {
	Threads    int    `envconfig:"THREADS"     default:"8"`
	Iterations int    `envconfig:"ITERATIONS"  default:"100000"`
	Blocks     int    `envconfig:"BLOCKS"      default:"16"`
	BlockSize  int    `envconfig:"BLOCK_SIZE"  default:"16"`
	IndexWidth int    `envconfig:"INDEX_WIDTH" default:"16"`
	Mapped     bool   `envconfig:"MAPPED"      default:"false"`
	LogLevel   string `envconfig:"LOG_LEVEL"   default:"info"`
}

// LoadConfig reads the BLOCKSTRESS_* environment variables.
func LoadConfig() (*Config, error) {
	var c Config
	if err := envconfig.Process(envVarPrefix, &c); err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}
	return &c, nil
}

// Validate checks the settings against the limits of the chosen index width.
func (c *Config) Validate() error {
	var errs []error
	if c.Threads < 1 {
		errs = append(errs, fmt.Errorf("threads must be positive, got %d", c.Threads))
	}
	if c.Iterations < 0 {
		errs = append(errs, fmt.Errorf("iterations must not be negative, got %d", c.Iterations))
	}
	if c.Blocks < 1 {
		errs = append(errs, fmt.Errorf("blocks must be positive, got %d", c.Blocks))
	}

	var indexSize, maxBlocks int
	switch c.IndexWidth {
	case 8:
		indexSize, maxBlocks = fixedblock.IndexSize[uint8](), fixedblock.MaxBlocks[uint8]()
	case 16:
		indexSize, maxBlocks = fixedblock.IndexSize[uint16](), fixedblock.MaxBlocks[uint16]()
	case 32:
		indexSize, maxBlocks = fixedblock.IndexSize[uint32](), fixedblock.MaxBlocks[uint32]()
	default:
		errs = append(errs, fmt.Errorf("index width must be 8, 16 or 32, got %d", c.IndexWidth))
	}
	if indexSize > 0 {
		if c.Blocks > maxBlocks {
			errs = append(errs, fmt.Errorf("%d-bit indices address at most %d blocks, got %d",
				c.IndexWidth, maxBlocks, c.Blocks))
		}
		if c.BlockSize < indexSize {
			errs = append(errs, fmt.Errorf("block size must be at least %d for %d-bit indices, got %d",
				indexSize, c.IndexWidth, c.BlockSize))
		}
	}

	if _, err := c.Level(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Level parses LogLevel.
func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("log level: %w", err)
	}
	return level, nil
}
