package main

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	c, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, Config{
		Threads:    8,
		Iterations: 100000,
		Blocks:     16,
		BlockSize:  16,
		IndexWidth: 16,
		LogLevel:   "info",
	}, *c)
	assert.NoError(t, c.Validate())
}

func TestLoadConfigEnvironment(t *testing.T) {
	t.Setenv("BLOCKSTRESS_THREADS", "3")
	t.Setenv("BLOCKSTRESS_BLOCKS", "200")
	t.Setenv("BLOCKSTRESS_BLOCK_SIZE", "4")
	t.Setenv("BLOCKSTRESS_INDEX_WIDTH", "8")
	t.Setenv("BLOCKSTRESS_MAPPED", "true")
	t.Setenv("BLOCKSTRESS_LOG_LEVEL", "debug")

	c, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 3, c.Threads)
	assert.Equal(t, 200, c.Blocks)
	assert.Equal(t, 4, c.BlockSize)
	assert.Equal(t, 8, c.IndexWidth)
	assert.True(t, c.Mapped)
	require.NoError(t, c.Validate())

	level, err := c.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}

func TestLoadConfigMalformed(t *testing.T) {
	t.Setenv("BLOCKSTRESS_THREADS", "many")
	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestConfigValidate(t *testing.T) {
	valid := Config{Threads: 2, Iterations: 10, Blocks: 4, BlockSize: 8, IndexWidth: 16, LogLevel: "warn"}

	tests := []struct {
		name        string
		modify      func(c *Config)
		wantErr     bool
		wantContain string
	}{
		{name: "valid", modify: func(c *Config) {}},
		{
			name:        "no threads",
			modify:      func(c *Config) { c.Threads = 0 },
			wantErr:     true,
			wantContain: "threads",
		},
		{
			name:        "negative iterations",
			modify:      func(c *Config) { c.Iterations = -1 },
			wantErr:     true,
			wantContain: "iterations",
		},
		{
			name:        "unknown width",
			modify:      func(c *Config) { c.IndexWidth = 64 },
			wantErr:     true,
			wantContain: "index width",
		},
		{
			name:        "too many blocks for uint8",
			modify:      func(c *Config) { c.IndexWidth = 8; c.Blocks = 255 },
			wantErr:     true,
			wantContain: "at most 254",
		},
		{
			name:        "link does not fit",
			modify:      func(c *Config) { c.IndexWidth = 32; c.BlockSize = 2 },
			wantErr:     true,
			wantContain: "at least 4",
		},
		{
			name:        "bad log level",
			modify:      func(c *Config) { c.LogLevel = "loud" },
			wantErr:     true,
			wantContain: "log level",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid
			tt.modify(&c)
			err := c.Validate()
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantContain)
		})
	}
}
