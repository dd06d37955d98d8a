package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/blackjack/internal/blackjack"
	"github.com/lox/blackjack/internal/deck"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.hcl"))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 1, cfg.Table.Decks)
	assert.Equal(t, 500, cfg.Table.StartingCash)
	assert.Equal(t, "blackjack.log", cfg.UI.LogFile)
	assert.True(t, cfg.ColorEnabled())
	assert.Equal(t, log.InfoLevel, cfg.LogLevel())
}

func TestParseFullFile(t *testing.T) {
	src := `
table {
  decks         = 6
  starting_cash = 1200
}

ui {
  log_level = "debug"
  log_file  = "/tmp/bj.log"
  color     = false
}

simulation {
  sessions = 50
  rounds   = 20
  workers  = 2
}
`
	cfg, err := Parse([]byte(src), "blackjack.hcl")
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, blackjack.SessionConfig{Decks: 6, StartingCash: 1200}, cfg.SessionConfig())
	assert.Equal(t, log.DebugLevel, cfg.LogLevel())
	assert.False(t, cfg.ColorEnabled())
	assert.Equal(t, 50, cfg.Simulation.Sessions)
	assert.Equal(t, 20, cfg.Simulation.Rounds)
	assert.Equal(t, 2, cfg.Simulation.Workers)
}

func TestParsePartialFileKeepsDefaults(t *testing.T) {
	cfg, err := Parse([]byte("table {\n  decks = 4\n}\n"), "blackjack.hcl")
	require.NoError(t, err)

	assert.Equal(t, 4, cfg.Table.Decks)
	assert.Equal(t, 500, cfg.Table.StartingCash)
	assert.Equal(t, "info", cfg.UI.LogLevel)
	assert.Equal(t, 1000, cfg.Simulation.Sessions)
}

func TestLoadFromDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFile)
	require.NoError(t, os.WriteFile(path, []byte("table {\n  starting_cash = 2000\n}\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2000, cfg.Table.StartingCash)
}

func TestParseRejectsMalformed(t *testing.T) {
	_, err := Parse([]byte("table {"), "blackjack.hcl")
	assert.Error(t, err)

	_, err = Parse([]byte("table {\n  jokers = true\n}\n"), "blackjack.hcl")
	assert.Error(t, err, "unknown attributes are rejected")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		is     error
	}{
		{"too many decks", func(c *Config) { c.Table.Decks = 9 }, deck.ErrInvalidDeckCount},
		{"cash below minimum", func(c *Config) { c.Table.StartingCash = 50 }, blackjack.ErrInvalidStartingCash},
		{"cash not a multiple of 100", func(c *Config) { c.Table.StartingCash = 450 }, blackjack.ErrInvalidStartingCash},
		{"unknown log level", func(c *Config) { c.UI.LogLevel = "chatty" }, nil},
		{"no sessions", func(c *Config) { c.Simulation.Sessions = -1 }, nil},
		{"negative workers", func(c *Config) { c.Simulation.Workers = -2 }, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			if tt.is != nil {
				assert.ErrorIs(t, err, tt.is)
			}
		})
	}
}
