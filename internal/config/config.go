// Package config loads the blackjack.hcl configuration file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/lox/blackjack/internal/blackjack"
	"github.com/lox/blackjack/internal/deck"
)

// DefaultFile is looked up in the working directory when no path is given
const DefaultFile = "blackjack.hcl"

// Config represents the complete configuration. Every block is optional.
type Config struct {
	Table      *TableSettings      `hcl:"table,block"`
	UI         *UISettings         `hcl:"ui,block"`
	Simulation *SimulationSettings `hcl:"simulation,block"`
}

// TableSettings chooses the shoe and bankroll
type TableSettings struct {
	Decks        int `hcl:"decks,optional"`
	StartingCash int `hcl:"starting_cash,optional"`
}

// UISettings contains user interface settings
type UISettings struct {
	LogLevel string `hcl:"log_level,optional"`
	LogFile  string `hcl:"log_file,optional"`
	Color    *bool  `hcl:"color,optional"`
}

// SimulationSettings sizes the simulate command
type SimulationSettings struct {
	Sessions int `hcl:"sessions,optional"`
	Rounds   int `hcl:"rounds,optional"`
	Workers  int `hcl:"workers,optional"`
}

// Default returns the configuration used when no file exists
func Default() *Config {
	color := true
	return &Config{
		Table: &TableSettings{
			Decks:        deck.MinDecks,
			StartingCash: blackjack.DefaultStartingCash,
		},
		UI: &UISettings{
			LogLevel: "info",
			LogFile:  "blackjack.log",
			Color:    &color,
		},
		Simulation: &SimulationSettings{
			Sessions: 1000,
			Rounds:   100,
		},
	}
}

// Load reads filename, returning defaults when it does not exist
func Load(filename string) (*Config, error) {
	src, err := os.ReadFile(filename)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(src, filename)
}

// Parse decodes HCL source and fills in defaults for anything left out
func Parse(src []byte, filename string) (*Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config Config
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	config.applyDefaults(Default())
	return &config, nil
}

func (c *Config) applyDefaults(defaults *Config) {
	if c.Table == nil {
		c.Table = defaults.Table
	}
	if c.Table.Decks == 0 {
		c.Table.Decks = defaults.Table.Decks
	}
	if c.Table.StartingCash == 0 {
		c.Table.StartingCash = defaults.Table.StartingCash
	}

	if c.UI == nil {
		c.UI = defaults.UI
	}
	if c.UI.LogLevel == "" {
		c.UI.LogLevel = defaults.UI.LogLevel
	}
	if c.UI.LogFile == "" {
		c.UI.LogFile = defaults.UI.LogFile
	}
	if c.UI.Color == nil {
		c.UI.Color = defaults.UI.Color
	}

	if c.Simulation == nil {
		c.Simulation = defaults.Simulation
	}
	if c.Simulation.Sessions == 0 {
		c.Simulation.Sessions = defaults.Simulation.Sessions
	}
	if c.Simulation.Rounds == 0 {
		c.Simulation.Rounds = defaults.Simulation.Rounds
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := c.SessionConfig().Validate(); err != nil {
		return err
	}

	if _, err := log.ParseLevel(c.UI.LogLevel); err != nil {
		return fmt.Errorf("invalid log level: %s", c.UI.LogLevel)
	}

	if c.Simulation.Sessions <= 0 {
		return fmt.Errorf("simulation sessions must be positive")
	}
	if c.Simulation.Rounds <= 0 {
		return fmt.Errorf("simulation rounds must be positive")
	}
	if c.Simulation.Workers < 0 {
		return fmt.Errorf("simulation workers cannot be negative")
	}
	return nil
}

// SessionConfig returns the table settings as a session configuration
func (c *Config) SessionConfig() blackjack.SessionConfig {
	return blackjack.SessionConfig{
		Decks:        c.Table.Decks,
		StartingCash: c.Table.StartingCash,
	}
}

// LogLevel returns the parsed log level, info when unparseable
func (c *Config) LogLevel() log.Level {
	level, err := log.ParseLevel(c.UI.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return level
}

// ColorEnabled reports whether terminal colours are wanted
func (c *Config) ColorEnabled() bool {
	return c.UI.Color == nil || *c.UI.Color
}
