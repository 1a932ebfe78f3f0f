package util

import (
	"os"

	"github.com/BurntSushi/toml"
)

// Configuration carries the settings the front end passes down. Values come
// from flags, optionally seeded from a TOML file; flags win.
type Configuration struct {
	Version   string
	BuildDate string
	Commit    string

	Timezone string `toml:"timezone"`
	LogLevel string `toml:"log_level"`
	LogFile  string `toml:"log_file"`
	Script   string `toml:"script"`
}

// LoadFile merges settings from a TOML file into the configuration. Fields
// already set keep their values.
func (c *Configuration) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var file Configuration
	if err := toml.Unmarshal(data, &file); err != nil {
		return err
	}
	if c.Timezone == "" {
		c.Timezone = file.Timezone
	}
	if c.LogLevel == "" {
		c.LogLevel = file.LogLevel
	}
	if c.LogFile == "" {
		c.LogFile = file.LogFile
	}
	if c.Script == "" {
		c.Script = file.Script
	}
	return nil
}
