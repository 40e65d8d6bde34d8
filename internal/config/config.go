// Package config loads syrupy.config.json, the optional file of sampling
// defaults that command-line flags override.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// FileName is the config file looked up in the syrupy home and /etc.
const FileName = "syrupy.config.json"

// Home returns the syrupy state directory, respecting SYRUPY_HOME env var.
func Home() string {
	if h := os.Getenv("SYRUPY_HOME"); h != "" {
		return h
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".syrupy")
}

// Config is the raw parsed syrupy.config.json. Absent keys are nil.
type Config struct {
	Interval    *float64 `json:"interval"`
	Separator   *string  `json:"separator"`
	Align       *bool    `json:"align"`
	Headers     *bool    `json:"headers"`
	ShowCommand *bool    `json:"show_command"`
	Flush       *bool    `json:"flush"`
	Source      *string  `json:"source"`
	DebugLevel  *int     `json:"debug_level"`
}

type LoadResult struct {
	Config *Config
	Path   string // file path used, empty if none
	Source string // "found", "--config flag", ""
}

// Load searches for the config file and parses it.
// Search order: configFlag (if set), then home/syrupy.config.json, then /etc/syrupy.config.json.
// If configFlag is set and file doesn't exist, returns error.
// If no file found, returns empty LoadResult (all defaults).
func Load(home string, configFlag string) (*LoadResult, error) {
	if configFlag != "" {
		cfg, err := readFile(configFlag)
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("config file not found: %s", configFlag)
		}
		if err != nil {
			return nil, err
		}
		return &LoadResult{Config: cfg, Path: configFlag, Source: "--config flag"}, nil
	}

	for _, path := range []string{
		filepath.Join(home, FileName),
		filepath.Join("/etc", FileName),
	} {
		cfg, err := readFile(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return &LoadResult{Config: cfg, Path: path, Source: "found"}, nil
	}
	return &LoadResult{}, nil
}

func readFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("config file not readable: %s - %w", path, err)
	}
	var cfg Config
	if err := unmarshalStrict(data, &cfg, path); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func unmarshalStrict(data []byte, cfg *Config, path string) error {
	if err := json.Unmarshal(data, cfg); err != nil {
		if synErr, ok := err.(*json.SyntaxError); ok {
			line, col := lineCol(data, synErr.Offset)
			return fmt.Errorf("%s: invalid JSON at line %d, column %d: %s", path, line, col, synErr)
		}
		return fmt.Errorf("%s: invalid JSON - %w", path, err)
	}
	return nil
}

func lineCol(data []byte, offset int64) (int, int) {
	line := 1
	col := 1
	for i := int64(0); i < offset && i < int64(len(data)); i++ {
		if data[i] == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return line, col
}
