package config

import (
	"fmt"
	"time"
)

// Defaults holds the validated settings a config file may change.
type Defaults struct {
	Interval    time.Duration
	Separator   string
	Align       bool
	Headers     bool
	ShowCommand bool
	Flush       bool
	Source      string
	DebugLevel  int
}

// BuiltinDefaults are used for anything the config file leaves out.
func BuiltinDefaults(source string) Defaults {
	return Defaults{
		Interval:  time.Second,
		Separator: "  ",
		Align:     true,
		Headers:   true,
		Source:    source,
	}
}

// Resolve overlays cfg (may be nil) on base and validates the result.
func Resolve(cfg *Config, base Defaults) (Defaults, error) {
	d := base
	if cfg == nil {
		return d, nil
	}
	if cfg.Interval != nil {
		if *cfg.Interval <= 0 {
			return Defaults{}, fmt.Errorf("interval must be > 0 seconds (got: %v)", *cfg.Interval)
		}
		d.Interval = time.Duration(*cfg.Interval * float64(time.Second))
	}
	if cfg.Separator != nil {
		d.Separator = *cfg.Separator
	}
	if cfg.Align != nil {
		d.Align = *cfg.Align
	}
	if cfg.Headers != nil {
		d.Headers = *cfg.Headers
	}
	if cfg.ShowCommand != nil {
		d.ShowCommand = *cfg.ShowCommand
	}
	if cfg.Flush != nil {
		d.Flush = *cfg.Flush
	}
	if cfg.Source != nil {
		switch *cfg.Source {
		case "ps", "psutil":
			d.Source = *cfg.Source
		default:
			return Defaults{}, fmt.Errorf("source must be \"ps\" or \"psutil\" (got: %q)", *cfg.Source)
		}
	}
	if cfg.DebugLevel != nil {
		if *cfg.DebugLevel < 0 || *cfg.DebugLevel > 3 {
			return Defaults{}, fmt.Errorf("debug_level must be 0-3 (got: %d)", *cfg.DebugLevel)
		}
		d.DebugLevel = *cfg.DebugLevel
	}
	return d, nil
}
