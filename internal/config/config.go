// Package config loads dirtree settings from an HCL file.
//
//	disk {
//	  capacity      = 70000000
//	  required_free = 30000000
//	}
//	report {
//	  ceiling      = 100000
//	  include_root = false
//	}
//	log {
//	  level  = "info"
//	  format = "console"
//	}
//
// Every block and attribute is optional.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/hclsimple"
	"go.uber.org/zap/zapcore"

	"github.com/agentic-research/dirtree/internal/report"
)

// DefaultPath is read when present and no path is given explicitly.
const DefaultPath = "dirtree.hcl"

const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// Config holds all dirtree configuration.
type Config struct {
	Disk   DiskConfig
	Report ReportConfig
	Log    LogConfig
}

// DiskConfig describes the disk the tree lives on.
type DiskConfig struct {
	Capacity     uint64
	RequiredFree uint64
}

// ReportConfig tunes the small-directory sum.
type ReportConfig struct {
	Ceiling     uint64
	IncludeRoot bool
}

// LogConfig selects the zap level and encoding.
type LogConfig struct {
	Level  string
	Format string
}

func Default() Config {
	p := report.DefaultParams()
	return Config{
		Disk:   DiskConfig{Capacity: p.Capacity, RequiredFree: p.RequiredFree},
		Report: ReportConfig{Ceiling: p.Ceiling, IncludeRoot: p.IncludeRoot},
		Log:    LogConfig{Level: "info", Format: FormatConsole},
	}
}

// HCL shapes. Pointers mark what the file actually set.
type fileConfig struct {
	Disk   *diskBlock   `hcl:"disk,block"`
	Report *reportBlock `hcl:"report,block"`
	Log    *logBlock    `hcl:"log,block"`
}

type diskBlock struct {
	Capacity     *int64 `hcl:"capacity,optional"`
	RequiredFree *int64 `hcl:"required_free,optional"`
}

type reportBlock struct {
	Ceiling     *int64 `hcl:"ceiling,optional"`
	IncludeRoot *bool  `hcl:"include_root,optional"`
}

type logBlock struct {
	Level  *string `hcl:"level,optional"`
	Format *string `hcl:"format,optional"`
}

// Load reads and validates the file at path.
func Load(path string) (Config, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return Parse(path, src)
}

// LoadDefault loads DefaultPath if it exists, or returns Default().
func LoadDefault() (Config, error) {
	if _, err := os.Stat(DefaultPath); errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return Load(DefaultPath)
}

// Parse decodes HCL source over the defaults. filename picks the syntax
// (".hcl" or ".json") and appears in diagnostics.
func Parse(filename string, src []byte) (Config, error) {
	var fc fileConfig
	if err := hclsimple.Decode(filename, src, nil, &fc); err != nil {
		return Config{}, fmt.Errorf("decode config %s: %w", filename, err)
	}

	cfg := Default()
	if err := fc.apply(&cfg); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", filename, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", filename, err)
	}
	return cfg, nil
}

func (fc *fileConfig) apply(cfg *Config) error {
	if b := fc.Disk; b != nil {
		if err := setSize(&cfg.Disk.Capacity, "disk.capacity", b.Capacity); err != nil {
			return err
		}
		if err := setSize(&cfg.Disk.RequiredFree, "disk.required_free", b.RequiredFree); err != nil {
			return err
		}
	}
	if b := fc.Report; b != nil {
		if err := setSize(&cfg.Report.Ceiling, "report.ceiling", b.Ceiling); err != nil {
			return err
		}
		if b.IncludeRoot != nil {
			cfg.Report.IncludeRoot = *b.IncludeRoot
		}
	}
	if b := fc.Log; b != nil {
		if b.Level != nil {
			cfg.Log.Level = *b.Level
		}
		if b.Format != nil {
			cfg.Log.Format = *b.Format
		}
	}
	return nil
}

func setSize(dst *uint64, name string, v *int64) error {
	if v == nil {
		return nil
	}
	if *v < 0 {
		return fmt.Errorf("%s must not be negative, got %d", name, *v)
	}
	*dst = uint64(*v)
	return nil
}

// Validate checks cross-field constraints.
func (c Config) Validate() error {
	if c.Disk.RequiredFree > c.Disk.Capacity {
		return fmt.Errorf("disk.required_free (%d) exceeds disk.capacity (%d)",
			c.Disk.RequiredFree, c.Disk.Capacity)
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	switch c.Log.Format {
	case FormatConsole, FormatJSON:
	default:
		return fmt.Errorf("log.format must be %q or %q, got %q", FormatConsole, FormatJSON, c.Log.Format)
	}
	return nil
}

// ReportParams converts the config into report parameters.
func (c Config) ReportParams() report.Params {
	return report.Params{
		Capacity:     c.Disk.Capacity,
		RequiredFree: c.Disk.RequiredFree,
		Ceiling:      c.Report.Ceiling,
		IncludeRoot:  c.Report.IncludeRoot,
	}
}
