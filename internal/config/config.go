// Package config loads atfkit settings from a TOML or YAML file.
//
// Example (TOML):
//
//	[log]
//	level = "info"
//	format = "json"
//
//	[batch]
//	workers = 8
//	cache_size = 512
//
//	[check]
//	fail_on = "warning"
//
//	[output]
//	compress = "xz"
package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	atferrors "github.com/FocuswithJustin/atfkit/core/errors"
	"github.com/FocuswithJustin/atfkit/internal/fileio"
	"github.com/FocuswithJustin/atfkit/internal/logging"
)

// Format is the configuration file format.
type Format int

const (
	// FormatTOML is the default format.
	FormatTOML Format = iota
	FormatYAML
)

func (f Format) String() string {
	if f == FormatYAML {
		return "yaml"
	}
	return "toml"
}

// EnvPrefix prefixes the environment variables read by ApplyEnv.
const EnvPrefix = "ATFKIT_"

// Config holds every setting. Zero values are replaced by defaults.
type Config struct {
	Log    LogConfig    `toml:"log" yaml:"log"`
	Batch  BatchConfig  `toml:"batch" yaml:"batch"`
	Check  CheckConfig  `toml:"check" yaml:"check"`
	Output OutputConfig `toml:"output" yaml:"output"`
}

// LogConfig configures internal/logging.
type LogConfig struct {
	Level  string `toml:"level" yaml:"level"`
	Format string `toml:"format" yaml:"format"`
}

// BatchConfig configures corpus processing.
type BatchConfig struct {
	Workers   int `toml:"workers" yaml:"workers"`
	CacheSize int `toml:"cache_size" yaml:"cache_size"`
}

// CheckConfig sets the severity at which a check fails.
type CheckConfig struct {
	FailOn string `toml:"fail_on" yaml:"fail_on"`
}

// OutputConfig configures written files.
type OutputConfig struct {
	Compress string `toml:"compress" yaml:"compress"`
}

// Default returns the settings used when no file is given.
func Default() *Config {
	return &Config{
		Log:    LogConfig{Level: "warn", Format: "text"},
		Batch:  BatchConfig{Workers: 4, CacheSize: 256},
		Check:  CheckConfig{FailOn: "error"},
		Output: OutputConfig{Compress: "none"},
	}
}

// DetectFormat picks the format from the file extension.
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatTOML
}

// Load reads a configuration file. An empty path returns Default.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, atferrors.NewIO("read config", path, err)
	}
	cfg, err := Parse(data, DetectFormat(path))
	if err != nil {
		var pe *atferrors.ParseError
		if atferrors.As(err, &pe) {
			pe.Path = path
		}
		return nil, err
	}
	return cfg, nil
}

// Parse decodes configuration data, fills defaults and validates it.
func Parse(data []byte, format Format) (*Config, error) {
	cfg := &Config{}
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && !atferrors.Is(err, io.EOF) {
			return nil, atferrors.NewParse("YAML", "", err.Error())
		}
	default:
		md, err := toml.Decode(string(data), cfg)
		if err != nil {
			return nil, atferrors.NewParse("TOML", "", err.Error())
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, atferrors.NewValidation(undecoded[0].String(), "unknown configuration key")
		}
	}
	cfg.fillDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) fillDefaults() {
	d := Default()
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
	if c.Log.Format == "" {
		c.Log.Format = d.Log.Format
	}
	if c.Batch.Workers == 0 {
		c.Batch.Workers = d.Batch.Workers
	}
	if c.Batch.CacheSize == 0 {
		c.Batch.CacheSize = d.Batch.CacheSize
	}
	if c.Check.FailOn == "" {
		c.Check.FailOn = d.Check.FailOn
	}
	if c.Output.Compress == "" {
		c.Output.Compress = d.Output.Compress
	}
}

// Validate checks every value.
func (c *Config) Validate() error {
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return err
	}
	if _, err := logging.ParseFormat(c.Log.Format); err != nil {
		return err
	}
	if c.Batch.Workers < 1 {
		return atferrors.NewValidation("batch.workers", "must be at least 1")
	}
	if c.Batch.CacheSize < 0 {
		return atferrors.NewValidation("batch.cache_size", "must not be negative")
	}
	if _, err := atferrors.ParseSeverity(c.Check.FailOn); err != nil {
		return err
	}
	if _, err := fileio.ParseCompression(c.Output.Compress); err != nil {
		return err
	}
	return nil
}

// ApplyEnv overrides settings from ATFKIT_LOG_LEVEL, ATFKIT_LOG_FORMAT,
// ATFKIT_BATCH_WORKERS, ATFKIT_BATCH_CACHE_SIZE, ATFKIT_CHECK_FAIL_ON and
// ATFKIT_OUTPUT_COMPRESS, then validates the result.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		"LOG_LEVEL":       &c.Log.Level,
		"LOG_FORMAT":      &c.Log.Format,
		"CHECK_FAIL_ON":   &c.Check.FailOn,
		"OUTPUT_COMPRESS": &c.Output.Compress,
	}
	for key, dst := range strs {
		if v, ok := lookup(EnvPrefix + key); ok {
			*dst = v
		}
	}
	ints := map[string]*int{
		"BATCH_WORKERS":    &c.Batch.Workers,
		"BATCH_CACHE_SIZE": &c.Batch.CacheSize,
	}
	for key, dst := range ints {
		v, ok := lookup(EnvPrefix + key)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return atferrors.NewValidation(EnvPrefix+key, fmt.Sprintf("not a number: %q", v))
		}
		*dst = n
	}
	return c.Validate()
}

// Encode writes the configuration in the given format.
func (c *Config) Encode(format Format) ([]byte, error) {
	if format == FormatYAML {
		return yaml.Marshal(c)
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
