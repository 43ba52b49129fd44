package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	atferrors "github.com/FocuswithJustin/atfkit/core/errors"
)

func TestLoadDefault(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error = %v", err)
	}
	if *cfg != *Default() {
		t.Errorf("Load(\"\") = %+v, want defaults", cfg)
	}
}

func TestLoadFormats(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"atf.toml": "[log]\nlevel = \"debug\"\nformat = \"json\"\n[batch]\nworkers = 8\n[output]\ncompress = \"xz\"\n",
		"atf.yaml": "log:\n  level: debug\n  format: json\nbatch:\n  workers: 8\noutput:\n  compress: xz\n",
		"atf.yml":  "log: {level: debug, format: json}\nbatch: {workers: 8}\noutput: {compress: xz}\n",
	}
	for name, body := range files {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			if err := os.WriteFile(path, []byte(body), 0644); err != nil {
				t.Fatal(err)
			}
			cfg, err := Load(path)
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			want := Config{
				Log:    LogConfig{Level: "debug", Format: "json"},
				Batch:  BatchConfig{Workers: 8, CacheSize: 256},
				Check:  CheckConfig{FailOn: "error"},
				Output: OutputConfig{Compress: "xz"},
			}
			if *cfg != want {
				t.Errorf("Load() = %+v, want %+v", *cfg, want)
			}
		})
	}
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"a.toml", FormatTOML},
		{"a.YAML", FormatYAML},
		{"a.yml", FormatYAML},
		{"a", FormatTOML},
	}
	for _, tt := range tests {
		if got := DetectFormat(tt.path); got != tt.want {
			t.Errorf("DetectFormat(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name   string
		data   string
		format Format
		want   error
	}{
		{"bad toml", "[log\n", FormatTOML, atferrors.ErrInvalidInput},
		{"bad yaml", "log: [\n", FormatYAML, atferrors.ErrInvalidInput},
		{"unknown toml key", "[log]\ncolour = \"red\"\n", FormatTOML, atferrors.ErrInvalidInput},
		{"unknown yaml key", "log:\n  colour: red\n", FormatYAML, atferrors.ErrInvalidInput},
		{"bad level", "[log]\nlevel = \"loud\"\n", FormatTOML, atferrors.ErrInvalidInput},
		{"bad workers", "batch:\n  workers: -2\n", FormatYAML, atferrors.ErrInvalidInput},
		{"bad fail_on", "[check]\nfail_on = \"never\"\n", FormatTOML, atferrors.ErrInvalidInput},
		{"bad compress", "output:\n  compress: zip\n", FormatYAML, atferrors.ErrUnsupported},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data), tt.format)
			if err == nil {
				t.Fatal("Parse() error = nil")
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("Parse() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestParseEmpty(t *testing.T) {
	for _, f := range []Format{FormatTOML, FormatYAML} {
		cfg, err := Parse(nil, f)
		if err != nil {
			t.Fatalf("Parse(empty %s) error = %v", f, err)
		}
		if *cfg != *Default() {
			t.Errorf("Parse(empty %s) = %+v, want defaults", f, cfg)
		}
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "none.toml"))
	var ioErr *atferrors.IOError
	if !errors.As(err, &ioErr) {
		t.Errorf("Load(missing) error = %v, want IOError", err)
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"ATFKIT_LOG_LEVEL":        "error",
		"ATFKIT_BATCH_WORKERS":    "2",
		"ATFKIT_CHECK_FAIL_ON":    "warning",
		"ATFKIT_OUTPUT_COMPRESS":  "gzip",
		"ATFKIT_BATCH_CACHE_SIZE": "0",
	}
	lookup := func(k string) (string, bool) { v, ok := env[k]; return v, ok }

	cfg := Default()
	if err := cfg.ApplyEnv(lookup); err != nil {
		t.Fatalf("ApplyEnv() error = %v", err)
	}
	want := Config{
		Log:    LogConfig{Level: "error", Format: "text"},
		Batch:  BatchConfig{Workers: 2, CacheSize: 0},
		Check:  CheckConfig{FailOn: "warning"},
		Output: OutputConfig{Compress: "gzip"},
	}
	if *cfg != want {
		t.Errorf("ApplyEnv() = %+v, want %+v", *cfg, want)
	}

	env["ATFKIT_BATCH_WORKERS"] = "many"
	if err := Default().ApplyEnv(lookup); err == nil || !strings.Contains(err.Error(), "not a number") {
		t.Errorf("ApplyEnv() error = %v, want not a number", err)
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Batch.Workers = 3
	for _, f := range []Format{FormatTOML, FormatYAML} {
		data, err := cfg.Encode(f)
		if err != nil {
			t.Fatalf("Encode(%s) error = %v", f, err)
		}
		back, err := Parse(data, f)
		if err != nil {
			t.Fatalf("Parse(Encode(%s)) error = %v\n%s", f, err, data)
		}
		if *back != *cfg {
			t.Errorf("round trip %s = %+v, want %+v", f, back, cfg)
		}
	}
}
