package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.LogDir != "logs" {
		t.Errorf("LogDir = %q, want logs", cfg.LogDir)
	}
	if cfg.Prefix != "facefusion" {
		t.Errorf("Prefix = %q, want facefusion", cfg.Prefix)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "callwatch.toml")
	body := "log_dir = \"/var/log/fusion\"\nprefix = \"fusion\"\nconsole = true\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.LogDir != "/var/log/fusion" || cfg.Prefix != "fusion" || !cfg.Console {
		t.Errorf("unexpected config: %+v", cfg)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "callwatch.toml")
	if err := os.WriteFile(path, []byte("log_dir = \"logs\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvLogDir, "/tmp/override")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.LogDir != "/tmp/override" {
		t.Errorf("LogDir = %q, want env override", cfg.LogDir)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want error
	}{
		{"empty log dir", Config{Prefix: "x"}, ErrMissingLogDir},
		{"empty prefix", Config{LogDir: "logs"}, ErrMissingPrefix},
		{"prefix with separator", Config{LogDir: "logs", Prefix: "a/b"}, ErrInvalidPrefix},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.Validate(); !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestPaths_DatePartitioned(t *testing.T) {
	cfg := Config{LogDir: "logs", Prefix: "facefusion"}
	day := time.Date(2026, 8, 29, 15, 0, 0, 0, time.UTC)

	if got, want := cfg.GlobalPath(day), filepath.Join("logs", "facefusion_20260829.log"); got != want {
		t.Errorf("GlobalPath = %q, want %q", got, want)
	}
	if got, want := cfg.CallablePath("add", day), filepath.Join("logs", "facefusion_add_20260829.log"); got != want {
		t.Errorf("CallablePath = %q, want %q", got, want)
	}
}

func TestCallablePath_SanitizesSymbols(t *testing.T) {
	cfg := Config{LogDir: "logs", Prefix: "facefusion"}
	day := time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)
	got := cfg.CallablePath("(*Server).Handle", day)
	want := filepath.Join("logs", "facefusion_Server.Handle_20260829.log")
	if got != want {
		t.Errorf("CallablePath = %q, want %q", got, want)
	}
}

func TestFormatLabel(t *testing.T) {
	if got := Default().FormatLabel(); got != "Config()" {
		t.Errorf("FormatLabel = %q", got)
	}
}
