package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefault(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("default config is invalid: %s", err)
	}
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
workers: 8
addr: "0.0.0.0:8080"
metrics_addr: ":9100"
log_level: debug
sleep_delay: 250ms
max_requests: 2
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %s", err)
	}

	if cfg.Workers != 8 || cfg.Addr != "0.0.0.0:8080" || cfg.MetricsAddr != ":9100" || cfg.MaxRequests != 2 {
		t.Errorf("unexpected config: %+v", cfg)
	}

	if d, _ := cfg.Delay(); d != 250*time.Millisecond {
		t.Errorf("Delay() = %s, want 250ms", d)
	}

	if level, _ := cfg.Level(); level != slog.LevelDebug {
		t.Errorf("Level() = %s, want DEBUG", level)
	}
}

func TestLoad_KeepsDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "workers: 2\n"))
	if err != nil {
		t.Fatalf("Load failed: %s", err)
	}

	if cfg.Workers != 2 {
		t.Errorf("Workers = %d, want 2", cfg.Workers)
	}
	if cfg.Addr != Default().Addr {
		t.Errorf("Addr = %q, want default %q", cfg.Addr, Default().Addr)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    error
	}{
		{name: "zero workers", content: "workers: 0\n", want: ErrInvalidWorkers},
		{name: "empty addr", content: "addr: \"\"\n", want: ErrMissingAddr},
		{name: "bad delay", content: "sleep_delay: soon\n"},
		{name: "negative delay", content: "sleep_delay: -1s\n"},
		{name: "bad level", content: "log_level: loud\n"},
		{name: "negative max requests", content: "max_requests: -1\n"},
		{name: "bad yaml", content: "workers: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			if err == nil {
				t.Fatal("Load succeeded, want error")
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Errorf("Load returned %v, want %v", err, tt.want)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Load returned %v, want os.ErrNotExist", err)
	}
}
