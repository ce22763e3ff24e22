package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestLoadJSON(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "config.json")
	writeFile(t, path, `{
		"logging": {"level": "debug", "console": true, "file": {"enabled": false, "path": ""}},
		"store": {"driver": "sqlite", "path": "./test.db"},
		"scheduler": {"enabled": true, "poll_interval": "30s"},
		"engine": {"workers": 8}
	}`)

	m := NewManager(path)
	cfg, err := m.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Logging.Level != "debug" || !cfg.Scheduler.Enabled || cfg.Engine.Workers != 8 {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if m.Get() != cfg {
		t.Fatal("Get should return the committed config")
	}
}

func TestLoadYAML(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, `
logging:
  level: info
  console: true
  file:
    enabled: false
    path: ""
store:
  driver: sqlite
  path: ./test.db
scheduler:
  enabled: true
  poll_interval: 1m
engine:
  workers: 4
`)

	cfg, err := NewManager(path).Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Store.Driver != "sqlite" || cfg.Scheduler.PollInterval != "1m" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestParseRejectsUnknownFields(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "config.json")
	writeFile(t, path, `{"logging": {}, "store": {}, "scheduler": {}, "engine": {}, "typo_section": {}}`)

	if _, err := NewManager(path).Parse(); err == nil {
		t.Fatal("expected error for unknown field")
	}
}

func TestParseRejectsTrailingData(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "config.json")
	writeFile(t, path, `{"logging": {}, "store": {}, "scheduler": {}, "engine": {}} {"extra": true}`)

	if _, err := NewManager(path).Parse(); err == nil {
		t.Fatal("expected error for trailing data")
	}
}

func TestParseRejectsBadDuration(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "config.json")
	writeFile(t, path, `{"logging": {}, "store": {}, "scheduler": {"poll_interval": "soon"}, "engine": {}}`)

	if _, err := NewManager(path).Parse(); err == nil {
		t.Fatal("expected error for invalid duration")
	}
}

func TestValidateDefaults(t *testing.T) {
	t.Parallel()
	var cfg Config
	d, err := cfg.Validate()
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if d.PollInterval != time.Minute {
		t.Fatalf("PollInterval = %v, want 1m", d.PollInterval)
	}
	if d.StopGrace != 30*time.Second {
		t.Fatalf("StopGrace = %v, want 30s", d.StopGrace)
	}
	if d.CacheTTL != 30*time.Minute {
		t.Fatalf("CacheTTL = %v, want 30m", d.CacheTTL)
	}
	if d.TokenTTL != time.Hour {
		t.Fatalf("TokenTTL = %v, want 1h", d.TokenTTL)
	}
}

func TestSubscribePublishUnsubscribe(t *testing.T) {
	t.Parallel()
	m := NewManager("unused")
	ch := m.Subscribe(1)

	cfg := &Config{}
	m.publish(cfg)

	select {
	case got := <-ch:
		if got != cfg {
			t.Fatal("wrong config delivered")
		}
	case <-time.After(time.Second):
		t.Fatal("no config delivered")
	}

	// Full buffer: newest replaces oldest rather than blocking.
	first, second := &Config{}, &Config{}
	m.publish(first)
	m.publish(second)
	select {
	case got := <-ch:
		if got != second {
			t.Fatal("expected the newest config after buffer overflow")
		}
	case <-time.After(time.Second):
		t.Fatal("no config delivered")
	}

	m.Unsubscribe(ch)
	if _, ok := <-ch; ok {
		t.Fatal("channel should be closed after Unsubscribe")
	}
	m.Unsubscribe(ch) // double unsubscribe is safe
}

func TestParseDurationField(t *testing.T) {
	t.Parallel()
	d, err := ParseDurationField("x", " 90s ")
	if err != nil || d != 90*time.Second {
		t.Fatalf("got %v/%v, want 90s", d, err)
	}
	if d, err := ParseDurationField("x", ""); err != nil || d != 0 {
		t.Fatalf("empty: got %v/%v, want 0", d, err)
	}
	if _, err := ParseDurationField("x", "-5s"); err == nil {
		t.Fatal("expected error for negative duration")
	}
	if _, err := ParseDurationField("x", "later"); err == nil {
		t.Fatal("expected error for junk")
	}

	if d, _ := ParseDurationOrDefault("x", "", 7*time.Second); d != 7*time.Second {
		t.Fatalf("default not applied: %v", d)
	}
}
