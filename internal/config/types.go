package config

import "time"

// Config is the daemon configuration. Files may be JSON or YAML; YAML is
// coerced to JSON so both formats share one strict decoder.
//
// All durations are Go duration strings (e.g. "500ms", "10s", "1m").
type Config struct {
	Logging   LoggingConfig   `json:"logging"`
	Store     StoreConfig     `json:"store"`
	Scheduler SchedulerConfig `json:"scheduler"`
	Engine    EngineConfig    `json:"engine"`
	Notify    NotifyConfig    `json:"notifications,omitempty"`
	Cache     CacheConfig     `json:"cache,omitempty"`
	Security  SecurityConfig  `json:"security,omitempty"`
}

type LoggingConfig struct {
	Level   string      `json:"level"`
	Console bool        `json:"console"`
	File    LoggingFile `json:"file"`
}

type LoggingFile struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path"`
}

// StoreConfig controls the persistence layer.
//
// Example:
//
//	"store": { "driver": "sqlite", "path": "./surveyd.db" }
type StoreConfig struct {
	Driver      string `json:"driver"`
	Path        string `json:"path,omitempty"`
	DSN         string `json:"dsn,omitempty"`
	BusyTimeout string `json:"busy_timeout,omitempty"` // sqlite only
}

// SchedulerConfig controls the poll loop.
//
// Defaults (when fields are omitted/zero):
//   - poll_interval: "1m"
//   - stop_grace: "30s"
type SchedulerConfig struct {
	Enabled      bool   `json:"enabled"`
	PollInterval string `json:"poll_interval,omitempty"`
	StopGrace    string `json:"stop_grace,omitempty"`
}

// EngineConfig controls per-run execution.
type EngineConfig struct {
	Workers  int    `json:"workers,omitempty"`   // default 4
	LinkBase string `json:"link_base,omitempty"` // survey URL prefix
}

// NotifyConfig controls outbound dispatch throttling.
type NotifyConfig struct {
	RatePerSec int `json:"rate_per_sec,omitempty"` // 0 disables throttling
}

// CacheConfig controls the cache-aside layer over survey reads.
type CacheConfig struct {
	Enabled bool   `json:"enabled"`
	TTL     string `json:"ttl,omitempty"` // default "30m"
}

// SecurityConfig controls field encryption and PHI tokenization.
type SecurityConfig struct {
	EncryptionSecret string `json:"encryption_secret,omitempty"`
	TokenTTL         string `json:"token_ttl,omitempty"`
	TokenMaxEntries  int    `json:"token_max_entries,omitempty"`
}

// Durations is the parsed view of every duration-string field, produced by
// Validate so consumers never re-parse.
type Durations struct {
	PollInterval time.Duration
	StopGrace    time.Duration
	BusyTimeout  time.Duration
	CacheTTL     time.Duration
	TokenTTL     time.Duration
}

// Validate checks all duration fields and returns their parsed values with
// defaults applied.
func (c *Config) Validate() (Durations, error) {
	var d Durations
	var err error
	if d.PollInterval, err = ParseDurationOrDefault("scheduler.poll_interval", c.Scheduler.PollInterval, time.Minute); err != nil {
		return d, err
	}
	if d.StopGrace, err = ParseDurationOrDefault("scheduler.stop_grace", c.Scheduler.StopGrace, 30*time.Second); err != nil {
		return d, err
	}
	if d.BusyTimeout, err = ParseDurationField("store.busy_timeout", c.Store.BusyTimeout); err != nil {
		return d, err
	}
	if d.CacheTTL, err = ParseDurationOrDefault("cache.ttl", c.Cache.TTL, 30*time.Minute); err != nil {
		return d, err
	}
	if d.TokenTTL, err = ParseDurationOrDefault("security.token_ttl", c.Security.TokenTTL, time.Hour); err != nil {
		return d, err
	}
	return d, nil
}
