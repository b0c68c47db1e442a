package config

import "time"

// Config holds runtime settings for the Bikes-Shop client.
//
// Fields:
//   - ServerBaseURL: base URL of the backend service (http scheme; the push
//     channel derives its ws URL from it).
//   - OnlineCheckInterval: how often the client probes server reachability.
//   - DebounceCount: consecutive agreeing probes required before a
//     connectivity transition is published.
//   - RequestTimeout: per-call timeout for remote requests; a timed-out call
//     is treated as a transport error.
//   - CacheDSN: sqlite DSN of the local cache database.
type Config struct {
	ServerBaseURL       string
	OnlineCheckInterval time.Duration
	DebounceCount       int
	RequestTimeout      time.Duration
	CacheDSN            string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerBaseURL = "http://localhost:3000"
	c.OnlineCheckInterval = 3 * time.Second
	c.DebounceCount = 2
	c.RequestTimeout = 10 * time.Second
	c.CacheDSN = "bikes.db"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
