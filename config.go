// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package titlescout

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/poiesic/titlescout/query"
	"github.com/poiesic/titlescout/storage"
	"github.com/poiesic/titlescout/suggest"
)

// ErrInvalidConfig indicates a configuration value is out of range.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds the tuning knobs of the suggestion pipeline.
// Every field is independently overridable; zero values fall back to the
// stated defaults.
type Config struct {
	// SuggestHost is the base URL of the remote suggestion endpoint.
	SuggestHost string `yaml:"suggest_host"`

	// MaxQueriesSearch caps the probe list derived from a search term.
	// Default: 40
	MaxQueriesSearch int `yaml:"max_queries_search"`

	// MaxQueriesDiscover caps the probe list used in discovery mode.
	// Default: 40
	MaxQueriesDiscover int `yaml:"max_queries_discover"`

	// Concurrency is the number of concurrent lookup workers.
	// Default: 6
	Concurrency int `yaml:"concurrency"`

	// PerRequestTimeoutMs bounds one remote lookup, in milliseconds.
	// Default: 2500
	PerRequestTimeoutMs int `yaml:"per_request_timeout_ms"`

	// GlobalTimeoutMs bounds one whole fetch session, in milliseconds.
	// Once it passes, no new lookups start. Default: 12000
	GlobalTimeoutMs int `yaml:"global_timeout_ms"`

	// InterRequestDelayMs throttles each worker between lookups,
	// in milliseconds. Default: 30
	InterRequestDelayMs int `yaml:"inter_request_delay_ms"`

	// HistoryLimit caps the deduplicated session history.
	// Default: 15
	HistoryLimit int `yaml:"history_limit"`

	// CacheSize is the suggest response cache capacity, in payloads.
	// Negative disables the cache; zero falls back to the default (256).
	CacheSize int `yaml:"cache_size"`
}

// DefaultConfig returns a configuration with every documented default.
func DefaultConfig() *Config {
	return &Config{
		SuggestHost:         suggest.DefaultHost,
		MaxQueriesSearch:    query.DefaultMaxQueriesSearch,
		MaxQueriesDiscover:  query.DefaultMaxQueriesDiscover,
		Concurrency:         suggest.DefaultConcurrency,
		PerRequestTimeoutMs: int(suggest.DefaultPerRequestTimeout.Milliseconds()),
		GlobalTimeoutMs:     int(suggest.DefaultGlobalTimeout.Milliseconds()),
		InterRequestDelayMs: int(suggest.DefaultInterRequestDelay.Milliseconds()),
		HistoryLimit:        storage.DefaultHistoryLimit,
		CacheSize:           suggest.DefaultCacheSize,
	}
}

// LoadConfig reads a YAML config file over the defaults.
// Fields absent from the file keep their default values.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that no knob is out of range.
func (c *Config) Validate() error {
	if c.SuggestHost == "" {
		return fmt.Errorf("%w: suggest_host must not be empty", ErrInvalidConfig)
	}
	if c.MaxQueriesSearch < 0 || c.MaxQueriesDiscover < 0 {
		return fmt.Errorf("%w: query caps must not be negative", ErrInvalidConfig)
	}
	if c.Concurrency < 0 {
		return fmt.Errorf("%w: concurrency must not be negative", ErrInvalidConfig)
	}
	if c.PerRequestTimeoutMs < 0 || c.GlobalTimeoutMs < 0 || c.InterRequestDelayMs < 0 {
		return fmt.Errorf("%w: timeouts must not be negative", ErrInvalidConfig)
	}
	if c.HistoryLimit < 0 {
		return fmt.Errorf("%w: history_limit must not be negative", ErrInvalidConfig)
	}
	return nil
}
