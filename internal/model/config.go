package model

import (
	"fmt"
	"math"
	"time"
)

// Config is the full runtime configuration, loaded once per run
type Config struct {
	FactCheck   FactCheckConfig   `yaml:"fact_check" mapstructure:"fact_check"`
	Gates       GatesConfig       `yaml:"gates" mapstructure:"gates"`
	Registry    RegistryConfig    `yaml:"registry" mapstructure:"registry"`
	Search      SearchConfig      `yaml:"search" mapstructure:"search"`
	Review      ReviewConfig      `yaml:"review" mapstructure:"review"`
	Cache       CacheConfig       `yaml:"cache" mapstructure:"cache"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	HTTP        HTTPConfig        `yaml:"http" mapstructure:"http"`
	Output      OutputConfig      `yaml:"output" mapstructure:"output"`
}

// FactCheckConfig controls verification, scoring and gate derivation
type FactCheckConfig struct {
	Thresholds             Thresholds `yaml:"thresholds" mapstructure:"thresholds"`
	Weights                Weights    `yaml:"weights" mapstructure:"weights"`
	BlockOnCriticalFailure bool       `yaml:"block_on_critical_failure" mapstructure:"block_on_critical_failure"`
	MaxRetries             int        `yaml:"max_retries" mapstructure:"max_retries"`
	RetryDelayMs           int        `yaml:"retry_delay_ms" mapstructure:"retry_delay_ms"`
	CacheResults           bool       `yaml:"cache_results" mapstructure:"cache_results"`
	SearchDelayMs          int        `yaml:"search_delay_ms" mapstructure:"search_delay_ms"` // Fixed delay before each search fallback call
	CallTimeoutSec         int        `yaml:"call_timeout_sec" mapstructure:"call_timeout_sec"`
}

// Thresholds are the minimum category scores for the fact-check gate to pass
type Thresholds struct {
	Critical int `yaml:"critical" mapstructure:"critical"`
	Major    int `yaml:"major" mapstructure:"major"`
	Minor    int `yaml:"minor" mapstructure:"minor"`
	Overall  int `yaml:"overall" mapstructure:"overall"`
}

// Weights are the severity weights for the overall score. Must sum to 1.0.
type Weights struct {
	Critical float64 `yaml:"critical" mapstructure:"critical"`
	Major    float64 `yaml:"major" mapstructure:"major"`
	Minor    float64 `yaml:"minor" mapstructure:"minor"`
}

// GatesConfig partitions gate names into hard requirements and advisories.
// A warning-listed gate can still hard-block via its own BlockOnFailure flag.
type GatesConfig struct {
	Required []string `yaml:"required" mapstructure:"required"`
	Warning  []string `yaml:"warning" mapstructure:"warning"`
}

// RegistryConfig configures the official registry lookup source
type RegistryConfig struct {
	BaseURL    string `yaml:"base_url" mapstructure:"base_url"`
	ServiceKey string `yaml:"service_key" mapstructure:"service_key"`
	TimeoutSec int    `yaml:"timeout_sec" mapstructure:"timeout_sec"`
}

// SearchConfig configures the grounded web-search fallback
type SearchConfig struct {
	APIKey     string `yaml:"api_key" mapstructure:"api_key"`
	BaseURL    string `yaml:"base_url" mapstructure:"base_url"`
	Model      string `yaml:"model" mapstructure:"model"`
	MaxTokens  int    `yaml:"max_tokens" mapstructure:"max_tokens"`
	TimeoutSec int    `yaml:"timeout_sec" mapstructure:"timeout_sec"`
}

// ReviewConfig configures the human-review queue
type ReviewConfig struct {
	QueuePath string `yaml:"queue_path" mapstructure:"queue_path"`
	TTLDays   int    `yaml:"ttl_days" mapstructure:"ttl_days"` // Resolved cases older than this are dropped on load
}

// CacheConfig configures the layered verification cache
type CacheConfig struct {
	Dir       string        `yaml:"dir" mapstructure:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// ConcurrencyConfig bounds parallel work and the shared source rate limit
type ConcurrencyConfig struct {
	Workers           int     `yaml:"workers" mapstructure:"workers"` // 1 = fully sequential verification
	DocumentWorkers   int     `yaml:"document_workers" mapstructure:"document_workers"`
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	BurstSize         int     `yaml:"burst_size" mapstructure:"burst_size"`
}

// HTTPConfig holds outbound HTTP settings shared by source clients
type HTTPConfig struct {
	HTTPProxy  string `yaml:"http_proxy" mapstructure:"http_proxy"`
	HTTPSProxy string `yaml:"https_proxy" mapstructure:"https_proxy"`
	NoProxy    string `yaml:"no_proxy" mapstructure:"no_proxy"`
}

// OutputConfig controls CLI output
type OutputConfig struct {
	Verbose bool   `yaml:"verbose" mapstructure:"verbose"`
	Dir     string `yaml:"dir" mapstructure:"dir"`
}

// DefaultConfig returns the documented defaults
func DefaultConfig() *Config {
	return &Config{
		FactCheck: FactCheckConfig{
			Thresholds:             Thresholds{Critical: 100, Major: 85, Minor: 70, Overall: 80},
			Weights:                Weights{Critical: 0.3, Major: 0.3, Minor: 0.4},
			BlockOnCriticalFailure: true,
			MaxRetries:             3,
			RetryDelayMs:           1000,
			CacheResults:           true,
			SearchDelayMs:          500,
			CallTimeoutSec:         10,
		},
		Gates: GatesConfig{
			Required: []string{GateFactCheck, "seo", "content"},
			Warning:  []string{"readability", "duplicate_title", "keyword_density"},
		},
		Registry: RegistryConfig{
			BaseURL:    "https://apis.data.go.kr/B551011/KorService1",
			TimeoutSec: 10,
		},
		Search: SearchConfig{
			Model:      "gpt-4o-mini",
			MaxTokens:  500,
			TimeoutSec: 10,
		},
		Review: ReviewConfig{
			QueuePath: "", // Resolved to ~/.factgate/review-queue.json at startup
			TTLDays:   30,
		},
		Cache: CacheConfig{
			Dir:       "", // Resolved to ~/.factgate/cache at startup
			MemoryTTL: 1 * time.Hour,
			DiskTTL:   24 * time.Hour,
		},
		Concurrency: ConcurrencyConfig{
			Workers:           1,
			DocumentWorkers:   1,
			RequestsPerSecond: 2,
			BurstSize:         2,
		},
		Output: OutputConfig{
			Dir: "./factgate-reports",
		},
	}
}

// Validate fails fast on configuration that would make the scoring math
// silently wrong. Weights are never normalized here: a bad sum is an error.
func (c *Config) Validate() error {
	w := c.FactCheck.Weights
	sum := w.Critical + w.Major + w.Minor
	if math.Abs(sum-1.0) > 1e-9 {
		return fmt.Errorf("fact_check.weights must sum to 1.0, got %.4f", sum)
	}
	if w.Critical < 0 || w.Major < 0 || w.Minor < 0 {
		return fmt.Errorf("fact_check.weights must be non-negative")
	}

	t := c.FactCheck.Thresholds
	for name, v := range map[string]int{
		"critical": t.Critical, "major": t.Major, "minor": t.Minor, "overall": t.Overall,
	} {
		if v < 0 || v > 100 {
			return fmt.Errorf("fact_check.thresholds.%s must be in [0,100], got %d", name, v)
		}
	}

	if c.FactCheck.MaxRetries < 1 {
		return fmt.Errorf("fact_check.max_retries must be >= 1, got %d", c.FactCheck.MaxRetries)
	}
	if c.FactCheck.RetryDelayMs < 0 {
		return fmt.Errorf("fact_check.retry_delay_ms must be >= 0, got %d", c.FactCheck.RetryDelayMs)
	}
	if c.Concurrency.Workers < 1 {
		return fmt.Errorf("concurrency.workers must be >= 1, got %d", c.Concurrency.Workers)
	}

	return nil
}
