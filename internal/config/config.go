// Package config defines the bscan configuration and its loading rules.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/baseline-tools/bscan/internal/constants"
)

// Config is the main configuration structure
type Config struct {
	// Target is the baseline profile audits are scored against
	Target string `json:"target" mapstructure:"target" yaml:"target"`

	// MaxFiles bounds the number of files scanned per audit
	MaxFiles int `json:"maxFiles" mapstructure:"max_files" yaml:"max_files"`

	// Rules holds detection rule configuration
	Rules RulesConfig `json:"rules" mapstructure:"rules" yaml:"rules"`

	// Walker holds file discovery configuration
	Walker WalkerConfig `json:"walker" mapstructure:"walker" yaml:"walker"`

	// API holds remote status service configuration
	API APIConfig `json:"api" mapstructure:"api" yaml:"api"`

	// Targets optionally overrides the built-in target baseline table
	// (target name -> browser name -> minimum version)
	Targets map[string]map[string]float64 `json:"targets,omitempty" mapstructure:"targets" yaml:"targets,omitempty"`

	// Output holds output formatting configuration
	Output OutputConfig `json:"output" mapstructure:"output" yaml:"output"`
}

// RulesConfig holds detection rule source configuration
type RulesConfig struct {
	// Path points at a YAML rule file; empty uses the built-in rules
	Path string `json:"path,omitempty" mapstructure:"path" yaml:"path,omitempty"`
}

// WalkerConfig holds file discovery configuration
type WalkerConfig struct {
	// UseGitignore additionally honors the project root .gitignore
	UseGitignore bool `json:"use_gitignore" mapstructure:"use_gitignore" yaml:"use_gitignore"`
}

// APIConfig holds remote status service configuration
type APIConfig struct {
	// BaseURL is the WebStatus API endpoint
	BaseURL string `json:"base_url" mapstructure:"base_url" yaml:"base_url"`

	// TimeoutSeconds is the per-request timeout
	TimeoutSeconds int `json:"timeout_seconds" mapstructure:"timeout_seconds" yaml:"timeout_seconds"`

	// MaxConcurrency bounds concurrent status fetches
	MaxConcurrency int `json:"max_concurrency" mapstructure:"max_concurrency" yaml:"max_concurrency"`

	// CacheTTLMinutes is how long a cached status stays fresh
	CacheTTLMinutes int `json:"cache_ttl_minutes" mapstructure:"cache_ttl_minutes" yaml:"cache_ttl_minutes"`
}

// OutputConfig holds output formatting configuration
type OutputConfig struct {
	// Format specifies the output format: text, json
	Format string `json:"format" mapstructure:"format" yaml:"format"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Target:   constants.DefaultTarget,
		MaxFiles: constants.DefaultMaxFiles,
		Walker: WalkerConfig{
			UseGitignore: false,
		},
		API: APIConfig{
			BaseURL:         constants.DefaultAPIBaseURL,
			TimeoutSeconds:  constants.DefaultAPITimeoutSeconds,
			MaxConcurrency:  constants.DefaultMaxConcurrency,
			CacheTTLMinutes: constants.DefaultCacheTTLMinutes,
		},
		Output: OutputConfig{
			Format: constants.OutputFormatText,
		},
	}
}

// Validate checks configuration invariants, normalizing recoverable values
func (c *Config) Validate() error {
	if c.MaxFiles < 1 {
		return fmt.Errorf("max_files must be at least 1, got %d", c.MaxFiles)
	}
	if c.API.MaxConcurrency < 1 {
		c.API.MaxConcurrency = constants.DefaultMaxConcurrency
	}
	if c.API.TimeoutSeconds < 1 {
		c.API.TimeoutSeconds = constants.DefaultAPITimeoutSeconds
	}
	if c.API.CacheTTLMinutes < 1 {
		c.API.CacheTTLMinutes = constants.DefaultCacheTTLMinutes
	}
	if c.API.BaseURL == "" {
		c.API.BaseURL = constants.DefaultAPIBaseURL
	}
	switch c.Output.Format {
	case "", constants.OutputFormatText, constants.OutputFormatJSON:
	default:
		return fmt.Errorf("unsupported output format: %s", c.Output.Format)
	}
	return nil
}

// LoadConfig loads configuration from the given path, or from a discovered
// default file when path is empty. Defaults fill anything unset; environment
// variables with the BSCAN_ prefix override file values.
func LoadConfig(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = findDefaultConfig("")
	}
	return loadConfigFromFile(configPath)
}

// LoadConfigWithTarget loads configuration, discovering a config file upward
// from targetPath when no explicit path is given
func LoadConfigWithTarget(configPath, targetPath string) (*Config, error) {
	if configPath == "" {
		configPath = findDefaultConfig(targetPath)
	}
	return loadConfigFromFile(configPath)
}

// loadConfigFromFile reads and parses one configuration file
func loadConfigFromFile(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	// Create a new viper instance to avoid race conditions
	v := viper.New()
	v.SetEnvPrefix(constants.EnvVarPrefix)
	v.AutomaticEnv()

	if configPath == "" {
		applyEnvOverrides(v, cfg)
		return cfg, nil
	}

	v.SetConfigFile(configPath)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	applyEnvOverrides(v, cfg)
	return cfg, nil
}

// applyEnvOverrides maps the supported environment variables onto cfg
func applyEnvOverrides(v *viper.Viper, cfg *Config) {
	if t := v.GetString("default_target"); t != "" {
		cfg.Target = t
	}
	if n := v.GetInt("max_files"); n > 0 {
		cfg.MaxFiles = n
	}
	if n := v.GetInt("max_concurrency"); n > 0 {
		cfg.API.MaxConcurrency = n
	}
	if u := v.GetString("api_base"); u != "" {
		cfg.API.BaseURL = u
	}
}

// searchConfigInDirectory searches for configuration files in one directory
func searchConfigInDirectory(dir string, candidates []string) string {
	for _, candidate := range candidates {
		path := filepath.Join(dir, candidate)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// findDefaultConfig looks for default configuration files in common
// locations, searching upward from targetPath when provided
func findDefaultConfig(targetPath string) string {
	candidates := []string{
		"bscan.yaml",
		"bscan.yml",
		".bscan.yaml",
		".bscan.yml",
		"bscan.json",
		".bscan.json",
	}

	if targetPath != "" {
		absPath, err := filepath.Abs(targetPath)
		if err == nil {
			info, err := os.Stat(absPath)
			if err == nil && !info.IsDir() {
				absPath = filepath.Dir(absPath)
			}

			for dir := absPath; ; dir = filepath.Dir(dir) {
				if found := searchConfigInDirectory(dir, candidates); found != "" {
					return found
				}
				if parent := filepath.Dir(dir); parent == dir {
					break
				}
			}
		}
	}

	if found := searchConfigInDirectory(".", candidates); found != "" {
		return found
	}

	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		if found := searchConfigInDirectory(filepath.Join(xdgConfig, "bscan"), candidates); found != "" {
			return found
		}
	}

	if home, err := os.UserHomeDir(); err == nil {
		if found := searchConfigInDirectory(filepath.Join(home, ".config", "bscan"), candidates); found != "" {
			return found
		}
	}

	return ""
}
