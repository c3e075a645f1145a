package main

import (
	"fmt"
	"os"
	"time"

	"github.com/baseline-tools/bscan/internal/analyzer"
	"github.com/baseline-tools/bscan/internal/config"
	"github.com/baseline-tools/bscan/internal/rules"
	"github.com/baseline-tools/bscan/service"
)

// warnf prints a non-fatal diagnostic to stderr
func warnf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Warning: "+format+"\n", args...)
}

// loadConfigLenient loads configuration, falling back to defaults with a
// warning when the file is missing or malformed. Configuration problems are
// never fatal.
func loadConfigLenient(configPath string) *config.Config {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		warnf("using default configuration: %v", err)
		return config.DefaultConfig()
	}
	return cfg
}

// newRuleSet compiles the detection rules named by the configuration
func newRuleSet(cfg *config.Config) *rules.Set {
	return rules.Load(cfg.Rules.Path, warnf)
}

// newStatusClient builds the remote status client from the configuration
func newStatusClient(cfg *config.Config) *service.StatusClient {
	return service.NewStatusClient(service.StatusClientOptions{
		BaseURL:        cfg.API.BaseURL,
		Timeout:        time.Duration(cfg.API.TimeoutSeconds) * time.Second,
		MaxConcurrency: cfg.API.MaxConcurrency,
		CacheTTL:       time.Duration(cfg.API.CacheTTLMinutes) * time.Minute,
		Logf:           warnf,
	})
}

// targetTable merges configured target overrides over the built-in table
func targetTable(cfg *config.Config) analyzer.TargetTable {
	table := analyzer.DefaultTargets()
	for name, minima := range cfg.Targets {
		table[name] = minima
	}
	return table
}
