package config

import "fmt"

// GetFullConfigTemplate returns a documented YAML config with the given
// target and file budget filled in
func GetFullConfigTemplate(target string, maxFiles int) string {
	return fmt.Sprintf(`# bscan configuration
# Audit a web codebase for modern CSS/JS/HTML feature usage and score it
# against a browser-support baseline.

# Baseline profile audits are scored against.
# One of: baseline-2024, baseline-2023, baseline-2022, widely, conservative
target: %s

# Maximum number of files scanned per audit (1-100000)
max_files: %d

rules:
  # Optional YAML file mapping feature id -> {pattern, group}.
  # Empty uses the built-in detection rules.
  path: ""

walker:
  # Also honor the project root .gitignore when excluding files
  use_gitignore: false

api:
  # WebStatus-compatible status service
  base_url: https://api.webstatus.dev/v1
  timeout_seconds: 5
  # Bound on concurrent status fetches
  max_concurrency: 5
  # How long a cached feature status stays fresh
  cache_ttl_minutes: 60

output:
  # text or json
  format: text

# Optional overrides for the target baseline table:
# targets:
#   my-baseline:
#     chrome: 120
#     firefox: 120
#     safari: 17
#     edge: 120
`, target, maxFiles)
}

// GetMinimalConfigTemplate returns a config with essential options only
func GetMinimalConfigTemplate() string {
	return `# bscan configuration
target: baseline-2024
max_files: 10000
`
}
