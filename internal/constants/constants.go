package constants

// Tool name and related constants
const (
	// ToolName is the name of this tool
	ToolName = "bscan"

	// ConfigFileName is the default config file name
	ConfigFileName = "bscan.yaml"

	// EnvVarPrefix is the prefix for environment variables
	EnvVarPrefix = "BSCAN"
)

// Output format constants
const (
	OutputFormatText = "text"
	OutputFormatJSON = "json"
)

// Scan limit constants
const (
	// DefaultMaxFiles bounds a project scan when not configured
	DefaultMaxFiles = 10000

	// MaxFileSizeBytes is the per-file size cap
	MaxFileSizeBytes = 2 * 1024 * 1024
)

// Remote status service defaults
const (
	// DefaultAPIBaseURL is the WebStatus API endpoint
	DefaultAPIBaseURL = "https://api.webstatus.dev/v1"

	// DefaultAPITimeoutSeconds is the per-request timeout
	DefaultAPITimeoutSeconds = 5

	// DefaultMaxConcurrency bounds concurrent status fetches
	DefaultMaxConcurrency = 5

	// DefaultCacheTTLMinutes is how long a cached status stays fresh
	DefaultCacheTTLMinutes = 60

	// DefaultRetryBackoffSeconds is the rate-limit wait when the remote
	// sends no Retry-After hint
	DefaultRetryBackoffSeconds = 1
)

// DefaultTarget is the baseline profile assumed when none is configured
const DefaultTarget = "baseline-2024"
