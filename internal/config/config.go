package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/degplus/brawl-collector/internal/platform/logging"
)

// Config stores runtime configuration for one collector run. Every
// component receives its settings from here; nothing reads ambient
// process state directly.
type Config struct {
	AppEnv         string
	ServiceName    string
	ServiceVersion string
	LogLevel       logging.Level

	DBURL                   string
	DBDisablePreparedBinary bool

	BrawlAPIBaseURL             string
	BrawlAPIToken               string
	BrawlAPITimeout             time.Duration
	BrawlAPIMaxRetries          int
	BrawlAPICircuitEnabled      bool
	BrawlAPICircuitFailureCount int
	BrawlAPICircuitOpenTimeout  time.Duration
	BrawlAPICircuitHalfOpenReq  int

	FetchWorkers int
	RunTimeout   time.Duration

	DedupLookback      time.Duration
	AllowedBattleTypes []string
	ExcludedModes      []string
	SchemaVariant      string

	UptraceEnabled     bool
	UptraceDSN         string
	UptraceLogsEnabled bool

	PyroscopeEnabled           bool
	PyroscopeServerAddress     string
	PyroscopeAppName           string
	PyroscopeAuthToken         string
	PyroscopeBasicAuthUser     string
	PyroscopeBasicAuthPassword string
	PyroscopeUploadRate        time.Duration
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

const (
	SchemaVariantClassic  = "classic"
	SchemaVariantExtended = "extended"
)

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	dbURL := strings.TrimSpace(getEnv("DB_URL", ""))
	if dbURL == "" {
		return Config{}, fmt.Errorf("DB_URL is required")
	}
	dbDisablePreparedBinary, err := strconv.ParseBool(getEnv("DB_DISABLE_PREPARED_BINARY_RESULT", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse DB_DISABLE_PREPARED_BINARY_RESULT: %w", err)
	}

	apiToken := strings.TrimSpace(getEnv("BRAWL_API_TOKEN", ""))
	if apiToken == "" {
		return Config{}, fmt.Errorf("BRAWL_API_TOKEN is required")
	}
	apiTimeout, err := time.ParseDuration(getEnv("BRAWL_API_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse BRAWL_API_TIMEOUT: %w", err)
	}
	if apiTimeout <= 0 {
		return Config{}, fmt.Errorf("BRAWL_API_TIMEOUT must be > 0")
	}
	apiMaxRetries, err := getEnvAsInt("BRAWL_API_MAX_RETRIES", 0)
	if err != nil {
		return Config{}, fmt.Errorf("parse BRAWL_API_MAX_RETRIES: %w", err)
	}
	if apiMaxRetries < 0 {
		return Config{}, fmt.Errorf("BRAWL_API_MAX_RETRIES must be >= 0")
	}
	apiCircuitEnabled, err := strconv.ParseBool(getEnv("BRAWL_API_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse BRAWL_API_CIRCUIT_ENABLED: %w", err)
	}
	apiCircuitFailureCount, err := getEnvAsInt("BRAWL_API_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse BRAWL_API_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if apiCircuitFailureCount < 1 {
		return Config{}, fmt.Errorf("BRAWL_API_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	apiCircuitOpenTimeout, err := time.ParseDuration(getEnv("BRAWL_API_CIRCUIT_OPEN_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse BRAWL_API_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	if apiCircuitOpenTimeout <= 0 {
		return Config{}, fmt.Errorf("BRAWL_API_CIRCUIT_OPEN_TIMEOUT must be > 0")
	}
	apiCircuitHalfOpenReq, err := getEnvAsInt("BRAWL_API_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse BRAWL_API_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if apiCircuitHalfOpenReq < 1 {
		return Config{}, fmt.Errorf("BRAWL_API_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}

	fetchWorkers, err := getEnvAsInt("COLLECT_FETCH_WORKERS", 4)
	if err != nil {
		return Config{}, fmt.Errorf("parse COLLECT_FETCH_WORKERS: %w", err)
	}
	if fetchWorkers < 1 {
		return Config{}, fmt.Errorf("COLLECT_FETCH_WORKERS must be >= 1")
	}
	runTimeout, err := time.ParseDuration(getEnv("COLLECT_RUN_TIMEOUT", "10m"))
	if err != nil {
		return Config{}, fmt.Errorf("parse COLLECT_RUN_TIMEOUT: %w", err)
	}
	if runTimeout <= 0 {
		return Config{}, fmt.Errorf("COLLECT_RUN_TIMEOUT must be > 0")
	}

	// Cross-run dedup scans this far back in the fact table. The store is
	// partitioned by battle_time, so the window must stay bounded; 7 days
	// covers late collections as long as no run gap exceeds it.
	dedupLookback, err := time.ParseDuration(getEnv("COLLECT_DEDUP_LOOKBACK", "168h"))
	if err != nil {
		return Config{}, fmt.Errorf("parse COLLECT_DEDUP_LOOKBACK: %w", err)
	}
	if dedupLookback <= 0 {
		return Config{}, fmt.Errorf("COLLECT_DEDUP_LOOKBACK must be > 0")
	}

	allowedTypes := splitCSV(getEnv("COLLECT_ALLOWED_BATTLE_TYPES", "ranked,soloRanked,teamRanked"))
	if len(allowedTypes) == 0 {
		return Config{}, fmt.Errorf("COLLECT_ALLOWED_BATTLE_TYPES cannot be empty")
	}
	excludedModes := splitCSV(getEnv("COLLECT_EXCLUDED_MODES", ""))

	schemaVariant := strings.ToLower(strings.TrimSpace(getEnv("COLLECT_SCHEMA_VARIANT", SchemaVariantExtended)))
	switch schemaVariant {
	case SchemaVariantClassic, SchemaVariantExtended:
	default:
		return Config{}, fmt.Errorf("invalid COLLECT_SCHEMA_VARIANT %q: valid values are %s, %s",
			schemaVariant, SchemaVariantClassic, SchemaVariantExtended)
	}

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}
	uptraceLogsEnabled, err := strconv.ParseBool(getEnv("UPTRACE_LOGS_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_LOGS_ENABLED: %w", err)
	}

	pyroscopeEnabled, err := strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	pyroscopeServerAddress := strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if pyroscopeEnabled && pyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	pyroscopeUploadRate, err := time.ParseDuration(getEnv("PYROSCOPE_UPLOAD_RATE", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_UPLOAD_RATE: %w", err)
	}
	if pyroscopeUploadRate <= 0 {
		return Config{}, fmt.Errorf("PYROSCOPE_UPLOAD_RATE must be > 0")
	}

	cfg := Config{
		AppEnv:         appEnv,
		ServiceName:    getEnv("APP_SERVICE_NAME", "brawl-collector"),
		ServiceVersion: getEnv("APP_SERVICE_VERSION", "dev"),
		LogLevel:       parseLogLevel(getEnv("APP_LOG_LEVEL", "info")),

		DBURL:                   dbURL,
		DBDisablePreparedBinary: dbDisablePreparedBinary,

		BrawlAPIBaseURL:             strings.TrimSpace(getEnv("BRAWL_API_BASE_URL", "https://bsproxy.royaleapi.dev/v1")),
		BrawlAPIToken:               apiToken,
		BrawlAPITimeout:             apiTimeout,
		BrawlAPIMaxRetries:          apiMaxRetries,
		BrawlAPICircuitEnabled:      apiCircuitEnabled,
		BrawlAPICircuitFailureCount: apiCircuitFailureCount,
		BrawlAPICircuitOpenTimeout:  apiCircuitOpenTimeout,
		BrawlAPICircuitHalfOpenReq:  apiCircuitHalfOpenReq,

		FetchWorkers: fetchWorkers,
		RunTimeout:   runTimeout,

		DedupLookback:      dedupLookback,
		AllowedBattleTypes: allowedTypes,
		ExcludedModes:      excludedModes,
		SchemaVariant:      schemaVariant,

		UptraceEnabled:     uptraceEnabled,
		UptraceDSN:         uptraceDSN,
		UptraceLogsEnabled: uptraceLogsEnabled,

		PyroscopeEnabled:           pyroscopeEnabled,
		PyroscopeServerAddress:     pyroscopeServerAddress,
		PyroscopeAuthToken:         strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeBasicAuthUser:     strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", "")),
		PyroscopeBasicAuthPassword: strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", "")),
		PyroscopeUploadRate:        pyroscopeUploadRate,
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	if cfg.PyroscopeEnabled && cfg.PyroscopeAppName == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_APP_NAME cannot be empty when PYROSCOPE_ENABLED=true")
	}

	return cfg, nil
}

func parseLogLevel(v string) logging.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return logging.LevelDebug
	case "warn", "warning":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}
