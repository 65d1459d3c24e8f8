package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/riskibarqy/fpl-optimizer/internal/platform/logging"
)

const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
)

// Config stores runtime configuration for the optimizer binaries.
type Config struct {
	AppEnv         string
	ServiceName    string
	ServiceVersion string
	LogLevel       logging.Level

	StoreDriver   string
	DBURL         string
	DBAutoMigrate bool
	SnapshotPath  string
	CacheEnabled  bool
	CacheTTL      time.Duration

	FPLBaseURL      string
	FPLUserAgent    string
	FPLTimeout      time.Duration
	FPLMaxRetries   int
	FPLRatePerSec   float64
	FPLRateBurst    int
	IngestWorkers   int
	BatchWorkers    int
	SolverTimeout   time.Duration
	SolverNodeLimit int

	PredictWindow    int
	PredictHorizon   int
	ScoringRulesPath string

	UptraceEnabled             bool
	UptraceDSN                 string
	PyroscopeEnabled           bool
	PyroscopeServerAddress     string
	PyroscopeAppName           string
	PyroscopeAuthToken         string
	PyroscopeBasicAuthUser     string
	PyroscopeBasicAuthPassword string
	PyroscopeUploadRate        time.Duration
}

// Load reads the process environment. A .env file in the working directory
// is applied first when present; variables already set win.
func Load() (Config, error) {
	_ = godotenv.Load()

	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	storeDriver := strings.ToLower(strings.TrimSpace(getEnv("STORE_DRIVER", StoreMemory)))
	if storeDriver != StoreMemory && storeDriver != StorePostgres {
		return Config{}, fmt.Errorf("invalid STORE_DRIVER %q: valid values are %s, %s", storeDriver, StoreMemory, StorePostgres)
	}
	dbURL := strings.TrimSpace(getEnv("DB_URL", ""))
	if storeDriver == StorePostgres && dbURL == "" {
		return Config{}, fmt.Errorf("DB_URL is required when STORE_DRIVER=postgres")
	}
	dbAutoMigrate, err := strconv.ParseBool(getEnv("DB_AUTO_MIGRATE", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse DB_AUTO_MIGRATE: %w", err)
	}

	cacheEnabled, err := strconv.ParseBool(getEnv("CACHE_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_ENABLED: %w", err)
	}
	cacheTTL, err := time.ParseDuration(getEnv("CACHE_TTL", "60s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_TTL: %w", err)
	}
	if cacheTTL <= 0 {
		return Config{}, fmt.Errorf("CACHE_TTL must be > 0")
	}

	fplTimeout, err := time.ParseDuration(getEnv("FPL_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse FPL_TIMEOUT: %w", err)
	}
	if fplTimeout <= 0 {
		return Config{}, fmt.Errorf("FPL_TIMEOUT must be > 0")
	}
	fplMaxRetries, err := getEnvAsInt("FPL_MAX_RETRIES", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse FPL_MAX_RETRIES: %w", err)
	}
	if fplMaxRetries < 0 {
		return Config{}, fmt.Errorf("FPL_MAX_RETRIES must be >= 0")
	}
	fplRatePerSec, err := strconv.ParseFloat(getEnv("FPL_RATE_PER_SEC", "2"), 64)
	if err != nil {
		return Config{}, fmt.Errorf("parse FPL_RATE_PER_SEC: %w", err)
	}
	if fplRatePerSec < 0 {
		return Config{}, fmt.Errorf("FPL_RATE_PER_SEC must be >= 0")
	}
	fplRateBurst, err := getEnvAsInt("FPL_RATE_BURST", 1)
	if err != nil {
		return Config{}, fmt.Errorf("parse FPL_RATE_BURST: %w", err)
	}
	if fplRateBurst < 1 {
		return Config{}, fmt.Errorf("FPL_RATE_BURST must be >= 1")
	}

	ingestWorkers, err := getEnvAsInt("INGEST_WORKERS", 4)
	if err != nil {
		return Config{}, fmt.Errorf("parse INGEST_WORKERS: %w", err)
	}
	if ingestWorkers < 1 {
		return Config{}, fmt.Errorf("INGEST_WORKERS must be >= 1")
	}
	batchWorkers, err := getEnvAsInt("BATCH_WORKERS", 4)
	if err != nil {
		return Config{}, fmt.Errorf("parse BATCH_WORKERS: %w", err)
	}
	if batchWorkers < 1 {
		return Config{}, fmt.Errorf("BATCH_WORKERS must be >= 1")
	}

	solverTimeout, err := time.ParseDuration(getEnv("SOLVER_TIMEOUT", "30s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SOLVER_TIMEOUT: %w", err)
	}
	if solverTimeout < 0 {
		return Config{}, fmt.Errorf("SOLVER_TIMEOUT must be >= 0")
	}
	solverNodeLimit, err := getEnvAsInt("SOLVER_NODE_LIMIT", 0)
	if err != nil {
		return Config{}, fmt.Errorf("parse SOLVER_NODE_LIMIT: %w", err)
	}
	if solverNodeLimit < 0 {
		return Config{}, fmt.Errorf("SOLVER_NODE_LIMIT must be >= 0")
	}

	predictWindow, err := getEnvAsInt("PREDICT_WINDOW", 6)
	if err != nil {
		return Config{}, fmt.Errorf("parse PREDICT_WINDOW: %w", err)
	}
	if predictWindow < 1 || predictWindow > 38 {
		return Config{}, fmt.Errorf("PREDICT_WINDOW must be between 1 and 38")
	}
	predictHorizon, err := getEnvAsInt("PREDICT_HORIZON", 1)
	if err != nil {
		return Config{}, fmt.Errorf("parse PREDICT_HORIZON: %w", err)
	}
	if predictHorizon < 1 || predictHorizon > 38 {
		return Config{}, fmt.Errorf("PREDICT_HORIZON must be between 1 and 38")
	}

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceDSN == "" {
		uptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
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
		ServiceName:    getEnv("APP_SERVICE_NAME", "fpl-optimizer"),
		ServiceVersion: getEnv("APP_SERVICE_VERSION", "dev"),
		LogLevel:       parseLogLevel(getEnv("APP_LOG_LEVEL", "info")),

		StoreDriver:   storeDriver,
		DBURL:         dbURL,
		DBAutoMigrate: dbAutoMigrate,
		SnapshotPath:  strings.TrimSpace(getEnv("SNAPSHOT_PATH", "")),
		CacheEnabled:  cacheEnabled,
		CacheTTL:      cacheTTL,

		FPLBaseURL:      strings.TrimSpace(getEnv("FPL_BASE_URL", "https://fantasy.premierleague.com/api")),
		FPLUserAgent:    getEnv("FPL_USER_AGENT", "fpl-optimizer/1.0"),
		FPLTimeout:      fplTimeout,
		FPLMaxRetries:   fplMaxRetries,
		FPLRatePerSec:   fplRatePerSec,
		FPLRateBurst:    fplRateBurst,
		IngestWorkers:   ingestWorkers,
		BatchWorkers:    batchWorkers,
		SolverTimeout:   solverTimeout,
		SolverNodeLimit: solverNodeLimit,

		PredictWindow:    predictWindow,
		PredictHorizon:   predictHorizon,
		ScoringRulesPath: strings.TrimSpace(getEnv("SCORING_RULES_PATH", "")),

		UptraceEnabled:             uptraceEnabled,
		UptraceDSN:                 uptraceDSN,
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
	if cfg.FPLBaseURL == "" {
		return Config{}, fmt.Errorf("FPL_BASE_URL cannot be empty")
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

func parseUptraceDSNFromOTLPHeaders(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	items := strings.Split(raw, ",")
	for _, item := range items {
		parts := strings.SplitN(strings.TrimSpace(item), "=", 2)
		if len(parts) != 2 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(parts[0]), "uptrace-dsn") {
			value := strings.TrimSpace(parts[1])
			return strings.Trim(value, "\"'")
		}
	}

	return ""
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}
