package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/oddsight/oddsight/internal/fuzzy"
	"github.com/oddsight/oddsight/internal/platform/logging"
)

// Source is one configured upstream sheet: which sport it feeds, which
// extractor format it uses, and where to fetch it from.
type Source struct {
	SportID   string `validate:"required,lowercase"`
	SportName string `validate:"required"`
	SportIcon string
	Format    string `validate:"required,oneof=generic mainlist percentgrid"`
	URL       string `validate:"required,url"`
}

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv                         string
	ServiceName                    string
	ServiceVersion                 string
	Sources                        []Source
	IngestInterval                 time.Duration
	IngestSourceTimeout            time.Duration
	LivePollInterval               time.Duration
	EnrichWorkers                  int
	Thresholds                     fuzzy.Thresholds
	DBEnabled                      bool
	DBURL                          string
	DBDisablePreparedBinary        bool
	CacheTTL                       time.Duration
	CacheNegativeTTL               time.Duration
	SheetsTimeout                  time.Duration
	SheetsMaxRetries               int
	SheetsCircuitEnabled           bool
	SheetsCircuitFailureCount      int
	SheetsCircuitOpenTimeout       time.Duration
	SheetsCircuitHalfOpenMaxReq    int
	LiveScoreBaseURL               string
	LiveScoreTimeout               time.Duration
	LiveScoreCircuitEnabled        bool
	LiveScoreCircuitFailureCount   int
	LiveScoreCircuitOpenTimeout    time.Duration
	LiveScoreCircuitHalfOpenMaxReq int
	LogoBaseURL                    string
	LogoTimeout                    time.Duration
	PprofEnabled                   bool
	PprofAddr                      string
	UptraceEnabled                 bool
	UptraceDSN                     string
	PyroscopeEnabled               bool
	PyroscopeServerAddress         string
	PyroscopeAppName               string
	PyroscopeAuthToken             string
	PyroscopeUploadRate            time.Duration
	LogLevel                       logging.Level
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	sources, err := ParseSources(getEnv("SOURCES", ""))
	if err != nil {
		return Config{}, err
	}

	ingestInterval, err := time.ParseDuration(getEnv("INGEST_INTERVAL", "5m"))
	if err != nil {
		return Config{}, fmt.Errorf("parse INGEST_INTERVAL: %w", err)
	}
	if ingestInterval <= 0 {
		return Config{}, fmt.Errorf("INGEST_INTERVAL must be > 0")
	}

	ingestSourceTimeout, err := time.ParseDuration(getEnv("INGEST_SOURCE_TIMEOUT", "45s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse INGEST_SOURCE_TIMEOUT: %w", err)
	}
	if ingestSourceTimeout <= 0 {
		return Config{}, fmt.Errorf("INGEST_SOURCE_TIMEOUT must be > 0")
	}

	livePollInterval, err := time.ParseDuration(getEnv("LIVE_POLL_INTERVAL", "60s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse LIVE_POLL_INTERVAL: %w", err)
	}
	if livePollInterval <= 0 {
		return Config{}, fmt.Errorf("LIVE_POLL_INTERVAL must be > 0")
	}

	enrichWorkers, err := getEnvAsInt("ENRICH_WORKERS", 8)
	if err != nil {
		return Config{}, fmt.Errorf("parse ENRICH_WORKERS: %w", err)
	}
	if enrichWorkers < 1 {
		return Config{}, fmt.Errorf("ENRICH_WORKERS must be >= 1")
	}

	thresholds, err := loadThresholds()
	if err != nil {
		return Config{}, err
	}

	dbEnabled, err := strconv.ParseBool(getEnv("DB_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse DB_ENABLED: %w", err)
	}
	dbURL := strings.TrimSpace(getEnv("DB_URL", ""))
	if dbEnabled && dbURL == "" {
		return Config{}, fmt.Errorf("DB_URL is required when DB_ENABLED=true")
	}
	dbDisablePreparedBinary, err := strconv.ParseBool(getEnv("DB_DISABLE_PREPARED_BINARY_RESULT", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse DB_DISABLE_PREPARED_BINARY_RESULT: %w", err)
	}

	cacheTTL, err := time.ParseDuration(getEnv("CACHE_TTL", "6h"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_TTL: %w", err)
	}
	if cacheTTL <= 0 {
		return Config{}, fmt.Errorf("CACHE_TTL must be > 0")
	}
	cacheNegativeTTL, err := time.ParseDuration(getEnv("CACHE_NEGATIVE_TTL", "30m"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_NEGATIVE_TTL: %w", err)
	}
	if cacheNegativeTTL <= 0 {
		return Config{}, fmt.Errorf("CACHE_NEGATIVE_TTL must be > 0")
	}

	sheetsTimeout, err := time.ParseDuration(getEnv("SHEETS_TIMEOUT", "30s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SHEETS_TIMEOUT: %w", err)
	}
	if sheetsTimeout <= 0 {
		return Config{}, fmt.Errorf("SHEETS_TIMEOUT must be > 0")
	}
	sheetsMaxRetries, err := getEnvAsInt("SHEETS_MAX_RETRIES", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse SHEETS_MAX_RETRIES: %w", err)
	}
	if sheetsMaxRetries < 0 {
		return Config{}, fmt.Errorf("SHEETS_MAX_RETRIES must be >= 0")
	}
	sheetsCircuitEnabled, err := strconv.ParseBool(getEnv("SHEETS_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SHEETS_CIRCUIT_ENABLED: %w", err)
	}
	sheetsCircuitFailureCount, err := getEnvAsInt("SHEETS_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse SHEETS_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if sheetsCircuitFailureCount < 1 {
		return Config{}, fmt.Errorf("SHEETS_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	sheetsCircuitOpenTimeout, err := time.ParseDuration(getEnv("SHEETS_CIRCUIT_OPEN_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SHEETS_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	if sheetsCircuitOpenTimeout <= 0 {
		return Config{}, fmt.Errorf("SHEETS_CIRCUIT_OPEN_TIMEOUT must be > 0")
	}
	sheetsCircuitHalfOpenMaxReq, err := getEnvAsInt("SHEETS_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse SHEETS_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if sheetsCircuitHalfOpenMaxReq < 1 {
		return Config{}, fmt.Errorf("SHEETS_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}

	liveScoreTimeout, err := time.ParseDuration(getEnv("LIVESCORE_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse LIVESCORE_TIMEOUT: %w", err)
	}
	if liveScoreTimeout <= 0 {
		return Config{}, fmt.Errorf("LIVESCORE_TIMEOUT must be > 0")
	}
	liveScoreCircuitEnabled, err := strconv.ParseBool(getEnv("LIVESCORE_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse LIVESCORE_CIRCUIT_ENABLED: %w", err)
	}
	liveScoreCircuitFailureCount, err := getEnvAsInt("LIVESCORE_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse LIVESCORE_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if liveScoreCircuitFailureCount < 1 {
		return Config{}, fmt.Errorf("LIVESCORE_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	liveScoreCircuitOpenTimeout, err := time.ParseDuration(getEnv("LIVESCORE_CIRCUIT_OPEN_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse LIVESCORE_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	if liveScoreCircuitOpenTimeout <= 0 {
		return Config{}, fmt.Errorf("LIVESCORE_CIRCUIT_OPEN_TIMEOUT must be > 0")
	}
	liveScoreCircuitHalfOpenMaxReq, err := getEnvAsInt("LIVESCORE_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse LIVESCORE_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if liveScoreCircuitHalfOpenMaxReq < 1 {
		return Config{}, fmt.Errorf("LIVESCORE_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}

	logoTimeout, err := time.ParseDuration(getEnv("LOGO_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse LOGO_TIMEOUT: %w", err)
	}
	if logoTimeout <= 0 {
		return Config{}, fmt.Errorf("LOGO_TIMEOUT must be > 0")
	}

	pprofEnabled, err := strconv.ParseBool(getEnv("PPROF_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PPROF_ENABLED: %w", err)
	}
	pprofAddr := strings.TrimSpace(getEnv("PPROF_ADDR", ":6060"))
	if pprofEnabled && pprofAddr == "" {
		return Config{}, fmt.Errorf("PPROF_ADDR is required when PPROF_ENABLED=true")
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
		AppEnv:                         appEnv,
		ServiceName:                    getEnv("APP_SERVICE_NAME", "oddsight-ingest"),
		ServiceVersion:                 getEnv("APP_SERVICE_VERSION", "dev"),
		Sources:                        sources,
		IngestInterval:                 ingestInterval,
		IngestSourceTimeout:            ingestSourceTimeout,
		LivePollInterval:               livePollInterval,
		EnrichWorkers:                  enrichWorkers,
		Thresholds:                     thresholds,
		DBEnabled:                      dbEnabled,
		DBURL:                          dbURL,
		DBDisablePreparedBinary:        dbDisablePreparedBinary,
		CacheTTL:                       cacheTTL,
		CacheNegativeTTL:               cacheNegativeTTL,
		SheetsTimeout:                  sheetsTimeout,
		SheetsMaxRetries:               sheetsMaxRetries,
		SheetsCircuitEnabled:           sheetsCircuitEnabled,
		SheetsCircuitFailureCount:      sheetsCircuitFailureCount,
		SheetsCircuitOpenTimeout:       sheetsCircuitOpenTimeout,
		SheetsCircuitHalfOpenMaxReq:    sheetsCircuitHalfOpenMaxReq,
		LiveScoreBaseURL:               strings.TrimSpace(getEnv("LIVESCORE_BASE_URL", "")),
		LiveScoreTimeout:               liveScoreTimeout,
		LiveScoreCircuitEnabled:        liveScoreCircuitEnabled,
		LiveScoreCircuitFailureCount:   liveScoreCircuitFailureCount,
		LiveScoreCircuitOpenTimeout:    liveScoreCircuitOpenTimeout,
		LiveScoreCircuitHalfOpenMaxReq: liveScoreCircuitHalfOpenMaxReq,
		LogoBaseURL:                    strings.TrimSpace(getEnv("LOGO_BASE_URL", "")),
		LogoTimeout:                    logoTimeout,
		PprofEnabled:                   pprofEnabled,
		PprofAddr:                      pprofAddr,
		UptraceEnabled:                 uptraceEnabled,
		UptraceDSN:                     uptraceDSN,
		PyroscopeEnabled:               pyroscopeEnabled,
		PyroscopeServerAddress:         pyroscopeServerAddress,
		PyroscopeAuthToken:             strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeUploadRate:            pyroscopeUploadRate,
		LogLevel:                       parseLogLevel(getEnv("APP_LOG_LEVEL", "info")),
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	if cfg.PyroscopeEnabled && cfg.PyroscopeAppName == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_APP_NAME cannot be empty when PYROSCOPE_ENABLED=true")
	}

	return cfg, nil
}

// ParseSources parses the SOURCES variable: semicolon-separated entries of
// the form sport|format|url[|sport name[|icon]].
func ParseSources(raw string) ([]Source, error) {
	validate := validator.New()
	var out []Source
	for _, item := range strings.Split(raw, ";") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}

		parts := strings.Split(item, "|")
		if len(parts) < 3 {
			return nil, fmt.Errorf("invalid source %q, expected sport|format|url", item)
		}

		src := Source{
			SportID: strings.ToLower(strings.TrimSpace(parts[0])),
			Format:  strings.ToLower(strings.TrimSpace(parts[1])),
			URL:     strings.TrimSpace(parts[2]),
		}
		if len(parts) > 3 {
			src.SportName = strings.TrimSpace(parts[3])
		}
		if src.SportName == "" {
			src.SportName = titleCase(src.SportID)
		}
		if len(parts) > 4 {
			src.SportIcon = strings.TrimSpace(parts[4])
		}

		if err := validate.Struct(src); err != nil {
			return nil, fmt.Errorf("invalid source %q: %w", item, err)
		}
		out = append(out, src)
	}

	return out, nil
}

func loadThresholds() (fuzzy.Thresholds, error) {
	th := fuzzy.DefaultThresholds()
	for _, override := range []struct {
		key    string
		target *float64
	}{
		{"FUZZY_HOME_WEIGHT", &th.HomeWeight},
		{"FUZZY_AWAY_WEIGHT", &th.AwayWeight},
		{"FUZZY_BOTH_MIN", &th.BothMin},
		{"FUZZY_STRONG_SIDE", &th.StrongSide},
		{"FUZZY_WEAK_SIDE", &th.WeakSide},
		{"FUZZY_MIN_SCORE", &th.MinScore},
	} {
		raw := strings.TrimSpace(os.Getenv(override.key))
		if raw == "" {
			continue
		}
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return fuzzy.Thresholds{}, fmt.Errorf("parse %s: %w", override.key, err)
		}
		if value < 0 || value > 1 {
			return fuzzy.Thresholds{}, fmt.Errorf("%s must be within [0, 1]", override.key)
		}
		*override.target = value
	}

	return th, nil
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

func titleCase(v string) string {
	if v == "" {
		return v
	}

	return strings.ToUpper(v[:1]) + v[1:]
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
