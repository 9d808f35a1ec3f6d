package registry

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"carrier-gateway/carrier/registry/application"
	"carrier-gateway/carrier/registry/infra"
)

type Config struct {
	ListenAddr string `validate:"required"`

	APIKey         string
	BaseURL        string        `validate:"required,url"`
	AttemptTimeout time.Duration `validate:"gt=0"`
	MaxAttempts    int           `validate:"gte=1"`
	BackoffBase    time.Duration `validate:"gt=0"`
	BackoffMax     time.Duration `validate:"gtefield=BackoffBase"`

	PerMinute int64 `validate:"gt=0"`
	PerHour   int64 `validate:"gt=0"`
	PerDay    int64 `validate:"gt=0"`

	CacheTTL        time.Duration `validate:"gt=0"`
	CacheCapacity   int           `validate:"gt=0"`
	CacheSweepEvery time.Duration `validate:"gte=0"`

	BatchConcurrency int           `validate:"gt=0"`
	BatchWaveDelay   time.Duration `validate:"gt=0"`
	BatchMaxItems    int           `validate:"gt=0"`
	ProbeID          string        `validate:"required,numeric,max=8"`

	ClientRateEnabled   bool
	ClientRateRPS       float64 `validate:"gt=0"`
	ClientRateBurst     int     `validate:"gt=0"`
	ClientKeyHeader     string
	TrustXFF            bool
	RetryAfter          time.Duration
	AddRateLimitHeaders bool
	ConcurrencyMax      int `validate:"gte=0"`
	ConcurrencyTimeout  time.Duration

	StatsRedisEnabled  bool
	StatsRedisAddr     string `validate:"required_if=StatsRedisEnabled true"`
	StatsRedisPassword string
	StatsRedisDB       int `validate:"gte=0"`
	StatsRedisPrefix   string
	StatsRedisTTL      time.Duration
	StatsRedisBucket   string `validate:"oneof=minute none"`
	StatsRedisTrackIDs bool

	MetricsEnabled bool
	LogLevel       string `validate:"oneof=debug info warn warning error"`
}

var validate = validator.New()

// LoadConfig lê as variáveis de ambiente (e um .env opcional, que não
// sobrescreve o que já está no ambiente) e valida o resultado.
func LoadConfig(envFiles ...string) (Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load env file: %w", err)
	}

	cfg := Config{}
	cfg.ListenAddr = getenvDefault("LISTEN_ADDR", ":8080")

	cfg.APIKey = os.Getenv("REGISTRY_API_KEY")
	cfg.BaseURL = getenvDefault("REGISTRY_BASE_URL", infra.DefaultRegistryBaseURL)
	cfg.AttemptTimeout = getenvDurationDefault("REGISTRY_TIMEOUT", application.DefaultAttemptTimeout)
	cfg.MaxAttempts = getenvIntDefault("REGISTRY_MAX_ATTEMPTS", application.DefaultMaxAttempts)
	cfg.BackoffBase = getenvDurationDefault("REGISTRY_BACKOFF_BASE", application.DefaultBackoffBase)
	cfg.BackoffMax = getenvDurationDefault("REGISTRY_BACKOFF_MAX", application.DefaultBackoffMax)

	cfg.PerMinute = int64(getenvIntDefault("LIMIT_PER_MINUTE", infra.DefaultPerMinute))
	cfg.PerHour = int64(getenvIntDefault("LIMIT_PER_HOUR", infra.DefaultPerHour))
	cfg.PerDay = int64(getenvIntDefault("LIMIT_PER_DAY", infra.DefaultPerDay))

	cfg.CacheTTL = getenvDurationDefault("CACHE_TTL", application.DefaultCacheTTL)
	cfg.CacheCapacity = getenvIntDefault("CACHE_CAPACITY", infra.DefaultCacheCapacity)
	cfg.CacheSweepEvery = getenvDurationDefault("CACHE_SWEEP_EVERY", infra.DefaultSweepEvery)

	cfg.BatchConcurrency = getenvIntDefault("BATCH_CONCURRENCY", application.DefaultBatchConcurrency)
	cfg.BatchWaveDelay = getenvDurationDefault("BATCH_WAVE_DELAY", application.DefaultBatchWaveDelay)
	cfg.BatchMaxItems = getenvIntDefault("BATCH_MAX_ITEMS", 100)
	cfg.ProbeID = getenvDefault("HEALTH_PROBE_ID", application.DefaultProbeID)

	cfg.ClientRateEnabled = getenvBoolDefault("CLIENT_RATE_ENABLED", true)
	cfg.ClientRateRPS = getenvFloatDefault("CLIENT_RATE_RPS", 10)
	// IMPORTANTE: o "burst" permite uma rajada inicial de requisições.
	// Com RPS muito baixo (ex: 0.02), o padrão 20 pode dar a impressão de que
	// o limiter não está funcionando, porque as primeiras ~20 passam.
	if burst, ok := getenvInt("CLIENT_RATE_BURST"); ok {
		cfg.ClientRateBurst = burst
	} else {
		cfg.ClientRateBurst = 20
		if getenvIsSet("CLIENT_RATE_RPS") && cfg.ClientRateRPS > 0 && cfg.ClientRateRPS < 1 {
			cfg.ClientRateBurst = 1
		}
	}
	cfg.ClientKeyHeader = os.Getenv("CLIENT_KEY_HEADER")
	cfg.TrustXFF = getenvBoolDefault("TRUST_XFF", false)
	cfg.RetryAfter = getenvDurationDefault("RETRY_AFTER", 1*time.Second)
	cfg.AddRateLimitHeaders = getenvBoolDefault("ADD_RATELIMIT_HEADERS", false)
	cfg.ConcurrencyMax = getenvIntDefault("CONCURRENCY_MAX", 100)
	cfg.ConcurrencyTimeout = getenvDurationDefault("CONCURRENCY_TIMEOUT", 0)

	cfg.StatsRedisEnabled = getenvBoolDefault("STATS_REDIS_ENABLED", false)
	cfg.StatsRedisAddr = strings.TrimSpace(os.Getenv("STATS_REDIS_ADDR"))
	cfg.StatsRedisPassword = os.Getenv("STATS_REDIS_PASSWORD")
	cfg.StatsRedisDB = getenvIntDefault("STATS_REDIS_DB", 0)
	cfg.StatsRedisPrefix = getenvDefault("STATS_REDIS_PREFIX", "carrier:stats")
	cfg.StatsRedisTTL = getenvDurationDefault("STATS_REDIS_TTL", 24*time.Hour)
	cfg.StatsRedisBucket = getenvDefault("STATS_REDIS_BUCKET", "minute")
	cfg.StatsRedisTrackIDs = getenvBoolDefault("STATS_REDIS_TRACK_IDS", false)

	cfg.MetricsEnabled = getenvBoolDefault("METRICS_ENABLED", true)
	cfg.LogLevel = strings.ToLower(getenvDefault("LOG_LEVEL", "info"))

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func getenvDefault(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getenvIntDefault(k string, def int) int {
	if i, ok := getenvInt(k); ok {
		return i
	}
	return def
}

func getenvInt(k string) (int, bool) {
	v, ok := os.LookupEnv(k)
	if !ok || v == "" {
		return 0, false
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return i, true
}

func getenvIsSet(k string) bool {
	v, ok := os.LookupEnv(k)
	return ok && v != ""
}

func getenvFloatDefault(k string, def float64) float64 {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

func getenvBoolDefault(k string, def bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func getenvDurationDefault(k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
