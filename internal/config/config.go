// Package config reads runtime settings from the environment.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds every tunable of the service.
type Config struct {
	Port   string
	AppEnv string

	SerperAPIKey   string
	SerperURL      string
	SerperCountry  string
	SerperLanguage string
	ShoppingRPS    float64

	GeminiAPIKey string
	GeminiModel  string
	GeminiURL    string
	LLMRPS       float64

	RetailerName      string
	RetailerSearchURL string
	Currency          string

	BatchChunkSize       int
	OverpricedThreshold  float64
	UnderpricedThreshold float64
	ThresholdPercent     bool

	LookupTimeout     time.Duration
	LookupMaxAttempts int
	LookupBackoff     time.Duration

	HeaderScanRows   int
	HeaderMinMatches int

	MaxUploadBytes int
	APIRatePerMin  int
	APIRateBurst   int
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func atoienv(key string, def int) int {
	v := getenv(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func floatenv(key string, def float64) float64 {
	v := getenv(key, "")
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

func boolenv(key string, def bool) bool {
	v := getenv(key, "")
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func durenvms(key string, defMs int) time.Duration {
	return time.Duration(atoienv(key, defMs)) * time.Millisecond
}

func positive(n, def int) int {
	if n <= 0 {
		return def
	}
	return n
}

// Load collects configuration from environment with defaults.
func Load() Config {
	return Config{
		Port:   getenv("PORT", "3000"),
		AppEnv: getenv("APP_ENV", "development"),

		SerperAPIKey:   getenv("SERPER_API_KEY", ""),
		SerperURL:      getenv("SERPER_URL", "https://google.serper.dev/shopping"),
		SerperCountry:  getenv("SERPER_GL", "mx"),
		SerperLanguage: getenv("SERPER_HL", "es"),
		ShoppingRPS:    floatenv("SHOPPING_RPS", 5),

		GeminiAPIKey: getenv("GEMINI_API_KEY", ""),
		GeminiModel:  getenv("GEMINI_MODEL", "gemini-2.0-flash"),
		GeminiURL:    getenv("GEMINI_URL", "https://generativelanguage.googleapis.com/v1beta"),
		LLMRPS:       floatenv("LLM_RPS", 2),

		RetailerName:      getenv("RETAILER_NAME", "Avante"),
		RetailerSearchURL: getenv("RETAILER_SEARCH_URL", "https://www.grupoavante.org/search?q="),
		Currency:          getenv("CURRENCY", "MXN"),

		BatchChunkSize:       positive(atoienv("BATCH_CHUNK_SIZE", 5), 5),
		OverpricedThreshold:  floatenv("OVERPRICED_THRESHOLD", 500),
		UnderpricedThreshold: floatenv("UNDERPRICED_THRESHOLD", 500),
		ThresholdPercent:     boolenv("THRESHOLD_PERCENT", false),

		LookupTimeout:     durenvms("LOOKUP_TIMEOUT_MS", 20000),
		LookupMaxAttempts: positive(atoienv("LOOKUP_MAX_ATTEMPTS", 3), 1),
		LookupBackoff:     durenvms("LOOKUP_BACKOFF_MS", 500),

		HeaderScanRows:   positive(atoienv("HEADER_SCAN_ROWS", 10), 10),
		HeaderMinMatches: positive(atoienv("HEADER_MIN_MATCHES", 3), 3),

		MaxUploadBytes: positive(atoienv("MAX_UPLOAD_MB", 10), 10) * 1024 * 1024,
		APIRatePerMin:  positive(atoienv("API_RATE_PER_MIN", 120), 120),
		APIRateBurst:   positive(atoienv("API_RATE_BURST", 30), 30),
	}
}

// LLMEnabled reports whether an LLM key is configured.
func (c Config) LLMEnabled() bool {
	return c.GeminiAPIKey != ""
}
