package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"mission-backend/internal/shared/telemetry"
)

// Config holds application configuration.
type Config struct {
	Port            string
	Env             string
	DatabaseURL     string
	CORSAllowOrigin []string
	LogLevel        string

	LLMProvider   string
	LLMModel      string
	OpenAIAPIKey  string
	OpenAITimeout time.Duration

	NASAAPIKey  string
	NASAAPIURL  string
	NASATimeout time.Duration

	ArchiveStore  string
	LocalStoreDir string
	AWSRegion     string
	S3Bucket      string
	S3Prefix      string
	SSEKMSKeyID   string

	AnalyzeRateLimitPerMinute int
	HistoryLimit              int

	DBPool DBPool
}

// DBPool carries optional database pool overrides. Zero fields keep the
// caller's defaults.
type DBPool struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	PingTimeout     time.Duration
}

// source resolves a key from the environment first, then the optional YAML file.
type source struct {
	file map[string]string
}

// Load reads configuration from environment variables with sensible defaults.
// CONFIG_FILE may name a YAML file of KEY: value pairs used as defaults under
// the environment.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	src := source{}
	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		file, err := readYAML(path)
		if err != nil {
			telemetry.Warn("config.file_ignored", map[string]any{"path": path, "error": err})
		} else {
			src.file = file
		}
	}
	return src.load()
}

func (s source) load() Config {
	env := normalizeEnv(s.get("ENV", "dev"))
	dbURL := s.get("DATABASE_URL", "")
	if env == "production" && dbURL == "" {
		telemetry.Warn("config.database_url_missing", map[string]any{"env": env})
	}

	return Config{
		Port:            s.get("PORT", "8080"),
		Env:             env,
		DatabaseURL:     dbURL,
		CORSAllowOrigin: splitAndTrim(s.get("CORS_ALLOW_ORIGINS", "http://localhost:5173")),
		LogLevel:        s.get("LOG_LEVEL", "info"),

		LLMProvider:   normalizeLLMProvider(s.get("LLM_PROVIDER", "openai")),
		LLMModel:      s.get("LLM_MODEL", "gpt-4o"),
		OpenAIAPIKey:  s.get("OPENAI_API_KEY", ""),
		OpenAITimeout: time.Duration(s.getInt("OPENAI_TIMEOUT_SECONDS", 120)) * time.Second,

		NASAAPIKey:  s.get("NASA_API_KEY", "DEMO_KEY"),
		NASAAPIURL:  s.get("NASA_API_URL", "https://api.nasa.gov/planetary/apod"),
		NASATimeout: time.Duration(s.getInt("NASA_TIMEOUT_SECONDS", 10)) * time.Second,

		ArchiveStore:  normalizeStoreType(s.get("ARCHIVE_STORE", "local")),
		LocalStoreDir: s.get("LOCAL_STORE_DIR", "./data"),
		AWSRegion:     s.get("AWS_REGION", ""),
		S3Bucket:      s.get("S3_BUCKET", ""),
		S3Prefix:      s.get("S3_PREFIX", ""),
		SSEKMSKeyID:   s.get("SSE_KMS_KEY_ID", ""),

		AnalyzeRateLimitPerMinute: s.getInt("RATE_LIMIT_ANALYZE_PER_MINUTE", 6),
		HistoryLimit:              s.getInt("HISTORY_LIMIT", 50),

		DBPool: DBPool{
			MaxOpenConns:    s.getInt("DB_MAX_OPEN_CONNS", 0),
			MaxIdleConns:    s.getInt("DB_MAX_IDLE_CONNS", 0),
			ConnMaxLifetime: s.getDuration("DB_CONN_MAX_LIFETIME"),
			ConnMaxIdleTime: s.getDuration("DB_CONN_MAX_IDLE_TIME"),
			PingTimeout:     s.getDuration("DB_PING_TIMEOUT"),
		},
	}
}

func (s source) get(key, def string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	if val := strings.TrimSpace(s.file[key]); val != "" {
		return val
	}
	return def
}

func (s source) getInt(key string, def int) int {
	raw := s.get(key, "")
	if raw == "" {
		return def
	}
	val, err := strconv.Atoi(raw)
	if err != nil || val < 0 {
		telemetry.Warn("config.invalid_int", map[string]any{"key": key, "value": raw})
		return def
	}
	return val
}

func (s source) getDuration(key string) time.Duration {
	raw := s.get(key, "")
	if raw == "" {
		return 0
	}
	val, err := time.ParseDuration(raw)
	if err != nil || val < 0 {
		telemetry.Warn("config.invalid_duration", map[string]any{"key": key, "value": raw})
		return 0
	}
	return val
}

func readYAML(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	out := make(map[string]string, len(raw))
	for k, v := range raw {
		if v == nil {
			continue
		}
		key := strings.ToUpper(strings.TrimSpace(k))
		if list, ok := v.([]any); ok {
			parts := make([]string, 0, len(list))
			for _, item := range list {
				parts = append(parts, fmt.Sprint(item))
			}
			out[key] = strings.Join(parts, ",")
			continue
		}
		out[key] = fmt.Sprint(v)
	}
	return out, nil
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	case "test":
		return "test"
	default:
		return "dev"
	}
}

func normalizeStoreType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "s3":
		return "s3"
	case "none", "off":
		return "none"
	default:
		return "local"
	}
}

func normalizeLLMProvider(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "none", "off", "":
		return "none"
	default:
		return "openai"
	}
}
