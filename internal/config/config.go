package config

import "time"

// Config is the root application configuration.
type Config struct {
	Server   Server       `yaml:"server"`
	Database Database     `yaml:"database"`
	AI       AIConfig     `yaml:"ai"`
	Push     PushConfig   `yaml:"push"`
	Summary  SummaryCache `yaml:"summary_cache"`
	Log      LogConfig    `yaml:"log"`
	CORS     CORSConfig   `yaml:"cors"`
}

// Server holds HTTP server settings.
type Server struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"90s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// Database holds PostgreSQL connection settings for the document store.
type Database struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"                env-required:"true"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"25"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"5"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
}

// AIConfig holds generative-AI collaborator settings.
type AIConfig struct {
	APIKey          string        `yaml:"api_key"           env:"AI_API_KEY"           env-required:"true"`
	Model           string        `yaml:"model"             env:"AI_MODEL"             env-default:"claude-sonnet-4-5"`
	Timeout         time.Duration `yaml:"timeout"           env:"AI_TIMEOUT"           env-default:"60s"`
	MaxContentChars int           `yaml:"max_content_chars" env:"AI_MAX_CONTENT_CHARS" env-default:"5000"`
}

// PushConfig holds push-gateway settings.
type PushConfig struct {
	Endpoint  string        `yaml:"endpoint"   env:"PUSH_ENDPOINT"`
	ServerKey string        `yaml:"server_key" env:"PUSH_SERVER_KEY"`
	Timeout   time.Duration `yaml:"timeout"    env:"PUSH_TIMEOUT" env-default:"10s"`
}

// Enabled reports whether the push gateway is configured at all.
// An unset endpoint means the service runs without push delivery.
func (c PushConfig) Enabled() bool {
	return c.Endpoint != "" && c.ServerKey != ""
}

// SummaryCache holds summary-cache tuning.
type SummaryCache struct {
	TTL        time.Duration `yaml:"ttl"         env:"SUMMARY_CACHE_TTL"         env-default:"24h"`
	MaxEntries int           `yaml:"max_entries" env:"SUMMARY_CACHE_MAX_ENTRIES" env-default:"10000"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// CORSConfig holds CORS settings for the REST surface.
type CORSConfig struct {
	AllowedOrigins   string `yaml:"allowed_origins"   env:"CORS_ALLOWED_ORIGINS"   env-default:"*"`
	AllowedMethods   string `yaml:"allowed_methods"   env:"CORS_ALLOWED_METHODS"   env-default:"GET,POST,OPTIONS"`
	AllowedHeaders   string `yaml:"allowed_headers"   env:"CORS_ALLOWED_HEADERS"   env-default:"Authorization,Content-Type"`
	AllowCredentials bool   `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS" env-default:"true"`
	MaxAge           int    `yaml:"max_age"           env:"CORS_MAX_AGE"           env-default:"86400"`
}
