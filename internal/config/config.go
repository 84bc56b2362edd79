package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration
type Config struct {
	Server    ServerConfig
	Documents DocumentsConfig
	Updates   UpdatesConfig
	MongoDB   MongoDBConfig
	Redis     RedisConfig
	MinIO     MinIOConfig
	OIDC      OIDCConfig
	RateLimit RateLimitConfig
	Addin     AddinConfig
	Handler   HandlerConfig
}

type ServerConfig struct {
	Port            string
	Host            string
	Environment     string
	PublicURL       string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// Storage backends for .docx files.
const (
	DocumentsLocal = "local"
	DocumentsMinIO = "minio"
)

type DocumentsConfig struct {
	Backend     string
	Dir         string
	MaxUploadMB int64
	Watch       bool
}

// Backends for the document-update log.
const (
	UpdatesMemory = "memory"
	UpdatesRedis  = "redis"
	UpdatesMongo  = "mongo"
)

type UpdatesConfig struct {
	Backend    string
	MaxEntries int
}

type MongoDBConfig struct {
	URI      string
	Database string
	Timeout  time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Bucket    string
}

type OIDCConfig struct {
	Issuer        string
	ClientID      string
	AllowInsecure bool
}

type RateLimitConfig struct {
	Enabled       bool
	RPS           float64
	Burst         int
	UseRedis      bool
	WindowSeconds int
}

type AddinConfig struct {
	Name         string
	ManifestPath string
	WordPaths    []string
}

type HandlerConfig struct {
	Scheme        string
	Port          int
	Timeout       time.Duration
	ShutdownGrace time.Duration
	LogFile       string
}

// DefaultWordPaths are the Office 16 click-to-run install locations.
var DefaultWordPaths = []string{
	`C:\Program Files\Microsoft Office\root\Office16\WINWORD.EXE`,
	`C:\Program Files (x86)\Microsoft Office\root\Office16\WINWORD.EXE`,
}

// LoadConfig loads configuration from environment variables and an optional .env file.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("SERVER_PORT", "3001")
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_ENVIRONMENT", "development")
	v.SetDefault("SERVER_SHUTDOWN_TIMEOUT", 10)
	v.SetDefault("DOCUMENTS_BACKEND", DocumentsLocal)
	v.SetDefault("DOCUMENTS_DIR", "documents")
	v.SetDefault("DOCUMENTS_MAX_UPLOAD_MB", 50)
	v.SetDefault("DOCUMENTS_WATCH", false)
	v.SetDefault("UPDATES_BACKEND", UpdatesMemory)
	v.SetDefault("UPDATES_MAX_ENTRIES", 10000)
	v.SetDefault("MONGODB_DATABASE", "wordlink")
	v.SetDefault("MONGODB_TIMEOUT", 10)
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("MINIO_BUCKET", "wordlink")
	v.SetDefault("RATE_LIMIT_RPS", 10.0)
	v.SetDefault("RATE_LIMIT_BURST", 20)
	v.SetDefault("RATE_LIMIT_WINDOW_SECONDS", 1)
	v.SetDefault("ADDIN_NAME", "MyAddin")
	v.SetDefault("ADDIN_MANIFEST_PATH", filepath.Join("..", "word-add-in", "manifest.xml"))
	v.SetDefault("HANDLER_SCHEME", "wordaddin")
	v.SetDefault("HANDLER_PORT", 9876)
	v.SetDefault("HANDLER_TIMEOUT_MS", 5000)
	v.SetDefault("HANDLER_SHUTDOWN_GRACE_MS", 500)

	durations := map[string]time.Duration{}
	for key, unit := range map[string]time.Duration{
		"SERVER_SHUTDOWN_TIMEOUT":   time.Second,
		"MONGODB_TIMEOUT":           time.Second,
		"HANDLER_TIMEOUT_MS":        time.Millisecond,
		"HANDLER_SHUTDOWN_GRACE_MS": time.Millisecond,
	} {
		d, err := duration(v, key, unit)
		if err != nil {
			return nil, err
		}
		durations[key] = d
	}

	port := v.GetString("SERVER_PORT")
	publicURL := v.GetString("SERVER_PUBLIC_URL")
	if publicURL == "" {
		publicURL = "http://localhost:" + port
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:            port,
			Host:            v.GetString("SERVER_HOST"),
			Environment:     v.GetString("SERVER_ENVIRONMENT"),
			PublicURL:       strings.TrimRight(publicURL, "/"),
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: durations["SERVER_SHUTDOWN_TIMEOUT"],
		},
		Documents: DocumentsConfig{
			Backend:     strings.ToLower(v.GetString("DOCUMENTS_BACKEND")),
			Dir:         v.GetString("DOCUMENTS_DIR"),
			MaxUploadMB: v.GetInt64("DOCUMENTS_MAX_UPLOAD_MB"),
			Watch:       v.GetBool("DOCUMENTS_WATCH"),
		},
		Updates: UpdatesConfig{
			Backend:    strings.ToLower(v.GetString("UPDATES_BACKEND")),
			MaxEntries: v.GetInt("UPDATES_MAX_ENTRIES"),
		},
		MongoDB: MongoDBConfig{
			URI:      v.GetString("MONGODB_URI"),
			Database: v.GetString("MONGODB_DATABASE"),
			Timeout:  durations["MONGODB_TIMEOUT"],
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetString("REDIS_PORT"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       0,
		},
		MinIO: MinIOConfig{
			Endpoint:  v.GetString("MINIO_ENDPOINT"),
			AccessKey: v.GetString("MINIO_ACCESS_KEY"),
			SecretKey: os.Getenv("MINIO_SECRET_KEY"),
			UseSSL:    v.GetBool("MINIO_USE_SSL"),
			Bucket:    v.GetString("MINIO_BUCKET"),
		},
		OIDC: OIDCConfig{
			Issuer:        v.GetString("OIDC_ISSUER"),
			ClientID:      v.GetString("OIDC_CLIENT_ID"),
			AllowInsecure: v.GetBool("ALLOW_INSECURE_TOKEN"),
		},
		RateLimit: RateLimitConfig{
			Enabled:       v.GetBool("RATE_LIMIT_ENABLED"),
			RPS:           v.GetFloat64("RATE_LIMIT_RPS"),
			Burst:         v.GetInt("RATE_LIMIT_BURST"),
			UseRedis:      v.GetBool("RATE_LIMIT_USE_REDIS"),
			WindowSeconds: v.GetInt("RATE_LIMIT_WINDOW_SECONDS"),
		},
		Addin: AddinConfig{
			Name:         v.GetString("ADDIN_NAME"),
			ManifestPath: v.GetString("ADDIN_MANIFEST_PATH"),
			WordPaths:    splitList(v.GetString("ADDIN_WORD_PATHS"), DefaultWordPaths),
		},
		Handler: HandlerConfig{
			Scheme:        strings.ToLower(v.GetString("HANDLER_SCHEME")),
			Port:          v.GetInt("HANDLER_PORT"),
			Timeout:       durations["HANDLER_TIMEOUT_MS"],
			ShutdownGrace: durations["HANDLER_SHUTDOWN_GRACE_MS"],
			LogFile:       v.GetString("HANDLER_LOG_FILE"),
		},
	}
	if cfg.Handler.LogFile == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = os.TempDir()
		}
		cfg.Handler.LogFile = filepath.Join(home, "wordaddin-log.txt")
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Documents.Backend {
	case DocumentsLocal:
	case DocumentsMinIO:
		if c.MinIO.Endpoint == "" {
			return fmt.Errorf("DOCUMENTS_BACKEND=minio requires MINIO_ENDPOINT")
		}
	default:
		return fmt.Errorf("unknown DOCUMENTS_BACKEND %q", c.Documents.Backend)
	}
	switch c.Updates.Backend {
	case UpdatesMemory:
	case UpdatesRedis:
		if c.Redis.Host == "" {
			return fmt.Errorf("UPDATES_BACKEND=redis requires REDIS_HOST")
		}
	case UpdatesMongo:
		if c.MongoDB.URI == "" {
			return fmt.Errorf("UPDATES_BACKEND=mongo requires MONGODB_URI")
		}
	default:
		return fmt.Errorf("unknown UPDATES_BACKEND %q", c.Updates.Backend)
	}
	if c.Documents.MaxUploadMB <= 0 {
		return fmt.Errorf("DOCUMENTS_MAX_UPLOAD_MB must be positive")
	}
	for key, d := range map[string]time.Duration{
		"SERVER_SHUTDOWN_TIMEOUT":   c.Server.ShutdownTimeout,
		"MONGODB_TIMEOUT":           c.MongoDB.Timeout,
		"HANDLER_TIMEOUT_MS":        c.Handler.Timeout,
		"HANDLER_SHUTDOWN_GRACE_MS": c.Handler.ShutdownGrace,
	} {
		if d <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}

// duration reads key as a bare number in unit (the documented form, e.g.
// HANDLER_TIMEOUT_MS=5000) or as a Go duration string such as "5s".
func duration(v *viper.Viper, key string, unit time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(v.GetString(key))
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return time.Duration(n) * unit, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid duration %q", key, raw)
	}
	return d, nil
}

// MaxUploadBytes is the upload limit in bytes.
func (d DocumentsConfig) MaxUploadBytes() int64 {
	return d.MaxUploadMB << 20
}

func splitList(raw string, def []string) []string {
	if strings.TrimSpace(raw) == "" {
		return append([]string(nil), def...)
	}
	var out []string
	for _, p := range strings.Split(raw, ";") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
