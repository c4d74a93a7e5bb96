package app

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
)

// Duration lets TOML files carry values like "15m"; toml decodes through
// encoding.TextUnmarshaler.
type Duration time.Duration

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

type Config struct {
	Server ServerConfig `toml:"server"`
	Repo   RepoConfig   `toml:"repo"`
	Media  MediaConfig  `toml:"media"`
	Gate   GateConfig   `toml:"gate"`
	Auth   AuthConfig   `toml:"auth"`
}

type ServerConfig struct {
	Addr string `toml:"addr"`
	// BaseURL is the externally visible origin, used for OAuth redirect
	// URLs and filesystem-backed media URLs.
	BaseURL string `toml:"base_url"`
}

type RepoConfig struct {
	Backend        string `toml:"backend"`
	DatabaseDriver string `toml:"database_driver"`
	DatabaseDSN    string `toml:"database_dsn"`
	DynamoTable    string `toml:"dynamo_table"`
	DynamoEndpoint string `toml:"dynamo_endpoint"`
}

type MediaConfig struct {
	Backend          string   `toml:"backend"`
	Dir              string   `toml:"dir"`
	S3Bucket         string   `toml:"s3_bucket"`
	AWSRegion        string   `toml:"aws_region"`
	S3Endpoint       string   `toml:"s3_endpoint"`
	CloudFrontDomain string   `toml:"cloudfront_domain"`
	PresignTTL       Duration `toml:"presign_ttl"`
}

type GateConfig struct {
	Enabled             bool    `toml:"enabled"`
	MaxUploadBytes      int64   `toml:"max_upload_bytes"`
	MaxDurationSeconds  float64 `toml:"max_duration_seconds"`
	DeepgramAPIKey      string  `toml:"deepgram_api_key"`
	DeepgramModel       string  `toml:"deepgram_model"`
	ClassifierAPIKey    string  `toml:"classifier_api_key"`
	ClassifierBaseURL   string  `toml:"classifier_base_url"`
	ClassifierModel     string  `toml:"classifier_model"`
	AIRequestsPerSecond float64 `toml:"ai_rps"`
}

type AuthConfig struct {
	Strategy           string   `toml:"strategy"`
	SessionLifetime    Duration `toml:"session_lifetime"`
	GoogleClientID     string   `toml:"google_client_id"`
	GoogleClientSecret string   `toml:"google_client_secret"`
	ReplitClientID     string   `toml:"replit_client_id"`
	ReplitClientSecret string   `toml:"replit_client_secret"`
}

func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Addr:    ":8080",
			BaseURL: "http://localhost:8080",
		},
		Repo: RepoConfig{
			Backend:        "memory",
			DatabaseDriver: "sqlite",
			DynamoTable:    "clipdeck",
		},
		Media: MediaConfig{
			Backend:    "fs",
			Dir:        "media",
			AWSRegion:  "us-east-1",
			PresignTTL: Duration(15 * time.Minute),
		},
		Gate: GateConfig{
			Enabled:             false,
			MaxUploadBytes:      100 << 20,
			MaxDurationSeconds:  180,
			DeepgramModel:       "nova-2",
			AIRequestsPerSecond: 2,
		},
		Auth: AuthConfig{
			Strategy:        "dev",
			SessionLifetime: Duration(168 * time.Hour),
		},
	}
}

// LoadConfig starts from the defaults, overlays the TOML file when it
// exists and finally applies environment variables. Env always wins.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := toml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parsing config file %s: %w", path, err)
			}
		case !os.IsNotExist(err):
			return cfg, fmt.Errorf("reading config file %s: %w", path, err)
		}
	}
	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.Server.Addr = getEnv("ADDR", cfg.Server.Addr)
	cfg.Server.BaseURL = getEnv("BASE_URL", cfg.Server.BaseURL)

	cfg.Repo.Backend = getEnv("REPO_BACKEND", cfg.Repo.Backend)
	cfg.Repo.DatabaseDriver = getEnv("DATABASE_DRIVER", cfg.Repo.DatabaseDriver)
	cfg.Repo.DatabaseDSN = getEnv("DATABASE_DSN", cfg.Repo.DatabaseDSN)
	cfg.Repo.DynamoTable = getEnv("DYNAMO_TABLE", cfg.Repo.DynamoTable)
	cfg.Repo.DynamoEndpoint = getEnv("DYNAMO_ENDPOINT", cfg.Repo.DynamoEndpoint)

	cfg.Media.Backend = getEnv("MEDIA_BACKEND", cfg.Media.Backend)
	cfg.Media.Dir = getEnv("MEDIA_DIR", cfg.Media.Dir)
	cfg.Media.S3Bucket = getEnv("S3_BUCKET", cfg.Media.S3Bucket)
	cfg.Media.AWSRegion = getEnv("AWS_REGION", cfg.Media.AWSRegion)
	cfg.Media.S3Endpoint = getEnv("S3_ENDPOINT", cfg.Media.S3Endpoint)
	cfg.Media.CloudFrontDomain = getEnv("CLOUDFRONT_DOMAIN", cfg.Media.CloudFrontDomain)
	cfg.Media.PresignTTL = Duration(getDurationEnv("PRESIGN_TTL", time.Duration(cfg.Media.PresignTTL)))

	cfg.Gate.Enabled = getBoolEnv("GATE_ENABLED", cfg.Gate.Enabled)
	cfg.Gate.MaxUploadBytes = getInt64Env("UPLOAD_MAX_BYTES", cfg.Gate.MaxUploadBytes)
	cfg.Gate.MaxDurationSeconds = getFloat64Env("UPLOAD_MAX_SECONDS", cfg.Gate.MaxDurationSeconds)
	cfg.Gate.DeepgramAPIKey = getEnv("DEEPGRAM_API_KEY", cfg.Gate.DeepgramAPIKey)
	cfg.Gate.DeepgramModel = getEnv("DEEPGRAM_MODEL", cfg.Gate.DeepgramModel)
	cfg.Gate.ClassifierAPIKey = getEnv("CLASSIFIER_API_KEY", cfg.Gate.ClassifierAPIKey)
	cfg.Gate.ClassifierBaseURL = getEnv("CLASSIFIER_BASE_URL", cfg.Gate.ClassifierBaseURL)
	cfg.Gate.ClassifierModel = getEnv("CLASSIFIER_MODEL", cfg.Gate.ClassifierModel)
	cfg.Gate.AIRequestsPerSecond = getFloat64Env("AI_RPS", cfg.Gate.AIRequestsPerSecond)

	cfg.Auth.Strategy = getEnv("AUTH_STRATEGY", cfg.Auth.Strategy)
	cfg.Auth.SessionLifetime = Duration(getDurationEnv("SESSION_LIFETIME", time.Duration(cfg.Auth.SessionLifetime)))
	cfg.Auth.GoogleClientID = getEnv("GOOGLE_CLIENT_ID", cfg.Auth.GoogleClientID)
	cfg.Auth.GoogleClientSecret = getEnv("GOOGLE_CLIENT_SECRET", cfg.Auth.GoogleClientSecret)
	cfg.Auth.ReplitClientID = getEnv("REPLIT_CLIENT_ID", cfg.Auth.ReplitClientID)
	cfg.Auth.ReplitClientSecret = getEnv("REPLIT_CLIENT_SECRET", cfg.Auth.ReplitClientSecret)
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getDurationEnv(key string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	if ms, err := strconv.Atoi(val); err == nil {
		return time.Duration(ms) * time.Millisecond
	}
	if d, err := time.ParseDuration(val); err == nil {
		return d
	}
	return defaultVal
}

func getBoolEnv(key string, defaultVal bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	if b, err := strconv.ParseBool(val); err == nil {
		return b
	}
	return defaultVal
}

func getInt64Env(key string, defaultVal int64) int64 {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	if n, err := strconv.ParseInt(val, 10, 64); err == nil {
		return n
	}
	return defaultVal
}

func getFloat64Env(key string, defaultVal float64) float64 {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	if f, err := strconv.ParseFloat(val, 64); err == nil {
		return f
	}
	return defaultVal
}
