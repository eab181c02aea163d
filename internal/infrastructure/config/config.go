package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string        `env:"PORT,      default=8080"`
	Env       string        `env:"ENV,       default=development"`
	LogLevel  string        `env:"LOG_LEVEL, default=info"`
	JWTSecret string        `env:"JWT_SECRET"`
	TokenTTL  time.Duration `env:"TOKEN_TTL, default=720h"`
	ClientURL string        `env:"CLIENT_URL, default=http://localhost:3000"`
	// AdminEmails may call the /api/notifications endpoints.
	AdminEmails []string `env:"ADMIN_EMAILS"`

	Mongo    MongoConfig
	Redis    RedisConfig
	Google   GoogleConfig
	Firebase FirebaseConfig
	Push     PushConfig
	Worker   WorkerConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=todo_app"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

type GoogleConfig struct {
	ClientID     string `env:"GOOGLE_CLIENT_ID"`
	ClientSecret string `env:"GOOGLE_CLIENT_SECRET"`
	CallbackURL  string `env:"GOOGLE_CALLBACK_URL, default=http://localhost:8080/api/auth/google/callback"`
	// AndroidClientIDs are extra audiences accepted on mobile ID tokens.
	AndroidClientIDs []string `env:"GOOGLE_ANDROID_CLIENT_IDS"`
}

// Audiences lists every client id an ID token may be issued for.
func (g GoogleConfig) Audiences() []string {
	out := make([]string, 0, len(g.AndroidClientIDs)+1)
	if g.ClientID != "" {
		out = append(out, g.ClientID)
	}
	for _, id := range g.AndroidClientIDs {
		if id = strings.TrimSpace(id); id != "" {
			out = append(out, id)
		}
	}
	return out
}

type FirebaseConfig struct {
	CredentialsJSON string `env:"FIREBASE_CREDENTIALS_JSON"`
	CredentialsFile string `env:"FIREBASE_CREDENTIALS_FILE"`
	ProjectID       string `env:"FIREBASE_PROJECT_ID"`
}

// Enabled reports whether push delivery can be configured at all.
func (f FirebaseConfig) Enabled() bool {
	return f.CredentialsJSON != "" || f.CredentialsFile != ""
}

type PushConfig struct {
	MaxConcurrency int           `env:"PUSH_MAX_CONCURRENCY, default=8"`
	SendTimeout    time.Duration `env:"PUSH_SEND_TIMEOUT,    default=10s"`
}

type WorkerConfig struct {
	Count       int           `env:"WORKER_COUNT,        default=4"`
	QueueSize   int           `env:"WORKER_QUEUE_SIZE,   default=256"`
	TaskTimeout time.Duration `env:"WORKER_TASK_TIMEOUT, default=30s"`
}

// IsProduction reports whether error details must be hidden from clients.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return LoadWith(ctx, envconfig.OsLookuper())
}

// LoadWith reads configuration from the given lookuper.
func LoadWith(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("config: JWT_SECRET is required")
	}
	return &cfg, nil
}
