package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigPath is used when --config is not provided.
	DefaultConfigPath = "config.yml"

	defaultPort          = 8686
	defaultEnv           = "development"
	defaultRedisURL      = "redis://localhost:6379/0"
	defaultDBHost        = "127.0.0.1"
	defaultDBPort        = 3306
	defaultDBUser        = "root"
	defaultDBName        = "draftproof"
	defaultDBCharset     = "utf8mb4"
	defaultDBLoc         = "Local"
	defaultCacheTTLMin   = 60 * 24
	defaultMaxDocChars   = 10000
	defaultCallTimeout   = 5 // minutes
	defaultRatePerMinute = 60
)

// AppConfig holds runtime startup configuration loaded from YAML.
type AppConfig struct {
	Port           int            `yaml:"port"`
	Env            string         `yaml:"env"` // "development" | "production"
	RedisURL       string         `yaml:"redis_url"`
	Database       DatabaseConfig `yaml:"database"`
	AI             AIConfig       `yaml:"ai"`
	Detect         DetectConfig   `yaml:"detect"`
	AllowedOrigins []string       `yaml:"allowed_origins"`
	JWTSecret      string         `yaml:"jwt_secret"`
	// AdminPasswordHash is a bcrypt hash; plaintext admin_password is
	// accepted for local development and hashed at load time.
	AdminPasswordHash string `yaml:"admin_password_hash"`
	AdminPassword     string `yaml:"admin_password"`
}

type DatabaseConfig struct {
	DSN      string `yaml:"dsn"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	Charset  string `yaml:"charset"`
	Loc      string `yaml:"loc"`
}

// AIConfig lists LLM providers in priority order. The first enabled
// provider with a resolvable credential handles a call; the rest form
// the fallback chain.
type AIConfig struct {
	Providers       []AIProvider `yaml:"providers"`
	DefaultProvider string       `yaml:"default_provider"`
}

type AIProvider struct {
	ID           string `yaml:"id"`
	Name         string `yaml:"name"`
	Type         string `yaml:"type"` // OpenAI | OpenAI-Compatible | Anthropic
	APIKey       string `yaml:"api_key"`
	APIKeyEnv    string `yaml:"api_key_env"`
	Endpoint     string `yaml:"endpoint"`
	DefaultModel string `yaml:"default_model"`
	Enabled      bool   `yaml:"enabled"`
}

// DetectConfig tunes the analysis pipeline.
type DetectConfig struct {
	CacheTTLMinutes   int `yaml:"cache_ttl_minutes"`
	MaxDocumentChars  int `yaml:"max_document_chars"`
	CallTimeoutMin    int `yaml:"call_timeout_minutes"`
	RateLimitPerMin   int `yaml:"rate_limit_per_minute"`
	ReportReturnLimit int `yaml:"report_return_limit"`
}

// Load reads the YAML config file and applies defaults. A missing file
// yields a pure-defaults config so the server can boot in development.
func Load(path string) (*AppConfig, error) {
	cfg := &AppConfig{}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg.applyDefaults()
	cfg.resolveCredentials()
	return cfg, nil
}

func (c *AppConfig) applyDefaults() {
	if c.Port == 0 {
		c.Port = defaultPort
	}
	if strings.TrimSpace(c.Env) == "" {
		c.Env = defaultEnv
	}
	if strings.TrimSpace(c.RedisURL) == "" {
		c.RedisURL = defaultRedisURL
	}
	if c.Detect.CacheTTLMinutes == 0 {
		c.Detect.CacheTTLMinutes = defaultCacheTTLMin
	}
	if c.Detect.MaxDocumentChars == 0 {
		c.Detect.MaxDocumentChars = defaultMaxDocChars
	}
	if c.Detect.CallTimeoutMin == 0 {
		c.Detect.CallTimeoutMin = defaultCallTimeout
	}
	if c.Detect.RateLimitPerMin == 0 {
		c.Detect.RateLimitPerMin = defaultRatePerMinute
	}
	if c.Detect.ReportReturnLimit == 0 {
		c.Detect.ReportReturnLimit = 50
	}
}

// resolveCredentials fills provider API keys from the environment when
// the YAML carries an env var name instead of the key itself.
func (c *AppConfig) resolveCredentials() {
	for i := range c.AI.Providers {
		p := &c.AI.Providers[i]
		if strings.TrimSpace(p.APIKey) != "" {
			continue
		}
		if env := strings.TrimSpace(p.APIKeyEnv); env != "" {
			p.APIKey = strings.TrimSpace(os.Getenv(env))
		}
	}
}

// IsDev reports whether the app runs in development mode.
func (c *AppConfig) IsDev() bool {
	return strings.EqualFold(strings.TrimSpace(c.Env), "development")
}
