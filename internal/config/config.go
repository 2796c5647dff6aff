package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dkeye/Pulse/internal/adapters/rtc"
	"github.com/spf13/viper"
)

type Config struct {
	Mode           string        `mapstructure:"mode"`
	Port           int           `mapstructure:"port"`
	StaticPath     string        `mapstructure:"static_path"`
	ReadLimit      int64         `mapstructure:"read_limit"`
	PingPeriod     time.Duration `mapstructure:"ping_period"`
	Secret         string        `mapstructure:"secret"`
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
	SendBuffer     int           `mapstructure:"send_buffer"`
	Backpressure   string        `mapstructure:"backpressure"`

	Log     LogConfig     `mapstructure:"log"`
	Auth    AuthConfig    `mapstructure:"auth"`
	Store   StoreConfig   `mapstructure:"store"`
	Push    PushConfig    `mapstructure:"push"`
	Pairing PairingConfig `mapstructure:"pairing"`
	Calls   CallsConfig   `mapstructure:"calls"`
	Rate    RateConfig    `mapstructure:"rate"`
}

type LogConfig struct {
	Level      string `mapstructure:"level"`
	Pretty     bool   `mapstructure:"pretty"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

type AuthConfig struct {
	JWTSecret          string        `mapstructure:"jwt_secret"`
	CookieName         string        `mapstructure:"cookie_name"`
	TokenTTL           time.Duration `mapstructure:"token_ttl"`
	AllowQueryIdentity bool          `mapstructure:"allow_query_identity"`
	SecureCookie       bool          `mapstructure:"secure_cookie"`
}

type StoreConfig struct {
	Path string `mapstructure:"path"`
}

type PushConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	ProjectID       string        `mapstructure:"project_id"`
	CredentialsFile string        `mapstructure:"credentials_file"`
	Endpoint        string        `mapstructure:"endpoint"`
	Concurrency     int           `mapstructure:"concurrency"`
	Timeout         time.Duration `mapstructure:"timeout"`
}

type PairingConfig struct {
	TokenTTL      time.Duration `mapstructure:"token_ttl"`
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
	CodeDigits    int           `mapstructure:"code_digits"`
}

type CallsConfig struct {
	StrictState bool          `mapstructure:"strict_state"`
	RingTimeout time.Duration `mapstructure:"ring_timeout"`
	// SweepInterval is how often unanswered ringing calls are dropped.
	SweepInterval time.Duration   `mapstructure:"sweep_interval"`
	ICEServers    []rtc.ICEServer `mapstructure:"ice_servers"`
}

type RateConfig struct {
	Events   int           `mapstructure:"events"`
	Interval time.Duration `mapstructure:"interval"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("mode", "release")
	v.SetDefault("port", 8080)
	v.SetDefault("static_path", "")
	v.SetDefault("read_limit", 65536)
	v.SetDefault("ping_period", "54s")
	v.SetDefault("secret", "change-me")
	v.SetDefault("allowed_origins", []string{})
	v.SetDefault("send_buffer", 32)
	v.SetDefault("backpressure", "kick")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", true)
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 50)
	v.SetDefault("log.max_backups", 5)
	v.SetDefault("log.max_age_days", 14)

	v.SetDefault("auth.jwt_secret", "change-me")
	v.SetDefault("auth.cookie_name", "jwt")
	v.SetDefault("auth.token_ttl", "360h")
	v.SetDefault("auth.allow_query_identity", false)
	v.SetDefault("auth.secure_cookie", false)

	v.SetDefault("store.path", "./data/pulse.db")

	v.SetDefault("push.enabled", false)
	v.SetDefault("push.project_id", "")
	v.SetDefault("push.credentials_file", "")
	v.SetDefault("push.endpoint", "")
	v.SetDefault("push.concurrency", 8)
	v.SetDefault("push.timeout", "10s")

	v.SetDefault("pairing.token_ttl", "5m")
	v.SetDefault("pairing.sweep_interval", "1m")
	v.SetDefault("pairing.code_digits", 6)

	v.SetDefault("calls.strict_state", false)
	v.SetDefault("calls.ring_timeout", "60s")
	v.SetDefault("calls.sweep_interval", "30s")
	v.SetDefault("calls.ice_servers", []map[string]any{
		{"urls": []string{"stun:stun.l.google.com:19302"}},
	})

	v.SetDefault("rate.events", 30)
	v.SetDefault("rate.interval", "1s")
}

// Load reads config/config.<CONFIG_ENV>.yaml; PULSE_* variables override it.
func Load() (*Config, error) {
	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}
	return LoadFile(fmt.Sprintf("config/config.%s.yaml", env))
}

func LoadFile(fileName string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigFile(fileName)
	v.SetEnvPrefix("PULSE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		fmt.Printf("⚠️ Config file not found (%s), using defaults\n", fileName)
	} else {
		fmt.Printf("✅ Loaded config: %s\n", fileName)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	fmt.Printf("🧩 Mode: %s | Port: %d | Store: %s | Push: %t\n", cfg.Mode, cfg.Port, cfg.Store.Path, cfg.Push.Enabled)
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("config: port %d out of range", c.Port)
	}
	if c.Pairing.CodeDigits < 4 || c.Pairing.CodeDigits > 12 {
		return fmt.Errorf("config: pairing.code_digits must be within 4..12, got %d", c.Pairing.CodeDigits)
	}
	if c.Push.Enabled && c.Push.ProjectID == "" {
		return fmt.Errorf("config: push.enabled needs push.project_id")
	}
	if c.Backpressure != "kick" && c.Backpressure != "drop" {
		return fmt.Errorf("config: backpressure must be kick or drop, got %q", c.Backpressure)
	}
	if c.PingPeriod <= 0 {
		return fmt.Errorf("config: ping_period must be positive")
	}
	if _, err := rtc.Configuration(c.Calls.ICEServers); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}
