package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Mode       string        `mapstructure:"mode"`
	Port       int           `mapstructure:"port"`
	StaticPath string        `mapstructure:"static_path"`
	ReadLimit  int64         `mapstructure:"read_limit"`
	PingPeriod time.Duration `mapstructure:"ping_period"`
	Secret     string        `mapstructure:"secret"`
	PublicURL  string        `mapstructure:"public_url"`
	LogLevel   string        `mapstructure:"log_level"`

	Relay       RelayConfig     `mapstructure:"relay"`
	Languages   LanguagesConfig `mapstructure:"languages"`
	Recognition ProviderConfig  `mapstructure:"recognition"`
	Translation ProviderConfig  `mapstructure:"translation"`
	Synthesis   ProviderConfig  `mapstructure:"synthesis"`
	Google      GoogleConfig    `mapstructure:"google"`
	Gemini      GeminiConfig    `mapstructure:"gemini"`
}

type RelayConfig struct {
	CleanupDelay        time.Duration `mapstructure:"cleanup_delay"`
	CollaboratorTimeout time.Duration `mapstructure:"collaborator_timeout"`
	RateLimit           int           `mapstructure:"rate_limit"`
	RateInterval        time.Duration `mapstructure:"rate_interval"`
	SendBuffer          int           `mapstructure:"send_buffer"`
}

type LanguagesConfig struct {
	Default  string `mapstructure:"default"`
	Reply    string `mapstructure:"reply"`
	Fallback string `mapstructure:"fallback"`
}

// ProviderConfig selects a collaborator backend: "google", "gemini" or
// "none".
type ProviderConfig struct {
	Provider string `mapstructure:"provider"`
}

type GoogleConfig struct {
	APIKey      string `mapstructure:"api_key"`
	SpeechModel string `mapstructure:"speech_model"`
	TTSVoice    string `mapstructure:"tts_voice"`
}

type GeminiConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("mode", "release")
	v.SetDefault("port", 8080)
	v.SetDefault("static_path", "./web")
	v.SetDefault("read_limit", 4<<20)
	v.SetDefault("ping_period", "54s")
	v.SetDefault("secret", "relay-dev-secret")
	v.SetDefault("public_url", "")
	v.SetDefault("log_level", "info")

	v.SetDefault("relay.cleanup_delay", "5m")
	v.SetDefault("relay.collaborator_timeout", "30s")
	v.SetDefault("relay.rate_limit", 20)
	v.SetDefault("relay.rate_interval", "10s")
	v.SetDefault("relay.send_buffer", 32)

	v.SetDefault("languages.default", "en-IN")
	v.SetDefault("languages.reply", "en-IN")
	v.SetDefault("languages.fallback", "hi-IN")

	v.SetDefault("recognition.provider", "google")
	v.SetDefault("translation.provider", "google")
	v.SetDefault("synthesis.provider", "google")

	v.SetDefault("google.api_key", "")
	v.SetDefault("google.speech_model", "latest_short")
	v.SetDefault("google.tts_voice", "")

	v.SetDefault("gemini.api_key", "")
	v.SetDefault("gemini.model", "gemini-2.5-flash")
}

// DefaultPath is config/config.<CONFIG_ENV>.yaml, CONFIG_ENV defaulting to dev.
func DefaultPath() string {
	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}
	return fmt.Sprintf("config/config.%s.yaml", env)
}

// Load reads path (DefaultPath when empty). A missing file is not an
// error; defaults and RELAY_* environment variables still apply.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	if path == "" {
		path = DefaultPath()
	}
	v.SetConfigFile(path)

	setDefaults(v)
	v.SetEnvPrefix("RELAY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		log.Warn().Str("module", "config").Str("file", path).Msg("config file not found, using defaults")
	} else {
		log.Info().Str("module", "config").Str("file", path).Msg("loaded config")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log.Info().Str("module", "config").Str("mode", cfg.Mode).Int("port", cfg.Port).Str("static", cfg.StaticPath).Msg("config ready")
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	for name, p := range map[string]string{
		"recognition": c.Recognition.Provider,
		"translation": c.Translation.Provider,
		"synthesis":   c.Synthesis.Provider,
	} {
		switch p {
		case "google", "gemini", "none", "":
		default:
			return fmt.Errorf("unknown %s provider %q", name, p)
		}
	}
	if c.Synthesis.Provider == "gemini" {
		return fmt.Errorf("synthesis provider gemini is not supported")
	}
	return nil
}
