package config

import (
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	AppPort           int     `mapstructure:"APP_PORT"`
	DatabasePath      string  `mapstructure:"DATABASE_PATH"`
	LogLevel          string  `mapstructure:"LOG_LEVEL"`
	OpenAIAPIKey      string  `mapstructure:"OPENAI_API_KEY"`
	OpenAIBaseURL     string  `mapstructure:"OPENAI_BASE_URL"`
	OpenRouterAPIKey  string  `mapstructure:"OPENROUTER_API_KEY"`
	OpenRouterBaseURL string  `mapstructure:"OPENROUTER_BASE_URL"`
	DefaultProvider   string  `mapstructure:"DEFAULT_PROVIDER"`
	DefaultModel      string  `mapstructure:"DEFAULT_MODEL"`
	ModelsFile        string  `mapstructure:"MODELS_FILE"`
	SeedDatabase      bool    `mapstructure:"SEED_DATABASE"`
	TelemetryURL      string  `mapstructure:"TELEMETRY_URL"`
	TelemetryInsecure bool    `mapstructure:"TELEMETRY_INSECURE"`
	ChatRatePerMinute float64 `mapstructure:"CHAT_RATE_PER_MINUTE"`
	ChatRateBurst     int     `mapstructure:"CHAT_RATE_BURST"`
	StaticDir         string  `mapstructure:"STATIC_DIR"`
}

func LoadConfig() (*Config, error) {
	viper.SetDefault("APP_PORT", 8000)
	viper.SetDefault("DATABASE_PATH", "/data/articles.db")
	viper.SetDefault("LOG_LEVEL", "INFO")
	viper.SetDefault("OPENAI_API_KEY", "")
	viper.SetDefault("OPENAI_BASE_URL", "https://api.openai.com/v1")
	viper.SetDefault("OPENROUTER_API_KEY", "")
	viper.SetDefault("OPENROUTER_BASE_URL", "https://openrouter.ai/api/v1")
	viper.SetDefault("DEFAULT_PROVIDER", "OpenAI")
	viper.SetDefault("DEFAULT_MODEL", "gpt-4o-mini")
	viper.SetDefault("MODELS_FILE", "")
	viper.SetDefault("SEED_DATABASE", false)
	viper.SetDefault("TELEMETRY_URL", "")
	viper.SetDefault("TELEMETRY_INSECURE", true)
	viper.SetDefault("CHAT_RATE_PER_MINUTE", 20)
	viper.SetDefault("CHAT_RATE_BURST", 5)
	viper.SetDefault("STATIC_DIR", "./web")

	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./backend")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
