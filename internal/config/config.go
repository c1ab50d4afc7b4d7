package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Env                   string        `mapstructure:"ENV"`
	Port                  string        `mapstructure:"PORT"`
	BackendURL            string        `mapstructure:"BACKEND_URL"`
	SessionSecret         string        `mapstructure:"SESSION_SECRET"`
	SessionTTL            time.Duration `mapstructure:"SESSION_TTL"`
	PollInterval          time.Duration `mapstructure:"POLL_INTERVAL"`
	SatisfactionThreshold int           `mapstructure:"SATISFACTION_THRESHOLD"`
	CORSAllowed           string        `mapstructure:"CORS_ALLOWED_ORIGINS"`
	RequestTimeout        time.Duration `mapstructure:"REQUEST_TIMEOUT"`
	LogLevel              string        `mapstructure:"LOG_LEVEL"`
}

func Load() (Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	_ = v.ReadInConfig()

	v.SetDefault("ENV", "dev")
	v.SetDefault("PORT", "3000")
	v.SetDefault("BACKEND_URL", "http://127.0.0.1:8000")
	v.SetDefault("SESSION_TTL", "24h")
	v.SetDefault("POLL_INTERVAL", "3s")
	v.SetDefault("SATISFACTION_THRESHOLD", 4)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("REQUEST_TIMEOUT", "30s")
	v.SetDefault("LOG_LEVEL", "info")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
