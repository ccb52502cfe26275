package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

func NewViper() *viper.Viper {
	// .env is optional; values already set in the environment win
	_ = godotenv.Load()

	config := viper.New()

	if os.Getenv("ENV") == "production" {
		config.SetConfigName("config.prod")
	} else {
		config.SetConfigName("config")
	}

	config.SetConfigType("yaml")
	config.AddConfigPath(".")

	config.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	config.AutomaticEnv()
	SetDefaults(config)

	if err := config.ReadInConfig(); err != nil {
		panic(fmt.Errorf("fatal error config file: %w", err))
	}

	return config
}

// SetDefaults registers the fallback of every optional key.
func SetDefaults(config *viper.Viper) {
	config.SetDefault("app.name", "hangeul-quiz-be")
	config.SetDefault("api.listen", ":8080")
	config.SetDefault("api.prefork", false)
	config.SetDefault("api.cors.origins", "*")
	config.SetDefault("api.read_timeout_seconds", 15)
	config.SetDefault("api.write_timeout_seconds", 30)

	config.SetDefault("log.level", "info")
	config.SetDefault("log.format", "text")

	config.SetDefault("database.driver", "postgres")
	config.SetDefault("database.port", 5432)
	config.SetDefault("database.sslmode", "disable")
	config.SetDefault("database.timezone", "UTC")
	config.SetDefault("database.path", "hangeul.db")

	config.SetDefault("quiz.session_size", 10)
	config.SetDefault("quiz.time_limit_seconds", 60)
	config.SetDefault("quiz.session_ttl_minutes", 30)
	config.SetDefault("quiz.fill_blank_policy", "degrade")

	config.SetDefault("progress.default_timezone", "UTC")
	config.SetDefault("progress.weekly_goal_target", 300)

	config.SetDefault("llm.provider", "openai")
}
