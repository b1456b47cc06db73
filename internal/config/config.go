package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config holds the application configuration
type Config struct {
	BotToken    string `env:"BOT_TOKEN" validate:"required"`
	ChannelID   string `env:"CHANNEL_ID" validate:"required"`
	BotUsername string `env:"BOT_USERNAME" validate:"required"`
	AdminID1    string `env:"ADMIN_ID_1" validate:"required"`
	AdminID2    string `env:"ADMIN_ID_2"`

	// Parsed from ADMIN_ID_1 and ADMIN_ID_2
	AdminIDs []int64 `env:"-"`

	Port int    `env:"PORT" validate:"min=1,max=65535"`
	Env  string `env:"ENV"`

	// Bot mode configuration. The secret is sent on setWebhook and
	// expected back on every webhook delivery.
	WebhookMode   bool   `env:"WEBHOOK_MODE"`
	WebhookURL    string `env:"WEBHOOK_URL" validate:"required_if=WebhookMode true,omitempty,url"`
	WebhookSecret string `env:"WEBHOOK_SECRET" validate:"required_if=WebhookMode true,omitempty,tgsecret"`

	// ClickHouse configuration
	ClickHouseHost     string `env:"CLICKHOUSE_HOST" validate:"required_unless=UseMockDB true"`
	ClickHousePort     int    `env:"CLICKHOUSE_PORT"`
	ClickHouseDatabase string `env:"CLICKHOUSE_DATABASE"`
	ClickHouseUser     string `env:"CLICKHOUSE_USER"`
	ClickHousePassword string `env:"CLICKHOUSE_PASSWORD"`
	ClickHouseUseTLS   bool   `env:"CLICKHOUSE_USE_TLS"`

	UseMockDB bool `env:"USE_MOCK_DB"`

	// Leaderboard cache (disabled when RedisURL is empty)
	RedisURL            string        `env:"REDIS_URL" validate:"omitempty,url"`
	LeaderboardCacheTTL time.Duration `env:"LEADERBOARD_CACHE_TTL"`
}

// IsDevelopment reports whether ENV asks for development behaviour.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// LoadFromEnv loads configuration from environment variables.
// Every missing required variable is reported in a single error.
func LoadFromEnv() (*Config, error) {
	config := &Config{
		BotToken:    os.Getenv("BOT_TOKEN"),
		ChannelID:   os.Getenv("CHANNEL_ID"),
		BotUsername: os.Getenv("BOT_USERNAME"),
		AdminID1:    os.Getenv("ADMIN_ID_1"),
		AdminID2:    os.Getenv("ADMIN_ID_2"),
		Env:         getEnv("ENV", "production"),

		WebhookMode: os.Getenv("WEBHOOK_MODE") == "true",
		WebhookURL:  os.Getenv("WEBHOOK_URL"),
		UseMockDB:   os.Getenv("USE_MOCK_DB") == "true",

		WebhookSecret: os.Getenv("WEBHOOK_SECRET"),

		ClickHouseHost:     os.Getenv("CLICKHOUSE_HOST"),
		ClickHouseDatabase: getEnv("CLICKHOUSE_DATABASE", "default"),
		ClickHouseUser:     getEnv("CLICKHOUSE_USER", "default"),
		ClickHousePassword: os.Getenv("CLICKHOUSE_PASSWORD"), // optional, can be empty
		ClickHouseUseTLS:   os.Getenv("CLICKHOUSE_USE_TLS") == "true",

		RedisURL: os.Getenv("REDIS_URL"),
	}

	var err error
	if config.Port, err = getEnvInt("PORT", 10000); err != nil {
		return nil, err
	}
	if config.ClickHousePort, err = getEnvInt("CLICKHOUSE_PORT", 9000); err != nil {
		return nil, err
	}
	if config.LeaderboardCacheTTL, err = getEnvDuration("LEADERBOARD_CACHE_TTL", 30*time.Second); err != nil {
		return nil, err
	}

	if err := validate(config); err != nil {
		return nil, err
	}

	for _, raw := range []string{config.AdminID1, config.AdminID2} {
		if raw == "" {
			continue
		}
		id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid admin user ID: %s", raw)
		}
		config.AdminIDs = append(config.AdminIDs, id)
	}

	return config, nil
}

var validate = newValidator()

// Telegram accepts 1-256 characters from A-Z, a-z, 0-9, _ and - as secret token.
var webhookSecretPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,256}$`)

func newValidator() func(*Config) error {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		return fld.Tag.Get("env")
	})
	v.RegisterValidation("tgsecret", func(fl validator.FieldLevel) bool {
		return webhookSecretPattern.MatchString(fl.Field().String())
	})

	return func(c *Config) error {
		err := v.Struct(c)
		if err == nil {
			return nil
		}

		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("failed to validate configuration: %w", err)
		}

		var missing, invalid []string
		for _, fe := range verrs {
			switch fe.Tag() {
			case "required", "required_if", "required_unless":
				missing = append(missing, fe.Field())
			default:
				invalid = append(invalid, fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag()))
			}
		}
		if len(missing) > 0 {
			return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
		}
		return fmt.Errorf("invalid environment variables: %s", strings.Join(invalid, ", "))
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return i, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
