package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	ServerPort      string
	Environment     string
	AllowedOrigins  []string
	ShutdownTimeout time.Duration

	FirebaseProject            string
	FirebaseAPIKey             string
	FirebaseServiceAccountJSON string
	FirebaseServiceAccountPath string
	StorageBucket              string

	RedisURL             string
	ConversationCacheTTL time.Duration

	NATSURL string

	SendGridAPIKey  string
	MailFromAddress string
	MailFromName    string

	MessageBodyMaxLength int
	APIRateLimit         int
}

func Load() (*Config, error) {
	godotenv.Load()

	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("SHUTDOWN_TIMEOUT", "15s")
	v.SetDefault("FIREBASE_PROJECT_ID", "")
	v.SetDefault("FIREBASE_API_KEY", "")
	v.SetDefault("FIREBASE_SERVICE_ACCOUNT_JSON", "")
	v.SetDefault("FIREBASE_SERVICE_ACCOUNT_PATH", "./firebase-adminsdk.json")
	v.SetDefault("STORAGE_BUCKET", "")
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("CONVERSATION_CACHE_TTL", "30s")
	v.SetDefault("NATS_URL", "")
	v.SetDefault("SENDGRID_API_KEY", "")
	v.SetDefault("MAIL_FROM_ADDRESS", "no-reply@helperhive.app")
	v.SetDefault("MAIL_FROM_NAME", "HelperHive")
	v.SetDefault("MESSAGE_BODY_MAX_LENGTH", 2000)
	v.SetDefault("API_RATE_LIMIT", 60)

	config := &Config{
		ServerPort:      v.GetString("SERVER_PORT"),
		Environment:     v.GetString("ENVIRONMENT"),
		AllowedOrigins:  splitList(v.GetString("ALLOWED_ORIGINS")),
		ShutdownTimeout: v.GetDuration("SHUTDOWN_TIMEOUT"),

		FirebaseProject:            v.GetString("FIREBASE_PROJECT_ID"),
		FirebaseAPIKey:             v.GetString("FIREBASE_API_KEY"),
		FirebaseServiceAccountJSON: v.GetString("FIREBASE_SERVICE_ACCOUNT_JSON"),
		FirebaseServiceAccountPath: v.GetString("FIREBASE_SERVICE_ACCOUNT_PATH"),
		StorageBucket:              v.GetString("STORAGE_BUCKET"),

		RedisURL:             v.GetString("REDIS_URL"),
		ConversationCacheTTL: v.GetDuration("CONVERSATION_CACHE_TTL"),

		NATSURL: v.GetString("NATS_URL"),

		SendGridAPIKey:  v.GetString("SENDGRID_API_KEY"),
		MailFromAddress: v.GetString("MAIL_FROM_ADDRESS"),
		MailFromName:    v.GetString("MAIL_FROM_NAME"),

		MessageBodyMaxLength: v.GetInt("MESSAGE_BODY_MAX_LENGTH"),
		APIRateLimit:         v.GetInt("API_RATE_LIMIT"),
	}

	return config, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
