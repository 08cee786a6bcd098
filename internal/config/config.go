package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Kafka     KafkaConfig
	Email     EmailConfig
	Session   SessionConfig
	Auth      AuthConfig
	Ticketing TicketingConfig
}

type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type DatabaseConfig struct {
	// Driver selects the kv backend: "sqlite" or "postgres".
	Driver string
	DSN    string
}

type RedisConfig struct {
	Enabled bool
	Addr    string
}

type KafkaConfig struct {
	Enabled  bool
	MockMode bool
	Brokers  []string
	GroupID  string
	Topics   TopicConfig
}

type TopicConfig struct {
	TicketIssued    string
	TicketCheckedIn string
}

type EmailConfig struct {
	Enabled      bool
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	From         string
	// Timeout bounds a single delivery attempt; one retry follows a
	// failed attempt before the send is reported as failed.
	Timeout time.Duration
}

type SessionConfig struct {
	TTL time.Duration
}

type AuthConfig struct {
	JWTSecret string
}

type TicketingConfig struct {
	QRSize        int
	FontPath      string
	AdminName     string
	AdminEmail    string
	AdminPassword string
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", ":8080"),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		Database: DatabaseConfig{
			Driver: getEnv("DB_DRIVER", "sqlite"),
			DSN:    getEnv("DB_DSN", "file:tcs-portal.db?cache=shared"),
		},
		Redis: RedisConfig{
			Enabled: getEnvBool("REDIS_ENABLED", false),
			Addr:    getEnv("REDIS_ADDR", "localhost:6379"),
		},
		Kafka: KafkaConfig{
			Enabled:  getEnvBool("KAFKA_ENABLED", false),
			MockMode: getEnvBool("KAFKA_MOCK_MODE", false),
			Brokers:  strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),
			GroupID:  getEnv("KAFKA_GROUP_ID", "tcs-portal-group"),
			Topics: TopicConfig{
				TicketIssued:    getEnv("KAFKA_TOPIC_TICKET_ISSUED", "ticket-issued"),
				TicketCheckedIn: getEnv("KAFKA_TOPIC_TICKET_CHECKED_IN", "ticket-checked-in"),
			},
		},
		Email: EmailConfig{
			Enabled:      getEnvBool("SMTP_ENABLED", false),
			SMTPHost:     getEnv("SMTP_HOST", "smtp.gmail.com"),
			SMTPPort:     getEnvInt("SMTP_PORT", 587),
			SMTPUsername: getEnv("SMTP_USERNAME", ""),
			SMTPPassword: getEnv("SMTP_PASSWORD", ""),
			From:         getEnv("SMTP_FROM", "thecomputingsociety@gmail.com"),
			Timeout:      time.Duration(getEnvInt("SMTP_TIMEOUT_SECONDS", 10)) * time.Second,
		},
		Session: SessionConfig{
			TTL: time.Duration(getEnvInt("SESSION_TTL_MINUTES", 30)) * time.Minute,
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", "tcs-portal-dev-secret"),
		},
		Ticketing: TicketingConfig{
			QRSize:        getEnvInt("QR_SIZE", 256),
			FontPath:      getEnv("PDF_FONT_PATH", "./fonts/DejaVuSans.ttf"),
			AdminName:     getEnv("ADMIN_NAME", "TCS Admin"),
			AdminEmail:    getEnv("ADMIN_EMAIL", "admin@tcs.uaf"),
			AdminPassword: getEnv("ADMIN_PASSWORD", "admin123"),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
