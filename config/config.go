package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App     AppConfig
	DB      DBConfig
	Redis   RedisConfig
	JWT     JWTConfig
	Kafka   KafkaConfig
	Storage StorageConfig
	Gateway GatewayConfig
}

type AppConfig struct {
	Port        string
	Env         string
	LogLevel    string
	CORSOrigins []string
}

type DBConfig struct {
	Host         string
	Port         string
	User         string
	Password     string
	Name         string
	SSLMode      string
	TimeZone     string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret        string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
}

// KafkaConfig is optional; with no brokers notification events are stored directly.
type KafkaConfig struct {
	Brokers           []string
	NotificationTopic string
	GroupID           string
}

// StorageConfig is optional; with no bucket attachment uploads are rejected.
type StorageConfig struct {
	Bucket   string
	Endpoint string
	Region   string
}

type GatewayConfig struct {
	Port     string
	Timeout  time.Duration
	Services map[string]string
}

// ServiceNames lists every service the binary can serve and the gateway can route to.
var ServiceNames = []string{
	"auth",
	"department",
	"doctor",
	"patient",
	"appointment",
	"receptionist",
	"notification",
	"payment",
	"admin",
}

// RequiredKeys are the settings check-env refuses to run without.
var RequiredKeys = []string{
	"DB_HOST",
	"DB_PORT",
	"DB_USER",
	"DB_NAME",
	"REDIS_HOST",
	"REDIS_PORT",
	"JWT_SECRET",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("CORS_ORIGINS", "*")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_TIMEZONE", "UTC")
	v.SetDefault("DB_MAX_OPEN_CONNS", 100)
	v.SetDefault("DB_MAX_IDLE_CONNS", 10)
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("KAFKA_NOTIFICATION_TOPIC", "hms.notifications")
	v.SetDefault("KAFKA_GROUP_ID", "hms-notification-service")
	v.SetDefault("AWS_REGION", "us-east-1")
	v.SetDefault("GATEWAY_PORT", "8000")
	v.SetDefault("GATEWAY_TIMEOUT", "30s")
}

// newViper reads .env when present and always layers the process environment on top.
func newViper(envFile string) *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(envFile)
	v.SetConfigType("env")
	v.AutomaticEnv()

	// A missing .env is fine, the environment may carry everything.
	_ = v.ReadInConfig()
	return v
}

func LoadConfig() (*Config, error) {
	return LoadConfigFrom(".env")
}

func LoadConfigFrom(envFile string) (*Config, error) {
	v := newViper(envFile)

	accessExpiry, err := time.ParseDuration(v.GetString("JWT_ACCESS_EXPIRY"))
	if err != nil {
		accessExpiry = 15 * time.Minute
	}

	refreshExpiry, err := time.ParseDuration(v.GetString("JWT_REFRESH_EXPIRY"))
	if err != nil {
		refreshExpiry = 7 * 24 * time.Hour
	}

	gatewayTimeout, err := time.ParseDuration(v.GetString("GATEWAY_TIMEOUT"))
	if err != nil {
		return nil, fmt.Errorf("invalid GATEWAY_TIMEOUT: %w", err)
	}

	services := make(map[string]string, len(ServiceNames))
	for _, name := range ServiceNames {
		if url := v.GetString(ServiceURLKey(name)); url != "" {
			services[name] = strings.TrimRight(url, "/")
		}
	}

	config := &Config{
		App: AppConfig{
			Port:        v.GetString("APP_PORT"),
			Env:         v.GetString("APP_ENV"),
			LogLevel:    v.GetString("LOG_LEVEL"),
			CORSOrigins: splitList(v.GetString("CORS_ORIGINS")),
		},
		DB: DBConfig{
			Host:         v.GetString("DB_HOST"),
			Port:         v.GetString("DB_PORT"),
			User:         v.GetString("DB_USER"),
			Password:     v.GetString("DB_PASSWORD"),
			Name:         v.GetString("DB_NAME"),
			SSLMode:      v.GetString("DB_SSLMODE"),
			TimeZone:     v.GetString("DB_TIMEZONE"),
			MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetString("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			Secret:        v.GetString("JWT_SECRET"),
			AccessExpiry:  accessExpiry,
			RefreshExpiry: refreshExpiry,
		},
		Kafka: KafkaConfig{
			Brokers:           splitList(v.GetString("KAFKA_BROKERS")),
			NotificationTopic: v.GetString("KAFKA_NOTIFICATION_TOPIC"),
			GroupID:           v.GetString("KAFKA_GROUP_ID"),
		},
		Storage: StorageConfig{
			Bucket:   v.GetString("S3_BUCKET"),
			Endpoint: v.GetString("S3_ENDPOINT"),
			Region:   v.GetString("AWS_REGION"),
		},
		Gateway: GatewayConfig{
			Port:     v.GetString("GATEWAY_PORT"),
			Timeout:  gatewayTimeout,
			Services: services,
		},
	}

	return config, nil
}

// ServiceURLKey returns the env key holding a service's base URL, e.g. SERVICE_AUTH_URL.
func ServiceURLKey(name string) string {
	return "SERVICE_" + strings.ToUpper(name) + "_URL"
}

// IsDevelopment reports whether verbose development behaviour is enabled.
func (c *Config) IsDevelopment() bool {
	return c.App.Env == "development"
}

// EnvIssue is one finding of CheckEnv.
type EnvIssue struct {
	Key      string
	Message  string
	Required bool
}

// CheckEnv inspects the raw settings the same way LoadConfig sees them and
// reports missing or malformed keys.
func CheckEnv(envFile string) []EnvIssue {
	v := newViper(envFile)
	var issues []EnvIssue

	for _, key := range RequiredKeys {
		if strings.TrimSpace(v.GetString(key)) == "" {
			issues = append(issues, EnvIssue{Key: key, Message: "is required but not set", Required: true})
		}
	}

	if secret := v.GetString("JWT_SECRET"); secret != "" && len(secret) < 32 {
		issues = append(issues, EnvIssue{Key: "JWT_SECRET", Message: "should be at least 32 characters"})
	}

	for _, key := range []string{"JWT_ACCESS_EXPIRY", "JWT_REFRESH_EXPIRY", "GATEWAY_TIMEOUT"} {
		raw := v.GetString(key)
		if raw == "" {
			continue
		}
		if _, err := time.ParseDuration(raw); err != nil {
			issues = append(issues, EnvIssue{Key: key, Message: fmt.Sprintf("is not a valid duration: %q", raw), Required: true})
		}
	}

	for _, name := range ServiceNames {
		key := ServiceURLKey(name)
		if v.GetString(key) == "" {
			issues = append(issues, EnvIssue{Key: key, Message: "not set, gateway will answer 503 for " + name})
		}
	}

	return issues
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
