// Package config loads process configuration from the environment once at
// startup. Nothing else in the codebase reads os.Getenv for behavior.
package config

import (
	"fmt"
	"time"
)

// Config is the full process configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Auth     AuthConfig
	Notify   NotifyConfig
}

// Load reads every section from the environment. It returns an error when a
// required value (the token signing secret) is absent so main can refuse to
// start instead of running with a guessable key.
func Load() (*Config, error) {
	auth, err := loadAuthConfig()
	if err != nil {
		return nil, err
	}

	return &Config{
		Server:   loadServerConfig(),
		Database: loadDatabaseConfig(),
		Redis:    loadRedisConfig(),
		Auth:     auth,
		Notify:   loadNotifyConfig(),
	}, nil
}

type ServerConfig struct {
	Port        string
	CORSOrigins string
}

func loadServerConfig() ServerConfig {
	return ServerConfig{
		Port:        getEnv("PORT", "8080"),
		CORSOrigins: getEnv("CORS_ORIGINS", "*"),
	}
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

func loadDatabaseConfig() DatabaseConfig {
	return DatabaseConfig{
		Host:            getEnv("DB_HOST", "localhost"),
		Port:            getEnvInt("DB_PORT", 5432),
		User:            getEnv("DB_USER", "postgres"),
		Password:        getEnv("DB_PASSWORD", ""),
		Name:            getEnv("DB_NAME", "apivini"),
		SSLMode:         getEnv("DB_SSLMODE", "disable"),
		MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 25),
		MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
		ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
	}
}

// DSN builds the lib/pq connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

type RedisConfig struct {
	Host            string
	Port            int
	Password        string
	DB              int
	ProfileCacheTTL time.Duration
}

func loadRedisConfig() RedisConfig {
	return RedisConfig{
		Host:            getEnv("REDIS_HOST", "localhost"),
		Port:            getEnvInt("REDIS_PORT", 6379),
		Password:        getEnv("REDIS_PASSWORD", ""),
		DB:              getEnvInt("REDIS_DB", 0),
		ProfileCacheTTL: getEnvDuration("PROFILE_CACHE_TTL", 60*time.Second),
	}
}

func (r RedisConfig) Address() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type AuthConfig struct {
	JWTSecret      string
	AccessTokenTTL time.Duration
	Issuer         string
}

func loadAuthConfig() (AuthConfig, error) {
	secret := getEnv("AUTH_JWT_SECRET", "")
	if secret == "" {
		return AuthConfig{}, fmt.Errorf("config: AUTH_JWT_SECRET is required")
	}

	return AuthConfig{
		JWTSecret:      secret,
		AccessTokenTTL: getEnvDuration("AUTH_ACCESS_TOKEN_TTL", time.Hour),
		Issuer:         getEnv("AUTH_ISSUER", "apivini"),
	}, nil
}

type NotifyConfig struct {
	Mode      string // "console" or "ses"
	Sender    string
	AWSRegion string
}

func loadNotifyConfig() NotifyConfig {
	return NotifyConfig{
		Mode:      getEnv("NOTIFY_MODE", "console"),
		Sender:    getEnv("NOTIFY_SENDER", "no-reply@apivini.local"),
		AWSRegion: getEnv("AWS_REGION", "us-east-1"),
	}
}
