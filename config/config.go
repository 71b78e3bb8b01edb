package config

import (
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	AppEnv   string
	LogLevel string
	Server   Server
	Database Database
	Auth     Auth
	AMQP     AMQP
}

type Server struct {
	Port string
}

type Database struct {
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type Auth struct {
	JWTSecret            string
	JWTTTL               time.Duration
	AdminDefaultPassword string
}

// AMQP publishing is disabled when URL is empty.
type AMQP struct {
	URL      string
	Exchange string
}

func NewConfig() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	viper.AutomaticEnv()

	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("DATABASE_HOST", "localhost")
	viper.SetDefault("DATABASE_PORT", "5432")
	viper.SetDefault("DATABASE_NAME", "exam_system")
	viper.SetDefault("DATABASE_SSLMODE", "disable")
	viper.SetDefault("DATABASE_MAX_OPEN_CONNS", 10)
	viper.SetDefault("DATABASE_MAX_IDLE_CONNS", 5)
	viper.SetDefault("DATABASE_CONN_MAX_LIFETIME", "30m")
	viper.SetDefault("JWT_TTL", "12h")
	viper.SetDefault("ADMIN_DEFAULT_PASSWORD", "admin123")
	viper.SetDefault("AMQP_EXCHANGE", "examhall.events")

	if err := viper.ReadInConfig(); err != nil {
		log.Warn().Err(err).Msg("Error reading config file")
	}

	var config Config

	config.AppEnv = viper.GetString("APP_ENV")
	config.LogLevel = viper.GetString("LOG_LEVEL")

	config.Server.Port = viper.GetString("SERVER_PORT")
	config.Database.Host = viper.GetString("DATABASE_HOST")
	config.Database.Port = viper.GetString("DATABASE_PORT")
	config.Database.User = viper.GetString("DATABASE_USER")
	config.Database.Password = viper.GetString("DATABASE_PASSWORD")
	config.Database.Name = viper.GetString("DATABASE_NAME")
	config.Database.SSLMode = viper.GetString("DATABASE_SSLMODE")
	config.Database.MaxOpenConns = viper.GetInt("DATABASE_MAX_OPEN_CONNS")
	config.Database.MaxIdleConns = viper.GetInt("DATABASE_MAX_IDLE_CONNS")
	config.Database.ConnMaxLifetime = viper.GetDuration("DATABASE_CONN_MAX_LIFETIME")

	config.Auth.JWTSecret = viper.GetString("JWT_SECRET")
	config.Auth.JWTTTL = viper.GetDuration("JWT_TTL")
	config.Auth.AdminDefaultPassword = viper.GetString("ADMIN_DEFAULT_PASSWORD")

	config.AMQP.URL = viper.GetString("AMQP_URL")
	config.AMQP.Exchange = viper.GetString("AMQP_EXCHANGE")

	if config.Auth.JWTSecret == "" {
		log.Warn().Msg("JWT_SECRET is not set, admin tokens are signed with an insecure development secret")
		config.Auth.JWTSecret = "examhall-dev-secret"
	}

	log.Info().
		Str("app_env", config.AppEnv).
		Str("server_port", config.Server.Port).
		Str("database_host", config.Database.Host).
		Str("database_name", config.Database.Name).
		Int("database_max_open_conns", config.Database.MaxOpenConns).
		Bool("amqp_enabled", config.AMQP.URL != "").
		Msg("Config loaded")
	return &config, nil
}

// DSN builds the postgres connection string used by gorm's pgx driver.
func (d Database) DSN() string {
	return "host=" + d.Host +
		" user=" + d.User +
		" password=" + d.Password +
		" dbname=" + d.Name +
		" port=" + d.Port +
		" sslmode=" + d.SSLMode +
		" TimeZone=UTC"
}
