package config

import (
	"testing"
	"time"
)

func TestNewConfigDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("AMQP_URL", "")

	cfg, err := NewConfig()
	if err != nil {
		t.Fatalf("NewConfig: %v", err)
	}
	if cfg.Server.Port != "8080" {
		t.Errorf("server port = %q, want 8080", cfg.Server.Port)
	}
	if cfg.Auth.JWTTTL != 12*time.Hour {
		t.Errorf("jwt ttl = %v, want 12h", cfg.Auth.JWTTTL)
	}
	if cfg.Auth.JWTSecret == "" {
		t.Error("expected a development secret when JWT_SECRET is unset")
	}
	if cfg.AMQP.URL != "" {
		t.Errorf("amqp url = %q, want empty", cfg.AMQP.URL)
	}
}

func TestNewConfigFromEnv(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DATABASE_HOST", "db.internal")
	t.Setenv("DATABASE_CONN_MAX_LIFETIME", "5m")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("ADMIN_DEFAULT_PASSWORD", "changeme")

	cfg, err := NewConfig()
	if err != nil {
		t.Fatalf("NewConfig: %v", err)
	}
	if cfg.Server.Port != "9090" {
		t.Errorf("server port = %q", cfg.Server.Port)
	}
	if cfg.Database.Host != "db.internal" {
		t.Errorf("database host = %q", cfg.Database.Host)
	}
	if cfg.Database.ConnMaxLifetime != 5*time.Minute {
		t.Errorf("conn max lifetime = %v", cfg.Database.ConnMaxLifetime)
	}
	if cfg.Auth.JWTSecret != "s3cret" {
		t.Errorf("jwt secret = %q", cfg.Auth.JWTSecret)
	}
	if cfg.Auth.AdminDefaultPassword != "changeme" {
		t.Errorf("admin default password = %q", cfg.Auth.AdminDefaultPassword)
	}
}

func TestDatabaseDSN(t *testing.T) {
	d := Database{Host: "h", Port: "5433", User: "u", Password: "p", Name: "n", SSLMode: "require"}
	want := "host=h user=u password=p dbname=n port=5433 sslmode=require TimeZone=UTC"
	if got := d.DSN(); got != want {
		t.Errorf("DSN() = %q, want %q", got, want)
	}
}
