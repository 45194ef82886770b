package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const devSecret = "dev-secret"

type HTTP struct {
	Host string
	Port int
}

// Addr is the host:port the web server listens on.
func (h HTTP) Addr() string { return fmt.Sprintf("%s:%d", h.Host, h.Port) }

type DB struct {
	Driver  string
	Path    string
	Host    string
	Port    int
	User    string
	Pass    string
	Name    string
	SSLMode string
}

type Session struct {
	Secret string
	Issuer string
	Cookie string
	TTL    time.Duration
	Secure bool
}

type Log struct {
	Level   string
	Console bool
}

type Templates struct {
	Dir   string
	Watch bool
}

type Config struct {
	HTTP      HTTP
	DB        DB
	Session   Session
	Log       Log
	Templates Templates
}

// DevSecret reports whether the session secret is the built-in development value.
func (c *Config) DevSecret() bool { return c.Session.Secret == devSecret }

// Load reads the YAML file at path, layered over defaults and FEEDBACK_*
// environment variables. A missing file is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix("feedback")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("http.host", "127.0.0.1")
	v.SetDefault("http.port", 5000)
	v.SetDefault("db.driver", "sqlite")
	v.SetDefault("db.path", "feedback.db")
	v.SetDefault("db.host", "127.0.0.1")
	v.SetDefault("db.port", 0)
	v.SetDefault("db.user", "")
	v.SetDefault("db.pass", "")
	v.SetDefault("db.name", "feedback")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("session.secret", "")
	v.SetDefault("session.issuer", "feedback-board")
	v.SetDefault("session.cookie", "session")
	v.SetDefault("session.ttl_min", 24*60)
	v.SetDefault("session.secure", false)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.console", true)
	v.SetDefault("templates.dir", "")
	v.SetDefault("templates.watch", false)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{
		HTTP: HTTP{Host: v.GetString("http.host"), Port: v.GetInt("http.port")},
		DB: DB{
			Driver:  strings.ToLower(v.GetString("db.driver")),
			Path:    v.GetString("db.path"),
			Host:    v.GetString("db.host"),
			Port:    v.GetInt("db.port"),
			User:    v.GetString("db.user"),
			Pass:    v.GetString("db.pass"),
			Name:    v.GetString("db.name"),
			SSLMode: v.GetString("db.sslmode"),
		},
		Session: Session{
			Secret: v.GetString("session.secret"),
			Issuer: v.GetString("session.issuer"),
			Cookie: v.GetString("session.cookie"),
			TTL:    time.Duration(v.GetInt("session.ttl_min")) * time.Minute,
			Secure: v.GetBool("session.secure"),
		},
		Log:       Log{Level: v.GetString("log.level"), Console: v.GetBool("log.console")},
		Templates: Templates{Dir: v.GetString("templates.dir"), Watch: v.GetBool("templates.watch")},
	}
	if cfg.Session.Secret == "" {
		cfg.Session.Secret = devSecret
	}
	if cfg.Session.TTL <= 0 {
		cfg.Session.TTL = 24 * time.Hour
	}
	if cfg.DB.Port == 0 {
		switch cfg.DB.Driver {
		case "mysql":
			cfg.DB.Port = 3306
		case "postgres":
			cfg.DB.Port = 5432
		}
	}

	switch cfg.DB.Driver {
	case "sqlite", "mysql", "postgres":
	default:
		return nil, fmt.Errorf("unsupported db driver %q", cfg.DB.Driver)
	}
	return cfg, nil
}
