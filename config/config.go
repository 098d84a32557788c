// config/config.go - application configuration
package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// AppConfig application configuration
type AppConfig struct {
	Server       ServerConfig       `koanf:"server"`
	Database     DatabaseConfig     `koanf:"database"`
	Redis        RedisConfig        `koanf:"redis"`
	Log          LogConfig          `koanf:"log"`
	JWT          JWTConfig          `koanf:"jwt"`
	Registration RegistrationConfig `koanf:"registration"`
	Access       AccessConfig       `koanf:"access"`
}

type ServerConfig struct {
	Host         string `koanf:"host"`
	Port         int    `koanf:"port"`
	GRPCPort     int    `koanf:"grpc_port"`
	Mode         string `koanf:"mode"`          // debug, release
	ReadTimeout  int    `koanf:"read_timeout"`  // seconds
	WriteTimeout int    `koanf:"write_timeout"` // seconds
	FrontendURL  string `koanf:"frontend_url"`
}

type DatabaseConfig struct {
	Host         string `koanf:"host"`
	Port         int    `koanf:"port"`
	Username     string `koanf:"username"`
	Password     string `koanf:"password"`
	Database     string `koanf:"database"`
	SSLMode      bool   `koanf:"sslmode"`
	LogLevel     string `koanf:"log_level"`
	MaxOpenConns int    `koanf:"max_open_conns"`
	MaxIdleConns int    `koanf:"max_idle_conns"`
	MaxLifetime  int    `koanf:"max_lifetime"` // seconds
}

type RedisConfig struct {
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db"`
	PoolSize int    `koanf:"pool_size"`
}

type LogConfig struct {
	Level  string `koanf:"level"`  // debug, info, warn, error
	Format string `koanf:"format"` // json, console
}

type JWTConfig struct {
	Secret     string `koanf:"secret"`
	ExpireTime int    `koanf:"expire_time"` // hours
}

// RegistrationConfig open-registration hold and sweep timings
type RegistrationConfig struct {
	HoldSeconds          int `koanf:"hold_seconds"`
	SweepGraceSeconds    int `koanf:"sweep_grace_seconds"`
	SweepIntervalSeconds int `koanf:"sweep_interval_seconds"`
	SweepJitterMillis    int `koanf:"sweep_jitter_ms"`
	DefaultCapacity      int `koanf:"default_capacity"`
}

// AccessConfig bootstrap role assignments, applied at startup. Students
// also limits who becomes a student on self-registration; leave it empty
// to admit everyone.
type AccessConfig struct {
	Teachers []string `koanf:"teachers"`
	Students []string `koanf:"students"`
}

func (r RegistrationConfig) Hold() time.Duration {
	return time.Duration(r.HoldSeconds) * time.Second
}

func (r RegistrationConfig) SweepGrace() time.Duration {
	return time.Duration(r.SweepGraceSeconds) * time.Second
}

func (r RegistrationConfig) SweepInterval() time.Duration {
	return time.Duration(r.SweepIntervalSeconds) * time.Second
}

func (r RegistrationConfig) SweepJitter() time.Duration {
	return time.Duration(r.SweepJitterMillis) * time.Millisecond
}

func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Load reads .env (optional), then the yaml file, then environment overrides
func Load(configPath string) (*AppConfig, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("warning: could not load .env file: %v", err)
	}

	k := koanf.New(".")

	if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("load config file: %w", err)
	}

	// APP_DATABASE_HOST -> database.host
	if err := k.Load(env.Provider("APP_", ".", func(s string) string {
		return strings.Replace(strings.ToLower(
			strings.TrimPrefix(s, "APP_")), "_", ".", 1)
	}), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	loadCustomEnvVars(k)

	conf := &AppConfig{}
	if err := k.Unmarshal("", conf); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	applyDefaults(conf)

	if err := validateConfig(conf); err != nil {
		return nil, err
	}

	return conf, nil
}

// MustLoad loads the configuration or exits
func MustLoad(configPath string) *AppConfig {
	conf, err := Load(configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	return conf
}

// loadCustomEnvVars short env names kept for deployment scripts
func loadCustomEnvVars(k *koanf.Koanf) {
	aliases := map[string]string{
		"DB_HOST":        "database.host",
		"DB_PORT":        "database.port",
		"DB_USERNAME":    "database.username",
		"DB_PASSWORD":    "database.password",
		"DB_NAME":        "database.database",
		"REDIS_HOST":     "redis.host",
		"REDIS_PORT":     "redis.port",
		"REDIS_PASSWORD": "redis.password",
		"JWT_SECRET":     "jwt.secret",
		"LOG_LEVEL":      "log.level",
		"FRONTEND_URL":   "server.frontend_url",
	}
	for envName, key := range aliases {
		if v := os.Getenv(envName); v != "" {
			k.Set(key, v)
		}
	}
	if v := os.Getenv("DB_SSLMODE"); v != "" {
		k.Set("database.sslmode", v == "true")
	}
}

func applyDefaults(conf *AppConfig) {
	if conf.Server.Port == 0 {
		conf.Server.Port = 8080
	}
	if conf.Server.GRPCPort == 0 {
		conf.Server.GRPCPort = 9090
	}
	if conf.Server.Mode == "" {
		conf.Server.Mode = "debug"
	}
	if conf.Server.ReadTimeout == 0 {
		conf.Server.ReadTimeout = 15
	}
	if conf.Server.WriteTimeout == 0 {
		conf.Server.WriteTimeout = 15
	}
	if conf.Server.FrontendURL == "" {
		conf.Server.FrontendURL = "http://localhost:5173"
	}
	if conf.Log.Level == "" {
		conf.Log.Level = "info"
	}
	if conf.Log.Format == "" {
		conf.Log.Format = "console"
	}
	if conf.JWT.ExpireTime == 0 {
		conf.JWT.ExpireTime = 24
	}

	reg := &conf.Registration
	if reg.HoldSeconds == 0 {
		reg.HoldSeconds = 600
	}
	if reg.SweepGraceSeconds == 0 {
		reg.SweepGraceSeconds = 10
	}
	if reg.SweepIntervalSeconds == 0 {
		reg.SweepIntervalSeconds = 5
	}
	if reg.DefaultCapacity == 0 {
		reg.DefaultCapacity = 100
	}
}

func validateConfig(conf *AppConfig) error {
	if conf.Database.Database == "" {
		return fmt.Errorf("database.database is required")
	}
	if conf.JWT.Secret == "" {
		return fmt.Errorf("jwt.secret is required, set JWT_SECRET")
	}
	if conf.Registration.HoldSeconds < 0 || conf.Registration.SweepGraceSeconds < 0 {
		return fmt.Errorf("registration timings must not be negative")
	}
	if conf.Registration.DefaultCapacity < 0 {
		return fmt.Errorf("registration.default_capacity must not be negative")
	}
	if conf.Database.Password == "" {
		log.Println("warning: database.password is empty, set DB_PASSWORD")
	}
	return nil
}
