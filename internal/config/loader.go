package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/vbtech/vbadmin/internal/db"
)

// Config is the full service configuration.
type Config struct {
	Database       db.Config
	ListenAddr     string
	AllowedOrigins []string
	RedisAddr      string
	MigrationsPath string
}

// Default returns the configuration used when no file or env overrides exist.
func Default() Config {
	return Config{
		Database:       db.DefaultConfig(),
		ListenAddr:     ":8080",
		AllowedOrigins: []string{"http://localhost:3000"},
		RedisAddr:      "",
		MigrationsPath: "./migrations",
	}
}

// Load reads config.yaml from configPath, falling back to defaults, with
// environment overrides (VBADMIN_DATABASE_HOST and so on).
func Load(configPath string) (Config, error) {
	cfg := Default()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)
	v.AutomaticEnv()
	v.SetEnvPrefix("VBADMIN")

	v.BindEnv("database.host")
	v.BindEnv("database.port")
	v.BindEnv("database.user")
	v.BindEnv("database.password")
	v.BindEnv("database.dbname")
	v.BindEnv("database.sslmode")
	v.BindEnv("server.addr")
	v.BindEnv("redis.addr")

	if err := v.ReadInConfig(); err != nil {
		// Config file not found? Just log it, use defaults + env
		fmt.Println("No config.yaml found, using defaults and env vars")
	} else {
		fmt.Println("Loaded config.yaml")
	}

	if v.IsSet("database.host") {
		cfg.Database.Host = v.GetString("database.host")
	}
	if v.IsSet("database.port") {
		cfg.Database.Port = v.GetInt("database.port")
	}
	if v.IsSet("database.user") {
		cfg.Database.User = v.GetString("database.user")
	}
	if v.IsSet("database.password") {
		cfg.Database.Password = v.GetString("database.password")
	}
	if v.IsSet("database.dbname") {
		cfg.Database.DBName = v.GetString("database.dbname")
	}
	if v.IsSet("database.sslmode") {
		cfg.Database.SSLMode = v.GetString("database.sslmode")
	}
	if v.IsSet("server.addr") {
		cfg.ListenAddr = v.GetString("server.addr")
	}
	if v.IsSet("server.allowed_origins") {
		cfg.AllowedOrigins = v.GetStringSlice("server.allowed_origins")
	}
	if v.IsSet("redis.addr") {
		cfg.RedisAddr = v.GetString("redis.addr")
	}
	if v.IsSet("migrations.path") {
		cfg.MigrationsPath = v.GetString("migrations.path")
	}

	return cfg, nil
}
