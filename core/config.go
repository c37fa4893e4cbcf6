package core

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Env              string
	Debug            bool
	TestMode         bool
	AppName          string
	FrontendBaseURL  string
	DefaultFromEmail string

	Server struct {
		Host            string
		Port            int
		ShutdownTimeout time.Duration
	}

	Database struct {
		Engine        string
		Name          string
		Host          string
		Port          int
		User          string
		Password      string
		AdminUser     string
		AdminPassword string
		DisableTLS    bool
	}

	SendgridAPIKey string
	RollbarToken   string
}

func (c *Config) ServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) DatabaseAddress() string {
	return fmt.Sprintf("%s:%d", c.Database.Host, c.Database.Port)
}

// LoadConfig builds the app Config from defaults, an optional `config/.env.<env>`
// file and environment variables prefixed with the upper-cased env name.
func LoadConfig() *Config {
	conf := viper.New()
	conf.SetTypeByDefaultValue(true)

	// defaults
	conf.SetDefault("debug", true)
	conf.SetDefault("appName", "AviaLearn")
	conf.SetDefault("frontendBaseURL", "http://localhost:3000")
	conf.SetDefault("defaultFromEmail", "noreply@localhost")
	conf.SetDefault("server.host", "")
	conf.SetDefault("server.port", 8000)
	conf.SetDefault("server.shutdownTimeout", 20*time.Second)
	conf.SetDefault("database.engine", "postgres")
	conf.SetDefault("database.name", "avialearn")
	conf.SetDefault("database.host", "localhost")
	conf.SetDefault("database.port", 5432)
	conf.SetDefault("database.user", "avialearn")
	conf.SetDefault("database.password", "")
	conf.SetDefault("database.adminUser", "")
	conf.SetDefault("database.adminPassword", "")
	conf.SetDefault("database.disableTLS", true)
	conf.SetDefault("sendgridAPIKey", "")
	conf.SetDefault("rollbarToken", "")

	env := os.Getenv("ENV") // DEV (local; default), TEST, QA, PROD
	if env == "" {
		env = "DEV"
	}
	conf.SetDefault("testMode", env == "TEST")
	conf.SetEnvPrefix(env)
	conf.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(Getwd(), "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	conf.AutomaticEnv()

	cfg := new(Config)
	cfg.Env = env
	cfg.Debug = conf.GetBool("debug")
	cfg.TestMode = conf.GetBool("testMode")
	cfg.AppName = conf.GetString("appName")
	cfg.FrontendBaseURL = conf.GetString("frontendBaseURL")
	cfg.DefaultFromEmail = conf.GetString("defaultFromEmail")
	cfg.Server.Host = conf.GetString("server.host")
	cfg.Server.Port = conf.GetInt("server.port")
	cfg.Server.ShutdownTimeout = conf.GetDuration("server.shutdownTimeout")
	cfg.Database.Engine = conf.GetString("database.engine")
	cfg.Database.Name = conf.GetString("database.name")
	cfg.Database.Host = conf.GetString("database.host")
	cfg.Database.Port = conf.GetInt("database.port")
	cfg.Database.User = conf.GetString("database.user")
	cfg.Database.Password = conf.GetString("database.password")
	cfg.Database.AdminUser = conf.GetString("database.adminUser")
	cfg.Database.AdminPassword = conf.GetString("database.adminPassword")
	cfg.Database.DisableTLS = conf.GetBool("database.disableTLS")
	cfg.SendgridAPIKey = conf.GetString("sendgridAPIKey")
	cfg.RollbarToken = conf.GetString("rollbarToken")
	return cfg
}
