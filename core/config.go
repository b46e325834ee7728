package core

import (
	"net"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

type (
	ServerConfig struct {
		Host                      string
		DebugHost                 string
		ShutdownTimeout           time.Duration
		JWTExpirationDelta        time.Duration
		JWTRefreshExpirationDelta time.Duration
	}

	DatabaseConfig struct {
		Engine        string
		Host          string
		Port          string
		Name          string
		User          string
		Password      string
		AdminUser     string
		AdminPassword string
		DisableTLS    bool
	}

	OpenAIConfig struct {
		APIKey      string
		BaseURL     string
		Model       string
		MaxTokens   int64
		Temperature float64
	}

	LayoutConfig struct {
		Width   float64
		Height  float64
		Padding float64
		Palette []string
	}

	Config struct {
		Env              string
		Debug            bool
		TestMode         bool
		AppName          string
		Build            string
		SecretKey        string
		DefaultFromEmail string
		FrontendBaseURL  string
		RollbarToken     string
		SendgridAPIKey   string

		Server   ServerConfig
		Database DatabaseConfig
		OpenAI   OpenAIConfig
		Layout   LayoutConfig
	}
)

// NewConfig reads the configuration of the current ENV (DEV by default, TEST, QA or PROD).
// Values come from defaults, then config/.env.<env> (if it exists), then <ENV>_ prefixed variables.
func NewConfig() (*Config, error) {
	v := viper.New()
	v.SetTypeByDefaultValue(true)
	setDefaults(v)

	env := strings.ToUpper(os.Getenv("ENV"))
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		v.SetDefault("testMode", true)
	}
	v.SetEnvPrefix(env)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(Getwd(), "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			return nil, errors.Wrapf(err, "loading %s", dotEnvPath)
		}
	} else if !os.IsNotExist(err) {
		return nil, errors.Wrapf(err, "checking %s", dotEnvPath)
	}
	v.AutomaticEnv()

	conf := &Config{
		Env:              env,
		Debug:            v.GetBool("debug"),
		TestMode:         v.GetBool("testMode"),
		AppName:          v.GetString("appName"),
		Build:            v.GetString("build"),
		SecretKey:        v.GetString("secretKey"),
		DefaultFromEmail: v.GetString("defaultFromEmail"),
		FrontendBaseURL:  v.GetString("frontendBaseURL"),
		RollbarToken:     v.GetString("rollbarToken"),
		SendgridAPIKey:   v.GetString("sendgridApiKey"),
		Server: ServerConfig{
			Host:                      v.GetString("server.host"),
			DebugHost:                 v.GetString("server.debugHost"),
			ShutdownTimeout:           v.GetDuration("server.shutdownTimeout"),
			JWTExpirationDelta:        v.GetDuration("server.jwtExpirationDelta"),
			JWTRefreshExpirationDelta: v.GetDuration("server.jwtRefreshExpirationDelta"),
		},
		Database: DatabaseConfig{
			Engine:        v.GetString("database.engine"),
			Host:          v.GetString("database.host"),
			Port:          v.GetString("database.port"),
			Name:          v.GetString("database.name"),
			User:          v.GetString("database.user"),
			Password:      v.GetString("database.password"),
			AdminUser:     v.GetString("database.adminUser"),
			AdminPassword: v.GetString("database.adminPassword"),
			DisableTLS:    v.GetBool("database.disableTLS"),
		},
		OpenAI: OpenAIConfig{
			APIKey:      v.GetString("openai.apiKey"),
			BaseURL:     v.GetString("openai.baseURL"),
			Model:       v.GetString("openai.model"),
			MaxTokens:   v.GetInt64("openai.maxTokens"),
			Temperature: v.GetFloat64("openai.temperature"),
		},
		Layout: LayoutConfig{
			Width:   v.GetFloat64("layout.width"),
			Height:  v.GetFloat64("layout.height"),
			Padding: v.GetFloat64("layout.padding"),
			Palette: v.GetStringSlice("layout.palette"),
		},
	}
	return conf, nil
}

// NewTestConfig returns the defaults with test mode on. It never touches the environment.
func NewTestConfig() *Config {
	v := viper.New()
	setDefaults(v)
	return &Config{
		Env:              "TEST",
		Debug:            true,
		TestMode:         true,
		AppName:          v.GetString("appName"),
		SecretKey:        v.GetString("secretKey"),
		DefaultFromEmail: v.GetString("defaultFromEmail"),
		FrontendBaseURL:  v.GetString("frontendBaseURL"),
		Server: ServerConfig{
			Host:                      v.GetString("server.host"),
			DebugHost:                 v.GetString("server.debugHost"),
			ShutdownTimeout:           v.GetDuration("server.shutdownTimeout"),
			JWTExpirationDelta:        v.GetDuration("server.jwtExpirationDelta"),
			JWTRefreshExpirationDelta: v.GetDuration("server.jwtRefreshExpirationDelta"),
		},
		OpenAI: OpenAIConfig{
			Model:       v.GetString("openai.model"),
			MaxTokens:   v.GetInt64("openai.maxTokens"),
			Temperature: v.GetFloat64("openai.temperature"),
		},
		Layout: LayoutConfig{
			Width:   v.GetFloat64("layout.width"),
			Height:  v.GetFloat64("layout.height"),
			Padding: v.GetFloat64("layout.padding"),
		},
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("debug", true)
	v.SetDefault("appName", "ThinkMate")
	v.SetDefault("build", "develop")
	v.SetDefault("secretKey", "t7k2-mq)zn8$+41=ap&vtwx9(k!r)#*d5(#bf6h^$xelq3pnz")
	v.SetDefault("defaultFromEmail", "noreply@localhost")
	v.SetDefault("frontendBaseURL", "http://localhost:3000")

	v.SetDefault("server.host", "0.0.0.0:8000")
	v.SetDefault("server.debugHost", "0.0.0.0:4000")
	v.SetDefault("server.shutdownTimeout", 5*time.Second)
	v.SetDefault("server.jwtExpirationDelta", 7*24*time.Hour)
	v.SetDefault("server.jwtRefreshExpirationDelta", 4*time.Hour)

	v.SetDefault("database.engine", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.name", "thinkmate")
	v.SetDefault("database.user", "thinkmate")
	v.SetDefault("database.password", "thinkmate")
	v.SetDefault("database.adminUser", "postgres")
	v.SetDefault("database.adminPassword", "postgres")
	v.SetDefault("database.disableTLS", true)

	v.SetDefault("openai.model", "gpt-4o-mini")
	v.SetDefault("openai.maxTokens", 400)
	v.SetDefault("openai.temperature", 0.7)

	v.SetDefault("layout.width", 900)
	v.SetDefault("layout.height", 400)
	v.SetDefault("layout.padding", 20)
}

// Address returns "host:port".
func (c DatabaseConfig) Address() string {
	return net.JoinHostPort(c.Host, c.Port)
}

// FromAddress parses DefaultFromEmail, a bare address gets the app name.
func (c Config) FromAddress() mail.Address {
	if addr, err := mail.ParseAddress(c.DefaultFromEmail); err == nil {
		if addr.Name == "" {
			addr.Name = c.AppName
		}
		return *addr
	}
	return mail.Address{Name: c.AppName, Address: c.DefaultFromEmail}
}
