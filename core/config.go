package core

import (
	"log"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	ServerConfig struct {
		Host                   string
		Addr                   string
		DebugAddr              string
		ShutdownTimeout        time.Duration
		SessionCookieName      string
		SessionExpirationDelta time.Duration
	}

	CampusConfig struct {
		BaseURL string
		Timeout time.Duration
	}

	BinConfig struct {
		RetentionDays int
		PurgeInterval time.Duration
		SessionTTL    time.Duration
	}

	Config struct {
		AppName          string
		Env              string // DEV (local; default), TEST, QA, PROD
		Build            string
		Debug            bool
		TestMode         bool
		SecretKey        string
		FrontendBaseURL  string
		DefaultFromEmail mail.Address
		SupportEmail     mail.Address
		SendgridAPIKey   string
		RollbarToken     string

		Server ServerConfig
		Campus CampusConfig
		Bin    BinConfig
	}
)

func NewConfig() *Config {
	conf := viper.New()

	// defaults
	conf.SetTypeByDefaultValue(true)
	conf.SetDefault("debug", true)
	conf.SetDefault("appName", "LifeGear")
	conf.SetDefault("build", "develop")
	conf.SetDefault("secretKey", "w3v#g2(h7x!dz&u0q5-p0q5+57=oxh2(c2(#yg4h^$cegm2emy")
	conf.SetDefault("frontendBaseURL", "http://localhost:3000")
	conf.SetDefault("defaultFromEmail", "noreply@localhost")
	conf.SetDefault("supportEmail", "support@localhost")

	conf.SetDefault("serverHost", "localhost")
	conf.SetDefault("serverAddr", ":8000")
	conf.SetDefault("serverDebugAddr", ":8001")
	conf.SetDefault("serverShutdownTimeout", 5*time.Second)
	conf.SetDefault("sessionCookieName", "lg_session")
	conf.SetDefault("sessionExpirationDelta", 12*time.Hour)

	conf.SetDefault("campusBaseURL", "http://localhost:8080")
	conf.SetDefault("campusTimeout", 15*time.Second)

	conf.SetDefault("binRetentionDays", 1)
	conf.SetDefault("binPurgeInterval", 15*time.Minute)
	conf.SetDefault("binSessionTTL", 12*time.Hour)

	env := os.Getenv("ENV")
	var testMode bool
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		testMode = true
	}
	conf.SetEnvPrefix(env)

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

	return &Config{
		AppName:          conf.GetString("appName"),
		Env:              env,
		Build:            conf.GetString("build"),
		Debug:            conf.GetBool("debug"),
		TestMode:         testMode,
		SecretKey:        conf.GetString("secretKey"),
		FrontendBaseURL:  conf.GetString("frontendBaseURL"),
		DefaultFromEmail: mail.Address{Name: conf.GetString("appName"), Address: conf.GetString("defaultFromEmail")},
		SupportEmail:     mail.Address{Name: conf.GetString("appName") + " Support", Address: conf.GetString("supportEmail")},
		SendgridAPIKey:   conf.GetString("sendgridAPIKey"),
		RollbarToken:     conf.GetString("rollbarToken"),
		Server: ServerConfig{
			Host:                   conf.GetString("serverHost"),
			Addr:                   conf.GetString("serverAddr"),
			DebugAddr:              conf.GetString("serverDebugAddr"),
			ShutdownTimeout:        conf.GetDuration("serverShutdownTimeout"),
			SessionCookieName:      conf.GetString("sessionCookieName"),
			SessionExpirationDelta: conf.GetDuration("sessionExpirationDelta"),
		},
		Campus: CampusConfig{
			BaseURL: strings.TrimRight(conf.GetString("campusBaseURL"), "/"),
			Timeout: conf.GetDuration("campusTimeout"),
		},
		Bin: BinConfig{
			RetentionDays: conf.GetInt("binRetentionDays"),
			PurgeInterval: conf.GetDuration("binPurgeInterval"),
			SessionTTL:    conf.GetDuration("binSessionTTL"),
		},
	}
}
