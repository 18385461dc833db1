package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type SMTP struct {
	Host string
	Port int
	User string
	Pass string
	From string
}

// Configured reports whether enough is set to attempt a send.
func (s SMTP) Configured() bool {
	return s.Host != "" && s.User != "" && s.Pass != ""
}

type Config struct {
	Port          string
	DBDSN         string
	UploadDir     string
	LogFile       string
	Env           string // "production" flips Secure cookies on
	SessionSecret string
	QuoteMailbox  string // fixed company inbox for quotation requests
	CompanyName   string
	SMTP          SMTP
}

func Load() Config {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := Config{
		Port:          getenv("PORT", "8080"),
		DBDSN:         getenv("DB_DSN", "signcraft.db"),
		UploadDir:     getenv("UPLOAD_DIR", "./web/uploads"),
		LogFile:       getenv("LOG_FILE", "./signcraft.log"),
		Env:           getenv("APP_ENV", "development"),
		SessionSecret: getenv("ADMIN_SESSION_SECRET", ""),
		QuoteMailbox:  getenv("QUOTE_MAILBOX", "sales@signcraft.example"),
		CompanyName:   getenv("COMPANY_NAME", "SignCraft Displays"),
		SMTP: SMTP{
			Host: os.Getenv("SMTP_HOST"),
			Port: getenvInt("SMTP_PORT", 587),
			User: os.Getenv("SMTP_USER"),
			Pass: os.Getenv("SMTP_PASS"),
			From: os.Getenv("SMTP_FROM"),
		},
	}
	if cfg.SMTP.From == "" {
		cfg.SMTP.From = cfg.SMTP.User
	}
	if cfg.SMTP.From == "" {
		cfg.SMTP.From = "no-reply@localhost"
	}
	if cfg.SessionSecret == "" {
		log.Printf("[config] ADMIN_SESSION_SECRET is empty; admin login will be rejected")
	}
	log.Printf("[config] PORT=%s DB_DSN=%s UPLOAD_DIR=%s APP_ENV=%s SMTP_HOST=%s",
		cfg.Port, cfg.DBDSN, cfg.UploadDir, cfg.Env, cfg.SMTP.Host)
	return cfg
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
