package initializers

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

type Config struct {
	Port        string
	DatabaseURL string
	SecretKey   string

	// SMTP account used by the contact form. Mail is sent from and to this address.
	MailUser     string
	MailPassword string
	SMTPHost     string
	SMTPPort     int

	AdminName     string
	AdminEmail    string
	AdminPassword string

	CookieSecure bool
	CSRFEnabled  bool

	// nil when Google sign-in is not configured
	GoogleOauth *oauth2.Config
}

func LoadEnvVariables() {
	if err := godotenv.Load(); err != nil {
		log.Println("[INFO] no .env file found, using system environment")
	}
}

func LoadConfig() Config {
	LoadEnvVariables()

	cfg := Config{
		Port:          getEnv("PORT", "8080"),
		DatabaseURL:   databaseURL(),
		SecretKey:     os.Getenv("SECRET_KEY"),
		MailUser:      os.Getenv("EMAIL"),
		MailPassword:  os.Getenv("PASSWORD"),
		SMTPHost:      getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:      getEnvInt("SMTP_PORT", 587),
		AdminName:     getEnv("ADMIN_NAME", "Administrator"),
		AdminEmail:    os.Getenv("ADMIN_EMAIL"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
		CookieSecure:  getEnvBool("COOKIE_SECURE", false),
		CSRFEnabled:   !getEnvBool("CSRF_DISABLED", false),
	}

	if cfg.SecretKey == "" {
		log.Println("[WARN] SECRET_KEY is not set, sessions will not survive a restart")
	}
	if cfg.MailUser == "" || cfg.MailPassword == "" {
		log.Println("[WARN] EMAIL/PASSWORD not set, contact form mail will fail")
	}

	if id := os.Getenv("GOOGLE_CLIENT_ID"); id != "" {
		cfg.GoogleOauth = &oauth2.Config{
			ClientID:     id,
			ClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
			RedirectURL:  os.Getenv("GOOGLE_REDIRECT_URL"),
			Scopes:       []string{"https://www.googleapis.com/auth/userinfo.email", "https://www.googleapis.com/auth/userinfo.profile"},
			Endpoint:     google.Endpoint,
		}
	}
	return cfg
}

// databaseURL prefers DATABASE_URL and falls back to the discrete DB_* variables.
func databaseURL() string {
	if url := os.Getenv("DATABASE_URL"); url != "" {
		return url
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		os.Getenv("DB_HOST"), os.Getenv("DB_USER"), os.Getenv("DB_PASSWORD"), os.Getenv("DB_NAME"),
		getEnv("DB_PORT", "5432"), getEnv("DB_SSLMODE", "disable"))
}

func getEnv(key, defaultValue string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return n
}

func getEnvBool(key string, defaultValue bool) bool {
	b, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return b
}
