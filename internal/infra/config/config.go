// internal/infra/config/config.go
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds environment-derived settings for the storefront service.
type Config struct {
	Port string

	FirestoreProjectID       string
	FirestoreCredentialsFile string

	// Firebase Auth project (defaults to the Firestore project).
	FirebaseProjectID string

	// Identity Toolkit web API key. Either set directly via
	// FIREBASE_WEB_API_KEY or resolved from Secret Manager using
	// WebAPIKeySecret at startup.
	FirebaseWebAPIKey string
	WebAPIKeySecret   string

	// SendGrid (password-reset delivery). The Secret Manager value wins over
	// the plain env var when both resolve.
	SendGridAPIKey       string
	SendGridAPIKeySecret string
	MailFrom             string

	// GCS bucket holding product images referenced as gs:// URLs.
	ProductImageBucket string

	// CORS origin for the storefront frontend.
	AllowedOrigin string

	// Idle session lifetime before the registry disposes a session cart.
	SessionTTL time.Duration
}

// Load reads the environment. Missing optional values stay empty and the
// affected feature degrades (logged at wiring time), never a crash.
func Load() *Config {
	defaultProject := os.Getenv("GCP_PROJECT_ID")

	cfg := &Config{
		Port:                     getenvDefault("PORT", "8080"),
		FirestoreProjectID:       getenvDefault("FIRESTORE_PROJECT_ID", defaultProject),
		FirestoreCredentialsFile: os.Getenv("FIRESTORE_CREDENTIALS_FILE"),
		FirebaseProjectID:        getenvDefault("FIREBASE_PROJECT_ID", defaultProject),
		FirebaseWebAPIKey:        os.Getenv("FIREBASE_WEB_API_KEY"),
		WebAPIKeySecret:          getenvDefault("WEB_API_KEY_SECRET", "storefront-web-api-key"),
		SendGridAPIKey:           os.Getenv("SENDGRID_API_KEY"),
		SendGridAPIKeySecret:     getenvDefault("SENDGRID_API_KEY_SECRET", "storefront-sendgrid-api-key"),
		MailFrom:                 getenvDefault("MAIL_FROM", "no-reply@store.example.com"),
		ProductImageBucket:       os.Getenv("PRODUCT_IMAGE_BUCKET"),
		AllowedOrigin:            getenvDefault("STOREFRONT_ALLOWED_ORIGIN", "*"),
		SessionTTL:               getenvMinutes("SESSION_TTL_MINUTES", 60*time.Minute),
	}

	// FIREBASE_PROJECT_ID unset: fall back to the Firestore project.
	if cfg.FirebaseProjectID == "" {
		cfg.FirebaseProjectID = cfg.FirestoreProjectID
	}

	return cfg
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvMinutes(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	mins, err := strconv.Atoi(v)
	if err != nil || mins <= 0 {
		return def
	}
	return time.Duration(mins) * time.Minute
}
