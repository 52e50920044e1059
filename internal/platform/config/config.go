// Package config builds runtime configuration from environment variables so
// main stays lean. Every external collaborator (database, redis, kafka,
// verification vendor, ledger gateway) is optional; components degrade to
// local/demo behavior when unconfigured.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string
	ShutdownTimeout time.Duration
}

// Didit configures the external KYC vendor round-trip.
type Didit struct {
	BaseURL       string
	APIKey        string
	WorkflowID    string
	CallbackURL   string
	WebhookSecret string
	Timeout       time.Duration
}

// Mirror configures the external ledger mirror. When Enabled is false the
// demo mirror is wired instead and no gateway is contacted.
type Mirror struct {
	Enabled         bool
	GatewayURL      string
	ContractAddress string
	Timeout         time.Duration
}

// Kafka configures the best-effort audit block feed.
type Kafka struct {
	Seeds []string
	Topic string
}

// Archive configures best-effort S3 archival of raw webhook payloads.
type Archive struct {
	Bucket string
	Prefix string
}

// Operator configures the manual-override escape hatch.
type Operator struct {
	PasswordHash  string // bcrypt hash of the operator password
	JWTSigningKey string
	TokenTTL      time.Duration
}

// Config is the root configuration object.
type Config struct {
	Server      Server
	DatabaseURL string
	RedisURL    string
	Didit       Didit
	Mirror      Mirror
	Kafka       Kafka
	Archive     Archive
	Operator    Operator

	// TreatReviewAsPassed maps the vendor's on_review status to a passed
	// external-KYC stage, matching current product behavior. Flagged as
	// provisional upstream, so it stays switchable rather than hardcoded.
	TreatReviewAsPassed bool
}

// FromEnv builds a Config from environment variables.
func FromEnv() Config {
	return Config{
		Server: Server{
			Addr:            getenv("SWAPSECURE_ADDR", ":8080"),
			ShutdownTimeout: getduration("SWAPSECURE_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		DatabaseURL: os.Getenv("DATABASE_URL"),
		RedisURL:    os.Getenv("REDIS_URL"),
		Didit: Didit{
			BaseURL:       getenv("DIDIT_BASE_URL", "https://verification.didit.me"),
			APIKey:        os.Getenv("DIDIT_API_KEY"),
			WorkflowID:    os.Getenv("DIDIT_WORKFLOW_ID"),
			CallbackURL:   os.Getenv("DIDIT_CALLBACK_URL"),
			WebhookSecret: os.Getenv("DIDIT_WEBHOOK_SECRET"),
			Timeout:       getduration("DIDIT_TIMEOUT", 10*time.Second),
		},
		Mirror: Mirror{
			Enabled:         getbool("LEDGER_MIRROR_ENABLED", false),
			GatewayURL:      os.Getenv("LEDGER_GATEWAY_URL"),
			ContractAddress: os.Getenv("LEDGER_CONTRACT_ADDRESS"),
			Timeout:         getduration("LEDGER_GATEWAY_TIMEOUT", 15*time.Second),
		},
		Kafka: Kafka{
			Seeds: getlist("KAFKA_SEEDS"),
			Topic: getenv("KAFKA_AUDIT_TOPIC", "swap.audit-blocks"),
		},
		Archive: Archive{
			Bucket: os.Getenv("WEBHOOK_ARCHIVE_BUCKET"),
			Prefix: getenv("WEBHOOK_ARCHIVE_PREFIX", "didit/"),
		},
		Operator: Operator{
			PasswordHash:  os.Getenv("OPERATOR_PASSWORD_HASH"),
			JWTSigningKey: os.Getenv("OPERATOR_JWT_SIGNING_KEY"),
			TokenTTL:      getduration("OPERATOR_TOKEN_TTL", 30*time.Minute),
		},
		TreatReviewAsPassed: getbool("TREAT_REVIEW_AS_PASSED", true),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getbool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func getduration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func getlist(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
