package config

import (
	"os"
	"time"
)

// Server captures HTTP server level configuration. Credentials, usage plans
// and filter rules come from the provisioning file, not from here.
type Server struct {
	Addr            string
	ProvisionFile   string
	RedisURL        string
	DatabaseURL     string
	AllowedOrigin   string
	ShutdownTimeout time.Duration
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := os.Getenv("TODO_GATEWAY_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	provisionFile := os.Getenv("TODO_GATEWAY_PROVISION_FILE")
	if provisionFile == "" {
		provisionFile = "provision.yaml"
	}

	origin := os.Getenv("TODO_GATEWAY_ALLOWED_ORIGIN")
	if origin == "" {
		// The frontend this API originally served was hosted on a separate
		// domain, so the default stays permissive.
		origin = "*"
	}

	return Server{
		Addr:            addr,
		ProvisionFile:   provisionFile,
		RedisURL:        os.Getenv("TODO_GATEWAY_REDIS_URL"),
		DatabaseURL:     os.Getenv("TODO_GATEWAY_DATABASE_URL"),
		AllowedOrigin:   origin,
		ShutdownTimeout: 10 * time.Second,
	}
}
