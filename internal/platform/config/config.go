package config

import (
	"fmt"
	"os"
)

// Server captures process level configuration.
type Server struct {
	Addr        string
	DatabaseURL string
	Environment string
}

// IsDevelopment reports whether error detail may be exposed to callers.
func (s Server) IsDevelopment() bool {
	return s.Environment == "development"
}

// FromEnv builds a Server config from environment variables so main stays lean.
// DATABASE_URL wins when set; otherwise the DSN is assembled from the
// individual DB_* variables with local defaults.
func FromEnv() Server {
	addr := os.Getenv("ADDR")
	if addr == "" {
		port := os.Getenv("PORT")
		if port == "" {
			port = "8080"
		}
		addr = ":" + port
	}

	env := os.Getenv("ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	return Server{
		Addr:        addr,
		DatabaseURL: databaseURL(),
		Environment: env,
	}
}

func databaseURL() string {
	if url := os.Getenv("DATABASE_URL"); url != "" {
		return url
	}

	host := envOr("DB_HOST", "localhost")
	port := envOr("DB_PORT", "5432")
	name := envOr("DB_NAME", "contactgraph")
	user := envOr("DB_USER", "postgres")
	password := os.Getenv("DB_PASSWORD")
	sslmode := envOr("DB_SSLMODE", "disable")

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		user, password, host, port, name, sslmode)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
