package config

import (
	"fmt"
	"os"
	"strings"
)

const (
	BackendMemory    = "memory"
	BackendPostgres  = "postgres"
	BackendDatastore = "datastore"
)

// Config is centralized process configuration.
// Keep infra values here and pass typed config into builders.
type Config struct {
	ServiceName  string
	HTTPPort     string
	PostgresDSN  string
	StoreBackend string
	EventBuffer  int

	VotesSchema      string
	VotesPath        string
	VotesRef         string
	VoteMethodName   string
	UnvoteMethodName string
	VotesSelect      bool
	LogDebug         bool
}

func Load() (Config, error) {
	service := os.Getenv("SERVICE_NAME")
	if service == "" {
		service = "votekit"
	}

	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "8080"
	}

	backend := strings.ToLower(strings.TrimSpace(os.Getenv("STORE_BACKEND")))
	if backend == "" {
		backend = BackendMemory
	}
	switch backend {
	case BackendMemory, BackendDatastore:
	case BackendPostgres:
		if strings.TrimSpace(os.Getenv("POSTGRES_DSN")) == "" {
			return Config{}, fmt.Errorf("STORE_BACKEND=%s requires POSTGRES_DSN", backend)
		}
	default:
		return Config{}, fmt.Errorf("unsupported STORE_BACKEND %q", backend)
	}

	schema := strings.TrimSpace(os.Getenv("VOTES_SCHEMA"))
	if schema == "" {
		schema = "Document"
	}

	// Blank plugin values fall back to the plugin defaults.
	return Config{
		ServiceName:  service,
		HTTPPort:     port,
		PostgresDSN:  strings.TrimSpace(os.Getenv("POSTGRES_DSN")),
		StoreBackend: backend,
		EventBuffer:  envInt("EVENT_BUFFER", 64),

		VotesSchema:      schema,
		VotesPath:        os.Getenv("VOTES_PATH"),
		VotesRef:         os.Getenv("VOTES_REF"),
		VoteMethodName:   os.Getenv("VOTE_METHOD_NAME"),
		UnvoteMethodName: os.Getenv("UNVOTE_METHOD_NAME"),
		VotesSelect:      envBool("VOTES_SELECT", true),
		LogDebug:         envBool("LOG_DEBUG", false),
	}, nil
}

func envBool(name string, fallback bool) bool {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return fallback
	}
	switch raw {
	case "1", "true", "t", "yes", "y", "on":
		return true
	case "0", "false", "f", "no", "n", "off":
		return false
	default:
		return fallback
	}
}

func envInt(name string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	var value int
	if _, err := fmt.Sscanf(raw, "%d", &value); err != nil || value <= 0 {
		return fallback
	}
	return value
}
