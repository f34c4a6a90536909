package cliparse

import (
	"errors"
	"flag"
	"os"
	"strconv"
)

type Config struct {
	Port          int
	DatabaseType  string
	DatabaseURL   string
	DatabasePath  string
	HostKeySalt   string
	OpenAIKey     string
	OpenAIBaseURL string
}

const defaultOpenAIBaseURL = "https://api.openai.com/v1"

// ParseFlags validates flags and fills in environment fallbacks
func ParseFlags(args []string) (Config, error) {
	var cfg Config

	fs := flag.NewFlagSet("trivia-rooms", flag.ContinueOnError)

	// Network and storage config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite, postgres or mysql)")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL (postgres/mysql)")
	fs.StringVar(&cfg.DatabasePath, "db-path", "", "SQLite database path")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.HostKeySalt, "host-salt", "", "Host key salt (prefer env)")
	fs.StringVar(&cfg.OpenAIKey, "openai-key", "", "OpenAI API key (prefer env; optional)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 3420 // default
		}
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = "sqlite"
		}
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabasePath == "" {
		cfg.DatabasePath = os.Getenv("DB_PATH")
		if cfg.DatabasePath == "" {
			cfg.DatabasePath = "./rooms.db"
		}
	}
	if cfg.DatabaseType != "sqlite" && cfg.DatabaseURL == "" {
		return Config{}, errors.New("database URL required for " + cfg.DatabaseType + " (use -d or DATABASE_URL env)")
	}

	// Secret - MUST be provided
	if cfg.HostKeySalt == "" {
		cfg.HostKeySalt = os.Getenv("HOST_KEY_SALT")
	}
	if cfg.HostKeySalt == "" {
		return Config{}, errors.New("HOST_KEY_SALT required")
	}

	// OpenAI credentials are optional; without a key the question
	// generator serves the built-in fallback banks.
	if cfg.OpenAIKey == "" {
		cfg.OpenAIKey = os.Getenv("OPENAI_API_KEY")
	}
	cfg.OpenAIBaseURL = os.Getenv("OPENAI_BASE_URL")
	if cfg.OpenAIBaseURL == "" {
		cfg.OpenAIBaseURL = defaultOpenAIBaseURL
	}

	return cfg, nil
}
