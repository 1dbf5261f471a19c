package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Credentials holds the upstream OAuth client credentials, supplied through
// the environment rather than the config file.
type Credentials struct {
	LibstafferClientID     string
	LibstafferClientSecret string
	LibcalClientID         string
	LibcalClientSecret     string
}

// LoadCredentials reads upstream credentials from the environment, loading a
// .env file first if one exists alongside the process.
func LoadCredentials() (*Credentials, error) {
	// Try root and parent directories for flexibility
	envPaths := []string{".env", "../.env", "../../.env"}
	for _, p := range envPaths {
		if _, err := os.Stat(p); err == nil {
			_ = godotenv.Load(p)
			break
		}
	}

	creds := &Credentials{
		LibstafferClientID:     os.Getenv("LIBSTAFFER_CLIENT_ID"),
		LibstafferClientSecret: os.Getenv("LIBSTAFFER_CLIENT_SECRET"),
		LibcalClientID:         os.Getenv("LIBCAL_CLIENT_ID"),
		LibcalClientSecret:     os.Getenv("LIBCAL_CLIENT_SECRET"),
	}

	missing := []string{}
	if creds.LibstafferClientID == "" {
		missing = append(missing, "LIBSTAFFER_CLIENT_ID")
	}
	if creds.LibstafferClientSecret == "" {
		missing = append(missing, "LIBSTAFFER_CLIENT_SECRET")
	}
	if creds.LibcalClientID == "" {
		missing = append(missing, "LIBCAL_CLIENT_ID")
	}
	if creds.LibcalClientSecret == "" {
		missing = append(missing, "LIBCAL_CLIENT_SECRET")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing environment variables: %v", missing)
	}

	return creds, nil
}
