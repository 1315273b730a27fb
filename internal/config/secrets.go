package config

import (
	"fmt"
	"os"
	"strings"
)

// ReadSecret reads a secret from the standard Docker Secrets path, falling
// back to an upper-cased environment variable for local development.
func ReadSecret(secretName string) (string, error) {
	filePath := fmt.Sprintf("/run/secrets/%s", secretName)
	secretBytes, err := os.ReadFile(filePath)
	if err == nil {
		secret := strings.TrimSpace(string(secretBytes))
		if secret == "" {
			return "", fmt.Errorf("secret file %s is empty", filePath)
		}
		return secret, nil
	}

	if fromEnv := strings.TrimSpace(os.Getenv(strings.ToUpper(secretName))); fromEnv != "" {
		return fromEnv, nil
	}

	return "", fmt.Errorf("failed to read secret %s (file %s missing and env unset): %w", secretName, filePath, err)
}
