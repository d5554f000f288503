package utils

import (
	"fmt"
	"os"

	"github.com/google/uuid"
)

// CreateFolder makes sure the directory exists, creating parents as needed.
func CreateFolder(path string) error {
	if err := os.MkdirAll(path, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", path, err)
	}
	return nil
}

// GenerateUniqueID returns an identifier suitable for ledger rows and events.
func GenerateUniqueID() string {
	return uuid.NewString()
}
