package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// GetDefaultShapeDatabasePath returns the default path for the shape ledger
func GetDefaultShapeDatabasePath() string {
	// Get the executable path
	exePath, err := os.Executable()
	if err != nil {
		// Fallback to current directory if executable path can't be determined
		return "shapes.db"
	}

	// Return the default database path in the same directory
	return filepath.Join(filepath.Dir(exePath), "shapes.db")
}

// ParseSize parses a fake image size such as "480x640" or "480x640x3".
// An empty string yields nil, meaning the backend default.
func ParseSize(sizeStr string) ([]int, error) {
	if strings.TrimSpace(sizeStr) == "" {
		return nil, nil
	}

	parts := strings.Split(strings.ToLower(sizeStr), "x")
	if len(parts) < 2 || len(parts) > 3 {
		return nil, fmt.Errorf("invalid size '%s', expected HxW or HxWxC", sizeStr)
	}

	size := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid size '%s': %q is not a positive integer", sizeStr, p)
		}
		size = append(size, n)
	}
	return size, nil
}
