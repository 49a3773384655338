package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

func envString(name string, dst *string) {
	if v := os.Getenv(name); v != "" {
		*dst = v
	}
}

func envInt(name string, dst *int) {
	if v := os.Getenv(name); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func mergeString(dst *string, overlay string) {
	if overlay != "" {
		*dst = overlay
	}
}

// validDuration checks that value parses as a time.Duration, wrapping
// the error with the field name for config validation messages.
func validDuration(field, value string) error {
	if _, err := time.ParseDuration(value); err != nil {
		return fmt.Errorf("invalid %s: %w", field, err)
	}
	return nil
}

// duration parses a previously validated duration string.
func duration(value string) time.Duration {
	d, _ := time.ParseDuration(value)
	return d
}
