package utils

import (
	"log"
	"os"
	"strconv"
	"time"
)

// Env readers fall back to the given default whenever the variable is unset
// or unparseable; a malformed value is logged, never fatal, so one bad entry
// in an env file cannot keep the service from booting.

func GetEnvString(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return defaultValue
}

func GetEnvInt(key string, defaultValue int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("env %s: %v, using default %d", key, err, defaultValue)
		return defaultValue
	}
	return parsed
}

func GetEnvBool(key string, defaultValue bool) bool {
	value, ok := os.LookupEnv(key)
	if !ok {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		log.Printf("env %s: %v, using default %t", key, err, defaultValue)
		return defaultValue
	}
	return parsed
}

func GetEnvFloat(key string, defaultValue float64) float64 {
	value, ok := os.LookupEnv(key)
	if !ok {
		return defaultValue
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		log.Printf("env %s: %v, using default %g", key, err, defaultValue)
		return defaultValue
	}
	return parsed
}

// GetEnvDuration reads a timeout. It accepts Go duration syntax ("90s",
// "1m30s") and, for older env files that carried plain integers, a bare
// number of seconds.
func GetEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok {
		return defaultValue
	}
	if parsed, err := time.ParseDuration(value); err == nil {
		return parsed
	}
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}
	log.Printf("env %s: cannot parse %q as a duration, using default %s", key, value, defaultValue)
	return defaultValue
}
