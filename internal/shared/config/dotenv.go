package config

import (
	"bufio"
	"os"
	"strings"

	"mission-backend/internal/shared/telemetry"
)

// loadEnvFiles applies KEY=VALUE lines from the files that exist. Variables
// already set to a non-empty value win over the file. It returns the keys it set.
func loadEnvFiles(paths ...string) []string {
	var applied []string
	for _, path := range paths {
		keys := loadEnvFile(path)
		if len(keys) > 0 {
			telemetry.Debug("config.env_file", map[string]any{"path": path, "keys": keys})
		}
		applied = append(applied, keys...)
	}
	return applied
}

func loadEnvFile(path string) []string {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	var keys []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		key, val, ok := parseEnvLine(scanner.Text())
		if !ok {
			continue
		}
		if current, set := os.LookupEnv(key); set && strings.TrimSpace(current) != "" {
			continue
		}
		if err := os.Setenv(key, val); err != nil {
			continue
		}
		keys = append(keys, key)
	}
	return keys
}

// parseEnvLine handles `KEY=value`, `export KEY=value`, quoted values and
// trailing ` #` comments on unquoted values.
func parseEnvLine(line string) (string, string, bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return "", "", false
	}
	line = strings.TrimPrefix(line, "export ")
	key, val, found := strings.Cut(line, "=")
	key = strings.TrimSpace(key)
	if !found || key == "" {
		return "", "", false
	}
	val = strings.TrimSpace(val)
	if n := len(val); n >= 2 && (val[0] == '"' || val[0] == '\'') && val[n-1] == val[0] {
		return key, val[1 : n-1], true
	}
	if i := strings.Index(val, " #"); i >= 0 {
		val = strings.TrimSpace(val[:i])
	}
	return key, val, true
}
