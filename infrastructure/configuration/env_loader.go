package configuration

import (
	"bufio"
	"os"
	"strings"
)

// LoadEnvFromFile reads KEY=VALUE lines (optionally prefixed with "export") from the given files
// into the process environment and reports how many variables it set. Variables that are already
// present win; missing files are skipped.
func LoadEnvFromFile(paths ...string) int {
	set := 0
	for _, p := range paths {
		f, err := os.Open(p)
		if err != nil {
			continue
		}
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			key, val, ok := parseEnvLine(scanner.Text())
			if !ok {
				continue
			}
			if _, exists := os.LookupEnv(key); exists {
				continue
			}
			if os.Setenv(key, val) == nil {
				set++
			}
		}
		_ = f.Close()
	}
	return set
}

func parseEnvLine(raw string) (string, string, bool) {
	line := strings.TrimSpace(raw)
	if line == "" || strings.HasPrefix(line, "#") {
		return "", "", false
	}
	line = strings.TrimPrefix(line, "export ")
	key, val, found := strings.Cut(line, "=")
	if !found {
		return "", "", false
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return "", "", false
	}
	return key, strings.Trim(strings.TrimSpace(val), "\"'"), true
}
