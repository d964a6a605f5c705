package config

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

const fallbackVersion = "0.1.0"

// GetVersion returns APP_VERSION when set (CI builds), otherwise the VERSION file
// suffixed with the short git revision when one is available.
func GetVersion() string {
	if v := strings.TrimSpace(os.Getenv("APP_VERSION")); v != "" {
		return v
	}

	base := readVersionFile(".", "..", filepath.Join("..", ".."))
	if rev := gitRevision(); rev != "" {
		return base + "+" + rev
	}
	return base
}

// readVersionFile returns the first VERSION file found in dirs
func readVersionFile(dirs ...string) string {
	for _, dir := range dirs {
		content, err := os.ReadFile(filepath.Join(dir, "VERSION"))
		if err != nil {
			continue
		}
		if v := strings.TrimSpace(string(content)); v != "" {
			return v
		}
	}
	return fallbackVersion
}

func gitRevision() string {
	out, err := exec.Command("git", "rev-parse", "--short", "HEAD").Output()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}
