package config

import (
	"os"
	"path/filepath"
	"strings"
)

// Expand expands environment variables and a leading ~ in path.
func Expand(path string) string {
	path = os.ExpandEnv(path)
	switch {
	case path == "~":
		if home, err := os.UserHomeDir(); err == nil {
			return home
		}
	case strings.HasPrefix(path, "~/"):
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}

// UserPath returns the default location of the user configuration file.
func UserPath() (string, error) {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "builder.yml"), nil
}
