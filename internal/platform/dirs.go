package platform

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

func NormalizeArch(arch string) string {
	switch arch {
	case "x86_64":
		return "amd64"
	case "aarch64":
		return "arm64"
	default:
		return arch
	}
}

// ResolveModelDir returns the directory where named models live. An explicit
// override wins; otherwise the per-OS user data directory is used.
func ResolveModelDir(override string) (string, error) {
	if override != "" {
		return filepath.Clean(override), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve user home: %w", err)
	}

	return DefaultModelDirFor(runtime.GOOS, homeDir, os.Getenv("XDG_DATA_HOME"))
}

func DefaultModelDirFor(goos, homeDir, xdgDataHome string) (string, error) {
	if homeDir == "" {
		return "", errors.New("home directory is empty")
	}

	switch goos {
	case "linux":
		if xdgDataHome != "" {
			return filepath.Join(xdgDataHome, "transcribe", "models"), nil
		}
		return filepath.Join(homeDir, ".local", "share", "transcribe", "models"), nil
	case "darwin":
		return filepath.Join(homeDir, "Library", "Application Support", "transcribe", "models"), nil
	default:
		return "", fmt.Errorf("unsupported OS: %s", goos)
	}
}
