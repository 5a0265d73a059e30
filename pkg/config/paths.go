package config

import (
	"os"
	"path/filepath"
)

// DataDir returns the aeda data directory: $AEDA_HOME, else
// $XDG_DATA_HOME/aeda, else ~/.local/share/aeda.
func DataDir() (string, error) {
	if dir := os.Getenv("AEDA_HOME"); dir != "" {
		return dir, nil
	}
	if dataHome := os.Getenv("XDG_DATA_HOME"); dataHome != "" {
		return filepath.Join(dataHome, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share", AppName), nil
}

// CacheDir returns the artifact cache directory using the XDG standard
// (~/.cache/aeda/).
func CacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", AppName), nil
}

// Layout is the directory tree aeda init creates inside the data directory.
var Layout = []string{
	"libraries/resistor",
	"libraries/capacitor",
	"libraries/inductor",
	"libraries/diode",
	"libraries/ic",
	"footprints",
	"symbols",
	"3d_models",
	"cache",
}
