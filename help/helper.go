package help

import (
	"os"
	"os/user"
	"path/filepath"
)

func HomeDir() string {
	if h := os.Getenv("HOME"); h != "" {
		return h
	}
	if u, err := user.Current(); err == nil {
		return u.HomeDir
	}
	// Windows fallback
	if h := os.Getenv("USERPROFILE"); h != "" {
		return h
	}
	return "." // last resort: current dir
}

// AppDir is where mfgdash keeps its config and log by default.
func AppDir() string {
	return filepath.Join(HomeDir(), ".mfgdash")
}

func DefaultConfigPath() string {
	return filepath.Join(AppDir(), "config.yaml")
}

func DefaultLogPath() string {
	return filepath.Join(AppDir(), "mfgdash.log")
}
