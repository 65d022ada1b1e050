package config

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/joho/godotenv"

	"planner-go/pkg/logger"
)

const (
	dotenvFilename = ".env"
	dotenvPathEnv  = "PLANNER_DOTENV"
)

// loadDotEnv copies variables from the nearest .env file into the process
// environment. Variables that are already set win.
func loadDotEnv(log logger.Logger) error {
	path := strings.TrimSpace(os.Getenv(dotenvPathEnv))
	if path == "" {
		found, err := findDotEnv(dotenvFilename)
		if errors.Is(err, os.ErrNotExist) {
			log.Debug("dotenv: no file found")
			return nil
		}
		if err != nil {
			return err
		}
		path = found
	}

	values, err := godotenv.Read(path)
	if errors.Is(err, os.ErrNotExist) {
		log.Debug("dotenv: file missing", "path", path)
		return nil
	}
	if err != nil {
		return err
	}

	loaded, skipped, err := applyDotEnv(values)
	if err != nil {
		return err
	}

	log.Info("dotenv: loaded variables", "count", loaded, "path", path)
	if len(skipped) > 0 {
		log.Info("dotenv: skipped variables already set in env", "keys", skipped)
	}
	return nil
}

// applyDotEnv sets every variable not already present and returns the number
// set along with the sorted names it left alone.
func applyDotEnv(values map[string]string) (int, []string, error) {
	loaded := 0
	var skipped []string

	for key, value := range values {
		if _, exists := os.LookupEnv(key); exists {
			skipped = append(skipped, key)
			continue
		}
		if err := os.Setenv(key, value); err != nil {
			return loaded, skipped, err
		}
		loaded++
	}

	sort.Strings(skipped)
	return loaded, skipped, nil
}

// findDotEnv walks from the working directory up to the filesystem root.
func findDotEnv(filename string) (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		candidate := filepath.Join(dir, filename)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", os.ErrNotExist
		}
		dir = parent
	}
}
