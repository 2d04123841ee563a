package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// DotEnvFiles lists the env files consulted for env, most specific first
func DotEnvFiles(env string) []string {
	files := []string{}
	if env != "" {
		files = append(files, ".env."+env+".local")
	}
	files = append(files, ".env.local")
	if env != "" {
		files = append(files, ".env."+env)
	}
	return append(files, ".env")
}

// LoadDotEnv loads the existing files of DotEnvFiles from dir.
// godotenv never overwrites a variable that is already set, so the process
// environment wins and earlier files win over later ones.
// Returns the files actually loaded.
func LoadDotEnv(dir, env string) []string {
	var loaded []string
	for _, f := range DotEnvFiles(env) {
		path := filepath.Join(dir, f)
		if _, err := os.Stat(path); err == nil {
			loaded = append(loaded, path)
		}
	}
	if len(loaded) > 0 {
		_ = godotenv.Load(loaded...)
	}
	return loaded
}
