package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config is built once from the environment at process start and injected
// from there; nothing below main reads env vars directly.
type Config struct {
	OpenAIKey         string
	OpenAIModel       string
	FirestoreProject  string
	FirestoreDatabase string
	ListenAddr        string
	MinComments       int
}

// FromEnv reads configuration. Call godotenv.Load first if a .env file is
// in play.
func FromEnv() (Config, error) {
	cfg := Config{
		OpenAIKey:         os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:       os.Getenv("OPENAI_MODEL"),
		FirestoreProject:  os.Getenv("FIRESTORE_PROJECT"),
		FirestoreDatabase: os.Getenv("FIRESTORE_DATABASE"),
		ListenAddr:        os.Getenv("LISTEN_ADDR"),
		MinComments:       1,
	}

	if cfg.OpenAIKey == "" {
		return cfg, fmt.Errorf("OPENAI_API_KEY is not set")
	}
	if cfg.FirestoreProject == "" {
		return cfg, fmt.Errorf("FIRESTORE_PROJECT is not set")
	}
	if cfg.FirestoreDatabase == "" {
		cfg.FirestoreDatabase = "(default)"
	}
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = ":8080"
	}
	if raw := os.Getenv("MIN_COMMENTS"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return cfg, fmt.Errorf("MIN_COMMENTS must be a positive integer, got %q", raw)
		}
		cfg.MinComments = n
	}
	return cfg, nil
}
