package main

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/natefinch/atomic"
)

// ServerConfig holds the configuration for the HTTP server and storage.
type ServerConfig struct {
	ServerAddr       string `json:"server_addr"`
	LogLevel         string `json:"log_level"`
	DatabasePath     string `json:"database_path"`
	ModelCacheTTLSec int    `json:"model_cache_ttl_sec"`
	MaxCorpusBytes   int64  `json:"max_corpus_bytes"`
}

// GenerationConfig holds the defaults used when a generation request does
// not specify its own values.
type GenerationConfig struct {
	Length     int    `json:"length"`
	MaxLength  int    `json:"max_length"`
	Seed       string `json:"seed"`
	RandomSeed bool   `json:"random_seed"`
	Retries    int    `json:"retries"`
}

// Config is the top-level configuration struct that aggregates all other configs.
type Config struct {
	Server     *ServerConfig     `json:"server_config"`
	Generation *GenerationConfig `json:"generation_config"`
}

// DefaultServerConfig creates a server configuration with default values.
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		ServerAddr:       ":7277",
		LogLevel:         "info",
		DatabasePath:     "./data/parrot.db?_journal_mode=WAL&_busy_timeout=5000",
		ModelCacheTTLSec: 600,
		MaxCorpusBytes:   32 << 20,
	}
}

// DefaultGenerationConfig creates a generation configuration with default values.
func DefaultGenerationConfig() *GenerationConfig {
	return &GenerationConfig{
		Length:     100,
		MaxLength:  5000,
		Seed:       "It was",
		RandomSeed: false,
		Retries:    0,
	}
}

// LoadConfig reads the configuration from a JSON file at the given path.
// If the file doesn't exist, it creates one with default values.
func LoadConfig(path string) (*Config, error) {
	config := &Config{
		Server:     DefaultServerConfig(),
		Generation: DefaultGenerationConfig(),
	}

	file, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			var data []byte
			data, err = json.MarshalIndent(config, "", "  ")
			if err != nil {
				return nil, fmt.Errorf("failed to marshal default config: %w", err)
			}
			if err = atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
				// The defaults are still usable without a file on disk.
				fmt.Fprintf(os.Stderr, "warning: failed to write default config file: %v\n", err)
			}
			return config, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err = json.Unmarshal(file, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	// Sections missing from the file keep their defaults.
	if config.Server == nil {
		config.Server = DefaultServerConfig()
	}
	if config.Generation == nil {
		config.Generation = DefaultGenerationConfig()
	}

	return config, nil
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func newLogger(w io.Writer, level string) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: parseLogLevel(level)}))
}
