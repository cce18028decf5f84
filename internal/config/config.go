// Package config reads server settings from the environment.
//
// A .env file in the working directory, when present, seeds variables that
// are not already set in the process environment.
package config

import (
	"errors"
	"fmt"
	"image/color"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/ironsheep/avatar-tools-mcp/internal/imaging"
)

// Storage backends accepted in STORAGE_TYPE.
const (
	StorageMemory     = "memory"
	StorageFilesystem = "filesystem"
	StorageS3         = "s3"
)

// Config holds every tunable of the server.
type Config struct {
	LogLevel logrus.Level

	FetchTimeout   time.Duration
	MaxSourceBytes int64
	MaxSourceEdge  int
	ClampCrop      bool
	Background     color.Color

	StorageType   string
	LocalPath     string
	S3Bucket      string
	PublicBaseURL string
}

// Load reads .env (if any) and the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}
	return FromLookup(os.LookupEnv)
}

// FromLookup builds a Config from an arbitrary variable source.
func FromLookup(lookup func(string) (string, bool)) (*Config, error) {
	get := func(key, def string) string {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
		return def
	}

	cfg := &Config{
		StorageType:   strings.ToLower(get("STORAGE_TYPE", StorageMemory)),
		LocalPath:     get("LOCAL_STORAGE_PATH", "./data"),
		S3Bucket:      get("S3_BUCKET_NAME", ""),
		PublicBaseURL: strings.TrimRight(get("AVATAR_PUBLIC_BASE_URL", ""), "/"),
	}

	var err error
	if cfg.LogLevel, err = logrus.ParseLevel(get("AVATAR_MCP_LOG_LEVEL", "info")); err != nil {
		return nil, fmt.Errorf("AVATAR_MCP_LOG_LEVEL: %w", err)
	}
	if cfg.FetchTimeout, err = time.ParseDuration(get("AVATAR_FETCH_TIMEOUT", imaging.DefaultFetchTimeout.String())); err != nil {
		return nil, fmt.Errorf("AVATAR_FETCH_TIMEOUT: %w", err)
	}
	if cfg.FetchTimeout <= 0 {
		return nil, fmt.Errorf("AVATAR_FETCH_TIMEOUT: must be positive, got %s", cfg.FetchTimeout)
	}
	if cfg.MaxSourceBytes, err = strconv.ParseInt(get("AVATAR_MAX_SOURCE_BYTES", strconv.Itoa(imaging.DefaultMaxSourceBytes)), 10, 64); err != nil {
		return nil, fmt.Errorf("AVATAR_MAX_SOURCE_BYTES: %w", err)
	}
	if cfg.MaxSourceBytes <= 0 {
		return nil, fmt.Errorf("AVATAR_MAX_SOURCE_BYTES: must be positive, got %d", cfg.MaxSourceBytes)
	}
	if cfg.MaxSourceEdge, err = strconv.Atoi(get("AVATAR_MAX_SOURCE_EDGE", strconv.Itoa(imaging.DefaultMaxSourceEdge))); err != nil {
		return nil, fmt.Errorf("AVATAR_MAX_SOURCE_EDGE: %w", err)
	}
	if cfg.MaxSourceEdge <= 0 {
		return nil, fmt.Errorf("AVATAR_MAX_SOURCE_EDGE: must be positive, got %d", cfg.MaxSourceEdge)
	}
	if cfg.ClampCrop, err = strconv.ParseBool(get("AVATAR_CLAMP_CROP", "false")); err != nil {
		return nil, fmt.Errorf("AVATAR_CLAMP_CROP: %w", err)
	}
	if cfg.Background, err = imaging.ParseBackground(get("AVATAR_BACKGROUND", "#000000")); err != nil {
		return nil, fmt.Errorf("AVATAR_BACKGROUND: %w", err)
	}

	switch cfg.StorageType {
	case StorageMemory, StorageFilesystem:
	case StorageS3:
		if cfg.S3Bucket == "" {
			return nil, errors.New("S3_BUCKET_NAME must be set for s3 storage")
		}
	default:
		return nil, fmt.Errorf("STORAGE_TYPE: unknown backend %q", cfg.StorageType)
	}

	return cfg, nil
}

// NewLogger returns a logger writing to stderr at the configured level.
// Stdout is reserved for the protocol stream.
func (c *Config) NewLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetLevel(c.LogLevel)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return log
}
