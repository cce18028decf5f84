package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/ironsheep/avatar-tools-mcp/internal/config"
	"github.com/ironsheep/avatar-tools-mcp/internal/imaging"
	"github.com/ironsheep/avatar-tools-mcp/internal/server"
	"github.com/ironsheep/avatar-tools-mcp/internal/store"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Handle --version and -v flags
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("avatar-tools-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			fmt.Println("avatar-tools-mcp - MCP server for avatar crop, rotate and export")
			fmt.Println()
			fmt.Println("Usage: avatar-tools-mcp [options]")
			fmt.Println()
			fmt.Println("Options:")
			fmt.Println("  --version, -v    Print version information")
			fmt.Println("  --help, -h       Print this help message")
			fmt.Println()
			fmt.Println("Environment variables (also read from .env):")
			fmt.Println("  AVATAR_MCP_LOG_LEVEL=info         Log level (debug, info, warn, error)")
			fmt.Println("  AVATAR_FETCH_TIMEOUT=15s          Timeout for http(s) sources")
			fmt.Println("  AVATAR_MAX_SOURCE_BYTES=20971520  Largest accepted source image")
			fmt.Println("  AVATAR_MAX_SOURCE_EDGE=4096       Longest accepted source edge in pixels")
			fmt.Println("  AVATAR_CLAMP_CROP=false           Clip crops that leave the canvas")
			fmt.Println("  AVATAR_BACKGROUND=#000000         Fill for transparent output pixels")
			fmt.Println("  STORAGE_TYPE=memory               memory, filesystem or s3")
			fmt.Println("  LOCAL_STORAGE_PATH=./data         Directory for filesystem storage")
			fmt.Println("  S3_BUCKET_NAME=                   Bucket for s3 storage")
			fmt.Println("  AVATAR_PUBLIC_BASE_URL=           Base URL for uploaded avatars")
			fmt.Println()
			fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
			fmt.Println("Configure it in your MCP client (e.g., Claude Desktop).")
			return
		}
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(2)
	}

	// Logging goes to stderr (stdout is for MCP protocol)
	logger := cfg.NewLogger()
	log := logger.WithField("version", Version)
	log.WithFields(logrus.Fields{
		"build_time": BuildTime,
		"commit":     GitCommit,
	}).Debug("Starting avatar MCP server")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loader := imaging.NewLoader(
		imaging.WithFetchTimeout(cfg.FetchTimeout),
		imaging.WithMaxSourceBytes(cfg.MaxSourceBytes),
		imaging.WithMaxSourceEdge(cfg.MaxSourceEdge),
	)
	pipeline := imaging.NewPipeline(
		loader,
		imaging.NewEncoder(cfg.Background),
		imaging.TransformOptions{Clamp: cfg.ClampCrop},
		log,
	)

	blobs, err := store.New(ctx, cfg, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to set up avatar storage")
	}

	server.Version = Version
	srv := server.New(pipeline, blobs, log)
	// The stdin read does not observe ctx, so a signal ends the process here.
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	select {
	case err := <-done:
		if err != nil {
			log.WithError(err).Fatal("Server error")
		}
	case <-ctx.Done():
		log.Info("Shutting down")
	}
}
