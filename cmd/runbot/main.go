package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/mattjoyce/runbot/internal/auth"
	"github.com/mattjoyce/runbot/internal/command"
	"github.com/mattjoyce/runbot/internal/config"
	"github.com/mattjoyce/runbot/internal/execute"
	"github.com/mattjoyce/runbot/internal/gateway"
	"github.com/mattjoyce/runbot/internal/log"
	"github.com/mattjoyce/runbot/internal/validate"
)

const version = "0.1.0"

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Failed to load .env: %v\n", err)
		os.Exit(1)
	}
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		printUsage(stderr)
		return 1
	}

	cmd := args[0]
	rest := args[1:]

	switch cmd {
	// --- NOUNS ---
	case "system":
		return runSystemNoun(rest, stdout, stderr)
	case "config":
		return runConfigNoun(rest, stdout, stderr)

	// --- ROOT ALIASES ---
	case "start":
		return runStart(rest, stderr)
	case "version":
		fmt.Fprintf(stdout, "runbot version %s\n", version)
		return 0
	case "help", "--help", "-h":
		printUsage(stdout)
		return 0

	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n\n", cmd)
		printUsage(stderr)
		return 1
	}
}

func printUsage(w io.Writer) {
	fmt.Fprint(w, `runbot - Chat interactions endpoint that runs fenced code blocks

Usage:
  runbot <noun> <action> [flags]

System Commands:
  system start      Serve the interactions endpoint in foreground

Config Commands:
  config check      Validate configuration and integrity
  config lock       Record the config file hash in .checksums

General:
  start             Alias for system start
  version           Show version information
  help              Show this help message

All actions accept --config <path>. Without it the config is discovered from
$RUNBOT_CONFIG, ~/.config/runbot/config.yaml, /etc/runbot/config.yaml and
./config.yaml; when none exist, defaults and $DISCORD_PUBLIC_KEY are used.
`)
}

// --- NOUN DISPATCHERS ---

func runSystemNoun(args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		fmt.Fprintln(stderr, "Usage: runbot system start [--config PATH]")
		return 1
	}
	if isHelpToken(args[0]) {
		fmt.Fprintln(stdout, "Usage: runbot system start [--config PATH]")
		return 0
	}

	switch args[0] {
	case "start":
		if hasHelpFlag(args[1:]) {
			fmt.Fprintln(stdout, "Usage: runbot system start [--config PATH]")
			return 0
		}
		return runStart(args[1:], stderr)
	default:
		fmt.Fprintf(stderr, "Unknown system action: %s\n", args[0])
		return 1
	}
}

func runConfigNoun(args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		fmt.Fprintln(stderr, "Usage: runbot config <check|lock> [flags]")
		return 1
	}
	if isHelpToken(args[0]) {
		fmt.Fprintln(stdout, "Usage: runbot config <check|lock> [flags]")
		return 0
	}

	action := args[0]
	actionArgs := args[1:]

	switch action {
	case "check":
		if hasHelpFlag(actionArgs) {
			fmt.Fprintln(stdout, "Usage: runbot config check [--config PATH] [--format human|json]")
			return 0
		}
		return runConfigCheck(actionArgs, stdout, stderr)
	case "lock":
		if hasHelpFlag(actionArgs) {
			fmt.Fprintln(stdout, "Usage: runbot config lock [--config PATH] [--dry-run]")
			return 0
		}
		return runConfigLock(actionArgs, stdout, stderr)
	default:
		fmt.Fprintf(stderr, "Unknown config action: %s\n", action)
		return 1
	}
}

func isHelpToken(token string) bool {
	return token == "help" || token == "--help" || token == "-h"
}

func hasHelpFlag(args []string) bool {
	for _, arg := range args {
		if arg == "--help" || arg == "-h" {
			return true
		}
	}
	return false
}

// resolveConfigPath prefers the flag value, then discovery. An empty result
// means defaults plus environment.
func resolveConfigPath(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	return config.DiscoverConfigPath()
}

// --- ACTIONS ---

func runStart(args []string, stderr io.Writer) int {
	fs := flag.NewFlagSet("start", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configFlag := fs.String("config", "", "Path to configuration file")
	if err := fs.Parse(args); err != nil {
		return 1
	}

	configPath, err := resolveConfigPath(*configFlag)
	if err != nil {
		fmt.Fprintf(stderr, "Failed to discover config: %v\n", err)
		return 1
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(stderr, "Failed to load config: %v\n", err)
		return 1
	}

	log.Setup(cfg.Service.LogLevel)
	logger := log.WithComponent("main")
	logger.Info("runbot starting", "version", version, "config", cfg.SourcePath)

	server, err := newServer(cfg, nil)
	if err != nil {
		logger.Error("failed to build gateway", "error", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("runbot running (press Ctrl+C to stop)")
	if err := server.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("gateway failed", "error", err)
		return 1
	}

	logger.Info("runbot stopped")
	return 0
}

// newServer wires the request pipeline from configuration. A nil client
// uses http.DefaultClient for backend calls.
func newServer(cfg *config.Config, client *http.Client) (*gateway.Server, error) {
	verifier, err := auth.NewVerifier(cfg.Gateway.PublicKey)
	if err != nil {
		return nil, fmt.Errorf("public key: %w", err)
	}

	rust := execute.NewRustBackend(execute.RustConfig{
		Endpoint: cfg.Backends.Rust.Endpoint,
		Timeout:  cfg.Backends.Rust.Timeout,
		Edition:  cfg.Backends.Rust.Edition,
	}, client)
	generic := execute.NewGenericBackend(execute.GenericConfig{
		Endpoint: cfg.Backends.Generic.Endpoint,
		Timeout:  cfg.Backends.Generic.Timeout,
	}, client)

	dispatcher, err := execute.NewDispatcher(
		execute.NewRegistry(cfg.LanguageRoutes()),
		log.WithComponent("execute"),
		rust, generic,
	)
	if err != nil {
		return nil, fmt.Errorf("dispatcher: %w", err)
	}

	router := command.NewRouter(
		dispatcher,
		validate.New(cfg.Limits.MaxLines, cfg.Limits.MaxChars),
		log.WithComponent("command"),
	)

	return gateway.New(gateway.Config{
		Listen:      cfg.Gateway.Listen,
		Path:        cfg.Gateway.Path,
		MaxBodySize: cfg.Gateway.MaxBodyBytes,
	}, verifier, router, log.WithComponent("gateway")), nil
}

// checkSummary is the config check report.
type checkSummary struct {
	Valid     bool     `json:"valid"`
	Source    string   `json:"source"`
	Listen    string   `json:"listen,omitempty"`
	Path      string   `json:"path,omitempty"`
	Languages []string `json:"languages,omitempty"`
	Error     string   `json:"error,omitempty"`
}

func runConfigCheck(args []string, stdout, stderr io.Writer) int {
	var configFlag, format string

	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&configFlag, "config", "", "Path to configuration file")
	fs.StringVar(&format, "format", "human", "Output format (human, json)")
	if err := fs.Parse(args); err != nil {
		return 1
	}

	configPath, err := resolveConfigPath(configFlag)
	if err != nil {
		fmt.Fprintf(stderr, "Failed to discover config: %v\n", err)
		return 1
	}

	summary := checkSummary{Source: configPath}
	if summary.Source == "" {
		summary.Source = "defaults+env"
	}

	cfg, err := config.Load(configPath)
	if err == nil {
		summary.Valid = true
		summary.Listen = cfg.Gateway.Listen
		summary.Path = cfg.Gateway.Path
		summary.Languages = execute.NewRegistry(cfg.LanguageRoutes()).Aliases()
	} else {
		summary.Error = err.Error()
	}

	switch format {
	case "json":
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(summary); err != nil {
			fmt.Fprintf(stderr, "JSON format error: %v\n", err)
			return 1
		}
	default:
		if summary.Valid {
			fmt.Fprintf(stdout, "Configuration valid (%s)\n", summary.Source)
			fmt.Fprintf(stdout, "  listen:    %s\n", summary.Listen)
			fmt.Fprintf(stdout, "  path:      %s\n", summary.Path)
			fmt.Fprintf(stdout, "  languages: %d aliases\n", len(summary.Languages))
		} else {
			fmt.Fprintf(stderr, "Configuration invalid (%s): %s\n", summary.Source, summary.Error)
		}
	}

	if !summary.Valid {
		return 1
	}
	return 0
}

func runConfigLock(args []string, stdout, stderr io.Writer) int {
	var configFlag string
	var dryRun bool

	fs := flag.NewFlagSet("lock", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&configFlag, "config", "", "Path to configuration file")
	fs.BoolVar(&dryRun, "dry-run", false, "Show the hash without writing .checksums")
	if err := fs.Parse(args); err != nil {
		return 1
	}

	configPath, err := resolveConfigPath(configFlag)
	if err != nil {
		fmt.Fprintf(stderr, "Failed to discover config: %v\n", err)
		return 1
	}
	if configPath == "" {
		fmt.Fprintln(stderr, "No config file found to lock; pass --config")
		return 1
	}

	report, err := config.Lock(configPath, dryRun)
	if err != nil {
		fmt.Fprintf(stderr, "Config lock failed: %v\n", err)
		return 1
	}

	fmt.Fprintf(stdout, "%s  %s\n", report.Hash, report.ConfigPath)
	if report.Written {
		fmt.Fprintf(stdout, "Wrote %s\n", report.ChecksumPath)
	} else {
		fmt.Fprintln(stdout, "Dry run: .checksums not written")
	}
	return 0
}
