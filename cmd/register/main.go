package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bwmarrin/discordgo"
	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"

	"github.com/mattjoyce/runbot/internal/log"
	"github.com/mattjoyce/runbot/internal/register"
)

type Options struct {
	EnvFile  string `long:"env-file" default:".env" description:"Dotenv file providing BOT_TOKEN and APP_ID (missing file is ignored)"`
	Guild    string `long:"guild" description:"Register commands in this guild only (instant propagation, useful for testing)"`
	LogLevel string `long:"log-level" default:"info" description:"Log level (debug, info, warn, error)"`
	Args     struct {
		File string `positional-arg-name:"commands-file" description:"JSON file of the form {\"commands\":[...]} (default: built-in ping, pong, run)"`
	} `positional-args:"yes"`
}

func main() {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)

	_, err := parser.Parse()
	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	os.Exit(run(opts))
}

func run(opts Options) int {
	if err := godotenv.Load(opts.EnvFile); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Error: failed to load %s: %v\n", opts.EnvFile, err)
		return 1
	}

	log.Setup(opts.LogLevel)
	logger := log.WithComponent("register")

	token := os.Getenv("BOT_TOKEN")
	appID := os.Getenv("APP_ID")
	if token == "" || appID == "" {
		fmt.Fprintf(os.Stderr, "Error: BOT_TOKEN and APP_ID must be set (environment or %s)\n", opts.EnvFile)
		return 1
	}

	cmds := register.DefaultCommands()
	if opts.Args.File != "" {
		loaded, err := register.LoadFile(opts.Args.File)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		cmds = loaded
	}

	session, err := discordgo.New("Bot " + token)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create Discord session: %v\n", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	results, err := register.New(session, appID, opts.Guild, logger).Register(ctx, cmds)
	for _, res := range results {
		if res.Err != nil {
			fmt.Printf("FAIL %-8s %v\n", res.Name, res.Err)
			continue
		}
		fmt.Printf("OK   %-8s %s\n", res.Name, res.ID)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "Registration failed")
		return 1
	}
	return 0
}
