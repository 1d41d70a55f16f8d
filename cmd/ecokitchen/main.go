package main

import (
	"context"
	"fmt"
	"os"

	"github.com/hpungsan/ecokitchen/internal/catalog"
	"github.com/hpungsan/ecokitchen/internal/config"
	"github.com/hpungsan/ecokitchen/internal/logging"
	"github.com/hpungsan/ecokitchen/internal/mcp"
)

// Version is set via -ldflags at build time.
var Version = "dev"

// cliCommands contains known CLI subcommands.
var cliCommands = map[string]bool{
	"classify": true, "catalog": true, "serve": true, "mcp": true,
	"help": true,
}

// isCLIMode determines if we should run CLI vs MCP server.
func isCLIMode() bool {
	if len(os.Args) < 2 {
		return false // No args → MCP server
	}
	arg := os.Args[1]
	if cliCommands[arg] {
		return true
	}
	return arg == "--help" || arg == "-h" || arg == "--version" || arg == "-v"
}

// isHelpOrVersion returns true if the user is requesting help or version info.
func isHelpOrVersion() bool {
	if len(os.Args) < 2 {
		return false
	}
	arg := os.Args[1]
	return arg == "--help" || arg == "-h" || arg == "--version" || arg == "-v" || arg == "help"
}

// isTerminal returns true if stdin is a terminal (not piped).
func isTerminal() bool {
	stat, _ := os.Stdin.Stat()
	return (stat.Mode() & os.ModeCharDevice) != 0
}

// printBanner displays a friendly banner when run interactively without args.
func printBanner() {
	fmt.Println(`
   ___          _  ___ _      _
  | __|__ ___  | |/ (_) |_ __| |_  ___ _ _
  | _|/ _/ _ \ | ' <| |  _/ _| ' \/ -_) ' \
  |___\__\___/ |_|\_\_|\__\__|_||_\___|_||_|

  Spoilage risk and leftover recipes

  Usage: ecokitchen <command> [options]
         ecokitchen --help

  MCP server mode requires piped input.`)
}

// newLoader opens the configured catalog source. A source that cannot be
// opened yields a loader that reports CATALOG_UNAVAILABLE on use; the
// process keeps running.
func newLoader(ctx context.Context, cfg *config.Config) *catalog.Loader {
	src, err := catalog.OpenSource(ctx, cfg.Catalog.Source, cfg.S3Options())
	if err != nil {
		logging.Warn().Err(err).Str("source", cfg.Catalog.Source).Msg("recipe catalog source unavailable")
		return catalog.NewLoader(nil)
	}
	return catalog.NewLoader(src)
}

func main() {
	// No args + interactive terminal → show banner and exit
	if len(os.Args) < 2 && isTerminal() {
		printBanner()
		return
	}

	// Handle --help/--version before loading config
	if isHelpOrVersion() {
		app := newCLIApp(nil, nil)
		if err := app.Run(os.Args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	baseDir, err := config.DefaultBaseDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	cwd, err := os.Getwd()
	if err != nil {
		cwd = ""
	}

	cfg, err := config.LoadWithRepo(baseDir, cwd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to load config: %v\n", err)
		os.Exit(1)
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: os.Stderr,
	})

	loader := newLoader(context.Background(), cfg)

	// CLI mode: known subcommand
	if isCLIMode() {
		app := newCLIApp(loader, cfg)
		if err := app.Run(os.Args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// Unknown argument + terminal → show error (don't start MCP server)
	if len(os.Args) >= 2 && isTerminal() {
		fmt.Fprintf(os.Stderr, "error: unknown command %q\n", os.Args[1])
		fmt.Fprintf(os.Stderr, "Run 'ecokitchen --help' for usage.\n")
		os.Exit(1)
	}

	// MCP server mode (default)
	if err := mcp.Run(loader, cfg, Version); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
