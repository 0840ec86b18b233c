package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"hdrscan/internal/config"
	"hdrscan/internal/cppparse"
	"hdrscan/internal/indexer"
	"hdrscan/internal/mcp"
	"hdrscan/internal/report"
	"hdrscan/internal/storage"
	"hdrscan/pkg/cppast"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	// Log to stderr (stdout carries MCP protocol or emitted diagrams)
	log.SetOutput(os.Stderr)

	args := os.Args[1:]
	if len(args) > 0 {
		switch args[0] {
		case "--version", "version":
			printVersion()
			return
		case "scan":
			if err := runScan(args[1:]); err != nil {
				log.Fatalf("scan failed: %v", err)
			}
			return
		case "emit":
			if err := runEmit(args[1:]); err != nil {
				log.Fatalf("emit failed: %v", err)
			}
			return
		}
	}

	if err := runServe(); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func printVersion() {
	fmt.Printf("hdrscan MCP Server\n")
	fmt.Printf("Version: %s\n", version)
	fmt.Printf("Build Time: %s\n", buildTime)
	fmt.Printf("Build Mode: %s\n", storage.BuildMode)
	fmt.Printf("SQLite Driver: %s\n", storage.DriverName)
}

// runServe starts the MCP server on stdio, the default mode.
func runServe() error {
	log.Printf("hdrscan MCP Server v%s starting...", version)
	log.Printf("Build Mode: %s, Driver: %s", storage.BuildMode, storage.DriverName)

	cfg, err := config.Load("")
	if err != nil {
		return err
	}

	server, err := mcp.NewServer(cfg.ResolveDBPath(), cfg)
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		log.Println("MCP server ready, listening on stdio...")
		errChan <- server.Serve(ctx)
	}()

	select {
	case sig := <-sigChan:
		log.Printf("Received signal %v, shutting down gracefully...", sig)
		cancel()
	case err := <-errChan:
		if err != nil {
			return err
		}
	}

	log.Println("Server stopped")
	return nil
}

// runScan indexes one source tree and prints the statistics.
func runScan(args []string) error {
	fs := flag.NewFlagSet("scan", flag.ExitOnError)
	configPath := fs.String("config", "", "config file (default: hdrscan.toml if present)")
	dialectName := fs.String("dialect", "", "parser dialect, overriding the config")
	force := fs.Bool("force", false, "re-parse every file ignoring content hashes")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: hdrscan scan [flags] <path>")
	}

	root, err := filepath.Abs(fs.Arg(0))
	if err != nil {
		return err
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if *dialectName != "" {
		cfg.Dialect = *dialectName
	}
	dialect, err := cfg.ParserDialect()
	if err != nil {
		return err
	}

	dbFile, err := resolveDBFile(cfg)
	if err != nil {
		return err
	}
	store, err := storage.NewSQLiteStorage(dbFile)
	if err != nil {
		return fmt.Errorf("failed to open index database: %w", err)
	}
	defer func() { _ = store.Close() }()

	stats, err := indexer.New(store).IndexTree(context.Background(), root, &indexer.Config{
		Dialect:         dialect,
		Workers:         cfg.Workers,
		Force:           *force,
		IncludePatterns: cfg.Include,
		ExcludePatterns: cfg.Exclude,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Indexed %d files (%d skipped, %d failed) in %s\n",
		stats.FilesIndexed, stats.FilesSkipped, stats.FilesFailed, stats.Duration.Round(time.Millisecond))
	fmt.Printf("Stored %d classes, %d methods\n", stats.ClassesStored, stats.MethodsStored)
	for _, msg := range stats.ErrorMessages {
		log.Printf("error: %s", msg)
	}
	return nil
}

// runEmit parses headers and writes a class diagram to stdout.
func runEmit(args []string) error {
	fs := flag.NewFlagSet("emit", flag.ExitOnError)
	configPath := fs.String("config", "", "config file (default: hdrscan.toml if present)")
	dialectName := fs.String("dialect", "", "parser dialect, overriding the config")
	format := fs.String("format", "plantuml", "diagram format: plantuml or mermaid")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return fmt.Errorf("usage: hdrscan emit [flags] <header> [header...]")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if *dialectName != "" {
		cfg.Dialect = *dialectName
	}
	dialect, err := cfg.ParserDialect()
	if err != nil {
		return err
	}

	var headers []*cppast.Header
	for _, path := range fs.Args() {
		source, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		h, err := cppparse.ParseHeader(string(source), dialect)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		headers = append(headers, h)
	}

	var out string
	switch *format {
	case "plantuml", "puml":
		out, err = report.NewPlantUMLGenerator(headers...).Generate()
	case "mermaid", "mmd":
		out, err = report.NewMermaidGenerator(headers...).Generate()
	default:
		return fmt.Errorf("unknown format %q (want plantuml or mermaid)", *format)
	}
	if err != nil {
		return err
	}

	fmt.Print(out)
	return nil
}

// resolveDBFile expands the configured database directory the same way the
// MCP server does and returns the database file inside it.
func resolveDBFile(cfg *config.Config) (string, error) {
	dir := cfg.ResolveDBPath()
	if dir == "" || dir == mcp.DefaultDBPath {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		dir = filepath.Join(home, ".hdrscan")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create database directory: %w", err)
	}
	return filepath.Join(dir, "hdrscan.db"), nil
}
