package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"

	"github.com/hyperjump/tansaku/internal/cli"
	"github.com/hyperjump/tansaku/internal/config"
	"github.com/hyperjump/tansaku/internal/embedding"
	"github.com/hyperjump/tansaku/internal/models"
	"github.com/hyperjump/tansaku/internal/search"
	"github.com/hyperjump/tansaku/internal/server"
	"github.com/hyperjump/tansaku/internal/storage"
	"github.com/hyperjump/tansaku/internal/watcher"
	"github.com/hyperjump/tansaku/pkg/utils"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/tansaku/config.yaml"

// loadConfig loads config from path. When path is the default, it first looks
// for config.yaml in the current directory (for development); when neither
// exists the built-in defaults are used, so a fresh install works without
// writing any file first. Returns the config and a description of where it
// came from.
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
		if _, statErr := os.Stat(path); os.IsNotExist(statErr) {
			cfg := &config.Config{}
			config.ApplyDefaults(cfg)
			return cfg, "built-in defaults", nil
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "search":
		runSearch()
	case "serve":
		runServe()
	case "interactive":
		runInteractive()
	case "import":
		runImport()
	case "export":
		runExport()
	case "list":
		runList()
	case "show":
		runShow()
	case "stats":
		runStats()
	case "version", "-v", "--version":
		fmt.Printf("tansaku %s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

// searchArgsReorder moves any flags (and their values) that appear after the
// query to the front of the slice so that flag.Parse() sees them. Go's flag
// package stops at the first non-flag argument, so "tansaku search memo -rerank"
// would otherwise leave -rerank unparsed.
func searchArgsReorder(args []string) []string {
	for i, a := range args {
		if len(a) > 0 && a[0] == '-' {
			if i == 0 {
				return args
			}
			reordered := make([]string, 0, len(args))
			reordered = append(reordered, args[i:]...)
			reordered = append(reordered, args[:i]...)
			return reordered
		}
	}
	return args
}

// buildSearchQuery joins the positional arguments into a single query string.
func buildSearchQuery(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

func runSearch() {
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	limit := fs.Int("limit", 0, "number of results (0 = config default)")
	minScore := fs.Float64("min-score", 0, "drop results scoring below this value")
	synonyms := fs.Bool("synonyms", false, "expand query tokens with configured synonyms")
	rerank := fs.Bool("rerank", false, "rerank lexical results by embedding similarity")
	jsonOut := fs.Bool("json", false, "print the response as JSON")
	debug := fs.Bool("debug", false, "enable debug logging")
	fs.Usage = func() { printSearchUsage(fs) }
	_ = fs.Parse(searchArgsReorder(os.Args[2:]))

	queryStr := buildSearchQuery(fs.Args())
	if queryStr == "" {
		printSearchUsage(fs)
		os.Exit(1)
	}

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := utils.NewLogger(cfg.Debug || *debug)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	components, err := initializeComponents(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	defer components.Close()

	ctx := context.Background()
	if err := components.Engine.Rebuild(ctx); err != nil {
		logger.Fatal("Failed to build index", zap.Error(err))
	}

	response, err := components.Engine.Search(ctx, models.SearchQuery{
		Query:    queryStr,
		Limit:    *limit,
		Synonyms: *synonyms,
		Rerank:   *rerank,
		MinScore: *minScore,
	})
	if err != nil {
		logger.Fatal("Search failed", zap.Error(err))
	}

	if err := cli.WriteSearchResults(os.Stdout, response, outputFormat(*jsonOut)); err != nil {
		logger.Fatal("Failed to write results", zap.Error(err))
	}
}

func runServe() {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	host := fs.String("host", "", "bind address (overrides config)")
	port := fs.Int("port", 0, "listen port (overrides config)")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *host != "" {
		cfg.Server.Host = *host
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}

	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.Bool("debug", debugMode),
	)

	components, err := initializeComponents(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	defer components.Close()

	engine := components.Engine
	if err := engine.Rebuild(context.Background()); err != nil {
		logger.Fatal("Failed to build index", zap.Error(err))
	}

	if cfg.Watch.Enabled {
		watchOpts := []watcher.Option{
			watcher.WithDebounce(time.Duration(cfg.Watch.DebounceMs) * time.Millisecond),
		}
		if debugMode {
			watchOpts = append(watchOpts, watcher.WithLogger(logger))
		}
		watchSvc := watcher.New(
			[]string{components.Store.Path()},
			func(path string) {
				if err := engine.Rebuild(context.Background()); err != nil {
					logger.Warn("catalog reload failed", zap.String("path", path), zap.Error(err))
					return
				}
				logger.Info("catalog reloaded", zap.String("path", path))
			},
			watchOpts...,
		)
		watchCtx, watchCancel := context.WithCancel(context.Background())
		defer watchCancel()
		if err := watchSvc.Start(watchCtx); err != nil {
			logger.Fatal("Failed to start watcher", zap.Error(err))
		}
		defer watchSvc.Stop()
	}

	srv := server.NewServer(engine, cfg, logger)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Stop(shutdownCtx); err != nil {
		logger.Warn("server shutdown failed", zap.Error(err))
	}
	logger.Info("Server stopped")
}

func runInteractive() {
	fs := flag.NewFlagSet("interactive", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(os.Args[2:])

	if !cli.InteractiveTerminal() {
		fmt.Fprintln(os.Stderr, "interactive mode requires a terminal on stdin and stdout")
		os.Exit(1)
	}

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := utils.NewLogger(cfg.Debug || *debug)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	components, err := initializeComponents(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	defer components.Close()

	ctx := context.Background()
	if err := components.Engine.Rebuild(ctx); err != nil {
		logger.Fatal("Failed to build index", zap.Error(err))
	}

	if err := cli.RunInteractive(ctx, components.Engine, os.Stdin, os.Stdout); err != nil {
		logger.Fatal("Interactive session failed", zap.Error(err))
	}
}

func runImport() {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(os.Args[2:])

	if fs.NArg() < 1 {
		fmt.Println("Usage: tansaku import [flags] <file.jsonl>")
		os.Exit(1)
	}
	sourcePath := fs.Arg(0)

	logger, store := openStore(*configPath, *debug)
	defer logger.Sync()
	defer store.Close()

	docs, err := storage.ReadJSONL(sourcePath)
	if err != nil {
		logger.Fatal("Failed to read import file", zap.String("path", sourcePath), zap.Error(err))
	}

	bar := newProgressBar(len(docs), "importing")
	ctx := context.Background()
	imported, skipped := 0, 0
	for _, doc := range docs {
		if strings.TrimSpace(doc.ID) == "" {
			doc.ID = uuid.New().String()
		}
		if err := doc.Validate(); err != nil {
			logger.Warn("skipping invalid document", zap.Error(err))
			skipped++
			_ = bar.Add(1)
			continue
		}
		if err := store.Put(ctx, doc); err != nil {
			logger.Fatal("Failed to store document", zap.String("id", doc.ID), zap.Error(err))
		}
		imported++
		_ = bar.Add(1)
	}
	_ = bar.Finish()

	fmt.Printf("Imported %d documents into %s", imported, store.Path())
	if skipped > 0 {
		fmt.Printf(" (%d skipped)", skipped)
	}
	fmt.Println()
}

func runExport() {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(os.Args[2:])

	if fs.NArg() < 1 {
		fmt.Println("Usage: tansaku export [flags] <file.jsonl>")
		os.Exit(1)
	}
	destPath := fs.Arg(0)

	logger, store := openStore(*configPath, *debug)
	defer logger.Sync()
	defer store.Close()

	docs, err := store.List(context.Background())
	if err != nil {
		logger.Fatal("Failed to list documents", zap.Error(err))
	}
	if err := storage.WriteJSONL(destPath, docs); err != nil {
		logger.Fatal("Failed to write export file", zap.String("path", destPath), zap.Error(err))
	}

	fmt.Printf("Exported %d documents to %s\n", len(docs), destPath)
}

func runList() {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	jsonOut := fs.Bool("json", false, "print documents as JSON")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(os.Args[2:])

	logger, store := openStore(*configPath, *debug)
	defer logger.Sync()
	defer store.Close()

	docs, err := store.List(context.Background())
	if err != nil {
		logger.Fatal("Failed to list documents", zap.Error(err))
	}
	if err := cli.WriteDocumentList(os.Stdout, docs, outputFormat(*jsonOut)); err != nil {
		logger.Fatal("Failed to write documents", zap.Error(err))
	}
}

func runShow() {
	fs := flag.NewFlagSet("show", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	jsonOut := fs.Bool("json", false, "print the document as JSON")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(os.Args[2:])

	if fs.NArg() < 1 {
		fmt.Println("Usage: tansaku show [flags] <id>")
		os.Exit(1)
	}
	id := fs.Arg(0)

	logger, store := openStore(*configPath, *debug)
	defer logger.Sync()
	defer store.Close()

	doc, err := store.Get(context.Background(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			fmt.Fprintf(os.Stderr, "document %q not found\n", id)
			os.Exit(1)
		}
		logger.Fatal("Failed to load document", zap.String("id", id), zap.Error(err))
	}
	if err := cli.WriteDocument(os.Stdout, doc, outputFormat(*jsonOut)); err != nil {
		logger.Fatal("Failed to write document", zap.Error(err))
	}
}

func runStats() {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	jsonOut := fs.Bool("json", false, "print stats as JSON")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(os.Args[2:])

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := utils.NewLogger(cfg.Debug || *debug)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	components, err := initializeComponents(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	defer components.Close()

	if err := components.Engine.Rebuild(context.Background()); err != nil {
		logger.Fatal("Failed to build index", zap.Error(err))
	}

	if err := cli.WriteStats(os.Stdout, components.Engine.Stats(), outputFormat(*jsonOut)); err != nil {
		logger.Fatal("Failed to write stats", zap.Error(err))
	}
}

// openStore loads config, builds the logger, and opens the catalog store for
// commands that work on documents without the search engine.
func openStore(configPath string, debug bool) (*zap.Logger, storage.Store) {
	cfg, _, err := loadConfig(configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := utils.NewLogger(cfg.Debug || debug)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	store, err := storage.Open(cfg.Storage.Backend, cfg.Storage.Path)
	if err != nil {
		logger.Fatal("Failed to open storage", zap.Error(err))
	}
	return logger, store
}

func outputFormat(jsonOut bool) cli.OutputFormat {
	if jsonOut {
		return cli.OutputJSON
	}
	return cli.OutputText
}

func newProgressBar(total int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWidth(32),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:     "=",
			SaucerHead: ">",
			BarStart:   "[",
			BarEnd:     "]",
		}),
	)
}

// Components bundles the store and engine so commands share one construction
// and teardown path.
type Components struct {
	Store  storage.Store
	Model  *embedding.RemoteModel
	Engine *search.Engine
}

// Close releases components in reverse construction order.
func (c *Components) Close() {
	if c.Engine != nil {
		_ = c.Engine.Close()
	}
	if c.Model != nil {
		_ = c.Model.Close()
	}
	if c.Store != nil {
		_ = c.Store.Close()
	}
}

func initializeComponents(cfg *config.Config, logger *zap.Logger) (*Components, error) {
	store, err := storage.Open(cfg.Storage.Backend, cfg.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}

	var opts []search.Option
	var model *embedding.RemoteModel
	if cfg.Rerank.Remote.Enabled {
		model = embedding.NewRemoteModel(embedding.RemoteConfig{
			BaseURL:    cfg.Rerank.Remote.BaseURL,
			APIKey:     os.Getenv("OPENAI_API_KEY"),
			Model:      cfg.Rerank.Remote.Model,
			Dimensions: cfg.Rerank.Remote.Dimensions,
		}, logger)
		probeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := model.Reset(probeCtx); err != nil {
			logger.Warn("remote embedding model unavailable", zap.Error(err))
		}
		cancel()
		opts = append(opts, search.WithModel(model))
	}

	engine, err := search.NewEngine(cfg, store, logger, opts...)
	if err != nil {
		if model != nil {
			_ = model.Close()
		}
		_ = store.Close()
		return nil, fmt.Errorf("failed to initialize engine: %w", err)
	}

	return &Components{Store: store, Model: model, Engine: engine}, nil
}

func printUsage() {
	fmt.Printf(`tansaku %s - content catalog search engine

Usage:
  tansaku <command> [flags]

Commands:
  search <query>       Search the catalog from the command line
  serve                Start the HTTP API server
  interactive          Browse the catalog with interactive prompts
  import <file.jsonl>  Load documents from a JSONL file into the store
  export <file.jsonl>  Write the store contents to a JSONL file
  list                 List all stored documents
  show <id>            Print one document
  stats                Build the index and print its statistics
  version              Print the version
  help                 Show this help

Run "tansaku <command> -h" for command flags.
`, version)
}

func printSearchUsage(fs *flag.FlagSet) {
	fmt.Println(`Usage: tansaku search [flags] <query>

Examples:
  tansaku search release memo
  tansaku search "bug fixing" -limit 5 -rerank
  tansaku search changelog -synonyms -json

Flags:`)
	fs.PrintDefaults()
}
