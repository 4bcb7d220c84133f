// Package main is the catsearch CLI entry point.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/access-ci/catsearch/internal/cli"
	"github.com/access-ci/catsearch/internal/config"
	"github.com/access-ci/catsearch/internal/engine"
	"github.com/access-ci/catsearch/internal/models"
	"github.com/access-ci/catsearch/internal/server"
	"github.com/access-ci/catsearch/internal/upstream"
	"github.com/access-ci/catsearch/pkg/utils"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/catsearch/config.yaml"

// loadConfig loads config from path. When path is the default, it first looks
// for config.yaml in the current directory (for development); if that exists
// it is used, so that "catsearch server" from the project dir uses the
// project's config. Returns the config and the path that was actually loaded.
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
	command := os.Args[1]
	switch command {
	case "server":
		runServer()
	case "search":
		runSearch()
	case "domains":
		runDomains()
	case "version", "--version", "-v":
		fmt.Printf("catsearch version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`Usage: catsearch <command> [flags]

Commands:
  server    Start the HTTP API server
  search    Search a catalog domain
  domains   List available catalog domains
  version   Print version
  help      Show this help

Run 'catsearch <command> -h' for command flags.`)
}

// buildSources constructs one source per configured upstream domain.
func buildSources(cfg *config.Config, logger *zap.Logger) []engine.Source {
	return []engine.Source{
		upstream.NewAllocationsSource(upstream.NewClient(cfg.Upstreams[config.DomainAllocations], logger)),
		upstream.NewNSFSource(upstream.NewClient(cfg.Upstreams[config.DomainNSF], logger)),
		upstream.NewSoftwareSource(upstream.NewClient(cfg.Upstreams[config.DomainSoftware], logger)),
	}
}

func newEngine(cfg *config.Config, logger *zap.Logger) *engine.Engine {
	return engine.New(
		engine.WithLogger(logger),
		engine.WithMaxLimit(cfg.Search.MaxLimit),
		engine.WithAttemptTimeout(time.Duration(cfg.Search.StrategyTimeoutSeconds)*time.Second),
	)
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
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

	srv := server.NewServer(newEngine(cfg, logger), buildSources(cfg, logger), cfg, logger)

	watchCtx, watchCancel := context.WithCancel(context.Background())
	defer watchCancel()
	watch := config.NewWatcher(resolvedConfigPath, srv.UpdateConfig, logger)
	if err := watch.Start(watchCtx); err != nil {
		logger.Warn("config watch unavailable", zap.Error(err))
	}

	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	watchCancel()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}

// buildSearchQuery joins all positional args with spaces so multi-word
// queries work the same with or without shell quoting.
func buildSearchQuery(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

// searchArgsReorder moves any flags (and their values) that appear after the
// query to the front of the slice so that flag.Parse() sees them. Go's flag
// package stops at the first non-flag argument.
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

// splitCSV splits a comma-separated flag value into trimmed parts.
func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func printSearchUsage(fs *flag.FlagSet) {
	fmt.Fprintf(fs.Output(), "Usage: catsearch search [flags] <query>\n\n")
	fmt.Fprintf(fs.Output(), "Query is all remaining arguments joined by spaces. Boolean operators AND, OR,\nNOT, parentheses, and \"quoted phrases\" are supported.\n\n")
	fs.PrintDefaults()
	fmt.Fprintf(fs.Output(), `
Examples:
  catsearch search -domain software molecular dynamics
  catsearch search -domain nsf "quantum computing" AND NOT annealing
  catsearch search -domain allocations -id CHE230042
  catsearch search -domain software -similar gpu,ml -threshold 0.5 simulation
`)
}

func runSearch() {
	searchArgs := searchArgsReorder(os.Args[2:])

	fs := flag.NewFlagSet("search", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", "http://localhost:8080", "server URL (empty = query upstreams directly)")
	domain := fs.String("domain", config.DomainSoftware, "catalog domain: allocations, nsf, or software")
	id := fs.String("id", "", "exact identifier lookup")
	limit := fs.Int("limit", 10, "number of results")
	offset := fs.Int("offset", 0, "number of results to skip")
	sortBy := fs.String("sort", "", "sort key: relevance, date_desc, date_asc, amount_desc, amount_asc, name_asc")
	tags := fs.String("tags", "", "comma-separated tag filter (any match)")
	similar := fs.String("similar", "", "comma-separated keywords to score similarity against")
	threshold := fs.Float64("threshold", 0, "drop results scoring below this similarity (0..1)")
	outputFormat := fs.String("output", "text", "output format: text or json")
	fs.Usage = func() { printSearchUsage(fs) }
	_ = fs.Parse(searchArgs)

	queryStr := buildSearchQuery(fs.Args())
	if queryStr == "" && *id == "" && *tags == "" {
		printSearchUsage(fs)
		os.Exit(1)
	}

	format := cli.OutputText
	switch *outputFormat {
	case "json":
		format = cli.OutputJSON
	case "text":
	default:
		fmt.Printf("Unknown output format %q; use text or json\n", *outputFormat)
		os.Exit(1)
	}

	req := &models.SearchRequest{
		Query:        queryStr,
		ID:           *id,
		SimilarityTo: splitCSV(*similar),
		Threshold:    *threshold,
		SortBy:       *sortBy,
		Limit:        *limit,
		Offset:       *offset,
	}
	if tagList := splitCSV(*tags); len(tagList) > 0 {
		req.Filters.Tags = tagList
	}

	var (
		response *models.SearchResponse
		err      error
	)
	if *serverURL != "" {
		response, err = searchViaHTTP(*serverURL, *domain, req)
	} else {
		response, err = searchDirect(*configPath, *domain, req)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Search failed: %v\n", err)
		os.Exit(1)
	}
	if err := cli.WriteSearchResults(os.Stdout, response, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
	if response.Failed() {
		os.Exit(1)
	}
}

func searchViaHTTP(serverURL, domain string, req *models.SearchRequest) (*models.SearchResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	resp, err := http.Post(serverURL+"/api/v1/"+domain+"/search", "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
	}
	var response models.SearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &response, nil
}

// searchDirect runs the engine in-process, for use without a running server.
func searchDirect(configPath, domain string, req *models.SearchRequest) (*models.SearchResponse, error) {
	cfg, _, err := loadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		return nil, err
	}
	defer logger.Sync()

	for _, src := range buildSources(cfg, logger) {
		if src.Name() == domain {
			return newEngine(cfg, logger).Search(context.Background(), src, req), nil
		}
	}
	return nil, fmt.Errorf("unknown domain %q", domain)
}

func runDomains() {
	fs := flag.NewFlagSet("domains", flag.ExitOnError)
	serverURL := fs.String("server", "http://localhost:8080", "server URL")
	_ = fs.Parse(os.Args[2:])

	resp, err := http.Get(*serverURL + "/api/v1/domains")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Request failed: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		fmt.Fprintf(os.Stderr, "Server returned %d: %s\n", resp.StatusCode, string(b))
		os.Exit(1)
	}
	var body struct {
		Domains []string `json:"domains"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		fmt.Fprintf(os.Stderr, "Decode failed: %v\n", err)
		os.Exit(1)
	}
	for _, d := range body.Domains {
		fmt.Println(d)
	}
}
