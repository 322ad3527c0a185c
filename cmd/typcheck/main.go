package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/alecthomas/kong"
	"github.com/fwojciec/typcheck"
	"github.com/fwojciec/typcheck/check"
	"github.com/fwojciec/typcheck/exec"
	"github.com/fwojciec/typcheck/fs"
	"github.com/fwojciec/typcheck/fuzzy"
	"github.com/fwojciec/typcheck/goldmark"
	"github.com/fwojciec/typcheck/languagetool"
	typslog "github.com/fwojciec/typcheck/slog"
	"github.com/fwojciec/typcheck/sqlite"
)

// chunkTimeout bounds each backend request; an overrun chunk degrades
// to a marker diagnostic instead of failing the whole check.
const chunkTimeout = 30 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, errIssuesFound) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// SQLite database backing the check cache, when enabled.
	DB *sqlite.DB
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("typcheck"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'typcheck --help' to see available commands")
	}
	if cmd := args[0]; cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(cli)
	if err != nil {
		return err
	}

	target := cli.Check.Path
	if strings.HasPrefix(kongCtx.Command(), "watch") {
		target = cli.Watch.Path
	}
	root, rel, err := resolveRoot(cfg.Root, target)
	if err != nil {
		return err
	}

	backend, err := m.buildBackend(cli, stderr)
	if err != nil {
		return err
	}
	defer m.Close()
	defer backend.Shutdown(context.Background())

	if err := backend.Configure(ctx, cfg.BackendConfig()); err != nil {
		return fmt.Errorf("failed to configure backend: %w", err)
	}

	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
		Loader: fs.NewLoader(root),
		Config: cfg,
		Root:   root,
		Path:   rel,
	}
	deps.Checker = &check.Checker{
		Loader:    deps.Loader,
		Extractor: goldmark.NewExtractor(),
		Backend:   backend,
		Timeout:   chunkTimeout,
	}

	return kongCtx.Run(deps)
}

// loadConfig merges defaults, the options file, and flag overrides.
func loadConfig(cli *CLI) (typcheck.Config, error) {
	cfg := typcheck.DefaultConfig()
	if cli.Options != "" {
		if _, err := toml.DecodeFile(cli.Options, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to read options file %q: %w", cli.Options, err)
		}
	}
	if cli.Language != "" {
		cfg.Language = cli.Language
	}
	if cli.Dictionary != "" {
		words, err := readWordList(cli.Dictionary)
		if err != nil {
			return cfg, err
		}
		cfg.Dictionary = append(cfg.Dictionary, words...)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// buildBackend selects and wires the backend from the CLI flags.
func (m *Main) buildBackend(cli *CLI, stderr io.Writer) (typcheck.Backend, error) {
	selected := 0
	for _, on := range []bool{cli.Bundled, cli.Jar != "", cli.Host != ""} {
		if on {
			selected++
		}
	}
	if selected != 1 {
		return nil, typcheck.Errorf(typcheck.EINVALID, "select exactly one backend: --bundled, --jar, or --host")
	}

	var backend typcheck.Backend
	switch {
	case cli.Bundled:
		backend = fuzzy.NewBackend(nil)
	case cli.Jar != "":
		backend = exec.NewServer(cli.Jar)
	default:
		host := cli.Host
		if !strings.Contains(host, "://") {
			host = "http://" + host
		}
		backend = languagetool.NewClient(fmt.Sprintf("%s:%d", host, cli.Port))
	}

	if cli.Verbose {
		logger := slog.New(slog.NewTextHandler(stderr, nil))
		backend = typslog.NewLoggingBackend(backend, logger)
	}

	if cli.CacheDB != "" {
		m.DB = sqlite.NewDB(cli.CacheDB)
		if err := m.DB.Open(); err != nil {
			return nil, fmt.Errorf("failed to open cache database at %q: %w", cli.CacheDB, err)
		}
		backend = typcheck.NewCachingBackend(backend, sqlite.NewCacheService(m.DB))
	}

	return backend, nil
}

// resolveRoot picks the project root and the target path relative to it.
func resolveRoot(configured, target string) (root, rel string, err error) {
	abs, err := filepath.Abs(target)
	if err != nil {
		return "", "", err
	}
	root = configured
	if root == "" {
		root = filepath.Dir(abs)
	}
	if root, err = filepath.Abs(root); err != nil {
		return "", "", err
	}
	rel, err = filepath.Rel(root, abs)
	if err != nil {
		return "", "", err
	}
	return root, rel, nil
}

// readWordList reads one word per line, skipping blanks and # comments.
func readWordList(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dictionary %q: %w", path, err)
	}
	defer f.Close()

	var words []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		word := strings.TrimSpace(scanner.Text())
		if word == "" || strings.HasPrefix(word, "#") {
			continue
		}
		words = append(words, word)
	}
	return words, scanner.Err()
}
