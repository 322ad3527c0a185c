package main

import (
	"context"
	"io"
	"time"

	"github.com/fwojciec/typcheck"
	"github.com/fwojciec/typcheck/check"
	"github.com/fwojciec/typcheck/fs"
)

// Dependencies holds the wired services for command execution.
type Dependencies struct {
	Ctx     context.Context
	Stdout  io.Writer
	Stderr  io.Writer
	Loader  *fs.Loader
	Checker *check.Checker
	Config  typcheck.Config

	// Root is the resolved project root; document paths in output are
	// relative to it.
	Root string

	// Path is the checked document, relative to Root.
	Path string
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Options    string `short:"o" help:"TOML options file"`
	Language   string `short:"l" help:"Language tag override, e.g. en-US"`
	Dictionary string `help:"File with one additional allowed word per line"`
	CacheDB    string `name:"cache-db" help:"SQLite file caching check results across runs"`
	Verbose    bool   `short:"v" help:"Log backend requests to stderr"`

	// Exactly one backend must be selected.
	Bundled bool   `help:"Use the built-in offline spellchecker"`
	Jar     string `help:"Start a local LanguageTool server from this jar" type:"existingfile"`
	Host    string `help:"Remote LanguageTool server, e.g. http://127.0.0.1"`
	Port    int    `default:"8081" help:"Remote LanguageTool server port"`

	Check CheckCmd `cmd:"" help:"Check a document once and print diagnostics"`
	Watch WatchCmd `cmd:"" help:"Watch a document and recheck on change"`
}

// CheckCmd is the "check" subcommand.
type CheckCmd struct {
	Path  string `arg:"" help:"Document to check" type:"existingfile"`
	Plain bool   `help:"One machine-readable line per diagnostic"`
}

// WatchCmd is the "watch" subcommand.
type WatchCmd struct {
	Path     string        `arg:"" help:"Document to watch" type:"existingfile"`
	Plain    bool          `help:"One machine-readable line per diagnostic"`
	Interval time.Duration `default:"500ms" help:"Poll interval for file changes"`
}
