package main

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/fwojciec/typcheck"
	"github.com/fwojciec/typcheck/check"
)

// Run executes the watch command. It polls the project root for
// modified Markdown files and feeds changes into a check session.
func (c *WatchCmd) Run(deps *Dependencies) error {
	cfg := deps.Config
	if cfg.Debounce == 0 {
		cfg.Debounce = typcheck.Duration(100 * time.Millisecond)
	}

	session, err := check.NewSession(deps.Checker, cfg, func(r check.Result) {
		if r.Err != nil {
			fmt.Fprintf(deps.Stderr, "check failed: %s\n", typcheck.ErrorMessage(r.Err))
			return
		}
		fmt.Fprintf(deps.Stdout, "-- %s: %d issue(s)\n", r.Doc, len(r.Diagnostics))
		newPrinter(deps.Stdout, deps.Root, c.Plain).print(r.Diagnostics)
	})
	if err != nil {
		return err
	}
	defer session.Close()

	session.Watch(deps.Path)
	session.CheckNow(deps.Path)

	ticker := time.NewTicker(c.Interval)
	defer ticker.Stop()

	seen := snapshotMarkdown(deps.Root)
	for {
		select {
		case <-deps.Ctx.Done():
			return nil
		case <-ticker.C:
			next := snapshotMarkdown(deps.Root)
			if !sameSnapshot(seen, next) {
				seen = next
				session.NotifyChange(deps.Path)
			}
		}
	}
}

// snapshotMarkdown records the modification time of every Markdown file
// under root. Walk errors leave files out; they show up as a change
// once readable again.
func snapshotMarkdown(root string) map[string]time.Time {
	snapshot := make(map[string]time.Time)
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() || filepath.Ext(path) != ".md" {
			return nil
		}
		if info, err := d.Info(); err == nil {
			snapshot[path] = info.ModTime()
		}
		return nil
	})
	return snapshot
}

func sameSnapshot(a, b map[string]time.Time) bool {
	if len(a) != len(b) {
		return false
	}
	for path, mod := range a {
		if other, ok := b[path]; !ok || !other.Equal(mod) {
			return false
		}
	}
	return true
}
