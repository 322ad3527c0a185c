package main

import (
	"errors"
	"fmt"

	"github.com/fwojciec/typcheck"
)

// errIssuesFound signals a clean run that reported diagnostics, so main
// can exit non-zero without printing anything further.
var errIssuesFound = errors.New("issues found")

// Run executes the check command.
func (c *CheckCmd) Run(deps *Dependencies) error {
	target := deps.Path
	if deps.Config.Main != "" {
		target = deps.Config.Main
	}

	diagnostics, err := deps.Checker.Check(deps.Ctx, target, deps.Config)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", typcheck.ErrorMessage(err))
		return err
	}

	newPrinter(deps.Stdout, deps.Root, c.Plain).print(diagnostics)

	if len(diagnostics) == 0 {
		if !c.Plain {
			fmt.Fprintln(deps.Stdout, "No issues found.")
		}
		return nil
	}
	if !c.Plain {
		fmt.Fprintf(deps.Stdout, "%d issue(s) found.\n", len(diagnostics))
	}
	return errIssuesFound
}
