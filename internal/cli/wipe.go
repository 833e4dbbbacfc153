package cli

import (
	"bufio"
	"context"
	"fmt"
)

const wipeConfirmWord = "WIPE"

// Execute implements the go-flags Commander interface for WipeCommand.
func (c *WipeCommand) Execute(args []string) error {
	if !c.All {
		return fmt.Errorf("wipe requires --all flag for safety")
	}
	return withEnv(c.globals, c.env, c.run)
}

func (c *WipeCommand) run(e *env) error {
	// Confirmation prompt unless --force
	if !c.Force {
		fmt.Fprintln(e.out, "⚠ WARNING: This will permanently delete ALL logged smokes and cravings.")
		fmt.Fprintln(e.out, "This action cannot be undone.")
		fmt.Fprintln(e.out)
		if err := confirm(bufio.NewScanner(e.in), e.out, wipeConfirmWord); err != nil {
			return err
		}
	}

	if err := e.store.WipeAll(context.Background()); err != nil {
		return fmt.Errorf("wipe failed: %w", err)
	}
	e.logger.Warn("all events wiped")

	if c.globals != nil && c.globals.JSON {
		return writeJSON(e.out, map[string]interface{}{
			"wiped":   true,
			"message": "all events deleted",
		})
	}

	fmt.Fprintln(e.out, "Wiped all events. The log is empty.")
	return nil
}
