package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/runnerr0/smokelog/internal/report"
	"github.com/runnerr0/smokelog/internal/storage"
)

// Execute implements the go-flags Commander interface for LogCommand.
func (c *LogCommand) Execute(args []string) error {
	return withEnv(c.globals, c.env, c.run)
}

func (c *LogCommand) run(e *env) error {
	ctx := context.Background()

	id, err := e.store.Append(ctx, c.kind)
	if err != nil {
		return fmt.Errorf("log %s: %w", c.kind, err)
	}
	ev, err := e.store.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("log %s: %w", c.kind, err)
	}
	if ev == nil {
		return fmt.Errorf("log %s: event #%d vanished after insert", c.kind, id)
	}
	at := ev.Timestamp.In(e.now().Location())
	e.logger.Info("event appended", "id", id, "kind", c.kind)

	if err := e.store.MarkUndo(ctx, id); err != nil {
		return fmt.Errorf("log %s: %w", c.kind, err)
	}

	if c.globals != nil && c.globals.JSON {
		return writeJSON(e.out, map[string]interface{}{
			"id":           id,
			"kind":         c.kind,
			"ts":           at.Unix(),
			"undo_seconds": e.cfg.Undo.Seconds,
		})
	}

	fmt.Fprintf(e.out, "Logged %s #%d at %s\n", c.kind, id, at.Format(report.TimeLayout))
	fmt.Fprintf(e.out, "Run \"smokelog undo\" within %ds to take it back.\n", e.cfg.Undo.Seconds)

	if c.kind == storage.KindSmoke {
		home, err := report.BuildHome(ctx, e.store, at)
		if err != nil {
			return err
		}
		fmt.Fprintln(e.out)
		report.RenderHome(e.out, home)
	}
	return nil
}

// undoable reports whether an event created at ts can still be undone at now.
func undoable(ts, now time.Time, window time.Duration) bool {
	age := now.Sub(ts)
	return age >= 0 && age < window
}
