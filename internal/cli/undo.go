package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/runnerr0/smokelog/internal/report"
	"github.com/runnerr0/smokelog/internal/storage"
)

// Execute implements the go-flags Commander interface for UndoCommand.
//
// A one-shot process has no memory of what it logged before, so the log
// commands leave a mark in the store naming the event they created. Undo
// consumes that mark once and deletes the event only while it is younger
// than the configured window.
func (c *UndoCommand) Execute(args []string) error {
	return withEnv(c.globals, c.env, c.run)
}

func (c *UndoCommand) run(e *env) error {
	ctx := context.Background()
	now := e.now()

	ev, err := c.target(ctx, e, now)
	if err != nil {
		return fmt.Errorf("undo: %w", err)
	}

	if ev == nil {
		if c.globals != nil && c.globals.JSON {
			return writeJSON(e.out, map[string]interface{}{"undone": false})
		}
		fmt.Fprintf(e.out, "Nothing to undo (window is %ds).\n", e.cfg.Undo.Seconds)
		return nil
	}

	if err := e.store.Delete(ctx, ev.ID); err != nil {
		return fmt.Errorf("undo: %w", err)
	}
	e.logger.Info("event undone", "id", ev.ID, "kind", ev.Kind)

	if c.globals != nil && c.globals.JSON {
		return writeJSON(e.out, map[string]interface{}{
			"undone": true,
			"id":     ev.ID,
			"kind":   ev.Kind,
		})
	}

	fmt.Fprintf(e.out, "Undid %s #%d from %s\n", ev.Kind, ev.ID, ev.Timestamp.In(now.Location()).Format(report.TimeLayout))
	return nil
}

// target returns the marked event if it still exists and is inside the
// window, or nil. The mark is consumed either way.
func (c *UndoCommand) target(ctx context.Context, e *env, now time.Time) (*storage.Event, error) {
	id, ok, err := e.store.TakeUndo(ctx)
	if err != nil || !ok {
		return nil, err
	}

	ev, err := e.store.Get(ctx, id)
	if err != nil || ev == nil {
		return nil, err
	}
	if !undoable(ev.Timestamp, now, e.undoWindow()) {
		return nil, nil
	}
	return ev, nil
}
