package cli

import (
	"context"
	"fmt"

	"github.com/runnerr0/smokelog/internal/report"
)

type eventJSON struct {
	ID   int64  `json:"id"`
	TS   int64  `json:"ts"`
	Kind string `json:"kind"`
}

// Execute implements the go-flags Commander interface for HistoryCommand.
func (c *HistoryCommand) Execute(args []string) error {
	return withEnv(c.globals, c.env, c.run)
}

func (c *HistoryCommand) run(e *env) error {
	limit := c.Limit
	if limit <= 0 {
		limit = e.cfg.History.Limit
	}

	events, err := e.store.Latest(context.Background(), limit)
	if err != nil {
		return fmt.Errorf("history: %w", err)
	}

	if c.globals != nil && c.globals.JSON {
		out := make([]eventJSON, len(events))
		for i, ev := range events {
			out[i] = eventJSON{ID: ev.ID, TS: ev.Timestamp.Unix(), Kind: string(ev.Kind)}
		}
		return writeJSON(e.out, out)
	}

	report.RenderHistory(e.out, events, e.now().Location())
	return nil
}
