package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/runnerr0/smokelog/internal/report"
	"github.com/runnerr0/smokelog/internal/storage"
)

// statusJSON is the JSON output structure for the status command.
type statusJSON struct {
	Version          string `json:"version"`
	TodayCount       int64  `json:"today_count"`
	LastSmoke        string `json:"last_smoke,omitempty"`
	SinceLast        string `json:"since_last"`
	AvgInterval      string `json:"avg_interval"`
	ShortestInterval string `json:"shortest_interval"`
	TotalSmokes      int64  `json:"total_smokes"`
	TotalCravings    int64  `json:"total_cravings"`
	OldestEvent      string `json:"oldest_event,omitempty"`
	NewestEvent      string `json:"newest_event,omitempty"`
}

// Execute implements the go-flags Commander interface for StatusCommand.
func (c *StatusCommand) Execute(args []string) error {
	return withEnv(c.globals, c.env, c.run)
}

func (c *StatusCommand) run(e *env) error {
	ctx := context.Background()
	now := e.now()

	home, err := report.BuildHome(ctx, e.store, now)
	if err != nil {
		return fmt.Errorf("status: %w", err)
	}

	totals, err := e.store.GetStats(ctx)
	if err != nil {
		return fmt.Errorf("status: %w", err)
	}

	if c.globals != nil && c.globals.JSON {
		return c.printStatusJSON(e, home, totals)
	}
	return c.printStatusHuman(e, home, totals)
}

func (c *StatusCommand) printStatusHuman(e *env, home report.Home, totals *storage.Stats) error {
	report.RenderHome(e.out, home)

	fmt.Fprintln(e.out)
	fmt.Fprintf(e.out, "All time:      %s smokes, %s cravings\n",
		formatNumber(totals.TotalSmokes), formatNumber(totals.TotalCravings))
	if !totals.OldestEvent.IsZero() {
		loc := e.now().Location()
		fmt.Fprintf(e.out, "Logging since: %s\n", totals.OldestEvent.In(loc).Format("2006-01-02"))
	}
	return nil
}

func (c *StatusCommand) printStatusJSON(e *env, home report.Home, totals *storage.Stats) error {
	out := statusJSON{
		Version:          c.version,
		TodayCount:       home.TodayCount,
		SinceLast:        home.SinceLast,
		AvgInterval:      home.AvgInterval,
		ShortestInterval: home.ShortestInterval,
		TotalSmokes:      totals.TotalSmokes,
		TotalCravings:    totals.TotalCravings,
	}

	if !home.LastSmokeAt.IsZero() {
		out.LastSmoke = home.LastSmokeAt.UTC().Format(time.RFC3339)
	}
	if !totals.OldestEvent.IsZero() {
		out.OldestEvent = totals.OldestEvent.UTC().Format(time.RFC3339)
		out.NewestEvent = totals.NewestEvent.UTC().Format(time.RFC3339)
	}

	return writeJSON(e.out, out)
}

// formatNumber formats an int64 with comma separators.
func formatNumber(n int64) string {
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}

	var result []byte
	remainder := len(s) % 3
	if remainder > 0 {
		result = append(result, s[:remainder]...)
	}
	for i := remainder; i < len(s); i += 3 {
		if len(result) > 0 {
			result = append(result, ',')
		}
		result = append(result, s[i:i+3]...)
	}
	return string(result)
}
