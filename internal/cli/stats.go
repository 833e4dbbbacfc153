package cli

import (
	"context"
	"fmt"

	"github.com/runnerr0/smokelog/internal/report"
	"github.com/runnerr0/smokelog/internal/stats"
)

type dayCountJSON struct {
	Day   string `json:"day"`
	Count int64  `json:"count"`
}

type statsJSON struct {
	Last7Days      []dayCountJSON `json:"last_7_days"`
	Hours          [24]int64      `json:"hours_14_days"`
	PeakHour       *int           `json:"peak_hour"`
	TodayCount     int64          `json:"today_count"`
	AvgIntervalSec *int64         `json:"avg_interval_seconds"`
	ShortestIntSec *int64         `json:"shortest_interval_seconds"`
}

// Execute implements the go-flags Commander interface for StatsCommand.
func (c *StatsCommand) Execute(args []string) error {
	return withEnv(c.globals, c.env, c.run)
}

func (c *StatsCommand) run(e *env) error {
	s, err := report.BuildStats(context.Background(), e.store, e.now())
	if err != nil {
		return fmt.Errorf("stats: %w", err)
	}

	if c.globals != nil && c.globals.JSON {
		return writeJSON(e.out, toStatsJSON(s))
	}

	report.RenderStats(e.out, s)
	return nil
}

func toStatsJSON(s report.Stats) statsJSON {
	out := statsJSON{
		Last7Days:  make([]dayCountJSON, len(s.Days)),
		Hours:      s.Hours,
		TodayCount: s.TodayCount,
	}
	for i, d := range s.Days {
		out.Last7Days[i] = dayCountJSON{Day: d.Day.Format("2006-01-02"), Count: d.Count}
	}
	if hour, ok := stats.PeakHour(s.Hours); ok {
		out.PeakHour = &hour
	}
	if s.HasIntervals {
		avg := int64(s.Intervals.Average.Seconds())
		shortest := int64(s.Intervals.Shortest.Seconds())
		out.AvgIntervalSec = &avg
		out.ShortestIntSec = &shortest
	}
	return out
}
