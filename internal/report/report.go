// Package report builds the values shown on each screen. Builders are called
// explicitly after every mutation; nothing here caches or observes state.
package report

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/runnerr0/smokelog/internal/stats"
	"github.com/runnerr0/smokelog/internal/storage"
)

const (
	// TimeLayout formats event times for display.
	TimeLayout = "2006-01-02 15:04"

	// Placeholder stands in for values that cannot be computed yet.
	Placeholder = "—"

	rollupBarMax = 20
	hourBarMax   = 30
)

// Source is what the builders read from the event store.
type Source interface {
	stats.Source
	LastSmoke(ctx context.Context) (*storage.Event, error)
}

// Home is the quick summary shown after logging something.
type Home struct {
	TodayCount       int64
	LastSmokeAt      time.Time // zero when there is no smoke
	LastTime         string
	SinceLast        string
	AvgInterval      string
	ShortestInterval string
}

// BuildHome computes the home summary as of now.
func BuildHome(ctx context.Context, src Source, now time.Time) (Home, error) {
	h := Home{
		LastTime:         Placeholder,
		SinceLast:        Placeholder,
		AvgInterval:      Placeholder,
		ShortestInterval: Placeholder,
	}

	n, err := stats.CountToday(ctx, src, now)
	if err != nil {
		return Home{}, fmt.Errorf("count today: %w", err)
	}
	h.TodayCount = n

	last, err := src.LastSmoke(ctx)
	if err != nil {
		return Home{}, fmt.Errorf("last smoke: %w", err)
	}
	if last != nil {
		h.LastSmokeAt = last.Timestamp
		h.LastTime = last.Timestamp.In(now.Location()).Format(TimeLayout)
		h.SinceLast = stats.FormatDuration(now.Sub(last.Timestamp))
	}

	intervals, err := stats.IntervalsToday(ctx, src, now)
	if err != nil {
		return Home{}, fmt.Errorf("intervals today: %w", err)
	}
	if s, ok := stats.Summarize(intervals); ok {
		h.AvgInterval = stats.FormatDuration(s.Average)
		h.ShortestInterval = stats.FormatDuration(s.Shortest)
	}

	return h, nil
}

// RenderHome writes the home summary.
func RenderHome(w io.Writer, h Home) {
	fmt.Fprintf(w, "Today: %d\n", h.TodayCount)
	fmt.Fprintf(w, "Last: %s\n", h.LastTime)
	fmt.Fprintf(w, "Since last: %s\n", h.SinceLast)
	fmt.Fprintf(w, "Average today: %s\n", h.AvgInterval)
	fmt.Fprintf(w, "Shortest today: %s\n", h.ShortestInterval)
}

// RenderHistory writes one line per event, newest first as given.
func RenderHistory(w io.Writer, events []storage.Event, loc *time.Location) {
	if len(events) == 0 {
		fmt.Fprintln(w, "No events yet.")
		return
	}
	for _, e := range events {
		fmt.Fprintf(w, "%s  %s  %s\n", e.Timestamp.In(loc).Format(TimeLayout), tag(e.Kind), e.Kind)
	}
}

func tag(k storage.Kind) string {
	if k == storage.KindSmoke {
		return "🚬"
	}
	return "⚡"
}

// Stats is the content of the statistics screen.
type Stats struct {
	Days         []stats.DayCount
	Hours        stats.Histogram
	TodayCount   int64
	Intervals    stats.IntervalSummary
	HasIntervals bool
}

// BuildStats gathers everything the statistics screen shows as of now.
func BuildStats(ctx context.Context, src Source, now time.Time) (Stats, error) {
	var s Stats
	var err error

	if s.Days, err = stats.Rollup7Days(ctx, src, now); err != nil {
		return Stats{}, fmt.Errorf("rollup: %w", err)
	}
	if s.Hours, err = stats.HourHistogram14Days(ctx, src, now); err != nil {
		return Stats{}, fmt.Errorf("hour histogram: %w", err)
	}
	if s.TodayCount, err = stats.CountToday(ctx, src, now); err != nil {
		return Stats{}, fmt.Errorf("count today: %w", err)
	}

	intervals, err := stats.IntervalsToday(ctx, src, now)
	if err != nil {
		return Stats{}, fmt.Errorf("intervals today: %w", err)
	}
	s.Intervals, s.HasIntervals = stats.Summarize(intervals)

	return s, nil
}

// PeakHourLabel formats the busiest hour as "HH:00", or the placeholder.
func (s Stats) PeakHourLabel() string {
	hour, ok := stats.PeakHour(s.Hours)
	if !ok {
		return Placeholder
	}
	return fmt.Sprintf("%02d:00", hour)
}

// RenderStats writes the statistics screen.
func RenderStats(w io.Writer, s Stats) {
	fmt.Fprintln(w, "Last 7 days (smokes):")
	for _, d := range s.Days {
		line(w, "  %s: %2d %s", d.Label, d.Count, stats.Bar(d.Count, rollupBarMax))
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "By hour (last 14 days):")
	fmt.Fprintf(w, "  Peak hour: %s\n", s.PeakHourLabel())
	for i, n := range s.Hours.Pairs() {
		line(w, "  %02d-%02d: %2d %s", 2*i, 2*i+2, n, stats.Bar(n, hourBarMax))
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Today:")
	fmt.Fprintf(w, "  Total today: %d\n", s.TodayCount)
	if s.HasIntervals {
		fmt.Fprintf(w, "  Average interval: %s\n", stats.FormatDuration(s.Intervals.Average))
		fmt.Fprintf(w, "  Shortest interval: %s\n", stats.FormatDuration(s.Intervals.Shortest))
	} else {
		fmt.Fprintf(w, "  Intervals: %s\n", Placeholder)
	}
}

// line writes a formatted line without trailing blanks.
func line(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, strings.TrimRight(fmt.Sprintf(format, args...), " "))
}
