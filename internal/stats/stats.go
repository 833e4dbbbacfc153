// Package stats turns raw event timestamps into the summaries shown to the
// user: day windows, inter-smoke intervals, 7-day rollups and hour-of-day
// histograms. The caller supplies the reference instant, so every function
// is deterministic for a given store state.
package stats

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/runnerr0/smokelog/internal/storage"
)

const (
	// RollupDays is the number of calendar days in a rollup.
	RollupDays = 7

	// HistogramWindow is how far back the hour-of-day histogram looks.
	HistogramWindow = 14 * 24 * time.Hour

	// DayLabelLayout formats rollup labels as month-day.
	DayLabelLayout = "01-02"
)

// Source is the subset of the event store the aggregations read from.
type Source interface {
	CountInRange(ctx context.Context, start, end time.Time, kind storage.Kind) (int64, error)
	TimestampsInRange(ctx context.Context, start, end time.Time, kind storage.Kind) ([]time.Time, error)
}

// DayCount is one row of a rollup.
type DayCount struct {
	Day   time.Time // local midnight
	Label string
	Count int64
}

// Histogram counts events per local hour of day.
type Histogram [24]int64

// IntervalSummary describes the gaps between consecutive smokes.
type IntervalSummary struct {
	Average  time.Duration
	Shortest time.Duration
}

// DayBounds returns the local calendar day containing ref as [start, end).
func DayBounds(ref time.Time) (time.Time, time.Time) {
	y, m, d := ref.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, ref.Location())
	return start, start.AddDate(0, 0, 1)
}

// CountToday counts smokes in the local day containing ref.
func CountToday(ctx context.Context, src Source, ref time.Time) (int64, error) {
	start, end := DayBounds(ref)
	return src.CountInRange(ctx, start, end, storage.KindSmoke)
}

// IntervalsToday returns the gaps between consecutive smokes in the local day
// containing ref. Fewer than two smokes yields an empty slice.
func IntervalsToday(ctx context.Context, src Source, ref time.Time) ([]time.Duration, error) {
	start, end := DayBounds(ref)
	ts, err := src.TimestampsInRange(ctx, start, end, storage.KindSmoke)
	if err != nil {
		return nil, err
	}
	return Intervals(ts), nil
}

// Intervals returns consecutive differences of ascending timestamps.
func Intervals(ts []time.Time) []time.Duration {
	if len(ts) < 2 {
		return []time.Duration{}
	}
	out := make([]time.Duration, 0, len(ts)-1)
	for i := 1; i < len(ts); i++ {
		out = append(out, ts[i].Sub(ts[i-1]))
	}
	return out
}

// Summarize computes the average (truncated to whole seconds) and shortest
// interval. ok is false when there are no intervals.
func Summarize(intervals []time.Duration) (summary IntervalSummary, ok bool) {
	if len(intervals) == 0 {
		return IntervalSummary{}, false
	}

	var total time.Duration
	shortest := intervals[0]
	for _, d := range intervals {
		total += d
		if d < shortest {
			shortest = d
		}
	}

	avg := total / time.Duration(len(intervals))
	return IntervalSummary{
		Average:  avg.Truncate(time.Second),
		Shortest: shortest,
	}, true
}

// Rollup7Days returns smoke counts for the seven local days ending on the day
// of ref, oldest first.
func Rollup7Days(ctx context.Context, src Source, ref time.Time) ([]DayCount, error) {
	today, _ := DayBounds(ref)

	out := make([]DayCount, 0, RollupDays)
	for i := RollupDays - 1; i >= 0; i-- {
		start, end := DayBounds(today.AddDate(0, 0, -i))
		n, err := src.CountInRange(ctx, start, end, storage.KindSmoke)
		if err != nil {
			return nil, fmt.Errorf("count %s: %w", start.Format(time.DateOnly), err)
		}
		out = append(out, DayCount{
			Day:   start,
			Label: start.Format(DayLabelLayout),
			Count: n,
		})
	}
	return out, nil
}

// HourHistogram14Days buckets smokes in [ref-14d, ref) by their hour of day
// in ref's location.
func HourHistogram14Days(ctx context.Context, src Source, ref time.Time) (Histogram, error) {
	var h Histogram

	ts, err := src.TimestampsInRange(ctx, ref.Add(-HistogramWindow), ref, storage.KindSmoke)
	if err != nil {
		return h, err
	}

	loc := ref.Location()
	for _, t := range ts {
		h[t.In(loc).Hour()]++
	}
	return h, nil
}

// PeakHour returns the busiest hour, preferring the earliest on ties.
// ok is false when the histogram is empty.
func PeakHour(h Histogram) (hour int, ok bool) {
	for i, n := range h {
		if n > h[hour] {
			hour = i
		}
	}
	return hour, h[hour] > 0
}

// Pairs folds the histogram into twelve two-hour buckets.
func (h Histogram) Pairs() [12]int64 {
	var out [12]int64
	for i := range out {
		out[i] = h[2*i] + h[2*i+1]
	}
	return out
}

// FormatDuration renders d as "M min" or "H h M min". Seconds are dropped and
// negative durations render as zero.
func FormatDuration(d time.Duration) string {
	secs := int64(d / time.Second)
	if secs < 0 {
		secs = 0
	}
	mins := secs / 60
	hrs := mins / 60
	mins %= 60
	if hrs <= 0 {
		return fmt.Sprintf("%d min", mins)
	}
	return fmt.Sprintf("%d h %d min", hrs, mins)
}

// Bar draws n blocks, capped at limit.
func Bar(n int64, limit int) string {
	if n <= 0 {
		return ""
	}
	if n > int64(limit) {
		n = int64(limit)
	}
	return strings.Repeat("▮", int(n))
}
