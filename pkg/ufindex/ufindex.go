// Package ufindex averages the daily currency index (UF) into the monthly
// values used to price rent contracts.
package ufindex

import (
	"fmt"
	"sort"
	"time"

	"github.com/iwvelando/store-eerr/internal/model"
	"github.com/iwvelando/store-eerr/pkg/constants"
	"github.com/iwvelando/store-eerr/pkg/datetime"
)

// Window sets the averaging span of a month: StartDay of the previous month
// through EndDay of the month itself, both inclusive.
type Window struct {
	StartDay int
	EndDay   int
}

// DefaultWindow returns the mid-month to mid-month window.
func DefaultWindow() Window {
	return Window{StartDay: constants.DefaultWindowStartDay, EndDay: constants.DefaultWindowEndDay}
}

// OrDefault fills each unset day with its default.
func (w Window) OrDefault() Window {
	if w.StartDay == 0 {
		w.StartDay = constants.DefaultWindowStartDay
	}
	if w.EndDay == 0 {
		w.EndDay = constants.DefaultWindowEndDay
	}
	return w
}

// Bounds returns the first and last day averaged for month m.
func (w Window) Bounds(m time.Time) (time.Time, time.Time) {
	return datetime.MonthWindow(m, w.StartDay, w.EndDay)
}

// Averages maps a month start to its averaged index value.
type Averages map[time.Time]float64

// Months returns the averaged months in ascending order.
func (a Averages) Months() []time.Time {
	months := make([]time.Time, 0, len(a))
	for m := range a {
		months = append(months, m)
	}
	sort.Slice(months, func(i, j int) bool { return months[i].Before(months[j]) })
	return months
}

// Latest returns the average of the most recent month.
func (a Averages) Latest() (float64, bool) {
	months := a.Months()
	if len(months) == 0 {
		return 0, false
	}
	return a[months[len(months)-1]], true
}

// For returns the average of the month containing t.
func (a Averages) For(t time.Time) (float64, bool) {
	v, ok := a[datetime.MonthStart(t)]
	return v, ok
}

// Latest returns the chronologically last value of the raw daily series.
func Latest(series []model.IndexPoint) (float64, error) {
	if len(series) == 0 {
		return 0, model.ErrEmptySeries
	}
	last := series[0]
	for _, p := range series[1:] {
		if !p.Date.Before(last.Date) {
			last = p
		}
	}
	return last.Value, nil
}

// MonthlyAverage returns one average per distinct requested month. The
// series is first extended over the union of all windows, with missing
// dates linearly interpolated and the edges carried forward and backward.
func MonthlyAverage(series []model.IndexPoint, months []time.Time, w Window) (Averages, error) {
	result := make(Averages)
	if len(months) == 0 {
		return result, nil
	}

	distinct := distinctMonths(months)
	start, _ := w.Bounds(distinct[0])
	_, end := w.Bounds(distinct[len(distinct)-1])

	daily := Daily(series, start, end)
	values := make(map[time.Time]float64, len(daily))
	for _, p := range daily {
		values[p.Date] = p.Value
	}

	for _, m := range distinct {
		from, to := w.Bounds(m)
		sum, n := 0.0, 0
		for _, day := range datetime.DaysBetween(from, to) {
			if v, ok := values[day]; ok {
				sum += v
				n++
			}
		}
		if n == 0 {
			return nil, &model.MissingCurrencyDataError{Month: m}
		}
		result[m] = sum / float64(n)
	}
	return result, nil
}

// Daily returns a gap-free daily series covering both the observed dates
// and [start, end]. Interior gaps are interpolated linearly; dates before
// the first or after the last observation take the nearest known value.
// An empty input yields an empty series.
func Daily(series []model.IndexPoint, start, end time.Time) []model.IndexPoint {
	known := normalize(series)
	if len(known) == 0 {
		return nil
	}

	from := datetime.DayStart(start)
	if first := known[0].Date; first.Before(from) {
		from = first
	}
	to := datetime.DayStart(end)
	if last := known[len(known)-1].Date; last.After(to) {
		to = last
	}

	days := datetime.DaysBetween(from, to)
	out := make([]model.IndexPoint, 0, len(days))
	next := 0
	for _, day := range days {
		for next < len(known) && known[next].Date.Before(day) {
			next++
		}
		switch {
		case next < len(known) && known[next].Date.Equal(day):
			out = append(out, known[next])
		case next == 0:
			out = append(out, model.IndexPoint{Date: day, Value: known[0].Value})
		case next == len(known):
			out = append(out, model.IndexPoint{Date: day, Value: known[len(known)-1].Value})
		default:
			out = append(out, model.IndexPoint{Date: day, Value: interpolate(known[next-1], known[next], day)})
		}
	}
	return out
}

func interpolate(a, b model.IndexPoint, day time.Time) float64 {
	span := b.Date.Sub(a.Date).Hours()
	if span <= 0 {
		return a.Value
	}
	frac := day.Sub(a.Date).Hours() / span
	return a.Value + (b.Value-a.Value)*frac
}

// normalize truncates dates to calendar days, sorts them and keeps the last
// quote seen for a repeated day.
func normalize(series []model.IndexPoint) []model.IndexPoint {
	byDay := make(map[time.Time]float64, len(series))
	for _, p := range series {
		byDay[datetime.DayStart(p.Date)] = p.Value
	}
	out := make([]model.IndexPoint, 0, len(byDay))
	for day, v := range byDay {
		out = append(out, model.IndexPoint{Date: day, Value: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

func distinctMonths(months []time.Time) []time.Time {
	seen := make(map[time.Time]struct{}, len(months))
	out := make([]time.Time, 0, len(months))
	for _, m := range months {
		start := datetime.MonthStart(m)
		if _, ok := seen[start]; ok {
			continue
		}
		seen[start] = struct{}{}
		out = append(out, start)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

// Describe formats an averages table for log fields.
func Describe(a Averages) []string {
	lines := make([]string, 0, len(a))
	for _, m := range a.Months() {
		lines = append(lines, fmt.Sprintf("%s=%.2f", m.Format(constants.DateTimeLayout), a[m]))
	}
	return lines
}
