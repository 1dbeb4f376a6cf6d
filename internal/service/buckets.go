package service

import "time"

type SeriesKind string

const (
	SeriesDay   SeriesKind = "day"
	SeriesWeek  SeriesKind = "week"
	SeriesMonth SeriesKind = "month"
	SeriesYear  SeriesKind = "year"
)

var AllSeries = []SeriesKind{SeriesDay, SeriesWeek, SeriesMonth, SeriesYear}

type bucketSpec struct {
	count  int
	trunc  func(time.Time) time.Time
	shift  func(time.Time, int) time.Time
	format func(time.Time) string
}

var bucketSpecs = map[SeriesKind]bucketSpec{
	SeriesDay:   {count: 24, trunc: startOfHour, shift: shiftHours, format: hourLabel},
	SeriesWeek:  {count: 7, trunc: startOfDay, shift: shiftDays, format: dayLabel},
	SeriesMonth: {count: 30, trunc: startOfDay, shift: shiftDays, format: dayLabel},
	SeriesYear:  {count: 12, trunc: startOfMonth, shift: shiftMonths, format: monthLabel},
}

// startOfHour steps back to the top of the wall-clock hour without going
// through time.Date, which picks an arbitrary offset for repeated hours.
func startOfHour(t time.Time) time.Time {
	into := time.Duration(t.Minute())*time.Minute +
		time.Duration(t.Second())*time.Second +
		time.Duration(t.Nanosecond())
	return t.Add(-into)
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func startOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

func shiftHours(t time.Time, n int) time.Time { return startOfHour(t.Add(time.Duration(n) * time.Hour)) }
func shiftDays(t time.Time, n int) time.Time  { return time.Date(t.Year(), t.Month(), t.Day()+n, 0, 0, 0, 0, t.Location()) }
func shiftMonths(t time.Time, n int) time.Time {
	return time.Date(t.Year(), t.Month()+time.Month(n), 1, 0, 0, 0, 0, t.Location())
}

// hourLabel appends the UTC offset when the wall hour occurs twice, as on a
// daylight-saving fall-back day, so both hours keep their own bucket.
func hourLabel(t time.Time) string {
	const layout = "2006-01-02 15"
	wall := t.Format(layout)
	label := wall + ":00:00"
	if t.Add(-time.Hour).Format(layout) == wall || t.Add(time.Hour).Format(layout) == wall {
		label += t.Format("-07:00")
	}
	return label
}

func dayLabel(t time.Time) string   { return t.Format("2006-01-02") }
func monthLabel(t time.Time) string { return t.Format("2006-01") }

// SeriesStart is the first instant covered by the series ending at now.
func SeriesStart(kind SeriesKind, now time.Time) time.Time {
	spec := bucketSpecs[kind]
	return spec.shift(spec.trunc(now), -(spec.count - 1))
}

// BuildLabels lists every bucket label of the series ending at now, oldest
// first. The last label always contains now.
func BuildLabels(kind SeriesKind, now time.Time) []string {
	spec := bucketSpecs[kind]
	first := SeriesStart(kind, now)

	labels := make([]string, spec.count)
	for i := range labels {
		labels[i] = spec.format(spec.shift(first, i))
	}
	return labels
}

// BucketLabel names the bucket of kind that contains t.
func BucketLabel(kind SeriesKind, t time.Time) string {
	spec := bucketSpecs[kind]
	return spec.format(spec.trunc(t))
}
