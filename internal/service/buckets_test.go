package service

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildLabels(t *testing.T) {
	now := time.Date(2024, 3, 1, 0, 15, 0, 0, time.UTC)

	day := BuildLabels(SeriesDay, now)
	require.Len(t, day, 24)
	assert.Equal(t, "2024-02-29 01:00:00", day[0])
	assert.Equal(t, "2024-03-01 00:00:00", day[23])

	week := BuildLabels(SeriesWeek, now)
	require.Len(t, week, 7)
	assert.Equal(t, "2024-02-24", week[0])
	assert.Equal(t, "2024-03-01", week[6])

	month := BuildLabels(SeriesMonth, now)
	require.Len(t, month, 30)
	assert.Equal(t, "2024-02-01", month[0])
	assert.Equal(t, "2024-03-01", month[29])

	year := BuildLabels(SeriesYear, now)
	require.Len(t, year, 12)
	assert.Equal(t, "2023-04", year[0])
	assert.Equal(t, "2024-03", year[11])
}

func TestBuildLabels_Unique(t *testing.T) {
	now := time.Date(2024, 1, 31, 23, 59, 0, 0, time.UTC)
	for _, kind := range AllSeries {
		seen := map[string]bool{}
		for _, l := range BuildLabels(kind, now) {
			assert.Falsef(t, seen[l], "%s: duplicate label %s", kind, l)
			seen[l] = true
		}
		assert.Truef(t, seen[BucketLabel(kind, now)], "%s: now outside series", kind)
	}
}

func TestSeriesStart(t *testing.T) {
	now := time.Date(2024, 5, 20, 12, 30, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 5, 19, 13, 0, 0, 0, time.UTC), SeriesStart(SeriesDay, now))
	assert.Equal(t, time.Date(2024, 5, 14, 0, 0, 0, 0, time.UTC), SeriesStart(SeriesWeek, now))
	assert.Equal(t, time.Date(2024, 4, 21, 0, 0, 0, 0, time.UTC), SeriesStart(SeriesMonth, now))
	assert.Equal(t, time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC), SeriesStart(SeriesYear, now))
}

func TestBucketLabel_Location(t *testing.T) {
	shanghai := time.FixedZone("CST", 8*3600)
	at := time.Date(2024, 5, 19, 20, 0, 0, 0, time.UTC).In(shanghai)
	assert.Equal(t, "2024-05-20 04:00:00", BucketLabel(SeriesDay, at))
	assert.Equal(t, "2024-05-20", BucketLabel(SeriesWeek, at))
}

func TestBuildLabels_FallBack(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	now := time.Date(2026, 11, 1, 12, 30, 0, 0, ny)

	day := BuildLabels(SeriesDay, now)
	require.Len(t, day, 24)
	seen := map[string]bool{}
	for _, l := range day {
		assert.Falsef(t, seen[l], "duplicate label %s", l)
		seen[l] = true
	}
	assert.True(t, seen["2026-11-01 01:00:00-04:00"])
	assert.True(t, seen["2026-11-01 01:00:00-05:00"])
	assert.True(t, seen["2026-11-01 12:00:00"])
	assert.Equal(t, "2026-10-31 14:00:00", day[0])

	edt := time.Date(2026, 11, 1, 5, 30, 0, 0, time.UTC).In(ny)
	est := time.Date(2026, 11, 1, 6, 30, 0, 0, time.UTC).In(ny)
	assert.Equal(t, "2026-11-01 01:00:00-04:00", BucketLabel(SeriesDay, edt))
	assert.Equal(t, "2026-11-01 01:00:00-05:00", BucketLabel(SeriesDay, est))
}

func TestBuildLabels_SpringForward(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	now := time.Date(2026, 3, 8, 12, 30, 0, 0, ny)

	day := BuildLabels(SeriesDay, now)
	require.Len(t, day, 24)
	assert.NotContains(t, day, "2026-03-08 02:00:00")
	assert.Contains(t, day, "2026-03-08 03:00:00")
	assert.Equal(t, "2026-03-08 12:00:00", day[23])
}
