package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Skotchmaster/kamishop/internal/repo"
)

func newYorkDashboard(t *testing.T, r *repo.GormRepo, now time.Time) *DashboardService {
	t.Helper()
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	return &DashboardService{Repo: r, Location: ny, Now: func() time.Time { return now }}
}

var dashNow = time.Date(2024, 5, 20, 12, 30, 0, 0, time.UTC)

func newDashboard(r *repo.GormRepo) *DashboardService {
	return &DashboardService{Repo: r, Location: time.UTC, Now: func() time.Time { return dashNow }}
}

func sumSeries(m map[string]float64) float64 {
	var s float64
	for _, v := range m {
		s += v
	}
	return s
}

func TestDashboard_Empty(t *testing.T) {
	snap, err := newDashboard(newRepo(t)).Compute(context.Background())
	require.NoError(t, err)

	assert.Zero(t, snap.TotalOrders)
	assert.Zero(t, snap.TotalRevenue)
	assert.NotNil(t, snap.Top5Products)
	assert.Empty(t, snap.Top5Products)

	st := snap.OrderStatistics
	assert.Len(t, st.Day, 24)
	assert.Len(t, st.Week, 7)
	assert.Len(t, st.Month, 30)
	assert.Len(t, st.Year, 12)
	for _, series := range []map[string]float64{st.Day, st.Week, st.Month, st.Year} {
		for label, v := range series {
			assert.Zerof(t, v, "bucket %s", label)
		}
	}
}

func TestDashboard_PaidAndPending(t *testing.T) {
	r := newRepo(t)
	addOrder(t, r, "A", ptr("10"), true, dashNow.Add(-10*time.Minute))
	addOrder(t, r, "A", ptr("5"), false, dashNow.Add(-20*time.Minute))

	snap, err := newDashboard(r).Compute(context.Background())
	require.NoError(t, err)

	assert.EqualValues(t, 1, snap.TotalOrders)
	assert.Equal(t, 15.0, snap.TotalRevenue)
	assert.EqualValues(t, 1, snap.TodayOrders)
	assert.Equal(t, 10.0, snap.TodayRevenue)
	assert.EqualValues(t, 1, snap.MonthOrders)
	assert.Equal(t, 10.0, snap.MonthRevenue)

	st := snap.OrderStatistics
	assert.Equal(t, 15.0, st.Day["2024-05-20 12:00:00"])
	assert.Equal(t, 15.0, st.DayMoney)
	assert.Equal(t, 15.0, st.Week["2024-05-20"])
	assert.Equal(t, 15.0, st.Month["2024-05-20"])
	assert.Equal(t, 15.0, st.Year["2024-05"])
	assert.Equal(t, 15.0, st.YearMoney)

	require.Len(t, snap.Top5Products, 1)
	assert.Equal(t, repo.ProductCount{Name: "A", Count: 1}, snap.Top5Products[0])
}

func TestDashboard_CalendarWindows(t *testing.T) {
	r := newRepo(t)
	today := time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC)

	addOrder(t, r, "A", ptr("1"), true, today)
	addOrder(t, r, "A", ptr("2"), true, dashNow)
	addOrder(t, r, "A", nil, true, dashNow.Add(-time.Minute))
	addOrder(t, r, "A", ptr("3"), true, today.Add(-time.Second))
	addOrder(t, r, "A", ptr("4"), true, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC))
	addOrder(t, r, "A", ptr("7"), true, time.Date(2024, 4, 15, 9, 0, 0, 0, time.UTC))
	addOrder(t, r, "A", ptr("8"), true, time.Date(2024, 3, 31, 23, 59, 59, 0, time.UTC))

	snap, err := newDashboard(r).Compute(context.Background())
	require.NoError(t, err)

	assert.EqualValues(t, 3, snap.TodayOrders)
	assert.Equal(t, 3.0, snap.TodayRevenue)
	assert.EqualValues(t, 1, snap.YesterdayOrders)
	assert.Equal(t, 3.0, snap.YesterdayRevenue)
	assert.EqualValues(t, 5, snap.MonthOrders)
	assert.Equal(t, 10.0, snap.MonthRevenue)
	assert.EqualValues(t, 1, snap.LastMonthOrders)
	assert.Equal(t, 7.0, snap.LastMonthRevenue)
	assert.EqualValues(t, 7, snap.TotalOrders)
	assert.Equal(t, 25.0, snap.TotalRevenue)

	st := snap.OrderStatistics
	assert.Equal(t, 1.0, st.Day["2024-05-20 00:00:00"])
	assert.Equal(t, 3.0, st.Day["2024-05-19 23:00:00"])
	assert.Equal(t, 3.0, st.Week["2024-05-19"])
	assert.Equal(t, 8.0, st.Year["2024-03"])
	assert.Equal(t, 7.0, st.Year["2024-04"])
}

func TestDashboard_SeriesTotalsMatchBuckets(t *testing.T) {
	r := newRepo(t)
	for i, amount := range []string{"0.10", "0.20", "1.005", "3.33", "12.5"} {
		addOrder(t, r, "A", ptr(amount), i%2 == 0, dashNow.Add(-time.Duration(i*5)*time.Hour))
	}

	snap, err := newDashboard(r).Compute(context.Background())
	require.NoError(t, err)

	st := snap.OrderStatistics
	assert.InDelta(t, st.DayMoney, sumSeries(st.Day), 0.001)
	assert.InDelta(t, st.WeekMoney, sumSeries(st.Week), 0.001)
	assert.InDelta(t, st.MonthMoney, sumSeries(st.Month), 0.001)
	assert.InDelta(t, st.YearMoney, sumSeries(st.Year), 0.001)
}

func TestDashboard_TopProducts(t *testing.T) {
	r := newRepo(t)
	counts := []struct {
		name string
		n    int
	}{{"p1", 5}, {"p2", 4}, {"p3", 3}, {"p4", 2}, {"pb", 1}, {"pa", 1}}
	for _, c := range counts {
		for i := 0; i < c.n; i++ {
			addOrder(t, r, c.name, ptr("1"), true, dashNow.Add(-time.Hour))
		}
	}
	addOrder(t, r, "pz", ptr("1"), false, dashNow.Add(-time.Hour))

	snap, err := newDashboard(r).Compute(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []repo.ProductCount{
		{Name: "p1", Count: 5},
		{Name: "p2", Count: 4},
		{Name: "p3", Count: 3},
		{Name: "p4", Count: 2},
		{Name: "pa", Count: 1},
	}, snap.Top5Products)
}

func TestDashboard_FallBackDayKeepsBothHours(t *testing.T) {
	r := newRepo(t)
	addOrder(t, r, "p1", ptr("2.00"), true, time.Date(2026, 11, 1, 5, 30, 0, 0, time.UTC))
	addOrder(t, r, "p1", ptr("3.00"), true, time.Date(2026, 11, 1, 6, 30, 0, 0, time.UTC))

	now := time.Date(2026, 11, 1, 17, 30, 0, 0, time.UTC)
	snap, err := newYorkDashboard(t, r, now).Compute(context.Background())
	require.NoError(t, err)

	day := snap.OrderStatistics.Day
	assert.Len(t, day, 24)
	assert.Equal(t, 2.0, day["2026-11-01 01:00:00-04:00"])
	assert.Equal(t, 3.0, day["2026-11-01 01:00:00-05:00"])
	assert.Equal(t, 5.0, snap.OrderStatistics.DayMoney)
}

func TestDashboard_QueryErrorRollsBack(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT count\(\*\) FROM "orders"`).WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	snap, err := newDashboard(&repo.GormRepo{DB: gdb}).Compute(context.Background())
	require.Error(t, err)
	assert.Nil(t, snap)
	assert.Contains(t, err.Error(), "compute dashboard")
	assert.NoError(t, mock.ExpectationsWereMet())
}

type memCache struct {
	data   map[string][]byte
	getErr error
	setErr error
	sets   int
}

func (m *memCache) Get(_ context.Context, key string, dst any) (bool, error) {
	if m.getErr != nil {
		return false, m.getErr
	}
	raw, ok := m.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dst)
}

func (m *memCache) Set(_ context.Context, key string, v any) error {
	m.sets++
	if m.setErr != nil {
		return m.setErr
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	m.data[key] = raw
	return nil
}

func TestDashboard_SnapshotCached(t *testing.T) {
	r := newRepo(t)
	addOrder(t, r, "p1", ptr("9.90"), true, dashNow.Add(-time.Hour))

	cache := &memCache{data: map[string][]byte{}}
	svc := newDashboard(r)
	svc.Cache = cache

	first, err := svc.Snapshot(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 1, first.TotalOrders)
	assert.Equal(t, 1, cache.sets)

	// a hit must not touch the database
	svc.Repo = nil
	second, err := svc.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first.TotalOrders, second.TotalOrders)
	assert.Equal(t, first.OrderStatistics.DayMoney, second.OrderStatistics.DayMoney)
	assert.Equal(t, 1, cache.sets)
}

func TestDashboard_SnapshotCacheFailuresAreMisses(t *testing.T) {
	cache := &memCache{data: map[string][]byte{}, getErr: errors.New("redis down"), setErr: errors.New("redis down")}
	svc := newDashboard(newRepo(t))
	svc.Cache = cache

	snap, err := svc.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Zero(t, snap.TotalOrders)
	assert.Equal(t, 1, cache.sets)
}
