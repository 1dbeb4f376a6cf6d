package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/kamishop/internal/logging"
	"github.com/Skotchmaster/kamishop/internal/metrics"
	"github.com/Skotchmaster/kamishop/internal/repo"
)

const (
	topProductsLimit = 5
	dashboardKey     = "dashboard"
)

// SnapshotCache holds recently computed dashboards.
type SnapshotCache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any) error
}

type OrderStatistics struct {
	Day        map[string]float64 `json:"day"`
	DayMoney   float64            `json:"day_money"`
	Week       map[string]float64 `json:"week"`
	WeekMoney  float64            `json:"week_money"`
	Month      map[string]float64 `json:"month"`
	MonthMoney float64            `json:"month_money"`
	Year       map[string]float64 `json:"year"`
	YearMoney  float64            `json:"year_money"`
}

type DashboardSnapshot struct {
	TotalOrders  int64   `json:"total_orders"`
	TotalRevenue float64 `json:"total_revenue"`
	TotalUsers   int64   `json:"total_users"`
	TotalStock   int64   `json:"total_stock"`

	OrderStatistics OrderStatistics `json:"order_statistics"`

	TodayOrders      int64   `json:"today_orders"`
	TodayRevenue     float64 `json:"today_revenue"`
	YesterdayOrders  int64   `json:"yesterday_orders"`
	YesterdayRevenue float64 `json:"yesterday_revenue"`
	MonthOrders      int64   `json:"month_orders"`
	MonthRevenue     float64 `json:"month_revenue"`
	LastMonthOrders  int64   `json:"last_month_orders"`
	LastMonthRevenue float64 `json:"last_month_revenue"`

	Top5Products []repo.ProductCount `json:"top_5_products"`
}

type DashboardService struct {
	Repo     *repo.GormRepo
	Now      func() time.Time
	Location *time.Location
	Cache    SnapshotCache
}

func (s *DashboardService) now() time.Time {
	loc := s.Location
	if loc == nil {
		loc = time.UTC
	}
	if s.Now == nil {
		return time.Now().In(loc)
	}
	return s.Now().In(loc)
}

// seriesAccumulator holds zero-filled buckets for one series.
type seriesAccumulator struct {
	kind   SeriesKind
	labels []string
	sums   map[string]decimal.Decimal
}

func newSeriesAccumulator(kind SeriesKind, now time.Time) *seriesAccumulator {
	labels := BuildLabels(kind, now)
	sums := make(map[string]decimal.Decimal, len(labels))
	for _, l := range labels {
		sums[l] = decimal.Zero
	}
	return &seriesAccumulator{kind: kind, labels: labels, sums: sums}
}

func (a *seriesAccumulator) add(at time.Time, amount decimal.Decimal) {
	label := BucketLabel(a.kind, at)
	if cur, ok := a.sums[label]; ok {
		a.sums[label] = cur.Add(amount)
	}
}

// values returns rounded buckets and their total.
func (a *seriesAccumulator) values() (map[string]float64, float64) {
	out := make(map[string]float64, len(a.labels))
	total := decimal.Zero
	for _, l := range a.labels {
		v := a.sums[l].Round(2)
		out[l] = v.InexactFloat64()
		total = total.Add(v)
	}
	return out, total.Round(2).InexactFloat64()
}

func money(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

// Snapshot serves a cached dashboard when one is available and computes a
// fresh one otherwise. Cache failures count as misses.
func (s *DashboardService) Snapshot(ctx context.Context) (*DashboardSnapshot, error) {
	if s.Cache == nil {
		return s.Compute(ctx)
	}
	l := logging.FromContext(ctx).With("svc", "dashboard.snapshot")

	cached := &DashboardSnapshot{}
	found, err := s.Cache.Get(ctx, dashboardKey, cached)
	if err != nil {
		l.Warnw("dashboard_cache_get_failed", "error", err)
	}
	if found {
		return cached, nil
	}

	snap, err := s.Compute(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.Cache.Set(ctx, dashboardKey, snap); err != nil {
		l.Warnw("dashboard_cache_set_failed", "error", err)
	}
	return snap, nil
}

// Compute builds the dashboard inside one transaction. Any query error aborts
// the snapshot.
func (s *DashboardService) Compute(ctx context.Context) (*DashboardSnapshot, error) {
	l := logging.FromContext(ctx).With("svc", "dashboard.compute")
	started := time.Now()
	defer func() { metrics.DashboardDuration.Observe(time.Since(started).Seconds()) }()

	now := s.now()
	today := startOfDay(now)
	monthStart := startOfMonth(now)

	windows := struct {
		today, yesterday, month, lastMonth repo.Window
	}{
		today:     repo.Window{From: today, To: now, Closed: true},
		yesterday: repo.Window{From: shiftDays(today, -1), To: today},
		month:     repo.Window{From: monthStart, To: now, Closed: true},
		lastMonth: repo.Window{From: shiftMonths(monthStart, -1), To: monthStart},
	}

	series := make(map[SeriesKind]*seriesAccumulator, len(AllSeries))
	scanFrom := now
	for _, kind := range AllSeries {
		series[kind] = newSeriesAccumulator(kind, now)
		if start := SeriesStart(kind, now); start.Before(scanFrom) {
			scanFrom = start
		}
	}

	snap := &DashboardSnapshot{}
	err := s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		var (
			err error
			sum decimal.Decimal
		)

		if snap.TotalOrders, err = tx.CountCompletedOrders(ctx, nil); err != nil {
			return err
		}
		if sum, err = tx.SumRevenue(ctx, nil, false); err != nil {
			return err
		}
		snap.TotalRevenue = money(sum)
		if snap.TotalUsers, err = tx.CountUsers(ctx); err != nil {
			return err
		}
		if snap.TotalStock, err = tx.CountCards(ctx); err != nil {
			return err
		}

		calendar := []struct {
			w       repo.Window
			orders  *int64
			revenue *float64
		}{
			{windows.today, &snap.TodayOrders, &snap.TodayRevenue},
			{windows.yesterday, &snap.YesterdayOrders, &snap.YesterdayRevenue},
			{windows.month, &snap.MonthOrders, &snap.MonthRevenue},
			{windows.lastMonth, &snap.LastMonthOrders, &snap.LastMonthRevenue},
		}
		for _, c := range calendar {
			w := c.w
			if *c.orders, err = tx.CountCompletedOrders(ctx, &w); err != nil {
				return err
			}
			if sum, err = tx.SumRevenue(ctx, &w, true); err != nil {
				return err
			}
			*c.revenue = money(sum)
		}

		err = tx.EachOrderAmount(ctx, repo.Window{From: scanFrom, To: now, Closed: true}, func(at time.Time, amount decimal.Decimal) {
			at = at.In(now.Location())
			for _, acc := range series {
				acc.add(at, amount)
			}
		})
		if err != nil {
			return err
		}

		snap.Top5Products, err = tx.TopProducts(ctx, topProductsLimit)
		return err
	})
	if err != nil {
		metrics.DashboardFailures.Inc()
		l.Errorw("dashboard_compute_failed", "error", err)
		return nil, fmt.Errorf("compute dashboard: %w", err)
	}

	st := &snap.OrderStatistics
	st.Day, st.DayMoney = series[SeriesDay].values()
	st.Week, st.WeekMoney = series[SeriesWeek].values()
	st.Month, st.MonthMoney = series[SeriesMonth].values()
	st.Year, st.YearMoney = series[SeriesYear].values()

	if snap.Top5Products == nil {
		snap.Top5Products = []repo.ProductCount{}
	}

	l.Infow("dashboard_compute_success", "total_orders", snap.TotalOrders, "duration_ms", time.Since(started).Milliseconds())
	return snap, nil
}
