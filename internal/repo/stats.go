package repo

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Skotchmaster/kamishop/internal/models"
)

// Window bounds Order.updatetime. From is inclusive; To is exclusive unless
// Closed is set.
type Window struct {
	From   time.Time
	To     time.Time
	Closed bool
}

func (w Window) apply(q *gorm.DB) *gorm.DB {
	q = q.Where("updatetime >= ?", w.From.UTC())
	if w.Closed {
		return q.Where("updatetime <= ?", w.To.UTC())
	}
	return q.Where("updatetime < ?", w.To.UTC())
}

type ProductCount struct {
	Name  string `gorm:"column:name"        json:"name"`
	Count int64  `gorm:"column:order_count" json:"count"`
}

func (r *GormRepo) completedOrders(ctx context.Context) *gorm.DB {
	return r.DB.WithContext(ctx).Model(&models.Order{}).Where("status = ?", true)
}

// CountCompletedOrders counts orders with status true, optionally windowed.
func (r *GormRepo) CountCompletedOrders(ctx context.Context, w *Window) (int64, error) {
	q := r.completedOrders(ctx)
	if w != nil {
		q = w.apply(q)
	}

	var n int64
	if err := q.Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count completed orders: %w", err)
	}
	return n, nil
}

// SumRevenue adds up total_price; null prices count as zero.
func (r *GormRepo) SumRevenue(ctx context.Context, w *Window, completedOnly bool) (decimal.Decimal, error) {
	q := r.DB.WithContext(ctx).Model(&models.Order{})
	if completedOnly {
		q = r.completedOrders(ctx)
	}
	if w != nil {
		q = w.apply(q)
	}

	var sum decimal.NullDecimal
	if err := q.Select("COALESCE(SUM(total_price), 0)").Row().Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("sum revenue: %w", err)
	}
	if !sum.Valid {
		return decimal.Zero, nil
	}
	return sum.Decimal, nil
}

// TopProducts ranks product names by completed order count, ties by name.
func (r *GormRepo) TopProducts(ctx context.Context, n int) ([]ProductCount, error) {
	out := make([]ProductCount, 0, n)
	err := r.completedOrders(ctx).
		Select("name, COUNT(*) AS order_count").
		Group("name").
		Order("order_count DESC, name ASC").
		Limit(n).
		Scan(&out).Error
	if err != nil {
		return nil, fmt.Errorf("top products: %w", err)
	}
	return out, nil
}

// EachOrderAmount streams (updatetime, total_price) for every order in the
// window regardless of status.
func (r *GormRepo) EachOrderAmount(ctx context.Context, w Window, fn func(at time.Time, amount decimal.Decimal)) error {
	rows, err := w.apply(r.DB.WithContext(ctx).Model(&models.Order{})).
		Select("updatetime, total_price").
		Rows()
	if err != nil {
		return fmt.Errorf("scan order amounts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			at     time.Time
			amount decimal.NullDecimal
		)
		if err := rows.Scan(&at, &amount); err != nil {
			return fmt.Errorf("scan order amount row: %w", err)
		}
		if amount.Valid {
			fn(at, amount.Decimal)
		} else {
			fn(at, decimal.Zero)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate order amounts: %w", err)
	}
	return nil
}
