package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/kamishop/internal/models"
	"github.com/Skotchmaster/kamishop/internal/repo"
	"github.com/Skotchmaster/kamishop/internal/testutil"
)

func newRepo(t *testing.T) *repo.GormRepo {
	return &repo.GormRepo{DB: testutil.InitTestDB(t)}
}

func ptr[T any](v T) *T { return &v }

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// addOrder stores an order; a nil total leaves total_price NULL.
func addOrder(t *testing.T, r *repo.GormRepo, name string, total *string, paid bool, at time.Time) *models.Order {
	t.Helper()
	o := &models.Order{Name: name, Num: 1, Price: decimal.NewFromInt(1), Status: ptr(paid), UpdateTime: at}
	if total != nil {
		o.TotalPrice = decimal.NewNullDecimal(dec(*total))
	}
	created, err := r.CreateOrder(context.Background(), o)
	require.NoError(t, err)
	return created
}
