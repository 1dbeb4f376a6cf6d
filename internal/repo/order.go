package repo

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/Skotchmaster/kamishop/internal/models"
)

func (r *GormRepo) ListOrders(ctx context.Context, offset, limit int) (int64, []models.Order, error) {
	total, items, err := list[models.Order](ctx, r.DB.Model(&models.Order{}), "id DESC", offset, limit)
	if err != nil {
		return 0, nil, fmt.Errorf("list orders: %w", err)
	}
	return total, items, nil
}

func (r *GormRepo) SearchOrders(ctx context.Context, needle string, offset, limit int) (int64, []models.Order, error) {
	like := likePattern(needle)
	q := r.DB.Model(&models.Order{}).
		Where("out_order_id LIKE ? OR contact LIKE ? OR card LIKE ?", like, like, like)

	total, items, err := list[models.Order](ctx, q, "id DESC", offset, limit)
	if err != nil {
		return 0, nil, fmt.Errorf("search orders: %w", err)
	}
	return total, items, nil
}

func (r *GormRepo) OrdersByContact(ctx context.Context, contact string, limit int) ([]models.Order, error) {
	var items []models.Order
	err := r.DB.WithContext(ctx).
		Where("contact = ?", contact).
		Order("id DESC").
		Limit(limit).
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("orders by contact: %w", err)
	}
	return items, nil
}

func (r *GormRepo) CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	if err := r.DB.WithContext(ctx).Create(order).Error; err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	return order, nil
}

func (r *GormRepo) DeleteOrder(ctx context.Context, id uint) error {
	return deleteByID[models.Order](ctx, r.DB, id)
}

// DeletePendingOrders removes every order whose status is false or null.
func (r *GormRepo) DeletePendingOrders(ctx context.Context) (int64, error) {
	res := r.DB.WithContext(ctx).
		Where("status = ? OR status IS NULL", false).
		Delete(&models.Order{})
	if res.Error != nil {
		return 0, fmt.Errorf("delete pending orders: %w", res.Error)
	}
	return res.RowsAffected, nil
}

const orderBatchSize = 500

// EachOrderBatch walks every order by id in batches of orderBatchSize.
func (r *GormRepo) EachOrderBatch(ctx context.Context, fn func([]models.Order) error) error {
	var batch []models.Order
	err := r.DB.WithContext(ctx).Order("id ASC").FindInBatches(&batch, orderBatchSize, func(_ *gorm.DB, _ int) error {
		return fn(batch)
	}).Error
	if err != nil {
		return fmt.Errorf("walk orders: %w", err)
	}
	return nil
}
