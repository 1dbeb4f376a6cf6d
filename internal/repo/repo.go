package repo

import (
	"context"

	"gorm.io/gorm"
)

type GormRepo struct {
	DB *gorm.DB
}

// Transaction runs fn against a repo bound to one database transaction.
// The transaction commits when fn returns nil and rolls back otherwise.
func (r *GormRepo) Transaction(ctx context.Context, fn func(tx *GormRepo) error) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormRepo{DB: tx})
	})
}

func list[T any](ctx context.Context, q *gorm.DB, order string, offset, limit int) (int64, []T, error) {
	base := q.WithContext(ctx)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return 0, nil, err
	}

	items := make([]T, 0, limit)
	if err := base.Order(order).Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return 0, nil, err
	}
	return total, items, nil
}

func deleteByID[T any](ctx context.Context, db *gorm.DB, id any) error {
	var zero T
	res := db.WithContext(ctx).Delete(&zero, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func likePattern(s string) string {
	return "%" + s + "%"
}
