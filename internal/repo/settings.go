package repo

import (
	"context"
	"fmt"

	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/kamishop/internal/models"
	"github.com/Skotchmaster/kamishop/internal/transport"
)

func (r *GormRepo) ListConfigs(ctx context.Context, onlyShown bool) ([]models.Config, error) {
	q := r.DB.WithContext(ctx)
	if onlyShown {
		q = q.Where("isshow = ?", true)
	}

	var items []models.Config
	if err := q.Order("id ASC").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list configs: %w", err)
	}
	return items, nil
}

func (r *GormRepo) GetConfigs(ctx context.Context, names []string) ([]models.Config, error) {
	var items []models.Config
	if err := r.DB.WithContext(ctx).Where("name IN ?", names).Order("id ASC").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("get configs: %w", err)
	}
	return items, nil
}

// UpsertConfig inserts the named config or overwrites its info.
func (r *GormRepo) UpsertConfig(ctx context.Context, cfg *models.Config) error {
	err := r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"info", "updatetime"}),
	}).Create(cfg).Error
	if err != nil {
		return fmt.Errorf("upsert config %s: %w", cfg.Name, err)
	}
	return nil
}

func (r *GormRepo) ListPayments(ctx context.Context) ([]models.Payment, error) {
	var items []models.Payment
	if err := r.DB.WithContext(ctx).Order("id ASC").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	return items, nil
}

func (r *GormRepo) CreatePayment(ctx context.Context, p *models.Payment) error {
	if err := r.DB.WithContext(ctx).Create(p).Error; err != nil {
		return fmt.Errorf("create payment: %w", err)
	}
	return nil
}

func (r *GormRepo) PatchPayment(ctx context.Context, req transport.PatchPaymentRequest) (*models.Payment, error) {
	var p models.Payment
	if err := r.DB.WithContext(ctx).First(&p, req.ID).Error; err != nil {
		return nil, err
	}

	if req.Icon != nil {
		p.Icon = *req.Icon
	}
	if req.Config != nil {
		p.Config = *req.Config
	}
	if req.Info != nil {
		p.Info = *req.Info
	}
	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}

	if err := r.DB.WithContext(ctx).Save(&p).Error; err != nil {
		return nil, fmt.Errorf("save payment: %w", err)
	}
	return &p, nil
}

func (r *GormRepo) ListNotices(ctx context.Context) ([]models.Notice, error) {
	var items []models.Notice
	if err := r.DB.WithContext(ctx).Order("id ASC").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list notices: %w", err)
	}
	return items, nil
}

func (r *GormRepo) GetNotice(ctx context.Context, name string) (*models.Notice, error) {
	var n models.Notice
	if err := r.DB.WithContext(ctx).Where("name = ?", name).First(&n).Error; err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *GormRepo) UpsertNotice(ctx context.Context, n *models.Notice) error {
	err := r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"config", "admin_account", "admin_switch", "user_switch"}),
	}).Create(n).Error
	if err != nil {
		return fmt.Errorf("upsert notice %s: %w", n.Name, err)
	}
	return nil
}
