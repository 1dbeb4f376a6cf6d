package repo

import (
	"context"
	"fmt"
	"strings"

	"github.com/Skotchmaster/kamishop/internal/models"
	"github.com/Skotchmaster/kamishop/internal/transport"
)

const cardBatchSize = 500

// SplitCardLines turns a pasted blob into one code per non-blank line.
func SplitCardLines(blob string) []string {
	raw := strings.Split(strings.ReplaceAll(blob, "\r\n", "\n"), "\n")
	out := make([]string, 0, len(raw))
	for _, line := range raw {
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

func (r *GormRepo) ListCards(ctx context.Context, offset, limit int) (int64, []models.Card, error) {
	total, items, err := list[models.Card](ctx, r.DB.Model(&models.Card{}), "id ASC", offset, limit)
	if err != nil {
		return 0, nil, fmt.Errorf("list cards: %w", err)
	}
	return total, items, nil
}

func (r *GormRepo) SearchCards(ctx context.Context, needle string, offset, limit int) (int64, []models.Card, error) {
	q := r.DB.Model(&models.Card{}).Where("card LIKE ?", likePattern(needle))
	total, items, err := list[models.Card](ctx, q, "id ASC", offset, limit)
	if err != nil {
		return 0, nil, fmt.Errorf("search cards: %w", err)
	}
	return total, items, nil
}

func (r *GormRepo) CreateCards(ctx context.Context, cards []models.Card) ([]models.Card, error) {
	if len(cards) == 0 {
		return cards, nil
	}
	if err := r.DB.WithContext(ctx).CreateInBatches(&cards, cardBatchSize).Error; err != nil {
		return nil, fmt.Errorf("create cards: %w", err)
	}
	return cards, nil
}

func (r *GormRepo) PatchCard(ctx context.Context, req transport.PatchCardRequest) (*models.Card, error) {
	var card models.Card
	if err := r.DB.WithContext(ctx).First(&card, req.ID).Error; err != nil {
		return nil, err
	}

	if req.ProdName != nil {
		card.ProdName = *req.ProdName
	}
	if req.Card != nil {
		card.Card = *req.Card
	}
	if req.Reuse != nil {
		card.Reuse = *req.Reuse
	}
	if req.IsUsed != nil {
		card.IsUsed = *req.IsUsed
	}

	if err := r.DB.WithContext(ctx).Save(&card).Error; err != nil {
		return nil, fmt.Errorf("save card: %w", err)
	}
	return &card, nil
}

func (r *GormRepo) DeleteCard(ctx context.Context, id uint) error {
	return deleteByID[models.Card](ctx, r.DB, id)
}

// DeleteCardsByFilter expects a non-empty filter; callers validate that.
func (r *GormRepo) DeleteCardsByFilter(ctx context.Context, f transport.CardFilter) (int64, error) {
	q := r.DB.WithContext(ctx)
	if f.ProdName != nil {
		q = q.Where("prod_name = ?", *f.ProdName)
	}
	if f.Card != nil {
		q = q.Where("card = ?", *f.Card)
	}
	if f.Reuse != nil {
		q = q.Where("reuse = ?", *f.Reuse)
	}
	if f.IsUsed != nil {
		q = q.Where("isused = ?", *f.IsUsed)
	}

	res := q.Delete(&models.Card{})
	if res.Error != nil {
		return 0, fmt.Errorf("delete cards by filter: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// DeleteDuplicateCards keeps the lowest id for every distinct card content
// and removes the rest, across all products. The survivor ids are read through
// a derived table because MySQL refuses a subquery on the table being deleted.
func (r *GormRepo) DeleteDuplicateCards(ctx context.Context) (int64, error) {
	survivors := r.DB.Model(&models.Card{}).Select("MIN(id) AS id").Group("card")
	keep := r.DB.Table("(?) AS survivors", survivors).Select("id")
	res := r.DB.WithContext(ctx).Where("id NOT IN (?)", keep).Delete(&models.Card{})
	if res.Error != nil {
		return 0, fmt.Errorf("delete duplicate cards: %w", res.Error)
	}
	return res.RowsAffected, nil
}

func (r *GormRepo) CountCards(ctx context.Context) (int64, error) {
	var n int64
	if err := r.DB.WithContext(ctx).Model(&models.Card{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count cards: %w", err)
	}
	return n, nil
}
