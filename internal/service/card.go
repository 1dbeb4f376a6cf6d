package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/Skotchmaster/kamishop/internal/logging"
	"github.com/Skotchmaster/kamishop/internal/metrics"
	"github.com/Skotchmaster/kamishop/internal/models"
	"github.com/Skotchmaster/kamishop/internal/mykafka"
	"github.com/Skotchmaster/kamishop/internal/repo"
	"github.com/Skotchmaster/kamishop/internal/transport"
)

type CardService struct {
	Repo     *repo.GormRepo
	Producer mykafka.Publisher
}

func (s *CardService) ListCards(ctx context.Context, offset, limit int) (int64, []models.Card, error) {
	return s.Repo.ListCards(ctx, offset, limit)
}

func (s *CardService) SearchCards(ctx context.Context, needle string, offset, limit int) (int64, []models.Card, error) {
	needle = strings.TrimSpace(needle)
	if needle == "" {
		return 0, nil, fmt.Errorf("%w: search string required", ErrValidation)
	}
	return s.Repo.SearchCards(ctx, needle, offset, limit)
}

// CreateCards stores one card per non-blank line of req.Card.
func (s *CardService) CreateCards(ctx context.Context, req transport.CreateCardsRequest) ([]models.Card, error) {
	prod := strings.TrimSpace(req.ProdName)
	if prod == "" {
		return nil, fmt.Errorf("%w: prod_name required", ErrValidation)
	}
	lines := repo.SplitCardLines(req.Card)
	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: card content required", ErrValidation)
	}

	batch := make([]models.Card, 0, len(lines))
	for _, line := range lines {
		batch = append(batch, models.Card{ProdName: prod, Card: line, Reuse: req.Reuse})
	}

	created, err := s.Repo.CreateCards(ctx, batch)
	if err != nil {
		return nil, err
	}

	metrics.CardsImported.Add(float64(len(created)))
	publish(ctx, s.Producer, mykafka.TopicCardEvents, prod, "cards_created", map[string]any{
		"prod_name": prod,
		"count":     len(created),
	})
	return created, nil
}

func (s *CardService) PatchCard(ctx context.Context, req transport.PatchCardRequest) (*models.Card, error) {
	if req.ID == 0 {
		return nil, fmt.Errorf("%w: id required", ErrValidation)
	}
	if req.Card != nil && strings.TrimSpace(*req.Card) == "" {
		return nil, fmt.Errorf("%w: card content cannot be empty", ErrValidation)
	}

	card, err := s.Repo.PatchCard(ctx, req)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: card %d", ErrNotFound, req.ID)
		}
		return nil, err
	}
	return card, nil
}

func (s *CardService) DeleteCard(ctx context.Context, id uint) error {
	if err := s.Repo.DeleteCard(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: card %d", ErrNotFound, id)
		}
		return err
	}
	publish(ctx, s.Producer, mykafka.TopicCardEvents, fmt.Sprint(id), "card_deleted", map[string]uint{"id": id})
	return nil
}

// DeleteByFilter refuses an empty filter so the table can never be wiped by
// accident.
func (s *CardService) DeleteByFilter(ctx context.Context, f transport.CardFilter) (int64, error) {
	if f.Empty() {
		return 0, fmt.Errorf("%w: at least one filter field required", ErrValidation)
	}
	removed, err := s.Repo.DeleteCardsByFilter(ctx, f)
	if err != nil {
		return 0, err
	}
	publish(ctx, s.Producer, mykafka.TopicCardEvents, "batch", "cards_batch_deleted", map[string]int64{"removed": removed})
	return removed, nil
}

// DeduplicateCards leaves exactly one card per distinct content, ignoring
// product, reuse and used flags. Either every redundant row goes or none do.
func (s *CardService) DeduplicateCards(ctx context.Context) (int64, error) {
	l := logging.FromContext(ctx).With("svc", "card.deduplicate")

	var removed int64
	err := s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		n, err := tx.DeleteDuplicateCards(ctx)
		if err != nil {
			return err
		}
		removed = n
		return nil
	})
	if err != nil {
		l.Errorw("deduplicate_cards_failed", "error", err)
		return 0, fmt.Errorf("deduplicate cards: %w", err)
	}

	metrics.CardsDeduplicated.Add(float64(removed))
	l.Infow("deduplicate_cards_success", "removed", removed)
	if removed > 0 {
		publish(ctx, s.Producer, mykafka.TopicCardEvents, "dedup", "cards_deduplicated", map[string]int64{"removed": removed})
	}
	return removed, nil
}
