package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/Skotchmaster/kamishop/internal/logging"
	"github.com/Skotchmaster/kamishop/internal/models"
	"github.com/Skotchmaster/kamishop/internal/mykafka"
	"github.com/Skotchmaster/kamishop/internal/repo"
	"github.com/Skotchmaster/kamishop/internal/transport"
)

const (
	defaultSort = 1000
	defaultTag  = "优惠折扣"
)

// ProductIndexer mirrors products into a full-text index.
type ProductIndexer interface {
	IndexProduct(ctx context.Context, p models.Product) error
	DeleteProduct(ctx context.Context, id uint) error
	SearchProducts(ctx context.Context, query string, from, size int) (int64, []uint, error)
}

type CatalogService struct {
	Repo     *repo.GormRepo
	Indexer  ProductIndexer
	Producer mykafka.Publisher
}

type StorefrontProduct struct {
	models.Product
	Stock int64 `json:"stock"`
}

func (s *CatalogService) ListCategories(ctx context.Context, offset, limit int) (int64, []models.Category, error) {
	return s.Repo.ListCategories(ctx, offset, limit)
}

func (s *CatalogService) CreateCategory(ctx context.Context, req transport.CreateCategoryRequest) (*models.Category, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name required", ErrValidation)
	}
	sort := defaultSort
	if req.Sort != nil {
		sort = *req.Sort
	}
	return s.Repo.CreateCategory(ctx, &models.Category{Name: name, Info: req.Info, Sort: sort})
}

func (s *CatalogService) PatchCategory(ctx context.Context, req transport.PatchCategoryRequest) (*models.Category, error) {
	if req.ID == 0 {
		return nil, fmt.Errorf("%w: id required", ErrValidation)
	}
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return nil, fmt.Errorf("%w: name cannot be empty", ErrValidation)
	}
	cat, err := s.Repo.PatchCategory(ctx, req)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: category %d", ErrNotFound, req.ID)
	}
	return cat, err
}

func (s *CatalogService) DeleteCategory(ctx context.Context, id uint) error {
	err := s.Repo.DeleteCategory(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: category %d", ErrNotFound, id)
	}
	return err
}

func (s *CatalogService) ListProducts(ctx context.Context, offset, limit int) (int64, []models.Product, error) {
	return s.Repo.ListProducts(ctx, offset, limit)
}

func (s *CatalogService) CreateProduct(ctx context.Context, req transport.CreateProductRequest) (*models.Product, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name required", ErrValidation)
	}
	if req.Price.IsNegative() {
		return nil, fmt.Errorf("%w: price must be >= 0", ErrValidation)
	}

	prod := &models.Product{
		CagName:        req.CagName,
		Name:           name,
		Info:           req.Info,
		ImgURL:         req.ImgURL,
		Sort:           defaultSort,
		Discription:    req.Discription,
		Price:          req.Price,
		PriceWholesale: req.PriceWholesale,
		Auto:           req.Auto,
		Tag:            req.Tag,
		IsActive:       true,
	}
	if req.Sort != nil {
		prod.Sort = *req.Sort
	}
	if req.IsActive != nil {
		prod.IsActive = *req.IsActive
	}
	if prod.Tag == "" {
		prod.Tag = defaultTag
	}

	created, err := s.Repo.CreateProduct(ctx, prod)
	if err != nil {
		return nil, err
	}
	s.index(ctx, *created)
	publish(ctx, s.Producer, mykafka.TopicCatalogEvents, fmt.Sprint(created.ID), "product_created", created)
	return created, nil
}

func (s *CatalogService) PatchProduct(ctx context.Context, req transport.PatchProductRequest) (*models.Product, error) {
	if req.ID == 0 {
		return nil, fmt.Errorf("%w: id required", ErrValidation)
	}
	if req.Price != nil && req.Price.IsNegative() {
		return nil, fmt.Errorf("%w: price must be >= 0", ErrValidation)
	}
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return nil, fmt.Errorf("%w: name cannot be empty", ErrValidation)
	}

	prod, err := s.Repo.PatchProduct(ctx, req)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: product %d", ErrNotFound, req.ID)
		}
		return nil, err
	}
	s.index(ctx, *prod)
	publish(ctx, s.Producer, mykafka.TopicCatalogEvents, fmt.Sprint(prod.ID), "product_updated", prod)
	return prod, nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id uint) error {
	if err := s.Repo.DeleteProduct(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: product %d", ErrNotFound, id)
		}
		return err
	}
	if s.Indexer != nil {
		if err := s.Indexer.DeleteProduct(ctx, id); err != nil {
			logging.FromContext(ctx).Warnw("unindex_product_failed", "product_id", id, "error", err)
		}
	}
	publish(ctx, s.Producer, mykafka.TopicCatalogEvents, fmt.Sprint(id), "product_deleted", map[string]uint{"id": id})
	return nil
}

func (s *CatalogService) index(ctx context.Context, p models.Product) {
	if s.Indexer == nil {
		return
	}
	if err := s.Indexer.IndexProduct(ctx, p); err != nil {
		logging.FromContext(ctx).Warnw("index_product_failed", "product_id", p.ID, "error", err)
	}
}

// Storefront lists active products of a category (all when empty) with the
// number of cards still available.
func (s *CatalogService) Storefront(ctx context.Context, cagName string) ([]StorefrontProduct, error) {
	prods, err := s.Repo.ListActiveProducts(ctx, cagName)
	if err != nil {
		return nil, err
	}
	stock, err := s.Repo.StockByProduct(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]StorefrontProduct, 0, len(prods))
	for _, p := range prods {
		out = append(out, StorefrontProduct{Product: p, Stock: stock[p.Name]})
	}
	return out, nil
}

// Search prefers the full-text index and falls back to LIKE matching when it
// is absent or failing.
func (s *CatalogService) Search(ctx context.Context, query string, offset, limit int) (int64, []models.Product, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return 0, nil, fmt.Errorf("%w: query required", ErrValidation)
	}

	if s.Indexer != nil {
		total, ids, err := s.Indexer.SearchProducts(ctx, query, offset, limit)
		if err == nil {
			prods, err := s.Repo.GetProductsByIDs(ctx, ids)
			if err != nil {
				return 0, nil, err
			}
			return total, orderByIDs(prods, ids), nil
		}
		logging.FromContext(ctx).Warnw("index_search_failed", "query", query, "error", err)
	}
	return s.Repo.SearchProducts(ctx, query, offset, limit)
}

func orderByIDs(prods []models.Product, ids []uint) []models.Product {
	byID := make(map[uint]models.Product, len(prods))
	for _, p := range prods {
		byID[p.ID] = p
	}
	out := make([]models.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			out = append(out, p)
		}
	}
	return out
}
