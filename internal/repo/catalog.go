package repo

import (
	"context"
	"fmt"

	"github.com/Skotchmaster/kamishop/internal/models"
	"github.com/Skotchmaster/kamishop/internal/transport"
)

func (r *GormRepo) ListCategories(ctx context.Context, offset, limit int) (int64, []models.Category, error) {
	total, items, err := list[models.Category](ctx, r.DB.Model(&models.Category{}), "sort ASC, id ASC", offset, limit)
	if err != nil {
		return 0, nil, fmt.Errorf("list categories: %w", err)
	}
	return total, items, nil
}

func (r *GormRepo) CreateCategory(ctx context.Context, cat *models.Category) (*models.Category, error) {
	if err := r.DB.WithContext(ctx).Create(cat).Error; err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return cat, nil
}

func (r *GormRepo) PatchCategory(ctx context.Context, req transport.PatchCategoryRequest) (*models.Category, error) {
	var cat models.Category
	if err := r.DB.WithContext(ctx).First(&cat, req.ID).Error; err != nil {
		return nil, err
	}

	if req.Name != nil {
		cat.Name = *req.Name
	}
	if req.Info != nil {
		cat.Info = *req.Info
	}
	if req.Sort != nil {
		cat.Sort = *req.Sort
	}

	if err := r.DB.WithContext(ctx).Save(&cat).Error; err != nil {
		return nil, fmt.Errorf("save category: %w", err)
	}
	return &cat, nil
}

func (r *GormRepo) DeleteCategory(ctx context.Context, id uint) error {
	return deleteByID[models.Category](ctx, r.DB, id)
}

func (r *GormRepo) ListProducts(ctx context.Context, offset, limit int) (int64, []models.Product, error) {
	total, items, err := list[models.Product](ctx, r.DB.Model(&models.Product{}), "sort ASC, id ASC", offset, limit)
	if err != nil {
		return 0, nil, fmt.Errorf("list products: %w", err)
	}
	return total, items, nil
}

func (r *GormRepo) ListActiveProducts(ctx context.Context, cagName string) ([]models.Product, error) {
	q := r.DB.WithContext(ctx).Where("isactive = ?", true)
	if cagName != "" {
		q = q.Where("cag_name = ?", cagName)
	}

	var items []models.Product
	if err := q.Order("sort ASC, id ASC").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list active products: %w", err)
	}
	return items, nil
}

func (r *GormRepo) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	var prod models.Product
	if err := r.DB.WithContext(ctx).First(&prod, id).Error; err != nil {
		return nil, err
	}
	return &prod, nil
}

func (r *GormRepo) GetProductsByIDs(ctx context.Context, ids []uint) ([]models.Product, error) {
	var items []models.Product
	if len(ids) == 0 {
		return items, nil
	}
	if err := r.DB.WithContext(ctx).Where("id IN ? AND isactive = ?", ids, true).Find(&items).Error; err != nil {
		return nil, fmt.Errorf("get products: %w", err)
	}
	return items, nil
}

func (r *GormRepo) SearchProducts(ctx context.Context, q string, offset, limit int) (int64, []models.Product, error) {
	like := likePattern(q)
	base := r.DB.Model(&models.Product{}).
		Where("isactive = ?", true).
		Where("name LIKE ? OR info LIKE ? OR discription LIKE ?", like, like, like)

	total, items, err := list[models.Product](ctx, base, "sort ASC, id ASC", offset, limit)
	if err != nil {
		return 0, nil, fmt.Errorf("search products: %w", err)
	}
	return total, items, nil
}

func (r *GormRepo) CreateProduct(ctx context.Context, prod *models.Product) (*models.Product, error) {
	if err := r.DB.WithContext(ctx).Create(prod).Error; err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	return prod, nil
}

func (r *GormRepo) PatchProduct(ctx context.Context, req transport.PatchProductRequest) (*models.Product, error) {
	var prod models.Product
	if err := r.DB.WithContext(ctx).First(&prod, req.ID).Error; err != nil {
		return nil, err
	}

	if req.CagName != nil {
		prod.CagName = *req.CagName
	}
	if req.Name != nil {
		prod.Name = *req.Name
	}
	if req.Info != nil {
		prod.Info = *req.Info
	}
	if req.ImgURL != nil {
		prod.ImgURL = *req.ImgURL
	}
	if req.Sort != nil {
		prod.Sort = *req.Sort
	}
	if req.Discription != nil {
		prod.Discription = *req.Discription
	}
	if req.Price != nil {
		prod.Price = *req.Price
	}
	if req.PriceWholesale != nil {
		prod.PriceWholesale = *req.PriceWholesale
	}
	if req.Auto != nil {
		prod.Auto = *req.Auto
	}
	if req.Sales != nil {
		prod.Sales = *req.Sales
	}
	if req.Tag != nil {
		prod.Tag = *req.Tag
	}
	if req.IsActive != nil {
		prod.IsActive = *req.IsActive
	}

	if err := r.DB.WithContext(ctx).Save(&prod).Error; err != nil {
		return nil, fmt.Errorf("save product: %w", err)
	}
	return &prod, nil
}

func (r *GormRepo) DeleteProduct(ctx context.Context, id uint) error {
	return deleteByID[models.Product](ctx, r.DB, id)
}

// StockByProduct counts unused cards per product name.
func (r *GormRepo) StockByProduct(ctx context.Context) (map[string]int64, error) {
	var rows []struct {
		ProdName string
		Stock    int64
	}
	err := r.DB.WithContext(ctx).Model(&models.Card{}).
		Select("prod_name, COUNT(*) AS stock").
		Where("isused = ? OR reuse = ?", false, true).
		Group("prod_name").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("stock by product: %w", err)
	}

	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		out[row.ProdName] = row.Stock
	}
	return out, nil
}
