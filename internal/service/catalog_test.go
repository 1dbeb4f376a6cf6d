package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/kamishop/internal/models"
	"github.com/Skotchmaster/kamishop/internal/transport"
)

type fakeIndexer struct {
	indexed   []uint
	deleted   []uint
	hits      []uint
	searchErr error
}

func (f *fakeIndexer) IndexProduct(_ context.Context, p models.Product) error {
	f.indexed = append(f.indexed, p.ID)
	return nil
}

func (f *fakeIndexer) DeleteProduct(_ context.Context, id uint) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeIndexer) SearchProducts(context.Context, string, int, int) (int64, []uint, error) {
	if f.searchErr != nil {
		return 0, nil, f.searchErr
	}
	return int64(len(f.hits)), f.hits, nil
}

func TestCategoryCRUD(t *testing.T) {
	svc := &CatalogService{Repo: newRepo(t)}
	ctx := context.Background()

	cat, err := svc.CreateCategory(ctx, transport.CreateCategoryRequest{Name: " 影音会员 "})
	require.NoError(t, err)
	assert.Equal(t, "影音会员", cat.Name)
	assert.Equal(t, defaultSort, cat.Sort)

	_, err = svc.CreateCategory(ctx, transport.CreateCategoryRequest{Name: ""})
	assert.ErrorIs(t, err, ErrValidation)

	patched, err := svc.PatchCategory(ctx, transport.PatchCategoryRequest{ID: cat.ID, Sort: ptr(1)})
	require.NoError(t, err)
	assert.Equal(t, 1, patched.Sort)
	_, err = svc.PatchCategory(ctx, transport.PatchCategoryRequest{ID: 77, Sort: ptr(1)})
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, svc.DeleteCategory(ctx, cat.ID))
	assert.ErrorIs(t, svc.DeleteCategory(ctx, cat.ID), ErrNotFound)
}

func TestProductLifecycleIndexes(t *testing.T) {
	ix := &fakeIndexer{}
	svc := &CatalogService{Repo: newRepo(t), Indexer: ix}
	ctx := context.Background()

	p, err := svc.CreateProduct(ctx, transport.CreateProductRequest{CagName: "c", Name: "netflix", Price: decimal.NewFromInt(30)})
	require.NoError(t, err)
	assert.True(t, p.IsActive)
	assert.Equal(t, defaultTag, p.Tag)

	_, err = svc.CreateProduct(ctx, transport.CreateProductRequest{Name: "neg", Price: decimal.NewFromInt(-1)})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.PatchProduct(ctx, transport.PatchProductRequest{ID: p.ID, IsActive: ptr(false)})
	require.NoError(t, err)
	require.NoError(t, svc.DeleteProduct(ctx, p.ID))

	assert.Equal(t, []uint{p.ID, p.ID}, ix.indexed)
	assert.Equal(t, []uint{p.ID}, ix.deleted)
}

func TestSearch_IndexThenFallback(t *testing.T) {
	ix := &fakeIndexer{}
	svc := &CatalogService{Repo: newRepo(t), Indexer: ix}
	ctx := context.Background()

	a, err := svc.CreateProduct(ctx, transport.CreateProductRequest{Name: "netflix premium", Price: decimal.NewFromInt(1)})
	require.NoError(t, err)
	b, err := svc.CreateProduct(ctx, transport.CreateProductRequest{Name: "spotify family", Price: decimal.NewFromInt(1)})
	require.NoError(t, err)

	ix.hits = []uint{b.ID, a.ID}
	total, got, err := svc.Search(ctx, "anything", 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, got, 2)
	assert.Equal(t, b.ID, got[0].ID)

	ix.searchErr = errors.New("cluster red")
	total, got, err = svc.Search(ctx, "spotify", 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, got, 1)
	assert.Equal(t, b.ID, got[0].ID)

	_, _, err = svc.Search(ctx, " ", 0, 10)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestStorefront(t *testing.T) {
	r := newRepo(t)
	svc := &CatalogService{Repo: r}
	ctx := context.Background()

	_, err := svc.CreateProduct(ctx, transport.CreateProductRequest{CagName: "video", Name: "netflix", Price: decimal.NewFromInt(1)})
	require.NoError(t, err)
	_, err = svc.CreateProduct(ctx, transport.CreateProductRequest{CagName: "video", Name: "hidden", Price: decimal.NewFromInt(1), IsActive: ptr(false)})
	require.NoError(t, err)
	_, err = r.CreateCards(ctx, []models.Card{{ProdName: "netflix", Card: "1"}, {ProdName: "netflix", Card: "2"}})
	require.NoError(t, err)

	got, err := svc.Storefront(ctx, "video")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "netflix", got[0].Name)
	assert.EqualValues(t, 2, got[0].Stock)
}
