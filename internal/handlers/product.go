package handlers

import (
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/kamishop/internal/logging"
	"github.com/Skotchmaster/kamishop/internal/service"
	"github.com/Skotchmaster/kamishop/internal/transport"
)

type CatalogHandler struct {
	Svc *service.CatalogService
}

func (h *CatalogHandler) ReadCategories(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "class.read")

	offset, limit, err := page(c)
	if err != nil {
		return fail(c, l, "class_read_failed", err)
	}
	total, items, err := h.Svc.ListCategories(ctx, offset, limit)
	if err != nil {
		return fail(c, l, "class_read_failed", err)
	}
	return ok(c, "分类查询成功", listData(total, items))
}

func (h *CatalogHandler) CreateCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "class.create")

	var req transport.CreateCategoryRequest
	if err := bind(c, &req); err != nil {
		return fail(c, l, "class_create_failed", err)
	}
	cat, err := h.Svc.CreateCategory(ctx, req)
	if err != nil {
		return fail(c, l, "class_create_failed", err)
	}
	l.Infow("class_create_success", "id", cat.ID)
	return ok(c, "分类新增成功", cat)
}

func (h *CatalogHandler) UpdateCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "class.update")

	var req transport.PatchCategoryRequest
	if err := bind(c, &req); err != nil {
		return fail(c, l, "class_update_failed", err)
	}
	cat, err := h.Svc.PatchCategory(ctx, req)
	if err != nil {
		return fail(c, l, "class_update_failed", err)
	}
	return ok(c, "分类修改成功", cat)
}

func (h *CatalogHandler) DeleteCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "class.delete")

	var req transport.IDRequest
	if err := bind(c, &req); err != nil {
		return fail(c, l, "class_delete_failed", err)
	}
	if err := h.Svc.DeleteCategory(ctx, req.ID); err != nil {
		return fail(c, l, "class_delete_failed", err)
	}
	return ok(c, "分类删除成功", req)
}

func (h *CatalogHandler) ReadProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.read")

	offset, limit, err := page(c)
	if err != nil {
		return fail(c, l, "product_read_failed", err)
	}
	total, items, err := h.Svc.ListProducts(ctx, offset, limit)
	if err != nil {
		return fail(c, l, "product_read_failed", err)
	}
	return ok(c, "商品信息查询成功", listData(total, items))
}

func (h *CatalogHandler) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.create")

	var req transport.CreateProductRequest
	if err := bind(c, &req); err != nil {
		return fail(c, l, "product_create_failed", err)
	}
	prod, err := h.Svc.CreateProduct(ctx, req)
	if err != nil {
		return fail(c, l, "product_create_failed", err)
	}
	l.Infow("product_create_success", "id", prod.ID)
	return ok(c, "商品信息新增成功", prod)
}

func (h *CatalogHandler) UpdateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.update")

	var req transport.PatchProductRequest
	if err := bind(c, &req); err != nil {
		return fail(c, l, "product_update_failed", err)
	}
	prod, err := h.Svc.PatchProduct(ctx, req)
	if err != nil {
		return fail(c, l, "product_update_failed", err)
	}
	return ok(c, "商品信息修改成功", prod)
}

func (h *CatalogHandler) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.delete")

	var req transport.IDRequest
	if err := bind(c, &req); err != nil {
		return fail(c, l, "product_delete_failed", err)
	}
	if err := h.Svc.DeleteProduct(ctx, req.ID); err != nil {
		return fail(c, l, "product_delete_failed", err)
	}
	return ok(c, "商品信息删除成功", req)
}
