package handlers

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/kamishop/internal/logging"
	"github.com/Skotchmaster/kamishop/internal/service"
	"github.com/Skotchmaster/kamishop/internal/util"
)

// StorefrontHandler serves the public, read-only shop API.
type StorefrontHandler struct {
	Catalog  *service.CatalogService
	Orders   *service.OrderService
	Settings *service.SettingsService
}

func (h *StorefrontHandler) Categories(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "storefront.categories")

	_, items, err := h.Catalog.ListCategories(ctx, 0, util.MaxPageSize)
	if err != nil {
		return fail(c, l, "storefront_categories_failed", err)
	}
	return ok(c, "分类查询成功", listData(int64(len(items)), items))
}

func (h *StorefrontHandler) Products(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "storefront.products")

	items, err := h.Catalog.Storefront(ctx, c.QueryParam("cag_name"))
	if err != nil {
		return fail(c, l, "storefront_products_failed", err)
	}
	return ok(c, "商品信息查询成功", listData(int64(len(items)), items))
}

func (h *StorefrontHandler) Search(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "storefront.search")

	p, _ := strconv.Atoi(c.QueryParam("page"))
	size, _ := strconv.Atoi(c.QueryParam("size"))
	from, size := util.Calculate(p, size)

	total, items, err := h.Catalog.Search(ctx, c.QueryParam("q"), from, size)
	if err != nil {
		return fail(c, l, "storefront_search_failed", err)
	}
	return ok(c, "商品搜索成功", listData(total, items))
}

func (h *StorefrontHandler) OrderQuery(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "storefront.order_query")

	items, err := h.Orders.OrdersByContact(ctx, c.Param("contact"))
	if err != nil {
		return fail(c, l, "storefront_order_query_failed", err)
	}
	return ok(c, "订单查询成功", listData(int64(len(items)), items))
}

func (h *StorefrontHandler) Config(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "storefront.config")

	items, err := h.Settings.PublicConfig(ctx)
	if err != nil {
		return fail(c, l, "storefront_config_failed", err)
	}
	return ok(c, "综合设置查询成功", listData(int64(len(items)), items))
}
