package handlers

import (
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/kamishop/internal/logging"
	"github.com/Skotchmaster/kamishop/internal/service"
	"github.com/Skotchmaster/kamishop/internal/transport"
)

type CardHandler struct {
	Svc *service.CardService
}

func (h *CardHandler) Read(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cami.read")

	offset, limit, err := page(c)
	if err != nil {
		return fail(c, l, "cami_read_failed", err)
	}
	total, items, err := h.Svc.ListCards(ctx, offset, limit)
	if err != nil {
		return fail(c, l, "cami_read_failed", err)
	}
	return ok(c, "卡密查询成功", listData(total, items))
}

func (h *CardHandler) Search(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cami.search")

	offset, limit, err := page(c)
	if err != nil {
		return fail(c, l, "cami_search_failed", err)
	}
	total, items, err := h.Svc.SearchCards(ctx, c.Param("cardstr"), offset, limit)
	if err != nil {
		return fail(c, l, "cami_search_failed", err)
	}
	return ok(c, "卡密搜索成功", listData(total, items))
}

func (h *CardHandler) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cami.create")

	var req transport.CreateCardsRequest
	if err := bind(c, &req); err != nil {
		return fail(c, l, "cami_create_failed", err)
	}
	created, err := h.Svc.CreateCards(ctx, req)
	if err != nil {
		return fail(c, l, "cami_create_failed", err)
	}
	l.Infow("cami_create_success", "prod_name", req.ProdName, "count", len(created))
	return ok(c, "卡密新增成功", map[string]any{"prod_name": req.ProdName, "count": len(created)})
}

func (h *CardHandler) Update(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cami.update")

	var req transport.PatchCardRequest
	if err := bind(c, &req); err != nil {
		return fail(c, l, "cami_update_failed", err)
	}
	card, err := h.Svc.PatchCard(ctx, req)
	if err != nil {
		return fail(c, l, "cami_update_failed", err)
	}
	return ok(c, "卡密修改成功", card)
}

func (h *CardHandler) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cami.delete")

	var req transport.IDRequest
	if err := bind(c, &req); err != nil {
		return fail(c, l, "cami_delete_failed", err)
	}
	if err := h.Svc.DeleteCard(ctx, req.ID); err != nil {
		return fail(c, l, "cami_delete_failed", err)
	}
	return ok(c, "卡密删除成功", req)
}

func (h *CardHandler) BatchDelete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cami.batch_delete")

	var f transport.CardFilter
	if err := bind(c, &f); err != nil {
		return fail(c, l, "cami_batch_delete_failed", err)
	}
	removed, err := h.Svc.DeleteByFilter(ctx, f)
	if err != nil {
		return fail(c, l, "cami_batch_delete_failed", err)
	}
	l.Infow("cami_batch_delete_success", "removed", removed)
	return ok(c, "卡密删除成功", map[string]int64{"removed": removed})
}

func (h *CardHandler) ClearDuplicates(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cami.clear_duplicates")

	removed, err := h.Svc.DeduplicateCards(ctx)
	if err != nil {
		return fail(c, l, "cami_clear_duplicates_failed", err)
	}
	return ok(c, "重复卡密清理成功", map[string]int64{"removed": removed})
}
