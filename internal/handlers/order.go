package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/kamishop/internal/logging"
	"github.com/Skotchmaster/kamishop/internal/service"
	"github.com/Skotchmaster/kamishop/internal/transport"
)

type OrderHandler struct {
	Svc      *service.OrderService
	Location *time.Location
}

func (h *OrderHandler) Read(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.read")

	offset, limit, err := page(c)
	if err != nil {
		return fail(c, l, "order_read_failed", err)
	}
	total, items, err := h.Svc.ListOrders(ctx, offset, limit)
	if err != nil {
		return fail(c, l, "order_read_failed", err)
	}
	return ok(c, "订单查询成功", listData(total, items))
}

func (h *OrderHandler) Search(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.search")

	offset, limit, err := page(c)
	if err != nil {
		return fail(c, l, "order_search_failed", err)
	}
	total, items, err := h.Svc.SearchOrders(ctx, c.Param("keyword"), offset, limit)
	if err != nil {
		return fail(c, l, "order_search_failed", err)
	}
	return ok(c, "订单查询成功", listData(total, items))
}

func (h *OrderHandler) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.delete")

	var req transport.IDRequest
	if err := bind(c, &req); err != nil {
		return fail(c, l, "order_delete_failed", err)
	}
	if err := h.Svc.DeleteOrder(ctx, req.ID); err != nil {
		return fail(c, l, "order_delete_failed", err)
	}
	return ok(c, "订单删除成功", req)
}

func (h *OrderHandler) DeletePending(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.delete_all")

	removed, err := h.Svc.DeletePendingOrders(ctx)
	if err != nil {
		return fail(c, l, "order_delete_all_failed", err)
	}
	return ok(c, "所有未完成订单删除成功", map[string]int64{"removed": removed})
}

const xlsxMIME = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Export streams every order as CSV, or as a workbook with ?format=xlsx.
func (h *OrderHandler) Export(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.export")

	export, ext, mime := h.Svc.ExportCSV, "csv", "text/csv; charset=utf-8"
	switch c.QueryParam("format") {
	case "", "csv":
	case "xlsx":
		export, ext, mime = h.Svc.ExportXLSX, "xlsx", xlsxMIME
	default:
		return fail(c, l, "order_export_failed", fmt.Errorf("%w: unknown format", service.ErrValidation))
	}

	var buf bytes.Buffer
	n, err := export(ctx, &buf, h.Location)
	if err != nil {
		return fail(c, l, "order_export_failed", err)
	}
	l.Infow("order_export_success", "rows", n, "format", ext)

	name := fmt.Sprintf("orders_%s.%s", time.Now().In(locOrUTC(h.Location)).Format("20060102150405"), ext)
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", name))
	return c.Blob(http.StatusOK, mime, buf.Bytes())
}

func locOrUTC(loc *time.Location) *time.Location {
	if loc == nil {
		return time.UTC
	}
	return loc
}

type UserHandler struct {
	Svc *service.UserService
}

func (h *UserHandler) Read(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.read")

	offset, limit, err := page(c)
	if err != nil {
		return fail(c, l, "user_read_failed", err)
	}
	total, items, err := h.Svc.ListUsers(ctx, offset, limit)
	if err != nil {
		return fail(c, l, "user_read_failed", err)
	}
	return ok(c, "用户查询成功", listData(total, items))
}

func (h *UserHandler) Search(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.search")

	offset, limit, err := page(c)
	if err != nil {
		return fail(c, l, "user_search_failed", err)
	}
	total, items, err := h.Svc.SearchUsers(ctx, c.Param("email"), offset, limit)
	if err != nil {
		return fail(c, l, "user_search_failed", err)
	}
	return ok(c, "搜索用户成功", listData(total, items))
}

func (h *UserHandler) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.delete")

	var req transport.UserIDRequest
	if err := bind(c, &req); err != nil {
		return fail(c, l, "user_delete_failed", err)
	}
	if err := h.Svc.DeleteUser(ctx, req.ID); err != nil {
		return fail(c, l, "user_delete_failed", err)
	}
	return ok(c, "用户删除成功", req)
}
