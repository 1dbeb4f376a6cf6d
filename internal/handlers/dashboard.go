package handlers

import (
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/kamishop/internal/logging"
	"github.com/Skotchmaster/kamishop/internal/service"
)

type DashboardHandler struct {
	Svc *service.DashboardService
}

func (h *DashboardHandler) Get(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "dashboard.get")

	snap, err := h.Svc.Snapshot(ctx)
	if err != nil {
		return fail(c, l, "dashboard_failed", err)
	}
	return ok(c, "仪表盘数据查询成功", snap)
}
