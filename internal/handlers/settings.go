package handlers

import (
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/kamishop/internal/logging"
	"github.com/Skotchmaster/kamishop/internal/service"
	"github.com/Skotchmaster/kamishop/internal/transport"
)

type SettingsHandler struct {
	Svc *service.SettingsService
}

func (h *SettingsHandler) ReadPayments(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "payment.read")

	items, err := h.Svc.ListPayments(ctx)
	if err != nil {
		return fail(c, l, "payment_read_failed", err)
	}
	return ok(c, "支付接口查询成功", listData(int64(len(items)), items))
}

func (h *SettingsHandler) UpdatePayment(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "payment.update")

	var req transport.PatchPaymentRequest
	if err := bind(c, &req); err != nil {
		return fail(c, l, "payment_update_failed", err)
	}
	p, err := h.Svc.PatchPayment(ctx, req)
	if err != nil {
		return fail(c, l, "payment_update_failed", err)
	}
	return ok(c, "支付接口设置更新成功", p)
}

func (h *SettingsHandler) OtherConfig(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "config.read")

	items, err := h.Svc.OtherConfig(ctx)
	if err != nil {
		return fail(c, l, "config_read_failed", err)
	}
	return ok(c, "综合设置查询成功", listData(int64(len(items)), items))
}

func (h *SettingsHandler) HomeNotice(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "config.home_notice")

	var req transport.ConfigValueRequest
	if err := bind(c, &req); err != nil {
		return fail(c, l, "home_notice_failed", err)
	}
	if err := h.Svc.SetHomeNotice(ctx, req.Info); err != nil {
		return fail(c, l, "home_notice_failed", err)
	}
	return ok(c, "店铺公告更新成功", req)
}

func (h *SettingsHandler) ICP(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "config.icp")

	var req transport.ConfigValueRequest
	if err := bind(c, &req); err != nil {
		return fail(c, l, "icp_failed", err)
	}
	if err := h.Svc.SetICP(ctx, req.Info); err != nil {
		return fail(c, l, "icp_failed", err)
	}
	return ok(c, "底部备案更新成功", req)
}

func (h *SettingsHandler) OtherOptional(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "config.other_optional")

	req := transport.OtherOptionalRequest{}
	if err := (&echo.DefaultBinder{}).BindBody(c, &req); err != nil {
		return fail(c, l, "other_optional_failed", badRequest("invalid request body"))
	}
	merged, err := h.Svc.SetOtherOptional(ctx, req)
	if err != nil {
		return fail(c, l, "other_optional_failed", err)
	}
	return ok(c, "可选参数更新成功", merged)
}

func (h *SettingsHandler) ReadNotices(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "notice.read")

	items, err := h.Svc.ListNotices(ctx)
	if err != nil {
		return fail(c, l, "notice_read_failed", err)
	}
	return ok(c, "消息通知查询成功", listData(int64(len(items)), items))
}

func (h *SettingsHandler) SaveEmailSettings(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "notice.save_email_settings")

	var req transport.EmailSettings
	if err := bind(c, &req); err != nil {
		return fail(c, l, "save_email_settings_failed", err)
	}
	if err := h.Svc.SaveEmailSettings(ctx, req); err != nil {
		return fail(c, l, "save_email_settings_failed", err)
	}
	return ok(c, "SMTP设置保存成功", nil)
}

func (h *SettingsHandler) SendEmailTest(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "notice.send_email_test")

	var req transport.TestEmailRequest
	if err := bind(c, &req); err != nil {
		return fail(c, l, "send_email_test_failed", err)
	}
	if err := h.Svc.SendTestEmail(ctx, req); err != nil {
		return fail(c, l, "send_email_test_failed", err)
	}
	l.Infow("send_email_test_success")
	return ok(c, "SMTP测试成功", nil)
}
