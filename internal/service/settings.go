package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cast"
	"gorm.io/gorm"

	"github.com/Skotchmaster/kamishop/internal/mailer"
	"github.com/Skotchmaster/kamishop/internal/models"
	"github.com/Skotchmaster/kamishop/internal/repo"
	"github.com/Skotchmaster/kamishop/internal/transport"
)

const (
	ConfigHomeNotice    = "home_notice"
	ConfigICP           = "icp"
	ConfigOtherOptional = "other_optional"

	NoticeEmail         = "邮箱通知"
	defaultAdminAccount = "admin@qq.com"

	defaultTestSubject = "测试邮件"
	defaultTestContent = "今日报告已生成，请查收。"
)

// DefaultOtherOptional lists the storefront switches and their initial state.
func DefaultOtherOptional() map[string]any {
	return map[string]any{
		"login_mode":                   1,
		"tourist_orders":               1,
		"front_desk_inventory_display": 1,
		"front_end_sales_display":      1,
		"sales_statistics":             1,
	}
}

type SettingsService struct {
	Repo   *repo.GormRepo
	Mailer mailer.Sender
}

func (s *SettingsService) OtherConfig(ctx context.Context) ([]models.Config, error) {
	return s.Repo.ListConfigs(ctx, false)
}

func (s *SettingsService) SetHomeNotice(ctx context.Context, info string) error {
	return s.Repo.UpsertConfig(ctx, &models.Config{Name: ConfigHomeNotice, Info: info, Description: "首页公告", IsShow: true})
}

func (s *SettingsService) SetICP(ctx context.Context, info string) error {
	return s.Repo.UpsertConfig(ctx, &models.Config{Name: ConfigICP, Info: info, Description: "底部备案", IsShow: true})
}

// SetOtherOptional overlays req on the defaults. Known switches are coerced to
// 0 or 1; other keys are stored as sent.
func (s *SettingsService) SetOtherOptional(ctx context.Context, req transport.OtherOptionalRequest) (map[string]any, error) {
	merged := DefaultOtherOptional()
	for k, v := range req {
		if _, known := merged[k]; !known {
			merged[k] = v
			continue
		}
		n, err := cast.ToIntE(v)
		if err != nil || (n != 0 && n != 1) {
			return nil, fmt.Errorf("%w: %s must be 0 or 1", ErrValidation, k)
		}
		merged[k] = n
	}

	raw, err := json.Marshal(merged)
	if err != nil {
		return nil, fmt.Errorf("encode other_optional: %w", err)
	}
	cfg := &models.Config{Name: ConfigOtherOptional, Info: string(raw), Description: "可选参数", IsShow: true}
	if err := s.Repo.UpsertConfig(ctx, cfg); err != nil {
		return nil, err
	}
	return merged, nil
}

func (s *SettingsService) ListPayments(ctx context.Context) ([]models.Payment, error) {
	return s.Repo.ListPayments(ctx)
}

func (s *SettingsService) PatchPayment(ctx context.Context, req transport.PatchPaymentRequest) (*models.Payment, error) {
	if req.ID == 0 {
		return nil, fmt.Errorf("%w: id required", ErrValidation)
	}
	if req.Config != nil && !json.Valid([]byte(*req.Config)) {
		return nil, fmt.Errorf("%w: config must be JSON", ErrValidation)
	}
	p, err := s.Repo.PatchPayment(ctx, req)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: payment %d", ErrNotFound, req.ID)
	}
	return p, err
}

func (s *SettingsService) ListNotices(ctx context.Context) ([]models.Notice, error) {
	return s.Repo.ListNotices(ctx)
}

// SaveEmailSettings stores the SMTP account on the email notice. Admin account
// and switches of an existing notice are kept.
func (s *SettingsService) SaveEmailSettings(ctx context.Context, req transport.EmailSettings) error {
	port, err := smtpPort(req.SMTPPort)
	if err != nil {
		return err
	}
	if strings.TrimSpace(req.SMTPAddress) == "" {
		return fmt.Errorf("%w: smtp_address required", ErrValidation)
	}
	if strings.TrimSpace(req.SendMail) == "" {
		return fmt.Errorf("%w: sendmail required", ErrValidation)
	}
	req.SMTPPort = port

	raw, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("encode email settings: %w", err)
	}

	notice := &models.Notice{Name: NoticeEmail, Config: string(raw), AdminAccount: defaultAdminAccount}
	existing, err := s.Repo.GetNotice(ctx, NoticeEmail)
	switch {
	case err == nil:
		notice.AdminAccount = existing.AdminAccount
		notice.AdminSwitch = existing.AdminSwitch
		notice.UserSwitch = existing.UserSwitch
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return err
	}
	return s.Repo.UpsertNotice(ctx, notice)
}

// SendTestEmail sends one message through the saved SMTP account.
func (s *SettingsService) SendTestEmail(ctx context.Context, req transport.TestEmailRequest) error {
	n, err := s.Repo.GetNotice(ctx, NoticeEmail)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: email settings not saved", ErrValidation)
		}
		return err
	}

	var es transport.EmailSettings
	if err := json.Unmarshal([]byte(n.Config), &es); err != nil {
		return fmt.Errorf("%w: stored email settings unreadable", ErrValidation)
	}
	port, err := smtpPort(es.SMTPPort)
	if err != nil {
		return err
	}

	msg := mailer.Message{
		FromName: es.SendName,
		From:     es.SendMail,
		To:       strings.TrimSpace(req.To),
		Subject:  req.Subject,
		Body:     req.Content,
	}
	if msg.To == "" {
		msg.To = n.AdminAccount
	}
	if msg.To == "" {
		msg.To = defaultAdminAccount
	}
	if msg.Subject == "" {
		msg.Subject = defaultTestSubject
	}
	if msg.Body == "" {
		msg.Body = defaultTestContent
	}

	srv := mailer.Server{Host: es.SMTPAddress, Port: port, User: es.SendMail, Password: es.SMTPPwd}
	if err := s.Mailer.Send(ctx, srv, msg); err != nil {
		return fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	return nil
}

func smtpPort(v any) (int, error) {
	port, err := cast.ToIntE(v)
	if err != nil || port < 1 || port > 65535 {
		return 0, fmt.Errorf("%w: smtp_port must be 1-65535", ErrValidation)
	}
	return port, nil
}

// PublicConfig returns the configs the storefront may render.
func (s *SettingsService) PublicConfig(ctx context.Context) ([]models.Config, error) {
	return s.Repo.ListConfigs(ctx, true)
}
