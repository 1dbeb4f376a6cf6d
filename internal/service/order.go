package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/360EntSecGroup-Skylar/excelize"
	"github.com/gocarina/gocsv"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/kamishop/internal/logging"
	"github.com/Skotchmaster/kamishop/internal/models"
	"github.com/Skotchmaster/kamishop/internal/mykafka"
	"github.com/Skotchmaster/kamishop/internal/repo"
)

const contactQueryLimit = 20

type OrderService struct {
	Repo     *repo.GormRepo
	Producer mykafka.Publisher
}

func (s *OrderService) ListOrders(ctx context.Context, offset, limit int) (int64, []models.Order, error) {
	return s.Repo.ListOrders(ctx, offset, limit)
}

func (s *OrderService) SearchOrders(ctx context.Context, keyword string, offset, limit int) (int64, []models.Order, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return 0, nil, fmt.Errorf("%w: keyword required", ErrValidation)
	}
	return s.Repo.SearchOrders(ctx, keyword, offset, limit)
}

func (s *OrderService) OrdersByContact(ctx context.Context, contact string) ([]models.Order, error) {
	contact = strings.TrimSpace(contact)
	if contact == "" {
		return nil, fmt.Errorf("%w: contact required", ErrValidation)
	}
	return s.Repo.OrdersByContact(ctx, contact, contactQueryLimit)
}

func (s *OrderService) DeleteOrder(ctx context.Context, id uint) error {
	if err := s.Repo.DeleteOrder(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: order %d", ErrNotFound, id)
		}
		return err
	}
	publish(ctx, s.Producer, mykafka.TopicOrderEvents, fmt.Sprint(id), "order_deleted", map[string]uint{"id": id})
	return nil
}

// DeletePendingOrders removes abandoned orders (status false or null).
func (s *OrderService) DeletePendingOrders(ctx context.Context) (int64, error) {
	var removed int64
	err := s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		n, err := tx.DeletePendingOrders(ctx)
		removed = n
		return err
	})
	if err != nil {
		return 0, err
	}

	logging.FromContext(ctx).Infow("pending_orders_purged", "removed", removed)
	publish(ctx, s.Producer, mykafka.TopicOrderEvents, "pending", "pending_orders_purged", map[string]int64{"removed": removed})
	return removed, nil
}

// XLSXSheet is the sheet order exports are written to.
const XLSXSheet = "Sheet1"

var orderExportHeader = []string{
	"id", "out_order_id", "name", "payment", "contact", "contact_txt",
	"price", "num", "total_price", "status", "updatetime",
}

type orderExportRow struct {
	ID         uint   `csv:"id"`
	OutOrderID string `csv:"out_order_id"`
	Name       string `csv:"name"`
	Payment    string `csv:"payment"`
	Contact    string `csv:"contact"`
	ContactTxt string `csv:"contact_txt"`
	Price      string `csv:"price"`
	Num        int    `csv:"num"`
	TotalPrice string `csv:"total_price"`
	Status     string `csv:"status"`
	UpdateTime string `csv:"updatetime"`
}

func (r orderExportRow) cells() []any {
	return []any{
		r.ID, r.OutOrderID, r.Name, r.Payment, r.Contact, r.ContactTxt,
		r.Price, r.Num, r.TotalPrice, r.Status, r.UpdateTime,
	}
}

func orderStatus(o models.Order) string {
	if o.Completed() {
		return "paid"
	}
	return "pending"
}

func (s *OrderService) exportRows(ctx context.Context, loc *time.Location) ([]orderExportRow, error) {
	if loc == nil {
		loc = time.UTC
	}

	rows := []orderExportRow{}
	err := s.Repo.EachOrderBatch(ctx, func(batch []models.Order) error {
		for _, o := range batch {
			total := ""
			if o.TotalPrice.Valid {
				total = o.TotalPrice.Decimal.StringFixed(2)
			}
			rows = append(rows, orderExportRow{
				ID:         o.ID,
				OutOrderID: o.OutOrderID,
				Name:       o.Name,
				Payment:    o.Payment,
				Contact:    o.Contact,
				ContactTxt: o.ContactTxt,
				Price:      o.Price.StringFixed(2),
				Num:        o.Num,
				TotalPrice: total,
				Status:     orderStatus(o),
				UpdateTime: o.UpdateTime.In(loc).Format("2006-01-02 15:04:05"),
			})
		}
		return nil
	})
	return rows, err
}

// ExportCSV writes every order to w with times in loc. Card contents are left
// out of the export.
func (s *OrderService) ExportCSV(ctx context.Context, w io.Writer, loc *time.Location) (int, error) {
	rows, err := s.exportRows(ctx, loc)
	if err != nil {
		return 0, err
	}
	if err := gocsv.Marshal(&rows, w); err != nil {
		return 0, fmt.Errorf("encode orders csv: %w", err)
	}
	return len(rows), nil
}

// ExportXLSX writes the same rows as ExportCSV into the first sheet of a
// workbook.
func (s *OrderService) ExportXLSX(ctx context.Context, w io.Writer, loc *time.Location) (int, error) {
	rows, err := s.exportRows(ctx, loc)
	if err != nil {
		return 0, err
	}

	f := excelize.NewFile()
	for col, name := range orderExportHeader {
		f.SetCellValue(XLSXSheet, cellName(col, 1), name)
	}
	for i, row := range rows {
		line := i + 2
		for col, v := range row.cells() {
			f.SetCellValue(XLSXSheet, cellName(col, line), v)
		}
	}
	if err := f.Write(w); err != nil {
		return 0, fmt.Errorf("encode orders xlsx: %w", err)
	}
	return len(rows), nil
}

func cellName(col, row int) string {
	return fmt.Sprintf("%c%d", 'A'+col, row)
}

type UserService struct {
	Repo *repo.GormRepo
}

func (s *UserService) ListUsers(ctx context.Context, offset, limit int) (int64, []models.User, error) {
	return s.Repo.ListUsers(ctx, offset, limit)
}

func (s *UserService) SearchUsers(ctx context.Context, email string, offset, limit int) (int64, []models.User, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return 0, nil, fmt.Errorf("%w: email required", ErrValidation)
	}
	return s.Repo.SearchUsers(ctx, email, offset, limit)
}

func (s *UserService) DeleteUser(ctx context.Context, rawID string) error {
	id, err := uuid.Parse(rawID)
	if err != nil {
		return fmt.Errorf("%w: id is not a uuid", ErrValidation)
	}
	if err := s.Repo.DeleteUser(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: user %s", ErrNotFound, id)
		}
		return err
	}
	return nil
}
