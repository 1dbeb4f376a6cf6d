package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

type Category struct {
	ID   uint   `gorm:"primaryKey"                 json:"id"`
	Name string `gorm:"size:64;uniqueIndex;not null" json:"name"`
	Info string `gorm:"size:255"                   json:"info"`
	Sort int    `gorm:"not null"                   json:"sort"`
}

// Product.CagName refers to Category.Name without a foreign key.
type Product struct {
	ID             uint            `gorm:"primaryKey"                   json:"id"`
	CagName        string          `gorm:"column:cag_name;size:64;index" json:"cag_name"`
	Name           string          `gorm:"size:64;uniqueIndex;not null" json:"name"`
	Info           string          `gorm:"size:255"                     json:"info"`
	ImgURL         string          `gorm:"column:img_url;size:255"      json:"img_url"`
	Sort           int             `gorm:"not null"                     json:"sort"`
	Discription    string          `gorm:"type:text"                    json:"discription"`
	Price          decimal.Decimal `gorm:"type:decimal(12,2);not null"  json:"price"`
	PriceWholesale string          `gorm:"column:price_wholesale;size:255" json:"price_wholesale"`
	Auto           bool            `gorm:"not null"                     json:"auto"`
	Sales          int             `gorm:"not null"                     json:"sales"`
	Tag            string          `gorm:"size:32"                      json:"tag"`
	IsActive       bool            `gorm:"column:isactive;not null"     json:"isactive"`
}

// Card.ProdName refers to Product.Name without a foreign key, so renaming a
// product orphans its cards.
type Card struct {
	ID       uint   `gorm:"primaryKey"                    json:"id"`
	ProdName string `gorm:"column:prod_name;size:64;index" json:"prod_name"`
	Card     string `gorm:"type:text;not null"            json:"card"`
	Reuse    bool   `gorm:"default:false"                 json:"reuse"`
	IsUsed   bool   `gorm:"column:isused;default:false"   json:"isused"`
}

// Order.Status nil or false means pending.
type Order struct {
	ID         uint                `gorm:"primaryKey"                          json:"id"`
	OutOrderID string              `gorm:"column:out_order_id;size:64;index"   json:"out_order_id"`
	Name       string              `gorm:"size:64;index"                       json:"name"`
	Payment    string              `gorm:"size:64"                             json:"payment"`
	Contact    string              `gorm:"size:64;index"                       json:"contact"`
	ContactTxt string              `gorm:"column:contact_txt;size:255"         json:"contact_txt"`
	Price      decimal.Decimal     `gorm:"type:decimal(12,2);not null"         json:"price"`
	Num        int                 `gorm:"not null"                            json:"num"`
	TotalPrice decimal.NullDecimal `gorm:"column:total_price;type:decimal(12,2)" json:"total_price"`
	Card       *string             `gorm:"type:text"                           json:"card"`
	Status     *bool               `gorm:"default:true;index"                  json:"status"`
	UpdateTime time.Time           `gorm:"column:updatetime;autoUpdateTime;index" json:"updatetime"`
}

func (o Order) Completed() bool {
	return o.Status != nil && *o.Status
}

// BeforeSave stores timestamps in UTC so text-backed engines compare them in
// order.
func (o *Order) BeforeSave(*gorm.DB) error {
	if !o.UpdateTime.IsZero() {
		o.UpdateTime = o.UpdateTime.UTC()
	}
	return nil
}

type Config struct {
	ID          uint      `gorm:"primaryKey"                 json:"id"`
	Name        string    `gorm:"size:64;uniqueIndex;not null" json:"name"`
	Info        string    `gorm:"type:text"                  json:"info"`
	Description string    `gorm:"size:255"                   json:"description"`
	IsShow      bool      `gorm:"column:isshow"              json:"isshow"`
	UpdateTime  time.Time `gorm:"column:updatetime;autoUpdateTime" json:"updatetime"`
}

// Payment.Config is an opaque JSON document owned by the gateway.
type Payment struct {
	ID       uint   `gorm:"primaryKey"                 json:"id"`
	Name     string `gorm:"size:64;uniqueIndex;not null" json:"name"`
	Icon     string `gorm:"size:255"                   json:"icon"`
	Config   string `gorm:"type:text"                  json:"config"`
	Info     string `gorm:"size:255"                   json:"info"`
	IsActive bool   `gorm:"column:isactive;not null"   json:"isactive"`
}

type Notice struct {
	ID           uint   `gorm:"primaryKey"                 json:"id"`
	Name         string `gorm:"size:64;uniqueIndex;not null" json:"name"`
	Config       string `gorm:"type:text"                  json:"config"`
	AdminAccount string `gorm:"column:admin_account;size:128" json:"admin_account"`
	AdminSwitch  bool   `gorm:"column:admin_switch"        json:"admin_switch"`
	UserSwitch   bool   `gorm:"column:user_switch"         json:"user_switch"`
}

type User struct {
	ID           uuid.UUID       `gorm:"size:36;primaryKey"          json:"id"`
	Email        string          `gorm:"size:128;uniqueIndex;not null" json:"email"`
	PasswordHash string          `gorm:"not null"                    json:"-"`
	Role         string          `gorm:"size:16;not null"            json:"role"`
	Money        decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"money"`
	UpdateTime   time.Time       `gorm:"column:updatetime;autoUpdateTime" json:"updatetime"`
}

func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

type RefreshToken struct {
	ID        uint      `gorm:"primaryKey"            json:"id"`
	UserID    uuid.UUID `gorm:"size:36;index;not null"   json:"user_id"`
	JTI       string    `gorm:"size:64;uniqueIndex;not null" json:"jti"`
	ExpiresAt time.Time `gorm:"not null"              json:"expires_at"`
	Revoked   bool      `gorm:"default:false"         json:"revoked"`
}

func All() []any {
	return []any{
		&Category{}, &Product{}, &Card{}, &Order{},
		&Config{}, &Payment{}, &Notice{}, &User{}, &RefreshToken{},
	}
}
