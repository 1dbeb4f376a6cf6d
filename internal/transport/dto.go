package transport

import "github.com/shopspring/decimal"

// Every Patch*Request carries the row id plus optional fields; a nil field
// leaves the column unchanged.

type IDRequest struct {
	ID uint `json:"id"`
}

type CreateCategoryRequest struct {
	Name string `json:"name"`
	Info string `json:"info"`
	Sort *int   `json:"sort"`
}

type PatchCategoryRequest struct {
	ID   uint    `json:"id"`
	Name *string `json:"name"`
	Info *string `json:"info"`
	Sort *int    `json:"sort"`
}

type CreateProductRequest struct {
	CagName        string          `json:"cag_name"`
	Name           string          `json:"name"`
	Info           string          `json:"info"`
	ImgURL         string          `json:"img_url"`
	Sort           *int            `json:"sort"`
	Discription    string          `json:"discription"`
	Price          decimal.Decimal `json:"price"`
	PriceWholesale string          `json:"price_wholesale"`
	Auto           bool            `json:"auto"`
	Tag            string          `json:"tag"`
	IsActive       *bool           `json:"isactive"`
}

type PatchProductRequest struct {
	ID             uint             `json:"id"`
	CagName        *string          `json:"cag_name"`
	Name           *string          `json:"name"`
	Info           *string          `json:"info"`
	ImgURL         *string          `json:"img_url"`
	Sort           *int             `json:"sort"`
	Discription    *string          `json:"discription"`
	Price          *decimal.Decimal `json:"price"`
	PriceWholesale *string          `json:"price_wholesale"`
	Auto           *bool            `json:"auto"`
	Sales          *int             `json:"sales"`
	Tag            *string          `json:"tag"`
	IsActive       *bool            `json:"isactive"`
}

// CreateCardsRequest.Card holds one code per line.
type CreateCardsRequest struct {
	ProdName string `json:"prod_name"`
	Card     string `json:"card"`
	Reuse    bool   `json:"reuse"`
}

type PatchCardRequest struct {
	ID       uint    `json:"id"`
	ProdName *string `json:"prod_name"`
	Card     *string `json:"card"`
	Reuse    *bool   `json:"reuse"`
	IsUsed   *bool   `json:"isused"`
}

// CardFilter matches rows on every non-nil field.
type CardFilter struct {
	ProdName *string `json:"prod_name"`
	Card     *string `json:"card"`
	Reuse    *bool   `json:"reuse"`
	IsUsed   *bool   `json:"isused"`
}

func (f CardFilter) Empty() bool {
	return f.ProdName == nil && f.Card == nil && f.Reuse == nil && f.IsUsed == nil
}

type UserIDRequest struct {
	ID string `json:"id"`
}

type PatchPaymentRequest struct {
	ID       uint    `json:"id"`
	Icon     *string `json:"icon"`
	Config   *string `json:"config"`
	Info     *string `json:"info"`
	IsActive *bool   `json:"isactive"`
}

type ConfigValueRequest struct {
	Info string `json:"info"`
}

// OtherOptionalRequest holds storefront switches such as login_mode or
// tourist_orders; values may arrive as numbers, bools or strings.
type OtherOptionalRequest map[string]any

// EmailSettings is stored as the JSON config of the email notice.
type EmailSettings struct {
	SendName    string `json:"sendname"`
	SendMail    string `json:"sendmail"`
	SMTPAddress string `json:"smtp_address"`
	SMTPPort    any    `json:"smtp_port"`
	SMTPPwd     string `json:"smtp_pwd"`
}

type TestEmailRequest struct {
	To      string `json:"addressee"`
	Subject string `json:"subject"`
	Content string `json:"content"`
}

type CredentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
