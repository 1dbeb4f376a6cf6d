package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Skotchmaster/kamishop/internal/logging"
	"github.com/Skotchmaster/kamishop/internal/models"
)

// OrderIDs generates out_order_id values for demo orders.
type OrderIDs struct {
	node *snowflake.Node
}

func NewOrderIDs(nodeID int64) (*OrderIDs, error) {
	n, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, fmt.Errorf("snowflake node: %w", err)
	}
	return &OrderIDs{node: n}, nil
}

func (g *OrderIDs) Next() string {
	return "Order_" + g.node.Generate().String()
}

// Example fills an empty database with a demo catalog. It does nothing when
// any category exists.
func Example(ctx context.Context, db *gorm.DB, now time.Time) error {
	l := logging.FromContext(ctx).With("component", "seed")

	var n int64
	if err := db.WithContext(ctx).Model(&models.Category{}).Count(&n).Error; err != nil {
		return fmt.Errorf("seed check: %w", err)
	}
	if n > 0 {
		l.Infow("seed_skipped", "reason", "catalog not empty")
		return nil
	}

	ids, err := NewOrderIDs(1)
	if err != nil {
		return err
	}

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, rows := range []any{
			categories(), products(), cards(), configs(), payments(), notices(), orders(ids, now),
		} {
			if err := tx.Create(rows).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("seed example data: %w", err)
	}
	l.Infow("seed_done")
	return nil
}

func categories() []models.Category {
	return []models.Category{
		{Name: "账户ID", Info: "虚拟账号类商品", Sort: 100},
		{Name: "激活码", Info: "单独激活类商品", Sort: 1000},
		{Name: "第三分类", Info: "单独激活类商品", Sort: 1000},
	}
}

func products() []models.Product {
	p := func(cag, name string, price string) models.Product {
		return models.Product{
			CagName:     cag,
			Name:        name,
			Info:        "商品简述信息演示XXXX",
			ImgURL:      "images/null.png",
			Sort:        100,
			Discription: "示例：卡密格式：账号------密码-----",
			Price:       decimal.RequireFromString(price),
			Tag:         "优惠折扣",
			IsActive:    true,
		}
	}
	wholesale := p("账户ID", "批发商品演示", "9.99")
	wholesale.PriceWholesale = "9#9.9,19#8.8"
	return []models.Product{
		p("账户ID", "普通商品演示", "9.99"),
		wholesale,
		p("账户ID", "普通商品DD", "9.99"),
		p("激活码", "重复卡密演示", "9.99"),
		p("激活码", "普通商品CC", "9.99"),
		p("激活码", "普通商品BB", "9.99"),
	}
}

func cards() []models.Card {
	return []models.Card{
		{ProdName: "普通商品演示", Card: "454545454454545454"},
		{ProdName: "批发商品演示", Card: "555555555555555555"},
		{ProdName: "批发商品演示", Card: "666666666666666666"},
		{ProdName: "重复卡密演示", Card: "666666666666666666", Reuse: true},
	}
}

func configs() []models.Config {
	optional, _ := json.Marshal(map[string]int{
		"login_mode":                   1,
		"tourist_orders":               1,
		"front_desk_inventory_display": 1,
		"front_end_sales_display":      1,
		"sales_statistics":             1,
	})
	return []models.Config{
		{Name: "web_name", Info: "KAMIFAKA", Description: "网站名称", IsShow: true},
		{Name: "web_keyword", Info: "关键词、收录词汇", Description: "网站关键词", IsShow: true},
		{Name: "description", Info: "网站描述信息。。。", Description: "网站描述", IsShow: true},
		{Name: "web_url", Info: "http://localhost:80", Description: "必填，网站实际地址", IsShow: true},
		{Name: "contact_us", Info: "<p>示例，请在管理后台>>网站设置里修改，支持HTML格式</p>", Description: "首页-联系我们", IsShow: true},
		{Name: "home_notice", Info: "稳定版演示站点，公告信息可在后台设置", Description: "首页公告", IsShow: true},
		{Name: "icp", Info: "川ICP备1101XXXX号-10", Description: "底部备案", IsShow: true},
		{Name: "other_optional", Info: string(optional), Description: "可选参数", IsShow: true},
		{Name: "theme", Info: "list", Description: "主题", IsShow: false},
	}
}

func payments() []models.Payment {
	return []models.Payment{
		{Name: "支付宝当面付", Icon: "支付宝", Config: `{"APPID":"XXXXXXXX","alipay_public_key":"","app_private_key":""}`, Info: "alipay.com 官方接口0.38~0.6%", IsActive: true},
		{Name: "微信官方接口", Icon: "微信支付", Config: `{"APPID":"XXXXXXXX","MCH_ID":"XXXXXX","APP_SECRET":"XXXXXX"}`, Info: "pay.weixin.qq.com 微信官方0.38%需要营业执照"},
		{Name: "QQ钱包", Icon: "QQ支付", Config: `{"mch_id":"XXXXXXXX","key":"YYYYY"}`, Info: "mp.qpay.tenpay.com QQ官方0.6%需要营业执照"},
		{Name: "V免签支付宝", Icon: "支付宝", Config: `{"API":"http://example.com","KEY":"YYYYYYYY"}`, Info: "0费率实时到账"},
	}
}

func notices() []models.Notice {
	return []models.Notice{
		{
			Name:         "邮箱通知",
			Config:       `{"sendname":"no_replay","sendmail":"demo@gmail.com","smtp_address":"smtp.163.com","smtp_port":465,"smtp_pwd":"ZZZZZZZ"}`,
			AdminAccount: "demo@qq.com",
		},
		{Name: "微信通知", Config: `{"token":"XXXXXX"}`, AdminAccount: "xxxxxxxxxxxxxxxx"},
		{Name: "TG通知", Config: `{"TG_TOKEN":"XXXXXX"}`, AdminAccount: "445545444"},
	}
}

func orders(ids *OrderIDs, now time.Time) []models.Order {
	done, pending := true, false
	card := "454545454454545454"
	o := func(contact, payment string, num int, total string, status *bool, at time.Time) models.Order {
		return models.Order{
			OutOrderID: ids.Next(),
			Name:       "普通商品演示",
			Payment:    payment,
			Contact:    contact,
			Price:      decimal.RequireFromString("9.99"),
			Num:        num,
			TotalPrice: decimal.NewNullDecimal(decimal.RequireFromString(total)),
			Card:       &card,
			Status:     status,
			UpdateTime: at,
		}
	}
	return []models.Order{
		o("472835979", "支付宝当面付", 1, "9.99", &done, now.Add(-2*time.Hour)),
		o("458721@qq.com", "支付宝当面付", 3, "29.97", &done, now.AddDate(0, 0, -1)),
		o("demo@gmail.com", "V免签支付宝", 1, "9.99", &done, now.AddDate(0, -1, 0)),
		o("154311", "支付宝当面付", 2, "19.98", &pending, now.Add(-30*time.Minute)),
	}
}
