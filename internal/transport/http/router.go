package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/Skotchmaster/kamishop/internal/handlers"
	authmw "github.com/Skotchmaster/kamishop/internal/middleware/auth"
)

type Deps struct {
	DB *gorm.DB

	Guard *authmw.Guard
	// AdminMiddleware runs after the admin guard, e.g. CSRF protection.
	AdminMiddleware []echo.MiddlewareFunc

	AuthHandler       *handlers.AuthHandler
	DashboardHandler  *handlers.DashboardHandler
	CatalogHandler    *handlers.CatalogHandler
	CardHandler       *handlers.CardHandler
	OrderHandler      *handlers.OrderHandler
	UserHandler       *handlers.UserHandler
	SettingsHandler   *handlers.SettingsHandler
	ImageHandler      *handlers.ImageHandler
	StorefrontHandler *handlers.StorefrontHandler
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", d.ready)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	auth := e.Group("/api/auth")
	auth.POST("/register", d.AuthHandler.Register)
	auth.POST("/login", d.AuthHandler.Login)
	auth.POST("/logout", d.AuthHandler.Logout)
	auth.GET("/me", d.AuthHandler.Me, d.Guard.RequireLogin())

	v1 := e.Group("/api/v1")
	v1.GET("/get_categories", d.StorefrontHandler.Categories)
	v1.GET("/get_products", d.StorefrontHandler.Products)
	v1.GET("/get_config", d.StorefrontHandler.Config)
	v1.GET("/search", d.StorefrontHandler.Search)
	v1.GET("/order_query/:contact", d.StorefrontHandler.OrderQuery)

	admin := e.Group("/api/backend", append([]echo.MiddlewareFunc{d.Guard.RequireAdmin()}, d.AdminMiddleware...)...)

	admin.GET("/dashboard", d.DashboardHandler.Get)

	admin.GET("/class_read/:skip/:limit", d.CatalogHandler.ReadCategories)
	admin.POST("/class_create", d.CatalogHandler.CreateCategory)
	admin.PATCH("/class_update", d.CatalogHandler.UpdateCategory)
	admin.DELETE("/class_delete", d.CatalogHandler.DeleteCategory)

	admin.GET("/product_read/:skip/:limit", d.CatalogHandler.ReadProducts)
	admin.POST("/product_create", d.CatalogHandler.CreateProduct)
	admin.PATCH("/product_update", d.CatalogHandler.UpdateProduct)
	admin.DELETE("/product_delete", d.CatalogHandler.DeleteProduct)

	admin.GET("/cami_read/:skip/:limit", d.CardHandler.Read)
	admin.POST("/cami_create", d.CardHandler.Create)
	admin.PATCH("/cami_update", d.CardHandler.Update)
	admin.DELETE("/cami_delete", d.CardHandler.Delete)
	admin.GET("/cami_search/:cardstr/:skip/:limit", d.CardHandler.Search)
	admin.DELETE("/cami_batch_delete", d.CardHandler.BatchDelete)
	admin.DELETE("/cami_clear_duplicates", d.CardHandler.ClearDuplicates)

	admin.GET("/order_read/:skip/:limit", d.OrderHandler.Read)
	admin.GET("/order_search/:keyword/:skip/:limit", d.OrderHandler.Search)
	admin.DELETE("/order_delete", d.OrderHandler.Delete)
	admin.DELETE("/order_delete_all", d.OrderHandler.DeletePending)
	admin.GET("/order_export", d.OrderHandler.Export)

	admin.GET("/user_read/:skip/:limit", d.UserHandler.Read)
	admin.GET("/user_search/:email/:skip/:limit", d.UserHandler.Search)
	admin.DELETE("/user_delete", d.UserHandler.Delete)

	admin.GET("/payment_read", d.SettingsHandler.ReadPayments)
	admin.PATCH("/payment_update", d.SettingsHandler.UpdatePayment)

	admin.GET("/get_other_config", d.SettingsHandler.OtherConfig)
	admin.PATCH("/home_notice", d.SettingsHandler.HomeNotice)
	admin.PATCH("/icp", d.SettingsHandler.ICP)
	admin.PATCH("/other_optional", d.SettingsHandler.OtherOptional)

	admin.GET("/notice_read", d.SettingsHandler.ReadNotices)
	admin.PATCH("/save_email_settings", d.SettingsHandler.SaveEmailSettings)
	admin.POST("/send_email_test", d.SettingsHandler.SendEmailTest)

	admin.GET("/drawingbed_read/:skip/:limit", d.ImageHandler.Read)
	admin.GET("/drawingbed_show/:filename", d.ImageHandler.Show)
	admin.POST("/drawingbed_create", d.ImageHandler.Create)
	admin.DELETE("/drawingbed_delete/:filename", d.ImageHandler.Delete)
}

func (d *Deps) ready(c echo.Context) error {
	if d.DB == nil {
		return c.NoContent(http.StatusOK)
	}
	sqlDB, err := d.DB.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request().Context())
	}
	if err != nil {
		return c.NoContent(http.StatusServiceUnavailable)
	}
	return c.NoContent(http.StatusOK)
}
