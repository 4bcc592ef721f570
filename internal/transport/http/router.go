package httpserver

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/Skotchmaster/tea_shop/internal/filters"
	"github.com/Skotchmaster/tea_shop/internal/handlers"
	"github.com/Skotchmaster/tea_shop/internal/service/token"
)

type Deps struct {
	DB              *gorm.DB
	CategoryHandler *handlers.CategoryHandler
	ProductHandler  *handlers.ProductHandler
	CustomerHandler *handlers.CustomerHandler
	OrderHandler    *handlers.OrderHandler
	AuthHandler     *handlers.AuthHandler
	ExportHandler   *handlers.ExportHandler
	SearchHandler   *handlers.SearchHandler
	Tokens          *token.Service
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(200) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(200) })
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	v1 := e.Group("/api/v1")

	v1.POST("/register", d.AuthHandler.Register)
	v1.POST("/login", d.AuthHandler.Login)
	v1.POST("/logout", d.AuthHandler.LogOut)

	if d.SearchHandler != nil {
		v1.GET("/search", d.SearchHandler.Handler)
	}

	categories := v1.Group("/categories")
	categories.GET("", d.CategoryHandler.GetCategories)
	categories.GET("/:id", d.CategoryHandler.GetCategory)
	categories.POST("", d.CategoryHandler.CreateCategory, d.Tokens.RequireAdmin)
	categories.PUT("/:id", d.CategoryHandler.PatchCategory, d.Tokens.RequireAdmin)
	categories.PATCH("/:id", d.CategoryHandler.PatchCategory, d.Tokens.RequireAdmin)
	categories.DELETE("/:id", d.CategoryHandler.DeleteCategory, d.Tokens.RequireAdmin)

	products := v1.Group("/products")
	products.GET("", d.ProductHandler.GetProducts)
	products.GET("/search", d.ProductHandler.Search)
	for _, f := range filters.All() {
		products.GET("/"+f.String(), d.ProductHandler.Filter(f))
	}
	products.GET("/:id", d.ProductHandler.GetProduct)
	products.POST("/:id/reduce_stock", d.ProductHandler.ReduceStock)
	products.POST("", d.ProductHandler.CreateProduct, d.Tokens.RequireAdmin)
	products.PUT("/:id", d.ProductHandler.PatchProduct, d.Tokens.RequireAdmin)
	products.PATCH("/:id", d.ProductHandler.PatchProduct, d.Tokens.RequireAdmin)
	products.DELETE("/:id", d.ProductHandler.DeleteProduct, d.Tokens.RequireAdmin)

	customers := v1.Group("/customers", d.Tokens.RequireAdmin)
	customers.GET("", d.CustomerHandler.GetCustomers)
	customers.GET("/:id", d.CustomerHandler.GetCustomer)
	customers.POST("", d.CustomerHandler.CreateCustomer)
	customers.PATCH("/:id", d.CustomerHandler.PatchCustomer)
	customers.DELETE("/:id", d.CustomerHandler.DeleteCustomer)

	orders := v1.Group("/orders", d.Tokens.RequireAdmin)
	orders.GET("", d.OrderHandler.GetOrders)
	orders.GET("/:id", d.OrderHandler.GetOrder)
	orders.POST("", d.OrderHandler.CreateOrder)
	orders.PATCH("/:id/status", d.OrderHandler.UpdateStatus)
	orders.DELETE("/:id", d.OrderHandler.DeleteOrder)

	admin := v1.Group("/admin", d.Tokens.RequireAdmin)
	admin.GET("/export/categories.csv", d.ExportHandler.CategoriesCSV)
	admin.GET("/export/products.csv", d.ExportHandler.ProductsCSV)
}
