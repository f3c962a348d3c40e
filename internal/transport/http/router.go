package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/openbasket/marketplace/internal/handlers"
	authmw "github.com/openbasket/marketplace/internal/middleware/auth"
)

type Deps struct {
	AuthHandler   *handlers.AuthHandler
	UserHandler   *handlers.UserHandler
	ShopHandler   *handlers.ShopHandler
	ItemHandler   *handlers.ItemHandler
	OrderHandler  *handlers.OrderHandler
	SearchHandler *handlers.SearchHandler
	AuthMW        *authmw.Middleware
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	v1 := e.Group("/api/v1")

	v1.POST("/auth/register", d.AuthHandler.Register)
	v1.POST("/auth/login", d.AuthHandler.Login)
	v1.POST("/auth/logout", d.AuthHandler.Logout)

	v1.GET("/users", d.UserHandler.GetUsers, d.AuthMW.RequireUser)
	v1.GET("/search", d.SearchHandler.Search)

	shops := v1.Group("/shops")
	shops.GET("", d.ShopHandler.GetShops)
	shops.POST("/create", d.ShopHandler.CreateShop, d.AuthMW.RequireShopOwner)
	shops.GET("/mine", d.ShopHandler.GetMyShops, d.AuthMW.RequireShopOwner)
	shops.DELETE("/:id", d.ShopHandler.DeleteShop, d.AuthMW.RequireShopOwner)

	items := v1.Group("/items")
	items.GET("/shop/:shopID", d.ItemHandler.GetShopItems)
	items.POST("/:shopID/add", d.ItemHandler.AddItem, d.AuthMW.RequireShopOwner)
	items.PUT("/:id", d.ItemHandler.UpdateItem, d.AuthMW.RequireShopOwner)
	items.DELETE("/:id", d.ItemHandler.DeleteItem, d.AuthMW.RequireShopOwner)

	orders := v1.Group("/orders")
	orders.POST("/create", d.OrderHandler.CreateOrder, d.AuthMW.RequireUser)
	orders.GET("/my", d.OrderHandler.GetMyOrders, d.AuthMW.RequireUser)
	orders.GET("/shop/:shopID", d.OrderHandler.GetShopOrders, d.AuthMW.RequireShopOwner)
	orders.PATCH("/:id/status", d.OrderHandler.UpdateStatus, d.AuthMW.RequireShopOwner)
}
