// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"storefront/internal/delivery/http/middleware"
	"storefront/internal/delivery/http/router/handler"
	"storefront/internal/domain/service"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	AccountHandler  *handler.AccountHandler
	CatalogHandler  *handler.CatalogHandler
	CartHandler     *handler.CartHandler
	OrderHandler    *handler.OrderHandler
	RefundHandler   *handler.RefundHandler
	ReviewHandler   *handler.ReviewHandler
	WishlistHandler *handler.WishlistHandler
	AuthMiddleware  *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	params RouterParams
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{params: params}
}

// RegisterRoutes sets up all the API routes for the application.
// Three secret chains split the surface: the storefront chain accepts any
// audience, the back-office chain accepts managers, the sales chain puts
// sales admins first for pricing and refund decisions.
func (r *router) RegisterRoutes(e *echo.Echo) {
	p := r.params

	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	// Public routes
	authGroup := e.Group("/auth")
	{
		authGroup.POST("/register", p.AccountHandler.Register)
		authGroup.POST("/login", p.AccountHandler.Login)
		authGroup.POST("/password-reset", p.AccountHandler.RequestPasswordReset)
		authGroup.POST("/password-reset/confirm", p.AccountHandler.ConfirmPasswordReset)
	}

	productGroup := e.Group("/products")
	{
		productGroup.GET("", p.CatalogHandler.ListProducts)
		productGroup.GET("/:id", p.CatalogHandler.GetProduct)
		productGroup.GET("/:id/reviews", p.ReviewHandler.ListByProduct)
	}

	// Authenticated storefront routes: any audience may call them.
	userGroup := e.Group("/user")
	userGroup.Use(p.AuthMiddleware.AuthenticateWith(service.ChainStorefront))
	{
		userGroup.GET("/profile", p.AccountHandler.GetProfile)

		userGroup.GET("/cart", p.CartHandler.ListCart)
		userGroup.POST("/cart/items", p.CartHandler.AddItem)
		userGroup.PUT("/cart/items/:productId", p.CartHandler.UpdateQuantity)
		userGroup.DELETE("/cart/items/:productId", p.CartHandler.RemoveItem)

		userGroup.POST("/checkout", p.OrderHandler.Checkout)
		userGroup.GET("/purchases", p.OrderHandler.ListPurchases)
		userGroup.GET("/orders/:orderId", p.OrderHandler.GetOrder)

		userGroup.POST("/refunds", p.RefundHandler.Request)

		userGroup.POST("/products/:id/reviews", p.ReviewHandler.Submit)
		userGroup.PUT("/reviews/:id/approve", p.ReviewHandler.Approve)
		userGroup.PUT("/reviews/:id/decline", p.ReviewHandler.Decline)

		userGroup.GET("/wishlist", p.WishlistHandler.List)
		userGroup.POST("/wishlist/:productId", p.WishlistHandler.Add)
		userGroup.DELETE("/wishlist/:productId", p.WishlistHandler.Remove)
	}

	// Product-manager routes.
	managerGroup := e.Group("/manager")
	managerGroup.Use(p.AuthMiddleware.AuthenticateWith(service.ChainBackOffice))
	{
		managerGroup.GET("/products", p.CatalogHandler.ListAllProducts)
		managerGroup.POST("/products", p.CatalogHandler.CreateProduct)
		managerGroup.DELETE("/products/:id", p.CatalogHandler.DeleteProduct)
		managerGroup.PUT("/products/:id/stock", p.CatalogHandler.Restock)

		managerGroup.PUT("/purchases/:id/status", p.OrderHandler.AdvanceDelivery)
	}

	// Sales-admin routes: pricing, discounts and refund decisions.
	salesGroup := e.Group("/sales")
	salesGroup.Use(p.AuthMiddleware.AuthenticateWith(service.ChainSales))
	{
		salesGroup.PUT("/products/:id/price", p.CatalogHandler.SetPrice)
		salesGroup.PUT("/products/:id/discount", p.CatalogHandler.SetDiscount)
		salesGroup.DELETE("/products/:id/discount", p.CatalogHandler.ClearDiscount)

		salesGroup.GET("/refunds/pending", p.RefundHandler.ListPending)
		salesGroup.PUT("/refunds/:id/approve", p.RefundHandler.Approve)
		salesGroup.PUT("/refunds/:id/reject", p.RefundHandler.Reject)
	}
}
