// Package http wires the gin engine: middleware chain, public store
// routes, authenticated account routes and the admin panel.
package http

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/sinahmd/ecommerce/internal/config"
	"github.com/sinahmd/ecommerce/internal/http/handlers"
	"github.com/sinahmd/ecommerce/internal/http/handlers/admin"
	"github.com/sinahmd/ecommerce/internal/http/middleware"
)

type RouterDeps struct {
	Cfg     config.Config
	Log     *slog.Logger
	Limiter *middleware.LoginLimiter

	Auth     *handlers.AuthHandler
	Account  *handlers.AccountHandler
	Store    *handlers.StoreHandler
	Cart     *handlers.CartHandler
	Checkout *handlers.CheckoutHandler
	Orders   *handlers.OrdersHandler
	Payment  *handlers.PaymentHandler
	Blog     *handlers.BlogHandler

	AdminCatalog   *admin.CatalogHandler
	AdminOrders    *admin.OrdersHandler
	AdminUsers     *admin.UsersHandler
	AdminDashboard *admin.DashboardHandler
	AdminBlog      *admin.BlogHandler
	AdminUploads   *admin.UploadsHandler

	// UploadsDir serves local uploads when the local storage driver is
	// active; empty for S3.
	UploadsDir string
}

func NewRouter(d RouterDeps) *gin.Engine {
	r := gin.New()

	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(d.Log))
	r.Use(middleware.Recovery(d.Log))
	r.Use(middleware.CORS(d.Cfg.HTTP.FrontendBaseURL))
	r.Use(middleware.ErrorHandler(d.Log))
	r.Use(middleware.Authenticate(d.Cfg.Auth.JWTSecret))

	if d.UploadsDir != "" {
		r.Static("/uploads", d.UploadsDir)
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// The gateway redirects the buyer's browser here; it must stay
	// outside /api and unauthenticated.
	r.GET("/zarinpal/callback", d.Payment.Callback)
	r.GET("/zarinpal/callback/", d.Payment.Callback)

	api := r.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/register", d.Auth.Register)
		auth.POST("/login", d.Limiter.Middleware(), d.Auth.Login)
		auth.POST("/refresh", d.Auth.Refresh)
		auth.POST("/logout", d.Auth.Logout)
		auth.GET("/me", middleware.RequireAuth(), d.Auth.Me)
	}

	store := api.Group("/store")
	{
		store.GET("", d.Store.Home)
		store.GET("/categories", d.Store.ListCategories)
		store.GET("/categories/:slug", d.Store.CategoryDetail)
		store.GET("/products", d.Store.ListProducts)
		store.GET("/products/:slug", d.Store.ProductDetail)
	}

	cart := api.Group("/cart")
	{
		cart.GET("", d.Cart.Get)
		cart.PUT("", d.Cart.Put)
		cart.DELETE("", d.Cart.Clear)
		cart.POST("/items/:product_id", d.Cart.AddItem)
		cart.PUT("/items/:product_id", d.Cart.UpdateItem)
		cart.DELETE("/items/:product_id", d.Cart.RemoveItem)
	}

	blogGroup := api.Group("/blog")
	{
		blogGroup.GET("/posts", d.Blog.List)
		blogGroup.GET("/posts/:slug", d.Blog.Detail)
		blogGroup.GET("/tags", d.Blog.Tags)
	}

	authed := api.Group("")
	authed.Use(middleware.RequireAuth())
	{
		account := authed.Group("/account")
		{
			account.PUT("/profile", d.Account.UpdateProfile)
			account.PUT("/password", d.Account.ChangePassword)
			account.GET("/addresses", d.Account.ListAddresses)
			account.POST("/addresses", d.Account.CreateAddress)
			account.PUT("/addresses/:id", d.Account.UpdateAddress)
			account.DELETE("/addresses/:id", d.Account.DeleteAddress)
		}

		authed.POST("/checkout", d.Checkout.Create)

		authed.GET("/orders", d.Orders.List)
		authed.GET("/orders/:id", d.Orders.Detail)
		authed.POST("/orders/:id/payment", d.Payment.Initiate)
		authed.POST("/orders/:id/payment/retry", d.Payment.Retry)
	}

	adminGroup := api.Group("/admin")
	adminGroup.Use(middleware.RequireAdmin())
	{
		adminGroup.GET("/dashboard/stats", d.AdminDashboard.Stats)
		adminGroup.GET("/dashboard/sales", d.AdminDashboard.Sales)
		adminGroup.GET("/dashboard/top-products", d.AdminDashboard.TopProducts)
		adminGroup.GET("/dashboard/recent-orders", d.AdminDashboard.RecentOrders)

		adminGroup.POST("/categories", d.AdminCatalog.CreateCategory)
		adminGroup.PUT("/categories/:id", d.AdminCatalog.UpdateCategory)
		adminGroup.DELETE("/categories/:id", d.AdminCatalog.DeleteCategory)

		adminGroup.GET("/products", d.AdminCatalog.ListProducts)
		adminGroup.POST("/products", d.AdminCatalog.CreateProduct)
		adminGroup.PUT("/products/:id", d.AdminCatalog.UpdateProduct)
		adminGroup.DELETE("/products/:id", d.AdminCatalog.DeleteProduct)

		adminGroup.GET("/orders", d.AdminOrders.List)
		adminGroup.GET("/orders/:id", d.AdminOrders.Detail)
		adminGroup.POST("/orders/:id/transition", d.AdminOrders.Transition)
		adminGroup.POST("/orders/:id/refund", d.AdminOrders.Refund)

		adminGroup.GET("/users", d.AdminUsers.List)

		adminGroup.GET("/posts", d.AdminBlog.List)
		adminGroup.GET("/posts/:id", d.AdminBlog.Detail)
		adminGroup.POST("/posts", d.AdminBlog.Create)
		adminGroup.PUT("/posts/:id", d.AdminBlog.Update)
		adminGroup.DELETE("/posts/:id", d.AdminBlog.Delete)

		adminGroup.POST("/uploads", d.AdminUploads.Create)
	}

	return r
}
