package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/techdetails/storefront-api/internal/middleware"
)

// RouterDeps carries everything the router needs wired together.
type RouterDeps struct {
	Auth    *AuthHandler
	Cart    *CartHandler
	Catalog *CatalogHandler
	Order   *OrderHandler
	Admin   *AdminHandler

	Authenticator *middleware.Authenticator
	PageGuard     *middleware.PageGuard
	Logger        *zerolog.Logger
}

// NewRouter assembles the full route tree: public catalog reads, cookie
// authenticated cart/order/auth endpoints, the admin back-office, and the
// guarded page routes.
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(deps.Authenticator.Handler)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", deps.Auth.Register)
			r.Post("/login", deps.Auth.Login)
			r.Post("/logout", deps.Auth.Logout)
			r.Post("/forgot-password", deps.Auth.ForgotPassword)
			r.Post("/reset-password", deps.Auth.ResetPassword)
			r.Get("/verify-reset-token", deps.Auth.VerifyResetToken)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAuth)
				r.Get("/user", deps.Auth.CurrentUser)
			})
		})

		r.Route("/cart", func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Get("/", deps.Cart.GetCart)
			r.Put("/", deps.Cart.ReplaceCart)
			r.Delete("/", deps.Cart.ClearCart)
			r.Post("/merge", deps.Cart.MergeCart)
			r.Post("/items", deps.Cart.AddItem)
			r.Put("/items", deps.Cart.UpdateItem)
			r.Delete("/items", deps.Cart.RemoveItem)
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", deps.Catalog.ListProducts)
			r.Get("/{id}", deps.Catalog.GetProduct)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAdmin)
				r.Post("/", deps.Catalog.CreateProduct)
				r.Put("/{id}", deps.Catalog.UpdateProduct)
				r.Delete("/{id}", deps.Catalog.DeleteProduct)
			})
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", deps.Catalog.ListCategories)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAdmin)
				r.Post("/", deps.Catalog.CreateCategory)
				r.Put("/{id}", deps.Catalog.UpdateCategory)
				r.Delete("/{id}", deps.Catalog.DeleteCategory)
			})
		})

		r.Route("/orders", func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Get("/", deps.Order.ListMyOrders)
			r.Post("/", deps.Order.PlaceOrder)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireAdmin)

			r.Get("/stats", deps.Admin.Stats)

			r.Route("/users", func(r chi.Router) {
				r.Get("/", deps.Admin.ListUsers)
				r.Get("/{id}", deps.Admin.GetUser)
				r.Put("/{id}", deps.Admin.UpdateUser)
				r.Post("/{id}/grant-admin", deps.Admin.GrantAdmin)
				r.Delete("/{id}", deps.Admin.DeleteUser)
			})

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", deps.Order.ListOrders)
				r.Put("/{id}/status", deps.Order.UpdateOrderStatus)
			})
		})
	})

	// Page routes exist so the guard has concrete endpoints to protect and
	// redirect between. The frontend owns actual rendering.
	r.Group(func(r chi.Router) {
		r.Use(deps.PageGuard.Handler)
		r.Get("/", Page("home"))
		r.Get("/login", Page("login"))
		r.Get("/register", Page("register"))
		r.Get("/account", Page("account"))
		r.Get("/account/*", Page("account"))
		r.Get("/checkout", Page("checkout"))
		r.Get("/orders", Page("orders"))
		r.Get("/orders/*", Page("orders"))
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAdminPage)
		r.Get("/admin", Page("admin"))
		r.Get("/admin/*", Page("admin"))
	})

	return r
}
