package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/veldt/go_storefront/internal/auth"
	"github.com/veldt/go_storefront/internal/session"
)

type RouterDeps struct {
	Auth     *AuthHandler
	Cart     *CartHandler
	Orders   *OrderHandler
	Catalog  *CatalogHandler
	Issuer   *auth.TokenIssuer
	Sessions *session.Manager
	Timeout  time.Duration
}

func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(deps.Timeout))
	r.Use(middleware.Compress(5))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/signup", deps.Auth.Signup)
		r.Post("/login", deps.Auth.Login)

		r.Get("/products", deps.Catalog.ListProducts)
		r.Get("/products/{productID}", deps.Catalog.GetProduct)
		r.Get("/categories", deps.Catalog.ListCategories)
		r.Get("/categories/{categoryID}", deps.Catalog.GetCategory)

		r.Group(func(r chi.Router) {
			r.Use(Authenticate(deps.Issuer, deps.Sessions))

			r.Post("/logout", deps.Auth.Logout)

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", deps.Cart.GetCart)
				r.Post("/items", deps.Cart.AddItem)
				r.Put("/items/{productID}", deps.Cart.UpdateQuantity)
				r.Delete("/items/{productID}", deps.Cart.RemoveItem)
				r.Post("/clear", deps.Cart.ClearCart)
			})

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", deps.Orders.ListOrders)
				r.Post("/", deps.Orders.SubmitOrder)
				r.Get("/last", deps.Orders.LastOrder)
			})
		})
	})

	return r
}
