// Package http exposes the storefront as a JSON API.
package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

type Handlers struct {
	Products *ProductHandler
	Cart     *CartHandler
	Checkout *CheckoutHandler
	Auth     *AuthHandler
	Admin    *AdminHandler
	Contact  *ContactHandler
	Health   http.HandlerFunc
}

type RouterConfig struct {
	RequestTimeout time.Duration
	// AuthLimiter throttles the auth endpoints; nil disables it.
	AuthLimiter *RateLimiter
}

func NewRouter(h Handlers, cfg RouterConfig, log *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(AccessLog(log))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))

	r.Get("/health", h.Health)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(SessionMiddleware)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(cfg.RequestTimeout))

			r.Route("/products", func(r chi.Router) {
				r.Get("/", h.Products.List)
				r.Get("/featured", h.Products.Featured)
				r.Get("/aroma/{aroma}", h.Products.ByAroma)
				r.Get("/{slug}", h.Products.Get)
			})
			r.Get("/testimonials", h.Products.Testimonials)

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", h.Cart.GetCart)
				r.Delete("/", h.Cart.ClearCart)
				r.Post("/items", h.Cart.AddItem)
				r.Put("/items/{productID}/{variantID}", h.Cart.UpdateQuantity)
				r.Delete("/items/{productID}/{variantID}", h.Cart.RemoveItem)
			})

			r.Route("/auth", func(r chi.Router) {
				if cfg.AuthLimiter != nil {
					r.Use(cfg.AuthLimiter.Middleware)
				}
				r.Post("/signin", h.Auth.SignIn)
				r.Post("/signup", h.Auth.SignUp)
				r.Post("/signout", h.Auth.SignOut)
				r.Get("/me", h.Auth.Me)
			})

			r.Route("/admin", func(r chi.Router) {
				r.Get("/inventory", h.Admin.Inventory)
				r.Get("/orders", h.Admin.OpenOrders)
				r.Get("/orders/history", h.Admin.History)
				r.Put("/orders/{number}/status", h.Admin.SetStatus)
				r.Get("/stats", h.Admin.Stats)
			})

			r.Get("/contact", h.Contact.Get)
		})

		// checkout carries its own processing delay
		r.Post("/checkout", h.Checkout.PlaceOrder)
	})

	return otelhttp.NewHandler(r, "storefront")
}
