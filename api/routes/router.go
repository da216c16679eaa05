package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mesaqr/mesaqr-backend/api/controllers"
	"github.com/mesaqr/mesaqr-backend/api/middleware"
	authsvc "github.com/mesaqr/mesaqr-backend/internal/auth"
	"github.com/mesaqr/mesaqr-backend/internal/cart"
	"github.com/mesaqr/mesaqr-backend/internal/kitchen"
	"github.com/mesaqr/mesaqr-backend/internal/menu"
	"github.com/mesaqr/mesaqr-backend/internal/orders"
	"github.com/mesaqr/mesaqr-backend/internal/tables"
	"github.com/mesaqr/mesaqr-backend/pkg/config"
	"github.com/mesaqr/mesaqr-backend/pkg/db"
	"github.com/mesaqr/mesaqr-backend/pkg/enums"
	"github.com/mesaqr/mesaqr-backend/pkg/logger"
	"github.com/mesaqr/mesaqr-backend/pkg/metrics"
	"github.com/mesaqr/mesaqr-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisP redis.Pinger,
	httpMetrics *metrics.HTTPMetrics,
	cartService cart.Service,
	checkout *cart.Checkout,
	ordersService orders.Service,
	menuService menu.Service,
	tablesService tables.Service,
	kitchenService kitchen.Service,
	authService authsvc.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
		middleware.CORS(),
	)

	cartSession := middleware.CartSession(cfg.Cart, cfg.App.IsProd(), logg)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisP))
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1/menu", func(r chi.Router) {
		r.Get("/delivery", controllers.DeliveryMenu(menuService, logg))
		r.Get("/{token}", controllers.TableMenu(menuService, tablesService, logg))
	})

	r.Route("/api/v1/cart", func(r chi.Router) {
		r.Use(cartSession)
		r.Get("/", controllers.CartFetch(cartService, logg))
		r.Post("/items", controllers.CartAddItem(cartService, logg))
		r.Post("/items/remove", controllers.CartRemoveItem(cartService, logg))
		r.Post("/items/quantity", controllers.CartUpdateQuantity(cartService, logg))
		r.Post("/clear", controllers.CartClear(cartService, logg))
		r.Post("/checkout", controllers.SubmitCart(checkout, logg))
	})

	r.Post("/create_order", controllers.CreateOrder(ordersService, logg))
	r.Get("/order/confirmation/{orderId}", controllers.OrderConfirmation(ordersService, logg))

	r.Route("/api/v1/admin", func(r chi.Router) {
		r.Post("/auth/login", controllers.AdminLogin(authService, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))

			r.Route("/kitchen", func(r chi.Router) {
				r.Use(middleware.RequireRole(logg, string(enums.AdminRoleManager), string(enums.AdminRoleKitchen)))
				r.Get("/orders", controllers.KitchenBoard(kitchenService, logg))
				r.Post("/orders/{orderId}/advance", controllers.KitchenAdvance(kitchenService, logg))
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(logg, string(enums.AdminRoleManager)))

				r.Route("/menu", func(r chi.Router) {
					r.Get("/", controllers.AdminMenuList(menuService, logg))
					r.Post("/", controllers.AdminMenuCreate(menuService, logg))
					r.Patch("/{itemId}", controllers.AdminMenuUpdate(menuService, logg))
					r.Post("/{itemId}/availability", controllers.AdminMenuAvailability(menuService, logg))
				})

				r.Route("/tables", func(r chi.Router) {
					r.Get("/", controllers.AdminTableList(tablesService, logg))
					r.Post("/", controllers.AdminTableMint(tablesService, logg))
					r.Post("/{tokenId}/active", controllers.AdminTableSetActive(tablesService, logg))
				})
			})
		})
	})

	return r
}
