package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/velstore/catalog-backend/api/controllers"
	"github.com/velstore/catalog-backend/api/middleware"
	cartsvc "github.com/velstore/catalog-backend/internal/cart"
	"github.com/velstore/catalog-backend/internal/catalog"
	customersvc "github.com/velstore/catalog-backend/internal/customers"
	ordersvc "github.com/velstore/catalog-backend/internal/orders"
	searchsvc "github.com/velstore/catalog-backend/internal/search"
	"github.com/velstore/catalog-backend/pkg/config"
	"github.com/velstore/catalog-backend/pkg/enums"
	"github.com/velstore/catalog-backend/pkg/logger"
	"github.com/velstore/catalog-backend/pkg/metrics"
)

// Deps bundles everything the router wires into handlers.
type Deps struct {
	Config         *config.Config
	Logger         *logger.Logger
	RequestMetrics *metrics.RequestMetrics
	MetricsHandler http.Handler

	DBPinger    controllers.Pinger
	RedisPinger controllers.Pinger

	Catalog   catalog.Service
	Carts     cartsvc.Service
	Customers customersvc.Service
	Orders    ordersvc.Service
	Search    searchsvc.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(deps.RequestMetrics),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, map[string]controllers.Pinger{
			"database": deps.DBPinger,
			"redis":    deps.RedisPinger,
		}))
	})

	if deps.MetricsHandler == nil {
		deps.MetricsHandler = promhttp.Handler()
	}
	r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)

	r.Route("/v1", func(r chi.Router) {
		r.Route("/items", func(r chi.Router) {
			r.Get("/", controllers.ItemList(deps.Catalog, logg))
			r.Post("/", controllers.ItemCreate(deps.Catalog, logg))
			r.Get("/{itemID}", controllers.ItemGet(deps.Catalog, logg))
			r.Put("/{itemID}", controllers.ItemUpdate(deps.Catalog, logg))
			r.Delete("/{itemID}", controllers.ItemDelete(deps.Catalog, logg))
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", controllers.CategoryList(deps.Catalog, logg))
			r.Post("/", controllers.CategoryCreate(deps.Catalog, logg))
			r.Get("/{categorySlug}", controllers.CategoryGet(deps.Catalog, logg))
		})

		r.Route("/attributes", func(r chi.Router) {
			r.Get("/", controllers.AttributeList(deps.Catalog, logg))
			r.Post("/", controllers.AttributeCreate(deps.Catalog, logg))
			r.Put("/{attributeID}", controllers.AttributeUpdate(deps.Catalog, logg))
		})

		r.Get("/search", controllers.Search(deps.Search, logg))

		r.Route("/customers/{customerID}", func(r chi.Router) {
			r.Put("/", controllers.CustomerEnsure(deps.Customers, logg))
			r.Get("/", controllers.CustomerGet(deps.Customers, logg))

			mountContainer := func(r chi.Router, kind enums.ContainerKind) {
				r.Get("/", controllers.ContainerGet(deps.Customers, deps.Carts, kind, logg))
				r.Post("/items", controllers.ContainerAddItem(deps.Customers, deps.Carts, kind, logg))
				r.Put("/items", controllers.ContainerSetQuantity(deps.Customers, deps.Carts, kind, logg))
				r.Delete("/items", controllers.ContainerClear(deps.Customers, deps.Carts, kind, logg))
				r.Delete("/items/{itemID}", controllers.ContainerRemoveItem(deps.Customers, deps.Carts, kind, logg))
			}
			r.Route("/cart", func(r chi.Router) { mountContainer(r, enums.ContainerKindCart) })
			r.Route("/wishlist", func(r chi.Router) {
				mountContainer(r, enums.ContainerKindWishlist)
				r.Post("/copy-to-cart", controllers.WishlistCopyToCart(deps.Customers, deps.Carts, logg))
			})

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", controllers.OrderList(deps.Orders, logg))
				r.Post("/", controllers.OrderCreate(deps.Orders, logg))
			})
		})

		r.Route("/orders/{orderID}", func(r chi.Router) {
			r.Get("/", controllers.OrderGet(deps.Orders, logg))
			r.Post("/advance", controllers.OrderAdvance(deps.Orders, logg))
			r.Post("/payment", controllers.OrderRegisterPayment(deps.Orders, logg))
		})
	})

	return r
}
