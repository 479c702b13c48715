package routes

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/printflowhq/printflow-backend/api/controllers"
	"github.com/printflowhq/printflow-backend/api/middleware"
	"github.com/printflowhq/printflow-backend/internal/artwork"
	"github.com/printflowhq/printflow-backend/internal/clients"
	"github.com/printflowhq/printflow-backend/internal/dashboard"
	"github.com/printflowhq/printflow-backend/internal/orders"
	"github.com/printflowhq/printflow-backend/internal/products"
	"github.com/printflowhq/printflow-backend/pkg/config"
	"github.com/printflowhq/printflow-backend/pkg/db"
	"github.com/printflowhq/printflow-backend/pkg/logger"
	"github.com/printflowhq/printflow-backend/pkg/metrics"
	pkgredis "github.com/printflowhq/printflow-backend/pkg/redis"
)

// Deps bundles everything the router wires into handlers.
type Deps struct {
	Config  *config.Config
	Logger  *logger.Logger
	DB      db.Pinger
	Redis   pkgredis.Pinger
	Metrics *metrics.HTTPMetrics

	Clients   clients.Service
	Products  products.Service
	Orders    orders.Service
	Dashboard dashboard.Service
	Artwork   artwork.Store
}

func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(d.Logger),
		middleware.RequestID(d.Logger),
		middleware.Logging(d.Logger),
		middleware.CORS(splitOrigins(d.Config.App.CORSOrigin)),
	)
	if d.Metrics != nil {
		r.Use(d.Metrics.Middleware(routePattern))
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(d.Config))
		r.Get("/ready", controllers.HealthReady(d.Config, d.Logger, d.DB, d.Redis))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/clients", func(r chi.Router) {
			r.Get("/", controllers.ListClients(d.Clients, d.Logger))
			r.Post("/", controllers.CreateClient(d.Clients, d.Logger))
			r.Get("/{clientID}", controllers.GetClient(d.Clients, d.Logger))
			r.Patch("/{clientID}", controllers.UpdateClient(d.Clients, d.Logger))
			r.Delete("/{clientID}", controllers.DeleteClient(d.Clients, d.Logger))
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ListProducts(d.Products, d.Logger))
			r.Post("/", controllers.CreateProduct(d.Products, d.Logger))
			r.Get("/{productID}", controllers.GetProduct(d.Products, d.Logger))
			r.Patch("/{productID}", controllers.UpdateProduct(d.Products, d.Logger))
			r.Delete("/{productID}", controllers.DeleteProduct(d.Products, d.Logger))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.ListOrders(d.Orders, d.Logger))
			r.Post("/", controllers.CreateOrder(d.Orders, d.Logger))
			r.Route("/{orderID}", func(r chi.Router) {
				r.Get("/", controllers.GetOrder(d.Orders, d.Logger))
				r.Patch("/", controllers.UpdateOrder(d.Orders, d.Logger))
				r.Delete("/", controllers.DeleteOrder(d.Orders, d.Logger))
				r.Post("/items", controllers.AddOrderItem(d.Orders, d.Logger))
				r.Route("/items/{productID}", func(r chi.Router) {
					r.Patch("/", controllers.UpdateOrderItem(d.Orders, d.Logger))
					r.Delete("/", controllers.RemoveOrderItem(d.Orders, d.Logger))
					r.Post("/artwork", controllers.UploadOrderItemArtwork(d.Orders, d.Artwork, d.Logger))
				})
			})
		})

		r.Get("/dashboard", controllers.GetDashboard(d.Dashboard, d.Logger))
	})

	// Stored artwork is served straight off disk under its public prefix.
	prefix := strings.TrimSuffix(d.Config.Artwork.PublicPrefix, "/")
	fs := http.StripPrefix(prefix, http.FileServer(http.Dir(d.Config.Artwork.Dir)))
	r.Get(prefix+"/*", fs.ServeHTTP)

	return r
}

func splitOrigins(raw string) []string {
	if raw == "" || raw == "*" {
		return nil
	}
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}

func routePattern(r *http.Request) string {
	if ctx := chi.RouteContext(r.Context()); ctx != nil {
		if pattern := ctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unmatched"
}
