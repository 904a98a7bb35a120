package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lkiparis/printforge-backend/api/controllers"
	"github.com/lkiparis/printforge-backend/api/middleware"
	"github.com/lkiparis/printforge-backend/internal/cart"
	"github.com/lkiparis/printforge-backend/internal/pricing"
	"github.com/lkiparis/printforge-backend/internal/production"
	"github.com/lkiparis/printforge-backend/pkg/config"
	"github.com/lkiparis/printforge-backend/pkg/logger"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	storage controllers.StoragePinger,
	estimator *pricing.Estimator,
	cartService cart.Service,
	productionService production.Service,
	gatherer prometheus.Gatherer,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS.AllowedOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, storage))
	})

	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/quote", func(r chi.Router) {
			r.Post("/analyze", controllers.QuoteAnalyze(cfg.Upload.MaxUploadMB, logg))
			r.Post("/price", controllers.QuotePrice(estimator, logg))
			r.Get("/materials", controllers.QuoteMaterials())
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartList(cartService, logg))
			r.Post("/", controllers.CartAdd(cartService, cfg.Upload.MaxUploadMB, logg))
			r.Patch("/{itemId}/quantity", controllers.CartUpdateQuantity(cartService, logg))
			r.Delete("/{itemId}", controllers.CartDelete(cartService, logg))
		})

		r.Route("/production", func(r chi.Router) {
			r.Post("/launch", controllers.ProductionLaunch(productionService, logg))
			r.Route("/batches", func(r chi.Router) {
				r.Get("/", controllers.BatchList(productionService, logg))
				r.Get("/{batchId}", controllers.BatchDetail(productionService, logg))
				r.Post("/{batchId}/items/{itemId}/done", controllers.BatchItemDone(productionService, logg))
			})
		})
	})

	return r
}
