package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/xdieuxd/BOOKNEST-ETL/api/controllers"
	"github.com/xdieuxd/BOOKNEST-ETL/api/middleware"
	"github.com/xdieuxd/BOOKNEST-ETL/internal/staging"
	"github.com/xdieuxd/BOOKNEST-ETL/pkg/config"
	"github.com/xdieuxd/BOOKNEST-ETL/pkg/db"
	"github.com/xdieuxd/BOOKNEST-ETL/pkg/logger"
	"github.com/xdieuxd/BOOKNEST-ETL/pkg/redis"
)

// NewRouter wires the ingest API: health probes, interactive uploads,
// resubmission of rejected records, the staging dashboard and a manual
// promotion trigger.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbPinger db.Pinger,
	redisPinger redis.Pinger,
	pipeline controllers.Pipeline,
	staged staging.Store,
	promoter controllers.PromotionService,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.HTTP.AllowedOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbPinger, redisPinger))
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/records", func(r chi.Router) {
			r.Post("/books", controllers.UploadBook(pipeline, logg))
			r.Post("/customers", controllers.UploadCustomer(pipeline, logg))
			r.Post("/orders", controllers.UploadOrder(pipeline, logg))
			r.Post("/order-items", controllers.UploadOrderItem(pipeline, logg))
			r.Post("/carts", controllers.UploadCart(pipeline, logg))
			r.Post("/invoices", controllers.UploadInvoice(pipeline, logg))

			r.Post("/books/resubmit", controllers.ResubmitBook(pipeline, logg))
			r.Post("/customers/resubmit", controllers.ResubmitCustomer(pipeline, logg))
			r.Post("/orders/resubmit", controllers.ResubmitOrder(pipeline, logg))
			r.Post("/order-items/resubmit", controllers.ResubmitOrderItem(pipeline, logg))
			r.Post("/carts/resubmit", controllers.ResubmitCart(pipeline, logg))
			r.Post("/invoices/resubmit", controllers.ResubmitInvoice(pipeline, logg))
		})

		r.Get("/staging/summary", controllers.StagingSummary(staged, logg))
		r.Post("/promote", controllers.TriggerPromotion(promoter, logg))
	})

	return r
}
