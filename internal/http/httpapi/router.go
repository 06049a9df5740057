package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"server/internal/domain"
	"server/internal/http/handlers"
	"server/internal/middleware"
)

// Deps carries everything the router needs beyond the handler container.
type Deps struct {
	App             *handlers.App
	Users           domain.UserRepository
	JWTSecret       string
	CORSOrigins     []string
	RateLimitPerMin int
	UploadDir       string
	Logger          zerolog.Logger
}

// NewRouter assembles the chi route tree. Public reads need no token, writes
// need an authenticated principal, and the admin subtree additionally needs
// the admin role.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.Logger(d.Logger),
		middleware.CORS(d.CORSOrigins),
	)
	if d.RateLimitPerMin > 0 {
		r.Use(middleware.RateLimit(d.RateLimitPerMin, time.Minute))
	}

	auth := middleware.Auth(d.JWTSecret, d.Users)
	optionalAuth := middleware.OptionalAuth(d.JWTSecret, d.Users)

	r.Get("/v1/healthz", d.App.Health)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/campaigns", func(r chi.Router) {
		r.Get("/", d.App.CampaignsList)

		r.Group(func(r chi.Router) {
			r.Use(auth)
			r.Post("/", d.App.CampaignsCreate)
			r.Get("/my", d.App.CampaignsMine)
			r.Put("/{id}", d.App.CampaignsUpdate)
			r.Delete("/{id}", d.App.CampaignsDelete)
			r.Post("/{id}/withdraw", d.App.CampaignsWithdraw)
			r.Post("/{id}/image", d.App.CampaignImageUpload)
		})

		r.Get("/{id}", d.App.CampaignsGet)
		r.Get("/{id}/donations", d.App.DonationsByCampaign)
	})

	r.Route("/donations", func(r chi.Router) {
		r.With(optionalAuth).Post("/", d.App.DonationsCreate)
		r.With(auth).Get("/user/{userID}", d.App.DonationsByUser)
		r.With(auth, middleware.RequireAdmin).Get("/", d.App.DonationsListAll)
	})

	r.With(auth).Get("/dashboard", d.App.DashboardOverview)

	r.Route("/admin", func(r chi.Router) {
		r.Use(auth, middleware.RequireAdmin)
		r.Get("/users", d.App.AdminUsers)
		r.Get("/stats", d.App.AdminStats)
		r.Get("/campaigns/pending", d.App.AdminPendingCampaigns)
		r.Get("/campaigns/status/{status}", d.App.AdminCampaignsByStatus)
		r.Post("/campaigns/{id}/approve", d.App.AdminApproveCampaign)
		r.Post("/campaigns/{id}/reject", d.App.AdminRejectCampaign)
		r.Put("/campaigns/{id}", d.App.CampaignsUpdate)
		r.Delete("/campaigns/{id}", d.App.CampaignsDelete)
	})

	if d.UploadDir != "" {
		fs := http.StripPrefix("/uploads/", http.FileServer(http.Dir(d.UploadDir)))
		r.Get("/uploads/*", fs.ServeHTTP)
	}

	return r
}
