package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"helpdesk/internal/access"
	"helpdesk/internal/config"
	"helpdesk/internal/handlers"
	"helpdesk/internal/middleware"
	"helpdesk/internal/repository"
	"helpdesk/internal/service"
)

// loginAttemptsPerMinute caps credential guessing per client IP.
const loginAttemptsPerMinute = 10

func New(log zerolog.Logger, cfg config.Config, store repository.Store, svc *service.Services) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.Recoverer(log))
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.Origin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-Total-Count", "Content-Disposition"},
		AllowCredentials: true,
	}))
	if cfg.RateLimit > 0 {
		r.Use(httprate.LimitByIP(cfg.RateLimit, time.Minute))
	}
	r.Use(middleware.WithAuth(log, cfg, store.Users()))

	// Health + metrics
	var pinger handlers.Pinger
	if p, ok := store.(handlers.Pinger); ok {
		pinger = p
	}
	r.Get("/healthz", handlers.Health(pinger, log))
	r.Get("/api/health", handlers.Health(pinger, log))
	r.Handle("/metrics", promhttp.Handler())

	auth := handlers.NewAuthHTTP(svc.Auth, cfg, log)
	th := handlers.NewTicketHTTP(svc.Tickets, log)
	ch := handlers.NewCommentHTTP(svc.Comments, log)
	nh := handlers.NewNotificationHTTP(svc.Notifications, log)
	uh := handlers.NewUserHTTP(svc.Users, log)
	ah := handlers.NewArticleHTTP(svc.Articles, log)
	rh := handlers.NewReportsHTTP(svc.Reports, log)

	r.Route("/api", func(r chi.Router) {
		r.With(httprate.LimitByIP(loginAttemptsPerMinute, time.Minute)).Post("/auth/login", auth.Login())
		r.Post("/auth/logout", auth.Logout())

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)

			r.Get("/auth/me", auth.Me())
			r.Get("/acesso", auth.Access())

			r.Route("/chamados", func(r chi.Router) {
				r.Get("/", th.List())
				r.Post("/", th.Create())
				r.With(middleware.RequireCapability(access.TicketViewAll)).Get("/todos", th.List())
				r.Get("/sla-hoje", th.SLAToday())
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", th.Get())
					r.Patch("/", th.Update())
					r.Delete("/", th.Delete())
					r.Put("/atribuir", th.Assign())

					r.Get("/comentarios", ch.List())
					r.Post("/comentarios", ch.Add())
					r.Delete("/comentarios/{comentarioId}", ch.Delete())
				})
			})

			r.Route("/notificacoes", func(r chi.Router) {
				r.Get("/", nh.List())
				r.Get("/nao-lidas", nh.Unread())
				r.Post("/ler-todas", nh.MarkAllRead())
				r.Post("/{id}/ler", nh.MarkRead())
				r.With(middleware.RequireSelfOr(access.UserManage)).Get("/usuario/{id}", nh.ListForUser())
			})

			r.Route("/usuarios", func(r chi.Router) {
				r.Use(middleware.RequireCapability(access.UserManage))
				r.Get("/", uh.List())
				r.Post("/", uh.Create())
				r.Put("/{id}", uh.Update())
				r.Delete("/{id}", uh.Deactivate())
			})

			r.Route("/artigos", func(r chi.Router) {
				r.Use(middleware.RequireCapability(access.KnowledgeRead))
				r.Get("/", ah.List())
				r.Get("/sugestoes", ah.Suggest())
				r.Get("/{id}", ah.Get())
				r.Post("/", ah.Create())
				r.Put("/{id}", ah.Update())
				r.Delete("/{id}", ah.Delete())
			})

			r.Route("/relatorios", func(r chi.Router) {
				r.Use(middleware.RequireCapability(access.ReportView))
				r.Get("/resumo", rh.Summary())
				r.Get("/exportar", rh.Export())
			})
		})
	})

	return r
}
