package http

import (
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hris-backoffice-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hris-backoffice-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

type RouterConfig struct {
	Logger         *slog.Logger
	AllowedOrigins []string
	// Idempotency guards the mutating admin POST routes.
	Idempotency func(http.Handler) http.Handler
	RateLimiter *middleware.RateLimiter
}

type Handlers struct {
	Auth         AuthHandler
	Employee     EmployeeHandler
	Attendance   AttendanceHandler
	Leave        LeaveHandler
	Payroll      PayrollHandler
	Notification NotificationHandler
}

func NewRouter(cfg RouterConfig, JWTService jwt.Service, h Handlers) *chi.Mux {
	r := chi.NewRouter()

	idempotent := cfg.Idempotency
	if idempotent == nil {
		idempotent = func(next http.Handler) http.Handler { return next }
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token", middleware.IdempotencyKeyHeader},
		ExposedHeaders:   []string{"Link", middleware.ReplayedHeader},
		MaxAge:           300,
	}))

	r.Use(chiMiddleware.RealIP)

	if cfg.Logger != nil {
		r.Use(httplog.RequestLogger(cfg.Logger, &httplog.Options{
			Level:  slog.LevelDebug,
			Schema: httplog.SchemaECS,
			// SSE streams would otherwise be logged once, when they close.
			Skip: func(req *http.Request, respStatus int) bool {
				return req.URL.Path == "/api/v1/notifications/stream"
			},
		}))
	}

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	authenticated := []func(http.Handler) http.Handler{
		jwtauth.Verifier(JWTService.JWTAuth()),
		middleware.AuthRequired,
	}
	if cfg.RateLimiter != nil {
		authenticated = append(authenticated, cfg.RateLimiter.Handler)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			if cfg.RateLimiter != nil {
				r.Use(cfg.RateLimiter.Handler)
			}
			r.Post("/login", h.Auth.Login)
		})

		r.Route("/notifications", func(r chi.Router) {
			// EventSource cannot send headers; the handler reads the token itself.
			r.Get("/stream", h.Notification.Stream)

			r.Group(func(r chi.Router) {
				r.Use(authenticated...)
				r.Get("/", h.Notification.List)
				r.Get("/stream-token", h.Notification.GetStreamToken)
				r.Put("/read-all", h.Notification.MarkAllAsRead)
				r.Put("/{id}/read", h.Notification.MarkAsRead)
			})
		})

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(authenticated...)

			r.Route("/employees", func(r chi.Router) {
				r.Get("/me", h.Employee.Me)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.With(idempotent).Post("/", h.Employee.Create)
					r.Get("/", h.Employee.List)
					r.Get("/{id}", h.Employee.Get)
					r.Put("/{id}", h.Employee.Update)
				})
			})

			r.Route("/attendance", func(r chi.Router) {
				r.Get("/", h.Attendance.List)
				r.Get("/summary", h.Attendance.Summary)
				r.With(middleware.AdminOnly).Post("/", h.Attendance.Mark)
			})

			r.Route("/leave", func(r chi.Router) {
				r.With(middleware.EmployeeOnly, idempotent).Post("/", h.Leave.Create)
				r.Get("/", h.Leave.List)
				r.Get("/{id}", h.Leave.Get)
				r.With(middleware.AdminOnly).Put("/{id}/review", h.Leave.Review)
			})

			r.Route("/payroll", func(r chi.Router) {
				r.Get("/", h.Payroll.List)
				r.Get("/{id}", h.Payroll.Get)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly, idempotent)
					r.Post("/generate", h.Payroll.Generate)
					r.Post("/finalize", h.Payroll.Finalize)
				})
			})
		})
	})
	return r
}
