package http

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/pkg/telemetry"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

type RouterConfig struct {
	ServiceName    string
	Version        string
	Env            string
	AllowedOrigins []string
	// Employees is consulted on every authenticated request for the caller's
	// current role and department.
	Employees employee.Reader
}

type Handlers struct {
	Auth       AuthHandler
	Attendance AttendanceHandler
	Employee   EmployeeHandler
	Department DepartmentHandler
	Chat       ChatHandler
	Report     ReportHandler
	Dashboard  DashboardHandler
	Identity   IdentityHandler
	File       FileHandler
	Version    http.HandlerFunc
}

func NewRouter(cfg RouterConfig, JWTService jwt.Service, h Handlers) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(cfg.Env != "production")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", cfg.ServiceName),
		slog.String("version", cfg.Version),
		slog.String("env", cfg.Env),
	)

	allowedOrigins := cfg.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:3000"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(telemetry.Middleware(cfg.ServiceName))
	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
		// Streams stay open for minutes; log them once they close.
		Skip: func(req *http.Request, respStatus int) bool {
			return req.URL.Path == "/api/v1/chat/stream" && respStatus == http.StatusOK
		},
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Get("/version", h.Version)

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", h.Auth.Login)
			r.Post("/refresh", h.Auth.RefreshToken)
			r.Post("/logout", h.Auth.Logout)
		})

		// Authenticated by ?token= instead of a header
		r.Get("/chat/stream", h.Chat.Stream)

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired)
			r.Use(middleware.CurrentRole(cfg.Employees))

			r.Post("/auth/sse-token", h.Auth.SSEToken)

			r.Route("/attendance", func(r chi.Router) {
				r.Post("/check-in", h.Attendance.CheckIn)
				r.Post("/check-out", h.Attendance.CheckOut)
				r.Get("/my", h.Attendance.My)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireLead)
					r.Get("/", h.Attendance.List)
					r.Get("/export", h.Attendance.Export)
				})
			})

			r.Route("/employees", func(r chi.Router) {
				r.Get("/me", h.Employee.Me)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireLead)
					r.Get("/", h.Employee.List)
					r.Get("/{id}", h.Employee.Get)
				})

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireAdmin)
					r.Post("/", h.Employee.Create)
					r.Put("/{id}", h.Employee.Update)
					r.Delete("/{id}", h.Employee.Delete)
				})
			})

			r.Route("/departments", func(r chi.Router) {
				r.Get("/", h.Department.List)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireAdmin)
					r.Post("/", h.Department.Create)
					r.Put("/{id}", h.Department.Update)
					r.Delete("/{id}", h.Department.Delete)
					r.Put("/{id}/head", h.Department.AssignHead)
				})
			})

			r.Route("/chat", func(r chi.Router) {
				r.Post("/messages", h.Chat.Send)
				r.Get("/messages", h.Chat.History)
			})

			r.Route("/reports", func(r chi.Router) {
				r.Post("/", h.Report.Submit)
				r.With(middleware.RequireLead).Get("/", h.Report.List)
			})

			// Attendance photos and report attachments
			r.Get("/files/*", h.File.Download)

			r.Route("/identity", func(r chi.Router) {
				r.Get("/me/qr", h.Identity.MyQRCode)
				r.With(middleware.RequireLead).Post("/scan", h.Identity.Scan)
			})

			r.Route("/dashboard", func(r chi.Router) {
				r.Use(middleware.RequireRole(employee.RoleAdmin, employee.RoleSupervisor))
				r.Get("/overview", h.Dashboard.Overview)
				r.Get("/summary", h.Dashboard.Summary)
			})
		})
	})
	return r
}
