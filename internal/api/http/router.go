package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/desk-support/internal/api/http/handlers"
	"github.com/spec-kit/desk-support/internal/auth"
	"github.com/spec-kit/desk-support/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Questions      *handlers.QuestionsHandler
	Operator       *handlers.OperatorHandler
	FAQ            *handlers.FAQHandler
	Admin          *handlers.AdminHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Users.Register)
	authGroup.Post("/login", cfg.Users.Login)

	me := app.Group("/me", cfg.AuthMiddleware.Handle, auth.RequireRole())
	me.Get("", cfg.Users.Me)
	me.Put("/theme", cfg.Users.UpdateTheme)

	questions := app.Group("/questions", cfg.AuthMiddleware.Handle, auth.RequireRole())
	questions.Post("", cfg.Questions.Ask)
	questions.Get("", cfg.Questions.ListMine)
	questions.Get("/:id", cfg.Questions.Get)

	operator := app.Group("/operator", cfg.AuthMiddleware.Handle, auth.RequireStaff())
	operator.Get("/pending", cfg.Operator.Pending)
	operator.Get("/questions", cfg.Operator.List)
	operator.Post("/questions/:id/answer", cfg.Operator.Resolve)

	app.Get("/stats", cfg.AuthMiddleware.Handle, auth.RequireStaff(), cfg.Operator.Stats)

	faq := app.Group("/faq", cfg.AuthMiddleware.Handle, auth.RequireRole())
	faq.Get("", cfg.FAQ.List)
	faq.Post("/import", auth.RequireRole(domain.RoleAdmin), cfg.FAQ.Import)

	admin := app.Group("/admin", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleAdmin))
	admin.Get("/users", cfg.Admin.ListUsers)
	admin.Post("/users", cfg.Admin.CreateUser)
	admin.Delete("/users/:login", cfg.Admin.DeleteUser)
	admin.Put("/users/:login/name", cfg.Admin.RenameUser)
	admin.Put("/users/:login/password", cfg.Admin.ChangePassword)
}
