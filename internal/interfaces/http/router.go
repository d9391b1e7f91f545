package http

import (
	"github.com/gofiber/fiber/v2"

	appallocation "github.com/jhoicas/Asignacion-api/internal/application/allocation"
	"github.com/jhoicas/Asignacion-api/internal/application/auth"
	"github.com/jhoicas/Asignacion-api/internal/application/reports"
	"github.com/jhoicas/Asignacion-api/internal/application/usage"
	"github.com/jhoicas/Asignacion-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC       *auth.UseCase
	AllocationUC *appallocation.UseCase
	ReportsUC    *reports.UseCase
	UsageUC      *usage.UseCase
	JWTSecret    string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (registro y login públicos; el perfil requiere token)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Get("/me", AuthMiddleware(deps.JWTSecret), authHandler.Me)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Motor de asignación (protegido)
	allocations := protected.Group("/allocations")
	allocationHandler := NewAllocationHandler(deps.AllocationUC, deps.ReportsUC)
	allocations.Post("/calculate", allocationHandler.Calculate)
	allocations.Get("/proportions", allocationHandler.Proportions)
	allocations.Get("/export", allocationHandler.Export)
	allocations.Post("/report", allocationHandler.Report)

	// Consumo histórico (protegido; refresh solo admin)
	usageGroup := protected.Group("/usage")
	usageHandler := NewUsageHandler(deps.UsageUC, deps.AllocationUC)
	usageGroup.Get("/summary", usageHandler.Summary)
	usageGroup.Get("/records", usageHandler.Records)
	usageGroup.Post("/refresh", RequireRole(entity.RoleAdmin), usageHandler.Refresh)

	// Catálogos para selectores (protegido)
	catalogs := protected.Group("/catalogs")
	catalogs.Get("/items", usageHandler.Items)
	catalogs.Get("/departments", usageHandler.Departments)
	catalogs.Get("/categories", usageHandler.Categories)
}
