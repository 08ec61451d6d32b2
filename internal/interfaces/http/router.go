package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/gacha-stock/internal/application/auth"
	"github.com/tu-usuario/gacha-stock/internal/application/gacha"
	"github.com/tu-usuario/gacha-stock/internal/application/realtime"
	"github.com/tu-usuario/gacha-stock/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC    *auth.AuthUseCase
	UserUC    *usecase.UserUseCase
	BranchUC  *usecase.BranchUseCase
	LedgerUC  *gacha.LedgerUseCase
	ReportUC  *gacha.ReportUseCase
	Hub       *realtime.Hub
	JWTSecret string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas: JWT de sesión + capability re-resuelta por petición
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret), CapabilityMiddleware(deps.AuthUC))

	// Events (protegido): SSE de cambios de stock
	eventsHandler := NewEventsHandler(deps.Hub)
	protected.Get("/events", eventsHandler.Stream)

	// Branches (protegido; mutaciones solo admin)
	branches := protected.Group("/branches")
	branchHandler := NewBranchHandler(deps.BranchUC)
	branches.Get("/", branchHandler.List)
	branches.Post("/", RequireAdmin(), branchHandler.Create)
	branches.Put("/:id", RequireAdmin(), branchHandler.Update)
	branches.Delete("/:id", RequireAdmin(), branchHandler.Delete)

	// Users (protegido, solo admin)
	users := protected.Group("/users", RequireAdmin())
	userHandler := NewUserHandler(deps.UserUC)
	users.Get("/", userHandler.List)
	users.Post("/", userHandler.Create)
	users.Put("/:id", userHandler.Update)
	users.Delete("/:id", userHandler.Delete)

	// Gacha ledger (protegido)
	gachaGroup := protected.Group("/gacha")
	gachaHandler := NewGachaHandler(deps.LedgerUC, deps.ReportUC)
	gachaGroup.Get("/", gachaHandler.List)
	gachaGroup.Post("/", gachaHandler.Create)
	gachaGroup.Get("/report", RequireAdmin(), gachaHandler.Report)
	gachaGroup.Get("/:id", gachaHandler.GetByID)
	gachaGroup.Delete("/:id", RequireAdmin(), gachaHandler.Delete)
	gachaGroup.Put("/:id/total-stock", RequireAdmin(), gachaHandler.SetTotalStock)
	gachaGroup.Put("/:id/allocations/:branchId", gachaHandler.SetAllocation)
}
