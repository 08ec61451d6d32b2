package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	appauth "github.com/tu-usuario/gacha-stock/internal/application/auth"
	"github.com/tu-usuario/gacha-stock/internal/application/gacha"
	"github.com/tu-usuario/gacha-stock/internal/application/realtime"
	"github.com/tu-usuario/gacha-stock/internal/application/usecase"
	infrapdf "github.com/tu-usuario/gacha-stock/internal/infrastructure/pdf"
	"github.com/tu-usuario/gacha-stock/internal/infrastructure/postgres"
	httpRouter "github.com/tu-usuario/gacha-stock/internal/interfaces/http"
	"github.com/tu-usuario/gacha-stock/pkg/config"
	"github.com/tu-usuario/gacha-stock/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	userRepo := postgres.NewUserRepository(pool)
	branchRepo := postgres.NewBranchRepository(pool)
	itemRepo := postgres.NewGachaItemRepository(pool)
	allocRepo := postgres.NewAllocationRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	authUC := appauth.NewAuthUseCase(userRepo, appauth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	userUC := usecase.NewUserUseCase(userRepo, branchRepo)
	branchUC := usecase.NewBranchUseCase(branchRepo, userRepo, allocRepo)
	ledgerUC := gacha.NewLedgerUseCase(txRunner, itemRepo, allocRepo, branchRepo)

	pdfGen := infrapdf.NewMarotoReportGenerator()
	reportUC := gacha.NewReportUseCase(itemRepo, allocRepo, branchRepo, pdfGen)

	// Admin inicial si la tabla de usuarios está vacía
	created, err := userUC.SeedAdmin(cfg.Seed.AdminUsername, cfg.Seed.AdminPassword)
	if err != nil {
		log.Fatal().Err(err).Msg("seed de admin inicial")
	}
	if created {
		log.Info().Str("username", cfg.Seed.AdminUsername).Msg("admin inicial creado")
	}

	// Hub de cambios alimentado por LISTEN/NOTIFY de PostgreSQL
	hub := realtime.NewHub()
	listener := postgres.NewChangeListener(pool, hub, log)
	go listener.Listen(ctx)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Gacha Stock API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:    authUC,
		UserUC:    userUC,
		BranchUC:  branchUC,
		LedgerUC:  ledgerUC,
		ReportUC:  reportUC,
		Hub:       hub,
		JWTSecret: cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
