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
	"github.com/shopspring/decimal"

	_ "github.com/jhoicas/Asignacion-api/docs"
	appallocation "github.com/jhoicas/Asignacion-api/internal/application/allocation"
	"github.com/jhoicas/Asignacion-api/internal/application/auth"
	"github.com/jhoicas/Asignacion-api/internal/application/reports"
	"github.com/jhoicas/Asignacion-api/internal/application/usage"
	infrapdf "github.com/jhoicas/Asignacion-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Asignacion-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Asignacion-api/internal/interfaces/http"
	"github.com/jhoicas/Asignacion-api/pkg/config"
	"github.com/jhoicas/Asignacion-api/pkg/logger"
)

// @title		Asignación de Insumos API
// @version		1.0
// @description	API para repartir insumos entre departamentos según su consumo histórico de salidas (CHECK_OUT).
// @BasePath	/
//
// @securityDefinitions.apikey	Bearer
// @in							header
// @name						Authorization
// @description					Formato: "Bearer <token JWT>"
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

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	userRepo := postgres.NewUserRepository(pool)
	checkoutRepo := postgres.NewCheckoutRecordRepository(pool)
	statsRepo := postgres.NewUsageStatsRepository(pool)

	// Motor de asignación: trabaja sobre una foto en memoria del histórico.
	allocationUC := appallocation.NewUseCase(checkoutRepo, appallocation.Params{
		MinProportionPct: decimal.NewFromFloat(cfg.Engine.MinProportionPct),
		HistoryYears:     cfg.Engine.HistoryYears,
		SnapshotTTL:      time.Duration(cfg.Engine.SnapshotTTLMinutes) * time.Minute,
		MaxBatchItems:    cfg.Engine.MaxBatchItems,
	})
	usageUC := usage.NewUseCase(statsRepo)

	// PDF: informe del cálculo de asignación
	pdfGenerator := infrapdf.NewMarotoReportGenerator()
	reportsUC := reports.NewUseCase(allocationUC, pdfGenerator)

	authUC := auth.NewUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

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
		Title:    "Asignación de Insumos API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:       authUC,
		AllocationUC: allocationUC,
		ReportsUC:    reportsUC,
		UsageUC:      usageUC,
		JWTSecret:    cfg.JWT.Secret,
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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
