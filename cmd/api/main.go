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

	"github.com/nortetech/wms-api/internal/application/auth"
	"github.com/nortetech/wms-api/internal/application/cyclic"
	"github.com/nortetech/wms-api/internal/application/inventory"
	"github.com/nortetech/wms-api/internal/application/notify"
	"github.com/nortetech/wms-api/internal/application/purchasing"
	"github.com/nortetech/wms-api/internal/application/replenishment"
	"github.com/nortetech/wms-api/internal/infrastructure/feed"
	infrapdf "github.com/nortetech/wms-api/internal/infrastructure/pdf"
	"github.com/nortetech/wms-api/internal/infrastructure/postgres"
	httpRouter "github.com/nortetech/wms-api/internal/interfaces/http"
	"github.com/nortetech/wms-api/pkg/config"
	"github.com/nortetech/wms-api/pkg/ids"
	"github.com/nortetech/wms-api/pkg/logger"
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

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	itemRepo := postgres.NewItemRepository(pool)
	movementRepo := postgres.NewMovementRepository(pool)
	poRepo := postgres.NewPurchaseOrderRepository(pool)
	cyclicRepo := postgres.NewCyclicRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	vendorRepo := postgres.NewVendorRepository(pool)
	notificationRepo := postgres.NewNotificationRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Feed de actividad: Redis si está configurado, memoria si no.
	var feedSink notify.FeedSink
	if cfg.Redis.Addr != "" {
		redisFeed, err := feed.NewRedisFeed(cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer func() { _ = redisFeed.Close() }()
		feedSink = redisFeed
	} else {
		log.Warn().Msg("REDIS_ADDR no configurado, feed de actividad en memoria")
		feedSink = feed.NewMemoryFeed(cfg.Redis.FeedSize)
	}

	idGen := ids.New(nil)
	notifier := notify.NewRepoNotifier(notificationRepo, idGen, log, nil)
	activities := notify.NewFeedRecorder(feedSink, idGen, log, nil)

	replenishmentUC := replenishment.NewUseCase(
		itemRepo, movementRepo, poRepo, notifier, activities, idGen, log, nil)
	ledgerUC := inventory.NewLedgerUseCase(movementRepo, itemRepo, idGen, log, nil)
	stockUC := inventory.NewStockUseCase(
		txRunner, itemRepo, replenishmentUC, activities, idGen, log, nil)
	purchasingUC := purchasing.NewUseCase(
		poRepo, movementRepo, txRunner, notifier, activities, idGen, log, nil)
	cyclicUC := cyclic.NewUseCase(
		cyclicRepo, itemRepo, txRunner, notifier, activities, idGen, log, nil)
	authUC := auth.NewUseCase(userRepo, cfg.JWT, log, nil)

	pdfGenerator := infrapdf.NewMarotoPDFGenerator()

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
		Title:    "Norte Tech WMS API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:          authUC,
		StockUC:         stockUC,
		LedgerUC:        ledgerUC,
		ReplenishmentUC: replenishmentUC,
		PurchasingUC:    purchasingUC,
		CyclicUC:        cyclicUC,
		Vendors:         vendorRepo,
		Notifications:   notificationRepo,
		Feed:            activities,
		PDF:             pdfGenerator,
		JWTSecret:       cfg.JWT.Secret,
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
