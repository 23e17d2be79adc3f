package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"

	"github.com/jhoicas/productos-api/internal/application/ports"
	"github.com/jhoicas/productos-api/internal/application/usecase"
	"github.com/jhoicas/productos-api/internal/domain/repository"
	"github.com/jhoicas/productos-api/internal/infrastructure/memory"
	"github.com/jhoicas/productos-api/internal/infrastructure/notify"
	infrapdf "github.com/jhoicas/productos-api/internal/infrastructure/pdf"
	"github.com/jhoicas/productos-api/internal/infrastructure/postgres"
	"github.com/jhoicas/productos-api/internal/infrastructure/rabbitmq"
	"github.com/jhoicas/productos-api/internal/infrastructure/telegram"
	httpRouter "github.com/jhoicas/productos-api/internal/interfaces/http"
	"github.com/jhoicas/productos-api/pkg/config"
	"github.com/jhoicas/productos-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.App.Storage).
		Msg("iniciando aplicación")

	ctx := context.Background()

	var productRepo repository.ProductRepository
	switch cfg.App.Storage {
	case "memory":
		productRepo = memory.NewProductRepository()
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		if cfg.DB.AutoMigrate {
			if err := postgres.EnsureSchema(ctx, pool); err != nil {
				log.Fatal().Err(err).Msg("esquema de base de datos")
			}
		}
		productRepo = postgres.NewProductRepository(pool)
	}

	// Alertas de stock: Telegram siempre; RabbitMQ si RABBITMQ_URL está definido.
	if !cfg.Telegram.Enabled() {
		log.Warn().Msg("TELEGRAM_BOT_TOKEN o TELEGRAM_CHAT_ID vacío: las alertas de stock fallarán")
	}
	channels := []ports.Notifier{telegram.NewService(cfg.Telegram, log)}
	if cfg.RabbitMQ.URL != "" {
		publisher, err := rabbitmq.NewAlertPublisher(cfg.RabbitMQ, log)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a RabbitMQ")
		}
		defer publisher.Close()
		channels = append(channels, publisher)
	}

	productUC := usecase.NewProductUseCase(
		productRepo,
		notify.New(channels...),
		infrapdf.NewStockReportGenerator(cfg.App.Name),
		usecase.ProductConfig{
			DefaultPageSize: cfg.Pagination.DefaultPageSize,
			MaxPageSize:     cfg.Pagination.MaxPageSize,
		},
		log,
	)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: httpRouter.ErrorHandler(log),
	})
	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(httpRouter.RequestLogger(log))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.HTTP.CORSOrigin,
		AllowMethods: "GET,POST,PATCH,DELETE,OPTIONS",
	}))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Productos API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		ProductUC: productUC,
		Log:       log,
		AppName:   cfg.App.Name,
		APIPrefix: cfg.HTTP.APIPrefix,
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
