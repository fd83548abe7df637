package main

import (
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"

	"catalog/internal/config"
	"catalog/internal/database"
	"catalog/internal/handlers"
	"catalog/internal/logger"
	"catalog/internal/middleware"
	"catalog/internal/repositories"
	"catalog/internal/services"
	"catalog/pkg/rabbitmq"
)

// server bundles the HTTP app with the resources it must release on shutdown.
type server struct {
	app       *fiber.App
	connector database.Connector
	mq        *rabbitmq.Client
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})
	log.Info().
		Str("app", cfg.App.Name).
		Str("env", cfg.App.Env).
		Str("db_driver", cfg.DB.Driver).
		Str("db_mode", cfg.DB.ConnectionMode).
		Msg("starting catalog service")

	srv, err := newServer(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize service")
	}
	defer srv.close(log)

	if srv.mq != nil {
		if err := srv.mq.ConsumeProductEvents(rabbitmq.LogProductEvent(log)); err != nil {
			log.Error().Err(err).Msg("failed to start product event consumer")
		}
	}

	listenErr := make(chan error, 1)
	go func() {
		listenErr <- srv.app.Listen(cfg.HTTP.Port)
	}()
	log.Info().Str("addr", cfg.HTTP.Port).Msg("backend running")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	if err := waitForShutdown(quit, listenErr); err != nil {
		srv.close(log)
		log.Fatal().Err(err).Msg("server failed to start")
	}

	log.Info().Msg("shutting down server...")
	if err := srv.app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Error().Err(err).Msg("error during shutdown")
	}
	log.Info().Msg("server gracefully stopped")
}

// waitForShutdown blocks until a signal arrives or the listener exits. A
// listener exit is always an error, since Listen only returns on failure
// before shutdown begins.
func waitForShutdown(quit <-chan os.Signal, listenErr <-chan error) error {
	select {
	case <-quit:
		return nil
	case err := <-listenErr:
		if err == nil {
			err = errors.New("listener closed unexpectedly")
		}
		return err
	}
}

// newServer wires repositories, services and handlers into a fiber app.
func newServer(cfg *config.Config, log zerolog.Logger) (*server, error) {
	srv := &server{}

	var productRepo repositories.ProductRepository
	if cfg.DB.Driver == config.DriverMemory {
		productRepo = repositories.NewMemoryProductRepository()
	} else {
		if cfg.DB.AutoMigrate {
			// Storage may come up later; requests fail with 500 until it does.
			if err := database.Migrate(cfg.DB); err != nil {
				log.Error().Err(err).Msg("failed to migrate Products table")
			}
		}
		connector, err := database.NewConnector(cfg.DB)
		if err != nil {
			return nil, err
		}
		srv.connector = connector
		productRepo = repositories.NewGORMProductRepository(connector)
	}

	opts := []services.Option{
		services.WithLogger(log),
		services.WithStrictValidation(cfg.HTTP.StrictValidation),
	}
	if cfg.RabbitMQ.Enabled() {
		mq, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQ.URL, Queue: cfg.RabbitMQ.Queue}, log)
		if err != nil {
			srv.close(log)
			return nil, err
		}
		srv.mq = mq
		opts = append(opts, services.WithPublisher(mq))
	}

	productService := services.NewProductService(productRepo, opts...)
	productHandler := handlers.NewProductHandler(productService, handlers.HandlerConfig{
		ExposeErrorDetails: cfg.HTTP.ExposeErrorDetails,
		StrictValidation:   cfg.HTTP.StrictValidation,
	}, log)

	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		DisableStartupMessage: true,
		ErrorHandler:          jsonErrorHandler,
	})
	app.Use(recover.New())
	app.Use(middleware.RequestLogger(log))
	app.Use(middleware.CORS(cfg.HTTP.CORSAllowOrigins))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":  "healthy",
			"service": cfg.App.Name,
			"time":    time.Now().Format(time.RFC3339),
		})
	})
	productHandler.RegisterRoutes(app)

	srv.app = app
	return srv, nil
}

// jsonErrorHandler keeps error bodies in the {"error": "..."} shape for
// failures raised outside the handlers, such as unknown routes or panics.
func jsonErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	return c.Status(code).JSON(fiber.Map{"error": err.Error()})
}

func (s *server) close(log zerolog.Logger) {
	if s.mq != nil {
		if err := s.mq.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close RabbitMQ client")
		}
	}
	if s.connector != nil {
		if err := s.connector.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close database connector")
		}
	}
}
