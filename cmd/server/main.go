package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"github.com/KOTTAGENVH/courier-service-app/internal/auth"
	"github.com/KOTTAGENVH/courier-service-app/internal/config"
	"github.com/KOTTAGENVH/courier-service-app/internal/events"
	"github.com/KOTTAGENVH/courier-service-app/internal/httpapi"
	"github.com/KOTTAGENVH/courier-service-app/internal/logging"
	"github.com/KOTTAGENVH/courier-service-app/internal/mailer"
	"github.com/KOTTAGENVH/courier-service-app/internal/messaging"
	"github.com/KOTTAGENVH/courier-service-app/internal/repository"
	"github.com/KOTTAGENVH/courier-service-app/internal/service"
)

func main() {
	cfg := config.Load()
	log := logging.NewLogger(cfg)
	defer log.Sync()

	log.Info("starting courier service", zap.String("env", cfg.Env))

	db, err := repository.Open(cfg.DSN)
	if err != nil {
		log.Fatal("database connection error", zap.Error(err))
	}
	if err := repository.AutoMigrate(db); err != nil {
		log.Fatal("database migration error", zap.Error(err))
	}

	shipmentRepo := repository.NewShipmentRepository(db)
	userRepo := repository.NewUserRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	tokens := auth.NewManager(cfg)
	mail := mailer.New(cfg.SMTP)

	var publisher service.EventPublisher
	if cfg.RabbitMQ.Enabled {
		rabbitClient := messaging.NewRabbitMQClient(cfg.RabbitMQ, log)
		if err := rabbitClient.Connect(); err != nil {
			log.Fatal("rabbitmq connection error", zap.Error(err))
		}
		defer rabbitClient.Close()

		publisher = messaging.NewPublisher(rabbitClient, log)
		startStatusMailWorker(rabbitClient, cfg, mail, log)
	}

	shipmentService := service.NewShipmentService(shipmentRepo, userRepo, publisher, log)
	notificationService := service.NewNotificationService(notificationRepo, userRepo)
	authService := service.NewAuthService(userRepo, tokens, mail, cfg.ClientURL, log)

	seedCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := authService.SeedAdmin(seedCtx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		log.Error("admin seed failed", zap.Error(err))
	}
	cancel()

	app := setupFiberApp(cfg, log)

	authRequired := httpapi.AuthMiddleware(tokens, cfg.AdminEmail, cfg.Production())
	httpapi.RegisterRoutes(app,
		authRequired,
		httpapi.NewAuthHandler(authService, log, cfg.AccessTokenTTL, cfg.RefreshTokenTTL, cfg.Production()),
		httpapi.NewShipmentHandler(shipmentService, log),
		httpapi.NewNotificationHandler(notificationService, log),
	)

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Info("shutting down courier service")
		if err := app.Shutdown(); err != nil {
			log.Error("shutdown error", zap.Error(err))
		}
	}()

	log.Info("courier service listening", zap.String("addr", cfg.Addr()))
	if err := app.Listen(cfg.Addr()); err != nil {
		log.Fatal("server startup error", zap.Error(err))
	}
}

func setupFiberApp(cfg *config.Config, log *zap.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "Courier Service v1.0",
		ErrorHandler: errorHandler(log),
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${method} ${path} - ${latency}\n",
	}))
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 15 * time.Minute,
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.ClientURL,
		AllowMethods:     "GET,POST,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin,Content-Type,Accept,X-Request-ID",
		AllowCredentials: true,
	}))

	return app
}

func errorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := "Internal Server Error"

		if e, ok := err.(*fiber.Error); ok {
			code = e.Code
			message = e.Message
		}

		log.Error("unhandled request error", zap.String("path", c.Path()), zap.Error(err))

		return c.Status(code).JSON(fiber.Map{
			"success": false,
			"message": message,
		})
	}
}

// startStatusMailWorker consumes shipment status events and mails the
// shipment owner. Delivery is best-effort; a failed send is logged and
// the message dropped rather than retried forever.
func startStatusMailWorker(client *messaging.RabbitMQClient, cfg *config.Config, mail *mailer.Mailer, log *zap.Logger) {
	consumer := messaging.NewConsumer(client, cfg.RabbitMQ.Queue, log)

	routingKeys := []string{
		string(events.StatusChangedEvent),
		string(events.ShipmentCanceledEvent),
	}

	err := consumer.ConsumeEvents(routingKeys, func(event events.ShipmentEvent) error {
		if event.OwnerEmail == "" {
			return nil
		}
		subject := fmt.Sprintf("Shipment %s update", event.ShippingID)
		body := fmt.Sprintf("<p>Your shipment #%s is now %s.</p>", event.ShippingID, event.Status)
		if err := mail.Send(event.OwnerEmail, subject, body); err != nil {
			log.Error("status mail delivery failed",
				zap.String("shipping_id", event.ShippingID), zap.Error(err))
		}
		return nil
	})
	if err != nil {
		log.Error("status mail worker start failed", zap.Error(err))
	}
}
