package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"eshop/internal/config"
	"eshop/internal/database"
	"eshop/internal/idempotency"
	"eshop/internal/logging"
	"eshop/internal/models"
	"eshop/internal/repositories"
	"eshop/internal/server"
	"eshop/internal/services"
	"eshop/pkg/rabbitmq"

	log "github.com/sirupsen/logrus"
	"github.com/streadway/amqp"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "eshop",
		Usage: "e-commerce REST backend",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "env-file",
				Value: ".env",
				Usage: "dotenv file loaded before reading the environment",
			},
		},
		Action: serve,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the HTTP API (default)",
				Action: serve,
			},
			{
				Name:   "migrate",
				Usage:  "create or update tables and indexes",
				Action: migrate,
			},
			{
				Name:  "seed",
				Usage: "insert sample categories and products",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "admin-email", Usage: "also create an admin user with this email"},
					&cli.StringFlag{Name: "admin-password", EnvVars: []string{"SEED_ADMIN_PASSWORD"}},
				},
				Action: seed,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.WithError(err).Fatal("eshop failed")
	}
}

func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(c.String("env-file"))
	if err != nil {
		return nil, err
	}
	if err := logging.Setup(cfg.LogLevel, cfg.LogFormat); err != nil {
		return nil, err
	}
	return cfg, nil
}

// openStore connects the configured backend, brings its schema up to date
// and returns the repositories with a function releasing the connection.
func openStore(ctx context.Context, cfg *config.Config) (*repositories.Store, func(), error) {
	if cfg.DatabaseDriver == database.DriverMongo {
		client, db, err := database.ConnectMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, nil, err
		}
		closeFn := func() {
			if err := client.Disconnect(context.Background()); err != nil {
				log.WithError(err).Warn("Error disconnecting from MongoDB")
			}
		}
		if err := database.MigrateMongo(ctx, db); err != nil {
			closeFn()
			return nil, nil, err
		}
		return repositories.NewMongoStore(db), closeFn, nil
	}

	db, err := database.OpenGORM(cfg.DatabaseDriver, cfg.DatabaseDSN)
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	if err := database.Migrate(db); err != nil {
		closeFn()
		return nil, nil, err
	}
	return repositories.NewGORMStore(db), closeFn, nil
}

func serve(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	ctx := c.Context

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	// A nil interface, not a nil *rabbitmq.Client, disables events.
	var publisher services.OrderEventPublisher
	if cfg.RabbitMQURL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
		if err != nil {
			return err
		}
		defer mqClient.Close()
		publisher = mqClient

		if err := mqClient.ConsumeOrderEvents(handleOrderEvent); err != nil {
			log.WithError(err).Warn("Failed to start RabbitMQ consumer")
		}
	} else {
		log.Info("RABBITMQ_URL not set, order events disabled")
	}

	var idem idempotency.Store
	if cfg.RedisAddr != "" {
		rdb, err := idempotency.NewRedisClient(ctx, cfg.RedisAddr)
		if err != nil {
			return err
		}
		defer rdb.Close()
		idem = idempotency.NewRedisStore(rdb, cfg.IdempotencyTTL)
	} else {
		log.Info("REDIS_ADDR not set, Idempotency-Key header ignored")
	}

	images, err := services.NewImageStore(cfg.UploadDir)
	if err != nil {
		return err
	}

	app := server.New(cfg, server.Dependencies{
		Store:       store,
		Publisher:   publisher,
		Idempotency: idem,
		Images:      images,
	})

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	listenErr := make(chan error, 1)
	go func() {
		log.WithField("addr", cfg.AppPort).Info("Starting server")
		listenErr <- app.Listen(cfg.AppPort)
	}()

	select {
	case err := <-listenErr:
		return fmt.Errorf("server failed to start: %w", err)
	case <-quit:
	}

	log.Info("Shutting down server...")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.WithError(err).Error("Error during Fiber shutdown")
	}
	log.Info("Server gracefully stopped")
	return nil
}

func migrate(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	_, closeStore, err := openStore(c.Context, cfg)
	if err != nil {
		return err
	}
	closeStore()
	log.WithField("driver", cfg.DatabaseDriver).Info("Migration complete")
	return nil
}

func seed(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	store, closeStore, err := openStore(c.Context, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	return seedStore(c.Context, store, c.String("admin-email"), c.String("admin-password"))
}

// seedStore inserts sample categories and products, and an admin user when
// adminEmail is set.
func seedStore(ctx context.Context, store *repositories.Store, adminEmail, adminPassword string) error {
	categoryService := services.NewCategoryService(store.Categories)
	productService := services.NewProductService(store.Products, store.Categories)

	catalogue := []struct {
		category models.Category
		products []models.Product
	}{
		{
			category: models.Category{Name: "Electronics", Icon: "icon-laptop", Color: "#2b7bbd"},
			products: []models.Product{
				{Name: "Laptop", Description: "High performance laptop", Brand: "Acme", Price: 1200.00, CountInStock: 10, IsFeatured: true},
				{Name: "Keyboard", Description: "Mechanical keyboard", Brand: "Acme", Price: 75.00, CountInStock: 25},
				{Name: "Mouse", Description: "Ergonomic wireless mouse", Brand: "Acme", Price: 25.00, CountInStock: 50},
			},
		},
		{
			category: models.Category{Name: "Home & Kitchen", Icon: "icon-home", Color: "#c46c2b"},
			products: []models.Product{
				{Name: "Coffee Mug", Description: "Stoneware mug, 350 ml", Brand: "Potter", Price: 9.50, CountInStock: 120, IsFeatured: true},
				{Name: "Kettle", Description: "Electric kettle, 1.7 l", Brand: "Potter", Price: 39.90, CountInStock: 15},
			},
		},
	}

	for _, entry := range catalogue {
		category := entry.category
		if err := categoryService.CreateCategory(ctx, &category); err != nil {
			return fmt.Errorf("failed to seed category %s: %w", category.Name, err)
		}
		for _, p := range entry.products {
			product := p
			product.CategoryID = category.ID
			if err := productService.CreateProduct(ctx, &product); err != nil {
				return fmt.Errorf("failed to seed product %s: %w", product.Name, err)
			}
			log.WithFields(log.Fields{"product": product.Name, "id": product.ID}).Info("Seeded product")
		}
	}

	if adminEmail == "" {
		return nil
	}
	if adminPassword == "" {
		return errors.New("admin-password is required with admin-email")
	}
	admin, err := services.NewUserService(store.Users).CreateUser(ctx, models.UserRequest{
		Name:     "Administrator",
		Email:    adminEmail,
		Password: adminPassword,
		IsAdmin:  true,
	})
	if err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}
	log.WithField("email", admin.Email).Info("Seeded admin user")
	return nil
}

// handleOrderEvent logs order events received from the broker. A body that
// is not an order event is returned as an error so the message is requeued
// once and then dropped.
func handleOrderEvent(msg amqp.Delivery) error {
	var event models.OrderEvent
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		return fmt.Errorf("failed to decode order event: %w", err)
	}
	if event.OrderID == "" {
		return fmt.Errorf("order event %q without order ID", msg.RoutingKey)
	}

	log.WithFields(log.Fields{
		"type":        event.Type,
		"routing_key": msg.RoutingKey,
		"order_id":    event.OrderID,
		"status":      event.Status,
		"total":       event.TotalPrice,
	}).Info("Received order event")
	return nil
}
