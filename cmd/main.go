package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"hotel-services/internal/adapter/web"
	"hotel-services/internal/cache"
	"hotel-services/internal/config"
	"hotel-services/internal/database"
	"hotel-services/internal/logger"
	"hotel-services/internal/messaging"
	"hotel-services/internal/services/amenity"
	"hotel-services/internal/services/notification"
	"hotel-services/internal/services/restaurant"
	"hotel-services/internal/storage/memory"
)

const (
	modeAmenity    = "amenity-service"
	modeRestaurant = "restaurant-service"
	modeSubscriber = "event-subscriber"

	shutdownTimeout = 10 * time.Second
)

func main() {
	var (
		mode       = flag.String("mode", "", "Service mode (amenity-service, restaurant-service, event-subscriber)")
		port       = flag.Int("port", 0, "HTTP port, overrides the config value")
		queue      = flag.String("queue", messaging.QueueNotifications, "Queue consumed in event-subscriber mode")
		configPath = flag.String("config", "config.yaml", "Path to the configuration file")
	)
	flag.Parse()

	if *mode == "" {
		fmt.Fprintf(os.Stderr, "Error: --mode flag is required\n")
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(*mode)
	requestID := logger.GenerateRequestID()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info("service_starting", fmt.Sprintf("Starting %s", *mode), requestID, map[string]interface{}{
		"mode":    *mode,
		"storage": cfg.Storage.Driver,
	})

	switch *mode {
	case modeAmenity:
		err = runAmenityService(ctx, cfg, log, pick(*port, cfg.HTTP.AmenityPort))
	case modeRestaurant:
		err = runRestaurantService(ctx, cfg, log, pick(*port, cfg.HTTP.RestaurantPort))
	case modeSubscriber:
		err = runEventSubscriber(ctx, cfg, log, *queue)
	default:
		err = fmt.Errorf("unknown mode: %s", *mode)
	}
	if err != nil {
		log.Error("service_failed", fmt.Sprintf("%s failed", *mode), requestID, err, nil)
		os.Exit(1)
	}

	log.Info("service_stopped", "Service stopped gracefully", requestID, nil)
}

func pick(flagPort, cfgPort int) int {
	if flagPort > 0 {
		return flagPort
	}
	return cfgPort
}

// runAmenityService serves the amenity catalog and amenity orders
func runAmenityService(ctx context.Context, cfg *config.Config, log *logger.Logger, port int) error {
	var (
		catalog cache.AmenityStore
		orders  amenity.OrderRepo
		pinger  web.Pinger
	)

	switch cfg.Storage.Driver {
	case config.DriverPostgres:
		db, err := openDatabase(ctx, cfg, log)
		if err != nil {
			return err
		}
		defer db.Close()
		repo := database.NewAmenityRepository(db)
		catalog, orders, pinger = repo, repo, repo
	default:
		store := memory.NewAmenityStore()
		catalog, orders, pinger = store, store, store
	}

	c, closeCache, err := openCache(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeCache()
	if c != nil {
		catalog = cache.NewAmenityCatalog(catalog, c)
	}

	bus, closeBus, err := openEventBus(ctx, cfg, log, amenity.ServiceName)
	if err != nil {
		return err
	}
	defer closeBus()

	service := amenity.NewService(catalog, orders, bus, log)
	handler := amenity.NewHandler(service, log)

	router := web.NewRouter(log, cfg.HTTP.RateLimitRPS, cfg.HTTP.RateLimitBurst)
	router.GET("/health", web.HealthCheck(amenity.ServiceName, pinger))
	handler.RegisterRoutes(router)

	return serve(ctx, log, router, port)
}

// runRestaurantService serves the menu, restaurant orders and reservations
func runRestaurantService(ctx context.Context, cfg *config.Config, log *logger.Logger, port int) error {
	var (
		menu         cache.MenuStore
		orders       restaurant.OrderRepo
		reservations restaurant.ReservationRepo
		pinger       web.Pinger
	)

	switch cfg.Storage.Driver {
	case config.DriverPostgres:
		db, err := openDatabase(ctx, cfg, log)
		if err != nil {
			return err
		}
		defer db.Close()
		repo := database.NewRestaurantRepository(db)
		menu, orders, reservations, pinger = repo, repo, repo, repo
	default:
		store := memory.NewRestaurantStore()
		menu, orders, reservations, pinger = store, store, store, store
	}

	c, closeCache, err := openCache(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeCache()
	if c != nil {
		menu = cache.NewMenuCatalog(menu, c)
	}

	bus, closeBus, err := openEventBus(ctx, cfg, log, restaurant.ServiceName)
	if err != nil {
		return err
	}
	defer closeBus()

	service := restaurant.NewService(menu, orders, reservations, bus, log)
	handler := restaurant.NewHandler(service, log)

	router := web.NewRouter(log, cfg.HTTP.RateLimitRPS, cfg.HTTP.RateLimitBurst)
	router.GET("/health", web.HealthCheck(restaurant.ServiceName, pinger))
	handler.RegisterRoutes(router)

	return serve(ctx, log, router, port)
}

// runEventSubscriber prints every event delivered to queue
func runEventSubscriber(ctx context.Context, cfg *config.Config, log *logger.Logger, queue string) error {
	if !cfg.RabbitMQ.Enabled {
		return errors.New("event-subscriber requires rabbitmq.enabled")
	}

	conn, err := messaging.New(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize messaging: %w", err)
	}
	defer conn.Close()

	log.Info("rabbitmq_connected", "Connected to RabbitMQ", "", map[string]interface{}{
		"queue": queue,
	})

	consumer := messaging.NewConsumer(conn, log, queue, fmt.Sprintf("%s-%d", modeSubscriber, os.Getpid()))
	defer consumer.Close()

	return notification.NewSubscriber(consumer, os.Stdout, log).Run(ctx)
}

func openDatabase(ctx context.Context, cfg *config.Config, log *logger.Logger) (*database.DB, error) {
	db, err := database.New(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	log.Info("db_connected", "Connected to PostgreSQL database", "", nil)

	if err := db.RunMigrations(ctx, cfg.Database.MigrationsDir); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return db, nil
}

// openCache returns nil when Redis is disabled
func openCache(ctx context.Context, cfg *config.Config, log *logger.Logger) (*cache.Cache, func(), error) {
	if !cfg.Redis.Enabled {
		return nil, func() {}, nil
	}

	client, err := cache.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	log.Info("redis_connected", "Connected to Redis", "", map[string]interface{}{
		"addr": cfg.Redis.Addr,
	})
	return cache.New(client, cfg.CacheTTL(), log), func() { client.Close() }, nil
}

// openEventBus returns a bus without a publisher when RabbitMQ is disabled
func openEventBus(ctx context.Context, cfg *config.Config, log *logger.Logger, source string) (*messaging.EventBus, func(), error) {
	if !cfg.RabbitMQ.Enabled {
		log.Info("events_disabled", "RabbitMQ disabled, events are not published", "", nil)
		return messaging.NewEventBus(nil, source, log), func() {}, nil
	}

	conn, err := messaging.New(ctx, cfg, log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize messaging: %w", err)
	}

	log.Info("rabbitmq_connected", "Connected to RabbitMQ", "", map[string]interface{}{
		"exchange": conn.Exchange(),
	})

	publisher := messaging.NewPublisher(conn, log)
	return messaging.NewEventBus(publisher, source, log), func() { conn.Close() }, nil
}

// serve runs the HTTP server until ctx is cancelled, then drains it
func serve(ctx context.Context, log *logger.Logger, router *gin.Engine, port int) error {
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("service_started", fmt.Sprintf("HTTP server started on port %d", port), "", map[string]interface{}{
			"port": port,
		})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("graceful_shutdown", "Shutting down HTTP server", "", nil)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
