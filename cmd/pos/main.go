package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/fekuna/omnipos-workshop-pos/config"
	"github.com/fekuna/omnipos-workshop-pos/internal/cart"
	"github.com/fekuna/omnipos-workshop-pos/internal/checkout"
	"github.com/fekuna/omnipos-workshop-pos/internal/customer"
	"github.com/fekuna/omnipos-workshop-pos/internal/httpx"
	"github.com/fekuna/omnipos-workshop-pos/internal/inventory"
	"github.com/fekuna/omnipos-workshop-pos/internal/ledger"
	"github.com/fekuna/omnipos-workshop-pos/internal/pkg/broker"
	"github.com/fekuna/omnipos-workshop-pos/internal/pkg/cache"
	"github.com/fekuna/omnipos-workshop-pos/internal/pkg/logger"
	"github.com/fekuna/omnipos-workshop-pos/internal/pkg/postgres"
	"github.com/fekuna/omnipos-workshop-pos/internal/pkg/search"
	"github.com/fekuna/omnipos-workshop-pos/internal/product"
	"github.com/fekuna/omnipos-workshop-pos/internal/receipt"
	"github.com/fekuna/omnipos-workshop-pos/internal/store/memdb"
	pgstore "github.com/fekuna/omnipos-workshop-pos/internal/store/postgres"

	cartH "github.com/fekuna/omnipos-workshop-pos/internal/cart/handler"
	cartUCPkg "github.com/fekuna/omnipos-workshop-pos/internal/cart/usecase"
	checkoutH "github.com/fekuna/omnipos-workshop-pos/internal/checkout/handler"
	custH "github.com/fekuna/omnipos-workshop-pos/internal/customer/handler"
	custUCPkg "github.com/fekuna/omnipos-workshop-pos/internal/customer/usecase"
	invH "github.com/fekuna/omnipos-workshop-pos/internal/inventory/handler"
	invUCPkg "github.com/fekuna/omnipos-workshop-pos/internal/inventory/usecase"
	ledgerH "github.com/fekuna/omnipos-workshop-pos/internal/ledger/handler"
	ledgerListenerPkg "github.com/fekuna/omnipos-workshop-pos/internal/ledger/listener"
	ledgerUCPkg "github.com/fekuna/omnipos-workshop-pos/internal/ledger/usecase"
	prodH "github.com/fekuna/omnipos-workshop-pos/internal/product/handler"
	prodUCPkg "github.com/fekuna/omnipos-workshop-pos/internal/product/usecase"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// backend is the storage selected by STORE_DRIVER.
type backend struct {
	products  product.Repository
	customers customer.Repository
	ledger    ledger.Repository
	inventory inventory.Repository
	committer checkout.Committer
	close     func() error
}

func openBackend(ctx context.Context, cfg *config.Config, appLogger logger.ZapLogger) (*backend, error) {
	switch cfg.Store.Driver {
	case "postgres":
		db, err := postgres.NewPostgres(&postgres.Config{
			Host:            cfg.Postgres.Host,
			Port:            cfg.Postgres.Port,
			User:            cfg.Postgres.User,
			Password:        cfg.Postgres.Password,
			DBName:          cfg.Postgres.DBName,
			SSLMode:         cfg.Postgres.SSLMode,
			MaxOpenConns:    cfg.Postgres.MaxOpenConns,
			MaxIdleConns:    cfg.Postgres.MaxIdleConns,
			ConnMaxLifetime: time.Duration(cfg.Postgres.ConnMaxLifetime) * time.Second,
			ConnMaxIdleTime: time.Duration(cfg.Postgres.ConnMaxIdleTime) * time.Second,
		})
		if err != nil {
			return nil, err
		}
		appLogger.Info("Connected to PostgreSQL database", zap.String("db_name", cfg.Postgres.DBName))

		s := pgstore.New(db, appLogger)
		if err := s.Migrate(ctx); err != nil {
			return nil, err
		}
		if cfg.Store.Seed {
			if err := s.SeedIfEmpty(ctx); err != nil {
				return nil, err
			}
		}
		return &backend{
			products:  s.Products(),
			customers: s.Customers(),
			ledger:    s.Ledger(),
			inventory: s.Inventory(),
			committer: s,
			close:     s.Close,
		}, nil

	case "memory", "":
		s, err := memdb.New(memdb.Options{
			SnapshotPath: cfg.Store.SnapshotPath,
			Seed:         cfg.Store.Seed,
			Logger:       appLogger,
		})
		if err != nil {
			return nil, err
		}
		appLogger.Info("Using in-memory store", zap.String("snapshot", cfg.Store.SnapshotPath))
		return &backend{
			products:  s.Products(),
			customers: s.Customers(),
			ledger:    s.Ledger(),
			inventory: s.Inventory(),
			committer: s,
			close:     s.Close,
		}, nil
	}
	return nil, errors.New("unknown STORE_DRIVER " + cfg.Store.Driver)
}

func main() {
	// 1. Load Configuration
	_ = godotenv.Load()
	cfg := config.LoadEnv()

	// 2. Initialize Logger
	logConfig := &logger.ZapLoggerConfig{
		IsDevelopment:     false,
		Encoding:          "json",
		Level:             "info",
		DisableCaller:     cfg.Logger.DisableCaller,
		DisableStacktrace: cfg.Logger.DisableStacktrace,
	}
	if cfg.Server.AppEnv == "development" || cfg.Server.AppEnv == "dev" {
		logConfig.IsDevelopment = true
		logConfig.Encoding = cfg.Logger.Encoding
		logConfig.Level = cfg.Logger.Level
	}
	appLogger := logger.NewZapLogger(logConfig)
	defer appLogger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	loc, err := time.LoadLocation(cfg.POS.Timezone)
	if err != nil {
		appLogger.Warn("Unknown POS_TIMEZONE, using local time", zap.String("tz", cfg.POS.Timezone), zap.Error(err))
		loc = time.Local
	}
	shop := receipt.Shop{
		Name:     cfg.POS.ShopName,
		Address:  cfg.POS.ShopAddress,
		Phone:    cfg.POS.ShopPhone,
		Location: loc,
	}

	// 3. Storage
	store, err := openBackend(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Could not open store", zap.String("driver", cfg.Store.Driver), zap.Error(err))
	}
	defer store.close()

	// 4. Optional side channels
	var redisClient *cache.RedisClient
	if cfg.Redis.Enabled {
		redisClient, err = cache.NewRedisClient(&cache.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			appLogger.Fatal("Could not connect to Redis", zap.Error(err))
		}
		defer redisClient.Close()
		appLogger.Info("Connected to Redis", zap.String("addr", cfg.Redis.Addr))
	}

	var producer *broker.Producer
	var kafkaConsumer *broker.KafkaConsumer
	if cfg.Kafka.Enabled {
		kafkaCfg := &broker.Config{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.Topic,
			GroupID: cfg.Kafka.GroupID,
		}
		producer = broker.NewProducer(kafkaCfg, 256, appLogger)
		producer.Start()
		defer producer.Close()

		kafkaConsumer = broker.NewConsumer(kafkaCfg)
		defer kafkaConsumer.Close()
		appLogger.Info("Connected to Kafka", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))
	}

	var esClient *search.Client
	if cfg.Elastic.Enabled {
		esClient, err = search.NewClient(&search.Config{
			Addresses: cfg.Elastic.Addresses,
			Username:  cfg.Elastic.Username,
			Password:  cfg.Elastic.Password,
		})
		if err != nil {
			appLogger.Warn("Could not connect to Elasticsearch (search falls back to the store)", zap.Error(err))
			esClient = nil
		} else {
			appLogger.Info("Connected to Elasticsearch", zap.Strings("addresses", cfg.Elastic.Addresses))
		}
	}

	// 5. Initialize UseCases
	taxRate, err := decimal.NewFromString(cfg.POS.DefaultTaxRate)
	if err != nil {
		appLogger.Fatal("Invalid POS_DEFAULT_TAX_RATE", zap.Error(err))
	}
	discountRate, err := decimal.NewFromString(cfg.POS.DefaultDiscountRate)
	if err != nil {
		appLogger.Fatal("Invalid POS_DEFAULT_DISCOUNT_RATE", zap.Error(err))
	}
	sessionCart := cart.New(taxRate, discountRate)

	prodUC := prodUCPkg.NewProductUseCase(store.products, redisClient, esClient, appLogger)
	custUC := custUCPkg.NewCustomerUseCase(store.customers, store.ledger, appLogger)
	cartUC := cartUCPkg.NewCartUseCase(sessionCart, store.products, appLogger)
	ledgerUC := ledgerUCPkg.NewLedgerUseCase(store.ledger, store.products, store.customers, esClient,
		ledgerUCPkg.Config{Shop: shop, LowStockThreshold: cfg.POS.LowStockThreshold}, appLogger)

	engineCfg := checkout.Config{
		Cart:        sessionCart,
		Customers:   store.customers,
		Committer:   store.committer,
		Logger:      appLogger,
		Shop:        cfg.POS.ShopName,
		// Stale list fills are only fenced within this process; a second
		// instance sharing Redis may serve an old page until it expires.
		Catalog:     prodUC,
	}
	var invPublisher invUCPkg.Publisher
	if producer != nil {
		engineCfg.Publisher = producer
		invPublisher = producer
	}
	if redisClient != nil {
		engineCfg.Locker = redisClient
	}
	engine := checkout.NewEngine(engineCfg)
	invUC := invUCPkg.NewInventoryUseCase(store.inventory, redisClient, invPublisher, prodUC, appLogger)

	// 6. Listeners
	if kafkaConsumer != nil && esClient != nil {
		receiptListener := ledgerListenerPkg.NewReceiptListener(kafkaConsumer, ledgerUC, appLogger)
		go receiptListener.Start(ctx)
	}

	// 7. HTTP
	router := httpx.NewRouter(appLogger, cfg.Server.RequestTimeout)
	router.Route("/api/v1", func(r chi.Router) {
		prodH.NewProductHandler(prodUC, appLogger).Register(r)
		custH.NewCustomerHandler(custUC, appLogger).Register(r)
		cartH.NewCartHandler(cartUC, appLogger).Register(r)
		checkoutH.NewCheckoutHandler(engine, appLogger).Register(r)
		ledgerH.NewLedgerHandler(ledgerUC, shop, appLogger).Register(r)
		invH.NewInventoryHandler(invUC, appLogger).Register(r)
	})

	httpServer := &http.Server{
		Addr:              normalizePort(cfg.Server.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		appLogger.Info("Starting HTTP server", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("failed to serve http", zap.Error(err))
		}
	}()

	// 8. gRPC health for orchestrator probes
	port := normalizePort(cfg.Server.GRPCPort)
	lis, err := net.Listen("tcp", port)
	if err != nil {
		log.Fatalf("failed to listen: %v", err)
	}
	grpcServer := grpc.NewServer()
	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	reflection.Register(grpcServer)

	appLogger.Info("Starting gRPC health server", zap.String("port", port))
	go func() {
		if err := grpcServer.Serve(lis); err != nil {
			appLogger.Fatal("failed to serve grpc", zap.Error(err))
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")
	healthServer.Shutdown()
	cancel()

	shutdownCtx, done := context.WithTimeout(context.Background(), 10*time.Second)
	defer done()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("http shutdown", zap.Error(err))
	}
	grpcServer.GracefulStop()
	appLogger.Info("Server stopped")
}

func normalizePort(port string) string {
	if !strings.HasPrefix(port, ":") && !strings.Contains(port, ":") {
		return ":" + port
	}
	return port
}
