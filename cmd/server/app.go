package main

import (
	"context"
	"fmt"

	appfinance "github.com/erp/stockledger/internal/application/finance"
	appledger "github.com/erp/stockledger/internal/application/ledger"
	apppayroll "github.com/erp/stockledger/internal/application/payroll"
	appshared "github.com/erp/stockledger/internal/application/shared"
	appstock "github.com/erp/stockledger/internal/application/stock"
	apptrade "github.com/erp/stockledger/internal/application/trade"
	"github.com/erp/stockledger/internal/domain/stock"
	"github.com/erp/stockledger/internal/domain/shared"
	"github.com/erp/stockledger/internal/infrastructure/auth"
	"github.com/erp/stockledger/internal/infrastructure/cache"
	"github.com/erp/stockledger/internal/infrastructure/config"
	"github.com/erp/stockledger/internal/infrastructure/lock"
	"github.com/erp/stockledger/internal/infrastructure/logger"
	"github.com/erp/stockledger/internal/infrastructure/migration"
	"github.com/erp/stockledger/internal/infrastructure/persistence"
	"github.com/erp/stockledger/internal/infrastructure/telemetry"
	"github.com/erp/stockledger/internal/interfaces/http/handler"
	"github.com/erp/stockledger/internal/interfaces/http/middleware"
	"github.com/erp/stockledger/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// app owns the long-lived resources behind the HTTP engine
type app struct {
	engine      *gin.Engine
	db          *persistence.Database
	redis       *redis.Client
	idempotency shared.IdempotencyStore
	log         *zap.Logger
}

func newApp(cfg *config.Config, log *zap.Logger, meters *telemetry.MeterProvider) (*app, error) {
	db, err := persistence.NewDatabase(&cfg.Database, log)
	if err != nil {
		return nil, err
	}
	a := &app{db: db, log: log}

	if err := migrateSchema(cfg, db, log); err != nil {
		a.Close()
		return nil, err
	}

	if err := telemetry.RegisterGormTracing(db.DB, telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		DBSystem:        dbSystem(cfg.Database.Driver),
		SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
	}, log); err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to register database tracing: %w", err)
	}

	locker, redisClient, err := lock.NewFactory(cfg.Redis, cfg.Ledger, lock.WithLogger(log)).Create()
	if err != nil {
		a.Close()
		return nil, err
	}
	a.redis = redisClient

	var revocations auth.Revocations = auth.NewMemoryRevocations()
	if redisClient != nil {
		revocations = auth.NewRedisRevocations(redisClient)
	}
	a.idempotency = cache.NewIdempotencyStore(redisClient, log)

	meter := meters.Meter("github.com/erp/stockledger")
	metrics, err := telemetry.NewLedgerMetrics(meter)
	if err != nil {
		a.Close()
		return nil, err
	}

	policy, err := stock.ParseNegativeStockPolicy(cfg.Ledger.NegativeStockPolicy)
	if err != nil {
		a.Close()
		return nil, err
	}

	runner := appshared.NewRunner(
		persistence.NewGormTransactionScope(db.DB),
		appshared.WithLocker(locker),
		appshared.WithConflictRetries(cfg.Ledger.ConflictRetries),
		appshared.WithMetrics(metrics),
	)
	handlers := buildHandlers(runner, policy, metrics, revocations)

	httpMetrics, err := middleware.HTTPMetrics(meter)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.engine = newEngine(cfg, log, auth.NewJWTService(cfg.JWT), revocations, a.idempotency, httpMetrics, handlers,
		handler.NewSystemHandler(cfg.App.Name, telemetry.ServiceVersion, a.healthChecks()))
	return a, nil
}

func buildHandlers(runner *appshared.Runner, policy stock.NegativeStockPolicy, metrics *telemetry.LedgerMetrics, revocations auth.Revocations) router.Handlers {
	numberer := appledger.NewNumberer(runner.Now)
	transactions := appledger.NewTransactionLedger(metrics)
	stockLedger := appstock.NewStockLedger(policy, metrics)
	bills := apptrade.NewBillService(runner, numberer, transactions)

	return router.Handlers{
		Inventory:       handler.NewInventoryHandler(appstock.NewInventoryService(runner, stockLedger)),
		Receipts:        handler.NewReceiptHandler(apptrade.NewReceivingService(runner, numberer, stockLedger, transactions), bills),
		Bills:           handler.NewBillHandler(bills),
		PurchaseReturns: handler.NewPurchaseReturnHandler(apptrade.NewPurchaseReturnService(runner, numberer, stockLedger, transactions)),
		Invoices:        handler.NewInvoiceHandler(apptrade.NewSaleService(runner, numberer, stockLedger, transactions)),
		SaleReturns:     handler.NewSaleReturnHandler(apptrade.NewSaleReturnService(runner, numberer, stockLedger, transactions)),
		Productions:     handler.NewProductionHandler(appstock.NewProductionService(runner, numberer, stockLedger)),
		Transfers:       handler.NewTransferHandler(appstock.NewTransferService(runner, numberer, stockLedger)),
		Adjustments:     handler.NewAdjustmentHandler(appstock.NewAdjustmentService(runner, numberer, stockLedger)),
		Employees:       handler.NewEmployeeHandler(apppayroll.NewEmployeeService(runner)),
		Advances:        handler.NewAdvanceHandler(apppayroll.NewAdvanceService(runner, transactions)),
		Salaries:        handler.NewSalaryHandler(apppayroll.NewSalaryService(runner, numberer, transactions)),
		Vouchers:        handler.NewVoucherHandler(appfinance.NewVoucherService(runner, numberer, transactions)),
		VendorPayments:  handler.NewVendorPaymentHandler(appfinance.NewVendorPaymentService(runner, numberer, transactions)),
		Collections:     handler.NewCollectionHandler(appfinance.NewCollectionService(runner, numberer, transactions)),
		Ledger:          handler.NewLedgerHandler(appledger.NewService(runner, transactions)),
		Session:         handler.NewSessionHandler(revocations),
	}
}

func newEngine(
	cfg *config.Config,
	log *zap.Logger,
	jwtSvc *auth.JWTService,
	revocations auth.Revocations,
	idempotency shared.IdempotencyStore,
	httpMetrics gin.HandlerFunc,
	handlers router.Handlers,
	system *handler.SystemHandler,
) *gin.Engine {
	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Warn("Invalid trusted proxies, trusting none", zap.Error(err))
		_ = engine.SetTrustedProxies(nil)
	}

	tracing := middleware.DefaultTracingConfig()
	tracing.ServiceName = cfg.Telemetry.ServiceName
	tracing.Enabled = cfg.Telemetry.Enabled

	cors := middleware.DefaultCORSConfig()
	cors.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		cors.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		cors.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}

	engine.Use(
		middleware.RequestID(),
		middleware.TracingWithConfig(tracing),
		middleware.SpanErrorMarker(),
		logger.GinMiddleware(log),
		logger.Recovery(log),
		httpMetrics,
		middleware.CORSWithConfig(cors),
		middleware.Secure(),
		middleware.BodyLimit(cfg.HTTP.MaxBodySize),
	)

	engine.GET("/health", system.Health)
	engine.GET("/api/v1/health", system.Health)

	jwtCfg := middleware.DefaultJWTConfig(jwtSvc)
	jwtCfg.Revocations = revocations
	jwtCfg.Logger = log
	// Outside production a bare tenant header may stand in for a token
	jwtCfg.Required = cfg.App.IsProduction()

	tenantCfg := middleware.DefaultTenantConfig()
	tenantCfg.HeaderEnabled = !cfg.App.IsProduction()
	tenantCfg.HeaderName = cfg.Ledger.DefaultTenantHeader
	tenantCfg.Logger = log

	systemGroup := router.NewDomainGroup("system", "/system").
		GET("/info", system.GetSystemInfo).
		GET("/ping", system.Ping)

	r := router.NewRouter(engine, router.WithMiddleware(
		middleware.Timeout(cfg.HTTP.WriteTimeout),
		middleware.JWTAuthMiddlewareWithConfig(jwtCfg),
		middleware.TenantMiddlewareWithConfig(tenantCfg),
		middleware.Idempotency(middleware.IdempotencyConfig{
			Store:  idempotency,
			TTL:    cfg.HTTP.IdempotencyTTL,
			Logger: log,
		}),
	))
	r.Register(systemGroup).Register(router.APIGroups(handlers)...).Setup()
	return engine
}

func (a *app) healthChecks() map[string]handler.HealthCheck {
	checks := map[string]handler.HealthCheck{
		"database": a.db.PingContext,
	}
	if a.redis != nil {
		checks["redis"] = func(ctx context.Context) error {
			return a.redis.Ping(ctx).Err()
		}
	}
	return checks
}

// Close releases the idempotency store and the database and Redis connections
func (a *app) Close() {
	if a.idempotency != nil {
		_ = a.idempotency.Close()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.log.Error("Error closing redis", zap.Error(err))
		}
	}
	if err := a.db.Close(); err != nil {
		a.log.Error("Error closing database", zap.Error(err))
	}
}

// migrateSchema brings the schema up to date: versioned migrations on
// PostgreSQL, model-driven creation on sqlite
func migrateSchema(cfg *config.Config, db *persistence.Database, log *zap.Logger) error {
	if cfg.Database.Driver == "sqlite" {
		return db.AutoMigrate()
	}
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	m, err := migration.New(sqlDB, "", log)
	if err != nil {
		return err
	}
	// Closing the migrator would close sqlDB, which the app keeps using
	return m.Up()
}

func dbSystem(driver string) string {
	if driver == "sqlite" {
		return "sqlite"
	}
	return "postgresql"
}
