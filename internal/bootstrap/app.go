// Package bootstrap builds the object graph shared by the API server and
// the admin CLI: database, caches, repositories, services and the event bus.
package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	auditapp "github.com/rentquote/backend/internal/application/audit"
	billingapp "github.com/rentquote/backend/internal/application/billing"
	catalogapp "github.com/rentquote/backend/internal/application/catalog"
	notificationapp "github.com/rentquote/backend/internal/application/notification"
	propertyapp "github.com/rentquote/backend/internal/application/property"
	quotationapp "github.com/rentquote/backend/internal/application/quotation"
	reportapp "github.com/rentquote/backend/internal/application/report"
	"github.com/rentquote/backend/internal/domain/billing"
	"github.com/rentquote/backend/internal/domain/notification"
	"github.com/rentquote/backend/internal/domain/shared"
	"github.com/rentquote/backend/internal/infrastructure/auth"
	"github.com/rentquote/backend/internal/infrastructure/cache"
	"github.com/rentquote/backend/internal/infrastructure/config"
	"github.com/rentquote/backend/internal/infrastructure/event"
	"github.com/rentquote/backend/internal/infrastructure/logger"
	"github.com/rentquote/backend/internal/infrastructure/metrics"
	"github.com/rentquote/backend/internal/infrastructure/migration"
	"github.com/rentquote/backend/internal/infrastructure/notify"
	"github.com/rentquote/backend/internal/infrastructure/persistence"
	"github.com/rentquote/backend/internal/infrastructure/printing"
	"github.com/rentquote/backend/internal/infrastructure/storage"
	"github.com/rentquote/backend/internal/infrastructure/telemetry"
	"github.com/rentquote/backend/migrations"
	"go.uber.org/zap"
)

// Options controls optional startup steps
type Options struct {
	// Migrate brings the schema up to date before services are built
	Migrate bool
	// Outbound enables notification delivery, object storage and PDF
	// rendering. The admin CLI leaves it off for read-only commands.
	Outbound bool
}

// Services groups the application services handlers and jobs call
type Services struct {
	Category       *catalogapp.CategoryService
	Product        *catalogapp.ProductService
	Customer       *quotationapp.CustomerService
	Quotation      *quotationapp.QuotationService
	Terms          *quotationapp.TermsService
	Contract       *quotationapp.ContractService
	Property       *propertyapp.PropertyService
	Unit           *propertyapp.UnitService
	Tenant         *propertyapp.TenantService
	Lease          *propertyapp.LeaseService
	Ledger         *billingapp.LedgerService
	Template       *billingapp.TemplateService
	RentInvoice    *billingapp.RentInvoiceService
	Payment        *billingapp.PaymentService
	Number         *billingapp.NumberService
	Notification   *notificationapp.NotificationService
	ExpiryNotifier *notificationapp.ContractExpiryNotifier
	Dashboard      *reportapp.DashboardService
	Audit          *auditapp.AuditService
}

// App is the assembled application
type App struct {
	Config      *config.Config
	Logger      *zap.Logger
	DB          *persistence.Database
	Redis       *redis.Client
	Metrics     *metrics.Metrics
	Tracer      *telemetry.TracerProvider
	Bus         *event.InMemoryEventBus
	Idempotency shared.IdempotencyStore
	Blacklist   auth.TokenBlacklist
	JWT         *auth.JWTService
	Accounts    *persistence.SqlxDashboardRepository
	Storage     *storage.S3ObjectStorage
	Renderer    *printing.ChromedpRenderer
	Services    Services

	closers []func(context.Context) error
}

// New connects to the configured backends and builds every service. On
// error everything opened so far is closed again.
func New(ctx context.Context, cfg *config.Config, log *zap.Logger, opts Options) (app *App, err error) {
	app = &App{Config: cfg, Logger: log, Metrics: metrics.New()}
	defer func() {
		if err != nil {
			_ = app.Close(context.Background())
			app = nil
		}
	}()

	app.Tracer, err = telemetry.NewTracerProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		return app, err
	}
	app.onClose(app.Tracer.Shutdown)

	if err = app.openDatabase(opts.Migrate); err != nil {
		return app, err
	}
	app.openRedis(ctx)

	app.JWT = auth.NewJWTService(cfg.JWT)
	var redisClient redis.UniversalClient
	if app.Redis != nil {
		redisClient = app.Redis
		app.Blacklist = auth.NewRedisTokenBlacklist(app.Redis)
	} else {
		app.Blacklist = auth.NewInMemoryTokenBlacklist()
	}
	app.Idempotency = cache.NewIdempotencyStore(redisClient, log)
	app.onClose(func(context.Context) error { return app.Idempotency.Close() })

	app.Bus = event.NewInMemoryEventBus(log, event.WithDispatchObserver(app.Metrics.ObserveEvent))

	var dispatcher notification.Dispatcher
	if opts.Outbound {
		dispatcher = app.newDispatcher()
		if err = app.openDocumentOutput(ctx); err != nil {
			return app, err
		}
	}

	app.buildServices(dispatcher)
	app.subscribeHandlers()

	if err = app.Bus.Start(ctx); err != nil {
		return app, err
	}
	app.onClose(app.Bus.Stop)
	return app, nil
}

// Close releases resources in reverse order of acquisition
func (a *App) Close(ctx context.Context) error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func (a *App) onClose(fn func(context.Context) error) {
	a.closers = append(a.closers, fn)
}

func (a *App) openDatabase(migrate bool) error {
	cfg, log := a.Config, a.Logger
	db, err := persistence.NewDatabase(&cfg.Database, log.Named("gorm"), persistence.Options{
		LogLevel:      logger.MapGormLogLevel(cfg.Log.Level),
		SlowThreshold: cfg.Telemetry.DBSlowQueryThresh,
		LogFullSQL:    cfg.Telemetry.DBLogFullSQL,
	})
	if err != nil {
		return err
	}
	a.DB = db
	a.onClose(func(context.Context) error { return db.Close() })
	log.Info("Database connected", zap.String("driver", db.Driver()))

	if a.Tracer.Enabled() && cfg.Telemetry.DBTraceEnabled {
		tracing := telemetry.NewDBTracing(cfg.Database.DBName, cfg.Telemetry.DBLogFullSQL, cfg.Telemetry.DBSlowQueryThresh, log)
		if err := tracing.Register(db.DB); err != nil {
			return fmt.Errorf("failed to register database tracing: %w", err)
		}
	}

	if migrate {
		if err := a.migrate(); err != nil {
			return err
		}
	}

	sqlxDB, err := db.SQLX()
	if err != nil {
		return err
	}
	a.Accounts = persistence.NewSqlxDashboardRepository(sqlxDB)
	return nil
}

// migrate uses AutoMigrate on SQLite and the embedded SQL migrations on
// PostgreSQL. The SQL migrations run on their own connection because
// golang-migrate closes the handle it is given.
func (a *App) migrate() error {
	if a.DB.Driver() == persistence.DriverSQLite {
		a.Logger.Info("Applying schema with AutoMigrate")
		return migration.AutoMigrate(a.DB.DB)
	}

	sqlDB, err := sql.Open("postgres", a.Config.Database.DSN())
	if err != nil {
		return fmt.Errorf("failed to open migration connection: %w", err)
	}
	m, err := migration.New(sqlDB, migrations.FS, a.Logger)
	if err != nil {
		_ = sqlDB.Close()
		return err
	}
	defer m.Close()
	return m.Up()
}

func (a *App) openRedis(ctx context.Context) {
	if !a.Config.Redis.Enabled {
		return
	}
	client, err := cache.NewRedisClient(ctx, a.Config.Redis)
	if err != nil {
		a.Logger.Warn("Redis unavailable, continuing with in-memory stores", zap.Error(err))
		return
	}
	a.Redis = client
	a.onClose(func(context.Context) error { return client.Close() })
}

func (a *App) newDispatcher() notification.Dispatcher {
	cfg := a.Config.Notification
	var senders []notification.Sender
	if s := notify.NewSendGridSender(cfg.SendGrid); s != nil {
		senders = append(senders, s)
	}
	if s := notify.NewTwilioSender(cfg.Twilio); s != nil {
		senders = append(senders, s)
	}
	if s := notify.NewTelegramSender(cfg.Telegram); s != nil {
		senders = append(senders, s)
	}
	channels := make([]string, len(senders))
	for i, s := range senders {
		channels[i] = string(s.Channel())
	}
	a.Logger.Info("Notification channels configured", zap.Strings("channels", channels))

	return notify.NewChannelDispatcher(notify.DispatcherConfig{
		RetryAttempts: cfg.RetryAttempts,
		RetryDelay:    cfg.RetryDelay,
		RatePerSecond: cfg.RatePerSecond,
		RateBurst:     cfg.RateBurst,
		SendTimeout:   cfg.SendTimeout,
	}, a.Metrics, a.Logger.Named("notify"), senders...)
}

func (a *App) openDocumentOutput(ctx context.Context) error {
	cfg := a.Config
	if cfg.Storage.Enabled {
		s3, err := storage.NewS3ObjectStorage(&cfg.Storage,
			storage.WithLogger(a.Logger.Named("storage")),
			storage.WithKeyPrefix(cfg.App.Env),
		)
		if err != nil {
			return err
		}
		if err := s3.EnsureBucket(ctx); err != nil {
			a.Logger.Warn("Object storage bucket check failed", zap.String("bucket", s3.Bucket()), zap.Error(err))
		}
		a.Storage = s3
	}
	if cfg.Printing.Enabled {
		r := printing.NewChromedpRenderer(printing.ChromedpConfig{
			RemoteURL: cfg.Printing.RemoteURL,
			Timeout:   cfg.Printing.Timeout,
			NoSandbox: cfg.Printing.NoSandbox,
			Logger:    a.Logger.Named("printing"),
		})
		a.Renderer = r
		a.onClose(func(context.Context) error { return r.Close() })
	}
	return nil
}

func (a *App) buildServices(dispatcher notification.Dispatcher) {
	cfg, log, gdb := a.Config, a.Logger, a.DB.DB

	categoryRepo := persistence.NewGormCategoryRepository(gdb)
	productRepo := persistence.NewGormProductRepository(gdb)
	customerRepo := persistence.NewGormCustomerRepository(gdb)
	quotationRepo := persistence.NewGormQuotationRepository(gdb)
	sequenceRepo := persistence.NewGormSequenceRepository(gdb)
	termsRepo := persistence.NewGormTermsTemplateRepository(gdb)
	contractRepo := persistence.NewGormSupportContractRepository(gdb)
	propertyRepo := persistence.NewGormPropertyRepository(gdb)
	unitRepo := persistence.NewGormUnitRepository(gdb)
	tenantRepo := persistence.NewGormTenantRepository(gdb)
	leaseRepo := persistence.NewGormLeaseRepository(gdb)
	occupancyRepo := persistence.NewGormOccupancyRepository(gdb)
	ledgerRepo := persistence.NewGormLedgerRepository(gdb)
	templateRepo := persistence.NewGormInvoiceTemplateRepository(gdb)
	invoiceRepo := persistence.NewGormRentInvoiceRepository(gdb)
	paymentRepo := persistence.NewGormPaymentRepository(gdb)
	notificationRepo := persistence.NewGormNotificationRepository(gdb)
	auditRepo := persistence.NewGormAuditRepository(gdb)

	policy := billing.NumberingPolicy{
		Prefixes:     make(map[billing.DocumentType]string, len(cfg.Billing.NumberPrefixes)),
		ResetMonthly: cfg.Billing.ResetNumbersMonthly,
	}
	for docType, prefix := range cfg.Billing.NumberPrefixes {
		policy.Prefixes[billing.DocumentType(docType)] = prefix
	}
	numbers := billing.NewNumberGenerator(persistence.NewGormNumberRegistry(gdb), policy)

	parties := billingapp.PropertyRepositories{
		Leases:     leaseRepo,
		Tenants:    tenantRepo,
		Units:      unitRepo,
		Properties: propertyRepo,
	}

	// Keep the interfaces nil rather than typed nil pointers when disabled
	var (
		objectStorage billingapp.ObjectStorage
		renderer      billingapp.PDFRenderer
	)
	if a.Storage != nil {
		objectStorage = a.Storage
	}
	if a.Renderer != nil {
		renderer = a.Renderer
	}

	s := Services{
		Category: catalogapp.NewCategoryService(categoryRepo, persistence.NewGormCategoryTransactionScope(gdb)),
		Product:  catalogapp.NewProductService(productRepo, categoryRepo),
		Customer: quotationapp.NewCustomerService(customerRepo),
		Quotation: quotationapp.NewQuotationService(quotationRepo, customerRepo, sequenceRepo, quotationapp.NumberingConfig{
			Prefix:          cfg.Quotation.NumberPrefix,
			DefaultCurrency: cfg.Quotation.DefaultCurrency,
			ValidityDays:    cfg.Quotation.ValidityDays,
		}, log.Named("quotation")),
		Terms:    quotationapp.NewTermsService(termsRepo),
		Contract: quotationapp.NewContractService(contractRepo, customerRepo, log.Named("contract")),
		Property: propertyapp.NewPropertyService(propertyRepo, unitRepo),
		Unit:     propertyapp.NewUnitService(unitRepo, propertyRepo, leaseRepo, occupancyRepo),
		Tenant:   propertyapp.NewTenantService(tenantRepo, leaseRepo),
		Lease:    propertyapp.NewLeaseService(leaseRepo, unitRepo, tenantRepo, occupancyRepo, persistence.NewGormPropertyTransactionScope(gdb), log.Named("lease")),
		Ledger:   billingapp.NewLedgerService(ledgerRepo, tenantRepo, persistence.NewGormLedgerTransactionScope(gdb)),
		Template: billingapp.NewTemplateService(templateRepo, parties, objectStorage, cfg.Storage.PresignExpiration),
		RentInvoice: billingapp.NewRentInvoiceService(invoiceRepo, templateRepo, parties, numbers, a.Idempotency,
			billingapp.GenerationSettings{
				InvoiceDay:    cfg.Billing.InvoiceGenerationDay,
				DueOffsetDays: cfg.Billing.DueDateOffsetDays,
				LockTTL:       cfg.Billing.GenerationLockTTL,
				URLTTL:        cfg.Storage.PresignExpiration,
			}, log.Named("rent_invoice")),
		Payment:      billingapp.NewPaymentService(paymentRepo, numbers, log.Named("payment")),
		Number:       billingapp.NewNumberService(numbers),
		Notification: notificationapp.NewNotificationService(notificationRepo, dispatcher, tenantRepo, leaseRepo, log.Named("notification")),
		Dashboard:    reportapp.NewDashboardService(a.Accounts),
		Audit:        auditapp.NewAuditService(auditRepo),
	}
	s.ExpiryNotifier = notificationapp.NewContractExpiryNotifier(s.Notification, contractRepo, customerRepo, a.Idempotency, log.Named("contract_expiry"))
	s.RentInvoice.SetDocumentOutput(renderer, objectStorage)

	s.Category.SetEventPublisher(a.Bus)
	s.Product.SetEventPublisher(a.Bus)
	s.Quotation.SetEventPublisher(a.Bus)
	s.Contract.SetEventPublisher(a.Bus)
	s.Lease.SetEventPublisher(a.Bus)
	s.RentInvoice.SetEventPublisher(a.Bus)
	s.Payment.SetEventPublisher(a.Bus)

	a.Services = s
}

// subscribeHandlers wires the cross-context reactions. Notifications are
// deduplicated by event ID so a republished event never notifies twice.
func (a *App) subscribeHandlers() {
	log := a.Logger
	s := a.Services

	ledgerPosting := billingapp.NewLedgerPostingHandler(s.Ledger, log.Named("ledger_posting"))
	a.Bus.Subscribe(ledgerPosting)

	notifier := notificationapp.NewEventNotifier(s.Notification,
		notification.Channel(a.Config.Notification.InvoiceChannel), log.Named("event_notifier"))
	a.Bus.Subscribe(event.NewIdempotentHandler("event_notifier", notifier, a.Idempotency, log), notifier.EventTypes()...)

	recorder := auditapp.NewRecorder(persistence.NewGormAuditRepository(a.DB.DB), log.Named("audit"))
	a.Bus.Subscribe(recorder)

	log.Info("Event handlers registered",
		zap.Strings("ledger_posting_events", ledgerPosting.EventTypes()),
		zap.Strings("notification_events", notifier.EventTypes()),
	)
}
