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
	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/tienda-pos-api/internal/application/analytics"
	"github.com/jhoicas/tienda-pos-api/internal/application/credit"
	"github.com/jhoicas/tienda-pos-api/internal/application/identity"
	"github.com/jhoicas/tienda-pos-api/internal/application/sales"
	"github.com/jhoicas/tienda-pos-api/internal/application/tenant"
	"github.com/jhoicas/tienda-pos-api/internal/application/usecase"
	"github.com/jhoicas/tienda-pos-api/internal/domain/loyalty"
	"github.com/jhoicas/tienda-pos-api/internal/domain/repository"
	"github.com/jhoicas/tienda-pos-api/internal/infrastructure/cache"
	"github.com/jhoicas/tienda-pos-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/tienda-pos-api/internal/infrastructure/pdf"
	"github.com/jhoicas/tienda-pos-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/tienda-pos-api/internal/interfaces/http"
	"github.com/jhoicas/tienda-pos-api/migrations"
	"github.com/jhoicas/tienda-pos-api/pkg/config"
	"github.com/jhoicas/tienda-pos-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("storage", cfg.App.Storage).
		Msg("iniciando aplicación")

	ctx := context.Background()

	var (
		stores  repository.StoreFactory
		tenants repository.TenantRepository
	)
	switch cfg.App.Storage {
	case "memory":
		// Solo para demo/local: los datos se pierden al reiniciar.
		db := memory.New()
		stores, tenants = db, memory.NewTenantRepository(db)
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		if cfg.DB.AutoMigrate {
			applied, err := postgres.Migrate(ctx, pool, migrations.FS)
			if err != nil {
				log.Fatal().Err(err).Msg("migraciones")
			}
			log.Info().Strs("applied", applied).Msg("migraciones aplicadas")
		}
		stores, tenants = postgres.NewTxRunner(pool), postgres.NewTenantRepository(pool)
	}

	// Caché de tenants: opcional, sin Redis se consulta siempre la base.
	var tenantCache tenant.Cache = tenant.NopCache{}
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis no disponible, se continúa sin caché")
		}
		tenantCache = cache.NewTenantCache(rdb, cfg.Tenant.CacheTTL)
	}

	var verifier identity.Verifier = identity.HMACVerifier{Secret: cfg.Identity.Secret, Issuer: cfg.Identity.Issuer}
	if cfg.Identity.Secret == "" {
		log.Warn().Msg("JWT_SECRET vacío: los tokens se decodifican sin verificar la firma")
		verifier = identity.UnverifiedDecoder{}
	}

	provisioner := tenant.NewProvisioner(tenants, tenantCache, tenant.Config{
		SuperadminEmails: cfg.Tenant.SuperadminEmails,
		TrialDays:        cfg.Tenant.TrialDays,
	}, log.Component("tenant"))

	tiers := loyalty.DefaultTiers()
	salesUC, err := sales.NewUseCase(stores, sales.Config{
		NumberPrefix: cfg.Sales.NumberPrefix,
		Tiers:        tiers,
	}, log.Component("sales"))
	if err != nil {
		log.Fatal().Err(err).Msg("configuración de ventas")
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Tienda POS API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Resolver:    identity.NewResolver(verifier),
		Provisioner: provisioner,
		ProductUC:   usecase.NewProductUseCase(stores),
		CustomerUC:  usecase.NewCustomerUseCase(stores),
		SalesUC:     salesUC,
		ReceiptUC:   sales.NewReceiptUseCase(stores, infrapdf.NewReceiptGenerator()),
		CreditUC:    credit.NewUseCase(stores, log.Component("credit")),
		LoyaltyUC:   analytics.NewLoyaltyUseCase(stores, tiers, cfg.Loyalty.RFMWindowDays),
		Log:         log.Component("http"),

		RequestTimeout: cfg.HTTP.RequestTimeout,
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
