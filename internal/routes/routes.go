package routes

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/custodia-pay/custodia/internal/audit"
	"github.com/custodia-pay/custodia/internal/config"
	"github.com/custodia-pay/custodia/internal/custody"
	"github.com/custodia-pay/custodia/internal/identity"
	"github.com/custodia-pay/custodia/internal/ledger"
	"github.com/custodia-pay/custodia/internal/middleware"
	"github.com/custodia-pay/custodia/internal/registry"
)

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg    config.Config
	DB     *pgxpool.Pool
	Cache  *redis.Client
	Logger *slog.Logger
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) error {
	// Enforce DB/Redis presence outside of dev, even though config also checks.
	if !d.Cfg.IsDev() {
		if d.DB == nil {
			return fmt.Errorf("database is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
		if d.Cache == nil {
			return fmt.Errorf("redis is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
	}

	// Middlewares
	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(middleware.RequestLog(d.Logger))
	if d.Cache != nil {
		app.Use(middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, d.Logger))
	}

	// Health
	RegisterHealthRoutes(app, d)

	// Backends
	var ledgerBackend ledger.Ledger
	if d.DB != nil {
		ledgerBackend = ledger.NewPostgresLedger(d.DB)
	} else {
		ledgerBackend = ledger.NewInMemory()
	}

	var whitelistStore registry.Store
	if d.DB != nil {
		whitelistStore = registry.NewPostgresStore(d.DB)
	} else {
		whitelistStore = registry.NewMemoryStore()
	}

	var deploymentStore custody.Store
	if d.DB != nil {
		deploymentStore = custody.NewPostgresStore(d.DB)
	} else {
		deploymentStore = custody.NewMemoryStore()
	}

	auditLog := audit.Log(audit.NewLoggerLog(d.Logger))
	if d.DB != nil {
		auditLog = audit.Tee{audit.NewPostgresLog(d.DB), audit.NewLoggerLog(d.Logger)}
	}

	// Services and handlers
	admin := identity.Admin(d.Cfg.AdminAddress)
	strategy, err := custody.NewAccountStrategy(d.Cfg.VaultStrategy, d.Cfg.VaultSeed)
	if err != nil {
		return err
	}

	registrySvc := registry.NewService(admin, whitelistStore, auditLog)
	custodySvc := custody.NewService(admin, strategy, deploymentStore, ledgerBackend, registrySvc, auditLog)
	if err := custodySvc.Resume(context.Background()); err != nil {
		return err
	}
	custodyHandler := custody.NewHandler(custodySvc)

	// API routes
	api := app.Group("/api/v1")
	api.Get("/ping", func(c *fiber.Ctx) error {
		reqID, _ := c.Locals("X-Request-ID").(string)
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"status":     "ok",
			"request_id": reqID,
			"timestamp":  time.Now().UTC().Format(time.RFC3339Nano),
		})
	})

	// Public reads
	api.Get("/whitelist", custodyHandler.ListWhitelisted)
	api.Get("/whitelist/:address", custodyHandler.IsWhitelisted)
	api.Get("/vault/balance", custodyHandler.Balance)

	// Authenticated mutations
	callerAuth := middleware.CallerAuth(d.Cfg.AuthSecret)
	rateLimit := middleware.MutationRateLimit(d.Cache, d.Cfg.MutationPerMin)
	protected := api.Group("", callerAuth, rateLimit)
	protected.Post("/custody/bootstrap", custodyHandler.Bootstrap)
	protected.Post("/whitelist", custodyHandler.AddToWhitelist)
	protected.Delete("/whitelist", custodyHandler.RemoveFromWhitelist)
	protected.Post("/vault/deposits", custodyHandler.Deposit)
	protected.Post("/vault/transfers", custodyHandler.TransferOut)

	return nil
}
