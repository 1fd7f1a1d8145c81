package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jhoicas/stockledger/internal/application/inventory"
	"github.com/jhoicas/stockledger/internal/domain/repository"
	"github.com/jhoicas/stockledger/internal/infrastructure/memory"
	"github.com/jhoicas/stockledger/internal/infrastructure/notification"
	"github.com/jhoicas/stockledger/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/stockledger/internal/interfaces/http"
	"github.com/jhoicas/stockledger/pkg/cache"
	"github.com/jhoicas/stockledger/pkg/config"
	"github.com/jhoicas/stockledger/pkg/logger"
	"github.com/spf13/cobra"
)

// storage repositorios y runner del driver elegido.
type storage struct {
	components repository.ComponentRepository
	alerts     repository.AlertRepository
	movements  repository.StockMovementRepository
	products   repository.ProductRepository
	txRunner   inventory.TxRunner
	close      func()
}

func newServeCmd() *cobra.Command {
	var seedFile string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Inicia el servidor HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context(), seedFile)
		},
	}
	cmd.Flags().StringVar(&seedFile, "seed-file", "", "JSON de carga inicial (solo STORE_DRIVER=memory)")
	return cmd
}

func serve(ctx context.Context, seedFile string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("cargar configuración: %w", err)
	}

	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: cfg.App.Name})
	log.Info().
		Str("env", cfg.App.Env).
		Str("store", cfg.Store.Driver).
		Msg("iniciando aplicación")

	store, err := openStorage(ctx, cfg, log, seedFile)
	if err != nil {
		return err
	}
	defer store.close()

	// Cache opcional de la lista de compra. Sin Redis se recalcula en cada consulta.
	var purchaseCache cache.Client
	if cfg.Redis.Enabled() {
		rc, err := cache.NewRedisClient(ctx, cache.RedisOptions{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err != nil {
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis no disponible, lista de compra sin cache")
		} else {
			defer rc.Close()
			purchaseCache = rc
		}
	}

	purchaseUC := inventory.NewPurchaseListUseCase(store.components, store.alerts, purchaseCache, cfg.Redis.PurchaseListTTL, log.Component("purchase_list"))
	notifier := notification.NewLogNotifier(log.Component("notifier"))
	alertManager := inventory.NewAlertManager(store.txRunner, notifier, purchaseUC, log.Component("alerts"))
	registerUC := inventory.NewRegisterMovementUseCase(store.txRunner, alertManager, log.Component("movements"))
	bulkUC := inventory.NewBulkMovementUseCase(store.txRunner, registerUC, alertManager, log.Component("bulk"))
	historyUC := inventory.NewMovementHistoryUseCase(store.components, store.movements)
	planUC := inventory.NewProductionPlanUseCase(store.products, store.components, store.txRunner, registerUC, alertManager, log.Component("production"))

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log.Component("http")))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "store": cfg.Store.Driver})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		RegisterMovement: registerUC,
		BulkMovement:     bulkUC,
		History:          historyUC,
		Alerts:           alertManager,
		PurchaseList:     purchaseUC,
		ProductionPlan:   planUC,
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
	return nil
}

func openStorage(ctx context.Context, cfg *config.Config, log *logger.Logger, seedFile string) (*storage, error) {
	if cfg.Store.Driver == config.StoreDriverMemory {
		st := memory.NewStore()
		if seedFile != "" {
			f, err := os.Open(seedFile)
			if err != nil {
				return nil, fmt.Errorf("abrir seed: %w", err)
			}
			defer f.Close()
			nc, np, err := st.LoadSeed(f)
			if err != nil {
				return nil, err
			}
			log.Info().Int("components", nc).Int("products", np).Msg("seed cargado")
		}
		return &storage{
			components: st.Components(),
			alerts:     st.Alerts(),
			movements:  st.Movements(),
			products:   st.Products(),
			txRunner:   st,
			close:      func() {},
		}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
	}
	if cfg.Store.MigrationsAuto {
		if err := postgres.Migrate(ctx, pool, log.Component("migrate"), "up"); err != nil {
			pool.Close()
			return nil, err
		}
	}
	return &storage{
		components: postgres.NewComponentRepository(pool),
		alerts:     postgres.NewAlertRepository(pool),
		movements:  postgres.NewStockMovementRepository(pool),
		products:   postgres.NewProductRepository(pool),
		txRunner:   postgres.NewTxRunner(pool),
		close:      pool.Close,
	}, nil
}
