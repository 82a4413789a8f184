package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/salsus-balsus/ticket-tool-sub002/internal/api/http"
	"github.com/salsus-balsus/ticket-tool-sub002/internal/api/http/handlers"
	"github.com/salsus-balsus/ticket-tool-sub002/internal/author"
	"github.com/salsus-balsus/ticket-tool-sub002/internal/config"
	"github.com/salsus-balsus/ticket-tool-sub002/internal/events"
	"github.com/salsus-balsus/ticket-tool-sub002/internal/identity"
	"github.com/salsus-balsus/ticket-tool-sub002/internal/observability"
	"github.com/salsus-balsus/ticket-tool-sub002/internal/persistence"
	"github.com/salsus-balsus/ticket-tool-sub002/internal/repository"
	"github.com/salsus-balsus/ticket-tool-sub002/internal/service"
	"github.com/salsus-balsus/ticket-tool-sub002/internal/worker"
	"github.com/salsus-balsus/ticket-tool-sub002/internal/workflow"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	roleRepo := repository.NewRoleRepository(pool)
	statusRepo := repository.NewStatusRepository(pool)
	flowTypeRepo := repository.NewFlowTypeRepository(pool)
	transitionRepo := repository.NewTransitionRepository(pool)
	appUserRepo := repository.NewAppUserRepository(pool)
	aliasRepo := repository.NewAuthorAliasRepository(pool)
	ticketRepo := repository.NewTicketRepository(pool)
	commentRepo := repository.NewCommentRepository(pool)
	historyRepo := repository.NewTicketHistoryRepository(pool)

	engine := workflow.NewEngine(transitionRepo, statusRepo, logger)
	authorResolver := author.NewResolver(appUserRepo, aliasRepo, commentRepo, logger)
	identityResolver := identity.NewResolver(appUserRepo, roleRepo, cfg.Identity, logger)
	tokenManager := identity.NewTokenManager(cfg.Identity.OverrideSecret, cfg.Identity.OverrideTTL())
	identityMiddleware := identity.NewMiddleware(identityResolver, tokenManager, cfg.Identity, logger)

	dispatcher := events.NewInMemoryDispatcher(logger)
	notificationService := service.NewNotificationService(logger, cfg.Notification)
	worker.StartNotificationWorker(ctx, dispatcher, notificationService, logger)

	metrics := observability.NewMetrics()

	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo:  ticketRepo,
		CommentRepo: commentRepo,
		StatusRepo:  statusRepo,
		HistoryRepo: historyRepo,
		Engine:      engine,
		Authors:     authorResolver,
		Dispatcher:  dispatcher,
		Metrics:     metrics,
	})
	flowchartService := service.NewFlowchartService(service.FlowchartDependencies{
		TransitionRepo: transitionRepo,
		StatusRepo:     statusRepo,
		FlowTypeRepo:   flowTypeRepo,
		TicketRepo:     ticketRepo,
		Cache:          redis,
		Config:         cfg.Flowchart,
	}, logger)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health: handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version,
			handlers.Probe{Name: "postgres", Check: pg.Ping},
			handlers.Probe{Name: "redis", Check: redis.Ping},
		),
		Tickets:  handlers.NewTicketsHandler(ticketService),
		Workflow: handlers.NewWorkflowHandler(flowchartService),
		Identity: identityMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
