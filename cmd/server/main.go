package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/zaviagodev/ai-commerce-sub002/internal/api"
	v1 "github.com/zaviagodev/ai-commerce-sub002/internal/api/v1"
	"github.com/zaviagodev/ai-commerce-sub002/internal/cache"
	"github.com/zaviagodev/ai-commerce-sub002/internal/config"
	"github.com/zaviagodev/ai-commerce-sub002/internal/discount"
	"github.com/zaviagodev/ai-commerce-sub002/internal/logger"
	"github.com/zaviagodev/ai-commerce-sub002/internal/repository"
	"github.com/zaviagodev/ai-commerce-sub002/internal/sentry"
	"github.com/zaviagodev/ai-commerce-sub002/internal/service"
	"github.com/zaviagodev/ai-commerce-sub002/internal/types"
	"github.com/zaviagodev/ai-commerce-sub002/internal/validator"
	"go.uber.org/fx"
)

func init() {
	// Set UTC timezone for the entire application
	time.Local = time.UTC
}

func main() {
	// the storage provider decides which repositories are wired, so the
	// config is loaded before the graph is built
	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	var opts []fx.Option

	// Core dependencies
	opts = append(opts,
		fx.Supply(cfg),
		// Validator
		fx.Invoke(validator.NewValidator),
		fx.Provide(
			// Logger
			logger.NewLogger,

			// Cache
			cache.Initialize,

			// Discount engine
			discount.NewEngineFromConfig,
		),
		sentry.Module(),
		repository.Module(cfg),
	)

	// Service layer
	opts = append(opts,
		fx.Provide(
			service.NewServiceParams,
			service.NewCouponService,
			service.NewOrderService,
			service.NewCouponStatusScheduler,
		),
	)

	// API
	opts = append(opts,
		fx.Provide(
			provideHandlers,
			provideRouter,
		),
		fx.Invoke(
			startServer,
		),
	)

	app := fx.New(opts...)
	app.Run()
}

func provideHandlers(
	cfg *config.Configuration,
	logger *logger.Logger,
	couponService service.CouponService,
	orderService service.OrderService,
) api.Handlers {
	return api.Handlers{
		Health: v1.NewHealthHandler(cfg, logger),
		Coupon: v1.NewCouponHandler(couponService, logger),
		Order:  v1.NewOrderHandler(orderService, logger),
	}
}

func provideRouter(handlers api.Handlers, cfg *config.Configuration, logger *logger.Logger) *gin.Engine {
	if cfg.Logging.Level != types.LogLevelDebug {
		gin.SetMode(gin.ReleaseMode)
	}
	return api.NewRouter(handlers, cfg, logger)
}

func startServer(
	lc fx.Lifecycle,
	cfg *config.Configuration,
	r *gin.Engine,
	scheduler *service.CouponStatusScheduler,
	log *logger.Logger,
) {
	mode := cfg.Deployment.Mode
	if mode == "" {
		mode = types.ModeLocal
	}

	switch mode {
	case types.ModeLocal:
		startAPIServer(lc, r, cfg, log)
		service.RegisterStatusSchedulerHooks(lc, scheduler)
	case types.ModeAPI:
		startAPIServer(lc, r, cfg, log)
	case types.ModeScheduler:
		service.RegisterStatusSchedulerHooks(lc, scheduler)
	default:
		log.Fatalf("Unknown deployment mode: %s", mode)
	}
}

func startAPIServer(
	lc fx.Lifecycle,
	r *gin.Engine,
	cfg *config.Configuration,
	log *logger.Logger,
) {
	srv := &http.Server{
		Addr:              cfg.Server.Address,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Info("Registering API server start hook")
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infow("Starting API server...", "address", cfg.Server.Address)
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down server...")
			return srv.Shutdown(ctx)
		},
	})
}
