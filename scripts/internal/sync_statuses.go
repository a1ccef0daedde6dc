package internal

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/zaviagodev/ai-commerce-sub002/internal/cache"
	"github.com/zaviagodev/ai-commerce-sub002/internal/config"
	"github.com/zaviagodev/ai-commerce-sub002/internal/discount"
	ierr "github.com/zaviagodev/ai-commerce-sub002/internal/errors"
	"github.com/zaviagodev/ai-commerce-sub002/internal/logger"
	"github.com/zaviagodev/ai-commerce-sub002/internal/repository"
	"github.com/zaviagodev/ai-commerce-sub002/internal/sentry"
	"github.com/zaviagodev/ai-commerce-sub002/internal/service"
	"github.com/zaviagodev/ai-commerce-sub002/internal/types"
	"go.uber.org/fx"
)

// SyncCouponStatuses runs the status sync once for STORE_NAME against the
// configured storage
func SyncCouponStatuses() error {
	storeName := os.Getenv("STORE_NAME")
	if storeName == "" {
		return ierr.NewError("store name is required").
			WithHint("Pass -store-name").
			Mark(ierr.ErrValidation)
	}

	cfg, err := config.NewConfig()
	if err != nil {
		return err
	}

	var couponService service.CouponService
	app := fx.New(
		fx.NopLogger,
		fx.Supply(cfg),
		fx.Provide(
			logger.NewLogger,
			cache.Initialize,
			discount.NewEngineFromConfig,
			sentry.NewSentryService,
			service.NewServiceParams,
			service.NewCouponService,
		),
		repository.Module(cfg),
		fx.Populate(&couponService),
	)
	if err := app.Err(); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := app.Start(ctx); err != nil {
		return err
	}
	defer app.Stop(context.Background())

	ctx = types.WithStoreContext(ctx, types.NewStoreContext(storeName, types.DefaultUserID))
	updated, err := couponService.SyncStatuses(ctx, time.Now().UTC())
	if err != nil {
		return err
	}

	fmt.Printf("Updated %d coupon statuses in store %s\n", updated, storeName)
	return nil
}
