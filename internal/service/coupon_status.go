package service

import (
	"context"
	"sync"
	"time"

	"github.com/zaviagodev/ai-commerce-sub002/internal/types"
	"go.uber.org/fx"
)

// CouponStatusScheduler periodically runs SyncStatuses for the configured stores
type CouponStatusScheduler struct {
	ServiceParams
	couponService CouponService

	stop chan struct{}
	wg   sync.WaitGroup
}

func NewCouponStatusScheduler(params ServiceParams, couponService CouponService) *CouponStatusScheduler {
	return &CouponStatusScheduler{
		ServiceParams: params,
		couponService: couponService,
	}
}

// RegisterStatusSchedulerHooks starts the scheduler with the application and
// stops it on shutdown
func RegisterStatusSchedulerHooks(lc fx.Lifecycle, s *CouponStatusScheduler) {
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			s.Start()
			return nil
		},
		OnStop: func(context.Context) error {
			s.Stop()
			return nil
		},
	})
}

func (s *CouponStatusScheduler) Start() {
	interval := s.Config.Scheduler.StatusSyncInterval
	if interval <= 0 || len(s.Config.Scheduler.Stores) == 0 {
		s.Logger.Infow("coupon status scheduler disabled",
			"interval", interval.String(),
			"stores", len(s.Config.Scheduler.Stores),
		)
		return
	}

	s.stop = make(chan struct{})
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		s.Logger.Infow("coupon status scheduler started",
			"interval", interval.String(),
			"stores", s.Config.Scheduler.Stores,
		)

		for {
			select {
			case <-ticker.C:
				s.RunOnce(context.Background())
			case <-s.stop:
				return
			}
		}
	}()
}

func (s *CouponStatusScheduler) Stop() {
	if s.stop == nil {
		return
	}
	close(s.stop)
	s.wg.Wait()
	s.stop = nil
	s.Logger.Infow("coupon status scheduler stopped")
}

// RunOnce syncs every configured store and returns the total changed.
// A failing store is logged and the rest still run.
func (s *CouponStatusScheduler) RunOnce(ctx context.Context) int {
	now := s.now()
	total := 0
	for _, store := range s.Config.Scheduler.Stores {
		sc := types.NewStoreContext(store, types.DefaultUserID)
		storeCtx := types.WithStoreContext(ctx, sc)
		storeCtx = types.SetRequestID(storeCtx, types.GenerateUUID())

		span, storeCtx := s.Sentry.StartTransaction(storeCtx, "coupon.status_sync")
		updated, err := s.couponService.SyncStatuses(storeCtx, now)
		if span != nil {
			span.Finish()
		}
		if err != nil {
			s.Logger.WithContext(storeCtx).Errorw("coupon status sync failed",
				"store_name", sc.StoreName,
				"error", err,
			)
			s.Sentry.CaptureException(err)
			continue
		}
		total += updated
	}

	if total > 0 {
		s.Logger.Infow("coupon statuses synced", "updated", total)
	}
	return total
}
