package service

import (
	"context"
	"time"

	"github.com/zaviagodev/ai-commerce-sub002/internal/config"
	"github.com/zaviagodev/ai-commerce-sub002/internal/discount"
	"github.com/zaviagodev/ai-commerce-sub002/internal/domain/coupon"
	"github.com/zaviagodev/ai-commerce-sub002/internal/domain/order"
	"github.com/zaviagodev/ai-commerce-sub002/internal/logger"
	"github.com/zaviagodev/ai-commerce-sub002/internal/sentry"
	"github.com/zaviagodev/ai-commerce-sub002/internal/types"
)

// ServiceParams holds common dependencies for services
type ServiceParams struct {
	Logger *logger.Logger
	Config *config.Configuration
	Engine *discount.Engine
	Sentry *sentry.Service
	DB     types.Transactor

	// Repositories
	CouponRepo coupon.Repository
	OrderRepo  order.Repository

	// Now is the clock used for eligibility checks. Defaults to UTC wall time.
	Now func() time.Time
}

// Common service params
func NewServiceParams(
	logger *logger.Logger,
	config *config.Configuration,
	engine *discount.Engine,
	sentryService *sentry.Service,
	db types.Transactor,
	couponRepo coupon.Repository,
	orderRepo order.Repository,
) ServiceParams {
	return ServiceParams{
		Logger:     logger,
		Config:     config,
		Engine:     engine,
		Sentry:     sentryService,
		DB:         db,
		CouponRepo: couponRepo,
		OrderRepo:  orderRepo,
	}
}

func (p ServiceParams) now() time.Time {
	if p.Now != nil {
		return p.Now().UTC()
	}
	return time.Now().UTC()
}

// withTx runs fn in a transaction when the backend supports one
func (p ServiceParams) withTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if p.DB == nil {
		return fn(ctx)
	}
	return p.DB.WithTx(ctx, fn)
}
