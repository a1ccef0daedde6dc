package repository

import (
	"github.com/zaviagodev/ai-commerce-sub002/internal/cache"
	"github.com/zaviagodev/ai-commerce-sub002/internal/config"
	"github.com/zaviagodev/ai-commerce-sub002/internal/domain/coupon"
	"github.com/zaviagodev/ai-commerce-sub002/internal/domain/order"
	"github.com/zaviagodev/ai-commerce-sub002/internal/logger"
	"github.com/zaviagodev/ai-commerce-sub002/internal/postgres"
	cachedRepo "github.com/zaviagodev/ai-commerce-sub002/internal/repository/cached"
	postgresRepo "github.com/zaviagodev/ai-commerce-sub002/internal/repository/postgres"
	supabaseRepo "github.com/zaviagodev/ai-commerce-sub002/internal/repository/supabase"
	"github.com/zaviagodev/ai-commerce-sub002/internal/types"
	"go.uber.org/fx"
)

// Module wires the coupon directory and order store for the configured
// storage provider. Coupon reads go through the lookup cache.
func Module(cfg *config.Configuration) fx.Option {
	switch cfg.Storage.Provider {
	case types.StorageProviderSupabase:
		return fx.Options(
			fx.Provide(
				supabaseRepo.NewClient,
				func() types.Transactor { return types.NoopTransactor{} },
				fx.Annotate(NewSupabaseCouponRepository, fx.ResultTags(`name:"couponStore"`)),
				NewSupabaseOrderRepository,
			),
			fx.Provide(fx.Annotate(NewCachedCouponRepository, fx.ParamTags(`name:"couponStore"`))),
		)
	default:
		return fx.Options(
			postgres.Module(),
			fx.Provide(
				fx.Annotate(NewPostgresCouponRepository, fx.ResultTags(`name:"couponStore"`)),
				NewPostgresOrderRepository,
				func(db *postgres.DB) types.Transactor { return db },
			),
			fx.Provide(fx.Annotate(NewCachedCouponRepository, fx.ParamTags(`name:"couponStore"`))),
		)
	}
}

func NewCachedCouponRepository(store coupon.Repository, c cache.Cache, logger *logger.Logger) coupon.Repository {
	return cachedRepo.NewCouponRepository(store, c, logger)
}

func NewPostgresCouponRepository(db *postgres.DB, logger *logger.Logger) coupon.Repository {
	return postgresRepo.NewCouponRepository(db, logger)
}

func NewPostgresOrderRepository(db *postgres.DB, logger *logger.Logger) order.Repository {
	return postgresRepo.NewOrderRepository(db, logger)
}

func NewSupabaseCouponRepository(client *supabaseRepo.Client, logger *logger.Logger) coupon.Repository {
	return supabaseRepo.NewCouponRepository(client, logger)
}

func NewSupabaseOrderRepository(client *supabaseRepo.Client, logger *logger.Logger) order.Repository {
	return supabaseRepo.NewOrderRepository(client, logger)
}
