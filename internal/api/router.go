package api

import (
	"github.com/gin-gonic/gin"
	v1 "github.com/zaviagodev/ai-commerce-sub002/internal/api/v1"
	"github.com/zaviagodev/ai-commerce-sub002/internal/config"
	"github.com/zaviagodev/ai-commerce-sub002/internal/logger"
	"github.com/zaviagodev/ai-commerce-sub002/internal/rest/middleware"
)

type Handlers struct {
	Health *v1.HealthHandler
	Coupon *v1.CouponHandler
	Order  *v1.OrderHandler
}

func NewRouter(handlers Handlers, cfg *config.Configuration, logger *logger.Logger) *gin.Engine {
	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestIDMiddleware,
		middleware.RequestLogger(logger),
		middleware.CORSMiddleware,
		middleware.SentryMiddleware(cfg),
		middleware.ErrorHandler(logger),
	)

	router.GET("/health", handlers.Health.Health)

	v1Group := router.Group("/v1")
	v1Group.GET("/health", handlers.Health.Health)

	private := v1Group.Group("/")
	private.Use(middleware.AuthenticateMiddleware(cfg, logger))
	registerV1Routes(private, handlers)

	return router
}

func registerV1Routes(router *gin.RouterGroup, handlers Handlers) {
	coupons := router.Group("/coupons")
	{
		coupons.POST("", handlers.Coupon.CreateCoupon)
		coupons.GET("", handlers.Coupon.ListCoupons)
		coupons.POST("/evaluate", handlers.Coupon.EvaluateCoupons)
		coupons.GET("/code/:code", handlers.Coupon.GetCouponByCode)
		coupons.GET("/:id", handlers.Coupon.GetCoupon)
		coupons.PUT("/:id", handlers.Coupon.UpdateCoupon)
		coupons.DELETE("/:id", handlers.Coupon.DeleteCoupon)
	}

	orders := router.Group("/orders")
	{
		orders.POST("", handlers.Order.CreateOrder)
		orders.GET("/:id", handlers.Order.GetOrder)
		orders.PUT("/:id/items", handlers.Order.UpdateOrderItems)
		orders.PUT("/:id/shipping", handlers.Order.SetShipping)
		orders.POST("/:id/coupons", handlers.Order.ApplyCoupon)
		orders.DELETE("/:id/coupons/:code", handlers.Order.RemoveCoupon)
		orders.GET("/:id/available-coupons", handlers.Order.ListAvailableCoupons)
		orders.POST("/:id/finalize", handlers.Order.FinalizeOrder)
	}
}
