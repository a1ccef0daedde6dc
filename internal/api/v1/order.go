package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zaviagodev/ai-commerce-sub002/internal/api/dto"
	ierr "github.com/zaviagodev/ai-commerce-sub002/internal/errors"
	"github.com/zaviagodev/ai-commerce-sub002/internal/logger"
	"github.com/zaviagodev/ai-commerce-sub002/internal/service"
)

type OrderHandler struct {
	orderService service.OrderService
	logger       *logger.Logger
}

func NewOrderHandler(orderService service.OrderService, logger *logger.Logger) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		logger:       logger,
	}
}

// @Summary Create a draft order
// @Tags Orders
// @Accept json
// @Produce json
// @Param order body dto.CreateOrderRequest true "Order request"
// @Success 201 {object} dto.OrderResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /orders [post]
// @Security ApiKeyAuth
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	response, err := h.orderService.CreateDraftOrder(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, response)
}

// @Summary Get an order
// @Tags Orders
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} dto.OrderResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /orders/{id} [get]
// @Security ApiKeyAuth
func (h *OrderHandler) GetOrder(c *gin.Context) {
	response, err := h.orderService.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// @Summary Replace the line items of a draft order
// @Description Replaces the items and recomputes the subtotal and every applied discount
// @Tags Orders
// @Accept json
// @Produce json
// @Param id path string true "Order ID"
// @Param request body dto.UpdateOrderItemsRequest true "Line items"
// @Success 200 {object} dto.OrderResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /orders/{id}/items [put]
// @Security ApiKeyAuth
func (h *OrderHandler) UpdateOrderItems(c *gin.Context) {
	var req dto.UpdateOrderItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	response, err := h.orderService.UpdateOrderItems(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// @Summary Set the shipping charge of a draft order
// @Tags Orders
// @Accept json
// @Produce json
// @Param id path string true "Order ID"
// @Param request body dto.SetShippingRequest true "Shipping"
// @Success 200 {object} dto.OrderResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /orders/{id}/shipping [put]
// @Security ApiKeyAuth
func (h *OrderHandler) SetShipping(c *gin.Context) {
	var req dto.SetShippingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	response, err := h.orderService.SetShipping(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// @Summary Apply a coupon to an order
// @Tags Orders
// @Accept json
// @Produce json
// @Param id path string true "Order ID"
// @Param request body dto.ApplyCouponRequest true "Coupon code"
// @Success 200 {object} dto.OrderResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Failure 422 {object} ierr.ErrorResponse
// @Router /orders/{id}/coupons [post]
// @Security ApiKeyAuth
func (h *OrderHandler) ApplyCoupon(c *gin.Context) {
	var req dto.ApplyCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	response, err := h.orderService.ApplyCoupon(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// @Summary Remove a coupon from an order
// @Description Removing a code that is not applied leaves the order unchanged
// @Tags Orders
// @Produce json
// @Param id path string true "Order ID"
// @Param code path string true "Coupon code"
// @Success 200 {object} dto.OrderResponse
// @Router /orders/{id}/coupons/{code} [delete]
// @Security ApiKeyAuth
func (h *OrderHandler) RemoveCoupon(c *gin.Context) {
	response, err := h.orderService.RemoveCoupon(c.Request.Context(), c.Param("id"), c.Param("code"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// @Summary List coupons that can still be applied to an order
// @Tags Orders
// @Produce json
// @Param id path string true "Order ID"
// @Param search query string false "Match on code or name"
// @Success 200 {object} dto.AvailableCouponsResponse
// @Router /orders/{id}/available-coupons [get]
// @Security ApiKeyAuth
func (h *OrderHandler) ListAvailableCoupons(c *gin.Context) {
	response, err := h.orderService.ListAvailableCoupons(c.Request.Context(), c.Param("id"), c.Query("search"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// @Summary Finalize an order
// @Description Locks the order and records one use of every applied coupon
// @Tags Orders
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} dto.OrderResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /orders/{id}/finalize [post]
// @Security ApiKeyAuth
func (h *OrderHandler) FinalizeOrder(c *gin.Context) {
	response, err := h.orderService.FinalizeOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, response)
}
