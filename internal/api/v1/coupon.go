package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zaviagodev/ai-commerce-sub002/internal/api/dto"
	ierr "github.com/zaviagodev/ai-commerce-sub002/internal/errors"
	"github.com/zaviagodev/ai-commerce-sub002/internal/logger"
	"github.com/zaviagodev/ai-commerce-sub002/internal/service"
	"github.com/zaviagodev/ai-commerce-sub002/internal/types"
)

type CouponHandler struct {
	couponService service.CouponService
	logger        *logger.Logger
}

func NewCouponHandler(couponService service.CouponService, logger *logger.Logger) *CouponHandler {
	return &CouponHandler{
		couponService: couponService,
		logger:        logger,
	}
}

// @Summary Create a new coupon
// @Description Creates a new coupon in the selected store
// @Tags Coupons
// @Accept json
// @Produce json
// @Param coupon body dto.CreateCouponRequest true "Coupon request"
// @Success 201 {object} dto.CouponResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 409 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /coupons [post]
// @Security ApiKeyAuth
func (h *CouponHandler) CreateCoupon(c *gin.Context) {
	var req dto.CreateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	response, err := h.couponService.CreateCoupon(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, response)
}

// @Summary Get a coupon by ID
// @Tags Coupons
// @Produce json
// @Param id path string true "Coupon ID"
// @Success 200 {object} dto.CouponResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /coupons/{id} [get]
// @Security ApiKeyAuth
func (h *CouponHandler) GetCoupon(c *gin.Context) {
	response, err := h.couponService.GetCoupon(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// @Summary Get a coupon by code
// @Description Looks a coupon up by its redemption code, case-insensitively
// @Tags Coupons
// @Produce json
// @Param code path string true "Coupon code"
// @Success 200 {object} dto.CouponResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /coupons/code/{code} [get]
// @Security ApiKeyAuth
func (h *CouponHandler) GetCouponByCode(c *gin.Context) {
	var req dto.GetCouponByCodeRequest
	if err := c.ShouldBindUri(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	response, err := h.couponService.GetCouponByCode(c.Request.Context(), req.Code)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// @Summary Update a coupon
// @Description Updates an existing coupon. Omitted fields are left unchanged.
// @Tags Coupons
// @Accept json
// @Produce json
// @Param id path string true "Coupon ID"
// @Param coupon body dto.UpdateCouponRequest true "Coupon update request"
// @Success 200 {object} dto.CouponResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Failure 409 {object} ierr.ErrorResponse
// @Router /coupons/{id} [put]
// @Security ApiKeyAuth
func (h *CouponHandler) UpdateCoupon(c *gin.Context) {
	var req dto.UpdateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	response, err := h.couponService.UpdateCoupon(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// @Summary Delete a coupon
// @Tags Coupons
// @Param id path string true "Coupon ID"
// @Success 204
// @Failure 404 {object} ierr.ErrorResponse
// @Router /coupons/{id} [delete]
// @Security ApiKeyAuth
func (h *CouponHandler) DeleteCoupon(c *gin.Context) {
	if err := h.couponService.DeleteCoupon(c.Request.Context(), c.Param("id")); err != nil {
		c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary List coupons with filtering
// @Tags Coupons
// @Produce json
// @Param filter query types.CouponFilter false "Filter options"
// @Success 200 {object} dto.ListCouponsResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /coupons [get]
// @Security ApiKeyAuth
func (h *CouponHandler) ListCoupons(c *gin.Context) {
	filter := types.NewCouponFilter()
	if err := c.ShouldBindQuery(filter); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid filter parameters").
			Mark(ierr.ErrValidation))
		return
	}

	response, err := h.couponService.ListCoupons(c.Request.Context(), filter)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// @Summary Evaluate coupon codes against a cart
// @Description Previews the codes in order without storing anything and
// @Description reports per code whether it applies and what it is worth
// @Tags Coupons
// @Accept json
// @Produce json
// @Param request body dto.EvaluateCouponsRequest true "Evaluation request"
// @Success 200 {object} dto.EvaluateCouponsResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /coupons/evaluate [post]
// @Security ApiKeyAuth
func (h *CouponHandler) EvaluateCoupons(c *gin.Context) {
	var req dto.EvaluateCouponsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	response, err := h.couponService.EvaluateCoupons(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, response)
}
