package types

import (
	"github.com/samber/lo"
	ierr "github.com/zaviagodev/ai-commerce-sub002/internal/errors"
)

// CouponValidationErrorCode names the reason a coupon cannot be applied
type CouponValidationErrorCode string

const (
	CouponValidationErrorCodeNotFound          CouponValidationErrorCode = "COUPON_NOT_FOUND"
	CouponValidationErrorCodeStoreMismatch     CouponValidationErrorCode = "STORE_MISMATCH"
	CouponValidationErrorCodeAlreadyApplied    CouponValidationErrorCode = "ALREADY_APPLIED"
	CouponValidationErrorCodeNotActive         CouponValidationErrorCode = "COUPON_NOT_ACTIVE"
	CouponValidationErrorCodeNotStarted        CouponValidationErrorCode = "COUPON_NOT_STARTED"
	CouponValidationErrorCodeExpired           CouponValidationErrorCode = "COUPON_EXPIRED"
	CouponValidationErrorCodeUsageLimitReached CouponValidationErrorCode = "USAGE_LIMIT_REACHED"
	CouponValidationErrorCodeBelowMinPurchase  CouponValidationErrorCode = "BELOW_MIN_PURCHASE"
	CouponValidationErrorCodeConditionsNotMet  CouponValidationErrorCode = "CONDITIONS_NOT_MET"
)

func (c CouponValidationErrorCode) String() string {
	return string(c)
}

// IsDateRangeError returns true if the code is about the eligibility window
func (c CouponValidationErrorCode) IsDateRangeError() bool {
	return lo.Contains([]CouponValidationErrorCode{
		CouponValidationErrorCodeNotStarted,
		CouponValidationErrorCodeExpired,
	}, c)
}

// IsRedemptionError returns true if the code is about the usage limit
func (c CouponValidationErrorCode) IsRedemptionError() bool {
	return c == CouponValidationErrorCodeUsageLimitReached
}

// CouponValidationError describes why a coupon failed eligibility
type CouponValidationError struct {
	Code    CouponValidationErrorCode `json:"code"`
	Message string                    `json:"message"`
	Details map[string]interface{}    `json:"details,omitempty"`
}

func (e *CouponValidationError) Error() string {
	return e.Message
}

// NotApplicable wraps the failure so callers can match it with
// ierr.IsCouponNotApplicable while still recovering the reason with ierr.As.
func (e *CouponValidationError) NotApplicable() error {
	details := map[string]any{"reason": e.Code}
	for k, v := range e.Details {
		details[k] = v
	}
	return ierr.WithError(e).
		WithHint(e.Message).
		WithReportableDetails(details).
		Mark(ierr.ErrCouponNotApplicable)
}

// ValidationReason extracts the reason code from an error returned by the
// discount engine, or the empty code if err carries none.
func ValidationReason(err error) CouponValidationErrorCode {
	var verr *CouponValidationError
	if ierr.As(err, &verr) {
		return verr.Code
	}
	return ""
}
