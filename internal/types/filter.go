package types

import (
	"github.com/samber/lo"
	ierr "github.com/zaviagodev/ai-commerce-sub002/internal/errors"
)

const (
	FILTER_DEFAULT_LIMIT = 50
	FILTER_MAX_LIMIT     = 1000

	OrderDesc = "desc"
	OrderAsc  = "asc"
)

// BaseFilter defines common filtering capabilities
type BaseFilter interface {
	GetLimit() int
	GetOffset() int
	Validate() error
	IsUnlimited() bool
}

// QueryFilter represents a generic query filter with optional fields
type QueryFilter struct {
	Limit  *int `json:"limit,omitempty" form:"limit" validate:"omitempty,min=1,max=1000"`
	Offset *int `json:"offset,omitempty" form:"offset" validate:"omitempty,min=0"`
}

// NewDefaultQueryFilter returns the default page window
func NewDefaultQueryFilter() *QueryFilter {
	return &QueryFilter{
		Limit:  lo.ToPtr(FILTER_DEFAULT_LIMIT),
		Offset: lo.ToPtr(0),
	}
}

// NewNoLimitQueryFilter returns a filter with no pagination limits
func NewNoLimitQueryFilter() *QueryFilter {
	return &QueryFilter{
		Limit:  nil,
		Offset: lo.ToPtr(0),
	}
}

// IsUnlimited returns true if this is an unlimited query
func (f QueryFilter) IsUnlimited() bool {
	return f.Limit == nil
}

// GetLimit returns the limit value, or 0 for unlimited queries
func (f QueryFilter) GetLimit() int {
	if f.IsUnlimited() {
		return 0
	}
	return *f.Limit
}

// GetOffset returns the offset value or default if not set
func (f QueryFilter) GetOffset() int {
	if f.Offset == nil {
		return 0
	}
	return *f.Offset
}

func (f QueryFilter) Validate() error {
	if f.Limit != nil && (*f.Limit < 1 || *f.Limit > FILTER_MAX_LIMIT) {
		return ierr.NewError("limit out of range").
			WithHintf("Limit must be between 1 and %d", FILTER_MAX_LIMIT).
			Mark(ierr.ErrValidation)
	}
	if f.Offset != nil && *f.Offset < 0 {
		return ierr.NewError("offset must not be negative").
			WithHint("Offset must be zero or greater").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// CouponFilter narrows the coupon directory listing
type CouponFilter struct {
	*QueryFilter
	// Search matches a case-insensitive substring of the code or name
	Search   string         `json:"search,omitempty" form:"search"`
	Statuses []CouponStatus `json:"statuses,omitempty" form:"statuses"`
	Types    []CouponType   `json:"types,omitempty" form:"types"`
	Codes    []string       `json:"codes,omitempty" form:"codes"`
}

// NewCouponFilter creates a coupon filter with the default page window
func NewCouponFilter() *CouponFilter {
	return &CouponFilter{QueryFilter: NewDefaultQueryFilter()}
}

// NewNoLimitCouponFilter creates a coupon filter that returns every match
func NewNoLimitCouponFilter() *CouponFilter {
	return &CouponFilter{QueryFilter: NewNoLimitQueryFilter()}
}

func (f *CouponFilter) Validate() error {
	if f == nil {
		return nil
	}
	if f.QueryFilter == nil {
		f.QueryFilter = NewDefaultQueryFilter()
	}
	if err := f.QueryFilter.Validate(); err != nil {
		return err
	}
	for _, s := range f.Statuses {
		if err := s.Validate(); err != nil {
			return err
		}
	}
	for _, t := range f.Types {
		if err := t.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// IsUnlimited overrides the embedded filter so a nil window means unlimited
func (f *CouponFilter) IsUnlimited() bool {
	return f.QueryFilter == nil || f.QueryFilter.IsUnlimited()
}

func (f *CouponFilter) GetLimit() int {
	if f.QueryFilter == nil {
		return 0
	}
	return f.QueryFilter.GetLimit()
}

func (f *CouponFilter) GetOffset() int {
	if f.QueryFilter == nil {
		return 0
	}
	return f.QueryFilter.GetOffset()
}
