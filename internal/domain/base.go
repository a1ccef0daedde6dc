package domain

import (
	"context"
	"time"

	"github.com/zaviagodev/ai-commerce-sub002/internal/types"
)

// BaseModel contains the audit fields shared by every merchant record
type BaseModel struct {
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	CreatedBy string    `json:"createdBy,omitempty"`
	UpdatedBy string    `json:"updatedBy,omitempty"`
}

// NewBaseModel stamps a new record with the acting user from ctx
func NewBaseModel(ctx context.Context) BaseModel {
	now := time.Now().UTC()
	userID := types.GetUserID(ctx)
	return BaseModel{
		CreatedAt: now,
		UpdatedAt: now,
		CreatedBy: userID,
		UpdatedBy: userID,
	}
}

// Touch records a modification by the acting user
func (b *BaseModel) Touch(ctx context.Context) {
	b.UpdatedAt = time.Now().UTC()
	b.UpdatedBy = types.GetUserID(ctx)
}
