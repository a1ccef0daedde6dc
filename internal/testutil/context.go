package testutil

import (
	"context"

	"github.com/zaviagodev/ai-commerce-sub002/internal/types"
)

const TestStoreName = "acme"

func SetupContext() context.Context {
	ctx := context.Background()
	ctx = context.WithValue(ctx, types.CtxStoreName, TestStoreName)
	ctx = context.WithValue(ctx, types.CtxUserID, types.DefaultUserID)
	ctx = context.WithValue(ctx, types.CtxRequestID, types.GenerateUUID())
	return ctx
}
