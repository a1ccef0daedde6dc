package supabase

import (
	"context"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/nedpals/supabase-go"
	"github.com/zaviagodev/ai-commerce-sub002/internal/config"
	ierr "github.com/zaviagodev/ai-commerce-sub002/internal/errors"
	"github.com/zaviagodev/ai-commerce-sub002/internal/logger"
)

const (
	tableCoupons = "coupons"
	tableOrders  = "orders"
)

// Client is the PostgREST handle shared by the supabase repositories.
// Every call is retried with exponential backoff up to MaxRetries times.
type Client struct {
	*supabase.Client
	logger     *logger.Logger
	maxRetries uint64
	newBackOff func() backoff.BackOff
}

func NewClient(cfg *config.Configuration, logger *logger.Logger) (*Client, error) {
	client := supabase.CreateClient(cfg.Supabase.URL, cfg.Supabase.ServiceKey)
	if client == nil {
		return nil, ierr.NewError("failed to create supabase client").
			WithHint("Check the supabase url and service key").
			Mark(ierr.ErrSystem)
	}

	return &Client{
		Client:     client,
		logger:     logger,
		maxRetries: cfg.Storage.MaxRetries,
		newBackOff: func() backoff.BackOff { return backoff.NewExponentialBackOff() },
	}, nil
}

// withRetry runs fn until it succeeds, returns a permanent error or the
// retry budget runs out. Constraint violations are never retried.
func (c *Client) withRetry(ctx context.Context, operation string, fn func() error) error {
	policy := backoff.WithContext(backoff.WithMaxRetries(c.newBackOff(), c.maxRetries), ctx)

	attempt := 0
	return backoff.RetryNotify(func() error {
		attempt++
		err := fn()
		if err == nil {
			return nil
		}
		if isDuplicate(err) || ierr.IsNotFound(err) || ierr.IsValidation(err) {
			return backoff.Permanent(err)
		}
		return err
	}, policy, func(err error, wait time.Duration) {
		c.logger.WithContext(ctx).Warnw("retrying supabase call",
			"operation", operation,
			"attempt", attempt,
			"wait", wait.String(),
			"error", err,
		)
	})
}

// isDuplicate recognises unique violations surfaced through PostgREST
func isDuplicate(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "23505") || strings.Contains(msg, "duplicate key")
}

func databaseError(err error, hint string, details map[string]interface{}) error {
	if isDuplicate(err) {
		return ierr.WithError(err).
			WithHint("A record with the same unique key already exists").
			WithReportableDetails(details).
			Mark(ierr.ErrAlreadyExists)
	}
	if ierr.IsNotFound(err) || ierr.IsInvalidOperation(err) {
		return err
	}
	return ierr.WithError(err).
		WithHint(hint).
		WithReportableDetails(details).
		Mark(ierr.ErrDatabase)
}
