package cache

import (
	"github.com/zaviagodev/ai-commerce-sub002/internal/config"
	"github.com/zaviagodev/ai-commerce-sub002/internal/logger"
)

// Initialize builds the process-wide cache
func Initialize(cfg *config.Configuration, log *logger.Logger) Cache {
	c := NewInMemoryCache(cfg)
	log.Infow("cache initialized",
		"enabled", c.Enabled(),
		"ttl", cfg.Cache.TTL.String())
	return c
}
