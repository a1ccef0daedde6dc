package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zaviagodev/ai-commerce-sub002/internal/config"
	"github.com/zaviagodev/ai-commerce-sub002/internal/logger"
)

type HealthHandler struct {
	config *config.Configuration
	logger *logger.Logger
}

func NewHealthHandler(config *config.Configuration, logger *logger.Logger) *HealthHandler {
	return &HealthHandler{
		config: config,
		logger: logger,
	}
}

// @Summary Health check
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"mode":    h.config.Deployment.Mode,
		"storage": h.config.Storage.Provider,
	})
}
