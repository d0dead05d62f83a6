package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type healthResponse struct {
	Status      string `json:"status"`
	Session     string `json:"session"`
	TokenStore  string `json:"tokenStore"`
	Environment string `json:"environment"`
}

func (h HandlerSet) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	tokenStore := h.cfg.Tokens.Backend
	if h.cache != nil {
		if err := h.cache.Ping(ctx).Err(); err != nil {
			tokenStore = "error"
			h.log.Error().Err(err).Msg("redis ping failed")
		}
	}

	c.JSON(http.StatusOK, healthResponse{
		Status:      "ok",
		Session:     h.session.State().Phase.String(),
		TokenStore:  tokenStore,
		Environment: h.cfg.Environment,
	})
}
