package handler

import (
	"context"
	"net/http"

	"github.com/etymograph/dailyverse/internal/model"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type PoemService interface {
	PoemOfTheDay(ctx context.Context) (model.Poem, error)
}

type PoemHandler struct {
	poems  PoemService
	logger *zap.Logger
}

func NewPoemHandler(poems PoemService, logger *zap.Logger) *PoemHandler {
	return &PoemHandler{poems: poems, logger: logger.Named("handler")}
}

func (h *PoemHandler) GetPoem(c *gin.Context) {
	poem, err := h.poems.PoemOfTheDay(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to get poem of the day", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch poem"})
		return
	}
	c.JSON(http.StatusOK, poem)
}
