package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/etymograph/dailyverse/internal/model"
	"github.com/etymograph/dailyverse/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const timestampLayout = time.RFC3339

type WordService interface {
	Words(ctx context.Context) ([]model.Word, error)
	Refresh(ctx context.Context) (model.DailyWords, error)
	Status() service.WordsStatus
}

type WordHandler struct {
	words  WordService
	logger *zap.Logger
}

func NewWordHandler(words WordService, logger *zap.Logger) *WordHandler {
	return &WordHandler{words: words, logger: logger.Named("handler")}
}

type RefreshResponse struct {
	Message   string `json:"message"`
	WordCount int    `json:"wordCount"`
	Timestamp string `json:"timestamp"`
}

// GetWords returns today's curated words, recomputing them first if the
// cache is stale.
func (h *WordHandler) GetWords(c *gin.Context) {
	words, err := h.words.Words(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to get daily words", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch words"})
		return
	}
	if words == nil {
		words = []model.Word{}
	}
	c.JSON(http.StatusOK, words)
}

// Refresh discards the cached set and recomputes it.
func (h *WordHandler) Refresh(c *gin.Context) {
	daily, err := h.words.Refresh(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to refresh daily words", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to refresh words"})
		return
	}

	c.JSON(http.StatusOK, RefreshResponse{
		Message:   "Words refreshed successfully",
		WordCount: len(daily.Words),
		Timestamp: daily.ComputedAt.UTC().Format(timestampLayout),
	})
}

func (h *WordHandler) GetStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.words.Status())
}
