package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/karimlaafif/Event-Flow/models"
	"github.com/karimlaafif/Event-Flow/services"
)

// HistoryHandler serves archived predictions and ticket scans from Postgres
// with cursor pagination. Hot pages are cached in Redis for 30 seconds.
type HistoryHandler struct {
	db    *gorm.DB
	cache *services.CacheService
}

func NewHistoryHandler(db *gorm.DB, cache *services.CacheService) *HistoryHandler {
	return &HistoryHandler{db: db, cache: cache}
}

func (h *HistoryHandler) GetPredictionHistory(c *gin.Context) {
	p := ParsePagination(c)

	horizonStr := c.DefaultQuery("horizon", "30")
	horizon, err := strconv.Atoi(horizonStr)
	if err != nil || horizon <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid horizon parameter, must be a positive integer"})
		return
	}

	gateID := c.Query("gate_id")
	beforeStr := ""
	if p.Before != nil {
		beforeStr = p.Before.Format(time.RFC3339Nano)
	}
	cacheKey := fmt.Sprintf("predictions:%s:%d:%d:%s", gateID, horizon, p.Limit, beforeStr)

	var cached CursorResponse
	if err := h.cache.Get(c.Request.Context(), cacheKey, &cached); err == nil && cached.Data != nil {
		c.JSON(http.StatusOK, cached)
		return
	}

	query := h.db.Model(&models.PredictionRow{}).
		Where("horizon_min = ?", horizon).
		Order("ts DESC").
		Limit(p.Limit + 1)

	if p.Before != nil {
		query = query.Where("ts < ?", *p.Before)
	}
	if gateID != "" {
		query = query.Where("gate_id = ?", gateID)
	}

	var rows []models.PredictionRow
	if err := query.Find(&rows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database query failed"})
		return
	}

	hasMore := len(rows) > p.Limit
	if hasMore {
		rows = rows[:p.Limit]
	}

	var nextCursor string
	if hasMore && len(rows) > 0 {
		nextCursor = rows[len(rows)-1].TS.Format(time.RFC3339Nano)
	}

	resp := CursorResponse{Data: rows, NextCursor: nextCursor, HasMore: hasMore}
	go h.cache.Set(context.Background(), cacheKey, resp, 30*time.Second)

	c.JSON(http.StatusOK, resp)
}

func (h *HistoryHandler) GetScanHistory(c *gin.Context) {
	p := ParsePagination(c)

	gateID := c.Query("gate_id")
	beforeStr := ""
	if p.Before != nil {
		beforeStr = p.Before.Format(time.RFC3339Nano)
	}
	cacheKey := fmt.Sprintf("scans:%s:%d:%s", gateID, p.Limit, beforeStr)

	var cached CursorResponse
	if err := h.cache.Get(c.Request.Context(), cacheKey, &cached); err == nil && cached.Data != nil {
		c.JSON(http.StatusOK, cached)
		return
	}

	query := h.db.Model(&models.ScanRow{}).
		Order("ts DESC").
		Limit(p.Limit + 1)

	if p.Before != nil {
		query = query.Where("ts < ?", *p.Before)
	}
	if gateID != "" {
		query = query.Where("gate_id = ?", gateID)
	}

	var rows []models.ScanRow
	if err := query.Find(&rows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database query failed"})
		return
	}

	hasMore := len(rows) > p.Limit
	if hasMore {
		rows = rows[:p.Limit]
	}

	var nextCursor string
	if hasMore && len(rows) > 0 {
		nextCursor = rows[len(rows)-1].TS.Format(time.RFC3339Nano)
	}

	resp := CursorResponse{Data: rows, NextCursor: nextCursor, HasMore: hasMore}
	go h.cache.Set(context.Background(), cacheKey, resp, 30*time.Second)

	c.JSON(http.StatusOK, resp)
}
