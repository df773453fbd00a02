package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainstats "github.com/yungbote/rsvp-backend/internal/domain/stats"
	"github.com/yungbote/rsvp-backend/internal/http/response"
	"github.com/yungbote/rsvp-backend/internal/services/stats"
)

// StatsCache is the part of stats.Cache the handler needs.
type StatsCache interface {
	Get(ctx context.Context) (domainstats.Snapshot, error)
	Invalidate()
	Status() stats.CacheStatus
}

type StatisticsHandler struct {
	cache StatsCache
}

func NewStatisticsHandler(cache StatsCache) *StatisticsHandler {
	return &StatisticsHandler{cache: cache}
}

// GET /api/admin/statistics
func (h *StatisticsHandler) GetStatistics(c *gin.Context) {
	if wantsRefresh(c.Query("refresh")) {
		h.cache.Invalidate()
	}
	snap, err := h.cache.Get(c.Request.Context())
	if err != nil {
		if errors.Is(err, stats.ErrCacheClosed) {
			response.RespondError(c, http.StatusServiceUnavailable, "shutting_down", err)
			return
		}
		status, body := response.ErrorBody(err, "statistics_failed")
		if !snap.IsZero() {
			body.Data = snap
		}
		c.JSON(status, body)
		return
	}
	response.RespondOK(c, snap)
}

// GET /api/admin/statistics/status
func (h *StatisticsHandler) GetStatus(c *gin.Context) {
	response.RespondOK(c, h.cache.Status())
}

func wantsRefresh(v string) bool {
	switch v {
	case "1", "true", "yes":
		return true
	}
	return false
}
