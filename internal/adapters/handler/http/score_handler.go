package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/keegs-3/wellpath-adherence/internal/adapters/handler/http/middleware"
	"github.com/keegs-3/wellpath-adherence/internal/core/domain"
	"github.com/keegs-3/wellpath-adherence/internal/core/scoring"
	"github.com/keegs-3/wellpath-adherence/internal/core/services"
)

type ScoreHandler struct {
	svc *services.ScoreService
}

func NewScoreHandler(svc *services.ScoreService) *ScoreHandler {
	return &ScoreHandler{
		svc: svc,
	}
}

type previewScoreRequest struct {
	Document   domain.ConfigDocument `json:"document" binding:"required"`
	Days       []domain.DailyValue   `json:"days"`
	CurrentDay *int                  `json:"current_day"`
}

func (h *ScoreHandler) RegisterRoutes(router *gin.RouterGroup) {
	scores := router.Group("/scores")
	{
		scores.GET("/:goal_id", h.Get)
		scores.GET("/:goal_id/progressive", h.Progressive)
		scores.GET("/:goal_id/snapshot", h.Snapshot)
		scores.POST("/preview", h.Preview)
	}

	router.GET("/algorithms", h.Algorithms)
}

// parseEndDate reads an optional ?end_date=YYYY-MM-DD, defaulting to today.
func parseEndDate(c *gin.Context) (time.Time, bool) {
	endDateStr := c.Query("end_date")
	if endDateStr == "" {
		return time.Now().UTC(), true
	}

	endDate, err := time.Parse("2006-01-02", endDateStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end_date format, use YYYY-MM-DD"})
		return time.Time{}, false
	}
	return endDate, true
}

func (h *ScoreHandler) Get(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	endDate, ok := parseEndDate(c)
	if !ok {
		return
	}

	score, err := h.svc.GetScore(c.Request.Context(), userID, c.Param("goal_id"), endDate)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, score)
}

func (h *ScoreHandler) Progressive(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	endDate, ok := parseEndDate(c)
	if !ok {
		return
	}

	scores, err := h.svc.GetProgressiveScores(c.Request.Context(), userID, c.Param("goal_id"), endDate)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"goal_id": c.Param("goal_id"),
		"scores":  scores,
	})
}

func (h *ScoreHandler) Snapshot(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	result, err := h.svc.GetSnapshot(c.Request.Context(), userID, c.Param("goal_id"))
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *ScoreHandler) Preview(c *gin.Context) {
	var req previewScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.svc.PreviewScore(req.Document, req.Days, req.CurrentDay)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *ScoreHandler) Algorithms(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"algorithms": scoring.AvailableAlgorithms(),
	})
}
