package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/keegs-3/wellpath-adherence/internal/adapters/handler/http/middleware"
	"github.com/keegs-3/wellpath-adherence/internal/core/services"
)

type MeasurementHandler struct {
	svc *services.ScoreService
}

func NewMeasurementHandler(svc *services.ScoreService) *MeasurementHandler {
	return &MeasurementHandler{
		svc: svc,
	}
}

type createMeasurementRequest struct {
	GoalID     string             `json:"goal_id" binding:"required"`
	MeasuredOn time.Time          `json:"measured_on" binding:"required"`
	Value      float64            `json:"value"`
	Category   string             `json:"category"`
	Metrics    map[string]float64 `json:"metrics"`
	Statuses   []string           `json:"statuses"`
}

func (h *MeasurementHandler) RegisterRoutes(router *gin.RouterGroup) {
	measurements := router.Group("/measurements")
	{
		measurements.POST("", h.Create)
		measurements.GET("", h.ListByGoal)
	}
}

func (h *MeasurementHandler) Create(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	var req createMeasurementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	m, err := h.svc.RecordMeasurement(c.Request.Context(), services.RecordMeasurementInput{
		GoalID:     req.GoalID,
		UserID:     userID,
		MeasuredOn: req.MeasuredOn,
		Value:      req.Value,
		Category:   req.Category,
		Metrics:    req.Metrics,
		Statuses:   req.Statuses,
	})
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, m)
}

func (h *MeasurementHandler) ListByGoal(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	goalID := c.Query("goal_id")
	if goalID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "goal_id is required"})
		return
	}

	to := time.Now().UTC()
	from := to.AddDate(0, 0, -30)

	if t := c.Query("to"); t != "" {
		if parsed, err := time.Parse(time.RFC3339, t); err == nil {
			to = parsed
		}
	}
	if f := c.Query("from"); f != "" {
		if parsed, err := time.Parse(time.RFC3339, f); err == nil {
			from = parsed
		}
	}

	list, err := h.svc.ListMeasurements(c.Request.Context(), userID, goalID, from, to)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, list)
}
