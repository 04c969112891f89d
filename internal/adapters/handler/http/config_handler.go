package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/keegs-3/wellpath-adherence/internal/adapters/handler/http/middleware"
	"github.com/keegs-3/wellpath-adherence/internal/core/domain"
	"github.com/keegs-3/wellpath-adherence/internal/core/services"
)

type ConfigHandler struct {
	svc *services.ConfigService
}

func NewConfigHandler(svc *services.ConfigService) *ConfigHandler {
	return &ConfigHandler{
		svc: svc,
	}
}

type createConfigRequest struct {
	Name     string                `json:"name" binding:"required"`
	Document domain.ConfigDocument `json:"document" binding:"required"`
}

type updateConfigRequest struct {
	Name     string                `json:"name"`
	Document domain.ConfigDocument `json:"document"`
	Version  int                   `json:"version"`
}

func (h *ConfigHandler) RegisterRoutes(router *gin.RouterGroup) {
	goals := router.Group("/goals")
	{
		goals.POST("", h.Create)
		goals.GET("", h.List)
		goals.GET("/:id", h.Get)
		goals.PUT("/:id", h.Update)
		goals.DELETE("/:id", h.Delete)
	}
}

// handleError maps domain errors onto HTTP status codes. Definition errors
// are the caller's fault and come back as 400; everything unexpected is a 500.
func handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidConfig),
		errors.Is(err, domain.ErrUnknownAlgorithmType),
		errors.Is(err, domain.ErrUnknownOperator),
		errors.Is(err, domain.ErrInvalidZoneConfiguration),
		errors.Is(err, domain.ErrGoalNameEmpty),
		errors.Is(err, domain.ErrGoalNameTooLong),
		errors.Is(err, domain.ErrGoalInvalidUserID),
		errors.Is(err, domain.ErrInvalidMeasurement):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

	case errors.Is(err, domain.ErrConfigNotFound),
		errors.Is(err, domain.ErrMeasurementNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})

	case errors.Is(err, domain.ErrConfigConflict):
		c.JSON(http.StatusConflict, gin.H{
			"error":   "version conflict",
			"message": "Goal has been modified elsewhere. Please refresh.",
		})

	case errors.Is(err, domain.ErrUnauthorized):
		c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})

	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func (h *ConfigHandler) Create(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	var req createConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input := services.CreateConfigInput{
		UserID:   userID,
		Name:     req.Name,
		Document: req.Document,
	}

	cfg, err := h.svc.Create(c.Request.Context(), input)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, cfg)
}

func (h *ConfigHandler) List(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	list, err := h.svc.ListByUserID(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, list)
}

func (h *ConfigHandler) Get(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	cfg, err := h.svc.GetByID(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, cfg)
}

func (h *ConfigHandler) Update(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	var req updateConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input := services.UpdateConfigInput{
		ID:       c.Param("id"),
		UserID:   userID,
		Name:     req.Name,
		Document: req.Document,
		Version:  req.Version,
	}

	cfg, err := h.svc.Update(c.Request.Context(), input)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, cfg)
}

func (h *ConfigHandler) Delete(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	err := h.svc.Delete(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
