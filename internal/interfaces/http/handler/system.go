package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sattrack/backend/internal/application/inventory"
	"github.com/sattrack/backend/internal/interfaces/http/dto"
)

// SystemHandler serves the sensor catalog, statistics, and health
// endpoints.
type SystemHandler struct {
	BaseHandler
	service *inventory.Service
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(service *inventory.Service) *SystemHandler {
	return &SystemHandler{service: service}
}

// RegisterRoutes registers the system routes
func (h *SystemHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/sensors", h.Sensors)
	rg.GET("/stats", h.Stats)
}

// Sensors returns the read-only sensor catalog.
func (h *SystemHandler) Sensors(c *gin.Context) {
	h.Success(c, h.service.Sensors())
}

// Stats returns aggregate counts over the unfiltered collection.
func (h *SystemHandler) Stats(c *gin.Context) {
	h.Success(c, h.service.ComputeStats())
}

// Health reports liveness and the backend mode selected at startup. It
// is registered outside the versioned API group.
func (h *SystemHandler) Health(c *gin.Context) {
	h.Success(c, dto.HealthResponse{
		Status: "ok",
		Mode:   string(h.service.Mode()),
	})
}
