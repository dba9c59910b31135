package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sattrack/backend/internal/application/inventory"
	"github.com/sattrack/backend/internal/interfaces/http/dto"
)

// RecordHandler serves the satellite record endpoints.
type RecordHandler struct {
	BaseHandler
	service *inventory.Service
}

// NewRecordHandler creates a new RecordHandler
func NewRecordHandler(service *inventory.Service) *RecordHandler {
	return &RecordHandler{service: service}
}

// RegisterRoutes registers the record routes
func (h *RecordHandler) RegisterRoutes(rg *gin.RouterGroup) {
	records := rg.Group("/records")
	{
		records.GET("", h.List)
		records.POST("", h.Create)
		records.GET("/export", h.Export)
		records.POST("/import", h.Import)
		records.GET("/:id", h.Get)
		records.PUT("/:id", h.Update)
		records.DELETE("/:id", h.Delete)
	}
}

// List returns the projected view of the collection.
func (h *RecordHandler) List(c *gin.Context) {
	var query dto.ListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, "invalid list parameters: "+err.Error())
		return
	}

	state := inventory.ViewState{
		Search:     query.Search,
		SortColumn: query.Sort,
		Order:      query.Order,
	}
	// At most one filter applies; status wins if both are sent.
	switch {
	case query.Status != "":
		state.FilterKey, state.FilterValue = inventory.FilterStatus, query.Status
	case query.Orbit != "":
		state.FilterKey, state.FilterValue = inventory.FilterOrbit, query.Orbit
	}

	h.Success(c, h.service.View(state))
}

// Get returns one record by identifier.
func (h *RecordHandler) Get(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "record identifier must be numeric")
		return
	}
	rec, err := h.service.Get(id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rec)
}

// Create validates and saves a new record.
func (h *RecordHandler) Create(c *gin.Context) {
	var req dto.RecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	outcome, err := h.service.Create(c.Request.Context(), req.ToDraft())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if outcome.Warning != "" {
		c.JSON(http.StatusCreated, dto.NewSuccessResponseWithWarning(outcome.Record, outcome.Warning))
		return
	}
	h.Created(c, outcome.Record)
}

// Update merges changes onto an existing record.
func (h *RecordHandler) Update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "record identifier must be numeric")
		return
	}
	var req dto.RecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	outcome, err := h.service.Update(c.Request.Context(), id, req.ToDraft())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if outcome.Warning != "" {
		c.JSON(http.StatusOK, dto.NewSuccessResponseWithWarning(outcome.Record, outcome.Warning))
		return
	}
	h.Success(c, outcome.Record)
}

// Delete removes a record. The confirm query parameter is the caller's
// explicit confirmation; without it the delete is rejected up front.
func (h *RecordHandler) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "record identifier must be numeric")
		return
	}
	confirmed := c.Query("confirm") == "true"

	if err := h.service.Delete(c.Request.Context(), id, confirmed); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Import runs a bulk import from delimited text. The payload may arrive
// as JSON or as a raw text body.
func (h *RecordHandler) Import(c *gin.Context) {
	text, ok := h.importText(c)
	if !ok {
		return
	}

	report, err := h.service.Import(c.Request.Context(), text)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, report)
}

// importText extracts the import payload from the request.
func (h *RecordHandler) importText(c *gin.Context) (string, bool) {
	if c.ContentType() == "application/json" {
		var req dto.ImportRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			h.BadRequest(c, "invalid import body: "+err.Error())
			return "", false
		}
		return req.Text, true
	}
	raw, err := c.GetRawData()
	if err != nil || len(raw) == 0 {
		h.BadRequest(c, "import body is empty")
		return "", false
	}
	return string(raw), true
}

// Export streams the collection as a delimited text download.
func (h *RecordHandler) Export(c *gin.Context) {
	filename, content := h.service.Export()
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", []byte(content))
}
