package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"muniplan/internal/models"
	"muniplan/internal/services"
)

type ResourceHandler struct {
	service   services.ResourceService
	conflicts services.ConflictService
}

func NewResourceHandler(service services.ResourceService, conflicts services.ConflictService) *ResourceHandler {
	return &ResourceHandler{service: service, conflicts: conflicts}
}

// POST /resources
func (h *ResourceHandler) Create(c *gin.Context) {
	var req struct {
		Name       string `json:"name" binding:"required"`
		Type       string `json:"type" binding:"required"`
		Department string `json:"department"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("[resource][create][bind][err] %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resource := &models.Resource{
		Name:       req.Name,
		Type:       req.Type,
		Department: req.Department,
	}
	created, err := h.service.Create(c.Request.Context(), resource)
	if err != nil {
		log.Printf("[resource][create][err] %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create resource"})
		return
	}
	log.Printf("[resource][create][ok] id=%d name=%q", created.ID, created.Name)
	c.JSON(http.StatusCreated, created)
}

// GET /resources
func (h *ResourceHandler) List(c *gin.Context) {
	var filter models.ResourceFilter
	if t := c.Query("type"); t != "" {
		filter.Type = &t
	}
	if d := c.Query("department"); d != "" {
		filter.Department = &d
	}
	if a := c.Query("available"); a != "" {
		available, err := strconv.ParseBool(a)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid available"})
			return
		}
		filter.Available = &available
	}

	resources, err := h.service.GetAll(c.Request.Context(), filter)
	if err != nil {
		log.Printf("[resource][list][err] %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list resources"})
		return
	}
	c.JSON(http.StatusOK, resources)
}

// GET /resources/:id
func (h *ResourceHandler) GetByID(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	resource, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "resource not found"})
		return
	}
	c.JSON(http.StatusOK, resource)
}

// PUT /resources/:id
func (h *ResourceHandler) Update(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var req struct {
		Name       string `json:"name" binding:"required"`
		Type       string `json:"type" binding:"required"`
		Department string `json:"department"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.service.Update(c.Request.Context(), id, &models.Resource{
		Name:       req.Name,
		Type:       req.Type,
		Department: req.Department,
	})
	if err != nil {
		log.Printf("[resource][update][err] id=%d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update resource"})
		return
	}
	log.Printf("[resource][update][ok] id=%d", id)
	c.JSON(http.StatusOK, updated)
}

// DELETE /resources/:id
func (h *ResourceHandler) Delete(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		log.Printf("[resource][delete][err] id=%d: %v", id, err)
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	log.Printf("[resource][delete][ok] id=%d", id)
	c.Status(http.StatusNoContent)
}

// @Summary      Probe a resource for reservation conflicts
// @Description  Lists pending reservations of the resource that overlap the given window
// @Tags         Resources
// @Produce      json
// @Param        id     path      int     true   "Resource ID"
// @Param        start  query     string  true   "Window start (YYYY-MM-DD)"
// @Param        end    query     string  true   "Window end (YYYY-MM-DD)"
// @Param        exclude_task  query  int  false  "Task id to exclude (for updates)"
// @Success      200    {array}   models.ResourceConflict
// @Failure      400    {object}  map[string]string
// @Router       /resources/{id}/conflicts [get]
func (h *ResourceHandler) Conflicts(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	start, err := parseDate("start", c.Query("start"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	end, err := parseDate("end", c.Query("end"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var excludeTaskID int64
	if v := c.Query("exclude_task"); v != "" {
		excludeTaskID, err = strconv.ParseInt(v, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid exclude_task"})
			return
		}
	}

	conflicts, err := h.conflicts.CheckResource(c.Request.Context(), id, excludeTaskID, start, end)
	if err != nil {
		log.Printf("[resource][conflicts][err] id=%d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to check resource"})
		return
	}
	if conflicts == nil {
		conflicts = []models.ResourceConflict{}
	}
	c.JSON(http.StatusOK, conflicts)
}
