package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"muniplan/internal/models"
	"muniplan/internal/services"
)

type DepartmentHandler struct {
	service services.DepartmentService
}

func NewDepartmentHandler(service services.DepartmentService) *DepartmentHandler {
	return &DepartmentHandler{service: service}
}

type departmentRequest struct {
	Name         string `json:"name" binding:"required"`
	Head         string `json:"head"`
	ContactEmail string `json:"contact_email"`
}

// POST /departments
func (h *DepartmentHandler) Create(c *gin.Context) {
	var req departmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := h.service.Create(c.Request.Context(), &models.Department{
		Name:         req.Name,
		Head:         req.Head,
		ContactEmail: req.ContactEmail,
	})
	if err != nil {
		log.Printf("[dept][create][err] %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create department"})
		return
	}
	log.Printf("[dept][create][ok] id=%d name=%q", created.ID, created.Name)
	c.JSON(http.StatusCreated, created)
}

// GET /departments
func (h *DepartmentHandler) List(c *gin.Context) {
	depts, err := h.service.GetAll(c.Request.Context())
	if err != nil {
		log.Printf("[dept][list][err] %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list departments"})
		return
	}
	c.JSON(http.StatusOK, depts)
}

// GET /departments/:id
func (h *DepartmentHandler) GetByID(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	dept, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "department not found"})
		return
	}
	c.JSON(http.StatusOK, dept)
}

// PUT /departments/:id
func (h *DepartmentHandler) Update(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var req departmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.service.Update(c.Request.Context(), id, &models.Department{
		Name:         req.Name,
		Head:         req.Head,
		ContactEmail: req.ContactEmail,
	})
	if err != nil {
		log.Printf("[dept][update][err] id=%d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update department"})
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DELETE /departments/:id
func (h *DepartmentHandler) Delete(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		log.Printf("[dept][delete][err] id=%d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete department"})
		return
	}
	c.Status(http.StatusNoContent)
}
