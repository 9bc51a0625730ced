package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"muniplan/internal/models"
	"muniplan/internal/pdf"
	"muniplan/internal/services"
)

type ProjectHandler struct {
	service     services.ProjectService
	conflicts   services.ConflictService
	reports     pdf.Generator
	departments services.DepartmentService
	email       services.EmailService
}

func NewProjectHandler(
	service services.ProjectService,
	conflicts services.ConflictService,
	reports pdf.Generator,
	departments services.DepartmentService,
	email services.EmailService,
) *ProjectHandler {
	return &ProjectHandler{
		service:     service,
		conflicts:   conflicts,
		reports:     reports,
		departments: departments,
		email:       email,
	}
}

type projectRequest struct {
	Title       string          `json:"title" binding:"required"`
	Description string          `json:"description"`
	Department  string          `json:"department" binding:"required"`
	Location    models.Location `json:"location"`
	StartDate   string          `json:"start_date" binding:"required"` // YYYY-MM-DD
	EndDate     string          `json:"end_date" binding:"required"`   // YYYY-MM-DD
	Status      string          `json:"status"`
}

func (r *projectRequest) toProject() (*models.Project, error) {
	start, err := parseDate("start_date", r.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := parseDate("end_date", r.EndDate)
	if err != nil {
		return nil, err
	}
	return &models.Project{
		Title:       r.Title,
		Description: r.Description,
		Department:  r.Department,
		Location:    r.Location,
		StartDate:   start,
		EndDate:     end,
		Status:      models.ProjectStatus(r.Status),
	}, nil
}

// POST /projects
func (h *ProjectHandler) Create(c *gin.Context) {
	userID, roleID := getUserAndRole(c)
	log.Printf("[project][create] call by userID=%d role=%d", userID, roleID)

	var req projectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("[project][create][bind][err] %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	project, err := req.toProject()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := h.service.Create(c.Request.Context(), project)
	if err != nil {
		log.Printf("[project][create][err] %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create project"})
		return
	}
	log.Printf("[project][create][ok] id=%d title=%q", created.ID, created.Title)
	c.JSON(http.StatusCreated, created)
}

// GET /projects
func (h *ProjectHandler) List(c *gin.Context) {
	var filter models.ProjectFilter
	if s := c.Query("status"); s != "" {
		status := models.ProjectStatus(s)
		filter.Status = &status
	}
	if d := c.Query("department"); d != "" {
		filter.Department = &d
	}

	projects, err := h.service.GetAll(c.Request.Context(), filter)
	if err != nil {
		log.Printf("[project][list][err] %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list projects"})
		return
	}
	c.JSON(http.StatusOK, projects)
}

// GET /projects/:id
func (h *ProjectHandler) GetByID(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	project, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
		return
	}
	c.JSON(http.StatusOK, project)
}

// PUT /projects/:id
func (h *ProjectHandler) Update(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var req projectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	updateData, err := req.toProject()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.service.Update(c.Request.Context(), id, updateData)
	if err != nil {
		log.Printf("[project][update][err] id=%d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update project"})
		return
	}
	log.Printf("[project][update][ok] id=%d", id)
	c.JSON(http.StatusOK, updated)
}

// DELETE /projects/:id
func (h *ProjectHandler) Delete(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		log.Printf("[project][delete][err] id=%d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete project"})
		return
	}
	log.Printf("[project][delete][ok] id=%d", id)
	c.Status(http.StatusNoContent)
}

// @Summary      Analyze project conflicts
// @Description  Scores the project against all other active projects by spatial and temporal overlap
// @Tags         Projects
// @Produce      json
// @Param        id   path      int  true  "Project ID"
// @Success      200  {array}   models.ConflictReport
// @Failure      404  {object}  map[string]string
// @Router       /projects/{id}/conflicts [get]
func (h *ProjectHandler) Conflicts(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reports, err := h.conflicts.AnalyzeProject(c.Request.Context(), id)
	if err != nil {
		log.Printf("[project][conflicts][err] id=%d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to analyze conflicts"})
		return
	}
	log.Printf("[project][conflicts][ok] id=%d n=%d", id, len(reports))
	if reports == nil {
		reports = []models.ConflictReport{}
	}
	c.JSON(http.StatusOK, reports)
}

// GET /projects/:id/conflicts/report serves the PDF export
func (h *ProjectHandler) ConflictsReport(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	project, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
		return
	}
	reports, err := h.conflicts.AnalyzeProject(c.Request.Context(), id)
	if err != nil {
		log.Printf("[project][report][err] id=%d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to analyze conflicts"})
		return
	}

	path, err := h.reports.GenerateConflictReport(project, reports)
	if err != nil {
		log.Printf("[project][report][pdf][err] id=%d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate report"})
		return
	}
	log.Printf("[project][report][ok] id=%d file=%s", id, path)
	c.FileAttachment(path, "conflict-report.pdf")

	if len(reports) > 0 {
		h.notifyDepartment(c, project, reports)
	}
}

// notifyDepartment mails the conflict list to the owning department's
// contact when a report export finds clashes. Warn-only; the export
// already succeeded.
func (h *ProjectHandler) notifyDepartment(c *gin.Context, project *models.Project, reports []models.ConflictReport) {
	if h.email == nil || h.departments == nil {
		return
	}
	dept, err := h.departments.GetByName(c.Request.Context(), project.Department)
	if err != nil || dept.ContactEmail == "" {
		log.Printf("[project][report][notify][skip] department=%q: %v", project.Department, err)
		return
	}
	if err := h.email.SendConflictNoticeEmail(dept.ContactEmail, project, reports); err != nil {
		log.Printf("[project][report][notify][err] to=%s: %v", dept.ContactEmail, err)
	}
}
