package handlers

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"muniplan/internal/models"
)

type fakeProjectService struct {
	project *models.Project
}

func (s *fakeProjectService) Create(_ context.Context, p *models.Project) (*models.Project, error) {
	return p, nil
}

func (s *fakeProjectService) GetByID(_ context.Context, id int64) (*models.Project, error) {
	if s.project == nil || s.project.ID != id {
		return nil, fmt.Errorf("project not found")
	}
	return s.project, nil
}

func (s *fakeProjectService) GetAll(_ context.Context, _ models.ProjectFilter) ([]models.Project, error) {
	return nil, nil
}

func (s *fakeProjectService) Update(_ context.Context, _ int64, p *models.Project) (*models.Project, error) {
	return p, nil
}

func (s *fakeProjectService) Delete(_ context.Context, _ int64) error { return nil }

type fakeConflictService struct {
	reports []models.ConflictReport
}

func (s *fakeConflictService) AnalyzeProject(_ context.Context, _ int64) ([]models.ConflictReport, error) {
	return s.reports, nil
}

func (s *fakeConflictService) CheckResource(_ context.Context, _, _ int64, _, _ time.Time) ([]models.ResourceConflict, error) {
	return nil, nil
}

// fakeGenerator writes a stub file so the download handler has
// something to attach.
type fakeGenerator struct {
	dir string
}

func (g *fakeGenerator) GenerateConflictReport(project *models.Project, _ []models.ConflictReport) (string, error) {
	path := filepath.Join(g.dir, fmt.Sprintf("report_%d.pdf", project.ID))
	if err := os.WriteFile(path, []byte("%PDF-1.4"), 0o644); err != nil {
		return "", err
	}
	return path, nil
}

type fakeDepartmentService struct {
	dept *models.Department
}

func (s *fakeDepartmentService) Create(_ context.Context, d *models.Department) (*models.Department, error) {
	return d, nil
}

func (s *fakeDepartmentService) GetByID(_ context.Context, _ int64) (*models.Department, error) {
	return s.dept, nil
}

func (s *fakeDepartmentService) GetByName(_ context.Context, name string) (*models.Department, error) {
	if s.dept == nil || s.dept.Name != name {
		return nil, fmt.Errorf("department not found")
	}
	return s.dept, nil
}

func (s *fakeDepartmentService) GetAll(_ context.Context) ([]models.Department, error) {
	return nil, nil
}

func (s *fakeDepartmentService) Update(_ context.Context, _ int64, d *models.Department) (*models.Department, error) {
	return d, nil
}

func (s *fakeDepartmentService) Delete(_ context.Context, _ int64) error { return nil }

type fakeEmailService struct {
	conflictNotices []string // recipient addresses
}

func (s *fakeEmailService) SendWelcomeEmail(_, _ string) error { return nil }

func (s *fakeEmailService) SendTaskAssignedEmail(_ string, _ *models.Task) error { return nil }

func (s *fakeEmailService) SendConflictNoticeEmail(email string, _ *models.Project, _ []models.ConflictReport) error {
	s.conflictNotices = append(s.conflictNotices, email)
	return nil
}

func reportRouter(h *ProjectHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/projects/:id/conflicts/report", h.ConflictsReport)
	return r
}

func TestConflictsReport_NotifiesDepartmentContact(t *testing.T) {
	project := &models.Project{ID: 1, Title: "Main street repaving", Department: "Roads"}
	email := &fakeEmailService{}
	h := NewProjectHandler(
		&fakeProjectService{project: project},
		&fakeConflictService{reports: []models.ConflictReport{{
			ProjectID: 2, ProjectTitle: "Water main", Severity: 1.0,
		}}},
		&fakeGenerator{dir: t.TempDir()},
		&fakeDepartmentService{dept: &models.Department{Name: "Roads", ContactEmail: "roads@city.example"}},
		email,
	)

	w := httptest.NewRecorder()
	reportRouter(h).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/projects/1/conflicts/report", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if len(email.conflictNotices) != 1 || email.conflictNotices[0] != "roads@city.example" {
		t.Fatalf("expected one notice to the department contact, got %v", email.conflictNotices)
	}
}

func TestConflictsReport_NoConflictsNoNotice(t *testing.T) {
	project := &models.Project{ID: 1, Title: "Main street repaving", Department: "Roads"}
	email := &fakeEmailService{}
	h := NewProjectHandler(
		&fakeProjectService{project: project},
		&fakeConflictService{},
		&fakeGenerator{dir: t.TempDir()},
		&fakeDepartmentService{dept: &models.Department{Name: "Roads", ContactEmail: "roads@city.example"}},
		email,
	)

	w := httptest.NewRecorder()
	reportRouter(h).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/projects/1/conflicts/report", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if len(email.conflictNotices) != 0 {
		t.Fatalf("clean report must not mail anyone, got %v", email.conflictNotices)
	}
}
