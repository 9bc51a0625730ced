package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"muniplan/internal/models"
)

type ProjectRepository interface {
	Store(ctx context.Context, project *models.Project) error
	FindByID(ctx context.Context, id int64) (*models.Project, error)
	FindAll(ctx context.Context, filter models.ProjectFilter) ([]models.Project, error)
	// FindActive returns the candidate pool for conflict analysis.
	FindActive(ctx context.Context) ([]models.Project, error)
	Update(ctx context.Context, project *models.Project) error
	Delete(ctx context.Context, id int64) error
}

type projectRepository struct {
	db *sql.DB
}

func NewProjectRepository(db *sql.DB) ProjectRepository {
	return &projectRepository{db: db}
}

const projectColumns = `id, title, description, department, lat, lng,
       start_date, end_date, status, created_at, updated_at`

func (r *projectRepository) Store(ctx context.Context, project *models.Project) error {
	query := `
		INSERT INTO projects (
			title, description, department, lat, lng, start_date, end_date,
			status, created_at, updated_at
		)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,NOW(),NOW())
		RETURNING id, created_at, updated_at`
	return r.db.QueryRowContext(ctx, query,
		project.Title, project.Description, project.Department,
		project.Location.Lat, project.Location.Lng,
		project.StartDate, project.EndDate, project.Status,
	).Scan(&project.ID, &project.CreatedAt, &project.UpdatedAt)
}

func (r *projectRepository) FindByID(ctx context.Context, id int64) (*models.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = $1`
	project := &models.Project{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&project.ID, &project.Title, &project.Description, &project.Department,
		&project.Location.Lat, &project.Location.Lng,
		&project.StartDate, &project.EndDate, &project.Status,
		&project.CreatedAt, &project.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("project not found")
		}
		return nil, err
	}
	return project, nil
}

func (r *projectRepository) FindAll(ctx context.Context, filter models.ProjectFilter) ([]models.Project, error) {
	baseQuery := `SELECT ` + projectColumns + ` FROM projects`

	conditions := []string{}
	args := []interface{}{}
	argID := 1

	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argID))
		args = append(args, *filter.Status)
		argID++
	}
	if filter.Department != nil {
		conditions = append(conditions, fmt.Sprintf("department = $%d", argID))
		args = append(args, *filter.Department)
		argID++
	}

	if len(conditions) > 0 {
		baseQuery += " WHERE " + strings.Join(conditions, " AND ")
	}
	baseQuery += " ORDER BY created_at DESC"

	return r.queryProjects(ctx, baseQuery, args...)
}

func (r *projectRepository) FindActive(ctx context.Context) ([]models.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE status = 'active'`
	return r.queryProjects(ctx, query)
}

func (r *projectRepository) queryProjects(ctx context.Context, query string, args ...interface{}) ([]models.Project, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []models.Project
	for rows.Next() {
		var p models.Project
		if err := rows.Scan(
			&p.ID, &p.Title, &p.Description, &p.Department,
			&p.Location.Lat, &p.Location.Lng,
			&p.StartDate, &p.EndDate, &p.Status,
			&p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

func (r *projectRepository) Update(ctx context.Context, project *models.Project) error {
	query := `
		UPDATE projects SET
			title=$1, description=$2, department=$3, lat=$4, lng=$5,
			start_date=$6, end_date=$7, status=$8, updated_at=NOW()
		WHERE id=$9`
	_, err := r.db.ExecContext(ctx, query,
		project.Title, project.Description, project.Department,
		project.Location.Lat, project.Location.Lng,
		project.StartDate, project.EndDate, project.Status, project.ID,
	)
	return err
}

func (r *projectRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = $1`, id)
	return err
}
