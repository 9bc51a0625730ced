package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"muniplan/internal/models"
)

type DepartmentRepository interface {
	Store(ctx context.Context, dept *models.Department) error
	FindByID(ctx context.Context, id int64) (*models.Department, error)
	// FindByName resolves the department vocabulary used by projects
	// and resources back to the registry entry.
	FindByName(ctx context.Context, name string) (*models.Department, error)
	FindAll(ctx context.Context) ([]models.Department, error)
	Update(ctx context.Context, dept *models.Department) error
	Delete(ctx context.Context, id int64) error
}

type departmentRepository struct {
	db *sql.DB
}

func NewDepartmentRepository(db *sql.DB) DepartmentRepository {
	return &departmentRepository{db: db}
}

func (r *departmentRepository) Store(ctx context.Context, dept *models.Department) error {
	return r.db.QueryRowContext(ctx, `
		INSERT INTO departments (name, head, contact_email, created_at)
		VALUES ($1,$2,$3,NOW())
		RETURNING id, created_at`,
		dept.Name, dept.Head, dept.ContactEmail,
	).Scan(&dept.ID, &dept.CreatedAt)
}

func (r *departmentRepository) FindByID(ctx context.Context, id int64) (*models.Department, error) {
	dept := &models.Department{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, head, contact_email, created_at FROM departments WHERE id = $1`, id,
	).Scan(&dept.ID, &dept.Name, &dept.Head, &dept.ContactEmail, &dept.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("department not found")
		}
		return nil, err
	}
	return dept, nil
}

func (r *departmentRepository) FindByName(ctx context.Context, name string) (*models.Department, error) {
	dept := &models.Department{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, head, contact_email, created_at FROM departments WHERE name = $1`, name,
	).Scan(&dept.ID, &dept.Name, &dept.Head, &dept.ContactEmail, &dept.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("department not found")
		}
		return nil, err
	}
	return dept, nil
}

func (r *departmentRepository) FindAll(ctx context.Context) ([]models.Department, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, head, contact_email, created_at FROM departments ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var depts []models.Department
	for rows.Next() {
		var d models.Department
		if err := rows.Scan(&d.ID, &d.Name, &d.Head, &d.ContactEmail, &d.CreatedAt); err != nil {
			return nil, err
		}
		depts = append(depts, d)
	}
	return depts, rows.Err()
}

func (r *departmentRepository) Update(ctx context.Context, dept *models.Department) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE departments SET name=$1, head=$2, contact_email=$3 WHERE id=$4`,
		dept.Name, dept.Head, dept.ContactEmail, dept.ID)
	return err
}

func (r *departmentRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM departments WHERE id = $1`, id)
	return err
}
