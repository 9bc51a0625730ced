package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"muniplan/internal/models"
)

type ResourceRepository interface {
	Store(ctx context.Context, resource *models.Resource) error
	FindByID(ctx context.Context, id int64) (*models.Resource, error)
	FindAll(ctx context.Context, filter models.ResourceFilter) ([]models.Resource, error)
	Update(ctx context.Context, resource *models.Resource) error
	Delete(ctx context.Context, id int64) error
}

type resourceRepository struct {
	db *sql.DB
}

func NewResourceRepository(db *sql.DB) ResourceRepository {
	return &resourceRepository{db: db}
}

const resourceColumns = `id, name, type, department, available, allocated_to,
       allocated_to_task, allocation_start, allocation_end, created_at, updated_at`

func (r *resourceRepository) Store(ctx context.Context, resource *models.Resource) error {
	query := `
		INSERT INTO resources (
			name, type, department, available, allocated_to, allocated_to_task,
			allocation_start, allocation_end, created_at, updated_at
		)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,NOW(),NOW())
		RETURNING id, created_at, updated_at`
	return r.db.QueryRowContext(ctx, query,
		resource.Name, resource.Type, resource.Department, resource.Available,
		resource.AllocatedTo, resource.AllocatedToTask,
		resource.AllocationStart, resource.AllocationEnd,
	).Scan(&resource.ID, &resource.CreatedAt, &resource.UpdatedAt)
}

func (r *resourceRepository) FindByID(ctx context.Context, id int64) (*models.Resource, error) {
	query := `SELECT ` + resourceColumns + ` FROM resources WHERE id = $1`
	resource := &models.Resource{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&resource.ID, &resource.Name, &resource.Type, &resource.Department,
		&resource.Available, &resource.AllocatedTo, &resource.AllocatedToTask,
		&resource.AllocationStart, &resource.AllocationEnd,
		&resource.CreatedAt, &resource.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("resource not found")
		}
		return nil, err
	}
	return resource, nil
}

func (r *resourceRepository) FindAll(ctx context.Context, filter models.ResourceFilter) ([]models.Resource, error) {
	baseQuery := `SELECT ` + resourceColumns + ` FROM resources`

	conditions := []string{}
	args := []interface{}{}
	argID := 1

	if filter.Type != nil {
		conditions = append(conditions, fmt.Sprintf("type = $%d", argID))
		args = append(args, *filter.Type)
		argID++
	}
	if filter.Department != nil {
		conditions = append(conditions, fmt.Sprintf("department = $%d", argID))
		args = append(args, *filter.Department)
		argID++
	}
	if filter.Available != nil {
		conditions = append(conditions, fmt.Sprintf("available = $%d", argID))
		args = append(args, *filter.Available)
		argID++
	}

	if len(conditions) > 0 {
		baseQuery += " WHERE " + strings.Join(conditions, " AND ")
	}
	baseQuery += " ORDER BY name ASC"

	rows, err := r.db.QueryContext(ctx, baseQuery, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var resources []models.Resource
	for rows.Next() {
		var res models.Resource
		if err := rows.Scan(
			&res.ID, &res.Name, &res.Type, &res.Department,
			&res.Available, &res.AllocatedTo, &res.AllocatedToTask,
			&res.AllocationStart, &res.AllocationEnd,
			&res.CreatedAt, &res.UpdatedAt,
		); err != nil {
			return nil, err
		}
		resources = append(resources, res)
	}
	return resources, rows.Err()
}

func (r *resourceRepository) Update(ctx context.Context, resource *models.Resource) error {
	query := `
		UPDATE resources SET
			name=$1, type=$2, department=$3, available=$4, allocated_to=$5,
			allocated_to_task=$6, allocation_start=$7, allocation_end=$8, updated_at=NOW()
		WHERE id=$9`
	_, err := r.db.ExecContext(ctx, query,
		resource.Name, resource.Type, resource.Department, resource.Available,
		resource.AllocatedTo, resource.AllocatedToTask,
		resource.AllocationStart, resource.AllocationEnd, resource.ID,
	)
	return err
}

func (r *resourceRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM resources WHERE id = $1`, id)
	return err
}
