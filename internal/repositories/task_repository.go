package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"muniplan/internal/models"
)

// ErrResourceUnavailable is returned when the allocation batch finds the
// resource already claimed at commit time.
var ErrResourceUnavailable = errors.New("resource is not available")

type TaskRepository interface {
	Store(ctx context.Context, task *models.Task) error
	// StoreWithAllocation writes the task and claims its resource as one
	// batch: either both land or neither does.
	StoreWithAllocation(ctx context.Context, task *models.Task) error
	FindByID(ctx context.Context, id int64) (*models.Task, error)
	FindByProject(ctx context.Context, projectID int64, filter models.TaskFilter) ([]models.Task, error)
	// FindPendingByResource returns non-terminal tasks reserving the resource.
	FindPendingByResource(ctx context.Context, resourceID int64) ([]models.Task, error)
	Update(ctx context.Context, task *models.Task) error
	UpdateStatus(ctx context.Context, id int64, to models.TaskStatus) error
	// UpdateStatusReleasing moves the task to a terminal status and frees
	// its resource in the same batch.
	UpdateStatusReleasing(ctx context.Context, id int64, to models.TaskStatus, resourceID int64) error
	UpdateAssignee(ctx context.Context, id int64, assigneeID int64) error
	Delete(ctx context.Context, id int64) error
	// DeleteReleasing removes the task and frees its resource in the same batch.
	DeleteReleasing(ctx context.Context, id int64, resourceID int64) error
}

type taskRepository struct {
	db *sql.DB
}

func NewTaskRepository(db *sql.DB) TaskRepository {
	return &taskRepository{db: db}
}

const taskColumns = `id, project_id, title, description, status, priority, assignee_id,
       start_date, due_date, dependencies, resource_id, resource_allocation, created_at, updated_at`

func (r *taskRepository) Store(ctx context.Context, task *models.Task) error {
	query := `
		INSERT INTO tasks (
			project_id, title, description, status, priority, assignee_id,
			start_date, due_date, dependencies, resource_id, resource_allocation,
			created_at, updated_at
		)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
		RETURNING id, created_at, updated_at`
	return r.db.QueryRowContext(ctx, query,
		task.ProjectID, task.Title, task.Description, task.Status, task.Priority,
		task.AssigneeID, task.StartDate, task.DueDate, pq.Array(task.Dependencies),
		task.ResourceID, task.ResourceAllocation, task.CreatedAt, task.UpdatedAt,
	).Scan(&task.ID, &task.CreatedAt, &task.UpdatedAt)
}

func (r *taskRepository) StoreWithAllocation(ctx context.Context, task *models.Task) error {
	if task.ResourceID == nil {
		return fmt.Errorf("task has no resource to allocate")
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// re-check availability under the row lock: two clients can both pass
	// the advisory conflict scan, only one may land here first
	var available bool
	err = tx.QueryRowContext(ctx,
		`SELECT available FROM resources WHERE id=$1 FOR UPDATE`, *task.ResourceID,
	).Scan(&available)
	if err != nil {
		if err == sql.ErrNoRows {
			return fmt.Errorf("resource not found")
		}
		return err
	}
	if !available {
		return ErrResourceUnavailable
	}

	err = tx.QueryRowContext(ctx, `
		INSERT INTO tasks (
			project_id, title, description, status, priority, assignee_id,
			start_date, due_date, dependencies, resource_id, resource_allocation,
			created_at, updated_at
		)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
		RETURNING id, created_at, updated_at`,
		task.ProjectID, task.Title, task.Description, task.Status, task.Priority,
		task.AssigneeID, task.StartDate, task.DueDate, pq.Array(task.Dependencies),
		task.ResourceID, task.ResourceAllocation, task.CreatedAt, task.UpdatedAt,
	).Scan(&task.ID, &task.CreatedAt, &task.UpdatedAt)
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE resources SET
			available=false, allocated_to=$1, allocated_to_task=$2,
			allocation_start=$3, allocation_end=$4, updated_at=NOW()
		WHERE id=$5`,
		task.ProjectID, task.ID, task.StartDate, task.DueDate, *task.ResourceID,
	); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *taskRepository) FindByID(ctx context.Context, id int64) (*models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`
	task := &models.Task{}
	var deps pq.Int64Array
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&task.ID, &task.ProjectID, &task.Title, &task.Description, &task.Status,
		&task.Priority, &task.AssigneeID, &task.StartDate, &task.DueDate, &deps,
		&task.ResourceID, &task.ResourceAllocation, &task.CreatedAt, &task.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("task not found")
		}
		return nil, err
	}
	task.Dependencies = deps
	return task, nil
}

func (r *taskRepository) FindByProject(ctx context.Context, projectID int64, filter models.TaskFilter) ([]models.Task, error) {
	baseQuery := `SELECT ` + taskColumns + ` FROM tasks`

	conditions := []string{"project_id = $1"}
	args := []interface{}{projectID}
	argID := 2

	if filter.AssigneeID != nil {
		conditions = append(conditions, fmt.Sprintf("assignee_id = $%d", argID))
		args = append(args, *filter.AssigneeID)
		argID++
	}
	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argID))
		args = append(args, *filter.Status)
		argID++
	}
	if filter.ResourceID != nil {
		conditions = append(conditions, fmt.Sprintf("resource_id = $%d", argID))
		args = append(args, *filter.ResourceID)
		argID++
	}
	if filter.Priority != nil {
		conditions = append(conditions, fmt.Sprintf("priority = $%d", argID))
		args = append(args, *filter.Priority)
		argID++
	}

	baseQuery += " WHERE " + strings.Join(conditions, " AND ")
	baseQuery += " ORDER BY created_at DESC"

	return r.queryTasks(ctx, baseQuery, args...)
}

func (r *taskRepository) FindPendingByResource(ctx context.Context, resourceID int64) ([]models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks
		WHERE resource_id = $1 AND status NOT IN ('done','cancelled')
		ORDER BY start_date ASC`
	return r.queryTasks(ctx, query, resourceID)
}

func (r *taskRepository) queryTasks(ctx context.Context, query string, args ...interface{}) ([]models.Task, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		var t models.Task
		var deps pq.Int64Array
		if err := rows.Scan(
			&t.ID, &t.ProjectID, &t.Title, &t.Description, &t.Status,
			&t.Priority, &t.AssigneeID, &t.StartDate, &t.DueDate, &deps,
			&t.ResourceID, &t.ResourceAllocation, &t.CreatedAt, &t.UpdatedAt,
		); err != nil {
			return nil, err
		}
		t.Dependencies = deps
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (r *taskRepository) Update(ctx context.Context, task *models.Task) error {
	query := `
		UPDATE tasks SET
			title=$1, description=$2, status=$3, priority=$4, assignee_id=$5,
			start_date=$6, due_date=$7, dependencies=$8, resource_id=$9,
			resource_allocation=$10, updated_at=$11
		WHERE id=$12`
	_, err := r.db.ExecContext(ctx, query,
		task.Title, task.Description, task.Status, task.Priority, task.AssigneeID,
		task.StartDate, task.DueDate, pq.Array(task.Dependencies), task.ResourceID,
		task.ResourceAllocation, task.UpdatedAt, task.ID,
	)
	return err
}

func (r *taskRepository) UpdateStatus(ctx context.Context, id int64, to models.TaskStatus) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE tasks SET status=$1, updated_at=NOW() WHERE id=$2`, to, id)
	return err
}

func (r *taskRepository) UpdateStatusReleasing(ctx context.Context, id int64, to models.TaskStatus, resourceID int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`UPDATE tasks SET status=$1, updated_at=NOW() WHERE id=$2`, to, id); err != nil {
		return err
	}
	if err := releaseResource(ctx, tx, resourceID); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *taskRepository) UpdateAssignee(ctx context.Context, id int64, assigneeID int64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE tasks SET assignee_id=$1, updated_at=NOW() WHERE id=$2`, assigneeID, id)
	return err
}

func (r *taskRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	return err
}

func (r *taskRepository) DeleteReleasing(ctx context.Context, id int64, resourceID int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := releaseResource(ctx, tx, resourceID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id); err != nil {
		return err
	}
	return tx.Commit()
}

func releaseResource(ctx context.Context, tx *sql.Tx, resourceID int64) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE resources SET
			available=true, allocated_to=NULL, allocated_to_task=NULL,
			allocation_start=NULL, allocation_end=NULL, updated_at=NOW()
		WHERE id=$1`, resourceID)
	return err
}
