package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"muniplan/internal/models"
	"muniplan/internal/repositories"
)

// fakeTaskRepo keeps tasks and resources in memory and mimics the
// batch semantics of the SQL repository.
type fakeTaskRepo struct {
	nextID    int64
	tasks     map[int64]*models.Task
	resources map[int64]*models.Resource
}

func newFakeTaskRepo(resources ...*models.Resource) *fakeTaskRepo {
	r := &fakeTaskRepo{
		nextID:    1,
		tasks:     make(map[int64]*models.Task),
		resources: make(map[int64]*models.Resource),
	}
	for _, res := range resources {
		r.resources[res.ID] = res
	}
	return r
}

func (r *fakeTaskRepo) Store(_ context.Context, task *models.Task) error {
	t := *task
	t.ID = r.nextID
	r.nextID++
	r.tasks[t.ID] = &t
	task.ID = t.ID
	return nil
}

func (r *fakeTaskRepo) StoreWithAllocation(ctx context.Context, task *models.Task) error {
	res, ok := r.resources[*task.ResourceID]
	if !ok {
		return fmt.Errorf("resource not found")
	}
	if !res.Available {
		return repositories.ErrResourceUnavailable
	}
	if err := r.Store(ctx, task); err != nil {
		return err
	}
	res.Available = false
	res.AllocatedTo = &task.ProjectID
	res.AllocatedToTask = &task.ID
	res.AllocationStart = &task.StartDate
	res.AllocationEnd = &task.DueDate
	return nil
}

func (r *fakeTaskRepo) FindByID(_ context.Context, id int64) (*models.Task, error) {
	t, ok := r.tasks[id]
	if !ok {
		return nil, fmt.Errorf("task not found")
	}
	copied := *t
	return &copied, nil
}

func (r *fakeTaskRepo) FindByProject(_ context.Context, projectID int64, _ models.TaskFilter) ([]models.Task, error) {
	var out []models.Task
	for _, t := range r.tasks {
		if t.ProjectID == projectID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (r *fakeTaskRepo) FindPendingByResource(_ context.Context, resourceID int64) ([]models.Task, error) {
	var out []models.Task
	for _, t := range r.tasks {
		if t.ResourceID != nil && *t.ResourceID == resourceID && !t.Status.Terminal() {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (r *fakeTaskRepo) Update(_ context.Context, task *models.Task) error {
	copied := *task
	r.tasks[task.ID] = &copied
	return nil
}

func (r *fakeTaskRepo) UpdateStatus(_ context.Context, id int64, to models.TaskStatus) error {
	r.tasks[id].Status = to
	return nil
}

func (r *fakeTaskRepo) UpdateStatusReleasing(_ context.Context, id int64, to models.TaskStatus, resourceID int64) error {
	r.tasks[id].Status = to
	return r.release(resourceID)
}

func (r *fakeTaskRepo) UpdateAssignee(_ context.Context, id int64, assigneeID int64) error {
	r.tasks[id].AssigneeID = &assigneeID
	return nil
}

func (r *fakeTaskRepo) Delete(_ context.Context, id int64) error {
	delete(r.tasks, id)
	return nil
}

func (r *fakeTaskRepo) DeleteReleasing(_ context.Context, id int64, resourceID int64) error {
	if err := r.release(resourceID); err != nil {
		return err
	}
	delete(r.tasks, id)
	return nil
}

func (r *fakeTaskRepo) release(resourceID int64) error {
	res, ok := r.resources[resourceID]
	if !ok {
		return fmt.Errorf("resource not found")
	}
	res.Available = true
	res.AllocatedTo = nil
	res.AllocatedToTask = nil
	res.AllocationStart = nil
	res.AllocationEnd = nil
	return nil
}

func day(s string) time.Time {
	t, err := models.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return t
}

func newTask(projectID int64, resourceID *int64, start, due string) *models.Task {
	return &models.Task{
		ProjectID:  projectID,
		Title:      "Repave sector 4",
		Status:     models.StatusTodo,
		Priority:   models.PriorityMedium,
		StartDate:  day(start),
		DueDate:    day(due),
		ResourceID: resourceID,
	}
}

func TestCreate_WithoutResource(t *testing.T) {
	repo := newFakeTaskRepo()
	svc := NewTaskService(repo)

	created, conflicts, err := svc.Create(context.Background(), newTask(1, nil, "2024-03-01", "2024-03-05"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(conflicts) != 0 {
		t.Fatalf("unexpected conflicts: %+v", conflicts)
	}
	if created.Status != models.StatusTodo || created.ID == 0 {
		t.Errorf("bad created task: %+v", created)
	}
}

func TestReservationScenario(t *testing.T) {
	ctx := context.Background()
	rid := int64(1)
	resource := &models.Resource{ID: rid, Name: "Excavator", Available: true}
	repo := newFakeTaskRepo(resource)
	svc := NewTaskService(repo)

	// T1 claims the excavator for early March
	t1, conflicts, err := svc.Create(ctx, newTask(1, &rid, "2024-03-01", "2024-03-05"))
	if err != nil {
		t.Fatalf("create T1: %v", err)
	}
	if len(conflicts) != 0 {
		t.Fatalf("create T1: unexpected conflicts %+v", conflicts)
	}
	if resource.Available {
		t.Fatal("resource should be allocated after T1")
	}
	if resource.AllocatedToTask == nil || *resource.AllocatedToTask != t1.ID {
		t.Fatalf("resource should point at T1, got %+v", resource)
	}

	// T2 overlaps and must be rejected with T1 in the conflict list
	t2Req := newTask(1, &rid, "2024-03-03", "2024-03-08")
	t2, conflicts, err := svc.Create(ctx, t2Req)
	if err != nil {
		t.Fatalf("create T2: %v", err)
	}
	if t2 != nil {
		t.Fatalf("conflicting create must not write, got %+v", t2)
	}
	if len(conflicts) != 1 || conflicts[0].TaskID != t1.ID {
		t.Fatalf("expected conflict list [T1], got %+v", conflicts)
	}

	// completing T1 releases the excavator
	done, err := svc.ChangeStatus(ctx, t1.ID, models.StatusDone)
	if err != nil {
		t.Fatalf("complete T1: %v", err)
	}
	if done.Status != models.StatusDone {
		t.Fatalf("T1 status = %s, want done", done.Status)
	}
	if !resource.Available || resource.AllocatedToTask != nil {
		t.Fatalf("resource should be free after T1 done, got %+v", resource)
	}

	// retried T2 now succeeds
	t2, conflicts, err = svc.Create(ctx, newTask(1, &rid, "2024-03-03", "2024-03-08"))
	if err != nil {
		t.Fatalf("retry T2: %v", err)
	}
	if len(conflicts) != 0 {
		t.Fatalf("retry T2: unexpected conflicts %+v", conflicts)
	}
	if t2 == nil || resource.Available {
		t.Fatalf("T2 should hold the resource now, task=%+v resource=%+v", t2, resource)
	}
}

func TestChangeStatus_NonTerminalMoveKeepsReservation(t *testing.T) {
	ctx := context.Background()
	rid := int64(1)
	resource := &models.Resource{ID: rid, Name: "Crane", Available: true}
	repo := newFakeTaskRepo(resource)
	svc := NewTaskService(repo)

	task, _, err := svc.Create(ctx, newTask(1, &rid, "2024-03-01", "2024-03-05"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.ChangeStatus(ctx, task.ID, models.StatusInProgress); err != nil {
		t.Fatalf("move: %v", err)
	}
	if resource.Available {
		t.Error("board move must not release the resource")
	}
}

func TestChangeStatus_ReopenDoesNotReReserve(t *testing.T) {
	ctx := context.Background()
	rid := int64(1)
	resource := &models.Resource{ID: rid, Name: "Crane", Available: true}
	repo := newFakeTaskRepo(resource)
	svc := NewTaskService(repo)

	task, _, err := svc.Create(ctx, newTask(1, &rid, "2024-03-01", "2024-03-05"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.ChangeStatus(ctx, task.ID, models.StatusCancelled); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if !resource.Available {
		t.Fatal("cancellation should release the resource")
	}

	// moving back to the board does not silently take the resource again
	if _, err := svc.ChangeStatus(ctx, task.ID, models.StatusTodo); err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if !resource.Available {
		t.Error("reopening must not re-reserve; a new reservation is explicit")
	}
}

func TestDelete_ReleasesHeldResource(t *testing.T) {
	ctx := context.Background()
	rid := int64(1)
	resource := &models.Resource{ID: rid, Name: "Paver", Available: true}
	repo := newFakeTaskRepo(resource)
	svc := NewTaskService(repo)

	task, _, err := svc.Create(ctx, newTask(1, &rid, "2024-03-01", "2024-03-05"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.Delete(ctx, task.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if !resource.Available {
		t.Error("delete should release the held resource")
	}
	if _, err := repo.FindByID(ctx, task.ID); err == nil {
		t.Error("task record should be gone")
	}
}

func TestUpdate_SelfOverlapAllowed(t *testing.T) {
	ctx := context.Background()
	rid := int64(1)
	resource := &models.Resource{ID: rid, Name: "Paver", Available: true}
	repo := newFakeTaskRepo(resource)
	svc := NewTaskService(repo)

	task, _, err := svc.Create(ctx, newTask(1, &rid, "2024-03-01", "2024-03-05"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// shifting the task's own window over itself is not a conflict
	upd := newTask(1, &rid, "2024-03-02", "2024-03-06")
	upd.AssigneeID = task.AssigneeID
	updated, conflicts, err := svc.Update(ctx, task.ID, upd)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if len(conflicts) != 0 {
		t.Fatalf("self-overlap reported as conflict: %+v", conflicts)
	}
	if !updated.StartDate.Equal(day("2024-03-02")) {
		t.Errorf("window not updated: %+v", updated)
	}
}
