package scheduling

import (
	"reflect"
	"testing"

	"muniplan/internal/models"
)

func ptr(v int64) *int64 { return &v }

func reservation(id, resourceID int64, status models.TaskStatus, start, due string) models.Task {
	return models.Task{
		ID:         id,
		Title:      "Task",
		Status:     status,
		ResourceID: ptr(resourceID),
		StartDate:  day(start),
		DueDate:    day(due),
	}
}

func TestFindResourceConflicts_OverlapReported(t *testing.T) {
	tasks := []models.Task{
		reservation(1, 7, models.StatusTodo, "2024-01-01", "2024-01-10"),
	}

	got := FindResourceConflicts(0, 7, day("2024-01-05"), day("2024-01-15"), tasks)
	if len(got) != 1 || got[0].TaskID != 1 {
		t.Fatalf("expected conflict with task 1, got %+v", got)
	}
	if got[0].OverlapPercent <= 0 {
		t.Errorf("expected positive overlap percent, got %v", got[0].OverlapPercent)
	}
}

func TestFindResourceConflicts_AdjacentWindowClear(t *testing.T) {
	tasks := []models.Task{
		reservation(1, 7, models.StatusTodo, "2024-01-01", "2024-01-10"),
	}

	if got := FindResourceConflicts(0, 7, day("2024-01-11"), day("2024-01-20"), tasks); len(got) != 0 {
		t.Errorf("adjacent window should not conflict, got %+v", got)
	}
}

func TestFindResourceConflicts_ExcludesSelf(t *testing.T) {
	tasks := []models.Task{
		reservation(1, 7, models.StatusTodo, "2024-01-01", "2024-01-10"),
	}

	// resubmitting task 1 with an overlapping window must not clash with itself
	if got := FindResourceConflicts(1, 7, day("2024-01-03"), day("2024-01-12"), tasks); len(got) != 0 {
		t.Errorf("task should not conflict with itself, got %+v", got)
	}
}

func TestFindResourceConflicts_SkipsOtherResourcesAndTerminal(t *testing.T) {
	tasks := []models.Task{
		reservation(1, 7, models.StatusDone, "2024-01-01", "2024-01-10"),
		reservation(2, 8, models.StatusTodo, "2024-01-01", "2024-01-10"),
		{ID: 3, Status: models.StatusTodo, StartDate: day("2024-01-01"), DueDate: day("2024-01-10")},
	}

	if got := FindResourceConflicts(0, 7, day("2024-01-05"), day("2024-01-15"), tasks); len(got) != 0 {
		t.Errorf("done task, other resource and resource-less task must not conflict, got %+v", got)
	}
}

func TestFindResourceConflicts_Idempotent(t *testing.T) {
	tasks := []models.Task{
		reservation(1, 7, models.StatusTodo, "2024-01-01", "2024-01-10"),
		reservation(2, 7, models.StatusInProgress, "2024-01-08", "2024-01-20"),
	}

	first := FindResourceConflicts(0, 7, day("2024-01-05"), day("2024-01-15"), tasks)
	second := FindResourceConflicts(0, 7, day("2024-01-05"), day("2024-01-15"), tasks)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("same inputs returned different results:\n%+v\n%+v", first, second)
	}
	if len(first) != 2 {
		t.Errorf("expected both reservations reported, got %+v", first)
	}
}

func site(id int64, lat, lng float64, start, end string) models.Project {
	return models.Project{
		ID:        id,
		Title:     "Project",
		Status:    models.ProjectActive,
		Location:  models.Location{Lat: lat, Lng: lng},
		StartDate: day(start),
		EndDate:   day(end),
	}
}

func TestAnalyzeProjectConflicts_BothFactors(t *testing.T) {
	// ~100 m apart, overlapping windows
	p := site(1, 51.1694, 71.4491, "2024-03-01", "2024-04-01")
	pool := []models.Project{
		p,
		site(2, 51.1703, 71.4491, "2024-03-15", "2024-05-01"),
	}

	got := AnalyzeProjectConflicts(p, pool)
	if len(got) != 1 {
		t.Fatalf("expected one report, got %+v", got)
	}
	r := got[0]
	if r.ProjectID != 2 {
		t.Errorf("reported wrong project: %+v", r)
	}
	if r.Severity != 1.0 {
		t.Errorf("expected severity 1.0, got %v", r.Severity)
	}
	if r.Type != models.ConflictSpatialTemporal {
		t.Errorf("expected spatial-temporal, got %q", r.Type)
	}
	if r.Recommendation != Recommendation(1.0) {
		t.Errorf("unexpected recommendation %q", r.Recommendation)
	}
	if !r.TemporalConflict {
		t.Error("expected temporal flag set")
	}
}

func TestAnalyzeProjectConflicts_SingleFactorFiltered(t *testing.T) {
	p := site(1, 51.1694, 71.4491, "2024-03-01", "2024-04-01")

	// close but disjoint in time: severity 0.5, below the 0.7 cutoff
	pool := []models.Project{site(2, 51.1703, 71.4491, "2024-06-01", "2024-07-01")}
	if got := AnalyzeProjectConflicts(p, pool); len(got) != 0 {
		t.Errorf("spatial-only pair should be filtered, got %+v", got)
	}

	// overlapping in time but ~10 km away: severity 0.5, filtered too
	pool = []models.Project{site(3, 51.2594, 71.4491, "2024-03-15", "2024-05-01")}
	if got := AnalyzeProjectConflicts(p, pool); len(got) != 0 {
		t.Errorf("temporal-only pair should be filtered, got %+v", got)
	}
}

func TestAnalyzeProjectConflicts_SkipsSelf(t *testing.T) {
	p := site(1, 51.1694, 71.4491, "2024-03-01", "2024-04-01")
	if got := AnalyzeProjectConflicts(p, []models.Project{p}); len(got) != 0 {
		t.Errorf("project must not conflict with itself, got %+v", got)
	}
}

func TestRecommendationTiers(t *testing.T) {
	if r := Recommendation(1.0); r[:9] != "High risk" {
		t.Errorf("severity 1.0: got %q", r)
	}
	if r := Recommendation(0.7); r[:11] != "Medium risk" {
		t.Errorf("severity 0.7: got %q", r)
	}
	if r := Recommendation(0.5); r[:8] != "Low risk" {
		t.Errorf("severity 0.5: got %q", r)
	}
}
