package scheduling

import (
	"testing"

	"muniplan/internal/models"
)

func TestSideEffectsFor(t *testing.T) {
	tests := []struct {
		name     string
		from, to models.TaskStatus
		release  bool
	}{
		{"board move", models.StatusTodo, models.StatusInProgress, false},
		{"into review", models.StatusInProgress, models.StatusReview, false},
		{"completion releases", models.StatusReview, models.StatusDone, true},
		{"cancellation releases", models.StatusTodo, models.StatusCancelled, true},
		{"reopen does not re-reserve", models.StatusDone, models.StatusTodo, false},
		{"terminal to terminal", models.StatusDone, models.StatusCancelled, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			effects := SideEffectsFor(tt.from, tt.to)
			got := len(effects) == 1 && effects[0] == EffectReleaseResource
			if tt.release && !got {
				t.Errorf("%s -> %s: expected release effect, got %v", tt.from, tt.to, effects)
			}
			if !tt.release && len(effects) != 0 {
				t.Errorf("%s -> %s: expected no effects, got %v", tt.from, tt.to, effects)
			}
		})
	}
}
