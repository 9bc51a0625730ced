package scheduling

import "muniplan/internal/models"

// Effect is a storage side effect a status transition requires.
type Effect int

const (
	// EffectReleaseResource frees the resource held by the task, in the
	// same batch as the status write.
	EffectReleaseResource Effect = iota + 1
)

// SideEffectsFor returns the resource side effects of moving a task
// from one status to another. The board allows any move, so this is a
// dispatcher, not a guard: entering a terminal status releases a held
// resource, leaving one does not re-reserve it (a new reservation must
// be requested explicitly), and moves between non-terminal statuses
// touch nothing but the status itself.
func SideEffectsFor(from, to models.TaskStatus) []Effect {
	if !from.Terminal() && to.Terminal() {
		return []Effect{EffectReleaseResource}
	}
	return nil
}
