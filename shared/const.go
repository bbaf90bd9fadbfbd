package shared

const (
	UserID    = "user_id"
	SessionID = "session_id"

	ModeQuick    = "quick"
	ModeDaily    = "daily"
	ModeReview   = "review"
	ModePlan     = "plan"
	ModeWeakness = "weakness"

	SessionStateActive    = "active"
	SessionStateCompleted = "completed"

	BadgeCategoryStreak    = "streak"
	BadgeCategoryAccuracy  = "accuracy"
	BadgeCategoryVolume    = "volume"
	BadgeCategoryMilestone = "milestone"
)

// SessionModes lists every valid session mode; mode is validated at
// session creation, never routed as a free-form string.
var SessionModes = []string{ModeQuick, ModeDaily, ModeReview, ModePlan, ModeWeakness}

func IsValidSessionMode(mode string) bool {
	for _, m := range SessionModes {
		if m == mode {
			return true
		}
	}
	return false
}
