package entity

import "time"

// Enrollment grants a user access to a course's content. Completion is
// derived from progress: ClampProgress caps the value to [0,100] and an
// enrollment is completed exactly when its progress reaches 100.
type Enrollment struct {
	ID        string
	UserID    string
	CourseID  string
	Completed bool
	Progress  int
	CreatedAt time.Time
}

func ClampProgress(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// ApplyProgress sets progress (clamped) and keeps the completed flag in sync.
func (e *Enrollment) ApplyProgress(p int) {
	e.Progress = ClampProgress(p)
	e.Completed = e.Progress == 100
}
