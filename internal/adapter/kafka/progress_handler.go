package kafka

import (
	"context"
	"errors"

	"github.com/coursely/course-api/internal/adapter/repo"
	"github.com/coursely/course-api/internal/usecase"
)

// ProgressHandler applies lesson-progress events to enrollments. Completion
// is derived: the enrollment flips to completed exactly when its clamped
// progress reaches 100.
type ProgressHandler struct {
	Enrollments *usecase.Enrollments
}

func NewProgressHandler(enrollments *usecase.Enrollments) *ProgressHandler {
	return &ProgressHandler{Enrollments: enrollments}
}

func (h *ProgressHandler) Handle(ctx context.Context, ev usecase.CourseProgressMsg) error {
	err := h.Enrollments.ApplyProgress(ctx, ev.UserID, ev.CourseID, ev.Progress)
	if errors.Is(err, repo.ErrNotFound) {
		// Progress for a course the user never bought: drop, don't retry.
		return nil
	}
	return err
}
