package queue

import (
	"context"

	"github.com/coursely/course-api/internal/usecase"
)

// EnrollmentViews is the slice of the cache port this consumer needs.
type EnrollmentViews interface {
	Invalidate(ctx context.Context, keys ...string) error
}

// OrderCompletedHandler drops the purchaser's cached "my courses" view so the
// next read sees the new enrollments.
type OrderCompletedHandler struct {
	views EnrollmentViews
}

func NewOrderCompletedHandler(views EnrollmentViews) *OrderCompletedHandler {
	return &OrderCompletedHandler{views: views}
}

// HandleCompleted is intended for the JSON adapter (queue.JSONHandler[usecase.OrderCompletedMsg]).
func (h *OrderCompletedHandler) HandleCompleted(ctx context.Context, msg usecase.OrderCompletedMsg) error {
	return h.views.Invalidate(ctx, usecase.CacheEnrollmentsUser(msg.UserID))
}
