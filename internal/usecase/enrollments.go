package usecase

import (
	"context"

	"github.com/coursely/course-api/internal/entity"
	"github.com/coursely/course-api/internal/logging"
)

// Enrollments serves the "my courses" view and applies progress updates from
// the Kafka feed.
type Enrollments struct {
	repo  EnrollmentRepo
	cache CatalogCache
}

func NewEnrollments(repo EnrollmentRepo, cache CatalogCache) *Enrollments {
	return &Enrollments{repo: repo, cache: cache}
}

func (s *Enrollments) ListForUser(ctx context.Context, userID string) ([]entity.Enrollment, error) {
	key := CacheEnrollmentsUser(userID)
	var cached []entity.Enrollment
	if ok, err := s.cache.GetJSON(ctx, key, &cached); err == nil && ok {
		return cached, nil
	}
	list, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.cache.SetJSON(ctx, key, list); err != nil {
		logging.FromCtx(ctx).Error("cache enrollments", "user_id", userID, "err", err)
	}
	return list, nil
}

// ApplyProgress clamps the reported progress and derives completion from it
// (completed exactly when progress reaches 100), then drops the stale cached
// view.
func (s *Enrollments) ApplyProgress(ctx context.Context, userID, courseID string, progress int) error {
	if err := s.repo.ApplyProgress(ctx, userID, courseID, entity.ClampProgress(progress)); err != nil {
		return err
	}
	if err := s.cache.Invalidate(ctx, CacheEnrollmentsUser(userID)); err != nil {
		logging.FromCtx(ctx).Error("invalidate enrollments", "user_id", userID, "err", err)
	}
	return nil
}
