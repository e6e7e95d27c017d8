package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coursely/course-api/internal/entity"
)

func TestListForUserIsCached(t *testing.T) {
	repo := &mockEnrollmentRepo{created: []entity.Enrollment{
		{ID: "e1", UserID: "u1", CourseID: "c1", Progress: 40},
	}}
	cache := newMockCache()
	svc := NewEnrollments(repo, cache)

	first, err := svc.ListForUser(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, first, 1)

	second, err := svc.ListForUser(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, cache.hits)
}

func TestApplyProgressClampsAndInvalidates(t *testing.T) {
	repo := &mockEnrollmentRepo{}
	cache := newMockCache()
	svc := NewEnrollments(repo, cache)

	require.NoError(t, svc.ApplyProgress(context.Background(), "u1", "c1", 250))

	require.Len(t, repo.applied, 1)
	assert.Equal(t, 100, repo.applied[0].Progress)
	assert.Contains(t, cache.invalidated, CacheEnrollmentsUser("u1"))
}

func TestApplyProgressPropagatesRepoError(t *testing.T) {
	repo := &mockEnrollmentRepo{applyErr: errNotFound}
	svc := NewEnrollments(repo, newMockCache())

	err := svc.ApplyProgress(context.Background(), "u1", "ghost", 10)
	assert.ErrorIs(t, err, errNotFound)
}
