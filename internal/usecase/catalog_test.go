package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coursely/course-api/internal/entity"
)

func seedCourse(repo *mockCourseRepo, id, slug string, published bool) {
	repo.byID[id] = &entity.Course{ID: id, Title: "T " + id, Slug: slug, PriceCents: 1000, Currency: "USD", Published: published}
}

func TestCatalogListsOnlyPublishedCourses(t *testing.T) {
	repo := newMockCourseRepo()
	seedCourse(repo, "c1", "go-101", true)
	seedCourse(repo, "c2", "draft-course", false)
	cat := NewCatalog(repo, newMockPostRepo(), newMockCache())

	list, err := cat.Courses(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "c1", list[0].ID)
}

func TestCatalogCachesCourseListing(t *testing.T) {
	repo := newMockCourseRepo()
	seedCourse(repo, "c1", "go-101", true)
	cache := newMockCache()
	cat := NewCatalog(repo, newMockPostRepo(), cache)

	first, err := cat.Courses(context.Background())
	require.NoError(t, err)
	second, err := cat.Courses(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, repo.listCalls)
	assert.Equal(t, 1, cache.hits)
}

func TestCatalogRefillsAfterInvalidation(t *testing.T) {
	repo := newMockCourseRepo()
	seedCourse(repo, "c1", "go-101", true)
	cache := newMockCache()
	cat := NewCatalog(repo, newMockPostRepo(), cache)

	_, err := cat.Courses(context.Background())
	require.NoError(t, err)

	seedCourse(repo, "c2", "sql-201", true)
	require.NoError(t, cache.Invalidate(context.Background(), CacheCoursesPublic))

	list, err := cat.Courses(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 2)
	assert.Equal(t, 2, repo.listCalls)
}

func TestCatalogPostsCachedSeparately(t *testing.T) {
	posts := newMockPostRepo()
	posts.byID["p1"] = &entity.Post{ID: "p1", Title: "Hello", Slug: "hello", Published: true}
	cache := newMockCache()
	cat := NewCatalog(newMockCourseRepo(), posts, cache)

	list, err := cat.Posts(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)

	_, err = cat.Posts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, posts.listCalls)
}

func TestCatalogLookupsBypassCache(t *testing.T) {
	repo := newMockCourseRepo()
	seedCourse(repo, "c1", "go-101", true)
	cat := NewCatalog(repo, newMockPostRepo(), newMockCache())

	byID, err := cat.CourseByID(context.Background(), "c1")
	require.NoError(t, err)
	bySlug, err := cat.CourseBySlug(context.Background(), "go-101")
	require.NoError(t, err)
	assert.Equal(t, byID.ID, bySlug.ID)

	_, err = cat.CourseBySlug(context.Background(), "nope")
	assert.Error(t, err)
}
