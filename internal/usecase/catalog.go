package usecase

import (
	"context"
	"fmt"

	"golang.org/x/sync/singleflight"

	"github.com/coursely/course-api/internal/entity"
	"github.com/coursely/course-api/internal/logging"
)

// Catalog is the public read path: published courses and posts, cached in
// redis with singleflight collapsing concurrent cache misses.
type Catalog struct {
	courses CourseRepo
	posts   PostRepo
	cache   CatalogCache
	sfg     singleflight.Group
}

func NewCatalog(courses CourseRepo, posts PostRepo, cache CatalogCache) *Catalog {
	return &Catalog{courses: courses, posts: posts, cache: cache}
}

func (c *Catalog) Courses(ctx context.Context) ([]entity.Course, error) {
	v, err, _ := c.sfg.Do(CacheCoursesPublic, func() (any, error) {
		var cached []entity.Course
		ok, err := c.cache.GetJSON(ctx, CacheCoursesPublic, &cached)
		if err != nil {
			logging.FromCtx(ctx).Error("catalog cache get", "key", CacheCoursesPublic, "err", err)
		}
		if ok {
			return cached, nil
		}
		list, err := c.courses.List(ctx, true)
		if err != nil {
			return nil, fmt.Errorf("list courses: %w", err)
		}
		if err := c.cache.SetJSON(ctx, CacheCoursesPublic, list); err != nil {
			logging.FromCtx(ctx).Error("catalog cache set", "key", CacheCoursesPublic, "err", err)
		}
		return list, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]entity.Course), nil
}

func (c *Catalog) CourseBySlug(ctx context.Context, slug string) (*entity.Course, error) {
	return c.courses.GetBySlug(ctx, slug)
}

func (c *Catalog) CourseByID(ctx context.Context, id string) (*entity.Course, error) {
	return c.courses.GetByID(ctx, id)
}

func (c *Catalog) Posts(ctx context.Context) ([]entity.Post, error) {
	v, err, _ := c.sfg.Do(CachePostsPublic, func() (any, error) {
		var cached []entity.Post
		ok, err := c.cache.GetJSON(ctx, CachePostsPublic, &cached)
		if err != nil {
			logging.FromCtx(ctx).Error("catalog cache get", "key", CachePostsPublic, "err", err)
		}
		if ok {
			return cached, nil
		}
		list, err := c.posts.List(ctx, true)
		if err != nil {
			return nil, fmt.Errorf("list posts: %w", err)
		}
		if err := c.cache.SetJSON(ctx, CachePostsPublic, list); err != nil {
			logging.FromCtx(ctx).Error("catalog cache set", "key", CachePostsPublic, "err", err)
		}
		return list, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]entity.Post), nil
}

func (c *Catalog) PostBySlug(ctx context.Context, slug string) (*entity.Post, error) {
	return c.posts.GetBySlug(ctx, slug)
}
