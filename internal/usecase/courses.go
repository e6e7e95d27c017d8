package usecase

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/coursely/course-api/internal/entity"
	"github.com/coursely/course-api/internal/logging"
)

// Courses is the admin-facing CRUD surface for the course catalog. Every
// write invalidates both the admin listing and the public listing.
type Courses struct {
	repo  CourseRepo
	cache ListingCache
	blobs ObjectStore
}

func NewCourses(repo CourseRepo, cache ListingCache, blobs ObjectStore) *Courses {
	return &Courses{repo: repo, cache: cache, blobs: blobs}
}

type CourseInput struct {
	Title       string
	Slug        string
	Description string
	PriceCents  int64
	Currency    string
	ImageURL    string
	Published   bool
}

func (s *Courses) Create(ctx context.Context, in CourseInput) (*entity.Course, error) {
	c := &entity.Course{
		ID:          uuid.NewString(),
		Title:       strings.TrimSpace(in.Title),
		Slug:        in.Slug,
		Description: in.Description,
		PriceCents:  in.PriceCents,
		Currency:    in.Currency,
		ImageURL:    in.ImageURL,
		Published:   in.Published,
	}
	if c.Slug == "" {
		c.Slug = entity.Slugify(c.Title)
	}
	if c.Currency == "" {
		c.Currency = "USD"
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("create course: %w", err)
	}
	s.invalidate(ctx)
	return c, nil
}

func (s *Courses) Get(ctx context.Context, id string) (*entity.Course, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns every course, drafts included; the public catalog filters.
func (s *Courses) List(ctx context.Context) ([]entity.Course, error) {
	return s.repo.List(ctx, false)
}

func (s *Courses) Update(ctx context.Context, id string, in CourseInput) (*entity.Course, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c.Title = strings.TrimSpace(in.Title)
	if in.Slug != "" {
		c.Slug = in.Slug
	}
	c.Description = in.Description
	c.PriceCents = in.PriceCents
	if in.Currency != "" {
		c.Currency = in.Currency
	}
	if in.ImageURL != "" {
		c.ImageURL = in.ImageURL
	}
	c.Published = in.Published
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, fmt.Errorf("update course: %w", err)
	}
	s.invalidate(ctx)
	return c, nil
}

func (s *Courses) Delete(ctx context.Context, id string) error {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete course: %w", err)
	}
	if c.ImageURL != "" {
		// Best effort: a dangling image is not worth failing the delete.
		if err := s.blobs.Remove(ctx, path.Base(c.ImageURL)); err != nil {
			logging.FromCtx(ctx).Error("remove course image", "course_id", id, "err", err)
		}
	}
	s.invalidate(ctx)
	return nil
}

// UploadImage stores the image and records its public URL on the course.
func (s *Courses) UploadImage(ctx context.Context, id, filename string, r io.Reader) (*entity.Course, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	url, err := s.blobs.Upload(ctx, id+"-"+path.Base(filename), r)
	if err != nil {
		return nil, fmt.Errorf("upload image: %w", err)
	}
	c.ImageURL = url
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, fmt.Errorf("update course: %w", err)
	}
	s.invalidate(ctx)
	return c, nil
}

func (s *Courses) invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(ctx, CacheCoursesAdmin, CacheCoursesPublic); err != nil {
		logging.FromCtx(ctx).Error("invalidate course listings", "err", err)
	}
}
