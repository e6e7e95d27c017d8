package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/coursely/course-api/internal/entity"
	"github.com/coursely/course-api/internal/logging"
)

// Posts is the admin CRUD surface for the blog.
type Posts struct {
	repo  PostRepo
	cache ListingCache
}

func NewPosts(repo PostRepo, cache ListingCache) *Posts {
	return &Posts{repo: repo, cache: cache}
}

type PostInput struct {
	Title     string
	Slug      string
	Excerpt   string
	Body      string
	CoverURL  string
	Published bool
}

func (s *Posts) Create(ctx context.Context, in PostInput) (*entity.Post, error) {
	p := &entity.Post{
		ID:        uuid.NewString(),
		Title:     strings.TrimSpace(in.Title),
		Slug:      in.Slug,
		Excerpt:   in.Excerpt,
		Body:      in.Body,
		CoverURL:  in.CoverURL,
		Published: in.Published,
	}
	if p.Slug == "" {
		p.Slug = entity.Slugify(p.Title)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	s.invalidate(ctx)
	return p, nil
}

func (s *Posts) Get(ctx context.Context, id string) (*entity.Post, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Posts) List(ctx context.Context) ([]entity.Post, error) {
	return s.repo.List(ctx, false)
}

func (s *Posts) Update(ctx context.Context, id string, in PostInput) (*entity.Post, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Title = strings.TrimSpace(in.Title)
	if in.Slug != "" {
		p.Slug = in.Slug
	}
	p.Excerpt = in.Excerpt
	p.Body = in.Body
	p.CoverURL = in.CoverURL
	p.Published = in.Published
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("update post: %w", err)
	}
	s.invalidate(ctx)
	return p, nil
}

func (s *Posts) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	s.invalidate(ctx)
	return nil
}

func (s *Posts) invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(ctx, CachePostsAdmin, CachePostsPublic); err != nil {
		logging.FromCtx(ctx).Error("invalidate post listings", "err", err)
	}
}
