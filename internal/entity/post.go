package entity

import (
	"strings"
	"time"
)

type Post struct {
	ID        string
	Title     string
	Slug      string
	Excerpt   string
	Body      string
	CoverURL  string
	Published bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (p *Post) Validate() error {
	if strings.TrimSpace(p.Title) == "" {
		return ErrEmptyTitle
	}
	if !slugPattern.MatchString(p.Slug) {
		return ErrInvalidSlug
	}
	return nil
}
