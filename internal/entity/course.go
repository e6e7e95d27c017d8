package entity

import (
	"errors"
	"regexp"
	"strings"
	"time"
)

var (
	ErrEmptyTitle  = errors.New("title is required")
	ErrInvalidSlug = errors.New("slug must be lowercase letters, digits and hyphens")
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

type Course struct {
	ID          string
	Title       string
	Slug        string
	Description string
	PriceCents  int64
	Currency    string
	ImageURL    string
	Published   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (c *Course) Validate() error {
	if strings.TrimSpace(c.Title) == "" {
		return ErrEmptyTitle
	}
	if !slugPattern.MatchString(c.Slug) {
		return ErrInvalidSlug
	}
	return nil
}

// Slugify derives a URL-safe identifier from a human-readable title.
func Slugify(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))
	var b strings.Builder
	lastHyphen := true // suppress leading hyphen
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
