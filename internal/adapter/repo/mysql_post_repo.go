package repo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/coursely/course-api/internal/entity"
	"github.com/coursely/course-api/internal/usecase"
)

type MySQLPostRepo struct{ db *sql.DB }

func NewMySQLPostRepo(db *sql.DB) *MySQLPostRepo { return &MySQLPostRepo{db: db} }

const postCols = `id,title,slug,excerpt,body,cover_url,published,created_at,updated_at`

func (r *MySQLPostRepo) Create(ctx context.Context, p *entity.Post) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO posts (id,title,slug,excerpt,body,cover_url,published,created_at,updated_at)
VALUES (?,?,?,?,?,?,?,NOW(),NOW())
`, p.ID, p.Title, p.Slug, p.Excerpt, p.Body, p.CoverURL, p.Published)
	return err
}

func (r *MySQLPostRepo) GetByID(ctx context.Context, id string) (*entity.Post, error) {
	return r.scanOne(r.db.QueryRowContext(ctx,
		`SELECT `+postCols+` FROM posts WHERE id=?`, id))
}

func (r *MySQLPostRepo) GetBySlug(ctx context.Context, slug string) (*entity.Post, error) {
	return r.scanOne(r.db.QueryRowContext(ctx,
		`SELECT `+postCols+` FROM posts WHERE slug=?`, slug))
}

func (r *MySQLPostRepo) List(ctx context.Context, publishedOnly bool) ([]entity.Post, error) {
	q := `SELECT ` + postCols + ` FROM posts`
	if publishedOnly {
		q += ` WHERE published = TRUE`
	}
	q += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []entity.Post
	for rows.Next() {
		var p entity.Post
		if err := rows.Scan(&p.ID, &p.Title, &p.Slug, &p.Excerpt, &p.Body,
			&p.CoverURL, &p.Published, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *MySQLPostRepo) Update(ctx context.Context, p *entity.Post) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE posts
SET title=?, slug=?, excerpt=?, body=?, cover_url=?, published=?, updated_at=NOW()
WHERE id=?`,
		p.Title, p.Slug, p.Excerpt, p.Body, p.CoverURL, p.Published, p.ID,
	)
	if err != nil {
		return err
	}
	return mustAffect(res)
}

func (r *MySQLPostRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id=?`, id)
	if err != nil {
		return err
	}
	return mustAffect(res)
}

func (r *MySQLPostRepo) scanOne(row *sql.Row) (*entity.Post, error) {
	var p entity.Post
	if err := row.Scan(&p.ID, &p.Title, &p.Slug, &p.Excerpt, &p.Body,
		&p.CoverURL, &p.Published, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

var _ usecase.PostRepo = (*MySQLPostRepo)(nil)
