package repo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/coursely/course-api/internal/entity"
	"github.com/coursely/course-api/internal/usecase"
)

type MySQLCourseRepo struct{ db *sql.DB }

func NewMySQLCourseRepo(db *sql.DB) *MySQLCourseRepo { return &MySQLCourseRepo{db: db} }

const courseCols = `id,title,slug,description,price_cents,currency,image_url,published,created_at,updated_at`

func (r *MySQLCourseRepo) Create(ctx context.Context, c *entity.Course) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO courses (id,title,slug,description,price_cents,currency,image_url,published,created_at,updated_at)
VALUES (?,?,?,?,?,?,?,?,NOW(),NOW())
`, c.ID, c.Title, c.Slug, c.Description, c.PriceCents, c.Currency, c.ImageURL, c.Published)
	return err
}

func (r *MySQLCourseRepo) GetByID(ctx context.Context, id string) (*entity.Course, error) {
	return r.scanOne(r.db.QueryRowContext(ctx,
		`SELECT `+courseCols+` FROM courses WHERE id=?`, id))
}

func (r *MySQLCourseRepo) GetBySlug(ctx context.Context, slug string) (*entity.Course, error) {
	return r.scanOne(r.db.QueryRowContext(ctx,
		`SELECT `+courseCols+` FROM courses WHERE slug=?`, slug))
}

func (r *MySQLCourseRepo) List(ctx context.Context, publishedOnly bool) ([]entity.Course, error) {
	q := `SELECT ` + courseCols + ` FROM courses`
	if publishedOnly {
		q += ` WHERE published = TRUE`
	}
	q += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []entity.Course
	for rows.Next() {
		var c entity.Course
		if err := rows.Scan(&c.ID, &c.Title, &c.Slug, &c.Description, &c.PriceCents,
			&c.Currency, &c.ImageURL, &c.Published, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *MySQLCourseRepo) Update(ctx context.Context, c *entity.Course) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE courses
SET title=?, slug=?, description=?, price_cents=?, currency=?, image_url=?, published=?, updated_at=NOW()
WHERE id=?`,
		c.Title, c.Slug, c.Description, c.PriceCents, c.Currency, c.ImageURL, c.Published, c.ID,
	)
	if err != nil {
		return err
	}
	return mustAffect(res)
}

func (r *MySQLCourseRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM courses WHERE id=?`, id)
	if err != nil {
		return err
	}
	return mustAffect(res)
}

func (r *MySQLCourseRepo) scanOne(row *sql.Row) (*entity.Course, error) {
	var c entity.Course
	if err := row.Scan(&c.ID, &c.Title, &c.Slug, &c.Description, &c.PriceCents,
		&c.Currency, &c.ImageURL, &c.Published, &c.CreatedAt, &c.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func mustAffect(res sql.Result) error {
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

var _ usecase.CourseRepo = (*MySQLCourseRepo)(nil)
