package repo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/coursely/course-api/internal/entity"
	"github.com/coursely/course-api/internal/usecase"
)

type MySQLUserRepo struct{ db *sql.DB }

func NewMySQLUserRepo(db *sql.DB) *MySQLUserRepo { return &MySQLUserRepo{db: db} }

func (r *MySQLUserRepo) Create(ctx context.Context, u *entity.User) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO users (id,email,password_hash,is_admin,created_at)
VALUES (?,?,?,?,NOW())
`, u.ID, u.Email, u.PasswordHash, u.Admin)
	return err
}

func (r *MySQLUserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.scanOne(r.db.QueryRowContext(ctx, `
SELECT id,email,password_hash,is_admin FROM users WHERE email=?`, email))
}

func (r *MySQLUserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return r.scanOne(r.db.QueryRowContext(ctx, `
SELECT id,email,password_hash,is_admin FROM users WHERE id=?`, id))
}

func (r *MySQLUserRepo) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE users SET password_hash=? WHERE id=?`, passwordHash, id)
	if err != nil {
		return err
	}
	return mustAffect(res)
}

func (r *MySQLUserRepo) scanOne(row *sql.Row) (*entity.User, error) {
	var u entity.User
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Admin); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

var _ usecase.UserRepo = (*MySQLUserRepo)(nil)
