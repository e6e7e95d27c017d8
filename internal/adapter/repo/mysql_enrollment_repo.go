package repo

import (
	"context"
	"database/sql"

	"github.com/coursely/course-api/internal/entity"
	"github.com/coursely/course-api/internal/usecase"
)

type MySQLEnrollmentRepo struct{ db *sql.DB }

func NewMySQLEnrollmentRepo(db *sql.DB) *MySQLEnrollmentRepo {
	return &MySQLEnrollmentRepo{db: db}
}

func (r *MySQLEnrollmentRepo) CreateEnrollments(ctx context.Context, enrollments []entity.Enrollment) error {
	if len(enrollments) == 0 {
		return nil
	}
	q := `INSERT INTO enrollments (id,user_id,course_id,completed,progress,created_at) VALUES `
	args := make([]any, 0, len(enrollments)*5)
	for i, e := range enrollments {
		if i > 0 {
			q += ","
		}
		q += "(?,?,?,?,?,NOW())"
		args = append(args, e.ID, e.UserID, e.CourseID, e.Completed, e.Progress)
	}
	_, err := r.db.ExecContext(ctx, q, args...)
	return err
}

func (r *MySQLEnrollmentRepo) ListByUser(ctx context.Context, userID string) ([]entity.Enrollment, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id,user_id,course_id,completed,progress FROM enrollments WHERE user_id=? ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []entity.Enrollment
	for rows.Next() {
		var e entity.Enrollment
		if err := rows.Scan(&e.ID, &e.UserID, &e.CourseID, &e.Completed, &e.Progress); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// ApplyProgress keeps completed in lockstep with progress in a single UPDATE:
// an enrollment is completed exactly when progress reaches 100.
func (r *MySQLEnrollmentRepo) ApplyProgress(ctx context.Context, userID, courseID string, progress int) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE enrollments SET progress = ?, completed = (? >= 100)
WHERE user_id = ? AND course_id = ?`,
		progress, progress, userID, courseID,
	)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

var _ usecase.EnrollmentRepo = (*MySQLEnrollmentRepo)(nil)
