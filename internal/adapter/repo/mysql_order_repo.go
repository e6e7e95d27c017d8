package repo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/coursely/course-api/internal/entity"
	"github.com/coursely/course-api/internal/usecase"
)

var ErrNotFound = errors.New("not found")

type MySQLOrderRepo struct{ db *sql.DB }

func NewMySQLOrderRepo(db *sql.DB) *MySQLOrderRepo { return &MySQLOrderRepo{db: db} }

func (r *MySQLOrderRepo) CreateOrder(ctx context.Context, o *entity.Order) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO orders (id,user_id,status,total_cents,currency,created_at)
VALUES (?,?,?,?,?,NOW())
`, o.ID, o.UserID, o.Status, o.Total.Cents, o.Total.Currency)
	return err
}

func (r *MySQLOrderRepo) CreateOrderItems(ctx context.Context, items []entity.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	// One multi-row insert so the line items land together.
	q := `INSERT INTO order_items (order_id,course_id,price_cents,currency,quantity) VALUES `
	args := make([]any, 0, len(items)*5)
	for i, it := range items {
		if i > 0 {
			q += ","
		}
		q += "(?,?,?,?,?)"
		args = append(args, it.OrderID, it.CourseID, it.Price.Cents, it.Price.Currency, it.Quantity)
	}
	_, err := r.db.ExecContext(ctx, q, args...)
	return err
}

func (r *MySQLOrderRepo) DeleteOrderItems(ctx context.Context, orderID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM order_items WHERE order_id=?`, orderID)
	return err
}

func (r *MySQLOrderRepo) DeleteOrder(ctx context.Context, orderID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM orders WHERE id=?`, orderID)
	return err
}

func (r *MySQLOrderRepo) GetByID(ctx context.Context, id string) (*entity.Order, []entity.OrderItem, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id,user_id,status,total_cents,currency FROM orders WHERE id=?`, id)
	var o entity.Order
	if err := row.Scan(&o.ID, &o.UserID, &o.Status, &o.Total.Cents, &o.Total.Currency); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, err
	}

	rows, err := r.db.QueryContext(ctx, `
SELECT order_id,course_id,price_cents,currency,quantity FROM order_items WHERE order_id=?`, id)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	var items []entity.OrderItem
	for rows.Next() {
		var it entity.OrderItem
		if err := rows.Scan(&it.OrderID, &it.CourseID, &it.Price.Cents, &it.Price.Currency, &it.Quantity); err != nil {
			return nil, nil, err
		}
		items = append(items, it)
	}
	return &o, items, rows.Err()
}

func (r *MySQLOrderRepo) ListByUser(ctx context.Context, userID string) ([]entity.Order, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id,user_id,status,total_cents,currency FROM orders WHERE user_id=? ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []entity.Order
	for rows.Next() {
		var o entity.Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.Status, &o.Total.Cents, &o.Total.Currency); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

var _ usecase.OrderRepo = (*MySQLOrderRepo)(nil)
