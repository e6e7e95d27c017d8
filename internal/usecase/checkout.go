package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/coursely/course-api/internal/entity"
	"github.com/coursely/course-api/internal/logging"
)

var (
	ErrDuplicate = errors.New("duplicate idempotency key")
	ErrEmptyCart = errors.New("cart is empty, nothing to checkout")
	ErrNoUser    = errors.New("checkout requires an authenticated user")
)

var checkoutAttempts = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "checkout_attempts_total",
		Help: "Checkout attempts by result",
	},
	[]string{"result"},
)

// Line is one cart line captured at checkout time. The price is the cart's
// price, never re-read from the catalog.
type Line struct {
	CourseID   string
	Title      string
	PriceCents int64
	Quantity   int
}

type CheckoutInput struct {
	UserID         string
	IdempotencyKey string
	CouponCode     string
	Currency       string
	Lines          []Line
}

type CheckoutOutput struct {
	OrderID       string
	Status        string
	SubtotalCents int64
	DiscountCents int64
	TotalCents    int64
}

// Checkout converts a cart snapshot into durable purchase records and
// enrollments. The three writes run as a saga: any failure triggers
// compensating deletes in reverse order, so no partial purchase survives.
type Checkout struct {
	orders      OrderRepo
	enrollments EnrollmentRepo
	idem        IdempotencyStore
	coupons     DiscountEvaluator
	events      EventPublisher
}

func NewCheckout(orders OrderRepo, enrollments EnrollmentRepo, idem IdempotencyStore, coupons DiscountEvaluator, events EventPublisher) *Checkout {
	return &Checkout{
		orders:      orders,
		enrollments: enrollments,
		idem:        idem,
		coupons:     coupons,
		events:      events,
	}
}

func (uc *Checkout) Execute(ctx context.Context, in CheckoutInput) (CheckoutOutput, error) {
	if in.UserID == "" {
		return CheckoutOutput{}, ErrNoUser
	}
	if len(in.Lines) == 0 {
		return CheckoutOutput{}, ErrEmptyCart
	}

	// Pricing is pure; an invalid coupon is rejected before any write or lock
	// so the user can fix the code and retry with the same key.
	var subtotal int64
	for _, l := range in.Lines {
		subtotal += l.PriceCents * int64(l.Quantity)
	}
	discount, err := uc.coupons.Evaluate(in.CouponCode, subtotal)
	if err != nil {
		checkoutAttempts.WithLabelValues("rejected_coupon").Inc()
		return CheckoutOutput{}, err
	}

	// Fast path: idempotency recall. A retried checkout returns the original
	// order instead of double-charging or double-enrolling.
	if id, ok, _ := uc.idem.Recall(ctx, in.UserID, in.IdempotencyKey); ok {
		checkoutAttempts.WithLabelValues("replay").Inc()
		return CheckoutOutput{OrderID: id, Status: string(entity.OrderStatusPending)}, nil
	}
	ok, err := uc.idem.TryLock(ctx, in.UserID, in.IdempotencyKey)
	if err != nil {
		return CheckoutOutput{}, err
	}
	if !ok {
		checkoutAttempts.WithLabelValues("duplicate").Inc()
		return CheckoutOutput{}, ErrDuplicate
	}

	order := &entity.Order{
		ID:     uuid.NewString(),
		UserID: in.UserID,
		Status: entity.OrderStatusPending,
		Total:  entity.Money{Cents: subtotal - discount, Currency: in.Currency},
	}
	if err := order.Validate(); err != nil {
		uc.release(ctx, in.UserID, in.IdempotencyKey)
		return CheckoutOutput{}, err
	}

	if err := uc.runSaga(ctx, order, in.Lines); err != nil {
		checkoutAttempts.WithLabelValues("failed").Inc()
		// The failure was compensated; free the key so the user can retry.
		uc.release(ctx, in.UserID, in.IdempotencyKey)
		return CheckoutOutput{}, err
	}

	// Best effort: downstream consumers warm caches and send receipts.
	msg := OrderCompletedMsg{
		OrderID:    order.ID,
		UserID:     order.UserID,
		TotalCents: order.Total.Cents,
		Currency:   order.Total.Currency,
		CourseIDs:  courseIDs(in.Lines),
	}
	if err := uc.events.PublishOrderCompleted(ctx, msg); err != nil {
		logging.FromCtx(ctx).Error("publish order.completed", "order_id", order.ID, "err", err)
	}

	_ = uc.idem.Remember(ctx, in.UserID, in.IdempotencyKey, order.ID)
	checkoutAttempts.WithLabelValues("success").Inc()

	return CheckoutOutput{
		OrderID:       order.ID,
		Status:        string(order.Status),
		SubtotalCents: subtotal,
		DiscountCents: discount,
		TotalCents:    order.Total.Cents,
	}, nil
}

// runSaga performs order header -> order items -> enrollments, compensating
// in reverse on any failure.
func (uc *Checkout) runSaga(ctx context.Context, order *entity.Order, lines []Line) error {
	if err := uc.orders.CreateOrder(ctx, order); err != nil {
		return fmt.Errorf("create order: %w", err)
	}

	items := make([]entity.OrderItem, len(lines))
	for i, l := range lines {
		items[i] = entity.OrderItem{
			OrderID:  order.ID,
			CourseID: l.CourseID,
			Price:    entity.Money{Cents: l.PriceCents, Currency: order.Total.Currency},
			Quantity: l.Quantity,
		}
	}
	if err := uc.orders.CreateOrderItems(ctx, items); err != nil {
		uc.compensate(ctx, order.ID, false)
		return fmt.Errorf("create order items: %w", err)
	}

	enrollments := make([]entity.Enrollment, len(lines))
	for i, l := range lines {
		enrollments[i] = entity.Enrollment{
			ID:        uuid.NewString(),
			UserID:    order.UserID,
			CourseID:  l.CourseID,
			Completed: false,
			Progress:  0,
		}
	}
	if err := uc.enrollments.CreateEnrollments(ctx, enrollments); err != nil {
		uc.compensate(ctx, order.ID, true)
		return fmt.Errorf("create enrollments: %w", err)
	}
	return nil
}

// release frees the idempotency key after a failed attempt. Failures are
// logged only; the caller already has the step error.
func (uc *Checkout) release(ctx context.Context, scope, key string) {
	if err := uc.idem.Release(ctx, scope, key); err != nil {
		logging.FromCtx(ctx).Error("release idempotency key", "scope", scope, "err", err)
	}
}

// compensate deletes what the failed saga left behind. Failures here are
// logged, not returned: the caller already has the step error.
func (uc *Checkout) compensate(ctx context.Context, orderID string, itemsWritten bool) {
	l := logging.FromCtx(ctx)
	if itemsWritten {
		if err := uc.orders.DeleteOrderItems(ctx, orderID); err != nil {
			l.Error("compensate: delete order items", "order_id", orderID, "err", err)
		}
	}
	if err := uc.orders.DeleteOrder(ctx, orderID); err != nil {
		l.Error("compensate: delete order", "order_id", orderID, "err", err)
	}
}

func courseIDs(lines []Line) []string {
	ids := make([]string, len(lines))
	for i, l := range lines {
		ids[i] = l.CourseID
	}
	return ids
}
