package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/coursely/course-api/internal/adapter/http/middleware"
	"github.com/coursely/course-api/internal/adapter/repo"
	"github.com/coursely/course-api/internal/cart"
	"github.com/coursely/course-api/internal/logging"
	"github.com/coursely/course-api/internal/pricing"
	"github.com/coursely/course-api/internal/usecase"
)

type CheckoutHandler struct {
	checkout    *usecase.Checkout
	orders      usecase.OrderRepo
	enrollments *usecase.Enrollments
	carts       *cart.Manager
}

func NewCheckoutHandler(checkout *usecase.Checkout, orders usecase.OrderRepo, enrollments *usecase.Enrollments, carts *cart.Manager) *CheckoutHandler {
	return &CheckoutHandler{checkout: checkout, orders: orders, enrollments: enrollments, carts: carts}
}

type checkoutReq struct {
	CouponCode string `json:"couponCode"`
}

type checkoutResp struct {
	OrderID       string `json:"orderId"`
	Status        string `json:"status"`
	SubtotalCents int64  `json:"subtotalCents"`
	DiscountCents int64  `json:"discountCents"`
	TotalCents    int64  `json:"totalCents"`
}

// Checkout converts the session cart into an order. The cart is cleared only
// after every write succeeded.
func (h *CheckoutHandler) Checkout(c *gin.Context) {
	sess, okSess := middleware.Session(c)
	if !okSess {
		fail(c, http.StatusUnauthorized, "authentication_required")
		return
	}

	var req checkoutReq
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, "bad_request")
			return
		}
	}

	sid, err := c.Cookie(cartCookie)
	if err != nil || sid == "" {
		fail(c, http.StatusBadRequest, "empty_cart")
		return
	}
	st := h.carts.Get(sid)
	snap := st.Snapshot()

	idemKey := c.GetHeader("X-Idempotency-Key") // prevent duplicated checkouts
	if idemKey == "" {
		fail(c, http.StatusBadRequest, "missing_idempotency_key")
		return
	}

	lines := make([]usecase.Line, len(snap.Items))
	currency := "USD"
	for i, it := range snap.Items {
		lines[i] = usecase.Line{
			CourseID:   it.CourseID,
			Title:      it.Title,
			PriceCents: it.PriceCents,
			Quantity:   it.Quantity,
		}
		if it.Currency != "" {
			currency = it.Currency
		}
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()
	ctx = logging.WithCtx(ctx, logging.From(c))

	out, err := h.checkout.Execute(ctx, usecase.CheckoutInput{
		UserID:         sess.UserID,
		IdempotencyKey: idemKey,
		CouponCode:     req.CouponCode,
		Currency:       currency,
		Lines:          lines,
	})
	if err != nil {
		status := http.StatusInternalServerError
		msg := "checkout_failed"
		switch {
		case errors.Is(err, usecase.ErrDuplicate):
			status, msg = http.StatusConflict, "duplicate_checkout"
		case errors.Is(err, usecase.ErrEmptyCart):
			status, msg = http.StatusBadRequest, "empty_cart"
		case errors.Is(err, pricing.ErrUnknownCoupon):
			status, msg = http.StatusBadRequest, "invalid_coupon"
		}
		fail(c, status, msg)
		return
	}

	// On failure above the cart stays untouched so the user can retry.
	if err := st.Clear(); err != nil {
		logging.From(c).Error("clear cart after checkout", "order_id", out.OrderID, "err", err)
	}
	// The purchased cart is done; release its in-memory store.
	h.carts.Drop(sid)

	ok(c, http.StatusCreated, checkoutResp{
		OrderID:       out.OrderID,
		Status:        out.Status,
		SubtotalCents: out.SubtotalCents,
		DiscountCents: out.DiscountCents,
		TotalCents:    out.TotalCents,
	}, "order placed")
}

func (h *CheckoutHandler) ListOrders(c *gin.Context) {
	sess, okSess := middleware.Session(c)
	if !okSess {
		fail(c, http.StatusUnauthorized, "authentication_required")
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	orders, err := h.orders.ListByUser(ctx, sess.UserID)
	if err != nil {
		fail(c, http.StatusInternalServerError, "unexpected_error")
		return
	}
	ok(c, http.StatusOK, orders, "")
}

func (h *CheckoutHandler) GetOrder(c *gin.Context) {
	sess, okSess := middleware.Session(c)
	if !okSess {
		fail(c, http.StatusUnauthorized, "authentication_required")
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	order, items, err := h.orders.GetByID(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			fail(c, http.StatusNotFound, "not_found")
			return
		}
		fail(c, http.StatusInternalServerError, "unexpected_error")
		return
	}
	if order.UserID != sess.UserID && !sess.Admin {
		fail(c, http.StatusNotFound, "not_found")
		return
	}
	ok(c, http.StatusOK, gin.H{"order": order, "items": items}, "")
}

// MyCourses lists the caller's enrollments.
func (h *CheckoutHandler) MyCourses(c *gin.Context) {
	sess, okSess := middleware.Session(c)
	if !okSess {
		fail(c, http.StatusUnauthorized, "authentication_required")
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	list, err := h.enrollments.ListForUser(ctx, sess.UserID)
	if err != nil {
		fail(c, http.StatusInternalServerError, "unexpected_error")
		return
	}
	ok(c, http.StatusOK, list, "")
}
