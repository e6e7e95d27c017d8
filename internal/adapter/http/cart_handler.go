package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/coursely/course-api/internal/cart"
	"github.com/coursely/course-api/internal/usecase"
)

const cartCookie = "cart_session"

// CartHandler exposes the session cart. The cart works for anonymous
// visitors: the session travels in a cookie, independent of authentication.
type CartHandler struct {
	carts   *cart.Manager
	catalog *usecase.Catalog
}

func NewCartHandler(carts *cart.Manager, catalog *usecase.Catalog) *CartHandler {
	return &CartHandler{carts: carts, catalog: catalog}
}

// store resolves (or mints) the session and returns its cart store.
func (h *CartHandler) store(c *gin.Context) *cart.Store {
	sid, err := c.Cookie(cartCookie)
	if err != nil || sid == "" {
		sid = uuid.NewString()
		c.SetCookie(cartCookie, sid, int((30 * 24 * time.Hour).Seconds()), "/", "", false, true)
	}
	return h.carts.Get(sid)
}

type cartItemView struct {
	CourseID   string `json:"courseId"`
	Title      string `json:"title"`
	Slug       string `json:"slug"`
	PriceCents int64  `json:"priceCents"`
	Currency   string `json:"currency"`
	ImageURL   string `json:"imageUrl,omitempty"`
	Quantity   int    `json:"quantity"`
}

type cartView struct {
	Items         []cartItemView `json:"items"`
	Open          bool           `json:"open"`
	SubtotalCents int64          `json:"subtotalCents"`
	TotalCents    int64          `json:"totalCents"`
	ItemCount     int            `json:"itemCount"`
	LastAdded     *cartItemView  `json:"lastAdded,omitempty"`
}

func toView(snap cart.Snapshot) cartView {
	items := make([]cartItemView, len(snap.Items))
	for i, it := range snap.Items {
		items[i] = cartItemView(it)
	}
	v := cartView{
		Items:         items,
		Open:          snap.Open,
		SubtotalCents: snap.SubtotalCents,
		TotalCents:    snap.SubtotalCents,
		ItemCount:     snap.ItemCount,
	}
	if snap.LastAdded != nil {
		la := cartItemView(*snap.LastAdded)
		v.LastAdded = &la
	}
	return v
}

// GetCart returns the current snapshot.
func (h *CartHandler) GetCart(c *gin.Context) {
	ok(c, http.StatusOK, toView(h.store(c).Snapshot()), "")
}

type addItemReq struct {
	CourseID string `json:"courseId" binding:"required"`
}

// AddItem resolves the course server-side so clients cannot set their own
// prices, then adds one of it to the cart.
func (h *CartHandler) AddItem(c *gin.Context) {
	var req addItemReq
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "bad_request")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	course, err := h.catalog.CourseByID(ctx, req.CourseID)
	if err != nil || !course.Published {
		fail(c, http.StatusNotFound, "course_not_found")
		return
	}

	st := h.store(c)
	if err := st.AddItem(cart.Item{
		CourseID:   course.ID,
		Title:      course.Title,
		Slug:       course.Slug,
		PriceCents: course.PriceCents,
		Currency:   course.Currency,
		ImageURL:   course.ImageURL,
	}); err != nil {
		h.cartError(c, err)
		return
	}
	ok(c, http.StatusOK, toView(st.Snapshot()), "added to cart")
}

type updateQtyReq struct {
	Quantity int `json:"quantity"`
}

func (h *CartHandler) UpdateQuantity(c *gin.Context) {
	var req updateQtyReq
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "bad_request")
		return
	}
	st := h.store(c)
	if err := st.UpdateQuantity(c.Param("courseId"), req.Quantity); err != nil {
		h.cartError(c, err)
		return
	}
	ok(c, http.StatusOK, toView(st.Snapshot()), "")
}

func (h *CartHandler) RemoveItem(c *gin.Context) {
	st := h.store(c)
	if err := st.RemoveItem(c.Param("courseId")); err != nil {
		h.cartError(c, err)
		return
	}
	ok(c, http.StatusOK, toView(st.Snapshot()), "")
}

func (h *CartHandler) ClearCart(c *gin.Context) {
	st := h.store(c)
	if err := st.Clear(); err != nil {
		h.cartError(c, err)
		return
	}
	ok(c, http.StatusOK, toView(st.Snapshot()), "")
}

type setOpenReq struct {
	Open bool `json:"open"`
}

func (h *CartHandler) SetOpen(c *gin.Context) {
	var req setOpenReq
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "bad_request")
		return
	}
	st := h.store(c)
	if err := st.SetOpen(req.Open); err != nil {
		h.cartError(c, err)
		return
	}
	ok(c, http.StatusOK, toView(st.Snapshot()), "")
}

func (h *CartHandler) HideNotification(c *gin.Context) {
	st := h.store(c)
	st.HideNotification()
	ok(c, http.StatusOK, toView(st.Snapshot()), "")
}

func (h *CartHandler) cartError(c *gin.Context, err error) {
	if errors.Is(err, cart.ErrNotReady) {
		c.Header("Retry-After", "1")
		fail(c, http.StatusServiceUnavailable, "cart_not_ready")
		return
	}
	fail(c, http.StatusInternalServerError, "unexpected_error")
}
