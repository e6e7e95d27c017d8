package cart

import "errors"

// Item is one course line in the cart. Quantity is always >= 1; a line
// whose quantity drops to zero is removed, never stored.
type Item struct {
	CourseID   string `json:"courseId"`
	Title      string `json:"title"`
	Slug       string `json:"slug"`
	PriceCents int64  `json:"priceCents"`
	Currency   string `json:"currency"`
	ImageURL   string `json:"imageUrl,omitempty"`
	Quantity   int    `json:"quantity"`
}

// State is the hydration lifecycle of a Store. Callers must handle
// ErrNotReady instead of relying on writes being silently dropped.
type State int

const (
	StateUninitialized State = iota
	StateLoading
	StateReady
)

var ErrNotReady = errors.New("cart: not hydrated")

// Snapshot is an immutable view handed to subscribers and HTTP handlers.
type Snapshot struct {
	Items         []Item
	Open          bool
	SubtotalCents int64
	ItemCount     int
	// LastAdded is non-nil while the add-to-cart notification is visible.
	LastAdded *Item
}

// Persistence stores only the item collection; drawer and notification
// state never survive a reload.
type Persistence interface {
	Load(sessionID string) ([]Item, bool, error)
	Save(sessionID string, items []Item) error
}
