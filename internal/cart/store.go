package cart

import (
	"log/slog"
	"sync"
	"time"

	"github.com/coursely/course-api/internal/logging"
)

const defaultHideDelay = 3 * time.Second

// Store is the single source of truth for what one visitor is about to buy,
// independent of authentication state. It is owned by a session and safe for
// concurrent use.
type Store struct {
	mu        sync.Mutex
	sessionID string
	state     State
	items     []Item // insertion order = display order
	open      bool

	lastAdded  *Item
	showNotif  bool
	notifToken uint64

	persist   Persistence
	hideDelay time.Duration
	afterFunc func(d time.Duration, f func()) // timer hook, overridable in tests
	subs      []func(Snapshot)
	log       *slog.Logger
}

type Option func(*Store)

func WithHideDelay(d time.Duration) Option {
	return func(s *Store) { s.hideDelay = d }
}

// WithTimerFunc replaces the notification timer scheduler.
func WithTimerFunc(f func(d time.Duration, fn func())) Option {
	return func(s *Store) { s.afterFunc = f }
}

func NewStore(sessionID string, persist Persistence, opts ...Option) *Store {
	s := &Store{
		sessionID: sessionID,
		state:     StateUninitialized,
		persist:   persist,
		hideDelay: defaultHideDelay,
		afterFunc: func(d time.Duration, fn func()) { time.AfterFunc(d, fn) },
		log:       logging.New("cart"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Hydrate loads persisted items. The transition to StateReady happens exactly
// once; a second call is a no-op.
func (s *Store) Hydrate() error {
	s.mu.Lock()
	if s.state == StateReady {
		s.mu.Unlock()
		return nil
	}
	s.state = StateLoading
	s.mu.Unlock()

	items, found, err := s.persist.Load(s.sessionID)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		// Start empty rather than leaving the session without a cart.
		s.log.Error("hydrate failed, starting empty", "session", s.sessionID, "err", err)
		items = nil
	}
	if found {
		s.items = items
	}
	s.state = StateReady
	return err
}

func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe registers an observer called with a snapshot after every mutation.
func (s *Store) Subscribe(fn func(Snapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

// AddItem inserts the course with quantity 1, or bumps the quantity when the
// course is already in the cart. It shows the add-to-cart notification, opens
// the drawer and schedules the auto-hide.
func (s *Store) AddItem(item Item) error {
	s.mu.Lock()
	if s.state != StateReady {
		s.mu.Unlock()
		return ErrNotReady
	}

	idx := s.indexOf(item.CourseID)
	if idx >= 0 {
		s.items[idx].Quantity++
	} else {
		item.Quantity = 1
		s.items = append(s.items, item)
		idx = len(s.items) - 1
	}

	added := s.items[idx]
	s.lastAdded = &added
	s.showNotif = true
	s.open = true

	// Each add captures a fresh token; a scheduled hide only applies while
	// its token is still current, so a stale timer cannot hide a newer
	// notification.
	s.notifToken++
	tok := s.notifToken
	s.afterFunc(s.hideDelay, func() { s.hideIfCurrent(tok) })

	s.saveLocked()
	snap := s.snapshotLocked()
	subs := s.subs
	s.mu.Unlock()

	notify(subs, snap)
	return nil
}

// RemoveItem deletes the line with the given course id; absent ids are a no-op.
func (s *Store) RemoveItem(courseID string) error {
	s.mu.Lock()
	if s.state != StateReady {
		s.mu.Unlock()
		return ErrNotReady
	}
	idx := s.indexOf(courseID)
	if idx >= 0 {
		s.items = append(s.items[:idx], s.items[idx+1:]...)
		s.saveLocked()
	}
	snap := s.snapshotLocked()
	subs := s.subs
	s.mu.Unlock()

	notify(subs, snap)
	return nil
}

// UpdateQuantity sets the line's quantity. Non-positive values remove the
// line entirely. No upper bound is enforced.
func (s *Store) UpdateQuantity(courseID string, quantity int) error {
	if quantity <= 0 {
		return s.RemoveItem(courseID)
	}
	s.mu.Lock()
	if s.state != StateReady {
		s.mu.Unlock()
		return ErrNotReady
	}
	if idx := s.indexOf(courseID); idx >= 0 {
		s.items[idx].Quantity = quantity
		s.saveLocked()
	}
	snap := s.snapshotLocked()
	subs := s.subs
	s.mu.Unlock()

	notify(subs, snap)
	return nil
}

// Clear empties the cart and hides any pending notification.
func (s *Store) Clear() error {
	s.mu.Lock()
	if s.state != StateReady {
		s.mu.Unlock()
		return ErrNotReady
	}
	s.items = nil
	s.lastAdded = nil
	s.showNotif = false
	s.saveLocked()
	snap := s.snapshotLocked()
	subs := s.subs
	s.mu.Unlock()

	notify(subs, snap)
	return nil
}

// Subtotal is the sum of price x quantity over all lines, zero before
// hydration completes.
func (s *Store) Subtotal() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateReady {
		return 0
	}
	var sum int64
	for _, it := range s.items {
		sum += it.PriceCents * int64(it.Quantity)
	}
	return sum
}

// Total equals Subtotal: there is no tax or shipping differentiation.
func (s *Store) Total() int64 { return s.Subtotal() }

// ItemCount is the sum of quantities, not the distinct line count.
func (s *Store) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateReady {
		return 0
	}
	n := 0
	for _, it := range s.items {
		n += it.Quantity
	}
	return n
}

func (s *Store) Item(courseID string) (Item, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateReady {
		return Item{}, false
	}
	if idx := s.indexOf(courseID); idx >= 0 {
		return s.items[idx], true
	}
	return Item{}, false
}

func (s *Store) Contains(courseID string) bool {
	_, ok := s.Item(courseID)
	return ok
}

// SetOpen toggles drawer visibility. Not persisted.
func (s *Store) SetOpen(open bool) error {
	s.mu.Lock()
	if s.state != StateReady {
		s.mu.Unlock()
		return ErrNotReady
	}
	s.open = open
	snap := s.snapshotLocked()
	subs := s.subs
	s.mu.Unlock()

	notify(subs, snap)
	return nil
}

func (s *Store) HideNotification() {
	s.mu.Lock()
	s.showNotif = false
	s.lastAdded = nil
	snap := s.snapshotLocked()
	subs := s.subs
	s.mu.Unlock()

	notify(subs, snap)
}

func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) hideIfCurrent(token uint64) {
	s.mu.Lock()
	if token != s.notifToken {
		s.mu.Unlock()
		return
	}
	s.showNotif = false
	s.lastAdded = nil
	snap := s.snapshotLocked()
	subs := s.subs
	s.mu.Unlock()

	notify(subs, snap)
}

// saveLocked persists items only; best effort, failures are logged.
func (s *Store) saveLocked() {
	if err := s.persist.Save(s.sessionID, s.items); err != nil {
		s.log.Error("persist cart", "session", s.sessionID, "err", err)
	}
}

func (s *Store) snapshotLocked() Snapshot {
	items := make([]Item, len(s.items))
	copy(items, s.items)

	var subtotal int64
	count := 0
	for _, it := range items {
		subtotal += it.PriceCents * int64(it.Quantity)
		count += it.Quantity
	}

	var last *Item
	if s.showNotif && s.lastAdded != nil {
		cp := *s.lastAdded
		last = &cp
	}
	return Snapshot{
		Items:         items,
		Open:          s.open,
		SubtotalCents: subtotal,
		ItemCount:     count,
		LastAdded:     last,
	}
}

func (s *Store) indexOf(courseID string) int {
	for i, it := range s.items {
		if it.CourseID == courseID {
			return i
		}
	}
	return -1
}

func notify(subs []func(Snapshot), snap Snapshot) {
	for _, fn := range subs {
		fn(snap)
	}
}
