package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/coursely/course-api/internal/entity"
)

var (
	errNotFound       = errors.New("not found")
	errBadPassword    = errors.New("password mismatch")
	errBadToken       = errors.New("malformed token")
	errDuplicateEmail = errors.New("duplicate email")
)

// mockOrderRepo implements OrderRepo and records every write.
type mockOrderRepo struct {
	orders map[string]*entity.Order
	items  map[string][]entity.OrderItem

	createOrderErr error
	createItemsErr error
	deleteItemsErr error
	deleteOrderErr error

	deletedItemsFor []string
	deletedOrders   []string
}

func newMockOrderRepo() *mockOrderRepo {
	return &mockOrderRepo{
		orders: map[string]*entity.Order{},
		items:  map[string][]entity.OrderItem{},
	}
}

func (m *mockOrderRepo) CreateOrder(_ context.Context, o *entity.Order) error {
	if m.createOrderErr != nil {
		return m.createOrderErr
	}
	cp := *o
	m.orders[o.ID] = &cp
	return nil
}

func (m *mockOrderRepo) CreateOrderItems(_ context.Context, items []entity.OrderItem) error {
	if m.createItemsErr != nil {
		return m.createItemsErr
	}
	for _, it := range items {
		m.items[it.OrderID] = append(m.items[it.OrderID], it)
	}
	return nil
}

func (m *mockOrderRepo) DeleteOrderItems(_ context.Context, orderID string) error {
	m.deletedItemsFor = append(m.deletedItemsFor, orderID)
	if m.deleteItemsErr != nil {
		return m.deleteItemsErr
	}
	delete(m.items, orderID)
	return nil
}

func (m *mockOrderRepo) DeleteOrder(_ context.Context, orderID string) error {
	m.deletedOrders = append(m.deletedOrders, orderID)
	if m.deleteOrderErr != nil {
		return m.deleteOrderErr
	}
	delete(m.orders, orderID)
	return nil
}

func (m *mockOrderRepo) GetByID(_ context.Context, id string) (*entity.Order, []entity.OrderItem, error) {
	o, ok := m.orders[id]
	if !ok {
		return nil, nil, errNotFound
	}
	return o, m.items[id], nil
}

func (m *mockOrderRepo) ListByUser(_ context.Context, userID string) ([]entity.Order, error) {
	var out []entity.Order
	for _, o := range m.orders {
		if o.UserID == userID {
			out = append(out, *o)
		}
	}
	return out, nil
}

type mockEnrollmentRepo struct {
	created   []entity.Enrollment
	createErr error
	applyErr  error
	applied   []struct {
		UserID, CourseID string
		Progress         int
	}
}

func (m *mockEnrollmentRepo) CreateEnrollments(_ context.Context, enrollments []entity.Enrollment) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.created = append(m.created, enrollments...)
	return nil
}

func (m *mockEnrollmentRepo) ListByUser(_ context.Context, userID string) ([]entity.Enrollment, error) {
	var out []entity.Enrollment
	for _, e := range m.created {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *mockEnrollmentRepo) ApplyProgress(_ context.Context, userID, courseID string, progress int) error {
	if m.applyErr != nil {
		return m.applyErr
	}
	m.applied = append(m.applied, struct {
		UserID, CourseID string
		Progress         int
	}{userID, courseID, progress})
	return nil
}

// mockIdemStore is an in-memory IdempotencyStore.
type mockIdemStore struct {
	locked   map[string]bool
	recalled map[string]string
	lockErr  error
	released []string
}

func newMockIdemStore() *mockIdemStore {
	return &mockIdemStore{locked: map[string]bool{}, recalled: map[string]string{}}
}

func (m *mockIdemStore) key(scope, key string) string { return scope + "/" + key }

func (m *mockIdemStore) TryLock(_ context.Context, scope, key string) (bool, error) {
	if m.lockErr != nil {
		return false, m.lockErr
	}
	k := m.key(scope, key)
	if m.locked[k] {
		return false, nil
	}
	m.locked[k] = true
	return true, nil
}

func (m *mockIdemStore) Release(_ context.Context, scope, key string) error {
	k := m.key(scope, key)
	delete(m.locked, k)
	m.released = append(m.released, k)
	return nil
}

func (m *mockIdemStore) Remember(_ context.Context, scope, key, value string) error {
	m.recalled[m.key(scope, key)] = value
	return nil
}

func (m *mockIdemStore) Recall(_ context.Context, scope, key string) (string, bool, error) {
	v, ok := m.recalled[m.key(scope, key)]
	return v, ok, nil
}

type mockPublisher struct {
	published []OrderCompletedMsg
	err       error
}

func (m *mockPublisher) PublishOrderCompleted(_ context.Context, msg OrderCompletedMsg) error {
	if m.err != nil {
		return m.err
	}
	m.published = append(m.published, msg)
	return nil
}

// mockCache implements CatalogCache in memory and records invalidations.
// Values roundtrip through JSON like the redis-backed cache.
type mockCache struct {
	data        map[string][]byte
	invalidated []string
	hits        int
}

func newMockCache() *mockCache { return &mockCache{data: map[string][]byte{}} }

func (m *mockCache) Invalidate(_ context.Context, keys ...string) error {
	m.invalidated = append(m.invalidated, keys...)
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

func (m *mockCache) GetJSON(_ context.Context, key string, v any) (bool, error) {
	raw, ok := m.data[key]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return false, err
	}
	m.hits++
	return true, nil
}

func (m *mockCache) SetJSON(_ context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	m.data[key] = raw
	return nil
}

type mockCourseRepo struct {
	byID      map[string]*entity.Course
	createErr error
	listCalls int
}

func newMockCourseRepo() *mockCourseRepo { return &mockCourseRepo{byID: map[string]*entity.Course{}} }

func (m *mockCourseRepo) Create(_ context.Context, c *entity.Course) error {
	if m.createErr != nil {
		return m.createErr
	}
	cp := *c
	m.byID[c.ID] = &cp
	return nil
}

func (m *mockCourseRepo) GetByID(_ context.Context, id string) (*entity.Course, error) {
	c, ok := m.byID[id]
	if !ok {
		return nil, errNotFound
	}
	return c, nil
}

func (m *mockCourseRepo) GetBySlug(_ context.Context, slug string) (*entity.Course, error) {
	for _, c := range m.byID {
		if c.Slug == slug {
			return c, nil
		}
	}
	return nil, errNotFound
}

func (m *mockCourseRepo) List(_ context.Context, publishedOnly bool) ([]entity.Course, error) {
	m.listCalls++
	var out []entity.Course
	for _, c := range m.byID {
		if publishedOnly && !c.Published {
			continue
		}
		out = append(out, *c)
	}
	return out, nil
}

func (m *mockCourseRepo) Update(_ context.Context, c *entity.Course) error {
	if _, ok := m.byID[c.ID]; !ok {
		return errNotFound
	}
	cp := *c
	m.byID[c.ID] = &cp
	return nil
}

func (m *mockCourseRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.byID[id]; !ok {
		return errNotFound
	}
	delete(m.byID, id)
	return nil
}

type mockPostRepo struct {
	byID      map[string]*entity.Post
	listCalls int
}

func newMockPostRepo() *mockPostRepo { return &mockPostRepo{byID: map[string]*entity.Post{}} }

func (m *mockPostRepo) Create(_ context.Context, p *entity.Post) error {
	cp := *p
	m.byID[p.ID] = &cp
	return nil
}

func (m *mockPostRepo) GetByID(_ context.Context, id string) (*entity.Post, error) {
	p, ok := m.byID[id]
	if !ok {
		return nil, errNotFound
	}
	return p, nil
}

func (m *mockPostRepo) GetBySlug(_ context.Context, slug string) (*entity.Post, error) {
	for _, p := range m.byID {
		if p.Slug == slug {
			return p, nil
		}
	}
	return nil, errNotFound
}

func (m *mockPostRepo) List(_ context.Context, publishedOnly bool) ([]entity.Post, error) {
	m.listCalls++
	var out []entity.Post
	for _, p := range m.byID {
		if publishedOnly && !p.Published {
			continue
		}
		out = append(out, *p)
	}
	return out, nil
}

func (m *mockPostRepo) Update(_ context.Context, p *entity.Post) error {
	if _, ok := m.byID[p.ID]; !ok {
		return errNotFound
	}
	cp := *p
	m.byID[p.ID] = &cp
	return nil
}

func (m *mockPostRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.byID[id]; !ok {
		return errNotFound
	}
	delete(m.byID, id)
	return nil
}

type mockBlobStore struct {
	uploads []string
	removed []string
}

func (m *mockBlobStore) Upload(_ context.Context, path string, r io.Reader) (string, error) {
	_, _ = io.Copy(io.Discard, r)
	m.uploads = append(m.uploads, path)
	return "http://blob.local/" + path, nil
}

func (m *mockBlobStore) Remove(_ context.Context, paths ...string) error {
	m.removed = append(m.removed, paths...)
	return nil
}

type mockHasher struct{}

func (mockHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }

func (mockHasher) Compare(hash, password string) error {
	if hash != "hashed:"+password {
		return errBadPassword
	}
	return nil
}

type mockIssuer struct{}

func (mockIssuer) Issue(userID, email string, admin bool) (string, time.Duration, error) {
	return "token-for-" + userID, time.Hour, nil
}

// mockSealer encodes the payload in cleartext, good enough for roundtrips.
type mockSealer struct{}

func (mockSealer) Seal(userID string, expiresAt time.Time) (string, error) {
	return userID + "|" + expiresAt.Format(time.RFC3339Nano), nil
}

func (mockSealer) Unseal(token string) (string, time.Time, error) {
	parts := strings.SplitN(token, "|", 2)
	if len(parts) != 2 {
		return "", time.Time{}, errBadToken
	}
	exp, err := time.Parse(time.RFC3339Nano, parts[1])
	if err != nil {
		return "", time.Time{}, err
	}
	return parts[0], exp, nil
}

type mockUserRepo struct {
	byID    map[string]*entity.User
	byEmail map[string]*entity.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{byID: map[string]*entity.User{}, byEmail: map[string]*entity.User{}}
}

func (m *mockUserRepo) Create(_ context.Context, u *entity.User) error {
	if _, ok := m.byEmail[u.Email]; ok {
		return errDuplicateEmail
	}
	cp := *u
	m.byID[u.ID] = &cp
	m.byEmail[u.Email] = &cp
	return nil
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	u, ok := m.byEmail[email]
	if !ok {
		return nil, errNotFound
	}
	return u, nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	u, ok := m.byID[id]
	if !ok {
		return nil, errNotFound
	}
	return u, nil
}

func (m *mockUserRepo) UpdatePassword(_ context.Context, id, passwordHash string) error {
	u, ok := m.byID[id]
	if !ok {
		return errNotFound
	}
	u.PasswordHash = passwordHash
	m.byEmail[u.Email].PasswordHash = passwordHash
	return nil
}
