package usecase

import (
	"context"
	"io"
	"time"

	"github.com/coursely/course-api/internal/entity"
)

type OrderRepo interface {
	CreateOrder(ctx context.Context, o *entity.Order) error
	CreateOrderItems(ctx context.Context, items []entity.OrderItem) error
	DeleteOrderItems(ctx context.Context, orderID string) error
	DeleteOrder(ctx context.Context, orderID string) error
	GetByID(ctx context.Context, id string) (*entity.Order, []entity.OrderItem, error)
	ListByUser(ctx context.Context, userID string) ([]entity.Order, error)
}

type EnrollmentRepo interface {
	CreateEnrollments(ctx context.Context, enrollments []entity.Enrollment) error
	ListByUser(ctx context.Context, userID string) ([]entity.Enrollment, error)
	ApplyProgress(ctx context.Context, userID, courseID string, progress int) error
}

type CourseRepo interface {
	Create(ctx context.Context, c *entity.Course) error
	GetByID(ctx context.Context, id string) (*entity.Course, error)
	GetBySlug(ctx context.Context, slug string) (*entity.Course, error)
	List(ctx context.Context, publishedOnly bool) ([]entity.Course, error)
	Update(ctx context.Context, c *entity.Course) error
	Delete(ctx context.Context, id string) error
}

type PostRepo interface {
	Create(ctx context.Context, p *entity.Post) error
	GetByID(ctx context.Context, id string) (*entity.Post, error)
	GetBySlug(ctx context.Context, slug string) (*entity.Post, error)
	List(ctx context.Context, publishedOnly bool) ([]entity.Post, error)
	Update(ctx context.Context, p *entity.Post) error
	Delete(ctx context.Context, id string) error
}

type UserRepo interface {
	Create(ctx context.Context, u *entity.User) error
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	GetByID(ctx context.Context, id string) (*entity.User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
}

type IdempotencyStore interface {
	TryLock(ctx context.Context, scope, key string) (bool, error)
	// Release frees a lock taken by TryLock so a failed attempt can be retried.
	Release(ctx context.Context, scope, key string) error
	Remember(ctx context.Context, scope, key, value string) error
	Recall(ctx context.Context, scope, key string) (string, bool, error)
}

// ListingCache invalidates cached views after a write; reads go through
// CatalogCache.
type ListingCache interface {
	Invalidate(ctx context.Context, keys ...string) error
}

type CatalogCache interface {
	ListingCache
	GetJSON(ctx context.Context, key string, v any) (bool, error)
	SetJSON(ctx context.Context, key string, v any) error
}

// Cache keys for the listings invalidated by admin writes.
const (
	CacheCoursesPublic = "courses:public"
	CacheCoursesAdmin  = "courses:admin"
	CachePostsPublic   = "posts:public"
	CachePostsAdmin    = "posts:admin"
)

func CacheEnrollmentsUser(userID string) string { return "enrollments:user:" + userID }

type DiscountEvaluator interface {
	Evaluate(code string, subtotalCents int64) (int64, error)
}

type EventPublisher interface {
	PublishOrderCompleted(ctx context.Context, msg OrderCompletedMsg) error
}

// ObjectStore is the blob collaborator for course images.
type ObjectStore interface {
	Upload(ctx context.Context, path string, r io.Reader) (url string, err error)
	Remove(ctx context.Context, paths ...string) error
}

// TokenIssuer mints session tokens for an authenticated user.
type TokenIssuer interface {
	Issue(userID, email string, admin bool) (string, time.Duration, error)
}

// ResetSealer seals and opens short-lived password-reset tokens.
type ResetSealer interface {
	Seal(userID string, expiresAt time.Time) (string, error)
	Unseal(token string) (userID string, expiresAt time.Time, err error)
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}
