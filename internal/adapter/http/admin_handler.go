package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/coursely/course-api/internal/adapter/repo"
	"github.com/coursely/course-api/internal/entity"
	"github.com/coursely/course-api/internal/usecase"
)

// AdminHandler is the back office: course and post CRUD plus image upload.
// The router guards every route with the admin permission.
type AdminHandler struct {
	courses *usecase.Courses
	posts   *usecase.Posts
}

func NewAdminHandler(courses *usecase.Courses, posts *usecase.Posts) *AdminHandler {
	return &AdminHandler{courses: courses, posts: posts}
}

type courseReq struct {
	Title       string `json:"title" binding:"required"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	PriceCents  int64  `json:"priceCents" binding:"gte=0"`
	Currency    string `json:"currency"`
	ImageURL    string `json:"imageUrl"`
	Published   bool   `json:"published"`
}

func (r courseReq) input() usecase.CourseInput {
	return usecase.CourseInput{
		Title:       r.Title,
		Slug:        r.Slug,
		Description: r.Description,
		PriceCents:  r.PriceCents,
		Currency:    r.Currency,
		ImageURL:    r.ImageURL,
		Published:   r.Published,
	}
}

func (h *AdminHandler) CreateCourse(c *gin.Context) {
	var req courseReq
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "title is required")
		return
	}
	ctx, cancel := timeoutCtx(c)
	defer cancel()

	course, err := h.courses.Create(ctx, req.input())
	if err != nil {
		h.adminError(c, err)
		return
	}
	ok(c, http.StatusCreated, course, "course created")
}

func (h *AdminHandler) ListCourses(c *gin.Context) {
	ctx, cancel := timeoutCtx(c)
	defer cancel()

	list, err := h.courses.List(ctx)
	if err != nil {
		h.adminError(c, err)
		return
	}
	ok(c, http.StatusOK, list, "")
}

func (h *AdminHandler) GetCourse(c *gin.Context) {
	ctx, cancel := timeoutCtx(c)
	defer cancel()

	course, err := h.courses.Get(ctx, c.Param("id"))
	if err != nil {
		h.adminError(c, err)
		return
	}
	ok(c, http.StatusOK, course, "")
}

func (h *AdminHandler) UpdateCourse(c *gin.Context) {
	var req courseReq
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "title is required")
		return
	}
	ctx, cancel := timeoutCtx(c)
	defer cancel()

	course, err := h.courses.Update(ctx, c.Param("id"), req.input())
	if err != nil {
		h.adminError(c, err)
		return
	}
	ok(c, http.StatusOK, course, "course updated")
}

func (h *AdminHandler) DeleteCourse(c *gin.Context) {
	ctx, cancel := timeoutCtx(c)
	defer cancel()

	if err := h.courses.Delete(ctx, c.Param("id")); err != nil {
		h.adminError(c, err)
		return
	}
	ok(c, http.StatusOK, nil, "course deleted")
}

// UploadCourseImage accepts a multipart form with an "image" file.
func (h *AdminHandler) UploadCourseImage(c *gin.Context) {
	fh, err := c.FormFile("image")
	if err != nil {
		fail(c, http.StatusBadRequest, "image file is required")
		return
	}
	f, err := fh.Open()
	if err != nil {
		fail(c, http.StatusBadRequest, "unreadable upload")
		return
	}
	defer f.Close()

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	course, err := h.courses.UploadImage(ctx, c.Param("id"), fh.Filename, f)
	if err != nil {
		h.adminError(c, err)
		return
	}
	ok(c, http.StatusOK, course, "image uploaded")
}

type postReq struct {
	Title     string `json:"title" binding:"required"`
	Slug      string `json:"slug"`
	Excerpt   string `json:"excerpt"`
	Body      string `json:"body"`
	CoverURL  string `json:"coverUrl"`
	Published bool   `json:"published"`
}

func (r postReq) input() usecase.PostInput {
	return usecase.PostInput{
		Title:     r.Title,
		Slug:      r.Slug,
		Excerpt:   r.Excerpt,
		Body:      r.Body,
		CoverURL:  r.CoverURL,
		Published: r.Published,
	}
}

func (h *AdminHandler) CreatePost(c *gin.Context) {
	var req postReq
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "title is required")
		return
	}
	ctx, cancel := timeoutCtx(c)
	defer cancel()

	post, err := h.posts.Create(ctx, req.input())
	if err != nil {
		h.adminError(c, err)
		return
	}
	ok(c, http.StatusCreated, post, "post created")
}

func (h *AdminHandler) ListPosts(c *gin.Context) {
	ctx, cancel := timeoutCtx(c)
	defer cancel()

	list, err := h.posts.List(ctx)
	if err != nil {
		h.adminError(c, err)
		return
	}
	ok(c, http.StatusOK, list, "")
}

func (h *AdminHandler) GetPost(c *gin.Context) {
	ctx, cancel := timeoutCtx(c)
	defer cancel()

	post, err := h.posts.Get(ctx, c.Param("id"))
	if err != nil {
		h.adminError(c, err)
		return
	}
	ok(c, http.StatusOK, post, "")
}

func (h *AdminHandler) UpdatePost(c *gin.Context) {
	var req postReq
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "title is required")
		return
	}
	ctx, cancel := timeoutCtx(c)
	defer cancel()

	post, err := h.posts.Update(ctx, c.Param("id"), req.input())
	if err != nil {
		h.adminError(c, err)
		return
	}
	ok(c, http.StatusOK, post, "post updated")
}

func (h *AdminHandler) DeletePost(c *gin.Context) {
	ctx, cancel := timeoutCtx(c)
	defer cancel()

	if err := h.posts.Delete(ctx, c.Param("id")); err != nil {
		h.adminError(c, err)
		return
	}
	ok(c, http.StatusOK, nil, "post deleted")
}

func timeoutCtx(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), 3*time.Second)
}

func (h *AdminHandler) adminError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, entity.ErrEmptyTitle), errors.Is(err, entity.ErrInvalidSlug):
		fail(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, repo.ErrNotFound):
		fail(c, http.StatusNotFound, "not_found")
	default:
		// Remote failure reported back verbatim, no retries.
		fail(c, http.StatusInternalServerError, err.Error())
	}
}
