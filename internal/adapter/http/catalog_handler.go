package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/coursely/course-api/internal/usecase"
)

// CatalogHandler serves the public storefront: published courses and posts.
type CatalogHandler struct {
	catalog *usecase.Catalog
}

func NewCatalogHandler(catalog *usecase.Catalog) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

func (h *CatalogHandler) ListCourses(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	list, err := h.catalog.Courses(ctx)
	if err != nil {
		fail(c, http.StatusInternalServerError, "unexpected_error")
		return
	}
	ok(c, http.StatusOK, list, "")
}

func (h *CatalogHandler) GetCourse(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	course, err := h.catalog.CourseBySlug(ctx, c.Param("slug"))
	if err != nil || !course.Published {
		fail(c, http.StatusNotFound, "not_found")
		return
	}
	ok(c, http.StatusOK, course, "")
}

func (h *CatalogHandler) ListPosts(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	list, err := h.catalog.Posts(ctx)
	if err != nil {
		fail(c, http.StatusInternalServerError, "unexpected_error")
		return
	}
	ok(c, http.StatusOK, list, "")
}

func (h *CatalogHandler) GetPost(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	post, err := h.catalog.PostBySlug(ctx, c.Param("slug"))
	if err != nil || !post.Published {
		fail(c, http.StatusNotFound, "not_found")
		return
	}
	ok(c, http.StatusOK, post, "")
}
