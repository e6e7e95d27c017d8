package http

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/coursely/course-api/internal/adapter/http/middleware"
	"github.com/coursely/course-api/internal/logging"
	"github.com/coursely/course-api/internal/security"
)

type RouterDeps struct {
	Auth     *AuthHandler
	Catalog  *CatalogHandler
	Cart     *CartHandler
	Checkout *CheckoutHandler
	Admin    *AdminHandler
	Authz    *middleware.Authz

	// UploadsDir is served under /uploads so course images resolve.
	UploadsDir string
}

func NewRouter(d RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.MetricsMiddleware())

	l := logging.New("http")
	r.Use(middleware.Logging(l))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})
	// Prometheus endpoint (scraped by Prometheus)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if d.UploadsDir != "" {
		r.Static("/uploads", d.UploadsDir)
	}

	v1 := r.Group("/v1")
	{
		// identity
		v1.POST("/auth/signup", d.Auth.SignUp)
		v1.POST("/auth/signin", d.Auth.SignIn)
		v1.POST("/auth/signout", d.Auth.SignOut)
		v1.POST("/auth/reset", d.Auth.SendPasswordReset)
		v1.POST("/auth/password", d.Auth.UpdatePassword)
		v1.GET("/auth/me", d.Authz.Require(), d.Auth.Me)

		// public storefront
		v1.GET("/courses", d.Catalog.ListCourses)
		v1.GET("/courses/:slug", d.Catalog.GetCourse)
		v1.GET("/posts", d.Catalog.ListPosts)
		v1.GET("/posts/:slug", d.Catalog.GetPost)

		// session cart, anonymous-friendly
		v1.GET("/cart", d.Cart.GetCart)
		v1.POST("/cart/items", d.Cart.AddItem)
		v1.PUT("/cart/items/:courseId", d.Cart.UpdateQuantity)
		v1.DELETE("/cart/items/:courseId", d.Cart.RemoveItem)
		v1.DELETE("/cart", d.Cart.ClearCart)
		v1.PUT("/cart/open", d.Cart.SetOpen)
		v1.POST("/cart/notification/hide", d.Cart.HideNotification)

		// checkout and the signed-in area
		v1.POST("/checkout", d.Authz.Require(security.PermOrdersWrite), d.Checkout.Checkout)
		v1.GET("/orders", d.Authz.Require(security.PermOrdersWrite), d.Checkout.ListOrders)
		v1.GET("/orders/:id", d.Authz.Require(security.PermOrdersWrite), d.Checkout.GetOrder)
		v1.GET("/me/courses", d.Authz.Require(security.PermCoursesRead), d.Checkout.MyCourses)

		// back office
		admin := v1.Group("/admin", d.Authz.Require(security.PermAdmin))
		{
			admin.POST("/courses", d.Admin.CreateCourse)
			admin.GET("/courses", d.Admin.ListCourses)
			admin.GET("/courses/:id", d.Admin.GetCourse)
			admin.PUT("/courses/:id", d.Admin.UpdateCourse)
			admin.DELETE("/courses/:id", d.Admin.DeleteCourse)
			admin.POST("/courses/:id/image", d.Admin.UploadCourseImage)

			admin.POST("/posts", d.Admin.CreatePost)
			admin.GET("/posts", d.Admin.ListPosts)
			admin.GET("/posts/:id", d.Admin.GetPost)
			admin.PUT("/posts/:id", d.Admin.UpdatePost)
			admin.DELETE("/posts/:id", d.Admin.DeletePost)
		}
	}

	return r
}
