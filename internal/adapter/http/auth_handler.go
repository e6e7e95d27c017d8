package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/coursely/course-api/internal/adapter/http/middleware"
	"github.com/coursely/course-api/internal/usecase"
)

type AuthHandler struct {
	auth *usecase.Auth
}

func NewAuthHandler(auth *usecase.Auth) *AuthHandler {
	return &AuthHandler{auth: auth}
}

type credentialsReq struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) SignUp(c *gin.Context) {
	var req credentialsReq
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "email and password are required")
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	out, err := h.auth.SignUp(ctx, req.Email, req.Password)
	if err != nil {
		h.authError(c, err)
		return
	}
	ok(c, http.StatusCreated, tokenPayload(out), "account created")
}

func (h *AuthHandler) SignIn(c *gin.Context) {
	var req credentialsReq
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "email and password are required")
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	out, err := h.auth.SignIn(ctx, req.Email, req.Password)
	if err != nil {
		h.authError(c, err)
		return
	}
	ok(c, http.StatusOK, tokenPayload(out), "")
}

// SignOut is stateless: tokens expire on their own, the client discards its
// copy. The endpoint exists so the UI has something to call.
func (h *AuthHandler) SignOut(c *gin.Context) {
	ok(c, http.StatusOK, nil, "signed out")
}

// Me returns the session parsed by the authz middleware.
func (h *AuthHandler) Me(c *gin.Context) {
	sess, okSess := middleware.Session(c)
	if !okSess {
		fail(c, http.StatusUnauthorized, "authentication_required")
		return
	}
	ok(c, http.StatusOK, gin.H{"userId": sess.UserID, "email": sess.Email, "admin": sess.Admin}, "")
}

type resetReq struct {
	Email string `json:"email" binding:"required"`
}

func (h *AuthHandler) SendPasswordReset(c *gin.Context) {
	var req resetReq
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "email is required")
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	if err := h.auth.SendPasswordReset(ctx, req.Email); err != nil {
		fail(c, http.StatusInternalServerError, "unexpected_error")
		return
	}
	// Same answer whether or not the account exists.
	ok(c, http.StatusOK, nil, "if the account exists, a reset link has been sent")
}

type updatePasswordReq struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) UpdatePassword(c *gin.Context) {
	var req updatePasswordReq
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "token and password are required")
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	if err := h.auth.UpdatePassword(ctx, req.Token, req.Password); err != nil {
		h.authError(c, err)
		return
	}
	ok(c, http.StatusOK, nil, "password updated")
}

func tokenPayload(out usecase.SignInOutput) gin.H {
	return gin.H{
		"access_token": out.Token,
		"token_type":   "Bearer",
		"expires_in":   int(out.ExpiresIn.Seconds()),
		"user": gin.H{
			"id":    out.Session.UserID,
			"email": out.Session.Email,
			"admin": out.Session.Admin,
		},
	}
}

func (h *AuthHandler) authError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, usecase.ErrInvalidCredentials):
		fail(c, http.StatusUnauthorized, "invalid email or password")
	case errors.Is(err, usecase.ErrEmailTaken):
		fail(c, http.StatusConflict, "email already registered")
	case errors.Is(err, usecase.ErrWeakPassword):
		fail(c, http.StatusBadRequest, "password must be at least 8 characters")
	case errors.Is(err, usecase.ErrResetExpired):
		fail(c, http.StatusBadRequest, "password reset link expired")
	default:
		fail(c, http.StatusInternalServerError, "unexpected_error")
	}
}
