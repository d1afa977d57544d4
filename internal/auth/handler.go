package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"freshhire-backend/internal/shared/server/middleware"
	"freshhire-backend/internal/shared/server/respond"
	"freshhire-backend/internal/users"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/auth/signup", h.signUp)
	rg.POST("/auth/signin", h.signIn)
	rg.POST("/auth/signout", h.signOut)
	rg.GET("/auth/user", h.user)
}

func (h *Handler) signUp(c *gin.Context) {
	var req SignUpInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	res, err := h.Svc.SignUp(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.Created(c, res)
}

func (h *Handler) signIn(c *gin.Context) {
	var req SignInInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	res, err := h.Svc.SignIn(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, res)
}

func (h *Handler) signOut(c *gin.Context) {
	if err := h.Svc.SignOut(c.Request.Context()); err != nil {
		writeError(c, err)
		return
	}
	respond.NoContent(c)
}

func (h *Handler) user(c *gin.Context) {
	identity, ok := h.Svc.CurrentUser(c.Request.Context())
	if !ok {
		respond.OK(c, gin.H{"user": nil})
		return
	}
	email := identity.Email
	if email == "" {
		email = middleware.UserEmailFromContext(c)
	}
	respond.OK(c, gin.H{"user": AuthUser{ID: identity.ID, Email: email}})
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case errors.Is(err, users.ErrEmailTaken):
		respond.Error(c, http.StatusConflict, "email_taken", "email already registered", nil)
	case errors.Is(err, ErrInvalidCredentials):
		respond.Error(c, http.StatusUnauthorized, "invalid_credentials", "invalid email or password", nil)
	case errors.Is(err, ErrUnauthenticated):
		respond.Error(c, http.StatusUnauthorized, "unauthenticated", "sign in required", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "authentication failed", nil)
	}
}
