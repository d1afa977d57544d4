package resumes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"freshhire-backend/internal/jobs"
	"freshhire-backend/internal/shared/server/middleware"
	"freshhire-backend/internal/shared/server/respond"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/resume", middleware.RequireUser())
	g.GET("", h.get)
	g.PUT("", h.put)
}

func (h *Handler) get(c *gin.Context) {
	res, found, err := h.Svc.Load(c.Request.Context())
	if err != nil {
		jobs.WriteError(c, err, "failed to load resume")
		return
	}
	if !found {
		respond.OK(c, gin.H{"resume": nil})
		return
	}
	respond.OK(c, gin.H{"resume": res})
}

func (h *Handler) put(c *gin.Context) {
	var in Input
	if err := c.ShouldBindJSON(&in); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	res, err := h.Svc.Save(c.Request.Context(), in)
	if err != nil {
		jobs.WriteError(c, err, "failed to save resume")
		return
	}
	respond.OK(c, gin.H{"resume": res})
}
