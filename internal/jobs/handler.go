package jobs

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"hireview-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the job spec repo.
type Handler struct {
	Repo Repo
}

// NewHandler constructs a Handler.
func NewHandler(repo Repo) *Handler {
	return &Handler{Repo: repo}
}

// RegisterRoutes attaches job routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/job", h.get)
	rg.PUT("/job", h.put)
}

func (h *Handler) get(c *gin.Context) {
	spec, err := h.Repo.Get(c.Request.Context())
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "STORAGE_ERROR", "failed to load job spec", nil)
		return
	}
	respond.OK(c, spec)
}

func (h *Handler) put(c *gin.Context) {
	var spec Spec
	if err := c.ShouldBindJSON(&spec); err != nil {
		respond.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body", nil)
		return
	}
	spec.Title = strings.TrimSpace(spec.Title)
	spec.Description = strings.TrimSpace(spec.Description)
	if spec.Title == "" {
		respond.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "title is required", nil)
		return
	}
	if spec.Description == "" {
		respond.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "description is required", nil)
		return
	}

	if err := h.Repo.Put(c.Request.Context(), spec); err != nil {
		respond.Error(c, http.StatusInternalServerError, "STORAGE_ERROR", "failed to save job spec", nil)
		return
	}
	respond.OK(c, spec)
}
