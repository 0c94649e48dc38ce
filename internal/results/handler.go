package results

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"hireview-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the results service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches result routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/results", h.list)
	rg.GET("/results/compare", h.compareSelection)
	rg.GET("/results/export", h.export)
	rg.POST("/results/import", h.importResults)
	rg.POST("/results/batch", h.batch)
	rg.DELETE("/results", h.clear)
	rg.GET("/results/:id", h.get)
	rg.POST("/results/:id/reject", h.reject)
	rg.POST("/results/:id/notes", h.notes)
	rg.POST("/results/:id/favorite", h.favorite)
	rg.POST("/results/:id/compare", h.compare)
}

func (h *Handler) list(c *gin.Context) {
	minScore := 0
	if raw := strings.TrimSpace(c.Query("minScore")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 || parsed > 100 {
			respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "minScore must be an integer between 0 and 100", nil)
			return
		}
		minScore = parsed
	}
	showRejected := strings.EqualFold(c.Query("showRejected"), "true")
	sortBy := c.DefaultQuery("sort", SortByScore)

	stored, err := h.Svc.List(c.Request.Context())
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, ErrorCodeStorage, "failed to load results", nil)
		return
	}

	view := SortResults(Filter(stored, minScore, showRejected), sortBy)
	respond.OK(c, gin.H{"results": view, "total": len(stored)})
}

func (h *Handler) get(c *gin.Context) {
	result, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err, "failed to load result")
		return
	}
	respond.OK(c, result)
}

type rejectRequest struct {
	Reason string `json:"reason"`
}

func (h *Handler) reject(c *gin.Context) {
	// An absent or empty body is fine; the default reason applies.
	var req rejectRequest
	_ = c.ShouldBindJSON(&req)

	result, err := h.Svc.Reject(c.Request.Context(), c.Param("id"), strings.TrimSpace(req.Reason))
	if err != nil {
		h.writeError(c, err, "failed to reject result")
		return
	}
	respond.OK(c, result)
}

type notesRequest struct {
	Notes string `json:"notes"`
}

func (h *Handler) notes(c *gin.Context) {
	var req notesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "invalid request body", nil)
		return
	}

	result, err := h.Svc.AddNotes(c.Request.Context(), c.Param("id"), req.Notes)
	if err != nil {
		h.writeError(c, err, "failed to save notes")
		return
	}
	respond.OK(c, result)
}

func (h *Handler) favorite(c *gin.Context) {
	result, err := h.Svc.ToggleFavorite(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err, "failed to toggle favorite")
		return
	}
	respond.OK(c, result)
}

func (h *Handler) compare(c *gin.Context) {
	selection, err := h.Svc.ToggleCompare(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err, "failed to toggle compare")
		return
	}
	respond.OK(c, gin.H{"compare": selection})
}

func (h *Handler) compareSelection(c *gin.Context) {
	selected, err := h.Svc.CompareSelection(c.Request.Context())
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, ErrorCodeStorage, "failed to load compare selection", nil)
		return
	}
	respond.OK(c, gin.H{"results": selected})
}

type batchRequest struct {
	IDs    []string `json:"ids"`
	Action string   `json:"action"`
}

func (h *Handler) batch(c *gin.Context) {
	var req batchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "invalid request body", nil)
		return
	}
	if len(req.IDs) == 0 {
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "ids is required", nil)
		return
	}

	var err error
	switch req.Action {
	case "shortlist":
		err = h.Svc.BatchShortlist(c.Request.Context(), req.IDs)
	case "reject":
		err = h.Svc.BatchReject(c.Request.Context(), req.IDs)
	default:
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "action must be shortlist or reject", nil)
		return
	}
	if err != nil {
		h.writeError(c, err, "failed to apply batch action")
		return
	}

	stored, err := h.Svc.List(c.Request.Context())
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, ErrorCodeStorage, "failed to load results", nil)
		return
	}
	respond.OK(c, gin.H{"results": stored})
}

func (h *Handler) clear(c *gin.Context) {
	confirm := strings.EqualFold(c.Query("confirm"), "true")
	if err := h.Svc.Clear(c.Request.Context(), confirm); err != nil {
		if errors.Is(err, ErrConfirmRequired) {
			respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "clearing all results requires confirm=true", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, ErrorCodeStorage, "failed to clear results", nil)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) export(c *gin.Context) {
	stored, err := h.Svc.Export(c.Request.Context())
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, ErrorCodeStorage, "failed to export results", nil)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="results.json"`)
	respond.OK(c, stored)
}

func (h *Handler) importResults(c *gin.Context) {
	var imported []AnalysisResult
	if err := c.ShouldBindJSON(&imported); err != nil {
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "body must be a JSON array of results", nil)
		return
	}

	if err := h.Svc.Import(c.Request.Context(), imported); err != nil {
		respond.Error(c, http.StatusInternalServerError, ErrorCodeStorage, "failed to import results", nil)
		return
	}
	respond.OK(c, gin.H{"imported": len(imported)})
}

func (h *Handler) writeError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, ErrorCodeNotFound, "result not found", nil)
	case errors.Is(err, ErrInvalidTransition):
		respond.Error(c, http.StatusConflict, ErrorCodeTransition, err.Error(), nil)
	default:
		respond.Error(c, http.StatusInternalServerError, ErrorCodeInternal, fallback, nil)
	}
}
