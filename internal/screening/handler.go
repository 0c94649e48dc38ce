package screening

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"hireview-backend/internal/jobs"
	"hireview-backend/internal/shared/server/respond"
	"hireview-backend/internal/shared/util"
)

const (
	mimePDF  = "application/pdf"
	mimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// Handler wires the screening endpoints to the orchestrator.
type Handler struct {
	Svc            *Service
	Jobs           jobs.Repo
	MaxUploadBytes int64
	MaxBatchFiles  int
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, jobRepo jobs.Repo, maxUploadBytes int64, maxBatchFiles int) *Handler {
	return &Handler{
		Svc:            svc,
		Jobs:           jobRepo,
		MaxUploadBytes: maxUploadBytes,
		MaxBatchFiles:  maxBatchFiles,
	}
}

// RegisterRoutes attaches screening routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/screenings", h.screen)
	rg.POST("/analyses", h.analyze)
}

// screen runs the full job-match pipeline against the persisted job spec.
func (h *Handler) screen(c *gin.Context) {
	documents, apiKey, ok := h.readUpload(c)
	if !ok {
		return
	}

	spec, err := h.Jobs.Get(c.Request.Context())
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "STORAGE_ERROR", "failed to load job spec", nil)
		return
	}

	batch, err := h.Svc.Run(c.Request.Context(), spec.Title, spec.Description, documents, apiKey)
	if err != nil {
		if errors.Is(err, ErrValidation) {
			respond.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "screening failed", nil)
		return
	}

	respond.JSON(c, http.StatusCreated, gin.H{"results": batch})
}

// analyze runs the ingestion-only workflow. ?format=csv returns the tabular
// serialization instead of JSON.
func (h *Handler) analyze(c *gin.Context) {
	documents, apiKey, ok := h.readUpload(c)
	if !ok {
		return
	}

	rows, err := h.Svc.Analyze(c.Request.Context(), documents, apiKey)
	if err != nil {
		if errors.Is(err, ErrValidation) {
			respond.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "analysis failed", nil)
		return
	}

	if strings.EqualFold(c.Query("format"), "csv") {
		var buf bytes.Buffer
		if err := WriteCSV(&buf, rows); err != nil {
			respond.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to serialize csv", nil)
			return
		}
		c.Header("Content-Disposition", `attachment; filename="analyses.csv"`)
		c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
		return
	}

	respond.OK(c, gin.H{"results": rows})
}

// readUpload parses and validates the multipart upload. Validation is
// batch-wide: any offending file rejects the whole request, before the
// pipeline starts.
func (h *Handler) readUpload(c *gin.Context) ([]Document, string, bool) {
	form, err := c.MultipartForm()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "multipart form is required", nil)
		return nil, "", false
	}

	files := form.File["resumes"]
	if len(files) == 0 {
		respond.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "no resume files provided", nil)
		return nil, "", false
	}
	if h.MaxBatchFiles > 0 && len(files) > h.MaxBatchFiles {
		respond.Error(c, http.StatusBadRequest, "VALIDATION_ERROR",
			fmt.Sprintf("too many files: %d provided, at most %d allowed", len(files), h.MaxBatchFiles), nil)
		return nil, "", false
	}

	var offenders []string
	names := make([]string, len(files))
	for i, file := range files {
		name, err := util.SanitizeFileName(file.Filename)
		if err != nil {
			offenders = append(offenders, file.Filename+": invalid file name")
			continue
		}
		names[i] = name
		if reason := h.validateFile(file); reason != "" {
			offenders = append(offenders, name+": "+reason)
		}
	}
	if len(offenders) > 0 {
		respond.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid files", offenders)
		return nil, "", false
	}

	documents := make([]Document, 0, len(files))
	for i, file := range files {
		data, err := readFile(file)
		if err != nil {
			respond.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "unable to read "+names[i], nil)
			return nil, "", false
		}
		documents = append(documents, Document{
			FileName: names[i],
			MimeType: file.Header.Get("Content-Type"),
			Data:     data,
		})
	}

	apiKey := ""
	if values := form.Value["apiKey"]; len(values) > 0 {
		apiKey = strings.TrimSpace(values[0])
	}
	return documents, apiKey, true
}

func (h *Handler) validateFile(file *multipart.FileHeader) string {
	declared := strings.ToLower(strings.TrimSpace(strings.Split(file.Header.Get("Content-Type"), ";")[0]))
	if declared != mimePDF && declared != mimeDOCX {
		return "invalid file type"
	}
	if h.MaxUploadBytes > 0 && file.Size > h.MaxUploadBytes {
		return fmt.Sprintf("file too large (max %dMB)", h.MaxUploadBytes/(1024*1024))
	}
	return ""
}

func readFile(file *multipart.FileHeader) ([]byte, error) {
	f, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
