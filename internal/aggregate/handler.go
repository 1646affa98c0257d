package aggregate

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"analyzer-backend/internal/shared/server/middleware"
	"analyzer-backend/internal/shared/server/respond"
)

const maxUploadSize = 10 << 20 // 10MB

// Handler wires the aggregate analysis endpoints to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches aggregate routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/analyze-all", h.analyzeAll)
	rg.GET("/analyses", h.listRecent)
	rg.GET("/analyses/:id", h.getByID)
}

func (h *Handler) analyzeAll(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}

	req := Request{
		RequestID: middleware.RequestIDFromContext(c),
		FileName:  fileHeader.Filename,
		MimeType:  fileHeader.Header.Get("Content-Type"),
		FileData:  data,
		GitHub:    c.Query("github"),
		LeetCode:  c.Query("leetcode"),
		CodeChef:  c.Query("codechef"),
		Token:     c.Query("token"),
	}

	results, err := h.Svc.Analyze(c.Request.Context(), req)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "resume_error", err.Error(), nil)
		return
	}

	c.Set("analysisSources", sourceNames(results))
	respond.OK(c, results)
}

func (h *Handler) listRecent(c *gin.Context) {
	if h.Svc.Repo == nil {
		respond.OK(c, gin.H{"analyses": []any{}})
		return
	}

	limit := 20
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 || parsed > 100 {
			respond.Error(c, http.StatusBadRequest, "validation_error", "limit must be an integer between 1 and 100", nil)
			return
		}
		limit = parsed
	}

	recs, err := h.Svc.Repo.ListRecent(c.Request.Context(), limit)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal", "failed to list analyses", nil)
		return
	}

	out := make([]gin.H, 0, len(recs))
	for _, rec := range recs {
		out = append(out, gin.H{
			"id":          rec.ID,
			"request_id":  rec.RequestID,
			"resume_file": rec.ResumeFile,
			"sources_ok":  rec.SourcesOK,
			"sources_err": rec.SourcesErr,
			"created_at":  rec.CreatedAt,
		})
	}
	respond.OK(c, gin.H{"analyses": out})
}

func (h *Handler) getByID(c *gin.Context) {
	if h.Svc.Repo == nil {
		respond.Error(c, http.StatusNotFound, "not_found", "analysis not found", nil)
		return
	}

	rec, err := h.Svc.Repo.GetByID(c.Request.Context(), c.Param("id"))
	if errors.Is(err, ErrNotFound) {
		respond.Error(c, http.StatusNotFound, "not_found", "analysis not found", nil)
		return
	}
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal", "failed to load analysis", nil)
		return
	}

	respond.OK(c, gin.H{
		"id":            rec.ID,
		"request_id":    rec.RequestID,
		"resume_file":   rec.ResumeFile,
		"github_user":   rec.GitHubUser,
		"leetcode_user": rec.LeetCodeUser,
		"codechef_user": rec.CodeChefUser,
		"sources_ok":    rec.SourcesOK,
		"sources_err":   rec.SourcesErr,
		"created_at":    rec.CreatedAt,
	})
}

func sourceNames(results Response) []string {
	names := make([]string, 0, len(results))
	for name := range results {
		names = append(names, name)
	}
	return names
}
