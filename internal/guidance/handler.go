package guidance

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"analyzer-backend/internal/shared/server/respond"
)

// Handler wires the guidance endpoint to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches guidance routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/guidance", h.generate)
}

type generateRequest struct {
	ResumeData map[string]any `json:"resume_data"`
}

func (h *Handler) generate(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	if len(req.ResumeData) == 0 {
		respond.Error(c, http.StatusBadRequest, "validation_error", "resume_data is required", nil)
		return
	}

	result := h.Svc.Generate(c.Request.Context(), req.ResumeData)
	respond.OK(c, gin.H{"guidance": result})
}
