package roleprediction

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"analyzer-backend/internal/shared/server/respond"
)

// Handler wires the role prediction endpoint to the predictor.
type Handler struct {
	Predictor *Predictor
}

// NewHandler constructs a Handler.
func NewHandler(p *Predictor) *Handler {
	return &Handler{Predictor: p}
}

// RegisterRoutes attaches role prediction routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/predict-role", h.predict)
}

type predictRequest struct {
	// Combined resume text: skills + summary.
	Inputs string `json:"inputs"`
}

func (h *Handler) predict(c *gin.Context) {
	var req predictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	text := strings.TrimSpace(req.Inputs)
	if text == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "inputs field must not be empty", nil)
		return
	}

	result := h.Predictor.Predict(c.Request.Context(), text)
	c.Set("predictedLabel", result.Label)

	respond.OK(c, result)
}
