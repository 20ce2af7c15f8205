package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"fare/internal/service"
)

// SessionHeader carries the client session used for last-request-wins.
const SessionHeader = "X-Session-ID"

// FareHandler handles HTTP requests for fare estimates.
type FareHandler struct {
	sessions *service.SessionEstimator
	logger   *zap.Logger
}

// NewFareHandler creates a new FareHandler.
func NewFareHandler(sessions *service.SessionEstimator, logger *zap.Logger) *FareHandler {
	return &FareHandler{
		sessions: sessions,
		logger:   logger,
	}
}

// EstimateRequest is the HTTP request body for a fare estimate. Coordinates
// and passenger count may be sent as numbers or strings.
type EstimateRequest struct {
	RideFields
	Mode string `json:"mode,omitempty" form:"mode"`
}

// Estimate handles POST /v1/fares/estimate
func (h *FareHandler) Estimate(c *gin.Context) {
	var req EstimateRequest
	if err := c.ShouldBind(&req); err != nil {
		respondJSON(c, http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	modeText := c.Query("mode")
	if modeText == "" {
		modeText = req.Mode
	}
	mode, err := service.ParseMode(modeText, "")
	if err != nil {
		respondError(c, err)
		return
	}

	quote, err := h.sessions.Estimate(c.Request.Context(), c.GetHeader(SessionHeader), req.toRaw(), mode)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, quote)
}
