package handler

import (
	"math"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"fare/internal/service"
)

// PredictResponse is the prediction service reply.
type PredictResponse struct {
	PredictedFare float64 `json:"predicted_fare"`
}

// PredictHandler serves the prediction contract consumed by the remote
// estimator, backed by the local formula.
type PredictHandler struct {
	estimator service.Estimator
	logger    *zap.Logger
}

// NewPredictHandler creates a new PredictHandler.
func NewPredictHandler(estimator service.Estimator, logger *zap.Logger) *PredictHandler {
	return &PredictHandler{
		estimator: estimator,
		logger:    logger,
	}
}

// Predict handles POST /predict
func (h *PredictHandler) Predict(c *gin.Context) {
	var fields RideFields
	if err := c.ShouldBindJSON(&fields); err != nil {
		respondJSON(c, http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	req, err := service.ValidateRideRequest(fields.toRaw())
	if err != nil {
		respondError(c, err)
		return
	}

	quote, err := h.estimator.Estimate(c.Request.Context(), req)
	if err != nil {
		h.logger.Error("prediction failed", zap.Error(err))
		respondJSON(c, http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	respondJSON(c, http.StatusOK, PredictResponse{PredictedFare: math.Round(quote.AmountUSD*100) / 100})
}
