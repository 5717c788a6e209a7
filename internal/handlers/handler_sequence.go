package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	portssvc "github.com/tradeflowhq/tradeflow_backend/internal/core/ports/services"
	"github.com/tradeflowhq/tradeflow_backend/internal/dto"
	"github.com/tradeflowhq/tradeflow_backend/internal/middleware"
)

// sequenceHandler exposes the company's sequence counters to admins.
type sequenceHandler struct {
	sequenceService portssvc.SequenceSvc
}

// registerSequenceRoutes registers counter routes nested under a company.
func registerSequenceRoutes(rg *gin.RouterGroup, sequenceService portssvc.SequenceSvc) {
	h := &sequenceHandler{sequenceService: sequenceService}

	rg.GET("/counters", h.listCounters)
}

// listCounters godoc
// @Summary List sequence counters
// @Description Reports the last allocated job, quote, invoice and certificate numbers for the company. Admin only.
// @Tags companies
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Success 200 {object} dto.CounterValuesResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Security BearerAuth
// @Router /companies/{company_id}/counters [get]
func (h *sequenceHandler) listCounters(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	values, err := h.sequenceService.CounterValues(c.Request.Context(), companyID, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to read counters")
		return
	}

	c.JSON(http.StatusOK, dto.CounterValuesResponse{Counters: values})
}
