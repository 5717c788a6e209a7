package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	portssvc "github.com/tradeflowhq/tradeflow_backend/internal/core/ports/services"
	"github.com/tradeflowhq/tradeflow_backend/internal/dto"
	"github.com/tradeflowhq/tradeflow_backend/internal/middleware"
)

// heartbeatInterval keeps idle SSE connections from being reaped by proxies.
const heartbeatInterval = 30 * time.Second

// eventHandler streams change notifications to connected clients over SSE.
// Events carry no payload; clients re-fetch their own view when poked, so a
// coalesced or duplicated signal is harmless.
type eventHandler struct {
	notifier   portssvc.NotifierSvc
	jobService portssvc.JobSvcFacade
}

// newEventHandler creates a new eventHandler.
func newEventHandler(notifier portssvc.NotifierSvc, jobService portssvc.JobSvcFacade) *eventHandler {
	return &eventHandler{
		notifier:   notifier,
		jobService: jobService,
	}
}

// registerEventRoutes registers SSE routes nested under a company.
func registerEventRoutes(rg *gin.RouterGroup, services *portssvc.ServiceContainer) {
	h := newEventHandler(services.Notifier, services.Job)

	rg.GET("/events", h.streamCompanyEvents)
	rg.GET("/jobs/:job_id/events", h.streamJobEvents)
}

// streamCompanyEvents godoc
// @Summary Stream company change events
// @Description Opens a Server-Sent Events stream that emits a signal whenever any of the company's jobs or documents change. Clients should re-fetch on each signal.
// @Tags events
// @Produce text/event-stream
// @Param company_id path string true "Company ID"
// @Success 200 {string} string "event stream"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Security BearerAuth
// @Router /companies/{company_id}/events [get]
func (h *eventHandler) streamCompanyEvents(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	// Listing jobs doubles as the membership check; non-members get 403/404
	// before the stream opens.
	if _, err := h.jobService.ListJobs(c.Request.Context(), companyID, listProbeParams(), userID); err != nil {
		respondServiceError(c, logger, err, "Failed to open event stream")
		return
	}

	h.stream(c, func(fn func()) portssvc.Unsubscribe {
		return h.notifier.SubscribeCompany(companyID, fn)
	})
}

// streamJobEvents godoc
// @Summary Stream job change events
// @Description Opens a Server-Sent Events stream scoped to one job and its activity trail.
// @Tags events
// @Produce text/event-stream
// @Param company_id path string true "Company ID"
// @Param job_id path string true "Job ID"
// @Success 200 {string} string "event stream"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Job not found"
// @Security BearerAuth
// @Router /companies/{company_id}/jobs/{job_id}/events [get]
func (h *eventHandler) streamJobEvents(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")
	jobID := c.Param("job_id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	// Verifies both membership and that the job belongs to this company.
	if _, err := h.jobService.GetJob(c.Request.Context(), companyID, jobID, userID); err != nil {
		respondServiceError(c, logger, err, "Failed to open event stream")
		return
	}

	h.stream(c, func(fn func()) portssvc.Unsubscribe {
		return h.notifier.SubscribeJob(jobID, fn)
	})
}

// stream runs the SSE loop until the client disconnects. Notifications are
// funneled through a one-slot channel so bursts coalesce into a single
// signal; the client re-fetches state either way.
func (h *eventHandler) stream(c *gin.Context, subscribe func(fn func()) portssvc.Unsubscribe) {
	signals := make(chan struct{}, 1)
	unsubscribe := subscribe(func() {
		select {
		case signals <- struct{}{}:
		default:
		}
	})
	defer unsubscribe()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	// Initial event so clients know the stream is live.
	c.SSEvent("sync", "connected")
	c.Writer.Flush()

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	ctx := c.Request.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-signals:
			c.SSEvent("sync", "changed")
			c.Writer.Flush()
		case <-heartbeat.C:
			c.SSEvent("heartbeat", time.Now().UTC().Format(time.RFC3339))
			c.Writer.Flush()
		}
	}
}

// listProbeParams is the cheapest jobs query that still exercises the
// company membership check.
func listProbeParams() dto.ListJobsParams {
	return dto.ListJobsParams{Limit: 1}
}
