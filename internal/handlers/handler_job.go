package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	portssvc "github.com/tradeflowhq/tradeflow_backend/internal/core/ports/services"
	"github.com/tradeflowhq/tradeflow_backend/internal/dto"
	"github.com/tradeflowhq/tradeflow_backend/internal/middleware"
)

// jobHandler handles HTTP requests related to jobs and their lifecycle.
type jobHandler struct {
	jobService portssvc.JobSvcFacade
}

// newJobHandler creates a new jobHandler.
func newJobHandler(js portssvc.JobSvcFacade) *jobHandler {
	return &jobHandler{
		jobService: js,
	}
}

// RegisterJobRoutes registers job routes nested under a company.
func RegisterJobRoutes(rg *gin.RouterGroup, jobService portssvc.JobSvcFacade) {
	h := newJobHandler(jobService)

	jobs := rg.Group("/jobs")
	{
		jobs.POST("", h.createJob)
		jobs.GET("", h.listJobs)
		jobs.GET("/:job_id", h.getJob)
		jobs.GET("/:job_id/activities", h.listActivities)
		jobs.POST("/:job_id/transition", h.transition)
		jobs.POST("/:job_id/advance", h.advance)
		jobs.PUT("/:job_id/assignees", h.assignWorkers)
		jobs.POST("/:job_id/artifacts", h.attachArtifacts)
	}
}

// createJob godoc
// @Summary Create a job
// @Description Creates a new job, minting its reference from the company's sequence and copying the customer's details onto it. Requires admin role.
// @Tags jobs
// @Accept  json
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   job body dto.CreateJobRequest true "Job details"
// @Success 201 {object} dto.JobResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden (caller is not admin)"
// @Failure 404 {object} map[string]string "Customer not found"
// @Security BearerAuth
// @Router /companies/{company_id}/jobs [post]
func (h *jobHandler) createJob(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")

	var req dto.CreateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateJob", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": bindingErrorMessage(err)})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Creator user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("company_id", companyID), slog.String("creator_user_id", userID))
	logger.Info("Received request to create job", slog.String("customer_id", req.CustomerID))

	job, err := h.jobService.CreateJob(c.Request.Context(), companyID, req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create job")
		return
	}

	logger.Info("Job created successfully", slog.String("job_id", job.JobID), slog.String("reference", job.Reference))
	c.JSON(http.StatusCreated, dto.ToJobResponse(job))
}

// listJobs godoc
// @Summary List jobs
// @Description Retrieves a paginated list of the company's jobs, optionally filtered by status and assignee.
// @Tags jobs
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   status query []string false "Status filter (repeatable)"
// @Param   assignedTo query string false "Only jobs assigned to this user"
// @Param   limit query int false "Page size" default(20)
// @Param   offset query int false "Offset" default(0)
// @Success 200 {array} dto.JobResponse
// @Failure 400 {object} map[string]string "Invalid status filter"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Security BearerAuth
// @Router /companies/{company_id}/jobs [get]
func (h *jobHandler) listJobs(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")

	var params dto.ListJobsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	jobs, err := h.jobService.ListJobs(c.Request.Context(), companyID, params, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list jobs")
		return
	}

	c.JSON(http.StatusOK, dto.ToListJobResponse(jobs))
}

// getJob godoc
// @Summary Get a job
// @Description Retrieves a job's details including its customer snapshot and artifacts.
// @Tags jobs
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   job_id path string true "Job ID"
// @Success 200 {object} dto.JobResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Job not found"
// @Security BearerAuth
// @Router /companies/{company_id}/jobs/{job_id} [get]
func (h *jobHandler) getJob(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")
	jobID := c.Param("job_id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	job, err := h.jobService.GetJob(c.Request.Context(), companyID, jobID, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve job")
		return
	}

	c.JSON(http.StatusOK, dto.ToJobResponse(job))
}

// listActivities godoc
// @Summary List job activities
// @Description Retrieves the job's append-only activity trail, oldest first.
// @Tags jobs
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   job_id path string true "Job ID"
// @Success 200 {array} dto.ActivityResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Job not found"
// @Security BearerAuth
// @Router /companies/{company_id}/jobs/{job_id}/activities [get]
func (h *jobHandler) listActivities(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")
	jobID := c.Param("job_id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	activities, err := h.jobService.ListJobActivities(c.Request.Context(), companyID, jobID, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list job activities")
		return
	}

	c.JSON(http.StatusOK, dto.ToListActivityResponse(activities))
}

// transition godoc
// @Summary Transition a job
// @Description Moves a job to the requested status. The allowed edges depend on the caller's role; completing a job requires a signature.
// @Tags jobs
// @Accept  json
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   job_id path string true "Job ID"
// @Param   transition body dto.TransitionTarget true "Target status and artifacts"
// @Success 200 {object} dto.JobResponse
// @Failure 400 {object} map[string]string "Invalid input or missing signature"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden for this role"
// @Failure 404 {object} map[string]string "Job not found"
// @Failure 409 {object} map[string]string "Transition not legal from the current status"
// @Security BearerAuth
// @Router /companies/{company_id}/jobs/{job_id}/transition [post]
func (h *jobHandler) transition(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")
	jobID := c.Param("job_id")

	var req dto.TransitionTarget
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": bindingErrorMessage(err)})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("job_id", jobID), slog.String("target_status", string(req.Status)))
	logger.Info("Received request to transition job")

	job, err := h.jobService.Transition(c.Request.Context(), companyID, jobID, req.Status, req.TransitionRequest, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to transition job")
		return
	}

	c.JSON(http.StatusOK, dto.ToJobResponse(job))
}

// advance godoc
// @Summary Advance a job
// @Description Moves a job to the next status in the forward order (pending, in_progress, complete, paid).
// @Tags jobs
// @Accept  json
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   job_id path string true "Job ID"
// @Param   transition body dto.TransitionRequest false "Artifacts accompanying the change"
// @Success 200 {object} dto.JobResponse
// @Failure 400 {object} map[string]string "Invalid input or missing signature"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden for this role"
// @Failure 404 {object} map[string]string "Job not found"
// @Failure 409 {object} map[string]string "Job is already in a terminal status"
// @Security BearerAuth
// @Router /companies/{company_id}/jobs/{job_id}/advance [post]
func (h *jobHandler) advance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")
	jobID := c.Param("job_id")

	var req dto.TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": bindingErrorMessage(err)})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	job, err := h.jobService.Advance(c.Request.Context(), companyID, jobID, req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to advance job")
		return
	}

	c.JSON(http.StatusOK, dto.ToJobResponse(job))
}

// assignWorkers godoc
// @Summary Assign workers to a job
// @Description Replaces the job's assigned worker set. Requires admin role; all workers must be company members.
// @Tags jobs
// @Accept  json
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   job_id path string true "Job ID"
// @Param   assignment body dto.AssignWorkersRequest true "Worker IDs"
// @Success 200 {object} dto.JobResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden (caller is not admin)"
// @Failure 404 {object} map[string]string "Job or worker not found"
// @Security BearerAuth
// @Router /companies/{company_id}/jobs/{job_id}/assignees [put]
func (h *jobHandler) assignWorkers(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")
	jobID := c.Param("job_id")

	var req dto.AssignWorkersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": bindingErrorMessage(err)})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	job, err := h.jobService.AssignWorkers(c.Request.Context(), companyID, jobID, req.WorkerIDs, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to assign workers")
		return
	}

	c.JSON(http.StatusOK, dto.ToJobResponse(job))
}

// attachArtifacts godoc
// @Summary Attach job artifacts
// @Description Adds completion artifacts (photos, signature, price) to a job outside of a status change.
// @Tags jobs
// @Accept  json
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   job_id path string true "Job ID"
// @Param   artifacts body dto.JobArtifactsRequest true "Artifacts"
// @Success 200 {object} dto.JobResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Job not found"
// @Security BearerAuth
// @Router /companies/{company_id}/jobs/{job_id}/artifacts [post]
func (h *jobHandler) attachArtifacts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")
	jobID := c.Param("job_id")

	var req dto.JobArtifactsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": bindingErrorMessage(err)})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	job, err := h.jobService.AttachArtifacts(c.Request.Context(), companyID, jobID, req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to attach artifacts")
		return
	}

	c.JSON(http.StatusOK, dto.ToJobResponse(job))
}
