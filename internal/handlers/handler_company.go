package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	portssvc "github.com/tradeflowhq/tradeflow_backend/internal/core/ports/services"
	"github.com/tradeflowhq/tradeflow_backend/internal/dto"
	"github.com/tradeflowhq/tradeflow_backend/internal/middleware"
)

// companyHandler handles HTTP requests related to companies and membership.
type companyHandler struct {
	companyService portssvc.CompanySvcFacade
}

// newCompanyHandler creates a new companyHandler.
func newCompanyHandler(cs portssvc.CompanySvcFacade) *companyHandler {
	return &companyHandler{
		companyService: cs,
	}
}

// registerCompanyRoutes registers routes related to companies and their
// members. It also registers CUSTOMER, JOB, DOCUMENT and EVENT routes nested
// under a specific company.
func registerCompanyRoutes(rg *gin.RouterGroup, services *portssvc.ServiceContainer) {
	h := newCompanyHandler(services.Company)

	// Routes for managing companies themselves
	companiesTopLevel := rg.Group("/companies")
	{
		companiesTopLevel.POST("", h.createCompany)
		companiesTopLevel.GET("", h.listUserCompanies) // List companies the calling user belongs to
	}

	// Routes specific to a single company (identified by company_id)
	companySpecific := rg.Group("/companies/:company_id")
	{
		companySpecific.GET("", h.getCompany)
		companySpecific.PUT("", h.updateCompany)

		// Manage members within a company
		members := companySpecific.Group("/members")
		{
			members.GET("", h.listMembers)
			members.POST("", h.addMember)
			members.PUT("/:user_id", h.updateMemberRole)
		}

		// Admin view of the company's sequence counters
		registerSequenceRoutes(companySpecific, services.Sequence)

		// -- NESTED CUSTOMER ROUTES --
		registerCustomerRoutes(companySpecific, services.Customer)

		// -- NESTED JOB ROUTES --
		RegisterJobRoutes(companySpecific, services.Job)

		// -- NESTED DOCUMENT ROUTES --
		registerDocumentRoutes(companySpecific, services.Document)

		// -- NESTED EVENT STREAM ROUTES --
		registerEventRoutes(companySpecific, services)
	}
}

// createCompany godoc
// @Summary Create a new company
// @Description Creates a new company and assigns the creator as admin.
// @Tags companies
// @Accept  json
// @Produce  json
// @Param   company body dto.CreateCompanyRequest true "Company details"
// @Success 201 {object} dto.CompanyResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to create company"
// @Security BearerAuth
// @Router /companies [post]
func (h *companyHandler) createCompany(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateCompany", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": bindingErrorMessage(err)})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Creator user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("creator_user_id", creatorUserID))
	logger.Info("Received request to create company", slog.String("company_name", req.Name))

	newCompany, err := h.companyService.CreateCompany(c.Request.Context(), req, creatorUserID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create company")
		return
	}

	logger.Info("Company created successfully", slog.String("company_id", newCompany.CompanyID))
	c.JSON(http.StatusCreated, dto.ToCompanyResponse(newCompany))
}

// listUserCompanies godoc
// @Summary List companies for current user
// @Description Retrieves a list of companies the authenticated user belongs to.
// @Tags companies
// @Produce  json
// @Success 200 {array} dto.CompanyResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list companies"
// @Security BearerAuth
// @Router /companies [get]
func (h *companyHandler) listUserCompanies(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	companies, err := h.companyService.ListUserCompanies(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list companies")
		return
	}

	c.JSON(http.StatusOK, dto.ToListCompanyResponse(companies))
}

// getCompany godoc
// @Summary Get a company
// @Description Retrieves a company's details. The caller must be a member.
// @Tags companies
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Success 200 {object} dto.CompanyResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Company not found"
// @Security BearerAuth
// @Router /companies/{company_id} [get]
func (h *companyHandler) getCompany(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	company, err := h.companyService.FindCompanyByID(c.Request.Context(), companyID, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve company")
		return
	}

	c.JSON(http.StatusOK, dto.ToCompanyResponse(company))
}

// updateCompany godoc
// @Summary Update a company
// @Description Updates company details. Requires admin role in the company.
// @Tags companies
// @Accept  json
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   company body dto.UpdateCompanyRequest true "Company details"
// @Success 200 {object} dto.CompanyResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden (caller is not admin)"
// @Failure 404 {object} map[string]string "Company not found"
// @Security BearerAuth
// @Router /companies/{company_id} [put]
func (h *companyHandler) updateCompany(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")

	var req dto.UpdateCompanyRequest
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

	company, err := h.companyService.UpdateCompany(c.Request.Context(), companyID, req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to update company")
		return
	}

	c.JSON(http.StatusOK, dto.ToCompanyResponse(company))
}

// listMembers godoc
// @Summary List company members
// @Description Retrieves all members of a company and their roles.
// @Tags companies
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Success 200 {array} dto.MemberResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Security BearerAuth
// @Router /companies/{company_id}/members [get]
func (h *companyHandler) listMembers(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	members, err := h.companyService.ListCompanyMembers(c.Request.Context(), companyID, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list members")
		return
	}

	c.JSON(http.StatusOK, dto.ToListMemberResponse(members))
}

// addMember godoc
// @Summary Add a user to a company
// @Description Adds a specified user to a company with a given role (requires admin permission).
// @Tags companies
// @Accept  json
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   member body dto.AddMemberRequest true "User ID and Role"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden (caller is not admin)"
// @Failure 404 {object} map[string]string "Company or User not found"
// @Security BearerAuth
// @Router /companies/{company_id}/members [post]
func (h *companyHandler) addMember(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")

	var req dto.AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for AddMember", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": bindingErrorMessage(err)})
		return
	}

	addingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Adding user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("adding_user_id", addingUserID), slog.String("company_id", companyID), slog.String("target_user_id", req.UserID))
	logger.Info("Received request to add member", slog.String("role", string(req.Role)))

	err := h.companyService.AddUserToCompany(c.Request.Context(), addingUserID, req.UserID, companyID, req.Role)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to add member")
		return
	}

	c.Status(http.StatusNoContent)
}

// updateMemberRole godoc
// @Summary Change a member's role
// @Description Updates a member's role in a company (requires admin permission). Setting the role to REMOVED revokes access.
// @Tags companies
// @Accept  json
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   user_id path string true "Target User ID"
// @Param   role body dto.UpdateMemberRoleRequest true "New role"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Company or member not found"
// @Security BearerAuth
// @Router /companies/{company_id}/members/{user_id} [put]
func (h *companyHandler) updateMemberRole(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")
	targetUserID := c.Param("user_id")

	var req dto.UpdateMemberRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": bindingErrorMessage(err)})
		return
	}

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	err := h.companyService.UpdateUserCompanyRole(c.Request.Context(), requestingUserID, targetUserID, companyID, req.Role)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to update member role")
		return
	}

	c.Status(http.StatusNoContent)
}
