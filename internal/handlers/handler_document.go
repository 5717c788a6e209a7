package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	portssvc "github.com/tradeflowhq/tradeflow_backend/internal/core/ports/services"
	"github.com/tradeflowhq/tradeflow_backend/internal/dto"
	"github.com/tradeflowhq/tradeflow_backend/internal/middleware"
)

// documentHandler handles HTTP requests related to quotes, invoices and
// certificates.
type documentHandler struct {
	documentService portssvc.DocumentSvcFacade
}

// newDocumentHandler creates a new documentHandler.
func newDocumentHandler(ds portssvc.DocumentSvcFacade) *documentHandler {
	return &documentHandler{
		documentService: ds,
	}
}

// registerDocumentRoutes registers document routes nested under a company.
func registerDocumentRoutes(rg *gin.RouterGroup, documentService portssvc.DocumentSvcFacade) {
	h := newDocumentHandler(documentService)

	documents := rg.Group("/documents")
	{
		documents.GET("", h.listDocuments)
		documents.GET("/:document_id", h.getDocument)
		documents.PUT("/:document_id/status", h.updateStatus)
	}

	rg.POST("/quotes", h.createQuote)
	rg.POST("/invoices", h.createInvoice)
	rg.POST("/certificates", h.issueCertificate)
}

// createQuote godoc
// @Summary Create a quote
// @Description Creates a draft quote, minting its number from the company's quote counter and computing its totals server-side.
// @Tags documents
// @Accept  json
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   quote body dto.CreateDocumentRequest true "Quote line items"
// @Success 201 {object} dto.DocumentResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Customer or job not found"
// @Security BearerAuth
// @Router /companies/{company_id}/quotes [post]
func (h *documentHandler) createQuote(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")

	var req dto.CreateDocumentRequest
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

	doc, err := h.documentService.CreateQuote(c.Request.Context(), companyID, req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create quote")
		return
	}

	logger.Info("Quote created", slog.String("document_id", doc.DocumentID), slog.String("reference", doc.Reference))
	c.JSON(http.StatusCreated, dto.ToDocumentResponse(doc))
}

// createInvoice godoc
// @Summary Create an invoice
// @Description Creates an unpaid invoice, minting its number from the company's invoice counter and computing its totals server-side.
// @Tags documents
// @Accept  json
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   invoice body dto.CreateDocumentRequest true "Invoice line items"
// @Success 201 {object} dto.DocumentResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Customer or job not found"
// @Security BearerAuth
// @Router /companies/{company_id}/invoices [post]
func (h *documentHandler) createInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")

	var req dto.CreateDocumentRequest
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

	doc, err := h.documentService.CreateInvoice(c.Request.Context(), companyID, req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create invoice")
		return
	}

	logger.Info("Invoice created", slog.String("document_id", doc.DocumentID), slog.String("reference", doc.Reference))
	c.JSON(http.StatusCreated, dto.ToDocumentResponse(doc))
}

// issueCertificate godoc
// @Summary Issue a gas safety certificate
// @Description Resolves the live company, customer and inspection data, freezes it into an immutable snapshot, and persists it in one transaction. Fails without writing anything if a required field is missing.
// @Tags documents
// @Accept  json
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   certificate body dto.IssueCertificateRequest true "Inspection details"
// @Success 201 {object} dto.DocumentResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Customer or job not found"
// @Failure 422 {object} map[string]string "Required snapshot field missing"
// @Security BearerAuth
// @Router /companies/{company_id}/certificates [post]
func (h *documentHandler) issueCertificate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")

	var req dto.IssueCertificateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for IssueCertificate", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": bindingErrorMessage(err)})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("company_id", companyID), slog.String("customer_id", req.CustomerID))
	logger.Info("Received request to issue certificate")

	doc, err := h.documentService.IssueCertificate(c.Request.Context(), companyID, req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to issue certificate")
		return
	}

	logger.Info("Certificate issued", slog.String("document_id", doc.DocumentID), slog.String("reference", doc.Reference))
	c.JSON(http.StatusCreated, dto.ToDocumentResponse(doc))
}

// listDocuments godoc
// @Summary List documents
// @Description Retrieves a paginated list of the company's documents, optionally filtered by kind.
// @Tags documents
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   kind query string false "Kind filter (quote, invoice, gas_certificate, other)"
// @Param   limit query int false "Page size" default(20)
// @Param   offset query int false "Offset" default(0)
// @Success 200 {array} dto.DocumentResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Security BearerAuth
// @Router /companies/{company_id}/documents [get]
func (h *documentHandler) listDocuments(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")

	var params dto.ListDocumentsParams
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

	docs, err := h.documentService.ListDocuments(c.Request.Context(), companyID, params, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list documents")
		return
	}

	c.JSON(http.StatusOK, dto.ToListDocumentResponse(docs))
}

// getDocument godoc
// @Summary Get a document
// @Description Retrieves a document. Locked documents are rendered from their stored snapshot only.
// @Tags documents
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   document_id path string true "Document ID"
// @Success 200 {object} dto.DocumentResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Document not found"
// @Security BearerAuth
// @Router /companies/{company_id}/documents/{document_id} [get]
func (h *documentHandler) getDocument(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")
	documentID := c.Param("document_id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	doc, err := h.documentService.GetDocument(c.Request.Context(), companyID, documentID, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve document")
		return
	}

	c.JSON(http.StatusOK, dto.ToDocumentResponse(doc))
}

// updateStatus godoc
// @Summary Update a document's status
// @Description Moves a document through its commercial lifecycle (sent, accepted, paid, ...). The snapshot of a locked document is never touched. Certificates have no lifecycle.
// @Tags documents
// @Accept  json
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   document_id path string true "Document ID"
// @Param   status body dto.UpdateDocumentStatusRequest true "New status"
// @Success 200 {object} dto.DocumentResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Document not found"
// @Failure 409 {object} map[string]string "Status not allowed for this document kind"
// @Security BearerAuth
// @Router /companies/{company_id}/documents/{document_id}/status [put]
func (h *documentHandler) updateStatus(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")
	documentID := c.Param("document_id")

	var req dto.UpdateDocumentStatusRequest
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

	doc, err := h.documentService.UpdateDocumentStatus(c.Request.Context(), companyID, documentID, req.Status, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to update document status")
		return
	}

	c.JSON(http.StatusOK, dto.ToDocumentResponse(doc))
}
