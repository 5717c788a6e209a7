package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tradeflowhq/tradeflow_backend/internal/apperrors"
	"github.com/tradeflowhq/tradeflow_backend/internal/core/domain"
	portsrepo "github.com/tradeflowhq/tradeflow_backend/internal/core/ports/repositories"
	portssvc "github.com/tradeflowhq/tradeflow_backend/internal/core/ports/services"
	"github.com/tradeflowhq/tradeflow_backend/internal/dto"
)

var decimalHundred = decimal.NewFromInt(100)

// documentService implements the DocumentSvcFacade interface
type documentService struct {
	BaseService
	documentRepo portsrepo.DocumentRepositoryFacade
	customerRepo portsrepo.CustomerReader
	companyRepo  portsrepo.CompanyReader
	jobRepo      portsrepo.JobRepositoryFacade
	userRepo     portsrepo.UserReader
	notifier     portssvc.NotifierSvc
}

// NewDocumentService creates a new document service with the provided dependencies
func NewDocumentService(
	documentRepo portsrepo.DocumentRepositoryFacade,
	customerRepo portsrepo.CustomerReader,
	companyRepo portsrepo.CompanyReader,
	jobRepo portsrepo.JobRepositoryFacade,
	userRepo portsrepo.UserReader,
	authorizer portssvc.CompanyAuthorizerSvc,
	notifier portssvc.NotifierSvc,
) portssvc.DocumentSvcFacade {
	return &documentService{
		BaseService:  BaseService{CompanyAuthorizer: authorizer},
		documentRepo: documentRepo,
		customerRepo: customerRepo,
		companyRepo:  companyRepo,
		jobRepo:      jobRepo,
		userRepo:     userRepo,
		notifier:     notifier,
	}
}

// Ensure documentService implements the DocumentSvcFacade interface
var _ portssvc.DocumentSvcFacade = (*documentService)(nil)

// GetDocument retrieves a document, visible only to members of the owning
// company. Locked documents render from their stored payload as persisted.
func (s *documentService) GetDocument(ctx context.Context, companyID, documentID, requestingUserID string) (*domain.Document, error) {
	if err := s.AuthorizeUser(ctx, requestingUserID, companyID, domain.RoleWorker); err != nil {
		return nil, err
	}
	return s.findCompanyDocument(ctx, companyID, documentID)
}

// ListDocuments retrieves a paginated list of a company's documents.
func (s *documentService) ListDocuments(ctx context.Context, companyID string, params dto.ListDocumentsParams, requestingUserID string) ([]domain.Document, error) {
	if err := s.AuthorizeUser(ctx, requestingUserID, companyID, domain.RoleWorker); err != nil {
		return nil, err
	}

	var kind *domain.DocumentKind
	if params.Kind != "" {
		k := domain.DocumentKind(params.Kind)
		switch k {
		case domain.KindQuote, domain.KindInvoice, domain.KindGasCertificate, domain.KindOther:
			kind = &k
		default:
			return nil, fmt.Errorf("%w: unknown document kind %q", apperrors.ErrValidation, params.Kind)
		}
	}

	docs, err := s.documentRepo.ListDocuments(ctx, companyID, kind, params.Limit, params.Offset)
	if err != nil {
		s.LogError(ctx, err, "Failed to list documents", slog.String("company_id", companyID))
		return nil, err
	}
	if docs == nil {
		return []domain.Document{}, nil
	}
	return docs, nil
}

// CreateQuote creates a draft quote with computed totals.
func (s *documentService) CreateQuote(ctx context.Context, companyID string, req dto.CreateDocumentRequest, creatorUserID string) (*domain.Document, error) {
	return s.createCommercialDocument(ctx, companyID, req, creatorUserID, domain.KindQuote, domain.DocDraft, portsrepo.CounterQuoteNumber)
}

// CreateInvoice creates an unpaid invoice with computed totals.
func (s *documentService) CreateInvoice(ctx context.Context, companyID string, req dto.CreateDocumentRequest, creatorUserID string) (*domain.Document, error) {
	return s.createCommercialDocument(ctx, companyID, req, creatorUserID, domain.KindInvoice, domain.DocUnpaid, portsrepo.CounterInvoiceNumber)
}

func (s *documentService) createCommercialDocument(ctx context.Context, companyID string, req dto.CreateDocumentRequest, creatorUserID string, kind domain.DocumentKind, status domain.DocumentStatus, counter string) (*domain.Document, error) {
	if err := s.AuthorizeUser(ctx, creatorUserID, companyID, domain.RoleAdmin); err != nil {
		return nil, err
	}

	items := req.ToLineItems()
	for _, item := range items {
		if item.Quantity.IsNegative() || item.UnitPrice.IsNegative() || item.VATPercent.IsNegative() {
			return nil, fmt.Errorf("%w: line item amounts must not be negative", apperrors.ErrValidation)
		}
	}
	if req.DiscountPercent.IsNegative() || req.DiscountPercent.GreaterThan(decimalHundred) {
		return nil, fmt.Errorf("%w: discount percent must be between 0 and 100", apperrors.ErrValidation)
	}

	if req.CustomerID != nil {
		customer, err := s.customerRepo.FindCustomerByID(ctx, *req.CustomerID)
		if err != nil {
			return nil, err
		}
		if customer.CompanyID != companyID {
			return nil, apperrors.ErrNotFound
		}
	}
	if req.JobID != nil {
		if _, err := s.findCompanyJob(ctx, companyID, *req.JobID); err != nil {
			return nil, err
		}
	}

	now := time.Now()
	doc := domain.Document{
		DocumentID:      uuid.NewString(),
		CompanyID:       companyID,
		JobID:           req.JobID,
		Kind:            kind,
		Status:          status,
		CustomerID:      req.CustomerID,
		Items:           items,
		DiscountPercent: req.DiscountPercent,
		Totals:          domain.ComputeTotals(items, req.DiscountPercent),
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	created, err := s.persistDocument(ctx, doc, counter)
	if err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Document created",
		slog.String("document_id", created.DocumentID),
		slog.String("reference", created.Reference),
		slog.String("kind", string(kind)),
		slog.String("company_id", companyID))
	s.notifier.NotifyCompany(companyID)
	return created, nil
}

// UpdateDocumentStatus moves a document through its commercial lifecycle.
func (s *documentService) UpdateDocumentStatus(ctx context.Context, companyID, documentID string, status domain.DocumentStatus, requestingUserID string) (*domain.Document, error) {
	if err := s.AuthorizeUser(ctx, requestingUserID, companyID, domain.RoleAdmin); err != nil {
		return nil, err
	}
	doc, err := s.findCompanyDocument(ctx, companyID, documentID)
	if err != nil {
		return nil, err
	}
	if !kindAllowsStatus(doc.Kind, status) {
		return nil, fmt.Errorf("%w: a %s cannot be %s", apperrors.ErrValidation, doc.Kind, status)
	}

	if err := s.documentRepo.UpdateDocumentStatus(ctx, documentID, status, requestingUserID, time.Now()); err != nil {
		s.LogError(ctx, err, "Failed to update document status",
			slog.String("document_id", documentID),
			slog.String("status", string(status)))
		return nil, err
	}

	s.notifier.NotifyCompany(companyID)
	return s.findCompanyDocument(ctx, companyID, documentID)
}

// IssueCertificate resolves live company, customer, inspection and signature
// data, freezes it into an immutable payload, and persists it as a document.
func (s *documentService) IssueCertificate(ctx context.Context, companyID string, req dto.IssueCertificateRequest, actorUserID string) (*domain.Document, error) {
	if err := s.AuthorizeUser(ctx, actorUserID, companyID, domain.RoleWorker); err != nil {
		return nil, err
	}

	company, err := s.companyRepo.FindCompanyByID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	customer, err := s.customerRepo.FindCustomerByID(ctx, req.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer.CompanyID != companyID {
		return nil, apperrors.ErrNotFound
	}

	var landlord *domain.CustomerSnapshot
	if req.LandlordID != nil {
		landlordCustomer, err := s.customerRepo.FindCustomerByID(ctx, *req.LandlordID)
		if err != nil {
			return nil, err
		}
		if landlordCustomer.CompanyID != companyID {
			return nil, apperrors.ErrNotFound
		}
		snapshot := landlordCustomer.Snapshot()
		landlord = &snapshot
	}

	var job *domain.Job
	if req.JobID != nil {
		job, err = s.findCompanyJob(ctx, companyID, *req.JobID)
		if err != nil {
			return nil, err
		}
	}

	engineer, err := s.userRepo.FindUserByID(ctx, actorUserID)
	if err != nil {
		return nil, err
	}

	appliances := make([]domain.ApplianceInspection, len(req.Appliances))
	for i, a := range req.Appliances {
		appliances[i] = domain.ApplianceInspection{
			Location:          a.Location,
			ApplianceType:     a.ApplianceType,
			Make:              a.Make,
			Model:             a.Model,
			OperatingPressure: a.OperatingPressure,
			SafetyDeviceOK:    a.SafetyDeviceOK,
			FlueTestPassed:    a.FlueTestPassed,
			Result:            a.Result,
			DefectsIdentified: a.DefectsIdentified,
			RemedialAction:    a.RemedialAction,
		}
	}

	now := time.Now()
	payload := domain.CertificatePayload{
		Company:      company.Details(),
		Customer:     customer.Snapshot(),
		Landlord:     landlord,
		Appliances:   appliances,
		EngineerName: engineer.Name,
		Signature:    req.Signature,
		IssuedAt:     now,
		NextDueDate:  req.NextDueAt,
	}
	if job != nil {
		payload.JobReference = job.Reference
	}
	// An incomplete certificate is rejected before anything is written.
	if err := payload.Validate(); err != nil {
		return nil, err
	}

	doc := domain.Document{
		DocumentID: uuid.NewString(),
		CompanyID:  companyID,
		JobID:      req.JobID,
		Kind:       domain.KindGasCertificate,
		Status:     domain.DocSent,
		CustomerID: &req.CustomerID,
		Payload:    &payload,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorUserID,
		},
	}

	created, err := s.persistDocument(ctx, doc, portsrepo.CounterCertificateNumber)
	if err != nil {
		return nil, err
	}

	if job != nil {
		activity := domain.JobActivity{
			ActivityID: uuid.NewString(),
			JobID:      job.JobID,
			CompanyID:  companyID,
			ActorID:    actorUserID,
			Action:     domain.ActionDocumentIssued,
			Details:    map[string]string{"documentID": created.DocumentID, "reference": created.Reference},
			CreatedAt:  now,
		}
		if err := s.jobRepo.AppendActivity(ctx, activity); err != nil {
			// The certificate is already committed; the missing trail entry
			// is logged, not surfaced.
			s.LogError(ctx, err, "Failed to record certificate issue on job",
				slog.String("job_id", job.JobID),
				slog.String("document_id", created.DocumentID))
		}
		s.notifier.NotifyJob(companyID, job.JobID)
	} else {
		s.notifier.NotifyCompany(companyID)
	}

	s.LogInfo(ctx, "Certificate issued",
		slog.String("document_id", created.DocumentID),
		slog.String("reference", created.Reference),
		slog.String("company_id", companyID))
	return created, nil
}

// persistDocument creates the document, retrying lost allocation races.
func (s *documentService) persistDocument(ctx context.Context, doc domain.Document, counter string) (*domain.Document, error) {
	var created *domain.Document
	var err error
	for attempt := 0; attempt <= allocationRetries; attempt++ {
		created, err = s.documentRepo.CreateDocument(ctx, doc, counter)
		if err == nil || !errors.Is(err, apperrors.ErrSequenceConflict) {
			break
		}
		s.LogDebug(ctx, "Document creation lost an allocation race, retrying",
			slog.String("company_id", doc.CompanyID),
			slog.Int("attempt", attempt+1))
	}
	if err != nil {
		s.LogError(ctx, err, "Failed to create document", slog.String("company_id", doc.CompanyID))
		return nil, err
	}
	return created, nil
}

func (s *documentService) findCompanyDocument(ctx context.Context, companyID, documentID string) (*domain.Document, error) {
	doc, err := s.documentRepo.FindDocumentByID(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if doc.CompanyID != companyID {
		return nil, apperrors.ErrNotFound
	}
	return doc, nil
}

func (s *documentService) findCompanyJob(ctx context.Context, companyID, jobID string) (*domain.Job, error) {
	job, err := s.jobRepo.FindJobByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.CompanyID != companyID {
		return nil, apperrors.ErrNotFound
	}
	return job, nil
}

// kindAllowsStatus restricts each document kind to its own lifecycle.
func kindAllowsStatus(kind domain.DocumentKind, status domain.DocumentStatus) bool {
	switch kind {
	case domain.KindQuote:
		return status == domain.DocDraft || status == domain.DocSent ||
			status == domain.DocAccepted || status == domain.DocDeclined
	case domain.KindInvoice:
		return status == domain.DocSent || status == domain.DocUnpaid ||
			status == domain.DocPaid || status == domain.DocOverdue
	default:
		// Certificates and fallback-tagged documents have no commercial
		// lifecycle to walk.
		return false
	}
}
