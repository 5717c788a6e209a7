package services

import (
	"context"

	"github.com/tradeflowhq/tradeflow_backend/internal/core/domain"
	"github.com/tradeflowhq/tradeflow_backend/internal/dto"
)

// DocumentReaderSvc defines read operations for documents
type DocumentReaderSvc interface {
	// GetDocument retrieves a document. Locked documents are rendered from
	// their stored payload only.
	GetDocument(ctx context.Context, companyID, documentID, requestingUserID string) (*domain.Document, error)

	// ListDocuments retrieves a paginated list of a company's documents.
	ListDocuments(ctx context.Context, companyID string, params dto.ListDocumentsParams, requestingUserID string) ([]domain.Document, error)
}

// DocumentWriterSvc defines write operations for documents
type DocumentWriterSvc interface {
	// CreateQuote creates a draft quote, minting its number from the
	// company's quote counter and computing its totals.
	CreateQuote(ctx context.Context, companyID string, req dto.CreateDocumentRequest, creatorUserID string) (*domain.Document, error)

	// CreateInvoice creates an unpaid invoice, minting its number from the
	// company's invoice counter and computing its totals.
	CreateInvoice(ctx context.Context, companyID string, req dto.CreateDocumentRequest, creatorUserID string) (*domain.Document, error)

	// UpdateDocumentStatus moves a document through its commercial lifecycle
	// (sent, accepted, paid, ...). The payload of a locked document is never
	// touched.
	UpdateDocumentStatus(ctx context.Context, companyID, documentID string, status domain.DocumentStatus, requestingUserID string) (*domain.Document, error)
}

// CertificateIssuerSvc locks and persists compliance certificates.
type CertificateIssuerSvc interface {
	// IssueCertificate resolves the live company, customer, inspection and
	// signature data, freezes it into an immutable payload, and persists it
	// as a document in one transaction. Missing required fields fail with
	// apperrors.ErrIncompleteSnapshot and nothing is written.
	IssueCertificate(ctx context.Context, companyID string, req dto.IssueCertificateRequest, actorUserID string) (*domain.Document, error)
}

// DocumentSvcFacade combines all document-related service interfaces.
type DocumentSvcFacade interface {
	DocumentReaderSvc
	DocumentWriterSvc
	CertificateIssuerSvc
}
