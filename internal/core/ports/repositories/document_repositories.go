package repositories

import (
	"context"
	"time"

	"github.com/tradeflowhq/tradeflow_backend/internal/core/domain"
)

// DocumentReader defines read operations for document data
type DocumentReader interface {
	// FindDocumentByID retrieves a document. For locked kinds the stored
	// payload is returned as persisted; no live rows are joined.
	FindDocumentByID(ctx context.Context, documentID string) (*domain.Document, error)

	// ListDocuments retrieves a paginated list of a company's documents,
	// optionally filtered by kind.
	ListDocuments(ctx context.Context, companyID string, kind *domain.DocumentKind, limit, offset int) ([]domain.Document, error)
}

// DocumentWriter defines write operations for document data
type DocumentWriter interface {
	// CreateDocument allocates the document number from the named counter and
	// inserts the document in one transaction. For locked kinds the payload
	// is serialized exactly once here; if the store rejects the kind value on
	// a constraint, the insert is retried with domain.KindOther while the
	// payload bytes stay untouched.
	CreateDocument(ctx context.Context, doc domain.Document, counter string) (*domain.Document, error)

	// UpdateDocumentStatus moves a document to a new lifecycle status. The
	// payload column is never written by this operation.
	UpdateDocumentStatus(ctx context.Context, documentID string, status domain.DocumentStatus, updatedBy string, now time.Time) error
}

// DocumentRepositoryFacade combines all document-related repository interfaces.
type DocumentRepositoryFacade interface {
	DocumentReader
	DocumentWriter
}
