package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tradeflowhq/tradeflow_backend/internal/apperrors"
	"github.com/tradeflowhq/tradeflow_backend/internal/core/domain"
	portsrepo "github.com/tradeflowhq/tradeflow_backend/internal/core/ports/repositories"
	"github.com/tradeflowhq/tradeflow_backend/internal/models"
	"github.com/tradeflowhq/tradeflow_backend/internal/utils"
	"github.com/tradeflowhq/tradeflow_backend/internal/utils/mapping"
)

type PgxDocumentRepository struct {
	BaseRepository
	sequenceRepo portsrepo.SequenceRepository
}

func newPgxDocumentRepository(pool *pgxpool.Pool, sequenceRepo portsrepo.SequenceRepository) portsrepo.DocumentRepositoryFacade {
	return &PgxDocumentRepository{
		BaseRepository: BaseRepository{Pool: pool},
		sequenceRepo:   sequenceRepo,
	}
}

// Ensure PgxDocumentRepository implements portsrepo.DocumentRepositoryFacade
var _ portsrepo.DocumentRepositoryFacade = (*PgxDocumentRepository)(nil)

const fullDocumentSelectQuery = `
	SELECT document_id, company_id, job_id, kind, number, reference, status, customer_id,
	       items, discount_percent, subtotal, vat_total, discount_amount, grand_total, payload,
	       created_at, created_by, last_updated_at, last_updated_by
	FROM documents
`

const insertDocumentQuery = `
	INSERT INTO documents (document_id, company_id, job_id, kind, number, reference, status, customer_id,
	                       items, discount_percent, subtotal, vat_total, discount_amount, grand_total, payload,
	                       created_at, created_by, last_updated_at, last_updated_by)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19);
`

// getDocuments executes the shared select with an optional filter clause and
// maps the rows to domain documents.
func (r *PgxDocumentRepository) getDocuments(ctx context.Context, filterQuery string, args ...interface{}) ([]domain.Document, error) {
	query := fullDocumentSelectQuery + filterQuery
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	defer rows.Close()

	modelDocs, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Document])
	if err != nil {
		return nil, fmt.Errorf("failed to collect document rows: %w", err)
	}
	return mapping.ToDomainDocumentSlice(modelDocs)
}

func (r *PgxDocumentRepository) FindDocumentByID(ctx context.Context, documentID string) (*domain.Document, error) {
	docs, err := r.getDocuments(ctx, " WHERE document_id = $1;", documentID)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return &docs[0], nil
}

func (r *PgxDocumentRepository) ListDocuments(ctx context.Context, companyID string, kind *domain.DocumentKind, limit, offset int) ([]domain.Document, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	if kind == nil {
		return r.getDocuments(ctx, " WHERE company_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3;", companyID, limit, offset)
	}
	return r.getDocuments(ctx, " WHERE company_id = $1 AND kind = $2 ORDER BY created_at DESC LIMIT $3 OFFSET $4;",
		companyID, string(*kind), limit, offset)
}

func (r *PgxDocumentRepository) CreateDocument(ctx context.Context, doc domain.Document, counter string) (*domain.Document, error) {
	created, err := r.insertDocument(ctx, doc, counter)
	if err == nil {
		return created, nil
	}
	// An unrecognized kind tag is downgraded rather than losing the document;
	// the payload bytes are carried over untouched.
	if isCheckViolation(err) && doc.Kind != domain.KindOther {
		doc.Kind = domain.KindOther
		return r.insertDocument(ctx, doc, counter)
	}
	return nil, err
}

func (r *PgxDocumentRepository) insertDocument(ctx context.Context, doc domain.Document, counter string) (*domain.Document, error) {
	tx, err := r.Pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to begin transaction for document creation", err)
	}
	defer tx.Rollback(ctx)

	seq, err := r.sequenceRepo.AllocateNextInTx(ctx, tx, doc.CompanyID, counter)
	if err != nil {
		return nil, err
	}
	doc.Number = seq
	doc.Reference = utils.FormatDocumentReference(doc.Kind, seq)
	if doc.Payload != nil && doc.Payload.CertificateNumber == "" {
		// The certificate number exists only once the sequence has spoken.
		payload := *doc.Payload
		payload.CertificateNumber = doc.Reference
		doc.Payload = &payload
	}

	modelDoc, err := mapping.ToModelDocument(doc)
	if err != nil {
		return nil, err
	}
	_, err = tx.Exec(ctx, insertDocumentQuery,
		modelDoc.DocumentID,
		modelDoc.CompanyID,
		modelDoc.JobID,
		modelDoc.Kind,
		modelDoc.Number,
		modelDoc.Reference,
		modelDoc.Status,
		modelDoc.CustomerID,
		modelDoc.Items,
		modelDoc.DiscountPercent,
		modelDoc.Subtotal,
		modelDoc.VATTotal,
		modelDoc.DiscountAmount,
		modelDoc.GrandTotal,
		modelDoc.Payload,
		modelDoc.CreatedAt,
		modelDoc.CreatedBy,
		modelDoc.LastUpdatedAt,
		modelDoc.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperrors.NewConflictError(fmt.Sprintf("document with ID %s already exists", doc.DocumentID))
		}
		if isForeignKeyViolation(err) {
			return nil, apperrors.NewValidationFailedError("referenced company, job or customer does not exist")
		}
		return nil, fmt.Errorf("failed to insert document: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		if isSerializationFailure(err) {
			return nil, fmt.Errorf("document number allocation for company %s lost a concurrent race: %w", doc.CompanyID, apperrors.ErrSequenceConflict)
		}
		return nil, apperrors.NewAppError(500, "failed to commit document creation", err)
	}
	return &doc, nil
}

func (r *PgxDocumentRepository) UpdateDocumentStatus(ctx context.Context, documentID string, status domain.DocumentStatus, updatedBy string, now time.Time) error {
	// Deliberately narrow: the payload column stays out of reach of status
	// updates.
	query := `
		UPDATE documents SET
			status = $2,
			last_updated_at = $3,
			last_updated_by = $4
		WHERE document_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query, documentID, string(status), now, updatedBy)
	if err != nil {
		return fmt.Errorf("failed to update document %s status: %w", documentID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
