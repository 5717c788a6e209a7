package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/tradeflowhq/tradeflow_backend/internal/apperrors"
	"github.com/tradeflowhq/tradeflow_backend/internal/core/domain"
	portsrepo "github.com/tradeflowhq/tradeflow_backend/internal/core/ports/repositories"
	portssvc "github.com/tradeflowhq/tradeflow_backend/internal/core/ports/services"
	"github.com/tradeflowhq/tradeflow_backend/internal/core/services"
	"github.com/tradeflowhq/tradeflow_backend/internal/dto"
	"github.com/tradeflowhq/tradeflow_backend/internal/utils/mapping"
)

// --- Mock DocumentRepository ---
type MockDocumentRepository struct {
	mock.Mock
}

func (m *MockDocumentRepository) FindDocumentByID(ctx context.Context, documentID string) (*domain.Document, error) {
	args := m.Called(ctx, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}

func (m *MockDocumentRepository) ListDocuments(ctx context.Context, companyID string, kind *domain.DocumentKind, limit, offset int) ([]domain.Document, error) {
	args := m.Called(ctx, companyID, kind, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Document), args.Error(1)
}

func (m *MockDocumentRepository) CreateDocument(ctx context.Context, doc domain.Document, counter string) (*domain.Document, error) {
	args := m.Called(ctx, doc, counter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}

func (m *MockDocumentRepository) UpdateDocumentStatus(ctx context.Context, documentID string, status domain.DocumentStatus, updatedBy string, now time.Time) error {
	args := m.Called(ctx, documentID, status, updatedBy, now)
	return args.Error(0)
}

// --- Mock UserReader ---
type MockUserReader struct {
	mock.Mock
}

func (m *MockUserReader) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserReader) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserReader) ListUsers(ctx context.Context, limit, offset int) ([]domain.User, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *MockUserReader) FindRefreshTokenDetails(ctx context.Context, userID string) (string, time.Time, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

// --- Test Suite ---
type DocumentServiceTestSuite struct {
	suite.Suite
	mockDocRepo      *MockDocumentRepository
	mockCustomerRepo *MockCustomerReader
	mockCompanyRepo  *MockCompanyReader
	mockJobRepo      *MockJobRepository
	mockUserRepo     *MockUserReader
	mockAuthorizer   *MockCompanyAuthorizer
	notifier         *fakeNotifier
	service          portssvc.DocumentSvcFacade

	companyID string
	adminID   string
}

func (suite *DocumentServiceTestSuite) SetupTest() {
	suite.mockDocRepo = new(MockDocumentRepository)
	suite.mockCustomerRepo = new(MockCustomerReader)
	suite.mockCompanyRepo = new(MockCompanyReader)
	suite.mockJobRepo = new(MockJobRepository)
	suite.mockUserRepo = new(MockUserReader)
	suite.mockAuthorizer = new(MockCompanyAuthorizer)
	suite.notifier = &fakeNotifier{}
	suite.service = services.NewDocumentService(
		suite.mockDocRepo,
		suite.mockCustomerRepo,
		suite.mockCompanyRepo,
		suite.mockJobRepo,
		suite.mockUserRepo,
		suite.mockAuthorizer,
		suite.notifier,
	)
	suite.companyID = uuid.NewString()
	suite.adminID = uuid.NewString()
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func (suite *DocumentServiceTestSuite) TestCreateInvoice_ComputesTotals() {
	ctx := context.Background()
	req := dto.CreateDocumentRequest{
		Items: []dto.LineItemRequest{
			{Description: "Labour", Quantity: dec("2"), UnitPrice: dec("50"), VATPercent: dec("20")},
		},
		DiscountPercent: dec("10"),
	}

	suite.mockAuthorizer.On("AuthorizeUserAction", ctx, suite.adminID, suite.companyID, domain.RoleAdmin).Return(nil).Once()
	suite.mockDocRepo.On("CreateDocument", ctx, mock.MatchedBy(func(d domain.Document) bool {
		return d.Kind == domain.KindInvoice &&
			d.Status == domain.DocUnpaid &&
			d.Totals.Subtotal.Equal(dec("100")) &&
			d.Totals.VATTotal.Equal(dec("20")) &&
			d.Totals.DiscountAmount.Equal(dec("10")) &&
			d.Totals.GrandTotal.Equal(dec("108"))
	}), portsrepo.CounterInvoiceNumber).Return(&domain.Document{
		DocumentID: uuid.NewString(),
		CompanyID:  suite.companyID,
		Kind:       domain.KindInvoice,
		Number:     1,
		Reference:  "INV-0001",
		Status:     domain.DocUnpaid,
	}, nil).Once()

	doc, err := suite.service.CreateInvoice(ctx, suite.companyID, req, suite.adminID)

	suite.Require().NoError(err)
	suite.Equal("INV-0001", doc.Reference)
	suite.Equal(1, suite.notifier.companyNotified)
	suite.mockDocRepo.AssertExpectations(suite.T())
}

func (suite *DocumentServiceTestSuite) TestCreateQuote_UsesQuoteCounter() {
	ctx := context.Background()
	req := dto.CreateDocumentRequest{
		Items: []dto.LineItemRequest{
			{Description: "Boiler survey", Quantity: dec("1"), UnitPrice: dec("120"), VATPercent: dec("20")},
		},
	}

	suite.mockAuthorizer.On("AuthorizeUserAction", ctx, suite.adminID, suite.companyID, domain.RoleAdmin).Return(nil).Once()
	suite.mockDocRepo.On("CreateDocument", ctx, mock.MatchedBy(func(d domain.Document) bool {
		return d.Kind == domain.KindQuote && d.Status == domain.DocDraft
	}), portsrepo.CounterQuoteNumber).Return(&domain.Document{
		DocumentID: uuid.NewString(),
		Reference:  "QTE-0001",
	}, nil).Once()

	doc, err := suite.service.CreateQuote(ctx, suite.companyID, req, suite.adminID)

	suite.Require().NoError(err)
	suite.Equal("QTE-0001", doc.Reference)
	suite.mockDocRepo.AssertExpectations(suite.T())
}

func (suite *DocumentServiceTestSuite) TestCreateInvoice_NegativeQuantityRejected() {
	ctx := context.Background()
	req := dto.CreateDocumentRequest{
		Items: []dto.LineItemRequest{
			{Description: "Labour", Quantity: dec("-1"), UnitPrice: dec("50")},
		},
	}

	suite.mockAuthorizer.On("AuthorizeUserAction", ctx, suite.adminID, suite.companyID, domain.RoleAdmin).Return(nil).Once()

	doc, err := suite.service.CreateInvoice(ctx, suite.companyID, req, suite.adminID)

	suite.Require().Error(err)
	suite.Nil(doc)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockDocRepo.AssertNotCalled(suite.T(), "CreateDocument", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *DocumentServiceTestSuite) certificateFixtures() (*domain.Company, *domain.Customer, *domain.User) {
	company := &domain.Company{
		CompanyID:     suite.companyID,
		Name:          "Holloway Heating Ltd",
		GasSafeNumber: "512345",
	}
	customer := &domain.Customer{
		CustomerID:   uuid.NewString(),
		CompanyID:    suite.companyID,
		Name:         "Jane Holloway",
		AddressLine1: "12 Mill Lane",
		Postcode:     "LS1 4AB",
	}
	engineer := &domain.User{
		UserID: suite.adminID,
		Name:   "Sam Carter",
	}
	return company, customer, engineer
}

func (suite *DocumentServiceTestSuite) TestIssueCertificate_FreezesLiveData() {
	ctx := context.Background()
	company, customer, engineer := suite.certificateFixtures()
	req := dto.IssueCertificateRequest{
		CustomerID: customer.CustomerID,
		Appliances: []dto.ApplianceInspectionRequest{
			{Location: "Kitchen", ApplianceType: "Boiler", Result: "pass"},
		},
		Signature: "sig/cert-1.png",
	}

	suite.mockAuthorizer.On("AuthorizeUserAction", ctx, suite.adminID, suite.companyID, domain.RoleWorker).Return(nil).Once()
	suite.mockCompanyRepo.On("FindCompanyByID", ctx, suite.companyID).Return(company, nil).Once()
	suite.mockCustomerRepo.On("FindCustomerByID", ctx, customer.CustomerID).Return(customer, nil).Once()
	suite.mockUserRepo.On("FindUserByID", ctx, suite.adminID).Return(engineer, nil).Once()
	suite.mockDocRepo.On("CreateDocument", ctx, mock.MatchedBy(func(d domain.Document) bool {
		return d.Kind == domain.KindGasCertificate &&
			d.Payload != nil &&
			d.Payload.Company.Name == company.Name &&
			d.Payload.Company.GasSafeNumber == company.GasSafeNumber &&
			d.Payload.Customer.Name == customer.Name &&
			d.Payload.EngineerName == engineer.Name &&
			d.Payload.Signature == req.Signature &&
			len(d.Payload.Appliances) == 1
	}), portsrepo.CounterCertificateNumber).Return(&domain.Document{
		DocumentID: uuid.NewString(),
		CompanyID:  suite.companyID,
		Kind:       domain.KindGasCertificate,
		Reference:  "CERT-0001",
	}, nil).Once()

	doc, err := suite.service.IssueCertificate(ctx, suite.companyID, req, suite.adminID)

	suite.Require().NoError(err)
	suite.Equal("CERT-0001", doc.Reference)
	suite.Equal(1, suite.notifier.companyNotified)
	suite.mockDocRepo.AssertExpectations(suite.T())
}

func (suite *DocumentServiceTestSuite) TestIssueCertificate_PayloadUnaffectedByLaterCustomerEdits() {
	ctx := context.Background()
	company, customer, engineer := suite.certificateFixtures()
	req := dto.IssueCertificateRequest{
		CustomerID: customer.CustomerID,
		Appliances: []dto.ApplianceInspectionRequest{
			{Location: "Kitchen", ApplianceType: "Boiler", Result: "pass"},
		},
		Signature: "sig/cert-1.png",
	}

	var issued []domain.Document
	suite.mockAuthorizer.On("AuthorizeUserAction", ctx, suite.adminID, suite.companyID, domain.RoleWorker).Return(nil).Twice()
	suite.mockCompanyRepo.On("FindCompanyByID", ctx, suite.companyID).Return(company, nil).Twice()
	suite.mockCustomerRepo.On("FindCustomerByID", ctx, customer.CustomerID).Return(customer, nil).Twice()
	suite.mockUserRepo.On("FindUserByID", ctx, suite.adminID).Return(engineer, nil).Twice()
	suite.mockDocRepo.On("CreateDocument", ctx, mock.AnythingOfType("domain.Document"), portsrepo.CounterCertificateNumber).
		Run(func(args mock.Arguments) {
			issued = append(issued, args.Get(1).(domain.Document))
		}).
		Return(&domain.Document{DocumentID: uuid.NewString(), Kind: domain.KindGasCertificate}, nil).Twice()

	_, err := suite.service.IssueCertificate(ctx, suite.companyID, req, suite.adminID)
	suite.Require().NoError(err)
	suite.Require().Len(issued, 1)

	// Persist the first certificate the way the repository would, before any
	// source rows change.
	firstStored, err := mapping.ToModelDocument(issued[0])
	suite.Require().NoError(err)

	// The customer moves house after the first certificate is issued.
	customer.Name = "Jane Holloway-Price"
	customer.AddressLine1 = "7 Weaver Court"
	customer.Postcode = "LS9 8QT"

	_, err = suite.service.IssueCertificate(ctx, suite.companyID, req, suite.adminID)
	suite.Require().NoError(err)
	suite.Require().Len(issued, 2)

	// The second lock sees the new details; the two payloads diverge.
	suite.NotEqual(issued[0].Payload.Customer, issued[1].Payload.Customer)
	suite.Equal("Jane Holloway-Price", issued[1].Payload.Customer.Name)

	// Re-reading the first persisted payload still renders the details that
	// were current when it was locked.
	reread, err := mapping.ToDomainDocument(firstStored)
	suite.Require().NoError(err)
	suite.Require().NotNil(reread.Payload)
	suite.Equal("Jane Holloway", reread.Payload.Customer.Name)
	suite.Equal("12 Mill Lane", reread.Payload.Customer.AddressLine1)
	suite.Equal("LS1 4AB", reread.Payload.Customer.Postcode)
}

func (suite *DocumentServiceTestSuite) TestIssueCertificate_MissingGasSafeNumber() {
	ctx := context.Background()
	company, customer, engineer := suite.certificateFixtures()
	company.GasSafeNumber = ""
	req := dto.IssueCertificateRequest{
		CustomerID: customer.CustomerID,
		Appliances: []dto.ApplianceInspectionRequest{
			{Location: "Kitchen", ApplianceType: "Boiler", Result: "pass"},
		},
		Signature: "sig/cert-1.png",
	}

	suite.mockAuthorizer.On("AuthorizeUserAction", ctx, suite.adminID, suite.companyID, domain.RoleWorker).Return(nil).Once()
	suite.mockCompanyRepo.On("FindCompanyByID", ctx, suite.companyID).Return(company, nil).Once()
	suite.mockCustomerRepo.On("FindCustomerByID", ctx, customer.CustomerID).Return(customer, nil).Once()
	suite.mockUserRepo.On("FindUserByID", ctx, suite.adminID).Return(engineer, nil).Once()

	doc, err := suite.service.IssueCertificate(ctx, suite.companyID, req, suite.adminID)

	suite.Require().Error(err)
	suite.Nil(doc)
	suite.ErrorIs(err, apperrors.ErrIncompleteSnapshot)
	// Nothing may be written when the payload is incomplete.
	suite.mockDocRepo.AssertNotCalled(suite.T(), "CreateDocument", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *DocumentServiceTestSuite) TestIssueCertificate_RecordsJobActivity() {
	ctx := context.Background()
	company, customer, engineer := suite.certificateFixtures()
	jobID := uuid.NewString()
	job := &domain.Job{
		JobID:     jobID,
		CompanyID: suite.companyID,
		Reference: "TF-2025-0042",
		Status:    domain.JobComplete,
	}
	req := dto.IssueCertificateRequest{
		JobID:      &jobID,
		CustomerID: customer.CustomerID,
		Appliances: []dto.ApplianceInspectionRequest{
			{Location: "Kitchen", ApplianceType: "Boiler", Result: "pass"},
		},
		Signature: "sig/cert-1.png",
	}
	created := &domain.Document{
		DocumentID: uuid.NewString(),
		CompanyID:  suite.companyID,
		Kind:       domain.KindGasCertificate,
		Reference:  "CERT-0002",
	}

	suite.mockAuthorizer.On("AuthorizeUserAction", ctx, suite.adminID, suite.companyID, domain.RoleWorker).Return(nil).Once()
	suite.mockCompanyRepo.On("FindCompanyByID", ctx, suite.companyID).Return(company, nil).Once()
	suite.mockCustomerRepo.On("FindCustomerByID", ctx, customer.CustomerID).Return(customer, nil).Once()
	suite.mockJobRepo.On("FindJobByID", ctx, jobID).Return(job, nil).Once()
	suite.mockUserRepo.On("FindUserByID", ctx, suite.adminID).Return(engineer, nil).Once()
	suite.mockDocRepo.On("CreateDocument", ctx, mock.MatchedBy(func(d domain.Document) bool {
		return d.Payload != nil && d.Payload.JobReference == job.Reference
	}), portsrepo.CounterCertificateNumber).Return(created, nil).Once()
	suite.mockJobRepo.On("AppendActivity", ctx, mock.MatchedBy(func(a domain.JobActivity) bool {
		return a.Action == domain.ActionDocumentIssued && a.JobID == jobID
	})).Return(nil).Once()

	doc, err := suite.service.IssueCertificate(ctx, suite.companyID, req, suite.adminID)

	suite.Require().NoError(err)
	suite.Equal("CERT-0002", doc.Reference)
	suite.Equal(1, suite.notifier.jobNotified)
	suite.mockJobRepo.AssertExpectations(suite.T())
}

func (suite *DocumentServiceTestSuite) TestUpdateDocumentStatus_QuoteCannotBePaid() {
	ctx := context.Background()
	documentID := uuid.NewString()
	quote := &domain.Document{
		DocumentID: documentID,
		CompanyID:  suite.companyID,
		Kind:       domain.KindQuote,
		Status:     domain.DocSent,
	}

	suite.mockAuthorizer.On("AuthorizeUserAction", ctx, suite.adminID, suite.companyID, domain.RoleAdmin).Return(nil).Once()
	suite.mockDocRepo.On("FindDocumentByID", ctx, documentID).Return(quote, nil).Once()

	doc, err := suite.service.UpdateDocumentStatus(ctx, suite.companyID, documentID, domain.DocPaid, suite.adminID)

	suite.Require().Error(err)
	suite.Nil(doc)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockDocRepo.AssertNotCalled(suite.T(), "UpdateDocumentStatus",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *DocumentServiceTestSuite) TestUpdateDocumentStatus_CertificateLifecycleRejected() {
	ctx := context.Background()
	documentID := uuid.NewString()
	cert := &domain.Document{
		DocumentID: documentID,
		CompanyID:  suite.companyID,
		Kind:       domain.KindGasCertificate,
		Status:     domain.DocSent,
	}

	suite.mockAuthorizer.On("AuthorizeUserAction", ctx, suite.adminID, suite.companyID, domain.RoleAdmin).Return(nil).Once()
	suite.mockDocRepo.On("FindDocumentByID", ctx, documentID).Return(cert, nil).Once()

	doc, err := suite.service.UpdateDocumentStatus(ctx, suite.companyID, documentID, domain.DocAccepted, suite.adminID)

	suite.Require().Error(err)
	suite.Nil(doc)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func TestDocumentServiceTestSuite(t *testing.T) {
	suite.Run(t, new(DocumentServiceTestSuite))
}
