package services_test

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"github.com/tradeflowhq/tradeflow_backend/internal/core/services"
	portssvc "github.com/tradeflowhq/tradeflow_backend/internal/core/ports/services"
)

type NotifierServiceTestSuite struct {
	suite.Suite
	notifier portssvc.NotifierSvc
}

func (suite *NotifierServiceTestSuite) SetupTest() {
	suite.notifier = services.NewNotifierService()
}

func (suite *NotifierServiceTestSuite) TestNotifyCompany_ReachesSubscriber() {
	companyID := uuid.NewString()
	calls := 0
	unsub := suite.notifier.SubscribeCompany(companyID, func() { calls++ })
	defer unsub()

	suite.notifier.NotifyCompany(companyID)
	suite.notifier.NotifyCompany(companyID)

	suite.Equal(2, calls)
}

func (suite *NotifierServiceTestSuite) TestNotifyCompany_OtherTenantsNotPoked() {
	companyA := uuid.NewString()
	companyB := uuid.NewString()
	aCalls, bCalls := 0, 0
	defer suite.notifier.SubscribeCompany(companyA, func() { aCalls++ })()
	defer suite.notifier.SubscribeCompany(companyB, func() { bCalls++ })()

	suite.notifier.NotifyCompany(companyA)

	suite.Equal(1, aCalls)
	suite.Equal(0, bCalls)
}

func (suite *NotifierServiceTestSuite) TestNotifyJob_AlsoPokesCompanySubscribers() {
	companyID := uuid.NewString()
	jobID := uuid.NewString()
	jobCalls, companyCalls := 0, 0
	defer suite.notifier.SubscribeJob(jobID, func() { jobCalls++ })()
	defer suite.notifier.SubscribeCompany(companyID, func() { companyCalls++ })()

	suite.notifier.NotifyJob(companyID, jobID)

	suite.Equal(1, jobCalls)
	suite.Equal(1, companyCalls)
}

func (suite *NotifierServiceTestSuite) TestUnsubscribe_StopsDeliveryAndIsIdempotent() {
	companyID := uuid.NewString()
	calls := 0
	unsub := suite.notifier.SubscribeCompany(companyID, func() { calls++ })

	suite.notifier.NotifyCompany(companyID)
	unsub()
	unsub() // second call must be harmless
	suite.notifier.NotifyCompany(companyID)

	suite.Equal(1, calls)
}

func (suite *NotifierServiceTestSuite) TestConcurrentNotifyAndSubscribe() {
	companyID := uuid.NewString()
	var mu sync.Mutex
	calls := 0
	defer suite.notifier.SubscribeCompany(companyID, func() {
		mu.Lock()
		calls++
		mu.Unlock()
	})()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			suite.notifier.NotifyCompany(companyID)
		}()
		go func() {
			defer wg.Done()
			unsub := suite.notifier.SubscribeCompany(companyID, func() {})
			unsub()
		}()
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	suite.Equal(10, calls)
}

func TestNotifierServiceTestSuite(t *testing.T) {
	suite.Run(t, new(NotifierServiceTestSuite))
}
