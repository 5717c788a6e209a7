package services

import (
	"sync"

	portssvc "github.com/tradeflowhq/tradeflow_backend/internal/core/ports/services"
)

// notifierService is an in-process change signal hub. Signals carry no
// payload; subscribers re-fetch their own view when poked, which makes
// coalescing and redelivery both harmless.
type notifierService struct {
	mu          sync.RWMutex
	nextID      uint64
	companySubs map[string]map[uint64]func()
	jobSubs     map[string]map[uint64]func()
}

// NewNotifierService creates a new in-process notifier.
func NewNotifierService() portssvc.NotifierSvc {
	return &notifierService{
		companySubs: make(map[string]map[uint64]func()),
		jobSubs:     make(map[string]map[uint64]func()),
	}
}

// Ensure notifierService implements the NotifierSvc interface
var _ portssvc.NotifierSvc = (*notifierService)(nil)

func (s *notifierService) SubscribeCompany(companyID string, fn func()) portssvc.Unsubscribe {
	return s.subscribe(s.companySubs, companyID, fn)
}

func (s *notifierService) SubscribeJob(jobID string, fn func()) portssvc.Unsubscribe {
	return s.subscribe(s.jobSubs, jobID, fn)
}

func (s *notifierService) subscribe(subs map[string]map[uint64]func(), key string, fn func()) portssvc.Unsubscribe {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	id := s.nextID
	if subs[key] == nil {
		subs[key] = make(map[uint64]func())
	}
	subs[key][id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if set, ok := subs[key]; ok {
			delete(set, id)
			if len(set) == 0 {
				delete(subs, key)
			}
		}
	}
}

func (s *notifierService) NotifyCompany(companyID string) {
	for _, fn := range s.snapshot(s.companySubs, companyID) {
		fn()
	}
}

func (s *notifierService) NotifyJob(companyID, jobID string) {
	// A job change is also a company change; both audiences get poked.
	fns := s.snapshot(s.jobSubs, jobID)
	fns = append(fns, s.snapshot(s.companySubs, companyID)...)
	for _, fn := range fns {
		fn()
	}
}

// snapshot copies the callbacks registered under key so they can be invoked
// without holding the lock.
func (s *notifierService) snapshot(subs map[string]map[uint64]func(), key string) []func() {
	s.mu.RLock()
	defer s.mu.RUnlock()
	set := subs[key]
	if len(set) == 0 {
		return nil
	}
	fns := make([]func(), 0, len(set))
	for _, fn := range set {
		fns = append(fns, fn)
	}
	return fns
}
