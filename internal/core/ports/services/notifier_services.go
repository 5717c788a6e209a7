package services

// Unsubscribe removes a subscription when called. Safe to call more than once.
type Unsubscribe func()

// NotifierSvc fans out "something changed" signals to live subscribers.
//
// Delivery is at-least-once while a subscriber is connected: rapid changes
// may be coalesced into fewer callback invocations, so handlers must be
// idempotent re-fetches of their own view, never incremental appliers. There
// is no durability; a subscriber that was offline re-fetches full state on
// reconnect instead of replaying missed events. Dropped signals are never
// surfaced as errors.
type NotifierSvc interface {
	// SubscribeCompany registers fn to run when anything in the company's
	// jobs or documents changes.
	SubscribeCompany(companyID string, fn func()) Unsubscribe

	// SubscribeJob registers fn to run when one job (or its activity trail)
	// changes.
	SubscribeJob(jobID string, fn func()) Unsubscribe

	// NotifyCompany signals every company-scoped subscriber.
	NotifyCompany(companyID string)

	// NotifyJob signals job-scoped subscribers and the owning company's
	// subscribers.
	NotifyJob(companyID, jobID string)
}
