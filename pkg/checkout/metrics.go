package checkout

import "time"

// Metrics defines the interface for tracking checkout operations.
// All methods are optional - implementations should be safe to call from any
// provider or orchestrator instance.
type Metrics interface {
	// RecordCheckoutEvent records a normalized checkout event.
	// event: the canonical event name (e.g. "CompleteCheckout")
	// status: "success" or "error"
	RecordCheckoutEvent(provider, event, status string)

	// RecordCheckoutOpened records an overlay open or in-place item update.
	// action: "open" or "update"
	RecordCheckoutOpened(provider, action string)

	// RecordProductFetch records a price-list fetch.
	// status: "success" or "error"
	RecordProductFetch(provider, status string)

	// RecordProductFetchDuration records how long a price-list fetch took.
	RecordProductFetchDuration(provider string, duration time.Duration)

	// RecordPurchaseEvent records a native bridge purchase event.
	RecordPurchaseEvent(provider, event string)

	// RecordStageTransition records a checkout state machine transition.
	RecordStageTransition(provider, from, to string)
}

// NoopMetrics is a no-op implementation of the Metrics interface.
type NoopMetrics struct{}

func (n *NoopMetrics) RecordCheckoutEvent(_, _, _ string)                   {}
func (n *NoopMetrics) RecordCheckoutOpened(_, _ string)                     {}
func (n *NoopMetrics) RecordProductFetch(_, _ string)                       {}
func (n *NoopMetrics) RecordProductFetchDuration(_ string, _ time.Duration) {}
func (n *NoopMetrics) RecordPurchaseEvent(_, _ string)                      {}
func (n *NoopMetrics) RecordStageTransition(_, _, _ string)                 {}
