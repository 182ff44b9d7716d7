package checkout

import "context"

// Notifier is the toast/notification surface used to report purchase
// outcomes at the UI boundary. Errors in this layer are recovered here
// rather than propagated to the host application.
type Notifier interface {
	// Success shows a positive confirmation toast
	Success(msg string)

	// Info shows an informational toast (e.g. purchase pending)
	Info(msg string)

	// Error shows a generic failure toast
	Error(msg string)
}

// NoopNotifier is a no-op implementation of the Notifier interface.
type NoopNotifier struct{}

func (n *NoopNotifier) Success(msg string) {}
func (n *NoopNotifier) Info(msg string)    {}
func (n *NoopNotifier) Error(msg string)   {}

// PaymentTracker receives completion totals for external payment tracking.
// It is invoked once per completed checkout, after logging.
type PaymentTracker interface {
	// TrackPurchase forwards a completed checkout (cycle, total, currency)
	TrackPurchase(event Event)
}

// NoopPaymentTracker is a no-op implementation of the PaymentTracker interface.
type NoopPaymentTracker struct{}

func (n *NoopPaymentTracker) TrackPurchase(_ Event) {}

// PriceSource is the price-list query service. ListProducts returns the
// ordered SKU list; list order is meaningful (ties in the pricing resolver
// break on first occurrence) and no further sort may be assumed.
type PriceSource interface {
	ListProducts(ctx context.Context) ([]PricedProduct, error)
}

// FlagSource is the feature-flag service. PlanMetadata returns a map of
// plan id to plan metadata, merged into product options by the pricing
// resolver.
type FlagSource interface {
	PlanMetadata(ctx context.Context) (map[string]PlanMeta, error)
}
