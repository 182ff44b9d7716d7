package checkout

import "context"

// Provider is the generic interface every checkout backend must implement.
// This allows the application to swap the hosted web overlay for the native
// in-app-purchase bridge with zero logic changes.
type Provider interface {
	// Name returns the provider name (e.g. "web", "native")
	Name() string

	// Initialize prepares the underlying SDK or bridge. It is idempotent:
	// an already-initialized provider returns immediately without
	// re-creating its backing instance.
	Initialize(ctx context.Context) error

	// OpenCheckout starts a purchase for an already-resolved price id.
	// On an unavailable provider this is a logged no-op; it never panics
	// and never changes checkout state.
	OpenCheckout(params OpenCheckoutParams)

	// GetProductOptions returns the display-ready product list, lazily
	// calling Initialize if the provider is not yet ready.
	GetProductOptions(ctx context.Context) ([]ProductOption, error)

	// IsAvailable reports synchronously whether this provider can run in
	// the current context (e.g. false for the web overlay inside an
	// embedded browser-extension context).
	IsAvailable() bool

	// Cleanup releases event listeners and other resources. Must be called
	// when the owning checkout surface unmounts.
	Cleanup()
}

// VendorEventSource is implemented by providers whose backend fires raw
// vendor events (the web overlay SDK). Handlers run with the state captured
// at registration time; the returned cancel func must be called when the
// owning surface unmounts.
type VendorEventSource interface {
	SubscribeVendor(fn func(VendorEvent)) (cancel func())
}

// PurchaseEventSource is implemented by providers whose backend delivers
// PurchaseEvents on a broadcast channel (the native bridge). The returned
// cancel func must be called when the owning surface unmounts, so events
// meant for a now-defunct flow are not acted on.
type PurchaseEventSource interface {
	SubscribePurchase(fn func(PurchaseEvent)) (cancel func())
}

// OpenCheckoutParams carries the arguments of the "start a purchase"
// contract. PriceID is required and must reference a SKU the caller already
// resolved via the pricing resolver.
type OpenCheckoutParams struct {
	PriceID string

	// GiftToUserID, when set, makes this a gift purchase: the recipient id
	// is encoded as user_id and the purchaser as gifter_id in the custom
	// data block. The presence of gifter_id in the completion event is the
	// sole downstream gift signal.
	GiftToUserID string

	// CustomData is merged into the custom data block before the reserved
	// user_id/gifter_id keys are applied
	CustomData map[string]string

	// DiscountID is an optional vendor discount to apply
	DiscountID string
}
