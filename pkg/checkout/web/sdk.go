// Package web implements the checkout.Provider contract on top of a hosted
// checkout overlay SDK. One SDK instance is a genuine cross-surface
// singleton; each surface gets its own Provider wrapping it.
package web

import (
	"sync"

	"github.com/mihaimyh/gocheckout/pkg/checkout"
)

// OverlayItem is a checkout line item passed to the overlay SDK.
type OverlayItem struct {
	PriceID  string
	Quantity int
}

// OverlayCustomer is the optional customer block attached when email or
// country are known.
type OverlayCustomer struct {
	Email       string
	CountryCode string
}

// OverlayRequest is the payment request handed to the overlay SDK on open.
type OverlayRequest struct {
	Items      []OverlayItem
	Customer   *OverlayCustomer
	CustomData map[string]string
	DiscountID string
}

// OverlaySDK abstracts the vendor's hosted checkout widget. Overlay state is
// not re-entrant: callers must never issue a second Open while an overlay is
// up, and instead update the existing overlay's items in place.
type OverlaySDK interface {
	// Open renders the overlay with the given payment request
	Open(req OverlayRequest) error

	// UpdateItems replaces the line items of the currently open overlay
	UpdateItems(items []OverlayItem) error

	// Close dismisses the overlay
	Close() error

	// OnEvent registers a vendor event handler and returns its
	// deregistration func
	OnEvent(fn func(checkout.VendorEvent)) (cancel func())
}

// The SDK singleton is shared across checkout surfaces: re-used if already
// present rather than re-initialized. Execution is effectively
// single-threaded per surface, but the registry is still guarded since
// multiple surfaces may race on first use.
var (
	sdkMu     sync.Mutex
	sharedSDK OverlaySDK
)

// sharedOrCreate returns the process-wide SDK instance, creating it on first
// use.
func sharedOrCreate(newSDK func() (OverlaySDK, error)) (OverlaySDK, error) {
	sdkMu.Lock()
	defer sdkMu.Unlock()

	if sharedSDK != nil {
		return sharedSDK, nil
	}
	if newSDK == nil {
		return nil, checkout.ErrOverlayUnavailable
	}
	sdk, err := newSDK()
	if err != nil {
		return nil, err
	}
	sharedSDK = sdk
	return sharedSDK, nil
}

// ResetSharedSDK drops the process-wide SDK instance. Intended for tests.
func ResetSharedSDK() {
	sdkMu.Lock()
	defer sdkMu.Unlock()
	sharedSDK = nil
}
