package checkout

import "errors"

var (
	// ErrProviderUnavailable is returned when the selected provider cannot
	// run in the current context (IsAvailable is false)
	ErrProviderUnavailable = errors.New("checkout provider unavailable")

	// ErrNotInitialized is returned when an operation requires a provider
	// that never became ready
	ErrNotInitialized = errors.New("checkout provider not initialized")

	// ErrMissingPriceID is returned when OpenCheckout is called without a
	// resolved price id
	ErrMissingPriceID = errors.New("price id is required")

	// ErrPriceSourceUnavailable is returned when the price-list query
	// service cannot be reached
	ErrPriceSourceUnavailable = errors.New("price source unavailable")

	// ErrOverlayUnavailable is returned when the web overlay SDK cannot be
	// created in the current environment
	ErrOverlayUnavailable = errors.New("checkout overlay unavailable")

	// ErrBridgeUnavailable is returned when the native purchase bridge has
	// no host shell to talk to
	ErrBridgeUnavailable = errors.New("native purchase bridge unavailable")

	// ErrProviderNotConfigured is returned when a provider is constructed
	// with an incomplete configuration
	ErrProviderNotConfigured = errors.New("checkout provider not configured")
)
