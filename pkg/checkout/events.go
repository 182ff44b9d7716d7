package checkout

// EventName is the canonical, provider-agnostic event taxonomy used for
// logging and side effects. Vendor and native bridge vocabularies are mapped
// onto it by the normalizer; vendor-specific fields never leak past it.
type EventName string

const (
	// EventInitiatePayment fires when a payment method was chosen and
	// submission started
	EventInitiatePayment EventName = "InitiatePayment"
	// EventInitiateCheckout fires when the checkout surface finished
	// loading; it marks the overlay open
	EventInitiateCheckout EventName = "InitiateCheckout"
	// EventSelectCheckoutPayment fires when the user picks a payment method
	EventSelectCheckoutPayment EventName = "SelectCheckoutPayment"
	// EventCompleteCheckout fires on a completed non-gift checkout
	EventCompleteCheckout EventName = "CompleteCheckout"
	// EventCompleteGiftCheckout fires on a completed gift checkout,
	// classified solely by the gifter_id key in the custom data payload
	EventCompleteGiftCheckout EventName = "CompleteGiftCheckout"
	// EventErrorCheckout fires on a vendor-reported error; it marks the
	// overlay closed and triggers no automatic retry
	EventErrorCheckout EventName = "ErrorCheckout"
	// EventCloseCheckout fires on user dismissal; it marks the overlay
	// closed without logging
	EventCloseCheckout EventName = "CloseCheckout"
)

// Event is the canonical output of the normalizer.
type Event struct {
	Name EventName

	// PaymentMethod is the vendor payment method type, when reported
	PaymentMethod string

	// Cycle is the billing cycle interval of the purchased item
	Cycle string

	// Total is the local cost charged
	Total float64

	CurrencyCode string

	// RecipientID is the user_id from the custom data payload
	RecipientID string

	// GifterID is set only on gift completions
	GifterID string

	TransactionID string

	// Err is set on ErrorCheckout events
	Err *CheckoutError
}

// Reserved custom data keys. Downstream logging depends on exactly these
// names, so the encoding must be preserved bit-for-bit.
const (
	CustomDataUserID   = "user_id"
	CustomDataGifterID = "gifter_id"
)

// Vendor event names emitted by the hosted checkout overlay SDK.
const (
	VendorEventLoaded           = "checkout.loaded"
	VendorEventPaymentInitiated = "checkout.payment.initiated"
	VendorEventPaymentSelected  = "checkout.payment.selected"
	VendorEventCompleted        = "checkout.completed"
	VendorEventError            = "checkout.error"
	VendorEventClosed           = "checkout.closed"
)

// VendorEvent is the raw event shape fired by the web overlay SDK.
type VendorEvent struct {
	Name string          `json:"name"`
	Data VendorEventData `json:"data"`
}

// VendorEventData carries the vendor payload fields consumed by the
// normalizer.
type VendorEventData struct {
	Payment       VendorPayment     `json:"payment"`
	Items         []VendorItem      `json:"items"`
	Totals        VendorTotals      `json:"totals"`
	CurrencyCode  string            `json:"currency_code"`
	CustomData    map[string]string `json:"custom_data"`
	TransactionID string            `json:"transaction_id"`
	Error         *VendorError      `json:"error,omitempty"`
}

// VendorPayment wraps the selected payment method details.
type VendorPayment struct {
	MethodDetails VendorMethodDetails `json:"method_details"`
}

// VendorMethodDetails identifies the payment method type ("card",
// "paypal", ...).
type VendorMethodDetails struct {
	Type string `json:"type"`
}

// VendorItem is a single checkout line item.
type VendorItem struct {
	PriceID      string             `json:"price_id"`
	Quantity     int                `json:"quantity"`
	BillingCycle VendorBillingCycle `json:"billing_cycle"`
}

// VendorBillingCycle carries the billing interval of a line item.
type VendorBillingCycle struct {
	Interval string `json:"interval"`
}

// VendorTotals carries the charged totals.
type VendorTotals struct {
	Total float64 `json:"total"`
}

// VendorError is a vendor-reported checkout error.
type VendorError struct {
	Code   string `json:"code"`
	Detail string `json:"detail"`
}
