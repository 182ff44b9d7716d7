// Package checkout provides a provider-agnostic checkout orchestration layer.
// A single Provider contract routes purchases through either a hosted web
// checkout overlay or a native in-app-purchase bridge, while the orchestrator
// owns the checkout state machine, product selection, and event side effects.
package checkout

// Duration defines the billing cycle of a priced product
type Duration string

const (
	// DurationMonthly represents a monthly billing cycle
	DurationMonthly Duration = "monthly"
	// DurationYearly represents a yearly billing cycle
	DurationYearly Duration = "yearly"
)

// AppsID tags mark special SKUs inside product metadata.
const (
	// AppsIDGiftOneYear marks the one-year gift SKU. It is surfaced
	// separately and never appears in the user-selectable list.
	AppsIDGiftOneYear = "gift-one-year"
)

// Price holds the backend-quoted amount plus its display form
type Price struct {
	Amount    float64 `json:"amount"`
	Formatted string  `json:"formatted"`
}

// TrialPeriod describes a free-trial window attached to a product.
// A nil *TrialPeriod means the product carries no trial.
type TrialPeriod struct {
	// Interval is the trial unit ("day", "week", "month")
	Interval string `json:"interval"`
	// Frequency is the number of intervals
	Frequency int `json:"frequency"`
}

// ProductMetadata carries plan-level tags attached to a priced product
type ProductMetadata struct {
	// PlanFamily groups products into families ("plus", "cores", "recruiter")
	PlanFamily string `json:"planFamily,omitempty"`
	// Caption is the display caption for the plan
	Caption string `json:"caption,omitempty"`
	// AppsID tags special SKUs (see AppsIDGiftOneYear)
	AppsID string `json:"appsId,omitempty"`
}

// PricedProduct is a single SKU as returned by the price-list query service.
// The list is immutable once fetched and replaced wholesale on refetch;
// callers must not assume any ordering beyond list order as returned.
type PricedProduct struct {
	// PriceID is the opaque backend identifier for this SKU
	PriceID string `json:"priceId"`

	Metadata ProductMetadata `json:"metadata"`

	Price        Price    `json:"price"`
	CurrencyCode string   `json:"currencyCode"`
	Duration     Duration `json:"duration"`

	// Trial is nil when the product has no free trial
	Trial *TrialPeriod `json:"trialPeriod,omitempty"`
}

// ProductOption is a display-ready view over a PricedProduct, derived by the
// pricing resolver. MonthlyPrice is the per-month equivalent (yearly prices
// divided by 12 and truncated, see CalculateMonthlyPrice).
type ProductOption struct {
	ID                    string
	Caption               string
	PlanFamily            string
	Price                 float64
	FormattedPrice        string
	MonthlyPrice          float64
	FormattedMonthlyPrice string
	CurrencyCode          string
	Duration              Duration
	Trial                 *TrialPeriod

	// EarlyAdopter is set on the cheapest monthly SKU when more than one
	// monthly SKU exists in the list
	EarlyAdopter bool
}

// SelectedProduct is the user's current choice within one checkout surface.
// It persists across state transitions but not across surfaces.
type SelectedProduct struct {
	ID    string
	Value string
}

// Stage identifies the current phase of the checkout state machine
type Stage string

const (
	// StageIntro is the initial, pre-purchase state
	StageIntro Stage = "INTRO"
	// StageProcessing means a purchase is in flight
	StageProcessing Stage = "PROCESSING"
	// StageComment is an intermediate state used by flows that collect a
	// message before completing (e.g. gift purchases)
	StageComment Stage = "COMMENT"
	// StageCompleted means the backend confirmed the transaction
	StageCompleted Stage = "COMPLETED"
	// StageSuccess is the terminal post-completion state
	StageSuccess Stage = "SUCCESS"
	// StageProcessingError means the purchase failed
	StageProcessingError Stage = "PROCESSING_ERROR"
)

// CheckoutError is a structured, user-presentable error
type CheckoutError struct {
	Title       string
	Description string
}

// CheckoutState is the live state of one checkout surface. Exactly one
// CheckoutState exists per orchestrator instance.
type CheckoutState struct {
	Stage Stage

	// ProviderTransactionID is set once the backend reports a transaction
	ProviderTransactionID string

	// Err is set only in StageProcessingError
	Err *CheckoutError
}

// PurchaseEventName identifies an event emitted by the native purchase bridge
type PurchaseEventName string

const (
	// PurchaseInitiated means the host shell presented the purchase sheet
	PurchaseInitiated PurchaseEventName = "PurchaseInitiated"
	// PurchasePending means the purchase awaits external approval
	PurchasePending PurchaseEventName = "PurchasePending"
	// PurchaseCompleted means the store confirmed the purchase
	PurchaseCompleted PurchaseEventName = "PurchaseCompleted"
	// PurchaseFailed means the store rejected the purchase
	PurchaseFailed PurchaseEventName = "PurchaseFailed"
	// PurchaseCancelled means the user dismissed the purchase sheet.
	// Cancellation is not an error and must stay silent.
	PurchaseCancelled PurchaseEventName = "PurchaseCancelled"
)

// PurchaseEvent is delivered on the native bridge broadcast channel.
// Events are ephemeral and never persisted.
type PurchaseEvent struct {
	Name PurchaseEventName `json:"name"`
	// Product is the store product identifier, when known
	Product string `json:"product,omitempty"`
	// Detail carries a vendor error code or informational text
	Detail string `json:"detail,omitempty"`
	// TransactionID is set on completion
	TransactionID string `json:"transactionId,omitempty"`
}

// PlanMeta is per-plan metadata returned by the feature-flag service,
// keyed by plan id.
type PlanMeta struct {
	Caption    string
	PlanFamily string
}
