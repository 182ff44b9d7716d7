package checkout

// Platform describes the host environment a checkout surface runs in.
// It drives provider selection and availability probes.
type Platform struct {
	// InHostShell is true when running inside the native host wrapper,
	// where purchases go through the in-app-purchase bridge
	InHostShell bool

	// EmbeddedContext is true in embedded contexts (e.g. a browser
	// extension) where the hosted checkout overlay cannot run
	EmbeddedContext bool
}

// PurchaseType distinguishes the product families routed through the native
// bridge. Subscriptions and cores use distinct host message handlers.
type PurchaseType string

const (
	// PurchaseTypeSubscription routes through the subscription handler
	PurchaseTypeSubscription PurchaseType = "subscription"
	// PurchaseTypeCores routes through the cores handler
	PurchaseTypeCores PurchaseType = "cores"
)

// Config configures one checkout orchestrator instance. Each checkout
// surface ("buy cores", "buy plus", "recruiter payment") instantiates its
// own orchestrator with the same shape.
type Config struct {
	// Provider is a pre-built provider for this surface. Exactly one of
	// Provider or NewProvider must be set.
	Provider Provider

	// NewProvider lazily constructs the provider on first use. The
	// orchestrator memoizes the result for its own lifetime; the factory
	// itself holds no state between surfaces.
	NewProvider func() (Provider, error)

	// Logger receives structured checkout events. Defaults to NoopLogger.
	Logger Logger

	// Notifier is the toast surface. Defaults to NoopNotifier.
	Notifier Notifier

	// Tracker receives completion totals. Defaults to NoopPaymentTracker.
	Tracker PaymentTracker

	// Metrics is an optional metrics collector. Defaults to NoopMetrics.
	Metrics Metrics

	// OnSuccess is invoked once per completed checkout with the normalized
	// completion event. When nil, DefaultRedirect is used instead.
	OnSuccess func(Event)

	// DefaultRedirect is the fallback completion action when OnSuccess is
	// nil (typically a navigation to a confirmation page).
	DefaultRedirect func()
}

func (c *Config) withDefaults() Config {
	out := *c
	if out.Logger == nil {
		out.Logger = &NoopLogger{}
	}
	if out.Notifier == nil {
		out.Notifier = &NoopNotifier{}
	}
	if out.Tracker == nil {
		out.Tracker = &NoopPaymentTracker{}
	}
	if out.Metrics == nil {
		out.Metrics = &NoopMetrics{}
	}
	return out
}
