package checkout

import (
	"context"
	"sync"
)

// Orchestrator owns the checkout state machine and product selection for a
// single checkout surface. It memoizes one provider instance for its own
// lifetime, normalizes provider events onto the canonical taxonomy, and
// recovers every error at the UI boundary; nothing here is fatal to the
// host application.
type Orchestrator struct {
	cfg Config

	providerOnce sync.Once
	provider     Provider
	providerErr  error

	mu          sync.Mutex
	state       CheckoutState
	selected    *SelectedProduct
	overlayOpen bool
	closed      bool
	cancels     []func()
}

// New creates an orchestrator for one checkout surface.
func New(cfg Config) (*Orchestrator, error) {
	if cfg.Provider == nil && cfg.NewProvider == nil {
		return nil, ErrProviderNotConfigured
	}
	return &Orchestrator{
		cfg:   cfg.withDefaults(),
		state: CheckoutState{Stage: StageIntro},
	}, nil
}

// ensureProvider memoizes the provider and registers event handlers exactly
// once. Handlers close over the orchestrator itself, so late-arriving events
// act on the state registered here rather than a stale per-call closure.
func (o *Orchestrator) ensureProvider() (Provider, error) {
	o.providerOnce.Do(func() {
		p := o.cfg.Provider
		if p == nil {
			p, o.providerErr = o.cfg.NewProvider()
			if o.providerErr != nil {
				o.cfg.Logger.Error("provider construction failed",
					Field{Key: "error", Value: o.providerErr})
				return
			}
		}
		o.provider = p

		if src, ok := p.(VendorEventSource); ok {
			o.addCancel(src.SubscribeVendor(o.handleVendorEvent))
		}
		if src, ok := p.(PurchaseEventSource); ok {
			o.addCancel(src.SubscribePurchase(o.handlePurchaseEvent))
		}
	})
	return o.provider, o.providerErr
}

func (o *Orchestrator) addCancel(cancel func()) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.cancels = append(o.cancels, cancel)
}

// OpenCheckout starts a purchase for a resolved price id. On an unavailable
// provider or a missing price id this is a logged no-op: the state machine
// does not move and nothing panics.
func (o *Orchestrator) OpenCheckout(params OpenCheckoutParams) {
	if params.PriceID == "" {
		o.cfg.Logger.Error("open checkout rejected",
			Field{Key: "error", Value: ErrMissingPriceID})
		return
	}

	p, err := o.ensureProvider()
	if err != nil {
		return
	}
	if !p.IsAvailable() {
		o.cfg.Logger.Warn("open checkout skipped",
			Field{Key: "provider", Value: p.Name()},
			Field{Key: "error", Value: ErrProviderUnavailable})
		return
	}

	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return
	}
	switch o.state.Stage {
	case StageIntro, StageComment:
		o.setStageLocked(StageProcessing)
	}
	o.mu.Unlock()

	p.OpenCheckout(params)
}

// GetProductOptions resolves the display-ready product list through the
// memoized provider, lazily initializing it. Callers should treat a failure
// as a neutral "unavailable" state rather than blocking interaction.
func (o *Orchestrator) GetProductOptions(ctx context.Context) ([]ProductOption, error) {
	p, err := o.ensureProvider()
	if err != nil {
		return nil, err
	}
	return p.GetProductOptions(ctx)
}

// SelectProduct records the user's current choice. The selection persists
// across state transitions within this surface but not across surfaces.
func (o *Orchestrator) SelectProduct(id, value string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.selected = &SelectedProduct{ID: id, Value: value}
}

// Selected returns the current selection, or nil.
func (o *Orchestrator) Selected() *SelectedProduct {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.selected == nil {
		return nil
	}
	sel := *o.selected
	return &sel
}

// State returns a snapshot of the live checkout state.
func (o *Orchestrator) State() CheckoutState {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// EnterComment moves the surface into the intermediate comment-collection
// state used by gift flows. Only valid from INTRO.
func (o *Orchestrator) EnterComment() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state.Stage == StageIntro {
		o.setStageLocked(StageComment)
	}
}

// Reset clears the selection and returns the state machine to INTRO.
func (o *Orchestrator) Reset() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.selected = nil
	o.state = CheckoutState{Stage: StageIntro}
}

// Close tears the surface down: event subscriptions are released so purchase
// events meant for this now-defunct flow are not acted on, the overlay-open
// flag resets, and the provider releases its resources. There is no explicit
// cancel call to the vendor beyond this bookkeeping.
func (o *Orchestrator) Close() {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return
	}
	o.closed = true
	cancels := o.cancels
	o.cancels = nil
	o.overlayOpen = false
	o.selected = nil
	o.state = CheckoutState{Stage: StageIntro}
	p := o.provider
	o.mu.Unlock()

	for _, cancel := range cancels {
		cancel()
	}
	if p != nil {
		p.Cleanup()
	}
}

func (o *Orchestrator) setStageLocked(next Stage) {
	if o.state.Stage == next {
		return
	}
	name := "unknown"
	if o.provider != nil {
		name = o.provider.Name()
	}
	o.cfg.Metrics.RecordStageTransition(name, string(o.state.Stage), string(next))
	o.state.Stage = next
	if next != StageProcessingError {
		o.state.Err = nil
	}
}

// handleVendorEvent normalizes raw web overlay events and dispatches their
// side effects. Vendor events with no canonical mapping are ignored.
func (o *Orchestrator) handleVendorEvent(v VendorEvent) {
	ev, ok := NormalizeVendorEvent(v)
	if !ok {
		return
	}
	o.dispatch(ev)
}

// handlePurchaseEvent routes native bridge events. PurchasePending surfaces
// an informational toast without leaving PROCESSING, and PurchaseCancelled
// silently returns to INTRO; neither reaches the logging side effects.
// Everything else normalizes onto the canonical taxonomy.
func (o *Orchestrator) handlePurchaseEvent(p PurchaseEvent) {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return
	}
	providerName := "native"
	if o.provider != nil {
		providerName = o.provider.Name()
	}
	o.mu.Unlock()

	o.cfg.Metrics.RecordPurchaseEvent(providerName, string(p.Name))

	switch p.Name {
	case PurchasePending:
		o.cfg.Notifier.Info("Purchase pending approval")
		return
	case PurchaseCancelled:
		o.mu.Lock()
		if o.state.Stage == StageProcessing {
			o.setStageLocked(StageIntro)
		}
		o.mu.Unlock()
		return
	}

	ev, ok := NormalizePurchaseEvent(p)
	if !ok {
		return
	}
	o.dispatch(ev)
}

// dispatch applies the canonical event side-effect table. Each event logs at
// most once; completion additionally forwards totals to the payment tracker
// and invokes the success callback or default redirect.
func (o *Orchestrator) dispatch(ev Event) {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return
	}
	providerName := "unknown"
	if o.provider != nil {
		providerName = o.provider.Name()
	}
	o.mu.Unlock()

	switch ev.Name {
	case EventInitiateCheckout:
		o.cfg.Logger.Info("checkout loaded",
			Field{Key: "payment_method", Value: ev.PaymentMethod})
		o.mu.Lock()
		o.overlayOpen = true
		o.mu.Unlock()

	case EventInitiatePayment:
		o.cfg.Logger.Info("payment initiated",
			Field{Key: "payment_method", Value: ev.PaymentMethod})

	case EventSelectCheckoutPayment:
		o.cfg.Logger.Info("payment method selected",
			Field{Key: "payment_method", Value: ev.PaymentMethod})

	case EventCompleteCheckout, EventCompleteGiftCheckout:
		fields := []Field{
			{Key: "cycle", Value: ev.Cycle},
			{Key: "total", Value: ev.Total},
			{Key: "currency", Value: ev.CurrencyCode},
			{Key: "payment_method", Value: ev.PaymentMethod},
		}
		if ev.Name == EventCompleteGiftCheckout {
			fields = append(fields, Field{Key: "recipient_id", Value: ev.RecipientID})
		}
		o.cfg.Logger.Info("checkout completed", fields...)

		o.mu.Lock()
		o.state.ProviderTransactionID = ev.TransactionID
		o.setStageLocked(StageCompleted)
		o.overlayOpen = false
		o.mu.Unlock()

		o.cfg.Tracker.TrackPurchase(ev)

		if o.cfg.OnSuccess != nil {
			o.cfg.OnSuccess(ev)
		} else if o.cfg.DefaultRedirect != nil {
			o.cfg.DefaultRedirect()
		}

		o.mu.Lock()
		o.setStageLocked(StageSuccess)
		o.mu.Unlock()

	case EventErrorCheckout:
		fields := []Field{{Key: "payment_method", Value: ev.PaymentMethod}}
		if ev.Err != nil {
			fields = append(fields, Field{Key: "detail", Value: ev.Err.Description})
		}
		o.cfg.Logger.Error("checkout error", fields...)

		o.cfg.Notifier.Error("Something went wrong. Please try again.")

		o.mu.Lock()
		o.overlayOpen = false
		o.state.Err = ev.Err
		o.setStageLocked(StageProcessingError)
		o.mu.Unlock()

	case EventCloseCheckout:
		// User dismissal: bookkeeping only, no log
		o.mu.Lock()
		o.overlayOpen = false
		if o.state.Stage == StageProcessing {
			o.setStageLocked(StageIntro)
		}
		o.mu.Unlock()
	}

	status := "success"
	if ev.Name == EventErrorCheckout {
		status = "error"
	}
	o.cfg.Metrics.RecordCheckoutEvent(providerName, string(ev.Name), status)
}
