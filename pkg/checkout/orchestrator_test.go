package checkout

import (
	"context"
	"sync"
	"testing"
)

// fakeProvider implements Provider plus both event source interfaces so the
// orchestrator wiring can be driven by hand.
type fakeProvider struct {
	mu        sync.Mutex
	available bool
	opened    []OpenCheckoutParams
	cleaned   bool

	vendorSubs   []func(VendorEvent)
	purchaseSubs []func(PurchaseEvent)
}

func newFakeProvider(available bool) *fakeProvider {
	return &fakeProvider{available: available}
}

func (f *fakeProvider) Name() string                       { return "fake" }
func (f *fakeProvider) Initialize(_ context.Context) error { return nil }
func (f *fakeProvider) IsAvailable() bool                  { return f.available }

func (f *fakeProvider) OpenCheckout(params OpenCheckoutParams) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.opened = append(f.opened, params)
}

func (f *fakeProvider) GetProductOptions(_ context.Context) ([]ProductOption, error) {
	return []ProductOption{{ID: "m1"}}, nil
}

func (f *fakeProvider) Cleanup() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cleaned = true
}

func (f *fakeProvider) SubscribeVendor(fn func(VendorEvent)) func() {
	f.vendorSubs = append(f.vendorSubs, fn)
	return func() { f.vendorSubs = nil }
}

func (f *fakeProvider) SubscribePurchase(fn func(PurchaseEvent)) func() {
	f.purchaseSubs = append(f.purchaseSubs, fn)
	return func() { f.purchaseSubs = nil }
}

func (f *fakeProvider) fireVendor(v VendorEvent) {
	for _, fn := range f.vendorSubs {
		fn(v)
	}
}

func (f *fakeProvider) firePurchase(p PurchaseEvent) {
	for _, fn := range f.purchaseSubs {
		fn(p)
	}
}

type recordingLogger struct {
	mu     sync.Mutex
	infos  []string
	errors []string
}

func (l *recordingLogger) Debug(msg string, _ ...Field) {}
func (l *recordingLogger) Warn(msg string, _ ...Field)  {}

func (l *recordingLogger) Info(msg string, _ ...Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.infos = append(l.infos, msg)
}

func (l *recordingLogger) Error(msg string, _ ...Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errors = append(l.errors, msg)
}

func (l *recordingLogger) count(msg string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, m := range l.infos {
		if m == msg {
			n++
		}
	}
	return n
}

type recordingNotifier struct {
	mu        sync.Mutex
	successes []string
	infos     []string
	errors    []string
}

func (n *recordingNotifier) Success(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.successes = append(n.successes, msg)
}

func (n *recordingNotifier) Info(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.infos = append(n.infos, msg)
}

func (n *recordingNotifier) Error(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.errors = append(n.errors, msg)
}

type recordingTracker struct {
	mu     sync.Mutex
	events []Event
}

func (r *recordingTracker) TrackPurchase(ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func newTestOrchestrator(t *testing.T, p Provider) (*Orchestrator, *recordingLogger, *recordingNotifier, *recordingTracker) {
	t.Helper()
	logger := &recordingLogger{}
	notifier := &recordingNotifier{}
	tracker := &recordingTracker{}
	o, err := New(Config{
		Provider: p,
		Logger:   logger,
		Notifier: notifier,
		Tracker:  tracker,
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return o, logger, notifier, tracker
}

func TestNewRequiresProvider(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Fatal("expected error without provider or factory")
	}
}

func TestOpenCheckoutUnavailableProviderIsNoop(t *testing.T) {
	p := newFakeProvider(false)
	o, _, notifier, _ := newTestOrchestrator(t, p)

	o.OpenCheckout(OpenCheckoutParams{PriceID: "m2"})

	if len(p.opened) != 0 {
		t.Error("unavailable provider must not receive OpenCheckout")
	}
	if got := o.State(); got.Stage != StageIntro {
		t.Errorf("state changed to %s, want INTRO", got.Stage)
	}
	if len(notifier.errors) != 0 {
		t.Error("no toast expected for a disabled buy action")
	}
}

func TestOpenCheckoutMissingPriceIDIsNoop(t *testing.T) {
	p := newFakeProvider(true)
	o, logger, _, _ := newTestOrchestrator(t, p)

	o.OpenCheckout(OpenCheckoutParams{})

	if len(p.opened) != 0 {
		t.Error("provider must not be reached without a price id")
	}
	if len(logger.errors) == 0 {
		t.Error("rejection must be logged")
	}
}

func TestOpenCheckoutTransitionsToProcessing(t *testing.T) {
	p := newFakeProvider(true)
	o, _, _, _ := newTestOrchestrator(t, p)

	o.OpenCheckout(OpenCheckoutParams{PriceID: "m2"})

	if got := o.State(); got.Stage != StageProcessing {
		t.Errorf("stage = %s, want PROCESSING", got.Stage)
	}
	if len(p.opened) != 1 || p.opened[0].PriceID != "m2" {
		t.Errorf("provider call mismatch: %+v", p.opened)
	}
}

func TestCompletionLogsOnceAndTracks(t *testing.T) {
	p := newFakeProvider(true)
	o, logger, _, tracker := newTestOrchestrator(t, p)

	var successEvents []Event
	o.cfg.OnSuccess = func(ev Event) { successEvents = append(successEvents, ev) }

	o.OpenCheckout(OpenCheckoutParams{PriceID: "m2"})
	p.fireVendor(vendorEvent(VendorEventCompleted, map[string]string{
		CustomDataUserID: "buyer_9",
	}))

	if got := logger.count("checkout completed"); got != 1 {
		t.Errorf("completion logged %d times, want exactly 1", got)
	}
	if len(tracker.events) != 1 {
		t.Fatalf("tracker received %d events, want 1", len(tracker.events))
	}
	if tracker.events[0].Total != 9.99 || tracker.events[0].CurrencyCode != "USD" {
		t.Errorf("tracker totals mismatch: %+v", tracker.events[0])
	}
	if len(successEvents) != 1 {
		t.Errorf("success callback invoked %d times, want 1", len(successEvents))
	}

	state := o.State()
	if state.Stage != StageSuccess {
		t.Errorf("stage = %s, want SUCCESS", state.Stage)
	}
	if state.ProviderTransactionID != "txn_123" {
		t.Errorf("transaction id = %q, want txn_123", state.ProviderTransactionID)
	}
}

func TestGiftCompletionLogsOnce(t *testing.T) {
	p := newFakeProvider(true)
	o, logger, _, tracker := newTestOrchestrator(t, p)

	o.OpenCheckout(OpenCheckoutParams{PriceID: "g1", GiftToUserID: "recipient_1"})
	p.fireVendor(vendorEvent(VendorEventCompleted, map[string]string{
		CustomDataUserID:   "recipient_1",
		CustomDataGifterID: "buyer_9",
	}))

	if got := logger.count("checkout completed"); got != 1 {
		t.Errorf("gift completion logged %d times, want exactly 1", got)
	}
	if len(tracker.events) != 1 || tracker.events[0].Name != EventCompleteGiftCheckout {
		t.Errorf("tracker events mismatch: %+v", tracker.events)
	}
}

func TestVendorErrorShowsToastAndErrorState(t *testing.T) {
	p := newFakeProvider(true)
	o, _, notifier, _ := newTestOrchestrator(t, p)

	o.OpenCheckout(OpenCheckoutParams{PriceID: "m2"})
	p.fireVendor(vendorEvent(VendorEventError, nil))

	if len(notifier.errors) != 1 {
		t.Errorf("error toast shown %d times, want 1", len(notifier.errors))
	}
	if got := o.State(); got.Stage != StageProcessingError {
		t.Errorf("stage = %s, want PROCESSING_ERROR", got.Stage)
	}
}

func TestOverlayDismissalReturnsToIntroWithoutLog(t *testing.T) {
	p := newFakeProvider(true)
	o, logger, _, _ := newTestOrchestrator(t, p)

	o.OpenCheckout(OpenCheckoutParams{PriceID: "m2"})
	p.fireVendor(vendorEvent(VendorEventClosed, nil))

	if got := o.State(); got.Stage != StageIntro {
		t.Errorf("stage = %s, want INTRO", got.Stage)
	}
	if len(logger.infos) != 0 {
		t.Errorf("dismissal must not log, got %v", logger.infos)
	}
}

func TestPurchaseCancelledIsSilent(t *testing.T) {
	p := newFakeProvider(true)
	o, logger, notifier, _ := newTestOrchestrator(t, p)

	o.OpenCheckout(OpenCheckoutParams{PriceID: "m2"})
	p.firePurchase(PurchaseEvent{Name: PurchaseCancelled})

	if len(notifier.errors)+len(notifier.infos)+len(notifier.successes) != 0 {
		t.Error("cancellation must never toast")
	}
	if len(logger.infos)+len(logger.errors) != 0 {
		t.Error("cancellation must never log")
	}
	if got := o.State(); got.Stage != StageIntro {
		t.Errorf("stage = %s, want INTRO", got.Stage)
	}
}

func TestPurchaseFailedAlwaysToasts(t *testing.T) {
	p := newFakeProvider(true)
	o, _, notifier, _ := newTestOrchestrator(t, p)

	o.OpenCheckout(OpenCheckoutParams{PriceID: "m2"})
	p.firePurchase(PurchaseEvent{Name: PurchaseFailed, Detail: "E_DECLINED"})

	if len(notifier.errors) != 1 {
		t.Errorf("failure toast shown %d times, want 1", len(notifier.errors))
	}
	state := o.State()
	if state.Stage != StageProcessingError {
		t.Errorf("stage = %s, want PROCESSING_ERROR", state.Stage)
	}
	if state.Err == nil || state.Err.Description != "E_DECLINED" {
		t.Errorf("vendor error code not surfaced: %+v", state.Err)
	}
}

func TestPurchasePendingToastsWithoutTransition(t *testing.T) {
	p := newFakeProvider(true)
	o, _, notifier, _ := newTestOrchestrator(t, p)

	o.OpenCheckout(OpenCheckoutParams{PriceID: "m2"})
	p.firePurchase(PurchaseEvent{Name: PurchasePending})

	if len(notifier.infos) != 1 {
		t.Errorf("pending toast shown %d times, want 1", len(notifier.infos))
	}
	if got := o.State(); got.Stage != StageProcessing {
		t.Errorf("stage = %s, want PROCESSING", got.Stage)
	}
}

func TestCloseReleasesListeners(t *testing.T) {
	p := newFakeProvider(true)
	o, logger, notifier, _ := newTestOrchestrator(t, p)

	o.OpenCheckout(OpenCheckoutParams{PriceID: "m2"})
	o.Close()

	if !p.cleaned {
		t.Error("provider Cleanup not called on Close")
	}
	if len(p.vendorSubs) != 0 || len(p.purchaseSubs) != 0 {
		t.Error("event subscriptions not released")
	}

	// Events after Close must not be acted on
	p.firePurchase(PurchaseEvent{Name: PurchaseFailed})
	if len(notifier.errors) != 0 {
		t.Error("event for a defunct flow produced a toast")
	}
	if len(logger.errors) != 0 {
		t.Error("event for a defunct flow was logged")
	}
}

func TestSelectProductAndReset(t *testing.T) {
	p := newFakeProvider(true)
	o, _, _, _ := newTestOrchestrator(t, p)

	o.SelectProduct("m2", "7.99")
	sel := o.Selected()
	if sel == nil || sel.ID != "m2" || sel.Value != "7.99" {
		t.Fatalf("selection mismatch: %+v", sel)
	}

	o.OpenCheckout(OpenCheckoutParams{PriceID: "m2"})
	if o.Selected() == nil {
		t.Error("selection must persist across state transitions")
	}

	o.Reset()
	if o.Selected() != nil {
		t.Error("selection must clear on reset")
	}
	if got := o.State(); got.Stage != StageIntro {
		t.Errorf("stage = %s after reset, want INTRO", got.Stage)
	}
}

func TestEnterComment(t *testing.T) {
	p := newFakeProvider(true)
	o, _, _, _ := newTestOrchestrator(t, p)

	o.EnterComment()
	if got := o.State(); got.Stage != StageComment {
		t.Errorf("stage = %s, want COMMENT", got.Stage)
	}

	o.OpenCheckout(OpenCheckoutParams{PriceID: "g1"})
	if got := o.State(); got.Stage != StageProcessing {
		t.Errorf("stage = %s, want PROCESSING", got.Stage)
	}
}

func TestLazyProviderMemoized(t *testing.T) {
	p := newFakeProvider(true)
	calls := 0
	o, err := New(Config{
		NewProvider: func() (Provider, error) {
			calls++
			return p, nil
		},
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if _, err := o.GetProductOptions(context.Background()); err != nil {
		t.Fatalf("GetProductOptions failed: %v", err)
	}
	o.OpenCheckout(OpenCheckoutParams{PriceID: "m1"})
	if _, err := o.GetProductOptions(context.Background()); err != nil {
		t.Fatalf("GetProductOptions failed: %v", err)
	}

	if calls != 1 {
		t.Errorf("provider constructed %d times, want exactly 1", calls)
	}
}
