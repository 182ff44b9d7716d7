package native

import (
	"context"
	"sync"
	"time"

	"github.com/mihaimyh/gocheckout/pkg/checkout"
)

const providerName = "native"

// Config configures a native purchase provider for one surface.
type Config struct {
	// PurchaseType selects the host message handler. Defaults to
	// PurchaseTypeSubscription.
	PurchaseType checkout.PurchaseType

	// AppAccountToken is attached to outbound purchase messages so the
	// store transaction can be tied back to the account
	AppAccountToken string

	// Poster is the outbound side of the bridge (required)
	Poster MessagePoster

	// Broadcaster is the inbound side of the bridge (required)
	Broadcaster Broadcaster

	// Prices is the price-list query service (required)
	Prices checkout.PriceSource

	// Flags optionally supplies plan metadata merged into product options
	Flags checkout.FlagSource

	// Logger defaults to NoopLogger
	Logger checkout.Logger

	// Metrics defaults to NoopMetrics
	Metrics checkout.Metrics
}

// Provider implements the checkout.Provider contract over the native bridge.
// It also implements checkout.PurchaseEventSource: events may arrive in any
// order relative to UI navigation, so subscribers are fed from a pump
// goroutine tied to this provider's lifetime.
type Provider struct {
	cfg     Config
	logger  checkout.Logger
	metrics checkout.Metrics

	mu          sync.Mutex
	initialized bool
	unsubscribe func()
	done        chan struct{}

	subMu  sync.Mutex
	nextID int
	subs   map[int]func(checkout.PurchaseEvent)
}

// NewProvider creates a native purchase provider.
func NewProvider(cfg Config) (*Provider, error) {
	if cfg.Prices == nil {
		return nil, checkout.ErrProviderNotConfigured
	}
	if cfg.PurchaseType == "" {
		cfg.PurchaseType = checkout.PurchaseTypeSubscription
	}
	logger := cfg.Logger
	if logger == nil {
		logger = &checkout.NoopLogger{}
	}
	metrics := cfg.Metrics
	if metrics == nil {
		metrics = &checkout.NoopMetrics{}
	}
	return &Provider{
		cfg:     cfg,
		logger:  logger,
		metrics: metrics,
		subs:    make(map[int]func(checkout.PurchaseEvent)),
	}, nil
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return providerName
}

// IsAvailable reports whether both sides of the bridge are wired.
func (p *Provider) IsAvailable() bool {
	return p.cfg.Poster != nil && p.cfg.Broadcaster != nil
}

// Initialize subscribes to the broadcast channel and starts the event pump.
// Idempotent: an initialized provider returns immediately.
func (p *Provider) Initialize(_ context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		return nil
	}
	if !p.IsAvailable() {
		return checkout.ErrBridgeUnavailable
	}

	events, cancel := p.cfg.Broadcaster.Subscribe()
	done := make(chan struct{})
	p.unsubscribe = cancel
	p.done = done
	p.initialized = true

	go p.pump(events, done)
	return nil
}

func (p *Provider) pump(events <-chan checkout.PurchaseEvent, done chan struct{}) {
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return
			}
			p.fanout(ev)
		case <-done:
			return
		}
	}
}

func (p *Provider) fanout(ev checkout.PurchaseEvent) {
	p.subMu.Lock()
	fns := make([]func(checkout.PurchaseEvent), 0, len(p.subs))
	for _, fn := range p.subs {
		fns = append(fns, fn)
	}
	p.subMu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}

// handlerID maps the purchase type to its host message handler.
func (p *Provider) handlerID() string {
	if p.cfg.PurchaseType == checkout.PurchaseTypeCores {
		return HandlerCores
	}
	return HandlerSubscription
}

// OpenCheckout posts the one-way purchase message to the host shell. The
// purchase sheet is presented by the host; results arrive asynchronously on
// the broadcast channel.
func (p *Provider) OpenCheckout(params checkout.OpenCheckoutParams) {
	if params.PriceID == "" {
		p.logger.Error("open checkout rejected",
			checkout.Field{Key: "error", Value: checkout.ErrMissingPriceID})
		return
	}
	if !p.IsAvailable() {
		p.logger.Warn("open checkout skipped",
			checkout.Field{Key: "provider", Value: providerName},
			checkout.Field{Key: "error", Value: checkout.ErrProviderUnavailable})
		return
	}
	if err := p.Initialize(context.Background()); err != nil {
		return
	}

	msg := OutboundMessage{
		ProductID:       params.PriceID,
		AppAccountToken: p.cfg.AppAccountToken,
	}
	if err := p.cfg.Poster.Post(p.handlerID(), msg); err != nil {
		p.logger.Error("purchase message post failed",
			checkout.Field{Key: "handler", Value: p.handlerID()},
			checkout.Field{Key: "product_id", Value: params.PriceID},
			checkout.Field{Key: "error", Value: err})
		return
	}
	p.metrics.RecordCheckoutOpened(providerName, "open")
}

// GetProductOptions fetches and resolves the display-ready product list,
// lazily initializing the provider.
func (p *Provider) GetProductOptions(ctx context.Context) ([]checkout.ProductOption, error) {
	if err := p.Initialize(ctx); err != nil {
		return nil, err
	}

	start := time.Now()
	products, err := p.cfg.Prices.ListProducts(ctx)
	if err != nil {
		p.metrics.RecordProductFetch(providerName, "error")
		return nil, err
	}
	p.metrics.RecordProductFetch(providerName, "success")
	p.metrics.RecordProductFetchDuration(providerName, time.Since(start))

	var meta map[string]checkout.PlanMeta
	if p.cfg.Flags != nil {
		meta, err = p.cfg.Flags.PlanMetadata(ctx)
		if err != nil {
			p.logger.Warn("plan metadata fetch failed",
				checkout.Field{Key: "error", Value: err})
			meta = nil
		}
	}

	return checkout.ResolveOptions(products, meta), nil
}

// SubscribePurchase registers a purchase event handler for the owning
// surface.
func (p *Provider) SubscribePurchase(fn func(checkout.PurchaseEvent)) func() {
	p.subMu.Lock()
	defer p.subMu.Unlock()
	id := p.nextID
	p.nextID++
	p.subs[id] = fn
	return func() {
		p.subMu.Lock()
		defer p.subMu.Unlock()
		delete(p.subs, id)
	}
}

// Cleanup releases the broadcast subscription and stops the event pump, so
// purchase events meant for a now-defunct flow are not acted on.
func (p *Provider) Cleanup() {
	p.mu.Lock()
	unsubscribe := p.unsubscribe
	done := p.done
	p.unsubscribe = nil
	p.done = nil
	p.initialized = false
	p.mu.Unlock()

	if done != nil {
		close(done)
	}
	if unsubscribe != nil {
		unsubscribe()
	}

	p.subMu.Lock()
	p.subs = make(map[int]func(checkout.PurchaseEvent))
	p.subMu.Unlock()
}
