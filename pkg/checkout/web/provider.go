package web

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/mihaimyh/gocheckout/pkg/checkout"
)

const providerName = "web"

// Config configures a web checkout provider for one surface.
type Config struct {
	// Platform drives the availability probe: the overlay cannot run in an
	// embedded browser-extension context
	Platform checkout.Platform

	// UserID is the purchasing user, encoded into the overlay custom data
	UserID string

	// Email and CountryCode populate the customer block when known
	Email       string
	CountryCode string

	// Prices is the price-list query service (required)
	Prices checkout.PriceSource

	// Flags optionally supplies plan metadata merged into product options
	Flags checkout.FlagSource

	// NewSDK constructs the overlay SDK. It is invoked at most once
	// process-wide; subsequent providers reuse the shared instance.
	NewSDK func() (OverlaySDK, error)

	// Logger defaults to NoopLogger
	Logger checkout.Logger

	// Metrics defaults to NoopMetrics
	Metrics checkout.Metrics
}

// Provider implements the checkout.Provider contract for the hosted web
// overlay. It also implements checkout.VendorEventSource.
type Provider struct {
	cfg     Config
	logger  checkout.Logger
	metrics checkout.Metrics

	initGroup singleflight.Group

	mu          sync.Mutex
	sdk         OverlaySDK
	initialized bool
	overlayOpen bool
	sdkCancel   func()

	subMu  sync.Mutex
	nextID int
	subs   map[int]func(checkout.VendorEvent)
}

// NewProvider creates a web checkout provider.
func NewProvider(cfg Config) (*Provider, error) {
	if cfg.Prices == nil {
		return nil, checkout.ErrProviderNotConfigured
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
		subs:    make(map[int]func(checkout.VendorEvent)),
	}, nil
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return providerName
}

// IsAvailable reports whether the overlay can run here. It is false inside
// embedded contexts and when no SDK constructor was configured.
func (p *Provider) IsAvailable() bool {
	return !p.cfg.Platform.EmbeddedContext && p.cfg.NewSDK != nil
}

// Initialize acquires the shared overlay SDK and wires vendor events into
// this provider. Concurrent callers collapse onto one initialization and an
// already-initialized provider returns immediately.
func (p *Provider) Initialize(ctx context.Context) error {
	p.mu.Lock()
	if p.initialized {
		p.mu.Unlock()
		return nil
	}
	p.mu.Unlock()

	if !p.IsAvailable() {
		return checkout.ErrProviderUnavailable
	}

	_, err, _ := p.initGroup.Do("init", func() (interface{}, error) {
		sdk, err := sharedOrCreate(p.cfg.NewSDK)
		if err != nil {
			return nil, err
		}
		cancel := sdk.OnEvent(p.fanout)

		p.mu.Lock()
		p.sdk = sdk
		p.sdkCancel = cancel
		p.initialized = true
		p.mu.Unlock()
		return nil, nil
	})
	if err != nil {
		p.logger.Error("overlay sdk initialization failed",
			checkout.Field{Key: "error", Value: err})
	}
	return err
}

// OpenCheckout opens the overlay, or updates the open overlay's line items
// in place. Opening twice would corrupt the vendor's checkout session, so a
// second call while the overlay is up becomes an item update.
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

	items := []OverlayItem{{PriceID: params.PriceID, Quantity: 1}}

	p.mu.Lock()
	sdk := p.sdk
	open := p.overlayOpen
	p.mu.Unlock()

	if open {
		if err := sdk.UpdateItems(items); err != nil {
			p.logger.Error("overlay item update failed",
				checkout.Field{Key: "price_id", Value: params.PriceID},
				checkout.Field{Key: "error", Value: err})
			return
		}
		p.metrics.RecordCheckoutOpened(providerName, "update")
		return
	}

	req := OverlayRequest{
		Items:      items,
		CustomData: p.buildCustomData(params),
		DiscountID: params.DiscountID,
	}
	if p.cfg.Email != "" || p.cfg.CountryCode != "" {
		req.Customer = &OverlayCustomer{
			Email:       p.cfg.Email,
			CountryCode: p.cfg.CountryCode,
		}
	}

	if err := sdk.Open(req); err != nil {
		p.logger.Error("overlay open failed",
			checkout.Field{Key: "price_id", Value: params.PriceID},
			checkout.Field{Key: "error", Value: err})
		return
	}

	p.mu.Lock()
	p.overlayOpen = true
	p.mu.Unlock()
	p.metrics.RecordCheckoutOpened(providerName, "open")
}

// buildCustomData encodes the custom data block. For gifted purchases the
// recipient's id goes under user_id and the purchaser under gifter_id; the
// presence of gifter_id in the completion event is the sole downstream gift
// signal, so this shape must not change.
func (p *Provider) buildCustomData(params checkout.OpenCheckoutParams) map[string]string {
	data := make(map[string]string, len(params.CustomData)+2)
	for k, v := range params.CustomData {
		data[k] = v
	}
	if params.GiftToUserID != "" {
		data[checkout.CustomDataUserID] = params.GiftToUserID
		data[checkout.CustomDataGifterID] = p.cfg.UserID
	} else {
		data[checkout.CustomDataUserID] = p.cfg.UserID
	}
	return data
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
			// Plan metadata is cosmetic; resolve without it
			p.logger.Warn("plan metadata fetch failed",
				checkout.Field{Key: "error", Value: err})
			meta = nil
		}
	}

	return checkout.ResolveOptions(products, meta), nil
}

// SubscribeVendor registers a vendor event handler for the owning surface.
func (p *Provider) SubscribeVendor(fn func(checkout.VendorEvent)) func() {
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

// fanout delivers a raw SDK event to subscribers, tracking overlay state
// from the vendor's own open/close vocabulary.
func (p *Provider) fanout(v checkout.VendorEvent) {
	switch v.Name {
	case checkout.VendorEventLoaded:
		p.mu.Lock()
		p.overlayOpen = true
		p.mu.Unlock()
	case checkout.VendorEventClosed, checkout.VendorEventError, checkout.VendorEventCompleted:
		p.mu.Lock()
		p.overlayOpen = false
		p.mu.Unlock()
	}

	p.subMu.Lock()
	fns := make([]func(checkout.VendorEvent), 0, len(p.subs))
	for _, fn := range p.subs {
		fns = append(fns, fn)
	}
	p.subMu.Unlock()

	for _, fn := range fns {
		fn(v)
	}
}

// Cleanup releases this surface's event registrations. The shared SDK
// instance survives: it is reused by other surfaces.
func (p *Provider) Cleanup() {
	p.mu.Lock()
	cancel := p.sdkCancel
	p.sdkCancel = nil
	p.overlayOpen = false
	p.initialized = false
	p.sdk = nil
	p.mu.Unlock()

	if cancel != nil {
		cancel()
	}

	p.subMu.Lock()
	p.subs = make(map[int]func(checkout.VendorEvent))
	p.subMu.Unlock()
}
