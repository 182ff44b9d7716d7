// Package stripe implements checkout.PriceSource on top of the Stripe
// Prices API. Active recurring prices map onto PricedProducts; metadata keys
// carry the plan family, caption, and apps id tag.
package stripe

import (
	"context"
	"fmt"
	"strings"

	"github.com/stripe/stripe-go/v83"

	"github.com/mihaimyh/gocheckout/pkg/checkout"
)

// Metadata keys read from Stripe price metadata.
const (
	metadataAppsID     = "apps_id"
	metadataPlanFamily = "plan_family"
	metadataCaption    = "caption"
)

// Config configures the Stripe price source.
type Config struct {
	// APIKey is the Stripe secret key (required)
	APIKey string

	// LookupKeys restricts the listing to specific price lookup keys.
	// Empty lists all active recurring prices.
	LookupKeys []string
}

// Source implements checkout.PriceSource using the Stripe client.
type Source struct {
	client *stripe.Client
	config Config
}

// New creates a Stripe-backed price source.
func New(config Config) (*Source, error) {
	apiKey := strings.TrimSpace(config.APIKey)
	if apiKey == "" {
		return nil, checkout.ErrProviderNotConfigured
	}
	return &Source{
		client: stripe.NewClient(apiKey),
		config: config,
	}, nil
}

// ListProducts lists active prices and maps them in Stripe's return order.
// Non-recurring prices are skipped; the checkout layer only sells cycles.
func (s *Source) ListProducts(ctx context.Context) ([]checkout.PricedProduct, error) {
	params := &stripe.PriceListParams{
		Active: stripe.Bool(true),
	}
	if len(s.config.LookupKeys) > 0 {
		params.LookupKeys = stripe.StringSlice(s.config.LookupKeys)
	}

	var products []checkout.PricedProduct
	for price, err := range s.client.V1Prices.List(ctx, params) {
		if err != nil {
			return nil, fmt.Errorf("failed to list prices: %w", err)
		}
		product, ok := mapPrice(price)
		if !ok {
			continue
		}
		products = append(products, product)
	}
	return products, nil
}

// mapPrice converts a Stripe price into a PricedProduct. The second return
// is false for prices the checkout layer cannot sell.
func mapPrice(price *stripe.Price) (checkout.PricedProduct, bool) {
	if price == nil || price.Recurring == nil {
		return checkout.PricedProduct{}, false
	}

	var duration checkout.Duration
	switch price.Recurring.Interval {
	case stripe.PriceRecurringIntervalMonth:
		duration = checkout.DurationMonthly
	case stripe.PriceRecurringIntervalYear:
		duration = checkout.DurationYearly
	default:
		return checkout.PricedProduct{}, false
	}

	amount := float64(price.UnitAmount) / 100
	currencyCode := strings.ToUpper(string(price.Currency))

	product := checkout.PricedProduct{
		PriceID: price.ID,
		Price: checkout.Price{
			Amount:    amount,
			Formatted: checkout.FormatPrice(amount, currencyCode),
		},
		CurrencyCode: currencyCode,
		Duration:     duration,
	}

	if price.Metadata != nil {
		product.Metadata = checkout.ProductMetadata{
			AppsID:     price.Metadata[metadataAppsID],
			PlanFamily: price.Metadata[metadataPlanFamily],
			Caption:    price.Metadata[metadataCaption],
		}
	}
	if product.Metadata.Caption == "" {
		product.Metadata.Caption = price.Nickname
	}

	if price.Recurring.TrialPeriodDays > 0 {
		product.Trial = &checkout.TrialPeriod{
			Interval:  "day",
			Frequency: int(price.Recurring.TrialPeriodDays),
		}
	}

	return product, true
}
