package checkout

import (
	"fmt"
	"math"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// FormatPrice renders an amount with its currency for display. Unknown
// currency codes fall back to a plain "amount CODE" form.
func FormatPrice(amount float64, currencyCode string) string {
	unit, err := currency.ParseISO(currencyCode)
	if err != nil {
		return fmt.Sprintf("%.2f %s", amount, currencyCode)
	}
	p := message.NewPrinter(language.English)
	return p.Sprintf("%v", currency.Symbol(unit.Amount(amount)))
}

// CalculateMonthlyPrice derives the per-month equivalent of a price. Yearly
// prices are divided by 12 and truncated (not rounded) to two decimals, so
// the displayed "per month" figure never exceeds the backend quote. Monthly
// prices are returned unchanged.
func CalculateMonthlyPrice(price float64, duration Duration) float64 {
	if duration != DurationYearly {
		return price
	}
	// The epsilon absorbs float representation noise so exact quotients
	// (e.g. 143.88/12) do not truncate one cent low.
	return math.Trunc(price/12*100+1e-9) / 100
}

// FindGiftOneYearOption returns the single product whose metadata tags it as
// the one-year gift SKU, or nil when the list carries none.
func FindGiftOneYearOption(products []PricedProduct) *PricedProduct {
	for i := range products {
		if products[i].Metadata.AppsID == AppsIDGiftOneYear {
			return &products[i]
		}
	}
	return nil
}

// FindEarlyAdopterPlanID returns the price id of the cheapest monthly SKU,
// but only when the list carries more than one monthly SKU; a single monthly
// SKU is never flagged, since there is nothing to be "early" relative to.
// Ties break by list order (first minimum wins). Returns "" when no SKU
// qualifies.
func FindEarlyAdopterPlanID(products []PricedProduct) string {
	var (
		monthlyCount int
		cheapestID   string
		cheapest     float64
	)
	for _, p := range products {
		if p.Duration != DurationMonthly {
			continue
		}
		monthlyCount++
		if cheapestID == "" || p.Price.Amount < cheapest {
			cheapestID = p.PriceID
			cheapest = p.Price.Amount
		}
	}
	if monthlyCount < 2 {
		return ""
	}
	return cheapestID
}

// HasFreeTrial reports whether any product in the list carries a trial
// period.
func HasFreeTrial(products []PricedProduct) bool {
	for _, p := range products {
		if p.Trial != nil {
			return true
		}
	}
	return false
}

// ResolveOptions is the pricing resolver: it merges the raw price list with
// plan metadata into display-ready options. The gift-one-year SKU is
// excluded from the result (it is surfaced separately via
// FindGiftOneYearOption, never as a normal choice) and the early-adopter SKU
// is flagged. Recomputation is pure and deterministic for the same inputs.
func ResolveOptions(products []PricedProduct, meta map[string]PlanMeta) []ProductOption {
	earlyAdopterID := FindEarlyAdopterPlanID(products)

	options := make([]ProductOption, 0, len(products))
	for _, p := range products {
		if p.Metadata.AppsID == AppsIDGiftOneYear {
			continue
		}

		monthly := CalculateMonthlyPrice(p.Price.Amount, p.Duration)
		opt := ProductOption{
			ID:                    p.PriceID,
			Caption:               p.Metadata.Caption,
			PlanFamily:            p.Metadata.PlanFamily,
			Price:                 p.Price.Amount,
			FormattedPrice:        p.Price.Formatted,
			MonthlyPrice:          monthly,
			FormattedMonthlyPrice: FormatPrice(monthly, p.CurrencyCode),
			CurrencyCode:          p.CurrencyCode,
			Duration:              p.Duration,
			Trial:                 p.Trial,
			EarlyAdopter:          earlyAdopterID != "" && p.PriceID == earlyAdopterID,
		}
		if opt.FormattedPrice == "" {
			opt.FormattedPrice = FormatPrice(p.Price.Amount, p.CurrencyCode)
		}
		if m, ok := meta[p.PriceID]; ok {
			if m.Caption != "" {
				opt.Caption = m.Caption
			}
			if m.PlanFamily != "" {
				opt.PlanFamily = m.PlanFamily
			}
		}
		options = append(options, opt)
	}
	return options
}

// SelectableOptions resolves the user-selectable option list without plan
// metadata overrides.
func SelectableOptions(products []PricedProduct) []ProductOption {
	return ResolveOptions(products, nil)
}
