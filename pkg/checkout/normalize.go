package checkout

// NormalizeVendorEvent maps a raw web overlay event onto the canonical
// taxonomy. The second return is false for vendor events that have no
// canonical mapping; callers ignore those.
//
// A completion is classified as a gift purely by inspecting the custom data
// payload for gifter_id. There is no separate gift-mode flag carried through
// the state machine.
func NormalizeVendorEvent(v VendorEvent) (Event, bool) {
	ev := Event{
		PaymentMethod: v.Data.Payment.MethodDetails.Type,
		Total:         v.Data.Totals.Total,
		CurrencyCode:  v.Data.CurrencyCode,
		TransactionID: v.Data.TransactionID,
	}
	if len(v.Data.Items) > 0 {
		ev.Cycle = v.Data.Items[0].BillingCycle.Interval
	}
	if v.Data.CustomData != nil {
		ev.RecipientID = v.Data.CustomData[CustomDataUserID]
		ev.GifterID = v.Data.CustomData[CustomDataGifterID]
	}

	switch v.Name {
	case VendorEventLoaded:
		ev.Name = EventInitiateCheckout
	case VendorEventPaymentInitiated:
		ev.Name = EventInitiatePayment
	case VendorEventPaymentSelected:
		ev.Name = EventSelectCheckoutPayment
	case VendorEventCompleted:
		if ev.GifterID != "" {
			ev.Name = EventCompleteGiftCheckout
		} else {
			ev.Name = EventCompleteCheckout
		}
	case VendorEventError:
		ev.Name = EventErrorCheckout
		ev.Err = &CheckoutError{Title: "Checkout failed"}
		if v.Data.Error != nil {
			ev.Err.Description = v.Data.Error.Detail
		}
	case VendorEventClosed:
		ev.Name = EventCloseCheckout
	default:
		return Event{}, false
	}

	return ev, true
}

// NormalizePurchaseEvent maps a native bridge purchase event onto the
// canonical taxonomy. PurchasePending and PurchaseCancelled intentionally
// have no canonical mapping: pending stays inside PROCESSING with only an
// informational toast, and cancellation is a silent no-op, so neither may
// reach the logging side effects.
func NormalizePurchaseEvent(p PurchaseEvent) (Event, bool) {
	switch p.Name {
	case PurchaseInitiated:
		return Event{Name: EventInitiatePayment, TransactionID: p.TransactionID}, true
	case PurchaseCompleted:
		return Event{Name: EventCompleteCheckout, TransactionID: p.TransactionID}, true
	case PurchaseFailed:
		return Event{
			Name: EventErrorCheckout,
			Err: &CheckoutError{
				Title:       "Purchase failed",
				Description: p.Detail,
			},
		}, true
	default:
		return Event{}, false
	}
}
