package checkout

import "testing"

func vendorEvent(name string, customData map[string]string) VendorEvent {
	return VendorEvent{
		Name: name,
		Data: VendorEventData{
			Payment:       VendorPayment{MethodDetails: VendorMethodDetails{Type: "card"}},
			Items:         []VendorItem{{PriceID: "m1", Quantity: 1, BillingCycle: VendorBillingCycle{Interval: "month"}}},
			Totals:        VendorTotals{Total: 9.99},
			CurrencyCode:  "USD",
			CustomData:    customData,
			TransactionID: "txn_123",
		},
	}
}

func TestNormalizeVendorEvent_Mapping(t *testing.T) {
	tests := []struct {
		vendor string
		want   EventName
	}{
		{VendorEventLoaded, EventInitiateCheckout},
		{VendorEventPaymentInitiated, EventInitiatePayment},
		{VendorEventPaymentSelected, EventSelectCheckoutPayment},
		{VendorEventError, EventErrorCheckout},
		{VendorEventClosed, EventCloseCheckout},
	}

	for _, tt := range tests {
		t.Run(tt.vendor, func(t *testing.T) {
			ev, ok := NormalizeVendorEvent(vendorEvent(tt.vendor, nil))
			if !ok {
				t.Fatalf("expected %s to normalize", tt.vendor)
			}
			if ev.Name != tt.want {
				t.Errorf("got %s, want %s", ev.Name, tt.want)
			}
			if ev.PaymentMethod != "card" {
				t.Errorf("payment method not carried, got %q", ev.PaymentMethod)
			}
		})
	}
}

func TestNormalizeVendorEvent_GiftClassification(t *testing.T) {
	// gifter_id present: gift completion
	ev, ok := NormalizeVendorEvent(vendorEvent(VendorEventCompleted, map[string]string{
		CustomDataUserID:   "recipient_1",
		CustomDataGifterID: "buyer_9",
	}))
	if !ok || ev.Name != EventCompleteGiftCheckout {
		t.Fatalf("expected CompleteGiftCheckout, got %v (ok=%v)", ev.Name, ok)
	}
	if ev.RecipientID != "recipient_1" || ev.GifterID != "buyer_9" {
		t.Errorf("custom data not carried: recipient=%q gifter=%q", ev.RecipientID, ev.GifterID)
	}

	// gifter_id absent: normal completion
	ev, ok = NormalizeVendorEvent(vendorEvent(VendorEventCompleted, map[string]string{
		CustomDataUserID: "buyer_9",
	}))
	if !ok || ev.Name != EventCompleteCheckout {
		t.Fatalf("expected CompleteCheckout, got %v (ok=%v)", ev.Name, ok)
	}
	if ev.Cycle != "month" || ev.Total != 9.99 || ev.CurrencyCode != "USD" {
		t.Errorf("completion totals not carried: %+v", ev)
	}
	if ev.TransactionID != "txn_123" {
		t.Errorf("transaction id not carried, got %q", ev.TransactionID)
	}
}

func TestNormalizeVendorEvent_Unknown(t *testing.T) {
	if _, ok := NormalizeVendorEvent(vendorEvent("checkout.resized", nil)); ok {
		t.Error("unmapped vendor events must be dropped")
	}
}

func TestNormalizePurchaseEvent(t *testing.T) {
	tests := []struct {
		name   string
		event  PurchaseEvent
		want   EventName
		mapped bool
	}{
		{
			name:   "initiated",
			event:  PurchaseEvent{Name: PurchaseInitiated},
			want:   EventInitiatePayment,
			mapped: true,
		},
		{
			name:   "completed",
			event:  PurchaseEvent{Name: PurchaseCompleted, TransactionID: "txn_9"},
			want:   EventCompleteCheckout,
			mapped: true,
		},
		{
			name:   "failed",
			event:  PurchaseEvent{Name: PurchaseFailed, Detail: "E_DECLINED"},
			want:   EventErrorCheckout,
			mapped: true,
		},
		{
			name:   "pending has no canonical mapping",
			event:  PurchaseEvent{Name: PurchasePending},
			mapped: false,
		},
		{
			name:   "cancelled has no canonical mapping",
			event:  PurchaseEvent{Name: PurchaseCancelled},
			mapped: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, ok := NormalizePurchaseEvent(tt.event)
			if ok != tt.mapped {
				t.Fatalf("mapped = %v, want %v", ok, tt.mapped)
			}
			if !tt.mapped {
				return
			}
			if ev.Name != tt.want {
				t.Errorf("got %s, want %s", ev.Name, tt.want)
			}
		})
	}

	ev, _ := NormalizePurchaseEvent(PurchaseEvent{Name: PurchaseFailed, Detail: "E_DECLINED"})
	if ev.Err == nil || ev.Err.Description != "E_DECLINED" {
		t.Errorf("vendor error code not carried: %+v", ev.Err)
	}
}
