package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mihaimyh/gocheckout/pkg/checkout"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []checkout.PurchaseEvent
}

func (r *recordingPublisher) Publish(ev checkout.PurchaseEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func post(h http.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/purchase-events", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHandlerPublishesValidEvent(t *testing.T) {
	pub := &recordingPublisher{}
	h := Handler(Config{Publisher: pub})

	rec := post(h, `{"name":"PurchaseCompleted","transactionId":"txn_9"}`)

	assert.Equal(t, http.StatusAccepted, rec.Code)
	require.Len(t, pub.events, 1)
	assert.Equal(t, checkout.PurchaseCompleted, pub.events[0].Name)
	assert.Equal(t, "txn_9", pub.events[0].TransactionID)
}

func TestHandlerRejectsNonPost(t *testing.T) {
	pub := &recordingPublisher{}
	h := Handler(Config{Publisher: pub})

	req := httptest.NewRequest(http.MethodGet, "/purchase-events", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Empty(t, pub.events)
}

func TestHandlerWithoutPublisher(t *testing.T) {
	h := Handler(Config{})
	rec := post(h, `{"name":"PurchaseCompleted"}`)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHandlerRejectsBadPayloads(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", "not json"},
		{"unknown event name", `{"name":"PurchaseRefunded"}`},
		{"empty object", `{}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pub := &recordingPublisher{}
			h := Handler(Config{Publisher: pub})

			rec := post(h, tt.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Empty(t, pub.events)
		})
	}
}

func TestHandlerSetsSecurityHeaders(t *testing.T) {
	pub := &recordingPublisher{}
	h := Handler(Config{Publisher: pub})

	rec := post(h, `{"name":"PurchasePending"}`)

	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
}

func TestParseEvent(t *testing.T) {
	ev, err := ParseEvent([]byte(`{"name":"PurchaseFailed","detail":"E_DECLINED"}`))
	require.NoError(t, err)
	assert.Equal(t, checkout.PurchaseFailed, ev.Name)
	assert.Equal(t, "E_DECLINED", ev.Detail)

	_, err = ParseEvent([]byte(`{"name":"somethingElse"}`))
	assert.ErrorIs(t, err, ErrUnknownEvent)
}
