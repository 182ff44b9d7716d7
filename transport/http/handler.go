// Package http provides a net/http handler that accepts purchase events
// posted by the host shell and publishes them onto the native bridge
// broadcast channel.
package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/mihaimyh/gocheckout/pkg/checkout"
	"github.com/mihaimyh/gocheckout/pkg/checkout/native"
)

const maxBodyBytes = 64 * 1024

// Config holds handler configuration.
type Config struct {
	// Publisher is the broadcast channel fed by this handler (required)
	Publisher native.Publisher

	// Logger defaults to NoopLogger
	Logger checkout.Logger
}

// Handler returns an http.Handler accepting POSTed PurchaseEvents.
func Handler(cfg Config) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = &checkout.NoopLogger{}
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		w.Header().Set("X-Content-Type-Options", "nosniff")

		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if cfg.Publisher == nil {
			http.Error(w, "bridge not configured", http.StatusServiceUnavailable)
			return
		}

		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
		if err != nil {
			http.Error(w, "invalid payload", http.StatusBadRequest)
			return
		}

		ev, err := ParseEvent(body)
		if err != nil {
			http.Error(w, "invalid payload", http.StatusBadRequest)
			return
		}

		cfg.Publisher.Publish(ev)
		logger.Debug("purchase event published",
			checkout.Field{Key: "event", Value: string(ev.Name)})

		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte("ok"))
	})
}

// ParseEvent decodes and validates a purchase event payload.
func ParseEvent(body []byte) (checkout.PurchaseEvent, error) {
	var ev checkout.PurchaseEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return checkout.PurchaseEvent{}, err
	}
	switch ev.Name {
	case checkout.PurchaseInitiated, checkout.PurchasePending,
		checkout.PurchaseCompleted, checkout.PurchaseFailed,
		checkout.PurchaseCancelled:
		return ev, nil
	default:
		return checkout.PurchaseEvent{}, ErrUnknownEvent
	}
}

// ErrUnknownEvent is returned for payloads whose name is outside the
// purchase event taxonomy.
var ErrUnknownEvent = errors.New("unknown purchase event name")
