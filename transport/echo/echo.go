// Package echo provides an Echo handler that accepts purchase events posted
// by the host shell and publishes them onto the native bridge broadcast
// channel.
package echo

import (
	"io"
	"net/http"

	goecho "github.com/labstack/echo/v4"

	"github.com/mihaimyh/gocheckout/pkg/checkout"
	"github.com/mihaimyh/gocheckout/pkg/checkout/native"
	transporthttp "github.com/mihaimyh/gocheckout/transport/http"
)

const maxBodyBytes = 64 * 1024

// Config holds handler configuration.
type Config struct {
	// Publisher is the broadcast channel fed by this handler (required)
	Publisher native.Publisher

	// Logger defaults to NoopLogger
	Logger checkout.Logger
}

// Handler returns an Echo handler accepting POSTed PurchaseEvents.
func Handler(cfg Config) goecho.HandlerFunc {
	logger := cfg.Logger
	if logger == nil {
		logger = &checkout.NoopLogger{}
	}

	return func(c goecho.Context) error {
		c.Response().Header().Set("Cache-Control", "no-store")
		c.Response().Header().Set("X-Content-Type-Options", "nosniff")

		if cfg.Publisher == nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "bridge not configured"})
		}

		body, err := io.ReadAll(http.MaxBytesReader(c.Response().Writer, c.Request().Body, maxBodyBytes))
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		}

		ev, err := transporthttp.ParseEvent(body)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		}

		cfg.Publisher.Publish(ev)
		logger.Debug("purchase event published",
			checkout.Field{Key: "event", Value: string(ev.Name)})

		return c.JSON(http.StatusAccepted, map[string]string{"status": "ok"})
	}
}
