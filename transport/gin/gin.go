// Package gin provides a Gin handler that accepts purchase events posted by
// the host shell and publishes them onto the native bridge broadcast
// channel.
package gin

import (
	"io"
	"net/http"

	gongin "github.com/gin-gonic/gin"

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

// Handler returns a Gin handler accepting POSTed PurchaseEvents.
func Handler(cfg Config) gongin.HandlerFunc {
	logger := cfg.Logger
	if logger == nil {
		logger = &checkout.NoopLogger{}
	}

	return func(c *gongin.Context) {
		c.Header("Cache-Control", "no-store")
		c.Header("X-Content-Type-Options", "nosniff")

		if cfg.Publisher == nil {
			c.JSON(http.StatusServiceUnavailable, gongin.H{"error": "bridge not configured"})
			return
		}

		body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes))
		if err != nil {
			c.JSON(http.StatusBadRequest, gongin.H{"error": "invalid payload"})
			return
		}

		ev, err := transporthttp.ParseEvent(body)
		if err != nil {
			c.JSON(http.StatusBadRequest, gongin.H{"error": "invalid payload"})
			return
		}

		cfg.Publisher.Publish(ev)
		logger.Debug("purchase event published",
			checkout.Field{Key: "event", Value: string(ev.Name)})

		c.JSON(http.StatusAccepted, gongin.H{"status": "ok"})
	}
}
