// Package factory selects the checkout provider implementation for the
// current platform. Selection is pure: the native purchase bridge inside the
// host wrapper, the web overlay otherwise. The factory holds no state
// between surfaces - each surface gets its own provider instance, and only
// the web overlay SDK underneath is a cross-surface singleton.
package factory

import (
	"github.com/mihaimyh/gocheckout/pkg/checkout"
	"github.com/mihaimyh/gocheckout/pkg/checkout/native"
	"github.com/mihaimyh/gocheckout/pkg/checkout/web"
)

// Config carries the platform probe plus the per-backend configurations.
type Config struct {
	Platform checkout.Platform

	// Web configures the overlay provider (Platform is filled in here)
	Web web.Config

	// Native configures the bridge provider
	Native native.Config
}

// New constructs the provider for the given platform.
func New(cfg Config) (checkout.Provider, error) {
	if cfg.Platform.InHostShell {
		return native.NewProvider(cfg.Native)
	}
	cfg.Web.Platform = cfg.Platform
	return web.NewProvider(cfg.Web)
}

// Lazy adapts New into the constructor shape the orchestrator memoizes, so
// provider creation is deferred until the surface first needs it.
func Lazy(cfg Config) func() (checkout.Provider, error) {
	return func() (checkout.Provider, error) {
		return New(cfg)
	}
}
