package storage

import (
	"github.com/bobmcallan/argos/internal/common"
	"github.com/bobmcallan/argos/internal/interfaces"
)

// Compile-time interface check
var _ interfaces.ProviderRouter = (*Router)(nil)

// Router sends demo users to the demo provider and everyone else to the
// configured backend.
type Router struct {
	primary interfaces.HistoryProvider
	demo    interfaces.HistoryProvider
}

// NewRouter creates a router. primary and demo may be the same provider.
func NewRouter(primary, demo interfaces.HistoryProvider) *Router {
	return &Router{primary: primary, demo: demo}
}

// For returns the provider serving userID.
func (r *Router) For(userID string) interfaces.HistoryProvider {
	if userID == "" || userID == common.DemoUserID {
		return r.demo
	}
	return r.primary
}

// Primary returns the configured backend.
func (r *Router) Primary() interfaces.HistoryProvider {
	return r.primary
}

// Close closes the primary backend, and the demo provider when it is distinct.
func (r *Router) Close() error {
	err := r.primary.Close()
	if r.demo != r.primary {
		if derr := r.demo.Close(); err == nil {
			err = derr
		}
	}
	return err
}
