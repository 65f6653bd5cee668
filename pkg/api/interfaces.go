// Package api provides an HTTP demo surface over a single
// tiered.Index, and the factory interfaces pkg/di wires for cmd/hcidx.
package api

import (
	"github.com/ssargent/hcidx/pkg/config"
	"github.com/ssargent/hcidx/pkg/tiered"
)

// IndexFactory builds a *tiered.Index from a config.Index.
type IndexFactory interface {
	CreateIndex(cfg config.Index) (*tiered.Index, error)
}

// ServerFactory builds a ServerStarter.
type ServerFactory interface {
	CreateServerStarter() ServerStarter
}

// ServerStarter starts the HTTP demo API, blocking until the server
// exits.
type ServerStarter interface {
	StartServer(idx *tiered.Index, cfg config.Server) error
}
