package api

import (
	"github.com/ssargent/hcidx/pkg/config"
	"github.com/ssargent/hcidx/pkg/tiered"
)

// DefaultIndexFactory is the default IndexFactory implementation.
type DefaultIndexFactory struct{}

// NewIndexFactory creates a new index factory.
func NewIndexFactory() IndexFactory {
	return &DefaultIndexFactory{}
}

// CreateIndex builds a *tiered.Index from cfg.
func (f *DefaultIndexFactory) CreateIndex(cfg config.Index) (*tiered.Index, error) {
	return tiered.New(cfg.MaxKey, cfg.Degree, tiered.Params{
		DecayAlpha:     cfg.DecayAlpha,
		HotThreshold:   cfg.HotThreshold,
		MaxHotFraction: cfg.MaxHotFraction,
		Inclusive:      cfg.Inclusive,
	})
}

// DefaultServerFactory is the default ServerFactory implementation.
type DefaultServerFactory struct{}

// NewServerFactory creates a new server factory.
func NewServerFactory() ServerFactory {
	return &DefaultServerFactory{}
}

// CreateServerStarter creates a server starter.
func (f *DefaultServerFactory) CreateServerStarter() ServerStarter {
	return &DefaultServerStarter{}
}

// DefaultServerStarter is the default ServerStarter implementation.
type DefaultServerStarter struct{}

// StartServer starts the HTTP demo API, blocking until the server
// exits or fails.
func (s *DefaultServerStarter) StartServer(idx *tiered.Index, cfg config.Server) error {
	return StartServer(idx, cfg)
}
