// Package di provides dependency injection container
package di

import (
	"github.com/ssargent/hcidx/pkg/api" //nolint:depguard
)

// Container holds all the dependencies for the application
type Container struct {
	indexFactory  api.IndexFactory
	serverFactory api.ServerFactory
}

// NewContainer creates a new dependency injection container
func NewContainer() *Container {
	return &Container{
		indexFactory:  api.NewIndexFactory(),
		serverFactory: api.NewServerFactory(),
	}
}

// GetIndexFactory returns the index factory
func (c *Container) GetIndexFactory() api.IndexFactory {
	return c.indexFactory
}

// GetServerFactory returns the server factory
func (c *Container) GetServerFactory() api.ServerFactory {
	return c.serverFactory
}

// SetIndexFactory allows overriding the index factory (for testing)
func (c *Container) SetIndexFactory(factory api.IndexFactory) {
	c.indexFactory = factory
}

// SetServerFactory allows overriding the server factory (for testing)
func (c *Container) SetServerFactory(factory api.ServerFactory) {
	c.serverFactory = factory
}
