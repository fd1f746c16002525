// Package event defines domain events raised inside a transaction and
// consumed synchronously by handlers bound to the same transaction.
package event

import (
	"context"

	"leadhub/internal/domain/entity"
	"leadhub/internal/domain/repository"
)

// ApplicationCreated is raised after a loan application has been persisted.
type ApplicationCreated struct {
	Application *entity.LoanApplication
	Caller      entity.Caller
}

// ApplicationCreatedHandler reacts to ApplicationCreated using repositories
// bound to the transaction that created the application. A returned error
// rolls the whole transaction back.
type ApplicationCreatedHandler interface {
	HandleApplicationCreated(ctx context.Context, repos repository.RepositoryFactory, evt ApplicationCreated) error
}

// ApplicationCreatedHandlerFunc adapts a function to ApplicationCreatedHandler.
type ApplicationCreatedHandlerFunc func(ctx context.Context, repos repository.RepositoryFactory, evt ApplicationCreated) error

// HandleApplicationCreated calls f.
func (f ApplicationCreatedHandlerFunc) HandleApplicationCreated(ctx context.Context, repos repository.RepositoryFactory, evt ApplicationCreated) error {
	return f(ctx, repos, evt)
}

// Dispatcher fans an event out to handlers in registration order, stopping at the first error.
type Dispatcher struct {
	handlers []ApplicationCreatedHandler
}

// NewDispatcher returns a dispatcher for the given handlers.
func NewDispatcher(handlers ...ApplicationCreatedHandler) *Dispatcher {
	return &Dispatcher{handlers: handlers}
}

// DispatchApplicationCreated delivers evt to every handler.
func (d *Dispatcher) DispatchApplicationCreated(ctx context.Context, repos repository.RepositoryFactory, evt ApplicationCreated) error {
	for _, h := range d.handlers {
		if err := h.HandleApplicationCreated(ctx, repos, evt); err != nil {
			return err
		}
	}

	return nil
}
