package rabbit

import (
	"time"

	"github.com/Aleph-Alpha/schema-management/v1/observability"
)

// observeOperation notifies the observer about an operation if one is configured.
func (p *Publisher) observeOperation(operation string, duration time.Duration, err error, size int64) {
	if p.observer == nil {
		return
	}
	p.observer.ObserveOperation(observability.OperationContext{
		Component:   "rabbit",
		Operation:   operation,
		Resource:    p.cfg.Channel.ExchangeName,
		SubResource: p.cfg.Channel.RoutingKey,
		Duration:    duration,
		Error:       err,
		Size:        size,
	})
}
