package kafka

import (
	"time"

	"github.com/Aleph-Alpha/schema-management/v1/observability"
)

// observeOperation safely calls the observer if it's not nil.
func (p *Producer) observeOperation(operation string, duration time.Duration, err error, size int64) {
	if p.observer == nil {
		return
	}
	p.observer.ObserveOperation(observability.OperationContext{
		Component: "kafka",
		Operation: operation,
		Resource:  p.cfg.Topic,
		Duration:  duration,
		Error:     err,
		Size:      size,
	})
}
