package observability

// DebugLogger is the subset of logger.Logger used by LogObserver.
type DebugLogger interface {
	Debug(msg string, err error, fields ...map[string]interface{})
}

// LogObserver writes one debug entry per observed operation.
type LogObserver struct {
	log DebugLogger
}

// NewLogObserver returns an Observer that logs through l.
func NewLogObserver(l DebugLogger) *LogObserver {
	return &LogObserver{log: l}
}

// ObserveOperation implements Observer.
func (o *LogObserver) ObserveOperation(ctx OperationContext) {
	fields := map[string]interface{}{
		"component":   ctx.Component,
		"operation":   ctx.Operation,
		"resource":    ctx.Resource,
		"duration_ms": ctx.Duration.Milliseconds(),
	}
	if ctx.SubResource != "" {
		fields["sub_resource"] = ctx.SubResource
	}
	if ctx.Size > 0 {
		fields["size"] = ctx.Size
	}
	for k, v := range ctx.Metadata {
		fields[k] = v
	}
	o.log.Debug("operation completed", ctx.Error, fields)
}
