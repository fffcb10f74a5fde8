package events

import "go.uber.org/zap"

// ZapHandler returns a handler that writes events to a zap logger.
// Failure events are logged at error level, everything else at debug.
func ZapHandler(logger *zap.Logger) Handler {
	return func(e Event) {
		fields := []zap.Field{zap.String("event", string(e.Type))}
		if e.Job != "" {
			fields = append(fields, zap.String("job", e.Job))
		}
		if e.Command != "" {
			fields = append(fields, zap.String("command", e.Command))
		}
		if e.Payload != nil {
			fields = append(fields, zap.Any("payload", e.Payload))
		}
		if e.IsFailure() {
			logger.Error(e.Error, fields...)
			return
		}
		logger.Debug("lifecycle event", fields...)
	}
}
