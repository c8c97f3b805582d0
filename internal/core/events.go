package core

// EventSink receives engine events for the append-only event log.
// This interface is defined locally in core to avoid importing
// observability; a nil sink disables event emission. Sink failures are
// ignored by callers: events never fail a command.
type EventSink interface {
	Emit(eventType, message string, data map[string]any)
}

// emit sends an event to sink if one is configured.
func emit(sink EventSink, eventType, message string, data map[string]any) {
	if sink == nil {
		return
	}
	sink.Emit(eventType, message, data)
}
