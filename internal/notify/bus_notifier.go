package notify

import (
	"github.com/rs/zerolog"

	"github.com/edvin/modelerd/internal/events"
)

// BusNotifier pushes notifications and log entries onto the shell
// event bus, mirroring them into structured logs.
type BusNotifier struct {
	bus events.Emitter
	log *LogNotifier
}

func NewBusNotifier(bus events.Emitter, logger zerolog.Logger) *BusNotifier {
	return &BusNotifier{bus: bus, log: NewLogNotifier(logger)}
}

func (n *BusNotifier) Notify(notification Notification) {
	n.bus.Emit(events.Event{Type: events.TypeNotification, Payload: notification})
	n.log.Notify(notification)
}

func (n *BusNotifier) Log(entry LogEntry) {
	n.bus.Emit(events.Event{Type: events.TypeLog, Payload: entry})
	n.log.Log(entry)
}
