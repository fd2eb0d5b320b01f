package signal

import (
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// SignalEventType is the Donburi event type animation signals are published
// under. Subscribe to it from ECS systems and drain with ProcessEvents.
var SignalEventType = events.NewEventType[Signal]()

type donburiSink struct {
	world donburi.World
}

// NewDonburiSink creates a Sink that publishes every signal to SignalEventType
// on world. Published signals are queued until SignalEventType.ProcessEvents runs.
//
// Parameters:
//   - world: the Donburi world to publish on
//
// Returns:
//   - Sink: the sink
func NewDonburiSink(world donburi.World) Sink {
	return &donburiSink{world: world}
}

func (s *donburiSink) Dispatch(sig Signal) {
	SignalEventType.Publish(s.world, sig)
}
