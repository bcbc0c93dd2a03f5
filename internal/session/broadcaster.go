package session

import (
	"sync"

	"github.com/rocketscienceinc/numbers-backend/internal/entity"
)

// QueueMessageLimit is how many undelivered events a subscriber may
// accumulate before it counts as lagged.
const QueueMessageLimit = 16

// Broadcaster fans one room's events out to every subscribed connection.
// Delivery is lossy: a subscriber that cannot keep up is dropped rather
// than allowed to stall the room.
type Broadcaster struct {
	mu          sync.Mutex
	subscribers map[*Subscriber]struct{}
}

// Subscriber is one connection's view of the event stream. Its channel is
// closed by the broadcaster on overflow, which the connection must treat
// as "resync via snapshot".
type Subscriber struct {
	broadcaster *Broadcaster
	events      chan entity.RoomEvent
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		subscribers: make(map[*Subscriber]struct{}),
	}
}

func (that *Broadcaster) Subscribe() *Subscriber {
	subscriber := &Subscriber{
		broadcaster: that,
		events:      make(chan entity.RoomEvent, QueueMessageLimit),
	}

	that.mu.Lock()
	that.subscribers[subscriber] = struct{}{}
	that.mu.Unlock()

	return subscriber
}

// Publish - delivers the event to every live subscriber. All subscribers
// see the room's events in the same order because publishing is serialized
// on the broadcaster's lock.
func (that *Broadcaster) Publish(event entity.RoomEvent) {
	that.mu.Lock()
	defer that.mu.Unlock()

	for subscriber := range that.subscribers {
		select {
		case subscriber.events <- event:
		default:
			delete(that.subscribers, subscriber)
			close(subscriber.events)
		}
	}
}

func (that *Subscriber) Events() <-chan entity.RoomEvent {
	return that.events
}

// Close - unsubscribes. Safe to call after the broadcaster has already
// dropped the subscriber for lagging.
func (that *Subscriber) Close() {
	that.broadcaster.mu.Lock()
	defer that.broadcaster.mu.Unlock()

	delete(that.broadcaster.subscribers, that)
}
