package services

import (
	"sync"
	"time"
)

// AvailabilityEvent tells clients that the bookings of a room changed.
type AvailabilityEvent struct {
	Kind       string    `json:"kind"` // "booked" or "released"
	HotelID    uint      `json:"hotel_id"`
	RoomNumber int       `json:"room_number"`
	BookingID  uint      `json:"booking_id"`
	StartDate  string    `json:"start_date"`
	EndDate    string    `json:"end_date"`
	At         time.Time `json:"at"`
}

const (
	EventBooked   = "booked"
	EventReleased = "released"
)

// AvailabilityPublisher is what the booking ledger needs from the notifier.
type AvailabilityPublisher interface {
	Publish(AvailabilityEvent)
}

// AvailabilityNotifier fans events out to live subscribers. Delivery is
// best effort and at most once: a subscriber whose buffer is full misses the event.
type AvailabilityNotifier struct {
	mu      sync.Mutex
	subs    map[uint64]chan AvailabilityEvent
	nextID  uint64
	buffer  int
	dropped uint64
	closed  bool
}

func NewAvailabilityNotifier(buffer int) *AvailabilityNotifier {
	if buffer <= 0 {
		buffer = 16
	}
	return &AvailabilityNotifier{subs: make(map[uint64]chan AvailabilityEvent), buffer: buffer}
}

// Subscribe returns a channel of events and a function that ends the
// subscription. The channel is closed by unsubscribe or Close.
func (n *AvailabilityNotifier) Subscribe() (<-chan AvailabilityEvent, func()) {
	n.mu.Lock()
	defer n.mu.Unlock()

	ch := make(chan AvailabilityEvent, n.buffer)
	if n.closed {
		close(ch)
		return ch, func() {}
	}

	id := n.nextID
	n.nextID++
	n.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			n.mu.Lock()
			defer n.mu.Unlock()
			if c, ok := n.subs[id]; ok {
				delete(n.subs, id)
				close(c)
			}
		})
	}
}

// Publish never blocks.
func (n *AvailabilityNotifier) Publish(ev AvailabilityEvent) {
	n.mu.Lock()
	defer n.mu.Unlock()

	for _, ch := range n.subs {
		select {
		case ch <- ev:
		default:
			n.dropped++
		}
	}
}

func (n *AvailabilityNotifier) SubscriberCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.subs)
}

// Dropped reports how many events were skipped for full subscriber buffers.
func (n *AvailabilityNotifier) Dropped() uint64 {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.dropped
}

// Close ends every subscription; used on shutdown so open streams return.
func (n *AvailabilityNotifier) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.closed {
		return
	}
	n.closed = true
	for id, ch := range n.subs {
		delete(n.subs, id)
		close(ch)
	}
}
