package circles

import (
	"log/slog"
	"sync"

	"SkillLog/internal/observability"
)

const defaultSubscriberBuffer = 32

// Hub fans new messages out to stream subscribers, per circle.
type Hub struct {
	subs   map[string]map[*Subscription]struct{}
	logger *slog.Logger
	buffer int
	mu     sync.RWMutex
}

// NewHub creates a hub. buffer is the per-subscriber queue length; a
// subscriber whose queue is full misses messages rather than stalling others.
func NewHub(buffer int, logger *slog.Logger) *Hub {
	if buffer <= 0 {
		buffer = defaultSubscriberBuffer
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		subs:   make(map[string]map[*Subscription]struct{}),
		buffer: buffer,
		logger: logger,
	}
}

// Subscription receives messages for one circle until closed.
type Subscription struct {
	ch       chan *Message
	hub      *Hub
	circleID string
	once     sync.Once
}

// C returns the message channel. It is closed by Close.
func (s *Subscription) C() <-chan *Message {
	return s.ch
}

// CircleID returns the subscribed circle.
func (s *Subscription) CircleID() string {
	return s.circleID
}

// Close unsubscribes. Safe to call more than once.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.hub.remove(s)
	})
}

// Subscribe registers a new subscriber for circleID.
func (h *Hub) Subscribe(circleID string) *Subscription {
	sub := &Subscription{
		ch:       make(chan *Message, h.buffer),
		hub:      h,
		circleID: circleID,
	}

	h.mu.Lock()
	set, ok := h.subs[circleID]
	if !ok {
		set = make(map[*Subscription]struct{})
		h.subs[circleID] = set
	}
	set[sub] = struct{}{}
	h.mu.Unlock()

	observability.CircleSubscriberAdded()
	return sub
}

func (h *Hub) remove(sub *Subscription) {
	h.mu.Lock()
	if set, ok := h.subs[sub.circleID]; ok {
		delete(set, sub)
		if len(set) == 0 {
			delete(h.subs, sub.circleID)
		}
	}
	// Closed under the write lock so Broadcast never sends on a closed channel
	close(sub.ch)
	h.mu.Unlock()

	observability.CircleSubscriberRemoved()
}

// Broadcast delivers msg to every subscriber of its circle and returns how
// many received it.
func (h *Hub) Broadcast(msg *Message) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered := 0
	for sub := range h.subs[msg.CircleID] {
		select {
		case sub.ch <- msg:
			delivered++
		default:
			h.logger.Warn("dropping message for slow subscriber",
				"circle", msg.CircleID,
				"message", msg.ID)
		}
	}
	return delivered
}

// Subscribers returns the number of open subscriptions for circleID.
func (h *Hub) Subscribers(circleID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[circleID])
}
