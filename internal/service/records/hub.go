package records

import "sync"

// Topic names one collection's change feed.
type Topic string

const (
	TopicFarmers Topic = "farmers"
	TopicCrops   Topic = "crops"
	TopicSales   Topic = "sales"
)

// Hub is a per-topic change broadcaster. The store layer stays authoritative
// for data; the hub only tells listeners that a collection changed so they
// can re-read the full snapshot.
type Hub struct {
	mu     sync.Mutex
	nextID int
	subs   map[Topic]map[int]chan struct{}
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[Topic]map[int]chan struct{})}
}

// Subscribe registers a listener for the topic. The returned channel carries
// coalesced change ticks; the cancel func unregisters the listener and must
// be called on teardown.
func (h *Hub) Subscribe(topic Topic) (<-chan struct{}, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.subs[topic] == nil {
		h.subs[topic] = make(map[int]chan struct{})
	}

	id := h.nextID
	h.nextID++

	// Buffer of one: a pending tick already promises a fresh re-read, so
	// further notifications before the listener drains are redundant.
	ch := make(chan struct{}, 1)
	h.subs[topic][id] = ch

	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.subs[topic], id)
	}

	return ch, cancel
}

// Notify wakes every listener on the topic without blocking the writer.
func (h *Hub) Notify(topic Topic) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, ch := range h.subs[topic] {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
