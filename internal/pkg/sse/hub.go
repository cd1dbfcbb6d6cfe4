package sse

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sync"
)

// subscriberBuffer is how many events a slow client may lag behind before
// new events to it are dropped.
const subscriberBuffer = 16

// Event is one server-sent event addressed to a single employee.
type Event struct {
	RecipientID string
	Name        string
	Data        any
}

// Hub fans events out to the open streams of each employee. An employee may
// hold several streams (phone and browser).
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan Event]struct{}
}

func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[string]map[chan Event]struct{}),
	}
}

// Subscribe opens a stream for recipientID. The returned cancel func closes
// the channel and may be called more than once.
func (h *Hub) Subscribe(recipientID string) (<-chan Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan Event, subscriberBuffer)
	if h.subscribers[recipientID] == nil {
		h.subscribers[recipientID] = make(map[chan Event]struct{})
	}
	h.subscribers[recipientID][ch] = struct{}{}

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.subscribers[recipientID], ch)
			close(ch)
			if len(h.subscribers[recipientID]) == 0 {
				delete(h.subscribers, recipientID)
			}
		})
	}
	return ch, cancel
}

// Publish delivers event to every stream of recipientID without blocking and
// reports how many streams accepted it.
func (h *Hub) Publish(recipientID string, event Event) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	event.RecipientID = recipientID
	delivered := 0
	for ch := range h.subscribers[recipientID] {
		select {
		case ch <- event:
			delivered++
		default:
			slog.Warn("sse stream full, dropping event", "recipient_id", recipientID, "event", event.Name)
		}
	}
	return delivered
}

// PublishToMany publishes to each recipient and returns the total number of
// streams reached.
func (h *Hub) PublishToMany(recipientIDs []string, event Event) int {
	total := 0
	for _, id := range recipientIDs {
		total += h.Publish(id, event)
	}
	return total
}

// SubscriberCount returns the number of open streams for recipientID.
func (h *Hub) SubscriberCount(recipientID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers[recipientID])
}

// Write frames event in the text/event-stream format.
func Write(w io.Writer, event Event) error {
	data, err := json.Marshal(event.Data)
	if err != nil {
		return fmt.Errorf("marshal sse data: %w", err)
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Name, data)
	return err
}
