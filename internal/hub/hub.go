// Package hub pushes term image changes to the admin screens of a taxonomy.
//
// Every open term listing or edit screen subscribes to the taxonomy it shows.
// When an image is attached to or removed from a term of that taxonomy the
// term image component broadcasts one Event, and the SSE handler forwards it
// so the screen can refresh the term's thumbnail without reloading.
package hub

import (
	"encoding/json"
	"sync"
)

// Event is one term image change. Type is "term_image.updated" or
// "term_image.removed"; Payload carries the term id and, on update, the new
// image id.
type Event struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// Client receives the JSON encoded events of one subscribed screen. The hub
// closes it on Unsubscribe.
type Client chan []byte

// Hub keeps one subscriber set per taxonomy name. Taxonomies are independent:
// an event for "category" never reaches a screen listening on "post_tag".
type Hub struct {
	mu         sync.RWMutex
	taxonomies map[string]map[Client]struct{}
}

func NewHub() *Hub {
	return &Hub{taxonomies: make(map[string]map[Client]struct{})}
}

// Subscribe starts delivering the events of taxonomy to client.
func (h *Hub) Subscribe(taxonomy string, client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	screens, ok := h.taxonomies[taxonomy]
	if !ok {
		screens = make(map[Client]struct{})
		h.taxonomies[taxonomy] = screens
	}
	screens[client] = struct{}{}
}

// Unsubscribe stops delivery and closes client. The taxonomy is forgotten once
// its last screen leaves. Unsubscribing an unknown client is a no-op.
func (h *Hub) Unsubscribe(taxonomy string, client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	screens := h.taxonomies[taxonomy]
	if _, ok := screens[client]; !ok {
		return
	}
	delete(screens, client)
	close(client)
	if len(screens) == 0 {
		delete(h.taxonomies, taxonomy)
	}
}

// Subscribers reports how many screens listen on taxonomy.
func (h *Hub) Subscribers(taxonomy string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.taxonomies[taxonomy])
}

// Broadcast delivers event to every screen of taxonomy. It never blocks the
// term save that triggered it: a screen whose buffer is full misses the event
// and picks up the change on its next reload.
func (h *Hub) Broadcast(taxonomy string, event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	screens := h.taxonomies[taxonomy]
	if len(screens) == 0 {
		return
	}
	message, err := json.Marshal(event)
	if err != nil {
		return
	}
	for client := range screens {
		select {
		case client <- message:
		default:
		}
	}
}
