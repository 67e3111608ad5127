package handler

import (
	"io"

	"github.com/gin-gonic/gin"

	"termimage/backend/internal/hub"
)

// EventHandler streams term image changes to open admin screens.
type EventHandler struct {
	hub *hub.Hub
}

func NewEventHandler(h *hub.Hub) *EventHandler {
	return &EventHandler{hub: h}
}

// StreamEvents godoc
// @Summary      Stream term image changes
// @Description  Server-sent events for every image saved or removed on a term of the taxonomy.
// @Tags         admin-terms
// @Produce      text/event-stream
// @Security     BearerAuth
// @Param        taxonomy path  string  true  "Taxonomy"  example(category)
// @Success      200      {string}  string  "event stream"
// @Failure      403      {object}  ErrorResponse "Admin access required"
// @Router       /admin/taxonomies/{taxonomy}/events [get]
func (h *EventHandler) StreamEvents(c *gin.Context) {
	taxonomy := c.Param("taxonomy")
	client := make(hub.Client, 16)
	h.hub.Subscribe(taxonomy, client)
	defer h.hub.Unsubscribe(taxonomy, client)

	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")

	c.Stream(func(w io.Writer) bool {
		select {
		case <-c.Request.Context().Done():
			return false
		case message, ok := <-client:
			if !ok {
				return false
			}
			c.SSEvent("message", string(message))
			return true
		}
	})
}
