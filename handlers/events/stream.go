package events

import (
	"bufio"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/sage-api/model"
	"github.com/sahilchouksey/sage-api/store"
	"github.com/sahilchouksey/sage-api/utils/sse"
)

// EventsHandler streams document change notifications over SSE
type EventsHandler struct {
	store *store.Store
}

// NewEventsHandler creates a new events handler
func NewEventsHandler(st *store.Store) *EventsHandler {
	return &EventsHandler{store: st}
}

// changeSummary is the lightweight payload pushed on every save; clients
// refetch whatever page they are showing.
type changeSummary struct {
	ProgressEntries int       `json:"progress_entries"`
	Subjects        int       `json:"subjects"`
	CalendarEvents  int       `json:"calendar_events"`
	At              time.Time `json:"at"`
}

func summarize(doc model.Document) changeSummary {
	return changeSummary{
		ProgressEntries: len(doc.DailyProgress),
		Subjects:        len(doc.Subjects),
		CalendarEvents:  len(doc.Calendar),
		At:              time.Now(),
	}
}

// Stream handles GET /api/v1/events
//
// Every successful save pushes a "change" event; a keepalive comment
// goes out every 30 seconds to hold proxies open.
func (h *EventsHandler) Stream(c *fiber.Ctx) error {
	// Set SSE headers
	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	h.streamTo(c)
	return nil
}

func (h *EventsHandler) streamTo(c *fiber.Ctx) {
	changes := make(chan changeSummary, 8)
	unsubscribe := h.store.Subscribe(func(doc model.Document) {
		select {
		case changes <- summarize(doc):
		default:
			// Slow consumer; it will catch up on the next change.
		}
	})

	initial := summarize(h.store.Document(c.Context()))

	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		defer unsubscribe()

		if err := sse.SendConnected(w, initial); err != nil {
			return
		}

		keepalive := time.NewTicker(30 * time.Second)
		defer keepalive.Stop()

		for {
			select {
			case change := <-changes:
				if err := sse.SendChange(w, change); err != nil {
					return
				}
			case <-keepalive.C:
				if err := sse.SendKeepAlive(w); err != nil {
					return
				}
			}
		}
	})
}
