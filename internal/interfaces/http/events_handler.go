package http

import (
	"bufio"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/gacha-stock/internal/application/realtime"
	"github.com/valyala/fasthttp"
)

// EventsHandler expone el canal de cambios como Server-Sent Events.
// Cada evento trae solo el nombre de la tabla que cambió; el cliente
// reacciona re-consultando el listado completo.
type EventsHandler struct {
	hub *realtime.Hub
}

// NewEventsHandler construye el handler.
func NewEventsHandler(hub *realtime.Hub) *EventsHandler {
	return &EventsHandler{hub: hub}
}

// Stream godoc
// @Summary      Suscribirse a cambios de stock (SSE)
// @Tags         events
// @Security     Bearer
// @Produce      text/event-stream
// @Router       /api/events [get]
func (h *EventsHandler) Stream(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")

	ch, cancel := h.hub.Subscribe()
	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer cancel()
		// Comentario SSE periódico para que los proxies no corten la conexión.
		keepAlive := time.NewTicker(30 * time.Second)
		defer keepAlive.Stop()
		for {
			select {
			case ev, ok := <-ch:
				if !ok {
					return
				}
				payload, err := json.Marshal(ev)
				if err != nil {
					continue
				}
				fmt.Fprintf(w, "event: change\ndata: %s\n\n", payload)
				if err := w.Flush(); err != nil {
					return
				}
			case <-keepAlive.C:
				fmt.Fprint(w, ": ping\n\n")
				if err := w.Flush(); err != nil {
					return
				}
			}
		}
	}))
	return nil
}
