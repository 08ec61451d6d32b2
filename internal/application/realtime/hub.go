package realtime

import "sync"

// Event notifica que una tabla cambió. No lleva payload: los clientes
// reaccionan re-consultando el estado completo.
type Event struct {
	Table string `json:"table"`
}

// Hub reparte eventos de cambio a los suscriptores conectados (SSE).
// Alimentado por el listener de PostgreSQL (LISTEN/NOTIFY).
type Hub struct {
	mu   sync.RWMutex
	subs map[int]chan Event
	next int
}

// NewHub construye el hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[int]chan Event)}
}

// Subscribe registra un suscriptor y devuelve su canal más la función de baja.
func (h *Hub) Subscribe() (<-chan Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.next
	h.next++
	ch := make(chan Event, 8)
	h.subs[id] = ch
	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if _, ok := h.subs[id]; ok {
			delete(h.subs, id)
			close(ch)
		}
	}
	return ch, cancel
}

// Publish envía el evento a todos los suscriptores. Un suscriptor con el
// buffer lleno pierde el evento; como los eventos no llevan payload y el
// cliente re-consulta todo, perder uno intermedio no deja estado stale
// mientras llegue el último.
func (h *Hub) Publish(table string) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, ch := range h.subs {
		select {
		case ch <- Event{Table: table}:
		default:
		}
	}
}

// Subscribers devuelve el número de suscriptores activos.
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}
