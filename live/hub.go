package live

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/restokitchen/pos/models"
	"github.com/restokitchen/pos/utils"
)

// writeWait bounds how long a single client write may stall a
// broadcast before the client is dropped.
const writeWait = 10 * time.Second

// Event types pushed to connected terminals. Snapshot events carry the
// full collection; clients replace their local state with each one.
const (
	EventMenuSnapshot   = "menu_snapshot"
	EventOrdersSnapshot = "orders_snapshot"
	EventOrderUpdate    = "order_update"
	EventPaymentPending = "payment_pending"
	EventPaymentSuccess = "payment_success"
	EventStaffNotif     = "staff_notification"
)

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Hub fans events out to websocket terminals and in-process
// subscribers. It is constructed explicitly and injected wherever
// broadcasts happen; nothing here is package-global.
type Hub struct {
	mu    sync.Mutex
	conns map[*websocket.Conn]string // conn -> role
	subs  map[chan Message]struct{}
}

func NewHub() *Hub {
	return &Hub{
		conns: make(map[*websocket.Conn]string),
		subs:  make(map[chan Message]struct{}),
	}
}

// RegisterClient adds a websocket connection with its role.
func (h *Hub) RegisterClient(conn *websocket.Conn, role string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[conn] = role
}

// UnregisterClient drops and closes a websocket connection.
func (h *Hub) UnregisterClient(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.conns, conn)
	conn.Close()
}

// Subscribe returns a channel delivering every broadcast plus a cancel
// func. Cancel must be called on teardown; after it returns the
// channel is closed.
func (h *Hub) Subscribe() (<-chan Message, func()) {
	ch := make(chan Message, 16)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if _, ok := h.subs[ch]; ok {
			delete(h.subs, ch)
			close(ch)
		}
	}
	return ch, cancel
}

// ClientCount reports the number of connected websocket terminals.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}

func (h *Hub) BroadcastMenuSnapshot(menus []models.Menu) {
	h.Broadcast(Message{Event: EventMenuSnapshot, Data: menus})
}

func (h *Hub) BroadcastOrdersSnapshot(orders []models.Order) {
	h.Broadcast(Message{Event: EventOrdersSnapshot, Data: orders})
}

func (h *Hub) BroadcastOrderUpdate(order models.Order) {
	h.Broadcast(Message{Event: EventOrderUpdate, Data: order})
}

func (h *Hub) BroadcastPaymentPending(orderID uint) {
	h.Broadcast(Message{Event: EventPaymentPending, Data: map[string]interface{}{"order_id": orderID}})
}

func (h *Hub) BroadcastPaymentSuccess(payment models.Payment) {
	h.Broadcast(Message{Event: EventPaymentSuccess, Data: payment})
}

func (h *Hub) BroadcastStaffNotification(text string) {
	h.Broadcast(Message{Event: EventStaffNotif, Data: text})
}

// Broadcast sends a message to every websocket client and subscriber.
// Clients that fail or time out a write are dropped; slow subscribers
// are skipped rather than blocked on.
func (h *Hub) Broadcast(msg Message) {
	h.mu.Lock()
	defer h.mu.Unlock()

	data, err := json.Marshal(msg)
	if err != nil {
		utils.ErrorLogger.Printf("live: marshal broadcast: %v", err)
		return
	}

	for conn := range h.conns {
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			utils.ErrorLogger.Printf("live: dropping client: %v", err)
			delete(h.conns, conn)
			conn.Close()
		}
	}

	for ch := range h.subs {
		select {
		case ch <- msg:
		default:
		}
	}
}
