package events

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// TransactionType labels what moved money or items.
type TransactionType string

const (
	TxBuy      TransactionType = "buy"
	TxSell     TransactionType = "sell"
	TxUse      TransactionType = "use"
	TxGive     TransactionType = "give"
	TxTake     TransactionType = "take"
	TxCraft    TransactionType = "craft"
	TxTransfer TransactionType = "transfer"
	TxAdmin    TransactionType = "admin"
)

// Transaction is one entry of the audit feed.
type Transaction struct {
	ID     uuid.UUID       `json:"id"`
	GID    string          `json:"gid"`
	Type   TransactionType `json:"type"`
	UID    string          `json:"uid"`
	Hero   string          `json:"hero,omitempty"`
	Item   string          `json:"item,omitempty"`
	Count  int64           `json:"count,omitempty"`
	Amount int64           `json:"amount,omitempty"`
	At     time.Time       `json:"at"`
}

// Hub fans completed transactions out to connected feed subscribers.
// Subscribers follow a single guild or, with an empty gid, everything.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan Transaction
	stop       chan struct{}
	done       chan struct{}
	stopped    bool

	mu sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan Transaction, 64),
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
	}
}

// Run drives the hub event loop until Stop is called.
func (h *Hub) Run() {
	defer close(h.done)

	for {
		select {
		case <-h.stop:
			h.mu.Lock()
			h.stopped = true
			for client := range h.clients {
				client.Close()
			}
			h.clients = make(map[*Client]bool)
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			if !h.stopped {
				h.clients[client] = true
			}
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if !h.stopped {
				if _, ok := h.clients[client]; ok {
					delete(h.clients, client)
					client.Close()
				}
			}
			h.mu.Unlock()

		case tx := <-h.broadcast:
			h.mu.RLock()
			for client := range h.clients {
				if client.gid == "" || client.gid == tx.GID {
					client.Send(tx)
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Stop gracefully shuts down the hub.
func (h *Hub) Stop() {
	h.mu.Lock()
	if h.stopped {
		h.mu.Unlock()
		return
	}
	h.mu.Unlock()

	close(h.stop)
	<-h.done
}

// Register adds a subscriber to the hub. A client arriving during or
// after shutdown is closed instead of registered.
func (h *Hub) Register(client *Client) {
	h.mu.RLock()
	stopped := h.stopped
	h.mu.RUnlock()

	if stopped {
		client.Close()
		return
	}

	select {
	case h.register <- client:
	case <-h.stop:
		client.Close()
	}
}

// Unregister removes a subscriber from the hub.
func (h *Hub) Unregister(client *Client) {
	h.mu.RLock()
	stopped := h.stopped
	h.mu.RUnlock()

	if stopped {
		return
	}

	select {
	case h.unregister <- client:
	default:
	}
}

// Publish queues a transaction for broadcast. Non-blocking; the feed is
// best-effort and a full buffer drops the event rather than stalling
// the transaction path.
func (h *Hub) Publish(tx Transaction) {
	if tx.ID == uuid.Nil {
		tx.ID = uuid.New()
	}
	if tx.At.IsZero() {
		tx.At = time.Now()
	}

	h.mu.RLock()
	stopped := h.stopped
	h.mu.RUnlock()
	if stopped {
		return
	}

	select {
	case h.broadcast <- tx:
	default:
	}
}
