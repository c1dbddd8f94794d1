package handlers

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/base-creator-connect/backend/internal/events"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// WSHub fans tip and goal events out to the overlays watching a creator.
type WSHub struct {
	subscriber  events.Subscriber
	log         *zap.Logger
	mu          sync.RWMutex
	connections map[string][]*websocket.Conn
}

func NewWSHub(subscriber events.Subscriber, log *zap.Logger) *WSHub {
	return &WSHub{
		subscriber:  subscriber,
		log:         log,
		connections: make(map[string][]*websocket.Conn),
	}
}

func (h *WSHub) Start(ctx context.Context) error {
	return h.subscriber.Subscribe(ctx, events.StreamTips, h.SendToCreator)
}

func (h *WSHub) SendToCreator(event events.Event) {
	data, err := json.Marshal(event)
	if err != nil {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, conn := range h.connections[event.CreatorID] {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			h.log.Debug("ws write failed", zap.String("creator_id", event.CreatorID), zap.Error(err))
		}
	}
}

func (h *WSHub) Watchers(creatorID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.connections[creatorID])
}

// WSUpgradeMiddleware checks for websocket upgrade
func WSUpgradeMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	}
}

func (h *WSHub) HandleWS(conn *websocket.Conn) {
	id, err := uuid.Parse(conn.Params("id"))
	if err != nil {
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"invalid creator id"}`))
		conn.Close()
		return
	}
	creatorID := id.String()

	// Register
	h.mu.Lock()
	h.connections[creatorID] = append(h.connections[creatorID], conn)
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		conns := h.connections[creatorID]
		for i, c := range conns {
			if c == conn {
				h.connections[creatorID] = append(conns[:i], conns[i+1:]...)
				break
			}
		}
		if len(h.connections[creatorID]) == 0 {
			delete(h.connections, creatorID)
		}
		h.mu.Unlock()
		conn.Close()
	}()

	// Read loop (keep alive / pings)
	for {
		_, _, err := conn.ReadMessage()
		if err != nil {
			break
		}
	}
}
