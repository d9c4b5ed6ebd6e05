package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"github.com/gofiber/websocket/v2"
)

// ChatHub manages websocket connections for group chat. It is group-centric:
// each connection subscribes to the groups it wants to hear from, and a
// broadcast reaches every subscribed connection including the sender's.
type ChatHub struct {
	mu sync.RWMutex

	// groupID -> subscribed clients
	groups map[uint]map[*Client]struct{}

	// client -> groupIDs it is subscribed to
	clientGroups map[*Client]map[uint]struct{}

	// userID -> that user's clients (multi-device support)
	userConns map[uint]map[*Client]struct{}
}

// Name returns a human-readable identifier for this hub.
func (h *ChatHub) Name() string { return "chat hub" }

// ChatMessage is the envelope broadcast to group subscribers.
type ChatMessage struct {
	Type    string      `json:"type"` // "new_message", "chat_history", "error"
	GroupID uint        `json:"group_id,omitempty"`
	Payload interface{} `json:"payload"`
}

// NewChatHub creates a new ChatHub instance
func NewChatHub() *ChatHub {
	return &ChatHub{
		groups:       make(map[uint]map[*Client]struct{}),
		clientGroups: make(map[*Client]map[uint]struct{}),
		userConns:    make(map[uint]map[*Client]struct{}),
	}
}

// Register registers a user's websocket connection. Returns the Client or an
// error when the per-user connection limit is exceeded.
func (h *ChatHub) Register(userID uint, conn *websocket.Conn) (*Client, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.userConns[userID] == nil {
		h.userConns[userID] = make(map[*Client]struct{})
	}
	if len(h.userConns[userID]) >= maxConnsPerUser {
		return nil, fmt.Errorf("user connection limit reached")
	}

	client := NewClient(h, conn, userID)
	h.userConns[userID][client] = struct{}{}
	return client, nil
}

// RegisterClient adds an existing client to the hub (used by tests).
func (h *ChatHub) RegisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.userConns[client.UserID] == nil {
		h.userConns[client.UserID] = make(map[*Client]struct{})
	}
	h.userConns[client.UserID][client] = struct{}{}
}

// UnregisterClient removes a connection and all its group subscriptions.
func (h *ChatHub) UnregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clients, ok := h.userConns[client.UserID]; ok {
		delete(clients, client)
		if len(clients) == 0 {
			delete(h.userConns, client.UserID)
		}
	}

	for groupID := range h.clientGroups[client] {
		if subscribers, ok := h.groups[groupID]; ok {
			delete(subscribers, client)
			if len(subscribers) == 0 {
				delete(h.groups, groupID)
			}
		}
	}
	delete(h.clientGroups, client)
}

// JoinGroup subscribes a connection to a group's channel. Membership checks
// happen before this is called; the hub only tracks plumbing.
func (h *ChatHub) JoinGroup(client *Client, groupID uint) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.groups[groupID] == nil {
		h.groups[groupID] = make(map[*Client]struct{})
	}
	h.groups[groupID][client] = struct{}{}

	if h.clientGroups[client] == nil {
		h.clientGroups[client] = make(map[uint]struct{})
	}
	h.clientGroups[client][groupID] = struct{}{}
}

// LeaveGroup unsubscribes a connection from a group's channel.
func (h *ChatHub) LeaveGroup(client *Client, groupID uint) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if subscribers, ok := h.groups[groupID]; ok {
		delete(subscribers, client)
		if len(subscribers) == 0 {
			delete(h.groups, groupID)
		}
	}
	if groups, ok := h.clientGroups[client]; ok {
		delete(groups, groupID)
	}
}

// IsSubscribed reports whether the connection listens to the group.
func (h *ChatHub) IsSubscribed(client *Client, groupID uint) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	groups, ok := h.clientGroups[client]
	if !ok {
		return false
	}
	_, subscribed := groups[groupID]
	return subscribed
}

// BroadcastToGroup fans a message out to every subscribed connection,
// including the sender's. The payload is marshaled once.
func (h *ChatHub) BroadcastToGroup(groupID uint, message ChatMessage) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	subscribers, ok := h.groups[groupID]
	if !ok || len(subscribers) == 0 {
		return
	}

	messageJSON, err := json.Marshal(message)
	if err != nil {
		log.Printf("ChatHub: Failed to marshal message: %v", err)
		return
	}

	for client := range subscribers {
		client.TrySend(messageJSON)
	}
}

// SubscriberCount returns how many connections listen to the group.
func (h *ChatHub) SubscriberCount(groupID uint) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.groups[groupID])
}

// StartWiring connects the hub to Redis pub/sub so broadcasts published by
// other processes reach this process's subscribers too.
func (h *ChatHub) StartWiring(ctx context.Context, n *Notifier) error {
	return n.StartChatSubscriber(ctx, func(channel, payload string) {
		var groupID uint
		if _, err := fmt.Sscanf(channel, "chat:group:%d", &groupID); err != nil {
			log.Printf("ChatHub: Invalid channel format: %s", channel)
			return
		}

		var message ChatMessage
		if err := json.Unmarshal([]byte(payload), &message); err != nil {
			log.Printf("ChatHub: Failed to parse message from channel %s: %v", channel, err)
			return
		}
		if message.Type == "" {
			message.Type = "new_message"
		}
		message.GroupID = groupID

		h.BroadcastToGroup(groupID, message)
	})
}

// Shutdown gracefully closes all websocket connections
func (h *ChatHub) Shutdown(_ context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	for userID, clients := range h.userConns {
		for client := range clients {
			if client.Conn == nil {
				continue
			}
			if err := client.Conn.WriteMessage(websocket.TextMessage,
				[]byte(`{"type":"server_shutdown","payload":"Server is shutting down"}`)); err != nil {
				log.Printf("failed to write shutdown message for user %d: %v", userID, err)
			}
			if err := client.Conn.Close(); err != nil {
				log.Printf("failed to close websocket for user %d: %v", userID, err)
			}
		}
	}

	h.groups = make(map[uint]map[*Client]struct{})
	h.clientGroups = make(map[*Client]map[uint]struct{})
	h.userConns = make(map[uint]map[*Client]struct{})

	return nil
}
