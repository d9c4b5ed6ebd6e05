package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"time"

	"waypoint/internal/middleware"
	"waypoint/internal/notifications"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// WebSocketChatHandler handles WebSocket connections for real-time group chat
func (s *Server) WebSocketChatHandler() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		middleware.ActiveWebSockets.Inc()
		defer middleware.ActiveWebSockets.Dec()

		ctx := context.Background()

		// Get userID from context locals (set by the ticket middleware)
		userIDVal := conn.Locals("userID")
		if userIDVal == nil {
			log.Printf("WebSocket Chat: Unauthenticated connection attempt")
			_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"unauthorized"}`))
			_ = conn.Close()
			return
		}
		userID := userIDVal.(uint)

		if s.chatHub == nil {
			_ = conn.Close()
			return
		}

		client, err := s.chatHub.Register(userID, conn)
		if err != nil {
			log.Printf("WebSocket Chat: Failed to register user %d: %v", userID, err)
			_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"`+err.Error()+`"}`))
			_ = conn.Close()
			return
		}

		s.wsLogger.LogConnect(ctx, userID, "")
		s.wsMetrics.RecordWebSocketEvent("connect")

		// Define Incoming Message Handler
		client.IncomingHandler = func(c *notifications.Client, message []byte) {
			var incomingMsg map[string]interface{}
			if err := json.Unmarshal(message, &incomingMsg); err != nil {
				log.Printf("WebSocket: Invalid message format from user %d", userID)
				return
			}

			msgType, ok := incomingMsg["type"].(string)
			if !ok {
				return
			}

			switch msgType {
			case "join":
				// Subscribe to a group's channel
				if groupIDFloat, ok := incomingMsg["group_id"].(float64); ok {
					groupID := uint(groupIDFloat)

					if err := s.chatService.CanJoin(ctx, groupID, userID); err != nil {
						s.sendWSError(c, "You cannot join this group's chat")
						return
					}

					s.chatHub.JoinGroup(c, groupID)
					s.wsMetrics.IncrementGroup(groupLabel(groupID))
					s.wsMetrics.RecordWebSocketEvent("join")

					// Confirm and hand over recent history
					history, err := s.chatService.LoadHistory(ctx, groupID, userID, 50)
					if err != nil {
						log.Printf("WebSocket: Failed to load history for group %d: %v", groupID, err)
						history = nil
					}

					response := notifications.ChatMessage{
						Type:    "chat_history",
						GroupID: groupID,
						Payload: history,
					}
					if responseJSON, err := json.Marshal(response); err == nil {
						c.TrySend(responseJSON)
					}
				}

			case "leave":
				// Unsubscribe from a group's channel
				if groupIDFloat, ok := incomingMsg["group_id"].(float64); ok {
					groupID := uint(groupIDFloat)
					if s.chatHub.IsSubscribed(c, groupID) {
						s.chatHub.LeaveGroup(c, groupID)
						s.wsMetrics.DecrementGroup(groupLabel(groupID))
						s.wsMetrics.RecordWebSocketEvent("leave")
					}
				}

			case "message":
				// Send a message (alternative to the HTTP endpoint)
				if groupIDFloat, ok := incomingMsg["group_id"].(float64); ok {
					groupID := uint(groupIDFloat)
					contents, _ := incomingMsg["contents"].(string)

					// Rate limit messages - same budget as HTTP (15 per minute)
					id := fmt.Sprintf("user:%d", userID)
					allowed, _ := middleware.CheckRateLimit(ctx, s.redis, "send_chat", id, 15, time.Minute)
					if !allowed {
						s.sendWSError(c, "Rate limit exceeded. Please wait a moment.")
						return
					}

					rendered, err := s.chatService.PostMessage(ctx, groupID, userID, contents)
					if err != nil {
						s.sendWSError(c, err.Error())
						return
					}
					if rendered == nil {
						// Whitespace-only, dropped silently
						return
					}

					s.wsLogger.LogMessage(ctx, userID, groupLabel(groupID), "chat")
					s.wsMetrics.RecordMessage(groupLabel(groupID), "chat")

					s.broadcastChatMessage(ctx, groupID, *rendered)
				}
			}
		}

		// Send welcome message
		welcomeMsg := notifications.ChatMessage{
			Type:    "connected",
			Payload: map[string]interface{}{"user_id": userID},
		}
		if welcomeJSON, err := json.Marshal(welcomeMsg); err == nil {
			client.TrySend(welcomeJSON)
		}

		// Start write pump in a goroutine
		go client.WritePump()

		// Read pump runs in the main handler goroutine (blocking)
		client.ReadPump()

		s.wsLogger.LogDisconnect(ctx, userID, "", "read pump closed")
		s.wsMetrics.RecordWebSocketEvent("disconnect")
	})
}

// sendWSError delivers an error envelope to a single client, best effort.
func (s *Server) sendWSError(c *notifications.Client, message string) {
	response := notifications.ChatMessage{
		Type:    "error",
		Payload: map[string]string{"message": message},
	}
	if responseJSON, err := json.Marshal(response); err == nil {
		c.TrySend(responseJSON)
	}
}

func groupLabel(groupID uint) string {
	return strconv.FormatUint(uint64(groupID), 10)
}
