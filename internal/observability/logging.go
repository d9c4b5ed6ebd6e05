// Package observability provides logging, metrics, and tracing for the
// realtime chat plane.
package observability

import (
	"context"
	"log/slog"
	"os"
)

var wsLog = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
	Level: slog.LevelInfo,
}))

// WSLogger logs websocket lifecycle and message events for one hub. The
// group field is empty on events that are not tied to a group subscription.
type WSLogger struct {
	hub string
}

// NewWSLogger returns a logger tagged with the hub's name.
func NewWSLogger(hub string) *WSLogger {
	return &WSLogger{hub: hub}
}

func (l *WSLogger) attrs(userID uint, groupID string) []any {
	return []any{
		slog.String("hub", l.hub),
		slog.Uint64("user_id", uint64(userID)),
		slog.String("group_id", groupID),
	}
}

// LogConnect records a websocket connection.
func (l *WSLogger) LogConnect(ctx context.Context, userID uint, groupID string) {
	wsLog.InfoContext(ctx, "websocket connected", l.attrs(userID, groupID)...)
}

// LogDisconnect records a websocket disconnection and why it happened.
func (l *WSLogger) LogDisconnect(ctx context.Context, userID uint, groupID string, reason string) {
	wsLog.InfoContext(ctx, "websocket disconnected",
		append(l.attrs(userID, groupID), slog.String("reason", reason))...)
}

// LogMessage records an incoming websocket message by type.
func (l *WSLogger) LogMessage(ctx context.Context, userID uint, groupID string, messageType string) {
	wsLog.InfoContext(ctx, "websocket message",
		append(l.attrs(userID, groupID), slog.String("message_type", messageType))...)
}

// LogError records a websocket failure with the event that triggered it.
func (l *WSLogger) LogError(ctx context.Context, userID uint, groupID string, err error, eventType string) {
	wsLog.ErrorContext(ctx, "websocket error",
		append(l.attrs(userID, groupID),
			slog.String("event_type", eventType),
			slog.String("error", err.Error()))...)
}
