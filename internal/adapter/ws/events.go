package ws

import (
	"context"
	"encoding/json"
	"log/slog"
)

// Event type constants for WebSocket messages.
const (
	EventTaskUpdated      = "task.updated"
	EventPhaseCompleted   = "phase.completed"
	EventProjectCompleted = "project.completed"
)

// TaskUpdatedEvent is broadcast when a task's completion, notes, or
// evidence changes.
type TaskUpdatedEvent struct {
	TaskID    string `json:"task_id"`
	ProjectID string `json:"project_id"`
	Phase     string `json:"phase"`
	Completed bool   `json:"completed"`
}

// PhaseCompletedEvent is broadcast when a phase flips to complete.
type PhaseCompletedEvent struct {
	ProjectID string `json:"project_id"`
	Phase     string `json:"phase"`
}

// ProjectCompletedEvent is broadcast when every phase of a project is done.
type ProjectCompletedEvent struct {
	ProjectID string `json:"project_id"`
	Name      string `json:"name"`
}

// BroadcastEvent is a convenience method that marshals a typed event and broadcasts it.
func (h *Hub) BroadcastEvent(ctx context.Context, eventType string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		slog.Error("marshal ws event payload", "type", eventType, "error", err)
		return
	}

	h.Broadcast(ctx, Message{
		Type:    eventType,
		Payload: json.RawMessage(data),
	})
}
