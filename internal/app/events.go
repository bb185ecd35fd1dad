package app

import (
	"fmt"

	"github.com/mkaydev/huddle/internal/domain"
)

// Wire event type tags. These are the only event shapes the core produces;
// adapters marshal them as-is.
const (
	EventOccupants     = "occupants"
	EventNotification  = "notification"
	EventMessage       = "message"
	EventTypingStarted = "typing_started"
	EventTypingStopped = "typing_stopped"
)

// Notification kinds.
const (
	NoticeJoined       = "joined"
	NoticeLeft         = "left"
	NoticeDisconnected = "disconnected"
)

// OccupantsEvent is the room's recomputed occupant snapshot, sent to every
// member after each join/leave.
type OccupantsEvent struct {
	Type  string        `json:"type"`
	Room  domain.RoomID `json:"room"`
	Users []domain.User `json:"users"`
	Count int           `json:"count"`
}

func newOccupantsEvent(room domain.RoomID, users []domain.User) OccupantsEvent {
	return OccupantsEvent{Type: EventOccupants, Room: room, Users: users, Count: len(users)}
}

// NotificationEvent announces a membership change to a room.
type NotificationEvent struct {
	Type    string        `json:"type"`
	Kind    string        `json:"kind"`
	Room    domain.RoomID `json:"room"`
	Message string        `json:"message"`
	User    domain.User   `json:"user"`
}

func newNotification(kind string, room domain.RoomID, user domain.User, format string) NotificationEvent {
	return NotificationEvent{
		Type:    EventNotification,
		Kind:    kind,
		Room:    room,
		Message: fmt.Sprintf(format, user.Username),
		User:    user,
	}
}

// TypingEvent signals that someone started or stopped typing in a room.
type TypingEvent struct {
	Type  string        `json:"type"`
	Room  domain.RoomID `json:"room"`
	Label string        `json:"label"`
}

// MessageEvent relays a chat message to the room.
type MessageEvent struct {
	Type    string         `json:"type"`
	Room    domain.RoomID  `json:"room"`
	Message domain.Message `json:"message"`
}

func NewMessageEvent(msg domain.Message) MessageEvent {
	return MessageEvent{Type: EventMessage, Room: domain.RoomID(msg.GroupID), Message: msg}
}
