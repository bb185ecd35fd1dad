package domain

// RoomID names a scope within which presence, notifications and typing
// signals are exchanged. Rooms are the live view of groups; a RoomID is the
// GroupID of the group the occupants are chatting in.
type RoomID string
