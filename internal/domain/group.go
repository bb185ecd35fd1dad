package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrGroupNameEmpty = errors.New("group name empty")
	ErrAlreadyMember  = errors.New("already a member")
	ErrNotMember      = errors.New("not a member")
)

type GroupID string

// Group is a named conversation. Membership here is the durable roster kept
// by the store, not live presence; who is currently online in the group's
// room is the registry's business.
type Group struct {
	ID          GroupID   `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	AdminID     UserID    `json:"admin_id"`
	MemberIDs   []UserID  `json:"member_ids"`
	CreatedAt   time.Time `json:"created_at"`
}

func NewGroup(name, description string, admin UserID) (*Group, error) {
	if name == "" {
		return nil, ErrGroupNameEmpty
	}
	return &Group{
		ID:          GroupID(uuid.NewString()),
		Name:        name,
		Description: description,
		AdminID:     admin,
		MemberIDs:   []UserID{admin},
		CreatedAt:   time.Now(),
	}, nil
}

// Room returns the presence scope for this group.
func (g *Group) Room() RoomID { return RoomID(g.ID) }

func (g *Group) HasMember(id UserID) bool {
	for _, m := range g.MemberIDs {
		if m == id {
			return true
		}
	}
	return false
}

func (g *Group) AddMember(id UserID) error {
	if g.HasMember(id) {
		return ErrAlreadyMember
	}
	g.MemberIDs = append(g.MemberIDs, id)
	return nil
}

func (g *Group) RemoveMember(id UserID) error {
	for i, m := range g.MemberIDs {
		if m == id {
			g.MemberIDs = append(g.MemberIDs[:i], g.MemberIDs[i+1:]...)
			return nil
		}
	}
	return ErrNotMember
}
