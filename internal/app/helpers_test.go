package app

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mkaydev/huddle/internal/core"
	"github.com/mkaydev/huddle/internal/domain"
)

// fakePeer records every frame handed to it; flip fail to simulate a peer
// mid-teardown.
type fakePeer struct {
	mu     sync.Mutex
	frames []core.Frame
	fail   bool
}

func (f *fakePeer) TrySend(frame core.Frame) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errors.New("peer unavailable")
	}
	f.frames = append(f.frames, frame)
	return nil
}

func (f *fakePeer) Close() {}

func (f *fakePeer) frameCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.frames)
}

// occupantEvents decodes the occupant snapshots the peer received, in order.
func (f *fakePeer) occupantEvents(t *testing.T) []OccupantsEvent {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []OccupantsEvent
	for _, frame := range f.frames {
		var env struct {
			Type string `json:"type"`
		}
		require.NoError(t, json.Unmarshal(frame, &env))
		if env.Type != EventOccupants {
			continue
		}
		var evt OccupantsEvent
		require.NoError(t, json.Unmarshal(frame, &evt))
		out = append(out, evt)
	}
	return out
}

// notifications decodes the notification events the peer received, in order.
func (f *fakePeer) notifications(t *testing.T) []NotificationEvent {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []NotificationEvent
	for _, frame := range f.frames {
		var env struct {
			Type string `json:"type"`
		}
		require.NoError(t, json.Unmarshal(frame, &env))
		if env.Type != EventNotification {
			continue
		}
		var evt NotificationEvent
		require.NoError(t, json.Unmarshal(frame, &evt))
		out = append(out, evt)
	}
	return out
}

func (f *fakePeer) typingEvents(t *testing.T) []TypingEvent {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []TypingEvent
	for _, frame := range f.frames {
		var evt TypingEvent
		require.NoError(t, json.Unmarshal(frame, &evt))
		if evt.Type == EventTypingStarted || evt.Type == EventTypingStopped {
			out = append(out, evt)
		}
	}
	return out
}

func usernames(users []domain.User) []string {
	names := make([]string, 0, len(users))
	for _, u := range users {
		names = append(names, u.Username)
	}
	return names
}

func testUser(name string) domain.User {
	return domain.User{ID: domain.UserID("uid-" + name), Username: name}
}

func newTestCoordinator() (*Coordinator, *Registry) {
	registry := NewRegistry()
	return NewCoordinator(registry, NewBroadcaster(registry)), registry
}
