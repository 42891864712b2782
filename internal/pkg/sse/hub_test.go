package sse

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_PublishReachesOnlyTargetUser(t *testing.T) {
	hub := NewHub()

	alice, cleanupAlice := hub.Subscribe("alice")
	defer cleanupAlice()
	bob, cleanupBob := hub.Subscribe("bob")
	defer cleanupBob()

	hub.Publish("alice", Event{Name: "notification", Data: "hi"})

	select {
	case ev := <-alice:
		assert.Equal(t, "notification", ev.Name)
		assert.Equal(t, "hi", ev.Data)
	case <-time.After(time.Second):
		t.Fatal("alice did not receive the event")
	}

	select {
	case ev := <-bob:
		t.Fatalf("bob received %v", ev)
	default:
	}
}

func TestHub_CleanupUnregisters(t *testing.T) {
	hub := NewHub()

	ch, cleanup := hub.Subscribe("alice")
	assert.Equal(t, 1, hub.SubscriberCount("alice"))

	cleanup()
	cleanup()
	assert.Equal(t, 0, hub.SubscriberCount("alice"))

	_, open := <-ch
	assert.False(t, open)

	hub.Publish("alice", Event{Name: "notification"})
}

func TestHub_FullBufferDoesNotBlock(t *testing.T) {
	hub := NewHub()
	_, cleanup := hub.Subscribe("alice")
	defer cleanup()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 50; i++ {
			hub.Publish("alice", Event{Name: "notification", Data: i})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a full subscriber")
	}
}

func TestStream(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest("GET", "/stream", nil).WithContext(ctx)
	rec := httptest.NewRecorder()

	ch := make(chan Event, 1)
	ch <- Event{Name: "notification", Data: map[string]string{"title": "Leave Approved"}}
	close(ch)
	defer cancel()

	err := Stream(rec, req, ch, time.Minute)
	require.NoError(t, err)

	body := rec.Body.String()
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(body, ": connected\n\n"))
	assert.Contains(t, body, "event: notification\ndata: {\"title\":\"Leave Approved\"}\n\n")
}
