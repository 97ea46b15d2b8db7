// Fleetrelay - Real-Time Driver Location Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fleetrelay

package websocket

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/tomtom215/fleetrelay/internal/logging"
	"github.com/tomtom215/fleetrelay/internal/models"
)

func init() {
	logging.Init(logging.Config{Level: "error", Format: "json", Output: io.Discard})
}

// startHub runs a hub until the test ends.
func startHub(t *testing.T, opts ...HubOption) *Hub {
	t.Helper()
	hub := NewHub(opts...)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = hub.RunWithContext(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return hub
}

// newTestClient builds a client with no connection, for registry tests.
func newTestClient(hub *Hub, buffer int) *Client {
	c := NewClient(hub, nil, nil, ClientOptions{SendBuffer: buffer})
	return c
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func receive(t *testing.T, c *Client) Message {
	t.Helper()
	select {
	case msg, ok := <-c.send:
		if !ok {
			t.Fatal("send channel closed")
		}
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for message")
	}
	return Message{}
}

func TestHub_RegisterIsIdempotent(t *testing.T) {
	hub := startHub(t)
	c := newTestClient(hub, 8)

	hub.Register(c)
	hub.Register(c)
	waitFor(t, func() bool { return hub.GetClientCount() == 1 })

	hub.Unregister(c)
	hub.Unregister(c)
	waitFor(t, func() bool { return hub.GetClientCount() == 0 })

	if _, ok := <-c.send; ok {
		t.Error("send channel should be closed after unregister")
	}
}

func TestHub_BroadcastReachesAllClients(t *testing.T) {
	hub := startHub(t)
	clients := []*Client{newTestClient(hub, 8), newTestClient(hub, 8), newTestClient(hub, 8)}
	for _, c := range clients {
		hub.Register(c)
	}
	waitFor(t, func() bool { return hub.GetClientCount() == 3 })

	event := models.LocationUpdateEvent{SubjectID: 42, Latitude: 39.75, Longitude: -104.99, FirstName: "Jane", LastName: "Doe"}
	hub.BroadcastLocationUpdate(event)

	for _, c := range clients {
		msg := receive(t, c)
		if msg.Type != MessageTypeLocationUpdate {
			t.Errorf("Type = %s, want %s", msg.Type, MessageTypeLocationUpdate)
		}
		if got, ok := msg.Data.(models.LocationUpdateEvent); !ok || got != event {
			t.Errorf("Data = %#v", msg.Data)
		}
	}
}

func TestHub_SlowClientIsDroppedOthersStillReceive(t *testing.T) {
	hub := startHub(t)
	slow := newTestClient(hub, 1)
	fast := newTestClient(hub, 16)
	hub.Register(slow)
	hub.Register(fast)
	waitFor(t, func() bool { return hub.GetClientCount() == 2 })

	for i := int64(1); i <= 3; i++ {
		hub.BroadcastLocationExpired(models.LocationExpiredEvent{SubjectID: i})
	}

	for i := int64(1); i <= 3; i++ {
		msg := receive(t, fast)
		if ev, ok := msg.Data.(models.LocationExpiredEvent); !ok || ev.SubjectID != i {
			t.Errorf("message %d = %#v", i, msg.Data)
		}
	}
	waitFor(t, func() bool { return hub.GetClientCount() == 1 })

	// The slow client keeps what fit in its buffer, then sees the close.
	if _, ok := <-slow.send; !ok {
		t.Fatal("slow client lost its buffered message")
	}
	if _, ok := <-slow.send; ok {
		t.Error("slow client send channel should be closed")
	}
}

func TestHub_ClosedClientDoesNotBlockBroadcast(t *testing.T) {
	hub := startHub(t)
	closed := newTestClient(hub, 8)
	open := newTestClient(hub, 8)
	hub.Register(closed)
	hub.Register(open)
	waitFor(t, func() bool { return hub.GetClientCount() == 2 })

	closed.closeSend()
	hub.BroadcastJSON(MessageTypeLocationUpdate, "x")

	if msg := receive(t, open); msg.Data != "x" {
		t.Errorf("Data = %v", msg.Data)
	}
	waitFor(t, func() bool { return hub.GetClientCount() == 1 })
}

func TestHub_BroadcastOrderPreserved(t *testing.T) {
	hub := startHub(t)
	c := newTestClient(hub, 200)
	hub.Register(c)
	waitFor(t, func() bool { return hub.GetClientCount() == 1 })

	for i := 0; i < 100; i++ {
		hub.BroadcastJSON(MessageTypeLocationUpdate, i)
	}
	for i := 0; i < 100; i++ {
		if msg := receive(t, c); msg.Data != i {
			t.Fatalf("message %d = %v", i, msg.Data)
		}
	}
}

func TestHub_SnapshotSentFirst(t *testing.T) {
	snap := map[int64]models.SnapshotEntry{42: {Latitude: 1, Longitude: 2, Timestamp: 3}}
	hub := startHub(t, WithSnapshot(func() interface{} { return snap }))
	c := newTestClient(hub, 8)
	hub.Register(c)

	msg := receive(t, c)
	if msg.Type != MessageTypeSnapshot {
		t.Fatalf("first message type = %s, want snapshot", msg.Type)
	}
	got, ok := msg.Data.(map[int64]models.SnapshotEntry)
	if !ok || got[42] != snap[42] {
		t.Errorf("Data = %#v", msg.Data)
	}
}

func TestHub_BroadcastQueueFull(t *testing.T) {
	hub := NewHub(WithBroadcastQueue(1))
	if !hub.BroadcastJSON("a", 1) {
		t.Error("first broadcast should be queued")
	}
	if hub.BroadcastJSON("b", 2) {
		t.Error("second broadcast should be dropped when the queue is full")
	}
}

func TestHub_ShutdownClosesClients(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- hub.RunWithContext(ctx) }()

	c := newTestClient(hub, 8)
	hub.Register(c)
	waitFor(t, func() bool { return hub.GetClientCount() == 1 })

	cancel()
	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("RunWithContext() = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("hub did not stop")
	}

	if _, ok := <-c.send; ok {
		t.Error("client send channel should be closed on shutdown")
	}
	if hub.Register(newTestClient(hub, 1)) {
		t.Error("Register() after shutdown should return false")
	}
	hub.Unregister(c)
}

func TestGetShutdownReason(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if got := getShutdownReason(ctx); got != ShutdownReasonContextCanceled {
		t.Errorf("reason = %s", got)
	}

	ctx, cancel = context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()
	if got := getShutdownReason(ctx); got != ShutdownReasonContextDeadline {
		t.Errorf("reason = %s", got)
	}
}
