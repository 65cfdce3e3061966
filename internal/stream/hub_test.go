package stream

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestHubBroadcast(t *testing.T) {
	hub := NewHub(nil)
	client := hub.Register("owner-1")
	defer hub.Unregister(client)

	payload := []byte(`{"event":"scheduled"}`)
	hub.Broadcast("owner-1", payload)

	select {
	case msg := <-client.Send:
		if string(msg) != string(payload) {
			t.Fatalf("unexpected message")
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatalf("timeout waiting for message")
	}
}

func TestHubBroadcastOtherOwner(t *testing.T) {
	hub := NewHub(nil)
	client := hub.Register("owner-1")
	defer hub.Unregister(client)

	hub.Broadcast("owner-2", []byte("not for us"))

	select {
	case <-client.Send:
		t.Fatalf("message leaked across owners")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHubHelpers(t *testing.T) {
	ch := redisChannel("abc")
	if ch == "" {
		t.Fatalf("expected channel")
	}
	if ownerIDFromChannel(ch) != "abc" {
		t.Fatalf("unexpected owner id")
	}
	if ownerIDFromChannel("bad") != "" {
		t.Fatalf("expected empty owner id")
	}
}

func TestUnregisterCloses(t *testing.T) {
	hub := NewHub(nil)
	client := hub.Register("owner-2")
	hub.Unregister(client)
	_, ok := <-client.Send
	if ok {
		t.Fatalf("expected channel closed")
	}
}

func TestHubRedisBroadcastNoSelfEcho(t *testing.T) {
	s := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	defer client.Close()

	hub := NewHub(client)
	ws := hub.Register("owner-redis")
	defer hub.Unregister(ws)

	hub.Broadcast("owner-redis", []byte("ping"))

	select {
	case msg := <-ws.Send:
		if string(msg) != "ping" {
			t.Fatalf("unexpected message")
		}
	case <-time.After(200 * time.Millisecond):
		t.Fatalf("timeout waiting for broadcast")
	}

	// the pub/sub loop must drop the instance's own publish, the client
	// already got it above
	select {
	case msg := <-ws.Send:
		t.Fatalf("message delivered twice: %q", msg)
	case <-time.After(150 * time.Millisecond):
	}
}

func TestHubCrossInstanceBroadcast(t *testing.T) {
	s := miniredis.RunT(t)
	sender := redis.NewClient(&redis.Options{Addr: s.Addr()})
	receiver := redis.NewClient(&redis.Options{Addr: s.Addr()})
	defer sender.Close()
	defer receiver.Close()

	hub1 := NewHub(sender)
	hub2 := NewHub(receiver)

	ws := hub2.Register("owner-1")
	defer hub2.Unregister(ws)

	// re-broadcast until hub2's subscription is live
	deadline := time.After(2 * time.Second)
	tick := time.NewTicker(25 * time.Millisecond)
	defer tick.Stop()
	for {
		select {
		case msg := <-ws.Send:
			if string(msg) != "cross" {
				t.Fatalf("unexpected message: %q", msg)
			}
			return
		case <-deadline:
			t.Fatalf("cross-instance broadcast never delivered")
		case <-tick.C:
			hub1.Broadcast("owner-1", []byte("cross"))
		}
	}
}

func TestHubRedisPublishError(t *testing.T) {
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	server.Close()
	defer client.Close()

	hub := NewHub(client)
	clientNode := hub.Register("owner-bad")
	defer hub.Unregister(clientNode)

	hub.Broadcast("owner-bad", []byte("ping"))
}
