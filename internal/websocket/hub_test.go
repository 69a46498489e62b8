package websocket

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBroadcastToReachesOnlyWatchers(t *testing.T) {
	h := NewHub()
	go h.Run()

	alice := NewClient(h, nil, "alice")
	bob := NewClient(h, nil, "bob")
	h.Register <- alice
	h.Register <- bob

	h.BroadcastTo("alice", []byte("new post"))

	select {
	case msg := <-alice.Send:
		assert.Equal(t, "new post", string(msg))
	case <-time.After(time.Second):
		t.Fatal("watcher never received the message")
	}
	assert.Empty(t, bob.Send)
}

// Handlers call BroadcastTo from request goroutines while the run loop
// registers clients, so the two must not touch the client maps
// concurrently. Run with -race.
func TestBroadcastToSafeDuringRegistration(t *testing.T) {
	h := NewHub()
	go h.Run()

	watcher := NewClient(h, nil, "alice")
	h.Register <- watcher

	const messages = 50
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			h.Register <- NewClient(h, nil, "alice")
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < messages; i++ {
			h.BroadcastTo("alice", []byte(fmt.Sprintf("update %d", i)))
		}
	}()
	wg.Wait()

	// The first watcher was registered before any send, so it sees every
	// message; its buffer is large enough that none are dropped.
	for i := 0; i < messages; i++ {
		select {
		case <-watcher.Send:
		case <-time.After(time.Second):
			t.Fatalf("watcher received %d of %d messages", i, messages)
		}
	}
}
