package events

import (
	"testing"
	"time"
)

func TestHub_RegisterAfterStop(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	hub.Stop()

	client := NewClient(hub, nil, "g1")
	done := make(chan struct{})
	go func() {
		hub.Register(client)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Register blocked after hub shutdown")
	}

	client.mu.RLock()
	closed := client.closed
	client.mu.RUnlock()
	if !closed {
		t.Fatal("client registered after shutdown was not closed")
	}
}

func TestHub_PublishAfterStopIsDropped(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	hub.Stop()

	done := make(chan struct{})
	go func() {
		hub.Publish(Transaction{GID: "g1", Type: TxGive, UID: "u1"})
		hub.Unregister(NewClient(hub, nil, "g1"))
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish or Unregister blocked after hub shutdown")
	}
}
