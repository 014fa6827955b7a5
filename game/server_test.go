package game

import (
	"fmt"
	"testing"
)

// Broadcasting and client registration run on different goroutines; the send
// channel of a disconnecting client is closed under s.mu, and broadcasts send
// under the same lock. Hammering both paths at once must never panic.
func TestBroadcastDuringDisconnects(t *testing.T) {
	s := newTestServer(t, []string{
		"@@@@@@@@@",
		"@P......@",
		"@#######@",
		"@@@@@@@@@",
	})
	go s.listenForClients()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 500; i++ {
			c := &Client{playerID: fmt.Sprintf("client-%d", i), send: make(chan []byte, 1)}
			s.register <- c
			s.unregister <- c
		}
	}()

	for {
		select {
		case <-done:
			return
		default:
			s.broadcastState()
		}
	}
}

func TestGuardHeldAtLevelEdge(t *testing.T) {
	s := newTestServer(t, []string{
		"@P.@",
		".G..",
	})
	// Below the bottom row is out of bounds, which reads as stone: the guard
	// is supported there, same as on a real floor.
	if s.guardFalls(PointI{X: 1, Y: 1}) {
		t.Error("guard on bottom row should be held by the level edge")
	}
	// An empty cell above empty space still falls.
	if !s.guardFalls(PointI{X: 2, Y: 0}) {
		t.Error("unsupported guard should fall")
	}
}
