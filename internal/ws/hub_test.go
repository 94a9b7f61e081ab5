package ws

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"go-price-compare/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConn struct {
	mu       sync.Mutex
	messages [][]byte
	closed   bool
	failing  bool
}

func (c *fakeConn) WriteMessage(_ int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failing {
		return errors.New("broken pipe")
	}
	c.messages = append(c.messages, data)
	return nil
}

func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *fakeConn) received() [][]byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([][]byte(nil), c.messages...)
}

func (c *fakeConn) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func TestHubBroadcastsProgress(t *testing.T) {
	hub := NewHub(nil)
	go hub.Run()
	defer hub.Stop()

	good := &fakeConn{}
	bad := &fakeConn{failing: true}
	hub.Register <- good
	hub.Register <- bad

	hub.PublishProgress(model.ProgressEvent{Type: model.EventAnalysisProgress, RunID: "r1", Processed: 5, Total: 7})

	require.Eventually(t, func() bool { return len(good.received()) == 1 }, time.Second, 5*time.Millisecond)
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 5*time.Millisecond)
	assert.True(t, bad.isClosed())

	var ev model.ProgressEvent
	require.NoError(t, json.Unmarshal(good.received()[0], &ev))
	assert.Equal(t, "r1", ev.RunID)
	assert.Equal(t, 5, ev.Processed)
}

func TestHubPublishNeverBlocks(t *testing.T) {
	hub := NewHub(nil)

	done := make(chan struct{})
	go func() {
		for i := 0; i < broadcastBuffer*2; i++ {
			hub.Publish(map[string]int{"n": i})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked without a running hub")
	}
	assert.Len(t, hub.Broadcast, broadcastBuffer)
}

func TestHubUnregisterClosesConn(t *testing.T) {
	hub := NewHub(nil)
	go hub.Run()
	defer hub.Stop()

	c := &fakeConn{}
	hub.Register <- c
	hub.Unregister <- c

	require.Eventually(t, c.isClosed, time.Second, 5*time.Millisecond)
	assert.Equal(t, 0, hub.ClientCount())
}

func TestHubStoppedDoesNotBlockClients(t *testing.T) {
	hub := NewHub(nil)
	go hub.Run()

	c := &fakeConn{}
	hub.register(c)
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	hub.Stop()

	done := make(chan struct{})
	go func() {
		hub.unregister(c)
		hub.register(&fakeConn{})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("unregister after Stop blocked")
	}
	require.Eventually(t, c.isClosed, time.Second, 5*time.Millisecond)
}
