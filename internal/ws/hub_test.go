package ws

import (
	"io"
	"log/slog"
	"testing"

	"github.com/manish-mehra/locshare/internal/session"
)

var _ session.Sender = (*Hub)(nil)

func newTestHub() *Hub {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewHub(logger, session.NewStore(5))
}

func TestHubSendUnknownConnDropped(t *testing.T) {
	h := newTestHub()
	if h.Send("ghost", []byte("x")) {
		t.Fatal("send to unknown id reported delivery")
	}
}

func TestHubSendQueuesFrame(t *testing.T) {
	h := newTestHub()
	c := NewConn(nil, "c1")
	h.register(c)

	if !h.Send("c1", []byte("hello")) {
		t.Fatal("send to registered conn dropped")
	}
	select {
	case b := <-c.out:
		if string(b) != "hello" {
			t.Fatalf("wrong frame: %q", b)
		}
	default:
		t.Fatal("frame not queued")
	}

	h.unregister(c)
	if h.Send("c1", []byte("bye")) {
		t.Fatal("send after unregister reported delivery")
	}
}

func TestConnTrySendDropsWhenFull(t *testing.T) {
	c := NewConn(nil, "c1")
	for i := 0; i < cap(c.out); i++ {
		if !c.TrySend([]byte("x")) {
			t.Fatalf("send %d dropped before buffer full", i)
		}
	}
	if c.TrySend([]byte("overflow")) {
		t.Fatal("send on full buffer did not drop")
	}
}
