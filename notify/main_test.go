package notify

import (
	"encoding/binary"
	"io"
	"net"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/moyoez/risport-go/types"
)

type recordingHub struct {
	mu   sync.Mutex
	seen []*types.Notification
}

func (h *recordingHub) Broadcast(n *types.Notification) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.seen = append(h.seen, n)
}

func TestSendNotificationBroadcastsToHub(t *testing.T) {
	h := &recordingHub{}
	SetHub(h)
	defer SetHub(nil)

	if !NotifyWSEnabled() {
		t.Fatal("hub should be reported as enabled")
	}
	n := &types.Notification{Type: types.NotifyTypeDeviceStatusChanged, Title: "Device Status Changed"}
	if err := SendNotification(n, ""); err != nil {
		t.Fatalf("SendNotification: %v", err)
	}
	if len(h.seen) != 1 || h.seen[0] != n {
		t.Fatalf("hub saw %v", h.seen)
	}
}

func TestSendNotificationMissingSocket(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.sock")
	if err := SendNotification(&types.Notification{Type: "x"}, path); err == nil {
		t.Fatal("expected error for missing socket")
	}
}

func TestSendNotificationWritesLengthPrefixedJSON(t *testing.T) {
	dir, err := os.MkdirTemp("", "ntf")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)
	path := filepath.Join(dir, "n.sock")

	ln, err := net.Listen("unix", path)
	if err != nil {
		t.Skipf("unix sockets unavailable: %v", err)
	}
	defer ln.Close()

	got := make(chan types.Notification, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		var size uint32
		if err := binary.Read(conn, binary.LittleEndian, &size); err != nil {
			return
		}
		payload := make([]byte, size)
		if _, err := io.ReadFull(conn, payload); err != nil {
			return
		}
		var n types.Notification
		if err := sonic.Unmarshal(payload, &n); err == nil {
			got <- n
		}
		_, _ = conn.Write([]byte(`{"ok":true}`))
	}()

	n := &types.Notification{
		Type:    types.NotifyTypeDeviceAppeared,
		Title:   "Device Appeared",
		Message: "SEP001122334455 on cucm-pub",
	}
	if err := SendNotification(n, path); err != nil {
		t.Fatalf("SendNotification: %v", err)
	}
	received := <-got
	if received.Type != n.Type || received.Message != n.Message {
		t.Fatalf("received %+v", received)
	}
}
