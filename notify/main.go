package notify

import (
	"encoding/binary"
	"fmt"
	"io"
	"net"
	"os"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/moyoez/risport-go/tool"
	"github.com/moyoez/risport-go/types"
)

// NotifyWriteChunkSize is the chunk size when writing payload to Unix socket (avoid large single write).
const NotifyWriteChunkSize = 32 * 1024 // 32KB

// Hub receives every notification, e.g. the gateway's websocket hub.
type Hub interface {
	Broadcast(notification *types.Notification)
}

var (
	// UnixSocketTimeout is the timeout for Unix socket operations
	UnixSocketTimeout = 3 * time.Second

	hubMu sync.RWMutex
	hub   Hub
)

// SetHub installs the hub notifications are broadcast to. nil removes it.
func SetHub(h Hub) {
	hubMu.Lock()
	defer hubMu.Unlock()
	hub = h
}

// NotifyWSEnabled reports whether a hub is installed.
func NotifyWSEnabled() bool {
	hubMu.RLock()
	defer hubMu.RUnlock()
	return hub != nil
}

// SendNotification broadcasts to the hub, then forwards to the Unix socket when socketPath is set.
// The socket is optional: an empty path only broadcasts.
func SendNotification(notification *types.Notification, socketPath string) error {
	if notification == nil {
		return nil
	}
	hubMu.RLock()
	h := hub
	hubMu.RUnlock()
	if h != nil {
		h.Broadcast(notification)
	}
	if socketPath == "" {
		return nil
	}
	return sendToSocket(notification, socketPath)
}

// sendToSocket writes a 4 byte little-endian length followed by the JSON payload,
// then reads an optional JSON reply carrying an "error" field.
func sendToSocket(notification *types.Notification, socketPath string) error {
	if _, err := os.Stat(socketPath); os.IsNotExist(err) {
		return fmt.Errorf("unix socket not found: %s", socketPath)
	}

	payload, err := sonic.Marshal(notification)
	if err != nil {
		return fmt.Errorf("failed to serialize notification data: %v", err)
	}
	if len(payload) > NotifyWriteChunkSize {
		return fmt.Errorf("notification payload too large: %d bytes (max %d)", len(payload), NotifyWriteChunkSize)
	}

	conn, err := net.DialTimeout("unix", socketPath, UnixSocketTimeout)
	if err != nil {
		return fmt.Errorf("failed to connect to Unix socket %s: %v", socketPath, err)
	}
	defer func() {
		if err := conn.Close(); err != nil {
			tool.DefaultLogger.Errorf("Failed to close Unix socket connection: %v", err)
		}
	}()

	if err := conn.SetDeadline(time.Now().Add(UnixSocketTimeout)); err != nil {
		tool.DefaultLogger.Errorf("Failed to set deadline: %v", err)
	}

	lengthBuf := make([]byte, 4)
	binary.LittleEndian.PutUint32(lengthBuf, uint32(len(payload)))
	if _, err := conn.Write(lengthBuf); err != nil {
		return fmt.Errorf("failed to write length to Unix socket: %v", err)
	}
	tool.DefaultLogger.Debugf("Sending notification to Unix socket (len=%d): %s", len(payload), payload)
	if _, err := conn.Write(payload); err != nil {
		return fmt.Errorf("failed to write payload to Unix socket: %v", err)
	}

	buf := make([]byte, 4096)
	n, err := conn.Read(buf)
	if err != nil && err != io.EOF {
		return fmt.Errorf("failed to read response from Unix socket: %v", err)
	}
	if n > 0 {
		var response map[string]any
		if err := sonic.Unmarshal(buf[:n], &response); err != nil {
			tool.DefaultLogger.Debugf("Unix socket response (raw): %s", buf[:n])
		} else if errMsg, ok := response["error"].(string); ok && errMsg != "" {
			return fmt.Errorf("notification receiver returned error: %s", errMsg)
		}
	}

	tool.DefaultLogger.Infof("[UnixSocket] Notification sent: %s - %s", notification.Type, notification.Title)
	return nil
}
