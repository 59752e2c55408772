package models

import (
	"sync"

	"github.com/moyoez/risport-go/api/notifyhub"
	"github.com/moyoez/risport-go/ris"
	"github.com/moyoez/risport-go/tool"
)

var (
	clientMu  sync.RWMutex
	risClient *ris.Client

	hubMu     sync.RWMutex
	notifyHub *notifyhub.Hub
)

// SetRISClient sets the client shared by the gateway and the monitor.
func SetRISClient(c *ris.Client) {
	clientMu.Lock()
	defer clientMu.Unlock()
	risClient = c
}

// GetRISClient returns the shared client, creating one from the current config on first use.
func GetRISClient() *ris.Client {
	clientMu.RLock()
	c := risClient
	clientMu.RUnlock()
	if c != nil {
		return c
	}

	clientMu.Lock()
	defer clientMu.Unlock()
	if risClient == nil {
		risClient = ris.NewClient(tool.GetCurrentConfig().RequestsPerMinute)
	}
	return risClient
}

// SetNotifyHub sets the hub used by the notify websocket route.
func SetNotifyHub(h *notifyhub.Hub) {
	hubMu.Lock()
	defer hubMu.Unlock()
	notifyHub = h
}

// GetNotifyHub returns the notify WebSocket hub, or nil if not set.
func GetNotifyHub() *notifyhub.Hub {
	hubMu.RLock()
	defer hubMu.RUnlock()
	return notifyHub
}
