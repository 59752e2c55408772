package share

import (
	"fmt"
	"sort"
	"time"

	ttlworker "github.com/FloatTech/ttl"

	"github.com/moyoez/risport-go/notify"
	"github.com/moyoez/risport-go/tool"
	"github.com/moyoez/risport-go/types"
)

const (
	DefaultTTL = 10 * time.Minute // a device not seen for this long is forgotten
)

var (
	DeviceStatus = ttlworker.NewCache[string, types.DeviceStatusItem](DefaultTTL)
)

// SetDeviceStatus stores the latest observation of a device and notifies when it changed.
// A device seen for the first time is only announced when announceNew is set, so the first
// poll of a cluster does not flood listeners. Returns true if the device was new or changed.
func SetDeviceStatus(data types.DeviceStatusItem, announceNew bool) bool {
	existing, exists := GetDeviceStatus(data.Name)

	isNew := !exists
	isChanged := exists && hasDeviceStatusChanged(existing, data)

	DeviceStatus.Set(data.Name, data)
	tool.DefaultLogger.Debugf("Set device status: %s = %s", data.Name, data.Status)

	if isChanged {
		tool.DefaultLogger.Infof("Device status changed: %s %s -> %s (%s -> %s)", data.Name, existing.Status, data.Status, existing.Server, data.Server)
		sendDeviceNotification(&types.Notification{
			Type:    types.NotifyTypeDeviceStatusChanged,
			Title:   "Device Status Changed",
			Message: fmt.Sprintf("%s is %s on %s", data.Name, data.Status, data.Server),
			Data: map[string]any{
				"name":            data.Name,
				"server":          data.Server,
				"ip_address":      data.IPAddress,
				"status":          data.Status,
				"protocol":        data.Protocol,
				"previous_status": existing.Status,
				"previous_server": existing.Server,
			},
		})
	} else if isNew && announceNew {
		tool.DefaultLogger.Infof("New device seen: %s (%s) on %s", data.Name, data.Status, data.Server)
		sendDeviceNotification(&types.Notification{
			Type:    types.NotifyTypeDeviceAppeared,
			Title:   "Device Appeared",
			Message: fmt.Sprintf("%s on %s", data.Name, data.Server),
			Data: map[string]any{
				"name":       data.Name,
				"server":     data.Server,
				"ip_address": data.IPAddress,
				"status":     data.Status,
				"protocol":   data.Protocol,
			},
		})
	}
	return isNew || isChanged
}

func sendDeviceNotification(n *types.Notification) {
	if err := notify.SendNotification(n, tool.GetCurrentConfig().NotifySocket); err != nil {
		tool.DefaultLogger.Debugf("Failed to send device notification: %v", err)
	}
}

// hasDeviceStatusChanged ignores the timestamp, which moves on every registration refresh.
func hasDeviceStatusChanged(a, b types.DeviceStatusItem) bool {
	return a.Status != b.Status ||
		a.Server != b.Server ||
		a.IPAddress != b.IPAddress ||
		a.Protocol != b.Protocol
}

func GetDeviceStatus(name string) (types.DeviceStatusItem, bool) {
	data := DeviceStatus.Get(name)
	return data, data.Name != ""
}

func DeleteDeviceStatus(name string) {
	DeviceStatus.Delete(name)
}

// ListDeviceStatus returns every remembered device, ordered by server then name.
func ListDeviceStatus() []types.DeviceStatusItem {
	items := make([]types.DeviceStatusItem, 0)
	err := DeviceStatus.Range(func(_ string, v types.DeviceStatusItem) error {
		items = append(items, v)
		return nil
	})
	if err != nil {
		return nil
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Server != items[j].Server {
			return items[i].Server < items[j].Server
		}
		return items[i].Name < items[j].Name
	})
	return items
}

// StatusItemsFromGroups flattens a device query result into status items.
// Records without a Name are skipped.
func StatusItemsFromGroups(groups []types.ServerGroup) []types.DeviceStatusItem {
	var items []types.DeviceStatusItem
	for _, group := range groups {
		for _, device := range group.Devices {
			name := device["Name"]
			if name == "" {
				continue
			}
			items = append(items, types.DeviceStatusItem{
				Server:    group.Server,
				Name:      name,
				IPAddress: device["IPAddress"],
				Status:    device["Status"],
				Protocol:  device["Protocol"],
				TimeStamp: device["TimeStamp"],
			})
		}
	}
	return items
}
