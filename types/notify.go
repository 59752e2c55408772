package types

const (
	NotifyTypeDeviceStatusChanged = "device_status_changed"
	NotifyTypeDeviceAppeared      = "device_appeared"
	NotifyTypeMonitorError        = "monitor_error"
)

// Notification represents a notification message structure
type Notification struct {
	Type    string         `json:"type,omitempty"`    // Notification type, e.g. "device_status_changed"
	Title   string         `json:"title,omitempty"`   // Notification title
	Message string         `json:"message,omitempty"` // Notification message/content
	Data    map[string]any `json:"data,omitempty"`    // Additional data fields
}
