package types

// DeviceRecord maps each field returned for a device to its text. The field set is chosen by the server.
type DeviceRecord map[string]string

// ServerGroup holds the devices a single cluster node reported, in document order.
type ServerGroup struct {
	Server  string         `json:"server"`
	Devices []DeviceRecord `json:"devices"`
}

// ServerInfoRecord maps each server info field (HostName, call-manager-version, os-name, ...) to its text.
type ServerInfoRecord map[string]string

// DeviceStatusItem is the last observed status of one device, kept by the monitor.
type DeviceStatusItem struct {
	Server    string `json:"server"`
	Name      string `json:"name"`
	IPAddress string `json:"ip_address"`
	Status    string `json:"status"`
	Protocol  string `json:"protocol,omitempty"`
	TimeStamp string `json:"timestamp,omitempty"`
}
