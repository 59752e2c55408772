package types

import "time"

// AppConfig represents the application configuration loaded from config file
type AppConfig struct {
	Host               string        `yaml:"host"`
	Port               int           `yaml:"port"`
	Username           string        `yaml:"username"`
	Password           string        `yaml:"password"`
	SOAPAction         string        `yaml:"soapAction"`
	InsecureSkipVerify bool          `yaml:"insecureSkipVerify"` // not recommended, self-signed clusters only
	CACertFile         string        `yaml:"caCertFile,omitempty"` // PEM bundle trusted instead of the system roots
	TimeoutSeconds     int           `yaml:"timeoutSeconds"`
	RequestsPerMinute  int           `yaml:"requestsPerMinute"` // 0 disables outbound pacing
	NotifySocket       string        `yaml:"notifySocket,omitempty"`
	Gateway            GatewayConfig `yaml:"gateway"`
	Monitor            MonitorConfig `yaml:"monitor"`
}

// GatewayConfig controls the local JSON gateway.
type GatewayConfig struct {
	Enabled bool `yaml:"enabled"`
	Port    int  `yaml:"port"`
}

// MonitorConfig controls periodic device status polling.
type MonitorConfig struct {
	Enabled         bool          `yaml:"enabled"`
	IntervalSeconds int           `yaml:"intervalSeconds"`
	Criteria        QueryCriteria `yaml:"criteria"`
}

// ClientConfig is everything a single RIS call needs. It is passed by value to each call,
// so changes made between calls are always picked up and nothing is reused across calls.
type ClientConfig struct {
	Host               string
	Port               int
	Username           string
	Password           string
	SOAPAction         string
	InsecureSkipVerify bool
	CACertFile         string
	Timeout            time.Duration
}

// ClientConfig derives the per-call client settings from the file config.
func (c AppConfig) ClientConfig() ClientConfig {
	return ClientConfig{
		Host:               c.Host,
		Port:               c.Port,
		Username:           c.Username,
		Password:           c.Password,
		SOAPAction:         c.SOAPAction,
		InsecureSkipVerify: c.InsecureSkipVerify,
		CACertFile:         c.CACertFile,
		Timeout:            time.Duration(c.TimeoutSeconds) * time.Second,
	}
}

// Config holds runtime overrides from CLI flags
type Config struct {
	Log                string
	UseConfigPath      string
	UseHost            string
	UsePort            int
	UseUsername        string
	UsePassword        string
	UseSOAPAction      string
	UseInsecure        bool   // skip TLS verification (not recommended)
	UseCACertFile      string
	Query              string // one-shot query: devices | servers
	Items              string // comma-separated select items for -query devices
	SelectBy           string
	DeviceClass        string
	NodeName           string
	Hosts              string // comma-separated hosts for -query servers
	Probe              bool   // ICMP reachability check of the configured host
	UseGateway         bool
	UseGatewayPort     int
	UseMonitor         bool
	UseMonitorInterval int
}
