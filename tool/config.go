package tool

import (
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/moyoez/risport-go/types"
)

var (
	ConfigPath = "config.yaml" // be aware that it can be changed, default to ./config.yaml

	configMu      sync.RWMutex
	currentConfig types.AppConfig
)

func init() {
	currentConfig = defaultConfig()
}

func defaultConfig() types.AppConfig {
	return types.AppConfig{
		Host:               "",
		Port:               DefaultRISPort,
		SOAPAction:         "CUCM:DB ver=9.1",
		InsecureSkipVerify: false,
		TimeoutSeconds:     int(DefaultTimeout.Seconds()),
		RequestsPerMinute:  15, // RIS rejects callers above its per-minute budget
		Gateway: types.GatewayConfig{
			Enabled: false,
			Port:    8090,
		},
		Monitor: types.MonitorConfig{
			Enabled:         false,
			IntervalSeconds: 60,
			Criteria:        types.DefaultQueryCriteria("*"),
		},
	}
}

// LoadConfig reads the yaml config at path, writing a default one if it does not exist yet.
func LoadConfig(path string) (types.AppConfig, error) {
	if path == "" {
		path = ConfigPath
	}
	ConfigPath = path

	cfg := defaultConfig()

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			if writeErr := writeConfig(path, cfg); writeErr != nil {
				return cfg, fmt.Errorf("config file not found, and failed to generate default config: %v", writeErr)
			}
			DefaultLogger.Infof("Created new config file at %s, set host and credentials before querying", path)
			SetCurrentConfig(cfg)
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config file: %v", err)
	}
	if info.IsDir() {
		return cfg, fmt.Errorf("config file path is a directory: %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %v", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file: %v", err)
	}
	cfg.Monitor.Criteria = cfg.Monitor.Criteria.WithDefaults()
	if cfg.InsecureSkipVerify {
		DefaultLogger.Warn("insecureSkipVerify is enabled: server certificates will not be verified")
	}

	SetCurrentConfig(cfg)
	return cfg, nil
}

func writeConfig(path string, cfg types.AppConfig) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// GetCurrentConfig returns a copy of the in-memory config.
func GetCurrentConfig() types.AppConfig {
	configMu.RLock()
	defer configMu.RUnlock()
	return currentConfig
}

func SetCurrentConfig(cfg types.AppConfig) {
	configMu.Lock()
	currentConfig = cfg
	configMu.Unlock()
}

// PersistAppConfig updates the in-memory config and writes it to the config file.
func PersistAppConfig(cfg types.AppConfig) {
	SetCurrentConfig(cfg)
	if err := writeConfig(ConfigPath, cfg); err != nil {
		DefaultLogger.Warnf("Failed to persist config: %v", err)
	}
}
