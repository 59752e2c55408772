package tool

import (
	"flag"
	"os"
	"strings"

	"github.com/moyoez/risport-go/types"
)

// SetFlags parses CLI flags and returns the override config.
func SetFlags() types.Config {
	cfg, err := ParseFlags(flag.CommandLine, os.Args[1:])
	if err != nil {
		os.Exit(2)
	}
	return cfg
}

// ParseFlags registers the flags on fs and parses args.
func ParseFlags(fs *flag.FlagSet, args []string) (types.Config, error) {
	var cfg types.Config
	fs.StringVar(&cfg.Log, "log", "", "log mode: dev|prod|none")
	fs.StringVar(&cfg.UseConfigPath, "useConfigPath", "", "override config file path")
	fs.StringVar(&cfg.UseHost, "useHost", "", "override cluster host")
	fs.IntVar(&cfg.UsePort, "usePort", 0, "override cluster port")
	fs.StringVar(&cfg.UseUsername, "useUsername", "", "override username")
	fs.StringVar(&cfg.UsePassword, "usePassword", "", "override password")
	fs.StringVar(&cfg.UseSOAPAction, "useSOAPAction", "", "override SOAPAction header")
	fs.BoolVar(&cfg.UseInsecure, "useInsecure", false, "skip TLS certificate verification (not recommended)")
	fs.StringVar(&cfg.UseCACertFile, "useCACertFile", "", "PEM file with the CA certificates to trust")
	fs.StringVar(&cfg.Query, "query", "", "run one query and print JSON: devices|servers")
	fs.StringVar(&cfg.Items, "items", "", "comma-separated select items for -query devices")
	fs.StringVar(&cfg.SelectBy, "selectBy", "", "select by: Name|IPV4Address|IPV6Address|DirNumber|Description|SIPStatus")
	fs.StringVar(&cfg.DeviceClass, "deviceClass", "", "device class, e.g. Phone, Gateway, Any")
	fs.StringVar(&cfg.NodeName, "nodeName", "", "limit the device query to one node")
	fs.StringVar(&cfg.Hosts, "hosts", "", "comma-separated servers for -query servers")
	fs.BoolVar(&cfg.Probe, "probe", false, "send one ICMP echo to the configured host and exit")
	fs.BoolVar(&cfg.UseGateway, "useGateway", false, "serve the local JSON gateway")
	fs.IntVar(&cfg.UseGatewayPort, "useGatewayPort", 0, "override gateway port")
	fs.BoolVar(&cfg.UseMonitor, "useMonitor", false, "poll device status and notify on changes")
	fs.IntVar(&cfg.UseMonitorInterval, "useMonitorInterval", 0, "override monitor interval in seconds")
	err := fs.Parse(args)
	return cfg, err
}

// ApplyFlags merges flag overrides onto the file config.
func ApplyFlags(appCfg *types.AppConfig, flags types.Config) {
	if flags.UseHost != "" {
		appCfg.Host = flags.UseHost
	}
	if flags.UsePort > 0 {
		appCfg.Port = flags.UsePort
	}
	if flags.UseUsername != "" {
		appCfg.Username = flags.UseUsername
	}
	if flags.UsePassword != "" {
		appCfg.Password = flags.UsePassword
	}
	if flags.UseSOAPAction != "" {
		appCfg.SOAPAction = flags.UseSOAPAction
	}
	if flags.UseInsecure {
		appCfg.InsecureSkipVerify = true
	}
	if flags.UseCACertFile != "" {
		appCfg.CACertFile = flags.UseCACertFile
	}
	if flags.UseGateway {
		appCfg.Gateway.Enabled = true
	}
	if flags.UseGatewayPort > 0 {
		appCfg.Gateway.Port = flags.UseGatewayPort
	}
	if flags.UseMonitor {
		appCfg.Monitor.Enabled = true
	}
	if flags.UseMonitorInterval > 0 {
		appCfg.Monitor.IntervalSeconds = flags.UseMonitorInterval
	}
}

// SplitList splits a comma-separated flag value, dropping empty entries.
func SplitList(value string) []string {
	out := make([]string, 0)
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
