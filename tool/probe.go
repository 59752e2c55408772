package tool

import (
	"fmt"
	"time"

	probing "github.com/prometheus-community/pro-bing"
)

// ProbeResult is the outcome of a single ICMP echo.
type ProbeResult struct {
	Host      string        `json:"host"`
	Address   string        `json:"address"`
	Reachable bool          `json:"reachable"`
	RTT       time.Duration `json:"rtt"`
}

// Probe sends one unprivileged ICMP echo to host. It is a diagnostic only; RIS calls never depend on it.
func Probe(host string, timeout time.Duration) (ProbeResult, error) {
	result := ProbeResult{Host: host}
	pinger, err := probing.NewPinger(host)
	if err != nil {
		return result, fmt.Errorf("failed to resolve %s: %v", host, err)
	}
	pinger.Count = 1
	pinger.Timeout = timeout
	pinger.SetPrivileged(false)
	if err := pinger.Run(); err != nil {
		return result, fmt.Errorf("icmp probe to %s failed: %v", host, err)
	}
	stats := pinger.Statistics()
	result.Address = stats.IPAddr.String()
	result.Reachable = stats.PacketsRecv > 0
	result.RTT = stats.AvgRtt
	return result, nil
}

// QuickICMPProbe reports whether host answered a single echo within timeout.
func QuickICMPProbe(host string, timeout time.Duration) bool {
	result, err := Probe(host, timeout)
	if err != nil {
		DefaultLogger.Debugf("QuickICMPProbe: %v", err)
		return false
	}
	return result.Reachable
}
