package tool

import (
	"net"
	"strconv"
)

const (
	DefaultRISPort = 8443

	RISService70Path = "/realtimeservice2/services/RISService70"
	RisPortPath      = "/realtimeservice/services/RisPort"
)

// BuildServiceURL builds https://<host>:<port><path>. IPv6 hosts are bracketed.
func BuildServiceURL(host string, port int, path string) string {
	if port <= 0 {
		port = DefaultRISPort
	}
	return "https://" + net.JoinHostPort(host, strconv.Itoa(port)) + path
}

// BuildSelectCmDeviceURL builds the RISService70 endpoint used for device queries.
func BuildSelectCmDeviceURL(host string, port int) string {
	return BuildServiceURL(host, port, RISService70Path)
}

// BuildServerInfoURL builds the RisPort endpoint used for server info queries.
func BuildServerInfoURL(host string, port int) string {
	return BuildServiceURL(host, port, RisPortPath)
}
