package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/moyoez/risport-go/api/models"
	"github.com/moyoez/risport-go/monitor"
	"github.com/moyoez/risport-go/notify"
	"github.com/moyoez/risport-go/share"
	"github.com/moyoez/risport-go/tool"
	"github.com/moyoez/risport-go/types"
)

const probeTimeout = 2 * time.Second

// UserStatus returns gateway status (running, notify_ws_enabled, monitor).
// GET /api/self/v1/status
func UserStatus(c *gin.Context) {
	clients := 0
	if hub := models.GetNotifyHub(); hub != nil {
		clients = hub.Len()
	}
	c.JSON(http.StatusOK, gin.H{
		"running":           true,
		"notify_ws_enabled": notify.NotifyWSEnabled(),
		"notify_clients":    clients,
		"monitor":           monitor.GetStatus(),
	})
}

// UserDeviceStatus returns the device status table kept by the monitor.
// GET /api/self/v1/device-status
func UserDeviceStatus(c *gin.Context) {
	c.JSON(http.StatusOK, tool.FastReturnSuccessWithData(share.ListDeviceStatus()))
}

// UserDeviceStatusDelete forgets one device, so its next sighting is announced again.
// DELETE /api/self/v1/device-status/:name
func UserDeviceStatusDelete(c *gin.Context) {
	name := c.Param("name")
	if _, ok := share.GetDeviceStatus(name); !ok {
		c.JSON(http.StatusNotFound, tool.FastReturnError("device not found"))
		return
	}
	share.DeleteDeviceStatus(name)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// UserPollNow asks the running monitor for an immediate poll.
// GET /api/self/v1/poll-now
func UserPollNow(c *gin.Context) {
	if !monitor.IsRunning() {
		c.JSON(http.StatusConflict, tool.FastReturnError("monitor is not running"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"queued": monitor.TriggerPoll()})
}

// UserProbe sends one ICMP echo to the given host, or to the configured cluster host.
// GET /api/self/v1/probe?host=
func UserProbe(c *gin.Context) {
	host := c.Query("host")
	if host == "" {
		host = tool.GetCurrentConfig().Host
	}
	if host == "" {
		c.JSON(http.StatusBadRequest, tool.FastReturnError("no host to probe"))
		return
	}
	result, err := tool.Probe(host, probeTimeout)
	if err != nil {
		c.JSON(http.StatusBadGateway, tool.FastReturnError(err.Error()))
		return
	}
	c.JSON(http.StatusOK, tool.FastReturnSuccessWithData(result))
}

// UserConfigGet returns the cluster config. The password is reported as set or unset only.
// GET /api/self/v1/config
func UserConfigGet(c *gin.Context) {
	cfg := tool.GetCurrentConfig()
	resp := types.ConfigResponse{
		Host:               cfg.Host,
		Port:               cfg.Port,
		Username:           cfg.Username,
		PasswordSet:        cfg.Password != "",
		SOAPAction:         cfg.SOAPAction,
		InsecureSkipVerify: cfg.InsecureSkipVerify,
		TimeoutSeconds:     cfg.TimeoutSeconds,
		RequestsPerMinute:  cfg.RequestsPerMinute,
		MonitorEnabled:     cfg.Monitor.Enabled,
		MonitorInterval:    cfg.Monitor.IntervalSeconds,
	}
	c.JSON(http.StatusOK, resp)
}

// UserConfigPatch accepts a partial config and persists it to config.yaml.
// The next call uses the new values.
// PATCH /api/self/v1/config
func UserConfigPatch(c *gin.Context) {
	var body types.ConfigPatchRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cfg := tool.GetCurrentConfig()

	if body.Host != nil {
		cfg.Host = *body.Host
	}
	if body.Port != nil {
		if *body.Port < 0 || *body.Port > 65535 {
			c.JSON(http.StatusBadRequest, tool.FastReturnError("port out of range"))
			return
		}
		cfg.Port = *body.Port
	}
	if body.Username != nil {
		cfg.Username = *body.Username
	}
	if body.Password != nil {
		cfg.Password = *body.Password
	}
	if body.SOAPAction != nil {
		cfg.SOAPAction = *body.SOAPAction
	}
	if body.InsecureSkipVerify != nil {
		cfg.InsecureSkipVerify = *body.InsecureSkipVerify
		if cfg.InsecureSkipVerify {
			tool.DefaultLogger.Warn("insecureSkipVerify enabled through the gateway: server certificates will not be verified")
		}
	}
	if body.TimeoutSeconds != nil {
		if *body.TimeoutSeconds < 0 {
			c.JSON(http.StatusBadRequest, tool.FastReturnError("timeout_seconds must not be negative"))
			return
		}
		cfg.TimeoutSeconds = *body.TimeoutSeconds
	}
	if body.RequestsPerMinute != nil {
		if *body.RequestsPerMinute < 0 {
			c.JSON(http.StatusBadRequest, tool.FastReturnError("requests_per_minute must not be negative"))
			return
		}
		cfg.RequestsPerMinute = *body.RequestsPerMinute
		models.GetRISClient().SetRequestsPerMinute(cfg.RequestsPerMinute)
	}

	tool.PersistAppConfig(cfg)
	c.JSON(http.StatusOK, gin.H{"success": true})
}
