package controllers

import (
	"errors"
	"net/http"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"

	"github.com/moyoez/risport-go/api/models"
	"github.com/moyoez/risport-go/ris"
	"github.com/moyoez/risport-go/tool"
	"github.com/moyoez/risport-go/types"
)

// HandleSelectDevices runs a device status query. Empty criteria fields take the defaults.
// POST /api/ris/v1/devices
func HandleSelectDevices(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, tool.FastReturnError("Failed to read request body: "+err.Error()))
		return
	}
	var criteria types.QueryCriteria
	if len(body) > 0 {
		if err := sonic.Unmarshal(body, &criteria); err != nil {
			c.JSON(http.StatusBadRequest, tool.FastReturnError("Invalid request body: "+err.Error()))
			return
		}
	}
	criteria = criteria.WithDefaults()

	cfg := tool.GetCurrentConfig().ClientConfig()
	groups, err := models.GetRISClient().SelectCmDeviceExt(c.Request.Context(), cfg, criteria)
	if err != nil {
		writeRISError(c, err)
		return
	}
	c.JSON(http.StatusOK, tool.FastReturnSuccessWithData(groups))
}

// HandleServerInfo runs a server info query.
// POST /api/ris/v1/servers
func HandleServerInfo(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, tool.FastReturnError("Failed to read request body: "+err.Error()))
		return
	}
	var query types.ServerQuery
	if err := sonic.Unmarshal(body, &query); err != nil {
		c.JSON(http.StatusBadRequest, tool.FastReturnError("Invalid request body: "+err.Error()))
		return
	}

	cfg := tool.GetCurrentConfig().ClientConfig()
	records, err := models.GetRISClient().GetServerInfo(c.Request.Context(), cfg, query)
	if err != nil {
		writeRISError(c, err)
		return
	}
	c.JSON(http.StatusOK, tool.FastReturnSuccessWithData(records))
}

// statusForKind maps a failed call to the gateway's answer.
func statusForKind(kind ris.ErrorKind) int {
	switch kind {
	case ris.KindTransport:
		return http.StatusGatewayTimeout
	case ris.KindHTTPStatus, ris.KindTLSVerification, ris.KindParse:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeRISError(c *gin.Context, err error) {
	if errors.Is(err, types.ErrNoSelectItems) || errors.Is(err, types.ErrNoHosts) || errors.Is(err, ris.ErrNoHost) {
		c.JSON(http.StatusBadRequest, tool.FastReturnError(err.Error()))
		return
	}
	kind := ris.KindOf(err)
	extra := map[string]any{"kind": kind.String()}
	var risErr *ris.Error
	if errors.As(err, &risErr) && risErr.Kind == ris.KindHTTPStatus {
		extra["upstream_status"] = risErr.StatusCode
		if risErr.Fault != "" {
			extra["fault"] = risErr.Fault
		}
	}
	tool.DefaultLogger.Warnf("[Gateway] %s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)
	c.JSON(statusForKind(kind), tool.FastReturnErrorWithData(err.Error(), extra))
}
