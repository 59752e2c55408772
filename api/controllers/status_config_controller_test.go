package controllers

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/moyoez/risport-go/api/models"
	"github.com/moyoez/risport-go/api/notifyhub"
	"github.com/moyoez/risport-go/share"
	"github.com/moyoez/risport-go/tool"
	"github.com/moyoez/risport-go/types"
)

func TestUserConfigGetHidesPassword(t *testing.T) {
	router := setupRouter()
	setupCluster(t, http.StatusOK, devicesResponse)

	w := doJSON(router, http.MethodGet, "/api/self/v1/config", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if strings.Contains(w.Body.String(), "secret") {
		t.Fatalf("password leaked: %s", w.Body.String())
	}
	var resp types.ConfigResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if !resp.PasswordSet || resp.Username != "axl-user" || !resp.InsecureSkipVerify {
		t.Fatalf("unexpected config: %+v", resp)
	}
}

func TestUserConfigPatch(t *testing.T) {
	router := setupRouter()
	setupCluster(t, http.StatusOK, devicesResponse)

	w := doJSON(router, http.MethodPatch, "/api/self/v1/config", []byte(`{"username":"ops","soap_action":"CUCM:DB ver=12.5","requests_per_minute":30}`))
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	cfg := tool.GetCurrentConfig()
	if cfg.Username != "ops" || cfg.SOAPAction != "CUCM:DB ver=12.5" || cfg.RequestsPerMinute != 30 {
		t.Fatalf("config not applied: %+v", cfg)
	}
	if cfg.Password != "secret" {
		t.Fatal("fields absent from the patch must be kept")
	}

	reloaded, err := tool.LoadConfig(tool.ConfigPath)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if reloaded.Username != "ops" {
		t.Fatalf("patch was not persisted: %+v", reloaded)
	}
}

func TestUserConfigPatchRejectsBadValues(t *testing.T) {
	router := setupRouter()
	setupCluster(t, http.StatusOK, devicesResponse)

	for _, body := range []string{`{"port":70000}`, `{"timeout_seconds":-1}`, `{"requests_per_minute":-5}`, `{"port":"x"}`} {
		w := doJSON(router, http.MethodPatch, "/api/self/v1/config", []byte(body))
		if w.Code != http.StatusBadRequest {
			t.Errorf("%s: expected status 400, got %d", body, w.Code)
		}
	}
}

func TestUserStatusAndPollNow(t *testing.T) {
	router := setupRouter()

	w := doJSON(router, http.MethodGet, "/api/self/v1/status", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if resp["running"] != true {
		t.Fatalf("unexpected status: %v", resp)
	}

	w = doJSON(router, http.MethodGet, "/api/self/v1/poll-now", nil)
	if w.Code != http.StatusConflict {
		t.Fatalf("poll-now without a monitor: expected 409, got %d", w.Code)
	}

	w = doJSON(router, http.MethodGet, "/api/self/v1/device-status", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
}

func TestUserDeviceStatusDelete(t *testing.T) {
	router := setupRouter()
	share.SetDeviceStatus(types.DeviceStatusItem{Server: "cucm-pub", Name: "SEPDEL1", Status: "Registered"}, false)

	w := doJSON(router, http.MethodDelete, "/api/self/v1/device-status/SEPDEL1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if _, ok := share.GetDeviceStatus("SEPDEL1"); ok {
		t.Fatal("device should be forgotten")
	}
	w = doJSON(router, http.MethodDelete, "/api/self/v1/device-status/SEPDEL1", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", w.Code)
	}
}

func TestUserStatusReportsNotifyClients(t *testing.T) {
	router := setupRouter()
	models.SetNotifyHub(notifyhub.New())
	defer models.SetNotifyHub(nil)

	w := doJSON(router, http.MethodGet, "/api/self/v1/status", nil)
	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if resp["notify_clients"] != float64(0) {
		t.Fatalf("notify_clients = %v", resp["notify_clients"])
	}
}
