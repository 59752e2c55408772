package notifyhub

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/moyoez/risport-go/types"
)

func TestBroadcastReachesWebsocketClient(t *testing.T) {
	gin.SetMode(gin.TestMode)
	hub := New()
	router := gin.New()
	router.GET("/ws", HandleNotifyWS(hub))
	srv := httptest.NewServer(router)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(5 * time.Second)
	for hub.Len() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("client was never registered")
		}
		time.Sleep(10 * time.Millisecond)
	}

	hub.Broadcast(&types.Notification{Type: types.NotifyTypeDeviceStatusChanged, Message: "SEP1 is UnRegistered on cucm-pub"})

	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var got types.Notification
	if err := sonic.Unmarshal(data, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Type != types.NotifyTypeDeviceStatusChanged || got.Message != "SEP1 is UnRegistered on cucm-pub" {
		t.Fatalf("got %+v", got)
	}

	conn.Close()
	deadline = time.Now().Add(5 * time.Second)
	for hub.Len() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("client was never unregistered")
		}
		time.Sleep(10 * time.Millisecond)
	}
}
