package notifyhub

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/moyoez/photobooth-go/types"
)

func readNotification(t *testing.T, conn *websocket.Conn) types.Notification {
	t.Helper()
	if err := conn.SetReadDeadline(time.Now().Add(2 * time.Second)); err != nil {
		t.Fatal(err)
	}
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("Failed to read message: %v", err)
	}
	var n types.Notification
	if err := sonic.Unmarshal(data, &n); err != nil {
		t.Fatalf("Failed to decode message: %v", err)
	}
	return n
}

func TestHubBroadcastsToPages(t *testing.T) {
	gin.SetMode(gin.TestMode)
	hub := New()
	router := gin.New()
	router.GET("/notify-ws", HandleNotifyWS(hub, func() *types.Notification {
		return &types.Notification{Type: types.NotifyTypeView}
	}))
	srv := httptest.NewServer(router)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/notify-ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Failed to dial: %v", err)
	}
	defer conn.Close()

	if n := readNotification(t, conn); n.Type != types.NotifyTypeView {
		t.Fatalf("Expected initial view, got %s", n.Type)
	}
	if hub.Len() != 1 {
		t.Fatalf("Expected 1 page, got %d", hub.Len())
	}

	hub.Broadcast(&types.Notification{Type: types.NotifyTypeCounter, Data: map[string]any{"value": 4}})
	if n := readNotification(t, conn); n.Type != types.NotifyTypeCounter {
		t.Errorf("Expected counter event, got %s", n.Type)
	}

	conn.Close()
	deadline := time.Now().Add(2 * time.Second)
	for hub.Len() != 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if hub.Len() != 0 {
		t.Error("Expected page to be unregistered after close")
	}
}

func TestBroadcastNil(t *testing.T) {
	New().Broadcast(nil)
}
