package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/moyoez/photobooth-go/api/notifyhub"
	"github.com/moyoez/photobooth-go/booth"
	"github.com/moyoez/photobooth-go/display"
	"github.com/moyoez/photobooth-go/types"
)

type idleBooth struct{}

func (idleBooth) Advance(context.Context) (types.SessionState, error) {
	return types.StateCapturing, nil
}
func (idleBooth) Capture(context.Context) (string, error) { return "", booth.ErrNotCapturing }
func (idleBooth) SelectImage(context.Context, string) error { return booth.ErrNotCapturing }
func (idleBooth) ShowOverview(context.Context) error { return booth.ErrNotCapturing }
func (idleBooth) Status(context.Context) (booth.Status, error) {
	return booth.Status{State: "idle", Images: []string{}}, nil
}

func newTestServer(t *testing.T, serveArchives bool) (*Server, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	zipRoot := t.TempDir()
	viewport := types.Viewport{Width: 100, Height: 100}
	s := NewServer("127.0.0.1:0", Deps{
		Booth:         idleBooth{},
		Kiosk:         display.NewKiosk(viewport, false),
		Images:        display.NewThumbnailer(t.TempDir(), ""),
		Hub:           notifyhub.New(),
		Viewport:      viewport,
		ServeArchives: serveArchives,
		ZipRoot:       zipRoot,
		ArchiveFile:   "Bilder.zip",
	})
	return s, zipRoot
}

func request(h http.Handler, method, target, remote string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, nil)
	req.RemoteAddr = remote
	h.ServeHTTP(w, req)
	return w
}

func TestKioskRoutesOnlyAllowLocal(t *testing.T) {
	s, _ := newTestServer(t, false)
	h := s.Handler()

	for _, target := range []string{"/", "/api/self/v1/status", "/metrics"} {
		if w := request(h, http.MethodGet, target, "192.168.1.20:5000"); w.Code != http.StatusForbidden {
			t.Errorf("%s from LAN: expected 403, got %d", target, w.Code)
		}
		if w := request(h, http.MethodGet, target, "127.0.0.1:5000"); w.Code != http.StatusOK {
			t.Errorf("%s from loopback: expected 200, got %d", target, w.Code)
		}
	}

	w := request(h, http.MethodGet, "/", "127.0.0.1:5000")
	if !strings.Contains(w.Body.String(), "notify-ws") {
		t.Error("Expected the kiosk page")
	}
	if w := request(h, http.MethodPost, "/api/self/v1/advance", "[::1]:5000"); w.Code != http.StatusOK {
		t.Errorf("Expected advance from ::1 to succeed, got %d", w.Code)
	}
}

func TestArchiveRouteIsOptIn(t *testing.T) {
	s, _ := newTestServer(t, false)
	if w := request(s.Handler(), http.MethodGet, "/archives/sess1/Bilder.zip", "192.168.1.20:5000"); w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 when archives are not served, got %d", w.Code)
	}

	s, zipRoot := newTestServer(t, true)
	if err := os.MkdirAll(filepath.Join(zipRoot, "sess1"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(zipRoot, "sess1", "Bilder.zip"), []byte("PK"), 0o644); err != nil {
		t.Fatal(err)
	}
	w := request(s.Handler(), http.MethodGet, "/archives/sess1/Bilder.zip", "192.168.1.20:5000")
	if w.Code != http.StatusOK || w.Body.String() != "PK" {
		t.Errorf("Expected archive for guests, got %d", w.Code)
	}
}
