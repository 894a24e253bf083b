package tunnel

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func serve(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tunnels" {
			http.NotFound(w, r)
			return
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestDiscover(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"single", `{"tunnels":[{"name":"a","public_url":"https://abc.ngrok.io","proto":"https"}]}`, "https://abc.ngrok.io"},
		{"prefers https", `{"tunnels":[{"public_url":"http://abc.ngrok.io","proto":"http"},{"public_url":"https://abc.ngrok.io","proto":"https"}]}`, "https://abc.ngrok.io"},
		{"first otherwise", `{"tunnels":[{"public_url":"tcp://1.tcp.ngrok.io:1234","proto":"tcp"},{"public_url":"http://abc.ngrok.io","proto":"http"}]}`, "tcp://1.tcp.ngrok.io:1234"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := serve(t, http.StatusOK, tt.body)
			got, err := Discover(context.Background(), srv.Client(), srv.URL+"/api/tunnels")
			if err != nil {
				t.Fatalf("Discover failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestDiscoverNoTunnel(t *testing.T) {
	srv := serve(t, http.StatusOK, `{"tunnels":[]}`)
	if _, err := Discover(context.Background(), srv.Client(), srv.URL+"/api/tunnels"); !errors.Is(err, ErrNoTunnel) {
		t.Errorf("Expected ErrNoTunnel, got %v", err)
	}
}

func TestDiscoverErrors(t *testing.T) {
	srv := serve(t, http.StatusBadGateway, "")
	if _, err := Discover(context.Background(), srv.Client(), srv.URL+"/api/tunnels"); err == nil {
		t.Error("Expected error for bad status")
	}

	srv = serve(t, http.StatusOK, "not json")
	if _, err := Discover(context.Background(), srv.Client(), srv.URL+"/api/tunnels"); err == nil {
		t.Error("Expected error for invalid body")
	}
}
