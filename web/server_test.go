package web

import (
	"fmt"
	"net"
	"net/http"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/Outurnate/stormwatch/camera"
	"github.com/Outurnate/stormwatch/frame"
	"github.com/Outurnate/stormwatch/library"
)

func freePort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("find free port: %v", err)
	}
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port
}

func waitForServer(t *testing.T, url string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		resp, err := http.Get(url)
		if err == nil {
			resp.Body.Close()
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("server at %s never came up", url)
}

func TestServerRoutesRespond(t *testing.T) {
	dir := t.TempDir()
	lib, err := library.New(dir, 1, zap.NewNop())
	if err != nil {
		t.Fatalf("library.New: %v", err)
	}
	cam := camera.New(0, camera.NewSettings(), func([]frame.Frame, int, int, float64, int) {}, zap.NewNop())

	port := freePort(t)
	server := NewServer("127.0.0.1", port, cam, lib, zap.NewNop())
	if err := server.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer server.Stop()

	base := fmt.Sprintf("http://127.0.0.1:%d", port)
	waitForServer(t, base+"/")

	cases := []struct {
		path string
		want int
	}{
		{"/", http.StatusOK},
		{"/live.jpeg", http.StatusOK},
		{"/stats", http.StatusOK},
		{"/clips", http.StatusOK},
		{"/settings", http.StatusOK},
		{"/does-not-exist", http.StatusNotFound},
	}
	for _, c := range cases {
		resp, err := http.Get(base + c.path)
		if err != nil {
			t.Fatalf("GET %s: %v", c.path, err)
		}
		resp.Body.Close()
		if resp.StatusCode != c.want {
			t.Errorf("GET %s = %d, want %d", c.path, resp.StatusCode, c.want)
		}
	}
}

func TestServerStopIsIdempotentBeforeStart(t *testing.T) {
	dir := t.TempDir()
	lib, _ := library.New(dir, 1, zap.NewNop())
	cam := camera.New(0, camera.NewSettings(), func([]frame.Frame, int, int, float64, int) {}, zap.NewNop())
	server := NewServer("127.0.0.1", 0, cam, lib, zap.NewNop())
	if err := server.Stop(); err != nil {
		t.Errorf("Stop before Start returned error: %v", err)
	}
}
