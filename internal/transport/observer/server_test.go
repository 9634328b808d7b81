package observer

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"layergen.ai/internal/observerproto"
	"layergen.ai/internal/sim/world/terrain/inspect"
)

func frame(pipeline string, seq int) inspect.Frame {
	return inspect.Frame{RunID: "r", Pipeline: pipeline, Label: pipeline, Index: seq, Seq: seq, W: 1, H: 1, Values: []int{seq}}
}

func readFrame(t *testing.T, c *websocket.Conn) observerproto.FrameMsg {
	t.Helper()
	_ = c.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, b, err := c.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var m observerproto.FrameMsg
	if err := json.Unmarshal(b, &m); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return m
}

func TestWSReplaysFilteredFramesThenStreams(t *testing.T) {
	s := NewServer(observerproto.BootstrapResponse{RunID: "r"}, 16, nil)
	_ = s.WriteFrame(frame("rock", 1))
	_ = s.WriteFrame(frame("biome", 1))
	_ = s.WriteFrame(frame("rock", 2))

	ts := httptest.NewServer(s.WSHandler())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http")
	c, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer c.Close()

	sub := observerproto.SubscribeMsg{Type: "SUBSCRIBE", ProtocolVersion: observerproto.Version, Pipelines: []string{"rock"}, Replay: true}
	if err := c.WriteJSON(sub); err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	for want := 1; want <= 2; want++ {
		m := readFrame(t, c)
		if m.Type != "FRAME" || m.Pipeline != "rock" || m.Seq != want {
			t.Fatalf("replay %d: unexpected %+v", want, m)
		}
	}

	// The replay arrived, so the session is registered: live frames follow.
	_ = s.WriteFrame(frame("biome", 2))
	_ = s.WriteFrame(frame("rock", 3))
	if m := readFrame(t, c); m.Pipeline != "rock" || m.Seq != 3 {
		t.Fatalf("live frame: unexpected %+v", m)
	}
}

func TestWSRejectsBadHandshake(t *testing.T) {
	s := NewServer(observerproto.BootstrapResponse{}, 4, nil)
	ts := httptest.NewServer(s.WSHandler())
	defer ts.Close()

	c, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http"), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer c.Close()
	if err := c.WriteJSON(map[string]string{"type": "HELLO"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	_ = c.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, _, err = c.ReadMessage()
	if !websocket.IsCloseError(err, websocket.ClosePolicyViolation) {
		t.Fatalf("expected policy violation close, got %v", err)
	}
}

func TestBootstrapLoopbackOnly(t *testing.T) {
	s := NewServer(observerproto.BootstrapResponse{RunID: "run-7", BiomePalette: []string{"OCEAN"}}, 4, nil)
	h := s.BootstrapHandler()

	req := httptest.NewRequest(http.MethodGet, "/v1/observer/bootstrap", nil)
	req.RemoteAddr = "127.0.0.1:5555"
	rw := httptest.NewRecorder()
	h(rw, req)
	if rw.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rw.Code)
	}
	var resp observerproto.BootstrapResponse
	if err := json.Unmarshal(rw.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.RunID != "run-7" || resp.ProtocolVersion != observerproto.Version || resp.BiomePalette[0] != "OCEAN" {
		t.Fatalf("unexpected bootstrap %+v", resp)
	}

	req = httptest.NewRequest(http.MethodGet, "/v1/observer/bootstrap", nil)
	req.RemoteAddr = "10.1.2.3:5555"
	rw = httptest.NewRecorder()
	h(rw, req)
	if rw.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rw.Code)
	}
}

func TestBufferKeepsNewest(t *testing.T) {
	s := NewServer(observerproto.BootstrapResponse{}, 2, nil)
	for i := 1; i <= 5; i++ {
		_ = s.WriteFrame(frame("rock", i))
	}
	if len(s.buffered) != 2 {
		t.Fatalf("expected 2 buffered, got %d", len(s.buffered))
	}
	var m observerproto.FrameMsg
	_ = json.Unmarshal(s.buffered[0].b, &m)
	if m.Seq != 4 {
		t.Fatalf("expected oldest kept seq 4, got %d", m.Seq)
	}
}

func TestIsLoopbackRemote(t *testing.T) {
	for addr, want := range map[string]bool{
		"127.0.0.1:80": true,
		"[::1]:80":     true,
		"192.0.2.1:80": false,
		"garbage":      false,
	} {
		if got := isLoopbackRemote(addr); got != want {
			t.Fatalf("%s: got %v want %v", addr, got, want)
		}
	}
}
