package observer

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"layergen.ai/internal/observerproto"
	"layergen.ai/internal/sim/world/terrain/inspect"
)

// Server streams captured stage frames to websocket observers. It is an
// inspect.Sink: frames written to it are buffered for replay and pushed to
// every live subscriber whose filter matches.
type Server struct {
	log *log.Logger

	upgrader websocket.Upgrader
	nextID   atomic.Uint64

	mu        sync.Mutex
	boot      observerproto.BootstrapResponse
	maxBuffer int
	buffered  []bufferedMsg
	subs      map[string]*subscriber
}

type bufferedMsg struct {
	pipeline string
	b        []byte
}

type subscriber struct {
	out       chan []byte
	pipelines map[string]bool
	max       int
	sent      int
}

func (s *subscriber) wants(pipeline string) bool {
	return len(s.pipelines) == 0 || s.pipelines[pipeline]
}

// offer queues b unless the subscriber is over its frame budget or slow.
func (s *subscriber) offer(b []byte) {
	if s.sent >= s.max {
		return
	}
	select {
	case s.out <- b:
		s.sent++
	default:
	}
}

func NewServer(boot observerproto.BootstrapResponse, maxBuffer int, logger *log.Logger) *Server {
	if maxBuffer <= 0 {
		maxBuffer = 1024
	}
	boot.ProtocolVersion = observerproto.Version
	return &Server{
		log:       logger,
		boot:      boot,
		maxBuffer: maxBuffer,
		subs:      map[string]*subscriber{},
		upgrader: websocket.Upgrader{
			ReadBufferSize:  64 * 1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true }, // loopback only, see isLoopbackRemote
		},
	}
}

func (s *Server) WriteFrame(f inspect.Frame) error {
	b, err := json.Marshal(f.Message())
	if err != nil {
		return err
	}
	s.publish(f.Pipeline, b)
	return nil
}

// Done announces that a pipeline finished assembling.
func (s *Server) Done(runID, pipeline string, stages int) {
	b, _ := json.Marshal(observerproto.DoneMsg{
		Type:            "DONE",
		ProtocolVersion: observerproto.Version,
		RunID:           runID,
		Pipeline:        pipeline,
		Stages:          stages,
	})
	s.publish(pipeline, b)
}

func (s *Server) publish(pipeline string, b []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.buffered = append(s.buffered, bufferedMsg{pipeline: pipeline, b: b})
	if over := len(s.buffered) - s.maxBuffer; over > 0 {
		s.buffered = append(s.buffered[:0:0], s.buffered[over:]...)
	}
	for _, sub := range s.subs {
		if sub.wants(pipeline) {
			sub.offer(b)
		}
	}
}

func (s *Server) BootstrapHandler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			rw.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		if !isLoopbackRemote(r.RemoteAddr) {
			http.Error(rw, "forbidden", http.StatusForbidden)
			return
		}
		s.mu.Lock()
		resp := s.boot
		s.mu.Unlock()

		rw.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(rw).Encode(resp)
	}
}

func (s *Server) WSHandler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		if !isLoopbackRemote(r.RemoteAddr) {
			http.Error(rw, "forbidden", http.StatusForbidden)
			return
		}

		conn, err := s.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		// Handshake: must send SUBSCRIBE first.
		_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return
		}
		sub, ok := parseSubscribe(msg)
		if !ok {
			_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "expected SUBSCRIBE"), time.Now().Add(time.Second))
			return
		}

		sid := fmt.Sprintf("O%d", s.nextID.Add(1))
		out := make(chan []byte, 4096)
		s.subscribe(sid, out, sub)
		defer s.unsubscribe(sid)
		if s.log != nil {
			s.log.Printf("observer %s subscribed pipelines=%v replay=%v", sid, sub.Pipelines, sub.Replay)
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		// Writer goroutine.
		writeErr := make(chan error, 1)
		go func() {
			for {
				select {
				case <-ctx.Done():
					writeErr <- ctx.Err()
					return
				case b := <-out:
					_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
					if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
						writeErr <- err
						return
					}
				}
			}
		}()

		// Reader loop: allow SUBSCRIBE updates of the filter.
		for {
			_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
			_, msg, err := conn.ReadMessage()
			if err != nil {
				break
			}
			if sub, ok := parseSubscribe(msg); ok {
				s.resubscribe(sid, sub)
			}
		}

		cancel()
		_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye"), time.Now().Add(time.Second))

		// Best-effort wait for the writer to stop so it doesn't outlive conn.
		select {
		case <-writeErr:
		case <-time.After(500 * time.Millisecond):
		}
	}
}

// subscribe registers the session and queues the replay under one lock, so
// a frame published concurrently is delivered exactly once.
func (s *Server) subscribe(sid string, out chan []byte, msg observerproto.SubscribeMsg) {
	sub := &subscriber{out: out}
	applySubscribe(sub, msg)

	s.mu.Lock()
	defer s.mu.Unlock()
	if msg.Replay {
		for _, m := range s.buffered {
			if sub.wants(m.pipeline) {
				sub.offer(m.b)
			}
		}
	}
	s.subs[sid] = sub
}

func (s *Server) resubscribe(sid string, msg observerproto.SubscribeMsg) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sub := s.subs[sid]; sub != nil {
		applySubscribe(sub, msg)
	}
}

func (s *Server) unsubscribe(sid string) {
	s.mu.Lock()
	delete(s.subs, sid)
	s.mu.Unlock()
}

// Subscribers is the number of live sessions.
func (s *Server) Subscribers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}

func parseSubscribe(b []byte) (observerproto.SubscribeMsg, bool) {
	var sub observerproto.SubscribeMsg
	if err := json.Unmarshal(b, &sub); err != nil {
		return sub, false
	}
	if sub.Type != "SUBSCRIBE" || sub.ProtocolVersion != observerproto.Version {
		return sub, false
	}
	normalizeSubscribe(&sub)
	return sub, true
}

func applySubscribe(sub *subscriber, msg observerproto.SubscribeMsg) {
	sub.pipelines = make(map[string]bool, len(msg.Pipelines))
	for _, p := range msg.Pipelines {
		sub.pipelines[p] = true
	}
	sub.max = msg.MaxFrames
	sub.sent = 0
}

func normalizeSubscribe(sub *observerproto.SubscribeMsg) {
	if sub.MaxFrames <= 0 {
		sub.MaxFrames = 1024
	}
	if sub.MaxFrames > 16384 {
		sub.MaxFrames = 16384
	}
}

func isLoopbackRemote(remoteAddr string) bool {
	host := remoteAddr
	if h, _, err := net.SplitHostPort(remoteAddr); err == nil {
		host = h
	}
	host = strings.TrimPrefix(host, "[")
	host = strings.TrimSuffix(host, "]")
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}
