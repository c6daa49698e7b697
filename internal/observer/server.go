// Package observer streams per-tick snapshots to external rendering
// collaborators over websockets. The simulation stays single-threaded;
// the runner's tick hook publishes already-marshaled frames, and slow
// consumers are dropped rather than allowed to stall the loop.
package observer

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

// Frame types exchanged with observers.
const (
	MsgSubscribe = "SUBSCRIBE"
	MsgTick      = "TICK"
)

// ProtocolVersion is bumped when the frame layout changes.
const ProtocolVersion = 1

// SubscribeMsg is the required first message from an observer.
type SubscribeMsg struct {
	Type            string `json:"type"`
	ProtocolVersion int    `json:"protocol_version"`
}

// TickMsg is one streamed tick.
type TickMsg struct {
	Type            string          `json:"type"`
	ProtocolVersion int             `json:"protocol_version"`
	Model           string          `json:"model"`
	Tick            int             `json:"tick"`
	Metric          float64         `json:"metric"`
	Snapshot        json.RawMessage `json:"snapshot"`
}

type subscriber struct {
	id   string
	out  chan []byte
	done chan struct{}
	once sync.Once
}

func (o *subscriber) stop() {
	o.once.Do(func() { close(o.done) })
}

// Server fans tick frames out to subscribed observers.
type Server struct {
	model    string
	upgrader websocket.Upgrader
	nextID   atomic.Uint64

	mu   sync.Mutex
	subs map[*subscriber]struct{}
}

// NewServer creates an observer server for the named model.
func NewServer(model string) *Server {
	return &Server{
		model: model,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  16 * 1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true }, // local tool, not a public endpoint
		},
		subs: make(map[*subscriber]struct{}),
	}
}

// Handler upgrades an observer connection. The observer must send a
// SUBSCRIBE frame with a matching protocol version before it receives
// anything.
func (s *Server) Handler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		conn, err := s.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var sub SubscribeMsg
		if err := json.Unmarshal(msg, &sub); err != nil || sub.Type != MsgSubscribe || sub.ProtocolVersion != ProtocolVersion {
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "expected SUBSCRIBE"),
				time.Now().Add(time.Second))
			return
		}
		_ = conn.SetReadDeadline(time.Time{})

		o := &subscriber{
			id:   fmt.Sprintf("O%d", s.nextID.Add(1)),
			out:  make(chan []byte, 64),
			done: make(chan struct{}),
		}
		s.add(o)
		defer s.remove(o)
		slog.Info("observer subscribed", "id", o.id, "model", s.model)

		// Drain reads so close frames from the observer are noticed.
		go func() {
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					o.stop()
					return
				}
			}
		}()

		for {
			select {
			case frame := <-o.out:
				if err := conn.WriteMessage(websocket.TextMessage, frame); err != nil {
					return
				}
			case <-o.done:
				return
			}
		}
	}
}

// Publish sends one tick to every subscriber. The snapshot is
// marshaled once; observers that cannot keep up are disconnected.
func (s *Server) Publish(tick int, metric float64, snap any) {
	raw, err := json.Marshal(snap)
	if err != nil {
		slog.Error("snapshot marshal failed", "tick", tick, "error", err)
		return
	}
	frame, err := json.Marshal(TickMsg{
		Type:            MsgTick,
		ProtocolVersion: ProtocolVersion,
		Model:           s.model,
		Tick:            tick,
		Metric:          metric,
		Snapshot:        raw,
	})
	if err != nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for o := range s.subs {
		select {
		case o.out <- frame:
		default:
			slog.Warn("observer too slow, dropping", "id", o.id)
			o.stop()
			delete(s.subs, o)
		}
	}
}

// Subscribers returns the current observer count.
func (s *Server) Subscribers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}

func (s *Server) add(o *subscriber) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs[o] = struct{}{}
}

func (s *Server) remove(o *subscriber) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, o)
}
