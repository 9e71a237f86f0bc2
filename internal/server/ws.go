package server

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/ayusman/robohand/internal/app"
	"github.com/ayusman/robohand/internal/detector"
	"github.com/ayusman/robohand/internal/logging"
	"github.com/ayusman/robohand/internal/metrics"
	"github.com/ayusman/robohand/internal/session"
)

// SourceWebSocket tags sessions fed over /ws/session.
const SourceWebSocket = metrics.SourceWebSocket

// maxFrameBytes bounds one landmark frame message.
const maxFrameBytes = 64 << 10

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

type frameError struct {
	Error string `json:"error"`
}

// IngestHandler runs landmark frames posted over a WebSocket through a
// session owned by that connection and writes back one Output per frame.
type IngestHandler struct {
	config     session.Config
	dispatcher *app.Dispatcher
	metrics    *metrics.Metrics
	log        zerolog.Logger
	frameLog   zerolog.Logger
	now        func() time.Time

	mu     sync.Mutex
	conns  map[*websocket.Conn]struct{}
	closed bool
	wg     sync.WaitGroup
}

// NewIngestHandler creates an IngestHandler. dispatcher and m may be nil.
func NewIngestHandler(cfg session.Config, dispatcher *app.Dispatcher, m *metrics.Metrics, log zerolog.Logger) *IngestHandler {
	return &IngestHandler{
		config:     cfg,
		dispatcher: dispatcher,
		metrics:    m,
		log:        log,
		frameLog:   logging.Sampled(log),
		now:        time.Now,
		conns:      make(map[*websocket.Conn]struct{}),
	}
}

// track registers a live connection. It reports false once Close has run.
func (h *IngestHandler) track(conn *websocket.Conn) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.conns[conn] = struct{}{}
	h.wg.Add(1)
	return true
}

func (h *IngestHandler) untrack(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.conns, conn)
	h.mu.Unlock()
	h.wg.Done()
}

// Close disconnects every ingest connection and waits, up to ctx, for their
// sessions to be ended.
func (h *IngestHandler) Close(ctx context.Context) error {
	h.mu.Lock()
	h.closed = true
	for conn := range h.conns {
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(time.Second))
		conn.Close()
	}
	h.mu.Unlock()

	done := make(chan struct{})
	go func() {
		h.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *IngestHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	sess, err := session.New(h.config, session.WithLogger(h.log))
	if err != nil {
		h.log.Error().Err(err).Msg("failed to create session")
		http.Error(w, "session unavailable", http.StatusInternalServerError)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("websocket upgrade error")
		return
	}
	defer conn.Close()
	if !h.track(conn) {
		return
	}
	defer h.untrack(conn)
	conn.SetReadLimit(maxFrameBytes)

	log := h.log.With().Str("session", sess.ID()).Logger()
	log.Info().Str("remote", r.RemoteAddr).Msg("session connected")

	if h.dispatcher != nil {
		h.dispatcher.Open(sess.ID(), SourceWebSocket, sess.StartedAt())
		defer func() { h.dispatcher.End(sess.ID(), h.now()) }()
	}

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Warn().Err(err).Msg("session read error")
			}
			break
		}

		start := time.Now()
		hand, err := detector.DecodeFrame(data)
		if err != nil {
			h.frameLog.Debug().Err(err).Str("session", sess.ID()).Msg("rejected frame")
			if err := conn.WriteJSON(frameError{Error: err.Error()}); err != nil {
				break
			}
			continue
		}

		out := sess.Process(hand, h.now())
		h.metrics.FrameProcessed(metrics.SourceWebSocket, time.Since(start))
		if h.dispatcher != nil {
			h.dispatcher.Dispatch(out)
		}

		if err := conn.WriteJSON(out); err != nil {
			break
		}
	}

	log.Info().Msg("session disconnected")
}
