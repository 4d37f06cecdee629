package api

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/annel0/blockslide/internal/app"
	"github.com/annel0/blockslide/internal/eventbus"
	"github.com/annel0/blockslide/internal/logging"
)

const (
	streamWriteWait  = 10 * time.Second
	streamPongWait   = 60 * time.Second
	streamPingPeriod = 30 * time.Second
	streamBuffer     = 64
)

// Типы сообщений потока
const (
	StreamSnapshot = "snapshot"
	StreamEvent    = "event"
)

// StreamMessage сообщение WebSocket-потока уровня
type StreamMessage struct {
	Type      string          `json:"type"`
	EventType string          `json:"event_type,omitempty"`
	EventID   string          `json:"event_id,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
	Level     *app.LevelView  `json:"level,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

// streamHandler раздаёт события уровня подписчикам по WebSocket
type streamHandler struct {
	levels   *app.LevelService
	log      *logging.Logger
	upgrader websocket.Upgrader

	mu    sync.Mutex
	conns map[*websocket.Conn]struct{}
}

func newStreamHandler(levels *app.LevelService, log *logging.Logger) *streamHandler {
	return &streamHandler{
		levels: levels,
		log:    log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				return true // CORS открыт так же, как у REST
			},
		},
		conns: make(map[*websocket.Conn]struct{}),
	}
}

// handle отправляет снимок уровня, затем его события до закрытия соединения
func (h *streamHandler) handle(c *gin.Context) {
	id := c.Param("id")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Подписка раньше снимка, чтобы не потерять ход между ними
	out := make(chan StreamMessage, streamBuffer)
	sub, err := h.levels.Subscribe(ctx, id, func(_ context.Context, ev *eventbus.Envelope) {
		msg := StreamMessage{
			Type:      StreamEvent,
			EventType: ev.EventType,
			EventID:   ev.ID,
			Timestamp: ev.Timestamp,
			Payload:   json.RawMessage(ev.Payload),
		}
		select {
		case out <- msg:
		case <-ctx.Done():
		default:
			h.log.Warn("⚠️ Поток уровня %s не успевает, событие %s пропущено", id, ev.ID)
		}
	})
	if err != nil {
		c.JSON(statusFor(err), GenericResponse{Success: false, Message: err.Error()})
		return
	}
	defer sub.Unsubscribe()

	view, err := h.levels.Get(c.Request.Context(), id)
	if err != nil {
		c.JSON(statusFor(err), GenericResponse{Success: false, Message: err.Error()})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("⚠️ WebSocket upgrade для уровня %s: %v", id, err)
		return
	}
	h.track(conn)
	defer h.untrack(conn)

	snapshot := StreamMessage{Type: StreamSnapshot, Timestamp: time.Now().UTC(), Level: view}
	_ = conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
	if err := conn.WriteJSON(snapshot); err != nil {
		return
	}

	h.log.Debug("Поток уровня %s открыт (%s)", id, c.ClientIP())
	go h.readPump(conn, cancel)
	h.writePump(ctx, conn, out)
	h.log.Debug("Поток уровня %s закрыт", id)
}

// readPump читает только control-сообщения; любая ошибка закрывает поток
func (h *streamHandler) readPump(conn *websocket.Conn, cancel context.CancelFunc) {
	defer cancel()

	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(streamPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(streamPongWait))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Debug("Ошибка чтения потока: %v", err)
			}
			return
		}
	}
}

func (h *streamHandler) writePump(ctx context.Context, conn *websocket.Conn, out <-chan StreamMessage) {
	ticker := time.NewTicker(streamPingPeriod)
	defer ticker.Stop()

	for {
		select {
		case msg := <-out:
			_ = conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
			if err := conn.WriteJSON(msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye"),
				time.Now().Add(time.Second))
			return
		}
	}
}

func (h *streamHandler) track(conn *websocket.Conn) {
	h.mu.Lock()
	h.conns[conn] = struct{}{}
	h.mu.Unlock()
}

func (h *streamHandler) untrack(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.conns, conn)
	h.mu.Unlock()
	conn.Close()
}

// closeAll закрывает все соединения; http.Server.Shutdown не ждёт hijacked-соединений
func (h *streamHandler) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.conns {
		conn.Close()
	}
}
