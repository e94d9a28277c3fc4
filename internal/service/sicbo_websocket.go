package service

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/trungtung03/sicbo-test/internal/middleware"
	"github.com/trungtung03/sicbo-test/internal/models"
	"github.com/trungtung03/sicbo-test/internal/sicbo"
	"github.com/trungtung03/sicbo-test/pkg/logger"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// SicboWebsocketService pushes the live round feed to connected players:
// per-second state ticks, the dice reveal, and personal win notices.
type SicboWebsocketService struct {
	connections      map[int64]*websocket.Conn
	mu               sync.Mutex
	lastActivityTime map[int64]time.Time
}

// NewSicboWebsocketService creates the WebSocket service and starts its
// idle-connection reaper.
func NewSicboWebsocketService() *SicboWebsocketService {
	service := &SicboWebsocketService{
		connections:      make(map[int64]*websocket.Conn),
		lastActivityTime: make(map[int64]time.Time),
	}
	go service.cleanupInactiveConnections()
	return service
}

func (ws *SicboWebsocketService) cleanupInactiveConnections() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		ws.mu.Lock()
		now := time.Now()
		for userID, lastActivity := range ws.lastActivityTime {
			if now.Sub(lastActivity) > 30*time.Minute {
				if conn, ok := ws.connections[userID]; ok {
					conn.Close()
					delete(ws.connections, userID)
					delete(ws.lastActivityTime, userID)
				}
			}
		}
		ws.mu.Unlock()
	}
}

// LiveSicboWebsocketHandler upgrades the request and keeps the connection
// registered until the client goes away.
func (ws *SicboWebsocketService) LiveSicboWebsocketHandler(c *gin.Context) {
	userID, err := middleware.GetUserIDFromGinContext(c)
	if err != nil {
		logger.Error("%v", err)
		c.Status(500)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Error("%v", err)
		return
	}

	ws.mu.Lock()
	ws.connections[userID] = conn
	ws.lastActivityTime[userID] = time.Now()
	ws.mu.Unlock()

	defer func() {
		ws.mu.Lock()
		delete(ws.connections, userID)
		delete(ws.lastActivityTime, userID)
		ws.mu.Unlock()
		conn.Close()
	}()

	for {
		_, _, err := conn.ReadMessage()
		if err != nil {
			break
		}
		ws.mu.Lock()
		ws.lastActivityTime[userID] = time.Now()
		ws.mu.Unlock()
	}
}

// BroadcastRoundState sends the current round id, phase and countdown to all
// connected clients once per driver tick.
func (ws *SicboWebsocketService) BroadcastRoundState(state sicbo.RoundState) {
	ws.mu.Lock()
	defer ws.mu.Unlock()

	tick := gin.H{
		"type":         "round_state",
		"round_id":     state.RoundID,
		"phase":        state.Phase,
		"seconds_left": state.SecondsLeft,
	}

	for _, conn := range ws.connections {
		if err := conn.WriteJSON(tick); err != nil {
			logger.Error("Failed to broadcast round state: %v", err)
			conn.Close()
		}
	}
}

// BroadcastRoundResult sends the revealed dice of a settled round to all
// connected clients.
func (ws *SicboWebsocketService) BroadcastRoundResult(entry models.RoundHistoryEntry) {
	ws.mu.Lock()
	defer ws.mu.Unlock()

	result := gin.H{
		"type":     "round_result",
		"round_id": entry.RoundID,
		"d1":       entry.D1,
		"d2":       entry.D2,
		"d3":       entry.D3,
		"result":   entry.Result,
	}

	for _, conn := range ws.connections {
		if err := conn.WriteJSON(result); err != nil {
			logger.Error("Failed to broadcast round result: %v", err)
			conn.Close()
		}
	}
}

// SendWinToUser notifies one player of their total credit for a round.
func (ws *SicboWebsocketService) SendWinToUser(userID, roundID, winAmount int64) {
	ws.mu.Lock()
	defer ws.mu.Unlock()

	if conn, ok := ws.connections[userID]; ok {
		winInfo := gin.H{
			"type":       "win",
			"round_id":   roundID,
			"win_amount": winAmount,
		}
		if err := conn.WriteJSON(winInfo); err != nil {
			logger.Error("Failed to send win to user %d: %v", userID, err)
			conn.Close()
			delete(ws.connections, userID)
		}
	}
}
