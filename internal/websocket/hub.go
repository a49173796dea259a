package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ikkim/consultation-backend/pkg/logger"
)

// 상담 변경 이벤트 종류
const (
	EventConsultationCreated  = "consultation.created"
	EventConsultationUpdated  = "consultation.updated"
	EventConsultationDeleted  = "consultation.deleted"
	EventConsultationImported = "consultation.imported"
)

// Event 접속한 모든 직원 세션에 전달되는 변경 알림
type Event struct {
	Type       string     `json:"type"`
	ID         *uuid.UUID `json:"id,omitempty"`
	Count      int        `json:"count,omitempty"`
	OccurredAt time.Time  `json:"occurred_at"`
}

// Client WebSocket 클라이언트 (한 브라우저 세션)
type Client struct {
	Hub    *Hub
	Conn   *Conn
	UserID uuid.UUID
	Send   chan []byte
}

// NewClient send 버퍼를 가진 클라이언트 생성
func NewClient(hub *Hub, conn *Conn, userID uuid.UUID) *Client {
	return &Client{
		Hub:    hub,
		Conn:   conn,
		UserID: userID,
		Send:   make(chan []byte, 64),
	}
}

// Hub WebSocket 연결 관리자. 방 구분 없이 전체 세션에 브로드캐스트한다
type Hub struct {
	clients map[*Client]bool

	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte

	mu sync.RWMutex
}

// NewHub Hub 생성
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client, 256),
		unregister: make(chan *Client, 256),
		broadcast:  make(chan []byte, 1024),
	}
}

// Run Hub 실행
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			total := len(h.clients)
			h.mu.Unlock()
			logger.Info("WebSocket client registered", map[string]interface{}{
				"user_id":        client.UserID,
				"total_sessions": total,
			})

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
			}
			remaining := len(h.clients)
			h.mu.Unlock()
			logger.Info("WebSocket client unregistered", map[string]interface{}{
				"user_id":            client.UserID,
				"remaining_sessions": remaining,
			})

		case message := <-h.broadcast:
			h.mu.RLock()
			for client := range h.clients {
				select {
				case client.Send <- message:
				default:
					// 느린 클라이언트는 끊는다
					go h.Unregister(client)
					logger.Warn("Client send buffer full, disconnecting", map[string]interface{}{
						"user_id": client.UserID,
					})
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Publish 이벤트를 모든 세션에 전달. 큐가 가득 차면 버린다
func (h *Hub) Publish(event Event) {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	data, err := json.Marshal(event)
	if err != nil {
		logger.Error("Failed to marshal event", err, map[string]interface{}{
			"type": event.Type,
		})
		return
	}

	select {
	case h.broadcast <- data:
	default:
		logger.Warn("Broadcast channel full, event dropped", map[string]interface{}{
			"type": event.Type,
		})
	}
}

// Register 클라이언트 등록
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister 클라이언트 등록 해제
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// SessionCount 현재 접속 세션 수
func (h *Hub) SessionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
