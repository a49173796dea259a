package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	apperrors "github.com/ikkim/consultation-backend/internal/errors"
	"github.com/ikkim/consultation-backend/internal/middleware"
	ws "github.com/ikkim/consultation-backend/internal/websocket"
)

type FeedController struct {
	hub      *ws.Hub
	upgrader websocket.Upgrader
}

// NewFeedController allowedOrigins 는 CORS 설정과 같은 목록. "*" 은 모두 허용
func NewFeedController(hub *ws.Hub, allowedOrigins []string) *FeedController {
	origins := make(map[string]bool, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		origins[origin] = true
	}

	return &FeedController{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || origins["*"] || origins[origin]
			},
		},
	}
}

// Subscribe 상담 변경 알림 WebSocket
// GET /api/v1/consultations/feed
// 쿼리 파라미터로 토큰을 받지만, 로깅하지 않음 (보안)
func (ctrl *FeedController) Subscribe(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	// 미들웨어에서 이미 인증 완료
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "로그인이 필요합니다")
		return
	}

	conn, err := ctrl.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("Failed to upgrade to WebSocket", err)
		return
	}

	client := ws.NewClient(ctrl.hub, &ws.Conn{Conn: conn}, userID)
	ctrl.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()

	log.Info("Change feed connection established", map[string]interface{}{
		"user_id": userID,
	})
}
