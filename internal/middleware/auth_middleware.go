package middleware

import (
	"context"
	stderrors "errors"
	"net/http"
	"path"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/ikkim/consultation-backend/internal/app/service"
	"github.com/ikkim/consultation-backend/internal/errors"
	"github.com/ikkim/consultation-backend/pkg/util"
)

// Context keys for user information
const (
	UserIDKey    = "user_id"
	UserEmailKey = "user_email"
)

// AccessTokenCookie 브라우저 세션 쿠키 이름
const AccessTokenCookie = "access_token"

// TokenAuthenticator is satisfied by service.AuthService
type TokenAuthenticator interface {
	Authenticate(ctx context.Context, token string) (*util.Claims, error)
}

type AuthMiddleware struct {
	auth TokenAuthenticator
}

func NewAuthMiddleware(auth TokenAuthenticator) *AuthMiddleware {
	return &AuthMiddleware{
		auth: auth,
	}
}

// Authenticate validates the access token (required)
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		token, ok := extractToken(c)
		if !ok {
			log.Warn("Invalid authorization header format", map[string]interface{}{
				"path": c.Request.URL.Path,
			})
			errors.RespondWithError(c, http.StatusUnauthorized, errors.AuthTokenInvalid, "인증 형식이 올바르지 않습니다")
			c.Abort()
			return
		}
		if token == "" {
			log.Warn("Missing access token", map[string]interface{}{
				"path": c.Request.URL.Path,
			})
			errors.Unauthorized(c, "로그인이 필요합니다")
			c.Abort()
			return
		}

		claims, err := m.auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			log.Warn("Token validation failed", map[string]interface{}{
				"path":  c.Request.URL.Path,
				"error": err.Error(),
			})

			switch {
			case stderrors.Is(err, util.ErrExpiredToken):
				errors.RespondWithError(c, http.StatusUnauthorized, errors.AuthTokenExpired, "로그인이 만료되었습니다")
			case stderrors.Is(err, service.ErrTokenRevoked):
				errors.RespondWithError(c, http.StatusUnauthorized, errors.AuthTokenRevoked, "로그아웃된 인증 토큰입니다")
			case stderrors.Is(err, util.ErrInvalidToken):
				errors.RespondWithError(c, http.StatusUnauthorized, errors.AuthTokenInvalid, "유효하지 않은 인증 토큰입니다")
			default:
				// 블랙리스트 저장소 장애
				errors.InternalError(c, "인증 확인 중 오류가 발생했습니다")
			}
			c.Abort()
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Set(UserEmailKey, claims.Email)

		log.Debug("User authenticated successfully", map[string]interface{}{
			"user_id": claims.UserID,
			"email":   claims.Email,
		})

		c.Next()
	}
}

// PageGuard redirects browser page requests by session state.
// /api paths, /health and static assets pass through untouched.
func (m *AuthMiddleware) PageGuard() gin.HandlerFunc {
	return func(c *gin.Context) {
		p := c.Request.URL.Path
		if !isPagePath(p) || (c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead) {
			c.Next()
			return
		}

		authenticated := false
		if token, err := c.Cookie(AccessTokenCookie); err == nil && token != "" {
			if _, err := m.auth.Authenticate(c.Request.Context(), token); err == nil {
				authenticated = true
			}
		}

		switch {
		case isAuthPage(p) && authenticated:
			c.Redirect(http.StatusFound, "/")
			c.Abort()
		case !isAuthPage(p) && !authenticated:
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
		default:
			c.Next()
		}
	}
}

func isPagePath(p string) bool {
	if p == "/api" || strings.HasPrefix(p, "/api/") || p == "/health" {
		return false
	}
	return path.Ext(p) == ""
}

func isAuthPage(p string) bool {
	p = strings.TrimSuffix(p, "/")
	return p == "/login" || p == "/signup"
}

// extractToken reads Bearer header, then the session cookie, then ?token= (websocket).
// ok is false only when an Authorization header is present but malformed.
func extractToken(c *gin.Context) (string, bool) {
	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return "", false
		}
		return parts[1], true
	}
	if token, err := c.Cookie(AccessTokenCookie); err == nil && token != "" {
		return token, true
	}
	return c.Query("token"), true
}

// GetUserID extracts user ID from context
func GetUserID(c *gin.Context) (uuid.UUID, bool) {
	userID, exists := c.Get(UserIDKey)
	if !exists {
		return uuid.Nil, false
	}
	id, ok := userID.(uuid.UUID)
	return id, ok
}

// GetUserEmail extracts user email from context
func GetUserEmail(c *gin.Context) (string, bool) {
	email, exists := c.Get(UserEmailKey)
	if !exists {
		return "", false
	}
	return email.(string), true
}

// GetAccessToken returns the raw token the request was authenticated with
func GetAccessToken(c *gin.Context) string {
	token, _ := extractToken(c)
	return token
}
