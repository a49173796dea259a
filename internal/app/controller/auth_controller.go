package controller

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/consultation-backend/internal/app/service"
	apperrors "github.com/ikkim/consultation-backend/internal/errors"
	"github.com/ikkim/consultation-backend/internal/middleware"
	"github.com/ikkim/consultation-backend/pkg/util"
)

type AuthController struct {
	authService  service.AuthService
	secureCookie bool
}

// NewAuthController secureCookie 는 운영 환경(HTTPS)에서 true
func NewAuthController(authService service.AuthService, secureCookie bool) *AuthController {
	return &AuthController{
		authService:  authService,
		secureCookie: secureCookie,
	}
}

type SignUpRequest struct {
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required"`
	PasswordConfirm string `json:"password_confirm" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// SignUp 직원 계정 가입 후 바로 로그인
// POST /api/v1/auth/signup
func (ctrl *AuthController) SignUp(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "이메일과 비밀번호를 입력해주세요")
		return
	}

	session, err := ctrl.authService.SignUp(req.Email, req.Password, req.PasswordConfirm)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPasswordMismatch):
			apperrors.BadRequest(c, apperrors.AuthPasswordMismatch, "비밀번호가 일치하지 않습니다")
		case errors.Is(err, util.ErrPasswordTooShort):
			apperrors.BadRequest(c, apperrors.ValidationTooShort, "비밀번호는 6자 이상이어야 합니다")
		case errors.Is(err, service.ErrEmailRequired), errors.Is(err, service.ErrPasswordRequired):
			apperrors.BadRequest(c, apperrors.ValidationRequired, "이메일과 비밀번호를 입력해주세요")
		case errors.Is(err, service.ErrEmailAlreadyExists):
			log.Warn("Sign up failed: email already exists", map[string]interface{}{
				"email": req.Email,
			})
			apperrors.BadRequest(c, apperrors.AuthEmailAlreadyExists, "이미 가입된 이메일입니다")
		default:
			log.Error("Sign up failed", err)
			apperrors.ParseAndRespond(c, err, "create user")
		}
		return
	}

	ctrl.setSessionCookie(c, session)
	c.JSON(http.StatusCreated, gin.H{"data": session})
}

// Login 이메일/비밀번호 로그인
// POST /api/v1/auth/login
func (ctrl *AuthController) Login(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "이메일과 비밀번호를 입력해주세요")
		return
	}

	session, err := ctrl.authService.SignIn(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.AuthInvalidCredentials, "이메일 또는 비밀번호가 올바르지 않습니다")
			return
		}
		log.Error("Login failed", err)
		apperrors.InternalError(c, "")
		return
	}

	ctrl.setSessionCookie(c, session)
	c.JSON(http.StatusOK, gin.H{"data": session})
}

// Logout 토큰을 무효화하고 세션 쿠키를 지운다
// POST /api/v1/auth/logout
func (ctrl *AuthController) Logout(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	if token := middleware.GetAccessToken(c); token != "" {
		if err := ctrl.authService.SignOut(c.Request.Context(), token); err != nil {
			log.Error("Failed to revoke token", err)
			apperrors.InternalError(c, "로그아웃 처리 중 오류가 발생했습니다")
			return
		}
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.AccessTokenCookie, "", -1, "/", "", ctrl.secureCookie, true)
	c.JSON(http.StatusOK, gin.H{"message": "로그아웃되었습니다"})
}

// Me 현재 로그인한 직원
// GET /api/v1/auth/me
func (ctrl *AuthController) Me(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	user, err := ctrl.authService.CurrentUser(c.Request.Context(), middleware.GetAccessToken(c))
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			apperrors.Unauthorized(c, "사용자를 찾을 수 없습니다")
			return
		}
		log.Error("Failed to load current user", err)
		apperrors.Unauthorized(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": user})
}

func (ctrl *AuthController) setSessionCookie(c *gin.Context, session *service.AuthSession) {
	maxAge := int(time.Until(session.ExpiresAt).Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.AccessTokenCookie, session.AccessToken, maxAge, "/", "", ctrl.secureCookie, true)
}
