package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ikkim/consultation-backend/internal/app/model"
	"github.com/ikkim/consultation-backend/internal/app/repository"
	"github.com/ikkim/consultation-backend/pkg/logger"
	"github.com/ikkim/consultation-backend/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrEmailRequired      = errors.New("email is required")
	ErrPasswordRequired   = errors.New("password is required")
	ErrPasswordMismatch   = errors.New("password confirmation does not match")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrTokenRevoked       = errors.New("token has been revoked")
)

// TokenBlacklist 로그아웃된 토큰 저장소 (redis.TokenBlacklist)
type TokenBlacklist interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// AuthSession 로그인/가입 결과
type AuthSession struct {
	User        *model.User `json:"user"`
	AccessToken string      `json:"access_token"`
	ExpiresAt   time.Time   `json:"expires_at"`
}

// AuthService 인증 기능. 컨트롤러와 미들웨어는 이 인터페이스에만 의존한다
type AuthService interface {
	SignUp(email, password, passwordConfirm string) (*AuthSession, error)
	SignIn(email, password string) (*AuthSession, error)
	SignOut(ctx context.Context, token string) error
	Authenticate(ctx context.Context, token string) (*util.Claims, error)
	CurrentUser(ctx context.Context, token string) (*model.User, error)
}

type authService struct {
	userRepo     repository.UserRepository
	blacklist    TokenBlacklist
	jwtSecret    string
	accessExpiry time.Duration
}

// NewAuthService blacklist 가 nil 이면 로그아웃은 클라이언트 쿠키 삭제에만 의존한다
func NewAuthService(
	userRepo repository.UserRepository,
	blacklist TokenBlacklist,
	jwtSecret string,
	accessExpiry time.Duration,
) AuthService {
	return &authService{
		userRepo:     userRepo,
		blacklist:    blacklist,
		jwtSecret:    jwtSecret,
		accessExpiry: accessExpiry,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *authService) SignUp(email, password, passwordConfirm string) (*AuthSession, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, ErrEmailRequired
	}
	if password == "" {
		return nil, ErrPasswordRequired
	}
	if password != passwordConfirm {
		return nil, ErrPasswordMismatch
	}
	if err := util.ValidatePassword(password); err != nil {
		return nil, err
	}

	logger.Info("Attempting sign up", map[string]interface{}{
		"email": email,
	})

	if _, err := s.userRepo.FindByEmail(email); err == nil {
		return nil, ErrEmailAlreadyExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := util.HashPassword(password)
	if err != nil {
		logger.Error("Failed to hash password", err)
		return nil, err
	}

	user := &model.User{Email: email, PasswordHash: hash}
	if err := s.userRepo.Create(user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, err
	}

	logger.Info("User signed up", map[string]interface{}{
		"user_id": user.ID,
		"email":   user.Email,
	})
	return s.issueSession(user)
}

func (s *authService) SignIn(email, password string) (*AuthSession, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, ErrEmailRequired
	}
	if password == "" {
		return nil, ErrPasswordRequired
	}

	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Sign in failed: user not found", map[string]interface{}{
				"email": email,
			})
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !util.VerifyPassword(user.PasswordHash, password) {
		logger.Warn("Sign in failed: invalid password", map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, ErrInvalidCredentials
	}

	logger.Info("User signed in", map[string]interface{}{
		"user_id": user.ID,
	})
	return s.issueSession(user)
}

func (s *authService) issueSession(user *model.User) (*AuthSession, error) {
	token, err := util.GenerateToken(user.ID, user.Email, s.jwtSecret, s.accessExpiry)
	if err != nil {
		logger.Error("Failed to generate access token", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, err
	}
	return &AuthSession{
		User:        user,
		AccessToken: token,
		ExpiresAt:   time.Now().Add(s.accessExpiry),
	}, nil
}

// SignOut 토큰을 남은 유효 시간만큼 블랙리스트에 올린다
func (s *authService) SignOut(ctx context.Context, token string) error {
	claims, err := util.ValidateToken(token, s.jwtSecret)
	if err != nil {
		// 이미 만료되었거나 잘못된 토큰은 로그아웃할 것이 없다
		return nil
	}
	if s.blacklist == nil {
		return nil
	}

	ttl := time.Until(claims.ExpiresAt.Time)
	if err := s.blacklist.Revoke(ctx, claims.ID, ttl); err != nil {
		return err
	}

	logger.Info("User signed out", map[string]interface{}{
		"user_id": claims.UserID,
	})
	return nil
}

// Authenticate 토큰 서명/만료/로그아웃 여부 확인
func (s *authService) Authenticate(ctx context.Context, token string) (*util.Claims, error) {
	claims, err := util.ValidateToken(token, s.jwtSecret)
	if err != nil {
		return nil, err
	}

	if s.blacklist != nil {
		revoked, err := s.blacklist.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, err
		}
		if revoked {
			return nil, ErrTokenRevoked
		}
	}
	return claims, nil
}

func (s *authService) CurrentUser(ctx context.Context, token string) (*model.User, error) {
	claims, err := s.Authenticate(ctx, token)
	if err != nil {
		return nil, err
	}
	return s.userByID(claims.UserID)
}

func (s *authService) userByID(id uuid.UUID) (*model.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}
