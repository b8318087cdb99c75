package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"ArsenalAura/internal/config"
	"ArsenalAura/internal/model"
	"ArsenalAura/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// 认证领域错误
var (
	ErrInvalidCredentials = errors.New("Invalid credentials")
	ErrInvalidToken       = errors.New("Invalid token")
	ErrInvalidInput       = errors.New("Invalid input")
	ErrForbidden          = errors.New("Forbidden")
)

// token类型
const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

// TokenPair 一次签发的access+refresh
type TokenPair struct {
	Access  string
	Refresh string
}

// AuthService 注册/登录/令牌签发（HS256）与管理员引导
type AuthService struct {
	repo   repository.UserRepository
	cfg    *config.AuthConfig
	logger *logrus.Logger
}

// NewAuthService 创建认证服务
func NewAuthService(repo repository.UserRepository, cfg *config.AuthConfig, logger *logrus.Logger) *AuthService {
	return &AuthService{repo: repo, cfg: cfg, logger: logger}
}

// Register 注册新用户（邮箱小写唯一，密码bcrypt，主队决定banter模式，战绩行同事务初始化）
func (s *AuthService) Register(ctx context.Context, email, password, favoriteClub string) (*model.User, *TokenPair, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !strings.Contains(email, "@") || len(password) < 8 || !model.IsValidClub(favoriteClub) {
		return nil, nil, ErrInvalidInput
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, fmt.Errorf("密码哈希失败: %w", err)
	}
	user := &model.User{
		Email:        email,
		PasswordHash: string(hash),
		FavoriteClub: favoriteClub,
		BanterMode:   model.IsBanterClub(favoriteClub),
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, nil, err
	}
	pair, err := s.IssueTokens(user)
	if err != nil {
		return nil, nil, err
	}
	s.logger.WithField("email", email).Info("用户注册成功")
	return user, pair, nil
}

// Login 邮箱+密码登录
func (s *AuthService) Login(ctx context.Context, email, password string) (*model.User, *TokenPair, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, nil, err
	}
	if user == nil {
		return nil, nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}
	pair, err := s.IssueTokens(user)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// Refresh 用refresh token换新的access token
func (s *AuthService) Refresh(refreshToken string) (string, error) {
	userID, err := s.ParseToken(refreshToken, tokenTypeRefresh)
	if err != nil {
		return "", ErrInvalidToken
	}
	return s.signToken(userID, tokenTypeAccess, s.cfg.AccessTokenTTL)
}

// BootstrapAdmin 管理员引导：口令匹配才放行，创建或提升管理员
func (s *AuthService) BootstrapAdmin(ctx context.Context, token, email, password string) (*model.User, error) {
	if s.cfg.BootstrapToken == "" || token != s.cfg.BootstrapToken {
		return nil, ErrForbidden
	}
	if email == "" {
		email = s.cfg.BootstrapEmail
	}
	if password == "" {
		password = s.cfg.BootstrapPass
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, ErrInvalidInput
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("密码哈希失败: %w", err)
	}
	user, err := s.repo.UpsertAdmin(ctx, email, string(hash))
	if err != nil {
		return nil, err
	}
	s.logger.WithField("email", email).Info("管理员引导完成")
	return user, nil
}

// UpdateFavoriteClub 修改主队并重算banter模式
func (s *AuthService) UpdateFavoriteClub(ctx context.Context, user *model.User, club string) error {
	if !model.IsValidClub(club) {
		return ErrInvalidInput
	}
	user.FavoriteClub = club
	user.BanterMode = model.IsBanterClub(club)
	user.UpdatedAt = time.Now()
	return s.repo.Save(ctx, user)
}

// IssueTokens 签发access+refresh
func (s *AuthService) IssueTokens(user *model.User) (*TokenPair, error) {
	access, err := s.signToken(user.ID, tokenTypeAccess, s.cfg.AccessTokenTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := s.signToken(user.ID, tokenTypeRefresh, s.cfg.RefreshTokenTTL)
	if err != nil {
		return nil, err
	}
	return &TokenPair{Access: access, Refresh: refresh}, nil
}

func (s *AuthService) signToken(userID uint64, tokenType string, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		if tokenType == tokenTypeRefresh {
			ttl = 7 * 24 * time.Hour
		} else {
			ttl = 15 * time.Minute
		}
	}
	claims := jwt.MapClaims{
		"sub": strconv.FormatUint(userID, 10),
		"typ": tokenType,
		"iat": jwt.NewNumericDate(time.Now()),
		"exp": jwt.NewNumericDate(time.Now().Add(ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("签发token失败: %w", err)
	}
	return signed, nil
}

// ParseToken 校验token并取出用户ID；类型不符视为无效
func (s *AuthService) ParseToken(tokenStr, wantType string) (uint64, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.JWTSecret), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !token.Valid {
		return 0, ErrInvalidToken
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, ErrInvalidToken
	}
	if typ, _ := claims["typ"].(string); typ != wantType {
		return 0, ErrInvalidToken
	}
	sub, _ := claims["sub"].(string)
	userID, err := strconv.ParseUint(sub, 10, 64)
	if err != nil || userID == 0 {
		return 0, ErrInvalidToken
	}
	return userID, nil
}

// LoadUser 按ID读取用户（中间件用）
func (s *AuthService) LoadUser(ctx context.Context, id uint64) (*model.User, error) {
	return s.repo.FindByID(ctx, id)
}
