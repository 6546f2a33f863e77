package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"

	"ohs-consultant/internal/dto"
	"ohs-consultant/internal/models"
	"ohs-consultant/pkg/auth"

	"go.uber.org/zap"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// AuthService authenticates the single admin account of the HTTP panel.
// The secret is kept only as a bcrypt hash.
type AuthService struct {
	username   string
	secretHash string
	jwtManager *auth.JWTManager
	audit      *AuditService
	logger     *zap.Logger
}

func NewAuthService(username, secret string, jwtManager *auth.JWTManager, audit *AuditService, logger *zap.Logger) (*AuthService, error) {
	hash, err := auth.HashPassword(secret)
	if err != nil {
		return nil, fmt.Errorf("failed to hash admin secret: %w", err)
	}

	return &AuthService{
		username:   username,
		secretHash: hash,
		jwtManager: jwtManager,
		audit:      audit,
		logger:     logger,
	}, nil
}

func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest, ip, userAgent string) (*dto.AuthResponse, error) {
	userOK := subtle.ConstantTimeCompare([]byte(req.Username), []byte(s.username)) == 1
	secretOK := auth.CheckPasswordHash(req.Password, s.secretHash)
	if !userOK || !secretOK {
		s.logger.Warn("Admin login failed", zap.String("ip", ip))
		return nil, ErrInvalidCredentials
	}

	resp, err := s.issue(s.username)
	if err != nil {
		return nil, err
	}

	s.audit.LogRequest(ctx, nil, models.ActionAdminLogin, map[string]any{"username": s.username}, ip, userAgent)
	s.logger.Info("Admin logged in", zap.String("ip", ip))
	return resp, nil
}

func (s *AuthService) RefreshToken(_ context.Context, refreshToken string) (*dto.AuthResponse, error) {
	claims, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if claims.UserID != s.username {
		return nil, ErrInvalidCredentials
	}
	return s.issue(claims.UserID)
}

func (s *AuthService) issue(username string) (*dto.AuthResponse, error) {
	accessToken, err := s.jwtManager.GenerateToken(username, username, string(models.RoleAdmin))
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := s.jwtManager.GenerateRefreshToken(username)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return &dto.AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int64(s.jwtManager.GetTokenDuration().Seconds()),
		Admin: dto.AdminResponse{
			Username: username,
			Role:     string(models.RoleAdmin),
		},
	}, nil
}
