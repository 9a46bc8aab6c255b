// Package services содержит выпуск JWT токенов и хеширование паролей сервера.
package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"doomscrollr/pkg/logger"
)

// Типы токенов в claim token_type.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

const (
	msgTokenGenerated = "token generated"
	msgTokenExpired   = "token has expired"
	msgInvalidToken   = "invalid token"
	//nolint:gosec
	errSigningToken = "error signing token"
)

// Ошибки токенов.
var (
	ErrEmptySecret      = errors.New("empty jwt secret key")
	ErrInvalidAlgorithm = errors.New("invalid signing algorithm")
	ErrInvalidToken     = errors.New("token is invalid")
	ErrExpiredToken     = errors.New("token is expired")
	ErrWrongTokenType   = errors.New("wrong token type")
)

// Claims - содержимое токена.
type Claims struct {
	UserID    int64  `json:"user_id"`
	Username  string `json:"username,omitempty"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// TokenIssuer выпускает и проверяет HS256 токены.
type TokenIssuer struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// TokenOption настраивает TokenIssuer.
type TokenOption func(*TokenIssuer)

// WithClock задает источник текущего времени для выпуска и проверки токенов.
func WithClock(now func() time.Time) TokenOption {
	return func(s *TokenIssuer) {
		if now != nil {
			s.now = now
		}
	}
}

// NewTokenIssuer создает выпускающий сервис.
func NewTokenIssuer(secret string, accessTTL, refreshTTL time.Duration, opts ...TokenOption) (*TokenIssuer, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	s := &TokenIssuer{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// GenerateAccessToken выпускает access токен.
func (s *TokenIssuer) GenerateAccessToken(ctx context.Context, userID int64, username string) (string, error) {
	return s.generate(ctx, userID, username, TokenTypeAccess, s.accessTTL)
}

// GenerateRefreshToken выпускает refresh токен.
func (s *TokenIssuer) GenerateRefreshToken(ctx context.Context, userID int64) (string, error) {
	return s.generate(ctx, userID, "", TokenTypeRefresh, s.refreshTTL)
}

func (s *TokenIssuer) generate(ctx context.Context, userID int64, username, tokenType string, ttl time.Duration) (string, error) {
	log := logger.Log(ctx).With(zap.Int64("user_id", userID), zap.String("token_type", tokenType))

	now := s.now()
	claims := Claims{
		UserID:    userID,
		Username:  username,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		log.Error(ctx, errSigningToken, zap.Error(err))
		return "", fmt.Errorf("%s: %w", errSigningToken, err)
	}

	log.Debug(ctx, msgTokenGenerated, zap.Time("expires_at", now.Add(ttl)))
	return token, nil
}

// ValidateAccessToken проверяет access токен и возвращает его claims.
func (s *TokenIssuer) ValidateAccessToken(ctx context.Context, token string) (*Claims, error) {
	return s.validate(ctx, token, TokenTypeAccess)
}

// ValidateRefreshToken проверяет refresh токен и возвращает его claims.
func (s *TokenIssuer) ValidateRefreshToken(ctx context.Context, token string) (*Claims, error) {
	return s.validate(ctx, token, TokenTypeRefresh)
}

func (s *TokenIssuer) validate(ctx context.Context, tokenString, tokenType string) (*Claims, error) {
	log := logger.Log(ctx)

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("%w: %v", ErrInvalidAlgorithm, token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			log.Debug(ctx, msgTokenExpired)
			return nil, ErrExpiredToken
		}
		log.Debug(ctx, msgInvalidToken, zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	if !token.Valid || claims.UserID <= 0 {
		return nil, ErrInvalidToken
	}
	if claims.TokenType != tokenType {
		return nil, fmt.Errorf("%w: %s", ErrWrongTokenType, claims.TokenType)
	}

	return claims, nil
}
