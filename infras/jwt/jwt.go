package jwt

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"homeserve/config"
	"homeserve/shared/timezone"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
	ErrInvalidClaim = errors.New("invalid token claim")
)

var errMalformedHeader = errors.New("authorization header must be 'Bearer <token>'")

const (
	defaultAccessExpireMin = 60
	clockSkew              = 30 * time.Second
	bearerPrefix           = "Bearer "
)

type TokenType string

const (
	AccessToken TokenType = "access"
)

// Claims is issued by the external session service. Role is one of customer, provider or admin.
type Claims struct {
	UserID  int64     `json:"user_id"`
	Email   string    `json:"email"`
	Role    string    `json:"role,omitempty"`
	TokenID string    `json:"token_id"`
	Type    TokenType `json:"type"`
	jwt.RegisteredClaims
}

type JWT interface {
	GenerateAccessToken(userID int64, email, role string) (string, error)
	ValidateToken(tokenString string, tokenType TokenType) (*Claims, error)
}

type Service struct {
	config *config.Config
	parser *jwt.Parser
}

func New(cfg *config.Config) JWT {
	return &Service{
		config: cfg,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithLeeway(clockSkew),
			jwt.WithIssuedAt(),
		),
	}
}

// GenerateAccessToken signs an access token with the shared secret. Used by tooling and tests,
// production tokens come from the session service.
func (s *Service) GenerateAccessToken(userID int64, email, role string) (string, error) {
	issuedAt := timezone.Now()

	expireMin := s.config.JWT.AccessExpireMin
	if expireMin <= 0 {
		expireMin = defaultAccessExpireMin
	}

	tokenID := uuid.NewString()

	claims := Claims{
		UserID:  userID,
		Email:   email,
		Role:    role,
		TokenID: tokenID,
		Type:    AccessToken,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(time.Duration(expireMin) * time.Minute)),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
			Issuer:    s.config.App.Name,
			Subject:   strconv.FormatInt(userID, 10),
			ID:        tokenID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signedToken, err := token.SignedString([]byte(s.config.JWT.AccessSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signedToken, nil
}

// ValidateToken verifies the HS256 signature and the time claims, then checks the token type.
// Expired tokens yield ErrExpiredToken, any other parse failure ErrInvalidToken.
func (s *Service) ValidateToken(tokenString string, tokenType TokenType) (*Claims, error) {
	if tokenType != AccessToken {
		return nil, fmt.Errorf("unknown token type: %s", tokenType)
	}

	claims := &Claims{}

	_, err := s.parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(s.config.JWT.AccessSecret), nil
	})

	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, ErrExpiredToken
	case err != nil:
		return nil, ErrInvalidToken
	case claims.Type != tokenType:
		return nil, ErrInvalidClaim
	}

	return claims, nil
}

// ExtractTokenFromHeader returns the credentials of a "Bearer <token>" header.
func ExtractTokenFromHeader(authHeader string) (string, error) {
	token, ok := strings.CutPrefix(authHeader, bearerPrefix)
	if !ok || strings.TrimSpace(token) == "" {
		return "", errMalformedHeader
	}

	return token, nil
}
