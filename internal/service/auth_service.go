package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/eduhub/examcore/internal/config"
	"github.com/eduhub/examcore/internal/model"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Common auth errors.
var (
	ErrTokenClaims  = errors.New("invalid token claims")
	ErrUnknownRole  = errors.New("unknown role")
	ErrTokenExpired = errors.New("token expired")
)

// Claims extends JWT standard claims with the caller's role.
// The subject carries the principal id.
type Claims struct {
	jwt.RegisteredClaims
	Role model.Role `json:"role"`
}

// Principal converts verified claims into the acting principal.
func (c *Claims) Principal() (model.Principal, error) {
	id, err := uuid.Parse(c.Subject)
	if err != nil {
		return model.Principal{}, fmt.Errorf("%w: subject: %v", ErrTokenClaims, err)
	}
	if !c.Role.Valid() {
		return model.Principal{}, fmt.Errorf("%w: %q", ErrUnknownRole, c.Role)
	}
	return model.Principal{ID: id, Role: c.Role}, nil
}

// AuthService verifies identity tokens issued by the identity provider.
// IssueToken exists for tooling and tests; production tokens come from outside.
type AuthService struct {
	secret []byte
	issuer string
	expiry time.Duration
	now    func() time.Time
}

// NewAuthService creates a new AuthService.
func NewAuthService(cfg *config.Config) *AuthService {
	return &AuthService{
		secret: []byte(cfg.JWTSecret),
		issuer: cfg.JWTIssuer,
		expiry: cfg.JWTExpiry,
		now:    time.Now,
	}
}

// IssueToken signs an HS256 token for p.
func (s *AuthService) IssueToken(p model.Principal) (string, error) {
	if !p.Role.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownRole, p.Role)
	}

	now := s.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Issuer:    s.issuer,
			Subject:   p.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
		},
		Role: p.Role,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken parses and validates a JWT, returning the claims.
func (s *AuthService) ValidateToken(tokenStr string) (*Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrTokenClaims
	}

	return claims, nil
}

// Authenticate validates tokenStr and returns the principal it names.
func (s *AuthService) Authenticate(tokenStr string) (model.Principal, error) {
	claims, err := s.ValidateToken(tokenStr)
	if err != nil {
		return model.Principal{}, err
	}
	return claims.Principal()
}
