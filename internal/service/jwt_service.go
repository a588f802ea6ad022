package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"trilha-futuro/internal/domain"
)

const tokenIssuer = "trilha-futuro"

type tokenKind string

const (
	kindAccess  tokenKind = "access"
	kindRefresh tokenKind = "refresh"
)

var (
	ErrJWTSecretMissing = errors.New("jwt secret is required")
	ErrJWTInvalid       = errors.New("jwt invalid")
	ErrJWTExpired       = errors.New("jwt expired")
)

// JWTOptions configura la firma y los TTL de los tokens.
type JWTOptions struct {
	Secret     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// SessionClaims viajan en ambos tokens. El sub es el id del usuario y el jti
// solo se usa en refresh tokens.
type SessionClaims struct {
	Email string    `json:"email"`
	Name  string    `json:"name,omitempty"`
	Kind  tokenKind `json:"kind"`
	jwt.RegisteredClaims
}

func (c SessionClaims) UserID() string { return c.Subject }

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// JWTService emite pares access/refresh y rota los refresh contra un SessionStore.
type JWTService struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	sessions   SessionStore
	parser     *jwt.Parser
}

// NewJWTService falla sin secreto. Sin store usa sesiones en memoria.
func NewJWTService(opts JWTOptions, sessions SessionStore) (*JWTService, error) {
	if opts.Secret == "" {
		return nil, ErrJWTSecretMissing
	}
	if opts.AccessTTL <= 0 {
		opts.AccessTTL = 15 * time.Minute
	}
	if opts.RefreshTTL <= 0 {
		opts.RefreshTTL = 30 * 24 * time.Hour
	}
	if sessions == nil {
		sessions = NewMemorySessionStore()
	}
	return &JWTService{
		secret:     []byte(opts.Secret),
		accessTTL:  opts.AccessTTL,
		refreshTTL: opts.RefreshTTL,
		sessions:   sessions,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithIssuer(tokenIssuer),
			jwt.WithExpirationRequired(),
			jwt.WithIssuedAt(),
		),
	}, nil
}

// Issue abre una sesion nueva para el usuario.
func (s *JWTService) Issue(ctx context.Context, user domain.User) (TokenPair, error) {
	if user.ID == "" {
		return TokenPair{}, ErrJWTInvalid
	}
	now := time.Now().UTC()
	access, err := s.sign(user, kindAccess, "", now, s.accessTTL)
	if err != nil {
		return TokenPair{}, err
	}
	jti := uuid.NewString()
	refresh, err := s.sign(user, kindRefresh, jti, now, s.refreshTTL)
	if err != nil {
		return TokenPair{}, err
	}
	if err := s.sessions.Save(ctx, jti, user.ID, s.refreshTTL); err != nil {
		return TokenPair{}, fmt.Errorf("save session: %w", err)
	}
	return TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(s.accessTTL.Seconds()),
	}, nil
}

// Rotate consume la sesion del refresh token y emite un par nuevo.
func (s *JWTService) Rotate(ctx context.Context, refreshToken string) (TokenPair, error) {
	claims, err := s.parse(refreshToken, kindRefresh)
	if err != nil {
		return TokenPair{}, err
	}
	userID, err := s.sessions.Consume(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return TokenPair{}, ErrJWTInvalid
		}
		return TokenPair{}, fmt.Errorf("consume session: %w", err)
	}
	if userID != claims.Subject {
		return TokenPair{}, ErrJWTInvalid
	}
	return s.Issue(ctx, domain.User{ID: claims.Subject, Email: claims.Email, Name: claims.Name})
}

// Revoke cierra la sesion de un refresh token.
func (s *JWTService) Revoke(ctx context.Context, refreshToken string) error {
	claims, err := s.parse(refreshToken, kindRefresh)
	if err != nil {
		return err
	}
	return s.sessions.Delete(ctx, claims.ID)
}

// Verify valida un access token.
func (s *JWTService) Verify(accessToken string) (SessionClaims, error) {
	return s.parse(accessToken, kindAccess)
}

func (s *JWTService) sign(user domain.User, kind tokenKind, jti string, now time.Time, ttl time.Duration) (string, error) {
	claims := SessionClaims{
		Email: user.Email,
		Name:  user.Name,
		Kind:  kind,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Issuer:    tokenIssuer,
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

func (s *JWTService) parse(tokenString string, want tokenKind) (SessionClaims, error) {
	if tokenString == "" {
		return SessionClaims{}, ErrJWTInvalid
	}
	var claims SessionClaims
	_, err := s.parser.ParseWithClaims(tokenString, &claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return SessionClaims{}, ErrJWTExpired
		}
		return SessionClaims{}, ErrJWTInvalid
	}
	if claims.Kind != want || claims.Subject == "" {
		return SessionClaims{}, ErrJWTInvalid
	}
	if want == kindRefresh && claims.ID == "" {
		return SessionClaims{}, ErrJWTInvalid
	}
	return claims, nil
}
