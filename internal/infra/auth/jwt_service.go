// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"leadhub/config"
	"leadhub/internal/domain/entity"
	domainerrors "leadhub/internal/domain/errors"
	"leadhub/internal/domain/service"
	"leadhub/internal/errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const tokenIssuer = "leadhub"

// sessionClaims is the JWT body. The token only references the session;
// the server-side binding stays authoritative.
type sessionClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// jwtService is a concrete implementation of the TokenService interface using the JWT standard.
type jwtService struct {
	secret []byte
	parser *jwt.Parser
}

// NewJWTService is the constructor for jwtService.
// It takes configuration values to create a new token service instance.
func NewJWTService(cfg *config.Config) (service.TokenService, error) {
	if cfg.SecretKey.Access == "" {
		return nil, errors.New("jwt secret must be provided")
	}

	return &jwtService{
		secret: []byte(cfg.SecretKey.Access),
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithIssuer(tokenIssuer),
			jwt.WithExpirationRequired(),
		),
	}, nil
}

// Issue signs a token bound to the given session.
func (s *jwtService) Issue(session *entity.Session) (string, error) {
	claims := sessionClaims{
		Role: session.Role.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        session.ID.String(),
			Subject:   session.UserID.String(),
			Issuer:    tokenIssuer,
			IssuedAt:  jwt.NewNumericDate(session.CreatedAt),
			ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", errors.Wrap(err, "failed to sign session token")
	}

	return signed, nil
}

// Parse verifies the signature, issuer and expiry of a token.
func (s *jwtService) Parse(tokenString string) (*service.SessionClaims, error) {
	claims := &sessionClaims{}
	if _, err := s.parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	}); err != nil {
		return nil, domainerrors.ErrUnauthenticated.WrapMessage(err.Error())
	}

	sessionID, err := uuid.Parse(claims.ID)
	if err != nil {
		return nil, domainerrors.ErrUnauthenticated.WrapMessage("invalid session id claim")
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, domainerrors.ErrUnauthenticated.WrapMessage("invalid subject claim")
	}
	role := entity.Role(claims.Role)
	if !role.IsValid() {
		return nil, domainerrors.ErrUnauthenticated.WrapMessage("invalid role claim")
	}

	return &service.SessionClaims{
		SessionID: sessionID,
		UserID:    userID,
		Role:      role,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
