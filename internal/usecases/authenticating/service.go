package authenticating

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/vfg2006/goal-pacing-api/internal/config"
	"github.com/vfg2006/goal-pacing-api/internal/domain"
	"github.com/vfg2006/goal-pacing-api/pkg/apiErrors"
)

const defaultTokenTTL = 24 * time.Hour

// Usuários são gerenciados pelo painel; a API só valida e emite tokens de serviço
//
//go:generate mockgen -source=service.go -destination=mocks/service_mock.go -package=mocks
type Authenticator interface {
	ValidateToken(tokenString string) (*domain.Claims, error)
	IssueToken(claims domain.Claims) (string, error)
}

type Service struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewService(cfg config.Auth) *Service {
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &Service{
		secret: []byte(cfg.Secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// IssueToken assina as claims com HS256, usado pela CLI para automações
func (s *Service) IssueToken(claims domain.Claims) (string, error) {
	if claims.UserEmail == "" && claims.UserID == 0 {
		return "", NewAuthError(ErrMissingRequiredData, apiErrors.ErrMissingRequiredData, "email ou id do usuário é obrigatório")
	}
	if claims.UserRoleID == 0 {
		return "", NewAuthError(ErrMissingRequiredData, apiErrors.ErrMissingRequiredData, "role do usuário é obrigatório")
	}

	now := s.now()
	claims.UserActive = true
	claims.RegisteredClaims = jwt.RegisteredClaims{
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", NewAuthError(err, apiErrors.ErrInternalServer, "Erro ao gerar token de autenticação")
	}

	return signed, nil
}

func (s *Service) ValidateToken(tokenString string) (*domain.Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &domain.Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, NewAuthError(ErrExpiredToken, apiErrors.ErrExpiredToken, "Token expirado")
		}
		return nil, NewAuthError(ErrInvalidToken, apiErrors.ErrInvalidToken, err.Error())
	}

	claims, ok := token.Claims.(*domain.Claims)
	if !ok || !token.Valid {
		return nil, NewAuthError(ErrInvalidToken, apiErrors.ErrInvalidToken, "Token inválido")
	}

	if !claims.UserActive {
		return nil, NewAuthError(ErrUserDisabled, apiErrors.ErrInsufficientPrivilege, "Usuário desativado")
	}

	return claims, nil
}
