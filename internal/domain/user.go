package domain

import (
	"strconv"

	"github.com/golang-jwt/jwt/v5"
)

// Claims são emitidas pelo painel e validadas pela API
type Claims struct {
	UserID       int
	UserName     string
	UserLastname string
	UserEmail    string
	UserActive   bool
	UserRoleID   int
	UserAccounts []string
	jwt.RegisteredClaims
}

// Identity é o identificador do usuário gravado no log de auditoria
func (c *Claims) Identity() string {
	if c == nil {
		return ""
	}
	if c.UserEmail != "" {
		return c.UserEmail
	}
	return strconv.Itoa(c.UserID)
}
