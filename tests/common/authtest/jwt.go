//go:build unit || e2e

package authtest

import (
	"testing"

	"enrollment-sync/internal/domain/auth"
	"enrollment-sync/internal/pkg/config"
	"enrollment-sync/internal/pkg/jwt"

	"github.com/stretchr/testify/require"
)

// JWTHelper signs tokens the services under test will accept.
type JWTHelper struct {
	tokens *jwt.Service
}

func NewJWTHelper(cfg config.JWTConfig) *JWTHelper {
	return &JWTHelper{tokens: jwt.NewService(cfg.Secret, cfg.TTL)}
}

func (h *JWTHelper) Token(t *testing.T, subject string, role auth.Role) string {
	t.Helper()
	token, err := h.tokens.GenerateToken(subject, role)
	require.NoError(t, err)
	return token
}

func (h *JWTHelper) AdminToken(t *testing.T) string {
	t.Helper()
	return h.Token(t, "admin@example.com", auth.RoleAdmin)
}

func (h *JWTHelper) OperatorToken(t *testing.T) string {
	t.Helper()
	return h.Token(t, "operator@example.com", auth.RoleOperator)
}
