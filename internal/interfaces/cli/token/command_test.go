package token

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vo "github.com/campushub/campushub/internal/domain/feedback/valueobjects"
	"github.com/campushub/campushub/internal/infrastructure/auth"
	"github.com/campushub/campushub/internal/shared/config"
)

func testJWTConfig() *config.JWTConfig {
	return &config.JWTConfig{Secret: "test-secret", Issuer: "campushub-test", AccessExpMinutes: 15}
}

func TestIssue_PlainTokenVerifies(t *testing.T) {
	var buf bytes.Buffer
	cfg := testJWTConfig()

	require.NoError(t, issue(&buf, cfg, "fac-1", "faculty", false))

	token := strings.TrimSpace(buf.String())
	claims, err := auth.NewJWTService(cfg.Secret, cfg.Issuer, cfg.AccessExpMinutes).Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "fac-1", claims.UserID())
	assert.Equal(t, vo.RoleFaculty, claims.Role)
}

func TestIssue_JSONOutput(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, issue(&buf, testJWTConfig(), "adm-1", "admin", true))

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.NotEmpty(t, out["access_token"])
	assert.EqualValues(t, 900, out["expires_in"])
}

func TestIssue_RejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name string
		user string
		role string
	}{
		{"unknown role", "stu-1", "visitor"},
		{"empty user", "", "student"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			assert.Error(t, issue(&buf, testJWTConfig(), tt.user, tt.role, false))
			assert.Empty(t, buf.String())
		})
	}
}
