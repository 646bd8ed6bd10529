package server

import (
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestMapEnvToGinMode(t *testing.T) {
	tests := []struct {
		env  string
		want string
	}{
		{"production", gin.ReleaseMode},
		{"prod", gin.ReleaseMode},
		{"test", gin.TestMode},
		{"development", gin.DebugMode},
		{"anything", gin.DebugMode},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, mapEnvToGinMode(tt.env), tt.env)
	}
}

func TestNewCommand_Flags(t *testing.T) {
	cmd := NewCommand()

	assert.Equal(t, "server", cmd.Use)
	assert.NotNil(t, cmd.Flags().Lookup("auto-migrate"))
	assert.NotNil(t, cmd.Flags().Lookup("env"))
}
