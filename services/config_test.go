package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsAuthorizedAdmin(t *testing.T) {
	svc := &ConfigService{
		adminAddresses: parseAdminAddresses("0xAbC123, 0xdef456 ,,"),
	}

	assert.True(t, svc.IsAuthorizedAdmin("0xabc123"))
	assert.True(t, svc.IsAuthorizedAdmin("0xABC123"))
	assert.True(t, svc.IsAuthorizedAdmin("0xDef456"))
	assert.False(t, svc.IsAuthorizedAdmin("0x999999"))
	assert.False(t, svc.IsAuthorizedAdmin(""))
}

func TestIsAuthorizedAdmin_EmptyList(t *testing.T) {
	svc := &ConfigService{adminAddresses: parseAdminAddresses("")}

	assert.False(t, svc.IsAuthorizedAdmin("0xabc123"))
}

func TestConfigHost(t *testing.T) {
	svc := &ConfigService{nextAuthURL: "https://arcade.example.com/path"}
	assert.Equal(t, "arcade.example.com", svc.Host())

	svc = &ConfigService{nextAuthURL: "https://arcade.example.com:3000"}
	assert.Equal(t, "arcade.example.com:3000", svc.Host())

	svc = &ConfigService{}
	assert.Empty(t, svc.Host())
}

func TestParseAdminAddresses(t *testing.T) {
	out := parseAdminAddresses(" 0xA , 0xB,0xa ")
	assert.Len(t, out, 2)
	_, ok := out["0xa"]
	assert.True(t, ok)
	_, ok = out["0xb"]
	assert.True(t, ok)
}
