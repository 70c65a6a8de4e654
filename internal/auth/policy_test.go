package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Skotchmaster/storefront/internal/models"
)

func TestCheck(t *testing.T) {
	user := &models.AuthUser{Username: "user", Role: models.RoleUser}
	admin := &models.AuthUser{Username: "admin", Role: models.RoleAdmin}

	tests := []struct {
		name  string
		user  *models.AuthUser
		roles []models.Role
		want  Decision
	}{
		{name: "anonymous any", user: nil, want: Unauthenticated},
		{name: "anonymous admin", user: nil, roles: []models.Role{models.RoleAdmin}, want: Unauthenticated},
		{name: "user any", user: user, want: Allow},
		{name: "user admin route", user: user, roles: []models.Role{models.RoleAdmin}, want: Forbidden},
		{name: "admin admin route", user: admin, roles: []models.Role{models.RoleAdmin}, want: Allow},
		{name: "either role", user: user, roles: []models.Role{models.RoleAdmin, models.RoleUser}, want: Allow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Check(tt.user, tt.roles...))
		})
	}
}

func TestDecisionString(t *testing.T) {
	assert.Equal(t, "allow", Allow.String())
	assert.Equal(t, "unauthenticated", Unauthenticated.String())
	assert.Equal(t, "forbidden", Forbidden.String())
}

func TestNewCredentials_RejectsInvalid(t *testing.T) {
	_, err := NewCredentials(Account{Username: " ", Password: "x", Role: models.RoleUser})
	assert.Error(t, err)

	_, err = NewCredentials(Account{Username: "root", Password: "x", Role: "owner"})
	assert.Error(t, err)
}
