package auth

import (
	"fmt"
	"strings"

	"github.com/Skotchmaster/storefront/internal/hash"
	"github.com/Skotchmaster/storefront/internal/models"
)

type account struct {
	role         models.Role
	passwordHash string
}

// Credentials is a fixed table of accounts keyed by lowercase username.
type Credentials struct {
	accounts map[string]account
}

type Account struct {
	Username string
	Password string
	Role     models.Role
}

// DefaultAccounts are the demo accounts shown on the login page.
var DefaultAccounts = []Account{
	{Username: "user", Password: "user123", Role: models.RoleUser},
	{Username: "admin", Password: "admin123", Role: models.RoleAdmin},
}

// NewCredentials hashes every password with bcrypt. The plain passwords are
// not kept.
func NewCredentials(accounts ...Account) (*Credentials, error) {
	c := &Credentials{accounts: make(map[string]account, len(accounts))}
	for _, a := range accounts {
		name := strings.ToLower(strings.TrimSpace(a.Username))
		if name == "" || !a.Role.Valid() {
			return nil, fmt.Errorf("invalid account %q", a.Username)
		}
		h, err := hash.HashPassword(a.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password for %s: %w", name, err)
		}
		c.accounts[name] = account{role: a.Role, passwordHash: h}
	}
	return c, nil
}

// Verify matches the username case-insensitively and the password exactly.
func (c *Credentials) Verify(username, password string) (models.Role, bool) {
	a, ok := c.accounts[strings.ToLower(strings.TrimSpace(username))]
	if !ok {
		return "", false
	}
	if !hash.CheckPassword(a.passwordHash, password) {
		return "", false
	}
	return a.role, true
}
