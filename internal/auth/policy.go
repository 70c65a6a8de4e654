package auth

import "github.com/Skotchmaster/storefront/internal/models"

type Decision int

const (
	Allow Decision = iota
	Unauthenticated
	Forbidden
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case Unauthenticated:
		return "unauthenticated"
	case Forbidden:
		return "forbidden"
	default:
		return "unknown"
	}
}

// Check decides access for user. With no roles any signed-in user is
// allowed; otherwise the user's role must be one of them.
func Check(user *models.AuthUser, roles ...models.Role) Decision {
	if user == nil {
		return Unauthenticated
	}
	if len(roles) == 0 {
		return Allow
	}
	for _, r := range roles {
		if user.Role == r {
			return Allow
		}
	}
	return Forbidden
}
