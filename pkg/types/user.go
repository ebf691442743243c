package types

import "github.com/rmontanez/shopfront/pkg/enums"

// User mirrors the account record returned by sign-in, sign-up and the admin
// user endpoints. Token is only present on records minted by authentication.
type User struct {
	ID    string     `json:"_id"`
	Name  string     `json:"name"`
	Email string     `json:"email"`
	Role  enums.Role `json:"role"`
	Token string     `json:"token,omitempty"`
}
