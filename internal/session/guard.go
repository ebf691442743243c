package session

import (
	"github.com/rmontanez/shopfront/pkg/enums"
	"github.com/rmontanez/shopfront/pkg/types"
)

// Route paths used by the guard. The role table is a closed three-entry
// mapping; anything outside it lands on the explicit fallback.
const (
	PathSignIn       = "/signin"
	PathUserHome     = "/user-dashboard"
	PathSellerHome   = "/seller-dashboard"
	PathAdminHome    = "/admin-dashboard"
	PathGuardDefault = PathUserHome
)

var roleHomePaths = map[enums.Role]string{
	enums.RoleAdmin:  PathAdminHome,
	enums.RoleSeller: PathSellerHome,
	enums.RoleUser:   PathUserHome,
}

// Guard decides whether a route is accessible to the given user.
//
// No user redirects to sign-in. A user whose role does not match the required
// role redirects to their own role's home path; an unrecognized role takes the
// explicit default rather than a silent map miss. A nil required role, or a
// matching one, grants access.
func Guard(current *types.User, required *enums.Role) (redirect string, allowed bool) {
	if current == nil {
		return PathSignIn, false
	}
	if required != nil && current.Role != *required {
		home, ok := roleHomePaths[current.Role]
		if !ok {
			home = PathGuardDefault
		}
		return home, false
	}
	return "", true
}
