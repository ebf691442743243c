package session

import (
	"testing"

	"github.com/rmontanez/shopfront/pkg/enums"
	"github.com/rmontanez/shopfront/pkg/types"
)

func rolePtr(r enums.Role) *enums.Role {
	return &r
}

func TestGuardNoUserRedirectsToSignIn(t *testing.T) {
	redirect, allowed := Guard(nil, rolePtr(enums.RoleAdmin))
	if allowed {
		t.Fatal("expected access denied")
	}
	if redirect != PathSignIn {
		t.Fatalf("unexpected redirect %q", redirect)
	}
}

func TestGuardSellerOnAdminRouteRedirectsToSellerHome(t *testing.T) {
	seller := &types.User{ID: "u1", Role: enums.RoleSeller}

	redirect, allowed := Guard(seller, rolePtr(enums.RoleAdmin))
	if allowed {
		t.Fatal("expected access denied")
	}
	if redirect != PathSellerHome {
		t.Fatalf("expected seller home, got %q", redirect)
	}
}

func TestGuardMatchingRoleAllows(t *testing.T) {
	admin := &types.User{ID: "u1", Role: enums.RoleAdmin}

	redirect, allowed := Guard(admin, rolePtr(enums.RoleAdmin))
	if !allowed {
		t.Fatalf("expected access, got redirect %q", redirect)
	}
}

func TestGuardNoRequiredRoleFallsThrough(t *testing.T) {
	odd := &types.User{ID: "u1", Role: enums.Role("intern")}

	if _, allowed := Guard(odd, nil); !allowed {
		t.Fatal("unrecognized role with no required role must fall through")
	}
}

func TestGuardUnrecognizedRoleMismatchTakesExplicitDefault(t *testing.T) {
	odd := &types.User{ID: "u1", Role: enums.Role("intern")}

	redirect, allowed := Guard(odd, rolePtr(enums.RoleAdmin))
	if allowed {
		t.Fatal("expected access denied")
	}
	if redirect != PathGuardDefault {
		t.Fatalf("expected explicit default path, got %q", redirect)
	}
}
