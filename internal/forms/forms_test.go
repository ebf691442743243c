package forms

import (
	"testing"

	pkgerrors "github.com/rmontanez/shopfront/pkg/errors"
)

func fieldMessages(t *testing.T, err error) map[string]string {
	t.Helper()
	appErr := pkgerrors.As(err)
	if appErr == nil {
		t.Fatalf("expected *errors.Error, got %T: %v", err, err)
	}
	if appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("code = %v, want validation", appErr.Code())
	}
	details, ok := appErr.Details().(map[string]string)
	if !ok {
		t.Fatalf("details = %T, want map[string]string", appErr.Details())
	}
	return details
}

func TestSignInFormValid(t *testing.T) {
	form := SignInForm{Email: "buyer@example.com", Password: "secret1"}
	if err := Validate(form); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestSignInFormRejectsBadEmail(t *testing.T) {
	form := SignInForm{Email: "not-an-email", Password: "secret1"}
	details := fieldMessages(t, Validate(form))
	if details["email"] != "must be a valid email" {
		t.Errorf("email message = %q", details["email"])
	}
}

func TestSignUpFormRejectsMismatchedConfirmation(t *testing.T) {
	form := SignUpForm{
		Name:            "Buyer",
		Email:           "buyer@example.com",
		Password:        "secret1",
		ConfirmPassword: "secret2",
	}
	details := fieldMessages(t, Validate(form))
	if details["confirmPassword"] != "must match the password" {
		t.Errorf("confirmPassword message = %q", details["confirmPassword"])
	}
}

func TestShippingFormRequiresEveryField(t *testing.T) {
	details := fieldMessages(t, Validate(ShippingForm{City: "Lima"}))
	for _, field := range []string{"fullName", "address", "postalCode", "country"} {
		if details[field] != "is required" {
			t.Errorf("%s message = %q", field, details[field])
		}
	}
	if _, ok := details["city"]; ok {
		t.Error("city flagged despite being set")
	}
}

func TestAddProductFormRejectsFreeProduct(t *testing.T) {
	form := AddProductForm{
		Name:        "Best Hat",
		Slug:        "best-hat",
		Price:       0,
		Image:       "/images/hat.jpg",
		Category:    "Hats",
		Brand:       "Acme",
		Description: "A hat",
	}
	details := fieldMessages(t, Validate(form))
	if _, ok := details["price"]; !ok {
		t.Errorf("price not flagged: %v", details)
	}
}

func TestValidateAddUserRejectsUnknownRole(t *testing.T) {
	form := AddUserForm{
		Name:     "New Seller",
		Email:    "seller@example.com",
		Password: "secret1",
		Role:     "superuser",
	}
	details := fieldMessages(t, ValidateAddUser(form))
	if details["role"] == "" {
		t.Errorf("role not flagged: %v", details)
	}
}

func TestValidateAddUserAcceptsKnownRole(t *testing.T) {
	form := AddUserForm{
		Name:     "New Seller",
		Email:    "seller@example.com",
		Password: "secret1",
		Role:     "seller",
	}
	if err := ValidateAddUser(form); err != nil {
		t.Fatalf("ValidateAddUser: %v", err)
	}
}
