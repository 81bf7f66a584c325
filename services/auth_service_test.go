package services

import (
	"courier-server/utils/errors"
	"io"
	"testing"

	"go.mongodb.org/mongo-driver/mongo"
)

func TestValidateSignUpRequiredFields(t *testing.T) {
	cases := []struct {
		name                             string
		fullname, phone, email, password string
	}{
		{"empty fullname", "", "123456", "a@b.com", "secret1"},
		{"empty phone", "Abel T", "", "a@b.com", "secret1"},
		{"empty email", "Abel T", "123456", "", "secret1"},
		{"empty password", "Abel T", "123456", "a@b.com", ""},
	}
	for _, c := range cases {
		if err := ValidateSignUp(c.fullname, c.phone, c.email, c.password); err == nil {
			t.Errorf("%s: expected validation error", c.name)
		}
	}
}

func TestValidateSignUpEmailShape(t *testing.T) {
	bad := []string{"plainaddress", "missing-domain@", "@no-local.com", "no-dot@domain", "spa ce@x.com"}
	for _, email := range bad {
		err := ValidateSignUp("Abel T", "123456", email, "secret1")
		if err == nil {
			t.Errorf("email %q: expected error", email)
			continue
		}
		if apiErr, ok := err.(*errors.APIError); !ok || apiErr.Code != "INVALID_EMAIL" {
			t.Errorf("email %q: got %v, want INVALID_EMAIL", email, err)
		}
	}

	if err := ValidateSignUp("Abel T", "123456", "abel@example.com", "secret1"); err != nil {
		t.Errorf("valid input rejected: %v", err)
	}
}

func TestValidateSignUpPasswordLength(t *testing.T) {
	err := ValidateSignUp("Abel T", "123456", "abel@example.com", "12345")
	if err == nil {
		t.Fatal("5-char password should be rejected")
	}
	if apiErr, ok := err.(*errors.APIError); !ok || apiErr.Code != "WEAK_PASSWORD" {
		t.Fatalf("got %v, want WEAK_PASSWORD", err)
	}
	if err := ValidateSignUp("Abel T", "123456", "abel@example.com", "123456"); err != nil {
		t.Fatalf("6-char password rejected: %v", err)
	}
}

func TestLookupErrorSeparatesMissingUserFromStoreFailure(t *testing.T) {
	if err := lookupError(mongo.ErrNoDocuments); err != errors.ErrInvalidCredentials {
		t.Fatalf("missing user mapped to %v, want invalid credentials", err)
	}
	if err := lookupError(io.ErrUnexpectedEOF); err != errors.ErrNetwork {
		t.Fatalf("store failure mapped to %v, want network error", err)
	}
}
