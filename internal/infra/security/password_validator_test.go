package security

import (
	"errors"
	"testing"
)

func TestDefaultPasswordValidator(t *testing.T) {
	validator := DefaultPasswordValidator()

	if err := validator.Validate("longenough"); err != nil {
		t.Fatalf("expected eight-plus character password to pass, got %v", err)
	}

	err := validator.Validate("short")
	if err == nil {
		t.Fatalf("expected validation error for short password")
	}
	var vErr *PasswordValidationError
	if !errors.As(err, &vErr) || vErr.Code != "min_length" {
		t.Fatalf("expected min_length violation, got %v", err)
	}
}

func TestBuildPasswordValidatorWithStrength(t *testing.T) {
	validator := BuildPasswordValidator(PasswordPolicyConfig{
		MinLength:        8,
		MinStrengthScore: 3,
	}, "alice@example.org")

	if err := validator.Validate("password"); err == nil {
		t.Fatalf("expected dictionary password to fail strength check")
	}

	if err := validator.Validate("C0mplex!Passphrase#2025"); err != nil {
		t.Fatalf("expected strong password to pass, got %v", err)
	}
}

func TestRequireDifferentFrom(t *testing.T) {
	validator := NewPasswordValidator(
		MinLengthRule(4),
		RequireDifferentFrom("existing-password"),
	)

	if err := validator.Validate("existing-password"); err == nil {
		t.Fatalf("expected validation error when new password equals comparator")
	}

	if err := validator.Validate("fresh-password"); err != nil {
		t.Fatalf("expected distinct password to pass, got %v", err)
	}
}
