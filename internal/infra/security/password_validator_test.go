package security

import (
	"errors"
	"testing"
)

func assertRuleCode(t *testing.T, err error, code string) {
	t.Helper()

	var violation *PasswordValidationError
	if !errors.As(err, &violation) {
		t.Fatalf("expected PasswordValidationError, got %v", err)
	}
	if violation.Code != code {
		t.Fatalf("violation code = %q, want %q", violation.Code, code)
	}
}

func TestDefaultPasswordValidator(t *testing.T) {
	validator := DefaultPasswordValidator()

	if err := validator.Validate("Secret123"); err != nil {
		t.Fatalf("expected Secret123 to pass, got %v", err)
	}

	cases := []struct {
		name     string
		password string
		code     string
	}{
		{"too short", "Ab1", "min_length"},
		{"no uppercase", "secret123", "uppercase"},
		{"no lowercase", "SECRET123", "lowercase"},
		{"no digit", "SecretPass", "digit"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := validator.Validate(tc.password)
			if err == nil {
				t.Fatalf("expected %q to be rejected", tc.password)
			}
			assertRuleCode(t, err, tc.code)
		})
	}
}

func TestMaxLengthRule(t *testing.T) {
	validator := DefaultPasswordValidator()

	long := make([]byte, 0, 130)
	long = append(long, 'A', 'a', '1')
	for len(long) < 129 {
		long = append(long, 'x')
	}

	err := validator.Validate(string(long))
	if err == nil {
		t.Fatal("expected over-length password to be rejected")
	}
	assertRuleCode(t, err, "max_length")
}

func TestRequireDifferentFrom(t *testing.T) {
	validator := DefaultPasswordValidator().WithRules(RequireDifferentFrom("Secret123"))

	err := validator.Validate("Secret123")
	if err == nil {
		t.Fatal("expected reused password to be rejected")
	}
	assertRuleCode(t, err, "different")

	if err := validator.Validate("Fresh456pass"); err != nil {
		t.Fatalf("expected new password to pass, got %v", err)
	}
}

func TestWithRulesDoesNotMutateReceiver(t *testing.T) {
	base := DefaultPasswordValidator()
	extended := base.WithRules(RequireDifferentFrom("Secret123"))

	if err := base.Validate("Secret123"); err != nil {
		t.Fatalf("base validator gained extra rule: %v", err)
	}
	if err := extended.Validate("Secret123"); err == nil {
		t.Fatal("extended validator missing extra rule")
	}
}

func TestRequirePasswordStrengthRule(t *testing.T) {
	rule := RequirePasswordStrengthRule(3)

	err := rule.Validate("Password1")
	if err == nil {
		t.Fatal("expected dictionary-adjacent password to be rejected")
	}
	assertRuleCode(t, err, "weak_password")

	if err := rule.Validate("correct-Horse7-battery"); err != nil {
		t.Fatalf("expected high-entropy password to pass, got %v", err)
	}

	disabled := RequirePasswordStrengthRule(0)
	if err := disabled.Validate("Password1"); err != nil {
		t.Fatalf("expected disabled rule to pass everything, got %v", err)
	}
}
