package security

// defaultMinPasswordLength matches the registration contract: any password of
// eight or more characters is acceptable unless a stricter strength score is
// configured.
const defaultMinPasswordLength = 8

// PasswordPolicyConfig tunes the password validator built at startup.
type PasswordPolicyConfig struct {
	MinLength int
	// MinStrengthScore enables a zxcvbn strength check when greater than zero.
	MinStrengthScore int
}

// DefaultPasswordValidator returns the validator enforcing the baseline policy.
func DefaultPasswordValidator() *PasswordValidator {
	return NewPasswordValidator(MinLengthRule(defaultMinPasswordLength))
}

// BuildPasswordValidator constructs a validator from configuration, including
// contextual user inputs (e.g. email) for the strength check when enabled.
func BuildPasswordValidator(cfg PasswordPolicyConfig, userInputs ...string) *PasswordValidator {
	minLength := cfg.MinLength
	if minLength <= 0 {
		minLength = defaultMinPasswordLength
	}

	rules := []PasswordRule{MinLengthRule(minLength)}
	if cfg.MinStrengthScore > 0 {
		rules = append(rules, RequirePasswordStrengthRule(cfg.MinStrengthScore, userInputs...))
	}

	return NewPasswordValidator(rules...)
}
