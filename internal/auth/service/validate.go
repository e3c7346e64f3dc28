package service

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"unicode"
)

// ErrValidation reports malformed signup input. It is surfaced before any
// hashing or store write happens, so invalid input never reaches either.
var ErrValidation = errors.New("validation_failed")

// PasswordPolicy describes the structural requirements for a password. Each
// character-class rule is independently togglable.
type PasswordPolicy struct {
	MinLength        int
	RequireUppercase bool
	RequireDigit     bool
	RequireSymbol    bool
}

// DefaultPasswordPolicy requires 8 characters and nothing else.
func DefaultPasswordPolicy() PasswordPolicy {
	return PasswordPolicy{MinLength: 8}
}

// CredentialValidator checks email and password strings before they are
// allowed anywhere near the hasher or the store.
type CredentialValidator struct {
	Policy PasswordPolicy
}

// Validate rejects a credential pair that fails address syntax or the
// password policy. It has no side effects.
func (v *CredentialValidator) Validate(email, password string) error {
	if err := v.ValidateEmail(email); err != nil {
		return err
	}
	return v.ValidatePassword(password)
}

// ValidateEmail checks the address against RFC 5322 syntax and requires a
// dotted domain, which rules out bare hostnames like "a@b".
func (v *CredentialValidator) ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return fmt.Errorf("%w: email is required", ErrValidation)
	}

	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return fmt.Errorf("%w: email is not a valid address", ErrValidation)
	}

	domain := email[strings.LastIndex(email, "@")+1:]
	if !strings.Contains(domain, ".") {
		return fmt.Errorf("%w: email domain is incomplete", ErrValidation)
	}

	return nil
}

// ValidatePassword enforces the configured length and character-class rules.
func (v *CredentialValidator) ValidatePassword(password string) error {
	minLength := v.Policy.MinLength
	if minLength <= 0 {
		minLength = DefaultPasswordPolicy().MinLength
	}

	if len(password) < minLength {
		return fmt.Errorf("%w: password must be at least %d characters", ErrValidation, minLength)
	}

	var hasUpper, hasDigit, hasSymbol bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			hasSymbol = true
		}
	}

	if v.Policy.RequireUppercase && !hasUpper {
		return fmt.Errorf("%w: password must contain an uppercase letter", ErrValidation)
	}
	if v.Policy.RequireDigit && !hasDigit {
		return fmt.Errorf("%w: password must contain a digit", ErrValidation)
	}
	if v.Policy.RequireSymbol && !hasSymbol {
		return fmt.Errorf("%w: password must contain a symbol", ErrValidation)
	}

	return nil
}

// NormalizeEmail is the canonical form used for storage and lookup: trimmed
// and lowercased, so the unique index cannot be dodged by case games.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
