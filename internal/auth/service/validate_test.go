package service

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCredentialValidator_Email(t *testing.T) {
	v := &CredentialValidator{Policy: DefaultPasswordPolicy()}

	tests := []struct {
		name    string
		email   string
		wantErr bool
	}{
		{"plain address", "alice@example.com", false},
		{"subdomain", "bob@mail.example.co.uk", false},
		{"plus tag", "carol+test@example.com", false},
		{"empty", "", true},
		{"missing at", "abc", true},
		{"missing domain", "alice@", true},
		{"missing local part", "@example.com", true},
		{"undotted domain", "alice@localhost", true},
		{"spaces inside", "alice @example.com", true},
		{"display name form", "Alice <alice@example.com>", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateEmail(tt.email)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrValidation)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestCredentialValidator_Password(t *testing.T) {
	tests := []struct {
		name     string
		policy   PasswordPolicy
		password string
		wantErr  bool
	}{
		{"meets default minimum", DefaultPasswordPolicy(), "12345678", false},
		{"below default minimum", DefaultPasswordPolicy(), "1234567", true},
		{"empty", DefaultPasswordPolicy(), "", true},
		{"zero policy falls back to default minimum", PasswordPolicy{}, "short", true},
		{
			"uppercase required and present",
			PasswordPolicy{MinLength: 8, RequireUppercase: true},
			"Password", false,
		},
		{
			"uppercase required and missing",
			PasswordPolicy{MinLength: 8, RequireUppercase: true},
			"password", true,
		},
		{
			"digit required and missing",
			PasswordPolicy{MinLength: 8, RequireDigit: true},
			"password", true,
		},
		{
			"symbol required and present",
			PasswordPolicy{MinLength: 8, RequireSymbol: true},
			"passw0rd!", false,
		},
		{
			"symbol required and missing",
			PasswordPolicy{MinLength: 8, RequireSymbol: true},
			"passw0rd", true,
		},
		{
			"all classes required and present",
			PasswordPolicy{MinLength: 8, RequireUppercase: true, RequireDigit: true, RequireSymbol: true},
			"P@ssw0rd", false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &CredentialValidator{Policy: tt.policy}
			err := v.ValidatePassword(tt.password)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrValidation)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestNormalizeEmail(t *testing.T) {
	require.Equal(t, "alice@example.com", NormalizeEmail("  Alice@Example.COM "))
	require.Equal(t, "bob@example.com", NormalizeEmail("bob@example.com"))
}
