package auth

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"safvacut-wallet-go/internal/apperr"
)

const (
	MsgFullName        = "Please enter your full name"
	MsgInvalidEmail    = "Please enter a valid email address"
	MsgPasswordLength  = "Password must be at least 8 characters long"
	MsgPasswordMatch   = "Passwords do not match"
	MsgAcceptTerms     = "Please accept the Terms of Service"
	MsgFillAllFields   = "Please fill in all fields"
	MinPasswordLength  = 8
	minDisplayNameRune = 2
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// SignUpInput is the raw sign-up form.
type SignUpInput struct {
	Name            string
	Email           string
	Password        string
	ConfirmPassword string
	AcceptedTerms   bool
}

// IsValidEmail applies the same loose address check the sign-up form uses.
func IsValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// ValidateSignUp reports the first failing rule only.
func ValidateSignUp(in SignUpInput) error {
	const op = "auth.ValidateSignUp"

	if utf8.RuneCountInString(strings.TrimSpace(in.Name)) < minDisplayNameRune {
		return apperr.NewValidation(op, MsgFullName)
	}
	if !IsValidEmail(in.Email) {
		return apperr.NewValidation(op, MsgInvalidEmail)
	}
	if len(in.Password) < MinPasswordLength {
		return apperr.NewValidation(op, MsgPasswordLength)
	}
	if in.Password != in.ConfirmPassword {
		return apperr.NewValidation(op, MsgPasswordMatch)
	}
	if !in.AcceptedTerms {
		return apperr.NewValidation(op, MsgAcceptTerms)
	}
	return nil
}

func ValidateSignIn(email, password string) error {
	if email == "" || password == "" {
		return apperr.NewValidation("auth.ValidateSignIn", MsgFillAllFields)
	}
	return nil
}
