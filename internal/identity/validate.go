// Package identity signs users up, in and out against an identity provider
// and tracks the signed-in user per storefront session.
package identity

import (
	"regexp"
	"strings"
)

// MinPasswordLen is the shortest password accepted at sign-up.
const MinPasswordLen = 8

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Form field names used as FieldErrors keys.
const (
	FieldEmail    = "email"
	FieldPassword = "password"
)

// Validation messages shown next to the offending field.
const (
	MsgInvalidEmail  = "Please enter a valid email address."
	MsgShortPassword = "Password must be at least 8 characters."
)

// FieldErrors maps a form field to its validation message. An empty map means
// the form is valid.
type FieldErrors map[string]string

// OK reports whether there are no field errors.
func (fe FieldErrors) OK() bool { return len(fe) == 0 }

func (fe FieldErrors) Error() string {
	parts := make([]string, 0, len(fe))
	for _, f := range []string{FieldEmail, FieldPassword} {
		if msg, ok := fe[f]; ok {
			parts = append(parts, f+": "+msg)
		}
	}
	return "invalid form: " + strings.Join(parts, "; ")
}

// ValidEmail reports whether s looks like an email address.
func ValidEmail(s string) bool {
	return emailRe.MatchString(s)
}

// ValidateSignup checks the sign-up form. Both fields are always checked so
// every error can be shown at once.
func ValidateSignup(email, password string) FieldErrors {
	fe := FieldErrors{}
	if !ValidEmail(email) {
		fe[FieldEmail] = MsgInvalidEmail
	}
	if len(password) < MinPasswordLen {
		fe[FieldPassword] = MsgShortPassword
	}
	return fe
}
